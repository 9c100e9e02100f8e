package catalog

import "sort"

// Graph maps each layer to the distinct layers its encapsulating fields
// point at, sorted by id.
type Graph map[LayerID][]LayerID

func buildGraph(order []LayerID, layers map[LayerID]Layer) Graph {
	g := make(Graph, len(order))
	for _, id := range order {
		seen := make(map[LayerID]bool)
		targets := []LayerID{}
		for _, t := range layers[id].Targets() {
			if seen[t] {
				continue
			}
			seen[t] = true
			targets = append(targets, t)
		}
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
		g[id] = targets
	}
	return g
}

func (g Graph) clone() Graph {
	out := make(Graph, len(g))
	for id, targets := range g {
		out[id] = append([]LayerID(nil), targets...)
	}
	return out
}

// Edges returns the number of distinct encapsulation edges.
func (g Graph) Edges() int {
	n := 0
	for _, targets := range g {
		n += len(targets)
	}
	return n
}

const (
	unvisited = iota
	visiting
	done
)

// findCycle runs a colored DFS from every layer in order and returns the first
// cycle found as a closed path (first == last), or nil.
func (g Graph) findCycle(order []LayerID) []LayerID {
	state := make(map[LayerID]int, len(g))
	var stack []LayerID

	var visit func(id LayerID) []LayerID
	visit = func(id LayerID) []LayerID {
		state[id] = visiting
		stack = append(stack, id)
		for _, next := range g[id] {
			switch state[next] {
			case visiting:
				for i, onStack := range stack {
					if onStack == next {
						cycle := append([]LayerID(nil), stack[i:]...)
						return append(cycle, next)
					}
				}
			case unvisited:
				if cycle := visit(next); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	for _, id := range order {
		if state[id] != unvisited {
			continue
		}
		if cycle := visit(id); cycle != nil {
			return cycle
		}
	}
	return nil
}

// longestPath counts layers on the longest path starting at from. The graph
// must be acyclic.
func (g Graph) longestPath(from LayerID) int {
	memo := make(map[LayerID]int, len(g))
	var depth func(id LayerID) int
	depth = func(id LayerID) int {
		if d, ok := memo[id]; ok {
			return d
		}
		best := 0
		for _, next := range g[id] {
			if d := depth(next); d > best {
				best = d
			}
		}
		memo[id] = best + 1
		return best + 1
	}
	if _, ok := g[from]; !ok {
		return 0
	}
	return depth(from)
}
