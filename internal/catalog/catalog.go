package catalog

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Catalog is a validated, read-only set of layer descriptors.
type Catalog struct {
	root   LayerID
	layers map[LayerID]Layer
	order  []LayerID
	graph  Graph
}

// New validates layers once and returns an immutable catalog rooted at root.
// The first violation found is returned as a ValidationError.
func New(root LayerID, layers ...Layer) (*Catalog, error) {
	log.Debug().Str("root", root.String()).Int("layers", len(layers)).Msg("catalog.New")
	if !root.Valid() {
		return nil, ValidationError{Layer: root, Field: NoField, Reason: "root is not a known layer id"}
	}

	c := &Catalog{
		root:   root,
		layers: make(map[LayerID]Layer, len(layers)),
		order:  make([]LayerID, 0, len(layers)),
	}
	for _, layer := range layers {
		if err := validateLayer(layer); err != nil {
			return nil, err
		}
		if _, dup := c.layers[layer.ID]; dup {
			return nil, ValidationError{Layer: layer.ID, Field: NoField, Reason: "duplicate layer id"}
		}
		c.layers[layer.ID] = layer.clone()
		c.order = append(c.order, layer.ID)
	}

	if _, ok := c.layers[root]; !ok {
		return nil, ValidationError{Layer: root, Field: NoField, Reason: "root layer missing"}
	}
	for _, id := range c.order {
		for i, f := range c.layers[id].Fields {
			if !f.Encapsulating {
				continue
			}
			if _, ok := c.layers[f.Target]; !ok {
				return nil, ValidationError{Layer: id, Field: i, Reason: "target layer " + f.Target.String() + " not in catalog"}
			}
		}
	}

	c.graph = buildGraph(c.order, c.layers)
	if cycle := c.graph.findCycle(c.order); cycle != nil {
		return nil, ValidationError{Layer: cycle[0], Field: NoField, Reason: "encapsulation cycle " + joinIDs(cycle)}
	}

	log.Info().
		Str("root", root.String()).
		Int("layers", len(c.order)).
		Int("depth", c.Depth()).
		Msg("catalog validated")
	return c, nil
}

// MustNew is New for built-in content; it panics on invalid input.
func MustNew(root LayerID, layers ...Layer) *Catalog {
	c, err := New(root, layers...)
	if err != nil {
		panic(err)
	}
	return c
}

func validateLayer(layer Layer) error {
	if !layer.ID.Valid() {
		return ValidationError{Layer: layer.ID, Field: NoField, Reason: "unknown layer id"}
	}
	if strings.TrimSpace(layer.Name) == "" {
		return ValidationError{Layer: layer.ID, Field: NoField, Reason: "name is required"}
	}
	for i, f := range layer.Fields {
		if err := validateField(layer.ID, i, f); err != nil {
			return err
		}
	}
	return nil
}

func validateField(id LayerID, i int, f Field) error {
	if strings.TrimSpace(f.Name) == "" {
		return ValidationError{Layer: id, Field: i, Reason: "name is required"}
	}
	if f.Encapsulating {
		if f.Target == "" {
			return ValidationError{Layer: id, Field: i, Reason: "encapsulating field without target"}
		}
		if !f.Target.Valid() {
			return ValidationError{Layer: id, Field: i, Reason: "target " + f.Target.String() + " is not a known layer id"}
		}
		if f.BitWidth != 0 || f.ByteWidth != 0 {
			return ValidationError{Layer: id, Field: i, Reason: "encapsulating field must not declare a width"}
		}
		return nil
	}
	if f.Target != "" {
		return ValidationError{Layer: id, Field: i, Reason: "terminal field must not declare a target"}
	}
	if f.BitWidth < 0 || f.ByteWidth < 0 {
		return ValidationError{Layer: id, Field: i, Reason: "negative width"}
	}
	if float64(f.BitWidth) != f.ByteWidth*8 {
		return ValidationError{Layer: id, Field: i, Reason: "byte_width does not match bit_width"}
	}
	return nil
}

// Root is the layer drill-down navigation starts from.
func (c *Catalog) Root() LayerID {
	return c.root
}

// Has reports whether id is present in the catalog.
func (c *Catalog) Has(id LayerID) bool {
	_, ok := c.layers[id]
	return ok
}

// Layer returns a copy of the descriptor for id.
func (c *Catalog) Layer(id LayerID) (Layer, bool) {
	layer, ok := c.layers[id]
	if !ok {
		return Layer{}, false
	}
	return layer.clone(), true
}

// Len returns the number of layers.
func (c *Catalog) Len() int {
	return len(c.order)
}

// IDs returns layer ids in declaration order.
func (c *Catalog) IDs() []LayerID {
	out := make([]LayerID, len(c.order))
	copy(out, c.order)
	return out
}

// Layers returns copies of all layers in declaration order.
func (c *Catalog) Layers() []Layer {
	out := make([]Layer, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.layers[id].clone())
	}
	return out
}

// Stack returns layers ordered top of stack first (highest position).
func (c *Catalog) Stack() []Layer {
	out := c.Layers()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position > out[j].Position
	})
	return out
}

// Graph returns the encapsulation graph.
func (c *Catalog) Graph() Graph {
	return c.graph.clone()
}

// Chain follows the first encapsulating field of each layer from id down to
// a layer with no nested payload.
func (c *Catalog) Chain(from LayerID) []LayerID {
	if !c.Has(from) {
		return nil
	}
	chain := []LayerID{from}
	for cur := from; ; {
		targets := c.layers[cur].Targets()
		if len(targets) == 0 {
			return chain
		}
		cur = targets[0]
		chain = append(chain, cur)
	}
}

// Depth is the number of layers on the longest encapsulation path from root.
func (c *Catalog) Depth() int {
	return c.graph.longestPath(c.root)
}

func joinIDs(ids []LayerID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, " -> ")
}
