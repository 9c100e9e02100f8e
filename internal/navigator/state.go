package navigator

import (
	"fmt"

	"github.com/danmuck/blestack/internal/catalog"
)

// FieldRef points at one field of one layer by position.
type FieldRef struct {
	Layer catalog.LayerID `json:"layer"`
	Index int             `json:"index"`
}

func (r FieldRef) String() string {
	return fmt.Sprintf("%s[%d]", r.Layer, r.Index)
}

// State is one node of the drill-down state machine.
type State struct {
	Current  catalog.LayerID   `json:"current"`
	History  []catalog.LayerID `json:"history"`
	Selected *FieldRef         `json:"selected,omitempty"`
}

// NewState is the initial state: history holds only root.
func NewState(root catalog.LayerID) State {
	return State{Current: root, History: []catalog.LayerID{root}}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		Current: s.Current,
		History: append([]catalog.LayerID(nil), s.History...),
	}
	if s.Selected != nil {
		sel := *s.Selected
		out.Selected = &sel
	}
	return out
}

// Equal compares every component of two states.
func (s State) Equal(o State) bool {
	if s.Current != o.Current || len(s.History) != len(o.History) {
		return false
	}
	for i := range s.History {
		if s.History[i] != o.History[i] {
			return false
		}
	}
	switch {
	case s.Selected == nil && o.Selected == nil:
		return true
	case s.Selected == nil || o.Selected == nil:
		return false
	default:
		return *s.Selected == *o.Selected
	}
}

// Depth is the number of layers on the breadcrumb trail.
func (s State) Depth() int {
	return len(s.History)
}

func (s State) indexOf(id catalog.LayerID) int {
	for i, h := range s.History {
		if h == id {
			return i
		}
	}
	return -1
}

// Check verifies every state invariant against cat.
func Check(cat *catalog.Catalog, s State) error {
	if len(s.History) == 0 {
		return fmt.Errorf("navigator: empty history")
	}
	if s.History[0] != cat.Root() {
		return fmt.Errorf("navigator: history starts at %s, want root %s", s.History[0], cat.Root())
	}
	if last := s.History[len(s.History)-1]; last != s.Current {
		return fmt.Errorf("navigator: history ends at %s, current is %s", last, s.Current)
	}
	for i, id := range s.History {
		if !cat.Has(id) {
			return fmt.Errorf("navigator: history[%d]=%s not in catalog", i, id)
		}
		if i > 0 && s.History[i-1] == id {
			return fmt.Errorf("navigator: duplicate adjacent history entry %s at %d", id, i)
		}
	}
	if s.Selected != nil {
		if s.Selected.Layer != s.Current {
			return fmt.Errorf("navigator: selection %s outside current layer %s", s.Selected, s.Current)
		}
		layer, _ := cat.Layer(s.Current)
		f, ok := layer.Field(s.Selected.Index)
		if !ok {
			return fmt.Errorf("navigator: selection %s out of range", s.Selected)
		}
		if f.Encapsulating {
			return fmt.Errorf("navigator: selection %s is an encapsulating field", s.Selected)
		}
	}
	return nil
}
