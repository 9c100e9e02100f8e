package navigator

import (
	"github.com/danmuck/blestack/internal/catalog"
	"github.com/rs/zerolog/log"
)

// Navigator owns one drill-down State and applies transitions to it
// all-or-nothing. It is not safe for concurrent use.
type Navigator struct {
	cat   *catalog.Catalog
	state State
}

// New starts a navigator at the catalog root.
func New(cat *catalog.Catalog) *Navigator {
	return &Navigator{cat: cat, state: NewState(cat.Root())}
}

// Restore resumes a navigator from a previously captured state after
// checking it against cat.
func Restore(cat *catalog.Catalog, s State) (*Navigator, error) {
	if err := Check(cat, s); err != nil {
		return nil, err
	}
	return &Navigator{cat: cat, state: s.Clone()}, nil
}

// Catalog returns the catalog the navigator walks.
func (n *Navigator) Catalog() *catalog.Catalog {
	return n.cat
}

// State returns a snapshot of the current state.
func (n *Navigator) State() State {
	return n.state.Clone()
}

// Apply runs op and commits the result only on success.
func (n *Navigator) Apply(op Op) error {
	next, err := Apply(n.cat, n.state, op)
	if err != nil {
		log.Debug().
			Str("op", op.Kind.String()).
			Str("current", n.state.Current.String()).
			Err(err).
			Msg("navigator transition rejected")
		return err
	}
	log.Debug().
		Str("op", op.Kind.String()).
		Str("from", n.state.Current.String()).
		Str("to", next.Current.String()).
		Int("depth", next.Depth()).
		Msg("navigator transition")
	n.state = next
	return nil
}

func (n *Navigator) Descend(ref FieldRef) error {
	return n.Apply(Descend(ref))
}

func (n *Navigator) SelectField(ref FieldRef) error {
	return n.Apply(SelectField(ref))
}

func (n *Navigator) JumpTo(id catalog.LayerID) error {
	return n.Apply(JumpTo(id))
}

func (n *Navigator) GoBack() error {
	return n.Apply(GoBack())
}

// CanGoBack reports whether GoBack would succeed.
func (n *Navigator) CanGoBack() bool {
	return len(n.state.History) > 1
}

// CurrentLayer resolves the current layer id.
func (n *Navigator) CurrentLayer() catalog.Layer {
	layer, _ := n.cat.Layer(n.state.Current)
	return layer
}

// Breadcrumb is one entry of the navigation trail.
type Breadcrumb struct {
	ID      catalog.LayerID `json:"id"`
	Name    string          `json:"name"`
	Current bool            `json:"current"`
}

// Navigable reports whether the crumb is a jump target.
func (b Breadcrumb) Navigable() bool {
	return !b.Current
}

// Breadcrumbs maps the history to display names; the last entry is current.
func (n *Navigator) Breadcrumbs() []Breadcrumb {
	out := make([]Breadcrumb, 0, len(n.state.History))
	for i, id := range n.state.History {
		name := id.String()
		if layer, ok := n.cat.Layer(id); ok {
			name = layer.Name
		}
		out = append(out, Breadcrumb{
			ID:      id,
			Name:    name,
			Current: i == len(n.state.History)-1,
		})
	}
	return out
}

// IndexedField pairs a field with its reference in the current layer.
type IndexedField struct {
	Ref   FieldRef      `json:"ref"`
	Field catalog.Field `json:"field"`
}

// FieldPartition splits a layer's fields by kind, keeping catalog order.
type FieldPartition struct {
	Terminal      []IndexedField `json:"terminal"`
	Encapsulating []IndexedField `json:"encapsulating"`
}

// VisibleFields partitions the current layer's fields.
func (n *Navigator) VisibleFields() FieldPartition {
	return partition(n.CurrentLayer())
}

func partition(layer catalog.Layer) FieldPartition {
	out := FieldPartition{
		Terminal:      []IndexedField{},
		Encapsulating: []IndexedField{},
	}
	for i, f := range layer.Fields {
		entry := IndexedField{Ref: FieldRef{Layer: layer.ID, Index: i}, Field: f}
		if f.Encapsulating {
			out.Encapsulating = append(out.Encapsulating, entry)
		} else {
			out.Terminal = append(out.Terminal, entry)
		}
	}
	return out
}

// TotalTerminalByteWidth sums ByteWidth over terminal fields of the current
// layer. Variable fields contribute zero.
func (n *Navigator) TotalTerminalByteWidth() float64 {
	return totalTerminalBytes(n.CurrentLayer())
}

func totalTerminalBytes(layer catalog.Layer) float64 {
	total := 0.0
	for _, f := range layer.Fields {
		if f.Encapsulating {
			continue
		}
		total += f.ByteWidth
	}
	return total
}

// SelectedField resolves the current selection.
func (n *Navigator) SelectedField() (IndexedField, bool) {
	if n.state.Selected == nil {
		return IndexedField{}, false
	}
	f, ok := n.CurrentLayer().Field(n.state.Selected.Index)
	if !ok {
		return IndexedField{}, false
	}
	return IndexedField{Ref: *n.state.Selected, Field: f}, true
}

// Layout computes the packet diagram for the current layer.
func (n *Navigator) Layout() Layout {
	return ComputeLayout(n.CurrentLayer())
}
