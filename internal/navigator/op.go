package navigator

import (
	"github.com/danmuck/blestack/internal/catalog"
)

// OpKind names a navigator transition.
type OpKind int

const (
	OpDescend OpKind = iota + 1
	OpSelectField
	OpJumpTo
	OpGoBack
)

func (k OpKind) String() string {
	switch k {
	case OpDescend:
		return "descend"
	case OpSelectField:
		return "select_field"
	case OpJumpTo:
		return "jump_to"
	case OpGoBack:
		return "go_back"
	default:
		return "unknown"
	}
}

// Op is one requested transition. Field is used by descend and select,
// Layer by jump.
type Op struct {
	Kind  OpKind
	Field FieldRef
	Layer catalog.LayerID
}

func Descend(ref FieldRef) Op { return Op{Kind: OpDescend, Field: ref} }
func SelectField(ref FieldRef) Op { return Op{Kind: OpSelectField, Field: ref} }
func JumpTo(id catalog.LayerID) Op { return Op{Kind: OpJumpTo, Layer: id} }
func GoBack() Op { return Op{Kind: OpGoBack} }

// Apply is the pure transition function. s is never modified; on error the
// returned state is s unchanged.
func Apply(cat *catalog.Catalog, s State, op Op) (State, error) {
	switch op.Kind {
	case OpDescend:
		return descend(cat, s, op.Field, OpDescend)
	case OpSelectField:
		return selectField(cat, s, op.Field)
	case OpJumpTo:
		return jumpTo(s, op.Layer)
	case OpGoBack:
		return goBack(s)
	default:
		return s, &TransitionError{Op: op.Kind, Field: -1, Reason: "unknown operation", Err: ErrInvalidTransition}
	}
}

func resolveField(cat *catalog.Catalog, s State, ref FieldRef, op OpKind) (catalog.Field, error) {
	if ref.Layer != s.Current {
		return catalog.Field{}, invalid(op, ref, "field is not in the current layer "+s.Current.String())
	}
	layer, ok := cat.Layer(s.Current)
	if !ok {
		return catalog.Field{}, invalid(op, ref, "current layer not in catalog")
	}
	f, ok := layer.Field(ref.Index)
	if !ok {
		return catalog.Field{}, invalid(op, ref, "field index out of range")
	}
	return f, nil
}

func descend(cat *catalog.Catalog, s State, ref FieldRef, op OpKind) (State, error) {
	f, err := resolveField(cat, s, ref, op)
	if err != nil {
		return s, err
	}
	if !f.Encapsulating {
		return s, invalid(op, ref, "field is not encapsulating")
	}
	if !cat.Has(f.Target) {
		return s, invalid(op, ref, "target "+f.Target.String()+" not in catalog")
	}
	next := s.Clone()
	next.History = append(next.History, f.Target)
	next.Current = f.Target
	next.Selected = nil
	return next, nil
}

// selectField descends through encapsulating fields; a click on a payload
// always navigates.
func selectField(cat *catalog.Catalog, s State, ref FieldRef) (State, error) {
	f, err := resolveField(cat, s, ref, OpSelectField)
	if err != nil {
		return s, err
	}
	if f.Encapsulating {
		return descend(cat, s, ref, OpSelectField)
	}
	next := s.Clone()
	sel := ref
	next.Selected = &sel
	return next, nil
}

func jumpTo(s State, id catalog.LayerID) (State, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return s, &TransitionError{Op: OpJumpTo, Layer: id, Field: -1, Reason: "not on the breadcrumb trail", Err: ErrNotInHistory}
	}
	next := State{
		Current: id,
		History: append([]catalog.LayerID(nil), s.History[:idx+1]...),
	}
	return next, nil
}

func goBack(s State) (State, error) {
	if len(s.History) <= 1 {
		return s, &TransitionError{Op: OpGoBack, Layer: s.Current, Field: -1, Reason: "history has a single entry", Err: ErrAtRoot}
	}
	next := State{History: append([]catalog.LayerID(nil), s.History[:len(s.History)-1]...)}
	next.Current = next.History[len(next.History)-1]
	return next, nil
}
