package navigator

import (
	"errors"
	"fmt"

	"github.com/danmuck/blestack/internal/catalog"
)

var (
	ErrInvalidTransition = errors.New("navigator: invalid transition")
	ErrNotInHistory      = errors.New("navigator: layer not in history")
	ErrAtRoot            = errors.New("navigator: already at root")
)

// Stable error kind names reported to clients.
const (
	KindInvalidTransition = "invalid_transition"
	KindNotInHistory      = "not_in_history"
	KindAtRoot            = "at_root"
)

// TransitionError describes a rejected operation. The navigator state is
// unchanged whenever one is returned.
type TransitionError struct {
	Op     OpKind
	Layer  catalog.LayerID
	Field  int
	Reason string
	Err    error
}

func (e *TransitionError) Error() string {
	switch {
	case e.Field >= 0:
		return fmt.Sprintf("%v: op=%s layer=%s field=%d: %s", e.Err, e.Op, e.Layer, e.Field, e.Reason)
	case e.Layer != "":
		return fmt.Sprintf("%v: op=%s layer=%s: %s", e.Err, e.Op, e.Layer, e.Reason)
	default:
		return fmt.Sprintf("%v: op=%s: %s", e.Err, e.Op, e.Reason)
	}
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// Kind maps a navigator error to its stable name, or "" for other errors.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrNotInHistory):
		return KindNotInHistory
	case errors.Is(err, ErrAtRoot):
		return KindAtRoot
	default:
		return ""
	}
}

func invalid(op OpKind, ref FieldRef, reason string) error {
	return &TransitionError{Op: op, Layer: ref.Layer, Field: ref.Index, Reason: reason, Err: ErrInvalidTransition}
}
