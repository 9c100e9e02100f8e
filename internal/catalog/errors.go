package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCatalog = errors.New("catalog: invalid catalog")
	ErrUnknownLayer   = errors.New("catalog: unknown layer")
	ErrUnsupportedVer = errors.New("catalog: unsupported schema version")
)

// NoField marks a ValidationError that is not tied to a field.
const NoField = -1

// ValidationError reports the first catalog rule violation found.
type ValidationError struct {
	Layer  LayerID
	Field  int
	Reason string
}

func (e ValidationError) Error() string {
	if e.Layer == "" {
		return fmt.Sprintf("catalog: %s", e.Reason)
	}
	if e.Field == NoField {
		return fmt.Sprintf("catalog: layer=%s: %s", e.Layer, e.Reason)
	}
	return fmt.Sprintf("catalog: layer=%s field=%d: %s", e.Layer, e.Field, e.Reason)
}

func (e ValidationError) Unwrap() error {
	return ErrInvalidCatalog
}
