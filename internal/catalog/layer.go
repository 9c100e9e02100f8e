package catalog

import (
	"fmt"
	"strings"
)

// LayerID is a stable identifier from the closed set of BLE layers.
type LayerID string

const (
	LayerApplication LayerID = "application"
	LayerGATT        LayerID = "gatt"
	LayerGAP         LayerID = "gap"
	LayerATT         LayerID = "att"
	LayerSMP         LayerID = "smp"
	LayerL2CAP       LayerID = "l2cap"
	LayerHCI         LayerID = "hci"
	LayerLink        LayerID = "link"
)

// DefaultRoot is where drill-down navigation starts.
const DefaultRoot = LayerLink

var knownLayers = []LayerID{
	LayerApplication,
	LayerGATT,
	LayerGAP,
	LayerATT,
	LayerSMP,
	LayerL2CAP,
	LayerHCI,
	LayerLink,
}

// KnownLayerIDs returns the closed set of layer ids, top of stack first.
func KnownLayerIDs() []LayerID {
	out := make([]LayerID, len(knownLayers))
	copy(out, knownLayers)
	return out
}

// Valid reports whether id belongs to the closed enumeration.
func (id LayerID) Valid() bool {
	for _, known := range knownLayers {
		if id == known {
			return true
		}
	}
	return false
}

func (id LayerID) String() string {
	return string(id)
}

// ParseLayerID normalizes raw and checks it against the closed enumeration.
func ParseLayerID(raw string) (LayerID, error) {
	id := LayerID(strings.ToLower(strings.TrimSpace(raw)))
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownLayer, raw)
	}
	return id, nil
}

// Command is one entry of a layer's key command set.
type Command struct {
	Name        string   `json:"name" toml:"name"`
	Description string   `json:"description" toml:"description"`
	Parameters  []string `json:"parameters,omitempty" toml:"parameters,omitempty"`
}

// Field describes one packet field. A field is either terminal data with a
// width, or an encapsulating payload pointing at another layer.
type Field struct {
	Name        string `json:"name" toml:"name"`
	Description string `json:"description" toml:"description"`
	Color       string `json:"color,omitempty" toml:"color,omitempty"`
	// BitWidth 0 on a terminal field means variable length.
	BitWidth  int     `json:"bit_width" toml:"bit_width"`
	ByteWidth float64 `json:"byte_width" toml:"byte_width"`
	// SizeLabel overrides the derived width label when set.
	SizeLabel     string   `json:"size_label,omitempty" toml:"size_label,omitempty"`
	Values        []string `json:"values,omitempty" toml:"values,omitempty"`
	Encapsulating bool     `json:"encapsulating" toml:"encapsulating"`
	Target        LayerID  `json:"target,omitempty" toml:"target,omitempty"`
}

// IsTerminal reports whether f carries data rather than a nested layer.
func (f Field) IsTerminal() bool {
	return !f.Encapsulating
}

// IsVariable reports whether f is a terminal field without a fixed width.
func (f Field) IsVariable() bool {
	return !f.Encapsulating && f.BitWidth == 0
}

// WidthLabel is the short width annotation shown next to a field.
func (f Field) WidthLabel() string {
	if f.SizeLabel != "" {
		return f.SizeLabel
	}
	if f.BitWidth == 0 {
		return "Variable"
	}
	return fmt.Sprintf("%d bits", f.BitWidth)
}

// Layer is the descriptor of one protocol layer.
type Layer struct {
	ID          LayerID   `json:"id" toml:"id"`
	Name        string    `json:"name" toml:"name"`
	FullName    string    `json:"full_name" toml:"full_name"`
	Title       string    `json:"title,omitempty" toml:"title,omitempty"`
	Description string    `json:"description" toml:"description"`
	Color       string    `json:"color,omitempty" toml:"color,omitempty"`
	Position    int       `json:"position" toml:"position"`
	Functions   []string  `json:"functions,omitempty" toml:"functions,omitempty"`
	Commands    []Command `json:"commands,omitempty" toml:"commands,omitempty"`
	Fields      []Field   `json:"fields" toml:"fields"`
}

// DisplayTitle falls back to "Name (FullName)" when Title is empty.
func (l Layer) DisplayTitle() string {
	if l.Title != "" {
		return l.Title
	}
	if l.FullName == "" || l.FullName == l.Name {
		return l.Name
	}
	return fmt.Sprintf("%s (%s)", l.Name, l.FullName)
}

// Field returns the field at index i.
func (l Layer) Field(i int) (Field, bool) {
	if i < 0 || i >= len(l.Fields) {
		return Field{}, false
	}
	return l.Fields[i], true
}

// Targets returns the encapsulated layer ids in field order.
func (l Layer) Targets() []LayerID {
	var out []LayerID
	for _, f := range l.Fields {
		if f.Encapsulating {
			out = append(out, f.Target)
		}
	}
	return out
}

func (l Layer) clone() Layer {
	out := l
	out.Functions = append([]string(nil), l.Functions...)
	out.Commands = make([]Command, len(l.Commands))
	for i, c := range l.Commands {
		c.Parameters = append([]string(nil), c.Parameters...)
		out.Commands[i] = c
	}
	out.Fields = make([]Field, len(l.Fields))
	for i, f := range l.Fields {
		f.Values = append([]string(nil), f.Values...)
		out.Fields[i] = f
	}
	return out
}
