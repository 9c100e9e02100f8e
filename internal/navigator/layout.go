package navigator

import (
	"math"

	"github.com/danmuck/blestack/internal/catalog"
)

// Packet diagram sizing.
const (
	FixedSharePercent = 80.0
	MinFixedPercent   = 8.0
	VariableWidthPx   = 120.0
	PayloadWidthPx    = 150.0
)

// WidthUnit is the unit of a Box width.
type WidthUnit string

const (
	UnitPercent WidthUnit = "percent"
	UnitPixels  WidthUnit = "px"
)

// Box is one field rendered in the packet diagram.
type Box struct {
	Ref           FieldRef  `json:"ref"`
	Name          string    `json:"name"`
	Label         string    `json:"label"`
	Color         string    `json:"color,omitempty"`
	Width         float64   `json:"width"`
	Unit          WidthUnit `json:"unit"`
	Variable      bool      `json:"variable"`
	Encapsulating bool      `json:"encapsulating"`
}

// Layout is the packet diagram of one layer.
type Layout struct {
	Layer      catalog.LayerID `json:"layer"`
	Boxes      []Box           `json:"boxes"`
	TotalBytes float64         `json:"total_bytes"`
	// Ruler holds byte offsets 0..ceil(TotalBytes); empty when nothing has
	// a fixed width.
	Ruler []int `json:"ruler"`
}

// ComputeLayout sizes fixed fields proportionally to their byte width within
// FixedSharePercent, never below MinFixedPercent. Variable and payload
// fields get nominal pixel widths and are excluded from the byte total.
func ComputeLayout(layer catalog.Layer) Layout {
	total := totalTerminalBytes(layer)
	out := Layout{
		Layer:      layer.ID,
		Boxes:      make([]Box, 0, len(layer.Fields)),
		TotalBytes: total,
		Ruler:      []int{},
	}
	for i, f := range layer.Fields {
		box := Box{
			Ref:           FieldRef{Layer: layer.ID, Index: i},
			Name:          f.Name,
			Label:         f.WidthLabel(),
			Color:         f.Color,
			Variable:      f.IsVariable(),
			Encapsulating: f.Encapsulating,
		}
		switch {
		case f.Encapsulating:
			box.Width, box.Unit = PayloadWidthPx, UnitPixels
		case box.Variable:
			box.Width, box.Unit = VariableWidthPx, UnitPixels
		default:
			box.Width = math.Max(f.ByteWidth/total*FixedSharePercent, MinFixedPercent)
			box.Unit = UnitPercent
		}
		out.Boxes = append(out.Boxes, box)
	}
	if total > 0 {
		for i := 0; i <= int(math.Ceil(total)); i++ {
			out.Ruler = append(out.Ruler, i)
		}
	}
	return out
}
