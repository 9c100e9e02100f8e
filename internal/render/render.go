// Package render draws catalog and explorer views as terminal text.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/explorer"
	"github.com/danmuck/blestack/internal/navigator"
	"github.com/fatih/color"
)

// Columns spanned by a 100 percent packet diagram.
const diagramColumns = 72

var palette = map[string]color.Attribute{
	"blue":   color.FgHiBlue,
	"green":  color.FgHiGreen,
	"yellow": color.FgHiYellow,
	"purple": color.FgHiMagenta,
	"red":    color.FgHiRed,
	"indigo": color.FgBlue,
	"cyan":   color.FgHiCyan,
	"orange": color.FgYellow,
	"gray":   color.FgHiBlack,
}

// Renderer writes views to an io.Writer.
type Renderer struct {
	out     io.Writer
	colored bool
}

// New returns a renderer; colored=false writes plain text.
func New(out io.Writer, colored bool) *Renderer {
	return &Renderer{out: out, colored: colored}
}

func (r *Renderer) paint(name string, s string, extra ...color.Attribute) string {
	attrs := append([]color.Attribute{}, extra...)
	if attr, ok := palette[name]; ok {
		attrs = append(attrs, attr)
	}
	c := color.New(attrs...)
	if r.colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()(s)
}

func (r *Renderer) bold(s string) string {
	return r.paint("", s, color.Bold)
}

func (r *Renderer) faint(s string) string {
	return r.paint("gray", s)
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *Renderer) println(args ...any) {
	fmt.Fprintln(r.out, args...)
}

// View draws the active tab of a session view.
func (r *Renderer) View(cat *catalog.Catalog, v explorer.View) {
	r.tabs(v.Tab)
	switch v.Tab {
	case explorer.TabOverview:
		selected := catalog.LayerID("")
		if v.Overview != nil {
			selected = v.Overview.ID
		}
		r.Overview(cat, selected)
	case explorer.TabLayers:
		expanded := make(map[catalog.LayerID]bool, len(v.Expanded))
		for _, id := range v.Expanded {
			expanded[id] = true
		}
		r.Layers(cat, expanded)
	case explorer.TabPackets:
		r.Packets(cat)
	case explorer.TabDrilldown:
		r.Drilldown(v.Drilldown)
	}
}

func (r *Renderer) tabs(active explorer.Tab) {
	parts := make([]string, 0, len(explorer.Tabs()))
	for _, tab := range explorer.Tabs() {
		label := string(tab)
		if tab == active {
			label = r.paint("cyan", "["+label+"]", color.Bold)
		} else {
			label = r.faint(" " + label + " ")
		}
		parts = append(parts, label)
	}
	r.println(strings.Join(parts, " "))
	r.println()
}

// Overview lists the stack top to bottom and details the selected layer.
func (r *Renderer) Overview(cat *catalog.Catalog, selected catalog.LayerID) {
	r.println(r.bold("BLE Protocol Stack"))
	for _, layer := range cat.Stack() {
		marker := "  "
		if layer.ID == selected {
			marker = "> "
		}
		r.printf("%s%d  %-12s %s\n", marker, layer.Position, r.paint(layer.Color, layer.Name), layer.FullName)
	}
	if selected == "" {
		r.println()
		r.println(r.faint("overview <layer> to show details"))
		return
	}
	if layer, ok := cat.Layer(selected); ok {
		r.println()
		r.Layer(layer)
	}
}

// Layers draws one card per layer; expanded cards list functions, commands
// and fields.
func (r *Renderer) Layers(cat *catalog.Catalog, expanded map[catalog.LayerID]bool) {
	for _, layer := range cat.Stack() {
		marker := "+"
		if expanded[layer.ID] {
			marker = "-"
		}
		r.printf("%s %s\n", marker, r.paint(layer.Color, layer.DisplayTitle(), color.Bold))
		r.printf("  %s\n", layer.Description)
		if expanded[layer.ID] {
			r.layerBody(layer, "  ")
		}
		r.println()
	}
}

// Layer prints full detail of one layer.
func (r *Renderer) Layer(layer catalog.Layer) {
	r.println(r.paint(layer.Color, layer.DisplayTitle(), color.Bold))
	if layer.Description != "" {
		r.println(layer.Description)
	}
	r.layerBody(layer, "")
}

func (r *Renderer) layerBody(layer catalog.Layer, indent string) {
	if len(layer.Functions) > 0 {
		r.printf("%s%s\n", indent, r.bold("Functions"))
		for _, fn := range layer.Functions {
			r.printf("%s  - %s\n", indent, fn)
		}
	}
	if len(layer.Commands) > 0 {
		r.printf("%s%s\n", indent, r.bold("Commands"))
		for _, cmd := range layer.Commands {
			r.printf("%s  %s: %s\n", indent, cmd.Name, cmd.Description)
			if len(cmd.Parameters) > 0 {
				r.printf("%s    params: %s\n", indent, strings.Join(cmd.Parameters, ", "))
			}
		}
	}
	if len(layer.Fields) > 0 {
		r.printf("%s%s\n", indent, r.bold("Fields"))
		for i, f := range layer.Fields {
			r.printf("%s  %d. %s\n", indent, i, r.fieldLine(f))
		}
	}
}

func (r *Renderer) fieldLine(f catalog.Field) string {
	name := r.paint(f.Color, f.Name)
	if f.Encapsulating {
		return fmt.Sprintf("%s -> %s", name, f.Target)
	}
	return fmt.Sprintf("%s (%s)", name, f.WidthLabel())
}

// Packets draws the packet diagram of every layer in stack order.
func (r *Renderer) Packets(cat *catalog.Catalog) {
	for _, layer := range cat.Stack() {
		r.println(r.paint(layer.Color, layer.DisplayTitle(), color.Bold))
		r.diagram(navigator.ComputeLayout(layer))
		r.println()
	}
}

// Drilldown draws breadcrumbs, the packet diagram, field lists and the
// selected field of the packet explorer.
func (r *Renderer) Drilldown(d explorer.DrilldownView) {
	crumbs := make([]string, 0, len(d.Breadcrumbs))
	for _, crumb := range d.Breadcrumbs {
		if crumb.Current {
			crumbs = append(crumbs, r.bold(crumb.Name))
		} else {
			crumbs = append(crumbs, r.faint(crumb.Name))
		}
	}
	r.println(strings.Join(crumbs, " > "))
	r.println()
	r.println(r.paint(d.Layer.Color, d.Layer.DisplayTitle(), color.Bold))
	if d.Layer.Description != "" {
		r.println(d.Layer.Description)
	}
	r.println()
	r.diagram(d.Layout)
	r.println()

	if len(d.Fields.Terminal) > 0 {
		r.printf("%s (%s bytes)\n", r.bold("Fields"), formatBytes(d.TotalBytes))
		for _, f := range d.Fields.Terminal {
			marker := "  "
			if d.Selected != nil && d.Selected.Ref == f.Ref {
				marker = "* "
			}
			r.printf("%s%d. %s\n", marker, f.Ref.Index, r.fieldLine(f.Field))
		}
	}
	if len(d.Fields.Encapsulating) > 0 {
		r.println(r.bold("Encapsulated layers"))
		for _, f := range d.Fields.Encapsulating {
			r.printf("  %d. %s\n", f.Ref.Index, r.fieldLine(f.Field))
		}
	}
	if d.Selected != nil {
		r.println()
		r.selected(d.Selected.Field)
	}
	if d.CanGoBack {
		r.println()
		r.println(r.faint("back to return to the previous layer"))
	}
}

func (r *Renderer) selected(f catalog.Field) {
	r.printf("%s %s\n", r.bold("Selected:"), r.paint(f.Color, f.Name))
	r.printf("  size: %s\n", f.WidthLabel())
	if f.Description != "" {
		r.printf("  %s\n", f.Description)
	}
	if len(f.Values) > 0 {
		r.println("  example values:")
		for _, v := range f.Values {
			r.printf("    %s\n", v)
		}
	}
}

// diagram draws boxes scaled to diagramColumns. Pixel widths are treated as
// percent of a nominal 1000px row.
func (r *Renderer) diagram(l navigator.Layout) {
	var row strings.Builder
	for _, box := range l.Boxes {
		pct := box.Width
		if box.Unit == navigator.UnitPixels {
			pct = box.Width / 10
		}
		cols := int(math.Round(pct / 100 * diagramColumns))
		label := box.Name
		if box.Encapsulating {
			label += " >"
		}
		if cols < 3 {
			cols = 3
		}
		if len(label) > cols-2 {
			label = label[:cols-2]
		}
		cell := "[" + label + strings.Repeat(" ", cols-2-len(label)) + "]"
		row.WriteString(r.paint(box.Color, cell))
	}
	r.println(row.String())
	if len(l.Ruler) > 0 {
		marks := make([]string, 0, len(l.Ruler))
		for _, b := range l.Ruler {
			marks = append(marks, fmt.Sprintf("%d", b))
		}
		r.println(r.faint("bytes: " + strings.Join(marks, " ")))
	}
}

func formatBytes(b float64) string {
	if b == math.Trunc(b) {
		return fmt.Sprintf("%d", int(b))
	}
	return fmt.Sprintf("%.1f", b)
}
