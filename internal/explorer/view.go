package explorer

import (
	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/navigator"
)

// View is a read-only snapshot of a session for renderers and clients.
type View struct {
	Tab       Tab               `json:"tab"`
	Expanded  []catalog.LayerID `json:"expanded"`
	Overview  *catalog.Layer    `json:"overview,omitempty"`
	Drilldown DrilldownView     `json:"drilldown"`
}

// DrilldownView is everything the packet explorer renders.
type DrilldownView struct {
	State       navigator.State          `json:"state"`
	Layer       catalog.Layer            `json:"layer"`
	Breadcrumbs []navigator.Breadcrumb   `json:"breadcrumbs"`
	Fields      navigator.FieldPartition `json:"fields"`
	TotalBytes  float64                  `json:"total_bytes"`
	Layout      navigator.Layout         `json:"layout"`
	Selected    *navigator.IndexedField  `json:"selected,omitempty"`
	CanGoBack   bool                     `json:"can_go_back"`
}

// View captures the current session state.
func (s *Session) View() View {
	out := View{
		Tab:       s.tab,
		Expanded:  s.Expanded(),
		Drilldown: s.Drilldown(),
	}
	if id, ok := s.OverviewSelection(); ok {
		if layer, found := s.cat.Layer(id); found {
			out.Overview = &layer
		}
	}
	return out
}

// Drilldown captures the navigator projection.
func (s *Session) Drilldown() DrilldownView {
	out := DrilldownView{
		State:       s.nav.State(),
		Layer:       s.nav.CurrentLayer(),
		Breadcrumbs: s.nav.Breadcrumbs(),
		Fields:      s.nav.VisibleFields(),
		TotalBytes:  s.nav.TotalTerminalByteWidth(),
		Layout:      s.nav.Layout(),
		CanGoBack:   s.nav.CanGoBack(),
	}
	if sel, ok := s.nav.SelectedField(); ok {
		out.Selected = &sel
	}
	return out
}
