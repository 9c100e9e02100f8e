// Package explorer holds the presentation-side state of one user session and
// maps user interaction events onto navigator operations.
package explorer

import (
	"errors"
	"fmt"

	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/navigator"
	"github.com/danmuck/blestack/internal/observability"
	"github.com/rs/zerolog/log"
)

var ErrBadEvent = errors.New("explorer: malformed event")

// Tab is one of the top level views.
type Tab string

const (
	TabOverview  Tab = "overview"
	TabLayers    Tab = "layers"
	TabPackets   Tab = "packets"
	TabDrilldown Tab = "drilldown"
)

// Tabs lists the tabs in display order.
func Tabs() []Tab {
	return []Tab{TabOverview, TabLayers, TabPackets, TabDrilldown}
}

func (t Tab) Valid() bool {
	for _, known := range Tabs() {
		if t == known {
			return true
		}
	}
	return false
}

// Session is the UI state of one explorer: active tab, expanded layer cards,
// the overview selection and the drill-down navigator. Not safe for
// concurrent use.
type Session struct {
	cat      *catalog.Catalog
	nav      *navigator.Navigator
	tab      Tab
	expanded map[catalog.LayerID]bool
	overview catalog.LayerID
}

// New starts a session on the overview tab with nothing expanded.
func New(cat *catalog.Catalog) *Session {
	return &Session{
		cat:      cat,
		nav:      navigator.New(cat),
		tab:      TabOverview,
		expanded: make(map[catalog.LayerID]bool),
	}
}

func (s *Session) Catalog() *catalog.Catalog {
	return s.cat
}

func (s *Session) Navigator() *navigator.Navigator {
	return s.nav
}

func (s *Session) Tab() Tab {
	return s.tab
}

// SelectTab switches the active tab.
func (s *Session) SelectTab(t Tab) error {
	if !t.Valid() {
		return fmt.Errorf("%w: unknown tab %q", ErrBadEvent, t)
	}
	s.tab = t
	return nil
}

func (s *Session) requireLayer(id catalog.LayerID) error {
	if !s.cat.Has(id) {
		return fmt.Errorf("%w: %w %q", ErrBadEvent, catalog.ErrUnknownLayer, id)
	}
	return nil
}

// ToggleExpanded flips a layer card between expanded and collapsed and
// returns the new expansion.
func (s *Session) ToggleExpanded(id catalog.LayerID) (bool, error) {
	if err := s.requireLayer(id); err != nil {
		return false, err
	}
	if s.expanded[id] {
		delete(s.expanded, id)
		return false, nil
	}
	s.expanded[id] = true
	return true, nil
}

func (s *Session) IsExpanded(id catalog.LayerID) bool {
	return s.expanded[id]
}

// Expanded returns expanded layer ids in stack order.
func (s *Session) Expanded() []catalog.LayerID {
	out := []catalog.LayerID{}
	for _, layer := range s.cat.Stack() {
		if s.expanded[layer.ID] {
			out = append(out, layer.ID)
		}
	}
	return out
}

// ToggleOverview selects id in the overview panel, or clears the selection
// when id is already selected.
func (s *Session) ToggleOverview(id catalog.LayerID) error {
	if err := s.requireLayer(id); err != nil {
		return err
	}
	if s.overview == id {
		s.overview = ""
		return nil
	}
	s.overview = id
	return nil
}

// OverviewSelection returns the layer selected in the overview panel.
func (s *Session) OverviewSelection() (catalog.LayerID, bool) {
	return s.overview, s.overview != ""
}

// Dispatch applies one interaction event. A rejected event leaves the
// session unchanged.
func (s *Session) Dispatch(ev Event) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	switch ev.Kind {
	case EventSelectTab:
		return s.SelectTab(ev.Tab)
	case EventClickLayerCard:
		_, err := s.ToggleExpanded(ev.Layer)
		return err
	case EventClickOverviewLayer:
		return s.ToggleOverview(ev.Layer)
	case EventClickField:
		return s.navigate(navigator.SelectField(*ev.Field))
	case EventClickBreadcrumb:
		return s.navigate(navigator.JumpTo(ev.Layer))
	case EventClickBack:
		return s.navigate(navigator.GoBack())
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrBadEvent, ev.Kind)
	}
}

func (s *Session) navigate(op navigator.Op) error {
	err := s.nav.Apply(op)
	outcome := "ok"
	if err != nil {
		outcome = navigator.Kind(err)
		log.Debug().Str("op", op.Kind.String()).Err(err).Msg("explorer event rejected")
	}
	observability.RecordTransition(op.Kind.String(), outcome)
	return err
}
