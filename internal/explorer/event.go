package explorer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/navigator"
)

// EventKind names a user interaction at the input boundary.
type EventKind string

const (
	EventSelectTab          EventKind = "select-tab"
	EventClickLayerCard     EventKind = "click-layer-card"
	EventClickOverviewLayer EventKind = "click-overview-layer"
	EventClickField         EventKind = "click-field"
	EventClickBreadcrumb    EventKind = "click-breadcrumb"
	EventClickBack          EventKind = "click-back"
)

// Event is one interaction. Tab is used by select-tab, Layer by card,
// overview and breadcrumb clicks, Field by field clicks.
type Event struct {
	Kind  EventKind           `json:"kind"`
	Tab   Tab                 `json:"tab,omitempty"`
	Layer catalog.LayerID     `json:"layer,omitempty"`
	Field *navigator.FieldRef `json:"field,omitempty"`
}

// Validate checks that the payload required by Kind is present.
func (e Event) Validate() error {
	switch e.Kind {
	case EventSelectTab:
		if e.Tab == "" {
			return fmt.Errorf("%w: %s requires tab", ErrBadEvent, e.Kind)
		}
	case EventClickLayerCard, EventClickOverviewLayer, EventClickBreadcrumb:
		if e.Layer == "" {
			return fmt.Errorf("%w: %s requires layer", ErrBadEvent, e.Kind)
		}
	case EventClickField:
		if e.Field == nil {
			return fmt.Errorf("%w: %s requires field", ErrBadEvent, e.Kind)
		}
	case EventClickBack:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrBadEvent, e.Kind)
	}
	return nil
}

// ClickField is the event for clicking field index i of the current layer.
func ClickField(layer catalog.LayerID, i int) Event {
	return Event{Kind: EventClickField, Field: &navigator.FieldRef{Layer: layer, Index: i}}
}

// ParseCommand turns a REPL line into an event for the current layer.
//
//	open N | select N   click field N
//	back                click back
//	jump ID             click breadcrumb ID
//	tab NAME            select tab
//	toggle ID           click layer card ID
//	overview ID         click overview layer ID
func ParseCommand(line string, current catalog.LayerID) (Event, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Event{}, fmt.Errorf("%w: empty command", ErrBadEvent)
	}
	arg := func() (string, error) {
		if len(parts) != 2 {
			return "", fmt.Errorf("%w: %s takes one argument", ErrBadEvent, parts[0])
		}
		return parts[1], nil
	}
	switch strings.ToLower(parts[0]) {
	case "open", "select", "o", "s":
		raw, err := arg()
		if err != nil {
			return Event{}, err
		}
		i, err := strconv.Atoi(raw)
		if err != nil {
			return Event{}, fmt.Errorf("%w: field index %q", ErrBadEvent, raw)
		}
		return ClickField(current, i), nil
	case "back", "b":
		if len(parts) != 1 {
			return Event{}, fmt.Errorf("%w: back takes no argument", ErrBadEvent)
		}
		return Event{Kind: EventClickBack}, nil
	case "jump", "j", "toggle", "overview":
		raw, err := arg()
		if err != nil {
			return Event{}, err
		}
		id, err := catalog.ParseLayerID(raw)
		if err != nil {
			return Event{}, err
		}
		kind := EventClickBreadcrumb
		switch strings.ToLower(parts[0]) {
		case "toggle":
			kind = EventClickLayerCard
		case "overview":
			kind = EventClickOverviewLayer
		}
		return Event{Kind: kind, Layer: id}, nil
	case "tab", "t":
		raw, err := arg()
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: EventSelectTab, Tab: Tab(strings.ToLower(raw))}, nil
	default:
		return Event{}, fmt.Errorf("%w: unknown command %q", ErrBadEvent, parts[0])
	}
}
