package sessions

import (
	"errors"
	"sync"
	"testing"

	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/explorer"
	"github.com/danmuck/blestack/internal/navigator"
	"github.com/danmuck/blestack/internal/testutil/testlog"
	uuid "github.com/satori/go.uuid"
)

func mustCreate(t *testing.T, s *Store) string {
	t.Helper()
	id, _, err := s.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return id
}

func TestCreateReturnsV4ID(t *testing.T) {
	testlog.Start(t)
	s := NewStore(catalog.Default(), 4)
	id, view, err := s.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	parsed, err := uuid.FromString(id)
	if err != nil {
		t.Fatalf("id %q is not a uuid: %v", id, err)
	}
	if parsed.Version() != 4 {
		t.Fatalf("version=%d want 4", parsed.Version())
	}
	if view.Tab != explorer.TabOverview || view.Drilldown.State.Current != catalog.LayerLink {
		t.Fatalf("unexpected initial view: %+v", view)
	}
	if s.Len() != 1 {
		t.Fatalf("len=%d want 1", s.Len())
	}
}

func TestGetUnknown(t *testing.T) {
	testlog.Start(t)
	s := NewStore(catalog.Default(), 4)
	for _, id := range []string{"nope", "6ba7b810-9dad-41d1-80b4-00c04fd430c8"} {
		if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%q: expected ErrNotFound, got %v", id, err)
		}
	}
}

func TestDispatchPersistsAcrossCalls(t *testing.T) {
	testlog.Start(t)
	s := NewStore(catalog.Default(), 4)
	id := mustCreate(t, s)

	if _, err := s.Dispatch(id, explorer.ClickField(catalog.LayerLink, 3)); err != nil {
		t.Fatalf("descend: %v", err)
	}
	view, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.Drilldown.State.Current != catalog.LayerHCI {
		t.Fatalf("current=%s want hci", view.Drilldown.State.Current)
	}

	view, err = s.Dispatch(id, explorer.Event{Kind: explorer.EventClickBreadcrumb, Layer: catalog.LayerATT})
	if !errors.Is(err, navigator.ErrNotInHistory) {
		t.Fatalf("expected ErrNotInHistory, got %v", err)
	}
	if view.Drilldown.State.Current != catalog.LayerHCI {
		t.Fatalf("rejected event changed state: %s", view.Drilldown.State.Current)
	}
}

func TestLeastRecentlyUsedEviction(t *testing.T) {
	testlog.Start(t)
	s := NewStore(catalog.Default(), 2)
	a := mustCreate(t, s)
	b := mustCreate(t, s)
	if _, err := s.Get(a); err != nil {
		t.Fatalf("get a: %v", err)
	}
	c := mustCreate(t, s)

	if _, err := s.Get(b); !errors.Is(err, ErrNotFound) {
		t.Fatalf("b should be evicted, got %v", err)
	}
	for _, id := range []string{a, c} {
		if _, err := s.Get(id); err != nil {
			t.Fatalf("%s should survive: %v", id, err)
		}
	}
	if s.Len() != 2 {
		t.Fatalf("len=%d want 2", s.Len())
	}
}

func TestRemove(t *testing.T) {
	testlog.Start(t)
	s := NewStore(catalog.Default(), 0)
	id := mustCreate(t, s)
	s.Remove(id)
	s.Remove(id)
	if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentDispatch(t *testing.T) {
	testlog.Start(t)
	s := NewStore(catalog.Default(), 8)
	id := mustCreate(t, s)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Dispatch(id, explorer.Event{Kind: explorer.EventClickLayerCard, Layer: catalog.LayerGAP})
		}()
	}
	wg.Wait()

	view, err := s.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(view.Expanded) != 0 {
		t.Fatalf("even number of toggles should collapse gap, got %v", view.Expanded)
	}
}
