package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/config"
	"github.com/danmuck/blestack/internal/explorer"
	"github.com/danmuck/blestack/internal/testutil/testlog"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	testlog.Start(t)
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Name = "blestackd-test"
	cfg.SessionCapacity = 4
	s := Appear(cfg, catalog.Default())
	s.RegisterRoutes()
	return s
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.HTTPRouter().ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("decode body: %v body=%s", err, rr.Body.String())
	}
}

func createSession(t *testing.T, s *Server) sessionResponse {
	t.Helper()
	rr := do(t, s, http.MethodPost, "/api/sessions", nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var out sessionResponse
	decode(t, rr, &out)
	if out.ID == "" {
		t.Fatalf("missing session id")
	}
	return out
}

func TestHealthAndReady(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/health", "/ready", "/metrics"} {
		rr := do(t, s, http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rr.Code)
		}
	}
	var ready map[string]any
	decode(t, do(t, s, http.MethodGet, "/ready", nil), &ready)
	if ready["ready"] != true || ready["layers"] != float64(8) {
		t.Fatalf("unexpected ready body: %#v", ready)
	}
	log.Debug().Msg("server/http: probes ok")
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t)

	var layers struct {
		Root   catalog.LayerID `json:"root"`
		Layers []catalog.Layer `json:"layers"`
	}
	decode(t, do(t, s, http.MethodGet, "/api/layers", nil), &layers)
	if layers.Root != catalog.LayerLink || len(layers.Layers) != 8 {
		t.Fatalf("unexpected layers: root=%s n=%d", layers.Root, len(layers.Layers))
	}
	if layers.Layers[0].ID != catalog.LayerApplication {
		t.Fatalf("layers should be top of stack first, got %s", layers.Layers[0].ID)
	}

	rr := do(t, s, http.MethodGet, "/api/layers/HCI", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var detail layerDetail
	decode(t, rr, &detail)
	if detail.ID != catalog.LayerHCI || detail.Layout.TotalBytes != 4.5 || len(detail.Layout.Boxes) != 6 {
		t.Fatalf("unexpected layer detail: id=%s layout=%+v", detail.ID, detail.Layout)
	}

	rr = do(t, s, http.MethodGet, "/api/layers/zigbee", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var body errorBody
	decode(t, rr, &body)
	if body.Kind != KindUnknownLayer {
		t.Fatalf("kind=%q want %q", body.Kind, KindUnknownLayer)
	}

	var graph struct {
		Root  catalog.LayerID   `json:"root"`
		Chain []catalog.LayerID `json:"chain"`
		Depth int               `json:"depth"`
	}
	decode(t, do(t, s, http.MethodGet, "/api/graph", nil), &graph)
	if graph.Depth != 5 || len(graph.Chain) != 5 || graph.Chain[4] != catalog.LayerGATT {
		t.Fatalf("unexpected graph: %+v", graph)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	created := createSession(t, s)
	if created.View.Drilldown.State.Current != catalog.LayerLink {
		t.Fatalf("new session current=%s", created.View.Drilldown.State.Current)
	}
	base := "/api/sessions/" + created.ID

	rr := do(t, s, http.MethodPost, base+"/events", explorer.ClickField(catalog.LayerLink, 3))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var got sessionResponse
	decode(t, do(t, s, http.MethodGet, base, nil), &got)
	state := got.View.Drilldown.State
	if state.Current != catalog.LayerHCI || len(state.History) != 2 {
		t.Fatalf("unexpected state after descend: %+v", state)
	}
}

func TestEventErrorStatuses(t *testing.T) {
	s := newTestServer(t)
	created := createSession(t, s)
	events := "/api/sessions/" + created.ID + "/events"

	cases := []struct {
		name   string
		path   string
		body   any
		status int
		kind   string
	}{
		{"unknown session", "/api/sessions/missing/events", explorer.Event{Kind: explorer.EventClickBack}, http.StatusNotFound, KindNotFound},
		{"bad json", events, "{", http.StatusBadRequest, KindBadEvent},
		{"unknown kind", events, explorer.Event{Kind: "hover"}, http.StatusBadRequest, KindBadEvent},
		{"unknown card", events, explorer.Event{Kind: explorer.EventClickLayerCard, Layer: "zigbee"}, http.StatusBadRequest, KindBadEvent},
		{"field out of range", events, explorer.ClickField(catalog.LayerLink, 9), http.StatusUnprocessableEntity, "invalid_transition"},
		{"jump outside history", events, explorer.Event{Kind: explorer.EventClickBreadcrumb, Layer: catalog.LayerATT}, http.StatusConflict, "not_in_history"},
		{"back at root", events, explorer.Event{Kind: explorer.EventClickBack}, http.StatusConflict, "at_root"},
	}
	for _, tc := range cases {
		rr := do(t, s, http.MethodPost, tc.path, tc.body)
		if rr.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d body=%s", tc.name, tc.status, rr.Code, rr.Body.String())
		}
		var body errorBody
		decode(t, rr, &body)
		if body.Kind != tc.kind || strings.TrimSpace(body.Error) == "" {
			t.Fatalf("%s: unexpected body %+v", tc.name, body)
		}
	}

	var got sessionResponse
	decode(t, do(t, s, http.MethodGet, "/api/sessions/"+created.ID, nil), &got)
	if got.View.Drilldown.State.Current != catalog.LayerLink || len(got.View.Drilldown.State.History) != 1 {
		t.Fatalf("rejected events changed state: %+v", got.View.Drilldown.State)
	}
}

func TestSessionEvictionReturnsNotFound(t *testing.T) {
	s := newTestServer(t)
	first := createSession(t, s)
	for i := 0; i < 4; i++ {
		createSession(t, s)
	}
	rr := do(t, s, http.MethodGet, "/api/sessions/"+first.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected evicted session to 404, got %d", rr.Code)
	}
}
