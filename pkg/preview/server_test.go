package preview

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plotline/pkg/block"
	"github.com/matzehuels/plotline/pkg/cache"
	perrors "github.com/matzehuels/plotline/pkg/errors"
	"github.com/matzehuels/plotline/pkg/observability"
	"github.com/matzehuels/plotline/pkg/player"
	"github.com/matzehuels/plotline/pkg/scene"
)

const testScene = `
total_secs = 10

[[item]]
name = "dots"
length = 5

  [[item.block]]
  name = "grid"
  kind = "Grid"
  inputs = { rows = 2, cols = 3 }

  [[item.block]]
  name = "dot"
  kind = "Circle"
  inputs = { radius = 4 }

  [[item.wire]]
  from = "grid.xi"
  to = "dot.cx"

  [[item.wire]]
  from = "grid.yi"
  to = "dot.cy"

[[item]]
name = "broken"
start = 5
length = 5

  [[item.block]]
  name = "a"
  kind = "Iterate"

  [[item.block]]
  name = "b"
  kind = "Iterate"
  inputs = { end = 50 }

  [[item.block]]
  name = "l"
  kind = "Line"

  [[item.wire]]
  from = "a.value"
  to = "l.x1"

  [[item.wire]]
  from = "b.value"
  to = "l.x2"
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.New(io.Discard)
	sc, err := scene.Parse([]byte(testScene))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tl, err := sc.Build(block.DefaultCatalog(), logger)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(sc, player.New(tl, sc.Width, sc.Height), WithCache(fc, nil), WithLogger(logger))
}

func get(t *testing.T, s http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("GET /healthz = %d %s", rec.Code, rec.Body)
	}
}

func TestItems(t *testing.T) {
	rec := get(t, newTestServer(t), "/items")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var items []itemInfo
	if err := json.NewDecoder(rec.Body).Decode(&items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items", len(items))
	}
	dots := items[0]
	if dots.Name != "dots" || dots.Start != 0 || dots.End != 5 || dots.Blocks != 2 || dots.Wires != 2 {
		t.Errorf("dots = %+v", dots)
	}
	if items[1].Start != 5 {
		t.Errorf("broken start = %v", items[1].Start)
	}
}

func TestFrame(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/frame.svg?t=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body)
	}
	if got := strings.Count(rec.Body.String(), "<circle"); got != 6 {
		t.Errorf("frame has %d circles, want 6", got)
	}
	if rec.Header().Get("X-Cache") != "miss" {
		t.Error("first request should miss")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}

	again := get(t, s, "/frame.svg?t=1")
	if again.Header().Get("X-Cache") != "hit" || again.Body.String() != rec.Body.String() {
		t.Error("second request should be served from cache")
	}
}

func TestFrameErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		target string
		status int
		typ    string
	}{
		{"/frame.svg?t=abc", http.StatusBadRequest, "invalid_input"},
		{"/frame.svg?t=-1", http.StatusBadRequest, "invalid_input"},
		{"/frame.svg?t=7", http.StatusUnprocessableEntity, "iteration_mismatch"},
	}
	for _, tt := range tests {
		rec := get(t, s, tt.target)
		if rec.Code != tt.status {
			t.Errorf("GET %s status = %d, want %d", tt.target, rec.Code, tt.status)
		}
		if ct := rec.Header().Get("Content-Type"); ct != problemMediaType {
			t.Errorf("GET %s Content-Type = %q", tt.target, ct)
		}
		var problem struct {
			Type     string `json:"type"`
			Status   int    `json:"status"`
			Detail   string `json:"detail"`
			Instance string `json:"instance"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&problem); err != nil {
			t.Fatalf("GET %s: %v", tt.target, err)
		}
		if problem.Type != tt.typ || problem.Status != tt.status || problem.Instance != "/frame.svg" || problem.Detail == "" {
			t.Errorf("GET %s problem = %+v, want type %s", tt.target, problem, tt.typ)
		}
	}
}

func TestPruneSchedule(t *testing.T) {
	s := newTestServer(t)
	WithPruneSchedule("every now and then")(s)

	err := s.ListenAndServe(context.Background(), "127.0.0.1:0")
	if !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("ListenAndServe error = %v, want INVALID_INPUT", err)
	}
}

func TestGraph(t *testing.T) {
	s := newTestServer(t)

	rec := get(t, s, "/items/dots/graph.svg?format=dot")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "digraph G") {
		t.Errorf("GET graph dot = %d %s", rec.Code, rec.Body)
	}
	if rec := get(t, s, "/items/nope/graph.svg"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown item status = %d", rec.Code)
	}
}

func TestBlocks(t *testing.T) {
	rec := get(t, newTestServer(t), "/blocks")
	var blocks []blockInfo
	if err := json.NewDecoder(rec.Body).Decode(&blocks); err != nil {
		t.Fatal(err)
	}
	if len(blocks) != len(block.DefaultCatalog().Entries()) {
		t.Errorf("got %d blocks", len(blocks))
	}
	for _, b := range blocks {
		if b.Name == "FlattenPoints" && !b.Flatten {
			t.Error("FlattenPoints should report flatten")
		}
	}
}

type recordingServeHooks struct {
	observability.NoopServeHooks
	routes   []string
	statuses []int
}

func (h *recordingServeHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.routes = append(h.routes, route)
	h.statuses = append(h.statuses, status)
}

func TestServeHooks(t *testing.T) {
	hooks := &recordingServeHooks{}
	observability.SetServeHooks(hooks)
	t.Cleanup(observability.Reset)

	s := newTestServer(t)
	get(t, s, "/items/dots/graph.svg?format=dot")
	get(t, s, "/missing")

	if len(hooks.routes) != 2 || hooks.routes[0] != "/items/{name}/graph.svg" {
		t.Errorf("routes = %v", hooks.routes)
	}
	if hooks.statuses[1] != http.StatusNotFound {
		t.Errorf("statuses = %v", hooks.statuses)
	}
}
