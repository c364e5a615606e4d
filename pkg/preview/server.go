package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/moogar0880/problems"
	"github.com/robfig/cron/v3"

	"github.com/matzehuels/plotline/pkg/block"
	"github.com/matzehuels/plotline/pkg/buildinfo"
	"github.com/matzehuels/plotline/pkg/cache"
	perrors "github.com/matzehuels/plotline/pkg/errors"
	"github.com/matzehuels/plotline/pkg/observability"
	"github.com/matzehuels/plotline/pkg/player"
	"github.com/matzehuels/plotline/pkg/render/nodelink"
	"github.com/matzehuels/plotline/pkg/render/sink"
	"github.com/matzehuels/plotline/pkg/scene"
)

// Server renders frames of one scene on request.
type Server struct {
	scene     *scene.Scene
	player    *player.Player
	catalog   *block.Catalog
	cache     cache.Cache
	keyer     cache.Keyer
	sceneHash string
	ttl       time.Duration
	prune     string
	logger    *log.Logger
	router    chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithCache stores rendered artifacts in c under keys from k.
func WithCache(c cache.Cache, k cache.Keyer) Option {
	return func(s *Server) {
		if c != nil {
			s.cache = c
		}
		if k != nil {
			s.keyer = k
		}
	}
}

// WithTTL sets the expiry of cached artifacts.
func WithTTL(d time.Duration) Option { return func(s *Server) { s.ttl = d } }

// WithPruneSchedule removes expired cache entries on a cron schedule such
// as "@every 10m" while the server runs.
func WithPruneSchedule(spec string) Option { return func(s *Server) { s.prune = spec } }

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog sets the catalog listed by /blocks.
func WithCatalog(c *block.Catalog) Option { return func(s *Server) { s.catalog = c } }

// New returns a server for sc, evaluated through p.
func New(sc *scene.Scene, p *player.Player, opts ...Option) *Server {
	s := &Server{
		scene:     sc,
		player:    p,
		catalog:   block.DefaultCatalog(),
		cache:     cache.NewNullCache(),
		keyer:     cache.NewDefaultKeyer(),
		sceneHash: cache.Hash(sc.Raw),
		ttl:       time.Hour,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/items", s.handleItems)
	r.Get("/frame.svg", s.handleFrame)
	r.Get("/items/{name}/graph.svg", s.handleGraph)
	r.Get("/blocks", s.handleBlocks)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if s.prune != "" {
		sched := cron.New()
		if _, err := sched.AddFunc(s.prune, func() { s.pruneCache(ctx) }); err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid prune schedule %q", s.prune)
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("preview server listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) pruneCache(ctx context.Context) {
	n, err := cache.Prune(ctx, s.cache)
	if err != nil {
		s.logger.Warn("cache prune failed", "err", err)
		return
	}
	s.logger.Debug("cache pruned", "removed", n)
}

// observe reports requests to the serve hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		hooks := observability.Serve()
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("request", "method", r.Method, "route", route, "status", ww.Status(),
			"duration", time.Since(start), "request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Short()})
}

// itemInfo is the JSON form of a timeline item.
type itemInfo struct {
	Name   string  `json:"name"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Row    float64 `json:"row"`
	Color  string  `json:"color"`
	Seed   uint64  `json:"seed"`
	Blocks int     `json:"blocks"`
	Wires  int     `json:"wires"`
}

func (s *Server) handleItems(w http.ResponseWriter, _ *http.Request) {
	tl := s.player.Timeline()
	items := make([]itemInfo, 0, len(tl.Items))
	for _, it := range tl.Items {
		start, end := tl.Span(it)
		info := itemInfo{
			Name:  it.Name,
			Start: start,
			End:   end,
			Row:   it.Y,
			Color: it.Color.Hex(),
			Seed:  tl.SeedFor(it),
		}
		if it.Graph != nil {
			info.Blocks = it.Graph.Len()
			info.Wires = len(it.Graph.Connections())
		}
		items = append(items, info)
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	secs := 0.0
	if q := r.URL.Query().Get("t"); q != "" {
		v, err := strconv.ParseFloat(q, 64)
		if err != nil || v < 0 {
			writeError(w, r, http.StatusBadRequest, perrors.New(perrors.ErrCodeInvalidInput, "t must be a non-negative number of seconds, got %q", q))
			return
		}
		secs = v
	}

	width, height := s.player.Size()
	bg, err := s.scene.BackgroundColor()
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	key := s.keyer.FrameKey(s.sceneHash, cache.FrameKeyOpts{
		Seconds:    secs,
		Width:      int(width),
		Height:     int(height),
		Seed:       s.player.Timeline().Seed,
		Format:     "svg",
		Background: bg.Hex(),
	})

	s.serveCached(w, r, key, "image/svg+xml", func() ([]byte, error) {
		ops, err := s.player.Frame(r.Context(), secs)
		if err != nil {
			return nil, err
		}
		return sink.RenderSVG(ops, sink.WithSize(width, height), sink.WithBackground(bg)), nil
	})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	it := s.player.Timeline().Item(name)
	if it == nil || it.Graph == nil {
		writeError(w, r, http.StatusNotFound, perrors.New(perrors.ErrCodeNotFound, "no item named %q", name))
		return
	}

	detailed := r.URL.Query().Has("detailed")
	dot := nodelink.ToDOT(it.Graph, nodelink.Options{Detailed: detailed, Title: it.Name})
	if r.URL.Query().Get("format") == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		w.Write([]byte(dot))
		return
	}

	format := "svg"
	if detailed {
		format = "svg-detailed"
	}
	key := s.keyer.GraphKey(s.sceneHash, cache.GraphKeyOpts{Item: name, Format: format})
	s.serveCached(w, r, key, "image/svg+xml", func() ([]byte, error) {
		return nodelink.RenderSVG(r.Context(), dot)
	})
}

// blockInfo is the JSON form of a catalog entry.
type blockInfo struct {
	Name    string     `json:"name"`
	Inputs  []portInfo `json:"inputs"`
	Outputs []portInfo `json:"outputs"`
	Flatten bool       `json:"flatten,omitempty"`
}

type portInfo struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Default string `json:"default,omitempty"`
}

func (s *Server) handleBlocks(w http.ResponseWriter, _ *http.Request) {
	entries := s.catalog.Entries()
	out := make([]blockInfo, 0, len(entries))
	for _, e := range entries {
		layout := e.New().Ports()
		info := blockInfo{Name: e.Name, Flatten: layout.Flatten}
		for _, p := range layout.Inputs {
			info.Inputs = append(info.Inputs, portInfo{Name: p.Name, Kind: p.Default.Kind().String(), Default: p.Default.String()})
		}
		for _, p := range layout.Outputs {
			info.Outputs = append(info.Outputs, portInfo{Name: p.Name, Kind: p.Default.Kind().String()})
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

// serveCached answers from the cache or renders, stores and answers.
// Cache failures are logged and otherwise ignored.
func (s *Server) serveCached(w http.ResponseWriter, r *http.Request, key, contentType string, render func() ([]byte, error)) {
	ctx := r.Context()
	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "err", err)
	}
	if !hit {
		data, err = render()
		if err != nil {
			writeError(w, r, statusFor(err), err)
			return
		}
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("cache write failed", "key", key, "err", err)
		}
	}
	w.Header().Set("Content-Type", contentType)
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.Write(data)
}

// statusFor maps evaluation failures to 422 and everything else to 500.
func statusFor(err error) int {
	switch perrors.GetCode(err) {
	case perrors.ErrCodeIterationMismatch, perrors.ErrCodeDanglingDependency, perrors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case perrors.ErrCodeNotFound:
		return http.StatusNotFound
	case perrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

const problemMediaType = "application/problem+json"

// writeError answers with an RFC 7807 problem whose type is the lowercased
// error code.
func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	problem := problems.NewStatusProblem(status).
		WithInstance(r.URL.Path).
		WithDetail(perrors.UserMessage(err))
	if code := perrors.GetCode(err); code != "" {
		problem = problem.WithType(strings.ToLower(string(code)))
	}
	w.Header().Set("Content-Type", problemMediaType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(problem)
}
