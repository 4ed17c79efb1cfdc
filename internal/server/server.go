// Package server implements the read-only modlaunch HTTP API.
//
// One catalog snapshot and its dependency graph are shared by every request;
// handlers never modify them, so no locking is needed.
//
//	GET /healthz                                   build info and catalog fingerprint
//	GET /modules                                   every module in discovery order
//	GET /modules/{name}                            versions of one symbolic name
//	GET /modules/{name}/{version}/sequence         dependency sequence, start first
//	GET /modules/{name}/{version}/sequence?order=load   providers first
//	GET /conflicts                                 duplicate identities found while scanning
//
// Errors are JSON objects carrying the structured error code.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/modlaunch/pkg/buildinfo"
	"github.com/matzehuels/modlaunch/pkg/catalog"
	"github.com/matzehuels/modlaunch/pkg/dag"
	"github.com/matzehuels/modlaunch/pkg/errors"
	"github.com/matzehuels/modlaunch/pkg/observability"
)

// RequestIDHeader carries the request ID on requests and responses.
const RequestIDHeader = "X-Request-Id"

// Server serves one catalog snapshot.
type Server struct {
	cat    *catalog.Catalog
	graph  *dag.Graph
	logger *log.Logger
	router chi.Router
}

// New creates a server over cat and g. A nil logger means log.Default().
func New(cat *catalog.Catalog, g *dag.Graph, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cat: cat, graph: g, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Server", buildinfo.ServerHeader()))

	r.Get("/healthz", s.health)
	r.Route("/modules", func(r chi.Router) {
		r.Get("/", s.listModules)
		r.Get("/{name}", s.moduleVersions)
		r.Get("/{name}/{version}/sequence", s.sequence)
	})
	r.Get("/conflicts", s.conflicts)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "no route for %s", r.URL.Path))
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr, "modules", s.cat.Len())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Middleware
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// RequestID returns the request ID stored in ctx by the server.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID keeps a caller-supplied request ID or assigns a new UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		took := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, took)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"took", took.Round(time.Microsecond),
			"id", RequestID(r.Context()))
	})
}

// =============================================================================
// Handlers
// =============================================================================

type healthResponse struct {
	Status      string         `json:"status"`
	Build       buildinfo.Info `json:"build"`
	Modules     int            `json:"modules"`
	Fingerprint string         `json:"fingerprint"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Build:       buildinfo.Get(),
		Modules:     s.cat.Len(),
		Fingerprint: s.cat.Fingerprint(),
	})
}

// moduleView is the JSON form of a catalog record.
type moduleView struct {
	catalog.Identity
	Path         string   `json:"path"`
	Root         string   `json:"root"`
	Fragment     bool     `json:"fragment,omitempty"`
	Exports      []string `json:"exports,omitempty"`
	Imports      []string `json:"imports,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

func (s *Server) view(rec *catalog.Record) moduleView {
	v := moduleView{
		Identity: rec.Identity,
		Path:     rec.Path,
		Root:     rec.Root,
		Fragment: rec.Fragment,
	}
	for _, c := range rec.Exports {
		v.Exports = append(v.Exports, c.String())
	}
	for _, c := range rec.Imports {
		v.Imports = append(v.Imports, c.String())
	}
	for _, dep := range s.graph.Children(rec.Identity) {
		v.Dependencies = append(v.Dependencies, dep.String())
	}
	return v
}

func (s *Server) listModules(w http.ResponseWriter, r *http.Request) {
	recs := s.cat.Records()
	out := make([]moduleView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, s.view(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) moduleVersions(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateModuleName(name); err != nil {
		s.writeError(w, r, err)
		return
	}
	ids := s.cat.ByName(name)
	if len(ids) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeModuleNotFound, "no known module named %s", name))
		return
	}
	out := make([]moduleView, 0, len(ids))
	for _, id := range ids {
		if rec, ok := s.cat.Record(id); ok {
			out = append(out, s.view(rec))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type sequenceResponse struct {
	Start   catalog.Identity   `json:"start"`
	Order   string             `json:"order"`
	Modules []catalog.Identity `json:"modules"`
}

func (s *Server) sequence(w http.ResponseWriter, r *http.Request) {
	id, err := catalog.ParseIdentity(chi.URLParam(r, "name") + "@" + chi.URLParam(r, "version"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.graph.HasNode(id) {
		s.writeError(w, r, errors.New(errors.ErrCodeModuleNotFound, "no known module matching %s", id))
		return
	}

	order := r.URL.Query().Get("order")
	switch order {
	case "", "sequence":
		order = "sequence"
	case "load":
	default:
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "order must be sequence or load, got %q", order))
		return
	}

	start := time.Now()
	seq := dag.Sequence(s.graph, id)
	observability.Resolve().OnSequence(r.Context(), id.String(), len(seq), time.Since(start))
	if order == "load" {
		seq = dag.LoadOrder(seq)
	}
	writeJSON(w, http.StatusOK, sequenceResponse{Start: id, Order: order, Modules: seq})
}

func (s *Server) conflicts(w http.ResponseWriter, r *http.Request) {
	out := s.cat.Conflicts()
	if out == nil {
		out = []catalog.Conflict{}
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error     string      `json:"error"`
	Code      errors.Code `json:"code"`
	RequestID string      `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      errors.GetCode(err),
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
