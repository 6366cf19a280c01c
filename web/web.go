// Package web provides the read-only JSON inspector and the simulation
// endpoints for driving the headless host. It is an internal debug surface,
// not a public API.
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/artpar/windowkit/adapters/metrics"
	"github.com/artpar/windowkit/app"
	"github.com/artpar/windowkit/core/schema"
	"github.com/artpar/windowkit/domain/gui"
)

// Catalog lists the registered modules for discovery.
type Catalog interface {
	Descriptors() []schema.Descriptor
}

// Simulator drives the headless host from HTTP for tests and demos.
type Simulator interface {
	Join(user gui.UserID)
	SendCustomInput(name string, user gui.UserID)
	PressShortcut(name string, user gui.UserID)
	Click(namespace string, user gui.UserID, element string) error
}

// Deps contains dependencies for the inspector handler.
type Deps struct {
	Windows *app.WindowService
	Catalog Catalog
	Host    Simulator
	Metrics *metrics.Collector
	// MetricsPath is where the prometheus handler mounts. Defaults to
	// "/metrics".
	MetricsPath string
	Logger      zerolog.Logger
}

// Handler serves the inspector endpoints.
type Handler struct {
	windows   *app.WindowService
	catalog   Catalog
	host      Simulator
	metrics   *metrics.Collector
	logger    zerolog.Logger
	startTime time.Time
}

// New creates the inspector handler with its routes mounted.
func New(deps Deps) http.Handler {
	h := &Handler{
		windows:   deps.Windows,
		catalog:   deps.Catalog,
		host:      deps.Host,
		metrics:   deps.Metrics,
		logger:    deps.Logger.With().Str("component", "inspector").Logger(),
		startTime: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/healthz", h.handleHealth)
	r.Get("/namespaces", h.handleNamespaces)
	r.Get("/namespaces/{name}", h.handleNamespace)
	r.Get("/modules", h.handleModules)
	r.Get("/windows", h.handleWindows)

	r.Route("/simulate", func(r chi.Router) {
		r.Post("/join", h.handleSimJoin)
		r.Post("/click", h.handleSimClick)
		r.Post("/input", h.handleSimInput)
		r.Post("/shortcut", h.handleSimShortcut)
	})

	if h.metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, promhttp.Handler())
	}

	return r
}

// requestLogger logs each request at debug level.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// respondJSON writes v as a JSON response.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("encode response failed")
	}
}

// respondError writes a JSON error body.
func (h *Handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a JSON request body into v.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
