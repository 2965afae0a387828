// Package api exposes the workspace engine over HTTP for the browser
// frontend. The canvas runs client-side; this surface is the mutation
// and sync channel: card lifecycle, z-order, expansion, viewport
// mirroring, and layout export.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/castdeck/castdeck/pkg/workspace"
)

// Server wires the workspace store to HTTP routes.
type Server struct {
	store  *workspace.Store
	mirror *workspace.MirrorViewport
	logger *log.Logger

	// initialVP is the persisted viewport handed to the client before
	// its first sync, after which the mirror is authoritative.
	initialVP *workspace.Viewport

	// bridge supplies preview header metadata for layout reads. Nil
	// means no renderer is attached and cards ship without headers.
	bridge workspace.RenderBridge
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithInitialViewport seeds the viewport returned by layout reads until
// the client performs its first sync.
func WithInitialViewport(vp workspace.Viewport) ServerOption {
	return func(s *Server) { s.initialVP = &vp }
}

// WithRenderBridge attaches the content renderer that supplies preview
// header metadata on layout reads.
func WithRenderBridge(b workspace.RenderBridge) ServerOption {
	return func(s *Server) { s.bridge = b }
}

// NewServer builds a server over a store. The mirror must be the same
// ViewportController the store was constructed with: viewport sync
// requests update the mirror, and expansion math reads from it.
func NewServer(store *workspace.Store, mirror *workspace.MirrorViewport, logger *log.Logger, opts ...ServerOption) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{store: store, mirror: mirror, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/layout", s.handleGetLayout)
		r.Get("/layout/svg", s.handleExportSVG)
		r.Get("/kinds", s.handleListKinds)
		r.Put("/viewport", s.handleSyncViewport)

		r.Route("/cards", func(r chi.Router) {
			r.Post("/", s.handleAddCard)
			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", s.handleRemoveCard)
				r.Post("/front", s.handleBringToFront)
				r.Post("/expand", s.handleToggleExpand)
				r.Post("/move", s.handleMoveCard)
				r.Post("/resize", s.handleResizeCard)
			})
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"dur", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
