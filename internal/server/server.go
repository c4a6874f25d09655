// Package server exposes a document store over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /models
//	GET    /models/{id}                      ?format=json|yaml
//	PUT    /models/{id}
//	DELETE /models/{id}
//	GET    /models/{id}/diagram              ?view=topology|xy|xz|yz
//	GET    /models/{id}/meshes/{mesh}/buffer ?mode=flat|smooth
//
// Errors are returned as {"code": "...", "message": "..."} with a status
// derived from the error code.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/openmodel/pkg/observability"
	"github.com/matzehuels/openmodel/pkg/render"
	"github.com/matzehuels/openmodel/pkg/store"
)

// Options configures request handling.
type Options struct {
	Render       render.Options
	Smooth       bool  // default buffer mode
	Compress     bool  // store documents as zstd frames
	MaxBodyBytes int64 // PUT body limit; zero means 64 MiB
}

// Server serves documents from a store.
type Server struct {
	store  store.Store
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New creates a server over s. A nil logger means log.Default.
func New(s store.Store, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 64 << 20
	}
	srv := &Server{store: s, logger: logger, opts: opts}
	srv.router = srv.routes()
	return srv
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Route("/models", func(r chi.Router) {
		r.Get("/", s.listModels)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getModel)
			r.Put("/", s.putModel)
			r.Delete("/", s.deleteModel)
			r.Get("/diagram", s.getDiagram)
			r.Get("/meshes/{mesh}/buffer", s.getBuffer)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// observe logs each request and reports it to the HTTP hooks under its
// route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		ctx := r.Context()
		observability.HTTP().OnRequest(ctx, r.Method, route)
		observability.HTTP().OnResponse(ctx, r.Method, route, ww.Status(), time.Since(start))
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(),
			"bytes", ww.BytesWritten(), "elapsed", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(ctx))
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	hs := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
