// Package server exposes layout computation over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness and build version
//	GET  /v1/animations    entrance animation names
//	POST /v1/layout        lay out a feed and return JSON, DOT or SVG
//
// Layout responses are cached under a key derived from the feed and the
// geometry, so identical requests skip image loading entirely.
package server

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/masonry/pkg/cache"
	"github.com/matzehuels/masonry/pkg/config"
	"github.com/matzehuels/masonry/pkg/content"
)

// DefaultLayoutTTL is how long computed layouts stay cached.
const DefaultLayoutTTL = time.Hour

// DefaultRequestTimeout bounds one layout request, image loads included.
const DefaultRequestTimeout = 60 * time.Second

// Config configures a Server.
type Config struct {
	Images   content.ImageLoader // required
	Cache    cache.Cache         // defaults to a NullCache
	Keyer    cache.Keyer         // defaults to cache.NewDefaultKeyer()
	Defaults *config.File        // geometry used for fields a request omits
	Logger   *log.Logger

	LayoutTTL      time.Duration
	RequestTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	router chi.Router
}

// New builds the router.
func New(cfg Config) *Server {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewDefaultKeyer()
	}
	if cfg.Defaults == nil {
		cfg.Defaults = config.Defaults()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.LayoutTTL == 0 {
		cfg.LayoutTTL = DefaultLayoutTTL
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	s := &Server{cfg: cfg}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Get("/animations", s.handleAnimations)
		r.Post("/layout", s.handleLayout)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Millisecond),
				"id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
