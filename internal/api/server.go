// Package api exposes mesh runs over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/zonemesh/internal/mesh"
	"github.com/sells-group/zonemesh/internal/model"
	"github.com/sells-group/zonemesh/internal/store"
)

// Request limits.
const (
	DefaultRunTimeout = 60 * time.Second
	MaxPoints         = 500_000
	maxBodyBytes      = 64 << 20
)

// Describer writes commentary for a zone.
type Describer interface {
	Describe(ctx context.Context, z model.Zone) (string, error)
}

// Options configures a Server.
type Options struct {
	// Mesh holds the defaults applied when a request leaves a field unset.
	Mesh        mesh.Options
	Points      int
	Seed        uint64
	RunTimeout  time.Duration
	CORSOrigins []string
}

// Server serves the run API.
type Server struct {
	store   store.Store
	analyst Describer
	geojson *GeoJSONCache
	opts    Options
	log     *zap.Logger
}

// New creates a Server. analyst and geojson may be nil: analysis requests
// then answer 503 and GeoJSON is rendered on every request.
func New(st store.Store, analyst Describer, geojson *GeoJSONCache, opts Options) *Server {
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = DefaultRunTimeout
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}
	return &Server{
		store:   st,
		analyst: analyst,
		geojson: geojson,
		opts:    opts,
		log:     zap.L().With(zap.String("component", "api")),
	}
}

// Router builds the HTTP handler with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/runs", func(r chi.Router) {
		r.Post("/", s.handleCreateRun)
		r.Get("/", s.handleListRuns)
		r.Route("/{runID}", func(r chi.Router) {
			r.Get("/", s.handleGetRun)
			r.Get("/zones", s.handleGetZones)
			r.Get("/zones.geojson", s.handleZonesGeoJSON)
			r.Get("/zones/{zoneID}/analysis", s.handleZoneAnalysis)
		})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
