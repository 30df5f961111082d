package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/zonemesh/internal/export"
	"github.com/sells-group/zonemesh/internal/mesh"
	"github.com/sells-group/zonemesh/internal/model"
	"github.com/sells-group/zonemesh/internal/store"
	"github.com/sells-group/zonemesh/internal/synth"
)

// RunRequest is the body of POST /runs. Unset fields take the server
// defaults. When Samples is empty a synthetic population is generated.
type RunRequest struct {
	Depth   *int           `json:"depth,omitempty"`
	Padding *float64       `json:"padding,omitempty"`
	Points  *int           `json:"points,omitempty"`
	Seed    *uint64        `json:"seed,omitempty"`
	Samples []model.Sample `json:"samples,omitempty"`
}

// RunResponse is returned by POST /runs.
type RunResponse struct {
	Run     model.Run    `json:"run"`
	Balance mesh.Balance `json:"balance"`
}

// AnalysisResponse is returned by the zone analysis endpoint.
type AnalysisResponse struct {
	RunID    string `json:"run_id"`
	ZoneID   string `json:"zone_id"`
	Label    string `json:"label,omitempty"`
	Analysis string `json:"analysis"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string     `json:"status"`
	GeoJSONCache CacheStats `json:"geojson_cache"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", GeoJSONCache: s.geojson.Stats()})
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	opts := s.opts.Mesh
	if req.Depth != nil {
		opts.Depth = *req.Depth
	}
	if req.Padding != nil {
		opts.Padding = *req.Padding
	}
	if err := opts.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	samples := req.Samples
	if len(samples) == 0 {
		points, seed := s.opts.Points, s.opts.Seed
		if req.Points != nil {
			points = *req.Points
		}
		if req.Seed != nil {
			seed = *req.Seed
		}
		if points <= 0 || points > MaxPoints {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("points must be between 1 and %d", MaxPoints))
			return
		}
		samples = synth.New(seed).Generate(points)
	}

	var ready mesh.Ready
	select {
	case ready = <-mesh.Offload(mesh.Request{Samples: samples, Options: opts}):
	case <-time.After(s.opts.RunTimeout):
		s.log.Warn("run timed out", zap.Int("samples", len(samples)), zap.Int("depth", opts.Depth))
		writeError(w, http.StatusGatewayTimeout, "mesh build timed out")
		return
	case <-r.Context().Done():
		return
	}
	if ready.Err != nil {
		writeError(w, http.StatusUnprocessableEntity, ready.Err.Error())
		return
	}

	res := ready.Result
	if err := s.store.SaveRun(r.Context(), res.Run, res.Zones); err != nil {
		s.log.Error("save run failed", zap.String("run_id", res.Run.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save run")
		return
	}

	w.Header().Set("Location", "/runs/"+res.Run.ID)
	writeJSON(w, http.StatusCreated, RunResponse{Run: res.Run, Balance: res.Balance})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RunFilter{Status: model.RunStatus(q.Get("status"))}

	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		s.log.Error("list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		s.storeError(w, err, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetZones(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	zones, err := s.store.GetZones(r.Context(), runID)
	if err != nil {
		s.storeError(w, err, "run not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"zones": zones})
}

func (s *Server) handleZonesGeoJSON(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	body, hit, err := s.geojson.Load(runID, func() ([]byte, error) {
		zones, err := s.store.GetZones(r.Context(), runID)
		if err != nil {
			return nil, err
		}
		return export.MarshalGeoJSON(zones)
	})
	if err != nil {
		s.storeError(w, err, "run not found")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(body)
}

func (s *Server) handleZoneAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.analyst == nil {
		writeError(w, http.StatusServiceUnavailable, "analysis is not configured")
		return
	}

	runID := chi.URLParam(r, "runID")
	zoneID := chi.URLParam(r, "zoneID")
	zone, err := s.store.GetZone(r.Context(), runID, zoneID)
	if err != nil {
		s.storeError(w, err, "zone not found")
		return
	}

	text, err := s.analyst.Describe(r.Context(), *zone)
	if err != nil {
		s.log.Warn("zone analysis failed",
			zap.String("run_id", runID),
			zap.String("zone_id", zoneID),
			zap.Error(err),
		)
		writeError(w, http.StatusBadGateway, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, AnalysisResponse{
		RunID:    runID,
		ZoneID:   zoneID,
		Label:    zone.Label,
		Analysis: text,
	})
}

func (s *Server) storeError(w http.ResponseWriter, err error, notFound string) {
	if eris.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, notFound)
		return
	}
	s.log.Error("store error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, eris.New("invalid integer")
	}
	return n, nil
}
