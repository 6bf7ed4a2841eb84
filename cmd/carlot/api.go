package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/WessleyAI/carlot/engine/car"
	"github.com/WessleyAI/carlot/engine/lot"
	"github.com/WessleyAI/carlot/pkg/config"
	"github.com/WessleyAI/carlot/pkg/metrics"
	"github.com/WessleyAI/carlot/pkg/mid"
	"github.com/WessleyAI/carlot/pkg/resilience"
	"golang.org/x/time/rate"
)

// makeCounter reports car counts per make from a persistent store.
type makeCounter interface {
	CountByMake(ctx context.Context) (map[car.Make]int64, error)
}

// server serves the lot over HTTP.
type server struct {
	lot      *lot.Lot
	metrics  *metrics.Collector
	observer car.Observer
	counter  makeCounter // nil uses the in-memory lot
	log      *slog.Logger
}

func newServer(l *lot.Lot, met *metrics.Collector, observer car.Observer, log *slog.Logger) *server {
	return &server{lot: l, metrics: met, observer: observer, log: log}
}

// carOptions are applied to every car the server builds.
func (s *server) carOptions() []car.Option {
	return []car.Option{car.WithLogger(s.log), car.WithObserver(s.observer)}
}

// seed loads the sample records into the lot.
func (s *server) seed(ctx context.Context) error {
	_, rejected, err := s.lot.Load(ctx, lot.SampleRecords(), s.carOptions()...)
	for _, r := range rejected {
		s.metrics.Rejected(r.Field())
	}
	s.metrics.SetLotSize(s.lot.Len())
	return err
}

func (s *server) routes(hc config.HTTPConfig) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/cars", s.handleList)
	mux.HandleFunc("POST /api/cars", s.handleCreate)
	mux.HandleFunc("GET /api/cars/{id}", s.handleGet)
	mux.HandleFunc("POST /api/cars/{id}/fill", s.handleFill)
	mux.HandleFunc("POST /api/cars/{id}/drive", s.handleDrive)
	mux.HandleFunc("POST /api/cars/{id}/beep", s.handleBeep)
	mux.HandleFunc("GET /api/makes", s.handleMakes)
	mux.HandleFunc("GET /api/makes/counts", s.handleCounts)
	mux.Handle("GET /metrics", s.metrics.Handler())

	var limiter *rate.Limiter
	if hc.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(hc.RateLimit), hc.RateBurst)
	}

	return mid.Chain(mux,
		mid.Recover(s.log),
		mid.Logger(s.log),
		mid.CORS(hc.CORSOrigin),
		mid.RateLimit(limiter),
		mid.OTel("carlot"),
	)
}

// --- Handlers ---

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"cars": s.lot.List()})
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var fields lot.Record
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := car.FromFields(fields, s.carOptions()...)
	if err != nil {
		var ve *car.ValidationError
		if errors.As(err, &ve) {
			s.metrics.Rejected(ve.Field)
		}
		s.writeErr(w, err)
		return
	}

	id, err := s.lot.Add(r.Context(), c)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.metrics.SetLotSize(s.lot.Len())
	writeJSON(w, http.StatusCreated, lot.Entry{ID: id, Car: c})
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, lot.Entry{ID: r.PathValue("id"), Car: c})
}

// FillRequest is the JSON body for POST /api/cars/{id}/fill.
type FillRequest struct {
	Amount int `json:"amount"`
}

func (s *server) handleFill(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req FillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := c.FillUp(req.Amount); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lot.Entry{ID: r.PathValue("id"), Car: c})
}

func (s *server) handleDrive(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := c.Drive(); err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lot.Entry{ID: r.PathValue("id"), Car: c})
}

func (s *server) handleBeep(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(w, r)
	if !ok {
		return
	}
	c.Beep()
	writeJSON(w, http.StatusOK, lot.Entry{ID: r.PathValue("id"), Car: c})
}

// MakesResponse is the JSON response for GET /api/makes.
type MakesResponse struct {
	Since int    `json:"since"`
	Makes string `json:"makes"`
}

func (s *server) handleMakes(w http.ResponseWriter, r *http.Request) {
	since := demoYear
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be a year")
			return
		}
		since = n
	}
	writeJSON(w, http.StatusOK, MakesResponse{Since: since, Makes: s.lot.MakesSince(r.Context(), since)})
}

func (s *server) handleCounts(w http.ResponseWriter, r *http.Request) {
	if s.counter == nil {
		counts := make(map[car.Make]int64)
		for mk, n := range s.lot.CountByMake() {
			counts[mk] = int64(n)
		}
		writeJSON(w, http.StatusOK, map[string]any{"source": "lot", "counts": counts})
		return
	}
	counts, err := s.counter.CountByMake(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"source": "graph", "counts": counts})
}

// --- Helpers ---

func (s *server) lookup(w http.ResponseWriter, r *http.Request) (*car.Car, bool) {
	c, err := s.lot.Get(r.PathValue("id"))
	if err != nil {
		s.writeErr(w, err)
		return nil, false
	}
	return c, true
}

// writeErr maps domain errors onto HTTP status codes.
func (s *server) writeErr(w http.ResponseWriter, err error) {
	var ve *car.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error(), "field": ve.Field})
	case errors.Is(err, lot.ErrNotFound):
		writeError(w, http.StatusNotFound, "car not found")
	case errors.Is(err, car.ErrOutOfGas):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, resilience.ErrCircuitOpen):
		writeError(w, http.StatusServiceUnavailable, "graph store unavailable")
	default:
		s.log.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
