package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/emiliopalmerini/pausa/internal/domain"
	"github.com/emiliopalmerini/pausa/internal/ports"
	"github.com/emiliopalmerini/pausa/internal/util"
)

const defaultAppLimit = 10

// Config holds server-specific configuration.
type Config struct {
	Addr             string
	ShutdownTimeout  time.Duration
	WarningThreshold int
}

// Server exposes the wait sequence, today's counter and statistics as JSON.
type Server struct {
	cfg      Config
	router   chi.Router
	counters ports.CounterRepository
	stats    ports.StatsRepository
	logger   ports.Logger
	now      func() time.Time
}

func NewServer(cfg Config, counters ports.CounterRepository, stats ports.StatsRepository, logger ports.Logger) *Server {
	if cfg.WarningThreshold <= 0 {
		cfg.WarningThreshold = domain.DefaultWarningThreshold
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		counters: counters,
		stats:    stats,
		logger:   logger,
		now:      time.Now,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/wait", s.handleWait)
		r.Get("/counter", s.handleCounter)
		r.Get("/stats", s.handleStats)
	})
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Printf("Serving pausa API at http://%s\n", s.cfg.Addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(fmt.Sprintf("Server shutdown error: %v", err))
		}
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type waitResponse struct {
	Count       *float64 `json:"count,omitempty"`
	WaitSeconds int      `json:"wait_seconds,omitempty"`
	Sequence    []int    `json:"sequence,omitempty"`
}

func (s *Server) handleWait(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("count")
	if raw == "" {
		writeJSON(w, http.StatusOK, waitResponse{Sequence: domain.WaitSequence()})
		return
	}

	count, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid count %q", raw))
		return
	}
	resp := waitResponse{WaitSeconds: domain.WaitSeconds(count)}
	if !math.IsNaN(count) && !math.IsInf(count, 0) {
		resp.Count = &count
	}
	writeJSON(w, http.StatusOK, resp)
}

type counterResponse struct {
	Count           int     `json:"count"`
	LastOpenDate    *string `json:"last_open_date"`
	NextWaitSeconds int     `json:"next_wait_seconds"`
	HighUsage       bool    `json:"high_usage"`
}

func (s *Server) handleCounter(w http.ResponseWriter, r *http.Request) {
	c, err := s.counters.Get(r.Context())
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to read counter: %v", err))
		writeError(w, http.StatusInternalServerError, "failed to read counter")
		return
	}

	now := s.now()
	count := c.CountAt(now)
	resp := counterResponse{
		Count:           count,
		NextWaitSeconds: domain.WaitSecondsForCount(count),
		HighUsage:       count >= s.cfg.WarningThreshold,
	}
	if c.LastOpenDate != nil {
		last := c.LastOpenDate.In(now.Location()).Format(time.RFC3339)
		resp.LastOpenDate = &last
	}
	writeJSON(w, http.StatusOK, resp)
}

type statsResponse struct {
	Period         string               `json:"period"`
	Since          string               `json:"since"`
	Sessions       int64                `json:"sessions"`
	Proceeded      int64                `json:"proceeded"`
	Dismissed      int64                `json:"dismissed"`
	ProceedRate    float64              `json:"proceed_rate"`
	AvgWaitSeconds float64              `json:"avg_wait_seconds"`
	MaxOpenCount   int64                `json:"max_open_count"`
	Intentions     []intentionStatsJSON `json:"intentions"`
	Apps           []appStatsJSON       `json:"apps"`
}

type intentionStatsJSON struct {
	Intention   string  `json:"intention"`
	Count       int64   `json:"count"`
	ProceedRate float64 `json:"proceed_rate"`
}

type appStatsJSON struct {
	AppPackage string `json:"app_package"`
	Sessions   int64  `json:"sessions"`
	Proceeded  int64  `json:"proceeded"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "week"
	}
	if !util.ValidPeriod(period) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid period %q", period))
		return
	}
	since := domain.FormatTimestamp(util.StartOfPeriod(period, s.now()))

	agg, err := s.stats.GetAggregate(ctx, since)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to get aggregate stats: %v", err))
		writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	intentions, err := s.stats.GetIntentionBreakdown(ctx, since)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to get intention breakdown: %v", err))
		writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	apps, err := s.stats.GetAppBreakdown(ctx, since, defaultAppLimit)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to get app breakdown: %v", err))
		writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}

	derived := agg.ComputeDerived()
	resp := statsResponse{
		Period:         period,
		Since:          since,
		Sessions:       agg.SessionCount,
		Proceeded:      agg.ProceededCount,
		Dismissed:      agg.DismissedCount,
		ProceedRate:    derived.ProceedRate,
		AvgWaitSeconds: derived.AvgWaitSeconds,
		MaxOpenCount:   agg.MaxOpenCount,
		Intentions:     make([]intentionStatsJSON, 0, len(intentions)),
		Apps:           make([]appStatsJSON, 0, len(apps)),
	}
	for _, is := range intentions {
		resp.Intentions = append(resp.Intentions, intentionStatsJSON{
			Intention:   string(is.IntentionID),
			Count:       is.Count,
			ProceedRate: is.ProceedRate(),
		})
	}
	for _, as := range apps {
		resp.Apps = append(resp.Apps, appStatsJSON{
			AppPackage: as.AppPackage,
			Sessions:   as.SessionCount,
			Proceeded:  as.ProceededCount,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
