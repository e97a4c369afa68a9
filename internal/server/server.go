// Package server exposes the engine's query surface and health checks over
// HTTP for the daemon deployment.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/trackside/internal/broadcast"
	"github.com/yourusername/trackside/internal/metrics"
	"github.com/yourusername/trackside/internal/models"
	"github.com/yourusername/trackside/internal/schedule"
)

// EngineView is the read surface the server exposes. The engine itself is
// single-threaded, so the daemon hands the server a shared lock alongside
// the view.
type EngineView interface {
	CurrentDay() int
	Races() []*models.Race
	ActiveWager() *models.Wager
	Totals() models.LedgerTotals
	Loan() models.Loan
	IsLoanOverdue() bool
	ShouldSpawnLoanShark() bool
	MaxStakeForContext() int
}

// DatabasePinger defines the interface for checking snapshot-store
// connectivity
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// Config holds the configuration for the status server
type Config struct {
	Port    int
	Logger  *logrus.Logger
	View    EngineView
	EngineL *sync.Mutex
	History *schedule.CardCache
	Hub     *broadcast.Hub
	DB      DatabasePinger
}

// Server serves venue status, history, health, and metrics endpoints
type Server struct {
	cfg    Config
	logger *logrus.Logger
	server *http.Server
	mu     sync.RWMutex
	ready  bool
}

// NewServer creates a status server
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{cfg: cfg, logger: logger}
}

// SetReady marks the server as ready to accept traffic
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Start starts the server in the background
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/live", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/races", s.handleRaces)
	mux.HandleFunc("/wager", s.handleWager)
	mux.HandleFunc("/totals", s.handleTotals)
	mux.HandleFunc("/loan", s.handleLoan)
	mux.Handle("/metrics", metrics.Handler())
	if s.cfg.Hub != nil {
		mux.HandleFunc("/ws", s.cfg.Hub.HandleWS)
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.cfg.Port).Info("Status server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Status server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "trackside",
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	checks := map[string]string{}
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
		checks["engine"] = "not ready"
	}
	if s.cfg.DB != nil {
		if err := s.cfg.DB.Ping(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = err.Error()
		} else {
			checks["database"] = "ok"
		}
	}
	writeJSON(w, status, map[string]interface{}{
		"status": http.StatusText(status),
		"checks": checks,
	})
}

// handleRaces serves today's card, or a past day's regenerated card when
// ?day=N is given. Historical cards come back unresolved: winners are
// session randomness and are not derivable from the day index.
func (s *Server) handleRaces(w http.ResponseWriter, r *http.Request) {
	if dayParam := r.URL.Query().Get("day"); dayParam != "" && s.cfg.History != nil {
		day, err := strconv.Atoi(dayParam)
		if err != nil || day < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"day_index": day,
			"races":     s.cfg.History.Card(day),
		})
		return
	}

	s.lockEngine()
	day := s.cfg.View.CurrentDay()
	races := s.cfg.View.Races()
	s.unlockEngine()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"day_index": day,
		"races":     races,
	})
}

func (s *Server) handleWager(w http.ResponseWriter, _ *http.Request) {
	s.lockEngine()
	wager := s.cfg.View.ActiveWager()
	maxStake := s.cfg.View.MaxStakeForContext()
	s.unlockEngine()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"active_wager":          wager,
		"max_stake_for_context": maxStake,
	})
}

func (s *Server) handleTotals(w http.ResponseWriter, _ *http.Request) {
	s.lockEngine()
	totals := s.cfg.View.Totals()
	s.unlockEngine()

	writeJSON(w, http.StatusOK, totals)
}

func (s *Server) handleLoan(w http.ResponseWriter, _ *http.Request) {
	s.lockEngine()
	loan := s.cfg.View.Loan()
	overdue := s.cfg.View.IsLoanOverdue()
	shark := s.cfg.View.ShouldSpawnLoanShark()
	s.unlockEngine()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"loan":              loan,
		"overdue":           overdue,
		"should_spawn_loan": shark,
	})
}

func (s *Server) lockEngine() {
	if s.cfg.EngineL != nil {
		s.cfg.EngineL.Lock()
	}
}

func (s *Server) unlockEngine() {
	if s.cfg.EngineL != nil {
		s.cfg.EngineL.Unlock()
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
