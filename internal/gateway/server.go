// Package gateway exposes the controller to dashboards and CLIs over a
// small JSON HTTP API, plus the Prometheus metrics endpoint.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"gardend/internal/controller"
	"gardend/internal/garden"
	"gardend/internal/model"
)

// Server serves the gateway API for one controller.
type Server struct {
	ctrl *controller.Controller
	http *http.Server
}

// New builds a server listening on addr.
func New(ctrl *controller.Controller, addr string) *Server {
	s := &Server{ctrl: ctrl}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Routes returns the API handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /modules", s.handleListModules)
	mux.HandleFunc("POST /modules", s.handleAddModule)
	mux.HandleFunc("DELETE /modules/{id}", s.handleRemoveModule)
	mux.HandleFunc("GET /modules/{id}/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /modules/{id}/report", s.handleReport)
	mux.HandleFunc("POST /modules/{id}/water", s.handleWater)
	mux.HandleFunc("GET /notifications", s.handleNotifications)
	mux.HandleFunc("POST /notifications/{index}/read", s.handleMarkRead)
	mux.HandleFunc("POST /notifications/read-all", s.handleMarkAllRead)
	mux.HandleFunc("POST /reservoir/refill", s.handleRefill)
	mux.HandleFunc("POST /automation", s.handleAutomation)

	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("gateway listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.SystemStatus())
}

type moduleInfo struct {
	ID      string        `json:"id"`
	Species model.Species `json:"species"`
}

func (s *Server) handleListModules(w http.ResponseWriter, _ *http.Request) {
	ids := s.ctrl.ModuleIDs()
	out := make([]moduleInfo, 0, len(ids))
	for _, id := range ids {
		sp, err := s.ctrl.ModuleSpecies(id)
		if err != nil {
			continue // removed between the two calls
		}
		out = append(out, moduleInfo{ID: id, Species: sp})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddModule(w http.ResponseWriter, r *http.Request) {
	var req moduleInfo
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.ID) == "" {
		writeError(w, http.StatusBadRequest, "body must be {\"id\": ..., \"species\": ...}")
		return
	}
	if err := s.ctrl.AddModule(req.ID, req.Species); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleRemoveModule(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.RemoveModule(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ctrl.SnapshotFor(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.ctrl.ReportFor(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleWater(w http.ResponseWriter, r *http.Request) {
	res, err := s.ctrl.WaterModule(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, controller.ErrReservoirLow) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	unread := queryBool(r, "unread")
	writeJSON(w, http.StatusOK, s.ctrl.Notifications(unread))
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	if !s.ctrl.MarkNotificationRead(idx) {
		writeError(w, http.StatusNotFound, "no notification at that index")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, _ *http.Request) {
	s.ctrl.MarkAllNotificationsRead()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefill(w http.ResponseWriter, r *http.Request) {
	amount, err := queryFloat(r, "amount")
	if err != nil || amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}
	old, now := s.ctrl.Refill(amount)
	writeJSON(w, http.StatusOK, map[string]float64{"old_level": old, "new_level": now})
}

func (s *Server) handleAutomation(w http.ResponseWriter, r *http.Request) {
	v := strings.TrimSpace(r.URL.Query().Get("active"))
	active, err := strconv.ParseBool(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "active must be true or false")
		return
	}
	s.ctrl.SetAutomation(active)
	writeJSON(w, http.StatusOK, map[string]bool{"automation_active": active})
}

// ---- helpers ----

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("gateway: encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps controller error values onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, controller.ErrUnknownModule):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, garden.ErrNoData):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(r.URL.Query().Get(key)))
	return err == nil && v
}

func queryFloat(r *http.Request, key string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(r.URL.Query().Get(key)), 64)
}
