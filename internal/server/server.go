// Package server exposes the merged match table over HTTP for a browser
// dashboard: JSON rows, CSV export, run status, cache refresh, and
// optional player avatars.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/brohirim/dotastats/internal/aggregator"
	"github.com/brohirim/dotastats/internal/model"
	"github.com/brohirim/dotastats/internal/pipeline"
	"github.com/brohirim/dotastats/internal/report"
	"github.com/brohirim/dotastats/internal/roster"
)

// avatarExtensions are tried in order when resolving a player image.
var avatarExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}

// Loader is the pipeline capability the server consumes.
type Loader interface {
	Load(ctx context.Context, players []string, cutoff time.Time) ([]model.Record, error)
	Status() pipeline.Status
	Refresh() error
	QuickRefresh() error
}

// Server serves the dashboard API. Loads are serialized: one aggregation
// run at a time, matching the pipeline's single-writer cache model.
type Server struct {
	loader    Loader
	roster    *roster.Roster
	window    time.Duration
	avatarDir string
	log       *zap.Logger

	loadMu sync.Mutex
}

// New builds a Server. window is the default fetch window when a request
// does not narrow it.
func New(loader Loader, ros *roster.Roster, window time.Duration, avatarDir string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		loader:    loader,
		roster:    ros,
		window:    window,
		avatarDir: avatarDir,
		log:       log,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/players", s.handlePlayers)
		r.Get("/matches", s.handleMatches)
		r.Get("/matches.csv", s.handleMatchesCSV)
		r.Get("/summary", s.handleSummary)
		r.Get("/status", s.handleStatus)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/refresh/quick", s.handleQuickRefresh)
	})
	r.Get("/avatars/{player}", s.handleAvatar)

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("write response failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// loadTable runs (or replays from cache) the aggregation for the request
// and applies an optional later time filter.
func (s *Server) loadTable(r *http.Request) ([]model.Record, bool, error) {
	var players []string
	if raw := r.URL.Query().Get("players"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			players = append(players, strings.TrimSpace(p))
		}
	}

	// The fetch cutoff is truncated to the hour so repeated requests
	// share a cache key within the merged TTL.
	cutoff := time.Now().Add(-s.window).Truncate(time.Hour)

	s.loadMu.Lock()
	records, err := s.loader.Load(r.Context(), players, cutoff)
	s.loadMu.Unlock()
	if errors.Is(err, pipeline.ErrNoData) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	if raw := r.URL.Query().Get("since"); raw != "" {
		since, perr := time.Parse(time.RFC3339, raw)
		if perr != nil {
			return nil, false, fmt.Errorf("invalid since parameter: %w", perr)
		}
		records = aggregator.Since(records, since)
	}
	return records, false, nil
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	type player struct {
		Name      string `json:"name"`
		AccountID int64  `json:"account_id"`
	}
	names := s.roster.Names()
	out := make([]player, 0, len(names))
	for _, name := range names {
		id, _ := s.roster.ID(name)
		out = append(out, player{Name: name, AccountID: id})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	records, noData, err := s.loadTable(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(records),
		"no_data": noData,
		"rows":    records,
	})
}

func (s *Server) handleMatchesCSV(w http.ResponseWriter, r *http.Request) {
	records, _, err := s.loadTable(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "dotastats_"+time.Now().Format("20060102")+".csv"))
	if err := report.WriteCSV(w, records); err != nil {
		s.log.Warn("csv export failed", zap.Error(err))
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	records, noData, err := s.loadTable(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"no_data":  noData,
		"overview": aggregator.Summarize(records),
		"players":  aggregator.PlayerSummaries(records),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.loader.Status()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"state":    st.State.String(),
		"player":   st.Player,
		"index":    st.Index,
		"total":    st.Total,
		"fraction": st.Fraction,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.loader.Refresh(); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

func (s *Server) handleQuickRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.loader.QuickRefresh(); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// handleAvatar serves a local image asset for a roster player, trying a
// fixed list of extensions. Only exact roster names resolve.
func (s *Server) handleAvatar(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "player")
	if s.avatarDir == "" || !s.validPlayer(name) {
		http.NotFound(w, r)
		return
	}
	for _, ext := range avatarExtensions {
		path := filepath.Join(s.avatarDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			http.ServeFile(w, r, path)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) validPlayer(name string) bool {
	_, ok := s.roster.ID(name)
	return ok
}
