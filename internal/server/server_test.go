package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/brohirim/dotastats/internal/model"
	"github.com/brohirim/dotastats/internal/pipeline"
	"github.com/brohirim/dotastats/internal/roster"
)

// stubLoader replays canned records and remembers what it was asked for.
type stubLoader struct {
	records      []model.Record
	err          error
	players      []string
	cutoff       time.Time
	refreshed    int
	quickRefresh int
}

func (s *stubLoader) Load(ctx context.Context, players []string, cutoff time.Time) ([]model.Record, error) {
	s.players = players
	s.cutoff = cutoff
	return s.records, s.err
}

func (s *stubLoader) Status() pipeline.Status {
	return pipeline.Status{State: pipeline.StateDone, Fraction: 1}
}

func (s *stubLoader) Refresh() error      { s.refreshed++; return nil }
func (s *stubLoader) QuickRefresh() error { s.quickRefresh++; return nil }

func newTestServer(t *testing.T, loader Loader, avatarDir string) *Server {
	t.Helper()
	ros, err := roster.New(map[string]int64{"Andreas": 1, "Magnus": 2})
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	return New(loader, ros, 30*24*time.Hour, avatarDir, nil)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPlayersEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubLoader{}, "")
	rec := get(t, srv.Handler(), "/api/players")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var players []struct {
		Name      string `json:"name"`
		AccountID int64  `json:"account_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &players); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(players) != 2 || players[0].Name != "Andreas" || players[1].AccountID != 2 {
		t.Errorf("players = %+v", players)
	}
}

func TestMatchesEndpoint(t *testing.T) {
	loader := &stubLoader{records: []model.Record{
		{PlayerName: "Andreas", MatchID: 10},
		{PlayerName: "Magnus", MatchID: 10},
	}}
	srv := newTestServer(t, loader, "")
	rec := get(t, srv.Handler(), "/api/matches?players=Andreas,%20Magnus")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Count  int            `json:"count"`
		NoData bool           `json:"no_data"`
		Rows   []model.Record `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 2 || body.NoData || len(body.Rows) != 2 {
		t.Errorf("body = %+v", body)
	}
	if len(loader.players) != 2 || loader.players[1] != "Magnus" {
		t.Errorf("player filter = %v, want trimmed names", loader.players)
	}
	if !loader.cutoff.Truncate(time.Hour).Equal(loader.cutoff) {
		t.Errorf("cutoff %v is not truncated to the hour", loader.cutoff)
	}
}

func TestMatchesEndpointNoData(t *testing.T) {
	srv := newTestServer(t, &stubLoader{err: pipeline.ErrNoData}, "")
	rec := get(t, srv.Handler(), "/api/matches")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Count  int  `json:"count"`
		NoData bool `json:"no_data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if !body.NoData || body.Count != 0 {
		t.Errorf("body = %+v, want the no-data flag", body)
	}
}

func TestMatchesEndpointLoadError(t *testing.T) {
	srv := newTestServer(t, &stubLoader{err: errors.New("boom")}, "")
	if rec := get(t, srv.Handler(), "/api/matches"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestMatchesSinceFilter(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	loader := &stubLoader{records: []model.Record{
		{MatchID: 1, MatchDate: base.Add(-time.Hour)},
		{MatchID: 2, MatchDate: base.Add(time.Hour)},
	}}
	srv := newTestServer(t, loader, "")

	rec := get(t, srv.Handler(), "/api/matches?since="+base.Format(time.RFC3339))
	var body struct {
		Count int `json:"count"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Count != 1 {
		t.Errorf("count = %d, want 1 after the since filter", body.Count)
	}

	if rec := get(t, srv.Handler(), "/api/matches?since=yesterday"); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for a malformed since", rec.Code)
	}
}

func TestCSVEndpoint(t *testing.T) {
	loader := &stubLoader{records: []model.Record{{PlayerName: "Andreas", MatchID: 10}}}
	srv := newTestServer(t, loader, "")
	rec := get(t, srv.Handler(), "/api/matches.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("content disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Errorf("got %d csv lines, want header plus one row", len(lines))
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubLoader{}, "")
	rec := get(t, srv.Handler(), "/api/status")

	var body struct {
		State    string  `json:"state"`
		Fraction float64 `json:"fraction"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.State != "done" || body.Fraction != 1 {
		t.Errorf("body = %+v", body)
	}
}

func TestRefreshEndpoints(t *testing.T) {
	loader := &stubLoader{}
	srv := newTestServer(t, loader, "")
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh", nil))
	if rec.Code != http.StatusOK || loader.refreshed != 1 {
		t.Errorf("refresh: status %d, calls %d", rec.Code, loader.refreshed)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/refresh/quick", nil))
	if rec.Code != http.StatusOK || loader.quickRefresh != 1 {
		t.Errorf("quick refresh: status %d, calls %d", rec.Code, loader.quickRefresh)
	}
}

func TestAvatarEndpoint(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Andreas.png"), []byte("png-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, &stubLoader{}, dir)
	h := srv.Handler()

	if rec := get(t, h, "/avatars/Andreas"); rec.Code != http.StatusOK {
		t.Errorf("status = %d for an existing avatar", rec.Code)
	}
	if rec := get(t, h, "/avatars/Magnus"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d for a roster player without an image", rec.Code)
	}
	if rec := get(t, h, "/avatars/Stranger"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d for a name outside the roster", rec.Code)
	}
}

func TestAvatarDisabledWithoutDir(t *testing.T) {
	srv := newTestServer(t, &stubLoader{}, "")
	if rec := get(t, srv.Handler(), "/avatars/Andreas"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when no avatar directory is configured", rec.Code)
	}
}
