package stratz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", time.Second)
}

func TestPlayerMatchesSendsAuthAndVariables(t *testing.T) {
	var gotAuth string
	var gotVars map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Variables map[string]any `json:"variables"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotVars = body.Variables
		w.Write([]byte(`{"data":{"player":{"matches":[{"id":42,"startDateTime":1700000000,"durationSeconds":1800,"players":[]}]}}}`))
	})

	matches, err := c.PlayerMatches(context.Background(), 3336264, 50, 100)
	if err != nil {
		t.Fatalf("PlayerMatches: %v", err)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotVars["take"] != float64(50) || gotVars["skip"] != float64(100) {
		t.Errorf("variables = %v, want take=50 skip=100", gotVars)
	}
	if len(matches) != 1 || matches[0].ID != 42 {
		t.Errorf("matches = %+v", matches)
	}
	if got := matches[0].StartTime().Unix(); got != 1700000000 {
		t.Errorf("StartTime = %d", got)
	}
}

func TestPlayerMatchesHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	if _, err := c.PlayerMatches(context.Background(), 1, 10, 0); err == nil {
		t.Fatal("expected error for HTTP 403")
	}
}

func TestPlayerMatchesGraphQLError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"rate limited"}]}`))
	})
	_, err := c.PlayerMatches(context.Background(), 1, 10, 0)
	if err == nil {
		t.Fatal("expected error for GraphQL errors payload")
	}
}

func TestPlayerMatchesMissingPlayerIsNoData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"player":null}}`))
	})
	matches, err := c.PlayerMatches(context.Background(), 1, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches != nil {
		t.Errorf("matches = %+v, want nil", matches)
	}
}
