// Package stratz provides a minimal client for the Stratz GraphQL API.
package stratz

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// DefaultURL is the Stratz GraphQL endpoint.
const DefaultURL = "https://api.stratz.com/graphql"

// matchQuery selects one page of a player's matches with the participant
// fields the pipeline derives from. Pagination is take/skip based.
const matchQuery = `
query($steamAccountId: Long!, $take: Int!, $skip: Int!) {
  player(steamAccountId: $steamAccountId) {
    steamAccountId
    matches(request: { take: $take, skip: $skip }) {
      id
      startDateTime
      durationSeconds
      didRadiantWin
      players {
        steamAccountId
        isVictory
        isRadiant
        imp
        hero {
          displayName
          id
        }
        kills
        deaths
        assists
        level
        position
        lane
      }
    }
  }
}`

// Client is a minimal Stratz GraphQL API client.
type Client struct {
	url   string
	token string
	http  *http.Client
}

// NewClient returns a Stratz client authenticated with the given bearer
// token. An empty url selects the public endpoint.
func NewClient(url, token string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:   url,
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
}

// Hero identifies the hero a participant played.
type Hero struct {
	ID          int    `json:"id"`
	DisplayName string `json:"displayName"`
}

// Participant is one of the ten players inside a match.
type Participant struct {
	SteamAccountID int64  `json:"steamAccountId"`
	IsVictory      bool   `json:"isVictory"`
	IsRadiant      bool   `json:"isRadiant"`
	Imp            int    `json:"imp"`
	Hero           *Hero  `json:"hero"`
	Kills          int    `json:"kills"`
	Deaths         int    `json:"deaths"`
	Assists        int    `json:"assists"`
	Level          int    `json:"level"`
	Position       string `json:"position"`
	Lane           string `json:"lane"`
}

// Match is one raw match as returned by the API, most recent first.
type Match struct {
	ID              int64         `json:"id"`
	StartDateTime   int64         `json:"startDateTime"`
	DurationSeconds int           `json:"durationSeconds"`
	DidRadiantWin   bool          `json:"didRadiantWin"`
	Players         []Participant `json:"players"`
}

// StartTime returns the match start as a time.Time.
func (m Match) StartTime() time.Time {
	return time.Unix(m.StartDateTime, 0)
}

// PlayerMatches fetches one page of matches for an account, newest first.
// A player node missing from the response is treated as no data, not an
// error.
func (c *Client) PlayerMatches(ctx context.Context, accountID int64, take, skip int) ([]Match, error) {
	body, err := json.Marshal(map[string]any{
		"query": matchQuery,
		"variables": map[string]any{
			"steamAccountId": accountID,
			"take":           take,
			"skip":           skip,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "STRATZ_API")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("POST %s: HTTP %d", c.url, resp.StatusCode)
	}

	var out struct {
		Data struct {
			Player *struct {
				Matches []Match `json:"matches"`
			} `json:"player"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("graphql: %s", out.Errors[0].Message)
	}
	if out.Data.Player == nil {
		return nil, nil
	}
	return out.Data.Player.Matches, nil
}
