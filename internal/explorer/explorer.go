// Package explorer queries the Lichess opening explorer for per-move game
// statistics of a position.
package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public Lichess opening explorer endpoint.
const DefaultBaseURL = "https://explorer.lichess.ovh/lichess"

// Config configures the explorer client.
type Config struct {
	BaseURL string
	Speeds  string // e.g. "blitz,rapid"
	Ratings string // e.g. "1200,1400,1600,1800,2000"
	Moves   int    // maximum candidate moves per position
	Timeout time.Duration
	Logger  zerolog.Logger
}

// MoveStats is one candidate move with its game counts.
type MoveStats struct {
	UCI   string `json:"uci"`
	SAN   string `json:"san"`
	White int    `json:"white"`
	Draws int    `json:"draws"`
	Black int    `json:"black"`
}

// Games returns the total number of games in which the move was played.
func (m MoveStats) Games() int { return m.White + m.Draws + m.Black }

type explorerResponse struct {
	Moves []MoveStats `json:"moves"`
}

// Client fetches move statistics over HTTP.
type Client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

// New returns a client for the configured endpoint.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Speeds == "" {
		cfg.Speeds = "blitz,rapid"
	}
	if cfg.Ratings == "" {
		cfg.Ratings = "1200,1400,1600,1800,2000"
	}
	if cfg.Moves == 0 {
		cfg.Moves = 20
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  cfg.Logger,
	}
}

// TopMoves returns the candidate moves recorded for the position, most
// played first as the explorer reports them.
func (c *Client) TopMoves(ctx context.Context, fen string) ([]MoveStats, error) {
	params := url.Values{}
	params.Set("variant", "standard")
	params.Set("fen", fen)
	params.Set("speeds", c.cfg.Speeds)
	params.Set("ratings", c.cfg.Ratings)
	params.Set("moves", strconv.Itoa(c.cfg.Moves))
	params.Set("topGames", "0")
	params.Set("recentGames", "0")
	params.Set("history", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("explorer request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("explorer status %d: %s", resp.StatusCode, body)
	}
	var out explorerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode explorer response: %w", err)
	}
	c.log.Debug().Str("fen", fen).Int("moves", len(out.Moves)).Msg("explorer stats fetched")
	return out.Moves, nil
}
