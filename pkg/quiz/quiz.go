// Package quiz submits awareness quiz results.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"netsight/pkg/gateway"
)

// ErrInvalidScore is returned for an empty module or a negative score.
var ErrInvalidScore = errors.New("module and a non-negative score are required")

// Caller performs a gateway request. *gateway.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, req gateway.Request, out any) error
}

// Score is the body posted to the score endpoint.
type Score struct {
	Module    string `json:"module"`
	Score     int    `json:"score"`
	Timestamp string `json:"timestamp"`
}

// Client posts quiz scores.
type Client struct {
	gw   Caller
	path string
	now  func() time.Time
}

// NewClient creates a quiz client for path on gw.
func NewClient(gw Caller, path string) *Client {
	return &Client{gw: gw, path: path, now: time.Now}
}

// SubmitScore records score for module, stamped with the current UTC time.
func (c *Client) SubmitScore(ctx context.Context, module string, score int) (Score, error) {
	module = strings.TrimSpace(module)
	if module == "" || score < 0 {
		return Score{}, ErrInvalidScore
	}

	payload := Score{
		Module:    module,
		Score:     score,
		Timestamp: c.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	if err := c.gw.Call(ctx, gateway.Request{Method: http.MethodPost, Path: c.path, JSON: payload}, nil); err != nil {
		slog.Error("quiz_submit_error", "module", module, "error", err)
		return Score{}, fmt.Errorf("failed to submit score: %w", err)
	}

	slog.Info("quiz_submit", "module", module, "score", score)
	return payload, nil
}
