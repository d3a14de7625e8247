package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"netsight/pkg/config"
	"netsight/pkg/gateway"
)

func TestSubmitScore(t *testing.T) {
	var got Score
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/ui-api/save_score" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	cfg := config.Default().Gateway
	cfg.BaseURL = server.URL
	client := NewClient(gateway.NewClient(cfg), cfg.ScorePath)
	client.now = func() time.Time {
		return time.Date(2026, 2, 3, 4, 5, 6, 7_000_000, time.FixedZone("CET", 3600))
	}

	sent, err := client.SubmitScore(context.Background(), " phishing-101 ", 8)
	if err != nil {
		t.Fatalf("SubmitScore() error: %v", err)
	}
	if got != sent {
		t.Errorf("Server received %+v, client returned %+v", got, sent)
	}
	if got.Module != "phishing-101" || got.Score != 8 {
		t.Errorf("Unexpected payload %+v", got)
	}
	if got.Timestamp != "2026-02-03T03:05:06.007Z" {
		t.Errorf("Expected ISO-8601 UTC timestamp, got %q", got.Timestamp)
	}
}

func TestSubmitScore_Invalid(t *testing.T) {
	client := NewClient(nil, "/ui-api/save_score")

	if _, err := client.SubmitScore(context.Background(), "", 3); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("Expected ErrInvalidScore for empty module, got %v", err)
	}
	if _, err := client.SubmitScore(context.Background(), "m", -1); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("Expected ErrInvalidScore for negative score, got %v", err)
	}
}

func TestSubmitScore_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := config.Default().Gateway
	cfg.BaseURL = server.URL
	client := NewClient(gateway.NewClient(cfg), cfg.ScorePath)

	_, err := client.SubmitScore(context.Background(), "m", 1)
	var statusErr *gateway.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 StatusError, got %v", err)
	}
}
