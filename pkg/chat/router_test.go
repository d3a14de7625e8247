package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"netsight/pkg/config"
	"netsight/pkg/gateway"
)

type doerFunc func(ctx context.Context, req gateway.Request) (*gateway.Response, error)

func (f doerFunc) Do(ctx context.Context, req gateway.Request) (*gateway.Response, error) {
	return f(ctx, req)
}

func replyWith(status int, body string) doerFunc {
	return func(ctx context.Context, req gateway.Request) (*gateway.Response, error) {
		return &gateway.Response{StatusCode: status, Body: []byte(body)}, nil
	}
}

func TestExtractionPriority(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"hit wins over answer", http.StatusOK, `{"hits":[{"text":"A"}],"answer":"B"}`, "A"},
		{"answer wins over error", http.StatusOK, `{"answer":"B","error":"C"}`, "B"},
		{"error is best effort", http.StatusOK, `{"error":"C"}`, "C"},
		{"empty object", http.StatusOK, `{}`, FallbackAnswer},
		{"empty hit text skipped", http.StatusOK, `{"hits":[{"text":""}],"answer":"B"}`, "B"},
		{"empty hits skipped", http.StatusOK, `{"hits":[],"answer":"B"}`, "B"},
		{"empty answer skipped", http.StatusOK, `{"answer":"","error":"C"}`, "C"},
		{"wrong shaped hits", http.StatusOK, `{"hits":"nope","answer":"B"}`, "B"},
		{"error body on 500", http.StatusInternalServerError, `{"error":"model offline"}`, "model offline"},
		{"bare 503 falls back", http.StatusServiceUnavailable, `{}`, FallbackAnswer},
		{"not json", http.StatusOK, `<html>`, "Error: failed to parse chat response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(replyWith(tt.status, tt.body), "/api/chat/send")

			got, ok := r.Send(context.Background(), "hello")
			if !ok {
				t.Fatal("Expected Send to be accepted")
			}
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("Send() = %q, want prefix %q", got, tt.want)
			}
			if r.Busy() {
				t.Error("Expected busy released")
			}
		})
	}
}

func TestSend_RequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat/send" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["message"] != "status of db01?" {
			t.Errorf("Expected trimmed message, got %q", body["message"])
		}
		if body["mode"] != "hybrid" {
			t.Errorf("Expected hybrid mode, got %q", body["mode"])
		}
		fmt.Fprint(w, `{"answer":"db01 is healthy"}`)
	}))
	defer server.Close()

	cfg := config.Default().Gateway
	cfg.BaseURL = server.URL
	r := NewRouter(gateway.NewClient(cfg), cfg.ChatPath)
	if err := r.SetMode(ModeHybrid); err != nil {
		t.Fatalf("SetMode() error: %v", err)
	}

	got, ok := r.Send(context.Background(), "  status of db01?  ")
	if !ok || got != "db01 is healthy" {
		t.Errorf("Send() = %q, %v", got, ok)
	}
}

func TestSend_TransportFailure(t *testing.T) {
	r := NewRouter(doerFunc(func(ctx context.Context, req gateway.Request) (*gateway.Response, error) {
		return nil, fmt.Errorf("%w: connection refused", gateway.ErrTransport)
	}), "/api/chat/send")

	got, ok := r.Send(context.Background(), "hi")
	if !ok {
		t.Fatal("Expected Send to be accepted")
	}
	if got != "Error: gateway transport failure: connection refused" {
		t.Errorf("Unexpected error message %q", got)
	}

	msgs := r.Transcript()
	if len(msgs) != 2 || msgs[1].Speaker != SpeakerBot || msgs[1].Text != got {
		t.Errorf("Expected error appended as bot message, got %+v", msgs)
	}
	if r.Busy() {
		t.Error("Expected busy released after failure")
	}
}

func TestSubmit_RejectsBlank(t *testing.T) {
	r := NewRouter(replyWith(http.StatusOK, `{}`), "/api/chat/send")

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, ok := r.Submit(text); ok {
			t.Errorf("Expected %q to be refused", text)
		}
	}
	if len(r.Transcript()) != 0 {
		t.Errorf("Expected empty transcript, got %d messages", len(r.Transcript()))
	}
	if r.Busy() {
		t.Error("Expected not busy")
	}
}

func TestSubmit_SingleFlight(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	r := NewRouter(doerFunc(func(ctx context.Context, req gateway.Request) (*gateway.Response, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return &gateway.Response{StatusCode: http.StatusOK, Body: []byte(`{"answer":"ok"}`)}, nil
	}), "/api/chat/send")

	first, ok := r.Submit("one")
	if !ok {
		t.Fatal("Expected first question accepted")
	}
	if !r.Busy() {
		t.Error("Expected busy after submit")
	}

	if _, ok := r.Submit("two"); ok {
		t.Error("Expected second question refused while busy")
	}
	if _, ok := r.Send(context.Background(), "three"); ok {
		t.Error("Expected Send refused while busy")
	}
	if n := len(r.Transcript()); n != 1 {
		t.Errorf("Expected only the first question in transcript, got %d", n)
	}

	first.Do(context.Background())
	if r.Busy() {
		t.Error("Expected busy released")
	}

	if _, ok := r.Send(context.Background(), "four"); !ok {
		t.Error("Expected Send accepted after release")
	}
	if calls != 2 {
		t.Errorf("Expected 2 requests, got %d", calls)
	}
}

func TestSubmit_CapturesMode(t *testing.T) {
	var sent Mode
	r := NewRouter(doerFunc(func(ctx context.Context, req gateway.Request) (*gateway.Response, error) {
		sent = req.JSON.(sendRequest).Mode
		return &gateway.Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil
	}), "/api/chat/send")

	ex, _ := r.Submit("q")
	if err := r.SetMode(ModeChatGPTOnly); err != nil {
		t.Fatalf("SetMode() error: %v", err)
	}
	ex.Do(context.Background())

	if sent != ModeLocalOnly {
		t.Errorf("Expected mode captured at submit, got %q", sent)
	}
	if r.Mode() != ModeChatGPTOnly {
		t.Errorf("Expected new mode for next question, got %q", r.Mode())
	}
}

func TestSetMode_Unknown(t *testing.T) {
	r := NewRouter(replyWith(http.StatusOK, `{}`), "/api/chat/send")

	if err := r.SetMode(Mode("offline")); err == nil {
		t.Error("Expected error for unknown mode")
	}
	if r.Mode() != DefaultMode {
		t.Errorf("Expected mode unchanged, got %q", r.Mode())
	}
}

func TestGreetingAndTranscriptCopy(t *testing.T) {
	r := NewRouter(replyWith(http.StatusOK, `{"answer":"pong"}`), "/api/chat/send", WithGreeting())

	msgs := r.Transcript()
	if len(msgs) != 1 || msgs[0].Text != Greeting || msgs[0].Speaker != SpeakerBot {
		t.Fatalf("Expected greeting, got %+v", msgs)
	}

	msgs[0].Text = "mutated"
	if r.Transcript()[0].Text != Greeting {
		t.Error("Expected Transcript to return a copy")
	}

	r.Send(context.Background(), "ping")
	last, ok := r.LastAnswer()
	if !ok || last != "pong" {
		t.Errorf("LastAnswer() = %q, %v", last, ok)
	}
}

func TestModes(t *testing.T) {
	if got := ModeLocalOnly.Next(); got != ModeHybrid {
		t.Errorf("Next() = %q", got)
	}
	if got := ModeChatGPTOnly.Next(); got != ModeLocalOnly {
		t.Errorf("Expected wrap around, got %q", got)
	}
	if _, err := ParseMode("hybrid"); err != nil {
		t.Errorf("ParseMode(hybrid) error: %v", err)
	}
	if _, err := ParseMode("Hybrid"); err == nil {
		t.Error("Expected case-sensitive mode parsing")
	}
	if ModeHybrid.Label() != "Hybrid (fallback)" {
		t.Errorf("Unexpected label %q", ModeHybrid.Label())
	}
}
