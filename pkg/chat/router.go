package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"netsight/pkg/gateway"
)

// Greeting is the bot message a new transcript opens with.
const Greeting = "Hi! I'm NetSight. Ask me anything about your AIOps ecosystem."

// FallbackAnswer is shown when a reply carries nothing usable.
const FallbackAnswer = "No answer yet."

// Speaker identifies who authored a transcript entry.
type Speaker string

const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// Message is one transcript entry.
type Message struct {
	Speaker Speaker
	Text    string
	At      time.Time
}

// Doer sends a single gateway request. *gateway.Client satisfies it.
type Doer interface {
	Do(ctx context.Context, req gateway.Request) (*gateway.Response, error)
}

// Option configures a Router.
type Option func(*Router)

// WithGreeting seeds the transcript with the greeting message.
func WithGreeting() Option {
	return func(r *Router) {
		r.transcript = append(r.transcript, Message{Speaker: SpeakerBot, Text: Greeting, At: r.now()})
	}
}

// WithMode sets the initial routing mode.
func WithMode(m Mode) Option {
	return func(r *Router) { r.mode = m }
}

// Router keeps the chat transcript and brokers one question at a time to the
// chat endpoint.
type Router struct {
	gw   Doer
	path string
	now  func() time.Time

	mu         sync.Mutex
	transcript []Message
	mode       Mode
	busy       bool
}

// NewRouter creates a router posting to path on gw.
func NewRouter(gw Doer, path string, opts ...Option) *Router {
	r := &Router{
		gw:   gw,
		path: path,
		now:  time.Now,
		mode: DefaultMode,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Exchange is one accepted question waiting to be sent.
type Exchange struct {
	router *Router
	text   string
	mode   Mode
}

// Text returns the question.
func (e *Exchange) Text() string { return e.text }

// Mode returns the routing mode captured when the question was accepted.
func (e *Exchange) Mode() Mode { return e.mode }

// Submit accepts a question. Blank text, or a question while another is in
// flight, is refused without touching the transcript. On acceptance the user
// message is appended and the router is busy until the Exchange completes.
func (r *Router) Submit(text string) (*Exchange, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy {
		slog.Debug("chat_submit_busy")
		return nil, false
	}
	r.transcript = append(r.transcript, Message{Speaker: SpeakerUser, Text: text, At: r.now()})
	r.busy = true
	return &Exchange{router: r, text: text, mode: r.mode}, true
}

// Do sends the question, appends the bot reply and releases the router. It
// never fails: transport problems become an "Error: ..." bot message.
func (e *Exchange) Do(ctx context.Context) string {
	r := e.router
	defer r.release()

	answer := r.ask(ctx, e.text, e.mode)

	r.mu.Lock()
	r.transcript = append(r.transcript, Message{Speaker: SpeakerBot, Text: answer, At: r.now()})
	r.mu.Unlock()
	return answer
}

// Send submits text and waits for the reply. It reports false when the
// question was refused.
func (r *Router) Send(ctx context.Context, text string) (string, bool) {
	ex, ok := r.Submit(text)
	if !ok {
		return "", false
	}
	return ex.Do(ctx), true
}

func (r *Router) release() {
	r.mu.Lock()
	r.busy = false
	r.mu.Unlock()
}

func (r *Router) ask(ctx context.Context, text string, mode Mode) string {
	slog.Info("chat_send_start", "mode", string(mode), "length", len(text))
	start := time.Now()

	resp, err := r.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   r.path,
		JSON:   sendRequest{Message: text, Mode: mode},
	})
	if err != nil {
		slog.Error("chat_send_error", "error", err)
		return "Error: " + err.Error()
	}

	answer, err := extractAnswer(resp.Body)
	if err != nil {
		slog.Error("chat_send_parse_error", "status_code", resp.StatusCode, "error", err)
		return "Error: " + err.Error()
	}
	if !resp.OK() {
		slog.Warn("chat_send_status", "status_code", resp.StatusCode)
	}
	if answer == "" {
		answer = FallbackAnswer
	}

	slog.Info("chat_send_done",
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return answer
}

type sendRequest struct {
	Message string `json:"message"`
	Mode    Mode   `json:"mode"`
}

// extractAnswer picks the first non-empty candidate of hits[0].text, answer
// and error. Fields of an unexpected shape count as absent; only a body that
// is not a JSON object is an error.
func extractAnswer(body []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}

	var hits []struct {
		Text string `json:"text"`
	}
	if raw, ok := fields["hits"]; ok && json.Unmarshal(raw, &hits) == nil && len(hits) > 0 && hits[0].Text != "" {
		return hits[0].Text, nil
	}
	for _, key := range []string{"answer", "error"} {
		var s string
		if raw, ok := fields[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return s, nil
		}
	}
	return "", nil
}

// SetMode changes the routing mode for the next question.
func (r *Router) SetMode(m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	r.mu.Lock()
	r.mode = m
	r.mu.Unlock()
	slog.Debug("chat_mode_set", "mode", string(m))
	return nil
}

// Mode returns the current routing mode.
func (r *Router) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// Busy reports whether a question is in flight.
func (r *Router) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.busy
}

// Transcript returns a copy of the conversation so far.
func (r *Router) Transcript() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.transcript))
	copy(out, r.transcript)
	return out
}

// LastAnswer returns the most recent bot message, if any.
func (r *Router) LastAnswer() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.transcript) - 1; i >= 0; i-- {
		if r.transcript[i].Speaker == SpeakerBot {
			return r.transcript[i].Text, true
		}
	}
	return "", false
}
