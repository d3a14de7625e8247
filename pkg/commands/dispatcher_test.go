package commands

import (
	"context"
	"strings"
	"testing"

	"netsight/pkg/chat"
	"netsight/pkg/gateway"
	"netsight/pkg/session"
)

type fakeSession struct {
	sess session.Session
	ok   bool
}

func (f fakeSession) Session() (session.Session, bool) { return f.sess, f.ok }

func (f fakeSession) Role() session.Role {
	if !f.ok {
		return session.RoleUnknown
	}
	return f.sess.Role
}

type nopDoer struct{}

func (nopDoer) Do(ctx context.Context, req gateway.Request) (*gateway.Response, error) {
	return &gateway.Response{StatusCode: 200, Body: []byte(`{}`)}, nil
}

func signedIn(role session.Role) fakeSession {
	return fakeSession{sess: session.Session{AccessToken: "tok", User: "alice", Role: role}, ok: true}
}

func TestNewDispatcher(t *testing.T) {
	d := NewDispatcher()

	for _, cmd := range []string{"/mode", "/whoami", "/inventory", "/login", "/logout", "/help"} {
		if _, ok := d.GetHandler(cmd); !ok {
			t.Errorf("Expected handler for %s to be registered", cmd)
		}
	}
}

func TestIsCommand(t *testing.T) {
	tests := map[string]bool{
		"/help":            true,
		"  /mode hybrid":   true,
		"what is /var/log": false,
		"":                 false,
	}
	for line, want := range tests {
		if got := IsCommand(line); got != want {
			t.Errorf("IsCommand(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := NewDispatcher()

	result := d.Dispatch("/unknown", NewContext(nil, nil))
	if result.Title != "Error" {
		t.Errorf("Expected title 'Error', got %q", result.Title)
	}
	if !strings.Contains(result.Content, "/unknown") {
		t.Errorf("Expected command name in content, got %q", result.Content)
	}
}

func TestModeHandler(t *testing.T) {
	router := chat.NewRouter(nopDoer{}, "/api/chat/send")
	d := NewDispatcher()
	ctx := NewContext(nil, router)

	list := d.Dispatch("/mode", ctx)
	if !strings.Contains(list.Content, "* local_only") {
		t.Errorf("Expected current mode marked, got %q", list.Content)
	}

	set := d.Dispatch("/mode chatgpt_only", ctx)
	if set.Error != nil {
		t.Fatalf("Unexpected error %v", set.Error)
	}
	if router.Mode() != chat.ModeChatGPTOnly {
		t.Errorf("Expected mode changed, got %q", router.Mode())
	}

	bad := d.Dispatch("/mode turbo", ctx)
	if bad.Error == nil {
		t.Error("Expected error for unknown mode")
	}
	if router.Mode() != chat.ModeChatGPTOnly {
		t.Errorf("Expected mode unchanged after bad input, got %q", router.Mode())
	}
}

func TestWhoAmIHandler(t *testing.T) {
	d := NewDispatcher()

	out := d.Dispatch("/whoami", NewContext(fakeSession{}, nil))
	if out.Content != "Not signed in." {
		t.Errorf("Unexpected content %q", out.Content)
	}

	out = d.Dispatch("/whoami", NewContext(signedIn(session.RoleSuperuser), nil))
	if out.Content != "alice (superuser), Operator mode" {
		t.Errorf("Unexpected content %q", out.Content)
	}
}

func TestInventoryHandler_RespectsRole(t *testing.T) {
	d := NewDispatcher()

	tests := []struct {
		name   string
		sess   fakeSession
		action ResultAction
	}{
		{"signed out", fakeSession{}, ActionNone},
		{"end user", signedIn(session.RoleUser), ActionNone},
		{"hr", signedIn(session.RoleHR), ActionNone},
		{"superuser", signedIn(session.RoleSuperuser), ActionOpenInventory},
		{"admin", signedIn(session.RoleAdmin), ActionOpenInventory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := d.Dispatch("/inventory", NewContext(tt.sess, nil))
			if out.Action != tt.action {
				t.Errorf("Action = %v, want %v (%q)", out.Action, tt.action, out.Content)
			}
		})
	}
}

func TestLogoutHandler(t *testing.T) {
	d := NewDispatcher()

	if out := d.Dispatch("/logout", NewContext(signedIn(session.RoleUser), nil)); out.Action != ActionLogout {
		t.Errorf("Expected logout action, got %v", out.Action)
	}
	if out := d.Dispatch("/logout", NewContext(fakeSession{}, nil)); out.Action != ActionNone {
		t.Errorf("Expected no action when signed out, got %v", out.Action)
	}
}

func TestLoginHandler(t *testing.T) {
	d := NewDispatcher()

	if out := d.Dispatch("/login", NewContext(fakeSession{}, nil)); out.Action != ActionShowLogin {
		t.Errorf("Expected show-login action, got %v", out.Action)
	}
	out := d.Dispatch("/login", NewContext(signedIn(session.RoleAdmin), nil))
	if out.Action != ActionNone || !strings.Contains(out.Content, "alice") {
		t.Errorf("Expected already-signed-in notice, got %+v", out)
	}
}

func TestHelpHandler_ListsCommands(t *testing.T) {
	d := NewDispatcher()

	out := d.Dispatch("/help", NewContext(nil, nil))
	for _, name := range []string{"/help", "/inventory", "/logout", "/mode", "/whoami", "Ctrl+T"} {
		if !strings.Contains(out.Content, name) {
			t.Errorf("Expected help to mention %s", name)
		}
	}
}
