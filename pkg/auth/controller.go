package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"netsight/pkg/rbac"
	"netsight/pkg/session"
)

// State is a step of the login state machine.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateResolvingRole
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateResolvingRole:
		return "resolving_role"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// Controller state errors
var (
	ErrLoginInProgress = errors.New("login already in progress")
	ErrUnacknowledged  = errors.New("previous login failure not acknowledged")
)

// Authenticator is the network side of a login.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (Token, error)
	ResolveRole(ctx context.Context, token string) session.Role
}

// SessionStore is the persistence the controller writes through.
type SessionStore interface {
	Save(sess session.Session) error
	Load() (session.Session, bool)
	Clear()
	SaveProfile(p session.Profile) error
}

// Navigator is invoked with a target when a protected view is opened
// without a session.
type Navigator func(target string)

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithNavigator sets the redirect hook used by RequireAuth.
func WithNavigator(nav Navigator) ControllerOption {
	return func(c *Controller) { c.navigate = nav }
}

// WithTransitionHook registers a callback run after every state change.
func WithTransitionHook(fn func(from, to State)) ControllerOption {
	return func(c *Controller) { c.onTransition = fn }
}

// Controller owns the login lifecycle and answers session queries. It is
// the only writer of the session store.
type Controller struct {
	auth     Authenticator
	store    SessionStore
	navigate Navigator
	now      func() time.Time

	onTransition func(from, to State)

	mu      sync.Mutex
	state   State
	lastErr error
}

// NewController creates a controller. A stored, logged-in session starts
// the machine in StateAuthenticated.
func NewController(auth Authenticator, store SessionStore, opts ...ControllerOption) *Controller {
	c := &Controller{
		auth:     auth,
		store:    store,
		navigate: func(string) {},
		now:      time.Now,
		state:    StateAnonymous,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.IsLoggedIn() {
		c.state = StateAuthenticated
	}
	return c
}

// State returns the current login state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error that moved the machine to StateFailed, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) transition(to State, err error) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.lastErr = err
	hook := c.onTransition
	c.mu.Unlock()

	slog.Debug("auth_state", "from", from.String(), "to", to.String())
	if hook != nil {
		hook(from, to)
	}
}

// Submit runs a full login: credentials, role resolution, session write.
// On success it returns the landing page for the resolved role. On failure
// the machine stays in StateFailed until Acknowledge.
func (c *Controller) Submit(ctx context.Context, username, password string) (rbac.Page, error) {
	c.mu.Lock()
	switch c.state {
	case StateAuthenticating, StateResolvingRole:
		c.mu.Unlock()
		return "", ErrLoginInProgress
	case StateFailed:
		c.mu.Unlock()
		return "", ErrUnacknowledged
	}
	from := c.state
	c.state = StateAuthenticating
	c.lastErr = nil
	hook := c.onTransition
	c.mu.Unlock()

	slog.Debug("auth_state", "from", from.String(), "to", StateAuthenticating.String())
	if hook != nil {
		hook(from, StateAuthenticating)
	}

	tok, err := c.auth.Login(ctx, username, password)
	if err != nil {
		slog.Warn("auth_login_failed", "error", err)
		c.transition(StateFailed, err)
		return "", err
	}

	c.transition(StateResolvingRole, nil)
	role := c.auth.ResolveRole(ctx, tok.AccessToken)

	sess := session.Session{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		User:        tok.Username,
		Role:        role,
		IssuedAt:    tok.IssuedAt,
	}
	if err := c.store.Save(sess); err != nil {
		// Storage degraded: the user stays effectively logged out.
		slog.Warn("auth_session_not_persisted", "error", err)
	}
	if err := c.store.SaveProfile(session.Profile{User: sess.User, Role: role, Timestamp: c.now()}); err != nil {
		slog.Debug("auth_profile_not_persisted", "error", err)
	}

	c.transition(StateAuthenticated, nil)

	landing := rbac.Landing(role)
	slog.Info("auth_authenticated", "user", sess.User, "role", string(role), "landing", string(landing))
	return landing, nil
}

// Acknowledge clears a failed login so credentials can be entered again.
func (c *Controller) Acknowledge() {
	if c.State() == StateFailed {
		c.transition(StateAnonymous, nil)
	}
}

// Session returns the stored session, if any.
func (c *Controller) Session() (session.Session, bool) {
	return c.store.Load()
}

// IsLoggedIn reports whether a stored session with a token exists.
func (c *Controller) IsLoggedIn() bool {
	sess, ok := c.store.Load()
	return ok && sess.LoggedIn()
}

// Role returns the role from the stored session, RoleUnknown when logged out.
func (c *Controller) Role() session.Role {
	sess, ok := c.store.Load()
	if !ok || !sess.LoggedIn() || sess.Role == "" {
		return session.RoleUnknown
	}
	return sess.Role
}

// RequireAuth redirects to target when there is no session and reports
// whether the caller may continue rendering.
func (c *Controller) RequireAuth(target string) bool {
	if c.IsLoggedIn() {
		return true
	}
	slog.Debug("auth_require_redirect", "target", target)
	c.navigate(target)
	return false
}

// AuthHeader returns the Authorization header for the current session, or an
// empty header when logged out.
func (c *Controller) AuthHeader() http.Header {
	h := http.Header{}
	sess, ok := c.store.Load()
	if !ok || !sess.LoggedIn() {
		return h
	}
	h.Set("Authorization", "Bearer "+sess.AccessToken)
	return h
}

// Logout removes the stored session. Calling it twice is harmless.
func (c *Controller) Logout() {
	c.store.Clear()
	if c.State() != StateAnonymous {
		c.transition(StateAnonymous, nil)
	}
	slog.Info("auth_logout")
}
