package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// Role is the access level that gates navigation and features.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
	RoleUser      Role = "user"
	RoleHR        Role = "hr"
	RoleIT        Role = "it"
	RoleUnknown   Role = "unknown"
)

var knownRoles = map[Role]bool{
	RoleAdmin:     true,
	RoleSuperuser: true,
	RoleUser:      true,
	RoleHR:        true,
	RoleIT:        true,
	RoleUnknown:   true,
}

// ParseRole maps a raw role string onto a Role. Matching is case-sensitive;
// anything unrecognised is RoleUnknown.
func ParseRole(raw string) Role {
	r := Role(raw)
	if knownRoles[r] {
		return r
	}
	return RoleUnknown
}

// UnmarshalText keeps decoded roles inside the closed set.
func (r *Role) UnmarshalText(text []byte) error {
	*r = ParseRole(string(text))
	return nil
}

// Session is the authenticated identity and token material for this client.
type Session struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	User        string    `json:"user"`
	Role        Role      `json:"role"`
	IssuedAt    time.Time `json:"issued_at"`
}

// LoggedIn reports whether the session carries a token.
func (s Session) LoggedIn() bool {
	return s.AccessToken != ""
}

// storedSession mirrors Session with pointer fields so missing keys can be
// told apart from empty values.
type storedSession struct {
	AccessToken *string    `json:"access_token"`
	TokenType   string     `json:"token_type"`
	User        string     `json:"user"`
	Role        *Role      `json:"role"`
	IssuedAt    *time.Time `json:"issued_at"`
}

func decodeSession(data []byte) (Session, error) {
	var raw storedSession
	if err := json.Unmarshal(data, &raw); err != nil {
		return Session{}, fmt.Errorf("failed to parse session: %w", err)
	}
	if raw.AccessToken == nil {
		return Session{}, fmt.Errorf("session is missing access_token")
	}

	sess := Session{
		AccessToken: *raw.AccessToken,
		TokenType:   raw.TokenType,
		User:        raw.User,
		Role:        RoleUnknown,
	}
	if raw.Role != nil {
		sess.Role = *raw.Role
	}
	if raw.IssuedAt != nil {
		sess.IssuedAt = *raw.IssuedAt
	}
	return sess, nil
}

// Profile is a display-only copy of who is signed in. RBAC never reads it.
type Profile struct {
	User      string    `json:"user"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`
}
