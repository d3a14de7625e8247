package commands

import (
	"netsight/pkg/chat"
	"netsight/pkg/session"
)

// SessionInfo exposes the current session to handlers.
type SessionInfo interface {
	Session() (session.Session, bool)
	Role() session.Role
}

// Context contains all the context needed for command execution
type Context struct {
	Session SessionInfo
	Chat    *chat.Router
}

// NewContext creates a new command context
func NewContext(sess SessionInfo, router *chat.Router) *Context {
	return &Context{
		Session: sess,
		Chat:    router,
	}
}

// LoggedIn reports whether a session with a token is stored.
func (c *Context) LoggedIn() bool {
	if c.Session == nil {
		return false
	}
	sess, ok := c.Session.Session()
	return ok && sess.LoggedIn()
}
