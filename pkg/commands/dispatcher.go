package commands

import (
	"sort"
	"strings"
)

// ResultAction asks the caller to do something beyond showing the result.
type ResultAction int

const (
	ActionNone ResultAction = iota
	ActionLogout
	ActionOpenInventory
	ActionShowLogin
)

// Result represents the result of a command execution
type Result struct {
	Title   string
	Content string
	Error   error
	Action  ResultAction
}

// Handler is the interface for command handlers
type Handler interface {
	Execute(ctx *Context, args []string) *Result
	Name() string
	Description() string
}

// Dispatcher routes slash commands to their handlers
type Dispatcher struct {
	handlers map[string]Handler
}

// NewDispatcher creates a new command dispatcher
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[string]Handler),
	}

	// Register default handlers
	d.Register(&ModeHandler{})
	d.Register(&WhoAmIHandler{})
	d.Register(&InventoryHandler{})
	d.Register(&LoginHandler{})
	d.Register(&LogoutHandler{})
	d.Register(&HelpHandler{dispatcher: d})

	return d
}

// Register adds a handler to the dispatcher
func (d *Dispatcher) Register(h Handler) {
	d.handlers[h.Name()] = h
}

// IsCommand reports whether line should be dispatched rather than sent as chat.
func IsCommand(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "/")
}

// Dispatch parses "/name arg..." and executes the matching handler.
func (d *Dispatcher) Dispatch(line string, ctx *Context) *Result {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return &Result{Title: "Error", Content: "Empty command"}
	}

	handler, ok := d.handlers[fields[0]]
	if !ok {
		return &Result{
			Title:   "Error",
			Content: "Unknown command: " + fields[0],
		}
	}

	return handler.Execute(ctx, fields[1:])
}

// GetHandler returns a handler by name
func (d *Dispatcher) GetHandler(cmdName string) (Handler, bool) {
	h, ok := d.handlers[cmdName]
	return h, ok
}

// Handlers returns every registered handler sorted by name.
func (d *Dispatcher) Handlers() []Handler {
	out := make([]Handler, 0, len(d.handlers))
	for _, h := range d.handlers {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
