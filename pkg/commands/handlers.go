package commands

import (
	"fmt"
	"strings"

	"netsight/pkg/chat"
	"netsight/pkg/rbac"
)

// ModeHandler handles the /mode command
type ModeHandler struct{}

func (h *ModeHandler) Name() string        { return "/mode" }
func (h *ModeHandler) Description() string { return "Show or set the chat routing mode" }

func (h *ModeHandler) Execute(ctx *Context, args []string) *Result {
	if ctx.Chat == nil {
		return &Result{Title: "Mode", Content: "Chat is not available."}
	}
	if len(args) == 0 {
		var sb strings.Builder
		current := ctx.Chat.Mode()
		for _, m := range chat.Modes {
			marker := "  "
			if m == current {
				marker = "* "
			}
			fmt.Fprintf(&sb, "%s%-13s %s\n", marker, m, m.Label())
		}
		return &Result{Title: "Mode", Content: strings.TrimRight(sb.String(), "\n")}
	}

	mode, err := chat.ParseMode(args[0])
	if err == nil {
		err = ctx.Chat.SetMode(mode)
	}
	if err != nil {
		return &Result{Title: "Mode", Content: err.Error(), Error: err}
	}
	return &Result{Title: "Mode", Content: "Mode: " + mode.Label()}
}

// WhoAmIHandler handles the /whoami command
type WhoAmIHandler struct{}

func (h *WhoAmIHandler) Name() string        { return "/whoami" }
func (h *WhoAmIHandler) Description() string { return "Show the signed-in user and role" }

func (h *WhoAmIHandler) Execute(ctx *Context, args []string) *Result {
	if !ctx.LoggedIn() {
		return &Result{Title: "Who am I", Content: "Not signed in."}
	}
	sess, _ := ctx.Session.Session()
	role := ctx.Session.Role()
	return &Result{
		Title:   "Who am I",
		Content: fmt.Sprintf("%s (%s), %s", sess.User, role, rbac.Banner(role)),
	}
}

// InventoryHandler handles the /inventory command
type InventoryHandler struct{}

func (h *InventoryHandler) Name() string        { return "/inventory" }
func (h *InventoryHandler) Description() string { return "Open the ecosystem inventory" }

func (h *InventoryHandler) Execute(ctx *Context, args []string) *Result {
	if !ctx.LoggedIn() {
		return &Result{Title: "Inventory", Content: "Sign in first."}
	}
	if !rbac.Visible(ctx.Session.Role(), rbac.NavEcosystem) {
		return &Result{Title: "Inventory", Content: "The ecosystem inventory is not available in " + rbac.Banner(ctx.Session.Role()) + "."}
	}
	return &Result{Title: "Inventory", Content: "Loading inventory…", Action: ActionOpenInventory}
}

// LoginHandler handles the /login command
type LoginHandler struct{}

func (h *LoginHandler) Name() string        { return "/login" }
func (h *LoginHandler) Description() string { return "Go to the sign-in form" }

func (h *LoginHandler) Execute(ctx *Context, args []string) *Result {
	if ctx.LoggedIn() {
		sess, _ := ctx.Session.Session()
		return &Result{Title: "Login", Content: "Already signed in as " + sess.User + ". Use /logout first."}
	}
	return &Result{Title: "Login", Content: "Enter your credentials in the sign-in form.", Action: ActionShowLogin}
}

// LogoutHandler handles the /logout command
type LogoutHandler struct{}

func (h *LogoutHandler) Name() string        { return "/logout" }
func (h *LogoutHandler) Description() string { return "Sign out" }

func (h *LogoutHandler) Execute(ctx *Context, args []string) *Result {
	if !ctx.LoggedIn() {
		return &Result{Title: "Logout", Content: "Not signed in."}
	}
	return &Result{Title: "Logout", Content: "Signed out.", Action: ActionLogout}
}

// HelpHandler handles the /help command
type HelpHandler struct {
	dispatcher *Dispatcher
}

func (h *HelpHandler) Name() string        { return "/help" }
func (h *HelpHandler) Description() string { return "Show help" }

func (h *HelpHandler) Execute(ctx *Context, args []string) *Result {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	if h.dispatcher != nil {
		for _, handler := range h.dispatcher.Handlers() {
			fmt.Fprintf(&sb, "  %-11s %s\n", handler.Name(), handler.Description())
		}
	}
	sb.WriteString("\nShortcuts:\n")
	sb.WriteString("  Ctrl+T      Focus or leave the chat dock\n")
	sb.WriteString("  Ctrl+O      Cycle chat mode\n")
	sb.WriteString("  Ctrl+Y      Copy last answer\n")
	sb.WriteString("  Ctrl+L      Sign out\n")
	sb.WriteString("  Ctrl+C      Quit")
	return &Result{Title: "Help", Content: sb.String()}
}
