package main

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"netsight/pkg/auth"
	"netsight/pkg/chat"
	"netsight/pkg/config"
	"netsight/pkg/gateway"
	"netsight/pkg/inventory"
	"netsight/pkg/logging"
	"netsight/pkg/quiz"
	"netsight/pkg/session"
	"netsight/pkg/ui"

	tea "charm.land/bubbletea/v2"
)

// app holds the collaborators shared by every subcommand. The session
// controller is built once here and handed to whichever front end runs.
type app struct {
	configPath string
	cfg        config.Config

	gw        *gateway.Client
	store     *session.Store
	ctrl      *auth.Controller
	redirect  *ui.Redirect
	router    *chat.Router
	inventory *inventory.Client
	quiz      *quiz.Client

	program atomic.Pointer[tea.Program]
}

// newApp loads configuration and wires the clients. A nil environ reads the
// process environment.
func newApp(configPath string, environ map[string]string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg, err = config.ApplyEnv(cfg, environ)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}

	if _, err := logging.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
	}
	slog.Info("netsight_start", "config_path", configPath, "gateway", cfg.Gateway.BaseURL)

	a := &app{configPath: configPath, cfg: cfg}
	a.gw = gateway.NewClient(cfg.Gateway)
	a.store = session.NewStore(cfg.SessionFile, cfg.ProfileFile)
	a.redirect = ui.NewRedirect()
	a.ctrl = auth.NewController(
		auth.NewClient(a.gw, cfg.Gateway),
		a.store,
		auth.WithNavigator(a.redirect.Navigate),
		auth.WithTransitionHook(a.onTransition),
	)
	a.gw.SetAuthSource(a.ctrl.AuthHeader)

	mode, err := chat.ParseMode(cfg.ChatMode)
	if err != nil {
		mode = chat.DefaultMode
	}
	a.router = chat.NewRouter(a.gw, cfg.Gateway.ChatPath, chat.WithGreeting(), chat.WithMode(mode))
	a.inventory = inventory.NewClient(a.gw, cfg.Gateway.InventoryPath)
	a.quiz = quiz.NewClient(a.gw, cfg.Gateway.ScorePath)
	return a, nil
}

// onTransition forwards login progress to the TUI when one is running.
func (a *app) onTransition(from, to auth.State) {
	slog.Debug("auth_transition", "from", from.String(), "to", to.String())
	if p := a.program.Load(); p != nil {
		p.Send(ui.AuthStateMsg{State: to})
	}
}
