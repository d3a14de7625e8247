package main

import (
	"context"
	"fmt"
	"log/slog"

	"netsight/pkg/ui"

	tea "charm.land/bubbletea/v2"
)

func (a *app) runTUI(ctx context.Context) error {
	model := ui.NewModel(ctx, a.ctrl, a.router, a.inventory, a.redirect)
	p := tea.NewProgram(model, tea.WithContext(ctx))
	a.program.Store(p)
	defer a.program.Store(nil)

	slog.Info("tui_start")
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	slog.Info("tui_exit")
	return nil
}
