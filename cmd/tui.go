package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ghshelf/ghshelf/internal/shared"
	"github.com/ghshelf/ghshelf/internal/tasks"
	"github.com/ghshelf/ghshelf/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for importing repositories.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	s, keeper, closeDB, err := r.openKeeper()
	if err != nil {
		return err
	}
	defer closeDB()

	tok := keeper.Get()
	client := r.newClient(tok)

	validation := client.ValidateToken(ctx)
	if !validation.Valid {
		return fmt.Errorf("cannot start TUI: %w", validation.Err)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/ghshelf-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine := tasks.NewEngine(client, s, keeper, fileLogger)
	model := ui.NewModel(ctx, engine, validation.Username)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
