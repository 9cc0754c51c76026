package main

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songbook/internal/ui"
	"github.com/urfave/cli/v3"
)

// SongsBrowse launches the interactive terminal song browser.
func (r *Runner) SongsBrowse(ctx context.Context, cmd *cli.Command) error {
	repo, store, err := r.songRepository()
	if err != nil {
		return err
	}
	defer store.Close()

	// Log lines would corrupt the alternate screen.
	r.logger.SetOutput(io.Discard)

	model := ui.NewModel(ctx, repo)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return model.Err()
}
