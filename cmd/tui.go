package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/trackport/internal/shared"
	"github.com/desertthunder/trackport/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiLogFile = "trackport-tui.log"

// TUI launches the interactive terminal browser for stored tracks.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	s, err := r.openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	// Redirect logs to file to avoid interfering with TUI rendering
	logCfg := r.config.Logging
	if logCfg.File == "" {
		logCfg.File = tuiLogFile
	}
	fileLogger, closer := shared.NewFileLogger(logCfg)
	defer closer.Close()
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, s.tracks, r.importer(s, fileLogger))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
