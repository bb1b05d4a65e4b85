// Package tui is the full-screen field editor.
package tui

import (
	"context"

	"fieldbuilder/internal/builder"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type Options struct {
	Builder   *builder.Builder
	Submitter Submitter
	Logger    *zap.Logger
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	applyThemePreference()
	applyColorProfilePreference()
	applyGlyphPreference()

	m := newEditorModel(ctx, opts.Builder, opts.Submitter)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		log.Warn("editor exited with error", zap.Error(err))
		return err
	}
	log.Debug("editor closed")
	return nil
}
