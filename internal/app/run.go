package app

import (
	"context"

	tea "charm.land/bubbletea/v2"
)

// Run starts the full-screen UI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	model := NewModel(opts)
	p := tea.NewProgram(model, tea.WithContext(ctx))
	_, err := p.Run()
	model.session.Teardown()
	return err
}
