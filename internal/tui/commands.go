package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const loadTimeout = 10 * time.Second

// loadDocument reads the full ledger from storage.
func (m Model) loadDocument() tea.Cmd {
	storage := m.config.Storage
	return func() tea.Msg {
		if storage == nil {
			return documentLoadedMsg{err: fmt.Errorf("storage not configured")}
		}

		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		doc, err := storage.LoadDocument(ctx)
		return documentLoadedMsg{doc: doc, err: err}
	}
}
