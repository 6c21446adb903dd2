package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/taskboard/internal/client"
	"github.com/existflow/taskboard/internal/logger"
)

// Run starts the TUI over api and blocks until the user quits
func Run(api API, debounce *client.Debouncer) error {
	p := tea.NewProgram(NewModel(api, debounce), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("TUI exited with error", logger.F("error", err.Error()))
		return err
	}
	return nil
}
