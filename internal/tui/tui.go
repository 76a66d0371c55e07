package tui

import (
	"fmt"

	"cccm/config"
	"cccm/config/switcher"
	"cccm/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the TUI interface
func Run(m *config.Manager, s *switcher.Switcher) error {
	if !ui.IsTerminal() {
		return fmt.Errorf("cccm TUI requires a terminal. Use subcommands for non-interactive mode")
	}

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
	}

	p := tea.NewProgram(NewModel(m, s), opts...)

	_, err := p.Run()
	return err
}
