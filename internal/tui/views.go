package tui

import (
	"fmt"
	"strings"

	"cccm/internal/utils"

	"github.com/charmbracelet/lipgloss"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(true)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	activeSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Background(lipgloss.Color("57")).
				Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))
)

// RenderMainView renders the main list view
func (m Model) RenderMainView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Claude Config Manager"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(40))))
	b.WriteString("\n\n")

	if len(m.names) == 0 {
		b.WriteString(dimStyle.Render("No profiles yet, press 'a' to add one"))
		b.WriteString("\n")
	} else {
		visibleHeight := m.getVisibleListHeight()
		startIdx := m.scrollOffset
		endIdx := startIdx + visibleHeight
		if endIdx > len(m.names) {
			endIdx = len(m.names)
		}

		if startIdx > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ %d more...", startIdx)))
			b.WriteString("\n")
		}

		for i := startIdx; i < endIdx; i++ {
			b.WriteString(m.renderProfileLine(i))
			b.WriteString("\n")
		}

		if endIdx < len(m.names) {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ %d more...", len(m.names)-endIdx)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", m.getEffectiveWidth(40))))
	b.WriteString("\n")

	b.WriteString(m.RenderStatusBar())

	return b.String()
}

// getEffectiveWidth returns the effective width for rendering, with a minimum and maximum
func (m Model) getEffectiveWidth(defaultWidth int) int {
	if m.width <= 0 {
		return defaultWidth
	}
	maxWidth := 80
	if m.width < maxWidth {
		return m.width - 2
	}
	return maxWidth
}

// renderProfileLine renders a single profile line in the list
func (m Model) renderProfileLine(index int) string {
	name := m.names[index]
	profile := m.store.Profiles[name]

	isSelected := index == m.cursor
	isActive := name == m.store.CurrentName()

	cursor := "  "
	if isSelected {
		cursor = "> "
	}

	activeMarker := "  "
	if isActive {
		activeMarker = "* "
	}

	urlInfo := ""
	if profile.BaseURL != "" {
		urlInfo = fmt.Sprintf(" (%s)", utils.Truncate(profile.BaseURL, 30))
	}

	content := cursor + activeMarker + name + urlInfo

	switch {
	case isSelected && isActive:
		return activeSelectedStyle.Render(content)
	case isSelected:
		return selectedStyle.Render(content)
	case isActive:
		return activeStyle.Render(content)
	}
	return normalStyle.Render(content)
}

// Detail view styles
var (
	detailLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241")).
				Width(13)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	detailActiveTagStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Background(lipgloss.Color("22")).
				Bold(true).
				Padding(0, 1)

	detailMaskedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))
)

// RenderDetailView renders the detail view
func (m Model) RenderDetailView() string {
	var b strings.Builder

	if m.selected < 0 || m.selected >= len(m.names) {
		return dimStyle.Render("No profile selected, press Enter on a profile to see its details")
	}

	name := m.names[m.selected]
	profile := m.store.Profiles[name]
	effectiveWidth := m.getEffectiveWidth(40)
	valueWidth := effectiveWidth - 14

	b.WriteString(titleStyle.Render("Profile details"))
	if name == m.store.CurrentName() {
		b.WriteString("  ")
		b.WriteString(detailActiveTagStyle.Render("★ current"))
	}
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n\n")

	b.WriteString(detailLabelStyle.Render("Name:"))
	b.WriteString(detailValueStyle.Render(utils.Truncate(name, valueWidth)))
	b.WriteString("\n")

	b.WriteString(detailLabelStyle.Render("Base URL:"))
	b.WriteString(detailValueStyle.Render(utils.Truncate(profile.BaseURL, valueWidth)))
	b.WriteString("\n")

	b.WriteString(detailLabelStyle.Render("API Key:"))
	if m.revealKey {
		b.WriteString(detailValueStyle.Render(profile.APIKey))
	} else {
		b.WriteString(detailMaskedStyle.Render(utils.MaskAPIKey(profile.APIKey)))
	}
	b.WriteString("\n")

	b.WriteString(detailLabelStyle.Render("Description:"))
	if profile.Description != "" {
		b.WriteString(detailValueStyle.Render(utils.Truncate(profile.Description, valueWidth)))
	} else {
		b.WriteString(dimStyle.Render("(none)"))
	}
	b.WriteString("\n")

	b.WriteString(detailLabelStyle.Render("Created:"))
	if profile.Created != "" {
		b.WriteString(detailValueStyle.Render(profile.Created))
	} else {
		b.WriteString(dimStyle.Render("(unknown)"))
	}
	b.WriteString("\n")

	if m.errorMsg != "" || m.message != "" {
		b.WriteString("\n")
		b.WriteString(m.renderMessages())
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("s: switch │ v: show/hide key │ e: edit │ d: delete │ Esc: back"))

	return b.String()
}

// RenderDeleteConfirm renders the delete confirmation dialog
func (m Model) RenderDeleteConfirm() string {
	var b strings.Builder
	effectiveWidth := m.getEffectiveWidth(40)

	b.WriteString(titleStyle.Render("Delete profile"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n\n")

	if name, ok := m.cursorName(); ok {
		profile := m.store.Profiles[name]

		b.WriteString(errorStyle.Render("⚠ This cannot be undone!"))
		b.WriteString("\n\n")

		b.WriteString(normalStyle.Render("About to delete: "))
		b.WriteString(selectedStyle.Render(name))
		b.WriteString("\n\n")

		if name == m.store.CurrentName() {
			b.WriteString(errorStyle.Render("This is the current profile; the Claude config keeps its values."))
			b.WriteString("\n\n")
		}

		b.WriteString(dimStyle.Render("Base URL: " + utils.Truncate(profile.BaseURL, effectiveWidth-10)))
		b.WriteString("\n")
	} else {
		b.WriteString(errorStyle.Render("No profile selected"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("y: delete │ n/Esc: cancel"))

	return b.String()
}

// RenderHelpView renders the help panel with scrolling support
func (m Model) RenderHelpView() string {
	var b strings.Builder
	effectiveWidth := m.getEffectiveWidth(50)

	b.WriteString(titleStyle.Render("Keyboard shortcuts"))
	b.WriteString("\n")
	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n")

	helpLines := m.buildHelpLines()

	visibleHeight := m.getVisibleHelpHeight()
	startIdx := m.helpScrollOffset
	endIdx := startIdx + visibleHeight
	if endIdx > len(helpLines) {
		endIdx = len(helpLines)
	}

	if startIdx > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ↑ %d more lines...", startIdx)))
	}
	b.WriteString("\n")

	for i := startIdx; i < endIdx; i++ {
		b.WriteString(helpLines[i])
	}

	if endIdx < len(helpLines) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ↓ %d more lines...", len(helpLines)-endIdx)))
		b.WriteString("\n")
	}

	b.WriteString(separatorStyle.Render(strings.Repeat("─", effectiveWidth)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("j/k: scroll │ q/Esc: back"))

	return b.String()
}

// buildHelpLines builds all help content lines from the key map
func (m Model) buildHelpLines() []string {
	sections := []string{"Navigation", "Profiles", "Details & backups", "General"}

	var lines []string
	for i, group := range m.keys.FullHelp() {
		lines = append(lines, helpKeyStyle.Bold(true).Render(sections[i])+"\n")
		for _, binding := range group {
			lines = append(lines, renderHelpLine(binding.Help().Key, binding.Help().Desc))
		}
		lines = append(lines, "\n")
	}
	return lines
}

// renderHelpLine renders a single help line with key and description
func renderHelpLine(key, desc string) string {
	keyStyled := helpKeyStyle.Render(fmt.Sprintf("  %-10s", key))
	descStyled := normalStyle.Render(desc)
	return fmt.Sprintf("%s %s\n", keyStyled, descStyled)
}

// renderMessages renders the error and status lines
func (m Model) renderMessages() string {
	var b strings.Builder
	if m.errorMsg != "" {
		b.WriteString(errorStyle.Render("✗ Error: " + m.errorMsg))
		b.WriteString("\n")
	}
	if m.message != "" {
		b.WriteString(messageStyle.Render("✓ " + m.message))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderStatusBar renders the bottom status bar
func (m Model) RenderStatusBar() string {
	var b strings.Builder

	if m.errorMsg != "" || m.message != "" {
		b.WriteString(m.renderMessages())
		b.WriteString("\n")
	}

	shortHelp := m.keys.ShortHelp()
	hints := make([]string, 0, len(shortHelp))
	for _, k := range shortHelp {
		keyStr := helpKeyStyle.Render(k.Help().Key)
		descStr := helpStyle.Render(k.Help().Desc)
		hints = append(hints, fmt.Sprintf("%s %s", keyStr, descStr))
	}
	b.WriteString(strings.Join(hints, helpStyle.Render(" │ ")))

	return b.String()
}
