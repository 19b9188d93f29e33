package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/transit-budget/internal/cli"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return m.config.Theme.Error.Render("Error: "+m.err.Error()) + "\n\n" + m.help.View(m.keymap)
	}
	if !m.ready {
		return m.config.Theme.Subtitle.Render("Loading ledger...")
	}

	sections := []string{
		m.renderHeader(),
		cli.RenderReport(m.view),
	}
	if m.showList {
		sections = append(sections, m.renderTransactions())
	}
	sections = append(sections, m.renderStatusBar(), m.help.View(m.keymap))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	theme := m.config.Theme
	title := theme.Title.Render("Transit Budget")
	period := theme.Subtitle.Render(fmt.Sprintf("%s · %s", m.anchor.Label(), m.scope))
	return title + "  " + period + "\n"
}

func (m Model) renderTransactions() string {
	theme := m.config.Theme
	filter := "all"
	if m.filter.Type != "" {
		filter = string(m.filter.Type)
	}
	heading := theme.Bold.Render(fmt.Sprintf("Transactions in %s (%s)", m.anchor.Label(), filter))
	return heading + "\n" + cli.RenderTransactions(m.view.Transactions)
}

func (m Model) renderStatusBar() string {
	theme := m.config.Theme
	parts := []string{
		fmt.Sprintf("%d transactions", m.view.Aggregate.TransactionCount),
	}
	if m.view.HasPlan {
		state := "unlocked"
		if m.view.Plan.Locked {
			state = "locked"
		}
		parts = append(parts, "plan "+state)
	} else {
		parts = append(parts, "no plan")
	}
	parts = append(parts, "surplus "+cli.FormatNaira(m.view.PlanSummary.Surplus()))

	width := m.width
	if width <= 0 {
		width = 80
	}
	return theme.StatusBar.Width(width).Render(strings.Join(parts, " · "))
}
