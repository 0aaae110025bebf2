package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/emoji-ledger/internal/cli"
	"github.com/Veraticus/emoji-ledger/internal/derive"
)

// maxStatsRows limits the category breakdown shown above the table.
const maxStatsRows = 5

// View renders the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderTotals(),
	}
	if m.showStats {
		sections = append(sections, m.renderStats())
	}
	if len(m.transactions) == 0 {
		sections = append(sections, m.theme.Subtitle.Render("No transactions yet."))
	} else {
		sections = append(sections, m.table.View())
	}
	sections = append(sections, m.renderStatus(), m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	balance := m.ledger.Balance()
	balanceStyle := m.theme.Income
	if balance < 0 {
		balanceStyle = m.theme.Expense
	}

	line := fmt.Sprintf("%s   %s %s   %s %s",
		m.theme.Title.Render(cli.LedgerIcon+" Ledger"),
		cli.CashIcon, balanceStyle.Render(cli.FormatMoney(balance)),
		cli.CardIcon, m.theme.Debt.Render(cli.FormatMoney(m.ledger.TotalCreditDebt())))
	return m.theme.RoundedBox.Render(line)
}

func (m Model) renderTotals() string {
	totals := m.ledger.Totals(m.period)
	return fmt.Sprintf("%s  Income %s  Spent %s  On credit %s",
		m.theme.Subtitle.Render(string(m.period)),
		m.theme.Income.Render(cli.FormatWholeMoney(totals.Income)),
		m.theme.Expense.Render(cli.FormatWholeMoney(totals.RealExpense)),
		m.theme.Debt.Render(cli.FormatWholeMoney(totals.CreditExpense)))
}

func (m Model) renderStats() string {
	stats := m.ledger.Stats(m.period, derive.ViewAll)
	if len(stats) == 0 {
		return m.theme.Subtitle.Render("Nothing recorded in this period.")
	}

	resolver := m.ledger.Resolver()
	var b strings.Builder
	for i, s := range stats {
		if i == maxStatsRows {
			fmt.Fprintf(&b, "  … %d more\n", len(stats)-maxStatsRows)
			break
		}
		cat, _ := resolver.Category(s.CategoryID)
		fmt.Fprintf(&b, "  %s %-18s %4.0f%%  %s\n", cat.Emoji, cat.Description, s.Share*100, cli.FormatMoney(s.Total))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderStatus() string {
	if m.lastError != nil {
		return m.theme.StatusError.Render(cli.ErrorIcon + " " + m.lastError.Error())
	}
	if m.status != "" {
		return m.theme.StatusSuccess.Render(cli.SuccessIcon + " " + m.status)
	}
	return ""
}

func (m Model) renderHelp() string {
	bindings := m.keymap.ShortHelp()
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.theme.Help.Render(strings.Join(parts, " • "))
}
