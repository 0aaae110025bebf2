// Package tui provides an interactive ledger browser built on bubbletea.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/emoji-ledger/internal/cli"
	"github.com/Veraticus/emoji-ledger/internal/derive"
	"github.com/Veraticus/emoji-ledger/internal/model"
	"github.com/Veraticus/emoji-ledger/internal/tui/themes"
)

// Ledger is the part of the ledger store the browser reads and mutates.
type Ledger interface {
	History(limit int) []model.Transaction
	Balance() float64
	TotalCreditDebt() float64
	Stats(period derive.Period, view derive.ViewType) []derive.CategoryStat
	Totals(period derive.Period) derive.Totals
	Resolver() *derive.Resolver
	DeleteTransaction(id string) (bool, error)
}

// chromeHeight is the number of lines drawn around the table.
const chromeHeight = 10

var periods = []derive.Period{derive.PeriodMonth, derive.PeriodWeek, derive.PeriodYear, derive.PeriodAll}

// Model holds the browser state.
type Model struct {
	ledger       Ledger
	lastError    error
	config       Config
	theme        themes.Theme
	keymap       KeyMap
	status       string
	period       derive.Period
	transactions []model.Transaction
	table        table.Model
	width        int
	height       int
	showStats    bool
	quitting     bool
}

// New creates a browser over ledger.
func New(ledger Ledger, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	t := table.New(
		table.WithColumns(columns(cfg.Width)),
		table.WithFocused(true),
		table.WithHeight(tableHeight(cfg.Height)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(cfg.Theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = cfg.Theme.Selected
	t.SetStyles(s)

	m := Model{
		ledger: ledger,
		config: cfg,
		theme:  cfg.Theme,
		keymap: DefaultKeyMap(),
		period: derive.PeriodMonth,
		table:  t,
		width:  cfg.Width,
		height: cfg.Height,
	}
	m.refresh()
	return m
}

// Run starts the browser and blocks until the user quits or ctx is done.
func Run(ctx context.Context, ledger Ledger, opts ...Option) error {
	p := tea.NewProgram(New(ledger, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ledger browser failed: %w", err)
	}
	return nil
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(tableHeight(msg.Height))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Delete):
			m.deleteSelected()
			return m, nil
		case key.Matches(msg, m.keymap.Period):
			m.period = nextPeriod(m.period)
			m.status = ""
			return m, nil
		case key.Matches(msg, m.keymap.Stats):
			m.showStats = !m.showStats
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// Selected returns the highlighted transaction.
func (m Model) Selected() (model.Transaction, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.transactions) {
		return model.Transaction{}, false
	}
	return m.transactions[i], true
}

func (m *Model) deleteSelected() {
	t, ok := m.Selected()
	if !ok {
		return
	}
	removed, err := m.ledger.DeleteTransaction(t.ID)
	if err != nil {
		m.lastError = err
		m.status = ""
		return
	}
	m.lastError = nil
	if removed {
		m.status = fmt.Sprintf("Deleted %s", cli.FormatMoney(t.Amount))
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.transactions = m.ledger.History(0)
	resolver := m.ledger.Resolver()

	rows := make([]table.Row, len(m.transactions))
	for i, t := range m.transactions {
		cat, _ := resolver.Category(t.CategoryID)
		pay := resolver.PaymentDisplay(t)
		rows[i] = table.Row{
			cli.FormatTransactionDate(t.Date, m.config.Location),
			cat.Emoji + " " + cat.Description,
			pay.Emoji + " " + pay.Label,
			derive.AmountPrefix(t.Type) + cli.FormatMoney(t.Amount),
		}
	}
	m.table.SetRows(rows)

	if n := len(rows); m.table.Cursor() >= n && n > 0 {
		m.table.SetCursor(n - 1)
	}
}

func nextPeriod(p derive.Period) derive.Period {
	for i, candidate := range periods {
		if candidate == p {
			return periods[(i+1)%len(periods)]
		}
	}
	return periods[0]
}

func columns(width int) []table.Column {
	rest := max(width-18-14-8, 30)
	return []table.Column{
		{Title: "Date", Width: 18},
		{Title: "Category", Width: rest / 2},
		{Title: "Paid with", Width: rest - rest/2},
		{Title: "Amount", Width: 14},
	}
}

func tableHeight(height int) int {
	return max(height-chromeHeight, 3)
}
