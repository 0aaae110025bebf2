package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/emoji-ledger/internal/derive"
	"github.com/Veraticus/emoji-ledger/internal/model"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeHeader(w io.Writer, columns ...string) {
	styled := make([]string, len(columns))
	dashes := make([]string, len(columns))
	for i, c := range columns {
		styled[i] = headerStyle.Render(c)
		dashes[i] = strings.Repeat("-", max(len(c), 4))
	}
	fmt.Fprintln(w, strings.Join(styled, "\t"))
	fmt.Fprintln(w, strings.Join(dashes, "\t"))
}

// FormatSigned renders a transaction amount with its type prefix and color.
func FormatSigned(t model.Transaction) string {
	text := derive.AmountPrefix(t.Type) + FormatMoney(t.Amount)
	switch t.Type {
	case model.TypeIncome:
		return IncomeStyle.Render(text)
	case model.TypeCreditExpense:
		return DebtStyle.Render(text)
	case model.TypeExpense, model.TypeCreditPayment:
		return ExpenseStyle.Render(text)
	default:
		return text
	}
}

// FormatTransactionDate renders a stored date in the local time zone. Dates
// that cannot be parsed are shown as stored.
func FormatTransactionDate(date string, loc *time.Location) string {
	ts, err := model.ParseDate(date)
	if err != nil {
		return date
	}
	if loc == nil {
		loc = time.Local
	}
	return ts.In(loc).Format("Jan 02 2006 15:04")
}

// RenderBalance prints the balance header and the credit cards carrying debt.
func RenderBalance(w io.Writer, balance, totalDebt float64, cards []derive.CardWithDebt) {
	balanceStyle := IncomeStyle
	if balance < 0 {
		balanceStyle = ExpenseStyle
	}

	lines := []string{
		fmt.Sprintf("%s Balance: %s", CashIcon, balanceStyle.Render(FormatMoney(balance))),
		fmt.Sprintf("%s Credit debt: %s", CardIcon, DebtStyle.Render(FormatMoney(totalDebt))),
	}
	for _, c := range cards {
		if c.Debt <= 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("   %s %s: %s", emojiOr(c.ColorEmoji, CardIcon), c.Name, FormatMoney(c.Debt)))
	}

	fmt.Fprintln(w, RenderBox(LedgerIcon+" Ledger", strings.Join(lines, "\n")))
}

// RenderHistory prints transactions newest first.
func RenderHistory(w io.Writer, txns []model.Transaction, resolver *derive.Resolver) {
	if len(txns) == 0 {
		fmt.Fprintln(w, InfoStyle.Render("No transactions yet. Use 'ledger add' to record one."))
		return
	}

	tw := newTable(w)
	defer tw.Flush()

	writeHeader(tw, "ID", "Date", "Category", "Paid with", "Amount")
	for _, t := range txns {
		cat, _ := resolver.Category(t.CategoryID)
		pay := resolver.PaymentDisplay(t)
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s %s\t%s\n",
			t.ID,
			FormatTransactionDate(t.Date, nil),
			cat.Emoji, cat.Description,
			pay.Emoji, pay.Label,
			FormatSigned(t))
	}
}

// RenderStats prints period totals followed by the per-category breakdown.
func RenderStats(w io.Writer, period derive.Period, view derive.ViewType, totals derive.Totals, stats []derive.CategoryStat, resolver *derive.Resolver) {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("%s Stats: %s, %s", ChartIcon, period, view)))
	fmt.Fprintf(w, "Income %s  Spent %s  On credit %s  Net %s\n\n",
		IncomeStyle.Render(FormatWholeMoney(totals.Income)),
		ExpenseStyle.Render(FormatWholeMoney(totals.RealExpense)),
		DebtStyle.Render(FormatWholeMoney(totals.CreditExpense)),
		FormatWholeMoney(totals.Balance))

	if len(stats) == 0 {
		fmt.Fprintln(w, SubtleStyle.Render("Nothing recorded in this period."))
		return
	}

	tw := newTable(w)
	defer tw.Flush()

	writeHeader(tw, "Category", "Count", "Total", "Share")
	for _, s := range stats {
		cat, _ := resolver.Category(s.CategoryID)
		fmt.Fprintf(tw, "%s %s\t%d\t%s\t%.0f%%\n",
			cat.Emoji, cat.Description, s.Count, FormatMoney(s.Total), s.Share*100)
	}
}

// RenderCategories lists categories.
func RenderCategories(w io.Writer, categories []model.Category) {
	if len(categories) == 0 {
		fmt.Fprintln(w, InfoStyle.Render("No categories found. Use 'ledger categories add' to create one."))
		return
	}

	tw := newTable(w)
	defer tw.Flush()

	writeHeader(tw, "ID", "Emoji", "Description")
	for _, c := range categories {
		desc := c.Description
		if desc == "" {
			desc = SubtleStyle.Render("(no description)")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Emoji, desc)
	}
}

// RenderCards lists cards with their clamped debt.
func RenderCards(w io.Writer, cards []model.Card, debts map[string]float64) {
	if len(cards) == 0 {
		fmt.Fprintln(w, InfoStyle.Render("No cards yet. Use 'ledger cards add' to create one."))
		return
	}

	tw := newTable(w)
	defer tw.Flush()

	writeHeader(tw, "ID", "Card", "Type", "Cut-off", "Payment", "Debt")
	for _, c := range cards {
		debt := "-"
		if c.IsCredit() {
			debt = FormatMoney(max(0, derive.CardDebt(debts, c.ID)))
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\t%s\n",
			c.ID, emojiOr(c.ColorEmoji, CardIcon), c.Name, c.Type,
			formatDay(c.CutOffDay), formatDay(c.PaymentDay), debt)
	}
}

func formatDay(day *int) string {
	if day == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *day)
}

func emojiOr(emoji, fallback string) string {
	if emoji == "" {
		return fallback
	}
	return emoji
}
