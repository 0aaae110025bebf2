package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/emoji-ledger/internal/derive"
	"github.com/Veraticus/emoji-ledger/internal/model"
)

func testData() model.FinanceData {
	data := model.DefaultData()
	data.Cards = []model.Card{
		{ID: "visa", Name: "Visa", Type: model.CardTypeCredit, ColorEmoji: "🟦"},
		{ID: "deb", Name: "Debit", Type: model.CardTypeDebit},
	}
	data.Transactions = []model.Transaction{
		{ID: "t3", Type: model.TypeCreditPayment, CategoryID: model.CreditPaymentCategoryID, TargetCardID: "visa", Amount: 80, Date: "2024-03-03T10:00:00.000Z"},
		{ID: "t2", Type: model.TypeCreditExpense, CategoryID: "7", PaymentMethod: model.CardRef("visa"), Amount: 200, Date: "2024-03-02T10:00:00.000Z"},
		{ID: "t1", Type: model.TypeIncome, CategoryID: "gone", Amount: 100, Date: "2024-03-01T10:00:00.000Z"},
	}
	return data
}

func TestRenderBalance(t *testing.T) {
	var buf bytes.Buffer
	cards := []derive.CardWithDebt{
		{Card: model.Card{Name: "Visa", ColorEmoji: "🟦"}, Debt: 120},
		{Card: model.Card{Name: "Paid Off"}, Debt: 0},
	}

	RenderBalance(&buf, -80, 120, cards)

	out := buf.String()
	assert.Contains(t, out, "Balance: -$80.00")
	assert.Contains(t, out, "Credit debt: $120.00")
	assert.Contains(t, out, "🟦 Visa: $120.00")
	assert.NotContains(t, out, "Paid Off")
}

func TestRenderHistory(t *testing.T) {
	data := testData()
	var buf bytes.Buffer

	RenderHistory(&buf, data.Transactions, derive.NewResolver(data))

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 5, "header, rule, and three rows")
	assert.Contains(t, lines[2], "Payment to Visa")
	assert.Contains(t, lines[2], "-$80.00")
	assert.Contains(t, lines[3], "🔴 $200.00")
	assert.Contains(t, lines[4], "❓ Uncategorized", "orphan categories render a fallback")
	assert.Contains(t, lines[4], "💵 Cash")
	assert.Contains(t, lines[4], "+$100.00")

	buf.Reset()
	RenderHistory(&buf, nil, derive.NewResolver(data))
	assert.Contains(t, buf.String(), "No transactions yet")
}

func TestRenderStats(t *testing.T) {
	data := testData()
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	stats := derive.StatsByCategoryAndPeriod(data.Transactions, derive.PeriodMonth, derive.ViewAll, now)
	totals := derive.PeriodTotals(data.Transactions)
	var buf bytes.Buffer

	RenderStats(&buf, derive.PeriodMonth, derive.ViewAll, totals, stats, derive.NewResolver(data))

	out := buf.String()
	assert.Contains(t, out, "Stats: month, all")
	assert.Contains(t, out, "Income $100")
	assert.Contains(t, out, "On credit $200")
	assert.Contains(t, out, "🛒 Compras")
	assert.Contains(t, out, "53%")

	buf.Reset()
	RenderStats(&buf, derive.PeriodWeek, derive.ViewIncome, derive.Totals{}, nil, derive.NewResolver(data))
	assert.Contains(t, buf.String(), "Nothing recorded")
}

func TestRenderCards(t *testing.T) {
	data := testData()
	day := 12
	data.Cards[0].CutOffDay = &day
	var buf bytes.Buffer

	RenderCards(&buf, data.Cards, derive.CardDebts(data.Transactions))

	out := buf.String()
	assert.Contains(t, out, "🟦 Visa")
	assert.Contains(t, out, "$120.00")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "💳 Debit")
}

func TestRenderCategories(t *testing.T) {
	var buf bytes.Buffer
	RenderCategories(&buf, []model.Category{{ID: "1", Emoji: "🍕", Description: "Comida"}, {ID: "x", Emoji: "🎲"}})

	out := buf.String()
	assert.Contains(t, out, "Comida")
	assert.Contains(t, out, "(no description)")
}

func TestFormatTitle(t *testing.T) {
	assert.Contains(t, FormatTitle("Saved snapshots"), LedgerIcon+" Saved snapshots")
}

func TestFormatTransactionDate(t *testing.T) {
	assert.Equal(t, "Mar 01 2024 10:00", FormatTransactionDate("2024-03-01T10:00:00.000Z", time.UTC))
	assert.Equal(t, "not a date", FormatTransactionDate("not a date", time.UTC))
}
