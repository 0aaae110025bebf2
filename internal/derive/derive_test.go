package derive

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/emoji-ledger/internal/model"
)

func income(amount float64) model.Transaction {
	return model.Transaction{Type: model.TypeIncome, Amount: amount, CategoryID: "8"}
}

func expense(amount float64) model.Transaction {
	return model.Transaction{Type: model.TypeExpense, Amount: amount, CategoryID: "1"}
}

func creditExpense(amount float64, cardID string) model.Transaction {
	return model.Transaction{Type: model.TypeCreditExpense, Amount: amount, CategoryID: "7", PaymentMethod: model.CardRef(cardID)}
}

func creditPayment(amount float64, cardID string) model.Transaction {
	return model.Transaction{Type: model.TypeCreditPayment, Amount: amount, CategoryID: model.CreditPaymentCategoryID, TargetCardID: cardID}
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name         string
		transactions []model.Transaction
		want         float64
	}{
		{name: "empty history", want: 0},
		{name: "income minus expense", transactions: []model.Transaction{income(100), expense(40)}, want: 60},
		{name: "credit purchase leaves balance alone", transactions: []model.Transaction{creditExpense(200, "card1")}, want: 0},
		{name: "card payment draws cash", transactions: []model.Transaction{creditExpense(200, "card1"), creditPayment(80, "card1")}, want: -80},
		{name: "unknown type contributes nothing", transactions: []model.Transaction{income(10), {Type: "refund", Amount: 5}}, want: 10},
		{name: "no float drift", transactions: []model.Transaction{income(0.1), income(0.2)}, want: 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Balance(tt.transactions))
		})
	}
}

func randomHistory(r *rand.Rand, n int) []model.Transaction {
	cards := []string{"card1", "card2", "card3"}
	txns := make([]model.Transaction, n)
	for i := range txns {
		amount := float64(r.Intn(100000)+1) / 100
		card := cards[r.Intn(len(cards))]
		switch r.Intn(4) {
		case 0:
			txns[i] = income(amount)
		case 1:
			txns[i] = expense(amount)
		case 2:
			txns[i] = creditExpense(amount, card)
		default:
			txns[i] = creditPayment(amount, card)
		}
	}
	return txns
}

func TestBalanceMatchesDefinition(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		txns := randomHistory(r, r.Intn(40))

		var cents int64
		for _, tx := range txns {
			c := int64(tx.Amount*100 + 0.5)
			switch tx.Type {
			case model.TypeIncome:
				cents += c
			case model.TypeExpense, model.TypeCreditPayment:
				cents -= c
			}
		}
		assert.InDelta(t, float64(cents)/100, Balance(txns), 1e-9)
	}
}

func TestCardDebts(t *testing.T) {
	txns := []model.Transaction{
		creditExpense(200, "card1"),
		creditPayment(80, "card1"),
		creditExpense(50, "card2"),
		creditPayment(70, "card2"),
		{Type: model.TypeCreditPayment, Amount: 30},
		income(1000),
	}

	debts := CardDebts(txns)
	assert.Equal(t, 120.0, CardDebt(debts, "card1"))
	assert.Equal(t, -20.0, CardDebt(debts, "card2"), "raw debt may go negative")
	assert.Equal(t, 0.0, CardDebt(debts, "missing"))
	assert.Len(t, debts, 2, "payments without a target are ignored")

	assert.Empty(t, CardDebts(nil))
}

func TestTotalCreditDebt(t *testing.T) {
	cards := []model.Card{
		{ID: "card1", Type: model.CardTypeCredit},
		{ID: "card2", Type: model.CardTypeCredit},
		{ID: "debit", Type: model.CardTypeDebit},
	}
	debts := map[string]float64{"card1": 120, "card2": -20, "debit": 999}

	assert.Equal(t, 120.0, TotalCreditDebt(cards, debts), "overpayment must not offset other cards")

	withDebt := CreditCardsWithDebt(cards, debts)
	require.Len(t, withDebt, 2)
	assert.Equal(t, "card1", withDebt[0].ID)
	assert.Equal(t, 120.0, withDebt[0].Debt)
	assert.Equal(t, 0.0, withDebt[1].Debt)
}

func TestTotalCreditDebtBounds(t *testing.T) {
	cards := []model.Card{
		{ID: "card1", Type: model.CardTypeCredit},
		{ID: "card2", Type: model.CardTypeCredit},
		{ID: "card3", Type: model.CardTypeCredit},
	}
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		txns := randomHistory(r, r.Intn(40))
		debts := CardDebts(txns)

		assert.GreaterOrEqual(t, TotalCreditDebt(cards, debts), 0.0)

		charged := map[string]float64{}
		for _, tx := range txns {
			if tx.Type == model.TypeCreditExpense {
				charged[tx.PaymentMethod.String()] += tx.Amount
			}
		}
		for _, c := range CreditCardsWithDebt(cards, debts) {
			assert.LessOrEqual(t, c.Debt, charged[c.ID]+1e-9)
		}
	}
}

func TestWindow(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	// Wednesday.
	now := time.Date(2024, 5, 15, 13, 45, 0, 0, loc)

	start, end, ok := Window(PeriodWeek, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 5, 20, 0, 0, 0, 0, loc), end)

	sunday := time.Date(2024, 5, 19, 23, 0, 0, 0, loc)
	start, _, _ = Window(PeriodWeek, sunday)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, loc), start, "sunday belongs to the week that started monday")

	start, end, _ = Window(PeriodMonth, now)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, loc), end)

	start, end, _ = Window(PeriodYear, now)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, loc), end)

	_, _, ok = Window(PeriodAll, now)
	assert.False(t, ok)
}

func dated(t model.Transaction, ts time.Time) model.Transaction {
	t.Date = model.FormatDate(ts)
	return t
}

func TestStatsByCategoryAndPeriod(t *testing.T) {
	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	inMonth := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2024, 4, 28, 9, 0, 0, 0, time.UTC)

	txns := []model.Transaction{
		dated(model.Transaction{Type: model.TypeExpense, Amount: 30, CategoryID: "food"}, inMonth),
		dated(model.Transaction{Type: model.TypeCreditExpense, Amount: 50, CategoryID: "shop", PaymentMethod: model.CardRef("c1")}, inMonth),
		dated(model.Transaction{Type: model.TypeExpense, Amount: 20, CategoryID: "food"}, inMonth),
		dated(model.Transaction{Type: model.TypeIncome, Amount: 500, CategoryID: "salary"}, inMonth),
		dated(model.Transaction{Type: model.TypeExpense, Amount: 999, CategoryID: "food"}, lastMonth),
		{Type: model.TypeExpense, Amount: 5, CategoryID: "food", Date: "not a date"},
	}

	t.Run("expense view includes credit purchases", func(t *testing.T) {
		stats := StatsByCategoryAndPeriod(txns, PeriodMonth, ViewExpense, now)
		require.Len(t, stats, 2)
		// 50 vs 50: tie keeps first-encountered order (food first).
		assert.Equal(t, "food", stats[0].CategoryID)
		assert.Equal(t, 50.0, stats[0].Total)
		assert.Equal(t, 2, stats[0].Count)
		assert.Equal(t, "shop", stats[1].CategoryID)
		assert.InDelta(t, 0.5, stats[0].Share, 1e-9)
	})

	t.Run("income view", func(t *testing.T) {
		stats := StatsByCategoryAndPeriod(txns, PeriodMonth, ViewIncome, now)
		require.Len(t, stats, 1)
		assert.Equal(t, "salary", stats[0].CategoryID)
	})

	t.Run("all period ignores dates", func(t *testing.T) {
		stats := StatsByCategoryAndPeriod(txns, PeriodAll, ViewAll, now)
		require.Len(t, stats, 3)
		assert.Equal(t, "food", stats[0].CategoryID)
		assert.Equal(t, 1054.0, stats[0].Total)
		assert.Equal(t, 4, stats[0].Count)
		assert.Equal(t, "salary", stats[1].CategoryID)
	})

	t.Run("empty history", func(t *testing.T) {
		assert.Empty(t, StatsByCategoryAndPeriod(nil, PeriodAll, ViewAll, now))
	})
}

func TestPeriodTotals(t *testing.T) {
	totals := PeriodTotals([]model.Transaction{
		income(1000), expense(200), creditExpense(300, "c1"), creditPayment(100, "c1"),
	})
	assert.Equal(t, Totals{
		Income:        1000,
		RealExpense:   200,
		CreditExpense: 300,
		TotalExpense:  500,
		Balance:       800,
	}, totals)
}

func TestResolverOrphans(t *testing.T) {
	data := model.FinanceData{
		Categories: []model.Category{{ID: "1", Emoji: "🍕", Description: "Comida"}},
		Cards:      []model.Card{{ID: "c1", Name: "Visa", Type: model.CardTypeCredit, ColorEmoji: "🟦"}},
	}
	r := NewResolver(data)

	cat, ok := r.Category("1")
	assert.True(t, ok)
	assert.Equal(t, "Comida", cat.Description)

	cat, ok = r.Category("deleted")
	assert.False(t, ok)
	assert.Equal(t, "deleted", cat.ID)
	assert.Equal(t, UnknownCategory.Description, cat.Description)

	card, ok := r.Card("gone")
	assert.False(t, ok)
	assert.Equal(t, UnknownCard.Name, card.Name)
}

func TestPaymentDisplay(t *testing.T) {
	data := model.FinanceData{
		Cards: []model.Card{
			{ID: "c1", Name: "Visa", Type: model.CardTypeCredit, ColorEmoji: "🟦"},
			{ID: "d1", Name: "Debit", Type: model.CardTypeDebit},
		},
	}
	r := NewResolver(data)

	tests := []struct {
		name string
		tx   model.Transaction
		want PaymentDisplay
	}{
		{name: "cash", tx: expense(10), want: PaymentDisplay{Emoji: "💵", Label: "Cash"}},
		{name: "card", tx: creditExpense(10, "c1"), want: PaymentDisplay{Emoji: "🟦", Label: "Visa"}},
		{name: "card without color", tx: model.Transaction{Type: model.TypeExpense, PaymentMethod: model.CardRef("d1")}, want: PaymentDisplay{Emoji: "💳", Label: "Debit"}},
		{name: "deleted card", tx: creditExpense(10, "gone"), want: PaymentDisplay{Emoji: "💳", Label: "Card"}},
		{name: "payment", tx: creditPayment(10, "c1"), want: PaymentDisplay{Emoji: "🟦", Label: "Payment to Visa"}},
		{name: "payment to deleted card", tx: creditPayment(10, "gone"), want: PaymentDisplay{Emoji: "💳", Label: "Payment to Card"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.PaymentDisplay(tt.tx))
		})
	}
}

func TestParsePeriodAndView(t *testing.T) {
	p, err := ParsePeriod("week")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeek, p)
	_, err = ParsePeriod("decade")
	assert.Error(t, err)

	v, err := ParseViewType("expense")
	require.NoError(t, err)
	assert.Equal(t, ViewExpense, v)
	_, err = ParseViewType("transfers")
	assert.Error(t, err)
}
