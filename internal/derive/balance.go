// Package derive computes balances, card debt and statistics from a
// transaction history. Nothing here is stored; every figure is recomputed
// from the transactions so edits, deletes and imports never need fixups.
package derive

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/emoji-ledger/internal/model"
)

// BalanceEffect returns the signed change a transaction makes to the cash
// balance. Unknown types contribute nothing.
func BalanceEffect(t model.Transaction) decimal.Decimal {
	amount := decimal.NewFromFloat(t.Amount)
	switch t.Type {
	case model.TypeIncome:
		return amount
	case model.TypeExpense, model.TypeCreditPayment:
		return amount.Neg()
	default:
		return decimal.Zero
	}
}

// Balance folds the history into the cash balance.
func Balance(transactions []model.Transaction) float64 {
	sum := decimal.Zero
	for _, t := range transactions {
		sum = sum.Add(BalanceEffect(t))
	}
	return sum.InexactFloat64()
}

// CardDebts returns the raw debt per card id. Credit purchases add to the
// paying card; payments subtract from their target. Payments without a
// target are ignored. Values may be negative after an overpayment.
func CardDebts(transactions []model.Transaction) map[string]float64 {
	sums := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		switch t.Type {
		case model.TypeCreditExpense:
			cardID := t.PaymentMethod.String()
			sums[cardID] = sums[cardID].Add(decimal.NewFromFloat(t.Amount))
		case model.TypeCreditPayment:
			if t.TargetCardID == "" {
				continue
			}
			sums[t.TargetCardID] = sums[t.TargetCardID].Sub(decimal.NewFromFloat(t.Amount))
		}
	}

	debts := make(map[string]float64, len(sums))
	for id, sum := range sums {
		debts[id] = sum.InexactFloat64()
	}
	return debts
}

// CardDebt returns the raw debt for one card, zero when it has none.
func CardDebt(debts map[string]float64, cardID string) float64 {
	return debts[cardID]
}

// CardWithDebt is a credit card decorated with its clamped debt.
type CardWithDebt struct {
	model.Card
	Debt float64
}

// TotalCreditDebt sums the clamped debt of every credit card. An overpaid
// card counts as zero and does not offset other cards.
func TotalCreditDebt(cards []model.Card, debts map[string]float64) float64 {
	total := decimal.Zero
	for _, c := range cards {
		if !c.IsCredit() {
			continue
		}
		total = total.Add(decimal.NewFromFloat(clamp(debts[c.ID])))
	}
	return total.InexactFloat64()
}

// CreditCardsWithDebt lists the credit cards with their clamped debt, in
// card order.
func CreditCardsWithDebt(cards []model.Card, debts map[string]float64) []CardWithDebt {
	out := make([]CardWithDebt, 0, len(cards))
	for _, c := range cards {
		if !c.IsCredit() {
			continue
		}
		out = append(out, CardWithDebt{Card: c, Debt: clamp(debts[c.ID])})
	}
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
