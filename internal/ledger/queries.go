package ledger

import (
	"github.com/Veraticus/emoji-ledger/internal/derive"
	"github.com/Veraticus/emoji-ledger/internal/model"
)

// current returns the live snapshot. Callers must treat it as read-only.
func (s *Store) current() model.FinanceData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Snapshot returns a deep copy of the current data.
func (s *Store) Snapshot() model.FinanceData {
	return s.current().Clone()
}

// Balance is the cash balance derived from every transaction.
func (s *Store) Balance() float64 {
	return derive.Balance(s.current().Transactions)
}

// CardDebts returns the raw per-card debt, which may be negative.
func (s *Store) CardDebts() map[string]float64 {
	return derive.CardDebts(s.current().Transactions)
}

// TotalCreditDebt sums the clamped debt of every credit card.
func (s *Store) TotalCreditDebt() float64 {
	data := s.current()
	return derive.TotalCreditDebt(data.Cards, derive.CardDebts(data.Transactions))
}

// CreditCardsWithDebt lists credit cards with their clamped debt.
func (s *Store) CreditCardsWithDebt() []derive.CardWithDebt {
	data := s.current()
	return derive.CreditCardsWithDebt(data.Cards, derive.CardDebts(data.Transactions))
}

// Stats groups the transactions in period and view by category.
func (s *Store) Stats(period derive.Period, view derive.ViewType) []derive.CategoryStat {
	return derive.StatsByCategoryAndPeriod(s.current().Transactions, period, view, s.cfg.clock.Now())
}

// Totals sums the transactions in period by kind.
func (s *Store) Totals(period derive.Period) derive.Totals {
	txns := derive.Filter(s.current().Transactions, period, derive.ViewAll, s.cfg.clock.Now())
	return derive.PeriodTotals(txns)
}

// History returns up to limit transactions, newest first. A limit of zero
// or less returns all of them.
func (s *Store) History(limit int) []model.Transaction {
	txns := s.current().Transactions
	if limit > 0 && limit < len(txns) {
		txns = txns[:limit]
	}
	out := make([]model.Transaction, len(txns))
	copy(out, txns)
	return out
}

// Resolver returns a resolver over the current categories and cards.
func (s *Store) Resolver() *derive.Resolver {
	return derive.NewResolver(s.current())
}
