package derive

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/emoji-ledger/internal/model"
)

// Period selects a calendar-aligned window for statistics.
type Period string

// Supported periods.
const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return p, nil
	default:
		return "", fmt.Errorf("unknown period %q (want week, month, year or all)", s)
	}
}

// ViewType selects which transaction types feed the statistics.
type ViewType string

// Supported views. The expense view covers both cash and credit purchases.
const (
	ViewAll     ViewType = "all"
	ViewIncome  ViewType = "income"
	ViewExpense ViewType = "expense"
)

// ParseViewType validates a view name.
func ParseViewType(s string) (ViewType, error) {
	switch v := ViewType(s); v {
	case ViewAll, ViewIncome, ViewExpense:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view %q (want all, income or expense)", s)
	}
}

// Window returns the half-open interval [start, end) of the period that
// contains now, in now's location. Weeks start on Monday. ok is false for
// PeriodAll, which has no bounds.
func Window(period Period, now time.Time) (start, end time.Time, ok bool) {
	y, m, d := now.Date()
	loc := now.Location()

	switch period {
	case PeriodWeek:
		offset := (int(now.Weekday()) + 6) % 7
		start = time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 0, 7), true
	case PeriodMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0), true
	case PeriodYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// MatchesView reports whether a transaction type belongs to a view.
func MatchesView(view ViewType, typ model.TransactionType) bool {
	switch view {
	case ViewIncome:
		return typ == model.TypeIncome
	case ViewExpense:
		return typ == model.TypeExpense || typ == model.TypeCreditExpense
	default:
		return true
	}
}

// Filter keeps the transactions inside the period window and view.
// Transactions with unparseable dates never fall inside a bounded window.
func Filter(transactions []model.Transaction, period Period, view ViewType, now time.Time) []model.Transaction {
	start, end, bounded := Window(period, now)

	out := make([]model.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if !MatchesView(view, t.Type) {
			continue
		}
		if bounded {
			ts, err := t.Time()
			if err != nil || ts.Before(start) || !ts.Before(end) {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// CategoryStat aggregates the transactions of one category.
type CategoryStat struct {
	CategoryID string
	Total      float64
	Share      float64
	Count      int
}

// StatsByCategoryAndPeriod groups the filtered transactions by category,
// sorted by total descending. Equal totals keep the order in which their
// category was first encountered.
func StatsByCategoryAndPeriod(transactions []model.Transaction, period Period, view ViewType, now time.Time) []CategoryStat {
	filtered := Filter(transactions, period, view, now)

	type acc struct {
		id    string
		total decimal.Decimal
		count int
	}
	index := make(map[string]int)
	var groups []*acc
	grand := decimal.Zero

	for _, t := range filtered {
		i, ok := index[t.CategoryID]
		if !ok {
			i = len(groups)
			index[t.CategoryID] = i
			groups = append(groups, &acc{id: t.CategoryID})
		}
		amount := decimal.NewFromFloat(t.Amount)
		groups[i].total = groups[i].total.Add(amount)
		groups[i].count++
		grand = grand.Add(amount)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].total.GreaterThan(groups[b].total)
	})

	stats := make([]CategoryStat, 0, len(groups))
	for _, g := range groups {
		stat := CategoryStat{
			CategoryID: g.id,
			Total:      g.total.InexactFloat64(),
			Count:      g.count,
		}
		if grand.IsPositive() {
			stat.Share = g.total.Div(grand).InexactFloat64()
		}
		stats = append(stats, stat)
	}
	return stats
}

// Totals summarizes a set of transactions. Balance counts only real money
// movement: income minus cash and debit spending.
type Totals struct {
	Income        float64
	RealExpense   float64
	CreditExpense float64
	TotalExpense  float64
	Balance       float64
}

// PeriodTotals computes Totals over already-filtered transactions.
func PeriodTotals(transactions []model.Transaction) Totals {
	var income, spent, credit decimal.Decimal
	for _, t := range transactions {
		amount := decimal.NewFromFloat(t.Amount)
		switch t.Type {
		case model.TypeIncome:
			income = income.Add(amount)
		case model.TypeExpense:
			spent = spent.Add(amount)
		case model.TypeCreditExpense:
			credit = credit.Add(amount)
		}
	}
	return Totals{
		Income:        income.InexactFloat64(),
		RealExpense:   spent.InexactFloat64(),
		CreditExpense: credit.InexactFloat64(),
		TotalExpense:  spent.Add(credit).InexactFloat64(),
		Balance:       income.Sub(spent).InexactFloat64(),
	}
}
