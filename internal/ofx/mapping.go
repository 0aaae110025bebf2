package ofx

import (
	"errors"
	"fmt"
	"math"

	"github.com/Veraticus/emoji-ledger/internal/model"
)

// Categories assigned when the caller does not pick one.
const (
	DefaultExpenseCategory = "7"
	DefaultIncomeCategory  = "8"
)

// ErrCardRequired is returned when a credit card statement has no card to
// charge.
var ErrCardRequired = errors.New("credit card statements need a card")

// Mapping decides how statement entries become transactions.
type Mapping struct {
	// CardID is the card the statement belongs to. Optional for bank
	// statements, where it marks a debit card.
	CardID          string
	ExpenseCategory string
	IncomeCategory  string
}

func (m Mapping) withDefaults() Mapping {
	if m.ExpenseCategory == "" {
		m.ExpenseCategory = DefaultExpenseCategory
	}
	if m.IncomeCategory == "" {
		m.IncomeCategory = DefaultIncomeCategory
	}
	return m
}

// Inputs converts a statement into transaction inputs. Zero-amount entries
// are dropped. The FITID becomes the ExternalID so re-imports are skipped.
func (m Mapping) Inputs(stmt Statement) ([]model.TransactionInput, error) {
	m = m.withDefaults()
	if stmt.Kind == KindCredit && m.CardID == "" {
		return nil, fmt.Errorf("account %s: %w", stmt.AccountID, ErrCardRequired)
	}

	inputs := make([]model.TransactionInput, 0, len(stmt.Entries))
	for _, e := range stmt.Entries {
		if e.Amount == 0 {
			continue
		}
		in := model.TransactionInput{
			Date:       model.FormatDate(e.Posted),
			ExternalID: e.FitID,
			Amount:     math.Abs(e.Amount),
		}

		switch {
		case stmt.Kind == KindCredit && e.Amount < 0:
			in.Type = model.TypeCreditExpense
			in.CategoryID = m.ExpenseCategory
			in.PaymentMethod = model.CardRef(m.CardID)
		case stmt.Kind == KindCredit:
			in.Type = model.TypeCreditPayment
			in.CategoryID = model.CreditPaymentCategoryID
			in.TargetCardID = m.CardID
		case e.Amount < 0:
			in.Type = model.TypeExpense
			in.CategoryID = m.ExpenseCategory
			in.PaymentMethod = m.bankMethod()
		default:
			in.Type = model.TypeIncome
			in.CategoryID = m.IncomeCategory
			in.PaymentMethod = m.bankMethod()
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func (m Mapping) bankMethod() model.PaymentMethod {
	if m.CardID == "" {
		return model.Cash()
	}
	return model.CardRef(m.CardID)
}
