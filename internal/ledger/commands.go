package ledger

import (
	"context"
	"io"
	"math"
	"strings"

	"github.com/Veraticus/emoji-ledger/internal/codec"
	"github.com/Veraticus/emoji-ledger/internal/common"
	"github.com/Veraticus/emoji-ledger/internal/model"
)

// AddTransaction validates in, assigns an id and creation time, and
// prepends the new transaction.
func (s *Store) AddTransaction(in model.TransactionInput) (model.Transaction, error) {
	var added model.Transaction
	err := s.update(func(data model.FinanceData) (model.FinanceData, bool, error) {
		if err := validateTransaction(data, in); err != nil {
			return data, false, err
		}
		added = s.newTransaction(in)

		next := data
		next.Transactions = prepend(data.Transactions, added)
		return next, true, nil
	})
	if err != nil {
		return model.Transaction{}, err
	}
	return added, nil
}

func (s *Store) newTransaction(in model.TransactionInput) model.Transaction {
	now := s.cfg.clock.Now()
	date := in.Date
	if date == "" {
		date = model.FormatDate(now)
	}
	return model.Transaction{
		ID:            s.cfg.newID(),
		Type:          in.Type,
		CategoryID:    in.CategoryID,
		PaymentMethod: in.PaymentMethod,
		Date:          date,
		TargetCardID:  in.TargetCardID,
		ExternalID:    in.ExternalID,
		Amount:        in.Amount,
		CreatedAt:     now.UnixMilli(),
	}
}

// DeleteTransaction removes a transaction. It reports false, without error,
// when no transaction has that id.
func (s *Store) DeleteTransaction(id string) (bool, error) {
	var found bool
	err := s.update(func(data model.FinanceData) (model.FinanceData, bool, error) {
		next := data
		next.Transactions, found = remove(data.Transactions, func(t model.Transaction) bool { return t.ID == id })
		return next, found, nil
	})
	return found, err
}

// ImportResult counts the outcome of a statement import.
type ImportResult struct {
	Added   int
	Skipped int
}

// ImportStatement adds a batch of transactions in one snapshot swap.
// Inputs whose ExternalID is already present are skipped. If any input is
// invalid nothing is added.
func (s *Store) ImportStatement(inputs []model.TransactionInput) (ImportResult, error) {
	var result ImportResult
	err := s.update(func(data model.FinanceData) (model.FinanceData, bool, error) {
		result = ImportResult{}
		seen := make(map[string]bool, len(data.Transactions))
		for _, t := range data.Transactions {
			if t.ExternalID != "" {
				seen[t.ExternalID] = true
			}
		}

		fresh := make([]model.Transaction, 0, len(inputs))
		for _, in := range inputs {
			if in.ExternalID != "" && seen[in.ExternalID] {
				result.Skipped++
				continue
			}
			if err := validateTransaction(data, in); err != nil {
				return data, false, err
			}
			if in.ExternalID != "" {
				seen[in.ExternalID] = true
			}
			fresh = append(fresh, s.newTransaction(in))
		}
		if len(fresh) == 0 {
			return data, false, nil
		}

		// Newest first: the last input ends up at the front, as if each had
		// been added with AddTransaction in order.
		txns := make([]model.Transaction, 0, len(fresh)+len(data.Transactions))
		for i := len(fresh) - 1; i >= 0; i-- {
			txns = append(txns, fresh[i])
		}
		txns = append(txns, data.Transactions...)

		result.Added = len(fresh)
		next := data
		next.Transactions = txns
		return next, true, nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}

// AddCategory appends a category with a fresh id.
func (s *Store) AddCategory(in model.CategoryInput) (model.Category, error) {
	var added model.Category
	err := s.update(func(data model.FinanceData) (model.FinanceData, bool, error) {
		if strings.TrimSpace(in.Emoji) == "" {
			return data, false, common.NewValidationError("emoji", "is required")
		}
		added = model.Category{ID: s.cfg.newID(), Emoji: in.Emoji, Description: in.Description}

		next := data
		next.Categories = appendCopy(data.Categories, added)
		return next, true, nil
	})
	if err != nil {
		return model.Category{}, err
	}
	return added, nil
}

// UpdateCategory merges patch into the category with id. It reports false
// when no category has that id.
func (s *Store) UpdateCategory(id string, patch model.CategoryPatch) (bool, error) {
	if patch.Emoji != nil && strings.TrimSpace(*patch.Emoji) == "" {
		return false, common.NewValidationError("emoji", "cannot be empty")
	}

	var found bool
	err := s.update(func(data model.FinanceData) (model.FinanceData, bool, error) {
		var changed bool
		next := data
		next.Categories, found, changed = replace(data.Categories,
			func(c model.Category) bool { return c.ID == id },
			patch.Apply)
		return next, changed, nil
	})
	return found, err
}

// DeleteCategory removes a category. Transactions that reference it are
// left alone and resolve to the unknown category.
func (s *Store) DeleteCategory(id string) (bool, error) {
	var found bool
	err := s.update(func(data model.FinanceData) (model.FinanceData, bool, error) {
		next := data
		next.Categories, found = remove(data.Categories, func(c model.Category) bool { return c.ID == id })
		return next, found, nil
	})
	return found, err
}

// AddCard validates in and appends a card with a fresh id.
func (s *Store) AddCard(in model.CardInput) (model.Card, error) {
	card := model.Card{
		Name:       strings.TrimSpace(in.Name),
		Type:       in.Type,
		ColorEmoji: in.ColorEmoji,
		CutOffDay:  copyDay(in.CutOffDay),
		PaymentDay: copyDay(in.PaymentDay),
	}
	if err := validateCard(card); err != nil {
		return model.Card{}, err
	}

	err := s.update(func(data model.FinanceData) (model.FinanceData, bool, error) {
		card.ID = s.cfg.newID()
		next := data
		next.Cards = appendCopy(data.Cards, card)
		return next, true, nil
	})
	if err != nil {
		return model.Card{}, err
	}
	return card, nil
}

// UpdateCard merges patch into the card with id. It reports false when no
// card has that id.
func (s *Store) UpdateCard(id string, patch model.CardPatch) (bool, error) {
	var found bool
	err := s.update(func(data model.FinanceData) (model.FinanceData, bool, error) {
		idx := -1
		for i, c := range data.Cards {
			if c.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return data, false, nil
		}
		found = true
		if patch.IsEmpty() {
			return data, false, nil
		}

		updated := patch.Apply(data.Cards[idx])
		updated.Name = strings.TrimSpace(updated.Name)
		if err := validateCard(updated); err != nil {
			return data, false, err
		}

		next := data
		next.Cards = make([]model.Card, len(data.Cards))
		copy(next.Cards, data.Cards)
		next.Cards[idx] = updated
		return next, true, nil
	})
	return found, err
}

// DeleteCard removes a card. Transactions that reference it are left alone
// so card debt history stays intact.
func (s *Store) DeleteCard(id string) (bool, error) {
	var found bool
	err := s.update(func(data model.FinanceData) (model.FinanceData, bool, error) {
		next := data
		next.Cards, found = remove(data.Cards, func(c model.Card) bool { return c.ID == id })
		return next, found, nil
	})
	return found, err
}

// Import reads a backup document and, if it is valid, replaces the whole
// snapshot with it. A rejected document leaves the store untouched.
func (s *Store) Import(ctx context.Context, r io.Reader) (model.FinanceData, error) {
	data, err := codec.Import(r)
	if err != nil {
		return model.FinanceData{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.FinanceData{}, err
	}
	if err := s.Replace(data); err != nil {
		return model.FinanceData{}, err
	}
	s.logger.Info("Imported ledger backup",
		"categories", len(data.Categories),
		"cards", len(data.Cards),
		"transactions", len(data.Transactions))
	return data.Clone(), nil
}

// Replace swaps in a whole new snapshot.
func (s *Store) Replace(data model.FinanceData) error {
	next := data.Normalize().Clone()
	return s.update(func(model.FinanceData) (model.FinanceData, bool, error) {
		return next, true, nil
	})
}

// Export renders the current snapshot as a backup document dated today.
func (s *Store) Export(prefix string) (codec.Document, error) {
	return codec.Export(s.Snapshot(), prefix, s.cfg.clock.Now())
}

func validateTransaction(data model.FinanceData, in model.TransactionInput) error {
	if math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) || in.Amount <= 0 {
		return common.NewValidationError("amount", "must be greater than zero")
	}
	if !in.Type.Valid() {
		return common.NewValidationError("type", "must be income, expense, credit_expense or credit_payment")
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return common.NewValidationError("categoryId", "is required")
	}
	if in.Date != "" {
		if _, err := model.ParseDate(in.Date); err != nil {
			return common.NewValidationError("date", "must be an ISO-8601 date")
		}
	}

	cardID, byCard := in.PaymentMethod.CardID()
	var card model.Card
	if byCard {
		var ok bool
		if card, ok = data.CardByID(cardID); !ok {
			return common.NewValidationError("paymentMethod", "references an unknown card")
		}
	}

	switch in.Type {
	case model.TypeCreditExpense:
		if !byCard || !card.IsCredit() {
			return common.NewValidationError("paymentMethod", "must be a credit card")
		}
	case model.TypeCreditPayment:
		if in.TargetCardID == "" {
			return common.NewValidationError("targetCardId", "is required")
		}
		if _, ok := data.CardByID(in.TargetCardID); !ok {
			return common.NewValidationError("targetCardId", "references an unknown card")
		}
		if byCard {
			return common.NewValidationError("paymentMethod", "must be cash")
		}
	case model.TypeExpense:
		if byCard && card.IsCredit() {
			return common.NewValidationError("type", "credit card purchases must be credit_expense")
		}
	}
	return nil
}

func validateCard(c model.Card) error {
	if c.Name == "" {
		return common.NewValidationError("name", "is required")
	}
	if !c.Type.Valid() {
		return common.NewValidationError("type", "must be credit or debit")
	}
	if !model.ValidBillingDay(c.CutOffDay) {
		return common.NewValidationError("cutOffDay", "must be between 1 and 31")
	}
	if !model.ValidBillingDay(c.PaymentDay) {
		return common.NewValidationError("paymentDay", "must be between 1 and 31")
	}
	return nil
}

func copyDay(day *int) *int {
	if day == nil {
		return nil
	}
	d := *day
	return &d
}

func prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func appendCopy[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

// remove returns a copy of items without the first match. When nothing
// matches the original slice is returned.
func remove[T any](items []T, match func(T) bool) ([]T, bool) {
	for i, item := range items {
		if match(item) {
			out := make([]T, 0, len(items)-1)
			out = append(out, items[:i]...)
			return append(out, items[i+1:]...), true
		}
	}
	return items, false
}

// replace returns a copy of items with the first match passed through fn.
// It reports whether a match exists and whether it changed.
func replace[T comparable](items []T, match func(T) bool, fn func(T) T) ([]T, bool, bool) {
	for i, item := range items {
		if !match(item) {
			continue
		}
		updated := fn(item)
		if updated == item {
			return items, true, false
		}
		out := make([]T, len(items))
		copy(out, items)
		out[i] = updated
		return out, true, true
	}
	return items, false, false
}
