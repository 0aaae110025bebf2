package derive

import (
	"github.com/Veraticus/emoji-ledger/internal/model"
)

// Sentinels returned when a transaction points at a deleted entity.
// Orphan references are expected; they resolve to these instead of failing.
var (
	UnknownCategory = model.Category{Emoji: "❓", Description: "Uncategorized"}
	UnknownCard     = model.Card{Name: "Card", ColorEmoji: "💳"}
)

const (
	cashEmoji = "💵"
	cashLabel = "Cash"
)

// Resolver looks up categories and cards by id for display.
type Resolver struct {
	categories map[string]model.Category
	cards      map[string]model.Card
}

// NewResolver indexes the categories and cards of a snapshot.
func NewResolver(data model.FinanceData) *Resolver {
	r := &Resolver{
		categories: make(map[string]model.Category, len(data.Categories)),
		cards:      make(map[string]model.Card, len(data.Cards)),
	}
	for _, c := range data.Categories {
		r.categories[c.ID] = c
	}
	for _, c := range data.Cards {
		r.cards[c.ID] = c
	}
	return r
}

// Category returns the category, or UnknownCategory carrying the orphan id
// and false.
func (r *Resolver) Category(id string) (model.Category, bool) {
	if c, ok := r.categories[id]; ok {
		return c, true
	}
	unknown := UnknownCategory
	unknown.ID = id
	return unknown, false
}

// Card returns the card, or UnknownCard carrying the orphan id and false.
func (r *Resolver) Card(id string) (model.Card, bool) {
	if c, ok := r.cards[id]; ok {
		return c, true
	}
	unknown := UnknownCard
	unknown.ID = id
	return unknown, false
}

// PaymentDisplay describes where a transaction's money came from.
type PaymentDisplay struct {
	Emoji string
	Label string
}

// PaymentDisplay resolves the payment side of a transaction for history
// rendering.
func (r *Resolver) PaymentDisplay(t model.Transaction) PaymentDisplay {
	if t.Type == model.TypeCreditPayment {
		card, _ := r.Card(t.TargetCardID)
		return PaymentDisplay{Emoji: emojiOr(card.ColorEmoji), Label: "Payment to " + card.Name}
	}

	cardID, ok := t.PaymentMethod.CardID()
	if !ok {
		return PaymentDisplay{Emoji: cashEmoji, Label: cashLabel}
	}
	card, _ := r.Card(cardID)
	return PaymentDisplay{Emoji: emojiOr(card.ColorEmoji), Label: card.Name}
}

func emojiOr(emoji string) string {
	if emoji == "" {
		return UnknownCard.ColorEmoji
	}
	return emoji
}

// AmountPrefix is the sign shown next to an amount in history. Credit
// purchases are marked rather than signed because they move no cash.
func AmountPrefix(typ model.TransactionType) string {
	switch typ {
	case model.TypeIncome:
		return "+"
	case model.TypeExpense, model.TypeCreditPayment:
		return "-"
	case model.TypeCreditExpense:
		return "🔴 "
	default:
		return ""
	}
}
