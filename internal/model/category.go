package model

// CreditPaymentCategoryID is the seed category attached to card payments.
// Category pickers hide it because payments pick it automatically.
const CreditPaymentCategoryID = "credit-payment"

// Category is a user-defined label for transactions. The ID never changes;
// the emoji and description may.
type Category struct {
	ID          string `json:"id"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// CategoryInput holds the fields for a new category.
type CategoryInput struct {
	Emoji       string
	Description string
}

// CategoryPatch is a partial update. Nil fields are left untouched.
type CategoryPatch struct {
	Emoji       *string
	Description *string
}

// Apply returns c with the patch merged in.
func (p CategoryPatch) Apply(c Category) Category {
	if p.Emoji != nil {
		c.Emoji = *p.Emoji
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	return c
}

// IsEmpty reports whether the patch changes nothing.
func (p CategoryPatch) IsEmpty() bool {
	return p.Emoji == nil && p.Description == nil
}

// DefaultCategories returns the seed categories for a fresh ledger.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Emoji: "🍕", Description: "Comida"},
		{ID: "2", Emoji: "🏠", Description: "Casa"},
		{ID: "3", Emoji: "💼", Description: "Trabajo"},
		{ID: "4", Emoji: "🎮", Description: "Entretenimiento"},
		{ID: "5", Emoji: "🚗", Description: "Transporte"},
		{ID: "6", Emoji: "💊", Description: "Salud"},
		{ID: "7", Emoji: "🛒", Description: "Compras"},
		{ID: "8", Emoji: "💰", Description: "Salario"},
		{ID: CreditPaymentCategoryID, Emoji: "💳", Description: "Pago de tarjeta"},
	}
}

// SelectableCategories filters out the categories that are assigned
// automatically and should not be offered to the user.
func SelectableCategories(categories []Category) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.ID == CreditPaymentCategoryID {
			continue
		}
		out = append(out, c)
	}
	return out
}
