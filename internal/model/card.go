package model

// CardType distinguishes credit cards, which accumulate debt, from debit
// cards, which draw directly from the cash balance.
type CardType string

const (
	// CardTypeCredit accumulates debt until paid.
	CardTypeCredit CardType = "credit"
	// CardTypeDebit spends from the balance immediately.
	CardTypeDebit CardType = "debit"
)

// Valid reports whether t is a known card type.
func (t CardType) Valid() bool {
	return t == CardTypeCredit || t == CardTypeDebit
}

// CardColors is the palette offered for card color markers.
var CardColors = []string{"🟥", "🟧", "🟨", "🟩", "🟦", "🟪", "🟫", "⬛", "⬜"}

// Card is a payment card. CutOffDay and PaymentDay describe the billing
// cycle (1-31) and are informational only.
type Card struct {
	CutOffDay  *int     `json:"cutOffDay,omitempty"`
	PaymentDay *int     `json:"paymentDay,omitempty"`
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       CardType `json:"type"`
	ColorEmoji string   `json:"colorEmoji,omitempty"`
}

// IsCredit reports whether the card accumulates debt.
func (c Card) IsCredit() bool {
	return c.Type == CardTypeCredit
}

// CardInput holds the fields for a new card.
type CardInput struct {
	CutOffDay  *int
	PaymentDay *int
	Name       string
	Type       CardType
	ColorEmoji string
}

// CardPatch is a partial update. Nil fields are left untouched.
type CardPatch struct {
	Name       *string
	Type       *CardType
	ColorEmoji *string
	CutOffDay  *int
	PaymentDay *int
}

// Apply returns c with the patch merged in.
func (p CardPatch) Apply(c Card) Card {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.ColorEmoji != nil {
		c.ColorEmoji = *p.ColorEmoji
	}
	if p.CutOffDay != nil {
		day := *p.CutOffDay
		c.CutOffDay = &day
	}
	if p.PaymentDay != nil {
		day := *p.PaymentDay
		c.PaymentDay = &day
	}
	return c
}

// IsEmpty reports whether the patch changes nothing.
func (p CardPatch) IsEmpty() bool {
	return p.Name == nil && p.Type == nil && p.ColorEmoji == nil &&
		p.CutOffDay == nil && p.PaymentDay == nil
}

// ValidBillingDay reports whether day is a usable day of month.
func ValidBillingDay(day *int) bool {
	return day == nil || (*day >= 1 && *day <= 31)
}
