package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// TransactionType is the closed set of ledger events. Each type has a
// distinct effect on the cash balance and on card debt.
type TransactionType string

const (
	// TypeIncome adds to the balance.
	TypeIncome TransactionType = "income"
	// TypeExpense is a cash or debit purchase; it subtracts from the balance.
	TypeExpense TransactionType = "expense"
	// TypeCreditExpense is a credit card purchase; it adds debt to the card
	// and leaves the balance alone.
	TypeCreditExpense TransactionType = "credit_expense"
	// TypeCreditPayment pays a card from cash; it subtracts from both the
	// balance and the target card's debt.
	TypeCreditPayment TransactionType = "credit_payment"
)

// TransactionTypes lists every known type in display order.
var TransactionTypes = []TransactionType{TypeIncome, TypeExpense, TypeCreditExpense, TypeCreditPayment}

// Valid reports whether t is one of the known types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeIncome, TypeExpense, TypeCreditExpense, TypeCreditPayment:
		return true
	default:
		return false
	}
}

// Direction is what the user picks when entering an amount.
type Direction string

// Entry directions.
const (
	DirectionIncome  Direction = "income"
	DirectionExpense Direction = "expense"
)

// TypeFor derives the transaction type for an entry. Expenses paid with a
// credit card become debt rather than spending.
func TypeFor(direction Direction, card *Card) TransactionType {
	if direction == DirectionIncome {
		return TypeIncome
	}
	if card != nil && card.IsCredit() {
		return TypeCreditExpense
	}
	return TypeExpense
}

const cashMethod = "cash"

// PaymentMethod says where money for a transaction came from: either cash
// or a card. The zero value is cash.
type PaymentMethod struct {
	cardID string
}

// Cash returns the cash payment method.
func Cash() PaymentMethod {
	return PaymentMethod{}
}

// CardRef returns a payment method drawing on the given card.
func CardRef(cardID string) PaymentMethod {
	if cardID == cashMethod {
		return Cash()
	}
	return PaymentMethod{cardID: cardID}
}

// IsCash reports whether the payment came from cash.
func (p PaymentMethod) IsCash() bool {
	return p.cardID == ""
}

// CardID returns the referenced card, if any.
func (p PaymentMethod) CardID() (string, bool) {
	return p.cardID, p.cardID != ""
}

func (p PaymentMethod) String() string {
	if p.IsCash() {
		return cashMethod
	}
	return p.cardID
}

// MarshalJSON encodes the method as "cash" or the card id.
func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts "cash", an empty string, or a card id.
func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("payment method must be a string: %w", err)
	}
	if s == cashMethod {
		s = ""
	}
	*p = PaymentMethod{cardID: s}
	return nil
}

// Transaction is a single recorded ledger event. Amount is always positive;
// the type decides the sign of its effect.
type Transaction struct {
	ID            string          `json:"id"`
	Type          TransactionType `json:"type"`
	CategoryID    string          `json:"categoryId"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Date          string          `json:"date"`
	TargetCardID  string          `json:"targetCardId,omitempty"`
	ExternalID    string          `json:"externalId,omitempty"`
	Amount        float64         `json:"amount"`
	CreatedAt     int64           `json:"createdAt"`
}

// Time parses the transaction date.
func (t Transaction) Time() (time.Time, error) {
	return ParseDate(t.Date)
}

// TransactionInput holds the caller-supplied fields of a new transaction.
// The store assigns ID and CreatedAt. An empty Date means "now".
type TransactionInput struct {
	Type          TransactionType
	CategoryID    string
	PaymentMethod PaymentMethod
	Date          string
	TargetCardID  string
	ExternalID    string
	Amount        float64
}

// isoLayout matches the millisecond UTC format produced by browsers.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatDate renders t the way transaction dates are stored.
func FormatDate(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// ParseDate accepts RFC 3339 timestamps with or without fractional seconds
// and bare calendar dates.
func ParseDate(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
