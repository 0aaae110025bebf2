// Package model defines the ledger's domain types.
package model

// FinanceData is the whole persisted ledger state. Transactions are kept
// newest first.
type FinanceData struct {
	Categories   []Category    `json:"categories"`
	Cards        []Card        `json:"cards"`
	Transactions []Transaction `json:"transactions"`
}

// DefaultData returns the snapshot used for a fresh or unreadable ledger.
func DefaultData() FinanceData {
	return FinanceData{
		Categories:   DefaultCategories(),
		Cards:        []Card{},
		Transactions: []Transaction{},
	}
}

// Clone returns a deep copy that shares no memory with d.
func (d FinanceData) Clone() FinanceData {
	out := FinanceData{
		Categories:   make([]Category, len(d.Categories)),
		Cards:        make([]Card, len(d.Cards)),
		Transactions: make([]Transaction, len(d.Transactions)),
	}
	copy(out.Categories, d.Categories)
	copy(out.Transactions, d.Transactions)
	for i, c := range d.Cards {
		out.Cards[i] = cloneCard(c)
	}
	return out
}

// Normalize replaces nil collections with empty ones.
func (d FinanceData) Normalize() FinanceData {
	if d.Categories == nil {
		d.Categories = []Category{}
	}
	if d.Cards == nil {
		d.Cards = []Card{}
	}
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	return d
}

// CategoryByID finds a category.
func (d FinanceData) CategoryByID(id string) (Category, bool) {
	for _, c := range d.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// CardByID finds a card.
func (d FinanceData) CardByID(id string) (Card, bool) {
	for _, c := range d.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// TransactionByID finds a transaction.
func (d FinanceData) TransactionByID(id string) (Transaction, bool) {
	for _, t := range d.Transactions {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}

// CreditCards returns the cards of type credit.
func (d FinanceData) CreditCards() []Card {
	var out []Card
	for _, c := range d.Cards {
		if c.IsCredit() {
			out = append(out, c)
		}
	}
	return out
}

func cloneCard(c Card) Card {
	if c.CutOffDay != nil {
		day := *c.CutOffDay
		c.CutOffDay = &day
	}
	if c.PaymentDay != nil {
		day := *c.PaymentDay
		c.PaymentDay = &day
	}
	return c
}
