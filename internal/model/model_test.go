package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestPaymentMethod_JSON(t *testing.T) {
	tests := []struct {
		name   string
		method PaymentMethod
		want   string
	}{
		{name: "zero value is cash", method: PaymentMethod{}, want: `"cash"`},
		{name: "explicit cash", method: Cash(), want: `"cash"`},
		{name: "card reference", method: CardRef("card-1"), want: `"card-1"`},
		{name: "card ref named cash collapses", method: CardRef("cash"), want: `"cash"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.method)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Marshal() = %s, want %s", got, tt.want)
			}

			var back PaymentMethod
			if err := json.Unmarshal(got, &back); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if back != tt.method {
				t.Errorf("round trip = %v, want %v", back, tt.method)
			}
		})
	}
}

func TestPaymentMethod_UnmarshalRejectsNonString(t *testing.T) {
	var p PaymentMethod
	if err := json.Unmarshal([]byte(`42`), &p); err == nil {
		t.Error("expected error for numeric payment method")
	}
}

func TestPaymentMethod_EmptyStringIsCash(t *testing.T) {
	var p PaymentMethod
	if err := json.Unmarshal([]byte(`""`), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !p.IsCash() {
		t.Errorf("expected cash, got %v", p)
	}
}

func TestTypeFor(t *testing.T) {
	credit := Card{ID: "c1", Type: CardTypeCredit}
	debit := Card{ID: "d1", Type: CardTypeDebit}

	tests := []struct {
		card      *Card
		name      string
		direction Direction
		want      TransactionType
	}{
		{name: "income ignores card", direction: DirectionIncome, card: &credit, want: TypeIncome},
		{name: "cash expense", direction: DirectionExpense, want: TypeExpense},
		{name: "debit expense", direction: DirectionExpense, card: &debit, want: TypeExpense},
		{name: "credit purchase becomes debt", direction: DirectionExpense, card: &credit, want: TypeCreditExpense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TypeFor(tt.direction, tt.card); got != tt.want {
				t.Errorf("TypeFor() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransactionType_Valid(t *testing.T) {
	for _, typ := range TransactionTypes {
		if !typ.Valid() {
			t.Errorf("%q should be valid", typ)
		}
	}
	if TransactionType("refund").Valid() {
		t.Error("unknown type should not be valid")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "2024-03-05T10:30:00.000Z", want: time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
		{input: "2024-03-05T10:30:00Z", want: time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
		{input: "2023-01-01", want: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
		{input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	got := FormatDate(time.Date(2024, 3, 5, 4, 30, 0, 0, loc))
	if got != "2024-03-05T10:30:00.000Z" {
		t.Errorf("FormatDate() = %s", got)
	}
}

func TestCardPatch_Apply(t *testing.T) {
	day := 10
	card := Card{ID: "c1", Name: "Visa", Type: CardTypeCredit, ColorEmoji: "🟥"}
	name := "Visa Gold"
	patched := CardPatch{Name: &name, CutOffDay: &day}.Apply(card)

	if patched.Name != "Visa Gold" {
		t.Errorf("Name = %q", patched.Name)
	}
	if patched.ColorEmoji != "🟥" {
		t.Errorf("ColorEmoji should be untouched, got %q", patched.ColorEmoji)
	}
	if patched.CutOffDay == nil || *patched.CutOffDay != 10 {
		t.Errorf("CutOffDay = %v", patched.CutOffDay)
	}
	day = 20
	if *patched.CutOffDay != 10 {
		t.Error("patch must copy the day, not alias it")
	}
}

func TestFinanceData_CloneIsIndependent(t *testing.T) {
	day := 5
	data := FinanceData{
		Categories:   []Category{{ID: "1", Emoji: "🍕"}},
		Cards:        []Card{{ID: "c1", CutOffDay: &day}},
		Transactions: []Transaction{{ID: "t1", Amount: 10}},
	}
	clone := data.Clone()
	clone.Categories[0].Emoji = "🍔"
	clone.Transactions[0].Amount = 99
	*clone.Cards[0].CutOffDay = 9

	if data.Categories[0].Emoji != "🍕" || data.Transactions[0].Amount != 10 || *data.Cards[0].CutOffDay != 5 {
		t.Error("mutating the clone changed the original")
	}
}

func TestDefaultData(t *testing.T) {
	data := DefaultData()
	if len(data.Categories) != 9 {
		t.Errorf("expected 9 seed categories, got %d", len(data.Categories))
	}
	if data.Cards == nil || data.Transactions == nil {
		t.Error("default collections must be non-nil")
	}
	if _, ok := data.CategoryByID(CreditPaymentCategoryID); !ok {
		t.Error("credit payment category missing from seeds")
	}
	if got := len(SelectableCategories(data.Categories)); got != 8 {
		t.Errorf("expected 8 selectable categories, got %d", got)
	}
}
