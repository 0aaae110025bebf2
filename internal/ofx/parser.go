// Package ofx reads OFX/QFX bank and credit card statements and maps their
// entries onto ledger transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// Kind says which side of the ledger a statement belongs to.
type Kind string

// Statement kinds.
const (
	KindBank   Kind = "bank"
	KindCredit Kind = "credit"
)

// Statement is one account's transaction list.
type Statement struct {
	Kind      Kind
	AccountID string
	Entries   []Entry
}

// Entry is a single statement line. Amount is signed the way the bank
// reports it: negative for money leaving the account.
type Entry struct {
	Posted time.Time
	FitID  string
	Name   string
	Amount float64
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of a bare opening tag
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file into its statements.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]Statement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var statements []Statement

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			statements = append(statements, Statement{
				Kind:      KindBank,
				AccountID: string(stmt.BankAcctFrom.AcctID),
				Entries:   p.convertList(stmt.BankTranList),
			})
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			statements = append(statements, Statement{
				Kind:      KindCredit,
				AccountID: string(stmt.CCAcctFrom.AcctID),
				Entries:   p.convertList(stmt.BankTranList),
			})
		}
	}

	entries := 0
	for _, s := range statements {
		entries += len(s.Entries)
	}
	slog.Info("Parsed OFX file",
		"statements", len(statements),
		"entries", entries)

	return statements, nil
}

func (p *Parser) convertList(list *ofxgo.TransactionList) []Entry {
	if list == nil {
		return nil
	}
	entries := make([]Entry, 0, len(list.Transactions))
	for _, tx := range list.Transactions {
		entries = append(entries, p.convertTransaction(tx))
	}
	return entries
}

func (p *Parser) convertTransaction(tx ofxgo.Transaction) Entry {
	// TrnAmt is a big.Rat; statements never carry more than cents
	amount, _ := tx.TrnAmt.Float64()
	return Entry{
		Posted: tx.DtPosted.Time,
		FitID:  string(tx.FiTID),
		Name:   p.extractMerchantName(tx),
		Amount: decimal.NewFromFloat(amount).Round(2).InexactFloat64(),
	}
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Clean up date patterns like "MM/DD" at the beginning
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// isGenericDescription checks if a transaction name is too generic.
func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	default:
		return false
	}
}
