// Package codec converts ledger snapshots to and from JSON documents, both
// for the persisted copy and for user-facing backups.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/emoji-ledger/internal/common"
	"github.com/Veraticus/emoji-ledger/internal/model"
)

// DefaultPrefix names export files when no prefix is configured.
const DefaultPrefix = "emoji-finance"

// Extension is the only accepted import file extension.
const Extension = ".json"

// MIMEType is the content type of export documents.
const MIMEType = "application/json"

var requiredKeys = []string{"categories", "cards", "transactions"}

// Document is an export ready to be written or downloaded.
type Document struct {
	Filename string
	MIMEType string
	Content  []byte
}

// Marshal encodes a snapshot compactly for durable storage.
func Marshal(data model.FinanceData) ([]byte, error) {
	out, err := json.Marshal(data.Normalize())
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return out, nil
}

// Unmarshal decodes a stored or imported snapshot. It only checks shape:
// the three top-level collections must be present as arrays.
func Unmarshal(raw []byte) (model.FinanceData, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return model.FinanceData{}, &common.ImportError{Reason: "document is not a JSON object", Err: err}
	}

	for _, key := range requiredKeys {
		value, ok := top[key]
		if !ok {
			return model.FinanceData{}, &common.ImportError{Reason: fmt.Sprintf("missing %q", key)}
		}
		if !isArray(value) {
			return model.FinanceData{}, &common.ImportError{Reason: fmt.Sprintf("%q is not a list", key)}
		}
	}

	var data model.FinanceData
	if err := json.Unmarshal(raw, &data); err != nil {
		return model.FinanceData{}, &common.ImportError{Reason: "malformed entries", Err: err}
	}
	return data.Normalize(), nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Export renders the full snapshot as a pretty-printed document named
// <prefix>-backup-<YYYY-MM-DD>.json after the UTC date of now.
func Export(data model.FinanceData, prefix string, now time.Time) (Document, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	content, err := json.MarshalIndent(data.Normalize(), "", "  ")
	if err != nil {
		return Document{}, fmt.Errorf("failed to encode export: %w", err)
	}
	return Document{
		Filename: ExportFilename(prefix, now),
		MIMEType: MIMEType,
		Content:  content,
	}, nil
}

// ExportFilename builds the backup filename for a date.
func ExportFilename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-backup-%s%s", prefix, now.UTC().Format("2006-01-02"), Extension)
}

// Import reads and validates a backup document.
func Import(r io.Reader) (model.FinanceData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return model.FinanceData{}, &common.ImportError{Reason: "failed to read document", Err: err}
	}
	return Unmarshal(raw)
}

// AcceptsFile reports whether a file name looks like an importable backup.
func AcceptsFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Extension)
}
