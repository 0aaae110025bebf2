package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/emoji-ledger/internal/common"
	"github.com/Veraticus/emoji-ledger/internal/model"
)

var idPattern = regexp.MustCompile(`\(([^)]+)\)`)

// useBackend points the CLI at a fresh backend under t.TempDir.
func useBackend(t *testing.T, backend string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("LEDGER_STORAGE_BACKEND", backend)
	t.Setenv("LEDGER_STORAGE_DIR", filepath.Join(dir, "data"))
	t.Setenv("LEDGER_STORAGE_PATH", filepath.Join(dir, "ledger.db"))
	t.Setenv("LEDGER_EXPORT_DIR", filepath.Join(dir, "exports"))
	t.Setenv("LEDGER_LOGGING_LEVEL", "error")
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	cfgFile = ""

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLI(t, "", args...)
	require.NoError(t, err, out)
	return out
}

func createdID(t *testing.T, out string) string {
	t.Helper()
	m := idPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, "no id in %q", out)
	return m[1]
}

func TestBalanceAfterIncomeAndExpense(t *testing.T) {
	useBackend(t, "jsonfile")

	mustRun(t, "add", "income", "100", "--category", "8")
	mustRun(t, "add", "expense", "40", "--category", "1")

	out := mustRun(t, "balance")
	assert.Contains(t, out, "Balance: $60.00")
	assert.Contains(t, out, "Credit debt: $0.00")

	history := mustRun(t, "history")
	assert.Contains(t, history, "🍕 Comida")
	assert.Contains(t, history, "+$100.00")
}

func TestCreditCardFlow(t *testing.T) {
	useBackend(t, "jsonfile")

	cardID := createdID(t, mustRun(t, "cards", "add", "Visa", "--color", "🟦", "--cut-off", "12"))
	out := mustRun(t, "add", "expense", "200", "--category", "7", "--card", cardID)
	assert.Contains(t, out, "Recorded credit_expense $200.00")

	out = mustRun(t, "pay", cardID, "80")
	assert.Contains(t, out, "Remaining debt: $120.00")

	out = mustRun(t, "balance")
	assert.Contains(t, out, "Balance: -$80.00")
	assert.Contains(t, out, "🟦 Visa: $120.00")

	out = mustRun(t, "cards", "list")
	assert.Contains(t, out, "$120.00")
}

func TestCardCommands(t *testing.T) {
	useBackend(t, "jsonfile")

	first := createdID(t, mustRun(t, "cards", "add", "Visa"))
	second := createdID(t, mustRun(t, "cards", "add", "Bank debit", "--type", "debit"))

	out := mustRun(t, "cards", "list")
	assert.Contains(t, out, "🟥 Visa")
	assert.Contains(t, out, "🟧 Bank debit")

	mustRun(t, "cards", "update", first, "--name", "Visa Gold", "--payment-day", "28")
	out = mustRun(t, "cards", "list")
	assert.Contains(t, out, "Visa Gold")
	assert.Contains(t, out, "28")

	_, err := runCLI(t, "", "cards", "update", second, "--cut-off", "40")
	require.ErrorIs(t, err, common.ErrValidation)

	out = mustRun(t, "cards", "delete", second)
	assert.Contains(t, out, "Deleted card")
	assert.NotContains(t, mustRun(t, "cards", "list"), "Bank debit")
}

func TestAddRejectsBadInput(t *testing.T) {
	useBackend(t, "jsonfile")

	_, err := runCLI(t, "", "add", "expense", "abc", "--category", "1")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = runCLI(t, "", "add", "gift", "10", "--category", "1")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = runCLI(t, "", "add", "expense", "10", "--category", "nope")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "categoryId")

	_, err = runCLI(t, "", "add", "expense", "10", "--category", "1", "--date", "yesterday")
	require.ErrorIs(t, err, common.ErrValidation)

	out := mustRun(t, "history")
	assert.Contains(t, out, "No transactions yet")
}

func TestDateFlagUsesLocalZone(t *testing.T) {
	cmd := addCmd()
	require.NoError(t, cmd.Flags().Set("date", "2024-03-01"))

	date, err := dateFlag(cmd)
	require.NoError(t, err)
	assert.Equal(t, model.FormatDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)), date)

	require.NoError(t, cmd.Flags().Set("date", "2024-03-01T15:04:05Z"))
	date, err = dateFlag(cmd)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T15:04:05.000Z", date)
}

func TestDeleteUnknownTransaction(t *testing.T) {
	useBackend(t, "jsonfile")

	out := mustRun(t, "delete", "missing")
	assert.Contains(t, out, "No transaction with id missing")
}

func TestCategoryCommands(t *testing.T) {
	useBackend(t, "jsonfile")

	id := createdID(t, mustRun(t, "categories", "add", "🎁", "Regalos"))
	mustRun(t, "categories", "update", id, "--description", "Gifts")

	out := mustRun(t, "categories", "list")
	assert.Contains(t, out, "Gifts")
	assert.NotContains(t, out, "Regalos")

	out = mustRun(t, "categories", "delete", id)
	assert.Contains(t, out, "Deleted category")
	assert.NotContains(t, mustRun(t, "categories", "list"), "Gifts")
}

func TestExportAndImport(t *testing.T) {
	dir := useBackend(t, "jsonfile")
	mustRun(t, "add", "income", "250", "--category", "8", "--date", "2024-03-01")
	mustRun(t, "export")

	backups, err := filepath.Glob(filepath.Join(dir, "exports", "emoji-finance-backup-*.json"))
	require.NoError(t, err)
	require.Len(t, backups, 1)

	useBackend(t, "jsonfile")

	out, err := runCLI(t, "n\n", "import", backups[0])
	require.NoError(t, err)
	assert.Contains(t, out, "Import canceled")
	assert.Contains(t, mustRun(t, "history"), "No transactions yet")

	out, err = runCLI(t, "y\n", "import", backups[0])
	require.NoError(t, err)
	assert.Contains(t, out, "1 transactions")
	assert.Contains(t, mustRun(t, "history"), "+$250.00")
}

func TestImportRejectsBadFiles(t *testing.T) {
	dir := useBackend(t, "jsonfile")

	txt := filepath.Join(dir, "backup.txt")
	require.NoError(t, os.WriteFile(txt, []byte("{}"), 0o600))
	_, err := runCLI(t, "", "import", txt, "--yes")
	require.Error(t, err)

	partial := filepath.Join(dir, "partial.json")
	require.NoError(t, os.WriteFile(partial, []byte(`{"categories":[],"cards":[]}`), 0o600))
	_, err = runCLI(t, "", "import", partial, "--yes")
	require.ErrorIs(t, err, common.ErrImport)
}

func TestRevisions(t *testing.T) {
	useBackend(t, "sqlite")

	mustRun(t, "add", "income", "10", "--category", "8")
	mustRun(t, "add", "income", "20", "--category", "8")

	out := mustRun(t, "revisions", "list")
	assert.Contains(t, out, "Saved snapshots")
	assert.Equal(t, 2, strings.Count(out, "bytes"))

	out = mustRun(t, "revisions", "restore", "1")
	assert.Contains(t, out, "Restored revision 1 (1 transactions)")

	history := mustRun(t, "history")
	assert.Contains(t, history, "+$10.00")
	assert.NotContains(t, history, "+$20.00")
}

func TestRevisionsNeedSQLite(t *testing.T) {
	useBackend(t, "jsonfile")

	_, err := runCLI(t, "", "revisions", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite")
}

func TestStatsRejectsUnknownPeriod(t *testing.T) {
	useBackend(t, "memory")

	_, err := runCLI(t, "", "stats", "--period", "decade")
	require.Error(t, err)

	out := mustRun(t, "stats", "--period", "all", "--view", "all")
	assert.Contains(t, out, "Nothing recorded")
}

func TestVersion(t *testing.T) {
	useBackend(t, "memory")
	assert.Contains(t, mustRun(t, "version"), "ledger dev")
}
