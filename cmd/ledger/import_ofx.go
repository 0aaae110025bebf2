package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/emoji-ledger/internal/cli"
	"github.com/Veraticus/emoji-ledger/internal/model"
	"github.com/Veraticus/emoji-ledger/internal/ofx"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX statements",
		Long: `Import transactions from OFX or QFX files exported from your bank.

Bank statements become income and cash spending, or debit card spending when
--card names a debit card. Credit card statements need --card: charges become
card debt and credits become payments to the card. Entries already imported
are skipped, so re-running on an overlapping statement is safe.

Examples:
  ledger import-ofx ~/Downloads/checking_*.qfx
  ledger import-ofx ~/Downloads/visa.ofx --card visa --category 7`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().String("card", "", "Card the statements belong to")
	cmd.Flags().StringP("category", "c", ofx.DefaultExpenseCategory, "Category for spending")
	cmd.Flags().String("income-category", ofx.DefaultIncomeCategory, "Category for income")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")
	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	mapping := ofx.Mapping{}
	mapping.CardID, _ = cmd.Flags().GetString("card")
	mapping.ExpenseCategory, _ = cmd.Flags().GetString("category")
	mapping.IncomeCategory, _ = cmd.Flags().GetString("income-category")
	ctx := cmd.Context()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	slog.Info("Importing OFX files", "file_count", len(files), "dry_run", dryRun)
	inputs := readStatements(ctx, files, mapping, cmd.ErrOrStderr())
	if len(inputs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("No transactions found in any file"))
		return nil
	}

	if dryRun {
		printPreview(cmd.OutOrStdout(), inputs)
		return nil
	}

	return withSession(ctx, func(s *session) error {
		result, err := s.store.ImportStatement(inputs)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d transactions, skipped %d already present", result.Added, result.Skipped)))
		return nil
	})
}

// expandFiles resolves glob patterns. Patterns with no match are kept if
// they name an existing file.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// readStatements parses every file and maps its entries. Files that cannot
// be read or mapped are logged and skipped.
func readStatements(ctx context.Context, files []string, mapping ofx.Mapping, progress io.Writer) []model.TransactionInput {
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(progress),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Reading statements..."),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(progress)
		}),
	)

	parser := ofx.NewParser()
	var inputs []model.TransactionInput
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}
		found, err := readStatementFile(ctx, parser, path, mapping)
		if err != nil {
			slog.Error("Failed to import file", "file", filepath.Base(path), "error", err)
		} else {
			slog.Debug("Read statement file", "file", filepath.Base(path), "transactions", len(found))
			inputs = append(inputs, found...)
		}
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
	return inputs
}

func readStatementFile(ctx context.Context, parser *ofx.Parser, path string, mapping ofx.Mapping) ([]model.TransactionInput, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided statement path
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	statements, err := parser.ParseFile(ctx, f)
	if err != nil {
		return nil, err
	}

	var inputs []model.TransactionInput
	for _, stmt := range statements {
		mapped, err := mapping.Inputs(stmt)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, mapped...)
	}
	return inputs, nil
}

func printPreview(w io.Writer, inputs []model.TransactionInput) {
	fmt.Fprintln(w, cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions would be imported", len(inputs))))
	for i, in := range inputs {
		if i == 5 {
			fmt.Fprintf(w, "  … %d more\n", len(inputs)-5)
			break
		}
		fmt.Fprintf(w, "  %s  %-16s %s\n", cli.FormatTransactionDate(in.Date, nil), in.Type, cli.FormatMoney(in.Amount))
	}
}
