package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/emoji-ledger/internal/cli"
	"github.com/Veraticus/emoji-ledger/internal/codec"
	"github.com/Veraticus/emoji-ledger/internal/common"
	"github.com/Veraticus/emoji-ledger/internal/storage"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of the whole ledger",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}

	cmd.Flags().String("dir", "", "Directory to write the backup to (default: export.dir)")
	cmd.Flags().Bool("stdout", false, "Write the backup to stdout instead of a file")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	toStdout, _ := cmd.Flags().GetBool("stdout")
	if dir == "" {
		dir = cfg.Export.Dir
	}

	return withSession(cmd.Context(), func(s *session) error {
		doc, err := s.store.Export(cfg.Export.Prefix)
		if err != nil {
			return err
		}

		if toStdout {
			_, err := cmd.OutOrStdout().Write(append(doc.Content, '\n'))
			return err
		}

		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
		path := filepath.Join(dir, doc.Filename)
		if err := os.WriteFile(path, doc.Content, 0o600); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Backup written to %s", path)))
		return nil
	})
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <backup.json>",
		Short: "Replace the ledger with a JSON backup",
		Long: `Replace every category, card and transaction with the contents of a backup
written by 'ledger export'. A backup that is malformed or missing any of its
collections is rejected and the ledger is left unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !codec.AcceptsFile(path) {
		return common.NewUserError(fmt.Sprintf("%s is not a %s backup", filepath.Base(path), codec.Extension), nil)
	}
	yes, _ := cmd.Flags().GetBool("yes")
	ctx := cmd.Context()

	if !yes {
		ok, err := cli.Confirm(ctx, cli.NewNonBlockingReader(cmd.InOrStdin()), cmd.OutOrStdout(),
			"Replace all categories, cards and transactions?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Import canceled"))
			return nil
		}
	}

	f, err := os.Open(path) //nolint:gosec // user-provided backup path
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer func() { _ = f.Close() }()

	return withSession(ctx, func(s *session) error {
		data, err := s.store.Import(ctx, f)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d categories, %d cards, %d transactions",
			len(data.Categories), len(data.Cards), len(data.Transactions))))
		return nil
	})
}

func revisionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revisions",
		Short: "List or restore earlier saved snapshots (sqlite backend)",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE:  runRevisionsList,
	}
	listCmd.Flags().IntP("limit", "n", 0, "Maximum revisions to show (default: all kept)")

	restoreCmd := &cobra.Command{
		Use:   "restore <revision-id>",
		Short: "Replace the ledger with a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runRevisionsRestore,
	}

	cmd.AddCommand(listCmd, restoreCmd)
	return cmd
}

func sqliteBackend(s *session) (*storage.SQLiteKV, error) {
	db, ok := s.kv.(*storage.SQLiteKV)
	if !ok {
		return nil, common.NewUserError(fmt.Sprintf("revisions need the %s backend (configured: %s)", storage.BackendSQLite, cfg.Storage.Backend), nil)
	}
	return db, nil
}

func runRevisionsList(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	ctx := cmd.Context()

	return withSession(ctx, func(s *session) error {
		db, err := sqliteBackend(s)
		if err != nil {
			return err
		}
		revisions, err := db.Revisions(ctx, s.store.Key(), limit)
		if err != nil {
			return err
		}
		if len(revisions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), cli.InfoStyle.Render("No saved snapshots yet."))
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatTitle("Saved snapshots"))
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSaved\tSize")
		fmt.Fprintln(w, "--\t-----\t----")
		for _, rev := range revisions {
			fmt.Fprintf(w, "%d\t%s\t%d bytes\n", rev.ID, rev.WrittenAt.Local().Format("2006-01-02 15:04:05"), rev.Size)
		}
		return w.Flush()
	})
}

func runRevisionsRestore(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return common.NewValidationError("revision", fmt.Sprintf("%q is not a revision id", args[0]))
	}
	ctx := cmd.Context()

	return withSession(ctx, func(s *session) error {
		db, err := sqliteBackend(s)
		if err != nil {
			return err
		}
		rev, err := db.Revision(ctx, id)
		if err != nil {
			return err
		}
		if rev.Key != s.store.Key() {
			return common.NewUserError(fmt.Sprintf("revision %d belongs to %q, not %q", id, rev.Key, s.store.Key()), nil)
		}
		data, err := codec.Unmarshal(rev.Value)
		if err != nil {
			return err
		}
		if err := s.store.Replace(data); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Restored revision %d (%d transactions)", id, len(data.Transactions))))
		return nil
	})
}
