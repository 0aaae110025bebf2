package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/emoji-ledger/internal/cli"
	"github.com/Veraticus/emoji-ledger/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage emoji categories",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())
	cmd.AddCommand(categoriesUpdateCmd())
	cmd.AddCommand(categoriesDeleteCmd())
	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				cli.RenderCategories(cmd.OutOrStdout(), s.store.Snapshot().Categories)
				return nil
			})
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <emoji> [description]",
		Short: "Add a category",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.CategoryInput{Emoji: args[0]}
			if len(args) == 2 {
				in.Description = args[1]
			}
			return withSession(cmd.Context(), func(s *session) error {
				c, err := s.store.AddCategory(in)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s %s (%s)", c.Emoji, c.Description, c.ID)))
				return nil
			})
		},
	}
	return cmd
}

func categoriesUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a category's emoji or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.CategoryPatch
			if cmd.Flags().Changed("emoji") {
				emoji, _ := cmd.Flags().GetString("emoji")
				patch.Emoji = &emoji
			}
			if cmd.Flags().Changed("description") {
				desc, _ := cmd.Flags().GetString("description")
				patch.Description = &desc
			}

			return withSession(cmd.Context(), func(s *session) error {
				found, err := s.store.UpdateCategory(args[0], patch)
				if err != nil {
					return err
				}
				return reportFound(cmd, found, "category", args[0], "Updated")
			})
		},
	}

	cmd.Flags().String("emoji", "", "New emoji")
	cmd.Flags().String("description", "", "New description")
	return cmd
}

func categoriesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Long: `Delete a category. Transactions that used it keep their category id and
are shown as uncategorized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				found, err := s.store.DeleteCategory(args[0])
				if err != nil {
					return err
				}
				return reportFound(cmd, found, "category", args[0], "Deleted")
			})
		},
	}
}

func reportFound(cmd *cobra.Command, found bool, kind, id, verb string) error {
	if !found {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf("No %s with id %s", kind, id)))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%s %s %s", verb, kind, id)))
	return nil
}
