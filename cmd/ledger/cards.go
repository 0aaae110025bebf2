package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/emoji-ledger/internal/cli"
	"github.com/Veraticus/emoji-ledger/internal/model"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage credit and debit cards",
	}

	cmd.AddCommand(cardsListCmd())
	cmd.AddCommand(cardsAddCmd())
	cmd.AddCommand(cardsUpdateCmd())
	cmd.AddCommand(cardsDeleteCmd())
	return cmd
}

func cardsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cards with their debt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				cli.RenderCards(cmd.OutOrStdout(), s.store.Snapshot().Cards, s.store.CardDebts())
				return nil
			})
		},
	}
}

func cardsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a card",
		Long: `Add a credit or debit card.

Examples:
  ledger cards add Visa --type credit --color 🟦 --cut-off 12 --payment-day 28
  ledger cards add "Bank debit" --type debit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := model.CardInput{Name: args[0]}
			typ, _ := cmd.Flags().GetString("type")
			in.Type = model.CardType(typ)
			in.ColorEmoji, _ = cmd.Flags().GetString("color")
			in.CutOffDay = dayFlag(cmd, "cut-off")
			in.PaymentDay = dayFlag(cmd, "payment-day")

			return withSession(cmd.Context(), func(s *session) error {
				if in.ColorEmoji == "" {
					in.ColorEmoji = nextColor(s.store.Snapshot().Cards)
				}
				c, err := s.store.AddCard(in)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s card %s (%s)", c.Type, c.Name, c.ID)))
				return nil
			})
		},
	}

	addCardFlags(cmd, string(model.CardTypeCredit))
	return cmd
}

func cardsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch model.CardPatch
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				patch.Name = &name
			}
			if cmd.Flags().Changed("type") {
				typ, _ := cmd.Flags().GetString("type")
				cardType := model.CardType(typ)
				patch.Type = &cardType
			}
			if cmd.Flags().Changed("color") {
				color, _ := cmd.Flags().GetString("color")
				patch.ColorEmoji = &color
			}
			patch.CutOffDay = dayFlag(cmd, "cut-off")
			patch.PaymentDay = dayFlag(cmd, "payment-day")

			return withSession(cmd.Context(), func(s *session) error {
				found, err := s.store.UpdateCard(args[0], patch)
				if err != nil {
					return err
				}
				return reportFound(cmd, found, "card", args[0], "Updated")
			})
		},
	}

	addCardFlags(cmd, "")
	cmd.Flags().String("name", "", "New name")
	return cmd
}

func cardsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Long: `Delete a card. Its transactions are kept and shown against an unknown
card; their debt disappears from the totals.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				found, err := s.store.DeleteCard(args[0])
				if err != nil {
					return err
				}
				return reportFound(cmd, found, "card", args[0], "Deleted")
			})
		},
	}
}

func addCardFlags(cmd *cobra.Command, defaultType string) {
	cmd.Flags().String("type", defaultType, "Card type: credit or debit")
	cmd.Flags().String("color", "", fmt.Sprintf("Emoji shown next to the card (one of %s)", strings.Join(model.CardColors, " ")))
	cmd.Flags().Int("cut-off", 0, "Statement cut-off day (1-31)")
	cmd.Flags().Int("payment-day", 0, "Payment due day (1-31)")
}

// dayFlag returns the billing day if the flag was given.
func dayFlag(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	day, _ := cmd.Flags().GetInt(name)
	return &day
}

// nextColor picks the palette color after the ones already in use.
func nextColor(cards []model.Card) string {
	return model.CardColors[len(cards)%len(model.CardColors)]
}
