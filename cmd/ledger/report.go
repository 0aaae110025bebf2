package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/emoji-ledger/internal/cli"
	"github.com/Veraticus/emoji-ledger/internal/derive"
)

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show cash balance and credit card debt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				cli.RenderBalance(cmd.OutOrStdout(), s.store.Balance(), s.store.TotalCreditDebt(), s.store.CreditCardsWithDebt())
				return nil
			})
		},
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return withSession(cmd.Context(), func(s *session) error {
				cli.RenderHistory(cmd.OutOrStdout(), s.store.History(limit), s.store.Resolver())
				return nil
			})
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum transactions to show (0 for all)")
	return cmd
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Break transactions down by category",
		Long: `Group transactions by category for a calendar period.

Periods are week (starting Monday), month, year, or all. The view selects
income, expense (cash and credit purchases), or all transactions.`,
		Args: cobra.NoArgs,
		RunE: runStats,
	}

	cmd.Flags().StringP("period", "p", string(derive.PeriodMonth), "Period: week, month, year, all")
	cmd.Flags().StringP("view", "v", string(derive.ViewExpense), "View: all, income, expense")
	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	periodFlag, _ := cmd.Flags().GetString("period")
	viewFlag, _ := cmd.Flags().GetString("view")

	period, err := derive.ParsePeriod(periodFlag)
	if err != nil {
		return err
	}
	view, err := derive.ParseViewType(viewFlag)
	if err != nil {
		return err
	}

	return withSession(cmd.Context(), func(s *session) error {
		cli.RenderStats(cmd.OutOrStdout(), period, view, s.store.Totals(period), s.store.Stats(period, view), s.store.Resolver())
		return nil
	})
}
