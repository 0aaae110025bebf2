package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/emoji-ledger/internal/cli"
	"github.com/Veraticus/emoji-ledger/internal/common"
	"github.com/Veraticus/emoji-ledger/internal/model"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <income|expense> <amount>",
		Short: "Record income or spending",
		Long: `Record a new transaction.

Spending paid with a credit card (--card) is recorded as card debt instead of
reducing the cash balance.

Examples:
  ledger add expense 12.50 --category 1
  ledger add expense 80 --category 7 --card visa
  ledger add income 2000 --category 8 --date 2024-03-01`,
		Args: cobra.ExactArgs(2),
		RunE: runAdd,
	}

	cmd.Flags().StringP("category", "c", "", "Category id (see 'ledger categories list')")
	cmd.Flags().String("card", "", "Card id; omit for cash")
	cmd.Flags().String("date", "", "Date as YYYY-MM-DD or RFC 3339 (default: now)")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	direction := model.Direction(args[0])
	if direction != model.DirectionIncome && direction != model.DirectionExpense {
		return common.NewValidationError("direction", fmt.Sprintf("%q must be income or expense", args[0]))
	}
	amount, err := cli.ParseAmount(args[1])
	if err != nil {
		return err
	}

	categoryID, _ := cmd.Flags().GetString("category")
	cardID, _ := cmd.Flags().GetString("card")
	date, err := dateFlag(cmd)
	if err != nil {
		return err
	}

	return withSession(cmd.Context(), func(s *session) error {
		if _, ok := s.store.Snapshot().CategoryByID(categoryID); !ok {
			return common.NewValidationError("categoryId", "references an unknown category")
		}

		in := model.TransactionInput{
			CategoryID: categoryID,
			Date:       date,
			Amount:     amount,
		}

		var card *model.Card
		if cardID != "" {
			in.PaymentMethod = model.CardRef(cardID)
			if c, ok := s.store.Snapshot().CardByID(cardID); ok {
				card = &c
			}
		}
		in.Type = model.TypeFor(direction, card)

		t, err := s.store.AddTransaction(in)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s %s (%s)", t.Type, cli.FormatMoney(t.Amount), t.ID)))
		return nil
	})
}

func payCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay <card-id> <amount>",
		Short: "Pay down a credit card from cash",
		Args:  cobra.ExactArgs(2),
		RunE:  runPay,
	}

	cmd.Flags().String("date", "", "Date as YYYY-MM-DD or RFC 3339 (default: now)")
	return cmd
}

func runPay(cmd *cobra.Command, args []string) error {
	amount, err := cli.ParseAmount(args[1])
	if err != nil {
		return err
	}
	date, err := dateFlag(cmd)
	if err != nil {
		return err
	}

	return withSession(cmd.Context(), func(s *session) error {
		t, err := s.store.AddTransaction(model.TransactionInput{
			Type:         model.TypeCreditPayment,
			CategoryID:   model.CreditPaymentCategoryID,
			TargetCardID: args[0],
			Date:         date,
			Amount:       amount,
		})
		if err != nil {
			return err
		}

		debt := s.store.CardDebts()[args[0]]
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Paid %s (%s)", cli.FormatMoney(t.Amount), t.ID)))
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("Remaining debt: %s", cli.FormatMoney(max(0, debt)))))
		return nil
	})
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(s *session) error {
				removed, err := s.store.DeleteTransaction(args[0])
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning(fmt.Sprintf("No transaction with id %s", args[0])))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted transaction %s", args[0])))
				return nil
			})
		},
	}
}

// dateFlag normalizes --date to the stored date format.
func dateFlag(cmd *cobra.Command) (string, error) {
	raw, _ := cmd.Flags().GetString("date")
	if raw == "" {
		return "", nil
	}
	ts, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		ts, err = model.ParseDate(raw)
	}
	if err != nil {
		return "", common.NewValidationError("date", fmt.Sprintf("%q is not a date", raw))
	}
	return model.FormatDate(ts), nil
}
