package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transit-budget/internal/analysis"
	"github.com/Veraticus/transit-budget/internal/cli"
	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/engine"
	"github.com/Veraticus/transit-budget/internal/model"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record and review transactions",
		Example: `  # Record an expense
  transit tx add expense 25,000 --category Food --description "Groceries"

  # Record this month's salary
  transit tx add income 850000 --category Salary --recurring

  # List May's expenses
  transit tx list --month 2024-05 --type expense`,
	}

	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txDeleteCmd())
	cmd.AddCommand(txClearCmd())

	return cmd
}

func txAddCmd() *cobra.Command {
	var (
		category    string
		date        string
		description string
		notes       string
		recurring   bool
	)

	cmd := &cobra.Command{
		Use:   "add <income|expense> <amount>",
		Short: "Record a transaction",
		Long: `Record an income or expense. The amount accepts thousands separators
("25,000", "25 000") and must be greater than zero. The date defaults to today.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)

			typ, err := typeArg(args[0])
			if err != nil {
				return err
			}

			draft := model.TransactionDraft{
				Type:        typ,
				Amount:      model.ParseCurrencyInput(args[1]),
				Description: description,
				Notes:       notes,
				Recurring:   recurring,
			}
			if date != "" {
				d, err := model.ParseDate(date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				draft.Date = d
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			draft.Category = resolveCategory(s.ledger, typ, category)

			txn, err := s.ledger.AddTransaction(draft, today())
			if err != nil {
				return fmt.Errorf("failed to add transaction: %w", err)
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			common.LogDebug("Recorded transaction", common.Fields{"id": txn.ID, "type": txn.Type, "amount": txn.Amount})
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s of %s in %s on %s",
				txn.Type, cli.FormatNairaExact(txn.Amount), txn.Category, txn.Date)))
			fmt.Fprintf(cmd.OutOrStdout(), "  id %s\n", txn.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name (default: Misc for expenses, Other for income)")
	cmd.Flags().StringVar(&date, "date", "", "transaction date as YYYY-MM-DD (default: today)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "short description")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().BoolVar(&recurring, "recurring", false, "mark as a recurring transaction")

	return cmd
}

func txListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a month's transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)

			month, err := monthFlag(cmd)
			if err != nil {
				return err
			}

			filter := analysis.Filter{}
			if raw, _ := cmd.Flags().GetString("type"); raw != "" {
				if filter.Type, err = typeArg(raw); err != nil {
					return err
				}
			}
			filter.Search, _ = cmd.Flags().GetString("search")

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			txns := analysis.FilterTransactions(s.ledger.Transactions(), month, filter)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Transactions in %s", month.Label())))
			fmt.Fprint(out, cli.RenderTransactions(txns))
			return nil
		},
	}

	cmd.Flags().String("month", "", "month as YYYY-MM (default: current month)")
	cmd.Flags().String("type", "", "only income or expense")
	cmd.Flags().String("search", "", "match description or category")

	return cmd
}

func txDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.ledger.DeleteTransaction(args[0]); err != nil {
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted transaction "+args[0]))
			return nil
		},
	}
}

func txClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction",
		Long:  `Delete every transaction. Budget plans and categories are kept. An automatic checkpoint is taken first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)

			ok, err := confirm(cmd, "Delete all transactions?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing deleted"))
				return nil
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			s.autoCheckpoint(ctx, "clear")
			n := s.ledger.ClearTransactions()
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %d transactions", n)))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip confirmation")

	return cmd
}

// resolveCategory matches raw against the ledger's categories of type t
// case-insensitively. An empty name picks the catch-all category.
func resolveCategory(ledger *engine.Ledger, t model.TransactionType, raw string) model.Category {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if t == model.TypeIncome {
			return model.CategoryOther
		}
		return model.CategoryMisc
	}
	for _, c := range ledger.Categories(t) {
		if model.SameName(c, model.Category(raw)) {
			return c
		}
	}
	return model.Category(raw)
}
