package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transit-budget/internal/budget"
	"github.com/Veraticus/transit-budget/internal/cli"
	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/model"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Plan monthly income and spending",
		Long: `Each month has its own plan of expected income and spending per category.

Set amounts while the plan is unlocked. Lock it once the month is agreed;
unplanned income or spending against a locked plan is recorded as extras.`,
		Example: `  # Plan food spending for May
  transit budget set expense Food 80,000 --month 2024-05

  # Fill empty expense lines with suggested amounts
  transit budget defaults --month 2024-05

  # Lock the plan and record an unplanned expense
  transit budget lock --month 2024-05
  transit budget extra add expense 15000 --description "Wedding gift"`,
	}

	cmd.PersistentFlags().String("month", "", "month as YYYY-MM (default: current month)")

	cmd.AddCommand(budgetShowCmd())
	cmd.AddCommand(budgetSetCmd())
	cmd.AddCommand(budgetLockCmd())
	cmd.AddCommand(budgetDefaultsCmd())
	cmd.AddCommand(budgetExtraCmd())
	cmd.AddCommand(budgetResetCmd())

	return cmd
}

func budgetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show a month's plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			month, err := monthFlag(cmd)
			if err != nil {
				return err
			}

			s, err := openSession(contextOf(cmd))
			if err != nil {
				return err
			}
			defer s.close()

			out := cmd.OutOrStdout()
			if !s.ledger.HasPlan(month) {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("No plan for %s yet; showing an empty one", month.Label())))
			}
			fmt.Fprint(out, cli.RenderPlan(month, s.ledger.Plan(month)))
			return nil
		},
	}
}

func budgetSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <income|expense> <category> <amount>",
		Short: "Set the planned amount for a category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)

			typ, err := typeArg(args[0])
			if err != nil {
				return err
			}
			month, err := monthFlag(cmd)
			if err != nil {
				return err
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			category := resolveCategory(s.ledger, typ, args[1])
			if !isKnownCategory(s.ledger.Categories(typ), category) {
				return common.NewUserError(fmt.Sprintf("Unknown %s category %q", typ, category), common.ErrNotFound)
			}

			plan, applied := s.ledger.UpdatePlan(month, func(p model.MonthBudgetPlan) (model.MonthBudgetPlan, bool) {
				return budget.SetCategoryAmount(p, typ, category, args[2])
			})
			if !applied {
				return common.NewUserError("Unlock the plan before changing it", common.ErrPlanLocked)
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Planned %s for %s in %s",
				cli.FormatNaira(plan.Section(typ)[category]), category, month.Label())))
			return nil
		},
	}
}

func budgetLockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Lock or unlock a month's plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)

			month, err := monthFlag(cmd)
			if err != nil {
				return err
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			plan, _ := s.ledger.UpdatePlan(month, func(p model.MonthBudgetPlan) (model.MonthBudgetPlan, bool) {
				return budget.ToggleLock(p), true
			})
			if err := s.save(ctx); err != nil {
				return err
			}

			msg := cli.UnlockIcon + " Unlocked plan for " + month.Label()
			if plan.Locked {
				msg = cli.LockIcon + " Locked plan for " + month.Label()
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.SuccessStyle.Render(msg))
			return nil
		},
	}
}

func budgetDefaultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Fill empty expense lines with suggested amounts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)

			month, err := monthFlag(cmd)
			if err != nil {
				return err
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			if s.ledger.Plan(month).Locked {
				return common.NewUserError("Unlock the plan before changing it", common.ErrPlanLocked)
			}

			plan, applied := s.ledger.UpdatePlan(month, budget.ApplyDefaultBudgets)
			if !applied {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Every expense line already has an amount"))
				return nil
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), cli.RenderPlan(month, plan))
			return nil
		},
	}
}

func budgetExtraCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extra",
		Short: "Record unplanned income or spending against a locked plan",
	}

	cmd.AddCommand(budgetExtraAddCmd())
	cmd.AddCommand(budgetExtraRemoveCmd())

	return cmd
}

func budgetExtraAddCmd() *cobra.Command {
	var (
		category    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <income|expense> <amount>",
		Short: "Add an extra-budgetary entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)

			typ, err := typeArg(args[0])
			if err != nil {
				return err
			}
			month, err := monthFlag(cmd)
			if err != nil {
				return err
			}

			amount := model.ParseCurrencyInput(args[1])
			if !(amount > 0) {
				return common.NewUserError("Amount must be greater than zero", model.ErrInvalidAmount)
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			entry := model.ExtraEntry{
				Type:        typ,
				Category:    resolveCategory(s.ledger, typ, category),
				Description: description,
				Amount:      amount,
			}

			plan, applied := s.ledger.UpdatePlan(month, func(p model.MonthBudgetPlan) (model.MonthBudgetPlan, bool) {
				return budget.AddExtra(p, entry)
			})
			if !applied {
				return common.NewUserError("Lock the plan before recording extras", common.ErrPlanUnlocked)
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			added := plan.Extras[len(plan.Extras)-1]
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded extra %s %q of %s",
				added.Type, added.Description, cli.FormatNaira(added.Amount))))
			fmt.Fprintf(cmd.OutOrStdout(), "  id %s\n", added.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "short description")

	return cmd
}

func budgetExtraRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an extra-budgetary entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)

			month, err := monthFlag(cmd)
			if err != nil {
				return err
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			if !s.ledger.HasPlan(month) {
				return fmt.Errorf("plan for %s: %w", month, common.ErrNotFound)
			}
			if _, applied := s.ledger.UpdatePlan(month, func(p model.MonthBudgetPlan) (model.MonthBudgetPlan, bool) {
				return budget.RemoveExtra(p, args[0])
			}); !applied {
				return fmt.Errorf("extra %q in %s: %w", args[0], month, common.ErrNotFound)
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed extra "+args[0]))
			return nil
		},
	}
}

func budgetResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every budget plan",
		Long:  `Delete the plans of every month. Transactions are kept. An automatic checkpoint is taken first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)

			ok, err := confirm(cmd, "Delete all budget plans?")
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

			s.autoCheckpoint(ctx, "reset")
			n := len(s.ledger.PlanMonths())
			s.ledger.ResetPlans()
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %d budget plans", n)))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip confirmation")

	return cmd
}

func isKnownCategory(known []model.Category, c model.Category) bool {
	for _, k := range known {
		if k == c {
			return true
		}
	}
	return false
}
