package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transit-budget/internal/cli"
	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
		Long: `List the preset categories and add or remove your own.

Preset categories cannot be removed. A custom category can only be removed
while no transaction uses it.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories by type",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(contextOf(cmd))
			if err != nil {
				return err
			}
			defer s.close()

			out := cmd.OutOrStdout()
			for _, t := range []model.TransactionType{model.TypeExpense, model.TypeIncome} {
				title := "Expense categories"
				if t == model.TypeIncome {
					title = "Income categories"
				}
				fmt.Fprintln(out, cli.FormatTitle(title))
				for _, c := range s.ledger.Categories(t) {
					marker := ""
					if !model.IsPreset(t, c) {
						marker = cli.SubtleStyle.Render(" (custom)")
					}
					fmt.Fprintf(out, "  %s %s%s\n", c.Icon(), c, marker)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <income|expense> <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)

			typ, err := typeArg(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			custom, err := s.ledger.AddCustomCategory(args[1], typ)
			if err != nil {
				if errors.Is(err, common.ErrDuplicateEntry) {
					return common.NewUserError("A category with that name already exists", err)
				}
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s category %q", custom.Type, custom.Name)))
			return nil
		},
	}
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <income|expense> <name>",
		Short: "Delete an unused custom category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)

			typ, err := typeArg(args[0])
			if err != nil {
				return err
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			name := resolveCategory(s.ledger, typ, args[1])
			if model.IsPreset(typ, name) {
				return common.NewUserError("Preset categories cannot be deleted", fmt.Errorf("category %q", name))
			}

			if err := s.ledger.DeleteCustomCategory(name, typ); err != nil {
				if errors.Is(err, common.ErrCategoryInUse) {
					return common.NewUserError("Category is still used by transactions", err)
				}
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %s category %q", typ, name)))
			return nil
		},
	}
}
