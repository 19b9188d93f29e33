package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transit-budget/internal/cli"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a month of sample transactions",
		Long: `Replace every transaction with a month of sample activity dated in the
current month. Empty plans for January to March are created when no plan
exists yet. An automatic checkpoint is taken first.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)

			ok, err := confirm(cmd, "Replace all transactions with sample data?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Nothing changed"))
				return nil
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			s.autoCheckpoint(ctx, "seed")
			now := today()
			txns := s.ledger.SeedDemo(now)
			plansCreated := s.ledger.EnsureDefaultPlans(now.Year())
			if err := s.save(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Loaded %d sample transactions for %s", len(txns), now.MonthKey().Label())))
			if plansCreated {
				fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Created empty plans for January to March %d", now.Year())))
			}
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip confirmation")

	return cmd
}
