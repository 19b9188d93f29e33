package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transit-budget/internal/analysis"
	"github.com/Veraticus/transit-budget/internal/cli"
	"github.com/Veraticus/transit-budget/internal/engine"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compare actual income and spending with the plan",
		Long: `Summarize a month, quarter, year-to-date or full year: totals, the largest
spending categories and per-category variance against the budget plans.`,
		Example: `  # This month
  transit report

  # The quarter containing February 2024
  transit report --scope quarterly --month 2024-02`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := reportRequest(cmd)
			if err != nil {
				return err
			}

			s, err := openSession(contextOf(cmd))
			if err != nil {
				return err
			}
			defer s.close()

			fmt.Fprint(cmd.OutOrStdout(), cli.RenderReport(s.ledger.View(req)))
			return nil
		},
	}

	addReportFlags(cmd)

	return cmd
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("month", "", "anchor month as YYYY-MM (default: current month)")
	cmd.Flags().String("scope", "", "monthly, quarterly, ytd or yearly (default: report.scope)")
	cmd.Flags().Int("top", 0, "categories shown before folding into Others (default: report.top_categories)")
}

// reportRequest builds an aggregation request from flags and settings.
func reportRequest(cmd *cobra.Command) (engine.Request, error) {
	settings, err := loadSettings()
	if err != nil {
		return engine.Request{}, err
	}

	anchor, err := monthFlag(cmd)
	if err != nil {
		return engine.Request{}, err
	}

	scope := settings.Scope
	if raw, _ := cmd.Flags().GetString("scope"); raw != "" {
		if scope, err = analysis.ParseScope(raw); err != nil {
			return engine.Request{}, err
		}
	}

	top := settings.TopCategories
	if n, _ := cmd.Flags().GetInt("top"); n > 0 {
		top = n
	}

	return engine.Request{
		Today:  today(),
		Scope:  scope,
		Anchor: anchor,
		TopN:   top,
	}, nil
}
