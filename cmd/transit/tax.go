package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transit-budget/internal/cli"
	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/Veraticus/transit-budget/internal/tax"
)

func taxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Estimate PAYE under the legacy and current rules",
		Long: `Estimate personal income tax from gross pay. Flags override the saved
calculator inputs; pass --save to keep them for next time.

The legacy rules apply the consolidated relief allowance; the current rules
apply rent relief. Both regimes are computed and compared.`,
		Example: `  # Monthly gross of 850,000 with 8% pension
  transit tax --gross 850,000 --pension 8

  # Annual figures with NHF and rent, saved for later
  transit tax --period annual --gross 12,000,000 --nhf --rent 2,400,000 --save

  # Re-run with saved inputs under the legacy rules
  transit tax --regime legacy`,
		RunE: runTax,
	}

	cmd.Flags().String("gross", "", "gross pay for the chosen period")
	cmd.Flags().String("period", "", "gross period: monthly or annual")
	cmd.Flags().Float64("pension", 0, "pension contribution rate in percent")
	cmd.Flags().Bool("nhf", false, "include National Housing Fund contribution")
	cmd.Flags().Float64("nhf-rate", 0, "NHF rate in percent (default: tax.nhf_rate)")
	cmd.Flags().String("rent", "", "annual rent paid")
	cmd.Flags().String("regime", "", "legacy or current (default: tax.regime)")
	cmd.Flags().Bool("save", false, "save these inputs")

	return cmd
}

func runTax(cmd *cobra.Command, _ []string) error {
	ctx := contextOf(cmd)

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	regime := settings.Regime
	if raw, _ := cmd.Flags().GetString("regime"); raw != "" {
		if regime, err = tax.ParseRegime(raw); err != nil {
			return err
		}
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	in := s.ledger.TaxInput()
	if in.NHFRate == 0 {
		in.NHFRate = settings.NHFRate
	}
	if err := applyTaxFlags(cmd, &in); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		s.ledger.SetTaxInput(in)
		if err := s.save(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Saved tax inputs"))
	}

	results := tax.Compare(tax.FromProfile(in))
	fmt.Fprint(cmd.OutOrStdout(), cli.RenderTax(regime, results))
	return nil
}

// applyTaxFlags overrides the saved form with every flag the user set.
func applyTaxFlags(cmd *cobra.Command, in *model.TaxInput) error {
	flags := cmd.Flags()

	if flags.Changed("period") {
		raw, _ := flags.GetString("period")
		switch model.GrossMode(raw) {
		case model.GrossMonthly, model.GrossAnnual:
			in.PeriodMode = model.GrossMode(raw)
		default:
			return fmt.Errorf("invalid --period %q (expected monthly or annual)", raw)
		}
	}
	if flags.Changed("gross") {
		raw, _ := flags.GetString("gross")
		gross := model.ParseCurrencyInput(raw)
		if in.PeriodMode == model.GrossAnnual {
			in.AnnualGross = gross
		} else {
			in.MonthlyGross = gross
		}
	}
	if flags.Changed("pension") {
		in.PensionRate, _ = flags.GetFloat64("pension")
	}
	if flags.Changed("nhf") {
		in.IncludeNHF, _ = flags.GetBool("nhf")
	}
	if flags.Changed("nhf-rate") {
		in.NHFRate, _ = flags.GetFloat64("nhf-rate")
	}
	if flags.Changed("rent") {
		raw, _ := flags.GetString("rent")
		in.AnnualRentPaid = model.ParseCurrencyInput(raw)
	}

	return nil
}
