package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transit-budget/internal/cli"
	"github.com/Veraticus/transit-budget/internal/export"
	"github.com/Veraticus/transit-budget/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as JSON, CSV or an Excel workbook",
		Example: `  # Full backup that 'transit import json' can read back
  transit export json -o ledger.json

  # Every transaction as CSV on stdout
  transit export csv

  # Workbook for this year
  transit export xlsx --scope yearly -o 2024.xlsx`,
	}

	cmd.PersistentFlags().StringP("output", "o", "", "output file (default: stdout)")

	cmd.AddCommand(exportJSONCmd())
	cmd.AddCommand(exportCSVCmd())
	cmd.AddCommand(exportXLSXCmd())

	return cmd
}

func exportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "json",
		Short: "Export the whole ledger as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(contextOf(cmd))
			if err != nil {
				return err
			}
			defer s.close()

			return writeOutput(cmd, func(w io.Writer) error {
				return export.WriteJSON(w, s.ledger.Document())
			})
		},
	}
}

func exportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "csv",
		Short: "Export every transaction as CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(contextOf(cmd))
			if err != nil {
				return err
			}
			defer s.close()

			return writeOutput(cmd, func(w io.Writer) error {
				return export.WriteCSV(w, s.ledger.Transactions())
			})
		},
	}
}

func exportXLSXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Export a report workbook",
		Long: `Write an Excel workbook with Summary, Budget and Transactions sheets for
the selected period.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("output")
			if path == "" {
				return fmt.Errorf("xlsx export needs --output")
			}

			req, err := reportRequest(cmd)
			if err != nil {
				return err
			}

			s, err := openSession(contextOf(cmd))
			if err != nil {
				return err
			}
			defer s.close()

			view := s.ledger.View(req)
			report := sheets.BuildReport(s.ledger.Transactions(), view.Aggregate)

			noFormat, _ := cmd.Flags().GetBool("no-format")
			writer := sheets.NewWriter(sheets.Config{EnableFormatting: !noFormat}, slog.Default())
			defer func() { _ = writer.Close() }()

			if err := writer.Write(report); err != nil {
				return err
			}
			if err := writer.SaveAs(path); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Wrote %s (%s, %d transactions)",
				path, report.Label, len(report.Transactions))))
			return nil
		},
	}

	addReportFlags(cmd)
	cmd.Flags().Bool("no-format", false, "skip cell styling")

	return cmd
}

// writeOutput sends write's output to --output, or stdout when unset.
func writeOutput(cmd *cobra.Command, write func(io.Writer) error) error {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	slog.Info("Export written", "path", path)
	return nil
}
