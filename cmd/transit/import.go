package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/transit-budget/internal/cli"
	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/export"
	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/Veraticus/transit-budget/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON backup or bank statements",
		Long: `Import data into the ledger. An automatic checkpoint is taken before anything
is written, so 'transit checkpoint restore' can undo an import.`,
	}

	cmd.PersistentFlags().Bool("dry-run", false, "preview the import without saving")

	cmd.AddCommand(importJSONCmd())
	cmd.AddCommand(importOFXCmd())

	return cmd
}

func importJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "json <file>",
		Short: "Import a JSON export",
		Long: `Import a file written by 'transit export json'. Transactions in the file
replace the current ones when the file has a transactions list; budget plans
are merged by month with the file winning; custom categories are added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := contextOf(cmd)
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			doc, err := export.ReadJSON(f)
			_ = f.Close()
			if err != nil {
				return common.NewUserError(filepath.Base(args[0])+" is not a transit export", err)
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			if !dryRun {
				s.autoCheckpoint(ctx, "import")
			}
			stats := s.ledger.MergeDocument(doc)

			out := cmd.OutOrStdout()
			if stats.ReplacedTxns {
				fmt.Fprintf(out, "  Transactions: %d (replaced)\n", stats.Transactions)
			} else {
				fmt.Fprintln(out, "  Transactions: unchanged")
			}
			fmt.Fprintf(out, "  Budget plans: %d\n", stats.Plans)
			fmt.Fprintf(out, "  New categories: %d\n", stats.CustomCategories)

			if dryRun {
				fmt.Fprintln(out, cli.FormatInfo("Dry run, nothing saved"))
				return nil
			}
			if err := s.save(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess("Imported "+filepath.Base(args[0])))
			return nil
		},
	}
}

func importOFXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ofx <files...>",
		Short: "Import OFX/QFX bank statements",
		Long: `Import transactions from OFX or QFX statements downloaded from your bank.

Debits become expenses in Misc and credits become income in Other (interest
lands in Interest). Re-importing an overlapping statement skips lines that
were already imported.`,
		Example: `  # Import one statement
  transit import ofx ~/Downloads/gtbank_may_2024.ofx

  # Import several
  transit import ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Import interrupted, nothing was saved")
	ctx, cleanup := handler.HandleInterrupts(contextOf(cmd))
	defer cleanup()

	parser := ofx.NewParser()
	bar := cli.NewProgress(cmd.ErrOrStderr(), len(files), "Reading statements")

	var parsed []model.Transaction
	for _, path := range files {
		if ctx.Err() != nil {
			break
		}

		txns, err := parseStatement(ctx, parser, path)
		_ = bar.Add(1)
		if err != nil {
			common.LogError(err, "Failed to parse statement", common.Fields{"file": path})
			continue
		}
		common.LogInfo("Parsed statement", common.Fields{"file": filepath.Base(path), "transactions": len(txns)})
		parsed = append(parsed, txns...)
	}
	_ = bar.Finish()

	if handler.WasInterrupted() || ctx.Err() != nil {
		return fmt.Errorf("import interrupted: %w", context.Canceled)
	}

	out := cmd.OutOrStdout()
	if len(parsed) == 0 {
		fmt.Fprintln(out, cli.FormatWarning("No transactions found"))
		return nil
	}

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	if !dryRun {
		s.autoCheckpoint(ctx, "import")
	}
	stats := s.ledger.ImportTransactions(parsed)

	fmt.Fprintf(out, "  Read: %d\n  New: %d\n  Already imported: %d\n", len(parsed), stats.Added, stats.Duplicates)
	if stats.Invalid > 0 {
		fmt.Fprintf(out, "  Skipped: %d\n", stats.Invalid)
	}

	if dryRun {
		fmt.Fprintln(out, cli.FormatInfo("Dry run, nothing saved"))
		return nil
	}
	if stats.Added == 0 {
		return nil
	}
	if err := s.save(ctx); err != nil {
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d transactions", stats.Added)))
	return nil
}

func parseStatement(ctx context.Context, parser *ofx.Parser, path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return parser.ParseFile(ctx, f)
}

// expandFiles resolves glob patterns, keeping literal paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}
