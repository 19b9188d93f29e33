// Package sheets renders budget reports as XLSX workbooks.
package sheets

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// Config controls workbook rendering.
type Config struct {
	// EnableFormatting applies header styles, column widths and number formats.
	EnableFormatting bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{EnableFormatting: true}
}

// Writer builds a workbook from a Report.
type Writer struct {
	file   *excelize.File
	logger *slog.Logger
	config Config
}

// NewWriter creates a writer holding an empty workbook.
func NewWriter(config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		file:   excelize.NewFile(),
		config: config,
		logger: logger,
	}
}

// Write lays out the Summary, Budget and Transactions tabs.
func (w *Writer) Write(report Report) error {
	w.logger.Info("starting workbook generation",
		"period", report.Label,
		"transactions", len(report.Transactions),
		"budget_rows", len(report.Budget))

	// A new file starts with Sheet1; rename it rather than leaving it empty.
	if err := w.file.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, name := range []string{BudgetSheet, TransactionsSheet} {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create %s sheet: %w", name, err)
		}
	}

	if err := w.writeSummary(report); err != nil {
		return err
	}
	if err := w.writeBudget(report.Budget); err != nil {
		return err
	}
	if err := w.writeTransactions(report.Transactions); err != nil {
		return err
	}

	if w.config.EnableFormatting {
		if err := w.applyFormatting(len(report.Budget), len(report.Transactions)); err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("workbook generation completed")
	return nil
}

func (w *Writer) writeSummary(report Report) error {
	rows := [][]any{
		{report.Title},
		{"Period", report.Label},
		{},
	}
	for _, r := range report.Summary {
		rows = append(rows, []any{r.Label, r.Value.InexactFloat64()})
	}
	return w.writeRows(SummarySheet, rows)
}

func (w *Writer) writeBudget(budget []BudgetRow) error {
	rows := make([][]any, 0, len(budget)+1)
	rows = append(rows, []any{"Section", "Category", "Planned", "Actual", "Variance", "Progress %", "Status"})
	for _, r := range budget {
		rows = append(rows, []any{
			r.Section,
			r.Category,
			r.Planned.InexactFloat64(),
			r.Actual.InexactFloat64(),
			r.Variance.InexactFloat64(),
			r.Progress.InexactFloat64(),
			r.Status,
		})
	}
	return w.writeRows(BudgetSheet, rows)
}

func (w *Writer) writeTransactions(txns []TransactionRow) error {
	rows := make([][]any, 0, len(txns)+1)
	rows = append(rows, []any{"Date", "Type", "Category", "Description", "Amount", "Recurring", "Notes"})
	for _, t := range txns {
		rows = append(rows, []any{
			t.Date,
			t.Type,
			t.Category,
			t.Description,
			t.Amount.InexactFloat64(),
			t.Recurring,
			t.Notes,
		})
	}
	return w.writeRows(TransactionsSheet, rows)
}

func (w *Writer) writeRows(sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := w.file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	w.logger.Debug("wrote sheet", "sheet", sheet, "rows", len(rows))
	return nil
}

func (w *Writer) applyFormatting(budgetRows, txnRows int) error {
	header, err := w.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"1F6F43"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	title, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return err
	}
	amountFormat := "#,##0.00"
	amount, err := w.file.NewStyle(&excelize.Style{CustomNumFmt: &amountFormat})
	if err != nil {
		return err
	}

	if err := w.file.SetCellStyle(SummarySheet, "A1", "A1", title); err != nil {
		return err
	}
	if err := w.file.SetCellStyle(SummarySheet, "B4", "B9", amount); err != nil {
		return err
	}
	if err := w.file.SetColWidth(SummarySheet, "A", "A", 20); err != nil {
		return err
	}
	if err := w.file.SetColWidth(SummarySheet, "B", "B", 18); err != nil {
		return err
	}

	if err := w.file.SetCellStyle(BudgetSheet, "A1", "G1", header); err != nil {
		return err
	}
	if budgetRows > 0 {
		if err := w.file.SetCellStyle(BudgetSheet, "C2", fmt.Sprintf("E%d", budgetRows+1), amount); err != nil {
			return err
		}
	}
	if err := w.file.SetColWidth(BudgetSheet, "B", "B", 22); err != nil {
		return err
	}
	if err := w.file.SetColWidth(BudgetSheet, "C", "E", 16); err != nil {
		return err
	}

	if err := w.file.SetCellStyle(TransactionsSheet, "A1", "G1", header); err != nil {
		return err
	}
	if txnRows > 0 {
		if err := w.file.SetCellStyle(TransactionsSheet, "E2", fmt.Sprintf("E%d", txnRows+1), amount); err != nil {
			return err
		}
	}
	if err := w.file.SetColWidth(TransactionsSheet, "A", "A", 12); err != nil {
		return err
	}
	if err := w.file.SetColWidth(TransactionsSheet, "C", "D", 24); err != nil {
		return err
	}
	return w.file.SetColWidth(TransactionsSheet, "E", "E", 16)
}

// SaveAs writes the workbook to path.
func (w *Writer) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// WriteTo writes the workbook to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	n, err := w.file.WriteTo(out)
	if err != nil {
		return n, fmt.Errorf("failed to write workbook: %w", err)
	}
	return n, nil
}

// Close releases the workbook's resources.
func (w *Writer) Close() error {
	return w.file.Close()
}
