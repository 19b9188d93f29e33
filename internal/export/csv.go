package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/transit-budget/internal/model"
)

// CSVHeader is the fixed column order of the transaction export.
var CSVHeader = []string{"id", "date", "type", "amount", "category", "description", "recurring", "notes"}

// WriteCSV writes a bare header line and then one row per transaction.
// Every value is quoted and embedded quotes are doubled; rows end with a
// bare newline.
func WriteCSV(w io.Writer, transactions []model.Transaction) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(CSVHeader, ",") + "\n"); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	for _, txn := range transactions {
		row := []string{
			txn.ID,
			txn.Date.String(),
			string(txn.Type),
			model.FormatAmount(txn.Amount),
			string(txn.Category),
			txn.Description,
			strconv.FormatBool(txn.Recurring),
			txn.Notes,
		}
		if err := writeCSVRow(bw, row); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeCSVRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return fmt.Errorf("failed to write csv: %w", err)
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
	}
	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}
