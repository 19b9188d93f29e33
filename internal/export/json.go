// Package export reads and writes the portable ledger formats: the JSON
// document used for backup and import, and a flat CSV of transactions.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/model"
)

// WriteJSON writes doc as an indented JSON document.
func WriteJSON(w io.Writer, doc *model.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", common.ErrInvalidDocument)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// rawDocument mirrors model.Document with every section left undecoded so
// that one malformed record does not reject the whole file.
type rawDocument struct {
	Transactions     json.RawMessage            `json:"transactions"`
	BudgetPlans      map[string]json.RawMessage `json:"budgetPlans"`
	CustomCategories []json.RawMessage          `json:"customCategories"`
	TaxInput         json.RawMessage            `json:"taxInput"`
}

type rawTransaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Notes       string          `json:"notes"`
	Amount      json.RawMessage `json:"amount"`
	Recurring   bool            `json:"recurring"`
}

type rawPlan struct {
	Income  map[string]json.RawMessage `json:"income"`
	Expense map[string]json.RawMessage `json:"expense"`
	Extras  []json.RawMessage          `json:"extras"`
	Locked  bool                       `json:"locked"`
}

type rawExtra struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
}

// ReadJSON parses a ledger document. Unknown keys are ignored and records
// that do not have the expected shape are skipped. Transactions is nil when
// the document has no transactions key, so callers can tell "absent" from
// "empty".
func ReadJSON(r io.Reader) (*model.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", common.ErrInvalidDocument)
	}

	var raw rawDocument
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidDocument, err)
	}

	doc := &model.Document{BudgetPlans: model.BudgetPlans{}}

	if len(raw.Transactions) > 0 && !isNull(raw.Transactions) {
		var records []json.RawMessage
		if err := json.Unmarshal(raw.Transactions, &records); err != nil {
			return nil, fmt.Errorf("%w: transactions must be an array", common.ErrInvalidDocument)
		}
		doc.Transactions = make([]model.Transaction, 0, len(records))
		for i, rec := range records {
			txn, ok := decodeTransaction(rec)
			if !ok {
				slog.Debug("skipping malformed transaction", "index", i)
				continue
			}
			doc.Transactions = append(doc.Transactions, txn)
		}
	}

	for key, rec := range raw.BudgetPlans {
		month, err := model.ParseMonthKey(key)
		if err != nil {
			slog.Debug("skipping plan with invalid month", "month", key)
			continue
		}
		plan, ok := decodePlan(rec)
		if !ok {
			slog.Debug("skipping malformed plan", "month", key)
			continue
		}
		doc.BudgetPlans[month] = plan
	}

	for _, rec := range raw.CustomCategories {
		var c model.CustomCategory
		if err := json.Unmarshal(rec, &c); err != nil {
			continue
		}
		c.Name = model.Category(strings.TrimSpace(string(c.Name)))
		if c.Name == "" || !c.Type.Valid() {
			continue
		}
		doc.CustomCategories = append(doc.CustomCategories, c)
	}

	if len(raw.TaxInput) > 0 && !isNull(raw.TaxInput) {
		input := model.DefaultTaxInput()
		if err := json.Unmarshal(raw.TaxInput, &input); err == nil {
			doc.TaxInput = &input
		} else {
			slog.Debug("ignoring malformed tax input", "error", err)
		}
	}

	return doc, nil
}

func decodeTransaction(rec json.RawMessage) (model.Transaction, bool) {
	var rt rawTransaction
	if err := json.Unmarshal(rec, &rt); err != nil {
		return model.Transaction{}, false
	}

	date, err := model.ParseDate(rt.Date)
	if err != nil {
		return model.Transaction{}, false
	}
	typ, err := model.ParseTransactionType(rt.Type)
	if err != nil {
		return model.Transaction{}, false
	}

	txn, err := model.NewTransaction(strings.TrimSpace(rt.ID), model.TransactionDraft{
		Date:        date,
		Type:        typ,
		Category:    model.Category(rt.Category),
		Description: rt.Description,
		Notes:       rt.Notes,
		Amount:      decodeAmount(rt.Amount),
		Recurring:   rt.Recurring,
	})
	if err != nil || txn.Category == "" {
		return model.Transaction{}, false
	}
	return txn, true
}

func decodePlan(rec json.RawMessage) (model.MonthBudgetPlan, bool) {
	var rp rawPlan
	if err := json.Unmarshal(rec, &rp); err != nil {
		return model.MonthBudgetPlan{}, false
	}

	plan := model.MonthBudgetPlan{
		Income:  decodeAmounts(rp.Income),
		Expense: decodeAmounts(rp.Expense),
		Extras:  make([]model.ExtraEntry, 0, len(rp.Extras)),
		Locked:  rp.Locked,
	}

	for _, raw := range rp.Extras {
		var re rawExtra
		if err := json.Unmarshal(raw, &re); err != nil {
			continue
		}
		typ, err := model.ParseTransactionType(re.Type)
		if err != nil || re.ID == "" {
			continue
		}
		amount := decodeAmount(re.Amount)
		if !(amount > 0) {
			continue
		}
		plan.Extras = append(plan.Extras, model.ExtraEntry{
			ID:          re.ID,
			Type:        typ,
			Category:    model.Category(re.Category),
			Description: re.Description,
			Amount:      amount,
		})
	}
	return plan, true
}

func decodeAmounts(raw map[string]json.RawMessage) model.CategoryAmounts {
	out := make(model.CategoryAmounts, len(raw))
	for k, v := range raw {
		out[model.Category(k)] = decodeAmount(v)
	}
	return out
}

// decodeAmount accepts a JSON number or a string and degrades to 0 for
// anything else.
func decodeAmount(raw json.RawMessage) float64 {
	if len(raw) == 0 || isNull(raw) {
		return 0
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return model.ParseCurrencyInput(s)
	}
	return 0
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
