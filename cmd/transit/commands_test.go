package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/Veraticus/transit-budget/internal/storage"
)

var commandToday = model.NewDate(2024, time.May, 20)

// setupCommandTest points every command at a fresh database file and pins
// the calendar.
func setupCommandTest(t *testing.T) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "transit.db")
	viper.Reset()
	viper.Set("database.path", dbPath)

	prev := today
	today = func() model.Date { return commandToday }

	t.Cleanup(func() {
		viper.Reset()
		today = prev
	})

	return dbPath
}

// execute runs a fresh command tree with args and returns its output.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func loadStored(t *testing.T, dbPath string) *model.Document {
	t.Helper()

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	doc, err := store.LoadDocument(context.Background())
	require.NoError(t, err)
	return doc
}

func TestTxCommands(t *testing.T) {
	dbPath := setupCommandTest(t)

	out, err := execute(t, txCmd(), "", "add", "expense", "25,000", "--category", "food", "--date", "2024-05-03", "-d", "Groceries")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded expense of ₦25,000.00 in Food on 2024-05-03")

	_, err = execute(t, txCmd(), "", "add", "income", "850000", "--category", "Salary", "--recurring")
	require.NoError(t, err)

	doc := loadStored(t, dbPath)
	require.Len(t, doc.Transactions, 2)
	salary := doc.Transactions[0]
	assert.Equal(t, commandToday, salary.Date, "undated transactions are dated today")
	assert.Equal(t, "Income", salary.Description)
	assert.True(t, salary.Recurring)

	out, err = execute(t, txCmd(), "", "list", "--month", "2024-05", "--type", "expense")
	require.NoError(t, err)
	assert.Contains(t, out, "Transactions in May 2024")
	assert.Contains(t, out, "Groceries")
	assert.NotContains(t, out, "Salary")

	groceries := doc.Transactions[1]
	_, err = execute(t, txCmd(), "", "delete", groceries.ID)
	require.NoError(t, err)

	_, err = execute(t, txCmd(), "", "delete", groceries.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.Len(t, loadStored(t, dbPath).Transactions, 1)
}

func TestTxAdd_Rejected(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		args    []string
	}{
		{name: "zero amount", args: []string{"add", "expense", "0"}, wantErr: model.ErrInvalidAmount},
		{name: "unknown type", args: []string{"add", "transfer", "500"}, wantErr: model.ErrInvalidType},
		{name: "unknown category", args: []string{"add", "expense", "500", "--category", "Yachts"}},
		{name: "bad date", args: []string{"add", "expense", "500", "--date", "03/05/2024"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dbPath := setupCommandTest(t)

			_, err := execute(t, txCmd(), "", tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			if _, statErr := os.Stat(dbPath); statErr == nil {
				assert.Empty(t, loadStored(t, dbPath).Transactions)
			}
		})
	}
}

func TestTxClear_Confirmation(t *testing.T) {
	dbPath := setupCommandTest(t)

	_, err := execute(t, txCmd(), "", "add", "expense", "1000")
	require.NoError(t, err)

	out, err := execute(t, txCmd(), "n\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing deleted")
	assert.Len(t, loadStored(t, dbPath).Transactions, 1)

	out, err = execute(t, txCmd(), "y\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 transactions")
	assert.Empty(t, loadStored(t, dbPath).Transactions)
}

func TestCategoriesCommands(t *testing.T) {
	dbPath := setupCommandTest(t)

	_, err := execute(t, categoriesCmd(), "", "add", "expense", "Pets")
	require.NoError(t, err)

	_, err = execute(t, categoriesCmd(), "", "add", "expense", "pets")
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	_, err = execute(t, categoriesCmd(), "", "add", "expense", "FOOD")
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	out, err := execute(t, categoriesCmd(), "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Pets (custom)")
	assert.Contains(t, out, "Salary")

	_, err = execute(t, txCmd(), "", "add", "expense", "9000", "--category", "pets")
	require.NoError(t, err)

	_, err = execute(t, categoriesCmd(), "", "delete", "expense", "Pets")
	assert.ErrorIs(t, err, common.ErrCategoryInUse)

	_, err = execute(t, categoriesCmd(), "", "delete", "expense", "Food")
	require.Error(t, err)

	_, err = execute(t, txCmd(), "", "clear", "--yes")
	require.NoError(t, err)

	_, err = execute(t, categoriesCmd(), "", "delete", "expense", "Pets")
	require.NoError(t, err)
	assert.Empty(t, loadStored(t, dbPath).CustomCategories)
}

func TestBudgetCommands(t *testing.T) {
	dbPath := setupCommandTest(t)
	month := model.MonthKey("2024-05")

	out, err := execute(t, budgetCmd(), "", "set", "expense", "food", "80,000", "--month", "2024-05")
	require.NoError(t, err)
	assert.Contains(t, out, "Planned ₦80,000 for Food in May 2024")

	_, err = execute(t, budgetCmd(), "", "set", "expense", "Yachts", "1", "--month", "2024-05")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = execute(t, budgetCmd(), "", "extra", "add", "expense", "15000", "--month", "2024-05")
	assert.ErrorIs(t, err, common.ErrPlanUnlocked)

	out, err = execute(t, budgetCmd(), "", "lock", "--month", "2024-05")
	require.NoError(t, err)
	assert.Contains(t, out, "Locked plan for May 2024")

	_, err = execute(t, budgetCmd(), "", "set", "expense", "Food", "1", "--month", "2024-05")
	assert.ErrorIs(t, err, common.ErrPlanLocked)

	_, err = execute(t, budgetCmd(), "", "extra", "add", "expense", "15000", "-d", "Wedding gift", "-c", "Family", "--month", "2024-05")
	require.NoError(t, err)

	plan := loadStored(t, dbPath).BudgetPlans[month]
	assert.True(t, plan.Locked)
	assert.InDelta(t, 80000, plan.Expense[model.CategoryFood], 0.001)
	require.Len(t, plan.Extras, 1)
	assert.Equal(t, "Wedding gift", plan.Extras[0].Description)
	assert.Equal(t, model.CategoryFamily, plan.Extras[0].Category)

	out, err = execute(t, budgetCmd(), "", "show", "--month", "2024-05")
	require.NoError(t, err)
	assert.Contains(t, out, "Wedding gift")

	_, err = execute(t, budgetCmd(), "", "extra", "remove", plan.Extras[0].ID, "--month", "2024-05")
	require.NoError(t, err)
	_, err = execute(t, budgetCmd(), "", "extra", "remove", plan.Extras[0].ID, "--month", "2024-05")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = execute(t, budgetCmd(), "", "defaults", "--month", "2024-05")
	assert.ErrorIs(t, err, common.ErrPlanLocked)

	_, err = execute(t, budgetCmd(), "", "lock", "--month", "2024-05")
	require.NoError(t, err)
	_, err = execute(t, budgetCmd(), "", "defaults", "--month", "2024-05")
	require.NoError(t, err)

	plan = loadStored(t, dbPath).BudgetPlans[month]
	assert.False(t, plan.Locked)
	assert.InDelta(t, 80000, plan.Expense[model.CategoryFood], 0.001, "existing amounts are kept")
	assert.InDelta(t, model.DefaultBudgets[model.CategoryHousing], plan.Expense[model.CategoryHousing], 0.001)

	_, err = execute(t, budgetCmd(), "", "reset", "--yes")
	require.NoError(t, err)
	assert.Empty(t, loadStored(t, dbPath).BudgetPlans)
}

func TestReportCommand(t *testing.T) {
	setupCommandTest(t)

	_, err := execute(t, txCmd(), "", "add", "income", "500000", "--category", "Salary", "--date", "2024-04-25")
	require.NoError(t, err)
	_, err = execute(t, txCmd(), "", "add", "expense", "40000", "--category", "Food", "--date", "2024-05-02")
	require.NoError(t, err)

	out, err := execute(t, reportCmd(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "May 2024")
	assert.Contains(t, out, "No budget plan for this period.")

	out, err = execute(t, reportCmd(), "", "--scope", "quarterly")
	require.NoError(t, err)
	assert.Contains(t, out, "Q2 2024")
	assert.Contains(t, out, "₦500,000")

	_, err = execute(t, reportCmd(), "", "--scope", "weekly")
	require.Error(t, err)
}

func TestTaxCommand(t *testing.T) {
	dbPath := setupCommandTest(t)

	out, err := execute(t, taxCmd(), "", "--gross", "850,000", "--pension", "8", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved tax inputs")
	assert.Contains(t, out, "PAYE estimate (current rules)")
	assert.Contains(t, out, "Under legacy rules")

	saved := loadStored(t, dbPath).TaxInput
	require.NotNil(t, saved)
	assert.Equal(t, model.GrossMonthly, saved.PeriodMode)
	assert.InDelta(t, 850000, saved.MonthlyGross, 0.001)
	assert.InDelta(t, 8, saved.PensionRate, 0.001)
	assert.InDelta(t, model.DefaultNHFRate, saved.NHFRate, 0.001)

	out, err = execute(t, taxCmd(), "", "--regime", "legacy")
	require.NoError(t, err)
	assert.Contains(t, out, "PAYE estimate (legacy rules)")
	assert.Contains(t, out, "Consolidated relief")

	_, err = execute(t, taxCmd(), "", "--period", "weekly")
	require.Error(t, err)
}

func TestExportImportJSON(t *testing.T) {
	setupCommandTest(t)

	_, err := execute(t, txCmd(), "", "add", "expense", "25000", "--category", "Food", "--date", "2024-05-03")
	require.NoError(t, err)
	_, err = execute(t, budgetCmd(), "", "set", "expense", "Food", "80000", "--month", "2024-05")
	require.NoError(t, err)
	_, err = execute(t, categoriesCmd(), "", "add", "income", "Rental")
	require.NoError(t, err)

	exported := filepath.Join(t.TempDir(), "ledger.json")
	_, err = execute(t, exportCmd(), "", "json", "-o", exported)
	require.NoError(t, err)

	// Import into a second, empty database.
	otherDB := setupCommandTest(t)
	out, err := execute(t, importCmd(), "", "json", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "Transactions: 1 (replaced)")

	doc := loadStored(t, otherDB)
	require.Len(t, doc.Transactions, 1)
	assert.Equal(t, model.CategoryFood, doc.Transactions[0].Category)
	assert.InDelta(t, 80000, doc.BudgetPlans["2024-05"].Expense[model.CategoryFood], 0.001)
	require.Len(t, doc.CustomCategories, 1)
	assert.Equal(t, model.Category("Rental"), doc.CustomCategories[0].Name)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[1, 2, 3]`), 0o600))
	_, err = execute(t, importCmd(), "", "json", bad)
	assert.ErrorIs(t, err, common.ErrInvalidDocument)
}

func TestExportCSV(t *testing.T) {
	setupCommandTest(t)

	_, err := execute(t, txCmd(), "", "add", "expense", "1500.5", "--category", "Transport", "--date", "2024-05-03", "-d", "Danfo")
	require.NoError(t, err)

	out, err := execute(t, exportCmd(), "", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,date,type,amount,category,description,recurring,notes", lines[0])
	assert.Contains(t, lines[1], `"2024-05-03","expense","1500.5","Transport","Danfo","false",""`)
}

func TestExportXLSX(t *testing.T) {
	setupCommandTest(t)

	_, err := execute(t, txCmd(), "", "add", "expense", "40000", "--category", "Food", "--date", "2024-05-02")
	require.NoError(t, err)

	_, err = execute(t, exportCmd(), "", "xlsx")
	require.Error(t, err, "workbooks need an output path")

	path := filepath.Join(t.TempDir(), "report.xlsx")
	out, err := execute(t, exportCmd(), "", "xlsx", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "May 2024, 1 transactions")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Summary", "Budget", "Transactions"}, f.GetSheetList())
}

const commandTestOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240531120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>NGN
<BANKACCTFROM>
<BANKID>058
<ACCTID>0123456789
<ACCTTYPE>SAVINGS
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240501120000[0:GMT]
<DTEND>20240531120000[0:GMT]
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240525120000[0:GMT]
<TRNAMT>850000.00
<FITID>2024052501
<NAME>SALARY MAY ACME LTD
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240515120000[0:GMT]
<TRNAMT>-12500.50
<FITID>2024051501
<NAME>POS PURCHASE SHOPRITE LEKKI
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240531120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestImportOFX(t *testing.T) {
	dbPath := setupCommandTest(t)

	statement := filepath.Join(t.TempDir(), "may.ofx")
	require.NoError(t, os.WriteFile(statement, []byte(commandTestOFX), 0o600))

	out, err := execute(t, importCmd(), "", "ofx", "--dry-run", statement)
	require.NoError(t, err)
	assert.Contains(t, out, "New: 2")
	assert.Contains(t, out, "Dry run, nothing saved")
	assert.Empty(t, loadStored(t, dbPath).Transactions)

	out, err = execute(t, importCmd(), "", "ofx", statement)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 transactions")

	out, err = execute(t, importCmd(), "", "ofx", statement)
	require.NoError(t, err)
	assert.Contains(t, out, "Already imported: 2")

	doc := loadStored(t, dbPath)
	require.Len(t, doc.Transactions, 2)
	assert.Equal(t, "ofx-2024052501", doc.Transactions[0].ID)
	assert.Equal(t, model.CategoryOther, doc.Transactions[0].Category)
	assert.Equal(t, model.CategoryMisc, doc.Transactions[1].Category)

	_, err = execute(t, importCmd(), "", "ofx", filepath.Join(t.TempDir(), "missing-*.ofx"))
	require.Error(t, err)
}

func TestSeedCommand(t *testing.T) {
	dbPath := setupCommandTest(t)

	out, err := execute(t, seedCmd(), "", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 10 sample transactions for May 2024")
	assert.Contains(t, out, "Created empty plans for January to March 2024")

	doc := loadStored(t, dbPath)
	assert.Len(t, doc.Transactions, 10)
	assert.Len(t, doc.BudgetPlans, 3)
	for _, txn := range doc.Transactions {
		assert.Equal(t, model.MonthKey("2024-05"), txn.MonthKey())
	}

	out, err = execute(t, seedCmd(), "", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "Created empty plans")
}

func TestCheckpointCommands(t *testing.T) {
	setupCommandTest(t)

	_, err := execute(t, txCmd(), "", "add", "expense", "1000")
	require.NoError(t, err)

	out, err := execute(t, checkpointCmd(), "", "create", "--tag", "before-test", "-d", "first")
	require.NoError(t, err)
	assert.Contains(t, out, "Created checkpoint before-test")

	_, err = execute(t, txCmd(), "", "clear", "--yes")
	require.NoError(t, err)

	out, err = execute(t, checkpointCmd(), "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "before-test")
	assert.Contains(t, out, "auto")

	_, err = execute(t, checkpointCmd(), "", "restore", "before-test", "--yes")
	require.NoError(t, err)

	out, err = execute(t, txCmd(), "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Expense")

	_, err = execute(t, checkpointCmd(), "", "delete", "before-test", "--yes")
	require.NoError(t, err)
	_, err = execute(t, checkpointCmd(), "", "delete", "before-test", "--yes")
	assert.ErrorIs(t, err, storage.ErrCheckpointNotFound)
}

func TestMigrateCommand(t *testing.T) {
	setupCommandTest(t)

	out, err := execute(t, migrateCmd(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "schema version 3")

	out, err = execute(t, migrateCmd(), "", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Current version: 3")
	assert.Contains(t, out, "Latest version: 3")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, versionCmd(), "")
	require.NoError(t, err)
	assert.Equal(t, "transit dev\n", out)
}
