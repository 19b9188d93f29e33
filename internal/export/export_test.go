package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/transit-budget/internal/common"
	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/Veraticus/transit-budget/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRoundTrip(t *testing.T) {
	taxInput := model.DefaultTaxInput()
	taxInput.MonthlyGross = 350000

	doc := testutil.NewDocument(t).
		WithIncome("2024-05-01", model.CategorySalary, 850000).
		WithExpense("2024-05-03", model.CategoryHousing, 250000.75).
		WithExpense("2024-04-28", "Pets", 4000).
		WithPlan("2024-05", map[model.Category]float64{model.CategoryFood: 80000}, true).
		WithPlan("2024-06", nil, false).
		WithCustomCategory("Pets", model.TypeExpense).
		Build()
	doc.Transactions[0].Recurring = true
	doc.Transactions[1].Notes = `said "pay by Friday"`
	doc.TaxInput = &taxInput

	plan := doc.BudgetPlans["2024-05"]
	plan.Extras = append(plan.Extras,
		model.ExtraEntry{ID: "e1", Type: model.TypeExpense, Category: model.CategoryHealth, Description: "Clinic", Amount: 12000},
		model.ExtraEntry{ID: "e2", Type: model.TypeIncome, Category: model.CategoryGift, Description: "Extra entry", Amount: 500},
	)
	doc.BudgetPlans["2024-05"] = plan

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, doc))
	assert.Contains(t, buf.String(), `"budgetPlans"`)
	assert.Contains(t, buf.String(), `"date": "2024-05-01"`)

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.Transactions, got.Transactions)
	assert.Equal(t, doc.BudgetPlans, got.BudgetPlans)
	assert.Equal(t, doc.CustomCategories, got.CustomCategories)
	assert.Equal(t, doc.TaxInput, got.TaxInput)
}

func TestReadJSON_Lenient(t *testing.T) {
	input := `{
		"version": 2,
		"transactions": [
			{"id": "a", "date": "2024-05-01", "type": "income", "amount": "150,000", "category": "Salary"},
			{"id": "b", "date": "2024-05-02T10:00:00Z", "type": "Expense", "amount": 2500, "category": "Food", "description": "  "},
			{"id": "c", "date": "not a date", "type": "expense", "amount": 10, "category": "Food"},
			{"id": "d", "date": "2024-05-02", "type": "refund", "amount": 10, "category": "Food"},
			{"id": "e", "date": "2024-05-02", "type": "expense", "amount": "abc", "category": "Food"},
			{"id": "f", "date": "2024-05-02", "type": "expense", "amount": 10},
			"garbage"
		],
		"budgetPlans": {
			"2024-05": {"income": {"Salary": "500000"}, "expense": {"Food": 70000, "Misc": null}, "locked": true,
				"extras": [{"id": "x", "type": "expense", "amount": 300}, {"id": "y", "type": "expense", "amount": 0}]},
			"May": {"income": {}},
			"2024-06": "nope"
		},
		"customCategories": [{"name": " Pets ", "type": "expense"}, {"name": "", "type": "expense"}, 5],
		"taxInput": "broken"
	}`

	doc, err := ReadJSON(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, doc.Transactions, 2)
	assert.Equal(t, 150000.0, doc.Transactions[0].Amount)
	assert.Equal(t, model.NewDate(2024, time.May, 2), doc.Transactions[1].Date)
	assert.Equal(t, model.TypeExpense, doc.Transactions[1].Type)
	assert.Equal(t, "Expense", doc.Transactions[1].Description)

	require.Len(t, doc.BudgetPlans, 1)
	plan := doc.BudgetPlans["2024-05"]
	assert.True(t, plan.Locked)
	assert.Equal(t, 500000.0, plan.Income[model.CategorySalary])
	assert.Equal(t, 0.0, plan.Expense[model.CategoryMisc])
	require.Len(t, plan.Extras, 1)
	assert.Equal(t, "x", plan.Extras[0].ID)

	assert.Equal(t, []model.CustomCategory{{Name: "Pets", Type: model.TypeExpense}}, doc.CustomCategories)
	assert.Nil(t, doc.TaxInput)
}

func TestReadJSON_AbsentTransactions(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(`{"budgetPlans": {}}`))
	require.NoError(t, err)
	assert.Nil(t, doc.Transactions, "absent key is distinguishable from an empty array")

	doc, err = ReadJSON(strings.NewReader(`{"transactions": []}`))
	require.NoError(t, err)
	assert.NotNil(t, doc.Transactions)
	assert.Empty(t, doc.Transactions)
}

func TestReadJSON_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "array", input: `[{"id": "a"}]`},
		{name: "string", input: `"hello"`},
		{name: "truncated", input: `{"transactions": [`},
		{name: "transactions not array", input: `{"transactions": {"id": "a"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, common.ErrInvalidDocument)
		})
	}
}

func TestWriteJSON_Nil(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteJSON(&buf, nil), common.ErrInvalidDocument)
}

func TestWriteCSV(t *testing.T) {
	txns := []model.Transaction{
		{
			ID:          "t1",
			Date:        model.NewDate(2024, time.May, 1),
			Type:        model.TypeIncome,
			Amount:      850000,
			Category:    model.CategorySalary,
			Description: "May salary",
			Recurring:   true,
		},
		{
			ID:          "t2",
			Date:        model.NewDate(2024, time.May, 4),
			Type:        model.TypeExpense,
			Amount:      1250.5,
			Category:    model.CategoryFood,
			Description: `Mama "Put" buka, Yaba`,
			Notes:       "line one",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txns))

	want := "id,date,type,amount,category,description,recurring,notes\n" +
		`"t1","2024-05-01","income","850000","Salary","May salary","true",""` + "\n" +
		`"t2","2024-05-04","expense","1250.5","Food","Mama ""Put"" buka, Yaba","false","line one"` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "id,date,type,amount,category,description,recurring,notes\n", buf.String())
}
