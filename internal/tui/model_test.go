package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/transit-budget/internal/analysis"
	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/Veraticus/transit-budget/internal/testutil"
	"github.com/Veraticus/transit-budget/internal/tui/themes"
)

var testToday = model.NewDate(2024, time.May, 20)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testDocument(t *testing.T) *model.Document {
	t.Helper()
	return testutil.NewDocument(t).
		WithIncome("2024-05-01", model.CategorySalary, 850000).
		WithExpense("2024-05-03", model.CategoryFood, 55000).
		WithExpense("2024-04-10", model.CategoryTransport, 20000).
		Build()
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	return New(
		WithDocument(testDocument(t)),
		WithToday(testToday),
		WithTheme(themes.Mono),
		WithSize(120, 50),
	)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestNew_WithDocument(t *testing.T) {
	m := newTestModel(t)

	assert.True(t, m.ready)
	assert.Nil(t, m.Init())
	assert.Equal(t, model.MonthKey("2024-05"), m.anchor)
	assert.Equal(t, analysis.ScopeMonthly, m.scope)
	assert.Equal(t, 2, m.view.Aggregate.TransactionCount)
	assert.InDelta(t, 850000, m.view.Aggregate.TotalActualIncome, 0.001)
}

func TestModel_Navigation(t *testing.T) {
	tests := []struct {
		name       string
		keys       []tea.KeyMsg
		wantAnchor model.MonthKey
		wantScope  analysis.Scope
		wantType   model.TransactionType
		wantCount  int
	}{
		{
			name:       "previous month",
			keys:       []tea.KeyMsg{{Type: tea.KeyLeft}},
			wantAnchor: "2024-04",
			wantScope:  analysis.ScopeMonthly,
			wantCount:  1,
		},
		{
			name:       "next then back to this month",
			keys:       []tea.KeyMsg{runeKey("l"), runeKey("l"), runeKey("g")},
			wantAnchor: "2024-05",
			wantScope:  analysis.ScopeMonthly,
			wantCount:  2,
		},
		{
			name:       "quarter scope",
			keys:       []tea.KeyMsg{runeKey("s")},
			wantAnchor: "2024-05",
			wantScope:  analysis.ScopeQuarterly,
			wantCount:  3,
		},
		{
			name:       "scope wraps around",
			keys:       []tea.KeyMsg{runeKey("s"), runeKey("s"), runeKey("s"), runeKey("s")},
			wantAnchor: "2024-05",
			wantScope:  analysis.ScopeMonthly,
			wantCount:  2,
		},
		{
			name:       "expense filter",
			keys:       []tea.KeyMsg{runeKey("t"), runeKey("t")},
			wantAnchor: "2024-05",
			wantScope:  analysis.ScopeMonthly,
			wantType:   model.TypeExpense,
			wantCount:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			for _, k := range tt.keys {
				m, _ = update(t, m, k)
			}

			assert.Equal(t, tt.wantAnchor, m.anchor)
			assert.Equal(t, tt.wantScope, m.scope)
			assert.Equal(t, tt.wantType, m.filter.Type)
			assert.Equal(t, tt.wantCount, m.view.Aggregate.TransactionCount)
		})
	}
}

func TestModel_TypeFilterNarrowsList(t *testing.T) {
	m := newTestModel(t)
	require.Len(t, m.view.Transactions, 2)

	m, _ = update(t, m, runeKey("t"))
	require.Len(t, m.view.Transactions, 1)
	assert.Equal(t, model.TypeIncome, m.view.Transactions[0].Type)

	m, _ = update(t, m, runeKey("t"))
	require.Len(t, m.view.Transactions, 1)
	assert.Equal(t, model.TypeExpense, m.view.Transactions[0].Type)

	m, _ = update(t, m, runeKey("t"))
	assert.Len(t, m.view.Transactions, 2)
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runeKey("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		t.Run(k.String(), func(t *testing.T) {
			m, cmd := update(t, newTestModel(t), k)
			require.NotNil(t, cmd)
			assert.True(t, m.quitting)
			assert.Equal(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, m.View())
		})
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)

	out := m.View()
	assert.Contains(t, out, "Transit Budget")
	assert.Contains(t, out, "May 2024")
	assert.Contains(t, out, "no plan")
	assert.NotContains(t, out, "id txn-001")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	out = m.View()
	assert.Contains(t, out, "Transactions in May 2024 (all)")
	assert.Contains(t, out, "id txn-001")
	assert.NotContains(t, out, "id txn-003")
}

func TestModel_LoadFromStorage(t *testing.T) {
	db := testutil.SetupTestDB(t, testDocument(t))

	m := New(WithStorage(db.Storage), WithToday(testToday), WithTheme(themes.Mono))
	assert.False(t, m.ready)
	assert.Contains(t, m.View(), "Loading")

	// Navigation is ignored until the ledger arrives.
	m, _ = update(t, m, runeKey("h"))
	assert.Equal(t, model.MonthKey("2024-05"), m.anchor)

	cmd := m.Init()
	require.NotNil(t, cmd)
	msg := cmd()
	loaded, ok := msg.(documentLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)

	m, _ = update(t, m, msg)
	assert.True(t, m.ready)
	assert.Equal(t, 2, m.view.Aggregate.TransactionCount)

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.NotNil(t, cmd)
}

func TestModel_LoadError(t *testing.T) {
	m := New(WithToday(testToday), WithTheme(themes.Mono))

	msg := m.Init()()
	loaded, ok := msg.(documentLoadedMsg)
	require.True(t, ok)
	assert.Error(t, loaded.err)

	m, _ = update(t, m, documentLoadedMsg{err: errors.New("database is locked")})
	assert.False(t, m.ready)
	assert.Contains(t, m.View(), "Error: database is locked")
}

func TestModel_WindowSizeAndHelp(t *testing.T) {
	m := newTestModel(t)

	assert.False(t, m.help.ShowAll)
	m, _ = update(t, m, runeKey("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "force quit")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 90, Height: 30})
	assert.Equal(t, 90, m.width)
	assert.Equal(t, 30, m.height)
	assert.Equal(t, 90, m.help.Width)
}

func TestKeyMap_Help(t *testing.T) {
	km := DefaultKeyMap()
	assert.Len(t, km.ShortHelp(), 5)

	total := 0
	for _, group := range km.FullHelp() {
		total += len(group)
	}
	assert.Equal(t, 10, total)
}
