// Package tui provides the interactive budget dashboard.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/transit-budget/internal/analysis"
	"github.com/Veraticus/transit-budget/internal/engine"
	"github.com/Veraticus/transit-budget/internal/model"
)

// Model is the main TUI model.
type Model struct {
	err      error
	doc      *model.Document
	keymap   KeyMap
	help     help.Model
	config   Config
	view     engine.View
	anchor   model.MonthKey
	scope    analysis.Scope
	filter   analysis.Filter
	width    int
	height   int
	ready    bool
	showList bool
	quitting bool
}

// New creates a dashboard model.
func New(opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Today.IsZero() {
		cfg.Today = model.Today()
	}

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		config: cfg,
		keymap: DefaultKeyMap(),
		help:   h,
		anchor: cfg.Today.MonthKey(),
		scope:  cfg.Scope,
		width:  cfg.Width,
		height: cfg.Height,
	}

	if cfg.Document != nil {
		m.doc = cfg.Document
		m.ready = true
		m.recompute()
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.ready {
		return nil
	}
	return m.loadDocument()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case documentLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.doc = msg.doc
		m.ready = true
		m.recompute()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.ToggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		if m.config.Storage == nil {
			return m, nil
		}
		return m, m.loadDocument()
	}

	if !m.ready {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.PrevMonth):
		m.anchor = m.anchor.Shift(-1)
	case key.Matches(msg, m.keymap.NextMonth):
		m.anchor = m.anchor.Shift(1)
	case key.Matches(msg, m.keymap.ThisMonth):
		m.anchor = m.config.Today.MonthKey()
	case key.Matches(msg, m.keymap.CycleScope):
		m.scope = m.scope.Next()
	case key.Matches(msg, m.keymap.CycleFilter):
		m.filter.Type = nextTypeFilter(m.filter.Type)
	case key.Matches(msg, m.keymap.ToggleList):
		m.showList = !m.showList
		return m, nil
	default:
		return m, nil
	}

	m.recompute()
	return m, nil
}

// recompute rebuilds the derived view after any state change.
func (m *Model) recompute() {
	m.view = engine.Recompute(m.doc, engine.Request{
		Today:  m.config.Today,
		Scope:  m.scope,
		Anchor: m.anchor,
		Filter: m.filter,
		TopN:   m.config.TopN,
	})
}

// nextTypeFilter cycles all, income, expense.
func nextTypeFilter(t model.TransactionType) model.TransactionType {
	switch t {
	case "":
		return model.TypeIncome
	case model.TypeIncome:
		return model.TypeExpense
	default:
		return ""
	}
}
