package tui

import (
	"github.com/Veraticus/transit-budget/internal/analysis"
	"github.com/Veraticus/transit-budget/internal/model"
	"github.com/Veraticus/transit-budget/internal/service"
	"github.com/Veraticus/transit-budget/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme    themes.Theme
	Storage  service.Storage
	Document *model.Document
	Today    model.Date
	Scope    analysis.Scope
	TopN     int
	Width    int
	Height   int
	ShowHelp bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:  themes.Default,
		Scope:  analysis.ScopeMonthly,
		TopN:   analysis.DefaultTopN,
		Width:  100,
		Height: 40,
	}
}

// WithStorage loads the ledger from storage on start and on refresh.
func WithStorage(storage service.Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

// WithDocument shows a fixed document instead of loading from storage.
func WithDocument(doc *model.Document) Option {
	return func(c *Config) {
		c.Document = doc
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithToday pins the current date, which anchors the first view.
func WithToday(today model.Date) Option {
	return func(c *Config) {
		c.Today = today
	}
}

// WithScope sets the initial aggregation scope.
func WithScope(scope analysis.Scope) Option {
	return func(c *Config) {
		c.Scope = scope
	}
}

// WithTopN bounds the category breakdown.
func WithTopN(n int) Option {
	return func(c *Config) {
		c.TopN = n
	}
}
