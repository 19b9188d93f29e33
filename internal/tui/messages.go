package tui

import "github.com/Veraticus/transit-budget/internal/model"

// documentLoadedMsg carries the ledger read from storage.
type documentLoadedMsg struct {
	doc *model.Document
	err error
}
