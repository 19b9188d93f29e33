package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/transit-budget/internal/tui"
	"github.com/Veraticus/transit-budget/internal/tui/themes"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Long: `Browse months and scopes interactively.

Keys: ←/→ change month, s cycles the scope, t cycles the transaction type
filter, Tab shows the month's transactions, ? toggles help, q quits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := contextOf(cmd)

			settings, err := loadSettings()
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return tui.Run(ctx,
				tui.WithStorage(store),
				tui.WithTheme(themes.ByName(settings.Theme)),
				tui.WithToday(today()),
				tui.WithScope(settings.Scope),
				tui.WithTopN(settings.TopCategories),
			)
		},
	}
}
