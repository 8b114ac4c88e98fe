package main

import (
	"fmt"

	"github.com/Veraticus/deckstat/internal/analysis"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List imported decks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return runList(cmd, filter, limit)
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().Int("limit", 0, "maximum decks to list (0 = all)")
	return cmd
}

func runList(cmd *cobra.Command, f filterFlags, limit int) error {
	filter, err := f.build()
	if err != nil {
		return err
	}
	filter.Limit = limit

	return withStorage(cmd.Context(), func(store service.Storage) error {
		decks, err := store.ListDecks(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to list decks: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(decks) == 0 {
			return writeLine(out, "No decks match "+f.scope()+".")
		}
		if err := writeLine(out, analysis.NewCLIFormatter().FormatDecks(decks)); err != nil {
			return err
		}
		return writeLine(out, fmt.Sprintf("%d deck(s)", len(decks)))
	})
}
