package main

import (
	"fmt"

	"github.com/Veraticus/deckstat/internal/analysis"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show deck and card totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStorage(cmd.Context(), func(store service.Storage) error {
				summary, err := store.GetSummary(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to summarize decks: %w", err)
				}
				return writeLine(cmd.OutOrStdout(), analysis.NewCLIFormatter().FormatSummary(summary))
			})
		},
	}
}
