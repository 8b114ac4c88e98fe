package main

import (
	"fmt"

	"github.com/Veraticus/deckstat/internal/cli"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
)

func unresolvedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unresolved",
		Short: "List card names that could not be resolved",
		Long: `List the card names an import could not match to the catalog, with the
deck and line they came from. Shows the most recent import unless
--batch names another.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			batch, _ := cmd.Flags().GetString("batch")
			return withStorage(cmd.Context(), func(store service.Storage) error {
				failures, err := store.GetImportFailures(cmd.Context(), batch)
				if err != nil {
					return fmt.Errorf("failed to load import failures: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(failures) == 0 {
					return writeLine(out, cli.FormatSuccess("No unresolved cards."))
				}
				if err := writeLine(out, cli.FormatTitle("Unresolved cards (batch "+failures[0].BatchID+")")); err != nil {
					return err
				}
				return writeLine(out, failureTable(failures).String())
			})
		},
	}
	cmd.Flags().String("batch", "", "import batch id (default: latest)")
	return cmd
}
