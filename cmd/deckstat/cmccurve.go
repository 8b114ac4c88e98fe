package main

import (
	"github.com/Veraticus/deckstat/internal/analysis"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
)

func cmcCurveCmd() *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "cmc-curve",
		Short: "Relate commander mana value to the deck's curve",
		Long: `Group the filtered decks by their commander's mana value and show each
group's average curve, deck mana value, ramp, draw and land counts.
With --spells, list the most played spells at each curve point.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCmcCurve(cmd, filter)
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().Bool("spells", false, "list top spells per mana value")
	cmd.Flags().Int("top-n", analysis.DefaultTopSpells, "spells listed per mana value")
	return cmd
}

func runCmcCurve(cmd *cobra.Command, f filterFlags) error {
	filter, err := f.build()
	if err != nil {
		return err
	}
	spells, _ := cmd.Flags().GetBool("spells")
	topN, _ := cmd.Flags().GetInt("top-n")

	return withStorage(cmd.Context(), func(store service.Storage) error {
		decks, cats, err := loadDecks(cmd.Context(), store, filter)
		if err != nil {
			return err
		}
		report, err := analysis.CommanderCurve(decks, cats, topN)
		if err != nil {
			return noDecks(err, f)
		}
		return writeLine(cmd.OutOrStdout(),
			analysis.NewCLIFormatter().FormatCommanderCurve(report, f.scope(), spells))
	})
}
