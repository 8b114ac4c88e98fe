package main

import (
	"github.com/Veraticus/deckstat/internal/analysis"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
)

func staplesCmd() *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "staples",
		Short: "Show the most played cards, grouped by category",
		Long: `List cards that appear in at least --min of the filtered decks, grouped
under each card's primary category. Percentages are of the filtered deck
count. Commanders are not counted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStaples(cmd, filter)
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().Int("per-category", 15, "cards listed per category (0 = all)")
	cmd.Flags().Int("limit", 0, "total cards listed across categories (0 = no cap)")
	cmd.Flags().Int("min", 2, "minimum decks a card must appear in")
	return cmd
}

func runStaples(cmd *cobra.Command, f filterFlags) error {
	filter, err := f.build()
	if err != nil {
		return err
	}
	perCategory, _ := cmd.Flags().GetInt("per-category")
	limit, _ := cmd.Flags().GetInt("limit")
	minDecks, _ := cmd.Flags().GetInt("min")

	return withStorage(cmd.Context(), func(store service.Storage) error {
		decks, cats, err := loadDecks(cmd.Context(), store, filter)
		if err != nil {
			return err
		}
		report, err := analysis.Staples(decks, cats, analysis.StapleOptions{
			MinAppearances: minDecks,
			Limit:          perCategory,
		})
		if err != nil {
			return noDecks(err, f)
		}
		capStaples(report, limit)
		return writeLine(cmd.OutOrStdout(), analysis.NewCLIFormatter().FormatStaples(report, f.scope()))
	})
}

// capStaples trims the report to limit cards in display order.
func capStaples(r *analysis.StaplesReport, limit int) {
	if limit <= 0 {
		return
	}
	remaining := limit
	groups := r.Groups[:0]
	for _, g := range r.Groups {
		if remaining == 0 {
			break
		}
		if len(g.Cards) > remaining {
			g.Cards = g.Cards[:remaining]
		}
		remaining -= len(g.Cards)
		groups = append(groups, g)
	}
	r.Groups = groups
}
