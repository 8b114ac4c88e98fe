package main

import (
	"io"

	"github.com/Veraticus/deckstat/internal/analysis"
	"github.com/Veraticus/deckstat/internal/charts"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show how deck slots split across card categories",
		Long: `Show, per category, the average slots the filtered decks devote to it,
the minimum and maximum among decks that run the category at all, and
how many decks do. A card with several labels counts in each.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCategories(cmd, filter)
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().String("html", "", "also write an HTML chart to this path")
	return cmd
}

func runCategories(cmd *cobra.Command, f filterFlags) error {
	filter, err := f.build()
	if err != nil {
		return err
	}
	htmlPath, _ := cmd.Flags().GetString("html")

	return withStorage(cmd.Context(), func(store service.Storage) error {
		decks, cats, err := loadDecks(cmd.Context(), store, filter)
		if err != nil {
			return err
		}
		report, err := analysis.Categories(decks, cats)
		if err != nil {
			return noDecks(err, f)
		}
		out := cmd.OutOrStdout()
		if err := writeLine(out, analysis.NewCLIFormatter().FormatCategories(report, f.scope())); err != nil {
			return err
		}
		if htmlPath == "" {
			return nil
		}

		cfg := charts.DefaultConfig()
		cfg.Title = "Category slots"
		cfg.Subtitle = f.scope()
		return writeChart(out, htmlPath, func(w io.Writer) error {
			return charts.RenderCategories(w, report, cfg)
		})
	})
}
