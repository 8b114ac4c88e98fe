package main

import (
	"io"
	"strconv"

	"github.com/Veraticus/deckstat/internal/analysis"
	"github.com/Veraticus/deckstat/internal/charts"
	"github.com/Veraticus/deckstat/internal/cli"
	"github.com/Veraticus/deckstat/internal/config"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
)

func curveCmd() *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Show the average mana curve",
		Long: `Show the non-land mana curve of the filtered decks: quantity-weighted
counts per mana value from 0 to 6+, averaged across decks with the
minimum and maximum seen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCurve(cmd, filter)
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().Int("cmc", -1, "only decks whose commander has this mana value")
	cmd.Flags().String("html", "", "also write an HTML chart to this path")
	return cmd
}

func runCurve(cmd *cobra.Command, f filterFlags) error {
	filter, err := f.build()
	if err != nil {
		return err
	}
	scope := f.scope()
	if cmd.Flags().Changed("cmc") {
		cmc, _ := cmd.Flags().GetInt("cmc")
		filter.CommanderManaValue = &cmc
		scope += ", commander MV " + strconv.Itoa(cmc)
	}
	htmlPath, _ := cmd.Flags().GetString("html")

	return withStorage(cmd.Context(), func(store service.Storage) error {
		decks, _, err := loadDecks(cmd.Context(), store, filter)
		if err != nil {
			return err
		}
		report, err := analysis.Curve(decks)
		if err != nil {
			return noDecks(err, f)
		}
		out := cmd.OutOrStdout()
		if err := writeLine(out, analysis.NewCLIFormatter().FormatCurve(report, scope)); err != nil {
			return err
		}
		if htmlPath == "" {
			return nil
		}

		cfg := charts.DefaultConfig()
		cfg.Title = "Mana curve"
		cfg.Subtitle = scope
		return writeChart(out, htmlPath, func(w io.Writer) error {
			return charts.RenderCurve(w, report, cfg)
		})
	})
}

func writeChart(out io.Writer, path string, render func(io.Writer) error) error {
	path = config.ExpandPath(path)
	if err := charts.WriteFile(path, render); err != nil {
		return err
	}
	return writeLine(out, cli.FormatSuccess("Chart written to "+path))
}
