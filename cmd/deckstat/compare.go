package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/deckstat/internal/analysis"
	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
)

func compareCmd() *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "compare BRACKET_A BRACKET_B",
		Short: "Compare card choices between two brackets",
		Long: `Compare how often cards are played in decks of two brackets, usually
within one color identity (-c). Cards whose play rate differs by at
least --min-diff are listed for each side.`,
		Example: "  deckstat compare 2 4 -c UG",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args, filter)
		},
	}
	addFilterFlags(cmd, &filter)
	// Brackets come from the arguments.
	_ = cmd.Flags().MarkHidden("bracket")
	cmd.Flags().Float64("min-diff", 0.2, "minimum play-rate difference (0-1)")
	cmd.Flags().Int("limit", 20, "cards listed per side")
	return cmd
}

func runCompare(cmd *cobra.Command, args []string, f filterFlags) error {
	bracketA, _, err := parseBracketRange(args[0])
	if err != nil {
		return err
	}
	bracketB, _, err := parseBracketRange(args[1])
	if err != nil {
		return err
	}
	f.bracket = ""
	base, err := f.build()
	if err != nil {
		return err
	}
	minDiff, _ := cmd.Flags().GetFloat64("min-diff")
	limit, _ := cmd.Flags().GetInt("limit")

	return withStorage(cmd.Context(), func(store service.Storage) error {
		side := func(bracket int) ([]model.Deck, error) {
			filter := base
			filter.BracketMin, filter.BracketMax = bracket, bracket
			decks, err := store.LoadDecks(cmd.Context(), filter)
			if err != nil {
				return nil, fmt.Errorf("failed to load bracket %d decks: %w", bracket, err)
			}
			return decks, nil
		}
		decksA, err := side(bracketA)
		if err != nil {
			return err
		}
		decksB, err := side(bracketB)
		if err != nil {
			return err
		}

		report, err := analysis.CompareBrackets(decksA, decksB, analysis.CompareOptions{
			MinDiff:  minDiff,
			Limit:    limit,
			BracketA: bracketA,
			BracketB: bracketB,
		})
		if errors.Is(err, common.ErrNoDecks) {
			return common.NewUserError(err.Error()+" ("+f.scope()+")", err)
		}
		if err != nil {
			return err
		}
		return writeLine(cmd.OutOrStdout(), analysis.NewCLIFormatter().FormatCompare(report, f.scope()))
	})
}
