package main

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/deckstat/internal/analysis"
	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
)

func rampCmd() *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "ramp CMC",
		Short: "Profile ramp in decks by commander mana value",
		Long: `Show how many ramp pieces and lands decks run when their commander has
the given mana value, and which ramp cards they pick most.`,
		Example: "  deckstat ramp 4 -c G --include",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRamp(cmd, args[0], filter)
		},
	}
	addFilterFlags(cmd, &filter)
	return cmd
}

func runRamp(cmd *cobra.Command, arg string, f filterFlags) error {
	cmc, err := strconv.Atoi(arg)
	if err != nil || cmc < 0 {
		return common.NewUserError(fmt.Sprintf("invalid mana value %q", arg), common.ErrInvalidConfig)
	}
	filter, err := f.build()
	if err != nil {
		return err
	}
	filter.CommanderManaValue = &cmc
	scope := f.scope() + ", commander MV " + arg

	return withStorage(cmd.Context(), func(store service.Storage) error {
		decks, cats, err := loadDecks(cmd.Context(), store, filter)
		if err != nil {
			return err
		}
		report, err := analysis.Ramp(decks, cats)
		if err != nil {
			return common.NewUserError("no decks match "+scope, err)
		}
		return writeLine(cmd.OutOrStdout(), analysis.NewCLIFormatter().FormatRamp(report, scope))
	})
}
