package main

import (
	"fmt"

	"github.com/Veraticus/deckstat/internal/analysis"
	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/cooccur"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func packagesCmd() *cobra.Command {
	var filter filterFlags
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "Find cards that are played together",
		Long: `Detect packages: sets of cards that recur together across the filtered
decks. A set's confidence is the number of decks running all of it
divided by the deck count of its rarest card; sets at or above
--threshold in at least --min-support decks are listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPackages(cmd, filter)
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().Float64("threshold", 0.7, "minimum confidence in (0,1]")
	cmd.Flags().Int("size", 2, "cards per package")
	cmd.Flags().Int("min-support", 2, "minimum decks running the whole package")
	cmd.Flags().Float64("min-frequency", 0, "minimum fraction of decks a card must appear in")
	cmd.Flags().StringSlice("stop-list", nil, "cards to ignore (default: packages.stop_list)")
	cmd.Flags().Bool("skip-staples", false, "also ignore auto-includes like Sol Ring")
	cmd.Flags().String("universal", string(cooccur.UniversalFlag), "cards in every deck: flag, exclude or include")
	cmd.Flags().Int("limit", 25, "maximum packages listed (0 = all)")
	return cmd
}

func runPackages(cmd *cobra.Command, f filterFlags) error {
	filter, err := f.build()
	if err != nil {
		return err
	}
	opts, err := packageOptions(cmd)
	if err != nil {
		return err
	}

	return withStorage(cmd.Context(), func(store service.Storage) error {
		decks, _, err := loadDecks(cmd.Context(), store, filter)
		if err != nil {
			return err
		}
		result := cooccur.Detect(decks, opts)
		common.LogDebug("Package detection finished", common.Fields{
			"decks":      result.Decks,
			"candidates": result.Candidates,
			"packages":   len(result.Packages),
		})
		return writeLine(cmd.OutOrStdout(), analysis.NewCLIFormatter().FormatPackages(result, f.scope()))
	})
}

func packageOptions(cmd *cobra.Command) (cooccur.Options, error) {
	flags := cmd.Flags()
	threshold, _ := flags.GetFloat64("threshold")
	size, _ := flags.GetInt("size")
	minSupport, _ := flags.GetInt("min-support")
	minFrequency, _ := flags.GetFloat64("min-frequency")
	universal, _ := flags.GetString("universal")
	skipStaples, _ := flags.GetBool("skip-staples")
	limit, _ := flags.GetInt("limit")

	policy := cooccur.UniversalPolicy(universal)
	switch policy {
	case cooccur.UniversalFlag, cooccur.UniversalExclude, cooccur.UniversalInclude:
	default:
		return cooccur.Options{}, common.NewUserError(
			fmt.Sprintf("invalid --universal %q: use flag, exclude or include", universal), common.ErrInvalidConfig)
	}

	stop := viper.GetStringSlice("packages.stop_list")
	if flags.Changed("stop-list") {
		stop, _ = flags.GetStringSlice("stop-list")
	}
	if skipStaples {
		stop = append(stop, cooccur.AutoIncludes...)
	}

	return cooccur.Options{
		Threshold:    threshold,
		Size:         size,
		MinSupport:   minSupport,
		MinFrequency: minFrequency,
		StopList:     stop,
		Universal:    policy,
		Limit:        limit,
	}, nil
}
