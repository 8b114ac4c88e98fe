package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Veraticus/deckstat/internal/categorize"
	"github.com/Veraticus/deckstat/internal/cli"
	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
)

func tagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Override card categories by hand",
		Long: `Manual categories replace whatever the rules or the LLM assigned and are
never overwritten by them. Valid categories: ` + categoryNames() + `.`,
	}
	cmd.AddCommand(tagSetCmd())
	cmd.AddCommand(tagShowCmd())
	cmd.AddCommand(tagListCmd())
	cmd.AddCommand(tagImportCmd())
	cmd.AddCommand(tagExportCmd())
	return cmd
}

func tagSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set CARD CATEGORY[,CATEGORY...]",
		Short:   "Set a card's categories",
		Example: `  deckstat tag set "Smothering Tithe" ramp,draw`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := categorize.ParseLabels(strings.Split(args[1], ","))
			if err != nil {
				return common.NewUserError(err.Error()+"; valid: "+categoryNames(), err)
			}
			return withStorage(cmd.Context(), func(store service.Storage) error {
				if err := setManual(cmd, store, args[0], cats); err != nil {
					return err
				}
				return writeLine(cmd.OutOrStdout(),
					cli.FormatSuccess(fmt.Sprintf("%s: %s", args[0], joinCategories(cats))))
			})
		},
	}
}

func tagShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show CARD",
		Short: "Show a card's categories and where they came from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), func(store service.Storage) error {
				cc, err := store.GetCardCategories(cmd.Context(), args[0])
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(fmt.Sprintf("card %q is not in any imported deck", args[0]), err)
				}
				if err != nil {
					return err
				}
				return writeLine(cmd.OutOrStdout(),
					fmt.Sprintf("%s: %s (%s)", cc.Name, joinCategories(cc.Categories), cc.Source))
			})
		},
	}
}

func tagListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categorized cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			source, _ := cmd.Flags().GetString("source")
			switch model.CategorySource(source) {
			case model.CategorySourceManual, model.CategorySourceLLM, model.CategorySourceRules:
			case "all":
				source = ""
			default:
				return common.NewUserError(
					fmt.Sprintf("invalid --source %q: use manual, llm, rules or all", source), common.ErrInvalidConfig)
			}

			return withStorage(cmd.Context(), func(store service.Storage) error {
				cards, err := store.ListCardCategories(cmd.Context(), model.CategorySource(source))
				if err != nil {
					return err
				}
				if len(cards) == 0 {
					return writeLine(cmd.OutOrStdout(), cli.FormatInfo("No cards found."))
				}
				sort.Slice(cards, func(i, j int) bool { return cards[i].Name < cards[j].Name })
				t := cli.NewTable("Card", "Categories", "Source")
				for _, c := range cards {
					t.Row(c.Name, joinCategories(c.Categories), string(c.Source))
				}
				return writeLine(cmd.OutOrStdout(), t.String())
			})
		},
	}
	cmd.Flags().String("source", string(model.CategorySourceManual), "manual, llm, rules or all")
	return cmd
}

func tagImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Apply manual categories from a YAML file",
		Long: `Apply manual categories from a YAML file mapping card names to lists:

  Sol Ring: [ramp]
  Smothering Tithe: [ramp, draw]

Cards that are not in any imported deck are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open overrides: %w", err)
			}
			defer func() { _ = f.Close() }()

			overrides, err := categorize.ReadOverrides(f)
			if err != nil {
				return common.NewUserError(err.Error(), err)
			}

			return withStorage(cmd.Context(), func(store service.Storage) error {
				return importOverrides(cmd, store, overrides)
			})
		},
	}
}

func tagExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write manual categories as YAML (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd.Context(), func(store service.Storage) error {
				cards, err := store.ListCardCategories(cmd.Context(), model.CategorySourceManual)
				if err != nil {
					return err
				}
				if len(args) == 0 {
					return categorize.WriteOverrides(cmd.OutOrStdout(), cards)
				}

				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", args[0], err)
				}
				if err := categorize.WriteOverrides(f, cards); err != nil {
					_ = f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("failed to write %s: %w", args[0], err)
				}
				return writeLine(cmd.OutOrStdout(),
					cli.FormatSuccess(fmt.Sprintf("Exported %d cards to %s", len(cards), args[0])))
			})
		},
	}
}

func setManual(cmd *cobra.Command, store service.Storage, name string, cats []model.Category) error {
	err := store.SetCardCategories(cmd.Context(), name, cats, model.CategorySourceManual)
	if errors.Is(err, common.ErrNotFound) {
		return common.NewUserError(fmt.Sprintf("card %q is not in any imported deck", name), err)
	}
	return err
}

// importOverrides applies every override in one transaction.
func importOverrides(cmd *cobra.Command, store service.Storage, overrides model.CategoryMap) (err error) {
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	tx, err := store.BeginTx(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var applied int
	var missing []string
	for _, name := range names {
		serr := tx.SetCardCategories(cmd.Context(), name, overrides[name], model.CategorySourceManual)
		if errors.Is(serr, common.ErrNotFound) {
			missing = append(missing, name)
			continue
		}
		if serr != nil {
			return serr
		}
		applied++
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit overrides: %w", err)
	}

	out := cmd.OutOrStdout()
	if err = writeLine(out, cli.FormatSuccess(fmt.Sprintf("Applied %d manual overrides", applied))); err != nil {
		return err
	}
	if len(missing) > 0 {
		return writeLine(cmd.ErrOrStderr(),
			cli.FormatWarning("Not in any imported deck: "+strings.Join(missing, ", ")))
	}
	return nil
}

func joinCategories(cats []model.Category) string {
	labels := make([]string, len(cats))
	for i, c := range cats {
		labels[i] = string(c)
	}
	return strings.Join(labels, ", ")
}

func categoryNames() string {
	return joinCategories(model.Categories)
}
