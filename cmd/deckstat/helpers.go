package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/deckstat/internal/catalog"
	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/config"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/resolve"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/Veraticus/deckstat/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initStorage opens the configured database and applies migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := config.ExpandPath(viper.GetString("database.path"))
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	if dbPath != ":memory:" {
		if err := config.EnsureDir(dbPath); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func catalogPath() string {
	return config.ExpandPath(viper.GetString("catalog.path"))
}

// loadResolver loads the card catalog and wraps it in a resolver.
func loadResolver(ctx context.Context) (*resolve.Resolver, error) {
	path := catalogPath()
	if catalog.Stale(path, viper.GetDuration("catalog.max_age")) {
		common.LogWarn("Card catalog is missing or old; run `deckstat init --force` to refresh", common.Fields{"path": path})
	}
	cat, err := catalog.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return resolve.New(cat, resolve.Options{
		Threshold: viper.GetFloat64("resolver.threshold"),
		Margin:    viper.GetFloat64("resolver.margin"),
	}), nil
}

// filterFlags are the deck selection flags shared by the analysis commands.
type filterFlags struct {
	colors    string
	bracket   string
	tag       string
	commander string
	include   bool
	subset    bool
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().StringVarP(&f.colors, "colors", "c", "", "color identity, e.g. UG or wubrg; C for colorless")
	cmd.Flags().BoolVar(&f.include, "include", false, "match decks containing all --colors")
	cmd.Flags().BoolVar(&f.subset, "subset", false, "match decks using only --colors")
	cmd.Flags().StringVarP(&f.bracket, "bracket", "b", "", "bracket N or range N-M")
	cmd.Flags().StringVar(&f.tag, "tag", "", "only decks with this tag")
	cmd.Flags().StringVar(&f.commander, "commander", "", "only decks led by this commander")
	cmd.MarkFlagsMutuallyExclusive("include", "subset")
}

func (f filterFlags) build() (model.DeckFilter, error) {
	var filter model.DeckFilter

	if f.colors != "" {
		ci, err := model.ParseColorIdentity(f.colors)
		if err != nil {
			return filter, common.NewUserError(fmt.Sprintf("invalid colors %q", f.colors), err)
		}
		filter.Colors = &ci
		switch {
		case f.include:
			filter.ColorMode = model.ColorModeContains
		case f.subset:
			filter.ColorMode = model.ColorModeSubset
		default:
			filter.ColorMode = model.ColorModeExact
		}
	}

	if f.bracket != "" {
		lo, hi, err := parseBracketRange(f.bracket)
		if err != nil {
			return filter, err
		}
		filter.BracketMin, filter.BracketMax = lo, hi
	}

	filter.Tag = f.tag
	filter.Commander = f.commander
	return filter, nil
}

// scope describes the filter for report headers.
func (f filterFlags) scope() string {
	var parts []string
	if f.colors != "" {
		label := strings.ToUpper(f.colors)
		if ci, err := model.ParseColorIdentity(f.colors); err == nil {
			label = ci.Name()
		}
		switch {
		case f.include:
			label = "with " + label
		case f.subset:
			label = "within " + label
		}
		parts = append(parts, label)
	}
	if f.bracket != "" {
		parts = append(parts, "bracket "+f.bracket)
	}
	if f.commander != "" {
		parts = append(parts, f.commander)
	}
	if f.tag != "" {
		parts = append(parts, "tag "+f.tag)
	}
	if len(parts) == 0 {
		return "All decks"
	}
	return strings.Join(parts, ", ")
}

// parseBracketRange accepts "N" or "N-M" with brackets 1 to 4.
func parseBracketRange(s string) (int, int, error) {
	invalid := func() (int, int, error) {
		return 0, 0, common.NewUserError(
			fmt.Sprintf("invalid bracket %q: use N or N-M with brackets 1-4", s), common.ErrInvalidConfig)
	}

	loStr, hiStr, isRange := strings.Cut(strings.TrimSpace(s), "-")
	lo, err := strconv.Atoi(strings.TrimSpace(loStr))
	if err != nil || !model.ValidBracket(lo) {
		return invalid()
	}
	if !isRange {
		return lo, lo, nil
	}
	hi, err := strconv.Atoi(strings.TrimSpace(hiStr))
	if err != nil || !model.ValidBracket(hi) || hi < lo {
		return invalid()
	}
	return lo, hi, nil
}

// loadDecks loads the filtered decks with entries and the category map.
func loadDecks(ctx context.Context, store service.Storage, filter model.DeckFilter) ([]model.Deck, model.CategoryMap, error) {
	decks, err := store.LoadDecks(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load decks: %w", err)
	}
	cats, err := store.GetCategoryMap(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load categories: %w", err)
	}
	common.LogDebug("Loaded decks", common.Fields{"decks": len(decks), "categorized_cards": len(cats)})
	return decks, cats, nil
}

// withStorage opens storage for the duration of fn.
func withStorage(ctx context.Context, fn func(service.Storage) error) (err error) {
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close database: %w", cerr)
		}
	}()
	return fn(store)
}

// noDecks turns an empty selection into a message naming the filter.
func noDecks(err error, f filterFlags) error {
	if errors.Is(err, common.ErrNoDecks) {
		return common.NewUserError("no decks match "+f.scope(), err)
	}
	return err
}

func writeLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}
