package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/Veraticus/deckstat/internal/cli"
	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/config"
	"github.com/Veraticus/deckstat/internal/importer"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import deck list files",
		Long: `Import deck files named "Commander--Bracket--Deck Name--Builder.txt".

With no file arguments every .txt file in --dir (default decks.dir) is
imported. Files already in the database are skipped unless --force is set.
Card names that cannot be resolved are stored as unresolved and listed at
the end; they never stop an import.`,
		RunE: runImport,
	}

	cmd.Flags().String("dir", "", "directory of deck files (default: decks.dir)")
	cmd.Flags().Bool("force", false, "re-import decks already in the database")
	cmd.Flags().String("tag", "", "tag to attach to imported decks")
	cmd.Flags().Bool("categorize", false, "run LLM categorization on new cards afterwards")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	tag, _ := cmd.Flags().GetString("tag")
	dir, _ := cmd.Flags().GetString("dir")
	withLLM, _ := cmd.Flags().GetBool("categorize")

	paths, err := importPaths(args, dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return common.NewUserError("no deck files to import", common.ErrInvalidDeckFile)
	}

	return importDecks(cmd, paths, importer.Options{
		Tag:    tag,
		Source: model.SourceManual,
		Force:  force,
	}, withLLM)
}

// importDecks imports paths with a progress bar and prints the report.
func importDecks(cmd *cobra.Command, paths []string, opts importer.Options, withLLM bool) error {
	ctx := cmd.Context()
	resolver, err := loadResolver(ctx)
	if err != nil {
		return err
	}

	return withStorage(ctx, func(store service.Storage) error {
		bar := cli.NewCountBar(cmd.ErrOrStderr(), len(paths), "Importing decks")
		opts.OnFile = func(importer.FileResult) { cli.Advance(bar) }

		report, err := importer.New(store, resolver, nil, opts).ImportFiles(ctx, paths)
		if report != nil {
			if werr := printImportReport(cmd.OutOrStdout(), report); werr != nil {
				return werr
			}
		}
		if err != nil {
			return err
		}

		if withLLM && report.Imported > 0 {
			return runCategorization(cmd, store, 0, false)
		}
		return nil
	})
}

// importPaths returns the explicit files, or every .txt file in dir.
func importPaths(args []string, dir string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if dir == "" {
		dir = viper.GetString("decks.dir")
	}
	dir = config.ExpandPath(dir)

	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to list deck files: %w", err)
	}
	if len(matches) == 0 {
		if _, statErr := os.Stat(dir); statErr != nil {
			return nil, common.NewUserError(fmt.Sprintf("deck directory %s does not exist", dir), statErr)
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func printImportReport(w io.Writer, report *importer.Report) error {
	summary := fmt.Sprintf("Imported: %d\nSkipped: %d\nErrors: %d\nBatch: %s",
		report.Imported, report.Skipped, report.Errors, report.BatchID)
	if err := writeLine(w, cli.RenderBox("Import complete", summary)); err != nil {
		return err
	}

	for _, f := range report.Files {
		if f.Status == importer.StatusFailed {
			if err := writeLine(w, cli.FormatError(fmt.Sprintf("%s: %v", filepath.Base(f.Path), f.Err))); err != nil {
				return err
			}
		}
	}

	malformed := report.Malformed()
	if len(malformed) > 0 {
		t := cli.NewTable("File", "Line", "Problem").AlignRight(1)
		files := make([]string, 0, len(malformed))
		for path := range malformed {
			files = append(files, path)
		}
		sort.Strings(files)
		for _, path := range files {
			for _, le := range malformed[path] {
				t.Row(filepath.Base(path), strconv.Itoa(le.Line), le.Reason+": "+le.Text)
			}
		}
		if err := writeLine(w, cli.FormatWarning("Skipped malformed lines")+"\n"+t.String()); err != nil {
			return err
		}
	}

	failures := report.Failures()
	if len(failures) > 0 {
		if err := writeLine(w, cli.FormatWarning(fmt.Sprintf("%d card names could not be resolved", len(failures)))); err != nil {
			return err
		}
		if err := writeLine(w, failureTable(failures).String()); err != nil {
			return err
		}
	}
	return nil
}

func failureTable(failures []model.ImportFailure) *cli.Table {
	t := cli.NewTable("Deck", "Line", "Card", "Reason").AlignRight(1)
	for _, f := range failures {
		t.Row(f.DeckName, strconv.Itoa(f.Line), f.RawName, f.Reason)
	}
	return t
}
