package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/deckstat/internal/cli"
	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/config"
	"github.com/Veraticus/deckstat/internal/deckfile"
	"github.com/Veraticus/deckstat/internal/importer"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func saveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save [export-file]",
		Short: "Save a Moxfield export as a deck file",
		Long: `Normalize a Moxfield (or MTGO-style) text export into a deck file named
"Commander--Bracket--Deck Name--Builder.txt" in decks.dir. The export is
read from the file argument or from stdin. Commanders are taken from the
export's commander section, or from the first card when there is none.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSave,
	}

	cmd.Flags().IntP("bracket", "b", 0, "power bracket 1-4")
	cmd.Flags().String("name", "", "deck name")
	cmd.Flags().String("builder", "", "deck builder")
	cmd.Flags().String("commander", "", "override the detected commander")
	cmd.Flags().String("partner", "", "partner commander, with --commander")
	cmd.Flags().String("dir", "", "output directory (default: decks.dir)")
	cmd.Flags().Bool("import", false, "import the saved deck right away")

	return cmd
}

func runSave(cmd *cobra.Command, args []string) error {
	bracket, _ := cmd.Flags().GetInt("bracket")
	name, _ := cmd.Flags().GetString("name")
	builder, _ := cmd.Flags().GetString("builder")
	commander, _ := cmd.Flags().GetString("commander")
	partner, _ := cmd.Flags().GetString("partner")
	dir, _ := cmd.Flags().GetString("dir")
	thenImport, _ := cmd.Flags().GetBool("import")

	if bracket != 0 && !model.ValidBracket(bracket) {
		return common.NewUserError(fmt.Sprintf("invalid bracket %d: use 1-4", bracket), common.ErrInvalidConfig)
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open export: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}
	text, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}

	exp, err := deckfile.NormalizeExport(string(text))
	if err != nil {
		return common.NewUserError("could not read the export", err)
	}

	if dir == "" {
		dir = viper.GetString("decks.dir")
	}
	path, err := deckfile.Save(config.ExpandPath(dir), exp, deckfile.SaveOptions{
		Commander: commander,
		Partner:   partner,
		Name:      name,
		Builder:   builder,
		Bracket:   bracket,
	})
	if err != nil {
		return err
	}
	if err := writeLine(cmd.OutOrStdout(), cli.FormatSuccess("Saved "+path)); err != nil {
		return err
	}

	if thenImport {
		return importDecks(cmd, []string{path}, importer.Options{Source: model.SourceMoxfield}, false)
	}
	return nil
}
