package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/deckstat/internal/catalog"
	"github.com/Veraticus/deckstat/internal/cli"
	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/scryfall"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database and download the card catalog",
		Long: `Create the deck database and download Scryfall's oracle-cards bulk
file, which every import resolves card names against. The catalog is only
downloaded when missing or older than catalog.max_age unless --force is set.`,
		Args: cobra.NoArgs,
		RunE: runInit,
	}

	cmd.Flags().Bool("force", false, "download the catalog even if it is fresh")
	cmd.Flags().Bool("skip-bulk", false, "only create the database")
	cmd.Flags().String("scryfall-url", scryfall.DefaultBaseURL, "Scryfall API base URL")
	_ = cmd.Flags().MarkHidden("scryfall-url")

	return cmd
}

func runInit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	force, _ := cmd.Flags().GetBool("force")
	skipBulk, _ := cmd.Flags().GetBool("skip-bulk")
	baseURL, _ := cmd.Flags().GetString("scryfall-url")
	out := cmd.OutOrStdout()

	err := withStorage(ctx, func(service.Storage) error {
		common.LogInfo("Database ready", common.Fields{"path": viper.GetString("database.path")})
		return nil
	})
	if err != nil {
		return err
	}
	if err := writeLine(out, cli.FormatSuccess("Database ready")); err != nil {
		return err
	}
	if skipBulk {
		return nil
	}

	path := catalogPath()
	if !force && !catalog.Stale(path, viper.GetDuration("catalog.max_age")) {
		return writeLine(out, cli.FormatInfo(fmt.Sprintf("Card catalog at %s is up to date", path)))
	}

	client := scryfall.NewClient(scryfall.WithBaseURL(baseURL))
	bulk, err := client.GetBulkData(ctx, scryfall.OracleCards)
	if err != nil {
		return common.NewUserError("could not reach Scryfall to fetch the card catalog", err)
	}

	progress := func(total int64) io.Writer {
		return cli.NewByteBar(cmd.ErrOrStderr(), total, "Downloading card catalog")
	}
	written, err := client.Download(ctx, bulk.DownloadURI, path, progress)
	if err != nil {
		return err
	}
	common.LogInfo("Downloaded card catalog", common.Fields{"path": path, "bytes": written, "updated_at": bulk.UpdatedAt})

	cat, err := catalog.Load(ctx, path)
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return writeLine(out, cli.FormatSuccess(fmt.Sprintf("Card catalog ready: %d cards", cat.Len())))
}
