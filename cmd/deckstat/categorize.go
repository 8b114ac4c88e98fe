package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Veraticus/deckstat/internal/cli"
	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/llm"
	"github.com/Veraticus/deckstat/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize",
		Short: "Label uncategorized cards with a language model",
		Long: `Send cards the rule categorizer left as "other" to the configured LLM
provider (llm.provider: anthropic or openai) and store its labels.
Answers are cached, so rerunning only asks about new cards. Manually
tagged cards are never changed.

The API key is read from llm.api_key, or from ANTHROPIC_API_KEY /
OPENAI_API_KEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return withStorage(cmd.Context(), func(store service.Storage) error {
				return runCategorization(cmd, store, limit, dryRun)
			})
		},
	}
	cmd.Flags().Int("limit", 0, "maximum cards to categorize (0 = all)")
	cmd.Flags().Bool("dry-run", false, "show proposed labels without saving them")
	return cmd
}

// runCategorization runs one LLM pass over stored "other" cards.
func runCategorization(cmd *cobra.Command, store service.Storage, limit int, dryRun bool) error {
	client, err := createLLMClient()
	if err != nil {
		return err
	}
	categorizer := llm.NewCategorizer(client, store, llm.Options{
		BatchSize:   viper.GetInt("llm.batch_size"),
		Concurrency: viper.GetInt("llm.concurrency"),
		Interval:    viper.GetDuration("llm.rate_limit"),
	})

	common.LogInfo("Categorizing cards", common.Fields{"model": client.Model(), "dry_run": dryRun})
	report, err := llm.Apply(cmd.Context(), store, categorizer, limit, dryRun)
	if report != nil {
		if werr := printCategorizeReport(cmd, report, dryRun); werr != nil {
			return werr
		}
	}
	if err != nil {
		return fmt.Errorf("categorization failed: %w", err)
	}
	return nil
}

// createLLMClient builds the provider client from configuration.
func createLLMClient() (llm.Client, error) {
	provider := strings.ToLower(viper.GetString("llm.provider"))
	apiKey := viper.GetString("llm.api_key")
	if apiKey == "" {
		switch provider {
		case "openai":
			apiKey = os.Getenv("OPENAI_API_KEY")
		default:
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}

	client, err := llm.NewClient(llm.Config{
		Provider:    provider,
		APIKey:      apiKey,
		Model:       viper.GetString("llm.model"),
		BaseURL:     viper.GetString("llm.base_url"),
		Timeout:     viper.GetDuration("llm.timeout"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	})
	if err != nil {
		return nil, common.NewUserError(
			fmt.Sprintf("cannot create %s client: set llm.api_key or the provider's API key variable", provider), err)
	}
	return client, nil
}

func printCategorizeReport(cmd *cobra.Command, r *llm.ApplyReport, dryRun bool) error {
	out := cmd.OutOrStdout()
	if r.Scanned == 0 {
		return writeLine(out, cli.FormatInfo("No uncategorized cards."))
	}

	if dryRun && len(r.Proposed) > 0 {
		names := make([]string, 0, len(r.Proposed))
		for name := range r.Proposed {
			names = append(names, name)
		}
		sort.Strings(names)
		t := cli.NewTable("Card", "Categories")
		for _, name := range names {
			t.Row(name, joinCategories(r.Proposed[name]))
		}
		if err := writeLine(out, t.String()); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("Scanned %d cards: %d cached, %d sent, %d relabeled",
		r.Scanned, r.Cached, r.Requested, len(r.Proposed))
	if !dryRun {
		summary = fmt.Sprintf("Scanned %d cards: %d cached, %d sent, %d updated",
			r.Scanned, r.Cached, r.Requested, r.Updated)
	}
	if err := writeLine(out, cli.FormatSuccess(summary)); err != nil {
		return err
	}
	for _, err := range r.Errors {
		if werr := writeLine(cmd.ErrOrStderr(), cli.FormatWarning(err.Error())); werr != nil {
			return werr
		}
	}
	if r.Transient > 0 {
		msg := fmt.Sprintf("%d batch(es) hit transient errors; run categorize again to retry them", r.Transient)
		if err := writeLine(cmd.ErrOrStderr(), cli.FormatInfo(msg)); err != nil {
			return err
		}
	}
	return nil
}
