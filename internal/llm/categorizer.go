package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/service"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Options tunes batching and pacing.
type Options struct {
	Retry       service.RetryOptions
	BatchSize   int
	Concurrency int
	// Interval is the minimum spacing between requests.
	Interval time.Duration
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = 20
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 2
	}
	if o.Retry.MaxAttempts <= 0 {
		o.Retry = service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2,
		}
	}
	return o
}

// Result is the outcome of a categorization run.
type Result struct {
	Categories model.CategoryMap
	// Errors holds one entry per batch that failed after retries.
	Errors []error
	// Transient counts the failed batches a later run may still answer.
	Transient int
	Cached    int
	Requested int
}

// Categorizer labels cards through a language model.
type Categorizer struct {
	client  Client
	cache   Cache
	limiter *rate.Limiter
	opts    Options
}

// NewCategorizer creates a categorizer. A nil cache disables caching.
func NewCategorizer(client Client, cache Cache, opts Options) *Categorizer {
	opts = opts.withDefaults()
	limit := rate.Inf
	if opts.Interval > 0 {
		limit = rate.Every(opts.Interval)
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Categorizer{
		client:  client,
		cache:   cache,
		limiter: rate.NewLimiter(limit, 1),
		opts:    opts,
	}
}

// Categorize returns categories for cards, answering from the cache first
// and sending the rest in concurrent batches. A failed batch is recorded in
// Result.Errors and does not stop the others.
func (c *Categorizer) Categorize(ctx context.Context, cards []model.CardEntry) (*Result, error) {
	result := &Result{Categories: make(model.CategoryMap)}

	var pending []model.CardEntry
	for _, card := range cards {
		cats, ok, err := c.cache.GetCachedCategories(ctx, CacheKey(card))
		if err != nil {
			return nil, fmt.Errorf("failed to read category cache: %w", err)
		}
		if ok {
			result.Categories[card.Name] = cats
			result.Cached++
			continue
		}
		pending = append(pending, card)
	}
	if len(pending) == 0 {
		return result, nil
	}

	common.LogInfo("Categorizing cards via LLM", common.Fields{
		"cards":  len(pending),
		"cached": result.Cached,
		"model":  c.client.Model(),
	})

	var (
		mu      sync.Mutex
		answers = make(map[string][]model.Category)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)

	for start := 0; start < len(pending); start += c.opts.BatchSize {
		batch := pending[start:min(start+c.opts.BatchSize, len(pending))]
		g.Go(func() error {
			got, err := c.categorizeBatch(gctx, batch)
			mu.Lock()
			defer mu.Unlock()
			result.Requested += len(batch)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				common.LogError(err, "LLM batch failed", common.Fields{"cards": len(batch)})
				result.Errors = append(result.Errors, err)
				if common.IsRetryable(err) {
					result.Transient++
				}
				return nil
			}
			for name, cats := range got {
				answers[name] = cats
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	for _, card := range pending {
		cats, ok := answers[card.Name]
		if !ok {
			continue
		}
		result.Categories[card.Name] = cats
		if err := c.cache.SaveCachedCategories(ctx, CacheKey(card), c.client.Model(), cats); err != nil {
			return result, fmt.Errorf("failed to write category cache: %w", err)
		}
	}
	return result, nil
}

// categorizeBatch asks for one batch and maps the answers back onto the
// canonical names that were asked about.
func (c *Categorizer) categorizeBatch(ctx context.Context, batch []model.CardEntry) (map[string][]model.Category, error) {
	prompt := buildPrompt(batch)

	var parsed map[string][]model.Category
	err := common.WithRetry(ctx, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return common.Permanent(err)
		}
		content, err := c.client.Complete(ctx, prompt)
		if err != nil {
			return err
		}
		parsed, err = parseCategories(content)
		return err
	}, c.opts.Retry)
	if err != nil {
		return nil, err
	}

	byFold := make(map[string][]model.Category, len(parsed))
	for name, cats := range parsed {
		byFold[strings.ToLower(name)] = cats
	}
	out := make(map[string][]model.Category, len(batch))
	for _, card := range batch {
		if cats, ok := parsed[card.Name]; ok {
			out[card.Name] = cats
		} else if cats, ok := byFold[strings.ToLower(card.Name)]; ok {
			out[card.Name] = cats
		}
	}
	return out, nil
}

func buildPrompt(batch []model.CardEntry) string {
	var b strings.Builder
	b.WriteString(`Categorize each Magic: The Gathering card into one or more functional categories for Commander deck analysis.

Categories (assign ALL that apply):
- ramp: Produces mana, fetches lands, mana rocks/dorks
- draw: Card draw, card selection, impulse draw
- removal: Targeted removal (destroy/exile/bounce single targets)
- board_wipe: Mass removal (destroys/exiles all or most creatures/permanents)
- counterspell: Counters spells
- tutor: Searches library for specific cards
- protection: Grants hexproof/indestructible/phasing/shroud/ward
- recursion: Returns cards from graveyard
- land: It's a land
- other: Doesn't fit above categories (creatures, synergy pieces, win conditions, etc.)

For each card, respond with ONLY a JSON object mapping card name to category array. No explanation.

Cards:
`)
	for _, card := range batch {
		fmt.Fprintf(&b, "- %s | %s | %s | %s\n", card.Name, card.ManaCost, card.TypeLine,
			strings.ReplaceAll(card.OracleText, "\n", " "))
	}
	b.WriteString(`
Respond with valid JSON only, like: {"Sol Ring": ["ramp"], "Swords to Plowshares": ["removal"]}`)
	return b.String()
}
