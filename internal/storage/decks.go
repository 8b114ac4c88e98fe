package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
	"github.com/Veraticus/deckstat/internal/service"
)

const deckColumns = `id, name, source_file, source, commander_name, commander_raw, commander_resolved,
	partner_name, partner_raw, partner_resolved, color_mask, bracket, commander_cmc,
	tag, builder, import_batch, date_added`

// SaveDeck stores a deck and its entries atomically. A deck previously
// imported from the same source file is replaced.
func (s *SQLiteStorage) SaveDeck(ctx context.Context, deck *model.Deck) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateDeck(deck); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return saveDeckTx(ctx, tx, deck)
	})
}

func saveDeckTx(ctx context.Context, q queryable, deck *model.Deck) error {
	if err := deleteDeckBySource(ctx, q, deck.SourceFile); err != nil {
		return err
	}

	if deck.AddedAt.IsZero() {
		deck.AddedAt = time.Now().UTC()
	}
	if deck.Source == "" {
		deck.Source = model.SourceManual
	}

	primary := deck.Commanders[0]
	var partnerName, partnerRaw sql.NullString
	var partnerResolved sql.NullInt64
	if len(deck.Commanders) > 1 {
		p := deck.Commanders[1]
		partnerName = sql.NullString{String: p.Name, Valid: true}
		partnerRaw = sql.NullString{String: p.RawName, Valid: true}
		partnerResolved = sql.NullInt64{Int64: boolToInt(p.Resolved), Valid: true}
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO decks (name, source_file, source, commander_name, commander_raw, commander_resolved,
			partner_name, partner_raw, partner_resolved, color_mask, bracket, commander_cmc,
			tag, builder, import_batch, date_added)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		deck.Name, deck.SourceFile, string(deck.Source),
		primary.Name, primary.RawName, boolToInt(primary.Resolved),
		partnerName, partnerRaw, partnerResolved,
		int(deck.ColorIdentity), deck.Bracket, deck.CommanderManaValue,
		deck.Tag, deck.Builder, deck.ImportBatch, deck.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert deck %q: %w", deck.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get deck id: %w", err)
	}
	deck.ID = id

	for _, e := range deck.Entries {
		_, err := q.ExecContext(ctx, `
			INSERT INTO deck_cards (deck_id, card_name, raw_name, resolved, quantity, board, line)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, e.Name(), e.RawName, boolToInt(e.Resolved()), e.Quantity, string(e.Board), e.Line)
		if err != nil {
			return fmt.Errorf("failed to insert card %q for deck %q: %w", e.RawName, deck.Name, err)
		}
	}

	return nil
}

// DeckExists reports whether a deck was imported from sourceFile.
func (s *SQLiteStorage) DeckExists(ctx context.Context, sourceFile string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	return deckExists(ctx, s.db, sourceFile)
}

func deckExists(ctx context.Context, q queryable, sourceFile string) (bool, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks WHERE source_file = ?`, sourceFile).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check deck: %w", err)
	}
	return n > 0, nil
}

// DeleteDeckBySource removes a deck and its entries.
func (s *SQLiteStorage) DeleteDeckBySource(ctx context.Context, sourceFile string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(sourceFile, "sourceFile"); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return deleteDeckBySource(ctx, tx, sourceFile)
	})
}

func deleteDeckBySource(ctx context.Context, q queryable, sourceFile string) error {
	if _, err := q.ExecContext(ctx, `
		DELETE FROM deck_cards WHERE deck_id IN (SELECT id FROM decks WHERE source_file = ?)
	`, sourceFile); err != nil {
		return fmt.Errorf("failed to delete deck cards: %w", err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM decks WHERE source_file = ?`, sourceFile); err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	return nil
}

// GetDeck returns one deck with its entries.
func (s *SQLiteStorage) GetDeck(ctx context.Context, id int64) (*model.Deck, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getDeck(ctx, s.db, id)
}

func getDeck(ctx context.Context, q queryable, id int64) (*model.Deck, error) {
	decks, err := selectDecks(ctx, q, "WHERE id = ?", []any{id})
	if err != nil {
		return nil, err
	}
	if len(decks) == 0 {
		return nil, fmt.Errorf("deck %d: %w", id, common.ErrNotFound)
	}
	if err := attachEntries(ctx, q, decks, "SELECT id FROM decks WHERE id = ?", []any{id}); err != nil {
		return nil, err
	}
	return &decks[0], nil
}

// ListDecks returns deck headers without card entries.
func (s *SQLiteStorage) ListDecks(ctx context.Context, filter model.DeckFilter) ([]model.Deck, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return listDecks(ctx, s.db, filter)
}

func listDecks(ctx context.Context, q queryable, filter model.DeckFilter) ([]model.Deck, error) {
	where, args := deckWhere(filter)
	return selectDecks(ctx, q, where, args)
}

// LoadDecks returns the filtered decks with every entry attached. Resolved
// entries share one CardEntry per card name.
func (s *SQLiteStorage) LoadDecks(ctx context.Context, filter model.DeckFilter) ([]model.Deck, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return loadDecks(ctx, s.db, filter)
}

func loadDecks(ctx context.Context, q queryable, filter model.DeckFilter) ([]model.Deck, error) {
	where, args := deckWhere(filter)
	decks, err := selectDecks(ctx, q, where, args)
	if err != nil {
		return nil, err
	}
	if len(decks) == 0 {
		return decks, nil
	}
	if err := attachEntries(ctx, q, decks, "SELECT id FROM decks "+where, args); err != nil {
		return nil, err
	}
	return decks, nil
}

// deckWhere turns a filter into a WHERE/ORDER/LIMIT tail and its arguments.
func deckWhere(f model.DeckFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.Colors != nil {
		mask := int(*f.Colors)
		switch f.ColorMode {
		case model.ColorModeContains:
			clauses = append(clauses, "(color_mask & ?) = ?")
			args = append(args, mask, mask)
		case model.ColorModeSubset:
			clauses = append(clauses, "(color_mask & ?) = 0")
			args = append(args, int(model.AllColors&^*f.Colors))
		default:
			clauses = append(clauses, "color_mask = ?")
			args = append(args, mask)
		}
	}
	if f.BracketMin > 0 {
		clauses = append(clauses, "bracket >= ?")
		args = append(args, f.BracketMin)
	}
	if f.BracketMax > 0 {
		clauses = append(clauses, "bracket <= ?")
		args = append(args, f.BracketMax)
	}
	if f.CommanderManaValue != nil {
		clauses = append(clauses, "CAST(commander_cmc AS INTEGER) = ?")
		args = append(args, *f.CommanderManaValue)
	}
	if f.Commander != "" {
		clauses = append(clauses, "(commander_name = ? COLLATE NOCASE OR partner_name = ? COLLATE NOCASE)")
		args = append(args, f.Commander, f.Commander)
	}
	if f.Tag != "" {
		clauses = append(clauses, "tag = ?")
		args = append(args, f.Tag)
	}

	var b strings.Builder
	if len(clauses) > 0 {
		b.WriteString("WHERE ")
		b.WriteString(strings.Join(clauses, " AND "))
	}
	b.WriteString(" ORDER BY id")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}
	return b.String(), args
}

func selectDecks(ctx context.Context, q queryable, tail string, args []any) ([]model.Deck, error) {
	rows, err := q.QueryContext(ctx, "SELECT "+deckColumns+" FROM decks "+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query decks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var decks []model.Deck
	for rows.Next() {
		var (
			d                       model.Deck
			source                  string
			cmdName, cmdRaw         string
			cmdResolved             int64
			partnerName, partnerRaw sql.NullString
			partnerResolved         sql.NullInt64
			colorMask               int
		)
		if err := rows.Scan(
			&d.ID, &d.Name, &d.SourceFile, &source,
			&cmdName, &cmdRaw, &cmdResolved,
			&partnerName, &partnerRaw, &partnerResolved,
			&colorMask, &d.Bracket, &d.CommanderManaValue,
			&d.Tag, &d.Builder, &d.ImportBatch, &d.AddedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		d.Source = model.DeckSource(source)
		d.ColorIdentity = model.ColorIdentity(colorMask)
		d.Commanders = []model.Commander{{Name: cmdName, RawName: cmdRaw, Resolved: cmdResolved == 1}}
		if partnerName.Valid {
			d.Commanders = append(d.Commanders, model.Commander{
				Name:     partnerName.String,
				RawName:  partnerRaw.String,
				Resolved: partnerResolved.Valid && partnerResolved.Int64 == 1,
			})
		}
		decks = append(decks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decks: %w", err)
	}
	return decks, nil
}

// attachEntries loads deck_cards for every deck id produced by idQuery.
func attachEntries(ctx context.Context, q queryable, decks []model.Deck, idQuery string, args []any) error {
	index := make(map[int64]int, len(decks))
	for i, d := range decks {
		index[d.ID] = i
	}

	rows, err := q.QueryContext(ctx, `
		SELECT dc.deck_id, dc.card_name, dc.raw_name, dc.resolved, dc.quantity, dc.board, dc.line,
			c.name, c.scryfall_id, c.mana_value, c.mana_cost, c.color_mask, c.type_line,
			c.oracle_text, c.keywords, c.layout
		FROM deck_cards dc
		LEFT JOIN cards c ON dc.resolved = 1 AND c.name = dc.card_name
		WHERE dc.deck_id IN (`+idQuery+`)
		ORDER BY dc.deck_id, dc.id
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to query deck cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := make(map[string]*model.CardEntry)
	for rows.Next() {
		var (
			deckID            int64
			cardName, rawName string
			resolved          int64
			board             string
			entry             model.DeckEntry
			c                 nullableCard
		)
		if err := rows.Scan(
			&deckID, &cardName, &rawName, &resolved, &entry.Quantity, &board, &entry.Line,
			&c.name, &c.id, &c.manaValue, &c.manaCost, &c.colorMask, &c.typeLine,
			&c.oracleText, &c.keywords, &c.layout,
		); err != nil {
			return fmt.Errorf("failed to scan deck card: %w", err)
		}

		entry.RawName = rawName
		entry.Board = model.Board(board)
		if resolved == 1 {
			card, ok := cards[cardName]
			if !ok {
				card = c.toCard(cardName)
				cards[cardName] = card
			}
			entry.Card = card
		}

		i, ok := index[deckID]
		if !ok {
			continue
		}
		decks[i].Entries = append(decks[i].Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate deck cards: %w", err)
	}
	return nil
}

// GetSummary aggregates the stored collection.
func (s *SQLiteStorage) GetSummary(ctx context.Context) (*service.DeckSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getSummary(ctx, s.db)
}

func getSummary(ctx context.Context, q queryable) (*service.DeckSummary, error) {
	summary := &service.DeckSummary{ByBracket: make(map[int]int)}

	scalars := []struct {
		dest  *int
		query string
	}{
		{&summary.TotalDecks, `SELECT COUNT(*) FROM decks`},
		{&summary.UniqueCards, `SELECT COUNT(DISTINCT card_name) FROM deck_cards WHERE resolved = 1`},
		{&summary.TotalEntries, `SELECT COALESCE(SUM(quantity), 0) FROM deck_cards`},
		{&summary.UnresolvedCards, `SELECT COUNT(*) FROM deck_cards WHERE resolved = 0`},
		{&summary.CachedLLM, `SELECT COUNT(*) FROM llm_cache`},
	}
	for _, sc := range scalars {
		if err := q.QueryRowContext(ctx, sc.query).Scan(sc.dest); err != nil {
			return nil, fmt.Errorf("failed to compute summary: %w", err)
		}
	}

	rows, err := q.QueryContext(ctx, `
		SELECT color_mask, COUNT(*) FROM decks
		GROUP BY color_mask
		ORDER BY COUNT(*) DESC, color_mask
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query colors: %w", err)
	}
	for rows.Next() {
		var mask, count int
		if err := rows.Scan(&mask, &count); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan color count: %w", err)
		}
		ci := model.ColorIdentity(mask)
		summary.ByColor = append(summary.ByColor, service.ColorCount{Key: ci.String(), Name: ci.Name(), Count: count})
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate colors: %w", err)
	}

	rows, err = q.QueryContext(ctx, `SELECT bracket, COUNT(*) FROM decks GROUP BY bracket`)
	if err != nil {
		return nil, fmt.Errorf("failed to query brackets: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var bracket, count int
		if err := rows.Scan(&bracket, &count); err != nil {
			return nil, fmt.Errorf("failed to scan bracket count: %w", err)
		}
		summary.ByBracket[bracket] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate brackets: %w", err)
	}

	return summary, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
