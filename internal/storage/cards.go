package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Veraticus/deckstat/internal/common"
	"github.com/Veraticus/deckstat/internal/model"
)

const cardColumns = `name, scryfall_id, mana_value, mana_cost, color_mask, type_line, oracle_text, keywords, layout`

// nullableCard scans card columns that may come from a LEFT JOIN.
type nullableCard struct {
	name       sql.NullString
	id         sql.NullString
	manaCost   sql.NullString
	typeLine   sql.NullString
	oracleText sql.NullString
	keywords   sql.NullString
	layout     sql.NullString
	manaValue  sql.NullFloat64
	colorMask  sql.NullInt64
}

func (c nullableCard) toCard(fallbackName string) *model.CardEntry {
	card := &model.CardEntry{
		ID:            c.id.String,
		Name:          c.name.String,
		ManaCost:      c.manaCost.String,
		TypeLine:      c.typeLine.String,
		OracleText:    c.oracleText.String,
		Layout:        c.layout.String,
		ManaValue:     c.manaValue.Float64,
		ColorIdentity: model.ColorIdentity(c.colorMask.Int64),
	}
	if !c.name.Valid {
		card.Name = fallbackName
	}
	if c.keywords.Valid && c.keywords.String != "" {
		_ = json.Unmarshal([]byte(c.keywords.String), &card.Keywords)
	}
	return card
}

// UpsertCards stores card metadata. New cards take their categories from
// the map (or "other"); existing cards only have categories replaced while
// they are still rule-assigned.
func (s *SQLiteStorage) UpsertCards(ctx context.Context, cards []model.CardEntry, categories model.CategoryMap) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(cards) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return upsertCards(ctx, tx, cards, categories)
	})
}

func upsertCards(ctx context.Context, q queryable, cards []model.CardEntry, categories model.CategoryMap) error {
	for _, c := range cards {
		if err := validateString(c.Name, "card name"); err != nil {
			return err
		}

		keywords, err := json.Marshal(nonNil(c.Keywords))
		if err != nil {
			return fmt.Errorf("failed to encode keywords for %s: %w", c.Name, err)
		}

		var cats any
		if labels, ok := categories[c.Name]; ok && len(labels) > 0 {
			encoded, err := json.Marshal(labels)
			if err != nil {
				return fmt.Errorf("failed to encode categories for %s: %w", c.Name, err)
			}
			cats = string(encoded)
		}

		_, err = q.ExecContext(ctx, `
			INSERT INTO cards (`+cardColumns+`, categories, categories_source, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, COALESCE(?, '["other"]'), 'rules', CURRENT_TIMESTAMP)
			ON CONFLICT(name) DO UPDATE SET
				scryfall_id = excluded.scryfall_id,
				mana_value = excluded.mana_value,
				mana_cost = excluded.mana_cost,
				color_mask = excluded.color_mask,
				type_line = excluded.type_line,
				oracle_text = excluded.oracle_text,
				keywords = excluded.keywords,
				layout = excluded.layout,
				categories = CASE
					WHEN cards.categories_source = 'rules' AND ? IS NOT NULL THEN excluded.categories
					ELSE cards.categories
				END,
				updated_at = CURRENT_TIMESTAMP
		`,
			c.Name, c.ID, c.ManaValue, c.ManaCost, int(c.ColorIdentity), c.TypeLine,
			c.OracleText, string(keywords), c.Layout, cats, cats,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert card %s: %w", c.Name, err)
		}
	}
	return nil
}

// GetCard returns stored metadata for one card.
func (s *SQLiteStorage) GetCard(ctx context.Context, name string) (*model.CardEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return getCard(ctx, s.db, name)
}

func getCard(ctx context.Context, q queryable, name string) (*model.CardEntry, error) {
	var c nullableCard
	err := q.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE name = ?`, name).Scan(
		&c.name, &c.id, &c.manaValue, &c.manaCost, &c.colorMask, &c.typeLine,
		&c.oracleText, &c.keywords, &c.layout,
	)
	if isNoRows(err) {
		return nil, fmt.Errorf("card %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return c.toCard(name), nil
}

// GetCategoryMap returns the labels of every stored card.
func (s *SQLiteStorage) GetCategoryMap(ctx context.Context) (model.CategoryMap, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getCategoryMap(ctx, s.db)
}

func getCategoryMap(ctx context.Context, q queryable) (model.CategoryMap, error) {
	all, err := listCardCategories(ctx, q, "")
	if err != nil {
		return nil, err
	}
	out := make(model.CategoryMap, len(all))
	for _, cc := range all {
		out[cc.Name] = cc.Categories
	}
	return out, nil
}

// GetCardCategories returns one card's labels and their source.
func (s *SQLiteStorage) GetCardCategories(ctx context.Context, name string) (*model.CardCategories, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return getCardCategories(ctx, s.db, name)
}

func getCardCategories(ctx context.Context, q queryable, name string) (*model.CardCategories, error) {
	var raw, source string
	err := q.QueryRowContext(ctx, `
		SELECT categories, categories_source FROM cards WHERE name = ?
	`, name).Scan(&raw, &source)
	if isNoRows(err) {
		return nil, fmt.Errorf("card %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	cats, err := decodeCategories(raw)
	if err != nil {
		return nil, fmt.Errorf("card %q: %w", name, err)
	}
	return &model.CardCategories{Name: name, Categories: cats, Source: model.CategorySource(source)}, nil
}

// SetCardCategories replaces a card's labels. Manual labels are only ever
// replaced by other manual labels; automated writes over them are ignored.
func (s *SQLiteStorage) SetCardCategories(ctx context.Context, name string, categories []model.Category, source model.CategorySource) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategories(name, categories, source); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return setCardCategories(ctx, tx, name, categories, source)
	})
}

func setCardCategories(ctx context.Context, q queryable, name string, categories []model.Category, source model.CategorySource) error {
	var current string
	err := q.QueryRowContext(ctx, `SELECT categories_source FROM cards WHERE name = ?`, name).Scan(&current)
	if isNoRows(err) {
		return fmt.Errorf("card %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read category source: %w", err)
	}

	if model.CategorySource(current) == model.CategorySourceManual && source != model.CategorySourceManual {
		slog.Debug("Keeping manual categories", "card", name, "ignored_source", source)
		return nil
	}

	encoded, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to encode categories: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		UPDATE cards SET categories = ?, categories_source = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, string(encoded), string(source), name)
	if err != nil {
		return fmt.Errorf("failed to update categories: %w", err)
	}
	return nil
}

// ListCardCategories lists labels for every card, or only those from source.
func (s *SQLiteStorage) ListCardCategories(ctx context.Context, source model.CategorySource) ([]model.CardCategories, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return listCardCategories(ctx, s.db, source)
}

func listCardCategories(ctx context.Context, q queryable, source model.CategorySource) ([]model.CardCategories, error) {
	query := `SELECT name, categories, categories_source FROM cards`
	var args []any
	if source != "" {
		query += ` WHERE categories_source = ?`
		args = append(args, string(source))
	}
	query += ` ORDER BY name`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.CardCategories
	for rows.Next() {
		var name, raw, src string
		if err := rows.Scan(&name, &raw, &src); err != nil {
			return nil, fmt.Errorf("failed to scan categories: %w", err)
		}
		cats, err := decodeCategories(raw)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", name, err)
		}
		out = append(out, model.CardCategories{Name: name, Categories: cats, Source: model.CategorySource(src)})
	}
	return out, rows.Err()
}

// GetUncategorizedCards returns cards still labeled only "other" that have
// oracle text and no manual override.
func (s *SQLiteStorage) GetUncategorizedCards(ctx context.Context, limit int) ([]model.CardEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getUncategorizedCards(ctx, s.db, limit)
}

func getUncategorizedCards(ctx context.Context, q queryable, limit int) ([]model.CardEntry, error) {
	query := `SELECT ` + cardColumns + ` FROM cards
		WHERE categories = '["other"]'
			AND categories_source != 'manual'
			AND oracle_text != ''
		ORDER BY name`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query uncategorized cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.CardEntry
	for rows.Next() {
		var c nullableCard
		if err := rows.Scan(
			&c.name, &c.id, &c.manaValue, &c.manaCost, &c.colorMask, &c.typeLine,
			&c.oracleText, &c.keywords, &c.layout,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		out = append(out, *c.toCard(""))
	}
	return out, rows.Err()
}

func decodeCategories(raw string) ([]model.Category, error) {
	var cats []model.Category
	if err := json.Unmarshal([]byte(raw), &cats); err != nil {
		return nil, fmt.Errorf("failed to decode categories %q: %w", raw, err)
	}
	return cats, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
