package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ramonehamilton/RideCore-Companion/internal/cards"
)

// ImportCatalog upserts catalog records keyed by collector number.
// The whole import runs in one transaction so a failed import never
// leaves a half-written catalog behind.
func (db *DB) ImportCatalog(ctx context.Context, records []cards.Card) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (number, name, grade, card_type, clan, set_name, power, shield, effect, image)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(number) DO UPDATE SET
			name = excluded.name,
			grade = excluded.grade,
			card_type = excluded.card_type,
			clan = excluded.clan,
			set_name = excluded.set_name,
			power = excluded.power,
			shield = excluded.shield,
			effect = excluded.effect,
			image = excluded.image`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	imported := 0
	for _, card := range records {
		effect, err := json.Marshal(card.Effect)
		if err != nil {
			return imported, fmt.Errorf("failed to encode effect for %s: %w", card.Name, err)
		}
		if _, err := stmt.ExecContext(ctx,
			card.Number, card.Name, int(card.Grade), card.Type, card.Clan,
			card.Set, string(card.Power), string(card.Shield), string(effect), card.Image,
		); err != nil {
			return imported, fmt.Errorf("failed to upsert card %d (%s): %w", card.Number, card.Name, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return imported, fmt.Errorf("failed to commit import: %w", err)
	}
	return imported, nil
}

// LoadCatalog reads all stored cards in collector-number order.
func (db *DB) LoadCatalog(ctx context.Context) ([]cards.Card, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT number, name, grade, card_type, clan, set_name, power, shield, effect, image
		FROM cards
		ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []cards.Card
	for rows.Next() {
		var (
			card   cards.Card
			grade  int
			power  string
			shield string
			effect string
		)
		if err := rows.Scan(&card.Number, &card.Name, &grade, &card.Type,
			&card.Clan, &card.Set, &power, &shield, &effect, &card.Image); err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		card.Grade = cards.Grade(grade)
		card.Power = cards.StatValue(power)
		card.Shield = cards.StatValue(shield)
		if err := json.Unmarshal([]byte(effect), &card.Effect); err != nil {
			return nil, fmt.Errorf("failed to decode effect for %s: %w", card.Name, err)
		}
		records = append(records, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card rows: %w", err)
	}

	return records, nil
}

// GetCard returns a single card by name. sql.ErrNoRows signals absence.
func (db *DB) GetCard(ctx context.Context, name string) (*cards.Card, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT number, name, grade, card_type, clan, set_name, power, shield, effect, image
		FROM cards
		WHERE name = ?
		ORDER BY number DESC
		LIMIT 1`, name)

	var (
		card   cards.Card
		grade  int
		power  string
		shield string
		effect string
	)
	err := row.Scan(&card.Number, &card.Name, &grade, &card.Type,
		&card.Clan, &card.Set, &power, &shield, &effect, &card.Image)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("card %q not found: %w", name, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load card %q: %w", name, err)
	}
	card.Grade = cards.Grade(grade)
	card.Power = cards.StatValue(power)
	card.Shield = cards.StatValue(shield)
	if err := json.Unmarshal([]byte(effect), &card.Effect); err != nil {
		return nil, fmt.Errorf("failed to decode effect for %s: %w", card.Name, err)
	}

	return &card, nil
}

// CountCards returns the number of stored cards.
func (db *DB) CountCards(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM cards`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return count, nil
}
