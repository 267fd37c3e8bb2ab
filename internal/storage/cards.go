package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anrtools/anr-companion/internal/anr/cards"
)

// timeFormat is how timestamps are stored in the database.
const timeFormat = time.RFC3339

// UpsertCards replaces the stored card pool with the given cards inside a
// single transaction.
func (db *DB) UpsertCards(ctx context.Context, pool []*cards.Card) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards`); err != nil {
		return fmt.Errorf("failed to clear cards: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cards (
			code, title, side, faction, type, faction_cost, agenda_points,
			limited, pack_quantity, set_name, rotated, normalized_title,
			minimum_deck_size, influence_limit
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare card insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range pool {
		var agendaPoints sql.NullInt64
		if c.AgendaPoints != nil {
			agendaPoints = sql.NullInt64{Int64: int64(*c.AgendaPoints), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			c.Code, c.Title, c.Side, c.Faction, c.Type, c.FactionCost,
			agendaPoints, c.Limited, c.PackQuantity, c.SetName, c.Rotated,
			c.NormalizedTitle, c.MinimumDeckSize, c.InfluenceLimit,
		)
		if err != nil {
			return fmt.Errorf("failed to insert card %s: %w", c.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cards: %w", err)
	}
	return nil
}

// UpsertSets replaces the stored card sets.
func (db *DB) UpsertSets(ctx context.Context, sets []cards.CardSet) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM card_sets`); err != nil {
		return fmt.Errorf("failed to clear card sets: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO card_sets (name, cycle, cycle_position, big_box, available, rotated)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare set insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range sets {
		available := ""
		if !s.Available.IsZero() {
			available = s.Available.Format(timeFormat)
		}
		_, err := stmt.ExecContext(ctx, s.Name, s.Cycle, s.CyclePosition, s.BigBox, available, s.Rotated)
		if err != nil {
			return fmt.Errorf("failed to insert card set %s: %w", s.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit card sets: %w", err)
	}
	return nil
}

// SaveMWL replaces the stored most wanted list. A nil mwl clears it.
func (db *DB) SaveMWL(ctx context.Context, mwl *cards.MWL) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mwl`); err != nil {
		return fmt.Errorf("failed to clear mwl: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM mwl_cards`); err != nil {
		return fmt.Errorf("failed to clear mwl cards: %w", err)
	}

	if mwl != nil {
		dateStart := ""
		if !mwl.DateStart.IsZero() {
			dateStart = mwl.DateStart.Format(timeFormat)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO mwl (id, name, date_start) VALUES (1, ?, ?)`,
			mwl.Name, dateStart,
		); err != nil {
			return fmt.Errorf("failed to insert mwl: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO mwl_cards (card_key, deck_limit, is_restricted)
			VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare mwl card insert: %w", err)
		}
		defer stmt.Close()

		for key, entry := range mwl.Cards {
			var deckLimit sql.NullInt64
			if entry.DeckLimit != nil {
				deckLimit = sql.NullInt64{Int64: int64(*entry.DeckLimit), Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, key, deckLimit, entry.IsRestricted); err != nil {
				return fmt.Errorf("failed to insert mwl card %s: %w", key, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit mwl: %w", err)
	}
	return nil
}

// AllCards returns every stored card.
func (db *DB) AllCards(ctx context.Context) ([]*cards.Card, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT code, title, side, faction, type, faction_cost, agenda_points,
		       limited, pack_quantity, set_name, rotated, normalized_title,
		       minimum_deck_size, influence_limit
		FROM cards ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var pool []*cards.Card
	for rows.Next() {
		var c cards.Card
		var agendaPoints sql.NullInt64
		err := rows.Scan(
			&c.Code, &c.Title, &c.Side, &c.Faction, &c.Type, &c.FactionCost,
			&agendaPoints, &c.Limited, &c.PackQuantity, &c.SetName, &c.Rotated,
			&c.NormalizedTitle, &c.MinimumDeckSize, &c.InfluenceLimit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		if agendaPoints.Valid {
			n := int(agendaPoints.Int64)
			c.AgendaPoints = &n
		}
		pool = append(pool, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}
	return pool, nil
}

// CardSets returns every stored card set.
func (db *DB) CardSets(ctx context.Context) ([]cards.CardSet, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, cycle, cycle_position, big_box, available, rotated
		FROM card_sets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query card sets: %w", err)
	}
	defer rows.Close()

	var sets []cards.CardSet
	for rows.Next() {
		var s cards.CardSet
		var available string
		if err := rows.Scan(&s.Name, &s.Cycle, &s.CyclePosition, &s.BigBox, &available, &s.Rotated); err != nil {
			return nil, fmt.Errorf("failed to scan card set: %w", err)
		}
		if available != "" {
			t, err := time.Parse(timeFormat, available)
			if err != nil {
				return nil, fmt.Errorf("failed to parse availability date for %s: %w", s.Name, err)
			}
			s.Available = t
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card sets: %w", err)
	}
	return sets, nil
}

// ActiveMWL returns the stored most wanted list, or nil when none is stored.
func (db *DB) ActiveMWL(ctx context.Context) (*cards.MWL, error) {
	var mwl cards.MWL
	var dateStart string
	err := db.conn.QueryRowContext(ctx, `SELECT name, date_start FROM mwl WHERE id = 1`).
		Scan(&mwl.Name, &dateStart)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query mwl: %w", err)
	}
	if dateStart != "" {
		t, err := time.Parse(timeFormat, dateStart)
		if err != nil {
			return nil, fmt.Errorf("failed to parse mwl start date: %w", err)
		}
		mwl.DateStart = t
	}

	rows, err := db.conn.QueryContext(ctx, `SELECT card_key, deck_limit, is_restricted FROM mwl_cards`)
	if err != nil {
		return nil, fmt.Errorf("failed to query mwl cards: %w", err)
	}
	defer rows.Close()

	mwl.Cards = make(map[string]cards.MWLEntry)
	for rows.Next() {
		var key string
		var deckLimit sql.NullInt64
		var entry cards.MWLEntry
		if err := rows.Scan(&key, &deckLimit, &entry.IsRestricted); err != nil {
			return nil, fmt.Errorf("failed to scan mwl card: %w", err)
		}
		if deckLimit.Valid {
			n := int(deckLimit.Int64)
			entry.DeckLimit = &n
		}
		mwl.Cards[key] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate mwl cards: %w", err)
	}
	return &mwl, nil
}
