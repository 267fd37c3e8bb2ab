package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/anrtools/anr-companion/internal/anr/legality"
)

// ErrDeckNotFound is returned when a deck id does not exist.
var ErrDeckNotFound = errors.New("deck not found")

// StoredLine is one card line of a saved deck, referenced by card code so
// the deck survives card data refreshes.
type StoredLine struct {
	Code string `json:"code"`
	Qty  int    `json:"qty"`
}

// StoredDeck is a saved deck plus its last computed legality status.
type StoredDeck struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	IdentityCode string               `json:"identity_code"`
	Lines        []StoredLine         `json:"lines"`
	Status       *legality.DeckStatus `json:"status,omitempty"`
	CheckedAt    time.Time            `json:"checked_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// SaveDeck inserts or updates a deck. A deck without an ID gets one assigned.
func (db *DB) SaveDeck(ctx context.Context, deck *StoredDeck) error {
	if deck == nil {
		return fmt.Errorf("deck cannot be nil")
	}
	now := time.Now().UTC()
	if deck.ID == "" {
		deck.ID = uuid.NewString()
		deck.CreatedAt = now
	}
	deck.UpdatedAt = now

	lines, err := json.Marshal(deck.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode deck lines: %w", err)
	}

	var status sql.NullString
	if deck.Status != nil {
		raw, err := json.Marshal(deck.Status)
		if err != nil {
			return fmt.Errorf("failed to encode deck status: %w", err)
		}
		status = sql.NullString{String: string(raw), Valid: true}
	}

	var checkedAt sql.NullString
	if !deck.CheckedAt.IsZero() {
		checkedAt = sql.NullString{String: deck.CheckedAt.Format(timeFormat), Valid: true}
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO decks (id, name, identity_code, lines, status, checked_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			identity_code = excluded.identity_code,
			lines = excluded.lines,
			status = excluded.status,
			checked_at = excluded.checked_at,
			updated_at = excluded.updated_at`,
		deck.ID, deck.Name, deck.IdentityCode, string(lines), status, checkedAt,
		deck.CreatedAt.Format(timeFormat), deck.UpdatedAt.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to save deck: %w", err)
	}
	return nil
}

// GetDeck returns one deck by id.
func (db *DB) GetDeck(ctx context.Context, id string) (*StoredDeck, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, name, identity_code, lines, status, checked_at, created_at, updated_at
		FROM decks WHERE id = ?`, id)

	deck, err := scanDeck(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeckNotFound
	}
	if err != nil {
		return nil, err
	}
	return deck, nil
}

// ListDecks returns all saved decks, newest first.
func (db *DB) ListDecks(ctx context.Context) ([]*StoredDeck, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, identity_code, lines, status, checked_at, created_at, updated_at
		FROM decks ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query decks: %w", err)
	}
	defer rows.Close()

	var decks []*StoredDeck
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, err
		}
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decks: %w", err)
	}
	return decks, nil
}

// DeleteDeck removes a deck by id.
func (db *DB) DeleteDeck(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if n == 0 {
		return ErrDeckNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(row rowScanner) (*StoredDeck, error) {
	var deck StoredDeck
	var lines string
	var status, checkedAt sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&deck.ID, &deck.Name, &deck.IdentityCode, &lines, &status,
		&checkedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(lines), &deck.Lines); err != nil {
		return nil, fmt.Errorf("failed to decode deck lines: %w", err)
	}
	if status.Valid {
		deck.Status = &legality.DeckStatus{}
		if err := json.Unmarshal([]byte(status.String), deck.Status); err != nil {
			return nil, fmt.Errorf("failed to decode deck status: %w", err)
		}
	}
	if checkedAt.Valid {
		t, err := time.Parse(timeFormat, checkedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse deck check time: %w", err)
		}
		deck.CheckedAt = t
	}
	if deck.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse deck create time: %w", err)
	}
	if deck.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse deck update time: %w", err)
	}
	return &deck, nil
}
