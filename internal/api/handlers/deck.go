// Package handlers implements the HTTP handlers for the REST API.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anrtools/anr-companion/internal/anr/decklist"
	"github.com/anrtools/anr-companion/internal/anr/legality"
	"github.com/anrtools/anr-companion/internal/anr/snapshot"
	"github.com/anrtools/anr-companion/internal/api/response"
	"github.com/anrtools/anr-companion/internal/metrics"
	"github.com/anrtools/anr-companion/internal/storage"
)

// DeckHandler handles deck-related API requests.
type DeckHandler struct {
	snapshots *snapshot.Store
	engine    *legality.Engine
	db        *storage.DB
	metrics   *metrics.EngineMetrics
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(snapshots *snapshot.Store, engine *legality.Engine, db *storage.DB, m *metrics.EngineMetrics) *DeckHandler {
	return &DeckHandler{snapshots: snapshots, engine: engine, db: db, metrics: m}
}

// DeckView is the API representation of a saved deck.
type DeckView struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	IdentityCode string               `json:"identity_code"`
	Identity     string               `json:"identity,omitempty"`
	CardCount    int                  `json:"card_count"`
	Lines        []storage.StoredLine `json:"lines"`
	Status       *legality.DeckStatus `json:"status,omitempty"`
	CheckedAt    *time.Time           `json:"checked_at,omitempty"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func (h *DeckHandler) deckView(stored *storage.StoredDeck) *DeckView {
	view := &DeckView{
		ID:           stored.ID,
		Name:         stored.Name,
		IdentityCode: stored.IdentityCode,
		Lines:        stored.Lines,
		Status:       stored.Status,
		UpdatedAt:    stored.UpdatedAt,
	}
	for _, line := range stored.Lines {
		view.CardCount += line.Qty
	}
	if !stored.CheckedAt.IsZero() {
		t := stored.CheckedAt
		view.CheckedAt = &t
	}
	if card, ok := h.snapshots.Current().Card(stored.IdentityCode); ok {
		view.Identity = card.Title
	}
	return view
}

// resolveDeck turns a stored deck back into a rules-engine deck using the
// current snapshot. Cards that dropped out of the pool are an error.
func resolveDeck(snap *snapshot.Snapshot, stored *storage.StoredDeck) (*legality.Deck, error) {
	deck := &legality.Deck{
		Status: stored.Status,
		Date:   stored.CheckedAt,
	}
	if stored.IdentityCode != "" {
		identity, ok := snap.Card(stored.IdentityCode)
		if !ok {
			return nil, fmt.Errorf("unknown identity code %s", stored.IdentityCode)
		}
		deck.Identity = identity
	}
	for _, line := range stored.Lines {
		card, ok := snap.Card(line.Code)
		if !ok {
			return nil, fmt.Errorf("unknown card code %s", line.Code)
		}
		deck.Cards = append(deck.Cards, legality.DeckLine{Card: card, Qty: line.Qty})
	}
	return deck, nil
}

// storedLines converts parsed deck lines to their stored representation.
func storedLines(deck *legality.Deck) []storage.StoredLine {
	lines := make([]storage.StoredLine, 0, len(deck.Cards))
	for _, line := range deck.Cards {
		lines = append(lines, storage.StoredLine{Code: line.Card.Code, Qty: line.Qty})
	}
	return lines
}

// GetDecks returns all saved decks.
func (h *DeckHandler) GetDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.db.ListDecks(r.Context())
	if err != nil {
		response.InternalError(w, err)
		return
	}

	views := make([]*DeckView, 0, len(decks))
	for _, deck := range decks {
		views = append(views, h.deckView(deck))
	}
	response.Success(w, views)
}

// CreateDeckRequest represents a request to create a deck from a plain-text
// deck list.
type CreateDeckRequest struct {
	Name string `json:"name"`
	List string `json:"list"`
}

// CreateDeck parses a deck list, checks it, and stores it.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req CreateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}
	if req.Name == "" {
		response.BadRequest(w, errors.New("deck name is required"))
		return
	}

	snap := h.snapshots.Current()
	parsed, err := decklist.NewParser(snap).Parse(req.List)
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	if len(parsed.Errors) > 0 {
		response.BadRequest(w, fmt.Errorf("deck list rejected: %s", parsed.Errors[0]))
		return
	}

	status := h.checkDeck(parsed.Deck, snap)

	stored := &storage.StoredDeck{
		Name:         req.Name,
		IdentityCode: parsed.Deck.Identity.Code,
		Lines:        storedLines(parsed.Deck),
		Status:       status,
		CheckedAt:    time.Now().UTC(),
	}
	if err := h.db.SaveDeck(r.Context(), stored); err != nil {
		response.InternalError(w, err)
		return
	}

	response.Created(w, h.deckView(stored))
}

// GetDeck returns a single deck by ID.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	stored, err := h.loadDeck(w, r)
	if stored == nil || err != nil {
		return
	}
	response.Success(w, h.deckView(stored))
}

// UpdateDeckRequest represents a request to update a deck. Omitted fields
// are left unchanged.
type UpdateDeckRequest struct {
	Name *string `json:"name,omitempty"`
	List *string `json:"list,omitempty"`
}

// UpdateDeck updates a deck's name or contents.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	stored, err := h.loadDeck(w, r)
	if stored == nil || err != nil {
		return
	}

	var req UpdateDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	if req.Name != nil {
		if *req.Name == "" {
			response.BadRequest(w, errors.New("deck name cannot be empty"))
			return
		}
		stored.Name = *req.Name
	}

	if req.List != nil {
		snap := h.snapshots.Current()
		parsed, err := decklist.NewParser(snap).Parse(*req.List)
		if err != nil {
			response.BadRequest(w, err)
			return
		}
		if len(parsed.Errors) > 0 {
			response.BadRequest(w, fmt.Errorf("deck list rejected: %s", parsed.Errors[0]))
			return
		}
		stored.IdentityCode = parsed.Deck.Identity.Code
		stored.Lines = storedLines(parsed.Deck)
		stored.Status = h.checkDeck(parsed.Deck, snap)
		stored.CheckedAt = time.Now().UTC()
	}

	if err := h.db.SaveDeck(r.Context(), stored); err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, h.deckView(stored))
}

// DeleteDeck removes a deck.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")
	if deckID == "" {
		response.BadRequest(w, errors.New("deck ID is required"))
		return
	}

	err := h.db.DeleteDeck(r.Context(), deckID)
	if errors.Is(err, storage.ErrDeckNotFound) {
		response.NotFound(w, err)
		return
	}
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.NoContent(w)
}

// GetDeckStatus returns the deck's legality status, reusing the stored
// status when it is still trustworthy and recomputing it otherwise.
func (h *DeckHandler) GetDeckStatus(w http.ResponseWriter, r *http.Request) {
	stored, err := h.loadDeck(w, r)
	if stored == nil || err != nil {
		return
	}

	snap := h.snapshots.Current()
	deck, err := resolveDeck(snap, stored)
	if err != nil {
		response.InternalError(w, err)
		return
	}

	status := h.engine.TrustedDeckStatus(deck, snap.Sets(), snap.MWL())
	if status == stored.Status {
		if h.metrics != nil {
			h.metrics.IncrementStatusCacheHits()
		}
	} else {
		// Recomputed; persist the fresh result.
		stored.Status = status
		stored.CheckedAt = time.Now().UTC()
		if err := h.db.SaveDeck(r.Context(), stored); err != nil {
			response.InternalError(w, err)
			return
		}
	}

	response.Success(w, status)
}

// CheckDeckRequest represents a request to check a deck list without saving
// it.
type CheckDeckRequest struct {
	List string `json:"list"`
}

// CheckDeckResponse carries the check verdict plus any parse diagnostics.
type CheckDeckResponse struct {
	Status   *legality.DeckStatus `json:"status"`
	Errors   []string             `json:"errors,omitempty"`
	Warnings []string             `json:"warnings,omitempty"`
}

// CheckDeck parses and checks a deck list in one shot.
func (h *DeckHandler) CheckDeck(w http.ResponseWriter, r *http.Request) {
	var req CheckDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	snap := h.snapshots.Current()
	parsed, err := decklist.NewParser(snap).Parse(req.List)
	if err != nil {
		response.BadRequest(w, err)
		return
	}

	response.Success(w, CheckDeckResponse{
		Status:   h.checkDeck(parsed.Deck, snap),
		Errors:   parsed.Errors,
		Warnings: parsed.Warnings,
	})
}

// ParseDeckList parses a deck list without checking or saving it.
func (h *DeckHandler) ParseDeckList(w http.ResponseWriter, r *http.Request) {
	var req CheckDeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, errors.New("invalid request body"))
		return
	}

	start := time.Now()
	parsed, err := decklist.NewParser(h.snapshots.Current()).Parse(req.List)
	if err != nil {
		response.BadRequest(w, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordParseDuration(time.Since(start))
	}

	response.Success(w, parsed)
}

// checkDeck runs the full status calculation and records its latency.
func (h *DeckHandler) checkDeck(deck *legality.Deck, snap *snapshot.Snapshot) *legality.DeckStatus {
	start := time.Now()
	status := h.engine.CalculateDeckStatus(deck, snap.Sets(), snap.MWL())
	if h.metrics != nil {
		h.metrics.RecordCheckDuration(time.Since(start))
	}
	return status
}

// loadDeck fetches the deck named by the request path, writing the error
// response itself when the deck cannot be loaded.
func (h *DeckHandler) loadDeck(w http.ResponseWriter, r *http.Request) (*storage.StoredDeck, error) {
	deckID := chi.URLParam(r, "deckID")
	if deckID == "" {
		err := errors.New("deck ID is required")
		response.BadRequest(w, err)
		return nil, err
	}

	stored, err := h.db.GetDeck(r.Context(), deckID)
	if errors.Is(err, storage.ErrDeckNotFound) {
		response.NotFound(w, err)
		return nil, err
	}
	if err != nil {
		response.InternalError(w, err)
		return nil, err
	}
	return stored, nil
}
