package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/anrtools/anr-companion/internal/anr/cards"
	"github.com/anrtools/anr-companion/internal/anr/snapshot"
	"github.com/anrtools/anr-companion/internal/api/response"
)

// CardHandler serves card, set, and banned-list data from the current
// snapshot.
type CardHandler struct {
	snapshots *snapshot.Store
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(snapshots *snapshot.Store) *CardHandler {
	return &CardHandler{snapshots: snapshots}
}

// GetCards returns all cards, optionally filtered by side, faction, or type.
func (h *CardHandler) GetCards(w http.ResponseWriter, r *http.Request) {
	side := r.URL.Query().Get("side")
	faction := r.URL.Query().Get("faction")
	cardType := r.URL.Query().Get("type")

	all := h.snapshots.Current().AllCards()
	filtered := make([]*cards.Card, 0, len(all))
	for _, card := range all {
		if side != "" && !strings.EqualFold(card.Side, side) {
			continue
		}
		if faction != "" && !strings.EqualFold(card.Faction, faction) {
			continue
		}
		if cardType != "" && !strings.EqualFold(card.Type, cardType) {
			continue
		}
		filtered = append(filtered, card)
	}

	response.Success(w, filtered)
}

// GetCard returns a single card by code.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		response.BadRequest(w, errors.New("card code is required"))
		return
	}

	card, ok := h.snapshots.Current().Card(code)
	if !ok {
		response.NotFound(w, errors.New("card not found"))
		return
	}
	response.Success(w, card)
}

// GetCardByTitle returns a single card by title, matched case-insensitively.
func (h *CardHandler) GetCardByTitle(w http.ResponseWriter, r *http.Request) {
	title := chi.URLParam(r, "title")
	if title == "" {
		response.BadRequest(w, errors.New("card title is required"))
		return
	}

	card, ok := h.snapshots.Current().CardByTitle(title)
	if !ok {
		response.NotFound(w, errors.New("card not found"))
		return
	}
	response.Success(w, card)
}

// GetSets returns all card sets.
func (h *CardHandler) GetSets(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.snapshots.Current().Sets())
}

// GetMWL returns the active banned/restricted list, or 404 when none is
// loaded.
func (h *CardHandler) GetMWL(w http.ResponseWriter, r *http.Request) {
	mwl := h.snapshots.Current().MWL()
	if mwl == nil {
		response.NotFound(w, errors.New("no banned list loaded"))
		return
	}
	response.Success(w, mwl)
}
