package legality

import "github.com/anrtools/anr-companion/internal/anr/cards"

// CalculateDeckStatus runs every evaluator against one consistent snapshot
// of the card pool and folds the results into a DeckStatus.
func (e *Engine) CalculateDeckStatus(deck *Deck, sets []cards.CardSet, mwl *cards.MWL) *DeckStatus {
	status := &DeckStatus{
		Formats: map[string]FormatResult{
			FormatValid:        ValidateDeck(deck),
			FormatMWL:          ValidateMWL(mwl, deck),
			FormatRotation:     e.ValidateRotation(sets, deck),
			FormatOnesies:      e.OnesiesLegal(sets, deck),
			FormatCacheRefresh: e.CacheRefreshLegal(sets, deck),
			FormatSOCR:         e.SOCRLegal(sets, deck),
			FormatModded:       e.ModdedLegal(sets, deck),
		},
	}
	status.Overall = CheckDeckStatus(status)
	return status
}

// CheckDeckStatus derives the overall classification: legal when the deck
// passes construction, the banned/restricted list, and rotation; casual when
// only construction passes; invalid otherwise.
func CheckDeckStatus(status *DeckStatus) string {
	if status == nil {
		return StatusInvalid
	}
	valid := status.Formats[FormatValid].Legal
	mwl := status.Formats[FormatMWL].Legal
	rotation := status.Formats[FormatRotation].Legal

	switch {
	case valid && mwl && rotation:
		return StatusLegal
	case valid:
		return StatusCasual
	default:
		return StatusInvalid
	}
}

// TrustedDeckStatus returns the deck's cached status when it was computed
// strictly after the banned/restricted list took effect, and recomputes
// otherwise. Staleness is decided purely by date comparison.
func (e *Engine) TrustedDeckStatus(deck *Deck, sets []cards.CardSet, mwl *cards.MWL) *DeckStatus {
	if deck.Status != nil && mwl != nil && deck.Date.After(mwl.DateStart) {
		return deck.Status
	}
	return e.CalculateDeckStatus(deck, sets, mwl)
}
