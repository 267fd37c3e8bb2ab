package legality

import "github.com/anrtools/anr-companion/internal/anr/cards"

const rotationDescription = "Released and non-rotated sets only"

func findSet(sets []cards.CardSet, name string) (cards.CardSet, bool) {
	for _, set := range sets {
		if set.Name == name {
			return set, true
		}
	}
	return cards.CardSet{}, false
}

// IsReleased reports whether a card's set is in the current card pool: the
// set exists in the catalog, has not rotated, and its release date is
// strictly in the past. An unknown set name counts as unreleased.
func (e *Engine) IsReleased(sets []cards.CardSet, card *cards.Card) bool {
	if card == nil {
		return false
	}
	set, ok := findSet(sets, card.SetName)
	if !ok {
		return false
	}
	return !set.Rotated && !set.Available.IsZero() && set.Available.Before(e.now())
}

// OnlyInRotation reports whether the identity and every card line belong to
// released, non-rotated sets.
func (e *Engine) OnlyInRotation(sets []cards.CardSet, deck *Deck) bool {
	return e.ValidateRotation(sets, deck).Legal
}

// ValidateRotation checks the deck against the current card pool, reporting
// each card whose set is rotated, unreleased, or unknown.
func (e *Engine) ValidateRotation(sets []cards.CardSet, deck *Deck) FormatResult {
	var vs []violation

	if deck.Identity == nil {
		vs = append(vs, violation{category: "Deck has no identity"})
	} else if !e.IsReleased(sets, deck.Identity) {
		vs = append(vs, violation{
			category: "Identity not in the current card pool",
			example:  deck.Identity.Title,
		})
	}
	for _, line := range deck.Cards {
		if line.Card == nil {
			vs = append(vs, violation{category: "Deck contains an unresolved card line"})
			continue
		}
		if !e.IsReleased(sets, line.Card) {
			vs = append(vs, violation{
				category: "Not in the current card pool",
				example:  line.Card.Title,
			})
		}
	}

	return resultFromViolations(vs, rotationDescription)
}
