package legality

import "github.com/anrtools/anr-companion/internal/anr/cards"

// IsBanned reports whether a card is banned by the list. Any entry carrying
// a deck-limit marker counts as fully banned; partial numeric limits are not
// enforced.
func IsBanned(mwl *cards.MWL, card *cards.Card) bool {
	entry, ok := mwl.Entry(card)
	return ok && entry.DeckLimit != nil
}

// IsRestricted reports whether a card carries the restricted marker.
func IsRestricted(mwl *cards.MWL, card *cards.Card) bool {
	entry, ok := mwl.Entry(card)
	return ok && entry.IsRestricted
}

// RestrictedCardCount returns the number of distinct restricted titles in
// the deck, identity included.
func RestrictedCardCount(mwl *cards.MWL, deck *Deck) int {
	seen := make(map[string]bool)
	if IsRestricted(mwl, deck.Identity) {
		seen[deck.Identity.MWLKey()] = true
	}
	for _, line := range deck.Cards {
		if IsRestricted(mwl, line.Card) {
			seen[line.Card.MWLKey()] = true
		}
	}
	return len(seen)
}

// ValidateMWL checks the deck against the banned/restricted list: no banned
// cards, at most one restricted title.
func ValidateMWL(mwl *cards.MWL, deck *Deck) FormatResult {
	description := "Banned/restricted list"
	if mwl != nil && mwl.Name != "" {
		description = mwl.Name
	}

	var vs []violation

	if IsBanned(mwl, deck.Identity) {
		vs = append(vs, violation{category: "Banned identity", example: deck.Identity.Title})
	}
	for _, line := range deck.Cards {
		if IsBanned(mwl, line.Card) {
			vs = append(vs, violation{category: "Banned card", example: line.Card.Title})
		}
	}

	if count := RestrictedCardCount(mwl, deck); count > 1 {
		example := ""
		for _, line := range deck.Cards {
			if IsRestricted(mwl, line.Card) {
				example = line.Card.Title
				break
			}
		}
		vs = append(vs, violation{
			category: "More than one restricted card",
			example:  example,
		})
	}

	return resultFromViolations(vs, description)
}

// MWLLegal reports whether the deck is legal under the banned/restricted
// list.
func MWLLegal(mwl *cards.MWL, deck *Deck) bool {
	return ValidateMWL(mwl, deck).Legal
}
