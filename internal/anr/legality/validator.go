package legality

import (
	"fmt"

	"github.com/anrtools/anr-companion/internal/anr/cards"
)

// Custom Biotics: Engineered for Success. The one identity barred from a
// specific off-faction pool: it may never include Jinteki cards.
const customBioticsCode = "03002"

const validDescription = "Basic deckbuilding rules"

// MinDeckSize returns the identity's printed minimum deck size.
func MinDeckSize(identity *cards.Card) int {
	if identity == nil {
		return 0
	}
	return identity.MinimumDeckSize
}

// AgendaPoints returns the total agenda points printed in the deck.
func AgendaPoints(deck *Deck) int {
	total := 0
	for _, line := range deck.Cards {
		if line.Card != nil && line.Card.AgendaPoints != nil {
			total += line.Qty * *line.Card.AgendaPoints
		}
	}
	return total
}

// MinAgendaPoints returns the lower bound of the agenda-point band. The
// band scales with deck size: two points plus two per five cards, using the
// identity's minimum when the deck is under it.
func MinAgendaPoints(deck *Deck) int {
	size := deck.CardCount()
	if min := MinDeckSize(deck.Identity); size < min {
		size = min
	}
	return 2 + 2*(size/5)
}

// isCardAllowed reports whether a card may appear at all under the given
// identity: never another identity, sides must match, off-faction agendas
// are out unless neutral or the identity is draft, and Custom Biotics can
// never take Jinteki cards.
func isCardAllowed(card, identity *cards.Card) bool {
	if card == nil {
		return false
	}
	if card.Type == cards.TypeIdentity {
		return false
	}
	if card.Side != identity.Side {
		return false
	}
	if card.Type == cards.TypeAgenda &&
		card.Faction != "Neutral" &&
		card.Faction != identity.Faction &&
		!identity.IsDraftIdentity() {
		return false
	}
	if identity.Code == customBioticsCode && card.Faction == "Jinteki" {
		return false
	}
	return true
}

// legalCopyCount reports whether a line's quantity is within the card's
// printed copy limit. Draft identities lift the limit.
func legalCopyCount(identity *cards.Card, line DeckLine) bool {
	if identity.IsDraftIdentity() {
		return true
	}
	return line.Qty <= line.Card.CopyLimit()
}

// ValidateDeck checks the core construction rules and reports every
// violation found.
func ValidateDeck(deck *Deck) FormatResult {
	identity := deck.Identity
	if identity == nil || !identity.IsIdentity() {
		return resultFromViolations([]violation{
			{category: "Deck has no identity"},
		}, validDescription)
	}

	var vs []violation

	if count, min := deck.CardCount(), MinDeckSize(identity); count < min {
		vs = append(vs, violation{
			category: fmt.Sprintf("Deck has %d cards, needs at least %d", count, min),
		})
	}

	if spent, limit := InfluenceCount(deck), InfluenceLimit(identity); spent > limit {
		vs = append(vs, violation{
			category: fmt.Sprintf("Deck uses %d influence, limit is %d", spent, limit),
		})
	}

	for _, line := range deck.Cards {
		if line.Card == nil || line.Qty <= 0 {
			vs = append(vs, violation{category: "Deck contains an unresolved card line"})
			continue
		}
		if !isCardAllowed(line.Card, identity) {
			vs = append(vs, violation{
				category: "Not allowed with this identity",
				example:  line.Card.Title,
			})
		}
		if !legalCopyCount(identity, line) {
			vs = append(vs, violation{
				category: fmt.Sprintf("Too many copies (%d of %d allowed)", line.Qty, line.Card.CopyLimit()),
				example:  line.Card.Title,
			})
		}
	}

	// Agenda-point band applies to Corp decks only.
	if identity.Side == cards.SideCorp {
		min := MinAgendaPoints(deck)
		if points := AgendaPoints(deck); points < min || points > min+1 {
			vs = append(vs, violation{
				category: fmt.Sprintf("Deck has %d agenda points, needs %d or %d", points, min, min+1),
			})
		}
	}

	return resultFromViolations(vs, validDescription)
}

// IsDeckValid reports whether the deck satisfies the core construction
// rules.
func IsDeckValid(deck *Deck) bool {
	return ValidateDeck(deck).Legal
}
