package legality

import (
	"math"

	"github.com/anrtools/anr-companion/internal/anr/cards"
)

// The Professor: Keeper of Knowledge. The one identity that discounts the
// first copy of each off-faction program.
const professorCode = "03029"

// baseInfluenceCost is the undiscounted influence cost of a line: zero for
// in-faction cards, otherwise quantity times the printed faction cost.
func baseInfluenceCost(deck *Deck, line DeckLine) int {
	if line.Card == nil || line.Qty <= 0 {
		return 0
	}
	if deck.Identity != nil && line.Card.Faction == deck.Identity.Faction {
		return 0
	}
	return line.Qty * line.Card.FactionCost
}

// LineInfluenceCost returns the influence a single deck line charges against
// the identity's influence limit. Free lines stay free; otherwise the
// identity-specific first-copy discount applies before the alliance-free
// override.
func LineInfluenceCost(deck *Deck, line DeckLine) int {
	base := baseInfluenceCost(deck, line)
	if base == 0 {
		return 0
	}
	if deck.Identity != nil && deck.Identity.Code == professorCode && line.Card.Type == cards.TypeProgram {
		return base - line.Card.FactionCost
	}
	if IsAllianceFree(deck.Cards, line) {
		return 0
	}
	return base
}

// InfluenceMap groups the deck's influence spend by card faction.
func InfluenceMap(deck *Deck) map[string]int {
	spend := make(map[string]int)
	for _, line := range deck.Cards {
		if cost := LineInfluenceCost(deck, line); cost > 0 {
			spend[line.Card.Faction] += cost
		}
	}
	return spend
}

// InfluenceCount returns the deck's total influence spend.
func InfluenceCount(deck *Deck) int {
	total := 0
	for _, cost := range InfluenceMap(deck) {
		total += cost
	}
	return total
}

// InfluenceLimit returns the identity's influence limit. Draft identities
// are unbounded.
func InfluenceLimit(identity *cards.Card) int {
	if identity == nil {
		return 0
	}
	if identity.IsDraftIdentity() {
		return math.MaxInt
	}
	return identity.InfluenceLimit
}
