package legality

import "github.com/anrtools/anr-companion/internal/anr/cards"

// Alliance card codes. Each alliance card waives its influence cost when the
// rest of the deck meets its card-specific requirement.
const (
	codeHeritageCommittee   = "10013"
	codeMumbaTemple         = "10018"
	codeMuseumOfHistory     = "10019"
	codeProductRecall       = "10029"
	codePADFactory          = "10038"
	codeJeevesModelBioroids = "10067"
	codeRamanRai            = "10068"
	codeSalemsHospitality   = "10071"
	codeExecutiveSearchFirm = "10072"
	codeMumbadVirtualTour   = "10076"
	codeIbrahimSalem        = "10094"
	codeConsultingVisit     = "10109"
)

// alliancePolicy decides whether one alliance line is free given the rest
// of the deck's lines.
type alliancePolicy func(lines []DeckLine, line DeckLine) bool

// allianceFreePolicies is the fixed dispatch table: alliance card code to
// the predicate that waives its influence. Adding a new alliance card is one
// entry here plus its predicate.
var allianceFreePolicies map[string]alliancePolicy

func init() {
	allianceFreePolicies = map[string]alliancePolicy{
		codeHeritageCommittee:   sixSameFactionNonAlliance,
		codeProductRecall:       sixSameFactionNonAlliance,
		codeJeevesModelBioroids: sixSameFactionNonAlliance,
		codeRamanRai:            sixSameFactionNonAlliance,
		codeSalemsHospitality:   sixSameFactionNonAlliance,
		codeExecutiveSearchFirm: sixSameFactionNonAlliance,
		codeIbrahimSalem:        sixSameFactionNonAlliance,
		codeConsultingVisit:     sixSameFactionNonAlliance,
		codeMumbaTemple:         atMostFifteenICE,
		codeMuseumOfHistory:     atLeastFiftyCards,
		codePADFactory:          exactlyThreePADCampaigns,
		codeMumbadVirtualTour:   atLeastSevenAssets,
	}
}

// IsAllianceCard reports whether a card carries the Alliance requirement.
func IsAllianceCard(card *cards.Card) bool {
	if card == nil {
		return false
	}
	_, ok := allianceFreePolicies[card.Code]
	return ok
}

// IsAllianceFree reports whether a deck line's influence cost is waived.
// Cards without an alliance policy are never free.
func IsAllianceFree(lines []DeckLine, line DeckLine) bool {
	if line.Card == nil {
		return false
	}
	policy, ok := allianceFreePolicies[line.Card.Code]
	if !ok {
		return false
	}
	return policy(lines, line)
}

// sixSameFactionNonAlliance: free iff the deck holds at least 6 copies of
// same-faction, non-alliance cards.
func sixSameFactionNonAlliance(lines []DeckLine, line DeckLine) bool {
	count := 0
	for _, other := range lines {
		if other.Card == nil {
			continue
		}
		if other.Card.Faction == line.Card.Faction && !IsAllianceCard(other.Card) {
			count += other.Qty
		}
	}
	return count >= 6
}

// atMostFifteenICE: free iff the deck holds 15 or fewer ICE.
func atMostFifteenICE(lines []DeckLine, _ DeckLine) bool {
	return countByType(lines, cards.TypeICE) <= 15
}

// atLeastFiftyCards: free iff the deck holds 50 or more cards.
func atLeastFiftyCards(lines []DeckLine, _ DeckLine) bool {
	return countLines(lines) >= 50
}

// exactlyThreePADCampaigns: free iff the deck holds exactly 3 copies of
// PAD Campaign.
func exactlyThreePADCampaigns(lines []DeckLine, _ DeckLine) bool {
	count := 0
	for _, other := range lines {
		if other.Card != nil && other.Card.Title == "PAD Campaign" {
			count += other.Qty
		}
	}
	return count == 3
}

// atLeastSevenAssets: free iff the deck holds 7 or more assets.
func atLeastSevenAssets(lines []DeckLine, _ DeckLine) bool {
	return countByType(lines, cards.TypeAsset) >= 7
}

func countByType(lines []DeckLine, cardType string) int {
	count := 0
	for _, line := range lines {
		if line.Card != nil && line.Card.Type == cardType {
			count += line.Qty
		}
	}
	return count
}
