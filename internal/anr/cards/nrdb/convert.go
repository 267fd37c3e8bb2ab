package nrdb

import (
	"time"

	"github.com/anrtools/anr-companion/internal/anr/cards"
)

// Bundle is a fully converted pull of the card database: domain cards,
// sets, and the active MWL revision re-keyed by normalized title.
type Bundle struct {
	Cards []*cards.Card
	Sets  []cards.CardSet
	MWL   cards.MWL
}

// BuildBundle converts wire-format card data to the domain model. It is
// shared by the API client and the local data-dump reader.
func BuildBundle(wireCards []WireCard, packs []WirePack, cycles []WireCycle, revisions []WireMWL) *Bundle {
	cyclesByCode := make(map[string]*WireCycle, len(cycles))
	for i := range cycles {
		cyclesByCode[cycles[i].Code] = &cycles[i]
	}

	packsByCode := make(map[string]*WirePack, len(packs))
	sets := make([]cards.CardSet, 0, len(packs))
	for i := range packs {
		pack := &packs[i]
		packsByCode[pack.Code] = pack
		sets = append(sets, pack.ToCardSet(cyclesByCode[pack.CycleCode]))
	}

	converted := make([]*cards.Card, 0, len(wireCards))
	byCode := make(map[string]*cards.Card, len(wireCards))
	for i := range wireCards {
		wc := &wireCards[i]
		pack := packsByCode[wc.PackCode]
		var cycle *WireCycle
		if pack != nil {
			cycle = cyclesByCode[pack.CycleCode]
		}
		card := wc.ToCard(pack, cycle)
		converted = append(converted, card)
		byCode[card.Code] = card
	}

	return &Bundle{
		Cards: converted,
		Sets:  sets,
		MWL:   activeMWL(revisions, byCode),
	}
}

// activeMWL picks the active revision (falling back to the newest) and
// re-keys its card entries from card code to normalized title.
func activeMWL(revisions []WireMWL, byCode map[string]*cards.Card) cards.MWL {
	var picked *WireMWL
	for i := range revisions {
		rev := &revisions[i]
		if rev.Active {
			picked = rev
			break
		}
		if picked == nil || rev.DateStart > picked.DateStart {
			picked = rev
		}
	}
	if picked == nil {
		return cards.MWL{Cards: map[string]cards.MWLEntry{}}
	}

	mwl := cards.MWL{
		Name:  picked.Name,
		Cards: make(map[string]cards.MWLEntry, len(picked.Cards)),
	}
	if t, err := time.Parse("2006-01-02", picked.DateStart); err == nil {
		mwl.DateStart = t
	}
	for code, entry := range picked.Cards {
		card, ok := byCode[code]
		if !ok {
			continue
		}
		mwl.Cards[card.MWLKey()] = cards.MWLEntry{
			DeckLimit:    entry.DeckLimit,
			IsRestricted: entry.IsRestricted != nil && *entry.IsRestricted > 0,
		}
	}
	return mwl
}
