package nrdb

import (
	"time"

	"github.com/anrtools/anr-companion/internal/anr/cards"
)

// Envelope is the common NetrunnerDB API response wrapper.
type Envelope[T any] struct {
	Data    []T  `json:"data"`
	Total   int  `json:"total"`
	Success bool `json:"success"`
}

// WireCard is the card object returned by /api/2.0/public/cards.
type WireCard struct {
	Code            string `json:"code"`
	Title           string `json:"title"`
	StrippedTitle   string `json:"stripped_title"`
	SideCode        string `json:"side_code"`
	FactionCode     string `json:"faction_code"`
	TypeCode        string `json:"type_code"`
	FactionCost     int    `json:"faction_cost"`
	AgendaPoints    *int   `json:"agenda_points"`
	DeckLimit       int    `json:"deck_limit"`
	Quantity        int    `json:"quantity"`
	PackCode        string `json:"pack_code"`
	MinimumDeckSize int    `json:"minimum_deck_size"`
	InfluenceLimit  int    `json:"influence_limit"`
}

// WirePack is the pack object returned by /api/2.0/public/packs.
type WirePack struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	CycleCode   string `json:"cycle_code"`
	DateRelease string `json:"date_release"` // "2006-01-02", empty if unreleased
	Position    int    `json:"position"`
	Size        int    `json:"size"`
}

// WireCycle is the cycle object returned by /api/2.0/public/cycles.
type WireCycle struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	Size     int    `json:"size"` // packs in the cycle; 1 marks a big box
	Rotated  bool   `json:"rotated"`
}

// WireMWL is one list revision returned by /api/2.0/public/mwl.
// Cards are keyed by card code on the wire.
type WireMWL struct {
	ID        int                     `json:"id"`
	Code      string                  `json:"code"`
	Name      string                  `json:"name"`
	DateStart string                  `json:"date_start"`
	Active    bool                    `json:"active"`
	Cards     map[string]WireMWLEntry `json:"cards"`
}

// WireMWLEntry is one card's record on a wire MWL revision.
type WireMWLEntry struct {
	DeckLimit    *int `json:"deck_limit,omitempty"`
	IsRestricted *int `json:"is_restricted,omitempty"`
}

// sideNames maps API side codes to display names.
var sideNames = map[string]string{
	"corp":   cards.SideCorp,
	"runner": cards.SideRunner,
}

// factionNames maps API faction codes to display names.
var factionNames = map[string]string{
	"haas-bioroid":       "Haas-Bioroid",
	"jinteki":            "Jinteki",
	"nbn":                "NBN",
	"weyland-consortium": "Weyland Consortium",
	"anarch":             "Anarch",
	"criminal":           "Criminal",
	"shaper":             "Shaper",
	"adam":               "Adam",
	"apex":               "Apex",
	"sunny-lebeau":       "Sunny Lebeau",
	"neutral-corp":       "Neutral",
	"neutral-runner":     "Neutral",
}

// typeNames maps API type codes to display names.
var typeNames = map[string]string{
	"identity":  cards.TypeIdentity,
	"agenda":    cards.TypeAgenda,
	"asset":     cards.TypeAsset,
	"ice":       cards.TypeICE,
	"program":   cards.TypeProgram,
	"event":     "Event",
	"hardware":  "Hardware",
	"resource":  "Resource",
	"operation": "Operation",
	"upgrade":   "Upgrade",
}

func displayName(table map[string]string, code string) string {
	if name, ok := table[code]; ok {
		return name
	}
	return code
}

// ToCard converts a wire card to the domain model. Pack and cycle context
// supply the set name and rotation flag.
func (w *WireCard) ToCard(pack *WirePack, cycle *WireCycle) *cards.Card {
	c := &cards.Card{
		Code:            w.Code,
		Title:           w.Title,
		Side:            displayName(sideNames, w.SideCode),
		Faction:         displayName(factionNames, w.FactionCode),
		Type:            displayName(typeNames, w.TypeCode),
		FactionCost:     w.FactionCost,
		AgendaPoints:    w.AgendaPoints,
		Limited:         w.DeckLimit,
		PackQuantity:    w.Quantity,
		NormalizedTitle: cards.NormalizeTitle(w.Title),
		MinimumDeckSize: w.MinimumDeckSize,
		InfluenceLimit:  w.InfluenceLimit,
	}
	if pack != nil {
		c.SetName = pack.Name
	}
	if cycle != nil {
		c.Rotated = cycle.Rotated
	}
	return c
}

// ToCardSet converts a wire pack, with its cycle, to the domain model.
func (w *WirePack) ToCardSet(cycle *WireCycle) cards.CardSet {
	set := cards.CardSet{Name: w.Name}
	if w.DateRelease != "" {
		if t, err := time.Parse("2006-01-02", w.DateRelease); err == nil {
			set.Available = t
		}
	}
	if cycle != nil {
		set.Cycle = cycle.Name
		set.CyclePosition = cycle.Position
		set.BigBox = cycle.Size == 1
		set.Rotated = cycle.Rotated
	}
	return set
}
