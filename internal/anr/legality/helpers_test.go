package legality

import (
	"time"

	"github.com/anrtools/anr-companion/internal/anr/cards"
)

// Fixed evaluation moment for every clock-sensitive test.
var testNow = time.Date(2017, 11, 1, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngine(Options{Now: func() time.Time { return testNow }})
}

func intPtr(v int) *int { return &v }

type cardOpt func(*cards.Card)

func withFaction(f string) cardOpt   { return func(c *cards.Card) { c.Faction = f } }
func withType(t string) cardOpt      { return func(c *cards.Card) { c.Type = t } }
func withSet(name string) cardOpt    { return func(c *cards.Card) { c.SetName = name } }
func withCost(cost int) cardOpt      { return func(c *cards.Card) { c.FactionCost = cost } }
func withAgendaPoints(p int) cardOpt { return func(c *cards.Card) { c.AgendaPoints = intPtr(p) } }
func withLimited(limit int) cardOpt  { return func(c *cards.Card) { c.Limited = limit } }
func withPackQuantity(q int) cardOpt { return func(c *cards.Card) { c.PackQuantity = q } }
func withCode(code string) cardOpt   { return func(c *cards.Card) { c.Code = code } }

func corpCard(title string, opts ...cardOpt) *cards.Card {
	c := &cards.Card{
		Code:            "20001",
		Title:           title,
		Side:            cards.SideCorp,
		Faction:         "Haas-Bioroid",
		Type:            "Operation",
		SetName:         "Revised Core Set",
		NormalizedTitle: cards.NormalizeTitle(title),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func runnerCard(title string, opts ...cardOpt) *cards.Card {
	c := corpCard(title)
	c.Side = cards.SideRunner
	c.Faction = "Shaper"
	c.Type = "Program"
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func corpIdentity(opts ...cardOpt) *cards.Card {
	c := &cards.Card{
		Code:            "20064",
		Title:           "Haas-Bioroid: Architects of Tomorrow",
		Side:            cards.SideCorp,
		Faction:         "Haas-Bioroid",
		Type:            cards.TypeIdentity,
		SetName:         "Revised Core Set",
		NormalizedTitle: cards.NormalizeTitle("Haas-Bioroid: Architects of Tomorrow"),
		MinimumDeckSize: 45,
		InfluenceLimit:  15,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func runnerIdentity(opts ...cardOpt) *cards.Card {
	c := corpIdentity()
	c.Code = "20037"
	c.Title = "Kate \"Mac\" McCaffrey: Digital Tinker"
	c.NormalizedTitle = cards.NormalizeTitle(c.Title)
	c.Side = cards.SideRunner
	c.Faction = "Shaper"
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// agendaLines builds distinct in-faction 2-point agendas (plus a 1-pointer
// for odd totals) worth exactly the requested points, never exceeding the
// printed copy limit.
func agendaLines(identity *cards.Card, points int) []DeckLine {
	titles := []string{
		"Accelerated Beta Test", "Priority Requisition", "Project Vitruvius",
		"Corporate Sales Team", "Elective Upgrade", "Successful Field Test",
	}
	var lines []DeckLine
	for i := 0; points >= 2; i++ {
		qty := points / 2
		if qty > 3 {
			qty = 3
		}
		lines = append(lines, DeckLine{
			Card: corpCard(titles[i%len(titles)],
				withType(cards.TypeAgenda), withFaction(identity.Faction), withAgendaPoints(2)),
			Qty: qty,
		})
		points -= qty * 2
	}
	if points == 1 {
		lines = append(lines, DeckLine{
			Card: corpCard("Net Quarantine",
				withType(cards.TypeAgenda), withFaction(identity.Faction), withAgendaPoints(1)),
			Qty: 1,
		})
	}
	return lines
}

// fillerLines pads a deck with in-faction lines of up to three copies so
// copy limits never interfere.
func fillerLines(identity *cards.Card, n int) []DeckLine {
	titles := []string{
		"Adonis Campaign", "Archived Memories", "Biotic Labor", "Eli 1.0",
		"Hedge Fund", "Heimdall 1.0", "Ichi 1.0", "Ash 2X3ZB9CY",
		"Rototurret", "Viktor 1.0", "Enigma", "Wall of Static",
	}
	var lines []DeckLine
	remaining := n
	for i := 0; remaining > 0; i++ {
		qty := 3
		if qty > remaining {
			qty = remaining
		}
		title := titles[i%len(titles)]
		if i >= len(titles) {
			title = title + " Mk2"
		}
		lines = append(lines, DeckLine{
			Card: corpCard(title, withFaction(identity.Faction)),
			Qty:  qty,
		})
		remaining -= qty
	}
	return lines
}

// validCorpDeck builds a 45-card in-faction Corp deck with 20 agenda points,
// which satisfies the construction rules for the default identity.
func validCorpDeck() *Deck {
	identity := corpIdentity()
	deck := &Deck{Identity: identity}
	deck.Cards = agendaLines(identity, 20)
	deck.Cards = append(deck.Cards, fillerLines(identity, 45-deck.CardCount())...)
	return deck
}

func testSets() []cards.CardSet {
	released := func(y, m, d int) time.Time {
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	}
	return []cards.CardSet{
		{Name: "Revised Core Set", Cycle: "Revised Core", CyclePosition: 0, BigBox: true, Available: released(2017, 10, 1)},
		{Name: "Creation and Control", Cycle: "Creation and Control", CyclePosition: 4, BigBox: true, Available: released(2013, 7, 1)},
		{Name: "Honor and Profit", Cycle: "Honor and Profit", CyclePosition: 6, BigBox: true, Available: released(2014, 3, 1)},
		{Name: "Terminal Directive", Cycle: "Terminal Directive", CyclePosition: 27, BigBox: true, Available: released(2017, 4, 1)},
		{Name: "What Lies Ahead", Cycle: "Genesis", CyclePosition: 2, Available: released(2011, 12, 1), Rotated: true},
		{Name: "Kala Ghoda", Cycle: "Mumbad", CyclePosition: 20, Available: released(2016, 1, 1)},
		{Name: "Daedalus Complex", Cycle: "Red Sand", CyclePosition: 26, Available: released(2017, 2, 1)},
		{Name: "Crimson Dust", Cycle: "Red Sand", CyclePosition: 26, Available: released(2017, 7, 1)},
		{Name: "Sovereign Sight", Cycle: "Kitara", CyclePosition: 28, Available: released(2017, 10, 15)},
		{Name: "Down the White Nile", Cycle: "Kitara", CyclePosition: 28, Available: released(2018, 1, 15)},
		{Name: "Unreleased Pack", Cycle: "Kitara", CyclePosition: 28},
	}
}

func emptyMWL() *cards.MWL {
	return &cards.MWL{
		Name:      "NAPD MWL 2.0",
		DateStart: time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC),
		Cards:     map[string]cards.MWLEntry{},
	}
}
