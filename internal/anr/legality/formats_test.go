package legality

import (
	"strings"
	"testing"
)

func TestGroupRestrictedSets(t *testing.T) {
	sets := testSets()
	allowed := map[string]bool{"Revised Core Set": true}

	lines := []DeckLine{
		{Card: corpCard("Core Card", withSet("Revised Core Set")), Qty: 3},
		{Card: corpCard("Temple of the Liberated Mind", withSet("Kala Ghoda")), Qty: 2},
		{Card: corpCard("Salem's Hospitality", withSet("Kala Ghoda")), Qty: 1},
		{Card: corpCard("Caprice Nisei", withSet("Honor and Profit")), Qty: 1},
		{Card: corpCard("Mystery Card", withSet("Imaginary Expansion")), Qty: 1},
	}

	restricted := GroupRestrictedSets(sets, allowed, lines)

	if len(restricted.BigBoxes) != 1 || restricted.BigBoxes[0].Set.Name != "Honor and Profit" {
		t.Fatalf("big boxes = %+v, want only Honor and Profit", restricted.BigBoxes)
	}
	if len(restricted.DataPacks) != 2 {
		t.Fatalf("data packs = %+v, want Kala Ghoda and the unknown set", restricted.DataPacks)
	}
	// Sorted by descending copy count.
	if restricted.DataPacks[0].Set.Name != "Kala Ghoda" || restricted.DataPacks[0].Count != 3 {
		t.Errorf("first data pack group = %+v, want Kala Ghoda with 3 copies", restricted.DataPacks[0])
	}
	// Unknown sets degrade to data-pack violations.
	if restricted.DataPacks[1].Set.Name != "Imaginary Expansion" {
		t.Errorf("second data pack group = %+v, want the unknown set", restricted.DataPacks[1])
	}
}

func TestGroupRestrictedSetsOrderIndependent(t *testing.T) {
	sets := testSets()
	allowed := map[string]bool{"Revised Core Set": true}
	lines := []DeckLine{
		{Card: corpCard("A", withSet("Kala Ghoda")), Qty: 2},
		{Card: corpCard("B", withSet("Daedalus Complex")), Qty: 2},
		{Card: corpCard("C", withSet("Honor and Profit")), Qty: 1},
	}
	reversed := []DeckLine{lines[2], lines[1], lines[0]}

	asSetNames := func(groups []SetGroup) map[string]int {
		names := make(map[string]int)
		for _, g := range groups {
			names[g.Set.Name] = g.Count
		}
		return names
	}

	a := GroupRestrictedSets(sets, allowed, lines)
	b := GroupRestrictedSets(sets, allowed, reversed)

	for name, count := range asSetNames(a.DataPacks) {
		if asSetNames(b.DataPacks)[name] != count {
			t.Errorf("data pack partition differs under reordering for %s", name)
		}
	}
	if len(a.BigBoxes) != len(b.BigBoxes) {
		t.Error("big box partition differs under reordering")
	}
}

func TestModdedLegal(t *testing.T) {
	engine := testEngine()
	sets := testSets()

	// As of the test clock, the newest released cycle is Kitara.
	deck := validCorpDeck()
	if result := engine.ModdedLegal(sets, deck); !result.Legal {
		t.Fatalf("all-core deck should be Modded legal, got %q", result.Reason)
	}

	deck.Cards = append(deck.Cards, DeckLine{
		Card: corpCard("Kitara Card", withSet("Sovereign Sight")),
		Qty:  2,
	})
	if result := engine.ModdedLegal(sets, deck); !result.Legal {
		t.Fatalf("newest-cycle card should be Modded legal, got %q", result.Reason)
	}

	deck.Cards = append(deck.Cards, DeckLine{
		Card: corpCard("Old Pack Card", withSet("Kala Ghoda")),
		Qty:  1,
	})
	if engine.ModdedLegal(sets, deck).Legal {
		t.Error("older-cycle card should not be Modded legal")
	}
}

func TestModdedLegalChecksIdentitySet(t *testing.T) {
	engine := testEngine()
	deck := validCorpDeck()
	deck.Identity.SetName = "Creation and Control"

	result := engine.ModdedLegal(testSets(), deck)
	if result.Legal {
		t.Error("identity from a big box outside the pool should fail Modded")
	}
}

func TestCacheRefreshLegal(t *testing.T) {
	engine := testEngine()
	sets := testSets()

	deck := validCorpDeck()
	if result := engine.CacheRefreshLegal(sets, deck); !result.Legal {
		t.Fatalf("all-core deck should be Cache Refresh legal, got %q", result.Reason)
	}

	// Red Sand is within the two newest cycles.
	deck.Cards = append(deck.Cards, DeckLine{
		Card: corpCard("Red Sand Card", withSet("Daedalus Complex")),
		Qty:  2,
	})
	if result := engine.CacheRefreshLegal(sets, deck); !result.Legal {
		t.Fatalf("two-newest-cycles card should be legal, got %q", result.Reason)
	}

	// One big box outside the pool is the permitted deluxe.
	deck.Cards = append(deck.Cards, DeckLine{
		Card: corpCard("Caprice Nisei", withSet("Honor and Profit")),
		Qty:  3,
	})
	if result := engine.CacheRefreshLegal(sets, deck); !result.Legal {
		t.Fatalf("one deluxe expansion should be legal, got %q", result.Reason)
	}

	// A second big box is not.
	deck.Cards = append(deck.Cards, DeckLine{
		Card: corpCard("Bioroid Card", withSet("Creation and Control")),
		Qty:  1,
	})
	if engine.CacheRefreshLegal(sets, deck).Legal {
		t.Error("two deluxe expansions should be illegal")
	}
}

func TestCacheRefreshRejectsOldDataPacks(t *testing.T) {
	engine := testEngine()
	deck := validCorpDeck()
	deck.Cards = append(deck.Cards, DeckLine{
		Card: corpCard("Old Pack Card", withSet("Kala Ghoda")),
		Qty:  1,
	})
	if engine.CacheRefreshLegal(testSets(), deck).Legal {
		t.Error("data pack outside the pool should be illegal")
	}
}

func TestCacheRefreshOverOneCore(t *testing.T) {
	engine := testEngine()
	deck := validCorpDeck()
	deck.Cards = append(deck.Cards, DeckLine{
		Card: corpCard("Scarce Card", withPackQuantity(2)),
		Qty:  3,
	})
	result := engine.CacheRefreshLegal(testSets(), deck)
	if result.Legal {
		t.Fatal("card over single-box quantity should be illegal")
	}
}

func TestSOCRTighterThanCacheRefresh(t *testing.T) {
	engine := testEngine()
	sets := testSets()

	deck := validCorpDeck()
	deck.Cards = append(deck.Cards, DeckLine{
		Card: corpCard("Red Sand Card", withSet("Daedalus Complex")),
		Qty:  1,
	})

	if !engine.CacheRefreshLegal(sets, deck).Legal {
		t.Error("Red Sand card should be Cache Refresh legal")
	}
	if engine.SOCRLegal(sets, deck).Legal {
		t.Error("Red Sand card should not be SOCR legal (one-cycle pool)")
	}
}

func TestOnesiesLegalSingleOffenseTolerated(t *testing.T) {
	engine := testEngine()
	sets := testSets()

	deck := validCorpDeck()
	deck.Cards = append(deck.Cards, DeckLine{
		Card: corpCard("Foreign Pack Card", withSet("Kala Ghoda")),
		Qty:  1,
	})

	result := engine.OnesiesLegal(sets, deck)
	if !result.Legal {
		t.Fatalf("single data pack offense should be tolerated, got %q", result.Reason)
	}
}

func TestOnesiesLegalTwoOffenses(t *testing.T) {
	engine := testEngine()
	sets := testSets()

	deck := validCorpDeck()
	deck.Cards = append(deck.Cards,
		DeckLine{Card: corpCard("Scarce Card", withPackQuantity(2)), Qty: 3},
		DeckLine{Card: corpCard("Foreign Pack Card", withSet("Kala Ghoda")), Qty: 1},
	)

	result := engine.OnesiesLegal(sets, deck)
	if result.Legal {
		t.Fatal("over-quantity core card plus a foreign data pack card is two offenses")
	}
	// All detected offenses are reported once over the tolerance.
	for _, title := range []string{"Scarce Card", "Foreign Pack Card"} {
		if !strings.Contains(result.Reason, title) {
			t.Errorf("reason should mention %s, got %q", title, result.Reason)
		}
	}
}
