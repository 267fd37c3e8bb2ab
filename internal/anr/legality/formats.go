package legality

import (
	"sort"

	"github.com/anrtools/anr-companion/internal/anr/cards"
)

// Product names the community formats anchor on.
const (
	coreSetName           = "Revised Core Set"
	terminalDirectiveName = "Terminal Directive"
)

// SetGroup is the deck's lines originating from a single restricted set,
// with their total copy count.
type SetGroup struct {
	Set   cards.CardSet
	Lines []DeckLine
	Count int
}

// RestrictedSets partitions a deck's out-of-pool lines by originating set
// into big boxes and data packs.
type RestrictedSets struct {
	BigBoxes  []SetGroup
	DataPacks []SetGroup
}

// GroupRestrictedSets groups the given lines whose card's set is not in the
// allow-list by set name, sorts groups by descending copy count (stable for
// equal counts), and splits them into big boxes and data packs using the set
// catalog. A set name missing from the catalog is treated as a data pack so
// unknown sets degrade to a violation rather than a pass.
func GroupRestrictedSets(sets []cards.CardSet, allowed map[string]bool, lines []DeckLine) RestrictedSets {
	groups := make(map[string]*SetGroup)
	order := make([]string, 0)
	for _, line := range lines {
		if line.Card == nil || allowed[line.Card.SetName] {
			continue
		}
		name := line.Card.SetName
		group, ok := groups[name]
		if !ok {
			set, found := findSet(sets, name)
			if !found {
				set = cards.CardSet{Name: name}
			}
			group = &SetGroup{Set: set}
			groups[name] = group
			order = append(order, name)
		}
		group.Lines = append(group.Lines, line)
		group.Count += line.Qty
	}

	sorted := make([]SetGroup, 0, len(groups))
	for _, name := range order {
		sorted = append(sorted, *groups[name])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})

	var restricted RestrictedSets
	for _, group := range sorted {
		if group.Set.BigBox {
			restricted.BigBoxes = append(restricted.BigBoxes, group)
		} else {
			restricted.DataPacks = append(restricted.DataPacks, group)
		}
	}
	return restricted
}

// setsInNewestCycles returns the names of all sets belonging to the n most
// recently released data-pack cycles. A cycle counts as released once any of
// its sets has a release date in the past.
func (e *Engine) setsInNewestCycles(sets []cards.CardSet, n int) map[string]bool {
	now := e.now()
	released := make(map[int]bool)
	for _, set := range sets {
		if set.BigBox || set.Cycle == "" || set.Cycle == "Draft" {
			continue
		}
		if !set.Available.IsZero() && set.Available.Before(now) {
			released[set.CyclePosition] = true
		}
	}

	positions := make([]int, 0, len(released))
	for pos := range released {
		positions = append(positions, pos)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(positions)))
	if len(positions) > n {
		positions = positions[:n]
	}
	newest := make(map[int]bool, len(positions))
	for _, pos := range positions {
		newest[pos] = true
	}

	names := make(map[string]bool)
	for _, set := range sets {
		if !set.BigBox && newest[set.CyclePosition] {
			names[set.Name] = true
		}
	}
	return names
}

// overOneCore returns the lines that need more copies of a card than a
// single product box includes.
func overOneCore(lines []DeckLine) []DeckLine {
	var over []DeckLine
	for _, line := range lines {
		if line.Card != nil && line.Qty > line.Card.BoxQuantity() {
			over = append(over, line)
		}
	}
	return over
}

func groupExample(group SetGroup) string {
	if len(group.Lines) > 0 && group.Lines[0].Card != nil {
		return group.Lines[0].Card.Title
	}
	return group.Set.Name
}

// ModdedLegal evaluates the Modded format: the Revised Core Set plus the
// newest released cycle, identity's set included, with zero tolerance.
func (e *Engine) ModdedLegal(sets []cards.CardSet, deck *Deck) FormatResult {
	allowed := e.setsInNewestCycles(sets, 1)
	allowed[coreSetName] = true

	lines := deck.Cards
	if deck.Identity != nil {
		lines = append([]DeckLine{{Card: deck.Identity, Qty: 1}}, lines...)
	}
	restricted := GroupRestrictedSets(sets, allowed, lines)

	var vs []violation
	for _, group := range restricted.BigBoxes {
		if group.Set.Name == coreSetName {
			continue
		}
		vs = append(vs, violation{
			category: "Not from the Revised Core Set or the newest cycle",
			example:  groupExample(group),
		})
	}
	for _, group := range restricted.DataPacks {
		vs = append(vs, violation{
			category: "Not from the Revised Core Set or the newest cycle",
			example:  groupExample(group),
		})
	}

	return resultFromViolations(vs, "Modded: Revised Core Set and the newest cycle")
}

// CacheRefreshCompliant evaluates a Cache Refresh style card pool: no card
// over single-box quantity, at most one big box outside the pool, and no
// data packs outside it. The allowed-set list and description parameterize
// the seasonal variants.
func (e *Engine) CacheRefreshCompliant(sets []cards.CardSet, deck *Deck, allowed map[string]bool, description string) FormatResult {
	var vs []violation

	for _, line := range overOneCore(deck.Cards) {
		vs = append(vs, violation{
			category: "More copies than one box includes",
			example:  line.Card.Title,
		})
	}

	restricted := GroupRestrictedSets(sets, allowed, deck.Cards)
	// The first big box outside the pool is the player's one permitted
	// deluxe expansion.
	for _, group := range restricted.BigBoxes[min(1, len(restricted.BigBoxes)):] {
		vs = append(vs, violation{
			category: "Only one deluxe expansion permitted",
			example:  groupExample(group),
		})
	}
	for _, group := range restricted.DataPacks {
		vs = append(vs, violation{
			category: "Data pack outside the Cache Refresh pool",
			example:  groupExample(group),
		})
	}

	return resultFromViolations(vs, description)
}

// CacheRefreshLegal evaluates the default Cache Refresh pool: Revised Core
// Set, Terminal Directive, and the two newest cycles.
func (e *Engine) CacheRefreshLegal(sets []cards.CardSet, deck *Deck) FormatResult {
	allowed := e.setsInNewestCycles(sets, 2)
	allowed[coreSetName] = true
	allowed[terminalDirectiveName] = true
	return e.CacheRefreshCompliant(sets, deck, allowed, "Cache Refresh")
}

// SOCRLegal evaluates the Stimhack Online Cache Refresh seasonal variant:
// the Cache Refresh rules over a one-cycle pool.
func (e *Engine) SOCRLegal(sets []cards.CardSet, deck *Deck) FormatResult {
	allowed := e.setsInNewestCycles(sets, 1)
	allowed[coreSetName] = true
	allowed[terminalDirectiveName] = true
	return e.CacheRefreshCompliant(sets, deck, allowed, "Stimhack Online Cache Refresh")
}

// OnesiesLegal evaluates the Onesies format: a single Revised Core Set,
// with one offense tolerated in total. Every over-quantity card, every big
// box, and every data pack outside the core counts as one offense, whatever
// the category.
func (e *Engine) OnesiesLegal(sets []cards.CardSet, deck *Deck) FormatResult {
	allowed := map[string]bool{coreSetName: true}

	var vs []violation
	for _, line := range overOneCore(deck.Cards) {
		vs = append(vs, violation{
			category: "More copies than one core set includes",
			example:  line.Card.Title,
		})
	}

	restricted := GroupRestrictedSets(sets, allowed, deck.Cards)
	for _, group := range restricted.BigBoxes {
		vs = append(vs, violation{
			category: "Deluxe expansion outside the single core set",
			example:  groupExample(group),
		})
	}
	for _, group := range restricted.DataPacks {
		vs = append(vs, violation{
			category: "Data pack outside the single core set",
			example:  groupExample(group),
		})
	}

	// One offense of any category is the format's single permitted
	// exception.
	if len(vs) <= 1 {
		vs = nil
	}
	return resultFromViolations(vs, "Onesies: one core set, one exception")
}
