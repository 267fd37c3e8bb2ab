package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/anrtools/anr-companion/internal/anr/legality"
)

// displayOrder fixes the format listing order in CLI output.
var displayOrder = []struct {
	key   string
	label string
}{
	{legality.FormatValid, "Construction"},
	{legality.FormatMWL, "Banned/Restricted"},
	{legality.FormatRotation, "Rotation"},
	{legality.FormatModded, "Modded"},
	{legality.FormatCacheRefresh, "Cache Refresh"},
	{legality.FormatSOCR, "SOCR"},
	{legality.FormatOnesies, "Onesies"},
}

// printDeckStatus renders a deck summary and the per-format verdicts.
func printDeckStatus(deck *legality.Deck, status *legality.DeckStatus) {
	fmt.Println()
	if deck.Identity != nil {
		fmt.Printf("Identity:      %s\n", deck.Identity.Title)
	}
	fmt.Printf("Cards:         %d\n", deck.CardCount())
	if deck.Identity != nil && deck.Identity.Side == "Corp" {
		fmt.Printf("Agenda points: %d\n", legality.AgendaPoints(deck))
	}
	limit := legality.InfluenceLimit(deck.Identity)
	if limit == math.MaxInt {
		fmt.Printf("Influence:     %d (no limit)\n", legality.InfluenceCount(deck))
	} else {
		fmt.Printf("Influence:     %d / %d\n", legality.InfluenceCount(deck), limit)
	}
	fmt.Println()

	for _, entry := range displayOrder {
		result, ok := status.Formats[entry.key]
		if !ok {
			continue
		}
		verdict := "legal"
		if !result.Legal {
			verdict = "NOT LEGAL"
		}
		fmt.Printf("  %-18s %s\n", entry.label, verdict)
		if result.Reason != "" {
			for _, line := range strings.Split(result.Reason, "\n") {
				fmt.Printf("    - %s\n", line)
			}
		}
	}

	fmt.Println()
	fmt.Printf("Overall: %s\n", strings.ToUpper(status.Overall))
}
