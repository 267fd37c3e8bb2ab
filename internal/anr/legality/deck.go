// Package legality implements the deck-legality rules engine: influence
// accounting, core construction rules, the banned/restricted list, rotation,
// and the alternate tournament formats. Every evaluator is a pure function
// over a deck and a read-only card database snapshot; failures are reported
// as results, never as errors.
package legality

import (
	"strings"
	"time"

	"github.com/anrtools/anr-companion/internal/anr/cards"
)

// Format keys used in a DeckStatus.
const (
	FormatValid        = "valid"
	FormatMWL          = "mwl"
	FormatRotation     = "rotation"
	FormatOnesies      = "onesies"
	FormatCacheRefresh = "cache-refresh"
	FormatSOCR         = "socr"
	FormatModded       = "modded"
)

// Overall deck classifications.
const (
	StatusLegal   = "legal"
	StatusCasual  = "casual"
	StatusInvalid = "invalid"
)

// DeckLine is one entry in a deck's card list.
type DeckLine struct {
	Card *cards.Card `json:"card"`
	Qty  int         `json:"qty"`
}

// Deck is a proposed deck: an identity plus card lines. Status and Date
// carry a previously computed verdict for cache-validity checks; both are
// optional and never written by this package.
type Deck struct {
	Identity *cards.Card `json:"identity"`
	Cards    []DeckLine  `json:"cards"`

	Status *DeckStatus `json:"status,omitempty"`
	Date   time.Time   `json:"date,omitempty"` // when Status was computed
}

// CardCount returns the total number of cards in the deck by quantity,
// not counting the identity.
func (d *Deck) CardCount() int {
	return countLines(d.Cards)
}

func countLines(lines []DeckLine) int {
	total := 0
	for _, line := range lines {
		total += line.Qty
	}
	return total
}

// FormatResult is the verdict for a single format. Reason is empty exactly
// when the deck is legal; Description identifies the format.
type FormatResult struct {
	Legal       bool   `json:"legal"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

// DeckStatus maps format keys to their results, with the derived overall
// classification.
type DeckStatus struct {
	Formats map[string]FormatResult `json:"formats"`
	Overall string                  `json:"overall"`
}

// violation is one structured offense found by a format evaluator. Example
// names an offending card so reasons stay actionable.
type violation struct {
	category string
	example  string
}

func (v violation) render() string {
	if v.example == "" {
		return v.category
	}
	return v.category + " - check " + v.example
}

// renderViolations joins non-empty violation descriptions with newlines,
// preserving order.
func renderViolations(vs []violation) string {
	fragments := make([]string, 0, len(vs))
	for _, v := range vs {
		if s := v.render(); s != "" {
			fragments = append(fragments, s)
		}
	}
	return strings.Join(fragments, "\n")
}

func resultFromViolations(vs []violation, description string) FormatResult {
	return FormatResult{
		Legal:       len(vs) == 0,
		Reason:      renderViolations(vs),
		Description: description,
	}
}
