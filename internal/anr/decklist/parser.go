// Package decklist parses plain-text deck lists into decks resolved
// against a card database snapshot.
package decklist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/anrtools/anr-companion/internal/anr/legality"
	"github.com/anrtools/anr-companion/internal/anr/snapshot"
)

// ParseResult contains the parsed deck plus anything that went wrong.
// Unresolved titles become warnings, not errors, so a deck with a typo can
// still be inspected.
type ParseResult struct {
	Deck     *legality.Deck
	Errors   []string
	Warnings []string
}

// Parser resolves deck list text against a snapshot.
type Parser struct {
	snap *snapshot.Snapshot
}

// NewParser creates a parser over the given snapshot.
func NewParser(snap *snapshot.Snapshot) *Parser {
	return &Parser{snap: snap}
}

// Line grammar: "3x Hedge Fund", "3 Hedge Fund", or a bare title for one
// copy. Group 1: quantity (optional), group 2: title.
var lineRegex = regexp.MustCompile(`^(?:(\d+)x?\s+)?(.+)$`)

// Parse reads a plain-text deck list. The first resolvable identity line
// names the deck's identity; every other line is a card line. Lines
// starting with "#" or "//" are comments.
func (p *Parser) Parse(input string) (*ParseResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty deck list")
	}

	result := &ParseResult{Deck: &legality.Deck{}}

	for _, raw := range strings.Split(input, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		qty, title := splitLine(line)
		card, ok := p.snap.CardByTitle(title)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("unknown card: %s", title))
			continue
		}

		if card.IsIdentity() {
			if result.Deck.Identity != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("duplicate identity: %s", card.Title))
				continue
			}
			result.Deck.Identity = card
			continue
		}

		result.Deck.Cards = append(result.Deck.Cards, legality.DeckLine{Card: card, Qty: qty})
	}

	if result.Deck.Identity == nil {
		result.Errors = append(result.Errors, "deck list has no identity")
	}
	return result, nil
}

// splitLine extracts the quantity and title from one deck list line.
// A missing quantity means a single copy.
func splitLine(line string) (int, string) {
	match := lineRegex.FindStringSubmatch(line)
	if match == nil {
		return 1, line
	}
	qty := 1
	if match[1] != "" {
		if n, err := strconv.Atoi(match[1]); err == nil && n > 0 {
			qty = n
		}
	}
	return qty, strings.TrimSpace(match[2])
}
