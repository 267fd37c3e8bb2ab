// Package cards defines the static card, set, and banned-list data model.
// Values are loaded once by an external loader and treated as read-only.
package cards

import (
	"strings"
	"time"
	"unicode"
)

// Card sides.
const (
	SideCorp   = "Corp"
	SideRunner = "Runner"
)

// Card types referenced by the rules engine.
const (
	TypeIdentity = "Identity"
	TypeAgenda   = "Agenda"
	TypeAsset    = "Asset"
	TypeICE      = "ICE"
	TypeProgram  = "Program"
)

// DefaultCopyLimit is the printed per-deck copy limit when a card does not
// declare its own.
const DefaultCopyLimit = 3

// DefaultPackQuantity is the number of copies of a card included in a single
// product box when the set data does not declare its own.
const DefaultPackQuantity = 3

// Card represents the static attributes of a single printed card.
// Identity cards additionally carry MinimumDeckSize and InfluenceLimit.
type Card struct {
	Code            string `json:"code"`
	Title           string `json:"title"`
	Side            string `json:"side"` // "Corp" or "Runner"
	Faction         string `json:"faction"`
	Type            string `json:"type"`
	FactionCost     int    `json:"faction_cost"`     // influence cost when off-faction
	AgendaPoints    *int   `json:"agenda_points"`    // nil for non-agendas
	Limited         int    `json:"limited"`          // max legal copies; 0 means default
	PackQuantity    int    `json:"pack_quantity"`    // copies per single box; 0 means default
	SetName         string `json:"set_name"`
	Rotated         bool   `json:"rotated"`
	NormalizedTitle string `json:"normalized_title"` // banned-list lookup key

	// Identity-only attributes.
	MinimumDeckSize int `json:"minimum_deck_size,omitempty"`
	InfluenceLimit  int `json:"influence_limit,omitempty"`
}

// CopyLimit returns the printed per-deck copy limit, defaulting to 3.
func (c *Card) CopyLimit() int {
	if c.Limited > 0 {
		return c.Limited
	}
	return DefaultCopyLimit
}

// BoxQuantity returns the copies included in one product box, defaulting to 3.
func (c *Card) BoxQuantity() int {
	if c.PackQuantity > 0 {
		return c.PackQuantity
	}
	return DefaultPackQuantity
}

// IsIdentity reports whether the card is an identity.
func (c *Card) IsIdentity() bool {
	return c.Type == TypeIdentity
}

// IsDraftIdentity reports whether the card is a draft-only identity.
// Draft identities lift the influence and copy limits entirely.
func (c *Card) IsDraftIdentity() bool {
	return c.IsIdentity() && c.SetName == "Draft"
}

// MWLKey returns the key used to look the card up in an MWL list.
func (c *Card) MWLKey() string {
	if c.NormalizedTitle != "" {
		return c.NormalizedTitle
	}
	return NormalizeTitle(c.Title)
}

// CardSet describes one releasable product (a data pack or a big box).
// A zero Available time means the set is unreleased.
type CardSet struct {
	Name          string    `json:"name"`
	Cycle         string    `json:"cycle"`
	CyclePosition int       `json:"cycle_position"`
	BigBox        bool      `json:"big_box"`
	Available     time.Time `json:"available"`
	Rotated       bool      `json:"rotated"`
}

// MWLEntry is one card's record on a banned/restricted list. A non-nil
// DeckLimit marks the card banned; IsRestricted marks it restricted.
type MWLEntry struct {
	DeckLimit    *int `json:"deck_limit,omitempty"`
	IsRestricted bool `json:"is_restricted,omitempty"`
}

// MWL is a revision of the official banned/restricted list, keyed by
// normalized card title.
type MWL struct {
	Name      string              `json:"name"`
	DateStart time.Time           `json:"date_start"`
	Cards     map[string]MWLEntry `json:"cards"`
}

// Entry returns the list entry for a card, if any.
func (m *MWL) Entry(c *Card) (MWLEntry, bool) {
	if m == nil || c == nil {
		return MWLEntry{}, false
	}
	e, ok := m.Cards[c.MWLKey()]
	return e, ok
}

// NormalizeTitle lowercases a card title and strips everything except
// letters, digits, and spaces, collapsing runs of spaces to single dashes.
// "Franklin Crick: Tinkerer" becomes "franklin-crick-tinkerer".
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}
