// Package snapshot holds the process-wide, read-only view of the card
// database. Evaluations read one immutable Snapshot for their whole
// duration; reloads swap the Store's pointer atomically so an in-flight
// evaluation never observes a torn mix of old and new data.
package snapshot

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/anrtools/anr-companion/internal/anr/cards"
)

// Snapshot is one immutable, internally consistent view of the card
// database. Never mutate a Snapshot after publishing it.
type Snapshot struct {
	cardsByCode  map[string]*cards.Card
	cardsByTitle map[string]*cards.Card
	sets         []cards.CardSet
	mwl          *cards.MWL

	// LoadedAt records when this snapshot was built.
	LoadedAt time.Time
}

// New builds a snapshot from loaded card data.
func New(cardList []*cards.Card, sets []cards.CardSet, mwl *cards.MWL) *Snapshot {
	s := &Snapshot{
		cardsByCode:  make(map[string]*cards.Card, len(cardList)),
		cardsByTitle: make(map[string]*cards.Card, len(cardList)),
		sets:         sets,
		mwl:          mwl,
		LoadedAt:     time.Now(),
	}
	if s.mwl == nil {
		s.mwl = &cards.MWL{Cards: map[string]cards.MWLEntry{}}
	}
	for _, card := range cardList {
		s.cardsByCode[card.Code] = card
		s.cardsByTitle[card.MWLKey()] = card
	}
	return s
}

// Card looks a card up by code.
func (s *Snapshot) Card(code string) (*cards.Card, bool) {
	card, ok := s.cardsByCode[code]
	return card, ok
}

// CardByTitle looks a card up by title, insensitive to case and punctuation.
func (s *Snapshot) CardByTitle(title string) (*cards.Card, bool) {
	card, ok := s.cardsByTitle[cards.NormalizeTitle(title)]
	return card, ok
}

// AllCards returns every card, sorted by code.
func (s *Snapshot) AllCards() []*cards.Card {
	all := make([]*cards.Card, 0, len(s.cardsByCode))
	for _, card := range s.cardsByCode {
		all = append(all, card)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all
}

// CardCount returns the number of distinct cards.
func (s *Snapshot) CardCount() int {
	return len(s.cardsByCode)
}

// Sets returns the set catalog.
func (s *Snapshot) Sets() []cards.CardSet {
	return s.sets
}

// MWL returns the banned/restricted list in effect.
func (s *Snapshot) MWL() *cards.MWL {
	return s.mwl
}

// Store publishes the current snapshot. Reads never block and always see a
// complete snapshot; Replace swaps atomically.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store holding an empty snapshot, so callers never deal
// with a nil current.
func NewStore() *Store {
	st := &Store{}
	st.current.Store(New(nil, nil, nil))
	return st
}

// Current returns the snapshot in effect right now.
func (st *Store) Current() *Snapshot {
	return st.current.Load()
}

// Replace publishes a new snapshot. In-flight readers keep the one they
// started with.
func (st *Store) Replace(s *Snapshot) {
	st.current.Store(s)
}
