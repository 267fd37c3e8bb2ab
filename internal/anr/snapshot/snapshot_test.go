package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/anrtools/anr-companion/internal/anr/cards"
	"github.com/anrtools/anr-companion/internal/events"
)

func sampleCards() []*cards.Card {
	return []*cards.Card{
		{Code: "01110", Title: "Hedge Fund", NormalizedTitle: "hedge-fund"},
		{Code: "01050", Title: "Sure Gamble", NormalizedTitle: "sure-gamble"},
	}
}

func TestSnapshotLookups(t *testing.T) {
	s := New(sampleCards(), []cards.CardSet{{Name: "Revised Core Set"}}, nil)

	if card, ok := s.Card("01110"); !ok || card.Title != "Hedge Fund" {
		t.Errorf("Card(01110) = %v, %v", card, ok)
	}
	if _, ok := s.Card("99999"); ok {
		t.Error("unknown code should not resolve")
	}
	if card, ok := s.CardByTitle("hedge fund"); !ok || card.Code != "01110" {
		t.Errorf("CardByTitle should be case-insensitive, got %v, %v", card, ok)
	}

	all := s.AllCards()
	if len(all) != 2 || all[0].Code != "01050" {
		t.Errorf("AllCards() should sort by code, got %v", all)
	}
}

func TestStoreReplaceIsAtomic(t *testing.T) {
	store := NewStore()
	if store.Current() == nil {
		t.Fatal("a fresh store must hold a non-nil snapshot")
	}

	before := store.Current()
	replacement := New(sampleCards(), nil, nil)
	store.Replace(replacement)

	if store.Current() != replacement {
		t.Error("Current() should return the replaced snapshot")
	}
	// The old snapshot stays usable for in-flight readers.
	if before.CardCount() != 0 {
		t.Error("previous snapshot should be unchanged")
	}
}

type staticDB struct {
	cards []*cards.Card
	sets  []cards.CardSet
	mwl   *cards.MWL
}

func (db *staticDB) AllCards(context.Context) ([]*cards.Card, error)   { return db.cards, nil }
func (db *staticDB) CardSets(context.Context) ([]cards.CardSet, error) { return db.sets, nil }
func (db *staticDB) ActiveMWL(context.Context) (*cards.MWL, error)     { return db.mwl, nil }

type countingObserver struct {
	reloads int
}

func (o *countingObserver) OnEvent(events.Event) error { o.reloads++; return nil }
func (o *countingObserver) Name() string               { return "counting" }
func (o *countingObserver) ShouldHandle(t string) bool { return t == events.TypeSnapshotReloaded }

func TestLoaderReloadPublishesAndAnnounces(t *testing.T) {
	store := NewStore()
	dispatcher := events.NewDispatcher()
	observer := &countingObserver{}
	dispatcher.Register(observer)

	db := &staticDB{
		cards: sampleCards(),
		sets:  []cards.CardSet{{Name: "Revised Core Set", Available: time.Now().Add(-time.Hour)}},
		mwl:   &cards.MWL{Name: "NAPD MWL 2.0", Cards: map[string]cards.MWLEntry{}},
	}
	loader := NewLoader(store, db, dispatcher, nil)

	snap, err := loader.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if store.Current() != snap {
		t.Error("Reload() should publish the new snapshot")
	}
	if snap.CardCount() != 2 || snap.MWL().Name != "NAPD MWL 2.0" {
		t.Errorf("snapshot content wrong: %d cards, mwl %q", snap.CardCount(), snap.MWL().Name)
	}
	if observer.reloads != 1 {
		t.Errorf("observer saw %d reload events, want 1", observer.reloads)
	}
}
