package snapshot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anrtools/anr-companion/internal/anr/cards"
	"github.com/anrtools/anr-companion/internal/anr/cards/nrdb"
	"github.com/anrtools/anr-companion/internal/events"
)

// Loader builds snapshots from a card database and publishes them to a
// store, announcing each swap through the event dispatcher.
type Loader struct {
	store      *Store
	db         cards.Database
	dispatcher *events.Dispatcher
	logger     *slog.Logger
}

// NewLoader creates a loader. The dispatcher may be nil when nothing needs
// reload notifications.
func NewLoader(store *Store, db cards.Database, dispatcher *events.Dispatcher, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		store:      store,
		db:         db,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Reload pulls all card data from the database, builds a fresh snapshot,
// and publishes it.
func (l *Loader) Reload(ctx context.Context) (*Snapshot, error) {
	allCards, err := l.db.AllCards(ctx)
	if err != nil {
		l.announceError(err)
		return nil, fmt.Errorf("load cards: %w", err)
	}
	sets, err := l.db.CardSets(ctx)
	if err != nil {
		l.announceError(err)
		return nil, fmt.Errorf("load card sets: %w", err)
	}
	mwl, err := l.db.ActiveMWL(ctx)
	if err != nil {
		l.announceError(err)
		return nil, fmt.Errorf("load mwl: %w", err)
	}

	return l.publish(New(allCards, sets, mwl)), nil
}

// ApplyBundle builds and publishes a snapshot from an already converted
// card data bundle, bypassing the database.
func (l *Loader) ApplyBundle(bundle *nrdb.Bundle) *Snapshot {
	mwl := bundle.MWL
	return l.publish(New(bundle.Cards, bundle.Sets, &mwl))
}

func (l *Loader) publish(s *Snapshot) *Snapshot {
	l.store.Replace(s)
	l.logger.Info("card pool snapshot published",
		"cards", s.CardCount(),
		"sets", len(s.Sets()),
		"mwl", s.MWL().Name,
	)
	if l.dispatcher != nil {
		l.dispatcher.Dispatch(events.Event{
			Type: events.TypeSnapshotReloaded,
			Data: map[string]interface{}{
				"cards": s.CardCount(),
				"sets":  len(s.Sets()),
				"mwl":   s.MWL().Name,
			},
		})
	}
	return s
}

func (l *Loader) announceError(err error) {
	l.logger.Error("card pool reload failed", "error", err)
	if l.dispatcher != nil {
		l.dispatcher.Dispatch(events.Event{
			Type: events.TypeSnapshotError,
			Data: map[string]interface{}{"error": err.Error()},
		})
	}
}
