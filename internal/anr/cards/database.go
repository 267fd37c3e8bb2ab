package cards

import "context"

// Database exposes an already-loaded card database: all cards, the set
// catalog, and the banned/restricted list currently in effect.
type Database interface {
	AllCards(ctx context.Context) ([]*Card, error)
	CardSets(ctx context.Context) ([]CardSet, error)
	ActiveMWL(ctx context.Context) (*MWL, error)
}
