// Package store defines the document storage contract the auction core
// runs against. The engine treats the store as an external collaborator:
// durable key/value documents grouped into collections, with no
// multi-document transaction assumed. Serialization of writers happens
// above this layer, keyed by event ID.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// Collection names used by the auction core.
const (
	CollectionEvents      = "auction_states"
	CollectionLots        = "players"
	CollectionBidders     = "teams"
	CollectionBids        = "bids"
	CollectionAssignments = "auctioneer_assignments"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("store: document not found")

// Store is a minimal document store: get/set/delete by collection and
// key, plus a full-collection scan that callers filter in memory.
type Store interface {
	// Get unmarshals the document at collection/key into dest.
	// Returns ErrNotFound if the document does not exist.
	Get(ctx context.Context, collection, key string, dest any) error

	// Set marshals doc and writes it at collection/key, overwriting any
	// existing document.
	Set(ctx context.Context, collection, key string, doc any) error

	// Delete removes the document at collection/key. Deleting a missing
	// document is not an error.
	Delete(ctx context.Context, collection, key string) error

	// List returns the raw documents of a collection in unspecified
	// order. Callers apply predicates themselves.
	List(ctx context.Context, collection string) ([]json.RawMessage, error)
}
