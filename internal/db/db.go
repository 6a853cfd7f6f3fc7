// Package db declares the storage contracts shared by the Redis and
// Postgres backends. Repositories depend on the narrow interfaces below,
// never on a concrete client.
package db

import (
	"context"
	"time"
)

// Store is everything the Redis backend offers. Only the composition root
// sees it whole.
//
//nolint:interfacebloat // consumers declare narrow sub-interfaces
type Store interface {
	Pinger
	HashStore
	KVStore
	IndexManager
	Searcher
	GeoStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger probes connectivity once.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore keeps entry documents as flat string hashes.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	// HGetAll returns ErrKeyNotFound for a missing key.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// KVStore keeps opaque binary values such as cached embeddings.
type KVStore interface {
	// Get returns ErrKeyNotFound for a missing key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value; ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// IndexManager owns the lifecycle of search indexes.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher runs filtered nearest-neighbour queries.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// GeoMember is a named coordinate in a GEO set.
type GeoMember struct {
	Name string
	Lat  float64
	Lon  float64
}

// GeoStore keeps named coordinates, used by the gazetteer.
type GeoStore interface {
	GeoAdd(ctx context.Context, key string, members ...GeoMember) error
	// GeoPos returns nil for members that are not in the set.
	GeoPos(ctx context.Context, key string, names ...string) ([]*GeoMember, error)
}
