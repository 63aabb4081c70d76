// Package catalog records summaries of decoded graphs.
//
// Each successful load through the pipeline can be recorded as a [Record]
// keyed by the SHA-256 of the raw input, so repeat loads of the same bytes
// land on the same entry. Two stores are provided: [MemoryStore] for the
// CLI and tests, and [MongoStore] for a shared catalog behind the query
// server.
package catalog

import (
	"context"
	"time"

	"github.com/matzehuels/gtreader/pkg/gt"
)

// Record describes one decoded graph.
type Record struct {
	Hash        string     `json:"hash" bson:"_id"`
	Ref         string     `json:"ref" bson:"ref"`
	Compression string     `json:"compression" bson:"compression"`
	InputBytes  int        `json:"input_bytes" bson:"input_bytes"`
	Summary     gt.Summary `json:"summary" bson:"summary"`
	DecodedAt   time.Time  `json:"decoded_at" bson:"decoded_at"`
}

// Store persists records. Put replaces any record with the same hash.
// Get returns an ErrCodeNotFound error for unknown hashes. List returns
// the newest records first; a limit of zero or less returns all of them.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, hash string) (Record, error)
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}
