// Package store persists documents in pluggable key-value backends.
//
// A [Store] maps document IDs to encoded bytes. It knows nothing about the
// document format; [Save] and [Load] handle encoding through
// [document.ToText] and [document.FromText].
//
// # Backends
//
//   - [FileStore]: one file per document below a directory, for the CLI
//   - [MemoryStore]: a map, for tests and ephemeral servers
//   - [RedisStore]: one string key per document
//   - [MongoStore]: one binary field per collection document
//
// [Open] builds any of them from a [Config] and instruments the result with
// [observability.StoreHooks].
//
// # Errors
//
// Get and Delete of an absent ID fail with a NOT_FOUND [errors.Error], for
// every backend. Stores are safe for concurrent use.
package store

import (
	"context"
	"time"

	"github.com/matzehuels/openmodel/pkg/document"
	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/identity"
	"github.com/matzehuels/openmodel/pkg/observability"
)

// Store is a key-value store of encoded documents keyed by document ID.
type Store interface {
	// Get returns the bytes stored under id.
	Get(ctx context.Context, id identity.ID) ([]byte, error)

	// Put stores data under id, replacing any previous value.
	Put(ctx context.Context, id identity.ID, data []byte) error

	// Delete removes id.
	Delete(ctx context.Context, id identity.ID) error

	// List returns all stored IDs in ascending order.
	List(ctx context.Context) ([]identity.ID, error)

	// Close releases backend resources.
	Close() error
}

func notFound(id identity.ID) error {
	return errors.New(errors.CodeNotFound, "document %s not found", id)
}

// Save encodes doc as JSON and stores it under its ID.
func Save(ctx context.Context, s Store, doc *document.Document) error {
	return save(ctx, s, doc, false)
}

// SaveCompressed is like [Save] but stores a zstd frame.
func SaveCompressed(ctx context.Context, s Store, doc *document.Document) error {
	return save(ctx, s, doc, true)
}

func save(ctx context.Context, s Store, doc *document.Document, compressed bool) error {
	start := time.Now()
	data, err := document.ToText(doc)
	if err == nil && compressed {
		data, err = document.Compress(data)
	}
	observability.Codec().OnEncode(ctx, codecName(compressed), len(data), time.Since(start), err)
	if err != nil {
		return err
	}
	return s.Put(ctx, doc.ID, data)
}

// Load fetches and decodes the document stored under id. Compressed
// entries are detected by content.
func Load(ctx context.Context, s Store, id identity.ID) (*document.Document, error) {
	data, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	doc, err := document.Decode(data, document.EncodingJSON)
	observability.Codec().OnDecode(ctx, codecName(document.IsCompressed(data)), len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if doc.ID != id {
		return nil, errors.New(errors.CodeInternal, "entry %s holds document %s", id, doc.ID)
	}
	return doc, nil
}

func codecName(compressed bool) string {
	if compressed {
		return "json+zstd"
	}
	return "json"
}
