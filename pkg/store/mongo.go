package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/openmodel/pkg/identity"
)

// Defaults for [MongoOptions].
const (
	DefaultMongoDatabase   = "openmodel"
	DefaultMongoCollection = "documents"
)

// MongoOptions configures a [MongoStore].
type MongoOptions struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// MongoStore keeps one collection entry per document. The entry's _id is
// the document ID in canonical string form.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoEntry struct {
	ID      string    `bson:"_id"`
	Data    []byte    `bson:"data"`
	Updated time.Time `bson:"updated"`
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db, coll := opts.Database, opts.Collection
	if db == "" {
		db = DefaultMongoDatabase
	}
	if coll == "" {
		coll = DefaultMongoCollection
	}
	return &MongoStore{client: client, coll: client.Database(db).Collection(coll)}, nil
}

// Get reads the entry for id.
func (s *MongoStore) Get(ctx context.Context, id identity.ID) ([]byte, error) {
	var e mongoEntry
	err := retryWithBackoff(ctx, func() error {
		return mongoRetryable(s.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&e))
	})
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, err
	}
	return e.Data, nil
}

// Put upserts the entry for id.
func (s *MongoStore) Put(ctx context.Context, id identity.ID, data []byte) error {
	e := mongoEntry{ID: id.String(), Data: data, Updated: time.Now().UTC()}
	return retryWithBackoff(ctx, func() error {
		_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": e.ID}, e, options.Replace().SetUpsert(true))
		return mongoRetryable(err)
	})
}

// Delete removes the entry for id.
func (s *MongoStore) Delete(ctx context.Context, id identity.ID) error {
	var res *mongo.DeleteResult
	err := retryWithBackoff(ctx, func() error {
		var err error
		res, err = s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
		return mongoRetryable(err)
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// List returns all entry IDs sorted ascending.
func (s *MongoStore) List(ctx context.Context) ([]identity.ID, error) {
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []identity.ID
	for cur.Next(ctx) {
		var e struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		if id, err := identity.Parse(e.ID); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, cur.Err()
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func mongoRetryable(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return &retryableError{err: err}
	}
	return err
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
