package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/openmodel/pkg/identity"
)

// DefaultRedisPrefix namespaces document keys.
const DefaultRedisPrefix = "openmodel:doc:"

// RedisOptions configures a [RedisStore].
type RedisOptions struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"` // key prefix, DefaultRedisPrefix when empty
}

// RedisStore stores each document as a plain string value.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) key(id identity.ID) string { return s.prefix + id.String() }

// Get reads the value stored for id.
func (s *RedisStore) Get(ctx context.Context, id identity.ID) ([]byte, error) {
	var data []byte
	err := retryWithBackoff(ctx, func() error {
		var err error
		data, err = s.client.Get(ctx, s.key(id)).Bytes()
		return retryable(err)
	})
	if stderrors.Is(err, redis.Nil) {
		return nil, notFound(id)
	}
	return data, err
}

// Put sets the value for id without expiration.
func (s *RedisStore) Put(ctx context.Context, id identity.ID, data []byte) error {
	return retryWithBackoff(ctx, func() error {
		return retryable(s.client.Set(ctx, s.key(id), data, 0).Err())
	})
}

// Delete removes the key for id.
func (s *RedisStore) Delete(ctx context.Context, id identity.ID) error {
	var n int64
	err := retryWithBackoff(ctx, func() error {
		var err error
		n, err = s.client.Del(ctx, s.key(id)).Result()
		return retryable(err)
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(id)
	}
	return nil
}

// List scans the key space under the store's prefix.
func (s *RedisStore) List(ctx context.Context) ([]identity.ID, error) {
	var ids []identity.ID
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if id, err := identity.Parse(strings.TrimPrefix(iter.Val(), s.prefix)); err == nil {
			ids = append(ids, id)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	// SCAN may return a key more than once.
	slices.SortFunc(ids, identity.Compare)
	return slices.Compact(ids), nil
}

// Close closes the client connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
