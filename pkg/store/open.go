package store

import (
	"context"

	"github.com/matzehuels/openmodel/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Backend  string       `toml:"backend"`
	Dir      string       `toml:"dir"`      // file backend root
	Compress bool         `toml:"compress"` // store zstd frames
	Redis    RedisOptions `toml:"redis"`
	Mongo    MongoOptions `toml:"mongo"`
}

// Open creates the configured backend wrapped by [Instrument]. An empty
// backend name selects the file store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	backend := cfg.Backend
	if backend == "" {
		backend = BackendFile
	}
	switch backend {
	case BackendFile:
		if cfg.Dir == "" {
			return nil, errors.New(errors.CodeInvalidInput, "file store needs a directory")
		}
		s, err = NewFileStore(cfg.Dir)
	case BackendMemory:
		s = NewMemoryStore()
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.Redis)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.Mongo)
	default:
		return nil, errors.New(errors.CodeInvalidInput, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, backend), nil
}
