package store

import (
	"context"

	"github.com/matzehuels/openmodel/pkg/errors"
	"github.com/matzehuels/openmodel/pkg/identity"
	"github.com/matzehuels/openmodel/pkg/observability"
)

type instrumented struct {
	Store
	backend string
}

// Instrument wraps s so every access is reported to the registered
// [observability.StoreHooks] under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

func (s *instrumented) Get(ctx context.Context, id identity.ID) ([]byte, error) {
	data, err := s.Store.Get(ctx, id)
	switch {
	case err == nil:
		observability.Store().OnStoreHit(ctx, s.backend, id.String())
	case errors.Is(err, errors.CodeNotFound):
		observability.Store().OnStoreMiss(ctx, s.backend, id.String())
	}
	return data, err
}

func (s *instrumented) Put(ctx context.Context, id identity.ID, data []byte) error {
	if err := s.Store.Put(ctx, id, data); err != nil {
		return err
	}
	observability.Store().OnStorePut(ctx, s.backend, id.String(), len(data))
	return nil
}

func (s *instrumented) Delete(ctx context.Context, id identity.ID) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	observability.Store().OnStoreDelete(ctx, s.backend, id.String())
	return nil
}
