package structure

import (
	"slices"

	"github.com/matzehuels/openmodel/pkg/identity"
)

// table is an identity-keyed collection that remembers insertion order.
type table[T any] struct {
	byID  map[identity.ID]*T
	order []identity.ID
}

func newTable[T any]() table[T] {
	return table[T]{byID: make(map[identity.ID]*T)}
}

func (t *table[T]) get(id identity.ID) (*T, bool) {
	v, ok := t.byID[id]
	return v, ok
}

func (t *table[T]) has(id identity.ID) bool {
	_, ok := t.byID[id]
	return ok
}

func (t *table[T]) put(id identity.ID, v *T) {
	t.byID[id] = v
	t.order = append(t.order, id)
}

func (t *table[T]) remove(id identity.ID) {
	delete(t.byID, id)
	t.order = slices.DeleteFunc(t.order, func(x identity.ID) bool { return x == id })
}

func (t *table[T]) len() int { return len(t.byID) }

// values returns shallow copies in insertion order.
func (t *table[T]) values() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.byID[id])
	}
	return out
}
