package service

import (
	"context"
)

type storeKey struct{}

// WithStore returns a context carrying s.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// FromContext returns the Store attached by WithStore.
// It panics when none is attached: reading session state outside a
// Store's scope is a programming error.
func FromContext(ctx context.Context) *Store {
	s, ok := ctx.Value(storeKey{}).(*Store)
	if !ok || s == nil {
		panic("service: no session Store in context (missing WithStore)")
	}
	return s
}
