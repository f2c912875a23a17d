package cache

import (
	"context"
	"sync"
	"time"

	"github.com/lerp/backend/internal/domain/sales"
)

type cartEntry struct {
	cart      sales.Cart
	expiresAt time.Time
}

// InMemoryCartStore implements sales.CartStore with a process-local map.
// Suitable for single-instance deployments and tests; distributed
// deployments should use RedisCartStore.
type InMemoryCartStore struct {
	mu      sync.RWMutex
	entries map[string]cartEntry
	ttl     time.Duration
}

// NewInMemoryCartStore creates an in-memory cart store
func NewInMemoryCartStore(ttl time.Duration) *InMemoryCartStore {
	return &InMemoryCartStore{
		entries: make(map[string]cartEntry),
		ttl:     ttl,
	}
}

// Get loads the cart for a session. A missing or expired cart yields a
// fresh empty one.
func (s *InMemoryCartStore) Get(ctx context.Context, sessionKey string) (*sales.Cart, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionKey]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return sales.NewCart(sessionKey), nil
	}
	return copyCart(&entry.cart), nil
}

// Put stores the cart and refreshes its TTL
func (s *InMemoryCartStore) Put(ctx context.Context, cart *sales.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[cart.SessionKey] = cartEntry{
		cart:      *copyCart(cart),
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Clear removes the cart for a session
func (s *InMemoryCartStore) Clear(ctx context.Context, sessionKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionKey)
	return nil
}

// Cleanup removes expired carts. Call periodically in long-running processes.
func (s *InMemoryCartStore) Cleanup() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// copyCart deep-copies a cart so callers never share line slices
func copyCart(cart *sales.Cart) *sales.Cart {
	dup := *cart
	dup.Lines = append([]sales.CartLine(nil), cart.Lines...)
	if cart.QuotationID != nil {
		id := *cart.QuotationID
		dup.QuotationID = &id
	}
	return &dup
}

// Ensure InMemoryCartStore implements CartStore
var _ sales.CartStore = (*InMemoryCartStore)(nil)
