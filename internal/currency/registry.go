package currency

import (
	"fmt"
	"strings"
	"sync"
)

// Registry is a thread-safe registry of known currencies.
type Registry struct {
	byID   map[ID]*Currency
	byCoin map[string][]*Currency // coin -> currencies (same coin on different chains)
	mu     sync.RWMutex
}

// NewRegistry creates a new empty currency registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[ID]*Currency),
		byCoin: make(map[string][]*Currency),
	}
}

// Register adds a currency to the registry.
// Panics if a currency with the same ID is already registered.
func (r *Registry) Register(c *Currency) {
	if c == nil {
		panic("currency: cannot register nil currency")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := c.ID()
	if _, exists := r.byID[id]; exists {
		panic(fmt.Sprintf("currency: %s already registered", id))
	}

	r.byID[id] = c
	r.byCoin[c.Coin()] = append(r.byCoin[c.Coin()], c)
}

// Get retrieves a currency by its ID.
func (r *Registry) Get(id ID) (*Currency, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	return c, ok
}

// Lookup retrieves a currency by coin and chain. Falls back to the
// coin's sole entry when the chain is unknown to the caller.
func (r *Registry) Lookup(coin, chain string) (*Currency, bool) {
	if c, ok := r.Get(NewID(coin, chain)); ok {
		return c, true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byCoin[strings.ToLower(coin)]
	if len(list) == 1 {
		return list[0], true
	}
	return nil, false
}

// Decimals returns the precision for a coin on a chain, defaulting to
// defaultDecimals when the currency is not registered.
func (r *Registry) Decimals(coin, chain string, defaultDecimals uint8) uint8 {
	if c, ok := r.Lookup(coin, chain); ok {
		return c.Decimals()
	}
	return defaultDecimals
}

// GetByCoin retrieves all currencies with the given coin symbol.
// Returns nil if none found.
func (r *Registry) GetByCoin(coin string) []*Currency {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byCoin[strings.ToLower(coin)]
	if len(list) == 0 {
		return nil
	}

	result := make([]*Currency, len(list))
	copy(result, list)
	return result
}

// All returns all registered currencies.
func (r *Registry) All() []*Currency {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Currency, 0, len(r.byID))
	for _, c := range r.byID {
		result = append(result, c)
	}
	return result
}

// Count returns the number of registered currencies.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Has returns true if a currency with the given ID is registered.
func (r *Registry) Has(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}
