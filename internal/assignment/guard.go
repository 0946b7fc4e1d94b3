package assignment

import (
	"context"
	"sync"
)

// Guard owns the per-operator live load counters. It is the only mutable
// shared state the routing core touches. Successful reservations for a single
// operator are linearizable: two concurrent requests can never both win the
// operator's last free slot.
type Guard interface {
	// TryReserve claims one load unit when the operator's current load is
	// below maxLoad. It reports false when the operator is saturated.
	TryReserve(ctx context.Context, operatorID string, maxLoad int) (bool, error)
	// Release returns one load unit, compensating a reservation whose appeal
	// was never written or whose appeal has been resolved.
	Release(ctx context.Context, operatorID string) error
	// Load reports the operator's current live load.
	Load(ctx context.Context, operatorID string) (int, error)
	// Loads reports live loads for a batch of operators.
	Loads(ctx context.Context, operatorIDs []string) (map[string]int, error)
	// Seed reconciles the counters from storage, typically at startup.
	Seed(ctx context.Context, loads map[string]int) error
}

type memoryGuard struct {
	mu    sync.Mutex
	loads map[string]int
}

// NewMemoryGuard builds a mutex-protected in-process guard, suitable for a
// single service instance.
func NewMemoryGuard() Guard {
	return &memoryGuard{loads: make(map[string]int)}
}

func (g *memoryGuard) TryReserve(_ context.Context, operatorID string, maxLoad int) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loads[operatorID] >= maxLoad {
		return false, nil
	}
	g.loads[operatorID]++
	return true, nil
}

func (g *memoryGuard) Release(_ context.Context, operatorID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.loads[operatorID] > 0 {
		g.loads[operatorID]--
	}
	return nil
}

func (g *memoryGuard) Load(_ context.Context, operatorID string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loads[operatorID], nil
}

func (g *memoryGuard) Loads(_ context.Context, operatorIDs []string) (map[string]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	result := make(map[string]int, len(operatorIDs))
	for _, id := range operatorIDs {
		result[id] = g.loads[id]
	}
	return result, nil
}

func (g *memoryGuard) Seed(_ context.Context, loads map[string]int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loads = make(map[string]int, len(loads))
	for id, load := range loads {
		g.loads[id] = load
	}
	return nil
}
