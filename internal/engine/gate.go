package engine

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gate bounds how many tenant tasks may run their downstream-calling work at
// once. Capacity is fixed at construction.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int
}

func NewGate(capacity int) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
	}
}

// Acquire blocks until a slot is free or ctx is canceled.
func (g *Gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

func (g *Gate) Release() {
	g.sem.Release(1)
}

func (g *Gate) Capacity() int {
	return g.capacity
}
