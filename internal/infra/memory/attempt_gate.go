package memory

import (
	"context"
	"sync"
)

// AttemptGate is an in-memory implementation of app.AttemptGate. The single
// mutex makes Claim a true check-and-set: concurrent claims for the same
// user resolve to exactly one winner.
type AttemptGate struct {
	mu      sync.Mutex
	claimed map[string]string // userID -> result token
}

func NewAttemptGate() *AttemptGate {
	return &AttemptGate{claimed: make(map[string]string)}
}

func (g *AttemptGate) Completed(_ context.Context, userID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, done := g.claimed[userID]
	return done, nil
}

func (g *AttemptGate) Claim(_ context.Context, userID, token string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, done := g.claimed[userID]; done {
		return false, nil
	}
	g.claimed[userID] = token
	return true, nil
}

func (g *AttemptGate) Release(_ context.Context, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.claimed, userID)
	return nil
}
