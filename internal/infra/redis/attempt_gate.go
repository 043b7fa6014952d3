package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// AttemptGate marks completed attempts in Redis. SETNX gives the atomic
// check-and-set the submission flow depends on: of any number of concurrent
// claims for one user, exactly one observes the key being created.
type AttemptGate struct {
	client *redis.Client
}

func NewAttemptGate(client *redis.Client) *AttemptGate {
	return &AttemptGate{client: client}
}

func (g *AttemptGate) Completed(ctx context.Context, userID string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (g *AttemptGate) Claim(ctx context.Context, userID, token string) (bool, error) {
	// No expiry: one attempt per user for the lifetime of the system.
	return g.client.SetNX(ctx, g.key(userID), token, 0).Result()
}

func (g *AttemptGate) Release(ctx context.Context, userID string) error {
	return g.client.Del(ctx, g.key(userID)).Err()
}

func (g *AttemptGate) key(userID string) string {
	return "attempt:" + userID
}
