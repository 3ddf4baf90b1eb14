package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore records submit idempotency keys so a retried POST returns
// the originally created request instead of a duplicate.
// Key format: idem:<actor_id>:<key> → request id.
type IdempotencyStore struct {
	client *redis.Client
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Lookup returns the request id stored for the key, or "" on a miss.
func (s *IdempotencyStore) Lookup(ctx context.Context, actorID, key string) (string, error) {
	id, err := s.client.Get(ctx, s.key(actorID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, nil
}

// Remember stores the request id created for the key (expires after idempotencyTTL).
func (s *IdempotencyStore) Remember(ctx context.Context, actorID, key, requestID string) error {
	return s.client.Set(ctx, s.key(actorID, key), requestID, idempotencyTTL).Err()
}

func (s *IdempotencyStore) key(actorID, key string) string {
	return fmt.Sprintf("idem:%s:%s", actorID, key)
}
