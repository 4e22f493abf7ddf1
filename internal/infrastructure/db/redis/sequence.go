package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const userIDKey = "seq:user_id"

// Sequence allocates monotonically increasing ids with INCR.
type Sequence struct {
	client *redis.Client
	key    string
}

// NewUserIDSequence returns the sequence used for numeric user ids.
func NewUserIDSequence(client *redis.Client) *Sequence {
	return &Sequence{client: client, key: userIDKey}
}

func (s *Sequence) Next(ctx context.Context) (int64, error) {
	id, err := s.client.Incr(ctx, s.key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", s.key, err)
	}
	return id, nil
}
