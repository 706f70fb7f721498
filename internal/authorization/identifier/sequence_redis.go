package identifier

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"autoriza/pkg/platform/sentinel"
)

const (
	redisSequenceKey     = "autoriza:authorization:sequence"
	redisNumberKeyPrefix = "autoriza:authorization:number:"
)

// RedisSequence allocates sequence values via INCR, giving every node of a
// deployment a shared, collision-free source.
type RedisSequence struct {
	client redis.UniversalClient
}

func NewRedisSequence(client redis.UniversalClient) *RedisSequence {
	return &RedisSequence{client: client}
}

func (s *RedisSequence) Next(ctx context.Context) (uint64, error) {
	n, err := s.client.Incr(ctx, redisSequenceKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr sequence: %w", err)
	}
	return uint64(n), nil
}

// RedisRegistry reserves numbers with SETNX. Reservations are kept without
// TTL; an authorization number is unique for the life of the system.
type RedisRegistry struct {
	client redis.UniversalClient
}

func NewRedisRegistry(client redis.UniversalClient) *RedisRegistry {
	return &RedisRegistry{client: client}
}

func (r *RedisRegistry) Reserve(ctx context.Context, number string) error {
	ok, err := r.client.SetNX(ctx, redisNumberKeyPrefix+number, 1, 0).Result()
	if err != nil {
		return fmt.Errorf("redis reserve number: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	return nil
}
