package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/cartkeeper/internal/domain"
	"github.com/nikolayk812/cartkeeper/internal/port"
	"github.com/redis/go-redis/v9"
)

type redisRepository struct {
	rdb  *redis.Client
	slot string
}

// NewRedis stores the serialized cart under the slot key.
func NewRedis(rdb *redis.Client, slot string) (port.CartSnapshotStore, error) {
	if rdb == nil {
		return nil, fmt.Errorf("rdb is nil")
	}
	if slot == "" {
		return nil, fmt.Errorf("slot is empty")
	}

	return &redisRepository{rdb: rdb, slot: slot}, nil
}

func (r *redisRepository) Load(ctx context.Context) (domain.Cart, error) {
	data, err := r.rdb.Get(ctx, r.slot).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{Items: []domain.LineItem{}}, nil
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("rdb.Get: %w", err)
	}

	cart, err := UnmarshalCart(data)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("UnmarshalCart: %w", err)
	}

	return cart, nil
}

func (r *redisRepository) Save(ctx context.Context, cart domain.Cart) error {
	data, err := MarshalCart(cart)
	if err != nil {
		return fmt.Errorf("MarshalCart: %w", err)
	}

	if err := r.rdb.Set(ctx, r.slot, data, 0).Err(); err != nil {
		return fmt.Errorf("rdb.Set: %w", err)
	}

	return nil
}

// PingWithRetry waits for redis to answer, backing off exponentially up to 30s
// between attempts.
func PingWithRetry(ctx context.Context, rdb *redis.Client, attempts int) error {
	var err error

	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()

		if err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		backoff := time.Duration(1<<i) * time.Second
		if backoff > 30*time.Second {
			backoff = 30 * time.Second
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	return fmt.Errorf("redis not ready after %d attempts: %w", attempts, err)
}
