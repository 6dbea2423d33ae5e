package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vvakame/foodexpress/internal/store"
)

var _ Backend = (*Redis)(nil)

// Redis keeps the document under a single key without expiry.
type Redis struct {
	Client *redis.Client
	Key    string
}

func NewRedis(client *redis.Client, key string) *Redis {
	return &Redis{Client: client, Key: key}
}

func (r *Redis) Load(ctx context.Context) (*store.Snapshot, error) {
	b, err := r.Client.Get(ctx, r.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	} else if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", r.Key, err)
	}
	return Decode(b)
}

func (r *Redis) Save(ctx context.Context, snap *store.Snapshot) error {
	b, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := r.Client.Set(ctx, r.Key, b, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", r.Key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.Client.Close()
}
