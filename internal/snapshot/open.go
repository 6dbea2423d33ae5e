package snapshot

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vvakame/foodexpress/internal/config"
)

// Open builds the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.Snapshot) (Backend, error) {
	switch cfg.Backend {
	case "file":
		return NewFile(cfg.File.Path), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		return NewRedis(client, cfg.Redis.Key), nil
	case "postgres":
		return OpenPostgres(ctx, cfg.Postgres.DSN, cfg.Postgres.Name)
	case "s3":
		return OpenS3(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.Key)
	case "none", "":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", cfg.Backend)
	}
}
