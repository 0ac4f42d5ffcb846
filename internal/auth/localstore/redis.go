package localstore

import (
	"context"

	"github.com/redis/go-redis/v9"

	platformerrors "storefront-go/internal/platform/errors"
)

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis constructs a redis-backed store, useful when several storefront
// processes should share one session cache.
func NewRedis(cfg Config) (Store, error) {
	if cfg.Redis == nil {
		return nil, platformerrors.New(platformerrors.KindStorage, "localstore.redis", "redis configuration missing")
	}
	if cfg.Redis.Addr == "" {
		return nil, platformerrors.New(platformerrors.KindStorage, "localstore.redis", "redis address required")
	}

	opts := &redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, "localstore.redis", "redis ping failed", err)
	}

	prefix := cfg.Redis.Prefix
	if prefix == "" {
		prefix = "storefront:local:"
	}
	return &redisStore{
		client: client,
		prefix: prefix,
	}, nil
}

func (s *redisStore) key(k string) string {
	return s.prefix + k
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *redisStore) Clear(ctx context.Context) error {
	var cursor uint64
	pattern := s.prefix + "*"
	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if nextCursor == 0 {
			break
		}
		cursor = nextCursor
	}
	return nil
}

func (s *redisStore) Close(_ context.Context) error {
	return s.client.Close()
}
