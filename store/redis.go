// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/redis/go-redis/v9"

	"github.com/luxfi/fhebridge"
	"github.com/luxfi/fhebridge/cache"
)

const redisKeyPrefix = "fhebridge:frame:"

// RedisStore is a redis-backed Store with a read-through FIFO cache.
// Frames are immutable once written, so cached entries never go stale.
type RedisStore struct {
	client *redis.Client
	cache  *cache.FIFO[ids.ID, []byte]
	log    log.Logger
}

// NewRedisStore connects to redis at addr and verifies the connection.
func NewRedisStore(ctx context.Context, logger log.Logger, addr string, cacheSize int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{
		client: client,
		cache:  cache.NewFIFO[ids.ID, []byte](cacheSize),
		log:    logger,
	}, nil
}

func (s *RedisStore) Put(ctx context.Context, frame []byte) (ids.ID, error) {
	id := fhebridge.ComputeDigest(frame)
	// SetNX keeps the first write; content addressing makes any second
	// write identical anyway.
	if err := s.client.SetNX(ctx, redisKeyPrefix+id.Hex(), frame, 0).Err(); err != nil {
		return ids.Empty, fmt.Errorf("failed to store frame: %w", err)
	}
	s.log.Debug("stored frame",
		log.Stringer("id", id),
		log.Int("bytes", len(frame)),
	)
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, id ids.ID) ([]byte, error) {
	frame, err := s.cache.Get(id, func(id ids.ID) ([]byte, error) {
		raw, err := s.client.Get(ctx, redisKeyPrefix+id.Hex()).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load frame: %w", err)
		}
		if err := verifyDigest(id, raw); err != nil {
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), frame...), nil
}

func (s *RedisStore) Has(ctx context.Context, id ids.ID) (bool, error) {
	n, err := s.client.Exists(ctx, redisKeyPrefix+id.Hex()).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check frame: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Delete(ctx context.Context, id ids.ID) error {
	n, err := s.client.Del(ctx, redisKeyPrefix+id.Hex()).Result()
	if err != nil {
		return fmt.Errorf("failed to delete frame: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
