package cache

import (
	"astrogation-service/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "astrogation:"

// RedisSectorCache keeps parsed sector data in Redis with an expiry.
// Offsets never expire.
type RedisSectorCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSectorCache(client *redis.Client, ttl time.Duration) *RedisSectorCache {
	return &RedisSectorCache{Client: client, TTL: ttl}
}

func systemsKey(sector string) string { return redisKeyPrefix + "sector:" + sector }
func offsetKey(sector string) string  { return redisKeyPrefix + "offset:" + sector }

func (r *RedisSectorCache) GetSystems(ctx context.Context, sector string) ([]domain.System, bool, error) {
	if r.Client == nil {
		return nil, false, errors.New("redis sector cache: client is nil")
	}

	raw, err := r.Client.Get(ctx, systemsKey(sector)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get sector cache sector=%q: %w", sector, err)
	}

	systems, err := decodeSystems(raw)
	if err != nil {
		return nil, false, fmt.Errorf("get sector cache sector=%q: %w", sector, err)
	}
	return systems, true, nil
}

func (r *RedisSectorCache) PutSystems(ctx context.Context, sector string, systems []domain.System) error {
	if r.Client == nil {
		return errors.New("redis sector cache: client is nil")
	}

	if strings.TrimSpace(sector) == "" {
		return errors.New("insert sector cache: sector must not be empty")
	}

	raw, err := encodeSystems(systems)
	if err != nil {
		return fmt.Errorf("insert sector cache sector=%q: %w", sector, err)
	}

	if err := r.Client.Set(ctx, systemsKey(sector), raw, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert sector cache sector=%q: %w", sector, err)
	}
	return nil
}

func (r *RedisSectorCache) GetOffset(ctx context.Context, sector string) (*domain.SectorOffset, bool, error) {
	if r.Client == nil {
		return nil, false, errors.New("redis sector cache: client is nil")
	}

	raw, err := r.Client.Get(ctx, offsetKey(sector)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get sector offset sector=%q: %w", sector, err)
	}

	var off domain.SectorOffset
	if err := json.Unmarshal(raw, &off); err != nil {
		return nil, false, fmt.Errorf("get sector offset sector=%q: decode: %w", sector, err)
	}
	return &off, true, nil
}

func (r *RedisSectorCache) PutOffset(ctx context.Context, sector string, off domain.SectorOffset) error {
	if r.Client == nil {
		return errors.New("redis sector cache: client is nil")
	}

	if strings.TrimSpace(sector) == "" {
		return errors.New("insert sector offset: sector must not be empty")
	}

	b, err := json.Marshal(off)
	if err != nil {
		return fmt.Errorf("insert sector offset sector=%q: encode: %w", sector, err)
	}

	if err := r.Client.Set(ctx, offsetKey(sector), b, 0).Err(); err != nil {
		return fmt.Errorf("insert sector offset sector=%q: %w", sector, err)
	}
	return nil
}
