package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-registry/internal/domain"
)

const (
	rolesCacheKey     = "staff-registry:v1:roles"
	locationsCacheKey = "staff-registry:v1:locations"
)

// CacheRecorder receives one observation per cache lookup.
type CacheRecorder interface {
	RecordCacheRequest(cache, result string)
}

type cachedReferenceRepository struct {
	next     ReferenceRepository
	client   *redis.Client
	ttl      time.Duration
	logger   *zap.Logger
	recorder CacheRecorder
}

// NewCachedReferenceRepository serves lookups from Redis and falls back to next
// on a miss or any Redis failure. A nil client returns next unchanged.
func NewCachedReferenceRepository(next ReferenceRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger, recorder CacheRecorder) ReferenceRepository {
	if client == nil || ttl <= 0 {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedReferenceRepository{next: next, client: client, ttl: ttl, logger: logger, recorder: recorder}
}

func (r *cachedReferenceRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return cachedList(ctx, r, "roles", rolesCacheKey, r.next.ListRoles)
}

func (r *cachedReferenceRepository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return cachedList(ctx, r, "locations", locationsCacheKey, r.next.ListLocations)
}

func (r *cachedReferenceRepository) GetRole(ctx context.Context, code string) (*domain.Role, error) {
	roles, err := r.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if role.Code == code {
			out := role
			return &out, nil
		}
	}
	// a freshly seeded code may not be in a cached list yet
	return r.next.GetRole(ctx, code)
}

func (r *cachedReferenceRepository) GetLocation(ctx context.Context, code string) (*domain.Location, error) {
	locations, err := r.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	for _, loc := range locations {
		if loc.Code == code {
			out := loc
			return &out, nil
		}
	}
	return r.next.GetLocation(ctx, code)
}

func (r *cachedReferenceRepository) record(cache, result string) {
	if r.recorder != nil {
		r.recorder.RecordCacheRequest(cache, result)
	}
}

func cachedList[T any](ctx context.Context, r *cachedReferenceRepository, cache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []T
		if jsonErr := json.Unmarshal(raw, &items); jsonErr == nil {
			r.record(cache, "hit")
			return items, nil
		}
		r.logger.Warn("discarding unreadable cache entry", zap.String("key", key))
		r.record(cache, "miss")
	case errors.Is(err, redis.Nil):
		r.record(cache, "miss")
	default:
		r.logger.Warn("reference cache unavailable", zap.String("key", key), zap.Error(err))
		r.record(cache, "error")
	}

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(items); err == nil {
		if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			r.logger.Warn("reference cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return items, nil
}

// InvalidateReferenceCache drops the cached lists after a seed run.
func InvalidateReferenceCache(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return nil
	}
	err := client.Del(ctx, rolesCacheKey, locationsCacheKey).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
