package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-registry/internal/repository"
	"github.com/spec-kit/staff-registry/internal/repository/memory"
)

type recorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func (r *recorder) RecordCacheRequest(cache, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[cache+"/"+result]++
}

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedReference_FallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	repo := repository.NewCachedReferenceRepository(memory.NewStore(), unreachableRedis(t), time.Minute, zap.NewNop(), rec)

	roles, err := repo.ListRoles(ctx)
	require.NoError(t, err)
	require.Len(t, roles, 7)

	loc, err := repo.GetLocation(ctx, "FARM")
	require.NoError(t, err)
	require.Equal(t, "Farm", loc.Name)

	_, err = repo.GetRole(ctx, "PILOT")
	require.ErrorIs(t, err, pgx.ErrNoRows)

	require.Positive(t, rec.counts["roles/error"])
	require.Equal(t, 1, rec.counts["locations/error"])
}

func TestCachedReference_NilClientReturnsInner(t *testing.T) {
	store := memory.NewStore()
	repo := repository.NewCachedReferenceRepository(store, nil, time.Minute, nil, nil)
	require.Same(t, store, repo)
}

func TestInvalidateReferenceCache_NilClient(t *testing.T) {
	require.NoError(t, repository.InvalidateReferenceCache(context.Background(), nil))
}
