package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"classgroup-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// PoolLoader fetches question pools from a backing store (e.g., Postgres).
type PoolLoader interface {
	LoadPool(ctx context.Context, poolID string) (domain.QuestionPool, error)
}

// PoolRepository caches pools with TTL to avoid repeated loader hits.
type PoolRepository struct {
	loader PoolLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedPool
}

type cachedPool struct {
	pool      domain.QuestionPool
	expiresAt time.Time
}

func NewPoolRepository(loader PoolLoader, ttl time.Duration) *PoolRepository {
	return &PoolRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPool),
	}
}

func (r *PoolRepository) GetPool(ctx context.Context, poolID string) (domain.QuestionPool, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[poolID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.pool, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(poolID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[poolID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.pool, nil
		}
		r.mu.RUnlock()

		pool, err := r.loader.LoadPool(ctx, poolID)
		if err != nil {
			return domain.QuestionPool{}, err
		}

		r.mu.Lock()
		r.cache[poolID] = cachedPool{
			pool:      pool,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return domain.QuestionPool{}, err
	}
	return result.(domain.QuestionPool), nil
}

// StaticPoolLoader is a simple loader backed by an in-memory map. The
// built-in default pool is always available under its own ID.
type StaticPoolLoader struct {
	pools map[string]domain.QuestionPool
}

func NewStaticPoolLoader(pools map[string]domain.QuestionPool) *StaticPoolLoader {
	if pools == nil {
		pools = make(map[string]domain.QuestionPool)
	}
	defaults := domain.DefaultPool()
	if _, ok := pools[defaults.ID]; !ok {
		pools[defaults.ID] = defaults
	}
	return &StaticPoolLoader{pools: pools}
}

func (l *StaticPoolLoader) LoadPool(_ context.Context, poolID string) (domain.QuestionPool, error) {
	if pool, ok := l.pools[poolID]; ok {
		return pool, nil
	}
	return domain.QuestionPool{}, domain.ErrPoolNotFound
}

func (r *PoolRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
