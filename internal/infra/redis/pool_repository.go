package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"classgroup-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// PoolLoader fetches question pools from a backing store (e.g., Postgres).
type PoolLoader interface {
	LoadPool(ctx context.Context, poolID string) (domain.QuestionPool, error)
}

// PoolRepository caches pools in Redis as JSON values and falls back to a
// loader on cache miss. JSON keeps pair order, which hash fields would not.
type PoolRepository struct {
	client *redis.Client
	loader PoolLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewPoolRepository(client *redis.Client, loader PoolLoader, ttl time.Duration) *PoolRepository {
	return &PoolRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *PoolRepository) GetPool(ctx context.Context, poolID string) (domain.QuestionPool, error) {
	key := r.poolKey(poolID)

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
		var pool domain.QuestionPool
		if err := json.Unmarshal(raw, &pool); err == nil {
			return pool, nil
		}
		// Corrupt cache entries are dropped and reloaded.
		_ = r.client.Del(ctx, key).Err()
	}

	result, err, _ := r.sf.Do(poolID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil {
			var pool domain.QuestionPool
			if err := json.Unmarshal(raw, &pool); err == nil {
				return pool, nil
			}
		}

		pool, err := r.loader.LoadPool(ctx, poolID)
		if err != nil {
			return domain.QuestionPool{}, err
		}

		if raw, err := json.Marshal(pool); err == nil {
			_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		}
		return pool, nil
	})
	if err != nil {
		return domain.QuestionPool{}, err
	}
	return result.(domain.QuestionPool), nil
}

func (r *PoolRepository) poolKey(poolID string) string {
	return "classroom:pool:" + poolID
}

func (r *PoolRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
