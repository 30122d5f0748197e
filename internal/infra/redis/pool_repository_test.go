package redis

import (
	"context"
	"testing"
	"time"

	"classgroup-service/internal/domain"
	"classgroup-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestPoolRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		PoolLoader: memory.NewStaticPoolLoader(map[string]domain.QuestionPool{
			"science": samplePool(),
		}),
	}
	repo := NewPoolRepository(client, loader, time.Minute)

	pool, err := repo.GetPool(context.Background(), "science")
	if err != nil {
		t.Fatalf("get pool: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(pool.Pairs) != 2 || pool.Pairs[0].Answer != "Mars" {
		t.Fatalf("unexpected pool: %+v", pool)
	}
	if !mr.Exists("classroom:pool:science") {
		t.Fatalf("expected redis key to be set")
	}

	// Second call should hit cache, loader not incremented, order preserved.
	pool, _ = repo.GetPool(context.Background(), "science")
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if pool.Pairs[0].Question != "What planet is known as the Red Planet?" {
		t.Fatalf("pair order lost through cache: %+v", pool.Pairs)
	}
}

type countingLoader struct {
	memory.PoolLoader
	calls int
}

func (l *countingLoader) LoadPool(ctx context.Context, poolID string) (domain.QuestionPool, error) {
	l.calls++
	return l.PoolLoader.LoadPool(ctx, poolID)
}

func samplePool() domain.QuestionPool {
	return domain.QuestionPool{
		ID: "science",
		Pairs: []domain.QAPair{
			{Question: "What planet is known as the Red Planet?", Answer: "Mars"},
			{Question: "How many bones are in the human body?", Answer: "206"},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
