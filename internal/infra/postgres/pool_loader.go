package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"classgroup-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// PoolLoader loads question pool JSONB from Postgres.
type PoolLoader struct {
	pool *pgxpool.Pool
}

func NewPoolLoader(pool *pgxpool.Pool) *PoolLoader {
	return &PoolLoader{pool: pool}
}

func (l *PoolLoader) LoadPool(ctx context.Context, poolID string) (domain.QuestionPool, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM question_pools WHERE id=$1`, poolID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuestionPool{}, domain.ErrPoolNotFound
	}
	if err != nil {
		return domain.QuestionPool{}, fmt.Errorf("load pool: %w", err)
	}
	var pool domain.QuestionPool
	if err := json.Unmarshal(raw, &pool); err != nil {
		return domain.QuestionPool{}, fmt.Errorf("unmarshal pool: %w", err)
	}
	pool.ID = poolID
	return pool, nil
}
