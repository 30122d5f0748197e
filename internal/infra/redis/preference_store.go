package redis

import (
	"context"
	"time"

	"classgroup-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// PreferenceStore persists the per-classroom theme flag in Redis. This is the
// only state that outlives a grouping session.
type PreferenceStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPreferenceStore creates a store; ttl <= 0 keeps preferences forever.
func NewPreferenceStore(client *redis.Client, ttl time.Duration) *PreferenceStore {
	return &PreferenceStore{client: client, ttl: ttl}
}

func (s *PreferenceStore) Theme(ctx context.Context, classroomID string) (string, error) {
	theme, err := s.client.Get(ctx, s.key(classroomID)).Result()
	if err != nil {
		return "", err
	}
	if !domain.ValidTheme(theme) {
		return "", domain.ErrInvalidTheme
	}
	return theme, nil
}

func (s *PreferenceStore) SetTheme(ctx context.Context, classroomID, theme string) error {
	if !domain.ValidTheme(theme) {
		return domain.ErrInvalidTheme
	}
	return s.client.Set(ctx, s.key(classroomID), theme, s.ttl).Err()
}

func (s *PreferenceStore) key(classroomID string) string {
	return "classroom:pref:" + classroomID
}
