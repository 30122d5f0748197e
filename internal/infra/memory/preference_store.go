package memory

import (
	"context"
	"sync"

	"classgroup-service/internal/domain"
)

// PreferenceStore keeps theme flags in process memory. Used when Redis is
// not configured; preferences then live only as long as the process.
type PreferenceStore struct {
	mu     sync.RWMutex
	themes map[string]string
}

func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{themes: make(map[string]string)}
}

func (s *PreferenceStore) Theme(_ context.Context, classroomID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	theme, ok := s.themes[classroomID]
	if !ok || !domain.ValidTheme(theme) {
		return "", domain.ErrClassroomNotFound
	}
	return theme, nil
}

func (s *PreferenceStore) SetTheme(_ context.Context, classroomID, theme string) error {
	if !domain.ValidTheme(theme) {
		return domain.ErrInvalidTheme
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themes[classroomID] = theme
	return nil
}
