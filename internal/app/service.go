package app

import (
	"context"
	"log"
	"strings"

	"classgroup-service/internal/domain"
	"classgroup-service/internal/ingest"
)

// ClassroomRepository abstracts how classrooms are stored (in-memory today;
// the interface keeps the wiring symmetrical with the pool side).
type ClassroomRepository interface {
	GetOrCreate(classroomID string) *Classroom
	Get(classroomID string) (*Classroom, bool)
	DeleteIfIdle(classroomID string)
}

// PoolRepository loads named question pools (from cache/backing store).
type PoolRepository interface {
	GetPool(ctx context.Context, poolID string) (domain.QuestionPool, error)
}

// PreferenceStore persists the single theme flag per classroom.
type PreferenceStore interface {
	Theme(ctx context.Context, classroomID string) (string, error)
	SetTheme(ctx context.Context, classroomID, theme string) error
}

// ClassroomService contains the grouping and quiz use cases.
type ClassroomService struct {
	classrooms ClassroomRepository
	pools      PoolRepository
	prefs      PreferenceStore
}

func NewClassroomService(classrooms ClassroomRepository, pools PoolRepository, prefs PreferenceStore) *ClassroomService {
	return &ClassroomService{classrooms: classrooms, pools: pools, prefs: prefs}
}

// Join creates or fetches a classroom and returns a snapshot stream plus a
// cancel function the caller must invoke. The stored theme preference is
// applied once, on first contact; invalid or missing values fall back to the
// configured default.
func (s *ClassroomService) Join(ctx context.Context, classroomID string) (domain.ClassroomSnapshot, <-chan domain.ClassroomSnapshot, func(), error) {
	classroom := s.classrooms.GetOrCreate(classroomID)

	if theme, err := s.prefs.Theme(ctx, classroomID); err == nil && domain.ValidTheme(theme) {
		_ = classroom.setTheme(theme)
	}

	updates, cancel := classroom.subscribe()
	release := func() {
		cancel()
		s.classrooms.DeleteIfIdle(classroomID)
	}
	return classroom.snapshot(), updates, release, nil
}

// AddParticipant appends a unique, trimmed name to the roster.
func (s *ClassroomService) AddParticipant(_ context.Context, classroomID, name string) error {
	classroom, ok := s.classrooms.Get(classroomID)
	if !ok {
		return domain.ErrClassroomNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ErrEmptyName
	}
	return classroom.addParticipant(name)
}

func (s *ClassroomService) RemoveParticipant(_ context.Context, classroomID, name string) error {
	classroom, ok := s.classrooms.Get(classroomID)
	if !ok {
		return domain.ErrClassroomNotFound
	}
	return classroom.removeParticipant(name)
}

// ClearAll resets roster, pool and quiz progress; the theme flag survives.
func (s *ClassroomService) ClearAll(_ context.Context, classroomID string) error {
	classroom, ok := s.classrooms.Get(classroomID)
	if !ok {
		return domain.ErrClassroomNotFound
	}
	classroom.clearAll()
	return nil
}

// GenerateGroups partitions the roster into randomized groups of the
// requested size and deals each group its questions, discarding all prior
// quiz progress.
func (s *ClassroomService) GenerateGroups(_ context.Context, classroomID string, size int) error {
	classroom, ok := s.classrooms.Get(classroomID)
	if !ok {
		return domain.ErrClassroomNotFound
	}
	classroom.generateGroups(size)
	return nil
}

// ReplacePool ingests an uploaded file and swaps the classroom's pool for the
// parsed pairs. Any failure, including an empty parse or an unsupported
// extension, leaves the previous pool active and is logged only.
func (s *ClassroomService) ReplacePool(_ context.Context, classroomID, filename string, data []byte) error {
	classroom, ok := s.classrooms.Get(classroomID)
	if !ok {
		return domain.ErrClassroomNotFound
	}

	ext := ""
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i+1:]
	}
	pairs, err := ingest.Ingest(data, ext)
	if err != nil {
		log.Printf("pool upload ignored for classroom %s (%s): %v", classroomID, filename, err)
		return nil
	}
	classroom.setPool(domain.QuestionPool{ID: filename, Pairs: pairs})
	return nil
}

// LoadPool swaps in a named pool from the pool repository.
func (s *ClassroomService) LoadPool(ctx context.Context, classroomID, poolID string) error {
	classroom, ok := s.classrooms.Get(classroomID)
	if !ok {
		return domain.ErrClassroomNotFound
	}
	pool, err := s.pools.GetPool(ctx, poolID)
	if err != nil {
		return err
	}
	classroom.setPool(pool)
	return nil
}

// OpenGroup activates a group's questionnaire and starts its countdown.
func (s *ClassroomService) OpenGroup(_ context.Context, classroomID string, group int) error {
	classroom, ok := s.classrooms.Get(classroomID)
	if !ok {
		return domain.ErrClassroomNotFound
	}
	return classroom.openGroup(group)
}

// Back leaves the active questionnaire, snapshotting its remaining time.
func (s *ClassroomService) Back(_ context.Context, classroomID string) error {
	classroom, ok := s.classrooms.Get(classroomID)
	if !ok {
		return domain.ErrClassroomNotFound
	}
	classroom.back()
	return nil
}

// UpdateAnswer records the answer text for one question of the active group.
func (s *ClassroomService) UpdateAnswer(_ context.Context, classroomID string, group, question int, text string) error {
	classroom, ok := s.classrooms.Get(classroomID)
	if !ok {
		return domain.ErrClassroomNotFound
	}
	return classroom.updateAnswer(group, question, text)
}

// Submit locks the group's answers and scores them with the matcher.
func (s *ClassroomService) Submit(_ context.Context, classroomID string, group int) error {
	classroom, ok := s.classrooms.Get(classroomID)
	if !ok {
		return domain.ErrClassroomNotFound
	}
	return classroom.submit(group)
}

// SetTheme updates the classroom theme and persists it on every change.
func (s *ClassroomService) SetTheme(ctx context.Context, classroomID, theme string) error {
	classroom, ok := s.classrooms.Get(classroomID)
	if !ok {
		return domain.ErrClassroomNotFound
	}
	if err := classroom.setTheme(theme); err != nil {
		return err
	}
	if err := s.prefs.SetTheme(ctx, classroomID, theme); err != nil {
		log.Printf("persist theme for classroom %s: %v", classroomID, err)
	}
	return nil
}

// Chart returns the per-question correct tally across submitted groups.
func (s *ClassroomService) Chart(_ context.Context, classroomID string) ([]domain.ChartSlice, error) {
	classroom, ok := s.classrooms.Get(classroomID)
	if !ok {
		return nil, domain.ErrClassroomNotFound
	}
	return classroom.chart(), nil
}

// Snapshot returns the current rendering-layer view of a classroom.
func (s *ClassroomService) Snapshot(_ context.Context, classroomID string) (domain.ClassroomSnapshot, error) {
	classroom, ok := s.classrooms.Get(classroomID)
	if !ok {
		return domain.ClassroomSnapshot{}, domain.ErrClassroomNotFound
	}
	return classroom.snapshot(), nil
}
