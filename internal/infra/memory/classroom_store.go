package memory

import (
	"sync"

	"classgroup-service/internal/app"
)

// ClassroomStore is an in-memory implementation of app.ClassroomRepository.
type ClassroomStore struct {
	settings   app.Settings
	mu         sync.RWMutex
	classrooms map[string]*app.Classroom
}

func NewClassroomStore(settings app.Settings) *ClassroomStore {
	return &ClassroomStore{
		settings:   settings,
		classrooms: make(map[string]*app.Classroom),
	}
}

func (s *ClassroomStore) GetOrCreate(classroomID string) *app.Classroom {
	s.mu.Lock()
	defer s.mu.Unlock()
	if classroom, ok := s.classrooms[classroomID]; ok {
		return classroom
	}
	classroom := app.NewClassroom(classroomID, s.settings)
	s.classrooms[classroomID] = classroom
	return classroom
}

func (s *ClassroomStore) Get(classroomID string) (*app.Classroom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	classroom, ok := s.classrooms[classroomID]
	return classroom, ok
}

func (s *ClassroomStore) DeleteIfIdle(classroomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	classroom, ok := s.classrooms[classroomID]
	if !ok {
		return
	}
	if classroom.IsIdle() {
		delete(s.classrooms, classroomID)
	}
}
