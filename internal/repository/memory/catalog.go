package memory

import (
	"context"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
)

// Project returns a catalog project.
func (m *Memory) Project(_ context.Context, id string) (entities.Project, error) {
	m.catMu.RLock()
	defer m.catMu.RUnlock()
	p, ok := m.projects[id]
	if !ok {
		return entities.Project{}, entities.ErrProjectNotFound
	}
	return p, nil
}

// Student resolves a student by id, falling back to registration number.
func (m *Memory) Student(_ context.Context, key string) (entities.Student, error) {
	m.catMu.RLock()
	defer m.catMu.RUnlock()
	if s, ok := m.students[key]; ok {
		return s, nil
	}
	for _, s := range m.students {
		if s.RegNo == key {
			return s, nil
		}
	}
	return entities.Student{}, entities.ErrStudentNotFound
}

// SaveProject upserts a catalog project.
func (m *Memory) SaveProject(_ context.Context, p entities.Project) error {
	m.catMu.Lock()
	defer m.catMu.Unlock()
	m.projects[p.ID] = p
	return nil
}

// SaveStudent upserts a directory student. Registration numbers stay unique.
func (m *Memory) SaveStudent(_ context.Context, s entities.Student) error {
	m.catMu.Lock()
	defer m.catMu.Unlock()
	for id, other := range m.students {
		if id != s.ID && other.RegNo == s.RegNo {
			return entities.ErrConflict
		}
	}
	m.students[s.ID] = s
	return nil
}
