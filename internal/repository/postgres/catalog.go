package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	selectProjectQuery = `SELECT id, faculty_id, faculty_name, title, capacity FROM projects WHERE id=$1`
	selectStudentQuery = `SELECT id, full_name, reg_no FROM students WHERE id=$1 OR reg_no=$1 ORDER BY (id=$1) DESC LIMIT 1`
	upsertProjectQuery = `
INSERT INTO projects(id, faculty_id, faculty_name, title, capacity)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET faculty_id = EXCLUDED.faculty_id, faculty_name = EXCLUDED.faculty_name,
    title = EXCLUDED.title, capacity = EXCLUDED.capacity
`
	upsertStudentQuery = `
INSERT INTO students(id, full_name, reg_no)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, reg_no = EXCLUDED.reg_no
`
)

// Project returns a catalog project.
func (p *Postgres) Project(ctx context.Context, id string) (entities.Project, error) {
	var pr entities.Project
	err := p.db.QueryRow(ctx, selectProjectQuery, id).
		Scan(&pr.ID, &pr.FacultyID, &pr.FacultyName, &pr.Title, &pr.Capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.Project{}, entities.ErrProjectNotFound
		}
		p.log.Errorw("failed to select project", "error", err, "project_id", id)
		return entities.Project{}, fmt.Errorf("get project: %w", err)
	}
	return pr, nil
}

// Student resolves a student by id, falling back to registration number.
func (p *Postgres) Student(ctx context.Context, key string) (entities.Student, error) {
	var s entities.Student
	err := p.db.QueryRow(ctx, selectStudentQuery, key).Scan(&s.ID, &s.FullName, &s.RegNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entities.Student{}, entities.ErrStudentNotFound
		}
		p.log.Errorw("failed to select student", "error", err, "key", key)
		return entities.Student{}, fmt.Errorf("get student: %w", err)
	}
	return s, nil
}

// SaveProject upserts a catalog project.
func (p *Postgres) SaveProject(ctx context.Context, pr entities.Project) error {
	if _, err := p.db.Exec(ctx, upsertProjectQuery, pr.ID, pr.FacultyID, pr.FacultyName, pr.Title, pr.Capacity); err != nil {
		return fmt.Errorf("upsert project: %w", err)
	}
	return nil
}

// SaveStudent upserts a directory student.
func (p *Postgres) SaveStudent(ctx context.Context, s entities.Student) error {
	if _, err := p.db.Exec(ctx, upsertStudentQuery, s.ID, s.FullName, s.RegNo); err != nil {
		return mapUniqueViolation(err, "upsert student")
	}
	return nil
}
