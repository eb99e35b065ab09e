package repository

import (
	"context"
	"fmt"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"

	"github.com/spf13/viper"
)

type seedProject struct {
	ID          string `mapstructure:"id"`
	FacultyID   string `mapstructure:"faculty_id"`
	FacultyName string `mapstructure:"faculty_name"`
	Title       string `mapstructure:"title"`
	Capacity    int    `mapstructure:"capacity"`
}

type seedStudent struct {
	ID       string `mapstructure:"id"`
	FullName string `mapstructure:"full_name"`
	RegNo    string `mapstructure:"reg_no"`
}

// LoadSeed reads projects and students from a JSON or YAML file and upserts
// them into the catalog. An empty path is a no-op.
func LoadSeed(ctx context.Context, w CatalogWriterInterface, path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return 0, fmt.Errorf("read seed: %w", err)
	}

	var projects []seedProject
	if err := v.UnmarshalKey("projects", &projects); err != nil {
		return 0, fmt.Errorf("decode seed projects: %w", err)
	}
	var students []seedStudent
	if err := v.UnmarshalKey("students", &students); err != nil {
		return 0, fmt.Errorf("decode seed students: %w", err)
	}

	for _, p := range projects {
		if p.ID == "" || p.FacultyID == "" {
			return 0, fmt.Errorf("%w: seed project without id or faculty", entities.ErrInvalidArgument)
		}
		if err := w.SaveProject(ctx, entities.Project(p)); err != nil {
			return 0, fmt.Errorf("seed project %s: %w", p.ID, err)
		}
	}
	for _, s := range students {
		if s.ID == "" || s.RegNo == "" {
			return 0, fmt.Errorf("%w: seed student without id or reg_no", entities.ErrInvalidArgument)
		}
		if err := w.SaveStudent(ctx, entities.Student(s)); err != nil {
			return 0, fmt.Errorf("seed student %s: %w", s.ID, err)
		}
	}
	return len(projects) + len(students), nil
}
