package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository/memory"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "projects": [{"id": "p1", "faculty_id": "f1", "faculty_name": "Dr. Rao", "title": "Antenna arrays", "capacity": 2}],
  "students": [{"id": "s1", "full_name": "Asha", "reg_no": "RA001"}]
}`), 0o600))

	repo := memory.New(zap.NewNop().Sugar())
	n, err := LoadSeed(context.Background(), repo, path)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	p, err := repo.Project(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, 2, p.Capacity)
	require.Equal(t, "Antenna arrays", p.Title)

	s, err := repo.Student(context.Background(), "RA001")
	require.NoError(t, err)
	require.Equal(t, "s1", s.ID)
}

func TestLoadSeed_RejectsIncompleteEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte("students:\n  - id: s1\n"), 0o600))

	_, err := LoadSeed(context.Background(), memory.New(zap.NewNop().Sugar()), path)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestLoadSeed_EmptyPath(t *testing.T) {
	n, err := LoadSeed(context.Background(), memory.New(zap.NewNop().Sugar()), "")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), "mongo", zap.NewNop().Sugar(), nil)
	require.Error(t, err)
}
