// Package memory implements the repository in process memory. Every
// transaction works on a private copy of the state and swaps it in on
// success, so a failed operation leaves nothing behind.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository/txn"

	"go.uber.org/zap"
)

var errReadOnly = errors.New("write in read-only snapshot")

// Memory is a single-process repository backend.
type Memory struct {
	log *zap.SugaredLogger

	mu sync.RWMutex
	st *state

	catMu    sync.RWMutex
	projects map[string]entities.Project
	students map[string]entities.Student
}

type state struct {
	apps       map[string]entities.Application
	teams      map[string]entities.Team
	tombstones map[string]time.Time
	notes      []entities.Notification
}

func newState() *state {
	return &state{
		apps:       make(map[string]entities.Application),
		teams:      make(map[string]entities.Team),
		tombstones: make(map[string]time.Time),
	}
}

func (s *state) clone() *state {
	c := &state{
		apps:       make(map[string]entities.Application, len(s.apps)),
		teams:      make(map[string]entities.Team, len(s.teams)),
		tombstones: make(map[string]time.Time, len(s.tombstones)),
		notes:      append([]entities.Notification(nil), s.notes...),
	}
	for k, v := range s.apps {
		c.apps[k] = v.Clone()
	}
	for k, v := range s.teams {
		c.teams[k] = v.Clone()
	}
	for k, v := range s.tombstones {
		c.tombstones[k] = v
	}
	return c
}

// New creates an empty in-memory repository.
func New(log *zap.SugaredLogger) *Memory {
	return &Memory{
		log:      log.Named("repo.memory"),
		st:       newState(),
		projects: make(map[string]entities.Project),
		students: make(map[string]entities.Student),
	}
}

// OnStart is a no-op.
func (m *Memory) OnStart(_ context.Context) error {
	m.log.Infow("memory repository ready")
	return nil
}

// OnStop is a no-op.
func (m *Memory) OnStop(_ context.Context) error { return nil }

// InTx serializes every write transaction behind one mutex; lock keys are
// implied by it.
func (m *Memory) InTx(ctx context.Context, _ []string, fn func(txn.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.st.clone()
	if err := fn(&memTx{m: m, st: work}); err != nil {
		return err
	}
	m.st = work
	return nil
}

// Snapshot runs fn against the committed state.
func (m *Memory) Snapshot(ctx context.Context, fn func(txn.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&memTx{m: m, st: m.st, readOnly: true})
}

func (m *Memory) read(fn func(st *state)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn(m.st)
}

// Application returns a committed application by id.
func (m *Memory) Application(_ context.Context, id string) (entities.Application, error) {
	var (
		app entities.Application
		ok  bool
	)
	m.read(func(st *state) {
		app, ok = st.apps[id]
		app = app.Clone()
	})
	if !ok {
		return entities.Application{}, entities.ErrApplicationNotFound
	}
	return app, nil
}

// ApplicationsByProject returns every live application of a project, oldest first.
func (m *Memory) ApplicationsByProject(_ context.Context, projectID string) ([]entities.Application, error) {
	var res []entities.Application
	m.read(func(st *state) { res = st.byProject(projectID) })
	return res, nil
}

// ApplicationsByMember returns every live application the student belongs to.
func (m *Memory) ApplicationsByMember(_ context.Context, studentID string) ([]entities.Application, error) {
	var res []entities.Application
	m.read(func(st *state) { res = st.byMember(studentID) })
	return res, nil
}

// PendingInvitations lists group applications waiting on the student's answer.
func (m *Memory) PendingInvitations(_ context.Context, studentID string) ([]entities.Invitation, error) {
	var apps []entities.Application
	m.read(func(st *state) { apps = st.byMember(studentID) })

	m.catMu.RLock()
	defer m.catMu.RUnlock()

	res := make([]entities.Invitation, 0)
	for _, a := range apps {
		member, _ := a.Member(studentID)
		if a.Status != entities.StatusPendingMemberApproval || a.LeaderID == studentID || member.Status != entities.MemberPending {
			continue
		}
		project := m.projects[a.ProjectID]
		leader, _ := a.Leader()
		res = append(res, entities.Invitation{
			ApplicationID: a.ID,
			MemberID:      studentID,
			ProjectID:     a.ProjectID,
			ProjectTitle:  project.Title,
			FacultyName:   project.FacultyName,
			LeaderName:    leader.Name,
			Priority:      a.Priority,
			AppliedAt:     a.AppliedAt,
		})
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].AppliedAt.Before(res[j].AppliedAt) })
	return res, nil
}

// Superseded reports whether a cascade removed the application.
func (m *Memory) Superseded(_ context.Context, id string) (bool, error) {
	var ok bool
	m.read(func(st *state) { _, ok = st.tombstones[id] })
	return ok, nil
}

// Team fetches a team with its members.
func (m *Memory) Team(_ context.Context, id string) (entities.Team, error) {
	var (
		team entities.Team
		ok   bool
	)
	m.read(func(st *state) {
		team, ok = st.teams[id]
		team = team.Clone()
	})
	if !ok {
		return entities.Team{}, entities.ErrTeamNotFound
	}
	return team, nil
}

// TeamsByFaculty lists teams of projects owned by the faculty member, newest first.
func (m *Memory) TeamsByFaculty(_ context.Context, facultyID string) ([]entities.Team, error) {
	res := make([]entities.Team, 0)
	m.read(func(st *state) {
		for _, t := range st.teams {
			if t.FacultyID == facultyID {
				res = append(res, t.Clone())
			}
		}
	})
	sort.Slice(res, func(i, j int) bool {
		if res[i].ApprovedAt.Equal(res[j].ApprovedAt) {
			return res[i].ID < res[j].ID
		}
		return res[i].ApprovedAt.After(res[j].ApprovedAt)
	})
	return res, nil
}

// Stats returns live workflow counters.
func (m *Memory) Stats(_ context.Context) (entities.Stats, error) {
	res := entities.Stats{
		ApplicationsByStatus:   make(map[entities.ApplicationStatus]int64),
		ApplicationsByPriority: make(map[int]int64),
		TeamsByType:            make(map[entities.ApplicationType]int64),
	}
	m.read(func(st *state) {
		applying := make(map[string]struct{})
		for _, a := range st.apps {
			res.ApplicationsByStatus[a.Status]++
			res.ApplicationsByPriority[a.Priority]++
			for _, id := range a.MemberIDs() {
				applying[id] = struct{}{}
			}
		}
		for _, t := range st.teams {
			res.TeamsByType[t.Type]++
			res.StudentsInTeams += int64(len(t.Members))
		}
		res.StudentsApplying = int64(len(applying))
	})
	return res, nil
}

func (s *state) byProject(projectID string) []entities.Application {
	res := make([]entities.Application, 0)
	for _, a := range s.apps {
		if a.ProjectID == projectID {
			res = append(res, a.Clone())
		}
	}
	sortByAppliedAt(res)
	return res
}

func (s *state) byMember(studentID string) []entities.Application {
	res := make([]entities.Application, 0)
	for _, a := range s.apps {
		if a.HasMember(studentID) {
			res = append(res, a.Clone())
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].Priority != res[j].Priority {
			return res[i].Priority < res[j].Priority
		}
		return res[i].AppliedAt.Before(res[j].AppliedAt)
	})
	return res
}

func sortByAppliedAt(apps []entities.Application) {
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].AppliedAt.Equal(apps[j].AppliedAt) {
			return apps[i].ID < apps[j].ID
		}
		return apps[i].AppliedAt.Before(apps[j].AppliedAt)
	})
}
