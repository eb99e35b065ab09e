package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
	"github.com/Aadyothcoding/ece-project-connect/internal/repository/txn"
)

// memTx applies reads and writes to a private copy of the state. Uniqueness
// rules mirror the Postgres schema constraints.
type memTx struct {
	m        *Memory
	st       *state
	readOnly bool
}

var _ txn.Tx = (*memTx)(nil)

func (t *memTx) LockApplication(_ context.Context, id string) (entities.Application, error) {
	app, ok := t.st.apps[id]
	if !ok {
		return entities.Application{}, entities.ErrApplicationNotFound
	}
	return app.Clone(), nil
}

func (t *memTx) ApplicationsByMember(_ context.Context, studentID string) ([]entities.Application, error) {
	return t.st.byMember(studentID), nil
}

func (t *memTx) ApplicationsByProject(_ context.Context, projectID string) ([]entities.Application, error) {
	return t.st.byProject(projectID), nil
}

func (t *memTx) PriorityOneMembers(_ context.Context, studentIDs []string) (map[string]struct{}, error) {
	want := make(map[string]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		want[id] = struct{}{}
	}
	res := make(map[string]struct{})
	for _, a := range t.st.apps {
		if a.Priority != entities.PriorityFirst {
			continue
		}
		for _, id := range a.MemberIDs() {
			if _, ok := want[id]; ok {
				res[id] = struct{}{}
			}
		}
	}
	return res, nil
}

func (t *memTx) InsertApplication(_ context.Context, app entities.Application) error {
	if t.readOnly {
		return errReadOnly
	}
	for _, other := range t.st.apps {
		if other.LeaderID == app.LeaderID && other.Priority == app.Priority {
			return entities.ErrQuotaExceeded
		}
		if other.ProjectID != app.ProjectID {
			continue
		}
		for _, id := range app.MemberIDs() {
			if other.HasMember(id) {
				return entities.ErrDuplicateApplication
			}
		}
	}
	t.st.apps[app.ID] = app.Clone()
	return nil
}

func (t *memTx) UpdateApplication(_ context.Context, app entities.Application) error {
	if t.readOnly {
		return errReadOnly
	}
	if _, ok := t.st.apps[app.ID]; !ok {
		return entities.ErrApplicationNotFound
	}
	t.st.apps[app.ID] = app.Clone()
	return nil
}

func (t *memTx) DeleteApplication(_ context.Context, id string) error {
	if t.readOnly {
		return errReadOnly
	}
	if _, ok := t.st.apps[id]; !ok {
		return entities.ErrApplicationNotFound
	}
	delete(t.st.apps, id)
	return nil
}

func (t *memTx) DeleteApplicationsByMembers(_ context.Context, studentIDs []string, at time.Time) ([]entities.Application, error) {
	if t.readOnly {
		return nil, errReadOnly
	}
	deleted := make([]entities.Application, 0)
	for id, a := range t.st.apps {
		for _, sid := range studentIDs {
			if a.HasMember(sid) {
				deleted = append(deleted, a.Clone())
				delete(t.st.apps, id)
				t.st.tombstones[id] = at
				break
			}
		}
	}
	sort.Slice(deleted, func(i, j int) bool { return deleted[i].ID < deleted[j].ID })
	return deleted, nil
}

func (t *memTx) LockApplicationsAppliedBefore(_ context.Context, cutoff time.Time) ([]entities.Application, error) {
	res := make([]entities.Application, 0)
	for _, a := range t.st.apps {
		if a.AppliedAt.Before(cutoff) {
			res = append(res, a.Clone())
		}
	}
	sortByAppliedAt(res)
	return res, nil
}

func (t *memTx) LockTeam(_ context.Context, id string) (entities.Team, error) {
	team, ok := t.st.teams[id]
	if !ok {
		return entities.Team{}, entities.ErrTeamNotFound
	}
	return team.Clone(), nil
}

func (t *memTx) MembersInTeams(_ context.Context, studentIDs []string) ([]string, error) {
	res := make([]string, 0)
	for _, id := range studentIDs {
		if t.st.teamOf(id) != "" {
			res = append(res, id)
		}
	}
	sort.Strings(res)
	return res, nil
}

func (t *memTx) CountTeamsByProject(_ context.Context, projectID string) (int, error) {
	n := 0
	for _, team := range t.st.teams {
		if team.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (t *memTx) InsertTeam(_ context.Context, team entities.Team) error {
	if t.readOnly {
		return errReadOnly
	}
	for _, m := range team.Members {
		if t.st.teamOf(m.StudentID) != "" {
			return entities.ErrAlreadyInTeam
		}
	}
	t.st.teams[team.ID] = team.Clone()
	return nil
}

func (t *memTx) AddTeamMember(_ context.Context, teamID string, member entities.TeamMember) error {
	if t.readOnly {
		return errReadOnly
	}
	team, ok := t.st.teams[teamID]
	if !ok {
		return entities.ErrTeamNotFound
	}
	if t.st.teamOf(member.StudentID) != "" {
		return entities.ErrAlreadyInTeam
	}
	team = team.Clone()
	team.Members = append(team.Members, member)
	t.st.teams[teamID] = team
	return nil
}

func (t *memTx) RemoveTeamMember(_ context.Context, teamID, studentID string) error {
	if t.readOnly {
		return errReadOnly
	}
	team, ok := t.st.teams[teamID]
	if !ok {
		return entities.ErrTeamNotFound
	}
	members := make([]entities.TeamMember, 0, len(team.Members))
	for _, m := range team.Members {
		if m.StudentID != studentID {
			members = append(members, m)
		}
	}
	if len(members) == len(team.Members) {
		return entities.ErrNotAMember
	}
	team.Members = members
	t.st.teams[teamID] = team
	return nil
}

func (t *memTx) InsertNotifications(_ context.Context, notes []entities.Notification) error {
	if t.readOnly {
		return errReadOnly
	}
	t.st.notes = append(t.st.notes, notes...)
	return nil
}

func (s *state) teamOf(studentID string) string {
	for id, team := range s.teams {
		if team.HasMember(studentID) {
			return id
		}
	}
	return ""
}
