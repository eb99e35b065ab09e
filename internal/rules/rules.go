// Package rules holds the pure workflow rules: priority assignment, consent
// transitions, faculty visibility and team construction. Nothing here touches
// storage; callers pass in the snapshot the rule needs.
package rules

import (
	"sort"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
)

// NextPriority returns the priority of a new application, given every live
// application its leader is a member of. No two held applications share a
// priority, whoever leads them.
func NextPriority(held []entities.Application) (int, error) {
	var priority int
	switch len(held) {
	case 0:
		priority = entities.PriorityFirst
	case 1:
		priority = entities.PrioritySecond
	default:
		return 0, entities.ErrQuotaExceeded
	}
	for _, app := range held {
		if app.Priority == priority {
			return 0, entities.ErrQuotaExceeded
		}
	}
	return priority, nil
}

// NewApplication builds a live application. The leader is pre-approved; an
// individual application is immediately reviewable.
func NewApplication(id string, project entities.Project, leader entities.Student, teammates []entities.Student, priority int, now time.Time) entities.Application {
	app := entities.Application{
		ID:        id,
		ProjectID: project.ID,
		Type:      entities.TypeIndividual,
		LeaderID:  leader.ID,
		Priority:  priority,
		Status:    entities.StatusPendingFacultyApproval,
		AppliedAt: now,
		Members: []entities.Member{{
			StudentID: leader.ID,
			Name:      leader.FullName,
			RegNo:     leader.RegNo,
			Status:    entities.MemberApproved,
		}},
	}
	if len(teammates) == 0 {
		return app
	}
	app.Type = entities.TypeGroup
	app.Status = entities.StatusPendingMemberApproval
	for _, t := range teammates {
		app.Members = append(app.Members, entities.Member{
			StudentID: t.ID,
			Name:      t.FullName,
			RegNo:     t.RegNo,
			Status:    entities.MemberPending,
		})
	}
	return app
}

// Outcome is the result of applying one consent response.
type Outcome int

const (
	// OutcomePending means other members still have to answer.
	OutcomePending Outcome = iota
	// OutcomeReady means every member approved; the application is now reviewable.
	OutcomeReady
	// OutcomeWithdrawn means a member declined; the application must be deleted.
	OutcomeWithdrawn
)

// ApplyResponse records a member's decision on app in place.
func ApplyResponse(app *entities.Application, studentID string, decision entities.Decision) (Outcome, error) {
	if !decision.Valid() {
		return OutcomePending, entities.ErrInvalidArgument
	}
	member, ok := app.Member(studentID)
	if !ok {
		return OutcomePending, entities.ErrNotAMember
	}
	if app.Status != entities.StatusPendingMemberApproval || member.Status == entities.MemberApproved {
		return OutcomePending, entities.ErrAlreadyDecided
	}

	if decision == entities.DecisionRejected {
		return OutcomeWithdrawn, nil
	}

	app.SetMemberStatus(studentID, entities.MemberApproved)
	if app.AllApproved() {
		app.Status = entities.StatusPendingFacultyApproval
		return OutcomeReady, nil
	}
	return OutcomePending, nil
}

// VisibleToFaculty filters a project's applications down to what its faculty
// may review. priorityOneMembers holds every student that is a member of some
// live priority 1 application anywhere; an application counts against itself
// only when it is itself priority 1, which never happens in tier 2.
func VisibleToFaculty(apps []entities.Application, priorityOneMembers map[string]struct{}) []entities.Application {
	ready := make([]entities.Application, 0, len(apps))
	tier := 0
	for _, app := range apps {
		if app.Status != entities.StatusPendingFacultyApproval {
			continue
		}
		ready = append(ready, app)
		if tier == 0 || app.Priority < tier {
			tier = app.Priority
		}
	}
	if tier == 0 {
		return []entities.Application{}
	}

	out := make([]entities.Application, 0, len(ready))
	for _, app := range ready {
		if app.Priority != tier {
			continue
		}
		if tier == entities.PrioritySecond && anyMemberIn(app, priorityOneMembers) {
			continue
		}
		out = append(out, app)
	}
	SortByAppliedAt(out)
	return out
}

// PriorityOneMembers collects members of every priority 1 application in apps.
func PriorityOneMembers(apps []entities.Application) map[string]struct{} {
	set := make(map[string]struct{})
	for _, app := range apps {
		if app.Priority != entities.PriorityFirst {
			continue
		}
		for _, m := range app.Members {
			set[m.StudentID] = struct{}{}
		}
	}
	return set
}

// SortByAppliedAt orders applications oldest first, id as tiebreaker.
func SortByAppliedAt(apps []entities.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		if apps[i].AppliedAt.Equal(apps[j].AppliedAt) {
			return apps[i].ID < apps[j].ID
		}
		return apps[i].AppliedAt.Before(apps[j].AppliedAt)
	})
}

// SharesMember reports whether the two applications have a student in common.
func SharesMember(a, b entities.Application) bool {
	for _, m := range a.Members {
		if b.HasMember(m.StudentID) {
			return true
		}
	}
	return false
}

// TeamFromApplication promotes an approved application into a team.
func TeamFromApplication(id string, app entities.Application, project entities.Project, now time.Time) entities.Team {
	members := make([]entities.TeamMember, 0, len(app.Members))
	for _, m := range app.Members {
		members = append(members, entities.TeamMember{StudentID: m.StudentID, Name: m.Name, RegNo: m.RegNo})
	}
	return entities.Team{
		ID:          id,
		ProjectID:   app.ProjectID,
		FacultyID:   project.FacultyID,
		FacultyName: project.FacultyName,
		Type:        app.Type,
		Members:     members,
		ApprovedAt:  now,
	}
}

// LockKeys returns the sorted, de-duplicated serialization keys for a set of students.
func LockKeys(studentIDs ...string) []string {
	seen := make(map[string]struct{}, len(studentIDs))
	keys := make([]string, 0, len(studentIDs))
	for _, id := range studentIDs {
		if id == "" {
			continue
		}
		k := "student:" + id
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApprovalLockKeys returns the keys an approval must hold. A project with a
// capacity adds its own key, since the team count is only stable while no
// other approval on the project can commit.
func ApprovalLockKeys(project entities.Project, studentIDs ...string) []string {
	keys := LockKeys(studentIDs...)
	if project.Capacity <= 0 {
		return keys
	}
	keys = append(keys, "project:"+project.ID)
	sort.Strings(keys)
	return keys
}

func anyMemberIn(app entities.Application, set map[string]struct{}) bool {
	for _, m := range app.Members {
		if _, ok := set[m.StudentID]; ok {
			return true
		}
	}
	return false
}
