package rules

import (
	"testing"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func app(id, project string, priority int, status entities.ApplicationStatus, at time.Duration, members ...string) entities.Application {
	a := entities.Application{
		ID:        id,
		ProjectID: project,
		Type:      entities.TypeIndividual,
		LeaderID:  members[0],
		Priority:  priority,
		Status:    status,
		AppliedAt: t0.Add(at),
	}
	if len(members) > 1 {
		a.Type = entities.TypeGroup
	}
	for i, m := range members {
		st := entities.MemberApproved
		if i > 0 && status == entities.StatusPendingMemberApproval {
			st = entities.MemberPending
		}
		a.Members = append(a.Members, entities.Member{StudentID: m, Status: st})
	}
	return a
}

func ids(apps []entities.Application) []string {
	out := make([]string, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.ID)
	}
	return out
}

func TestNextPriority(t *testing.T) {
	p, err := NextPriority(nil)
	require.NoError(t, err)
	require.Equal(t, entities.PriorityFirst, p)

	held := []entities.Application{app("a1", "p1", 1, entities.StatusPendingFacultyApproval, 0, "s1")}
	p, err = NextPriority(held)
	require.NoError(t, err)
	require.Equal(t, entities.PrioritySecond, p)

	held = append(held, app("a2", "p2", 2, entities.StatusPendingFacultyApproval, 0, "s1"))
	_, err = NextPriority(held)
	require.ErrorIs(t, err, entities.ErrQuotaExceeded)
	require.ErrorIs(t, err, entities.ErrConflict)
}

func TestNextPriority_CountsTeammateMemberships(t *testing.T) {
	held := []entities.Application{
		app("a1", "p1", 1, entities.StatusPendingMemberApproval, 0, "lead", "s1", "s2"),
	}
	p, err := NextPriority(held)
	require.NoError(t, err)
	require.Equal(t, entities.PrioritySecond, p)
}

func TestNextPriority_ComputedPriorityHeldAsTeammate(t *testing.T) {
	held := []entities.Application{
		app("a2", "p2", 2, entities.StatusPendingMemberApproval, 0, "lead", "s1", "s2"),
	}
	_, err := NextPriority(held)
	require.ErrorIs(t, err, entities.ErrQuotaExceeded)
}

func TestNextPriority_ComputedPriorityHeldAsLeader(t *testing.T) {
	held := []entities.Application{app("a2", "p2", 2, entities.StatusPendingFacultyApproval, 0, "s1")}
	_, err := NextPriority(held)
	require.ErrorIs(t, err, entities.ErrQuotaExceeded)
}

func TestNewApplication(t *testing.T) {
	project := entities.Project{ID: "p1", FacultyID: "f1"}
	leader := entities.Student{ID: "s1", FullName: "Asha", RegNo: "R1"}

	solo := NewApplication("a1", project, leader, nil, 1, t0)
	require.Equal(t, entities.TypeIndividual, solo.Type)
	require.Equal(t, entities.StatusPendingFacultyApproval, solo.Status)
	require.Equal(t, "s1", solo.LeaderID)
	require.True(t, solo.AllApproved())

	group := NewApplication("a2", project, leader, []entities.Student{{ID: "s2"}, {ID: "s3"}}, 2, t0)
	require.Equal(t, entities.TypeGroup, group.Type)
	require.Equal(t, entities.StatusPendingMemberApproval, group.Status)
	require.Len(t, group.Members, 3)
	require.Equal(t, entities.MemberApproved, group.Members[0].Status)
	require.Equal(t, entities.MemberPending, group.Members[1].Status)
	require.Equal(t, entities.MemberPending, group.Members[2].Status)
	require.Equal(t, 2, group.Priority)
}

func TestApplyResponse_ReadyOnlyWhenAllApproved(t *testing.T) {
	a := app("a1", "p1", 1, entities.StatusPendingMemberApproval, 0, "l", "t1", "t2")

	out, err := ApplyResponse(&a, "t1", entities.DecisionApproved)
	require.NoError(t, err)
	require.Equal(t, OutcomePending, out)
	require.Equal(t, entities.StatusPendingMemberApproval, a.Status)

	out, err = ApplyResponse(&a, "t2", entities.DecisionApproved)
	require.NoError(t, err)
	require.Equal(t, OutcomeReady, out)
	require.Equal(t, entities.StatusPendingFacultyApproval, a.Status)
	require.True(t, a.AllApproved())
}

func TestApplyResponse_RejectWithdrawsAfterPartialConsent(t *testing.T) {
	a := app("a1", "p1", 1, entities.StatusPendingMemberApproval, 0, "l", "t1", "t2")

	_, err := ApplyResponse(&a, "t1", entities.DecisionApproved)
	require.NoError(t, err)

	out, err := ApplyResponse(&a, "t2", entities.DecisionRejected)
	require.NoError(t, err)
	require.Equal(t, OutcomeWithdrawn, out)
}

func TestApplyResponse_Errors(t *testing.T) {
	a := app("a1", "p1", 1, entities.StatusPendingMemberApproval, 0, "l", "t1", "t2")

	_, err := ApplyResponse(&a, "stranger", entities.DecisionApproved)
	require.ErrorIs(t, err, entities.ErrNotAMember)

	_, err = ApplyResponse(&a, "l", entities.DecisionApproved)
	require.ErrorIs(t, err, entities.ErrAlreadyDecided)

	_, err = ApplyResponse(&a, "t1", entities.Decision("maybe"))
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = ApplyResponse(&a, "t1", entities.DecisionApproved)
	require.NoError(t, err)
	_, err = ApplyResponse(&a, "t1", entities.DecisionRejected)
	require.ErrorIs(t, err, entities.ErrAlreadyDecided)

	ready := app("a2", "p1", 1, entities.StatusPendingFacultyApproval, 0, "l", "t1", "t2")
	_, err = ApplyResponse(&ready, "t1", entities.DecisionRejected)
	require.ErrorIs(t, err, entities.ErrAlreadyDecided)
}

func TestVisibleToFaculty_TierOneHidesTierTwo(t *testing.T) {
	apps := []entities.Application{
		app("b", "p", 2, entities.StatusPendingFacultyApproval, time.Minute, "s2"),
		app("a", "p", 1, entities.StatusPendingFacultyApproval, 2*time.Minute, "s1"),
		app("c", "p", 1, entities.StatusPendingFacultyApproval, 0, "s3"),
		app("d", "p", 1, entities.StatusPendingMemberApproval, 0, "s4", "s5", "s6"),
	}
	got := VisibleToFaculty(apps, PriorityOneMembers(apps))
	require.Equal(t, []string{"c", "a"}, ids(got))
}

func TestVisibleToFaculty_TierTwoDropsMembersWithFirstChoiceElsewhere(t *testing.T) {
	elsewhere := []entities.Application{
		app("x", "other", 1, entities.StatusPendingMemberApproval, 0, "s9", "s2", "s8"),
	}
	project := []entities.Application{
		app("a", "p", 2, entities.StatusPendingFacultyApproval, 0, "s1"),
		app("b", "p", 2, entities.StatusPendingFacultyApproval, time.Minute, "s2"),
	}
	got := VisibleToFaculty(project, PriorityOneMembers(append(elsewhere, project...)))
	require.Equal(t, []string{"a"}, ids(got))
}

func TestVisibleToFaculty_Empty(t *testing.T) {
	got := VisibleToFaculty([]entities.Application{
		app("a", "p", 1, entities.StatusPendingMemberApproval, 0, "s1", "s2", "s3"),
	}, nil)
	require.Empty(t, got)
	require.NotNil(t, got)
}

func TestVisibleToFaculty_TieBrokenByID(t *testing.T) {
	apps := []entities.Application{
		app("b", "p", 1, entities.StatusPendingFacultyApproval, 0, "s1"),
		app("a", "p", 1, entities.StatusPendingFacultyApproval, 0, "s2"),
	}
	require.Equal(t, []string{"a", "b"}, ids(VisibleToFaculty(apps, nil)))
}

func TestSharesMember(t *testing.T) {
	a := app("a", "p", 1, entities.StatusPendingFacultyApproval, 0, "s1", "s2", "s3")
	b := app("b", "q", 2, entities.StatusPendingFacultyApproval, 0, "s4", "s3", "s5")
	c := app("c", "q", 1, entities.StatusPendingFacultyApproval, 0, "s6")
	require.True(t, SharesMember(a, b))
	require.False(t, SharesMember(a, c))
}

func TestTeamFromApplication(t *testing.T) {
	a := app("a", "p", 1, entities.StatusPendingFacultyApproval, 0, "s1", "s2", "s3")
	team := TeamFromApplication("t1", a, entities.Project{ID: "p", FacultyID: "f", FacultyName: "Dr. K"}, t0)
	require.Equal(t, "p", team.ProjectID)
	require.Equal(t, "Dr. K", team.FacultyName)
	require.Equal(t, entities.TypeGroup, team.Type)
	require.Len(t, team.Members, 3)
	require.True(t, team.HasMember("s2"))
}

func TestLockKeys(t *testing.T) {
	require.Equal(t, []string{"student:a", "student:b"}, LockKeys("b", "a", "", "b"))
}

func TestApprovalLockKeys(t *testing.T) {
	open := entities.Project{ID: "p1"}
	require.Equal(t, []string{"student:a", "student:b"}, ApprovalLockKeys(open, "b", "a"))

	capped := entities.Project{ID: "p3", Capacity: 1}
	require.Equal(t, []string{"project:p3", "student:a", "student:b"}, ApprovalLockKeys(capped, "b", "a"))

	// Two disjoint approvals on a capped project still share one key.
	require.Contains(t, ApprovalLockKeys(capped, "c"), "project:p3")
}
