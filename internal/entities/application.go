package entities

import "time"

// ApplicationType distinguishes solo and group applications.
type ApplicationType string

const (
	// TypeIndividual is a single-student application.
	TypeIndividual ApplicationType = "individual"
	// TypeGroup is a leader plus two teammates.
	TypeGroup ApplicationType = "group"
)

// Valid reports whether t is a known application type.
func (t ApplicationType) Valid() bool {
	return t == TypeIndividual || t == TypeGroup
}

// ApplicationStatus enumerates stored application states.
// Approval and rejection are represented by deletion, never stored.
type ApplicationStatus string

const (
	// StatusPendingMemberApproval waits for every teammate to consent.
	StatusPendingMemberApproval ApplicationStatus = "pending_member_approval"
	// StatusPendingFacultyApproval is fully consented and reviewable.
	StatusPendingFacultyApproval ApplicationStatus = "pending_faculty_approval"
)

// MemberStatus is the consent state of one member.
type MemberStatus string

const (
	// MemberPending has not answered the invitation yet.
	MemberPending MemberStatus = "pending"
	// MemberApproved has consented.
	MemberApproved MemberStatus = "approved"
)

// Decision is a teammate's answer to an invitation.
type Decision string

const (
	// DecisionApproved accepts the invitation.
	DecisionApproved Decision = "approved"
	// DecisionRejected declines it and withdraws the whole application.
	DecisionRejected Decision = "rejected"
)

// Valid reports whether d is a known decision.
func (d Decision) Valid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

const (
	// PriorityFirst is a student's first choice.
	PriorityFirst = 1
	// PrioritySecond is the fallback choice.
	PrioritySecond = 2
	// MaxLiveApplications is the per-student application quota.
	MaxLiveApplications = 2
	// GroupTeammates is the number of invited teammates in a group application.
	GroupTeammates = 2
)

// Member is a student embedded in an application or a team.
type Member struct {
	StudentID string
	Name      string
	RegNo     string
	Status    MemberStatus
}

// Application is one leader's request to join a project, alone or with teammates.
type Application struct {
	ID        string
	ProjectID string
	Type      ApplicationType
	LeaderID  string
	Members   []Member
	Priority  int
	Status    ApplicationStatus
	AppliedAt time.Time
}

// MemberIDs returns the student ids of every member, leader included.
func (a Application) MemberIDs() []string {
	ids := make([]string, 0, len(a.Members))
	for _, m := range a.Members {
		ids = append(ids, m.StudentID)
	}
	return ids
}

// HasMember reports whether the student is a member of the application.
func (a Application) HasMember(studentID string) bool {
	return a.memberIndex(studentID) >= 0
}

// Member returns the member with the given student id.
func (a Application) Member(studentID string) (Member, bool) {
	i := a.memberIndex(studentID)
	if i < 0 {
		return Member{}, false
	}
	return a.Members[i], true
}

// Leader returns the leading member.
func (a Application) Leader() (Member, bool) {
	return a.Member(a.LeaderID)
}

// AllApproved reports whether every member has consented.
func (a Application) AllApproved() bool {
	for _, m := range a.Members {
		if m.Status != MemberApproved {
			return false
		}
	}
	return len(a.Members) > 0
}

// SetMemberStatus updates one member's consent state in place.
func (a *Application) SetMemberStatus(studentID string, status MemberStatus) bool {
	i := a.memberIndex(studentID)
	if i < 0 {
		return false
	}
	a.Members[i].Status = status
	return true
}

// Clone returns a deep copy.
func (a Application) Clone() Application {
	c := a
	c.Members = append([]Member(nil), a.Members...)
	return c
}

func (a Application) memberIndex(studentID string) int {
	for i, m := range a.Members {
		if m.StudentID == studentID {
			return i
		}
	}
	return -1
}

// Invitation is a pending group invitation seen by an invited teammate.
type Invitation struct {
	ApplicationID string
	MemberID      string
	ProjectID     string
	ProjectTitle  string
	FacultyName   string
	LeaderName    string
	Priority      int
	AppliedAt     time.Time
}

// ConsentResult is the outcome of one teammate response.
type ConsentResult struct {
	Application Application
	// Withdrawn is set when the response deleted the application.
	Withdrawn bool
}
