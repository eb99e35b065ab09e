package entities

import "time"

// TeamMember is an approved member of a team.
type TeamMember struct {
	StudentID string
	Name      string
	RegNo     string
}

// Team is the durable record created when faculty approves an application.
type Team struct {
	ID          string
	ProjectID   string
	FacultyID   string
	FacultyName string
	Type        ApplicationType
	Members     []TeamMember
	ApprovedAt  time.Time
}

// HasMember reports whether the student belongs to the team.
func (t Team) HasMember(studentID string) bool {
	for _, m := range t.Members {
		if m.StudentID == studentID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (t Team) Clone() Team {
	c := t
	c.Members = append([]TeamMember(nil), t.Members...)
	return c
}
