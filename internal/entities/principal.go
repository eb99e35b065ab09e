package entities

// Role is the role of an authenticated user.
type Role string

const (
	// RoleStudent can apply to projects and answer invitations.
	RoleStudent Role = "student"
	// RoleTeacher owns projects and decides on applications.
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Principal is the acting user supplied by the identity provider.
type Principal struct {
	ID       string
	Role     Role
	FullName string
	RegNo    string
}

// IsStudent reports whether the principal acts as a student.
func (p Principal) IsStudent() bool { return p.Role == RoleStudent }

// IsTeacher reports whether the principal acts as a teacher.
func (p Principal) IsTeacher() bool { return p.Role == RoleTeacher }

// Student is a catalog entry for a student identity.
type Student struct {
	ID       string
	FullName string
	RegNo    string
}
