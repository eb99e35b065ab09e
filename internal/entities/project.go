package entities

// Project is a read-only catalog reference.
type Project struct {
	ID          string
	FacultyID   string
	FacultyName string
	Title       string
	// Capacity is the maximum number of teams; zero means unlimited.
	Capacity int
}

// OwnedBy reports whether the faculty member owns the project.
func (p Project) OwnedBy(facultyID string) bool {
	return p.FacultyID != "" && p.FacultyID == facultyID
}
