package entities

// Stats is a snapshot of the workflow state.
type Stats struct {
	ApplicationsByStatus   map[ApplicationStatus]int64 `json:"applications_by_status"`
	ApplicationsByPriority map[int]int64               `json:"applications_by_priority"`
	TeamsByType            map[ApplicationType]int64   `json:"teams_by_type"`
	StudentsApplying       int64                       `json:"students_applying"`
	StudentsInTeams        int64                       `json:"students_in_teams"`
}
