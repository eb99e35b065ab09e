package postgres

import (
	"context"
	"fmt"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
)

const (
	teamColumns = `t.id, t.project_id, t.faculty_id, t.faculty_name, t.application_type, t.approved_at`

	selectTeamQuery        = `SELECT ` + teamColumns + ` FROM teams t WHERE t.id=$1`
	lockTeamQuery          = selectTeamQuery + ` FOR UPDATE`
	selectTeamsByFaculty   = `SELECT ` + teamColumns + ` FROM teams t WHERE t.faculty_id=$1 ORDER BY t.approved_at DESC, t.id`
	selectTeamMembersQuery = `SELECT team_id, student_id, name, reg_no FROM team_members WHERE team_id = ANY($1) ORDER BY team_id, position`
	membersInTeamsQuery    = `SELECT student_id FROM team_members WHERE student_id = ANY($1) ORDER BY student_id`
	countTeamsByProject    = `SELECT COUNT(*) FROM teams WHERE project_id=$1`
	insertTeamQuery        = `INSERT INTO teams(id, project_id, faculty_id, faculty_name, application_type, approved_at) VALUES ($1,$2,$3,$4,$5,$6)`
	insertTeamMemberQuery  = `INSERT INTO team_members(team_id, student_id, name, reg_no, position) VALUES ($1,$2,$3,$4,$5)`
	appendTeamMemberQuery  = `INSERT INTO team_members(team_id, student_id, name, reg_no, position)
SELECT $1, $2, $3, $4, COALESCE(MAX(position) + 1, 0) FROM team_members WHERE team_id=$1`
	deleteTeamMemberQuery = `DELETE FROM team_members WHERE team_id=$1 AND student_id=$2`
)

// Team fetches a team with its members.
func (p *Postgres) Team(ctx context.Context, id string) (entities.Team, error) {
	return getTeam(ctx, p.db, selectTeamQuery, id)
}

// TeamsByFaculty lists teams of projects owned by the faculty member, newest first.
func (p *Postgres) TeamsByFaculty(ctx context.Context, facultyID string) ([]entities.Team, error) {
	return queryTeams(ctx, p.db, selectTeamsByFaculty, facultyID)
}

func (t *pgTx) LockTeam(ctx context.Context, id string) (entities.Team, error) {
	return getTeam(ctx, t.q, lockTeamQuery, id)
}

func (t *pgTx) MembersInTeams(ctx context.Context, studentIDs []string) ([]string, error) {
	if len(studentIDs) == 0 {
		return []string{}, nil
	}
	ids, err := queryStrings(ctx, t.q, membersInTeamsQuery, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("select team members: %w", err)
	}
	return ids, nil
}

func (t *pgTx) CountTeamsByProject(ctx context.Context, projectID string) (int, error) {
	var n int
	if err := t.q.QueryRow(ctx, countTeamsByProject, projectID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count teams: %w", err)
	}
	return n, nil
}

func (t *pgTx) InsertTeam(ctx context.Context, team entities.Team) error {
	if _, err := t.q.Exec(ctx, insertTeamQuery, team.ID, team.ProjectID, team.FacultyID, team.FacultyName,
		string(team.Type), team.ApprovedAt); err != nil {
		t.log.Errorw("failed to insert team", "error", err, "team_id", team.ID)
		return mapUniqueViolation(err, "insert team")
	}
	for i, m := range team.Members {
		if _, err := t.q.Exec(ctx, insertTeamMemberQuery, team.ID, m.StudentID, m.Name, m.RegNo, i); err != nil {
			t.log.Errorw("failed to insert team member", "error", err, "team_id", team.ID, "student_id", m.StudentID)
			return mapUniqueViolation(err, "insert team member")
		}
	}
	return nil
}

func (t *pgTx) AddTeamMember(ctx context.Context, teamID string, member entities.TeamMember) error {
	if _, err := t.q.Exec(ctx, appendTeamMemberQuery, teamID, member.StudentID, member.Name, member.RegNo); err != nil {
		t.log.Errorw("failed to add team member", "error", err, "team_id", teamID, "student_id", member.StudentID)
		return mapUniqueViolation(err, "add team member")
	}
	return nil
}

func (t *pgTx) RemoveTeamMember(ctx context.Context, teamID, studentID string) error {
	tag, err := t.q.Exec(ctx, deleteTeamMemberQuery, teamID, studentID)
	if err != nil {
		return fmt.Errorf("remove team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotAMember
	}
	return nil
}

func getTeam(ctx context.Context, q querier, query, id string) (entities.Team, error) {
	teams, err := queryTeams(ctx, q, query, id)
	if err != nil {
		return entities.Team{}, err
	}
	if len(teams) == 0 {
		return entities.Team{}, entities.ErrTeamNotFound
	}
	return teams[0], nil
}

func queryTeams(ctx context.Context, q querier, query string, args ...any) ([]entities.Team, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}
	defer rows.Close()

	teams := make([]entities.Team, 0)
	idx := make(map[string]int)
	ids := make([]string, 0)
	for rows.Next() {
		var (
			tm      entities.Team
			appType string
		)
		if err := rows.Scan(&tm.ID, &tm.ProjectID, &tm.FacultyID, &tm.FacultyName, &appType, &tm.ApprovedAt); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		tm.Type = entities.ApplicationType(appType)
		idx[tm.ID] = len(teams)
		ids = append(ids, tm.ID)
		teams = append(teams, tm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}
	rows.Close()

	if len(teams) == 0 {
		return teams, nil
	}

	memberRows, err := q.Query(ctx, selectTeamMembersQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("select team members: %w", err)
	}
	defer memberRows.Close()
	for memberRows.Next() {
		var (
			teamID string
			m      entities.TeamMember
		)
		if err := memberRows.Scan(&teamID, &m.StudentID, &m.Name, &m.RegNo); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		i := idx[teamID]
		teams[i].Members = append(teams[i].Members, m)
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team members: %w", err)
	}
	return teams, nil
}
