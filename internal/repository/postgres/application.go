package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	applicationColumns = `a.id, a.project_id, a.application_type, a.leader_id, a.priority, a.status, a.applied_at`

	selectApplicationQuery           = `SELECT ` + applicationColumns + ` FROM applications a WHERE a.id=$1`
	lockApplicationQuery             = selectApplicationQuery + ` FOR UPDATE`
	selectApplicationsByProjectQuery = `SELECT ` + applicationColumns + ` FROM applications a WHERE a.project_id=$1 ORDER BY a.applied_at, a.id`
	selectApplicationsByMemberQuery  = `SELECT ` + applicationColumns + `
FROM applications a
JOIN application_members m ON m.application_id = a.id
WHERE m.student_id=$1
ORDER BY a.priority, a.applied_at`
	lockApplicationsByMembersQuery = `SELECT ` + applicationColumns + `
FROM applications a
WHERE a.id IN (SELECT application_id FROM application_members WHERE student_id = ANY($1))
ORDER BY a.id
FOR UPDATE`
	lockApplicationsAppliedBeforeQuery = `SELECT ` + applicationColumns + `
FROM applications a
WHERE a.applied_at < $1
ORDER BY a.applied_at, a.id
FOR UPDATE SKIP LOCKED`
	selectMembersQuery = `SELECT application_id, student_id, name, reg_no, status
FROM application_members
WHERE application_id = ANY($1)
ORDER BY application_id, position`
	priorityOneMembersQuery = `SELECT DISTINCT m.student_id
FROM application_members m
JOIN applications a ON a.id = m.application_id
WHERE a.priority = 1 AND m.student_id = ANY($1)`
	pendingInvitationsQuery = `SELECT a.id, m.student_id, a.project_id, p.title, p.faculty_name, COALESCE(l.name, ''), a.priority, a.applied_at
FROM application_members m
JOIN applications a ON a.id = m.application_id
JOIN projects p ON p.id = a.project_id
LEFT JOIN application_members l ON l.application_id = a.id AND l.student_id = a.leader_id
WHERE m.student_id=$1
  AND m.student_id <> a.leader_id
  AND m.status='pending'
  AND a.status='pending_member_approval'
ORDER BY a.applied_at, a.id`

	insertApplicationQuery = `INSERT INTO applications(id, project_id, application_type, leader_id, priority, status, applied_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)`
	insertMemberQuery = `INSERT INTO application_members(application_id, student_id, project_id, name, reg_no, status, position)
VALUES ($1,$2,$3,$4,$5,$6,$7)`
	updateApplicationStatusQuery = `UPDATE applications SET status=$2 WHERE id=$1`
	updateMemberStatusQuery      = `UPDATE application_members SET status=$3 WHERE application_id=$1 AND student_id=$2`
	deleteApplicationQuery       = `DELETE FROM applications WHERE id=$1`
	deleteApplicationsQuery      = `DELETE FROM applications WHERE id = ANY($1)`
	insertTombstonesQuery        = `INSERT INTO superseded_applications(id, superseded_at)
SELECT unnest($1::text[]), $2
ON CONFLICT (id) DO NOTHING`
	supersededQuery = `SELECT EXISTS(SELECT 1 FROM superseded_applications WHERE id=$1)`
)

const (
	uniqueViolation = "23505"

	memberPerProjectConstraint = "application_members_project_id_student_id_key"
	leaderPriorityConstraint   = "applications_leader_id_priority_key"
	teamMemberConstraint       = "team_members_student_id_key"
)

// Application returns a committed application by id.
func (p *Postgres) Application(ctx context.Context, id string) (entities.Application, error) {
	return getApplication(ctx, p.db, selectApplicationQuery, id)
}

// ApplicationsByProject returns every live application of a project, oldest first.
func (p *Postgres) ApplicationsByProject(ctx context.Context, projectID string) ([]entities.Application, error) {
	return queryApplications(ctx, p.db, selectApplicationsByProjectQuery, projectID)
}

// ApplicationsByMember returns every live application the student belongs to.
func (p *Postgres) ApplicationsByMember(ctx context.Context, studentID string) ([]entities.Application, error) {
	return queryApplications(ctx, p.db, selectApplicationsByMemberQuery, studentID)
}

// PendingInvitations lists group applications waiting on the student's answer.
func (p *Postgres) PendingInvitations(ctx context.Context, studentID string) ([]entities.Invitation, error) {
	rows, err := p.db.Query(ctx, pendingInvitationsQuery, studentID)
	if err != nil {
		return nil, fmt.Errorf("select invitations: %w", err)
	}
	defer rows.Close()

	res := make([]entities.Invitation, 0)
	for rows.Next() {
		var inv entities.Invitation
		if err := rows.Scan(&inv.ApplicationID, &inv.MemberID, &inv.ProjectID, &inv.ProjectTitle,
			&inv.FacultyName, &inv.LeaderName, &inv.Priority, &inv.AppliedAt); err != nil {
			p.log.Errorw("failed to scan invitation", "error", err, "student_id", studentID)
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		res = append(res, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invitations: %w", err)
	}
	return res, nil
}

// Superseded reports whether a cascade removed the application.
func (p *Postgres) Superseded(ctx context.Context, id string) (bool, error) {
	var ok bool
	if err := p.db.QueryRow(ctx, supersededQuery, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("select tombstone: %w", err)
	}
	return ok, nil
}

func (t *pgTx) LockApplication(ctx context.Context, id string) (entities.Application, error) {
	return getApplication(ctx, t.q, lockApplicationQuery, id)
}

func (t *pgTx) ApplicationsByMember(ctx context.Context, studentID string) ([]entities.Application, error) {
	return queryApplications(ctx, t.q, selectApplicationsByMemberQuery, studentID)
}

func (t *pgTx) ApplicationsByProject(ctx context.Context, projectID string) ([]entities.Application, error) {
	return queryApplications(ctx, t.q, selectApplicationsByProjectQuery, projectID)
}

func (t *pgTx) PriorityOneMembers(ctx context.Context, studentIDs []string) (map[string]struct{}, error) {
	res := make(map[string]struct{})
	if len(studentIDs) == 0 {
		return res, nil
	}
	ids, err := queryStrings(ctx, t.q, priorityOneMembersQuery, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("select priority one members: %w", err)
	}
	for _, id := range ids {
		res[id] = struct{}{}
	}
	return res, nil
}

func (t *pgTx) InsertApplication(ctx context.Context, app entities.Application) error {
	if _, err := t.q.Exec(ctx, insertApplicationQuery, app.ID, app.ProjectID, string(app.Type), app.LeaderID,
		app.Priority, string(app.Status), app.AppliedAt); err != nil {
		t.log.Errorw("failed to insert application", "error", err, "application_id", app.ID)
		return mapUniqueViolation(err, "insert application")
	}
	for i, m := range app.Members {
		if _, err := t.q.Exec(ctx, insertMemberQuery, app.ID, m.StudentID, app.ProjectID, m.Name, m.RegNo,
			string(m.Status), i); err != nil {
			t.log.Errorw("failed to insert member", "error", err, "application_id", app.ID, "student_id", m.StudentID)
			return mapUniqueViolation(err, "insert member")
		}
	}
	return nil
}

func (t *pgTx) UpdateApplication(ctx context.Context, app entities.Application) error {
	tag, err := t.q.Exec(ctx, updateApplicationStatusQuery, app.ID, string(app.Status))
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrApplicationNotFound
	}
	for _, m := range app.Members {
		if _, err := t.q.Exec(ctx, updateMemberStatusQuery, app.ID, m.StudentID, string(m.Status)); err != nil {
			return fmt.Errorf("update member: %w", err)
		}
	}
	return nil
}

func (t *pgTx) DeleteApplication(ctx context.Context, id string) error {
	tag, err := t.q.Exec(ctx, deleteApplicationQuery, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrApplicationNotFound
	}
	return nil
}

func (t *pgTx) DeleteApplicationsByMembers(ctx context.Context, studentIDs []string, at time.Time) ([]entities.Application, error) {
	if len(studentIDs) == 0 {
		return []entities.Application{}, nil
	}
	apps, err := queryApplications(ctx, t.q, lockApplicationsByMembersQuery, studentIDs)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return apps, nil
	}

	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.ID)
	}
	if _, err := t.q.Exec(ctx, deleteApplicationsQuery, ids); err != nil {
		t.log.Errorw("failed to cascade delete", "error", err, "application_ids", ids)
		return nil, fmt.Errorf("cascade delete: %w", err)
	}
	if _, err := t.q.Exec(ctx, insertTombstonesQuery, ids, at); err != nil {
		return nil, fmt.Errorf("insert tombstones: %w", err)
	}
	return apps, nil
}

func (t *pgTx) LockApplicationsAppliedBefore(ctx context.Context, cutoff time.Time) ([]entities.Application, error) {
	return queryApplications(ctx, t.q, lockApplicationsAppliedBeforeQuery, cutoff)
}

func getApplication(ctx context.Context, q querier, query, id string) (entities.Application, error) {
	apps, err := queryApplications(ctx, q, query, id)
	if err != nil {
		return entities.Application{}, err
	}
	if len(apps) == 0 {
		return entities.Application{}, entities.ErrApplicationNotFound
	}
	return apps[0], nil
}

// queryApplications runs an application query and attaches members in position order.
func queryApplications(ctx context.Context, q querier, query string, args ...any) ([]entities.Application, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select applications: %w", err)
	}
	defer rows.Close()

	apps := make([]entities.Application, 0)
	for rows.Next() {
		var (
			a              entities.Application
			appType, state string
		)
		if err := rows.Scan(&a.ID, &a.ProjectID, &appType, &a.LeaderID, &a.Priority, &state, &a.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		a.Type = entities.ApplicationType(appType)
		a.Status = entities.ApplicationStatus(state)
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	rows.Close()

	if len(apps) == 0 {
		return apps, nil
	}
	if err := attachMembers(ctx, q, apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func attachMembers(ctx context.Context, q querier, apps []entities.Application) error {
	idx := make(map[string]int, len(apps))
	ids := make([]string, 0, len(apps))
	for i, a := range apps {
		idx[a.ID] = i
		ids = append(ids, a.ID)
	}

	rows, err := q.Query(ctx, selectMembersQuery, ids)
	if err != nil {
		return fmt.Errorf("select members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			appID, status string
			m             entities.Member
		)
		if err := rows.Scan(&appID, &m.StudentID, &m.Name, &m.RegNo, &status); err != nil {
			return fmt.Errorf("scan member: %w", err)
		}
		m.Status = entities.MemberStatus(status)
		i := idx[appID]
		apps[i].Members = append(apps[i].Members, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate members: %w", err)
	}
	return nil
}

func queryStrings(ctx context.Context, q querier, query string, args ...any) ([]string, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// mapUniqueViolation converts unique constraint failures into workflow conflicts.
func mapUniqueViolation(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case memberPerProjectConstraint:
			return entities.ErrDuplicateApplication
		case leaderPriorityConstraint:
			return entities.ErrQuotaExceeded
		case teamMemberConstraint:
			return entities.ErrAlreadyInTeam
		}
		return fmt.Errorf("%w: %s", entities.ErrConflict, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
