package postgres

import (
	"context"
	"fmt"

	"github.com/Aadyothcoding/ece-project-connect/internal/entities"
)

const (
	statsByStatusQuery    = `SELECT status, COUNT(*) FROM applications GROUP BY status`
	statsByPriorityQuery  = `SELECT priority, COUNT(*) FROM applications GROUP BY priority`
	statsTeamsByTypeQuery = `SELECT application_type, COUNT(*) FROM teams GROUP BY application_type`
	statsStudentsApplying = `SELECT COUNT(DISTINCT student_id) FROM application_members`
	statsStudentsInTeams  = `SELECT COUNT(*) FROM team_members`
)

// Stats returns live workflow counters.
func (p *Postgres) Stats(ctx context.Context) (entities.Stats, error) {
	res := entities.Stats{
		ApplicationsByStatus:   make(map[entities.ApplicationStatus]int64),
		ApplicationsByPriority: make(map[int]int64),
		TeamsByType:            make(map[entities.ApplicationType]int64),
	}

	rows, err := p.db.Query(ctx, statsByStatusQuery)
	if err != nil {
		return res, fmt.Errorf("stats by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			status string
			cnt    int64
		)
		if err := rows.Scan(&status, &cnt); err != nil {
			return res, fmt.Errorf("scan status stat: %w", err)
		}
		res.ApplicationsByStatus[entities.ApplicationStatus(status)] = cnt
	}
	if err := rows.Err(); err != nil {
		return res, fmt.Errorf("iterate status stat: %w", err)
	}

	rows2, err := p.db.Query(ctx, statsByPriorityQuery)
	if err != nil {
		return res, fmt.Errorf("stats by priority: %w", err)
	}
	defer rows2.Close()
	for rows2.Next() {
		var prio int
		var cnt int64
		if err := rows2.Scan(&prio, &cnt); err != nil {
			return res, fmt.Errorf("scan priority stat: %w", err)
		}
		res.ApplicationsByPriority[prio] = cnt
	}
	if err := rows2.Err(); err != nil {
		return res, fmt.Errorf("iterate priority stat: %w", err)
	}

	rows3, err := p.db.Query(ctx, statsTeamsByTypeQuery)
	if err != nil {
		return res, fmt.Errorf("stats by team type: %w", err)
	}
	defer rows3.Close()
	for rows3.Next() {
		var (
			typ string
			cnt int64
		)
		if err := rows3.Scan(&typ, &cnt); err != nil {
			return res, fmt.Errorf("scan team stat: %w", err)
		}
		res.TeamsByType[entities.ApplicationType(typ)] = cnt
	}
	if err := rows3.Err(); err != nil {
		return res, fmt.Errorf("iterate team stat: %w", err)
	}

	if err := p.db.QueryRow(ctx, statsStudentsApplying).Scan(&res.StudentsApplying); err != nil {
		return res, fmt.Errorf("stats students applying: %w", err)
	}
	if err := p.db.QueryRow(ctx, statsStudentsInTeams).Scan(&res.StudentsInTeams); err != nil {
		return res, fmt.Errorf("stats students in teams: %w", err)
	}
	return res, nil
}
