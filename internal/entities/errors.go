// Package entities contains core business entities and errors.
package entities

import (
	"errors"
	"fmt"
)

// Error categories. Every specific error below wraps exactly one of them,
// so callers can branch on the category with errors.Is.
var (
	// ErrNotFound signals a missing application, project, student, team or notification.
	ErrNotFound = errors.New("not found")
	// ErrForbidden signals a wrong role or a non-owner acting on a resource.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict signals a state conflict the caller can resolve.
	ErrConflict = errors.New("conflict")
	// ErrInvalid signals failed input validation.
	ErrInvalid = errors.New("invalid")
)

var (
	// ErrProjectNotFound is returned when the catalog has no such project.
	ErrProjectNotFound = fmt.Errorf("%w: project", ErrNotFound)
	// ErrApplicationNotFound is returned when an application does not exist.
	ErrApplicationNotFound = fmt.Errorf("%w: application", ErrNotFound)
	// ErrStudentNotFound is returned when the catalog has no such student.
	ErrStudentNotFound = fmt.Errorf("%w: student", ErrNotFound)
	// ErrTeammateNotFound is returned when an invited teammate cannot be resolved.
	ErrTeammateNotFound = fmt.Errorf("%w: teammate", ErrNotFound)
	// ErrTeamNotFound is returned when a team does not exist.
	ErrTeamNotFound = fmt.Errorf("%w: team", ErrNotFound)
	// ErrNotificationNotFound is returned when a notification does not exist for the recipient.
	ErrNotificationNotFound = fmt.Errorf("%w: notification", ErrNotFound)

	// ErrWrongRole is returned when the acting user has the wrong role for the operation.
	ErrWrongRole = fmt.Errorf("%w: wrong role", ErrForbidden)
	// ErrNotOwner is returned when a teacher acts on another faculty's project.
	ErrNotOwner = fmt.Errorf("%w: not the project owner", ErrForbidden)
	// ErrNotAMember is returned when the acting student is not the referenced member.
	ErrNotAMember = fmt.Errorf("%w: not a member", ErrForbidden)

	// ErrDuplicateApplication signals a second application to the same project.
	ErrDuplicateApplication = fmt.Errorf("%w: duplicate application", ErrConflict)
	// ErrQuotaExceeded signals that the student already holds the maximum number of applications.
	ErrQuotaExceeded = fmt.Errorf("%w: application quota exceeded", ErrConflict)
	// ErrAlreadyDecided signals a second response from an already approved member.
	ErrAlreadyDecided = fmt.Errorf("%w: already decided", ErrConflict)
	// ErrNotReady signals a faculty decision on an application still waiting for members.
	ErrNotReady = fmt.Errorf("%w: application not ready for review", ErrConflict)
	// ErrApplicationSuperseded signals an application removed by a concurrent decision.
	ErrApplicationSuperseded = fmt.Errorf("%w: application superseded", ErrConflict)
	// ErrAlreadyInTeam signals that a student already belongs to a team.
	ErrAlreadyInTeam = fmt.Errorf("%w: student already in a team", ErrConflict)
	// ErrCapacityReached signals that a project cannot accept more teams.
	ErrCapacityReached = fmt.Errorf("%w: project capacity reached", ErrConflict)

	// ErrInvalidTeammateCount signals a malformed teammate list.
	ErrInvalidTeammateCount = fmt.Errorf("%w: invalid teammate count", ErrInvalid)
	// ErrInvalidArgument signals any other failed input validation.
	ErrInvalidArgument = fmt.Errorf("%w: invalid argument", ErrInvalid)
)
