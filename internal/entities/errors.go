// Package entities contains core business entities and errors.
package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by a membership, invitation or attendance
// operation wraps exactly one of them; anything else is treated as ErrInternal.
var (
	// ErrNotFound signals a referenced entity is absent.
	ErrNotFound = errors.New("not found")
	// ErrForbidden signals the authorization predicate denied the action.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict signals a uniqueness or state invariant violation.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState signals an operation not valid for the current lifecycle state.
	ErrInvalidState = errors.New("invalid state")
	// ErrInternal signals a storage or transaction failure. Retryable.
	ErrInternal = errors.New("internal error")
	// ErrInvalidArgument signals failed input validation before the core is entered.
	ErrInvalidArgument = errors.New("invalid argument")
)

var (
	ErrPersonNotFound     = fmt.Errorf("person %w", ErrNotFound)
	ErrDepartmentNotFound = fmt.Errorf("department %w", ErrNotFound)
	ErrTeamNotFound       = fmt.Errorf("team %w", ErrNotFound)
	ErrInvitationNotFound = fmt.Errorf("invitation %w", ErrNotFound)
	ErrScanCodeNotFound   = fmt.Errorf("scan code %w", ErrNotFound)
	ErrJoinCodeNotFound   = fmt.Errorf("invalid team code: %w", ErrNotFound)

	ErrNotInYourDepartment = fmt.Errorf("%w: not in your department", ErrForbidden)
	ErrNotYourTeamMember   = fmt.Errorf("%w: not your team member", ErrForbidden)
	ErrNoPermission        = fmt.Errorf("%w: you do not have permission for this action", ErrForbidden)
	ErrCannotMark          = fmt.Errorf("%w: you do not have permission to mark this person's attendance", ErrForbidden)
	ErrUnknownRole         = fmt.Errorf("%w: unknown role", ErrForbidden)
	ErrNotYourInvitation   = fmt.Errorf("%w: invitation belongs to another person", ErrForbidden)
	ErrNotTeamLeader       = fmt.Errorf("%w: only team leaders can create teams", ErrForbidden)
	ErrNotApproved         = fmt.Errorf("%w: account awaiting approval", ErrForbidden)

	ErrAlreadyMarked        = fmt.Errorf("%w: already marked today", ErrConflict)
	ErrDepartmentExists     = fmt.Errorf("%w: an active department with this name already exists", ErrConflict)
	ErrTeamNameTaken        = fmt.Errorf("%w: an active team with this name already exists", ErrConflict)
	ErrInvitationPending    = fmt.Errorf("%w: invitation already sent", ErrConflict)
	ErrAlreadyInTeam        = fmt.Errorf("%w: already a member of a team", ErrConflict)
	ErrAlreadyInDepartment  = fmt.Errorf("%w: already assigned to a department", ErrConflict)
	ErrMembershipChanged    = fmt.Errorf("%w: membership changed concurrently", ErrConflict)
	ErrEmailTaken           = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrContactHandleTaken   = fmt.Errorf("%w: contact handle already registered", ErrConflict)
	ErrScanCodeTaken        = fmt.Errorf("%w: scan code already issued", ErrConflict)
	ErrJoinCodeExhausted    = fmt.Errorf("%w: could not allocate a unique join code", ErrConflict)
	ErrNotInDepartment      = fmt.Errorf("%w: person is not in a department", ErrInvalidState)
	ErrNotVolunteer         = fmt.Errorf("%w: only volunteers can be promoted to coordinator", ErrInvalidState)
	ErrInvitationResponded  = fmt.Errorf("%w: invitation already responded", ErrInvalidState)
	ErrDepartmentRetired    = fmt.Errorf("%w: department is retired", ErrInvalidState)
	ErrTeamRetired          = fmt.Errorf("%w: team is retired", ErrInvalidState)
	ErrTeamHasNoLeader      = fmt.Errorf("%w: team has no assigned leader", ErrInvalidState)
	ErrAlreadyApproved      = fmt.Errorf("%w: person already approved", ErrInvalidState)
	ErrInvalidMemberRole    = fmt.Errorf("%w: member role must be coordinator or volunteer", ErrInvalidArgument)
	ErrInvalidResponse      = fmt.Errorf("%w: status must be accepted or rejected", ErrInvalidArgument)
)

var kinds = []error{ErrNotFound, ErrForbidden, ErrConflict, ErrInvalidState, ErrInvalidArgument, ErrInternal}

// KindOf returns the kind sentinel carried by err, ErrInternal when it carries none, and nil for nil.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}

// IsRetryable reports whether the caller may retry the request.
func IsRetryable(err error) bool {
	return KindOf(err) == ErrInternal
}

// Reason returns the human-readable part of err without its kind prefix.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(err.Error(), KindOf(err).Error()+": ")
}
