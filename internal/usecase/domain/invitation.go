// Package domain contains application Usecases orchestrating domain logic by invitation.
package domain

import (
	"context"

	"volunteer-attendance/internal/authz"
	"volunteer-attendance/internal/entities"
)

// Invite asks a person to join a department. A coordinator may leave
// departmentID empty to invite into their own department.
func (u *Usecase) Invite(ctx context.Context, actorID, personID, departmentID string) (*entities.Invitation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("person_id", personID); err != nil {
		return nil, err
	}
	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if departmentID == "" && actor.DepartmentID != nil {
		departmentID = *actor.DepartmentID
	}
	if err := required("department_id", departmentID); err != nil {
		return nil, err
	}
	if err := canManageDepartment(actor, departmentID); err != nil {
		return nil, err
	}

	return u.repo.CreateInvitation(ctx, personID, departmentID, actor.ID)
}

// RespondInvitation accepts or rejects an invitation addressed to the caller.
func (u *Usecase) RespondInvitation(ctx context.Context, actorID, invitationID, status string) (*entities.Invitation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("invitation_id", invitationID); err != nil {
		return nil, err
	}
	st, err := entities.ParseResponse(status)
	if err != nil {
		return nil, err
	}
	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return u.repo.RespondInvitation(ctx, invitationID, actor.ID, st)
}

// PendingInvitations lists invitations awaiting the caller's answer.
func (u *Usecase) PendingInvitations(ctx context.Context, actorID string) ([]entities.Invitation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return u.repo.PendingInvitationsForPerson(ctx, actor.ID)
}

// DepartmentInvitations lists unanswered invitations into a department.
func (u *Usecase) DepartmentInvitations(ctx context.Context, actorID, departmentID string) ([]entities.Invitation, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("department_id", departmentID); err != nil {
		return nil, err
	}
	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := canManageDepartment(actor, departmentID); err != nil {
		return nil, err
	}
	return u.repo.PendingInvitationsForDepartment(ctx, departmentID)
}

func canManageDepartment(actor entities.Actor, departmentID string) error {
	if authz.CanManageMembership(actor, entities.UnitRef{Kind: entities.UnitDepartment, ID: departmentID}) {
		return nil
	}
	if actor.Role == entities.RoleCoordinator {
		return entities.ErrNotInYourDepartment
	}
	return entities.ErrNoPermission
}
