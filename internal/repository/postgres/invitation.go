package postgres

import (
	"context"
	"errors"
	"fmt"

	"volunteer-attendance/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const invitationColumns = "id, person_id, department_id, invited_by, status, created_at, updated_at"

const (
	insertInvitationQuery = `
INSERT INTO invitations(id, person_id, department_id, invited_by)
VALUES ($1, $2, $3, $4)
RETURNING ` + invitationColumns
	lockInvitationQuery   = `SELECT ` + invitationColumns + ` FROM invitations WHERE id=$1 FOR UPDATE`
	setInvitationStatus   = `UPDATE invitations SET status=$2, updated_at=NOW() WHERE id=$1 RETURNING ` + invitationColumns
	pendingForPersonQuery = `
SELECT ` + invitationColumns + `
FROM invitations
WHERE person_id=$1 AND status='pending'
ORDER BY created_at DESC, id`
	pendingForDepartmentQuery = `
SELECT ` + invitationColumns + `
FROM invitations
WHERE department_id=$1 AND status='pending'
ORDER BY created_at DESC, id`
)

func scanInvitation(row pgx.Row) (*entities.Invitation, error) {
	var inv entities.Invitation
	if err := row.Scan(&inv.ID, &inv.PersonID, &inv.DepartmentID, &inv.InvitedBy, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateInvitation opens a pending invitation for a person to join an active department.
func (p *Postgres) CreateInvitation(ctx context.Context, personID, departmentID, inviterID string) (*entities.Invitation, error) {
	var res *entities.Invitation
	err := p.inTx(ctx, "create invitation", func(tx pgx.Tx) error {
		locked, err := lockPersons(ctx, tx, lockForRead, personID)
		if err != nil {
			return err
		}
		person, ok := locked[personID]
		if !ok {
			return entities.ErrPersonNotFound
		}

		dept, err := scanDepartment(tx.QueryRow(ctx, selectDepartmentQuery, departmentID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entities.ErrDepartmentNotFound
			}
			return fmt.Errorf("get department: %w", err)
		}
		if !dept.Active() {
			return entities.ErrDepartmentRetired
		}
		if person.InDepartment(departmentID) {
			return entities.ErrAlreadyInDepartment
		}

		res, err = scanInvitation(tx.QueryRow(ctx, insertInvitationQuery, uuid.NewString(), personID, departmentID, inviterID))
		if err != nil {
			if constraint, ok := uniqueConstraint(err); ok && constraint == "invitations_pending_key" {
				return entities.ErrInvitationPending
			}
			return fmt.Errorf("insert invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("invitation created", "invitation_id", res.ID, "person_id", personID, "department_id", departmentID, "invited_by", inviterID)
	return res, nil
}

// RespondInvitation moves a pending invitation to a terminal status. Accepting
// assigns the invitee to the department's volunteers in the same transaction.
func (p *Postgres) RespondInvitation(ctx context.Context, id, responderID string, status entities.InvitationStatus) (*entities.Invitation, error) {
	var res *entities.Invitation
	err := p.inTx(ctx, "respond invitation", func(tx pgx.Tx) error {
		inv, err := scanInvitation(tx.QueryRow(ctx, lockInvitationQuery, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entities.ErrInvitationNotFound
			}
			return fmt.Errorf("lock invitation: %w", err)
		}
		if inv.PersonID != responderID {
			return entities.ErrNotYourInvitation
		}
		if !inv.Pending() {
			return entities.ErrInvitationResponded
		}

		if status == entities.InvitationAccepted {
			if _, err := assignInTx(ctx, tx, entities.Assignment{
				PersonID:     inv.PersonID,
				DepartmentID: inv.DepartmentID,
				Role:         entities.MemberVolunteer,
			}); err != nil {
				return err
			}
		}

		res, err = scanInvitation(tx.QueryRow(ctx, setInvitationStatus, id, string(status)))
		if err != nil {
			return fmt.Errorf("set invitation status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("invitation responded", "invitation_id", id, "person_id", res.PersonID, "status", res.Status)
	return res, nil
}

// PendingInvitationsForPerson lists the invitations a person has not answered yet.
func (p *Postgres) PendingInvitationsForPerson(ctx context.Context, personID string) ([]entities.Invitation, error) {
	return p.listInvitations(ctx, pendingForPersonQuery, personID)
}

// PendingInvitationsForDepartment lists unanswered invitations into a department.
func (p *Postgres) PendingInvitationsForDepartment(ctx context.Context, departmentID string) ([]entities.Invitation, error) {
	return p.listInvitations(ctx, pendingForDepartmentQuery, departmentID)
}

func (p *Postgres) listInvitations(ctx context.Context, query, arg string) ([]entities.Invitation, error) {
	rows, err := p.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	res := make([]entities.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		res = append(res, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invitations: %w", err)
	}
	return res, nil
}
