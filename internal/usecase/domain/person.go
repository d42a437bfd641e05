// Package domain contains application Usecases orchestrating domain logic by person.
package domain

import (
	"context"
	"fmt"
	"strings"

	"volunteer-attendance/internal/authz"
	"volunteer-attendance/internal/entities"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// RegisterPerson creates a person with a freshly issued scan code.
func (u *Usecase) RegisterPerson(ctx context.Context, p entities.NewPerson) (*entities.Person, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.ContactHandle = strings.TrimSpace(p.ContactHandle)
	if err := required("name", p.Name); err != nil {
		return nil, err
	}
	if err := required("email", p.Email); err != nil {
		return nil, err
	}
	if err := required("contact_handle", p.ContactHandle); err != nil {
		return nil, err
	}
	if !p.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", entities.ErrInvalidArgument, p.Role)
	}
	if p.ScanCode == "" {
		p.ScanCode = u.scanCode()
	}

	return u.repo.CreatePerson(ctx, p)
}

// ApprovePerson lets an admin approve a pending account.
func (u *Usecase) ApprovePerson(ctx context.Context, actorID, personID string) (*entities.Person, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("person_id", personID); err != nil {
		return nil, err
	}
	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.IsAdmin(actor) {
		return nil, entities.ErrNoPermission
	}
	return u.repo.ApprovePerson(ctx, personID)
}

// Person returns a person by id.
func (u *Usecase) Person(ctx context.Context, actorID, personID string) (*entities.Person, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("person_id", personID); err != nil {
		return nil, err
	}
	if _, err := u.actor(ctx, actorID); err != nil {
		return nil, err
	}
	return u.repo.GetPerson(ctx, personID)
}

// PersonByScanCode resolves a badge before marking.
func (u *Usecase) PersonByScanCode(ctx context.Context, actorID, code string) (*entities.Person, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("scan_code", code); err != nil {
		return nil, err
	}
	if _, err := u.actor(ctx, actorID); err != nil {
		return nil, err
	}
	return u.repo.GetPersonByScanCode(ctx, code)
}

// SearchUnassignedVolunteers finds volunteers a coordinator may invite.
func (u *Usecase) SearchUnassignedVolunteers(ctx context.Context, actorID, query string, limit int) ([]entities.Person, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != entities.RoleAdmin && actor.Role != entities.RoleCoordinator {
		return nil, entities.ErrNoPermission
	}

	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return u.repo.SearchUnassignedVolunteers(ctx, strings.TrimSpace(query), limit)
}

// ListPersons lists people for the admin directory, newest first. An empty
// role or "all" means every role except admin.
func (u *Usecase) ListPersons(ctx context.Context, actorID, role string, unassigned bool) ([]entities.Person, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	f := entities.PersonFilter{Unassigned: unassigned}
	if role != "" && role != "all" {
		r, err := entities.ParseRole(role)
		if err != nil {
			return nil, err
		}
		f.Role = r
	}
	if err := u.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return u.repo.ListPersons(ctx, f)
}
