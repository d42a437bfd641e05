// Package domain contains application Usecases orchestrating domain logic by department.
package domain

import (
	"context"
	"strings"

	"volunteer-attendance/internal/authz"
	"volunteer-attendance/internal/entities"
)

// CreateDepartment creates a department or reactivates a retired one of the same name.
func (u *Usecase) CreateDepartment(ctx context.Context, actorID, name, description string) (*entities.Department, bool, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if err := required("name", name); err != nil {
		return nil, false, err
	}
	if err := u.requireAdmin(ctx, actorID); err != nil {
		return nil, false, err
	}
	return u.repo.CreateOrReactivateDepartment(ctx, name, strings.TrimSpace(description))
}

// Department returns a department with its member lists.
func (u *Usecase) Department(ctx context.Context, actorID, id string) (*entities.Department, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("department_id", id); err != nil {
		return nil, err
	}
	if _, err := u.actor(ctx, actorID); err != nil {
		return nil, err
	}
	return u.repo.GetDepartment(ctx, id)
}

// Departments lists active departments.
func (u *Usecase) Departments(ctx context.Context, actorID string) ([]entities.Department, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if _, err := u.actor(ctx, actorID); err != nil {
		return nil, err
	}
	return u.repo.ListDepartments(ctx)
}

// AssignToDepartment places a person in a department list, moving them out of
// any department they were in before.
func (u *Usecase) AssignToDepartment(ctx context.Context, actorID string, a entities.Assignment) (*entities.Person, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("person_id", a.PersonID); err != nil {
		return nil, err
	}
	if err := required("department_id", a.DepartmentID); err != nil {
		return nil, err
	}
	if !a.Role.Valid() {
		return nil, entities.ErrInvalidMemberRole
	}
	if err := u.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return u.repo.AssignToDepartment(ctx, a)
}

// RemoveFromDepartment pulls a person out of their department. Coordinators may
// only remove people from their own department.
func (u *Usecase) RemoveFromDepartment(ctx context.Context, actorID, personID string) (*entities.Person, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("person_id", personID); err != nil {
		return nil, err
	}
	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	person, err := u.repo.GetPerson(ctx, personID)
	if err != nil {
		return nil, err
	}
	if person.DepartmentID == nil {
		return nil, entities.ErrNotInDepartment
	}

	unit := entities.UnitRef{Kind: entities.UnitDepartment, ID: *person.DepartmentID}
	if !authz.CanManageMembership(actor, unit) {
		if actor.Role == entities.RoleCoordinator {
			return nil, entities.ErrNotInYourDepartment
		}
		return nil, entities.ErrNoPermission
	}

	// The store re-checks the department under lock; a concurrent move surfaces
	// as ErrMembershipChanged.
	return u.repo.RemoveFromDepartment(ctx, personID, unit.ID)
}

// PromoteVolunteer turns a volunteer into a coordinator of the same department.
func (u *Usecase) PromoteVolunteer(ctx context.Context, actorID, personID string) (*entities.Person, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("person_id", personID); err != nil {
		return nil, err
	}
	if err := u.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return u.repo.PromoteVolunteerToCoordinator(ctx, personID)
}

// DeleteDepartment retires a department.
func (u *Usecase) DeleteDepartment(ctx context.Context, actorID, id string) (entities.RetireResult, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("department_id", id); err != nil {
		return entities.RetireResult{}, err
	}
	if err := u.requireAdmin(ctx, actorID); err != nil {
		return entities.RetireResult{}, err
	}
	return u.repo.DeleteDepartment(ctx, id)
}

func (u *Usecase) requireAdmin(ctx context.Context, actorID string) error {
	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if !authz.IsAdmin(actor) {
		return entities.ErrNoPermission
	}
	return nil
}
