package postgres

import (
	"context"
	"errors"
	"fmt"

	"volunteer-attendance/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const departmentColumns = "id, name, description, state, created_at, updated_at"

const (
	insertDepartmentQuery = `INSERT INTO departments(id, name, description) VALUES ($1, $2, $3) RETURNING ` + departmentColumns
	selectDepartmentQuery = `SELECT ` + departmentColumns + ` FROM departments WHERE id=$1`
	selectByNameQuery     = `
SELECT id, state FROM departments
WHERE name=$1
ORDER BY (state='active') DESC, updated_at DESC
LIMIT 1`
	selectActiveDepartmentsQuery = `SELECT ` + departmentColumns + ` FROM departments WHERE state='active' ORDER BY created_at DESC, id`
	lockDepartmentsQuery         = `SELECT ` + departmentColumns + ` FROM departments WHERE id = ANY($1::text[]) ORDER BY id FOR NO KEY UPDATE`
	selectDepartmentMembersQuery = `SELECT person_id, member_role FROM department_members WHERE department_id=$1 ORDER BY added_at, person_id`
	selectActiveMembersQuery     = `
SELECT m.department_id, m.person_id, m.member_role
FROM department_members m
JOIN departments d ON d.id = m.department_id
WHERE d.state='active'
ORDER BY m.added_at, m.person_id`
	upsertDepartmentMemberQuery = `
INSERT INTO department_members(department_id, person_id, member_role)
VALUES ($1, $2, $3)
ON CONFLICT (department_id, person_id) DO UPDATE SET member_role = EXCLUDED.member_role`
	deleteDepartmentMemberQuery = `DELETE FROM department_members WHERE department_id=$1 AND person_id=$2`
	// Also drops rows retained by retired departments, so a later reactivation
	// cannot pull the person back.
	deleteOtherMembershipsQuery = `DELETE FROM department_members WHERE person_id=$1 AND department_id<>$2`
	touchDepartmentsQuery       = `UPDATE departments SET updated_at=NOW() WHERE id = ANY($1::text[])`
	lockDepartmentPersonsQuery  = `SELECT id FROM persons WHERE department_id=$1 ORDER BY id FOR NO KEY UPDATE`
	retireDepartmentQuery       = `UPDATE departments SET state='retired', updated_at=NOW() WHERE id=$1`
	clearDepartmentRefsQuery    = `UPDATE persons SET department_id=NULL, updated_at=NOW() WHERE department_id=$1`
	lockRetainedMembersQuery    = `
SELECT p.id, p.department_id
FROM persons p
JOIN department_members m ON m.person_id = p.id
WHERE m.department_id=$1
ORDER BY p.id
FOR NO KEY UPDATE OF p`
	reactivateDepartmentQuery   = `UPDATE departments SET state='active', description=$2, updated_at=NOW() WHERE id=$1`
	restoreDepartmentRefsQuery  = `UPDATE persons SET department_id=$1, updated_at=NOW() WHERE id = ANY($2::text[])`
	pruneDepartmentMembersQuery = `DELETE FROM department_members WHERE department_id=$1 AND person_id = ANY($2::text[])`
	syncRestoredRolesQuery      = `
UPDATE department_members m
SET member_role = CASE WHEN p.role='coordinator' THEN 'coordinator' ELSE 'volunteer' END
FROM persons p
WHERE m.department_id=$1 AND m.person_id=p.id AND p.id = ANY($2::text[])`
)

func scanDepartment(row pgx.Row) (*entities.Department, error) {
	var d entities.Department
	if err := row.Scan(&d.ID, &d.Name, &d.Description, &d.State, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.CoordinatorIDs = make([]string, 0)
	d.VolunteerIDs = make([]string, 0)
	return &d, nil
}

func addMember(d *entities.Department, personID string, role entities.MemberRole) {
	if role == entities.MemberCoordinator {
		d.CoordinatorIDs = append(d.CoordinatorIDs, personID)
		return
	}
	d.VolunteerIDs = append(d.VolunteerIDs, personID)
}

// CreateOrReactivateDepartment creates a department, or brings a retired one with
// the same name back under its original id. The bool reports reactivation.
func (p *Postgres) CreateOrReactivateDepartment(ctx context.Context, name, description string) (*entities.Department, bool, error) {
	var (
		res         *entities.Department
		reactivated bool
	)
	err := p.inTx(ctx, "create department", func(tx pgx.Tx) error {
		var (
			id    string
			state entities.UnitState
		)
		err := tx.QueryRow(ctx, selectByNameQuery, name).Scan(&id, &state)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			res, err = scanDepartment(tx.QueryRow(ctx, insertDepartmentQuery, uuid.NewString(), name, description))
			if err != nil {
				if constraint, ok := uniqueConstraint(err); ok && constraint == "departments_active_name_key" {
					return entities.ErrDepartmentExists
				}
				return fmt.Errorf("insert department: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("department lookup: %w", err)
		case state == entities.UnitActive:
			return entities.ErrDepartmentExists
		}

		if err := p.reactivateDepartment(ctx, tx, id, description); err != nil {
			return err
		}
		reactivated = true
		res, err = getDepartment(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	p.log.Infow("department ready", "department_id", res.ID, "name", res.Name, "reactivated", reactivated)
	return res, reactivated, nil
}

// reactivateDepartment flips a retired department back to active. Retained
// members who are still unassigned get their reference back, listed by their
// current role; members who joined another department meanwhile are pruned.
func (p *Postgres) reactivateDepartment(ctx context.Context, tx pgx.Tx, id, description string) error {
	rows, err := tx.Query(ctx, lockRetainedMembersQuery, id)
	if err != nil {
		return fmt.Errorf("lock retained members: %w", err)
	}
	restore := make([]string, 0)
	prune := make([]string, 0)
	for rows.Next() {
		var (
			personID string
			current  *string
		)
		if err := rows.Scan(&personID, &current); err != nil {
			rows.Close()
			return fmt.Errorf("scan retained member: %w", err)
		}
		if current == nil {
			restore = append(restore, personID)
		} else if *current != id {
			prune = append(prune, personID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate retained members: %w", err)
	}

	locked, err := lockDepartments(ctx, tx, id)
	if err != nil {
		return err
	}
	dept, ok := locked[id]
	if !ok {
		return entities.ErrDepartmentNotFound
	}
	if dept.Active() {
		return entities.ErrDepartmentExists
	}

	if _, err := tx.Exec(ctx, reactivateDepartmentQuery, id, description); err != nil {
		if constraint, ok := uniqueConstraint(err); ok && constraint == "departments_active_name_key" {
			return entities.ErrDepartmentExists
		}
		return fmt.Errorf("reactivate department: %w", err)
	}
	if len(prune) > 0 {
		if _, err := tx.Exec(ctx, pruneDepartmentMembersQuery, id, prune); err != nil {
			return fmt.Errorf("prune retained members: %w", err)
		}
	}
	if len(restore) > 0 {
		if _, err := tx.Exec(ctx, restoreDepartmentRefsQuery, id, restore); err != nil {
			return fmt.Errorf("restore member references: %w", err)
		}
		if _, err := tx.Exec(ctx, syncRestoredRolesQuery, id, restore); err != nil {
			return fmt.Errorf("sync restored member roles: %w", err)
		}
	}

	p.log.Debugw("department reactivated", "department_id", id, "restored", len(restore), "pruned", len(prune))
	return nil
}

// GetDepartment fetches a department with both member lists.
func (p *Postgres) GetDepartment(ctx context.Context, id string) (*entities.Department, error) {
	return getDepartment(ctx, p.db, id)
}

func getDepartment(ctx context.Context, q querier, id string) (*entities.Department, error) {
	dept, err := scanDepartment(q.QueryRow(ctx, selectDepartmentQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("get department: %w", err)
	}

	rows, err := q.Query(ctx, selectDepartmentMembersQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get department members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			personID string
			role     entities.MemberRole
		)
		if err := rows.Scan(&personID, &role); err != nil {
			return nil, fmt.Errorf("scan department member: %w", err)
		}
		addMember(dept, personID, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate department members: %w", err)
	}
	return dept, nil
}

// ListDepartments returns active departments, newest first.
func (p *Postgres) ListDepartments(ctx context.Context) ([]entities.Department, error) {
	rows, err := p.db.Query(ctx, selectActiveDepartmentsQuery)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	depts := make([]*entities.Department, 0)
	byID := make(map[string]*entities.Department)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		depts = append(depts, d)
		byID[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate departments: %w", err)
	}

	memberRows, err := p.db.Query(ctx, selectActiveMembersQuery)
	if err != nil {
		return nil, fmt.Errorf("list department members: %w", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var (
			deptID, personID string
			role             entities.MemberRole
		)
		if err := memberRows.Scan(&deptID, &personID, &role); err != nil {
			return nil, fmt.Errorf("scan department member: %w", err)
		}
		if d, ok := byID[deptID]; ok {
			addMember(d, personID, role)
		}
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate department members: %w", err)
	}

	res := make([]entities.Department, 0, len(depts))
	for _, d := range depts {
		res = append(res, *d)
	}
	return res, nil
}

// AssignToDepartment moves a person into a department list, pulling them out of
// their previous department in the same transaction.
func (p *Postgres) AssignToDepartment(ctx context.Context, a entities.Assignment) (*entities.Person, error) {
	var res *entities.Person
	err := p.inTx(ctx, "assign to department", func(tx pgx.Tx) error {
		var err error
		res, err = assignInTx(ctx, tx, a)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("person assigned to department", "person_id", a.PersonID, "department_id", a.DepartmentID, "role", a.Role)
	return res, nil
}

func assignInTx(ctx context.Context, tx pgx.Tx, a entities.Assignment) (*entities.Person, error) {
	person, err := lockPerson(ctx, tx, a.PersonID)
	if err != nil {
		return nil, err
	}
	previous := deref(person.DepartmentID)
	if a.RequireUnassigned && previous != "" {
		return nil, entities.ErrAlreadyInDepartment
	}

	units, err := lockDepartments(ctx, tx, a.DepartmentID, previous)
	if err != nil {
		return nil, err
	}
	target, ok := units[a.DepartmentID]
	if !ok {
		return nil, entities.ErrDepartmentNotFound
	}
	if !target.Active() {
		return nil, entities.ErrDepartmentRetired
	}

	if _, err := tx.Exec(ctx, deleteOtherMembershipsQuery, a.PersonID, a.DepartmentID); err != nil {
		return nil, fmt.Errorf("pull from previous departments: %w", err)
	}
	if _, err := tx.Exec(ctx, upsertDepartmentMemberQuery, a.DepartmentID, a.PersonID, string(a.Role)); err != nil {
		return nil, fmt.Errorf("push into department: %w", err)
	}
	if _, err := tx.Exec(ctx, setPersonDepartmentQuery, a.PersonID, a.DepartmentID); err != nil {
		return nil, fmt.Errorf("set person department: %w", err)
	}
	if _, err := tx.Exec(ctx, touchDepartmentsQuery, sortedUnique(a.DepartmentID, previous)); err != nil {
		return nil, fmt.Errorf("touch departments: %w", err)
	}

	return getPerson(ctx, tx, a.PersonID)
}

// RemoveFromDepartment pulls a person out of departmentID. The person must still
// reference that department when the transaction runs.
func (p *Postgres) RemoveFromDepartment(ctx context.Context, personID, departmentID string) (*entities.Person, error) {
	var res *entities.Person
	err := p.inTx(ctx, "remove from department", func(tx pgx.Tx) error {
		person, err := lockPerson(ctx, tx, personID)
		if err != nil {
			return err
		}
		if person.DepartmentID == nil {
			return entities.ErrNotInDepartment
		}
		if *person.DepartmentID != departmentID {
			return entities.ErrMembershipChanged
		}

		if _, err := lockDepartments(ctx, tx, departmentID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, deleteDepartmentMemberQuery, departmentID, personID); err != nil {
			return fmt.Errorf("pull from department: %w", err)
		}
		if _, err := tx.Exec(ctx, setPersonDepartmentQuery, personID, nil); err != nil {
			return fmt.Errorf("clear person department: %w", err)
		}
		if _, err := tx.Exec(ctx, touchDepartmentsQuery, []string{departmentID}); err != nil {
			return fmt.Errorf("touch department: %w", err)
		}

		res, err = getPerson(ctx, tx, personID)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("person removed from department", "person_id", personID, "department_id", departmentID)
	return res, nil
}

// PromoteVolunteerToCoordinator changes the role and moves the person between
// the lists of their department, leaving the member count unchanged.
func (p *Postgres) PromoteVolunteerToCoordinator(ctx context.Context, personID string) (*entities.Person, error) {
	var res *entities.Person
	err := p.inTx(ctx, "promote volunteer", func(tx pgx.Tx) error {
		person, err := lockPerson(ctx, tx, personID)
		if err != nil {
			return err
		}
		if person.Role != entities.RoleVolunteer {
			return entities.ErrNotVolunteer
		}

		if _, err := tx.Exec(ctx, setPersonRoleQuery, personID, string(entities.RoleCoordinator)); err != nil {
			return fmt.Errorf("set role: %w", err)
		}

		if deptID := deref(person.DepartmentID); deptID != "" {
			if _, err := lockDepartments(ctx, tx, deptID); err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, upsertDepartmentMemberQuery, deptID, personID, string(entities.MemberCoordinator)); err != nil {
				return fmt.Errorf("move to coordinators: %w", err)
			}
			if _, err := tx.Exec(ctx, touchDepartmentsQuery, []string{deptID}); err != nil {
				return fmt.Errorf("touch department: %w", err)
			}
		}

		res, err = getPerson(ctx, tx, personID)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("volunteer promoted", "person_id", personID, "department_id", deref(res.DepartmentID))
	return res, nil
}

// DeleteDepartment retires a department and clears every member's reference to
// it. Roles are untouched and the member lists are retained for reactivation.
func (p *Postgres) DeleteDepartment(ctx context.Context, id string) (entities.RetireResult, error) {
	res := entities.RetireResult{Unit: entities.UnitRef{Kind: entities.UnitDepartment, ID: id}}

	err := p.inTx(ctx, "delete department", func(tx pgx.Tx) error {
		if err := lockIDs(ctx, tx, lockDepartmentPersonsQuery, id); err != nil {
			return err
		}

		locked, err := lockDepartments(ctx, tx, id)
		if err != nil {
			return err
		}
		dept, ok := locked[id]
		if !ok {
			return entities.ErrDepartmentNotFound
		}
		if !dept.Active() {
			return entities.ErrDepartmentRetired
		}

		if _, err := tx.Exec(ctx, retireDepartmentQuery, id); err != nil {
			return fmt.Errorf("retire department: %w", err)
		}
		tag, err := tx.Exec(ctx, clearDepartmentRefsQuery, id)
		if err != nil {
			return fmt.Errorf("clear member references: %w", err)
		}
		res.ClearedMembers = int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		return res, err
	}

	p.log.Infow("department deleted", "department_id", id, "cleared_members", res.ClearedMembers)
	return res, nil
}

func lockDepartments(ctx context.Context, tx pgx.Tx, ids ...string) (map[string]*entities.Department, error) {
	rows, err := tx.Query(ctx, lockDepartmentsQuery, sortedUnique(ids...))
	if err != nil {
		return nil, fmt.Errorf("lock departments: %w", err)
	}
	defer rows.Close()

	res := make(map[string]*entities.Department, len(ids))
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan locked department: %w", err)
		}
		res[d.ID] = d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locked departments: %w", err)
	}
	return res, nil
}

// lockIDs runs a locking query returning ids and drains it.
func lockIDs(ctx context.Context, tx pgx.Tx, query string, args ...any) error {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("lock rows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("lock rows: %w", err)
	}
	return nil
}
