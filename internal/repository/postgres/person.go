package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"volunteer-attendance/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const personColumns = "id, name, email, contact_handle, role, is_approved, scan_code, department_id, team_id, created_at, updated_at"

const (
	insertPersonQuery = `
INSERT INTO persons(id, name, email, contact_handle, role, is_approved, scan_code)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + personColumns
	selectPersonQuery         = `SELECT ` + personColumns + ` FROM persons WHERE id=$1`
	selectPersonByScanQuery   = `SELECT ` + personColumns + ` FROM persons WHERE scan_code=$1`
	selectPersonIDByScanQuery = `SELECT id FROM persons WHERE scan_code=$1`
	lockPersonsQuery          = `SELECT ` + personColumns + ` FROM persons WHERE id = ANY($1::text[]) ORDER BY id `
	selectOwnedTeamQuery      = `SELECT id FROM teams WHERE leader_id=$1 AND state='active'`
	approvePersonQuery        = `UPDATE persons SET is_approved=true, updated_at=NOW() WHERE id=$1 RETURNING ` + personColumns
	searchUnassignedQuery     = `
SELECT ` + personColumns + `
FROM persons
WHERE role='volunteer' AND department_id IS NULL AND name ILIKE '%' || $1 || '%'
ORDER BY name, id
LIMIT $2`
	setPersonDepartmentQuery = `UPDATE persons SET department_id=$2, updated_at=NOW() WHERE id=$1`
	setPersonTeamQuery       = `UPDATE persons SET team_id=$2, updated_at=NOW() WHERE id=$1`
	setPersonRoleQuery       = `UPDATE persons SET role=$2, updated_at=NOW() WHERE id=$1`
)

func scanPerson(row pgx.Row) (*entities.Person, error) {
	var p entities.Person
	if err := row.Scan(
		&p.ID, &p.Name, &p.Email, &p.ContactHandle, &p.Role, &p.IsApproved,
		&p.ScanCode, &p.DepartmentID, &p.TeamID, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePerson inserts a person at signup. Team leaders start unapproved.
func (p *Postgres) CreatePerson(ctx context.Context, np entities.NewPerson) (*entities.Person, error) {
	person, err := scanPerson(p.db.QueryRow(ctx, insertPersonQuery,
		uuid.NewString(), np.Name, np.Email, np.ContactHandle, string(np.Role), np.Role != entities.RoleTeamLeader, np.ScanCode,
	))
	if err != nil {
		if constraint, ok := uniqueConstraint(err); ok {
			switch constraint {
			case "persons_email_key":
				return nil, entities.ErrEmailTaken
			case "persons_contact_handle_key":
				return nil, entities.ErrContactHandleTaken
			case "persons_scan_code_key":
				return nil, entities.ErrScanCodeTaken
			}
		}
		p.log.Errorw("failed to insert person", "error", err)
		return nil, fmt.Errorf("insert person: %w", err)
	}

	p.log.Infow("person created", "person_id", person.ID, "role", person.Role)
	return person, nil
}

// GetPerson fetches a person by id.
func (p *Postgres) GetPerson(ctx context.Context, id string) (*entities.Person, error) {
	return getPerson(ctx, p.db, id)
}

func getPerson(ctx context.Context, q querier, id string) (*entities.Person, error) {
	person, err := scanPerson(q.QueryRow(ctx, selectPersonQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrPersonNotFound
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return person, nil
}

// GetPersonByScanCode resolves a scan code to its owner.
func (p *Postgres) GetPersonByScanCode(ctx context.Context, code string) (*entities.Person, error) {
	person, err := scanPerson(p.db.QueryRow(ctx, selectPersonByScanQuery, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrScanCodeNotFound
		}
		return nil, fmt.Errorf("get person by scan code: %w", err)
	}
	return person, nil
}

// GetActor loads a person together with the active team they lead.
func (p *Postgres) GetActor(ctx context.Context, id string) (entities.Actor, error) {
	return p.getActor(ctx, p.db, id)
}

func (p *Postgres) getActor(ctx context.Context, q querier, id string) (entities.Actor, error) {
	person, err := getPerson(ctx, q, id)
	if err != nil {
		return entities.Actor{}, err
	}
	owned, err := ownedTeam(ctx, q, id)
	if err != nil {
		return entities.Actor{}, err
	}
	return entities.Actor{Person: *person, OwnedTeamID: owned}, nil
}

func ownedTeam(ctx context.Context, q querier, leaderID string) (string, error) {
	var teamID string
	if err := q.QueryRow(ctx, selectOwnedTeamQuery, leaderID).Scan(&teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("owned team lookup: %w", err)
	}
	return teamID, nil
}

// ApprovePerson sets the approval flag.
func (p *Postgres) ApprovePerson(ctx context.Context, id string) (*entities.Person, error) {
	var res *entities.Person
	err := p.inTx(ctx, "approve person", func(tx pgx.Tx) error {
		locked, err := lockPersons(ctx, tx, lockForWrite, id)
		if err != nil {
			return err
		}
		current, ok := locked[id]
		if !ok {
			return entities.ErrPersonNotFound
		}
		if current.IsApproved {
			return entities.ErrAlreadyApproved
		}
		res, err = scanPerson(tx.QueryRow(ctx, approvePersonQuery, id))
		if err != nil {
			return fmt.Errorf("approve person: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("person approved", "person_id", id)
	return res, nil
}

// SearchUnassignedVolunteers lists volunteers without a department whose name contains query.
func (p *Postgres) SearchUnassignedVolunteers(ctx context.Context, query string, limit int) ([]entities.Person, error) {
	rows, err := p.db.Query(ctx, searchUnassignedQuery, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search volunteers: %w", err)
	}
	defer rows.Close()

	res := make([]entities.Person, 0)
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan volunteer: %w", err)
		}
		res = append(res, *person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate volunteers: %w", err)
	}
	return res, nil
}

// ListPersons lists people newest first. An empty role filter leaves out admins.
func (p *Postgres) ListPersons(ctx context.Context, f entities.PersonFilter) ([]entities.Person, error) {
	whereClause, args := buildPersonFilter(f)

	rows, err := p.db.Query(ctx, "SELECT "+personColumns+" FROM persons "+whereClause+" ORDER BY created_at DESC, id", args...)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	res := make([]entities.Person, 0)
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		res = append(res, *person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return res, nil
}

func buildPersonFilter(f entities.PersonFilter) (string, []any) {
	conditions := make([]string, 0, 2)
	args := make([]any, 0, 1)
	if f.Role == "" {
		conditions = append(conditions, "role <> 'admin'")
	} else {
		conditions = append(conditions, "role = $1")
		args = append(args, string(f.Role))
	}
	if f.Unassigned {
		conditions = append(conditions, "department_id IS NULL")
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// lockPersons locks the given persons in ascending id order. Missing ids are absent from the result.
func lockPersons(ctx context.Context, tx pgx.Tx, strength string, ids ...string) (map[string]*entities.Person, error) {
	ids = sortedUnique(ids...)
	rows, err := tx.Query(ctx, lockPersonsQuery+strength, ids)
	if err != nil {
		return nil, fmt.Errorf("lock persons: %w", err)
	}
	defer rows.Close()

	res := make(map[string]*entities.Person, len(ids))
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan locked person: %w", err)
		}
		res[person.ID] = person
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locked persons: %w", err)
	}
	return res, nil
}

func lockPerson(ctx context.Context, tx pgx.Tx, id string) (*entities.Person, error) {
	locked, err := lockPersons(ctx, tx, lockForWrite, id)
	if err != nil {
		return nil, err
	}
	person, ok := locked[id]
	if !ok {
		return nil, entities.ErrPersonNotFound
	}
	return person, nil
}
