package postgres

import (
	"context"
	"errors"
	"fmt"

	"volunteer-attendance/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const teamColumns = "id, name, description, state, leader_id, join_code, created_at, updated_at"

const (
	insertTeamQuery = `
INSERT INTO teams(id, name, description, leader_id, join_code)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + teamColumns
	selectTeamQuery         = `SELECT ` + teamColumns + ` FROM teams WHERE id=$1`
	selectTeamIDByCodeQuery = `SELECT id FROM teams WHERE join_code=$1`
	joinCodeExistsQuery     = `SELECT EXISTS(SELECT 1 FROM teams WHERE join_code=$1)`
	lockTeamsQuery          = `SELECT ` + teamColumns + ` FROM teams WHERE id = ANY($1::text[]) ORDER BY id FOR NO KEY UPDATE`
	selectTeamMembersQuery  = `SELECT person_id FROM team_members WHERE team_id=$1 ORDER BY added_at, person_id`
	insertTeamMemberQuery   = `INSERT INTO team_members(team_id, person_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	deleteTeamMemberQuery   = `DELETE FROM team_members WHERE team_id=$1 AND person_id=$2`
	touchTeamQuery          = `UPDATE teams SET updated_at=NOW() WHERE id=$1`
	lockTeamPersonsQuery    = `SELECT id FROM persons WHERE team_id=$1 ORDER BY id FOR NO KEY UPDATE`
	retireTeamQuery         = `UPDATE teams SET state='retired', updated_at=NOW() WHERE id=$1`
	clearTeamRefsQuery      = `UPDATE persons SET team_id=NULL, updated_at=NOW() WHERE team_id=$1`
)

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var (
		t        entities.Team
		leaderID *string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.State, &leaderID, &t.JoinCode, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.LeaderID = deref(leaderID)
	t.MemberIDs = make([]string, 0)
	return &t, nil
}

// CreateOrJoinTeam returns the active team led by t.LeaderID, repairing the
// leader's team reference if it drifted, or creates one with a fresh join code.
// The bool reports whether a team was created.
func (p *Postgres) CreateOrJoinTeam(ctx context.Context, t entities.NewTeam, joinCode func() string) (*entities.Team, bool, error) {
	var (
		res     *entities.Team
		created bool
	)
	err := p.inTx(ctx, "create team", func(tx pgx.Tx) error {
		leader, err := lockPerson(ctx, tx, t.LeaderID)
		if err != nil {
			return err
		}
		if leader.Role != entities.RoleTeamLeader {
			return entities.ErrNotTeamLeader
		}
		previous := deref(leader.TeamID)

		owned, err := ownedTeam(ctx, tx, t.LeaderID)
		if err != nil {
			return err
		}
		teamID := owned
		if owned == "" {
			team, err := p.insertTeam(ctx, tx, t, joinCode)
			if err != nil {
				return err
			}
			teamID, created = team.ID, true
		} else if previous == owned {
			res, err = getTeam(ctx, tx, owned)
			return err
		}

		if _, err := lockTeams(ctx, tx, teamID, previous); err != nil {
			return err
		}
		if previous != "" && previous != teamID {
			if _, err := tx.Exec(ctx, deleteTeamMemberQuery, previous, t.LeaderID); err != nil {
				return fmt.Errorf("pull leader from previous team: %w", err)
			}
		}
		if _, err := tx.Exec(ctx, setPersonTeamQuery, t.LeaderID, teamID); err != nil {
			return fmt.Errorf("set leader team: %w", err)
		}

		res, err = getTeam(ctx, tx, teamID)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	p.log.Infow("team ready", "team_id", res.ID, "leader_id", res.LeaderID, "created", created)
	return res, created, nil
}

// insertTeam allocates a join code not used by any team, checking before the
// insert and retrying on a lost race against the unique constraint.
func (p *Postgres) insertTeam(ctx context.Context, tx pgx.Tx, t entities.NewTeam, joinCode func() string) (*entities.Team, error) {
	for attempt := 1; attempt <= p.joinCodeAttempts; attempt++ {
		code := joinCode()

		var exists bool
		if err := tx.QueryRow(ctx, joinCodeExistsQuery, code).Scan(&exists); err != nil {
			return nil, fmt.Errorf("join code lookup: %w", err)
		}
		if exists {
			p.log.Debugw("join code collision", "attempt", attempt)
			continue
		}

		sp, err := tx.Begin(ctx)
		if err != nil {
			return nil, fmt.Errorf("savepoint: %w", err)
		}
		team, err := scanTeam(sp.QueryRow(ctx, insertTeamQuery, uuid.NewString(), t.Name, t.Description, t.LeaderID, code))
		if err != nil {
			_ = sp.Rollback(ctx)
			if constraint, ok := uniqueConstraint(err); ok {
				switch constraint {
				case "teams_join_code_key":
					p.log.Debugw("join code collision", "attempt", attempt)
					continue
				case "teams_active_name_key":
					return nil, entities.ErrTeamNameTaken
				case "teams_active_leader_key":
					return nil, entities.ErrMembershipChanged
				}
			}
			return nil, fmt.Errorf("insert team: %w", err)
		}
		if err := sp.Commit(ctx); err != nil {
			return nil, fmt.Errorf("release savepoint: %w", err)
		}
		return team, nil
	}
	return nil, entities.ErrJoinCodeExhausted
}

// JoinTeamByCode adds a person without a team to the members of the team holding code.
func (p *Postgres) JoinTeamByCode(ctx context.Context, personID, code string) (*entities.Team, error) {
	var teamID string
	if err := p.db.QueryRow(ctx, selectTeamIDByCodeQuery, code).Scan(&teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrJoinCodeNotFound
		}
		return nil, fmt.Errorf("team by join code: %w", err)
	}

	var res *entities.Team
	err := p.inTx(ctx, "join team", func(tx pgx.Tx) error {
		person, err := lockPerson(ctx, tx, personID)
		if err != nil {
			return err
		}

		locked, err := lockTeams(ctx, tx, teamID)
		if err != nil {
			return err
		}
		team, ok := locked[teamID]
		if !ok {
			return entities.ErrJoinCodeNotFound
		}
		if !team.Active() {
			return entities.ErrTeamRetired
		}
		if team.LeaderID == "" {
			return entities.ErrTeamHasNoLeader
		}
		if person.TeamID != nil {
			return entities.ErrAlreadyInTeam
		}

		if _, err := tx.Exec(ctx, insertTeamMemberQuery, teamID, personID); err != nil {
			return fmt.Errorf("push into team: %w", err)
		}
		if _, err := tx.Exec(ctx, setPersonTeamQuery, personID, teamID); err != nil {
			return fmt.Errorf("set person team: %w", err)
		}
		if _, err := tx.Exec(ctx, touchTeamQuery, teamID); err != nil {
			return fmt.Errorf("touch team: %w", err)
		}

		res, err = getTeam(ctx, tx, teamID)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("person joined team", "person_id", personID, "team_id", teamID)
	return res, nil
}

// GetTeam fetches a team with its members.
func (p *Postgres) GetTeam(ctx context.Context, id string) (*entities.Team, error) {
	return getTeam(ctx, p.db, id)
}

func getTeam(ctx context.Context, q querier, id string) (*entities.Team, error) {
	team, err := scanTeam(q.QueryRow(ctx, selectTeamQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTeamNotFound
		}
		return nil, fmt.Errorf("get team: %w", err)
	}

	rows, err := q.Query(ctx, selectTeamMembersQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get team members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var personID string
		if err := rows.Scan(&personID); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		team.MemberIDs = append(team.MemberIDs, personID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate team members: %w", err)
	}
	return team, nil
}

// DeleteTeam retires a team and clears the team reference of its leader and members.
func (p *Postgres) DeleteTeam(ctx context.Context, id string) (entities.RetireResult, error) {
	res := entities.RetireResult{Unit: entities.UnitRef{Kind: entities.UnitTeam, ID: id}}

	err := p.inTx(ctx, "delete team", func(tx pgx.Tx) error {
		if err := lockIDs(ctx, tx, lockTeamPersonsQuery, id); err != nil {
			return err
		}

		locked, err := lockTeams(ctx, tx, id)
		if err != nil {
			return err
		}
		team, ok := locked[id]
		if !ok {
			return entities.ErrTeamNotFound
		}
		if !team.Active() {
			return entities.ErrTeamRetired
		}

		if _, err := tx.Exec(ctx, retireTeamQuery, id); err != nil {
			return fmt.Errorf("retire team: %w", err)
		}
		tag, err := tx.Exec(ctx, clearTeamRefsQuery, id)
		if err != nil {
			return fmt.Errorf("clear member references: %w", err)
		}
		res.ClearedMembers = int(tag.RowsAffected())
		return nil
	})
	if err != nil {
		return res, err
	}

	p.log.Infow("team deleted", "team_id", id, "cleared_members", res.ClearedMembers)
	return res, nil
}

func lockTeams(ctx context.Context, tx pgx.Tx, ids ...string) (map[string]*entities.Team, error) {
	rows, err := tx.Query(ctx, lockTeamsQuery, sortedUnique(ids...))
	if err != nil {
		return nil, fmt.Errorf("lock teams: %w", err)
	}
	defer rows.Close()

	res := make(map[string]*entities.Team, len(ids))
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan locked team: %w", err)
		}
		res[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locked teams: %w", err)
	}
	return res, nil
}
