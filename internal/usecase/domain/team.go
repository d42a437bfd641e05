// Package domain contains application Usecases orchestrating domain logic by team.
package domain

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"volunteer-attendance/internal/authz"
	"volunteer-attendance/internal/entities"
)

const minTeamNameLen = 2

// CreateOrJoinTeam returns the caller's team, creating it on first call.
func (u *Usecase) CreateOrJoinTeam(ctx context.Context, actorID, name, description string) (*entities.Team, bool, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < minTeamNameLen {
		u.log.Debugw("create team: short team name", "actor_id", actorID)
		return nil, false, fmt.Errorf("%w: team name must be at least %d characters", entities.ErrInvalidArgument, minTeamNameLen)
	}
	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return nil, false, err
	}
	if actor.Role != entities.RoleTeamLeader {
		return nil, false, entities.ErrNotTeamLeader
	}

	return u.repo.CreateOrJoinTeam(ctx, entities.NewTeam{
		LeaderID:    actor.ID,
		Name:        name,
		Description: strings.TrimSpace(description),
	}, u.joinCode)
}

// JoinTeam enrolls the caller into the team holding code.
func (u *Usecase) JoinTeam(ctx context.Context, actorID, code string) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	code = strings.ToUpper(strings.TrimSpace(code))
	if err := required("join_code", code); err != nil {
		return nil, err
	}
	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return u.repo.JoinTeamByCode(ctx, actor.ID, code)
}

// Team returns a team with its members.
func (u *Usecase) Team(ctx context.Context, actorID, id string) (*entities.Team, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("team_id", id); err != nil {
		return nil, err
	}
	if _, err := u.actor(ctx, actorID); err != nil {
		return nil, err
	}
	return u.repo.GetTeam(ctx, id)
}

// DeleteTeam retires a team. Admins and the team's leader may do so.
func (u *Usecase) DeleteTeam(ctx context.Context, actorID, id string) (entities.RetireResult, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("team_id", id); err != nil {
		return entities.RetireResult{}, err
	}
	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return entities.RetireResult{}, err
	}
	if !authz.CanManageMembership(actor, entities.UnitRef{Kind: entities.UnitTeam, ID: id}) {
		return entities.RetireResult{}, entities.ErrNoPermission
	}
	return u.repo.DeleteTeam(ctx, id)
}
