package authz

import (
	"testing"

	"volunteer-attendance/internal/entities"

	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func person(id string, role entities.Role, dept, team *string) entities.Person {
	return entities.Person{ID: id, Role: role, DepartmentID: dept, TeamID: team}
}

func TestCanMark(t *testing.T) {
	tests := []struct {
		name    string
		actor   entities.Actor
		subject entities.Person
		allowed bool
		reason  string
	}{
		{
			name:    "admin marks anyone",
			actor:   entities.Actor{Person: person("a", entities.RoleAdmin, nil, nil)},
			subject: person("s", entities.RoleCoordinator, ptr("d2"), nil),
			allowed: true,
		},
		{
			name:    "admin marks self",
			actor:   entities.Actor{Person: person("a", entities.RoleAdmin, nil, nil)},
			subject: person("a", entities.RoleAdmin, nil, nil),
			allowed: true,
		},
		{
			name:    "coordinator marks volunteer of same department",
			actor:   entities.Actor{Person: person("c", entities.RoleCoordinator, ptr("d1"), nil)},
			subject: person("v", entities.RoleVolunteer, ptr("d1"), nil),
			allowed: true,
		},
		{
			name:    "coordinator denied for volunteer of other department",
			actor:   entities.Actor{Person: person("c", entities.RoleCoordinator, ptr("d1"), nil)},
			subject: person("v", entities.RoleVolunteer, ptr("d2"), nil),
			reason:  ReasonNotInDepartment,
		},
		{
			name:    "coordinator denied for unassigned volunteer",
			actor:   entities.Actor{Person: person("c", entities.RoleCoordinator, ptr("d1"), nil)},
			subject: person("v", entities.RoleVolunteer, nil, nil),
			reason:  ReasonNotInDepartment,
		},
		{
			name:    "coordinator without department denied",
			actor:   entities.Actor{Person: person("c", entities.RoleCoordinator, nil, nil)},
			subject: person("v", entities.RoleVolunteer, nil, nil),
			reason:  ReasonNotInDepartment,
		},
		{
			name:    "coordinator denied for another coordinator",
			actor:   entities.Actor{Person: person("c", entities.RoleCoordinator, ptr("d1"), nil)},
			subject: person("c2", entities.RoleCoordinator, ptr("d1"), nil),
			reason:  ReasonNoPermission,
		},
		{
			name:    "leader marks own team member",
			actor:   entities.Actor{Person: person("l", entities.RoleTeamLeader, nil, ptr("t1")), OwnedTeamID: "t1"},
			subject: person("m", entities.RoleTeamMember, nil, ptr("t1")),
			allowed: true,
		},
		{
			name:    "leader denied for member of other team",
			actor:   entities.Actor{Person: person("l", entities.RoleTeamLeader, nil, ptr("t1")), OwnedTeamID: "t1"},
			subject: person("m", entities.RoleTeamMember, nil, ptr("t2")),
			reason:  ReasonNotTeamMember,
		},
		{
			name:    "leader without a team denied",
			actor:   entities.Actor{Person: person("l", entities.RoleTeamLeader, nil, nil)},
			subject: person("m", entities.RoleTeamMember, nil, ptr("t1")),
			reason:  ReasonNotTeamMember,
		},
		{
			name:    "leader ownership comes from owned team not team reference",
			actor:   entities.Actor{Person: person("l", entities.RoleTeamLeader, nil, ptr("t1"))},
			subject: person("m", entities.RoleTeamMember, nil, ptr("t1")),
			reason:  ReasonNotTeamMember,
		},
		{
			name:    "leader denied for volunteer",
			actor:   entities.Actor{Person: person("l", entities.RoleTeamLeader, nil, ptr("t1")), OwnedTeamID: "t1"},
			subject: person("v", entities.RoleVolunteer, nil, ptr("t1")),
			reason:  ReasonNoPermission,
		},
		{
			name:    "volunteer denied",
			actor:   entities.Actor{Person: person("v", entities.RoleVolunteer, ptr("d1"), nil)},
			subject: person("v2", entities.RoleVolunteer, ptr("d1"), nil),
			reason:  ReasonNoPermission,
		},
		{
			name:    "team member denied",
			actor:   entities.Actor{Person: person("m", entities.RoleTeamMember, nil, ptr("t1"))},
			subject: person("m2", entities.RoleTeamMember, nil, ptr("t1")),
			reason:  ReasonNoPermission,
		},
		{
			name:    "unknown role denied",
			actor:   entities.Actor{Person: person("x", entities.Role("sponsor"), nil, nil)},
			subject: person("v", entities.RoleVolunteer, nil, nil),
			reason:  ReasonUnknownRole,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			allowed, reason := CanMark(tt.actor, tt.subject)
			require.Equal(t, tt.allowed, allowed)
			require.Equal(t, tt.reason, reason)

			err := MarkError(tt.actor, tt.subject)
			if tt.allowed {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, entities.ErrForbidden)
			require.Equal(t, reason, entities.Reason(err))
		})
	}
}

func TestCanManageMembership(t *testing.T) {
	admin := entities.Actor{Person: person("a", entities.RoleAdmin, nil, nil)}
	coord := entities.Actor{Person: person("c", entities.RoleCoordinator, ptr("d1"), nil)}
	leader := entities.Actor{Person: person("l", entities.RoleTeamLeader, nil, ptr("t1")), OwnedTeamID: "t1"}
	volunteer := entities.Actor{Person: person("v", entities.RoleVolunteer, ptr("d1"), nil)}

	tests := []struct {
		name    string
		actor   entities.Actor
		unit    entities.UnitRef
		allowed bool
	}{
		{"admin any department", admin, entities.UnitRef{Kind: entities.UnitDepartment, ID: "d9"}, true},
		{"admin new department", admin, entities.UnitRef{Kind: entities.UnitDepartment}, true},
		{"admin any team", admin, entities.UnitRef{Kind: entities.UnitTeam, ID: "t9"}, true},
		{"coordinator own department", coord, entities.UnitRef{Kind: entities.UnitDepartment, ID: "d1"}, true},
		{"coordinator other department", coord, entities.UnitRef{Kind: entities.UnitDepartment, ID: "d2"}, false},
		{"coordinator new department", coord, entities.UnitRef{Kind: entities.UnitDepartment}, false},
		{"coordinator team", coord, entities.UnitRef{Kind: entities.UnitTeam, ID: "d1"}, false},
		{"leader own team", leader, entities.UnitRef{Kind: entities.UnitTeam, ID: "t1"}, true},
		{"leader other team", leader, entities.UnitRef{Kind: entities.UnitTeam, ID: "t2"}, false},
		{"leader department", leader, entities.UnitRef{Kind: entities.UnitDepartment, ID: "t1"}, false},
		{"volunteer own department", volunteer, entities.UnitRef{Kind: entities.UnitDepartment, ID: "d1"}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.allowed, CanManageMembership(tt.actor, tt.unit))
		})
	}
}

func TestMarkErrorKinds(t *testing.T) {
	coord := entities.Actor{Person: person("c", entities.RoleCoordinator, ptr("d1"), nil)}

	require.NoError(t, MarkError(coord, person("v", entities.RoleVolunteer, ptr("d1"), nil)))

	err := MarkError(coord, person("v", entities.RoleVolunteer, ptr("d2"), nil))
	require.ErrorIs(t, err, entities.ErrForbidden)
	require.Equal(t, ReasonNotInDepartment, entities.Reason(err))

	leader := entities.Actor{Person: person("l", entities.RoleTeamLeader, nil, nil), OwnedTeamID: "t1"}
	err = MarkError(leader, person("m", entities.RoleTeamMember, nil, ptr("t2")))
	require.ErrorIs(t, err, entities.ErrNotYourTeamMember)
	require.Equal(t, ReasonNotTeamMember, entities.Reason(err))

	err = MarkError(leader, person("v", entities.RoleVolunteer, nil, nil))
	require.ErrorIs(t, err, entities.ErrCannotMark)
	require.Equal(t, ReasonNoPermission, entities.Reason(err))
}
