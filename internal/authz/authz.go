// Package authz decides who may record attendance for whom and who may manage a unit.
// Every function here is pure.
package authz

import (
	"volunteer-attendance/internal/entities"
)

// Reasons returned with a denial.
const (
	ReasonNotInDepartment = "not in your department"
	ReasonNotTeamMember   = "not your team member"
	ReasonNoPermission    = "you do not have permission to mark this person's attendance"
	ReasonUnknownRole     = "unknown role"
)

// CanMark evaluates the ordered rule list; the first matching rule wins.
func CanMark(actor entities.Actor, subject entities.Person) (bool, string) {
	switch actor.Role {
	case entities.RoleAdmin:
		return true, ""
	case entities.RoleCoordinator:
		if subject.Role != entities.RoleVolunteer {
			return false, ReasonNoPermission
		}
		if actor.DepartmentID == nil || !subject.InDepartment(*actor.DepartmentID) {
			return false, ReasonNotInDepartment
		}
		return true, ""
	case entities.RoleTeamLeader:
		if subject.Role != entities.RoleTeamMember {
			return false, ReasonNoPermission
		}
		if actor.OwnedTeamID == "" || !subject.InTeam(actor.OwnedTeamID) {
			return false, ReasonNotTeamMember
		}
		return true, ""
	case entities.RoleVolunteer, entities.RoleTeamMember:
		return false, ReasonNoPermission
	default:
		return false, ReasonUnknownRole
	}
}

// CanManageMembership reports whether actor may change the membership of unit.
// Coordinators manage their own department and leaders the team they own.
func CanManageMembership(actor entities.Actor, unit entities.UnitRef) bool {
	switch actor.Role {
	case entities.RoleAdmin:
		return true
	case entities.RoleCoordinator:
		return unit.Kind == entities.UnitDepartment && unit.ID != "" &&
			actor.DepartmentID != nil && *actor.DepartmentID == unit.ID
	case entities.RoleTeamLeader:
		return unit.Kind == entities.UnitTeam && unit.ID != "" && actor.OwnedTeamID == unit.ID
	case entities.RoleVolunteer, entities.RoleTeamMember:
		return false
	default:
		return false
	}
}

// IsAdmin gates department lifecycle, assignment, promotion and approval.
func IsAdmin(actor entities.Actor) bool {
	return actor.Role == entities.RoleAdmin
}

// MarkError converts a denial into the matching Forbidden error.
func MarkError(actor entities.Actor, subject entities.Person) error {
	ok, reason := CanMark(actor, subject)
	if ok {
		return nil
	}
	switch reason {
	case ReasonNotInDepartment:
		return entities.ErrNotInYourDepartment
	case ReasonNotTeamMember:
		return entities.ErrNotYourTeamMember
	case ReasonUnknownRole:
		return entities.ErrUnknownRole
	default:
		return entities.ErrCannotMark
	}
}
