// Package entities contains core business entities.
package entities

import (
	"fmt"
	"time"
)

// Role is the closed set of person roles.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleVolunteer   Role = "volunteer"
	RoleTeamLeader  Role = "team-leader"
	RoleTeamMember  Role = "team-member"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleCoordinator, RoleVolunteer, RoleTeamLeader, RoleTeamMember}

// Valid reports whether r is one of Roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCoordinator, RoleVolunteer, RoleTeamLeader, RoleTeamMember:
		return true
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidArgument, s)
	}
	return r, nil
}

// Person is anyone tracked by the system.
type Person struct {
	ID            string
	Name          string
	Email         string
	ContactHandle string
	Role          Role
	IsApproved    bool
	ScanCode      string
	DepartmentID  *string
	TeamID        *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InDepartment reports whether p currently references department id.
func (p Person) InDepartment(id string) bool {
	return p.DepartmentID != nil && *p.DepartmentID == id
}

// InTeam reports whether p currently references team id.
func (p Person) InTeam(id string) bool {
	return p.TeamID != nil && *p.TeamID == id
}

// NewPerson carries signup data.
type NewPerson struct {
	Name          string
	Email         string
	ContactHandle string
	Role          Role
	ScanCode      string
}

// Actor is an authenticated person together with the team they lead, if any.
type Actor struct {
	Person
	OwnedTeamID string
}

// PersonFilter selects people for the admin directory. An empty Role matches
// every role except admin.
type PersonFilter struct {
	Role       Role
	Unassigned bool
}
