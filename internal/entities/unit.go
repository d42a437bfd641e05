package entities

import "time"

// UnitKind tells departments and teams apart.
type UnitKind string

const (
	UnitDepartment UnitKind = "department"
	UnitTeam       UnitKind = "team"
)

// UnitRef identifies an organizational unit. An empty ID refers to a unit not yet created.
type UnitRef struct {
	Kind UnitKind
	ID   string
}

// UnitState is the lifecycle of a unit. Units are never destroyed, only retired.
type UnitState string

const (
	UnitActive  UnitState = "active"
	UnitRetired UnitState = "retired"
)

// MemberRole selects which department list a person sits in.
type MemberRole string

const (
	MemberCoordinator MemberRole = "coordinator"
	MemberVolunteer   MemberRole = "volunteer"
)

// Valid reports whether m is a department member role.
func (m MemberRole) Valid() bool {
	return m == MemberCoordinator || m == MemberVolunteer
}

// Department groups coordinators and volunteers.
type Department struct {
	ID             string
	Name           string
	Description    string
	State          UnitState
	CoordinatorIDs []string
	VolunteerIDs   []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Active reports whether the department is live.
func (d Department) Active() bool { return d.State == UnitActive }

// MemberCount is the size of both member lists.
func (d Department) MemberCount() int { return len(d.CoordinatorIDs) + len(d.VolunteerIDs) }

// Team groups team members under a single leader.
type Team struct {
	ID          string
	Name        string
	Description string
	State       UnitState
	LeaderID    string
	MemberIDs   []string
	JoinCode    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Active reports whether the team is live.
func (t Team) Active() bool { return t.State == UnitActive }

// Assignment places a person in a department list.
type Assignment struct {
	PersonID     string
	DepartmentID string
	Role         MemberRole
	// RequireUnassigned rejects the move with ErrAlreadyInDepartment instead of
	// pulling the person out of their current department.
	RequireUnassigned bool
}

// NewTeam carries the data a leader supplies when creating a team.
type NewTeam struct {
	LeaderID    string
	Name        string
	Description string
}

// RetireResult reports the outcome of soft-deleting a unit.
type RetireResult struct {
	Unit           UnitRef `json:"unit"`
	ClearedMembers int     `json:"cleared_members"`
}
