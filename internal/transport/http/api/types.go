// Package api defines the HTTP contract: request and response bodies, error
// codes and route registration.
package api

import "time"

// ErrorResponseErrorCode is the machine-readable error code.
type ErrorResponseErrorCode string

const (
	BADREQUEST   ErrorResponseErrorCode = "BAD_REQUEST"
	UNAUTHORIZED ErrorResponseErrorCode = "UNAUTHORIZED"
	FORBIDDEN    ErrorResponseErrorCode = "FORBIDDEN"
	NOTFOUND     ErrorResponseErrorCode = "NOT_FOUND"
	CONFLICT     ErrorResponseErrorCode = "CONFLICT"
	INVALIDSTATE ErrorResponseErrorCode = "INVALID_STATE"
	INTERNAL     ErrorResponseErrorCode = "INTERNAL"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}

// Person is the public view of a person.
type Person struct {
	PersonId      string    `json:"person_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ContactHandle string    `json:"contact_handle"`
	Role          string    `json:"role"`
	IsApproved    bool      `json:"is_approved"`
	ScanCode      string    `json:"scan_code"`
	DepartmentId  *string   `json:"department_id,omitempty"`
	TeamId        *string   `json:"team_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Department is a department with both member lists.
type Department struct {
	DepartmentId   string    `json:"department_id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	State          string    `json:"state"`
	CoordinatorIds []string  `json:"coordinator_ids"`
	VolunteerIds   []string  `json:"volunteer_ids"`
	CreatedAt      time.Time `json:"created_at"`
}

// Team is a team with its leader and members.
type Team struct {
	TeamId      string    `json:"team_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	State       string    `json:"state"`
	LeaderId    string    `json:"leader_id"`
	MemberIds   []string  `json:"member_ids"`
	JoinCode    string    `json:"join_code"`
	CreatedAt   time.Time `json:"created_at"`
}

// Invitation is an invitation into a department.
type Invitation struct {
	InvitationId string    `json:"invitation_id"`
	PersonId     string    `json:"person_id"`
	DepartmentId string    `json:"department_id"`
	InvitedBy    string    `json:"invited_by"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// Location is an optional scan position.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// AttendanceRecord is one attendance event.
type AttendanceRecord struct {
	RecordId     string    `json:"record_id"`
	SubjectId    string    `json:"subject_id"`
	MarkedBy     string    `json:"marked_by"`
	Role         string    `json:"role"`
	DepartmentId *string   `json:"department_id,omitempty"`
	TeamId       *string   `json:"team_id,omitempty"`
	MarkedAt     time.Time `json:"marked_at"`
	Day          string    `json:"day"`
	Location     *Location `json:"location,omitempty"`
}

// AttendancePage is a page of attendance history.
type AttendancePage struct {
	Records []AttendanceRecord `json:"records"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
}

// RetireResult reports a unit deletion.
type RetireResult struct {
	Kind           string `json:"kind"`
	UnitId         string `json:"unit_id"`
	ClearedMembers int    `json:"cleared_members"`
}

// PostPersonsJSONRequestBody registers a person. Staff accounts are created
// from the command line.
type PostPersonsJSONRequestBody struct {
	Name          string `json:"name" validate:"required,min=2,max=120"`
	Email         string `json:"email" validate:"required,email"`
	ContactHandle string `json:"contact_handle" validate:"required,max=64"`
	Role          string `json:"role" validate:"required,oneof=volunteer team-leader team-member"`
}

// PostDepartmentsJSONRequestBody creates or reactivates a department.
type PostDepartmentsJSONRequestBody struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=500"`
}

// PostDepartmentMembersJSONRequestBody assigns a person to a department.
type PostDepartmentMembersJSONRequestBody struct {
	PersonId          string `json:"person_id" validate:"required"`
	Role              string `json:"role" validate:"required,oneof=coordinator volunteer"`
	RequireUnassigned bool   `json:"require_unassigned"`
}

// PostInvitationsJSONRequestBody invites a person into a department.
type PostInvitationsJSONRequestBody struct {
	PersonId     string `json:"person_id" validate:"required"`
	DepartmentId string `json:"department_id"`
}

// PostInvitationRespondJSONRequestBody answers an invitation.
type PostInvitationRespondJSONRequestBody struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

// PostTeamsJSONRequestBody creates the caller's team.
type PostTeamsJSONRequestBody struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"max=500"`
}

// PostTeamJoinJSONRequestBody joins a team by code.
type PostTeamJoinJSONRequestBody struct {
	JoinCode string `json:"join_code" validate:"required,alphanum,max=16"`
}

// PostAttendanceJSONRequestBody marks attendance for a scanned code.
type PostAttendanceJSONRequestBody struct {
	ScanCode string    `json:"scan_code" validate:"required"`
	Location *Location `json:"location"`
}

// GetAttendanceHistoryParams pages through history.
type GetAttendanceHistoryParams struct {
	PersonId string `query:"person_id"`
	Page     int    `query:"page" validate:"gte=0"`
	Limit    int    `query:"limit" validate:"gte=0,lte=100"`
}

// GetAttendanceCountsParams bounds the daily counts.
type GetAttendanceCountsParams struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// GetUnitAttendanceParams selects the day; empty means today.
type GetUnitAttendanceParams struct {
	Day string `query:"day" validate:"omitempty,datetime=2006-01-02"`
}

// GetAttendanceParams filters the admin attendance view. Type defaults to department.
type GetAttendanceParams struct {
	Day  string `query:"day" validate:"omitempty,datetime=2006-01-02"`
	Type string `query:"type" validate:"omitempty,oneof=department team all"`
}

// GetPersonsParams filters the admin person directory.
type GetPersonsParams struct {
	Role       string `query:"role" validate:"omitempty,oneof=all admin coordinator volunteer team-leader team-member"`
	Unassigned bool   `query:"unassigned"`
}

// GetPersonsSearchParams searches unassigned volunteers.
type GetPersonsSearchParams struct {
	Query string `query:"q"`
	Limit int    `query:"limit" validate:"gte=0,lte=100"`
}
