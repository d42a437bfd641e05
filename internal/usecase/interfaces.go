package usecase

import (
	"context"

	"volunteer-attendance/internal/entities"
)

// PersonUsecaseInterface abstracts person-related operations for delivery layer.
type PersonUsecaseInterface interface {
	RegisterPerson(ctx context.Context, p entities.NewPerson) (*entities.Person, error)
	ApprovePerson(ctx context.Context, actorID, personID string) (*entities.Person, error)
	Person(ctx context.Context, actorID, personID string) (*entities.Person, error)
	PersonByScanCode(ctx context.Context, actorID, code string) (*entities.Person, error)
	SearchUnassignedVolunteers(ctx context.Context, actorID, query string, limit int) ([]entities.Person, error)
	ListPersons(ctx context.Context, actorID, role string, unassigned bool) ([]entities.Person, error)
}

// DepartmentUsecaseInterface abstracts department membership operations.
type DepartmentUsecaseInterface interface {
	CreateDepartment(ctx context.Context, actorID, name, description string) (*entities.Department, bool, error)
	Department(ctx context.Context, actorID, id string) (*entities.Department, error)
	Departments(ctx context.Context, actorID string) ([]entities.Department, error)
	AssignToDepartment(ctx context.Context, actorID string, a entities.Assignment) (*entities.Person, error)
	RemoveFromDepartment(ctx context.Context, actorID, personID string) (*entities.Person, error)
	PromoteVolunteer(ctx context.Context, actorID, personID string) (*entities.Person, error)
	DeleteDepartment(ctx context.Context, actorID, id string) (entities.RetireResult, error)
}

// TeamUsecaseInterface abstracts team membership operations.
type TeamUsecaseInterface interface {
	CreateOrJoinTeam(ctx context.Context, actorID, name, description string) (*entities.Team, bool, error)
	JoinTeam(ctx context.Context, actorID, code string) (*entities.Team, error)
	Team(ctx context.Context, actorID, id string) (*entities.Team, error)
	DeleteTeam(ctx context.Context, actorID, id string) (entities.RetireResult, error)
}

// InvitationUsecaseInterface abstracts the invitation workflow.
type InvitationUsecaseInterface interface {
	Invite(ctx context.Context, actorID, personID, departmentID string) (*entities.Invitation, error)
	RespondInvitation(ctx context.Context, actorID, invitationID, status string) (*entities.Invitation, error)
	PendingInvitations(ctx context.Context, actorID string) ([]entities.Invitation, error)
	DepartmentInvitations(ctx context.Context, actorID, departmentID string) ([]entities.Invitation, error)
}

// AttendanceUsecaseInterface abstracts attendance marking and its read views.
type AttendanceUsecaseInterface interface {
	MarkAttendance(ctx context.Context, actorID, scanCode string, loc *entities.Location) (*entities.AttendanceRecord, error)
	AttendanceHistory(ctx context.Context, actorID, subjectID string, page, limit int) (entities.AttendancePage, error)
	UnitAttendance(ctx context.Context, actorID string, unit entities.UnitRef, day string) ([]entities.AttendanceRecord, error)
	DailyCounts(ctx context.Context, actorID, from, to string) ([]entities.DailyCount, error)
	AttendanceByDay(ctx context.Context, actorID, day, kind string) ([]entities.AttendanceRecord, error)
}
