// Package repository contains repository interfaces for persistence layers.
package repository

import (
	"context"

	"volunteer-attendance/internal/entities"
)

// LifecycleInterface describes storage startup/shutdown hooks.
type LifecycleInterface interface {
	OnStart(_ context.Context) error
	OnStop(_ context.Context) error
}

// PersonInterface exposes person-related operations.
type PersonInterface interface {
	CreatePerson(ctx context.Context, p entities.NewPerson) (*entities.Person, error)
	GetPerson(ctx context.Context, id string) (*entities.Person, error)
	GetPersonByScanCode(ctx context.Context, code string) (*entities.Person, error)
	GetActor(ctx context.Context, id string) (entities.Actor, error)
	ApprovePerson(ctx context.Context, id string) (*entities.Person, error)
	SearchUnassignedVolunteers(ctx context.Context, query string, limit int) ([]entities.Person, error)
	ListPersons(ctx context.Context, f entities.PersonFilter) ([]entities.Person, error)
}

// DepartmentInterface exposes department membership transactions.
type DepartmentInterface interface {
	CreateOrReactivateDepartment(ctx context.Context, name, description string) (*entities.Department, bool, error)
	GetDepartment(ctx context.Context, id string) (*entities.Department, error)
	ListDepartments(ctx context.Context) ([]entities.Department, error)
	AssignToDepartment(ctx context.Context, a entities.Assignment) (*entities.Person, error)
	RemoveFromDepartment(ctx context.Context, personID, departmentID string) (*entities.Person, error)
	PromoteVolunteerToCoordinator(ctx context.Context, personID string) (*entities.Person, error)
	DeleteDepartment(ctx context.Context, id string) (entities.RetireResult, error)
}

// TeamInterface exposes team membership transactions.
type TeamInterface interface {
	CreateOrJoinTeam(ctx context.Context, t entities.NewTeam, joinCode func() string) (*entities.Team, bool, error)
	JoinTeamByCode(ctx context.Context, personID, code string) (*entities.Team, error)
	GetTeam(ctx context.Context, id string) (*entities.Team, error)
	DeleteTeam(ctx context.Context, id string) (entities.RetireResult, error)
}

// InvitationInterface exposes the invitation state machine.
type InvitationInterface interface {
	CreateInvitation(ctx context.Context, personID, departmentID, inviterID string) (*entities.Invitation, error)
	RespondInvitation(ctx context.Context, id, responderID string, status entities.InvitationStatus) (*entities.Invitation, error)
	PendingInvitationsForPerson(ctx context.Context, personID string) ([]entities.Invitation, error)
	PendingInvitationsForDepartment(ctx context.Context, departmentID string) ([]entities.Invitation, error)
}

// AttendanceInterface exposes the attendance recorder and its read-only views.
type AttendanceInterface interface {
	MarkAttendance(ctx context.Context, req entities.MarkRequest, policy entities.MarkPolicy) (*entities.AttendanceRecord, error)
	AttendanceHistory(ctx context.Context, subjectID string, limit, offset int) ([]entities.AttendanceRecord, int64, error)
	UnitAttendance(ctx context.Context, unit entities.UnitRef, dayKey string) ([]entities.AttendanceRecord, error)
	DailyCounts(ctx context.Context, fromDay, toDay string) ([]entities.DailyCount, error)
	AttendanceByDay(ctx context.Context, f entities.AttendanceFilter) ([]entities.AttendanceRecord, error)
}
