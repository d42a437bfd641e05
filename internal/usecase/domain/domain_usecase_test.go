package domain

import (
	"context"
	"testing"
	"time"

	"volunteer-attendance/internal/entities"
	"volunteer-attendance/internal/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type repoMock struct{ mock.Mock }

var _ repository.Repository = (*repoMock)(nil)

func (m *repoMock) OnStart(_ context.Context) error { return nil }
func (m *repoMock) OnStop(_ context.Context) error  { return nil }

func (m *repoMock) CreatePerson(ctx context.Context, p entities.NewPerson) (*entities.Person, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Person), args.Error(1)
}

func (m *repoMock) GetPerson(ctx context.Context, id string) (*entities.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Person), args.Error(1)
}

func (m *repoMock) GetPersonByScanCode(ctx context.Context, code string) (*entities.Person, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Person), args.Error(1)
}

func (m *repoMock) GetActor(ctx context.Context, id string) (entities.Actor, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Actor), args.Error(1)
}

func (m *repoMock) ApprovePerson(ctx context.Context, id string) (*entities.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Person), args.Error(1)
}

func (m *repoMock) SearchUnassignedVolunteers(ctx context.Context, query string, limit int) ([]entities.Person, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Person), args.Error(1)
}

func (m *repoMock) CreateOrReactivateDepartment(ctx context.Context, name, description string) (*entities.Department, bool, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*entities.Department), args.Bool(1), args.Error(2)
}

func (m *repoMock) GetDepartment(ctx context.Context, id string) (*entities.Department, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Department), args.Error(1)
}

func (m *repoMock) ListDepartments(ctx context.Context) ([]entities.Department, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Department), args.Error(1)
}

func (m *repoMock) AssignToDepartment(ctx context.Context, a entities.Assignment) (*entities.Person, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Person), args.Error(1)
}

func (m *repoMock) RemoveFromDepartment(ctx context.Context, personID, departmentID string) (*entities.Person, error) {
	args := m.Called(ctx, personID, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Person), args.Error(1)
}

func (m *repoMock) PromoteVolunteerToCoordinator(ctx context.Context, personID string) (*entities.Person, error) {
	args := m.Called(ctx, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Person), args.Error(1)
}

func (m *repoMock) DeleteDepartment(ctx context.Context, id string) (entities.RetireResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.RetireResult), args.Error(1)
}

func (m *repoMock) CreateOrJoinTeam(ctx context.Context, t entities.NewTeam, joinCode func() string) (*entities.Team, bool, error) {
	args := m.Called(ctx, t, joinCode)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*entities.Team), args.Bool(1), args.Error(2)
}

func (m *repoMock) JoinTeamByCode(ctx context.Context, personID, code string) (*entities.Team, error) {
	args := m.Called(ctx, personID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *repoMock) GetTeam(ctx context.Context, id string) (*entities.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Team), args.Error(1)
}

func (m *repoMock) DeleteTeam(ctx context.Context, id string) (entities.RetireResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.RetireResult), args.Error(1)
}

func (m *repoMock) CreateInvitation(ctx context.Context, personID, departmentID, inviterID string) (*entities.Invitation, error) {
	args := m.Called(ctx, personID, departmentID, inviterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Invitation), args.Error(1)
}

func (m *repoMock) RespondInvitation(ctx context.Context, id, responderID string, status entities.InvitationStatus) (*entities.Invitation, error) {
	args := m.Called(ctx, id, responderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Invitation), args.Error(1)
}

func (m *repoMock) PendingInvitationsForPerson(ctx context.Context, personID string) ([]entities.Invitation, error) {
	args := m.Called(ctx, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Invitation), args.Error(1)
}

func (m *repoMock) PendingInvitationsForDepartment(ctx context.Context, departmentID string) ([]entities.Invitation, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Invitation), args.Error(1)
}

func (m *repoMock) MarkAttendance(ctx context.Context, req entities.MarkRequest, policy entities.MarkPolicy) (*entities.AttendanceRecord, error) {
	args := m.Called(ctx, req, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AttendanceRecord), args.Error(1)
}

func (m *repoMock) AttendanceHistory(ctx context.Context, subjectID string, limit, offset int) ([]entities.AttendanceRecord, int64, error) {
	args := m.Called(ctx, subjectID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entities.AttendanceRecord), args.Get(1).(int64), args.Error(2)
}

func (m *repoMock) UnitAttendance(ctx context.Context, unit entities.UnitRef, dayKey string) ([]entities.AttendanceRecord, error) {
	args := m.Called(ctx, unit, dayKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.AttendanceRecord), args.Error(1)
}

func (m *repoMock) DailyCounts(ctx context.Context, fromDay, toDay string) ([]entities.DailyCount, error) {
	args := m.Called(ctx, fromDay, toDay)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.DailyCount), args.Error(1)
}

func (m *repoMock) ListPersons(ctx context.Context, f entities.PersonFilter) ([]entities.Person, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Person), args.Error(1)
}

func (m *repoMock) AttendanceByDay(ctx context.Context, f entities.AttendanceFilter) ([]entities.AttendanceRecord, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.AttendanceRecord), args.Error(1)
}

func newUsecase(t *testing.T, repo *repoMock) *Usecase {
	t.Helper()
	return New(zap.NewNop().Sugar(), context.Background(), repo, time.Second, time.UTC, 6)
}

func strPtr(s string) *string { return &s }

func actorOf(id string, role entities.Role, dept string) entities.Actor {
	p := entities.Person{ID: id, Role: role, IsApproved: true}
	if dept != "" {
		p.DepartmentID = strPtr(dept)
	}
	return entities.Actor{Person: p}
}

func TestUsecase_RegisterPersonValidation(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)

	_, err := uc.RegisterPerson(context.Background(), entities.NewPerson{Name: "A", Email: "a@x.io", Role: entities.RoleVolunteer})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	_, err = uc.RegisterPerson(context.Background(), entities.NewPerson{Name: "A", Email: "a@x.io", ContactHandle: "@a", Role: "guest"})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	repo.AssertNotCalled(t, "CreatePerson", mock.Anything, mock.Anything)
}

func TestUsecase_RegisterPersonIssuesScanCode(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)
	uc.scanCode = func() string { return "SCAN1" }

	expected := &entities.Person{ID: "p1", ScanCode: "SCAN1"}
	repo.On("CreatePerson", mock.Anything, mock.MatchedBy(func(p entities.NewPerson) bool {
		return p.ScanCode == "SCAN1" && p.Email == "ann@example.com"
	})).Return(expected, nil)

	p, err := uc.RegisterPerson(context.Background(), entities.NewPerson{
		Name: " Ann ", Email: " Ann@Example.com", ContactHandle: "@ann", Role: entities.RoleVolunteer,
	})
	require.NoError(t, err)
	require.Equal(t, expected, p)
	repo.AssertExpectations(t)
}

func TestUsecase_UnknownActorIsForbidden(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)
	repo.On("GetActor", mock.Anything, "ghost").Return(entities.Actor{}, entities.ErrPersonNotFound)

	_, err := uc.Departments(context.Background(), "ghost")
	require.ErrorIs(t, err, entities.ErrForbidden)
	repo.AssertNotCalled(t, "ListDepartments", mock.Anything)
}

func TestUsecase_UnapprovedActorIsForbidden(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)

	leader := actorOf("l1", entities.RoleTeamLeader, "")
	leader.IsApproved = false
	repo.On("GetActor", mock.Anything, "l1").Return(leader, nil)

	_, err := uc.MarkAttendance(context.Background(), "l1", "SCAN", nil)
	require.ErrorIs(t, err, entities.ErrNotApproved)
	repo.AssertNotCalled(t, "MarkAttendance", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_MarkAttendanceUsesConfiguredDay(t *testing.T) {
	repo := &repoMock{}
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	uc := New(zap.NewNop().Sugar(), context.Background(), repo, time.Second, kolkata, 6)
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	repo.On("GetActor", mock.Anything, "c1").Return(actorOf("c1", entities.RoleCoordinator, "d1"), nil)
	rec := &entities.AttendanceRecord{ID: "r1", DayKey: "2024-03-02"}
	repo.On("MarkAttendance", mock.Anything, mock.MatchedBy(func(req entities.MarkRequest) bool {
		return req.ActorID == "c1" && req.ScanCode == "SCAN" && req.DayKey == "2024-03-02" && req.MarkedAt.Equal(now)
	}), mock.Anything).Return(rec, nil)

	got, err := uc.MarkAttendance(context.Background(), "c1", " SCAN ", nil)
	require.NoError(t, err)
	require.Equal(t, rec, got)
	repo.AssertExpectations(t)
}

func TestUsecase_MarkAttendancePolicyIsThePredicate(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)

	repo.On("GetActor", mock.Anything, "c1").Return(actorOf("c1", entities.RoleCoordinator, "d1"), nil)
	repo.On("MarkAttendance", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			policy := args.Get(2).(entities.MarkPolicy)
			subject := entities.Person{ID: "v1", Role: entities.RoleVolunteer, DepartmentID: strPtr("d2")}
			require.ErrorIs(t, policy(actorOf("c1", entities.RoleCoordinator, "d1"), subject), entities.ErrNotInYourDepartment)
		}).
		Return(nil, entities.ErrNotInYourDepartment)

	_, err := uc.MarkAttendance(context.Background(), "c1", "SCAN", nil)
	require.ErrorIs(t, err, entities.ErrForbidden)
	require.Equal(t, "not in your department", entities.Reason(err))
}

func TestUsecase_MarkAttendanceValidation(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)

	_, err := uc.MarkAttendance(context.Background(), "c1", "", nil)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	_, err = uc.MarkAttendance(context.Background(), "c1", "SCAN", &entities.Location{Latitude: 120})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	repo.AssertNotCalled(t, "GetActor", mock.Anything, mock.Anything)
}

func TestUsecase_AssignRequiresAdmin(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)
	repo.On("GetActor", mock.Anything, "c1").Return(actorOf("c1", entities.RoleCoordinator, "d1"), nil)

	a := entities.Assignment{PersonID: "p1", DepartmentID: "d1", Role: entities.MemberVolunteer}
	_, err := uc.AssignToDepartment(context.Background(), "c1", a)
	require.ErrorIs(t, err, entities.ErrNoPermission)

	a.Role = "leader"
	_, err = uc.AssignToDepartment(context.Background(), "c1", a)
	require.ErrorIs(t, err, entities.ErrInvalidMemberRole)
	repo.AssertNotCalled(t, "AssignToDepartment", mock.Anything, mock.Anything)
}

func TestUsecase_AssignDelegates(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)
	repo.On("GetActor", mock.Anything, "a1").Return(actorOf("a1", entities.RoleAdmin, ""), nil)

	a := entities.Assignment{PersonID: "p1", DepartmentID: "d1", Role: entities.MemberCoordinator}
	expected := &entities.Person{ID: "p1", DepartmentID: strPtr("d1")}
	repo.On("AssignToDepartment", mock.Anything, a).Return(expected, nil)

	p, err := uc.AssignToDepartment(context.Background(), "a1", a)
	require.NoError(t, err)
	require.Equal(t, expected, p)
	repo.AssertExpectations(t)
}

func TestUsecase_RemoveFromDepartment(t *testing.T) {
	tests := []struct {
		name    string
		actor   entities.Actor
		person  *entities.Person
		wantErr error
	}{
		{
			name:    "coordinator of another department",
			actor:   actorOf("c1", entities.RoleCoordinator, "d1"),
			person:  &entities.Person{ID: "p1", DepartmentID: strPtr("d2")},
			wantErr: entities.ErrNotInYourDepartment,
		},
		{
			name:    "volunteer",
			actor:   actorOf("v9", entities.RoleVolunteer, "d1"),
			person:  &entities.Person{ID: "p1", DepartmentID: strPtr("d1")},
			wantErr: entities.ErrNoPermission,
		},
		{
			name:    "person without department",
			actor:   actorOf("a1", entities.RoleAdmin, ""),
			person:  &entities.Person{ID: "p1"},
			wantErr: entities.ErrNotInDepartment,
		},
		{
			name:   "coordinator of the same department",
			actor:  actorOf("c1", entities.RoleCoordinator, "d1"),
			person: &entities.Person{ID: "p1", DepartmentID: strPtr("d1")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &repoMock{}
			uc := newUsecase(t, repo)
			repo.On("GetActor", mock.Anything, tt.actor.ID).Return(tt.actor, nil)
			repo.On("GetPerson", mock.Anything, "p1").Return(tt.person, nil)

			if tt.wantErr != nil {
				_, err := uc.RemoveFromDepartment(context.Background(), tt.actor.ID, "p1")
				require.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "RemoveFromDepartment", mock.Anything, mock.Anything, mock.Anything)
				return
			}

			repo.On("RemoveFromDepartment", mock.Anything, "p1", "d1").Return(&entities.Person{ID: "p1"}, nil)
			p, err := uc.RemoveFromDepartment(context.Background(), tt.actor.ID, "p1")
			require.NoError(t, err)
			require.Nil(t, p.DepartmentID)
			repo.AssertExpectations(t)
		})
	}
}

func TestUsecase_InviteDefaultsToOwnDepartment(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)
	repo.On("GetActor", mock.Anything, "c1").Return(actorOf("c1", entities.RoleCoordinator, "d1"), nil)
	inv := &entities.Invitation{ID: "i1", PersonID: "v1", DepartmentID: "d1", Status: entities.InvitationPending}
	repo.On("CreateInvitation", mock.Anything, "v1", "d1", "c1").Return(inv, nil)

	got, err := uc.Invite(context.Background(), "c1", "v1", "")
	require.NoError(t, err)
	require.Equal(t, inv, got)

	_, err = uc.Invite(context.Background(), "c1", "v1", "d2")
	require.ErrorIs(t, err, entities.ErrNotInYourDepartment)
	repo.AssertNumberOfCalls(t, "CreateInvitation", 1)
}

func TestUsecase_RespondInvitationValidatesStatus(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)

	_, err := uc.RespondInvitation(context.Background(), "v1", "i1", "pending")
	require.ErrorIs(t, err, entities.ErrInvalidResponse)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	repo.AssertNotCalled(t, "RespondInvitation", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_RespondInvitationPassesResponder(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)
	repo.On("GetActor", mock.Anything, "v1").Return(actorOf("v1", entities.RoleVolunteer, ""), nil)
	repo.On("RespondInvitation", mock.Anything, "i1", "v1", entities.InvitationAccepted).
		Return(nil, entities.ErrInvitationResponded)

	_, err := uc.RespondInvitation(context.Background(), "v1", "i1", "accepted")
	require.ErrorIs(t, err, entities.ErrInvalidState)
	repo.AssertExpectations(t)
}

func TestUsecase_CreateOrJoinTeam(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)

	_, _, err := uc.CreateOrJoinTeam(context.Background(), "l1", "A", "")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo.On("GetActor", mock.Anything, "m1").Return(actorOf("m1", entities.RoleTeamMember, ""), nil)
	_, _, err = uc.CreateOrJoinTeam(context.Background(), "m1", "Blue", "")
	require.ErrorIs(t, err, entities.ErrNotTeamLeader)

	repo.On("GetActor", mock.Anything, "l1").Return(actorOf("l1", entities.RoleTeamLeader, ""), nil)
	team := &entities.Team{ID: "t1", LeaderID: "l1", JoinCode: "AB12CD"}
	repo.On("CreateOrJoinTeam", mock.Anything, entities.NewTeam{LeaderID: "l1", Name: "Blue"}, mock.Anything).
		Return(team, true, nil)

	got, created, err := uc.CreateOrJoinTeam(context.Background(), "l1", " Blue ", "")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, team, got)
}

func TestUsecase_JoinTeamNormalizesCode(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)
	repo.On("GetActor", mock.Anything, "m1").Return(actorOf("m1", entities.RoleTeamMember, ""), nil)
	repo.On("JoinTeamByCode", mock.Anything, "m1", "AB12CD").Return(&entities.Team{ID: "t1"}, nil)

	_, err := uc.JoinTeam(context.Background(), "m1", " ab12cd ")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUsecase_DeleteTeamByLeader(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)

	leader := actorOf("l1", entities.RoleTeamLeader, "")
	leader.OwnedTeamID = "t1"
	repo.On("GetActor", mock.Anything, "l1").Return(leader, nil)
	repo.On("DeleteTeam", mock.Anything, "t1").Return(entities.RetireResult{ClearedMembers: 3}, nil)

	res, err := uc.DeleteTeam(context.Background(), "l1", "t1")
	require.NoError(t, err)
	require.Equal(t, 3, res.ClearedMembers)

	_, err = uc.DeleteTeam(context.Background(), "l1", "t2")
	require.ErrorIs(t, err, entities.ErrNoPermission)
	repo.AssertNumberOfCalls(t, "DeleteTeam", 1)
}

func TestUsecase_AttendanceHistory(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)
	repo.On("GetActor", mock.Anything, "v1").Return(actorOf("v1", entities.RoleVolunteer, ""), nil)
	repo.On("GetActor", mock.Anything, "c1").Return(actorOf("c1", entities.RoleCoordinator, "d1"), nil)

	_, err := uc.AttendanceHistory(context.Background(), "v1", "v2", 1, 10)
	require.ErrorIs(t, err, entities.ErrNoPermission)

	records := []entities.AttendanceRecord{{ID: "r1"}}
	repo.On("AttendanceHistory", mock.Anything, "v1", 10, 20).Return(records, int64(21), nil)
	page, err := uc.AttendanceHistory(context.Background(), "v1", "", 3, 10)
	require.NoError(t, err)
	require.Equal(t, entities.AttendancePage{Records: records, Total: 21, Page: 3, Limit: 10}, page)

	repo.On("AttendanceHistory", mock.Anything, "v2", maxHistoryLimit, 0).Return([]entities.AttendanceRecord{}, int64(0), nil)
	_, err = uc.AttendanceHistory(context.Background(), "c1", "v2", 0, 1000)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUsecase_UnitAttendance(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)
	uc.now = func() time.Time { return time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC) }
	repo.On("GetActor", mock.Anything, "c1").Return(actorOf("c1", entities.RoleCoordinator, "d1"), nil)

	unit := entities.UnitRef{Kind: entities.UnitDepartment, ID: "d1"}
	repo.On("UnitAttendance", mock.Anything, unit, "2024-06-01").Return([]entities.AttendanceRecord{}, nil)

	_, err := uc.UnitAttendance(context.Background(), "c1", unit, "")
	require.NoError(t, err)

	_, err = uc.UnitAttendance(context.Background(), "c1", entities.UnitRef{Kind: entities.UnitDepartment, ID: "d2"}, "2024-06-01")
	require.ErrorIs(t, err, entities.ErrNoPermission)

	_, err = uc.UnitAttendance(context.Background(), "c1", unit, "01/06/2024")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	repo.AssertNumberOfCalls(t, "UnitAttendance", 1)
}

func TestUsecase_DailyCountsValidation(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)

	_, err := uc.DailyCounts(context.Background(), "a1", "2024-03-02", "2024-03-01")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	_, err = uc.DailyCounts(context.Background(), "a1", "yesterday", "")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	repo.AssertNotCalled(t, "DailyCounts", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsecase_AttendanceByDay(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)
	ctx := context.Background()

	_, err := uc.AttendanceByDay(ctx, "a1", "03/01/2024", "")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
	_, err = uc.AttendanceByDay(ctx, "a1", "", "crew")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo.On("GetActor", mock.Anything, "c1").Return(actorOf("c1", entities.RoleCoordinator, "d1"), nil)
	_, err = uc.AttendanceByDay(ctx, "c1", "", "")
	require.ErrorIs(t, err, entities.ErrNoPermission)
	repo.AssertNotCalled(t, "AttendanceByDay", mock.Anything, mock.Anything)

	repo.On("GetActor", mock.Anything, "a1").Return(actorOf("a1", entities.RoleAdmin, ""), nil)
	records := []entities.AttendanceRecord{{ID: "r1", DayKey: "2024-03-01"}}
	repo.On("AttendanceByDay", mock.Anything, entities.AttendanceFilter{DayKey: "2024-03-01", Kind: entities.UnitDepartment}).
		Return(records, nil).Once()
	repo.On("AttendanceByDay", mock.Anything, entities.AttendanceFilter{Kind: entities.UnitTeam}).
		Return([]entities.AttendanceRecord{}, nil).Once()
	repo.On("AttendanceByDay", mock.Anything, entities.AttendanceFilter{}).
		Return(records, nil).Once()

	got, err := uc.AttendanceByDay(ctx, "a1", "2024-03-01", "")
	require.NoError(t, err)
	require.Equal(t, records, got)
	got, err = uc.AttendanceByDay(ctx, "a1", "", "team")
	require.NoError(t, err)
	require.Empty(t, got)
	_, err = uc.AttendanceByDay(ctx, "a1", "", "all")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUsecase_ListPersons(t *testing.T) {
	repo := &repoMock{}
	uc := newUsecase(t, repo)
	ctx := context.Background()

	_, err := uc.ListPersons(ctx, "a1", "superuser", false)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo.On("GetActor", mock.Anything, "v1").Return(actorOf("v1", entities.RoleVolunteer, ""), nil)
	_, err = uc.ListPersons(ctx, "v1", "", false)
	require.ErrorIs(t, err, entities.ErrNoPermission)

	repo.On("GetActor", mock.Anything, "a1").Return(actorOf("a1", entities.RoleAdmin, ""), nil)
	people := []entities.Person{{ID: "p1", Role: entities.RoleVolunteer}}
	repo.On("ListPersons", mock.Anything, entities.PersonFilter{}).Return(people, nil).Once()
	repo.On("ListPersons", mock.Anything, entities.PersonFilter{Role: entities.RoleVolunteer, Unassigned: true}).
		Return(people, nil).Once()

	got, err := uc.ListPersons(ctx, "a1", "all", false)
	require.NoError(t, err)
	require.Equal(t, people, got)
	got, err = uc.ListPersons(ctx, "a1", "volunteer", true)
	require.NoError(t, err)
	require.Equal(t, people, got)
	repo.AssertExpectations(t)
}

func TestUsecase_ShortTeamNameLogsAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	uc := New(zap.New(core).Sugar(), context.Background(), &repoMock{}, time.Second, time.UTC, 6)

	_, _, err := uc.CreateOrJoinTeam(context.Background(), "l1", "A", "")
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	require.Equal(t, 1, logs.Len())
	require.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	require.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}
