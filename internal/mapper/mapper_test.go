package mapper

import (
	"testing"
	"time"

	"volunteer-attendance/internal/entities"
	"volunteer-attendance/internal/transport/http/api"

	"github.com/stretchr/testify/require"
)

func TestToAPIDepartmentEmptyLists(t *testing.T) {
	got := ToAPIDepartment(entities.Department{ID: "d-1", Name: "IT", State: entities.UnitActive})

	require.NotNil(t, got.CoordinatorIds)
	require.NotNil(t, got.VolunteerIds)
	require.Empty(t, got.CoordinatorIds)
	require.Equal(t, "active", got.State)
}

func TestToAPIAttendanceCopiesSnapshot(t *testing.T) {
	dept := "d-1"
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	got := ToAPIAttendance(entities.AttendanceRecord{
		ID:           "r-1",
		SubjectID:    "p-1",
		MarkedBy:     "p-2",
		Role:         entities.RoleVolunteer,
		DepartmentID: &dept,
		MarkedAt:     at,
		DayKey:       "2026-03-01",
		Location:     &entities.Location{Latitude: 12.5, Longitude: 77.6},
	})

	require.Equal(t, "volunteer", got.Role)
	require.Equal(t, "2026-03-01", got.Day)
	require.Equal(t, &dept, got.DepartmentId)
	require.Nil(t, got.TeamId)
	require.Equal(t, &api.Location{Latitude: 12.5, Longitude: 77.6}, got.Location)
}

func TestFromAPILocationNil(t *testing.T) {
	require.Nil(t, FromAPILocation(nil))
	require.Equal(t, &entities.Location{Latitude: 1, Longitude: 2}, FromAPILocation(&api.Location{Latitude: 1, Longitude: 2}))
}

func TestToAPIRetireResult(t *testing.T) {
	got := ToAPIRetireResult(entities.RetireResult{
		Unit:           entities.UnitRef{Kind: entities.UnitTeam, ID: "t-1"},
		ClearedMembers: 3,
	})
	require.Equal(t, api.RetireResult{Kind: "team", UnitId: "t-1", ClearedMembers: 3}, got)
}
