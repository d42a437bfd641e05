// Package domain contains application Usecases orchestrating domain logic by attendance.
package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"volunteer-attendance/internal/authz"
	"volunteer-attendance/internal/entities"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// MarkAttendance records today's attendance for the owner of scanCode.
func (u *Usecase) MarkAttendance(ctx context.Context, actorID, scanCode string, loc *entities.Location) (*entities.AttendanceRecord, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	scanCode = strings.TrimSpace(scanCode)
	if err := required("scan_code", scanCode); err != nil {
		return nil, err
	}
	if loc != nil {
		if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
			return nil, fmt.Errorf("%w: location out of range", entities.ErrInvalidArgument)
		}
	}
	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	rec, err := u.repo.MarkAttendance(ctx, entities.MarkRequest{
		ActorID:  actor.ID,
		ScanCode: scanCode,
		MarkedAt: now,
		DayKey:   entities.DayKey(now, u.dayLocation),
		Location: loc,
	}, authz.MarkError)
	if err != nil {
		if entities.KindOf(err) == entities.ErrForbidden {
			u.log.Infow("attendance denied", "actor_id", actor.ID, "reason", entities.Reason(err))
		}
		return nil, err
	}
	return rec, nil
}

// AttendanceHistory pages through a subject's records, newest first. An empty
// subjectID means the caller. Only staff may read other people's history.
func (u *Usecase) AttendanceHistory(ctx context.Context, actorID, subjectID string, page, limit int) (entities.AttendancePage, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return entities.AttendancePage{}, err
	}
	if subjectID == "" {
		subjectID = actor.ID
	}
	if subjectID != actor.ID && !isStaff(actor.Role) {
		return entities.AttendancePage{}, entities.ErrNoPermission
	}

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, total, err := u.repo.AttendanceHistory(ctx, subjectID, limit, (page-1)*limit)
	if err != nil {
		return entities.AttendancePage{}, err
	}
	return entities.AttendancePage{Records: records, Total: total, Page: page, Limit: limit}, nil
}

// UnitAttendance lists the records of a department or team for one day. An
// empty day means today.
func (u *Usecase) UnitAttendance(ctx context.Context, actorID string, unit entities.UnitRef, day string) ([]entities.AttendanceRecord, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := required("unit_id", unit.ID); err != nil {
		return nil, err
	}
	if unit.Kind != entities.UnitDepartment && unit.Kind != entities.UnitTeam {
		return nil, fmt.Errorf("%w: unknown unit kind %q", entities.ErrInvalidArgument, unit.Kind)
	}
	if day == "" {
		day = entities.DayKey(u.now(), u.dayLocation)
	}
	if err := validDay(day); err != nil {
		return nil, err
	}
	actor, err := u.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageMembership(actor, unit) {
		return nil, entities.ErrNoPermission
	}
	return u.repo.UnitAttendance(ctx, unit, day)
}

// DailyCounts returns per-day, per-role record counts within inclusive bounds.
func (u *Usecase) DailyCounts(ctx context.Context, actorID, from, to string) ([]entities.DailyCount, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	for _, day := range []string{from, to} {
		if day == "" {
			continue
		}
		if err := validDay(day); err != nil {
			return nil, err
		}
	}
	if from != "" && to != "" && from > to {
		return nil, fmt.Errorf("%w: from is after to", entities.ErrInvalidArgument)
	}
	if err := u.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return u.repo.DailyCounts(ctx, from, to)
}

// AttendanceByDay lists records for the admin view, newest first. An empty
// day means every day. Kind is department (the default), team or all.
func (u *Usecase) AttendanceByDay(ctx context.Context, actorID, day, kind string) ([]entities.AttendanceRecord, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if day != "" {
		if err := validDay(day); err != nil {
			return nil, err
		}
	}
	f := entities.AttendanceFilter{DayKey: day}
	switch kind {
	case "", string(entities.UnitDepartment):
		f.Kind = entities.UnitDepartment
	case string(entities.UnitTeam):
		f.Kind = entities.UnitTeam
	case "all":
	default:
		return nil, fmt.Errorf("%w: unknown attendance type %q", entities.ErrInvalidArgument, kind)
	}
	if err := u.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return u.repo.AttendanceByDay(ctx, f)
}

func isStaff(r entities.Role) bool {
	return r == entities.RoleAdmin || r == entities.RoleCoordinator || r == entities.RoleTeamLeader
}

func validDay(day string) error {
	if _, err := time.Parse(entities.DayKeyLayout, day); err != nil {
		return fmt.Errorf("%w: day must be YYYY-MM-DD", entities.ErrInvalidArgument)
	}
	return nil
}
