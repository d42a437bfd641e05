package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"volunteer-attendance/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = "id, subject_id, marked_by, role, department_id, team_id, marked_at, day_key, latitude, longitude"

const (
	// The (subject_id, day_key) constraint decides the race between simultaneous
	// scans: the loser's insert yields no row once the winner commits.
	insertAttendanceQuery = `
INSERT INTO attendance_records(id, subject_id, marked_by, role, department_id, team_id, marked_at, day_key, latitude, longitude)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (subject_id, day_key) DO NOTHING
RETURNING ` + attendanceColumns
	historyCountQuery = `SELECT COUNT(*) FROM attendance_records WHERE subject_id=$1`
	historyQuery      = `
SELECT ` + attendanceColumns + `
FROM attendance_records
WHERE subject_id=$1
ORDER BY marked_at DESC, id
LIMIT $2 OFFSET $3`
	departmentDayQuery = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE department_id=$1 AND day_key=$2 ORDER BY marked_at, id`
	teamDayQuery       = `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE team_id=$1 AND day_key=$2 ORDER BY marked_at, id`
)

func scanAttendance(row pgx.Row) (*entities.AttendanceRecord, error) {
	var (
		r        entities.AttendanceRecord
		lat, lng *float64
	)
	if err := row.Scan(
		&r.ID, &r.SubjectID, &r.MarkedBy, &r.Role, &r.DepartmentID, &r.TeamID,
		&r.MarkedAt, &r.DayKey, &lat, &lng,
	); err != nil {
		return nil, err
	}
	if lat != nil && lng != nil {
		r.Location = &entities.Location{Latitude: *lat, Longitude: *lng}
	}
	return &r, nil
}

// MarkAttendance records one attendance event for the owner of req.ScanCode.
// Actor and subject are share-locked so the policy and the snapshot see the
// same membership that is committed alongside the record.
func (p *Postgres) MarkAttendance(ctx context.Context, req entities.MarkRequest, policy entities.MarkPolicy) (*entities.AttendanceRecord, error) {
	var subjectID string
	if err := p.db.QueryRow(ctx, selectPersonIDByScanQuery, req.ScanCode).Scan(&subjectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrScanCodeNotFound
		}
		return nil, fmt.Errorf("resolve scan code: %w", err)
	}

	markedAt := req.MarkedAt
	if markedAt.IsZero() {
		markedAt = p.now()
	}
	dayKey := req.DayKey
	if dayKey == "" {
		dayKey = entities.DayKey(markedAt, time.UTC)
	}

	var res *entities.AttendanceRecord
	err := p.inTx(ctx, "mark attendance", func(tx pgx.Tx) error {
		locked, err := lockPersons(ctx, tx, lockForRead, req.ActorID, subjectID)
		if err != nil {
			return err
		}
		actor, ok := locked[req.ActorID]
		if !ok {
			return entities.ErrPersonNotFound
		}
		subject, ok := locked[subjectID]
		if !ok {
			return entities.ErrScanCodeNotFound
		}

		owned, err := ownedTeam(ctx, tx, actor.ID)
		if err != nil {
			return err
		}
		if policy != nil {
			if err := policy(entities.Actor{Person: *actor, OwnedTeamID: owned}, *subject); err != nil {
				return err
			}
		}

		var lat, lng *float64
		if req.Location != nil {
			lat, lng = &req.Location.Latitude, &req.Location.Longitude
		}
		res, err = scanAttendance(tx.QueryRow(ctx, insertAttendanceQuery,
			uuid.NewString(), subject.ID, actor.ID, string(subject.Role), subject.DepartmentID, subject.TeamID,
			markedAt, dayKey, lat, lng,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return entities.ErrAlreadyMarked
			}
			return fmt.Errorf("insert attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.log.Infow("attendance marked", "record_id", res.ID, "subject_id", res.SubjectID, "marked_by", res.MarkedBy, "day", res.DayKey)
	return res, nil
}

// AttendanceHistory returns a page of a subject's records, newest first, and the total count.
func (p *Postgres) AttendanceHistory(ctx context.Context, subjectID string, limit, offset int) ([]entities.AttendanceRecord, int64, error) {
	var total int64
	if err := p.db.QueryRow(ctx, historyCountQuery, subjectID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count history: %w", err)
	}

	rows, err := p.db.Query(ctx, historyQuery, subjectID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("history: %w", err)
	}
	defer rows.Close()

	res, err := collectAttendance(rows)
	if err != nil {
		return nil, 0, err
	}
	return res, total, nil
}

// UnitAttendance lists records stamped with the unit for one day-key.
func (p *Postgres) UnitAttendance(ctx context.Context, unit entities.UnitRef, dayKey string) ([]entities.AttendanceRecord, error) {
	query := departmentDayQuery
	if unit.Kind == entities.UnitTeam {
		query = teamDayQuery
	}

	rows, err := p.db.Query(ctx, query, unit.ID, dayKey)
	if err != nil {
		return nil, fmt.Errorf("%s attendance: %w", unit.Kind, err)
	}
	defer rows.Close()

	return collectAttendance(rows)
}

// DailyCounts counts records per day-key and role within the optional inclusive bounds.
func (p *Postgres) DailyCounts(ctx context.Context, fromDay, toDay string) ([]entities.DailyCount, error) {
	whereClause, args := buildDayFilter(fromDay, toDay)

	var b strings.Builder
	b.WriteString("SELECT day_key, role, COUNT(*) FROM attendance_records")
	if whereClause != "" {
		b.WriteByte(' ')
		b.WriteString(whereClause)
	}
	b.WriteString(" GROUP BY day_key, role ORDER BY day_key, role")

	rows, err := p.db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	res := make([]entities.DailyCount, 0)
	for rows.Next() {
		var c entities.DailyCount
		if err := rows.Scan(&c.DayKey, &c.Role, &c.Count); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily counts: %w", err)
	}
	return res, nil
}

// AttendanceByDay lists records newest first, optionally narrowed to one day
// and to records carrying a department or team snapshot.
func (p *Postgres) AttendanceByDay(ctx context.Context, f entities.AttendanceFilter) ([]entities.AttendanceRecord, error) {
	whereClause, args := buildAttendanceFilter(f)

	var b strings.Builder
	b.WriteString("SELECT " + attendanceColumns + " FROM attendance_records")
	if whereClause != "" {
		b.WriteByte(' ')
		b.WriteString(whereClause)
	}
	b.WriteString(" ORDER BY marked_at DESC, id")

	rows, err := p.db.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("attendance by day: %w", err)
	}
	defer rows.Close()

	return collectAttendance(rows)
}

func collectAttendance(rows pgx.Rows) ([]entities.AttendanceRecord, error) {
	res := make([]entities.AttendanceRecord, 0)
	for rows.Next() {
		r, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		res = append(res, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attendance: %w", err)
	}
	return res, nil
}

// Day keys are zero-padded ISO dates, so text comparison orders them by date.
func buildDayFilter(fromDay, toDay string) (string, []any) {
	conditions := make([]string, 0)
	args := make([]any, 0)
	idx := 1
	if fromDay != "" {
		conditions = append(conditions, "day_key >= $"+strconv.Itoa(idx))
		args = append(args, fromDay)
		idx++
	}
	if toDay != "" {
		conditions = append(conditions, "day_key <= $"+strconv.Itoa(idx))
		args = append(args, toDay)
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

func buildAttendanceFilter(f entities.AttendanceFilter) (string, []any) {
	conditions := make([]string, 0)
	args := make([]any, 0)
	if f.DayKey != "" {
		conditions = append(conditions, "day_key = $"+strconv.Itoa(len(args)+1))
		args = append(args, f.DayKey)
	}
	switch f.Kind {
	case entities.UnitDepartment:
		conditions = append(conditions, "department_id IS NOT NULL")
	case entities.UnitTeam:
		conditions = append(conditions, "team_id IS NOT NULL")
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}
