package entities

import "time"

// DayKeyLayout formats the calendar day used to deduplicate attendance.
const DayKeyLayout = "2006-01-02"

// DayKey returns the calendar date of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayKeyLayout)
}

// Location is an optional scan position.
type Location struct {
	Latitude  float64
	Longitude float64
}

// AttendanceRecord is one attendance event. Role, DepartmentID and TeamID are
// copied from the subject at marking time.
type AttendanceRecord struct {
	ID           string
	SubjectID    string
	MarkedBy     string
	Role         Role
	DepartmentID *string
	TeamID       *string
	MarkedAt     time.Time
	DayKey       string
	Location     *Location
}

// MarkRequest is the input to the attendance recorder.
type MarkRequest struct {
	ActorID  string
	ScanCode string
	MarkedAt time.Time
	DayKey   string
	Location *Location
}

// MarkPolicy runs inside the attendance transaction against the locked actor
// and subject rows; a non-nil error aborts the insert.
type MarkPolicy func(actor Actor, subject Person) error

// AttendancePage is a page of a subject's history.
type AttendancePage struct {
	Records []AttendanceRecord
	Total   int64
	Page    int
	Limit   int
}

// DailyCount is the number of records for a day and role.
type DailyCount struct {
	DayKey string `json:"day"`
	Role   Role   `json:"role"`
	Count  int64  `json:"count"`
}

// AttendanceFilter selects records for the admin day view. An empty DayKey
// matches every day; an empty Kind matches records with or without a unit.
type AttendanceFilter struct {
	DayKey string
	Kind   UnitKind
}
