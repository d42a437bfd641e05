// Package mapper converts between domain models and transport DTOs.
package mapper

import (
	"volunteer-attendance/internal/entities"
	"volunteer-attendance/internal/transport/http/api"
)

// FromAPIPerson builds signup data from the transport DTO.
func FromAPIPerson(src api.PostPersonsJSONRequestBody) entities.NewPerson {
	return entities.NewPerson{
		Name:          src.Name,
		Email:         src.Email,
		ContactHandle: src.ContactHandle,
		Role:          entities.Role(src.Role),
	}
}

// FromAPIAssignment builds an assignment for department id.
func FromAPIAssignment(departmentID string, src api.PostDepartmentMembersJSONRequestBody) entities.Assignment {
	return entities.Assignment{
		PersonID:          src.PersonId,
		DepartmentID:      departmentID,
		Role:              entities.MemberRole(src.Role),
		RequireUnassigned: src.RequireUnassigned,
	}
}

// FromAPILocation returns nil for a nil location.
func FromAPILocation(src *api.Location) *entities.Location {
	if src == nil {
		return nil
	}
	return &entities.Location{Latitude: src.Latitude, Longitude: src.Longitude}
}

// ToAPIPerson maps entities.Person to transport model.
func ToAPIPerson(p entities.Person) api.Person {
	return api.Person{
		PersonId:      p.ID,
		Name:          p.Name,
		Email:         p.Email,
		ContactHandle: p.ContactHandle,
		Role:          string(p.Role),
		IsApproved:    p.IsApproved,
		ScanCode:      p.ScanCode,
		DepartmentId:  p.DepartmentID,
		TeamId:        p.TeamID,
		CreatedAt:     p.CreatedAt,
	}
}

// ToAPIPersonList maps a slice of persons.
func ToAPIPersonList(src []entities.Person) []api.Person {
	out := make([]api.Person, 0, len(src))
	for _, p := range src {
		out = append(out, ToAPIPerson(p))
	}
	return out
}

// ToAPIDepartment maps entities.Department to transport model.
func ToAPIDepartment(d entities.Department) api.Department {
	return api.Department{
		DepartmentId:   d.ID,
		Name:           d.Name,
		Description:    d.Description,
		State:          string(d.State),
		CoordinatorIds: nonNil(d.CoordinatorIDs),
		VolunteerIds:   nonNil(d.VolunteerIDs),
		CreatedAt:      d.CreatedAt,
	}
}

// ToAPIDepartmentList maps a slice of departments.
func ToAPIDepartmentList(src []entities.Department) []api.Department {
	out := make([]api.Department, 0, len(src))
	for _, d := range src {
		out = append(out, ToAPIDepartment(d))
	}
	return out
}

// ToAPITeam maps entities.Team to transport model.
func ToAPITeam(t entities.Team) api.Team {
	return api.Team{
		TeamId:      t.ID,
		Name:        t.Name,
		Description: t.Description,
		State:       string(t.State),
		LeaderId:    t.LeaderID,
		MemberIds:   nonNil(t.MemberIDs),
		JoinCode:    t.JoinCode,
		CreatedAt:   t.CreatedAt,
	}
}

// ToAPIInvitation maps entities.Invitation to transport model.
func ToAPIInvitation(i entities.Invitation) api.Invitation {
	return api.Invitation{
		InvitationId: i.ID,
		PersonId:     i.PersonID,
		DepartmentId: i.DepartmentID,
		InvitedBy:    i.InvitedBy,
		Status:       string(i.Status),
		CreatedAt:    i.CreatedAt,
	}
}

// ToAPIInvitationList maps a slice of invitations.
func ToAPIInvitationList(src []entities.Invitation) []api.Invitation {
	out := make([]api.Invitation, 0, len(src))
	for _, i := range src {
		out = append(out, ToAPIInvitation(i))
	}
	return out
}

// ToAPIAttendance maps entities.AttendanceRecord to transport model.
func ToAPIAttendance(r entities.AttendanceRecord) api.AttendanceRecord {
	out := api.AttendanceRecord{
		RecordId:     r.ID,
		SubjectId:    r.SubjectID,
		MarkedBy:     r.MarkedBy,
		Role:         string(r.Role),
		DepartmentId: r.DepartmentID,
		TeamId:       r.TeamID,
		MarkedAt:     r.MarkedAt,
		Day:          r.DayKey,
	}
	if r.Location != nil {
		out.Location = &api.Location{Latitude: r.Location.Latitude, Longitude: r.Location.Longitude}
	}
	return out
}

// ToAPIAttendanceList maps a slice of attendance records.
func ToAPIAttendanceList(src []entities.AttendanceRecord) []api.AttendanceRecord {
	out := make([]api.AttendanceRecord, 0, len(src))
	for _, r := range src {
		out = append(out, ToAPIAttendance(r))
	}
	return out
}

// ToAPIAttendancePage maps a history page.
func ToAPIAttendancePage(p entities.AttendancePage) api.AttendancePage {
	return api.AttendancePage{
		Records: ToAPIAttendanceList(p.Records),
		Total:   p.Total,
		Page:    p.Page,
		Limit:   p.Limit,
	}
}

// ToAPIRetireResult maps a unit deletion outcome.
func ToAPIRetireResult(r entities.RetireResult) api.RetireResult {
	return api.RetireResult{
		Kind:           string(r.Unit.Kind),
		UnitId:         r.Unit.ID,
		ClearedMembers: r.ClearedMembers,
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
