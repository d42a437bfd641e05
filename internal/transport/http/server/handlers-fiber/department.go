package handlers_fiber

import (
	"net/http"

	"volunteer-attendance/internal/entities"
	"volunteer-attendance/internal/mapper"
	"volunteer-attendance/internal/transport/http/api"

	"github.com/gofiber/fiber/v2"
)

// PostDepartments creates a department, or reactivates a retired one with the same name.
func (h *Handler) PostDepartments(c *fiber.Ctx) error {
	var body api.PostDepartmentsJSONRequestBody
	if err := h.bind(c, &body); err != nil {
		return writeError(c, err)
	}

	d, reactivated, err := h.uc.CreateDepartment(c.Context(), actorID(c), body.Name, body.Description)
	if err != nil {
		return h.fail(c, "create department", err)
	}

	status := http.StatusCreated
	if reactivated {
		status = http.StatusOK
	}
	return c.Status(status).JSON(struct {
		Department  api.Department `json:"department"`
		Reactivated bool           `json:"reactivated"`
	}{Department: mapper.ToAPIDepartment(*d), Reactivated: reactivated})
}

// GetDepartments lists active departments.
func (h *Handler) GetDepartments(c *fiber.Ctx) error {
	ds, err := h.uc.Departments(c.Context(), actorID(c))
	if err != nil {
		return h.fail(c, "list departments", err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Departments []api.Department `json:"departments"`
	}{Departments: mapper.ToAPIDepartmentList(ds)})
}

// GetDepartment returns a department with its member lists.
func (h *Handler) GetDepartment(c *fiber.Ctx, id string) error {
	d, err := h.uc.Department(c.Context(), actorID(c), id)
	if err != nil {
		return h.fail(c, "get department", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPIDepartment(*d))
}

// DeleteDepartment retires a department.
func (h *Handler) DeleteDepartment(c *fiber.Ctx, id string) error {
	res, err := h.uc.DeleteDepartment(c.Context(), actorID(c), id)
	if err != nil {
		return h.fail(c, "delete department", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPIRetireResult(res))
}

// PostDepartmentMembers assigns a person to the department.
func (h *Handler) PostDepartmentMembers(c *fiber.Ctx, id string) error {
	var body api.PostDepartmentMembersJSONRequestBody
	if err := h.bind(c, &body); err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.AssignToDepartment(c.Context(), actorID(c), mapper.FromAPIAssignment(id, body))
	if err != nil {
		return h.fail(c, "assign to department", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPIPerson(*p))
}

// GetDepartmentInvitations lists pending invitations into the department.
func (h *Handler) GetDepartmentInvitations(c *fiber.Ctx, id string) error {
	invs, err := h.uc.DepartmentInvitations(c.Context(), actorID(c), id)
	if err != nil {
		return h.fail(c, "department invitations", err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Invitations []api.Invitation `json:"invitations"`
	}{Invitations: mapper.ToAPIInvitationList(invs)})
}

// GetDepartmentAttendance lists the department's records for a day.
func (h *Handler) GetDepartmentAttendance(c *fiber.Ctx, id string, params api.GetUnitAttendanceParams) error {
	return h.unitAttendance(c, entities.UnitRef{Kind: entities.UnitDepartment, ID: id}, params)
}

func (h *Handler) unitAttendance(c *fiber.Ctx, unit entities.UnitRef, params api.GetUnitAttendanceParams) error {
	if err := h.check(params); err != nil {
		return writeError(c, err)
	}
	recs, err := h.uc.UnitAttendance(c.Context(), actorID(c), unit, params.Day)
	if err != nil {
		return h.fail(c, "unit attendance", err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Records []api.AttendanceRecord `json:"records"`
	}{Records: mapper.ToAPIAttendanceList(recs)})
}
