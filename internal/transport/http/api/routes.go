package api

import (
	"github.com/gofiber/fiber/v2"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /persons)
	PostPersons(c *fiber.Ctx) error
	// (GET /persons)
	GetPersons(c *fiber.Ctx, params GetPersonsParams) error
	// (GET /persons/search)
	GetPersonsSearch(c *fiber.Ctx, params GetPersonsSearchParams) error
	// (GET /persons/scan/{code})
	GetPersonByScanCode(c *fiber.Ctx, code string) error
	// (GET /persons/{id})
	GetPerson(c *fiber.Ctx, id string) error
	// (POST /persons/{id}/approve)
	PostPersonApprove(c *fiber.Ctx, id string) error
	// (POST /persons/{id}/promote)
	PostPersonPromote(c *fiber.Ctx, id string) error
	// (DELETE /persons/{id}/department)
	DeletePersonDepartment(c *fiber.Ctx, id string) error

	// (POST /departments)
	PostDepartments(c *fiber.Ctx) error
	// (GET /departments)
	GetDepartments(c *fiber.Ctx) error
	// (GET /departments/{id})
	GetDepartment(c *fiber.Ctx, id string) error
	// (DELETE /departments/{id})
	DeleteDepartment(c *fiber.Ctx, id string) error
	// (POST /departments/{id}/members)
	PostDepartmentMembers(c *fiber.Ctx, id string) error
	// (GET /departments/{id}/invitations)
	GetDepartmentInvitations(c *fiber.Ctx, id string) error
	// (GET /departments/{id}/attendance)
	GetDepartmentAttendance(c *fiber.Ctx, id string, params GetUnitAttendanceParams) error

	// (POST /teams)
	PostTeams(c *fiber.Ctx) error
	// (POST /teams/join)
	PostTeamJoin(c *fiber.Ctx) error
	// (GET /teams/{id})
	GetTeam(c *fiber.Ctx, id string) error
	// (DELETE /teams/{id})
	DeleteTeam(c *fiber.Ctx, id string) error
	// (GET /teams/{id}/attendance)
	GetTeamAttendance(c *fiber.Ctx, id string, params GetUnitAttendanceParams) error

	// (POST /invitations)
	PostInvitations(c *fiber.Ctx) error
	// (GET /invitations)
	GetInvitations(c *fiber.Ctx) error
	// (POST /invitations/{id}/respond)
	PostInvitationRespond(c *fiber.Ctx, id string) error

	// (POST /attendance)
	PostAttendance(c *fiber.Ctx) error
	// (GET /attendance)
	GetAttendance(c *fiber.Ctx, params GetAttendanceParams) error
	// (GET /attendance/history)
	GetAttendanceHistory(c *fiber.Ctx, params GetAttendanceHistoryParams) error
	// (GET /attendance/counts)
	GetAttendanceCounts(c *fiber.Ctx, params GetAttendanceCountsParams) error
}

// ServerInterfaceWrapper converts fiber contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) badParams(c *fiber.Ctx, err error) error {
	var body ErrorResponse
	body.Error.Code = BADREQUEST
	body.Error.Message = "invalid query parameters: " + err.Error()
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

func (w *ServerInterfaceWrapper) getPersons(c *fiber.Ctx) error {
	var params GetPersonsParams
	if err := c.QueryParser(&params); err != nil {
		return w.badParams(c, err)
	}
	return w.Handler.GetPersons(c, params)
}

func (w *ServerInterfaceWrapper) getPersonsSearch(c *fiber.Ctx) error {
	var params GetPersonsSearchParams
	if err := c.QueryParser(&params); err != nil {
		return w.badParams(c, err)
	}
	return w.Handler.GetPersonsSearch(c, params)
}

func (w *ServerInterfaceWrapper) getDepartmentAttendance(c *fiber.Ctx) error {
	var params GetUnitAttendanceParams
	if err := c.QueryParser(&params); err != nil {
		return w.badParams(c, err)
	}
	return w.Handler.GetDepartmentAttendance(c, c.Params("id"), params)
}

func (w *ServerInterfaceWrapper) getTeamAttendance(c *fiber.Ctx) error {
	var params GetUnitAttendanceParams
	if err := c.QueryParser(&params); err != nil {
		return w.badParams(c, err)
	}
	return w.Handler.GetTeamAttendance(c, c.Params("id"), params)
}

func (w *ServerInterfaceWrapper) getAttendance(c *fiber.Ctx) error {
	var params GetAttendanceParams
	if err := c.QueryParser(&params); err != nil {
		return w.badParams(c, err)
	}
	return w.Handler.GetAttendance(c, params)
}

func (w *ServerInterfaceWrapper) getAttendanceHistory(c *fiber.Ctx) error {
	var params GetAttendanceHistoryParams
	if err := c.QueryParser(&params); err != nil {
		return w.badParams(c, err)
	}
	return w.Handler.GetAttendanceHistory(c, params)
}

func (w *ServerInterfaceWrapper) getAttendanceCounts(c *fiber.Ctx) error {
	var params GetAttendanceCountsParams
	if err := c.QueryParser(&params); err != nil {
		return w.badParams(c, err)
	}
	return w.Handler.GetAttendanceCounts(c, params)
}

// withID adapts a handler taking the :id path parameter.
func withID(fn func(c *fiber.Ctx, id string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return fn(c, c.Params("id"))
	}
}

// RegisterHandlers creates http.Handler with routing matching the contract.
// Registration is public; every other route runs behind auth.
func RegisterHandlers(router fiber.Router, si ServerInterface, auth fiber.Handler) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.Post("/persons", si.PostPersons)

	secured := router.Group("", auth)

	secured.Get("/persons", w.getPersons)
	secured.Get("/persons/search", w.getPersonsSearch)
	secured.Get("/persons/scan/:code", func(c *fiber.Ctx) error {
		return si.GetPersonByScanCode(c, c.Params("code"))
	})
	secured.Get("/persons/:id", withID(si.GetPerson))
	secured.Post("/persons/:id/approve", withID(si.PostPersonApprove))
	secured.Post("/persons/:id/promote", withID(si.PostPersonPromote))
	secured.Delete("/persons/:id/department", withID(si.DeletePersonDepartment))

	secured.Post("/departments", si.PostDepartments)
	secured.Get("/departments", si.GetDepartments)
	secured.Get("/departments/:id", withID(si.GetDepartment))
	secured.Delete("/departments/:id", withID(si.DeleteDepartment))
	secured.Post("/departments/:id/members", withID(si.PostDepartmentMembers))
	secured.Get("/departments/:id/invitations", withID(si.GetDepartmentInvitations))
	secured.Get("/departments/:id/attendance", w.getDepartmentAttendance)

	secured.Post("/teams", si.PostTeams)
	secured.Post("/teams/join", si.PostTeamJoin)
	secured.Get("/teams/:id", withID(si.GetTeam))
	secured.Delete("/teams/:id", withID(si.DeleteTeam))
	secured.Get("/teams/:id/attendance", w.getTeamAttendance)

	secured.Post("/invitations", si.PostInvitations)
	secured.Get("/invitations", si.GetInvitations)
	secured.Post("/invitations/:id/respond", withID(si.PostInvitationRespond))

	secured.Post("/attendance", si.PostAttendance)
	secured.Get("/attendance", w.getAttendance)
	secured.Get("/attendance/history", w.getAttendanceHistory)
	secured.Get("/attendance/counts", w.getAttendanceCounts)
}
