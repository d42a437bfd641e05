package handlers_fiber

import (
	"net/http"

	"volunteer-attendance/internal/entities"
	"volunteer-attendance/internal/mapper"
	"volunteer-attendance/internal/transport/http/api"

	"github.com/gofiber/fiber/v2"
)

// PostTeams creates the caller's team, or returns the one they already lead.
func (h *Handler) PostTeams(c *fiber.Ctx) error {
	var body api.PostTeamsJSONRequestBody
	if err := h.bind(c, &body); err != nil {
		return writeError(c, err)
	}

	team, created, err := h.uc.CreateOrJoinTeam(c.Context(), actorID(c), body.Name, body.Description)
	if err != nil {
		return h.fail(c, "create team", err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.Status(status).JSON(struct {
		Team    api.Team `json:"team"`
		Created bool     `json:"created"`
	}{Team: mapper.ToAPITeam(*team), Created: created})
}

// PostTeamJoin enrolls the caller into the team owning the join code.
func (h *Handler) PostTeamJoin(c *fiber.Ctx) error {
	var body api.PostTeamJoinJSONRequestBody
	if err := h.bind(c, &body); err != nil {
		return writeError(c, err)
	}

	team, err := h.uc.JoinTeam(c.Context(), actorID(c), body.JoinCode)
	if err != nil {
		return h.fail(c, "join team", err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Team api.Team `json:"team"`
	}{Team: mapper.ToAPITeam(*team)})
}

// GetTeam returns a team with its leader and members.
func (h *Handler) GetTeam(c *fiber.Ctx, id string) error {
	team, err := h.uc.Team(c.Context(), actorID(c), id)
	if err != nil {
		return h.fail(c, "get team", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPITeam(*team))
}

// DeleteTeam retires a team.
func (h *Handler) DeleteTeam(c *fiber.Ctx, id string) error {
	res, err := h.uc.DeleteTeam(c.Context(), actorID(c), id)
	if err != nil {
		return h.fail(c, "delete team", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPIRetireResult(res))
}

// GetTeamAttendance lists the team's records for a day.
func (h *Handler) GetTeamAttendance(c *fiber.Ctx, id string, params api.GetUnitAttendanceParams) error {
	return h.unitAttendance(c, entities.UnitRef{Kind: entities.UnitTeam, ID: id}, params)
}
