package handlers_fiber

import (
	"net/http"

	"volunteer-attendance/internal/entities"
	"volunteer-attendance/internal/mapper"
	"volunteer-attendance/internal/transport/http/api"

	"github.com/gofiber/fiber/v2"
)

// PostAttendance marks today's attendance for the owner of a scan code.
func (h *Handler) PostAttendance(c *fiber.Ctx) error {
	var body api.PostAttendanceJSONRequestBody
	if err := h.bind(c, &body); err != nil {
		return writeError(c, err)
	}

	rec, err := h.uc.MarkAttendance(c.Context(), actorID(c), body.ScanCode, mapper.FromAPILocation(body.Location))
	if err != nil {
		return h.fail(c, "mark attendance", err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		Record api.AttendanceRecord `json:"record"`
	}{Record: mapper.ToAPIAttendance(*rec)})
}

// GetAttendanceHistory pages through a person's records, newest first.
func (h *Handler) GetAttendanceHistory(c *fiber.Ctx, params api.GetAttendanceHistoryParams) error {
	if err := h.check(params); err != nil {
		return writeError(c, err)
	}
	page, err := h.uc.AttendanceHistory(c.Context(), actorID(c), params.PersonId, params.Page, params.Limit)
	if err != nil {
		return h.fail(c, "attendance history", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPIAttendancePage(page))
}

// GetAttendanceCounts returns per-day, per-role record counts.
func (h *Handler) GetAttendanceCounts(c *fiber.Ctx, params api.GetAttendanceCountsParams) error {
	if err := h.check(params); err != nil {
		return writeError(c, err)
	}
	counts, err := h.uc.DailyCounts(c.Context(), actorID(c), params.From, params.To)
	if err != nil {
		return h.fail(c, "daily counts", err)
	}
	if counts == nil {
		counts = []entities.DailyCount{}
	}
	return c.Status(http.StatusOK).JSON(struct {
		Counts []entities.DailyCount `json:"counts"`
	}{Counts: counts})
}

// GetAttendance lists records for the admin view, newest first.
func (h *Handler) GetAttendance(c *fiber.Ctx, params api.GetAttendanceParams) error {
	if err := h.check(params); err != nil {
		return writeError(c, err)
	}
	records, err := h.uc.AttendanceByDay(c.Context(), actorID(c), params.Day, params.Type)
	if err != nil {
		return h.fail(c, "attendance by day", err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Records []api.AttendanceRecord `json:"records"`
	}{Records: mapper.ToAPIAttendanceList(records)})
}
