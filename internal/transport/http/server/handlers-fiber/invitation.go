package handlers_fiber

import (
	"net/http"

	"volunteer-attendance/internal/mapper"
	"volunteer-attendance/internal/transport/http/api"

	"github.com/gofiber/fiber/v2"
)

// PostInvitations invites a person into a department.
func (h *Handler) PostInvitations(c *fiber.Ctx) error {
	var body api.PostInvitationsJSONRequestBody
	if err := h.bind(c, &body); err != nil {
		return writeError(c, err)
	}

	inv, err := h.uc.Invite(c.Context(), actorID(c), body.PersonId, body.DepartmentId)
	if err != nil {
		return h.fail(c, "create invitation", err)
	}
	return c.Status(http.StatusCreated).JSON(struct {
		Invitation api.Invitation `json:"invitation"`
	}{Invitation: mapper.ToAPIInvitation(*inv)})
}

// GetInvitations lists invitations awaiting the caller's answer.
func (h *Handler) GetInvitations(c *fiber.Ctx) error {
	invs, err := h.uc.PendingInvitations(c.Context(), actorID(c))
	if err != nil {
		return h.fail(c, "pending invitations", err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Invitations []api.Invitation `json:"invitations"`
	}{Invitations: mapper.ToAPIInvitationList(invs)})
}

// PostInvitationRespond accepts or rejects an invitation.
func (h *Handler) PostInvitationRespond(c *fiber.Ctx, id string) error {
	var body api.PostInvitationRespondJSONRequestBody
	if err := h.bind(c, &body); err != nil {
		return writeError(c, err)
	}

	inv, err := h.uc.RespondInvitation(c.Context(), actorID(c), id, body.Status)
	if err != nil {
		return h.fail(c, "respond invitation", err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Invitation api.Invitation `json:"invitation"`
	}{Invitation: mapper.ToAPIInvitation(*inv)})
}
