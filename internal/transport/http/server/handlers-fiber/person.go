package handlers_fiber

import (
	"net/http"

	"volunteer-attendance/internal/mapper"
	"volunteer-attendance/internal/transport/http/api"

	"github.com/gofiber/fiber/v2"
)

// PostPersons registers a person and issues their scan code.
func (h *Handler) PostPersons(c *fiber.Ctx) error {
	var body api.PostPersonsJSONRequestBody
	if err := h.bind(c, &body); err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.RegisterPerson(c.Context(), mapper.FromAPIPerson(body))
	if err != nil {
		return h.fail(c, "register person", err)
	}

	return c.Status(http.StatusCreated).JSON(struct {
		Person api.Person `json:"person"`
	}{Person: mapper.ToAPIPerson(*p)})
}

// GetPersonsSearch lists unassigned volunteers matching a name query.
func (h *Handler) GetPersonsSearch(c *fiber.Ctx, params api.GetPersonsSearchParams) error {
	if err := h.check(params); err != nil {
		return writeError(c, err)
	}
	persons, err := h.uc.SearchUnassignedVolunteers(c.Context(), actorID(c), params.Query, params.Limit)
	if err != nil {
		return h.fail(c, "search volunteers", err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Persons []api.Person `json:"persons"`
	}{Persons: mapper.ToAPIPersonList(persons)})
}

// GetPersonByScanCode resolves a scanned code to its owner.
func (h *Handler) GetPersonByScanCode(c *fiber.Ctx, code string) error {
	p, err := h.uc.PersonByScanCode(c.Context(), actorID(c), code)
	if err != nil {
		return h.fail(c, "person by scan code", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPIPerson(*p))
}

// GetPerson returns a person by id.
func (h *Handler) GetPerson(c *fiber.Ctx, id string) error {
	p, err := h.uc.Person(c.Context(), actorID(c), id)
	if err != nil {
		return h.fail(c, "get person", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPIPerson(*p))
}

// PostPersonApprove approves a pending signup.
func (h *Handler) PostPersonApprove(c *fiber.Ctx, id string) error {
	p, err := h.uc.ApprovePerson(c.Context(), actorID(c), id)
	if err != nil {
		return h.fail(c, "approve person", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPIPerson(*p))
}

// PostPersonPromote turns a volunteer into a coordinator of the same department.
func (h *Handler) PostPersonPromote(c *fiber.Ctx, id string) error {
	p, err := h.uc.PromoteVolunteer(c.Context(), actorID(c), id)
	if err != nil {
		return h.fail(c, "promote volunteer", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPIPerson(*p))
}

// DeletePersonDepartment removes a person from their department.
func (h *Handler) DeletePersonDepartment(c *fiber.Ctx, id string) error {
	p, err := h.uc.RemoveFromDepartment(c.Context(), actorID(c), id)
	if err != nil {
		return h.fail(c, "remove from department", err)
	}
	return c.Status(http.StatusOK).JSON(mapper.ToAPIPerson(*p))
}

// GetPersons lists people for the admin directory.
func (h *Handler) GetPersons(c *fiber.Ctx, params api.GetPersonsParams) error {
	if err := h.check(params); err != nil {
		return writeError(c, err)
	}
	persons, err := h.uc.ListPersons(c.Context(), actorID(c), params.Role, params.Unassigned)
	if err != nil {
		return h.fail(c, "list persons", err)
	}
	return c.Status(http.StatusOK).JSON(struct {
		Persons []api.Person `json:"persons"`
	}{Persons: mapper.ToAPIPersonList(persons)})
}
