package handlers_fiber

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"volunteer-attendance/internal/entities"
	"volunteer-attendance/internal/transport/http/api"
	"volunteer-attendance/internal/transport/http/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func writeError(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	code := api.INTERNAL
	msg := "internal error"

	switch entities.KindOf(err) {
	case entities.ErrInvalidArgument:
		status = http.StatusBadRequest
		code = api.BADREQUEST
		msg = entities.Reason(err)
	case entities.ErrNotFound:
		status = http.StatusNotFound
		code = api.NOTFOUND
		msg = entities.Reason(err)
	case entities.ErrForbidden:
		status = http.StatusForbidden
		code = api.FORBIDDEN
		msg = entities.Reason(err)
	case entities.ErrConflict:
		status = http.StatusConflict
		code = api.CONFLICT
		msg = entities.Reason(err)
	case entities.ErrInvalidState:
		status = http.StatusUnprocessableEntity
		code = api.INVALIDSTATE
		msg = entities.Reason(err)
	}

	return c.Status(status).JSON(errorResponse(code, msg))
}

func errorResponse(code api.ErrorResponseErrorCode, msg string) api.ErrorResponse {
	return api.ErrorResponse{Error: struct {
		Code    api.ErrorResponseErrorCode `json:"code"`
		Message string                     `json:"message"`
	}{Code: code, Message: msg}}
}

// fail logs storage failures and writes the error response.
func (h *Handler) fail(c *fiber.Ctx, op string, err error) error {
	if entities.IsRetryable(err) {
		h.log.Errorw(op+" failed", "error", err, "path", c.Path())
	}
	return writeError(c, err)
}

// bind parses the JSON body into dst and validates it.
func (h *Handler) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fmt.Errorf("%w: invalid body", entities.ErrInvalidArgument)
	}
	return h.check(dst)
}

// check validates a parsed body or parameter struct.
func (h *Handler) check(v any) error {
	err := h.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %s", entities.ErrInvalidArgument, err.Error())
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", entities.ErrInvalidArgument, strings.Join(fields, ", "))
}

func actorID(c *fiber.Ctx) string {
	return middleware.PersonID(c)
}
