package auth

import (
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// Every handler responds with one of these two envelopes:
//
//	{"success": true,  "data": {...}}
//	{"success": false, "error": {"message": "..."}}
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RespondData writes the success envelope with the given status.
func RespondData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(SuccessResponse{
		Success: true,
		Data:    data,
	})
}

// RespondMessage writes a success envelope whose data is a bare message,
// for operations that produce no record (logout).
func RespondMessage(c *fiber.Ctx, status int, message string) error {
	return RespondData(c, status, fiber.Map{"message": message})
}

// RespondError maps err to an HTTP status and writes the error envelope.
// Internal failures surface as a generic message.
func RespondError(c *fiber.Ctx, err error) error {
	return RespondErrorWithDetail(c, err, false)
}

// RespondErrorWithDetail is RespondError with a switch that lets internal
// error detail through, for development setups.
func RespondErrorWithDetail(c *fiber.Ctx, err error, debug bool) error {
	status, body := errorToResponse(err, debug)
	return c.Status(status).JSON(ErrorResponse{
		Success: false,
		Error:   body,
	})
}

// RespondValidationError writes a 400 with the per-field messages from an
// ozzo validation result.
func RespondValidationError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Message: firstValidationMessage(err),
			Fields:  FormatValidationErrorToMap(err),
		},
	})
}

// errorToResponse resolves the HTTP status and client-visible body for err.
// The numeric code on a rich error wins; otherwise the category decides.
// Internal errors never leak their message unless debug is set.
func errorToResponse(err error, debug bool) (int, ErrorBody) {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		if debug {
			return fiber.StatusInternalServerError, ErrorBody{Message: err.Error()}
		}
		return fiber.StatusInternalServerError, ErrorBody{Message: "Internal server error"}
	}

	status := statusFromRichError(richErr)

	body := ErrorBody{
		Message: richErr.Message,
		Code:    richErr.TextCode,
	}

	if status >= fiber.StatusInternalServerError && !debug {
		body.Message = "Internal server error"
	}

	return status, body
}

func statusFromRichError(err *goerrors.Error) int {
	if err.Code >= 400 && err.Code <= 599 {
		return err.Code
	}

	switch err.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusBadRequest
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return fiber.StatusForbidden
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// FormatValidationErrorToMap flattens ozzo validation errors into a
// field name to message map.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}

	verrs, ok := err.(validation.Errors)
	if !ok {
		if err != nil {
			out["error"] = err.Error()
		}
		return out
	}

	for field, ferr := range verrs {
		out[field] = ferr.Error()
	}

	return out
}

// firstValidationMessage picks a stable representative message so the
// envelope's top level message does not flap between requests.
func firstValidationMessage(err error) string {
	verrs, ok := err.(validation.Errors)
	if !ok || len(verrs) == 0 {
		return "Validation failed"
	}

	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return fields[0] + ": " + verrs[fields[0]].Error()
}
