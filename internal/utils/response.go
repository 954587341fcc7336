package utils

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/barrio/internal/types"
)

// Envelope codes
const (
	CodeOK    = "COD_OK"
	CodeError = "COD_ERROR"
)

// Envelope is the one response shape of every endpoint
type Envelope struct {
	Code   string      `json:"code"`
	Result interface{} `json:"result"`
	Info   string      `json:"info"`
}

// SuccessResponse sends a COD_OK envelope
func SuccessResponse(c *fiber.Ctx, status int, info string, result interface{}) error {
	return c.Status(status).JSON(Envelope{
		Code:   CodeOK,
		Result: result,
		Info:   info,
	})
}

// FailureResponse sends a COD_ERROR envelope with a null result
func FailureResponse(c *fiber.Ctx, status int, info string) error {
	return c.Status(status).JSON(Envelope{
		Code:   CodeError,
		Result: nil,
		Info:   info,
	})
}

// StatusFor maps an error kind to its HTTP status.
// Conflicts are reported as 400 for compatibility with existing clients.
func StatusFor(kind types.Kind) int {
	switch kind {
	case types.KindValidation, types.KindConflict:
		return fiber.StatusBadRequest
	case types.KindNotFound:
		return fiber.StatusNotFound
	case types.KindUnauthorized:
		return fiber.StatusUnauthorized
	case types.KindForbidden:
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

// ErrorResponse converts a service error into the envelope. Internal errors are logged with
// the operation name and answered with a generic message.
func ErrorResponse(c *fiber.Ctx, err error, operation string) error {
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		log.Printf("%s: %v", operation, err)
		return FailureResponse(c, fiber.StatusInternalServerError, "Internal server error")
	}

	if appErr.Kind == types.KindInternal {
		log.Printf("%s: %v", operation, appErr)
		info := appErr.Message
		if info == "" {
			info = "Internal server error"
		}
		return FailureResponse(c, fiber.StatusInternalServerError, info)
	}

	return FailureResponse(c, StatusFor(appErr.Kind), appErr.Message)
}

// NotFoundResponse sends a 404 envelope
func NotFoundResponse(c *fiber.Ctx, info string) error {
	return FailureResponse(c, fiber.StatusNotFound, info)
}

// ErrorHandler is the fiber error handler. Routing errors keep their status, service errors
// are mapped by kind, and everything leaves as an envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code >= fiber.StatusInternalServerError {
			log.Printf("%s %s: %v", c.Method(), c.OriginalURL(), err)
			return FailureResponse(c, fiberErr.Code, "Internal server error")
		}
		return FailureResponse(c, fiberErr.Code, fiberErr.Message)
	}
	return ErrorResponse(c, err, c.Method()+" "+c.Path())
}
