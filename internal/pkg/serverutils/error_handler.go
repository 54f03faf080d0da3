package serverutils

import (
	"errors"

	"notebook-tree-be/internal/pkg/apperror"
	"notebook-tree-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error returned by a handler to an HTTP status and a
// client-safe message.
func StatusFor(err error) (int, string) {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.Is(err, apperror.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, apperror.ErrInvalid):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, apperror.ErrConflict):
		return fiber.StatusConflict, err.Error()
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

// ErrorHandlerMiddleware renders handler errors as ErrorResponse bodies.
// Unexpected errors are logged with the request path.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := StatusFor(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err,
			})
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
