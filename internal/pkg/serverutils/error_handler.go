package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Okasha-Rehman/aws-qa-chatbot/internal/store"
)

// ErrorHandlerMiddleware translates errors bubbling out of handlers into the
// API's error shape: {"detail": "..."} with 404 for unknown sessions, 400 for
// invalid bodies and 500 for everything else.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var (
			validationErr *RequestValidationError
			fiberErr      *fiber.Error
		)
		switch {
		case errors.Is(err, store.ErrSessionNotFound):
			return errorJSON(ctx, fiber.StatusNotFound, "Session not found")
		case errors.As(err, &validationErr):
			return errorJSON(ctx, fiber.StatusBadRequest, validationErr.Error())
		case errors.As(err, &fiberErr):
			return errorJSON(ctx, fiberErr.Code, fiberErr.Message)
		default:
			return errorJSON(ctx, fiber.StatusInternalServerError, err.Error())
		}
	}
}

func errorJSON(ctx *fiber.Ctx, status int, detail string) error {
	return ctx.Status(status).JSON(fiber.Map{"detail": detail})
}
