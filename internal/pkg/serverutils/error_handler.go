package serverutils

import (
	"errors"

	"ai-chatspace-gateway/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps domain errors onto HTTP statuses so handlers
// can just return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		switch {
		case errors.Is(err, apperr.ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, apperr.ErrValidation):
			return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, apperr.ErrTimeout):
			return ctx.Status(fiber.StatusGatewayTimeout).JSON(ErrorResponse(err.Error()))
		case errors.Is(err, apperr.ErrNetworkUnavailable):
			return ctx.Status(fiber.StatusBadGateway).JSON(ErrorResponse(err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(err.Error()))
	}
}
