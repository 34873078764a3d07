package serverutils

import (
	"errors"

	"ai-places-be/pkg/pipeline"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into
// the response envelope. Pipeline errors map by kind; fiber errors keep
// their status; anything else is a 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var perr *pipeline.Error
		if errors.As(err, &perr) {
			return ctx.Status(pipelineStatus(perr.Kind)).JSON(ErrorResponse(perr.Message, fiber.Map{
				"kind":          perr.Kind,
				"correlationId": perr.CorrelationID,
			}))
		}

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			return ctx.Status(ferr.Code).JSON(ErrorResponse(ferr.Message, nil))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error", nil))
	}
}

func pipelineStatus(kind pipeline.ErrorKind) int {
	switch kind {
	case pipeline.ErrKindValidation:
		return fiber.StatusBadRequest
	case pipeline.ErrKindLLM:
		return fiber.StatusServiceUnavailable
	case pipeline.ErrKindTimeout:
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}
