package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"filerepo/internal/apperr"
	"filerepo/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	return middleware.GetRequestID(c)
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_TENANT_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
// Client errors are reported verbatim; server errors are logged and reported generically.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		var (
			ve *apperr.ValidationError
			nf *apperr.NotFoundError
			pe *apperr.ProviderError
			se *apperr.StorageError
			fe *fiber.Error
		)

		switch {
		case errors.As(err, &ve):
			return writeError(c, fiber.StatusBadRequest, ve.Rule, ve.Message)
		case errors.As(err, &nf):
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", nf.Error())
		case errors.As(err, &pe):
			logServerError(c, log, err)
			return writeError(c, fiber.StatusBadGateway, "PROVIDER_ERROR", "embedding provider unavailable")
		case errors.As(err, &se):
			logServerError(c, log, err)
			return writeError(c, fiber.StatusInternalServerError, "STORAGE_ERROR", "internal server error")
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "request timed out")
		case errors.As(err, &fe):
			switch fe.Code {
			case fiber.StatusBadRequest:
				return writeError(c, fe.Code, "BAD_REQUEST", "bad request")
			case fiber.StatusNotFound:
				return writeError(c, fe.Code, "NOT_FOUND", "resource not found")
			case fiber.StatusMethodNotAllowed:
				return writeError(c, fe.Code, "METHOD_NOT_ALLOWED", "method not allowed")
			case fiber.StatusRequestEntityTooLarge:
				return writeError(c, fe.Code, apperr.RuleFileTooLarge, "request body too large")
			}
		}

		logServerError(c, log, err)
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func logServerError(c *fiber.Ctx, log *zap.Logger, err error) {
	log.Error("request failed",
		zap.String("request_id", requestIDFromCtx(c)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
}
