package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"nutrilens/internal/applog"
	"nutrilens/internal/http/middleware"
	"nutrilens/internal/model"
	"nutrilens/internal/service"
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
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_FILE_TYPE", "NOT_FOUND", "INTERNAL_ERROR")
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

type mappedError struct {
	status  int
	code    string
	message string
}

// serviceErrors maps sentinel errors to client responses. Order matters for
// errors that wrap more than one sentinel.
var serviceErrors = []struct {
	target error
	resp   mappedError
}{
	{errInvalidBody, mappedError{fiber.StatusBadRequest, "INVALID_BODY", "Invalid JSON body"}},
	{service.ErrFileRequired, mappedError{fiber.StatusBadRequest, "FILE_REQUIRED", "No image uploaded"}},
	{service.ErrFileTooLarge, mappedError{fiber.StatusBadRequest, "FILE_TOO_LARGE", "File too large"}},
	{service.ErrInvalidFileType, mappedError{fiber.StatusBadRequest, "INVALID_FILE_TYPE", "Invalid file type. Only JPEG, PNG, GIF, and WEBP are allowed."}},
	{service.ErrIDRequired, mappedError{fiber.StatusBadRequest, "INVALID_ID", "ID is required"}},
	{service.ErrNotFound, mappedError{fiber.StatusNotFound, "NOT_FOUND", "Meal not found"}},
	{service.ErrInvalidPortion, mappedError{fiber.StatusBadRequest, "INVALID_PORTION", "Portion multiplier and grams must be positive numbers"}},
	{service.ErrInvalidFormat, mappedError{fiber.StatusBadRequest, "INVALID_FORMAT", "Format must be txt or csv"}},
	{service.ErrMessageRequired, mappedError{fiber.StatusBadRequest, "MESSAGE_REQUIRED", "Message is required"}},
	{service.ErrMessageTooLong, mappedError{fiber.StatusBadRequest, "MESSAGE_TOO_LONG", "Message is too long"}},
	{service.ErrMissingFields, mappedError{fiber.StatusBadRequest, "MISSING_FIELDS", "All fields are required"}},
	{service.ErrLoginFieldsRequired, mappedError{fiber.StatusBadRequest, "MISSING_FIELDS", "Email and password are required"}},
	{service.ErrPasswordTooShort, mappedError{fiber.StatusBadRequest, "PASSWORD_TOO_SHORT", "Password must be at least 8 characters long"}},
	{service.ErrEmailTaken, mappedError{fiber.StatusConflict, "USER_EXISTS", "User already exists"}},
	{service.ErrInvalidCredentials, mappedError{fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials"}},
	{service.ErrCredentialRequired, mappedError{fiber.StatusBadRequest, "CREDENTIAL_REQUIRED", "Google credential is required"}},
	{service.ErrGoogleNotConfigured, mappedError{fiber.StatusServiceUnavailable, "GOOGLE_DISABLED", "Google sign-in is not configured"}},
	{service.ErrUnauthorized, mappedError{fiber.StatusUnauthorized, "UNAUTHORIZED", "Not authorized"}},
	{model.ErrValidation, mappedError{fiber.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}},
}

// writeServiceError maps a service error to the envelope. Unknown errors are
// logged with the request id and reported as a generic 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, e := range serviceErrors {
		if errors.Is(err, e.target) {
			return writeError(c, e.resp.status, e.resp.code, e.resp.message)
		}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return err
	}
	applog.Default().Error("http", "request_failed", err, map[string]any{
		"request_id": requestIDFromCtx(c),
		"method":     c.Method(),
		"path":       c.Path(),
	})
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

const analyzePath = "/api/analyze"

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		} else {
			applog.Default().Error("http", "unhandled_error", err, map[string]any{
				"request_id": requestIDFromCtx(c),
				"path":       c.Path(),
			})
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "Not authorized")
		case fiber.StatusForbidden:
			return writeError(c, status, "CORS_FORBIDDEN", "CORS policy violation")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestTimeout:
			return writeError(c, status, "REQUEST_TIMEOUT", "Request timeout")
		case fiber.StatusRequestEntityTooLarge:
			// The server-level body cap can trip before the upload size check runs.
			if c.Method() == fiber.MethodPost && c.Path() == analyzePath {
				return writeError(c, fiber.StatusBadRequest, "FILE_TOO_LARGE", "File too large")
			}
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		case fiber.StatusTooManyRequests:
			return writeError(c, status, "RATE_LIMITED", e.Message)
		case fiber.StatusServiceUnavailable:
			return writeError(c, status, "SERVICE_UNAVAILABLE", "dependency unavailable")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
