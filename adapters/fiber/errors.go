package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/accounts"
)

const internalErrorMessage = "internal server error"

// statusByError is checked in order; the first match wins.
var statusByError = []struct {
	err    error
	status int
}{
	{accounts.ErrUserExists, http.StatusUnauthorized},
	{accounts.ErrMissingToken, http.StatusUnauthorized},
	{accounts.ErrInvalidToken, http.StatusUnauthorized},
	{accounts.ErrTokenExpired, http.StatusUnauthorized},
	{accounts.ErrWrongPassword, http.StatusUnauthorized},
	{accounts.ErrPasswordMismatch, http.StatusPaymentRequired},
	{accounts.ErrInvalidCredentials, http.StatusForbidden},
	{accounts.ErrNotLoggedIn, http.StatusForbidden},
	{accounts.ErrUserNotFound, http.StatusNotFound},
	{accounts.ErrInvalidInput, http.StatusBadRequest},
	{accounts.ErrInvalidEmail, http.StatusBadRequest},
	{accounts.ErrPasswordTooLong, http.StatusBadRequest},
	{accounts.ErrStoreUnavailable, http.StatusServiceUnavailable},
	{accounts.ErrSecretRequired, http.StatusInternalServerError},
}

// handleError writes err as a JSON error body with its mapped status. The
// error is kept on c for the request log; 5xx details are never sent.
func (a *Adapter) handleError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	c.Locals(errorKey, err)

	return c.Status(status).JSON(accounts.ErrorResponse{
		Success: false,
		Message: publicMessage(err, status),
	})
}

// handledError returns the error handleError translated for c, if any.
func handledError(c fiber.Ctx) error {
	err, _ := c.Locals(errorKey).(error)
	return err
}

// mapErrorToStatus maps account errors to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// publicMessage is the client-facing text for err: the matched sentinel's
// message, without the context wrapped around it.
func publicMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return internalErrorMessage
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}

	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return m.err.Error()
		}
	}
	return http.StatusText(status)
}
