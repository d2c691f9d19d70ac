package fiber

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"go.uber.org/zap"

	"github.com/lborres/accounts"
)

type localsKey int

const (
	identityKey localsKey = iota
	errorKey
)

// IdentityFrom returns the identity the auth gate stored on c, or nil.
func IdentityFrom(c fiber.Ctx) *accounts.Identity {
	identity, _ := c.Locals(identityKey).(*accounts.Identity)
	return identity
}

// requireAuth is the auth gate. Without a verified token the chain stops
// before the store is consulted.
func (a *Adapter) requireAuth(c fiber.Ctx) error {
	identity, err := a.provider.Authenticate(c.Context(), extractToken(c, a.cookie.Name))
	if err != nil {
		return err
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// Protected is the auth gate for routes mounted outside the adapter. Handlers
// behind it read the caller with IdentityFrom.
func (a *Adapter) Protected(c fiber.Ctx) error {
	if err := a.requireAuth(c); err != nil {
		if mapErrorToStatus(err) >= fiber.StatusInternalServerError {
			a.logger.Error("auth gate failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return a.handleError(c, err)
	}
	return nil
}

// extractToken reads the token cookie, falling back to a Bearer
// Authorization header.
func extractToken(c fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// logRequests logs every request under the base path once, with the
// underlying error for failures. It also translates errors no route
// handled, such as unknown paths and recovered panics.
func (a *Adapter) logRequests(c fiber.Ctx) error {
	start := time.Now()

	err := c.Next()
	if err != nil {
		err = a.handleError(c, err)
	}

	status := c.Response().StatusCode()
	fields := []zap.Field{
		zap.String("request_id", requestid.FromContext(c)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)),
		zap.String("ip", c.IP()),
	}
	if status >= fiber.StatusInternalServerError {
		if cause := handledError(c); cause != nil {
			fields = append(fields, zap.Error(cause))
		}
		a.logger.Error("request failed", fields...)
	} else {
		a.logger.Info("request", fields...)
	}

	return err
}
