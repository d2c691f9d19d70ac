package fiber

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/lborres/accounts"
)

func bindBody(c fiber.Ctx, out interface{}) error {
	if err := c.Bind().Body(out); err != nil {
		return fmt.Errorf("%w: %v", accounts.ErrInvalidInput, err)
	}
	return nil
}

// handleRegisterFiber returns a handler for the register endpoint
func handleRegisterFiber(provider accounts.AccountProvider, cookie accounts.CookieConfig) func(*accounts.RequestContext) error {
	return func(ctx *accounts.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		var input accounts.RegisterInput
		if err := bindBody(fctx, &input); err != nil {
			return err
		}

		result, err := provider.Register(fctx.Context(), input)
		if err != nil {
			return err
		}

		setTokenCookie(fctx, cookie, result.Token, cookie.SignUpMaxAge)
		return fctx.Status(http.StatusCreated).JSON(accounts.SuccessResponse{
			Success: true,
			Message: "signup successful!",
		})
	}
}

// handleLoginFiber returns a handler for the login endpoint
func handleLoginFiber(provider accounts.AccountProvider, cookie accounts.CookieConfig) func(*accounts.RequestContext) error {
	return func(ctx *accounts.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		var input accounts.LoginInput
		if err := bindBody(fctx, &input); err != nil {
			return err
		}

		result, err := provider.Login(fctx.Context(), input)
		if err != nil {
			return err
		}

		setTokenCookie(fctx, cookie, result.Token, cookie.SignInMaxAge)
		return fctx.Status(http.StatusOK).JSON(accounts.SuccessResponse{
			Success: true,
			Message: "login successful!",
		})
	}
}

// handleLogoutFiber returns a handler that clears the token cookie
func handleLogoutFiber(cookie accounts.CookieConfig) func(*accounts.RequestContext) error {
	return func(ctx *accounts.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		clearTokenCookie(fctx, cookie)
		return fctx.Status(http.StatusOK).JSON(accounts.SuccessResponse{
			Success: true,
			Message: "logged out",
		})
	}
}

// handleUpdateProfileFiber returns a handler for the update-profile endpoint
func handleUpdateProfileFiber(provider accounts.AccountProvider) func(*accounts.RequestContext) error {
	return func(ctx *accounts.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		// a stale identity is rejected before the body is read
		if _, err := ctx.Identity.RequireUser(); err != nil {
			return err
		}

		var input accounts.UpdateProfileInput
		if err := bindBody(fctx, &input); err != nil {
			return err
		}

		user, err := provider.UpdateProfile(fctx.Context(), ctx.Identity, input)
		if err != nil {
			return err
		}

		return fctx.Status(http.StatusOK).JSON(accounts.SuccessResponse{Success: true, User: user})
	}
}

// handleChangePasswordFiber returns a handler for the change-password endpoint
func handleChangePasswordFiber(provider accounts.AccountProvider) func(*accounts.RequestContext) error {
	return func(ctx *accounts.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		if _, err := ctx.Identity.RequireUser(); err != nil {
			return err
		}

		var input accounts.ChangePasswordInput
		if err := bindBody(fctx, &input); err != nil {
			return err
		}

		user, err := provider.ChangePassword(fctx.Context(), ctx.Identity, input)
		if err != nil {
			return err
		}

		return fctx.Status(http.StatusOK).JSON(accounts.SuccessResponse{Success: true, User: user})
	}
}

// handleDeleteUserFiber returns a handler for the delete endpoint
func handleDeleteUserFiber(provider accounts.AccountProvider, cookie accounts.CookieConfig) func(*accounts.RequestContext) error {
	return func(ctx *accounts.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		if err := provider.Delete(fctx.Context(), ctx.Identity); err != nil {
			return err
		}

		clearTokenCookie(fctx, cookie)
		return fctx.Status(http.StatusOK).JSON(accounts.SuccessResponse{
			Success: true,
			Message: "user deleted successfully",
		})
	}
}

// handleGetUserFiber returns a handler for the get-one endpoint. It sits
// behind the gate but does not need a resolved identity.
func handleGetUserFiber(provider accounts.AccountProvider) func(*accounts.RequestContext) error {
	return func(ctx *accounts.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		user, err := provider.GetUser(fctx.Context(), fctx.Params("id"))
		if err != nil {
			return err
		}

		return fctx.Status(http.StatusOK).JSON(accounts.SuccessResponse{Success: true, User: user})
	}
}

// handleListUsersFiber returns a handler for the get-all endpoint
func handleListUsersFiber(provider accounts.AccountProvider) func(*accounts.RequestContext) error {
	return func(ctx *accounts.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		users, err := provider.ListUsers(fctx.Context())
		if err != nil {
			return err
		}

		return fctx.Status(http.StatusOK).JSON(accounts.UserListResponse{Success: true, Users: users})
	}
}

// handleMeFiber returns a handler that echoes the caller's record
func handleMeFiber() func(*accounts.RequestContext) error {
	return func(ctx *accounts.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		user, err := ctx.Identity.RequireUser()
		if err != nil {
			return err
		}

		return fctx.Status(http.StatusOK).JSON(accounts.SuccessResponse{Success: true, User: user})
	}
}

// handleHealthFiber returns a handler that pings the credential store
func handleHealthFiber(provider accounts.AccountProvider) func(*accounts.RequestContext) error {
	return func(ctx *accounts.RequestContext) error {
		fctx := ctx.Request.(fiber.Ctx)

		if err := provider.Health(fctx.Context()); err != nil {
			return err
		}

		return fctx.Status(http.StatusOK).JSON(accounts.SuccessResponse{Success: true, Status: "ok"})
	}
}

func setTokenCookie(c fiber.Ctx, cfg accounts.CookieConfig, token string, maxAge time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Name,
		Value:    token,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		Expires:  time.Now().Add(maxAge),
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearTokenCookie(c fiber.Ctx, cfg accounts.CookieConfig) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		Expires:  time.Unix(0, 0),
		Secure:   cfg.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
