package fiber

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"go.uber.org/zap"

	"github.com/lborres/accounts"
	"github.com/lborres/accounts/pkg/crypto"
	"github.com/lborres/accounts/pkg/metrics"
	"github.com/lborres/accounts/services"
)

type handlerFunc = func(*accounts.RequestContext) error

type Adapter struct {
	app      *fiber.App
	registry *services.EndpointRegistry

	accounts *accounts.Accounts
	provider accounts.AccountProvider
	cookie   accounts.CookieConfig
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

var _ accounts.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{
		app:      app,
		registry: services.NewEndpointRegistry(),
		logger:   zap.NewNop(),
	}
}

// AddEndpoints mounts extra endpoints next to the account routes. It must be
// called before the adapter is handed to accounts.New.
func (a *Adapter) AddEndpoints(endpoints ...accounts.Endpoint) error {
	for i := range endpoints {
		if endpoints[i].Handler == nil {
			return fmt.Errorf("endpoint %s %s has no handler", endpoints[i].Method, endpoints[i].Path)
		}
	}
	return a.registry.Extend(endpoints)
}

func (a *Adapter) handlers() map[string]handlerFunc {
	return map[string]handlerFunc{
		services.OpRegister:       handleRegisterFiber(a.provider, a.cookie),
		services.OpLogin:          handleLoginFiber(a.provider, a.cookie),
		services.OpLogout:         handleLogoutFiber(a.cookie),
		services.OpUpdateProfile:  handleUpdateProfileFiber(a.provider),
		services.OpChangePassword: handleChangePasswordFiber(a.provider),
		services.OpDeleteUser:     handleDeleteUserFiber(a.provider, a.cookie),
		services.OpGetUser:        handleGetUserFiber(a.provider),
		services.OpListUsers:      handleListUsersFiber(a.provider),
		services.OpMe:             handleMeFiber(),
		services.OpHealth:         handleHealthFiber(a.provider),
	}
}

func (a *Adapter) RegisterRoutes(acc *accounts.Accounts) error {
	a.accounts = acc
	a.provider = acc.Provider
	a.cookie = acc.Cookie
	a.metrics = acc.Metrics
	if acc.Logger != nil {
		a.logger = acc.Logger
	}

	api := a.app.Group(acc.BasePath)
	api.Use(requestid.New(requestid.Config{Generator: crypto.RequestID}))
	api.Use(a.logRequests)
	api.Use(recover.New())

	byOperation := a.handlers()
	for _, ep := range a.registry.Endpoints() {
		handler := ep.Handler
		if handler == nil {
			handler = byOperation[ep.Metadata.OperationID]
		}
		if handler == nil {
			return fmt.Errorf("no handler for %s %s (%s)", ep.Method, ep.Path, ep.Metadata.OperationID)
		}

		instrumented := a.instrument(acc.BasePath + ep.Path)
		if ep.Metadata.RequiresAuth {
			api.Add([]string{ep.Method}, ep.Path, instrumented, a.requireAuth, a.toFiber(handler))
		} else {
			api.Add([]string{ep.Method}, ep.Path, instrumented, a.toFiber(handler))
		}
	}

	return nil
}

// instrument translates errors from the rest of the chain and records the
// request under its route template.
func (a *Adapter) instrument(route string) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			err = a.handleError(c, err)
		}
		a.metrics.ObserveRequest(c.Method(), route, c.Response().StatusCode(), time.Since(start))
		return err
	}
}

func (a *Adapter) toFiber(h handlerFunc) fiber.Handler {
	return func(c fiber.Ctx) error {
		return h(&accounts.RequestContext{
			Request:  c,
			Identity: IdentityFrom(c),
			Accounts: a.accounts,
		})
	}
}
