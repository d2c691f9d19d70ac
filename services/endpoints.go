package services

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/lborres/accounts/core"
)

// Operation ids of the account endpoints.
const (
	OpRegister       = "register"
	OpLogin          = "login"
	OpLogout         = "logout"
	OpUpdateProfile  = "updateProfile"
	OpChangePassword = "changePassword"
	OpDeleteUser     = "deleteUser"
	OpGetUser        = "getUser"
	OpListUsers      = "listUsers"
	OpMe             = "me"
	OpHealth         = "health"
)

// BaseEndpoints returns framework-agnostic endpoint specifications
// for all account endpoints.
//
// Each endpoint is a template:
// - Path and Method are set
// - Handler is nil (provided by adapters)
// - Metadata carries the operation id and whether the auth gate applies
func BaseEndpoints() []core.Endpoint {
	return []core.Endpoint{
		{
			Path:   "/signup",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: OpRegister,
				Description: "Register a user with name, email and password",
				RequestBody: core.RegisterInput{},
				Responses:   map[int]interface{}{http.StatusCreated: core.SuccessResponse{}},
			},
		},
		{
			Path:   "/login",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: OpLogin,
				Description: "Log a user in with email and password",
				RequestBody: core.LoginInput{},
				Responses:   map[int]interface{}{http.StatusOK: core.SuccessResponse{}},
			},
		},
		{
			Path:   "/logout",
			Method: http.MethodPost,
			Metadata: core.EndpointMetadata{
				OperationID: OpLogout,
				Description: "Clear the token cookie",
			},
		},
		{
			Path:   "/user",
			Method: http.MethodPut,
			Metadata: core.EndpointMetadata{
				OperationID:  OpUpdateProfile,
				Description:  "Update the caller's name and/or email",
				RequiresAuth: true,
				RequestBody:  core.UpdateProfileInput{},
			},
		},
		{
			Path:   "/user",
			Method: http.MethodPatch,
			Metadata: core.EndpointMetadata{
				OperationID:  OpChangePassword,
				Description:  "Change the caller's password",
				RequiresAuth: true,
				RequestBody:  core.ChangePasswordInput{},
			},
		},
		{
			Path:   "/user",
			Method: http.MethodDelete,
			Metadata: core.EndpointMetadata{
				OperationID:  OpDeleteUser,
				Description:  "Delete the caller's account",
				RequiresAuth: true,
			},
		},
		{
			Path:   "/user/:id",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID:  OpGetUser,
				Description:  "Get one user by id",
				RequiresAuth: true,
			},
		},
		{
			Path:   "/users",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID: OpListUsers,
				Description: "List all users",
			},
		},
		{
			Path:   "/me",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID:  OpMe,
				Description:  "Get the caller's own record",
				RequiresAuth: true,
			},
		},
		{
			Path:   "/healthz",
			Method: http.MethodGet,
			Metadata: core.EndpointMetadata{
				OperationID: OpHealth,
				Description: "Report whether the credential store is reachable",
			},
		},
	}
}

// EndpointRegistry manages a collection of framework-agnostic endpoints
// and handles conflict detection for duplicate METHOD:PATH combinations.
type EndpointRegistry struct {
	// endpoints stores all registered endpoints keyed by "METHOD:PATH"
	endpoints map[string]*core.Endpoint
}

// NewEndpointRegistry creates a new registry with all base account endpoints
// pre-registered.
func NewEndpointRegistry() *EndpointRegistry {
	reg := &EndpointRegistry{
		endpoints: make(map[string]*core.Endpoint),
	}

	base := BaseEndpoints()
	for i := range base {
		// base endpoints never collide
		_ = reg.register(&base[i])
	}

	return reg
}

func endpointKey(ep *core.Endpoint) string {
	return fmt.Sprintf("%s:%s", ep.Method, ep.Path)
}

// register adds a single endpoint to the registry with conflict detection.
func (r *EndpointRegistry) register(ep *core.Endpoint) error {
	key := endpointKey(ep)

	if _, exists := r.endpoints[key]; exists {
		return fmt.Errorf("endpoint conflict: %s %s already registered", ep.Method, ep.Path)
	}

	r.endpoints[key] = ep
	return nil
}

// Extend registers additional endpoints. If any of them conflicts with an
// existing endpoint or with another in the same batch, none are registered.
func (r *EndpointRegistry) Extend(endpoints []core.Endpoint) error {
	seen := make(map[string]bool, len(endpoints))
	for i := range endpoints {
		key := endpointKey(&endpoints[i])

		if _, exists := r.endpoints[key]; exists {
			return fmt.Errorf("endpoint conflict: %s %s already registered", endpoints[i].Method, endpoints[i].Path)
		}
		if seen[key] {
			return fmt.Errorf("duplicate endpoint in batch: %s %s", endpoints[i].Method, endpoints[i].Path)
		}
		seen[key] = true
	}

	for i := range endpoints {
		ep := endpoints[i]
		r.endpoints[endpointKey(&ep)] = &ep
	}

	return nil
}

// Lookup returns the endpoint registered for method and path.
func (r *EndpointRegistry) Lookup(method, path string) (*core.Endpoint, bool) {
	ep, ok := r.endpoints[method+":"+path]
	return ep, ok
}

// Endpoints returns all registered endpoints ordered by path, then method.
func (r *EndpointRegistry) Endpoints() []*core.Endpoint {
	result := make([]*core.Endpoint, 0, len(r.endpoints))
	for _, ep := range r.endpoints {
		result = append(result, ep)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Path != result[j].Path {
			return result[i].Path < result[j].Path
		}
		return result[i].Method < result[j].Method
	})
	return result
}
