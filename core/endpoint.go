package core

// EndpointProvider provides a list of endpoints to register dynamically
type EndpointProvider interface {
	GetEndpoints() []Endpoint
}

type Endpoint struct {
	Path     string
	Method   string
	Handler  func(ctx *RequestContext) error
	Metadata EndpointMetadata
}

type EndpointMetadata struct {
	OperationID string
	Description string
	// RequiresAuth routes the request through the auth gate first.
	RequiresAuth bool
	RequestBody  interface{}
	Responses    map[int]interface{}
}

// RequestContext is what every endpoint handler receives. Identity is set
// only on endpoints that require auth.
type RequestContext struct {
	// Framework-agnostic context
	Request  interface{} // could be *http.Request, fiber.Ctx, etc
	Identity *Identity
	Accounts *Accounts
}

// SuccessResponse is the envelope of successful responses.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
	Status  string `json:"status,omitempty"`
}

// UserListResponse always carries the users array, even when empty.
type UserListResponse struct {
	Success bool    `json:"success"`
	Users   []*User `json:"users"`
}

// ErrorResponse represents an error response structure
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
