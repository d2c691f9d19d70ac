package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lborres/accounts/core"
)

// Requirement: BaseEndpoints returns every account route as a template with
// the auth flag set only where the gate applies.
func TestBaseEndpoints(t *testing.T) {
	tests := []struct {
		method   string
		path     string
		opID     string
		wantAuth bool
	}{
		{http.MethodPost, "/signup", OpRegister, false},
		{http.MethodPost, "/login", OpLogin, false},
		{http.MethodPost, "/logout", OpLogout, false},
		{http.MethodPut, "/user", OpUpdateProfile, true},
		{http.MethodPatch, "/user", OpChangePassword, true},
		{http.MethodDelete, "/user", OpDeleteUser, true},
		{http.MethodGet, "/user/:id", OpGetUser, true},
		{http.MethodGet, "/users", OpListUsers, false},
		{http.MethodGet, "/me", OpMe, true},
		{http.MethodGet, "/healthz", OpHealth, false},
	}

	// Arrange
	endpoints := BaseEndpoints()
	require.Len(t, endpoints, len(tests))

	byKey := make(map[string]core.Endpoint, len(endpoints))
	for _, ep := range endpoints {
		byKey[ep.Method+" "+ep.Path] = ep
	}

	// Act & Assert
	for _, test := range tests {
		test := test
		t.Run(test.method+" "+test.path, func(t *testing.T) {
			ep, found := byKey[test.method+" "+test.path]
			require.True(t, found, "missing endpoint")

			assert.Equal(t, test.opID, ep.Metadata.OperationID)
			assert.Equal(t, test.wantAuth, ep.Metadata.RequiresAuth)
			assert.NotEmpty(t, ep.Metadata.Description)
			assert.Nil(t, ep.Handler, "templates carry no handler")
		})
	}
}

// Requirement: All endpoints must have unique OperationIDs.
func TestBaseEndpoints_OperationIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, ep := range BaseEndpoints() {
		assert.False(t, seen[ep.Metadata.OperationID], "duplicate operation id %q", ep.Metadata.OperationID)
		seen[ep.Metadata.OperationID] = true
	}
}

// Requirement: the registry starts with the base endpoints in a stable order.
func TestNewEndpointRegistry(t *testing.T) {
	// Arrange
	reg := NewEndpointRegistry()

	// Act
	first := reg.Endpoints()
	second := reg.Endpoints()

	// Assert
	require.Len(t, first, len(BaseEndpoints()))
	for i := range first {
		assert.Same(t, first[i], second[i])
	}
	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		assert.True(t, prev.Path < cur.Path || (prev.Path == cur.Path && prev.Method < cur.Method),
			"endpoints out of order: %s %s before %s %s", prev.Method, prev.Path, cur.Method, cur.Path)
	}

	ep, ok := reg.Lookup(http.MethodGet, "/user/:id")
	require.True(t, ok)
	assert.Equal(t, OpGetUser, ep.Metadata.OperationID)
}

// Requirement: Extend rejects conflicts atomically.
func TestEndpointRegistry_Extend(t *testing.T) {
	tests := []struct {
		name      string
		endpoints []core.Endpoint
		wantErr   bool
		wantTotal int
	}{
		{
			name: "adds new endpoints",
			endpoints: []core.Endpoint{
				{Method: http.MethodGet, Path: "/version", Metadata: core.EndpointMetadata{OperationID: "version"}},
				{Method: http.MethodPost, Path: "/version", Metadata: core.EndpointMetadata{OperationID: "setVersion"}},
			},
			wantTotal: len(BaseEndpoints()) + 2,
		},
		{
			name: "conflict with a base endpoint registers nothing",
			endpoints: []core.Endpoint{
				{Method: http.MethodGet, Path: "/version"},
				{Method: http.MethodPost, Path: "/signup"},
			},
			wantErr:   true,
			wantTotal: len(BaseEndpoints()),
		},
		{
			name: "duplicate within the batch registers nothing",
			endpoints: []core.Endpoint{
				{Method: http.MethodGet, Path: "/version"},
				{Method: http.MethodGet, Path: "/version"},
			},
			wantErr:   true,
			wantTotal: len(BaseEndpoints()),
		},
		{
			name:      "empty batch is a no-op",
			wantTotal: len(BaseEndpoints()),
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			reg := NewEndpointRegistry()

			// Act
			err := reg.Extend(test.endpoints)

			// Assert
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Len(t, reg.Endpoints(), test.wantTotal)
		})
	}
}

// Requirement: same path with different methods is not a conflict.
func TestEndpointRegistry_SamePathDifferentMethod(t *testing.T) {
	reg := NewEndpointRegistry()

	err := reg.Extend([]core.Endpoint{{Method: http.MethodHead, Path: "/user"}})

	require.NoError(t, err)
	_, ok := reg.Lookup(http.MethodHead, "/user")
	assert.True(t, ok)
}
