package backend

import (
	"context"

	gateway "github.com/danilofalcao/coder-gateway/internal/api/gateway/v1"
)

// Backend defines the interface an inference backend must implement
type Backend interface {
	// Name returns the name of the backend
	Name() string

	// Complete forwards a completion request and maps the reply. Failures are
	// returned as *Error.
	Complete(ctx context.Context, req *gateway.CompletionRequest) (*gateway.CompletionResponse, error)

	// Health probes the backend's own health endpoint
	Health(ctx context.Context) error
}
