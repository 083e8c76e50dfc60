// internal/core/ports/gateway.go
package ports

import (
	"context"
	"encoding/json"
)

// Gateway defines the transport contract consumed by the reconciling store.
// A 204 response yields a nil payload; a non-2xx response yields an error
// carrying the HTTP status and a best-effort message from the body.
type Gateway interface {
	GetJSON(ctx context.Context, path string, query map[string]string) (json.RawMessage, error)
	PostJSON(ctx context.Context, path string, body any) (json.RawMessage, error)
	PutJSON(ctx context.Context, path string, body any) (json.RawMessage, error)
	DeleteJSON(ctx context.Context, path string) (json.RawMessage, error)
}
