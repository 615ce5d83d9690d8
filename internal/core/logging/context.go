package logging

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	surfaceKey   contextKey = "surface"
)

// Surfaces that drive store mutations.
const (
	SurfaceCLI = "cli"
	SurfaceTUI = "tui"
	SurfaceAPI = "api"
)

// WithRequestID adds an API request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithSurface records which user surface (cli, tui, api) originated the call.
func WithSurface(ctx context.Context, surface string) context.Context {
	return context.WithValue(ctx, surfaceKey, surface)
}

// GetRequestID retrieves the request ID from the context.
// Returns empty string if not present.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetSurface retrieves the originating surface from the context.
// Returns empty string if not present.
func GetSurface(ctx context.Context) string {
	if s, ok := ctx.Value(surfaceKey).(string); ok {
		return s
	}
	return ""
}
