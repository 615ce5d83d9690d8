package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestSurface(t *testing.T) {
	ctx := WithSurface(context.Background(), SurfaceTUI)
	assert.Equal(t, SurfaceTUI, GetSurface(ctx))
	assert.Empty(t, GetSurface(context.Background()))
}
