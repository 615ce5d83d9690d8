package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger := Component("notify")
	logger.Info().Msg("stored")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "notify", entry["cmp"])
	assert.Equal(t, "stored", entry["message"])
}

func TestComponent_AddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	ctx := WithSurface(WithRequestID(context.Background(), "req-1"), SurfaceAPI)

	logger := Component("api")
	logger.Info().Ctx(ctx).Msg("handled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "api", entry["surface"])
}
