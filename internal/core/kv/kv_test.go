package kv_test

import (
	"context"
	"testing"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetMissing(t *testing.T) {
	store := kv.NewMemory()

	var v string
	err := store.Get(context.Background(), "nope", &v)
	require.Error(t, err)
	assert.True(t, kv.IsNotFound(err))
}

func TestTypedKV_SetAndGet(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[string](kv.NewMemory(), "test")

	require.NoError(t, typed.Set(ctx, "greeting", "hello"))

	got, err := typed.Get(ctx, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestTypedKV_ScopedPrefix(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	alpha := kv.Scoped[int](store, "alpha")
	beta := kv.Scoped[int](store, "beta")

	require.NoError(t, alpha.Set(ctx, "count", 10))
	require.NoError(t, beta.Set(ctx, "count", 20))

	a, err := alpha.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 10, a)

	b, err := beta.Get(ctx, "count")
	require.NoError(t, err)
	assert.Equal(t, 20, b)

	keys, err := store.ListKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha:count", "beta:count"}, keys)
}

func TestTypedKV_GetOr(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[map[string]string](kv.NewMemory(), "settings")

	got, err := typed.GetOr(ctx, "general", map[string]string{"currency": "USD"})
	require.NoError(t, err)
	assert.Equal(t, "USD", got["currency"])
}

func TestTypedKV_Keys(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	alerts := kv.Scoped[bool](store, "alerts")

	require.NoError(t, alerts.Set(ctx, "FURN-006", true))
	require.NoError(t, alerts.Set(ctx, "FURN-002", true))
	require.NoError(t, store.Set(ctx, "notifications-storage", "x"))

	keys, err := alerts.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"FURN-002", "FURN-006"}, keys)
}

func TestTypedKV_DeleteAndHas(t *testing.T) {
	ctx := context.Background()
	typed := kv.Scoped[bool](kv.NewMemory(), "flags")

	require.NoError(t, typed.Set(ctx, "on", true))
	has, err := typed.Has(ctx, "on")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, typed.Delete(ctx, "on"))
	has, err = typed.Has(ctx, "on")
	require.NoError(t, err)
	assert.False(t, has)
}
