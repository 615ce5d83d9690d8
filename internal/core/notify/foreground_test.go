package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFocusTracker(t *testing.T) {
	var zero FocusTracker
	assert.False(t, zero.Foregrounded())

	tr := NewFocusTracker(true)
	assert.True(t, tr.Foregrounded())

	tr.SetFocused(false)
	assert.False(t, tr.Foregrounded())
}

func TestStaticForegrounds(t *testing.T) {
	assert.True(t, Always.Foregrounded())
	assert.False(t, Never.Foregrounded())
}
