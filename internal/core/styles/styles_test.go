package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseTheme(t *testing.T) {
	t.Cleanup(func() { UseTheme(DefaultTheme) })

	assert.True(t, UseTheme("gruvbox"))
	gruvbox, _ := GetPalette("gruvbox")
	assert.Equal(t, gruvbox.Primary, ColorPrimary)

	assert.False(t, UseTheme("solarized"))
	def, _ := GetPalette(DefaultTheme)
	assert.Equal(t, def.Primary, ColorPrimary)
}

func TestThemeNames(t *testing.T) {
	assert.Equal(t, []string{"catppuccin", "gruvbox", "tokyo-night"}, ThemeNames())
}

func TestGlamourStyleUsesPalette(t *testing.T) {
	cfg := GlamourStyle()
	require.NotNil(t, cfg.H2.Color)
	assert.Equal(t, *colorHexPtr(ColorPrimary), *cfg.H2.Color)
}
