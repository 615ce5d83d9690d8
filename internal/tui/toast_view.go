package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/notify"
	"github.com/Dharmiksheth/seamless-business-mosaic/internal/core/styles"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// typeIcon is the glyph shown next to a notification of the given type.
func typeIcon(t notify.Type) string {
	switch t {
	case notify.TypeSuccess:
		return "✓"
	case notify.TypeWarning:
		return "!"
	case notify.TypeError:
		return "✗"
	default:
		return "i"
	}
}

// ToastView renders toasts and composites them as an overlay.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View stacks toasts vertically, oldest at top.
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, renderToast(t))
	}
	return strings.Join(rendered, "\n")
}

func renderToast(t toast) string {
	n := t.notification
	accent := styles.TypeColor(string(n.Type))

	title := lipgloss.NewStyle().Foreground(accent).Bold(true).
		Render(typeIcon(n.Type) + " " + n.Title)
	body := styles.ItemMessageStyle.Render(n.Message)

	return styles.ToastStyle.
		BorderForeground(accent).
		Width(toastWidth).
		Render(title + "\n" + body)
}

// Overlay composites the toast stack over background in the lower-right corner.
func (v *ToastView) Overlay(background string, width, height int) string {
	content := v.View()
	if content == "" {
		return background
	}

	bgLayer := lipgloss.NewLayer(background)
	toastLayer := lipgloss.NewLayer(content)

	x := max(width-lipgloss.Width(content)-1, 0)
	y := max(height-lipgloss.Height(content), 0)
	toastLayer.X(x).Y(y).Z(2)

	return lipgloss.NewCompositor(bgLayer, toastLayer).Render()
}
