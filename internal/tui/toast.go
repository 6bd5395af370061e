package tui

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/taskboard/internal/core/notify"
	"github.com/colonyops/taskboard/internal/core/styles"
)

const (
	maxToasts         = 4
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 44
)

// toastTTL is how long a toast stays up; problems linger longer than
// confirmations.
var toastTTL = map[notify.Level]time.Duration{
	notify.LevelInfo:    4 * time.Second,
	notify.LevelWarning: 6 * time.Second,
	notify.LevelError:   10 * time.Second,
}

func ttlFor(level notify.Level) time.Duration {
	if d, ok := toastTTL[level]; ok {
		return d
	}
	return toastTTL[notify.LevelInfo]
}

type toast struct {
	notification notify.Notification
	remaining    time.Duration
	repeats      int
}

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastController keeps the visible notifications and ages them out.
// A notification equal to the newest one refreshes it instead of stacking.
type ToastController struct {
	toasts  []toast
	ticking bool
}

func NewToastController() *ToastController {
	return &ToastController{}
}

// Push shows n, evicting the oldest toast beyond maxToasts.
func (c *ToastController) Push(n notify.Notification) {
	if last := len(c.toasts) - 1; last >= 0 {
		prev := &c.toasts[last]
		if prev.notification.Level == n.Level && prev.notification.Message == n.Message {
			prev.repeats++
			prev.remaining = ttlFor(n.Level)
			return
		}
	}

	c.toasts = append(c.toasts, toast{notification: n, remaining: ttlFor(n.Level)})
	if len(c.toasts) > maxToasts {
		c.toasts = c.toasts[len(c.toasts)-maxToasts:]
	}
}

// Tick ages every toast by d and drops the expired ones.
func (c *ToastController) Tick(d time.Duration) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		if t.remaining -= d; t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

func (c *ToastController) HasToasts() bool { return len(c.toasts) > 0 }

func (c *ToastController) Toasts() []toast { return c.toasts }

func (c *ToastController) Ticking() bool { return c.ticking }

func (c *ToastController) SetTicking(v bool) { c.ticking = v }

// ToastView draws a controller's toasts in the lower right corner.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

// View renders the stack, oldest first.
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, len(toasts))
	for i, t := range toasts {
		rendered[i] = t.render()
	}
	return strings.Join(rendered, "\n")
}

func (t toast) render() string {
	icon, style := styles.IconNotifyInfo, styles.ToastInfoStyle
	switch t.notification.Level {
	case notify.LevelError:
		icon, style = styles.IconNotifyError, styles.ToastErrorStyle
	case notify.LevelWarning:
		icon, style = styles.IconNotifyWarning, styles.ToastWarningStyle
	}

	text := icon + " " + t.notification.Message
	if t.repeats > 0 {
		text += fmt.Sprintf(" (x%d)", t.repeats+1)
	}
	return style.Width(toastWidth).Render(text)
}

// Overlay composites the stack over background.
func (v *ToastView) Overlay(background string, width, height int) string {
	content := v.View()
	if content == "" {
		return background
	}

	x := max(width-lipgloss.Width(content)-1, 0)
	y := max(height-lipgloss.Height(content)-1, 0)

	return lipgloss.NewCompositor(
		lipgloss.NewLayer(background),
		lipgloss.NewLayer(content).X(x).Y(y).Z(2),
	).Render()
}
