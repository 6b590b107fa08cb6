package update

import (
	"strings"

	"github.com/sandeepkv93/cadence/internal/log"
	"github.com/sandeepkv93/cadence/internal/views"
)

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

// notify records an in-app notification. Only scheduled resets reach the
// desktop; see notifyDesktop.
func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	m.Notifications = append(m.Notifications, Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.clock(),
	})
	if len(m.Notifications) > notificationsCap {
		m.Notifications = m.Notifications[len(m.Notifications)-notificationsCap:]
	}
}

func (m *Model) notifyDesktop(title, body string) {
	m.notify(title, body, "reset")
	if !m.DesktopEnabled || m.notifier == nil {
		return
	}
	if err := m.notifier.Send(Notification{Title: title, Body: body, Level: "reset", At: m.clock()}); err != nil {
		log.Warn().Err(err).Msg("desktop notification failed")
	}
}

func (m *Model) setError(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
}
