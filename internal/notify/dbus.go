//go:build linux

package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	busName   = "org.freedesktop.Notifications"
	busPath   = dbus.ObjectPath("/org/freedesktop/Notifications")
	appName   = "remu"
	methodNew = busName + ".Notify"
	methodEnd = busName + ".CloseNotification"
)

// desktop talks to the freedesktop notification daemon on the session bus.
type desktop struct {
	obj dbus.BusObject
}

// New connects to the session bus. Without one, notifications are dropped
// silently so hosts need not special-case headless sessions.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nop{}, nil //nolint:nilerr // no session bus is not an error for callers
	}
	return &desktop{obj: conn.Object(busName, busPath)}, nil
}

func (d *desktop) Notify(n Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(appName),
		"category":      dbus.MakeVariant("x-remu.playback"),
	}

	// app_name, replaces_id, app_icon, summary, body, actions, hints, expire_timeout
	var id uint32
	err := d.obj.Call(methodNew, 0,
		appName, n.ReplacesID, n.Icon, n.Title, n.Body, []string{}, hints, n.Timeout,
	).Store(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (d *desktop) Close(id uint32) error {
	return d.obj.Call(methodEnd, 0, id).Err
}
