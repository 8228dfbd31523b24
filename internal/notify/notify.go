// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package notify dispatches user-facing alerts as desktop notifications via
// the org.freedesktop.Notifications D-Bus interface. Rate-limiting of alerts
// is not handled here, that is the coordinator's concern.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/wneessen/seekr/internal/logger"
)

const (
	notifyInterface = "org.freedesktop.Notifications"
	notifyPath      = "/org/freedesktop/Notifications"
	notifyMethod    = "org.freedesktop.Notifications.Notify"

	appName = "seekr"
	// expireTimeout of -1 leaves the display duration to the server.
	expireTimeout = int32(-1)
)

// Notifier is the contract of an alert dispatcher.
type Notifier interface {
	Dispatch(ctx context.Context, summary, body string) error
}

// DBusNotifier dispatches desktop notifications over the session bus. The
// connection is established lazily and re-established after failures.
// Repeated dispatches replace the previous notification instead of stacking.
type DBusNotifier struct {
	logger *logger.Logger

	mu         sync.Mutex
	conn       *dbus.Conn
	replacesID uint32
}

// NewDBusNotifier returns an unconnected DBusNotifier.
func NewDBusNotifier(log *logger.Logger) *DBusNotifier {
	return &DBusNotifier{logger: log}
}

// Dispatch sends one desktop notification.
func (n *DBusNotifier) Dispatch(ctx context.Context, summary, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil {
		conn, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("failed to connect to session bus: %w", err)
		}
		n.conn = conn
	}

	obj := n.conn.Object(notifyInterface, notifyPath)
	call := obj.CallWithContext(ctx, notifyMethod, 0, appName, n.replacesID, "",
		summary, body, []string{}, map[string]dbus.Variant{}, expireTimeout)
	if call.Err != nil {
		// Drop the connection; the next dispatch reconnects.
		if err := n.conn.Close(); err != nil {
			n.logger.Error("failed to close session bus connection", logger.Err(err))
		}
		n.conn = nil
		return fmt.Errorf("failed to dispatch notification: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("failed to read notification id: %w", err)
	}
	n.replacesID = id
	return nil
}

// Close shuts down the bus connection.
func (n *DBusNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	return err
}

// NopNotifier discards all alerts. Used when notifications are disabled.
type NopNotifier struct{}

// Dispatch does nothing.
func (NopNotifier) Dispatch(context.Context, string, string) error {
	return nil
}
