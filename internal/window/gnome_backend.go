package window

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanchriswhite/mnemnk-application/internal/logger"
	"github.com/godbus/dbus/v5"
)

// GNOME Shell "Focused Window D-Bus" extension constants
const (
	gnomeShellService    = "org.gnome.Shell"
	focusedWindowPath    = "/org/gnome/shell/extensions/FocusedWindow"
	focusedWindowIface   = "org.gnome.shell.extensions.FocusedWindow"
	focusedWindowGetCall = focusedWindowIface + ".Get"
)

// mutterWindow is the subset of the extension's JSON reply that we use
type mutterWindow struct {
	Title   string `json:"title"`
	WmClass string `json:"wm_class"`
	Pid     int32  `json:"pid"`
	X       int32  `json:"x"`
	Y       int32  `json:"y"`
	Width   int32  `json:"width"`
	Height  int32  `json:"height"`
	Focus   *bool  `json:"focus"`
}

// GnomeBackend implements Provider for GNOME Wayland sessions, where X11 only
// sees XWayland clients. It needs the Focused Window D-Bus shell extension.
type GnomeBackend struct {
	conn *dbus.Conn
}

// NewGnomeBackend creates a new GNOME Shell backend; the session bus is
// connected on first use
func NewGnomeBackend() *GnomeBackend {
	return &GnomeBackend{}
}

// Name returns the backend name
func (b *GnomeBackend) Name() string {
	return "gnome"
}

// Close closes the session bus connection
func (b *GnomeBackend) Close() error {
	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}

func (b *GnomeBackend) connect() error {
	if b.conn != nil && b.conn.Connected() {
		return nil
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	b.conn = conn
	return nil
}

// ActiveWindow asks GNOME Shell for the focused window
func (b *GnomeBackend) ActiveWindow() (*Info, error) {
	if err := b.connect(); err != nil {
		return nil, err
	}

	var reply string
	obj := b.conn.Object(gnomeShellService, dbus.ObjectPath(focusedWindowPath))
	if err := obj.Call(focusedWindowGetCall, 0).Store(&reply); err != nil {
		logger.WithComponent("gnome-backend").Debug().Err(err).Msg("FocusedWindow.Get failed")
		if isRemoteError(err) {
			// The extension answers with a D-Bus error when nothing has focus
			return nil, fmt.Errorf("%w: %v", ErrNoActiveWindow, err)
		}
		b.Close()
		return nil, fmt.Errorf("failed to query focused window: %w", err)
	}

	return parseMutterWindow(reply)
}

// isRemoteError reports whether err is an error reply from the peer rather
// than a transport failure
func isRemoteError(err error) bool {
	switch err.(type) {
	case dbus.Error, *dbus.Error:
		return true
	}
	return false
}

// parseMutterWindow converts the extension's JSON reply to Info
func parseMutterWindow(reply string) (*Info, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" || reply == "null" || reply == "{}" {
		return nil, ErrNoActiveWindow
	}

	var w mutterWindow
	if err := json.Unmarshal([]byte(reply), &w); err != nil {
		return nil, fmt.Errorf("failed to parse focused window reply: %w", err)
	}
	if w.Focus != nil && !*w.Focus {
		return nil, ErrNoActiveWindow
	}

	return &Info{
		AppName: w.WmClass,
		Title:   w.Title,
		PID:     int(w.Pid),
		Geometry: Geometry{
			X:      int(w.X),
			Y:      int(w.Y),
			Width:  int(w.Width),
			Height: int(w.Height),
		},
	}, nil
}
