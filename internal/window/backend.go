package window

import (
	"errors"
)

var (
	// ErrNoActiveWindow means the probe worked but nothing has focus
	ErrNoActiveWindow = errors.New("no active window")

	// ErrUnsupported means no backend can run in this session
	ErrUnsupported = errors.New("active window detection unsupported")
)

// Geometry represents window geometry in root (screen) coordinates
type Geometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Info describes the window that currently has focus
type Info struct {
	AppName  string   `json:"app_name"`
	Title    string   `json:"title"`
	PID      int      `json:"pid"`
	Geometry Geometry `json:"geometry"`
}

// Provider reports the currently focused window (X11, GNOME Shell, macOS, ...)
type Provider interface {
	// ActiveWindow returns the focused window, or an error when there is none
	// or the platform query failed
	ActiveWindow() (*Info, error)

	// Name returns the backend name (e.g., "x11", "gnome")
	Name() string

	// Close releases any connection held by the backend
	Close() error
}
