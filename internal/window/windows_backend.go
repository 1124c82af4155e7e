package window

import (
	"strings"
)

// foregroundWindow is the raw Win32 view of the foreground window
type foregroundWindow struct {
	Title  string
	PID    uint32
	Image  string
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// WindowsBackend implements Provider on Windows through user32
type WindowsBackend struct {
	query func() (*foregroundWindow, error)
}

// NewWindowsBackend creates a new Windows backend
func NewWindowsBackend() *WindowsBackend {
	return &WindowsBackend{query: queryForeground}
}

// Name returns the backend name
func (b *WindowsBackend) Name() string {
	return "windows"
}

// Close is a no-op; no handle is held between samples
func (b *WindowsBackend) Close() error {
	return nil
}

// ActiveWindow returns the foreground window. AppName is the executable
// name (e.g., "LockApp.exe") so it can be matched against the ignore list.
func (b *WindowsBackend) ActiveWindow() (*Info, error) {
	fw, err := b.query()
	if err != nil {
		return nil, err
	}

	return &Info{
		AppName: imageBaseName(fw.Image),
		Title:   fw.Title,
		PID:     int(fw.PID),
		Geometry: Geometry{
			X:      int(fw.Left),
			Y:      int(fw.Top),
			Width:  int(fw.Right - fw.Left),
			Height: int(fw.Bottom - fw.Top),
		},
	}, nil
}

// imageBaseName strips the directory from a process image path. Both
// separators are accepted so the result does not depend on the build OS.
func imageBaseName(path string) string {
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		return path[i+1:]
	}
	return path
}
