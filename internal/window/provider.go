package window

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/bryanchriswhite/mnemnk-application/internal/logger"
)

// DetectDisplayServer returns "wayland", "x11" or "unknown"
func DetectDisplayServer() string {
	sessionType := os.Getenv("XDG_SESSION_TYPE")
	waylandDisplay := os.Getenv("WAYLAND_DISPLAY")
	x11Display := os.Getenv("DISPLAY")

	if sessionType == "wayland" || waylandDisplay != "" {
		return "wayland"
	}

	if sessionType == "x11" || x11Display != "" {
		return "x11"
	}

	return "unknown"
}

func isGnomeDesktop() bool {
	desktop := strings.ToLower(os.Getenv("XDG_CURRENT_DESKTOP"))
	return strings.Contains(desktop, "gnome") || strings.Contains(desktop, "ubuntu")
}

// NewProvider picks the backend for the running platform and session. It never
// fails: when nothing can work, the returned provider reports ErrUnsupported on
// every sample so the agent keeps running and logging.
func NewProvider() Provider {
	return newProviderFor(runtime.GOOS)
}

func newProviderFor(goos string) Provider {
	log := logger.WithComponent("window")

	var p Provider
	switch goos {
	case "darwin":
		p = NewDarwinBackend()
	case "windows":
		p = NewWindowsBackend()
	case "linux", "freebsd", "openbsd", "netbsd":
		switch DetectDisplayServer() {
		case "wayland":
			if isGnomeDesktop() {
				p = NewGnomeBackend()
			} else if os.Getenv("DISPLAY") != "" {
				// XWayland only sees X clients but is better than nothing
				p = NewX11Backend("")
			}
		case "x11":
			p = NewX11Backend("")
		}
	}

	if p == nil {
		p = &unsupported{reason: fmt.Sprintf("%s/%s", goos, DetectDisplayServer())}
	}

	log.Info().
		Str("backend", p.Name()).
		Str("display_server", DetectDisplayServer()).
		Msg("Window provider selected")
	return p
}

// unsupported is the Provider used when no backend fits the session
type unsupported struct {
	reason string
}

func (u *unsupported) Name() string {
	return "unsupported"
}

func (u *unsupported) Close() error {
	return nil
}

func (u *unsupported) ActiveWindow() (*Info, error) {
	return nil, fmt.Errorf("%w on %s", ErrUnsupported, u.reason)
}
