package window

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/bryanchriswhite/mnemnk-application/internal/logger"
)

// X11Backend implements Provider using the X11 protocol. The connection is
// opened on first use and dropped after a failed request so a restarted X
// server is picked up on the next sample.
type X11Backend struct {
	display string
	conn    *xgb.Conn
	root    xproto.Window
	atoms   map[string]xproto.Atom
}

// NewX11Backend creates a new X11 backend for the given display ("" uses $DISPLAY)
func NewX11Backend(display string) *X11Backend {
	return &X11Backend{
		display: display,
		atoms:   make(map[string]xproto.Atom),
	}
}

// Name returns the backend name
func (b *X11Backend) Name() string {
	return "x11"
}

// Close closes the X11 connection
func (b *X11Backend) Close() error {
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
	return nil
}

func (b *X11Backend) connect() error {
	if b.conn != nil {
		return nil
	}

	conn, err := xgb.NewConnDisplay(b.display)
	if err != nil {
		return fmt.Errorf("failed to connect to X server: %w", err)
	}

	setup := xproto.Setup(conn)
	b.conn = conn
	b.root = setup.DefaultScreen(conn).Root
	b.atoms = make(map[string]xproto.Atom)

	logger.WithComponent("x11-backend").Debug().
		Str("display", b.display).
		Uint32("root", uint32(b.root)).
		Msg("Connected to X server")
	return nil
}

// ActiveWindow returns the currently focused top-level window
func (b *X11Backend) ActiveWindow() (*Info, error) {
	if err := b.connect(); err != nil {
		return nil, err
	}

	win, err := b.activeWindowID()
	if err != nil {
		b.Close()
		return nil, err
	}
	if win == 0 {
		return nil, ErrNoActiveWindow
	}

	info, err := b.getWindowInfo(win)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// activeWindowID prefers EWMH _NET_ACTIVE_WINDOW and falls back to the input focus
func (b *X11Backend) activeWindowID() (xproto.Window, error) {
	log := logger.WithComponent("x11-backend")

	if atom, err := b.getAtom("_NET_ACTIVE_WINDOW"); err == nil {
		reply, err := xproto.GetProperty(b.conn, false, b.root, atom, xproto.AtomWindow, 0, 1).Reply()
		if err == nil {
			if id, ok := decodeCardinal(reply.Value); ok && id != 0 {
				return xproto.Window(id), nil
			}
		} else {
			log.Debug().Err(err).Msg("_NET_ACTIVE_WINDOW unavailable, using input focus")
		}
	}

	focusReply, err := xproto.GetInputFocus(b.conn).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to get input focus: %w", err)
	}

	// None and PointerRoot mean no client window has focus
	if focusReply.Focus == xproto.InputFocusNone || focusReply.Focus == xproto.InputFocusPointerRoot {
		return 0, nil
	}
	return b.topLevel(focusReply.Focus), nil
}

// topLevel walks up from win to the child of the root window that contains it
func (b *X11Backend) topLevel(win xproto.Window) xproto.Window {
	for win != b.root {
		tree, err := xproto.QueryTree(b.conn, win).Reply()
		if err != nil || tree.Parent == b.root || tree.Parent == 0 {
			return win
		}
		win = tree.Parent
	}
	return win
}

// getWindowInfo retrieves information about a window
func (b *X11Backend) getWindowInfo(win xproto.Window) (*Info, error) {
	info := &Info{}

	geom, err := xproto.GetGeometry(b.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get geometry of window %d: %w", win, err)
	}
	info.Geometry = Geometry{
		X:      int(geom.X),
		Y:      int(geom.Y),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}

	// Reparenting window managers make GetGeometry relative to the frame
	if pos, err := xproto.TranslateCoordinates(b.conn, win, b.root, 0, 0).Reply(); err == nil {
		info.Geometry.X = int(pos.DstX)
		info.Geometry.Y = int(pos.DstY)
	}

	if title, err := b.getStringProperty(win, "_NET_WM_NAME"); err == nil {
		info.Title = title
	}
	if info.Title == "" {
		if title, err := b.getStringProperty(win, "WM_NAME"); err == nil {
			info.Title = title
		}
	}

	if pidAtom, err := b.getAtom("_NET_WM_PID"); err == nil {
		reply, err := xproto.GetProperty(b.conn, false, win, pidAtom, xproto.AtomCardinal, 0, 1).Reply()
		if err == nil {
			if pid, ok := decodeCardinal(reply.Value); ok {
				info.PID = int(pid)
			}
		}
	}

	if classRaw, err := b.getStringProperty(win, "WM_CLASS"); err == nil {
		info.AppName = parseWMClass(classRaw)
	}
	if info.AppName == "" && info.PID > 0 {
		if comm, err := processName(info.PID); err == nil {
			info.AppName = comm
		}
	}

	return info, nil
}

// getAtom gets an atom ID by name
func (b *X11Backend) getAtom(name string) (xproto.Atom, error) {
	if atom, ok := b.atoms[name]; ok {
		return atom, nil
	}

	reply, err := xproto.InternAtom(b.conn, true, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, err
	}
	if reply.Atom == xproto.AtomNone {
		return 0, fmt.Errorf("atom %s not interned", name)
	}
	b.atoms[name] = reply.Atom
	return reply.Atom, nil
}

// getStringProperty gets a property value as a string
func (b *X11Backend) getStringProperty(win xproto.Window, name string) (string, error) {
	atom, err := b.getAtom(name)
	if err != nil {
		return "", err
	}

	reply, err := xproto.GetProperty(
		b.conn,
		false,
		win,
		atom,
		xproto.GetPropertyTypeAny,
		0,
		(1<<32)-1,
	).Reply()
	if err != nil {
		return "", err
	}

	if reply.ValueLen == 0 {
		return "", fmt.Errorf("empty property %s", name)
	}

	return string(reply.Value), nil
}

// decodeCardinal reads the first 32-bit value of a property
func decodeCardinal(value []byte) (uint32, bool) {
	if len(value) < 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(value[:4]), true
}

// parseWMClass returns the class part of WM_CLASS, which is
// instance\0class\0, falling back to the instance
func parseWMClass(raw string) string {
	parts := strings.Split(raw, "\x00")
	if len(parts) >= 2 && parts[1] != "" {
		return parts[1]
	}
	if len(parts) >= 1 {
		return parts[0]
	}
	return ""
}

// processName reads the command name of a process from procfs
func processName(pid int) (string, error) {
	data, err := os.ReadFile("/proc/" + strconv.Itoa(pid) + "/comm")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
