//go:build windows

package window

import (
	"fmt"
	"unsafe"

	"github.com/bryanchriswhite/mnemnk-application/internal/logger"
	"golang.org/x/sys/windows"
)

var (
	user32                   = windows.NewLazySystemDLL("user32.dll")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procGetWindowRect        = user32.NewProc("GetWindowRect")
)

// queryForeground reads the foreground window through user32 and kernel32
func queryForeground() (*foregroundWindow, error) {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return nil, ErrNoActiveWindow
	}

	var rect windows.Rect
	if r, _, err := procGetWindowRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&rect))); r == 0 {
		return nil, fmt.Errorf("GetWindowRect failed: %w", err)
	}

	fw := &foregroundWindow{
		Title:  windowText(hwnd),
		Left:   rect.Left,
		Top:    rect.Top,
		Right:  rect.Right,
		Bottom: rect.Bottom,
	}

	if _, err := windows.GetWindowThreadProcessId(hwnd, &fw.PID); err != nil {
		return nil, fmt.Errorf("GetWindowThreadProcessId failed: %w", err)
	}

	image, err := processImage(fw.PID)
	if err != nil {
		// Elevated processes refuse PROCESS_QUERY_LIMITED_INFORMATION
		logger.WithComponent("windows-backend").Debug().
			Err(err).
			Uint32("pid", fw.PID).
			Msg("Failed to read process image name")
	}
	fw.Image = image

	return fw, nil
}

func windowText(hwnd windows.HWND) string {
	n, _, _ := procGetWindowTextLengthW.Call(uintptr(hwnd))
	if n == 0 {
		return ""
	}

	buf := make([]uint16, n+1)
	procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf)
}

// processImage returns the full path of the executable running as pid
func processImage(pid uint32) (string, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", fmt.Errorf("OpenProcess(%d) failed: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_LONG_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", fmt.Errorf("QueryFullProcessImageName(%d) failed: %w", pid, err)
	}
	return windows.UTF16ToString(buf[:size]), nil
}
