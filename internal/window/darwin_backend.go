package window

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// frontmostScript prints name, title, x, y, width and height of the
// frontmost window, tab separated
const frontmostScript = `tell application "System Events"
	set proc to first application process whose frontmost is true
	set appName to name of proc
	set winTitle to ""
	set {px, py, pw, ph} to {0, 0, 0, 0}
	if (count of windows of proc) > 0 then
		set win to window 1 of proc
		set winTitle to name of win
		set {px, py} to position of win
		set {pw, ph} to size of win
	end if
	return appName & tab & winTitle & tab & px & tab & py & tab & pw & tab & ph
end tell`

// DarwinBackend implements Provider on macOS through System Events
type DarwinBackend struct {
	run func() ([]byte, error)
}

// NewDarwinBackend creates a new macOS backend
func NewDarwinBackend() *DarwinBackend {
	return &DarwinBackend{
		run: func() ([]byte, error) {
			var out bytes.Buffer
			cmd := exec.Command("osascript", "-e", frontmostScript)
			cmd.Stdout = &out
			err := cmd.Run()
			return out.Bytes(), err
		},
	}
}

// Name returns the backend name
func (b *DarwinBackend) Name() string {
	return "darwin"
}

// Close is a no-op; every sample runs its own osascript process
func (b *DarwinBackend) Close() error {
	return nil
}

// ActiveWindow returns the frontmost application's first window
func (b *DarwinBackend) ActiveWindow() (*Info, error) {
	out, err := b.run()
	if err != nil {
		return nil, fmt.Errorf("osascript failed: %w", err)
	}
	return parseFrontmost(string(out))
}

func parseFrontmost(out string) (*Info, error) {
	fields := strings.Split(strings.TrimRight(out, "\r\n"), "\t")
	if len(fields) < 6 {
		return nil, fmt.Errorf("unexpected osascript output %q", out)
	}
	if fields[0] == "" {
		return nil, ErrNoActiveWindow
	}

	// Titles may contain tabs; the bounds are always the last four fields
	bounds := fields[len(fields)-4:]
	title := strings.Join(fields[1:len(fields)-4], "\t")

	nums := make([]int, 4)
	for i, f := range bounds {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("invalid window bound %q: %w", f, err)
		}
		nums[i] = n
	}

	return &Info{
		AppName: fields[0],
		Title:   title,
		Geometry: Geometry{
			X:      nums[0],
			Y:      nums[1],
			Width:  nums[2],
			Height: nums[3],
		},
	}, nil
}
