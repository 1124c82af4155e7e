//go:build !windows

package window

import (
	"fmt"
	"runtime"
)

func queryForeground() (*foregroundWindow, error) {
	return nil, fmt.Errorf("%w: user32 is not available on %s", ErrUnsupported, runtime.GOOS)
}
