package agent

import (
	"strings"
	"time"

	"github.com/bryanchriswhite/mnemnk-application/internal/window"
)

// Snapshot is one sampled observation of the focused window. It is the
// payload of a STORE line.
type Snapshot struct {
	T      int64  `json:"t"`
	Name   string `json:"name"`
	Title  string `json:"title"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Text   string `json:"text"`
}

// NewSnapshot builds a Snapshot from provider output taken at now
func NewSnapshot(info *window.Info, now time.Time) *Snapshot {
	return &Snapshot{
		T:      now.UnixMilli(),
		Name:   info.AppName,
		Title:  info.Title,
		X:      info.Geometry.X,
		Y:      info.Geometry.Y,
		Width:  info.Geometry.Width,
		Height: info.Geometry.Height,
		Text:   strings.TrimSpace(info.AppName + " " + info.Title),
	}
}

// SameAs reports whether s and other describe the same window state. Only
// position, size and text are compared; text already carries name and title.
// A nil snapshot is never the same as anything, including another nil.
func (s *Snapshot) SameAs(other *Snapshot) bool {
	if s == nil || other == nil {
		return false
	}
	return s.X == other.X &&
		s.Y == other.Y &&
		s.Width == other.Width &&
		s.Height == other.Height &&
		s.Text == other.Text
}
