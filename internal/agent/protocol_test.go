package agent

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bryanchriswhite/mnemnk-application/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Command
		wantOK bool
	}{
		{"empty", "", Command{}, false},
		{"newline only", "\n", Command{}, false},
		{"whitespace only", " \t \r\n", Command{}, false},
		{"bare command", "QUIT\n", Command{Name: "QUIT"}, true},
		{"surrounding whitespace", "  QUIT  \r\n", Command{Name: "QUIT"}, true},
		{"command with args", "FOO bar\n", Command{Name: "FOO", Args: "bar"}, true},
		{"split at first space", "SET_CONFIG {\"a\": 1}", Command{Name: "SET_CONFIG", Args: "{\"a\": 1}"}, true},
		{"lower case is a different command", "quit", Command{Name: "quit"}, true},
		{"tab is not a separator", "FOO\tbar", Command{Name: "FOO\tbar"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmitterConfig(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	require.NoError(t, e.Config(&config.AgentConfig{Interval: 10, Ignore: []string{"LockApp.exe"}}))
	assert.Equal(t, "CONFIG {\"interval\":10,\"ignore\":[\"LockApp.exe\"]}\n", buf.String())
}

func TestEmitterStore(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)

	s := &Snapshot{
		T:      1700000000000,
		Name:   "Editor",
		Title:  "<a> & b",
		X:      0,
		Y:      0,
		Width:  800,
		Height: 600,
		Text:   "Editor <a> & b",
	}
	require.NoError(t, e.Store(s))

	line := buf.String()
	require.True(t, strings.HasPrefix(line, "STORE application {"))
	require.True(t, strings.HasSuffix(line, "}\n"))
	assert.Equal(t, 1, strings.Count(line, "\n"))
	assert.JSONEq(t,
		`{"t":1700000000000,"name":"Editor","title":"<a> & b","x":0,"y":0,"width":800,"height":600,"text":"Editor <a> & b"}`,
		strings.TrimPrefix(strings.TrimSuffix(line, "\n"), "STORE application "))
	assert.Contains(t, line, "<a> & b")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestEmitterWriteFailure(t *testing.T) {
	e := NewEmitter(failingWriter{})

	err := e.Store(&Snapshot{Name: "A"})
	assert.ErrorContains(t, err, "broken pipe")

	err = e.Config(config.DefaultFor("linux"))
	assert.ErrorContains(t, err, "CONFIG")
}
