package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bryanchriswhite/mnemnk-application/internal/config"
)

// Kind is the record kind of every STORE line this agent writes
const Kind = "application"

// Emitter writes protocol lines to the parent process. Each line is written
// with a single Write call and nothing is buffered between lines.
type Emitter struct {
	w io.Writer
}

// NewEmitter creates an Emitter writing to w
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Config writes the CONFIG line
func (e *Emitter) Config(cfg *config.AgentConfig) error {
	data, err := cfg.JSON()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return e.writeLine("CONFIG ", data)
}

// Store writes a STORE line for an accepted snapshot
func (e *Emitter) Store(s *Snapshot) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return e.writeLine("STORE "+Kind+" ", bytes.TrimRight(buf.Bytes(), "\n"))
}

func (e *Emitter) writeLine(prefix string, payload []byte) error {
	line := make([]byte, 0, len(prefix)+len(payload)+1)
	line = append(line, prefix...)
	line = append(line, payload...)
	line = append(line, '\n')

	if _, err := e.w.Write(line); err != nil {
		return fmt.Errorf("failed to write %q line: %w", bytes.TrimSpace([]byte(prefix)), err)
	}
	return nil
}
