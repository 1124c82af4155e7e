package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/bryanchriswhite/mnemnk-application/internal/logger"
)

// DefaultInterval is the sampling interval in seconds when no override is given
const DefaultInterval = 10

// maxInterval keeps Interval representable as a time.Duration
const maxInterval = math.MaxInt64 / int64(time.Second)

// defaultIgnore lists, per GOOS, applications whose focus events are never reported.
// Screen savers and lock screens would otherwise show up as regular focus changes.
var defaultIgnore = map[string][]string{
	"linux":   {},
	"darwin":  {"scrnsave.scr"},
	"windows": {"LockApp.exe"},
}

// ErrConfigParse is matched by every ParseError
var ErrConfigParse = errors.New("CONFIG-PARSE")

// ParseError reports an override field with the wrong shape
type ParseError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: field %q %s (got %v), using default", ErrConfigParse, e.Field, e.Reason, e.Value)
}

// Is makes errors.Is(err, ErrConfigParse) hold for any ParseError
func (e *ParseError) Is(target error) bool {
	return target == ErrConfigParse
}

// AgentConfig is the agent configuration. It is built once at startup and never mutated.
type AgentConfig struct {
	Interval int64    `json:"interval"`
	Ignore   []string `json:"ignore"`
}

// DefaultFor returns the defaults for the given GOOS
func DefaultFor(goos string) *AgentConfig {
	ignore := append([]string{}, defaultIgnore[goos]...)
	return &AgentConfig{
		Interval: DefaultInterval,
		Ignore:   ignore,
	}
}

// Load builds the configuration from an optional JSON override, logging any
// field that had to fall back to its default.
func Load(override string) *AgentConfig {
	cfg, errs := Parse(override, runtime.GOOS)

	log := logger.WithComponent("config")
	for _, err := range errs {
		log.Error().Err(err).Msg("Invalid config override field")
	}

	return cfg
}

// Parse merges override over the defaults for goos field by field. An override
// that is empty, not JSON, or not a JSON object yields the defaults with no errors.
// Keys match exactly. Fields of the wrong shape keep their default and are
// reported as ParseErrors.
func Parse(override string, goos string) (*AgentConfig, []error) {
	cfg := DefaultFor(goos)

	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(override), &fields); err != nil {
		return cfg, nil
	}

	var errs []error

	if raw, ok := fields["interval"]; ok && raw != nil {
		if interval, ok := positiveInteger(raw); ok {
			cfg.Interval = interval
		} else {
			errs = append(errs, &ParseError{Field: "interval", Value: raw, Reason: "must be a positive integer"})
		}
	}

	if raw, ok := fields["ignore"]; ok && raw != nil {
		if ignore, ok := stringList(raw); ok {
			cfg.Ignore = ignore
		} else {
			errs = append(errs, &ParseError{Field: "ignore", Value: raw, Reason: "must be an array of strings"})
		}
	}

	return cfg, errs
}

func positiveInteger(raw interface{}) (int64, bool) {
	n, ok := raw.(float64)
	if !ok || n < 1 || n != math.Trunc(n) || n > float64(maxInterval) {
		return 0, false
	}
	return int64(n), true
}

func stringList(raw interface{}) ([]string, bool) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, false
	}

	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// PollInterval returns the sampling interval as a duration
func (c *AgentConfig) PollInterval() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

// IgnoreSet returns the ignore list as a set keyed by application name
func (c *AgentConfig) IgnoreSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Ignore))
	for _, name := range c.Ignore {
		set[name] = struct{}{}
	}
	return set
}

// JSON returns the wire form used by the CONFIG line
func (c *AgentConfig) JSON() ([]byte, error) {
	out := *c
	if out.Ignore == nil {
		out.Ignore = []string{}
	}
	return json.Marshal(out)
}

// String returns a string representation of the config
func (c *AgentConfig) String() string {
	return fmt.Sprintf("interval=%ds ignore=%v", c.Interval, c.Ignore)
}
