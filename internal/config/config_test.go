package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFor(t *testing.T) {
	tests := []struct {
		goos   string
		ignore []string
	}{
		{"linux", []string{}},
		{"darwin", []string{"scrnsave.scr"}},
		{"windows", []string{"LockApp.exe"}},
		{"plan9", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cfg := DefaultFor(tt.goos)
			assert.Equal(t, int64(DefaultInterval), cfg.Interval)
			assert.Equal(t, tt.ignore, cfg.Ignore)
		})
	}
}

func TestDefaultForReturnsCopy(t *testing.T) {
	cfg := DefaultFor("darwin")
	cfg.Ignore[0] = "changed"

	assert.Equal(t, []string{"scrnsave.scr"}, DefaultFor("darwin").Ignore)
}

func TestParseFallsBackSilently(t *testing.T) {
	overrides := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"not json", "interval=5"},
		{"array", `[1, 2, 3]`},
		{"string", `"hello"`},
		{"number", `42`},
		{"null", `null`},
		{"empty object", `{}`},
		{"trailing data", `{"interval": 5} x`},
	}

	for _, tt := range overrides {
		t.Run(tt.name, func(t *testing.T) {
			cfg, errs := Parse(tt.in, "windows")
			assert.Empty(t, errs)
			assert.Equal(t, DefaultFor("windows"), cfg)
		})
	}
}

func TestParseMergesFieldByField(t *testing.T) {
	cfg, errs := Parse(`{"interval": 30}`, "darwin")
	require.Empty(t, errs)
	assert.Equal(t, int64(30), cfg.Interval)
	assert.Equal(t, []string{"scrnsave.scr"}, cfg.Ignore)

	cfg, errs = Parse(`{"ignore": ["Slack", "zoom"]}`, "darwin")
	require.Empty(t, errs)
	assert.Equal(t, int64(DefaultInterval), cfg.Interval)
	assert.Equal(t, []string{"Slack", "zoom"}, cfg.Ignore)

	cfg, errs = Parse(`{"interval": 5, "ignore": [], "unknown": true}`, "linux")
	require.Empty(t, errs)
	assert.Equal(t, int64(5), cfg.Interval)
	assert.Empty(t, cfg.Ignore)
}

func TestParseMatchesKeysExactly(t *testing.T) {
	cfg, errs := Parse(`{"INTERVAL": 5, "Ignore": ["Slack"]}`, "windows")
	assert.Empty(t, errs)
	assert.Equal(t, DefaultFor("windows"), cfg)

	cfg, errs = Parse(`{"Interval": "ten", "interval": 4}`, "windows")
	assert.Empty(t, errs)
	assert.Equal(t, int64(4), cfg.Interval)
}

func TestParseNullFieldsAreAbsent(t *testing.T) {
	cfg, errs := Parse(`{"interval": null, "ignore": null}`, "darwin")
	assert.Empty(t, errs)
	assert.Equal(t, DefaultFor("darwin"), cfg)
}

func TestParseWrongShapedFields(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantFields   []string
		wantInterval int64
		wantIgnore   []string
	}{
		{
			name:         "interval string",
			in:           `{"interval": "ten"}`,
			wantFields:   []string{"interval"},
			wantInterval: DefaultInterval,
			wantIgnore:   []string{"LockApp.exe"},
		},
		{
			name:         "interval zero",
			in:           `{"interval": 0}`,
			wantFields:   []string{"interval"},
			wantInterval: DefaultInterval,
			wantIgnore:   []string{"LockApp.exe"},
		},
		{
			name:         "interval negative",
			in:           `{"interval": -3}`,
			wantFields:   []string{"interval"},
			wantInterval: DefaultInterval,
			wantIgnore:   []string{"LockApp.exe"},
		},
		{
			name:         "interval fractional",
			in:           `{"interval": 1.5}`,
			wantFields:   []string{"interval"},
			wantInterval: DefaultInterval,
			wantIgnore:   []string{"LockApp.exe"},
		},
		{
			name:         "ignore not array",
			in:           `{"interval": 3, "ignore": "Slack"}`,
			wantFields:   []string{"ignore"},
			wantInterval: 3,
			wantIgnore:   []string{"LockApp.exe"},
		},
		{
			name:         "ignore mixed types",
			in:           `{"ignore": ["Slack", 7]}`,
			wantFields:   []string{"ignore"},
			wantInterval: DefaultInterval,
			wantIgnore:   []string{"LockApp.exe"},
		},
		{
			name:         "both wrong",
			in:           `{"interval": true, "ignore": {"a": "b"}}`,
			wantFields:   []string{"interval", "ignore"},
			wantInterval: DefaultInterval,
			wantIgnore:   []string{"LockApp.exe"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, errs := Parse(tt.in, "windows")
			require.Len(t, errs, len(tt.wantFields))

			for i, err := range errs {
				assert.True(t, errors.Is(err, ErrConfigParse))

				var perr *ParseError
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, tt.wantFields[i], perr.Field)
			}

			assert.Equal(t, tt.wantInterval, cfg.Interval)
			assert.Equal(t, tt.wantIgnore, cfg.Ignore)
		})
	}
}

func TestAgentConfigJSON(t *testing.T) {
	data, err := (&AgentConfig{Interval: 10}).JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"interval": 10, "ignore": []}`, string(data))

	data, err = DefaultFor("windows").JSON()
	require.NoError(t, err)
	assert.Equal(t, `{"interval":10,"ignore":["LockApp.exe"]}`, string(data))
}

func TestAgentConfigString(t *testing.T) {
	assert.Equal(t, "interval=10s ignore=[LockApp.exe]", DefaultFor("windows").String())
}

func TestPollInterval(t *testing.T) {
	cfg := &AgentConfig{Interval: 7}
	assert.Equal(t, 7*time.Second, cfg.PollInterval())
}

func TestIgnoreSet(t *testing.T) {
	cfg := &AgentConfig{Ignore: []string{"a", "b", "a"}}
	set := cfg.IgnoreSet()

	assert.Len(t, set, 2)
	assert.Contains(t, set, "a")
	assert.Contains(t, set, "b")
	assert.NotContains(t, set, "c")
}

func TestLoadSettings(t *testing.T) {
	t.Setenv("MNEMNK_APPLICATION_LOG_LEVEL", "debug")
	t.Setenv("MNEMNK_APPLICATION_LOG_PRETTY", "true")

	s := LoadSettings()
	assert.Equal(t, "debug", s.LogLevel)
	assert.True(t, s.LogPretty)
}

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("MNEMNK_APPLICATION_LOG_LEVEL", "")

	s := LoadSettings()
	assert.Equal(t, "info", s.LogLevel)
	assert.False(t, s.LogPretty)
}
