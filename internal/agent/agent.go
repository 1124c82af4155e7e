package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bryanchriswhite/mnemnk-application/internal/config"
	"github.com/bryanchriswhite/mnemnk-application/internal/logger"
	"github.com/bryanchriswhite/mnemnk-application/internal/window"
	"github.com/rs/zerolog"
)

// Name identifies this agent in logs
const Name = "mnemnk-application"

// ErrQuit is returned by Run after a QUIT command. The caller is expected to
// exit the process right away.
var ErrQuit = errors.New("quit requested")

// Agent samples the focused window on a fixed interval and reports changes.
// All of its state is owned by the goroutine running Run.
type Agent struct {
	cfg      *config.AgentConfig
	provider window.Provider
	filter   *Filter
	emitter  *Emitter
	log      *zerolog.Logger

	now       func() time.Time
	newTicker func(time.Duration) (<-chan time.Time, func())
	quit      context.CancelCauseFunc
}

// New creates an agent that writes protocol lines to out
func New(cfg *config.AgentConfig, provider window.Provider, out io.Writer) *Agent {
	return &Agent{
		cfg:       cfg,
		provider:  provider,
		filter:    NewFilter(cfg.IgnoreSet()),
		emitter:   NewEmitter(out),
		log:       logger.WithComponent("agent"),
		now:       time.Now,
		newTicker: systemTicker,
		quit:      func(error) {},
	}
}

func systemTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Config returns the configuration the agent runs with
func (a *Agent) Config() *config.AgentConfig {
	return a.cfg
}

// Run writes the CONFIG line and then services ticks and input lines from in
// one at a time until ctx is cancelled (returns nil) or a QUIT command arrives
// (returns ErrQuit). Failing to write the CONFIG line is the only other error.
func (a *Agent) Run(ctx context.Context, in io.Reader) error {
	if err := a.emitter.Config(a.cfg); err != nil {
		return err
	}

	a.log.Info().
		Stringer("config", a.cfg).
		Str("backend", a.provider.Name()).
		Msgf("Starting %s.", Name)

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	a.quit = cancel

	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done, a.log)

	ticks, stop := a.newTicker(a.cfg.PollInterval())
	defer stop()

	for {
		if ctx.Err() != nil {
			return a.exit(ctx)
		}

		select {
		case <-ctx.Done():
			return a.exit(ctx)

		case <-ticks:
			a.HandleTick()

		case line, ok := <-lines:
			if !ok {
				a.log.Debug().Msg("Input closed, no more commands will be read")
				lines = nil
				continue
			}
			a.HandleLine(line)
		}
	}
}

func (a *Agent) exit(ctx context.Context) error {
	if errors.Is(context.Cause(ctx), ErrQuit) {
		return ErrQuit
	}
	a.log.Info().Msgf("Shutting down %s.", Name)
	return nil
}

// HandleTick samples the focused window once and writes a STORE line if the
// filter accepts it. Failures are logged, never returned.
func (a *Agent) HandleTick() {
	var snap *Snapshot

	info, err := a.provider.ActiveWindow()
	switch {
	case errors.Is(err, window.ErrNoActiveWindow):
		a.log.Debug().Err(err).Msg("No active window")
	case err != nil:
		a.log.Error().Err(err).Msg("Failed to get active window")
	case info == nil:
		a.log.Error().Msg("Failed to get active window: provider returned no window")
	default:
		snap = NewSnapshot(info, a.now())
	}

	decision := a.filter.Apply(snap)

	ev := a.log.Debug().Stringer("decision", decision)
	if snap != nil {
		ev = ev.Str("name", snap.Name).
			Str("title", snap.Title).
			Int("x", snap.X).
			Int("y", snap.Y).
			Int("width", snap.Width).
			Int("height", snap.Height)
	}
	ev.Msg("Sampled active window")

	if decision != DecisionEmit {
		return
	}

	if err := a.emitter.Store(snap); err != nil {
		a.log.Error().Err(err).Msg("Failed to emit application event")
	}
}

// HandleLine parses and dispatches one input line. QUIT cancels the loop with
// ErrQuit; unknown commands are logged and ignored.
func (a *Agent) HandleLine(line string) {
	a.log.Debug().Str("line", line).Msg("Processing line")

	cmd, ok := ParseLine(line)
	if !ok {
		return
	}

	switch cmd.Name {
	case CommandQuit:
		a.log.Info().Msgf("QUIT %s.", Name)
		a.quit(ErrQuit)
	default:
		a.log.Warn().Str("command", cmd.Name).Str("args", cmd.Args).Msg("Unknown command")
	}
}

// readLines delivers newline-terminated lines from in. A trailing partial
// line is delivered at EOF, after which the channel is closed.
func readLines(in io.Reader, done <-chan struct{}, log *zerolog.Logger) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)
		reader := bufio.NewReader(in)

		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-done:
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					log.Error().Err(fmt.Errorf("failed to read input: %w", err)).Msg("Failed to process line")
				}
				return
			}
		}
	}()

	return lines
}
