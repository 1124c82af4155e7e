package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/bryanchriswhite/mnemnk-application/internal/agent"
	"github.com/bryanchriswhite/mnemnk-application/internal/config"
	"github.com/bryanchriswhite/mnemnk-application/internal/logger"
	"github.com/bryanchriswhite/mnemnk-application/internal/window"
	"github.com/spf13/cobra"
)

func runAgent(cmd *cobra.Command, args []string) error {
	settings := config.LoadSettings()
	logger.Init(settings.LogLevel, settings.LogPretty)

	cfg := config.Load(configJSON)

	provider := window.NewProvider()
	defer provider.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := agent.New(cfg, provider, os.Stdout).Run(ctx, os.Stdin)
	if errors.Is(err, agent.ErrQuit) {
		// QUIT ends the process on the spot; nothing is left to flush
		os.Exit(0)
	}
	return err
}
