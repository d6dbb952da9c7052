package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/beatoz/burnboost-go/node"
	"github.com/spf13/cobra"
	"github.com/tendermint/tendermint/abci/server"
	"github.com/tendermint/tendermint/libs/log"
)

// AddNodeFlags exposes the options of the ABCI server on the command-line.
func AddNodeFlags(cmd *cobra.Command) {
	cmd.Flags().String(
		"proxy_app",
		rootConfig.ProxyApp,
		"address on which the ABCI server listens for the consensus engine")
	cmd.Flags().String("abci", rootConfig.ABCI, "specify abci transport (socket | grpc)")
	cmd.Flags().String(
		"db_dir",
		rootConfig.DBPath,
		"database directory")
}

// NewRunNodeCmd returns the command that serves the burnboost application
// to an external consensus engine.
func NewRunNodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Aliases: []string{"run"},
		Short:   "Run the burnboost ABCI application",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := node.NewBurnBoostApp(rootConfig, logger)
			if err != nil {
				return fmt.Errorf("failed to create burnboost app: %w", err)
			}

			srv, err := server.NewServer(rootConfig.ProxyApp, rootConfig.ABCI, app)
			if err != nil {
				_ = app.Stop()
				return fmt.Errorf("failed to create abci server: %w", err)
			}
			srv.SetLogger(logger.With("module", "abci-server"))

			if err := srv.Start(); err != nil {
				_ = app.Stop()
				return fmt.Errorf("failed to start abci server: %w", err)
			}
			logger.Info("Started burnboost", "address", rootConfig.ProxyApp, "transport", rootConfig.ABCI)

			// Stop upon receiving SIGTERM or CTRL-C.
			trapSignal(logger, func() {
				if srv.IsRunning() {
					if err := srv.Stop(); err != nil {
						logger.Error("unable to stop the abci server", "error", err)
					}
				}
				if err := app.Stop(); err != nil {
					logger.Error("unable to stop the burnboost app", "error", err)
				}
			})

			// Run forever.
			select {}
		},
	}

	AddNodeFlags(cmd)
	return cmd
}

// trapSignal() comes from tmos.TrapSignal
func trapSignal(logger log.Logger, cb func()) {
	var signals = []os.Signal{
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, signals...)
	go func() {
		for sig := range c {
			logger.Info("signal trapped", "msg", log.NewLazySprintf("captured %v, exiting...", sig.String()))
			if cb != nil {
				cb()
			}
			os.Exit(0)
		}
	}()
}
