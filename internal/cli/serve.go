package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go.leafdb/internal/engine"
	"go.leafdb/internal/logger"
	"go.leafdb/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve [path]",
	Short: "Serve a database over TCP",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var name string
		if len(args) == 1 {
			name = args[0]
		}

		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		log := logger.New(cmd.ErrOrStderr(), level)

		db, err := engine.OpenFromConfig(cfg, name)
		if err != nil {
			return fmt.Errorf("Failed to open Database: %w", err)
		}
		defer func() {
			if cErr := db.Close(); cErr != nil && err == nil {
				err = cErr
			}
		}()

		srv, err := server.New(cfg, db, log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Infof("Serving %s on %s", db.Path(), cfg.Addr)
		return srv.Listen(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
