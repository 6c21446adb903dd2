package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/existflow/taskboard/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",
	Long: `Run the task board API server.

The database and cache come from the config file or environment:
  DATABASE_DRIVER  sqlite (default), postgres or pgx
  DATABASE_URL     DSN or sqlite file path
  REDIS_URL        enables the board list cache when set

Examples:
  taskboard serve
  taskboard serve --addr :9000`,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides TASKBOARD_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	fmt.Printf("🚀 Taskboard server listening on %s (%s)\n", addr, cfg.DatabaseDriver)
	return server.Run(ctx, cfg, addr)
}
