package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ppiankov/arcaxh/internal/model"
	"github.com/ppiankov/arcaxh/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the translator as a JSON HTTP API",
	Long: `Serve exposes translation over HTTP until interrupted.

Endpoints:
  GET  /api/translate?text=<text>
  POST /api/translate        {"text": "..."}
  GET  /api/analyze?word=<word>
  GET  /api/lexicon
  GET  /healthz

Example:
  arcaxh serve
  arcaxh serve --addr 127.0.0.1:9000 --max-conns 64`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	defaults := model.DefaultConfig()

	serveCmd.Flags().String("addr", defaults.Server.Addr, "listen address")
	serveCmd.Flags().Int("max-conns", defaults.Server.MaxConns, "maximum simultaneous connections (0 = unlimited)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, tr, err := setup(false)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(tr, cfg, logger).ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
