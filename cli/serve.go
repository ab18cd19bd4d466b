package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gear6io/lakecat/server"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configured catalog over the REST protocol",
	Long: `Run a catalog server exposing the configured backend over HTTP.

Remote clients configure a rest catalog pointing at this server's
address and use it like any other backend.

Example:
  lakecat serve --addr :8181`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8181", "listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cat, logger, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	srv := server.New(serveAddr, cat, logger)
	if err := srv.Start(cmd.Context()); err != nil {
		return err
	}

	pterm.Success.Printf("Catalog server listening on %s (backend: %s)\n", srv.Addr(), cat.Type())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
