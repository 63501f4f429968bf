package commands

import (
	"log/slog"
	"time"

	"herowiki/internal/web"
	libtelemetry "herowiki/lib/telemetry"
	"herowiki/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var servePort *int

func init() {
	servePort = serveCmd.Flags().IntP("port", "p", 0, "The port to listen on, defaults to the configured web port.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port <port>]",
	Short: "Serves the hero wiki over http.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, done, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer done()

		server, err := web.NewServer(store, tel)
		if err != nil {
			return err
		}

		port := cfg.Web.Port
		if *servePort != 0 {
			port = *servePort
		}

		libtelemetry.InstrumentPerfStats(ctx, 30*time.Second, tel)

		slog.Info("serving hero wiki", "port", port)
		return serviceutil.StartHttpServer(ctx, port, server.Handler())
	},
}
