package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/practiz/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the exercise API over HTTP",
	RunE:  runServe,
}

func init() {
	def := server.DefaultConfig()
	serveCmd.Flags().String("addr", envOr("PRACTIZ_ADDR", def.Addr), "Listen address")
	serveCmd.Flags().StringSlice("origin", def.AllowOrigins, "Allowed CORS origins (repeatable)")
	serveCmd.Flags().Duration("request-timeout", def.RequestTimeout, "Per-request timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	origins, _ := cmd.Flags().GetStringSlice("origin")
	timeout, _ := cmd.Flags().GetDuration("request-timeout")

	d, err := openDeps(cmd, "prod")
	if err != nil {
		return err
	}
	defer d.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(d.service, server.Config{
		Addr:           addr,
		AllowOrigins:   origins,
		RequestTimeout: timeout,
	}, d.log)
	return srv.Run(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
