package serve

import (
	"context"
	"log/slog"

	"magpie/internal/app"
	"magpie/internal/gateway"
	"magpie/internal/trace"

	"github.com/spf13/cobra"
)

var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the agents over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		a, err := app.Build(cfgPath)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.Config.Trace.Enabled {
			shutdown, err := trace.Init(cmd.Context(), trace.Config{
				Endpoint: a.Config.Trace.Endpoint,
				URLPath:  a.Config.Trace.URLPath,
				APIKey:   a.Config.Trace.APIKey,
			})
			if err != nil {
				return err
			}
			defer shutdown(context.Background())
		}

		srv := gateway.NewServer(a.Registry, a.Runner, a.Sessions)
		slog.Info("gateway listening", "addr", a.Config.Gateway.Addr)
		return srv.ListenAndServe(a.Config.Gateway.Addr)
	},
}
