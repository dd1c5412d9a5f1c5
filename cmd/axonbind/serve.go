package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/axonbind/internal/cli"
	"github.com/toyz/axonbind/internal/config"
	"github.com/toyz/axonbind/internal/server"
)

func (a *app) serveCommand() *cobra.Command {
	var noCORS bool
	cmd := &cobra.Command{
		Use:   "serve [packages...]",
		Short: "Resolve parameter bindings and serve the document over HTTP",
		Long: `serve resolves the matching packages once and publishes the result at
/swagger.json, /swagger.yaml and /operations. Operations that fail to resolve
are reported and left out of the document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			generator := cli.NewGenerator(a.config, a.diagnostics, a.logger)
			generator.SetDocumentVersion(Version)

			doc, err := generator.Run(cmd.Context(), args)
			if doc == nil {
				return err
			}
			if err != nil {
				a.diagnostics.ReportError(err)
			}
			generator.ReportSummary()

			cfg := server.DefaultConfig()
			cfg.Addr = a.config.Addr
			cfg.EnableCORS = !noCORS
			cfg.EnableLogger = a.debug || a.verbose

			srv, err := server.New(doc, cfg, a.logger.Named("server"))
			if err != nil {
				return err
			}
			a.diagnostics.Success("Serving %d operations on %s", doc.Operations(), cfg.Addr)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().String("addr", config.Default().Addr, "address to listen on")
	cmd.Flags().BoolVar(&noCORS, "no-cors", false, "disable CORS headers")
	return cmd
}
