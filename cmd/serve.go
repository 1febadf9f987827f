package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/vendapainel/vendapainel/internal/pipeline"
	"github.com/vendapainel/vendapainel/internal/schema"
	"github.com/vendapainel/vendapainel/internal/server"
	"github.com/vendapainel/vendapainel/internal/session"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := schema.ParsePolicy(cfg.SchemaReportPolicy)
		if err != nil {
			return err
		}
		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		pipe := pipeline.New(session.NewStore(), policy)
		srv := server.New(pipe, int64(cfg.MaxUploadMB)<<20)

		fmt.Fprintf(os.Stderr, "✓ Listening on %s\n", addr)
		return http.ListenAndServe(addr, srv.Routes())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
