package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/vendapainel/vendapainel/internal/config"
)

var (
	// Global flags (wired to config)
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "vendapainel",
	Short: "vendapainel: adaptive sales-analytics dashboard for billing exports",
	Long: `vendapainel ingests a billing-module sales export (CSV or Excel),
derives whichever analysis datasets the file supports (customers,
franchises, or both), and serves interactive filtered views plus
multi-sheet spreadsheet reports.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.vendapainel/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{ListenAddr: ":8050", SchemaReportPolicy: "customer", OutputDir: ".", MaxUploadMB: 32}
	}
	cfg = c
}
