package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vendapainel/vendapainel/internal/export"
	"github.com/vendapainel/vendapainel/internal/pipeline"
	"github.com/vendapainel/vendapainel/internal/report"
	"github.com/vendapainel/vendapainel/internal/schema"
	"github.com/vendapainel/vendapainel/internal/session"
)

var (
	expOutputDir    string
	expCustomers    []string
	expSalespeople  []string
	expFranchises   []string
	expItems        []string
	expCustomerOnly bool
	expFranchOnly   bool
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Ingest a sales export and write the xlsx reports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		policy, err := schema.ParsePolicy(cfg.SchemaReportPolicy)
		if err != nil {
			return err
		}
		outDir := cfg.OutputDir
		if expOutputDir != "" {
			outDir = expOutputDir
		}

		pipe := pipeline.New(session.NewStore(), policy)
		if _, err := pipe.Ingest(data, filepath.Base(path)); err != nil {
			return err
		}

		wrote := 0
		if !expFranchOnly {
			filters := report.Filters{
				report.FacetCustomers:   expCustomers,
				report.FacetSalespeople: expSalespeople,
			}
			n, err := writeReport(outDir, export.CustomerReportFilename, func() ([]byte, error) {
				return pipe.ExportCustomer(filters)
			})
			if err != nil {
				return err
			}
			wrote += n
		}
		if !expCustomerOnly {
			filters := report.Filters{
				report.FacetFranchises: expFranchises,
				report.FacetItems:      expItems,
			}
			n, err := writeReport(outDir, export.FranchiseReportFilename, func() ([]byte, error) {
				return pipe.ExportFranchise(filters)
			})
			if err != nil {
				return err
			}
			wrote += n
		}
		if wrote == 0 {
			fmt.Fprintln(os.Stderr, "⚠ Nothing to export for the selected views")
		}
		return nil
	},
}

// writeReport writes one report, treating NothingToExport as a skip.
// Returns 1 when a file was written.
func writeReport(dir, name string, render func() ([]byte, error)) (int, error) {
	data, err := render()
	if err != nil {
		var nte *export.NothingToExportError
		if errors.As(err, &nte) {
			if debug {
				fmt.Fprintf(os.Stderr, "⚠ Skipping %s: %v\n", name, err)
			}
			return 0, nil
		}
		return 0, err
	}
	out := filepath.Join(dir, name)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return 0, fmt.Errorf("write report: %w", err)
	}
	fmt.Printf("✓ Wrote %s\n", out)
	return 1, nil
}

func init() {
	exportCmd.Flags().StringVarP(&expOutputDir, "output", "o", "", "output directory (overrides config)")
	exportCmd.Flags().StringSliceVar(&expCustomers, "customer", nil, "filter by customer name (repeatable)")
	exportCmd.Flags().StringSliceVar(&expSalespeople, "salesperson", nil, "filter by salesperson of last purchase (repeatable)")
	exportCmd.Flags().StringSliceVar(&expFranchises, "franchise", nil, "filter by franchise (repeatable)")
	exportCmd.Flags().StringSliceVar(&expItems, "item", nil, "filter by item description (repeatable)")
	exportCmd.Flags().BoolVar(&expCustomerOnly, "customers-only", false, "write only the customer report")
	exportCmd.Flags().BoolVar(&expFranchOnly, "franchises-only", false, "write only the franchise report")
	rootCmd.AddCommand(exportCmd)
}
