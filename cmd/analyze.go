package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vendapainel/vendapainel/internal/pipeline"
	"github.com/vendapainel/vendapainel/internal/schema"
	"github.com/vendapainel/vendapainel/internal/session"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Ingest a sales export and summarize what it supports",
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

		pipe := pipeline.New(session.NewStore(), policy)
		snap, err := pipe.Ingest(data, filepath.Base(path))
		if err != nil {
			return err
		}
		diag, err := pipe.Diagnose(snap.Raw)
		if err != nil {
			return err
		}

		fmt.Printf("File: %s\n", snap.Filename)
		fmt.Printf("Rows: %d (unparseable dates: %d, unparseable values: %d)\n",
			diag.TotalRows, diag.BadDates, diag.BadValues)
		if snap.HasCustomers() {
			fmt.Printf("Customer view: %d customers from %d qualifying rows\n",
				len(snap.Customers), diag.CustomerRows)
		} else {
			fmt.Println("Customer view: not available")
		}
		if snap.HasFranchise() {
			fmt.Printf("Franchise view: %d qualifying rows\n", diag.FranchiseRows)
		} else {
			fmt.Println("Franchise view: not available")
		}
		if debug {
			for _, c := range snap.Customers {
				fmt.Fprintf(os.Stderr, "  %s\ttotal=%s\tlast=%s\tseller=%s\tdays=%d\n",
					c.Name, c.TotalRevenue, c.LastPurchase.Format("02/01/2006"),
					c.LastSalesperson, c.DaysSinceLastPurchase)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
