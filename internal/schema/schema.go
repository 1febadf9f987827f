// Package schema declares the fixed column contract of the sales export
// and validates decoded tables against it. Validation is presence-only:
// type coercion and null handling belong to the aggregation layer.
package schema

import (
	"fmt"
	"strings"

	"github.com/vendapainel/vendapainel/internal/dataset"
)

// Column names as they appear in the billing-module export, post-trim.
const (
	ColIssueDate   = "Data Emissao"
	ColTotalValue  = "R$ Total"
	ColCustomer    = "Nome Fantasia"
	ColSalesperson = "Vendedor"
	ColFranchise   = "FRANQUIA"
	ColItem        = "Descrição Item"
	ColCategory    = "Categoria"
)

// ColumnSet is a named list of required columns for one reporting view.
type ColumnSet struct {
	Name    string
	Columns []string
}

var (
	// CustomerColumns gates the per-customer revenue/recency view.
	CustomerColumns = ColumnSet{
		Name:    "clientes",
		Columns: []string{ColIssueDate, ColTotalValue, ColCustomer, ColSalesperson},
	}
	// FranchiseColumns gates the per-franchise analytical view.
	FranchiseColumns = ColumnSet{
		Name:    "franquias",
		Columns: []string{ColIssueDate, ColTotalValue, ColFranchise, ColItem, ColCategory},
	}
)

// Validate reports whether every column of the set exists in the table.
func Validate(t *dataset.Table, set ColumnSet) bool {
	return len(Missing(t, set)) == 0
}

// Missing lists the set's columns absent from the table, in set order.
func Missing(t *dataset.Table, set ColumnSet) []string {
	var missing []string
	for _, c := range set.Columns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// SchemaError indicates neither column set validated. It carries the
// missing columns of whichever set the configured policy selected.
type SchemaError struct {
	Set     string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns for the %s view: %s", e.Set, strings.Join(e.Missing, ", "))
}

// ReportPolicy selects which set's missing columns a SchemaError reports
// when both candidate schemas fail.
type ReportPolicy string

const (
	// ReportCustomer always reports the customer set (the legacy behavior).
	ReportCustomer ReportPolicy = "customer"
	// ReportFranchise always reports the franchise set.
	ReportFranchise ReportPolicy = "franchise"
	// ReportClosest reports the set with the fewest missing columns,
	// customer winning ties.
	ReportClosest ReportPolicy = "closest"
)

// ParsePolicy maps a config string to a ReportPolicy, defaulting to
// ReportCustomer for empty input.
func ParsePolicy(s string) (ReportPolicy, error) {
	switch ReportPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", ReportCustomer:
		return ReportCustomer, nil
	case ReportFranchise:
		return ReportFranchise, nil
	case ReportClosest:
		return ReportClosest, nil
	}
	return "", fmt.Errorf("unknown schema report policy %q (use customer|franchise|closest)", s)
}

// CheckEither passes when at least one view's columns are present.
// Otherwise it returns a SchemaError shaped by the policy.
func CheckEither(t *dataset.Table, policy ReportPolicy) error {
	missCustomer := Missing(t, CustomerColumns)
	missFranchise := Missing(t, FranchiseColumns)
	if len(missCustomer) == 0 || len(missFranchise) == 0 {
		return nil
	}
	set, missing := CustomerColumns.Name, missCustomer
	switch policy {
	case ReportFranchise:
		set, missing = FranchiseColumns.Name, missFranchise
	case ReportClosest:
		if len(missFranchise) < len(missCustomer) {
			set, missing = FranchiseColumns.Name, missFranchise
		}
	}
	return &SchemaError{Set: set, Missing: missing}
}
