// Package export serializes filtered views into multi-sheet xlsx
// reports. It renders the exact view object the interactive path
// computed; it never re-filters or re-aggregates.
package export

import (
	"fmt"

	"github.com/vendapainel/vendapainel/internal/report"
	"github.com/vendapainel/vendapainel/internal/schema"
)

// Conventional download names for the two reports.
const (
	CustomerReportFilename  = "Relatorio_Analise_Clientes.xlsx"
	FranchiseReportFilename = "Relatorio_Analitico_Franquias.xlsx"
)

// Customer report sheets.
const (
	SheetCustomerAll     = "Relatorio_Geral_Filtrado"
	SheetCustomerAbove50 = "Clientes_Acima_50k"
	SheetCustomerBelow50 = "Clientes_Abaixo_50k"
)

// Franchise report sheets.
const (
	SheetFranchiseRows       = "Dados_Filtrados"
	SheetFranchiseTotals     = "Resumo_Total_Franquia"
	SheetFranchiseWeekly     = "Resumo_Semanal"
	SheetFranchiseCategories = "Resumo_Categorias"
	SheetFranchiseSellers    = "Resumo_Vendedores"
)

const dateLayout = "02/01/2006"

// NothingToExportError marks an export request with no active dataset or
// an empty filtered result. Callers map it to a no-op, not a user error.
type NothingToExportError struct {
	Kind string
}

func (e *NothingToExportError) Error() string {
	return fmt.Sprintf("nothing to export for the %s view", e.Kind)
}

// CustomerReport renders the customer view as xlsx bytes.
func CustomerReport(view *report.CustomerView) ([]byte, error) {
	if view == nil || view.Empty {
		return nil, &NothingToExportError{Kind: report.KindCustomer}
	}
	w := newWorkbook()
	header := []any{
		schema.ColCustomer, "Faturamento Total", "Ultima Compra",
		"Vendedor da Ultima Compra", "Dias Sem Comprar",
	}
	if err := w.addCustomerSheet(SheetCustomerAll, header, view.Rows); err != nil {
		return nil, err
	}
	if err := w.addCustomerSheet(SheetCustomerAbove50, header, view.Above50k); err != nil {
		return nil, err
	}
	if err := w.addCustomerSheet(SheetCustomerBelow50, header, view.Below50k); err != nil {
		return nil, err
	}
	return w.bytes()
}

// FranchiseReport renders the franchise view as xlsx bytes.
func FranchiseReport(view *report.FranchiseView) ([]byte, error) {
	if view == nil || view.Empty {
		return nil, &NothingToExportError{Kind: report.KindFranchise}
	}
	w := newWorkbook()

	rows := make([][]any, 0, len(view.Rows)+1)
	rows = append(rows, []any{
		schema.ColIssueDate, schema.ColFranchise, schema.ColItem,
		schema.ColCategory, schema.ColSalesperson, schema.ColTotalValue,
	})
	for _, r := range view.Rows {
		rows = append(rows, []any{
			r.Date.Format(dateLayout), r.Franchise, r.Item,
			r.Category, r.Salesperson, r.Total.InexactFloat64(),
		})
	}
	if err := w.addSheet(SheetFranchiseRows, rows); err != nil {
		return nil, err
	}
	if err := w.addRankingSheet(SheetFranchiseTotals, schema.ColFranchise, view.RevenueByFranchise); err != nil {
		return nil, err
	}

	weekly := make([][]any, 0, len(view.Weekly)+1)
	weekly = append(weekly, []any{schema.ColFranchise, schema.ColIssueDate, schema.ColTotalValue})
	for _, p := range view.Weekly {
		weekly = append(weekly, []any{p.Franchise, p.WeekStart.Format(dateLayout), p.Total.InexactFloat64()})
	}
	if err := w.addSheet(SheetFranchiseWeekly, weekly); err != nil {
		return nil, err
	}
	if err := w.addRankingSheet(SheetFranchiseCategories, schema.ColCategory, view.TopCategories); err != nil {
		return nil, err
	}
	if err := w.addRankingSheet(SheetFranchiseSellers, schema.ColSalesperson, view.TopSalespeople); err != nil {
		return nil, err
	}
	return w.bytes()
}
