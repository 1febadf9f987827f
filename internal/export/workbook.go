package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/vendapainel/vendapainel/internal/aggregate"
	"github.com/vendapainel/vendapainel/internal/report"
)

// workbook wraps excelize so every sheet goes through the same row
// writer. The first added sheet replaces the default Sheet1.
type workbook struct {
	f     *excelize.File
	first bool
}

func newWorkbook() *workbook {
	return &workbook{f: excelize.NewFile(), first: true}
}

func (w *workbook) addSheet(name string, rows [][]any) error {
	if w.first {
		if err := w.f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
		w.first = false
	} else {
		if _, err := w.f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("sheet %s row %d: %w", name, i+1, err)
		}
		if err := w.f.SetSheetRow(name, cell, &rows[i]); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", name, i+1, err)
		}
	}
	return nil
}

func (w *workbook) addCustomerSheet(name string, header []any, rows []aggregate.CustomerSummary) error {
	out := make([][]any, 0, len(rows)+1)
	out = append(out, header)
	for _, r := range rows {
		out = append(out, []any{
			r.Name, r.TotalRevenue.InexactFloat64(), r.LastPurchase.Format(dateLayout),
			r.LastSalesperson, r.DaysSinceLastPurchase,
		})
	}
	return w.addSheet(name, out)
}

func (w *workbook) addRankingSheet(name, keyHeader string, entries []report.RevenueEntry) error {
	out := make([][]any, 0, len(entries)+1)
	out = append(out, []any{keyHeader, "R$ Total"})
	for _, e := range entries {
		out = append(out, []any{e.Key, e.Total.InexactFloat64()})
	}
	return w.addSheet(name, out)
}

func (w *workbook) bytes() ([]byte, error) {
	defer w.f.Close()
	var buf bytes.Buffer
	if _, err := w.f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
