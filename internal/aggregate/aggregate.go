// Package aggregate derives the reporting datasets from a raw table.
// The two branches are independent on purpose: one uploaded file may
// support the customer view, the franchise view, both or neither, and
// a column missing for one view must not reject the other.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendapainel/vendapainel/internal/dataset"
	"github.com/vendapainel/vendapainel/internal/schema"
)

// CustomerSummary is one row of the per-customer revenue/recency view.
type CustomerSummary struct {
	Name                  string          `json:"name"`
	TotalRevenue          decimal.Decimal `json:"totalRevenue"`
	LastPurchase          time.Time       `json:"lastPurchase"`
	LastSalesperson       string          `json:"lastSalesperson"`
	DaysSinceLastPurchase int             `json:"daysSinceLastPurchase"`
}

// FranchiseRow is one cleaned transaction of the franchise dataset.
// No aggregation is pre-computed here; the report layer aggregates on
// demand per filter interaction.
type FranchiseRow struct {
	Date        time.Time       `json:"date"`
	Total       decimal.Decimal `json:"total"`
	Franchise   string          `json:"franchise"`
	Item        string          `json:"item"`
	Category    string          `json:"category"`
	Salesperson string          `json:"salesperson,omitempty"`
}

// FranchiseTable is the cleaned row-level franchise dataset.
type FranchiseTable struct {
	Rows []FranchiseRow `json:"rows"`
}

// Diagnostic counts what the coercion and null-filtering steps kept and
// dropped. It is data, not errors: unparseable cells degrade to null by
// design.
type Diagnostic struct {
	TotalRows     int `json:"totalRows"`
	CustomerRows  int `json:"customerRows"`
	FranchiseRows int `json:"franchiseRows"`
	BadDates      int `json:"badDates"`
	BadValues     int `json:"badValues"`
}

// Result carries whichever derived datasets the raw table supported.
// Either field may be nil; never both (that case is NoUsableDataError).
type Result struct {
	Customers []CustomerSummary
	Franchise *FranchiseTable
	Diag      Diagnostic
}

// NoUsableDataError indicates the columns were present for at least one
// view but no row survived coercion and null-filtering for either.
type NoUsableDataError struct{}

func (*NoUsableDataError) Error() string {
	return "no rows are usable for either the customer or the franchise view"
}

type coercedRow struct {
	date     time.Time
	hasDate  bool
	total    decimal.Decimal
	hasTotal bool
}

// Aggregate derives both datasets from the raw table. It is a pure
// function of the table: re-running it yields identical results.
func Aggregate(t *dataset.Table) (*Result, error) {
	dateIdx := t.ColumnIndex(schema.ColIssueDate)
	totalIdx := t.ColumnIndex(schema.ColTotalValue)

	coerced := make([]coercedRow, len(t.Rows))
	diag := Diagnostic{TotalRows: len(t.Rows)}
	for i := range t.Rows {
		if dateIdx >= 0 {
			raw := t.Cell(i, dateIdx)
			if d, ok := ParseDate(raw); ok {
				coerced[i].date, coerced[i].hasDate = d, true
			} else if raw != "" {
				diag.BadDates++
			}
		}
		if totalIdx >= 0 {
			raw := t.Cell(i, totalIdx)
			if v, ok := ParseMoney(raw); ok {
				coerced[i].total, coerced[i].hasTotal = v, true
			} else if raw != "" {
				diag.BadValues++
			}
		}
	}

	res := &Result{Diag: diag}
	res.Customers = customerBranch(t, coerced, &res.Diag)
	res.Franchise = franchiseBranch(t, coerced, &res.Diag)

	if res.Customers == nil && res.Franchise == nil {
		return nil, &NoUsableDataError{}
	}
	return res, nil
}

// customerBranch groups qualifying rows by customer name. The recency
// reference is the max issue date across the qualifying subset, not
// wall-clock time, so the output is reproducible from the same file.
func customerBranch(t *dataset.Table, coerced []coercedRow, diag *Diagnostic) []CustomerSummary {
	nameIdx := t.ColumnIndex(schema.ColCustomer)
	sellerIdx := t.ColumnIndex(schema.ColSalesperson)
	dateIdx := t.ColumnIndex(schema.ColIssueDate)
	totalIdx := t.ColumnIndex(schema.ColTotalValue)
	if nameIdx < 0 || sellerIdx < 0 || dateIdx < 0 || totalIdx < 0 {
		return nil
	}

	type qRow struct {
		name   string
		seller string
		date   time.Time
		total  decimal.Decimal
	}
	var rows []qRow
	for i := range t.Rows {
		c := coerced[i]
		name := t.Cell(i, nameIdx)
		seller := t.Cell(i, sellerIdx)
		if !c.hasDate || !c.hasTotal || name == "" || seller == "" {
			continue
		}
		rows = append(rows, qRow{name: name, seller: seller, date: c.date, total: c.total})
	}
	if len(rows) == 0 {
		return nil
	}
	diag.CustomerRows = len(rows)

	// Ascending stable sort by date; iterating in order means the last
	// occurrence wins the salesperson-of-last-purchase tie break.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	byName := make(map[string]*CustomerSummary)
	var globalMax time.Time
	for _, r := range rows {
		s := byName[r.name]
		if s == nil {
			s = &CustomerSummary{Name: r.name}
			byName[r.name] = s
		}
		s.TotalRevenue = s.TotalRevenue.Add(r.total)
		s.LastPurchase = r.date
		s.LastSalesperson = r.seller
		if r.date.After(globalMax) {
			globalMax = r.date
		}
	}

	out := make([]CustomerSummary, 0, len(byName))
	for _, s := range byName {
		s.DaysSinceLastPurchase = wholeDays(s.LastPurchase, globalMax)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func franchiseBranch(t *dataset.Table, coerced []coercedRow, diag *Diagnostic) *FranchiseTable {
	franchiseIdx := t.ColumnIndex(schema.ColFranchise)
	if franchiseIdx < 0 {
		return nil
	}
	itemIdx := t.ColumnIndex(schema.ColItem)
	catIdx := t.ColumnIndex(schema.ColCategory)
	sellerIdx := t.ColumnIndex(schema.ColSalesperson)
	if itemIdx < 0 || catIdx < 0 {
		return nil
	}

	var rows []FranchiseRow
	for i := range t.Rows {
		c := coerced[i]
		franchise := t.Cell(i, franchiseIdx)
		item := t.Cell(i, itemIdx)
		category := t.Cell(i, catIdx)
		if !c.hasDate || !c.hasTotal || franchise == "" || item == "" || category == "" {
			continue
		}
		row := FranchiseRow{
			Date:      c.date,
			Total:     c.total,
			Franchise: franchise,
			Item:      item,
			Category:  category,
		}
		if sellerIdx >= 0 {
			row.Salesperson = t.Cell(i, sellerIdx)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}
	diag.FranchiseRows = len(rows)
	return &FranchiseTable{Rows: rows}
}

func wholeDays(from, to time.Time) int {
	d := int(to.Sub(from).Hours() / 24)
	if d < 0 {
		d = 0
	}
	return d
}
