package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vendapainel/vendapainel/internal/aggregate"
)

// RevenueThreshold splits customers into the two dashboard tables.
var RevenueThreshold = decimal.NewFromInt(50000)

const topCustomers = 10

// CustomerView is the filtered customer dashboard: plain row lists and
// numbers, never widget descriptors.
type CustomerView struct {
	Empty bool `json:"empty"`
	// Rows is the full filtered summary ordered by recency, most days
	// without a purchase first.
	Rows []aggregate.CustomerSummary `json:"rows"`
	// Above50k and Below50k partition Rows by total revenue, both
	// ordered by revenue descending.
	Above50k []aggregate.CustomerSummary `json:"above50k"`
	Below50k []aggregate.CustomerSummary `json:"below50k"`
	// Top10 is the revenue ranking for the overview chart.
	Top10         []aggregate.CustomerSummary `json:"top10"`
	TotalRevenue  decimal.Decimal             `json:"totalRevenue"`
	CustomerCount int                         `json:"customerCount"`
}

// BuildCustomerView applies the facet filters and computes the customer
// dashboard aggregates. An empty post-filter set is flagged, not an
// error, so the caller can render a "no data" state.
func BuildCustomerView(rows []aggregate.CustomerSummary, filters Filters) *CustomerView {
	var filtered []aggregate.CustomerSummary
	for _, r := range rows {
		if !filters.Accepts(FacetCustomers, r.Name) {
			continue
		}
		if !filters.Accepts(FacetSalespeople, r.LastSalesperson) {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) == 0 {
		return &CustomerView{Empty: true}
	}

	view := &CustomerView{
		Rows:          append([]aggregate.CustomerSummary(nil), filtered...),
		CustomerCount: len(filtered),
	}
	sort.SliceStable(view.Rows, func(i, j int) bool {
		return view.Rows[i].DaysSinceLastPurchase > view.Rows[j].DaysSinceLastPurchase
	})

	byRevenue := append([]aggregate.CustomerSummary(nil), filtered...)
	sort.SliceStable(byRevenue, func(i, j int) bool {
		return byRevenue[i].TotalRevenue.GreaterThan(byRevenue[j].TotalRevenue)
	})
	for _, r := range byRevenue {
		view.TotalRevenue = view.TotalRevenue.Add(r.TotalRevenue)
		if r.TotalRevenue.GreaterThanOrEqual(RevenueThreshold) {
			view.Above50k = append(view.Above50k, r)
		} else {
			view.Below50k = append(view.Below50k, r)
		}
	}
	n := topCustomers
	if n > len(byRevenue) {
		n = len(byRevenue)
	}
	view.Top10 = byRevenue[:n]
	return view
}
