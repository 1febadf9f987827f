// Package report computes the interactive filtered views and their
// chart-ready aggregates. The same view objects feed both the JSON API
// and the spreadsheet export, so display and export cannot diverge.
package report

// Facet names accepted by the two views.
const (
	FacetCustomers   = "customers"
	FacetSalespeople = "salespeople"
	FacetFranchises  = "franchises"
	FacetItems       = "items"
)

// Dataset kinds, named after the dashboards they feed.
const (
	KindCustomer  = "clientes"
	KindFranchise = "franquias"
)

// Filters maps a facet name to the set of accepted values. An absent or
// empty facet accepts everything; facets AND together and values within
// a facet OR together.
type Filters map[string][]string

// Accepts reports whether a value passes the named facet.
func (f Filters) Accepts(facet, value string) bool {
	vals := f[facet]
	if len(vals) == 0 {
		return true
	}
	for _, v := range vals {
		if v == value {
			return true
		}
	}
	return false
}
