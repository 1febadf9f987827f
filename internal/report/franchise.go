package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendapainel/vendapainel/internal/aggregate"
)

// ExcludedCategories are dropped from the franchise view regardless of
// filter selection. Matching is case-insensitive substring, applied
// after facet filtering.
var ExcludedCategories = []string{"CAIXA SORVETE/AÇAI", "CAIXA DE PIZZA"}

const (
	topFranchiseCategories  = 4
	topFranchiseSalespeople = 10
)

// RevenueEntry is one (key, revenue) pair of a ranking.
type RevenueEntry struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
}

// WeeklyRevenue is one point of the per-franchise weekly time series.
// WeekStart is the Monday opening the calendar week.
type WeeklyRevenue struct {
	Franchise string          `json:"franchise"`
	WeekStart time.Time       `json:"weekStart"`
	Total     decimal.Decimal `json:"total"`
}

// FranchiseView is the filtered franchise dashboard.
type FranchiseView struct {
	Empty bool `json:"empty"`
	// Rows is the filtered row-level dataset feeding the export's
	// Dados_Filtrados sheet.
	Rows []aggregate.FranchiseRow `json:"rows"`
	// RevenueByFranchise ranks every selected franchise, descending.
	RevenueByFranchise []RevenueEntry  `json:"revenueByFranchise"`
	Weekly             []WeeklyRevenue `json:"weekly"`
	TopCategories      []RevenueEntry  `json:"topCategories"`
	TopSalespeople     []RevenueEntry  `json:"topSalespeople"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	FranchiseCount     int             `json:"franchiseCount"`
}

func categoryExcluded(category string) bool {
	lc := strings.ToLower(category)
	for _, pat := range ExcludedCategories {
		if strings.Contains(lc, strings.ToLower(pat)) {
			return true
		}
	}
	return false
}

// weekStart truncates a date to the Monday on or before it.
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BuildFranchiseView applies the facet filters plus the fixed category
// exclusion and computes the franchise dashboard aggregates.
func BuildFranchiseView(table *aggregate.FranchiseTable, filters Filters) *FranchiseView {
	var filtered []aggregate.FranchiseRow
	for _, r := range table.Rows {
		if !filters.Accepts(FacetFranchises, r.Franchise) {
			continue
		}
		if !filters.Accepts(FacetItems, r.Item) {
			continue
		}
		if categoryExcluded(r.Category) {
			continue
		}
		filtered = append(filtered, r)
	}
	if len(filtered) == 0 {
		return &FranchiseView{Empty: true}
	}

	view := &FranchiseView{Rows: filtered}

	byFranchise := make(map[string]decimal.Decimal)
	byCategory := make(map[string]decimal.Decimal)
	bySeller := make(map[string]decimal.Decimal)
	type weekKey struct {
		franchise string
		week      time.Time
	}
	byWeek := make(map[weekKey]decimal.Decimal)
	for _, r := range filtered {
		view.TotalRevenue = view.TotalRevenue.Add(r.Total)
		byFranchise[r.Franchise] = byFranchise[r.Franchise].Add(r.Total)
		byCategory[r.Category] = byCategory[r.Category].Add(r.Total)
		if r.Salesperson != "" {
			bySeller[r.Salesperson] = bySeller[r.Salesperson].Add(r.Total)
		}
		k := weekKey{franchise: r.Franchise, week: weekStart(r.Date)}
		byWeek[k] = byWeek[k].Add(r.Total)
	}

	view.RevenueByFranchise = ranking(byFranchise, 0)
	view.TopCategories = ranking(byCategory, topFranchiseCategories)
	view.TopSalespeople = ranking(bySeller, topFranchiseSalespeople)
	view.FranchiseCount = len(byFranchise)

	view.Weekly = make([]WeeklyRevenue, 0, len(byWeek))
	for k, total := range byWeek {
		view.Weekly = append(view.Weekly, WeeklyRevenue{Franchise: k.franchise, WeekStart: k.week, Total: total})
	}
	sort.Slice(view.Weekly, func(i, j int) bool {
		a, b := view.Weekly[i], view.Weekly[j]
		if !a.WeekStart.Equal(b.WeekStart) {
			return a.WeekStart.Before(b.WeekStart)
		}
		return a.Franchise < b.Franchise
	})
	return view
}

// ranking sorts a revenue map descending, key ascending on ties.
// limit 0 means no truncation.
func ranking(m map[string]decimal.Decimal, limit int) []RevenueEntry {
	out := make([]RevenueEntry, 0, len(m))
	for k, v := range m {
		out = append(out, RevenueEntry{Key: k, Total: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Key < out[j].Key
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
