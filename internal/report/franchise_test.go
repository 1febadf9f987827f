package report_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendapainel/vendapainel/internal/aggregate"
	"github.com/vendapainel/vendapainel/internal/report"
)

func frow(day int, total int64, franchise, item, category, seller string) aggregate.FranchiseRow {
	return aggregate.FranchiseRow{
		Date:        time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		Total:       decimal.NewFromInt(total),
		Franchise:   franchise,
		Item:        item,
		Category:    category,
		Salesperson: seller,
	}
}

func sampleFranchises() *aggregate.FranchiseTable {
	return &aggregate.FranchiseTable{Rows: []aggregate.FranchiseRow{
		frow(4, 100, "Filial Sul", "Copo 300ml", "DESCARTAVEIS", "Maria"),   // Mon 2024-03-04
		frow(6, 50, "Filial Sul", "Tampa", "DESCARTAVEIS", "José"),          // Wed, same week
		frow(11, 200, "Filial Norte", "Copo 300ml", "DESCARTAVEIS", ""),     // Mon, next week
		frow(12, 70, "Filial Norte", "Pote", "EMBALAGENS", "Maria"),         // Tue, next week
		frow(12, 999, "Filial Norte", "Caixa", "Caixa de Pizza 35cm", "Zé"), // excluded category
	}}
}

func TestFranchiseViewExclusionList(t *testing.T) {
	v := report.BuildFranchiseView(sampleFranchises(), nil)
	if v.Empty {
		t.Fatal("view should not be empty")
	}
	if len(v.Rows) != 4 {
		t.Fatalf("excluded category row survived: %d rows", len(v.Rows))
	}
	for _, r := range v.Rows {
		if r.Total.Equal(decimal.NewFromInt(999)) {
			t.Fatal("excluded row present in output")
		}
	}
	if !v.TotalRevenue.Equal(decimal.NewFromInt(420)) {
		t.Fatalf("unexpected total: %s", v.TotalRevenue)
	}
}

func TestFranchiseViewExclusionBeatsSelection(t *testing.T) {
	// A franchise whose only rows are in an excluded category: empty result.
	table := &aggregate.FranchiseTable{Rows: []aggregate.FranchiseRow{
		frow(5, 80, "Filial Oeste", "Caixa", "CAIXA SORVETE/AÇAI", "Maria"),
		frow(6, 20, "Filial Oeste", "Caixa G", "caixa sorvete/açai", "Maria"),
	}}
	v := report.BuildFranchiseView(table, report.Filters{report.FacetFranchises: {"Filial Oeste"}})
	if !v.Empty {
		t.Fatal("expected the empty marker")
	}
}

func TestFranchiseViewRankingsAndCount(t *testing.T) {
	v := report.BuildFranchiseView(sampleFranchises(), nil)
	if v.FranchiseCount != 2 {
		t.Fatalf("unexpected franchise count: %d", v.FranchiseCount)
	}
	if v.RevenueByFranchise[0].Key != "Filial Norte" || !v.RevenueByFranchise[0].Total.Equal(decimal.NewFromInt(270)) {
		t.Fatalf("unexpected ranking head: %+v", v.RevenueByFranchise[0])
	}
	if v.TopCategories[0].Key != "DESCARTAVEIS" {
		t.Fatalf("unexpected top category: %+v", v.TopCategories[0])
	}
	// The row with a null salesperson is skipped by the seller ranking.
	if len(v.TopSalespeople) != 2 || v.TopSalespeople[0].Key != "Maria" {
		t.Fatalf("unexpected salespeople ranking: %+v", v.TopSalespeople)
	}
	if !v.TopSalespeople[0].Total.Equal(decimal.NewFromInt(170)) {
		t.Fatalf("unexpected Maria total: %s", v.TopSalespeople[0].Total)
	}
}

func TestFranchiseViewWeeklySeries(t *testing.T) {
	v := report.BuildFranchiseView(sampleFranchises(), nil)
	if len(v.Weekly) != 2 {
		t.Fatalf("unexpected weekly points: %+v", v.Weekly)
	}
	first := v.Weekly[0]
	if first.WeekStart.Weekday() != time.Monday {
		t.Fatalf("weeks must anchor to Monday, got %s", first.WeekStart.Weekday())
	}
	if !first.WeekStart.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected first week: %s", first.WeekStart)
	}
	if first.Franchise != "Filial Sul" || !first.Total.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected first point: %+v", first)
	}
	for _, p := range v.Weekly {
		if p.WeekStart.Weekday() != time.Monday {
			t.Fatalf("non-Monday anchor: %s", p.WeekStart)
		}
	}
}

func TestFranchiseViewItemFacet(t *testing.T) {
	base := report.BuildFranchiseView(sampleFranchises(), nil)
	narrowed := report.BuildFranchiseView(sampleFranchises(), report.Filters{report.FacetItems: {"Copo 300ml"}})
	if len(narrowed.Rows) > len(base.Rows) {
		t.Fatal("facet restriction increased the result")
	}
	if len(narrowed.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(narrowed.Rows))
	}
}
