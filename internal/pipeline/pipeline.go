// Package pipeline orchestrates one interaction at a time: ingest an
// upload into a session snapshot, or answer a filter/export request
// from the current snapshot. Every step is pure given its inputs, so a
// failed interaction never corrupts state for the next one.
package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vendapainel/vendapainel/internal/aggregate"
	"github.com/vendapainel/vendapainel/internal/dataset"
	"github.com/vendapainel/vendapainel/internal/decode"
	"github.com/vendapainel/vendapainel/internal/export"
	"github.com/vendapainel/vendapainel/internal/report"
	"github.com/vendapainel/vendapainel/internal/schema"
	"github.com/vendapainel/vendapainel/internal/session"
)

// ViewUnavailableError indicates the current file does not support the
// requested view, or no file was uploaded yet.
type ViewUnavailableError struct {
	Kind string
}

func (e *ViewUnavailableError) Error() string {
	return fmt.Sprintf("the %s view is not available for the current session", e.Kind)
}

// Pipeline binds the ingestion steps to a session store.
type Pipeline struct {
	store  *session.Store
	policy schema.ReportPolicy
}

// New returns a pipeline publishing into the given store.
func New(store *session.Store, policy schema.ReportPolicy) *Pipeline {
	if policy == "" {
		policy = schema.ReportCustomer
	}
	return &Pipeline{store: store, policy: policy}
}

// Store exposes the underlying session store.
func (p *Pipeline) Store() *session.Store { return p.store }

// Ingest runs decode → schema check → aggregation and publishes the
// resulting snapshot. On any failure nothing is stored and the previous
// snapshot stays untouched.
func (p *Pipeline) Ingest(data []byte, filename string) (*session.Snapshot, error) {
	table, err := decode.Decode(data, filename)
	if err != nil {
		return nil, err
	}
	if err := schema.CheckEither(table, p.policy); err != nil {
		return nil, err
	}
	res, err := aggregate.Aggregate(table)
	if err != nil {
		return nil, err
	}
	snap := &session.Snapshot{
		ID:         uuid.New(),
		Filename:   filename,
		UploadedAt: time.Now().UTC(),
		Raw:        table,
		Customers:  res.Customers,
		Franchise:  res.Franchise,
	}
	p.store.Replace(snap)
	return snap, nil
}

// Diagnose re-runs aggregation for its diagnostic counters without
// touching session state.
func (p *Pipeline) Diagnose(table *dataset.Table) (aggregate.Diagnostic, error) {
	res, err := aggregate.Aggregate(table)
	if err != nil {
		return aggregate.Diagnostic{}, err
	}
	return res.Diag, nil
}

// CustomerView filters the current customer dataset.
func (p *Pipeline) CustomerView(filters report.Filters) (*report.CustomerView, error) {
	snap := p.store.Current()
	if !snap.HasCustomers() {
		return nil, &ViewUnavailableError{Kind: report.KindCustomer}
	}
	return report.BuildCustomerView(snap.Customers, filters), nil
}

// FranchiseView filters the current franchise dataset.
func (p *Pipeline) FranchiseView(filters report.Filters) (*report.FranchiseView, error) {
	snap := p.store.Current()
	if !snap.HasFranchise() {
		return nil, &ViewUnavailableError{Kind: report.KindFranchise}
	}
	return report.BuildFranchiseView(snap.Franchise, filters), nil
}

// ExportCustomer renders the customer report for the same filters the
// interactive view would use. An unavailable view exports nothing.
func (p *Pipeline) ExportCustomer(filters report.Filters) ([]byte, error) {
	view, err := p.CustomerView(filters)
	if err != nil {
		return nil, &export.NothingToExportError{Kind: report.KindCustomer}
	}
	return export.CustomerReport(view)
}

// ExportFranchise renders the franchise report.
func (p *Pipeline) ExportFranchise(filters report.Filters) ([]byte, error) {
	view, err := p.FranchiseView(filters)
	if err != nil {
		return nil, &export.NothingToExportError{Kind: report.KindFranchise}
	}
	return export.FranchiseReport(view)
}

// FacetOptions enumerates the distinct values feeding a view's filter
// controls.
func (p *Pipeline) FacetOptions(kind string) (map[string][]string, error) {
	snap := p.store.Current()
	switch kind {
	case report.KindCustomer:
		if !snap.HasCustomers() {
			return nil, &ViewUnavailableError{Kind: kind}
		}
		customers := make(map[string]bool)
		sellers := make(map[string]bool)
		for _, c := range snap.Customers {
			customers[c.Name] = true
			sellers[c.LastSalesperson] = true
		}
		return map[string][]string{
			report.FacetCustomers:   sortedKeys(customers),
			report.FacetSalespeople: sortedKeys(sellers),
		}, nil
	case report.KindFranchise:
		if !snap.HasFranchise() {
			return nil, &ViewUnavailableError{Kind: kind}
		}
		franchises := make(map[string]bool)
		items := make(map[string]bool)
		for _, r := range snap.Franchise.Rows {
			franchises[r.Franchise] = true
			items[r.Item] = true
		}
		return map[string][]string{
			report.FacetFranchises: sortedKeys(franchises),
			report.FacetItems:      sortedKeys(items),
		}, nil
	}
	return nil, fmt.Errorf("unknown dataset kind %q", kind)
}
