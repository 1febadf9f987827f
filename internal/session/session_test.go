package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vendapainel/vendapainel/internal/aggregate"
	"github.com/vendapainel/vendapainel/internal/session"
)

func snapshot() *session.Snapshot {
	return &session.Snapshot{
		ID:         uuid.New(),
		Filename:   "faturamento.csv",
		UploadedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Customers: []aggregate.CustomerSummary{
			{Name: "Acme", TotalRevenue: decimal.RequireFromString("1234.56"), LastPurchase: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), LastSalesperson: "Maria"},
		},
	}
}

func TestStoreReplaceAndClear(t *testing.T) {
	st := session.NewStore()
	if st.Current() != nil {
		t.Fatal("fresh store should be empty")
	}
	first := snapshot()
	st.Replace(first)
	if st.Current() != first {
		t.Fatal("current should be the published snapshot")
	}
	second := snapshot()
	st.Replace(second)
	if st.Current() != second {
		t.Fatal("replace should swap the whole snapshot")
	}
	st.Clear()
	if st.Current() != nil {
		t.Fatal("clear should discard state")
	}
}

func TestSnapshotAvailability(t *testing.T) {
	var nilSnap *session.Snapshot
	if nilSnap.HasCustomers() || nilSnap.HasFranchise() {
		t.Fatal("nil snapshot has no views")
	}
	s := snapshot()
	if !s.HasCustomers() {
		t.Fatal("customer view should be available")
	}
	if s.HasFranchise() {
		t.Fatal("franchise view should be unavailable")
	}
}

func TestSnapshotEncodeRoundTrip(t *testing.T) {
	s := snapshot()
	b, err := s.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := session.LoadSnapshot(b)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != s.ID || got.Filename != s.Filename {
		t.Fatalf("metadata mismatch: %+v", got)
	}
	if len(got.Customers) != 1 || !got.Customers[0].TotalRevenue.Equal(s.Customers[0].TotalRevenue) {
		t.Fatalf("customer table mismatch: %+v", got.Customers)
	}
	if got.HasFranchise() {
		t.Fatal("absent dataset must stay absent after a round trip")
	}
}
