package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/chamabot/internal/models"
	"github.com/mmynk/chamabot/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "chamabot-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateMember assigns ID and CreatedAt", func(t *testing.T) {
		member := &models.Member{Name: "Alice Wanjiku", PhoneNumber: "+254712345678"}

		if err := store.CreateMember(ctx, member); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}

		if member.ID == 0 {
			t.Error("Expected member ID to be assigned")
		}
		if member.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("CreateMember rejects duplicate phone", func(t *testing.T) {
		before, err := store.ListMembers(ctx)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}

		err = store.CreateMember(ctx, &models.Member{Name: "Impostor", PhoneNumber: "+254712345678"})
		if !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("Expected ErrConflict, got %v", err)
		}

		after, err := store.ListMembers(ctx)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(after) != len(before) {
			t.Errorf("Member count changed: got %d, want %d", len(after), len(before))
		}
	})

	t.Run("GetMemberByPhone finds member", func(t *testing.T) {
		member, err := store.GetMemberByPhone(ctx, "+254712345678")
		if err != nil {
			t.Fatalf("GetMemberByPhone failed: %v", err)
		}
		if member.Name != "Alice Wanjiku" {
			t.Errorf("Name mismatch: got %s, want Alice Wanjiku", member.Name)
		}
		if member.HasPaid {
			t.Error("Expected new member to be unpaid")
		}
		if member.LastPayment != nil {
			t.Error("Expected LastPayment to be nil")
		}
	})

	t.Run("GetMember returns ErrNotFound for nonexistent member", func(t *testing.T) {
		_, err := store.GetMember(ctx, 9999)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		_, err = store.GetMemberByPhone(ctx, "+10000000000")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestRecordPayment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	member := &models.Member{Name: "John Kimani", PhoneNumber: "+254723456789"}
	if err := store.CreateMember(ctx, member); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}

	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	payment, recorded, err := store.RecordPayment(ctx, member.ID, 1000.0, at, true)
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if !recorded {
		t.Fatal("Expected first payment to be recorded")
	}
	if payment.ID == 0 || payment.Amount != 1000.0 || !payment.Date.Equal(at) {
		t.Errorf("Unexpected payment: %+v", payment)
	}

	got, err := store.GetMember(ctx, member.ID)
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if !got.HasPaid {
		t.Error("Expected member to be paid")
	}
	if got.LastPayment == nil || !got.LastPayment.Equal(at) {
		t.Errorf("LastPayment mismatch: got %v, want %v", got.LastPayment, at)
	}

	t.Run("guarded second payment is a no-op", func(t *testing.T) {
		payment, recorded, err := store.RecordPayment(ctx, member.ID, 1000.0, at.Add(time.Hour), true)
		if err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}
		if recorded || payment != nil {
			t.Error("Expected no payment for already-paid member")
		}
		recent, _ := store.RecentPayments(ctx, 10)
		if len(recent) != 1 {
			t.Errorf("Expected 1 payment, got %d", len(recent))
		}
	})

	t.Run("unguarded second payment appends", func(t *testing.T) {
		_, recorded, err := store.RecordPayment(ctx, member.ID, 500.0, at.Add(2*time.Hour), false)
		if err != nil {
			t.Fatalf("RecordPayment failed: %v", err)
		}
		if !recorded {
			t.Error("Expected payment to be recorded")
		}
		members, _ := store.ListMembers(ctx)
		if len(members) != 1 || members[0].TotalPaid != 1500.0 {
			t.Errorf("Expected total paid 1500, got %+v", members)
		}
	})

	t.Run("missing member", func(t *testing.T) {
		_, _, err := store.RecordPayment(ctx, 4242, 1000.0, at, true)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestUnpaidAndResetCycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i, phone := range []string{"+254700000001", "+254700000002", "+254700000003"} {
		m := &models.Member{Name: []string{"A", "B", "C"}[i], PhoneNumber: phone}
		if err := store.CreateMember(ctx, m); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
		ids = append(ids, m.ID)
	}

	if _, _, err := store.RecordPayment(ctx, ids[1], 1000.0, time.Now(), true); err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}

	unpaid, err := store.ListUnpaidMembers(ctx)
	if err != nil {
		t.Fatalf("ListUnpaidMembers failed: %v", err)
	}
	if len(unpaid) != 2 || unpaid[0].ID != ids[0] || unpaid[1].ID != ids[2] {
		t.Errorf("Unexpected unpaid set: %+v", unpaid)
	}

	n, err := store.ResetCycle(ctx)
	if err != nil {
		t.Fatalf("ResetCycle failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 member reset, got %d", n)
	}

	unpaid, _ = store.ListUnpaidMembers(ctx)
	if len(unpaid) != 3 {
		t.Errorf("Expected 3 unpaid after reset, got %d", len(unpaid))
	}

	// Reset keeps the ledger.
	_, _, collected, err := store.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if collected != 1000.0 {
		t.Errorf("Expected 1000 collected after reset, got %f", collected)
	}
}

func TestTotalsAndRecentPayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	total, paid, collected, err := store.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if total != 0 || paid != 0 || collected != 0 {
		t.Errorf("Expected empty totals, got %d/%d/%f", total, paid, collected)
	}

	alice := &models.Member{Name: "Alice", PhoneNumber: "+254711111111"}
	bob := &models.Member{Name: "Bob", PhoneNumber: "+254722222222"}
	for _, m := range []*models.Member{alice, bob} {
		if err := store.CreateMember(ctx, m); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
	}

	early := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	late := early.Add(24 * time.Hour)

	// Same timestamp for two payments: ID breaks the tie.
	p1, _, _ := store.RecordPayment(ctx, alice.ID, 1000.0, late, false)
	p2, _, _ := store.RecordPayment(ctx, bob.ID, 700.0, late, false)
	p3, _, _ := store.RecordPayment(ctx, alice.ID, 300.0, early, false)

	total, paid, collected, err = store.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if total != 2 || paid != 2 || collected != 2000.0 {
		t.Errorf("Unexpected totals: %d/%d/%f", total, paid, collected)
	}

	recent, err := store.RecentPayments(ctx, 10)
	if err != nil {
		t.Fatalf("RecentPayments failed: %v", err)
	}
	want := []int64{p1.ID, p2.ID, p3.ID}
	if len(recent) != len(want) {
		t.Fatalf("Expected %d payments, got %d", len(want), len(recent))
	}
	for i, id := range want {
		if recent[i].PaymentID != id {
			t.Errorf("Position %d: got payment %d, want %d", i, recent[i].PaymentID, id)
		}
	}
	if recent[1].MemberName != "Bob" {
		t.Errorf("Expected joined member name Bob, got %s", recent[1].MemberName)
	}

	limited, _ := store.RecentPayments(ctx, 1)
	if len(limited) != 1 {
		t.Errorf("Expected limit to apply, got %d", len(limited))
	}
}

func TestCreateMemberConcurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m := &models.Member{Name: fmt.Sprintf("Member %02d", i), PhoneNumber: fmt.Sprintf("+2547000001%02d", i)}
			if err := store.CreateMember(ctx, m); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("CreateMember failed under concurrency: %v", err)
	}

	members, err := store.ListMembers(ctx)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != n {
		t.Errorf("Expected %d members, got %d", n, len(members))
	}
}

func TestSearchMembers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i, name := range []string{"Jane Akinyi", "John Kimani", "Mary Njeri", "100% Johnny", "Ann_Marie"} {
		m := &models.Member{Name: name, PhoneNumber: fmt.Sprintf("+25471000000%d", i)}
		if err := store.CreateMember(ctx, m); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
	}

	tests := []struct {
		query string
		limit int
		want  []string
	}{
		{"jo", 10, []string{"100% Johnny", "John Kimani"}},
		{"JOHN", 10, []string{"100% Johnny", "John Kimani"}},
		{"%", 10, []string{"100% Johnny"}},
		{"_", 10, []string{"Ann_Marie"}},
		{"a", 2, []string{"Ann_Marie", "Jane Akinyi"}},
		{"zzz", 10, nil},
		{"jo", 0, nil},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.query, tt.limit), func(t *testing.T) {
			got, err := store.SearchMembers(ctx, tt.query, tt.limit)
			if err != nil {
				t.Fatalf("SearchMembers failed: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d results, got %d", len(tt.want), len(got))
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("Position %d: got %s, want %s", i, got[i].Name, name)
				}
			}
		})
	}
}

func TestListPaymentsByMember(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := &models.Member{Name: "Alice", PhoneNumber: "+254711111111"}
	bob := &models.Member{Name: "Bob", PhoneNumber: "+254722222222"}
	for _, m := range []*models.Member{alice, bob} {
		if err := store.CreateMember(ctx, m); err != nil {
			t.Fatalf("CreateMember failed: %v", err)
		}
	}

	t.Run("member without payments", func(t *testing.T) {
		payments, err := store.ListPaymentsByMember(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListPaymentsByMember failed: %v", err)
		}
		if len(payments) != 0 {
			t.Errorf("Expected no payments, got %d", len(payments))
		}
	})

	early := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	p1, _, _ := store.RecordPayment(ctx, alice.ID, 1000.0, early, false)
	store.RecordPayment(ctx, bob.ID, 700.0, early, false)
	p2, _, _ := store.RecordPayment(ctx, alice.ID, 300.0, early.Add(48*time.Hour), false)

	t.Run("newest first and scoped to member", func(t *testing.T) {
		payments, err := store.ListPaymentsByMember(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListPaymentsByMember failed: %v", err)
		}
		if len(payments) != 2 {
			t.Fatalf("Expected 2 payments, got %d", len(payments))
		}
		if payments[0].ID != p2.ID || payments[1].ID != p1.ID {
			t.Errorf("Unexpected order: %d, %d", payments[0].ID, payments[1].ID)
		}
		if payments[0].MemberID != alice.ID || payments[0].Amount != 300.0 {
			t.Errorf("Unexpected payment: %+v", payments[0])
		}
	})

	t.Run("missing member", func(t *testing.T) {
		_, err := store.ListPaymentsByMember(ctx, 9999)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestSumPayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	member := &models.Member{Name: "Alice", PhoneNumber: "+254711111111"}
	if err := store.CreateMember(ctx, member); err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}

	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	april := march.AddDate(0, 1, 0)
	store.RecordPayment(ctx, member.ID, 1000.0, march, false)
	store.RecordPayment(ctx, member.ID, 500.0, april.Add(-time.Second), false)
	store.RecordPayment(ctx, member.ID, 200.0, april, false)

	sum, err := store.SumPayments(ctx, march, april)
	if err != nil {
		t.Fatalf("SumPayments failed: %v", err)
	}
	if sum != 1500.0 {
		t.Errorf("Expected 1500 in March, got %f", sum)
	}

	sum, _ = store.SumPayments(ctx, march.AddDate(0, -1, 0), march)
	if sum != 0 {
		t.Errorf("Expected empty February, got %f", sum)
	}
}

func TestDueDate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	due, err := store.GetDueDate(ctx)
	if err != nil {
		t.Fatalf("GetDueDate failed: %v", err)
	}
	if due != nil {
		t.Errorf("Expected no due date, got %v", due)
	}

	first := time.Date(2025, 4, 5, 17, 45, 0, 0, time.UTC)
	if err := store.SetDueDate(ctx, first); err != nil {
		t.Fatalf("SetDueDate failed: %v", err)
	}
	second := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	if err := store.SetDueDate(ctx, second); err != nil {
		t.Fatalf("SetDueDate overwrite failed: %v", err)
	}

	due, err = store.GetDueDate(ctx)
	if err != nil {
		t.Fatalf("GetDueDate failed: %v", err)
	}
	if due == nil || !due.Equal(second) {
		t.Errorf("Expected due date %v, got %v", second, due)
	}
}
