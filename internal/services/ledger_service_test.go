package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"cashbook/internal/core"
	"cashbook/internal/storage"
)

func newTestService(t *testing.T) *LedgerService {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "cashbook.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	svc := NewLedgerService(store)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestCreateCashbookValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		want error
	}{
		{"", core.ErrEmptyName},
		{"   ", core.ErrEmptyName},
	}
	for _, tc := range cases {
		if _, err := svc.CreateCashbook(ctx, tc.name); !errors.Is(err, tc.want) {
			t.Fatalf("%q expected %v, got %v", tc.name, tc.want, err)
		}
	}

	// Rejected input must not have reached storage.
	books, err := svc.ListCashbooks(ctx)
	if err != nil {
		t.Fatalf("list cashbooks: %v", err)
	}
	if len(books) != 0 {
		t.Fatalf("validation failure created rows: %+v", books)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	book, err := svc.CreateCashbook(ctx, "Wallet")
	if err != nil {
		t.Fatalf("create cashbook: %v", err)
	}

	now := time.Now().UTC()
	cases := []struct {
		txn  core.Transaction
		want error
	}{
		{core.Transaction{CashbookID: book.ID, Type: "loan", Amount: core.Money{Cents: 1}, Date: now}, core.ErrInvalidEntryType},
		{core.Transaction{CashbookID: book.ID, Type: core.CashIn, Amount: core.Money{Cents: 0}, Date: now}, core.ErrInvalidAmount},
		{core.Transaction{CashbookID: book.ID, Type: core.CashOut, Amount: core.Money{Cents: -10}, Date: now}, core.ErrInvalidAmount},
		{core.Transaction{CashbookID: book.ID, Type: core.CashIn, Amount: core.Money{Cents: 1}}, core.ErrInvalidDate},
	}
	for i, tc := range cases {
		if _, err := svc.CreateTransaction(ctx, tc.txn); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}

	txns, err := svc.ListTransactions(ctx, book.ID)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("rejected transactions reached storage: %+v", txns)
	}
}

func TestRenameValidationAndNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	book, err := svc.CreateCashbook(ctx, "Bills")
	if err != nil {
		t.Fatalf("create cashbook: %v", err)
	}

	if err := svc.RenameCashbook(ctx, book.ID, ""); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := svc.RenameCashbook(ctx, book.ID+5, "Ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.RenameCashbook(ctx, book.ID, "Utilities"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	books, err := svc.ListCashbooks(ctx)
	if err != nil {
		t.Fatalf("list cashbooks: %v", err)
	}
	if books[0].Name != "Utilities" {
		t.Fatalf("expected renamed cashbook, got %q", books[0].Name)
	}
}

func TestDeleteCashbookNotFound(t *testing.T) {
	svc := newTestService(t)

	if err := svc.DeleteCashbook(context.Background(), 99); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOverview(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateCashbook(ctx, "Salary")
	if err != nil {
		t.Fatalf("create cashbook: %v", err)
	}
	b, err := svc.CreateCashbook(ctx, "Household")
	if err != nil {
		t.Fatalf("create cashbook: %v", err)
	}

	now := time.Now().UTC()
	for _, txn := range []core.Transaction{
		{CashbookID: a.ID, Type: core.CashIn, Amount: core.Money{Cents: 200000}, Date: now},
		{CashbookID: b.ID, Type: core.CashOut, Amount: core.Money{Cents: 45000}, Date: now},
		{CashbookID: b.ID, Type: core.CashIn, Amount: core.Money{Cents: 5000}, Date: now},
	} {
		if _, err := svc.CreateTransaction(ctx, txn); err != nil {
			t.Fatalf("create transaction: %v", err)
		}
	}

	overview, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Totals.TotalIncome.Cents != 205000 || overview.Totals.TotalSpent.Cents != 45000 {
		t.Fatalf("unexpected global totals: %+v", overview.Totals)
	}
	if overview.Totals.Net().Cents != 160000 {
		t.Fatalf("unexpected net: %d", overview.Totals.Net().Cents)
	}
	if len(overview.Cashbooks) != 2 {
		t.Fatalf("expected 2 cashbooks, got %d", len(overview.Cashbooks))
	}
	// Newest first.
	if overview.Cashbooks[0].ID != b.ID || overview.Cashbooks[1].ID != a.ID {
		t.Fatalf("unexpected order: %+v", overview.Cashbooks)
	}
	if overview.Cashbooks[0].NetBalance.Cents != -40000 {
		t.Fatalf("expected Household net -40000, got %d", overview.Cashbooks[0].NetBalance.Cents)
	}
}

func TestOverviewEmpty(t *testing.T) {
	svc := newTestService(t)

	overview, err := svc.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.Totals.TotalIncome.Cents != 0 || overview.Totals.TotalSpent.Cents != 0 {
		t.Fatalf("expected zero totals, got %+v", overview.Totals)
	}
	if len(overview.Cashbooks) != 0 {
		t.Fatalf("expected no cashbooks, got %d", len(overview.Cashbooks))
	}
}

func TestCloseNilStore(t *testing.T) {
	svc := NewLedgerService(nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("close with nil store should not error: %v", err)
	}
}
