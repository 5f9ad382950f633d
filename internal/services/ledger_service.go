// Package services holds the ledger operations consumed by the presentation
// layer. The service validates input before any storage I/O and owns no
// state of its own; every read goes back to the store.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"cashbook/internal/core"
	"cashbook/internal/storage"
)

// LedgerService exposes cashbook and transaction operations over a Store.
type LedgerService struct {
	store *storage.Store
}

func NewLedgerService(store *storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// CreateCashbook creates a named cashbook with zeroed totals.
func (s *LedgerService) CreateCashbook(ctx context.Context, name string) (core.Cashbook, error) {
	if err := core.ValidateName(name); err != nil {
		return core.Cashbook{}, err
	}

	book, err := s.store.CreateCashbook(ctx, name)
	if err != nil {
		return core.Cashbook{}, fmt.Errorf("create cashbook: %w", err)
	}
	return book, nil
}

// ListCashbooks returns all cashbooks with their cached totals, newest first.
func (s *LedgerService) ListCashbooks(ctx context.Context) ([]core.Cashbook, error) {
	books, err := s.store.ListCashbooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cashbooks: %w", err)
	}
	return books, nil
}

// ListCashbooksWithBalances returns all cashbooks with totals recomputed
// live from the transaction log, newest first.
func (s *LedgerService) ListCashbooksWithBalances(ctx context.Context) ([]core.Cashbook, error) {
	books, err := s.store.ListCashbooksWithBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cashbooks with balances: %w", err)
	}
	return books, nil
}

// RenameCashbook changes a cashbook's name, leaving its totals untouched.
func (s *LedgerService) RenameCashbook(ctx context.Context, id int64, name string) error {
	if err := core.ValidateName(name); err != nil {
		return err
	}

	if err := s.store.RenameCashbook(ctx, id, name); err != nil {
		return fmt.Errorf("rename cashbook: %w", err)
	}
	return nil
}

// DeleteCashbook removes a cashbook together with all of its transactions.
func (s *LedgerService) DeleteCashbook(ctx context.Context, id int64) error {
	if err := s.store.DeleteCashbook(ctx, id); err != nil {
		return fmt.Errorf("delete cashbook: %w", err)
	}
	return nil
}

// ListTransactions returns a cashbook's transactions, most recent first.
func (s *LedgerService) ListTransactions(ctx context.Context, cashbookID int64) ([]core.Transaction, error) {
	txns, err := s.store.ListTransactions(ctx, cashbookID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

// CreateTransaction records a money movement and brings the owning
// cashbook's cached totals back in line with its transaction log. Either
// both happen or neither does.
func (s *LedgerService) CreateTransaction(ctx context.Context, txn core.Transaction) (core.Transaction, error) {
	if err := txn.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransaction(ctx, txn)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	return created, nil
}

// TotalIncomeAndSpent returns the global cash-in/cash-out split across every
// cashbook.
func (s *LedgerService) TotalIncomeAndSpent(ctx context.Context) (core.IncomeSpent, error) {
	totals, err := s.store.TotalIncomeAndSpent(ctx)
	if err != nil {
		return core.IncomeSpent{}, fmt.Errorf("total income and spent: %w", err)
	}
	return totals, nil
}

// Overview assembles the dashboard view: global totals plus live per-cashbook
// balances, fetched concurrently.
func (s *LedgerService) Overview(ctx context.Context) (core.Overview, error) {
	var overview core.Overview

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		totals, err := s.store.TotalIncomeAndSpent(ctx)
		if err != nil {
			return err
		}
		overview.Totals = totals
		return nil
	})
	g.Go(func() error {
		books, err := s.store.ListCashbooksWithBalances(ctx)
		if err != nil {
			return err
		}
		overview.Cashbooks = books
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.Overview{}, fmt.Errorf("overview: %w", err)
	}

	slog.DebugContext(ctx, "Overview assembled",
		"cashbooks", len(overview.Cashbooks),
		"income_cents", overview.Totals.TotalIncome.Cents,
		"spent_cents", overview.Totals.TotalSpent.Cents)

	return overview, nil
}

// Close releases the underlying store.
func (s *LedgerService) Close() error {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			return fmt.Errorf("close store: %w", err)
		}
	}
	return nil
}
