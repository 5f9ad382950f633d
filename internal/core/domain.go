package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CashIn  EntryType = "cash in"
	CashOut EntryType = "cash out"
)

type (
	// EntryType is the polarity of a ledger entry.
	EntryType string

	Money struct {
		Cents int64
	}

	// Cashbook is a user-named ledger. TotalIn/TotalOut/NetBalance mirror the
	// cached columns; listing views recompute them live from the entries.
	Cashbook struct {
		ID         int64
		Name       string
		TotalIn    Money
		TotalOut   Money
		NetBalance Money
		CreatedAt  time.Time
	}

	// Transaction is a single dated money movement inside a cashbook.
	// Transactions are append-only: there is no update or standalone delete,
	// they disappear only when the owning cashbook is deleted.
	Transaction struct {
		ID          int64
		CashbookID  int64
		Description string
		Type        EntryType
		Amount      Money
		Date        time.Time
	}

	// IncomeSpent is the global income/expense split across every cashbook.
	IncomeSpent struct {
		TotalIncome Money
		TotalSpent  Money
	}

	// Overview is the dashboard aggregate: the global split plus the live
	// per-cashbook balances.
	Overview struct {
		Totals    IncomeSpent
		Cashbooks []Cashbook
	}
)

var (
	ErrEmptyName        = errors.New("empty cashbook name")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrInvalidDate      = errors.New("invalid date")
)

func (t EntryType) Validate() error {
	switch t {
	case CashIn, CashOut:
		return nil
	}
	return ErrInvalidEntryType
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateName checks a cashbook name for create and rename.
func ValidateName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return ErrEmptyName
	}
	return nil
}

// Validate rejects a transaction before it reaches storage. The description may be
// empty; everything else must be well formed.
func (e Transaction) Validate() error {
	if err := e.Type.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Net returns income minus spent.
func (s IncomeSpent) Net() Money {
	return Money{Cents: s.TotalIncome.Cents - s.TotalSpent.Cents}
}
