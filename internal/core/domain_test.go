package core

import (
	"errors"
	"testing"
	"time"
)

func TestEntryTypeValidate(t *testing.T) {
	cases := []struct {
		t  EntryType
		ok bool
	}{
		{CashIn, true},
		{CashOut, true},
		{EntryType(""), false},
		{EntryType("cashin"), false},
		{EntryType("transfer"), false},
	}
	for i, tc := range cases {
		err := tc.t.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidEntryType) {
			t.Fatalf("case %d expected ErrInvalidEntryType, got %v", i, err)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}
	if err := (Money{Cents: -50}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("Groceries"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	for _, name := range []string{"", "   ", "\t"} {
		if err := ValidateName(name); !errors.Is(err, ErrEmptyName) {
			t.Fatalf("%q expected ErrEmptyName, got %v", name, err)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	good := Transaction{
		CashbookID: 1,
		Type:       CashIn,
		Amount:     Money{Cents: 100},
		Date:       now,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Empty description is allowed.
	good.Description = ""
	if err := good.Validate(); err != nil {
		t.Fatalf("empty description should be valid, got %v", err)
	}

	bads := []struct {
		e    Transaction
		want error
	}{
		{Transaction{Type: EntryType("loan"), Amount: Money{Cents: 1}, Date: now}, ErrInvalidEntryType},
		{Transaction{Type: CashOut, Amount: Money{Cents: 0}, Date: now}, ErrInvalidAmount},
		{Transaction{Type: CashOut, Amount: Money{Cents: -5}, Date: now}, ErrInvalidAmount},
		{Transaction{Type: CashIn, Amount: Money{Cents: 1}}, ErrInvalidDate},
	}
	for i, tc := range bads {
		if err := tc.e.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}
}

func TestIncomeSpentNet(t *testing.T) {
	s := IncomeSpent{TotalIncome: Money{Cents: 100000}, TotalSpent: Money{Cents: 30000}}
	if got := s.Net().Cents; got != 70000 {
		t.Fatalf("expected net 70000, got %d", got)
	}
	s = IncomeSpent{TotalIncome: Money{Cents: 100}, TotalSpent: Money{Cents: 250}}
	if got := s.Net().Cents; got != -150 {
		t.Fatalf("expected net -150, got %d", got)
	}
}
