package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"cashbook/internal/cli"
	"cashbook/internal/core"
	"cashbook/internal/services"
	"cashbook/internal/storage"
)

const usage = `cashbook - local ledger

Usage:
  cashbook create <name>                        create a cashbook
  cashbook list                                 list cashbooks with live balances
  cashbook rename <id> <new name>               rename a cashbook
  cashbook delete <id>                          delete a cashbook and its transactions
  cashbook tx <id>                              list a cashbook's transactions
  cashbook add <id> in|out <amount> [note...]   record a cash in / cash out
  cashbook overview                             global income/spent split and balances
`

func main() {
	cli.LoadEnvFile()
	logger, cfg := cli.Setup()
	store := cli.InitStore(logger, cfg.DBPath)

	svc := services.NewLedgerService(store)
	defer svc.Close()

	if err := run(context.Background(), svc, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", userMessage(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *services.LedgerService, args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	switch args[0] {
	case "create":
		if len(args) < 2 {
			return errors.New("create needs a name")
		}
		book, err := svc.CreateCashbook(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Printf("created cashbook %d %q\n", book.ID, book.Name)
		return nil

	case "list":
		books, err := svc.ListCashbooksWithBalances(ctx)
		if err != nil {
			return err
		}
		if len(books) == 0 {
			fmt.Println("no cashbooks yet")
			return nil
		}
		for _, b := range books {
			fmt.Printf("%4d  %-24s in %10s  out %10s  net %10s\n",
				b.ID, b.Name, b.TotalIn, b.TotalOut, b.NetBalance)
		}
		return nil

	case "rename":
		if len(args) < 3 {
			return errors.New("rename needs an id and a new name")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := svc.RenameCashbook(ctx, id, strings.Join(args[2:], " ")); err != nil {
			return err
		}
		fmt.Printf("renamed cashbook %d\n", id)
		return nil

	case "delete":
		if len(args) < 2 {
			return errors.New("delete needs an id")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := svc.DeleteCashbook(ctx, id); err != nil {
			return err
		}
		fmt.Printf("deleted cashbook %d\n", id)
		return nil

	case "tx":
		if len(args) < 2 {
			return errors.New("tx needs a cashbook id")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		txns, err := svc.ListTransactions(ctx, id)
		if err != nil {
			return err
		}
		if len(txns) == 0 {
			fmt.Println("no transactions yet")
			return nil
		}
		for _, t := range txns {
			fmt.Printf("%4d  %s  %-8s %10s  %s\n",
				t.ID, t.Date.Format("2006-01-02"), t.Type, t.Amount, t.Description)
		}
		return nil

	case "add":
		if len(args) < 4 {
			return errors.New("add needs an id, in|out and an amount")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		var typ core.EntryType
		switch args[2] {
		case "in":
			typ = core.CashIn
		case "out":
			typ = core.CashOut
		default:
			return core.ErrInvalidEntryType
		}
		cents, err := core.ParseDecimalToCents(args[3])
		if err != nil {
			return err
		}
		txn, err := svc.CreateTransaction(ctx, core.Transaction{
			CashbookID:  id,
			Description: strings.Join(args[4:], " "),
			Type:        typ,
			Amount:      core.Money{Cents: cents},
			Date:        time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		fmt.Printf("recorded %s %s in cashbook %d (transaction %d)\n",
			txn.Type, txn.Amount, txn.CashbookID, txn.ID)
		return nil

	case "overview":
		overview, err := svc.Overview(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("income %s  spent %s  net %s\n",
			overview.Totals.TotalIncome, overview.Totals.TotalSpent, overview.Totals.Net())
		for _, b := range overview.Cashbooks {
			fmt.Printf("%4d  %-24s net %10s\n", b.ID, b.Name, b.NetBalance)
		}
		return nil

	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid cashbook id %q", s)
	}
	return id, nil
}

// userMessage keeps storage noise out of the terminal for the failures a
// user can act on.
func userMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return "this cashbook no longer exists"
	case errors.Is(err, core.ErrEmptyName):
		return "cashbook name cannot be empty"
	case errors.Is(err, core.ErrInvalidAmount):
		return "amount must be a positive number like 12.50"
	case errors.Is(err, core.ErrInvalidEntryType):
		return "entry type must be 'in' or 'out'"
	case errors.Is(err, core.ErrInvalidDate):
		return "transaction date is missing"
	}
	return err.Error()
}
