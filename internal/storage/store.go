package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"cashbook/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when an operation references a cashbook id that
// does not exist. Callers distinguish it from other storage failures with
// errors.Is.
var ErrNotFound = errors.New("cashbook not found")

// Store owns all persisted ledger state. It holds no in-memory copy of any
// row: every read goes back to SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at dbPath, enables foreign
// keys and runs the schema migrations. Any failure here is fatal to the
// session: the returned error means the store must not be used.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Single local writer; one connection keeps the pragma below effective
	// for every statement and lets SQLite serialize writes itself.
	db.SetMaxOpenConns(1)

	// SQLite ships with foreign keys off; the cascade declared in the schema
	// is inert without this.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// CreateCashbook inserts a new cashbook with zeroed totals and returns it
// with its assigned id.
func (s *Store) CreateCashbook(ctx context.Context, name string) (core.Cashbook, error) {
	createdAt := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO cashbooks (name, created_at) VALUES (?, ?)`,
		name, createdAt.Format(time.RFC3339))
	if err != nil {
		return core.Cashbook{}, fmt.Errorf("insert cashbook: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Cashbook{}, fmt.Errorf("cashbook insert id: %w", err)
	}

	slog.InfoContext(ctx, "Cashbook created", "id", id, "name", name)

	return core.Cashbook{ID: id, Name: name, CreatedAt: createdAt}, nil
}

// ListCashbooks returns every cashbook with its cached totals, most recently
// created first.
func (s *Store) ListCashbooks(ctx context.Context) ([]core.Cashbook, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, total_in_cents, total_out_cents, net_balance_cents, created_at
		 FROM cashbooks
		 ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list cashbooks: %w", err)
	}
	defer rows.Close()

	var books []core.Cashbook
	for rows.Next() {
		var (
			b         core.Cashbook
			createdAt string
		)
		if err := rows.Scan(&b.ID, &b.Name, &b.TotalIn.Cents, &b.TotalOut.Cents,
			&b.NetBalance.Cents, &createdAt); err != nil {
			return nil, fmt.Errorf("scan cashbook: %w", err)
		}
		b.CreatedAt = parseDBTime(createdAt)
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cashbooks: %w", err)
	}
	return books, nil
}

// ListCashbooksWithBalances returns every cashbook with totals recomputed
// live from the transaction log via a join, bypassing the cached columns.
func (s *Store) ListCashbooksWithBalances(ctx context.Context) ([]core.Cashbook, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.created_at,
		        COALESCE(SUM(CASE WHEN t.entry_type = 'cash in' THEN t.amount_cents ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN t.entry_type = 'cash out' THEN t.amount_cents ELSE 0 END), 0)
		 FROM cashbooks c
		 LEFT JOIN transactions t ON t.cashbook_id = c.id
		 GROUP BY c.id
		 ORDER BY c.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list cashbooks with balances: %w", err)
	}
	defer rows.Close()

	var books []core.Cashbook
	for rows.Next() {
		var (
			b         core.Cashbook
			createdAt string
		)
		if err := rows.Scan(&b.ID, &b.Name, &createdAt,
			&b.TotalIn.Cents, &b.TotalOut.Cents); err != nil {
			return nil, fmt.Errorf("scan cashbook balance: %w", err)
		}
		b.NetBalance.Cents = b.TotalIn.Cents - b.TotalOut.Cents
		b.CreatedAt = parseDBTime(createdAt)
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cashbook balances: %w", err)
	}
	return books, nil
}

// RenameCashbook changes a cashbook's name. Totals are untouched.
func (s *Store) RenameCashbook(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cashbooks SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("rename cashbook: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename cashbook rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("rename cashbook %d: %w", id, ErrNotFound)
	}

	slog.InfoContext(ctx, "Cashbook renamed", "id", id, "name", name)
	return nil
}

// DeleteCashbook removes a cashbook and all of its transactions in a single
// database transaction. Children are deleted explicitly before the parent
// rather than relying on the engine's cascade.
func (s *Store) DeleteCashbook(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete cashbook: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM transactions WHERE cashbook_id = ?`, id); err != nil {
		return fmt.Errorf("delete cashbook transactions: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM cashbooks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete cashbook: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cashbook rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete cashbook %d: %w", id, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete cashbook: %w", err)
	}

	slog.InfoContext(ctx, "Cashbook deleted", "id", id)
	return nil
}

// ListTransactions returns a cashbook's transactions, most recent date first.
// A cashbook with no transactions yields an empty slice; an unknown id yields
// ErrNotFound.
func (s *Store) ListTransactions(ctx context.Context, cashbookID int64) ([]core.Transaction, error) {
	if err := s.cashbookExists(ctx, s.db, cashbookID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, cashbook_id, COALESCE(description, ''), entry_type, amount_cents, entry_date
		 FROM transactions
		 WHERE cashbook_id = ?
		 ORDER BY entry_date DESC, id DESC`, cashbookID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	txns := []core.Transaction{}
	for rows.Next() {
		var (
			txn  core.Transaction
			date string
		)
		if err := rows.Scan(&txn.ID, &txn.CashbookID, &txn.Description,
			&txn.Type, &txn.Amount.Cents, &date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txn.Date = parseDBTime(date)
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txns, nil
}

// CreateTransaction inserts a transaction and recomputes the owning
// cashbook's cached totals from its full transaction set, atomically. The
// recompute derives entirely from the log, so it also repairs any prior
// drift in the cached columns.
func (s *Store) CreateTransaction(ctx context.Context, txn core.Transaction) (core.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("begin create transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.cashbookExists(ctx, tx, txn.CashbookID); err != nil {
		return core.Transaction{}, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (cashbook_id, description, entry_type, amount_cents, entry_date)
		 VALUES (?, ?, ?, ?, ?)`,
		txn.CashbookID, txn.Description, string(txn.Type), txn.Amount.Cents,
		txn.Date.UTC().Format(time.RFC3339))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction insert id: %w", err)
	}

	var totalIn, totalOut int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN entry_type = 'cash in' THEN amount_cents ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN entry_type = 'cash out' THEN amount_cents ELSE 0 END), 0)
		 FROM transactions
		 WHERE cashbook_id = ?`, txn.CashbookID).Scan(&totalIn, &totalOut)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("recompute totals: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE cashbooks
		 SET total_in_cents = ?, total_out_cents = ?, net_balance_cents = ?
		 WHERE id = ?`,
		totalIn, totalOut, totalIn-totalOut, txn.CashbookID); err != nil {
		return core.Transaction{}, fmt.Errorf("update cashbook totals: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return core.Transaction{}, fmt.Errorf("commit create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"id", id,
		"cashbook_id", txn.CashbookID,
		"type", string(txn.Type),
		"amount_cents", txn.Amount.Cents)

	txn.ID = id
	return txn, nil
}

// TotalIncomeAndSpent sums cash in and cash out across every cashbook,
// computed live over the transaction log.
func (s *Store) TotalIncomeAndSpent(ctx context.Context) (core.IncomeSpent, error) {
	var totals core.IncomeSpent
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(CASE WHEN entry_type = 'cash in' THEN amount_cents ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN entry_type = 'cash out' THEN amount_cents ELSE 0 END), 0)
		 FROM transactions`).Scan(&totals.TotalIncome.Cents, &totals.TotalSpent.Cents)
	if err != nil {
		return core.IncomeSpent{}, fmt.Errorf("total income and spent: %w", err)
	}
	return totals, nil
}

// querier is implemented by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) cashbookExists(ctx context.Context, q querier, id int64) error {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM cashbooks WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check cashbook %d: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("cashbook %d: %w", id, ErrNotFound)
	}
	return nil
}

// parseDBTime handles both RFC 3339 values written by this code and the
// "YYYY-MM-DD HH:MM:SS" form produced by sqlite's datetime() default.
func parseDBTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
