// Package ledger is a sqlite-backed reference implementation of the purchase
// collaborator the creditpane component expects. The component itself never
// imports it; the demo binary injects Store.Purchase as the collaborator.
package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jask/creditpane"
)

// Store holds the credit balance and purchase receipts.
type Store struct {
	db *sql.DB
}

// Open opens sqlite with sensible defaults and applies pending migrations.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SeedBalance creates the balance row with the given opening credits if the
// ledger is fresh. An existing balance is left untouched.
func (s *Store) SeedBalance(ctx context.Context, credits int) error {
	if credits < 0 {
		return fmt.Errorf("opening balance must be non-negative, got %d", credits)
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO balance(id, credits) VALUES (1, ?)
	ON CONFLICT(id) DO NOTHING;
	`, credits)
	return err
}

// Balance returns the current credit balance.
func (s *Store) Balance(ctx context.Context) (int, error) {
	var credits int
	err := s.db.QueryRowContext(ctx, `SELECT credits FROM balance WHERE id = 1`).Scan(&credits)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return credits, nil
}

// Purchase records the purchase and credits the balance in one transaction,
// returning the receipt the component adopts on success.
func (s *Store) Purchase(ctx context.Context, pkg creditpane.Package) (creditpane.Receipt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return creditpane.Receipt{}, err
	}
	defer tx.Rollback()

	receiptID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
	INSERT INTO purchases(id, package_id, credits, price)
	VALUES (?, ?, ?, ?);
	`, receiptID, pkg.ID, pkg.Credits, pkg.Price.StringFixed(2))
	if err != nil {
		return creditpane.Receipt{}, fmt.Errorf("record purchase: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO balance(id, credits) VALUES (1, ?)
	ON CONFLICT(id) DO UPDATE SET
	 credits = credits + excluded.credits,
	 updated_at = CURRENT_TIMESTAMP;
	`, pkg.Credits)
	if err != nil {
		return creditpane.Receipt{}, fmt.Errorf("credit balance: %w", err)
	}

	var newBalance int
	if err := tx.QueryRowContext(ctx, `SELECT credits FROM balance WHERE id = 1`).Scan(&newBalance); err != nil {
		return creditpane.Receipt{}, err
	}
	if err := tx.Commit(); err != nil {
		return creditpane.Receipt{}, err
	}
	return creditpane.Receipt{ID: receiptID, NewBalance: newBalance}, nil
}

// ReceiptRow is one row of purchase history.
type ReceiptRow struct {
	ID        string
	PackageID string
	Credits   int
	Price     string
	CreatedAt string
}

// RecentReceipts returns up to limit purchases, newest first.
func (s *Store) RecentReceipts(ctx context.Context, limit int) ([]ReceiptRow, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, package_id, credits, price, created_at
	FROM purchases ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ReceiptRow
	for rows.Next() {
		var r ReceiptRow
		if err := rows.Scan(&r.ID, &r.PackageID, &r.Credits, &r.Price, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
