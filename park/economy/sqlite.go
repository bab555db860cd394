package economy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite is a Ledger backed by an embedded SQLite database. It is the default
// backend of a park node: a single file, no server to run.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and creates, if needed) the ledger database at path.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open economy db: %w", err)
	}
	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY churn under concurrent use.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS accounts (
		player TEXT NOT NULL,
		kind INTEGER NOT NULL,
		amount INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (player, kind)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create accounts table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Balance ...
func (s *SQLite) Balance(ctx context.Context, player uuid.UUID, k Kind) (int64, error) {
	var amount int64
	err := s.db.QueryRowContext(ctx,
		`SELECT amount FROM accounts WHERE player = ? AND kind = ?`,
		player.String(), k,
	).Scan(&amount)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query balance: %w", err)
	}
	return amount, nil
}

// Deposit ...
func (s *SQLite) Deposit(ctx context.Context, player uuid.UUID, k Kind, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (player, kind, amount) VALUES (?, ?, ?)
		ON CONFLICT (player, kind) DO UPDATE SET amount = amount + excluded.amount`,
		player.String(), k, amount,
	)
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	return nil
}

// Withdraw ...
func (s *SQLite) Withdraw(ctx context.Context, player uuid.UUID, k Kind, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	if amount == 0 {
		return nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET amount = amount - ? WHERE player = ? AND kind = ? AND amount >= ?`,
		amount, player.String(), k, amount,
	)
	if err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("withdraw: %w", err)
	}
	if n == 0 {
		return ErrInsufficient
	}
	return nil
}

// Set ...
func (s *SQLite) Set(ctx context.Context, player uuid.UUID, k Kind, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (player, kind, amount) VALUES (?, ?, ?)
		ON CONFLICT (player, kind) DO UPDATE SET amount = excluded.amount`,
		player.String(), k, amount,
	)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

// Close ...
func (s *SQLite) Close() error { return s.db.Close() }
