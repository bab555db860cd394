package economy

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
)

// MySQL is a Ledger backed by a MySQL database shared between the nodes of a
// cluster, so that a player's balance is the same on every park server.
type MySQL struct {
	db *sql.DB
}

// OpenMySQL connects to the ledger database at dsn and creates the accounts
// table if it does not exist yet.
func OpenMySQL(dsn string) (*MySQL, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open economy db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping economy db: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS accounts (
		player VARCHAR(36) NOT NULL,
		kind TINYINT NOT NULL,
		amount BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (player, kind)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create accounts table: %w", err)
	}
	return &MySQL{db: db}, nil
}

// Balance ...
func (m *MySQL) Balance(ctx context.Context, player uuid.UUID, k Kind) (int64, error) {
	var amount int64
	err := m.db.QueryRowContext(ctx,
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
func (m *MySQL) Deposit(ctx context.Context, player uuid.UUID, k Kind, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO accounts (player, kind, amount) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE amount = amount + VALUES(amount)`,
		player.String(), k, amount,
	)
	if err != nil {
		return fmt.Errorf("deposit: %w", err)
	}
	return nil
}

// Withdraw ...
func (m *MySQL) Withdraw(ctx context.Context, player uuid.UUID, k Kind, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	if amount == 0 {
		return nil
	}
	res, err := m.db.ExecContext(ctx,
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
func (m *MySQL) Set(ctx context.Context, player uuid.UUID, k Kind, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO accounts (player, kind, amount) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE amount = VALUES(amount)`,
		player.String(), k, amount,
	)
	if err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	return nil
}

// Close ...
func (m *MySQL) Close() error { return m.db.Close() }
