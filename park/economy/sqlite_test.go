package economy

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

var _ Ledger = (*SQLite)(nil)

var _ Ledger = (*MySQL)(nil)

func TestSQLiteLedger(t *testing.T) {
	t.Parallel()
	l, err := OpenSQLite(filepath.Join(t.TempDir(), "economy.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer l.Close()

	testLedger(t, l)
}

// TestSQLiteWithdrawConditional verifies that the conditional update backing
// Withdraw stops a double spend: two withdrawals worth the full balance
// cannot both succeed.
func TestSQLiteWithdrawConditional(t *testing.T) {
	t.Parallel()
	l, err := OpenSQLite(filepath.Join(t.TempDir(), "economy.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer l.Close()

	ctx := context.Background()
	player := uuid.New()
	if err := l.Deposit(ctx, player, Balance, 100); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := l.Withdraw(ctx, player, Balance, 100); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if err := l.Withdraw(ctx, player, Balance, 100); !errors.Is(err, ErrInsufficient) {
		t.Fatalf("second withdrawal: got %v, want %v", err, ErrInsufficient)
	}
	if bal, _ := l.Balance(ctx, player, Balance); bal != 0 {
		t.Fatalf("balance went negative: %v", bal)
	}
}

// TestSQLitePersistence verifies that amounts survive reopening the database
// file.
func TestSQLitePersistence(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "economy.db")
	ctx := context.Background()
	player := uuid.New()

	l, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := l.Deposit(ctx, player, Tokens, 40); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite after close: %v", err)
	}
	defer reopened.Close()
	if bal, _ := reopened.Balance(ctx, player, Tokens); bal != 40 {
		t.Fatalf("tokens after reopen: got %v, want 40", bal)
	}
}
