package economy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestChargerSubmit verifies that a submitted charge deducts from the ledger
// and that its completion callback travels through the dispatch function.
func TestChargerSubmit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := NewMemory()
	player := uuid.New()
	if err := ledger.Deposit(ctx, player, Balance, 100); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	dispatched := make(chan func(), 1)
	c := NewCharger(ledger, nil, func(f func()) { dispatched <- f })
	defer c.Close()

	result := make(chan error, 1)
	c.Submit(Charge{Player: player, Kind: Balance, Amount: 60}, func(err error) { result <- err })

	select {
	case f := <-dispatched:
		f()
	case <-time.After(5 * time.Second):
		t.Fatalf("completion never dispatched")
	}
	if err := <-result; err != nil {
		t.Fatalf("charge failed: %v", err)
	}
	if bal, _ := ledger.Balance(ctx, player, Balance); bal != 40 {
		t.Fatalf("balance after charge: got %v, want 40", bal)
	}
}

// TestChargerInsufficient verifies that a charge above the stored amount
// reports ErrInsufficient to its callback and deducts nothing.
func TestChargerInsufficient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := NewMemory()
	player := uuid.New()
	if err := ledger.Deposit(ctx, player, Balance, 10); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	c := NewCharger(ledger, nil, func(f func()) { f() })
	defer c.Close()

	result := make(chan error, 1)
	c.Submit(Charge{Player: player, Kind: Balance, Amount: 60}, func(err error) { result <- err })

	select {
	case err := <-result:
		if !errors.Is(err, ErrInsufficient) {
			t.Fatalf("charge result: got %v, want %v", err, ErrInsufficient)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("completion never dispatched")
	}
	if bal, _ := ledger.Balance(ctx, player, Balance); bal != 10 {
		t.Fatalf("balance after failed charge: got %v, want 10", bal)
	}
}

// TestChargerCloseDrains verifies that Close completes the charges already
// submitted before returning.
func TestChargerCloseDrains(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ledger := NewMemory()
	player := uuid.New()
	if err := ledger.Deposit(ctx, player, Balance, 30); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	done := 0
	c := NewCharger(ledger, nil, func(f func()) { f() })
	for range 3 {
		c.Submit(Charge{Player: player, Kind: Balance, Amount: 10}, func(error) { done++ })
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if done != 3 {
		t.Fatalf("completions after Close: got %v, want 3", done)
	}
	if bal, _ := ledger.Balance(ctx, player, Balance); bal != 0 {
		t.Fatalf("balance after drain: got %v, want 0", bal)
	}
}
