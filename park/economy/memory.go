package economy

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Memory is a Ledger held entirely in memory. It backs single-node setups that
// have no database configured and the tests of everything that charges.
type Memory struct {
	mu       sync.Mutex
	accounts map[account]int64
}

type account struct {
	player uuid.UUID
	kind   Kind
}

// NewMemory returns an empty in-memory Ledger.
func NewMemory() *Memory {
	return &Memory{accounts: map[account]int64{}}
}

// Balance ...
func (m *Memory) Balance(_ context.Context, player uuid.UUID, k Kind) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accounts[account{player: player, kind: k}], nil
}

// Deposit ...
func (m *Memory) Deposit(_ context.Context, player uuid.UUID, k Kind, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account{player: player, kind: k}] += amount
	return nil
}

// Withdraw ...
func (m *Memory) Withdraw(_ context.Context, player uuid.UUID, k Kind, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := account{player: player, kind: k}
	if m.accounts[acc] < amount {
		return ErrInsufficient
	}
	m.accounts[acc] -= amount
	return nil
}

// Set ...
func (m *Memory) Set(_ context.Context, player uuid.UUID, k Kind, amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account{player: player, kind: k}] = amount
	return nil
}

// Close ...
func (m *Memory) Close() error { return nil }
