// Package economy implements the two-currency ledger players purchase against,
// with embedded SQLite, MySQL and in-memory backends.
package economy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sparkparks/parkmanager/park/chat"
)

// Kind selects which of the two ledgers an amount is stored in or charged
// against.
type Kind uint8

const (
	// Balance is the primary currency, earned and spent in dollars.
	Balance Kind = iota
	// Tokens is the secondary currency, awarded for events and spent on
	// cosmetics such as outfits.
	Tokens
)

// String ...
func (k Kind) String() string {
	if k == Tokens {
		return "tokens"
	}
	return "balance"
}

// Format renders an amount of the currency for chat output.
func (k Kind) Format(n int64) string {
	if k == Tokens {
		return chat.Money(n) + " tokens"
	}
	return "$" + chat.Money(n)
}

// MarshalText ...
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText ...
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses a currency kind from its name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "balance":
		return Balance, nil
	case "tokens":
		return Tokens, nil
	}
	return Balance, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

var (
	// ErrInsufficient is returned by Withdraw when the stored amount is lower
	// than the amount withdrawn.
	ErrInsufficient = errors.New("economy: insufficient funds")
	// ErrUnknownKind is returned when a currency kind name does not parse.
	ErrUnknownKind = errors.New("economy: unknown currency kind")
	// ErrNegativeAmount is returned when a negative amount is deposited,
	// withdrawn or set.
	ErrNegativeAmount = errors.New("economy: negative amount")
)

// Ledger is a store of player currency amounts. Amounts never go negative:
// withdrawing more than is stored fails with ErrInsufficient and changes
// nothing.
type Ledger interface {
	// Balance returns the amount stored for the player in the ledger of the
	// kind passed. Players without an account hold 0.
	Balance(ctx context.Context, player uuid.UUID, k Kind) (int64, error)
	// Deposit adds amount to the player's stored amount.
	Deposit(ctx context.Context, player uuid.UUID, k Kind, amount int64) error
	// Withdraw subtracts amount from the player's stored amount, failing with
	// ErrInsufficient if less than amount is stored.
	Withdraw(ctx context.Context, player uuid.UUID, k Kind, amount int64) error
	// Set overwrites the player's stored amount.
	Set(ctx context.Context, player uuid.UUID, k Kind, amount int64) error
	// Close releases the resources of the ledger.
	Close() error
}
