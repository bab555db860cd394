// Package ridecount records how often players rode each attraction. Counts
// are kept per server base so that sibling instances of the same park, such
// as castle1 and castle2, share one combined count.
package ridecount

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Row is one leaderboard row of a ride.
type Row struct {
	Player uuid.UUID
	Name   string
	Total  int64
}

// Counter stores ride counts. Implementations are safe for use from the
// node's loop alongside background readers.
type Counter interface {
	// Add records one completed ride of a player on the server passed. The
	// player's current display name is stored with the count for
	// leaderboards.
	Add(ctx context.Context, player uuid.UUID, name, ride, server string) error
	// Count returns the total rides of a player on a ride across all
	// servers.
	Count(ctx context.Context, player uuid.UUID, ride string) (int64, error)
	// Top returns the highest combined counts of a ride, at most limit rows,
	// in descending order.
	Top(ctx context.Context, ride string, limit int) ([]Row, error)
	// Close releases the resources of the counter.
	Close() error
}

// ServerBase reduces a server name to its base: trailing digits are stripped
// and the rest is lowercased, so "Castle2" and "castle1" both become
// "castle". Numbered instances of a park are the same place as far as ride
// counts are concerned.
func ServerBase(server string) string {
	trimmed := strings.TrimRightFunc(server, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
	return strings.ToLower(trimmed)
}

// SameServer reports whether two server names share a base. The comparison is
// symmetric: castle1 and castle2 match, castle and hub do not.
func SameServer(a, b string) bool {
	return ServerBase(a) == ServerBase(b)
}
