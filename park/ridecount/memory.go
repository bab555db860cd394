package ridecount

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryKey struct {
	player uuid.UUID
	ride   string
	server string
}

// Memory is an in-process Counter used in tests and when no database is
// configured.
type Memory struct {
	mu     sync.Mutex
	totals map[memoryKey]int64
	names  map[uuid.UUID]string
}

// NewMemory returns an empty in-process Counter.
func NewMemory() *Memory {
	return &Memory{totals: map[memoryKey]int64{}, names: map[uuid.UUID]string{}}
}

// Add ...
func (m *Memory) Add(_ context.Context, player uuid.UUID, name, ride, server string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals[memoryKey{player: player, ride: ride, server: ServerBase(server)}]++
	m.names[player] = name
	return nil
}

// Count ...
func (m *Memory) Count(_ context.Context, player uuid.UUID, ride string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for k, n := range m.totals {
		if k.player == player && k.ride == ride {
			total += n
		}
	}
	return total, nil
}

// Top ...
func (m *Memory) Top(_ context.Context, ride string, limit int) ([]Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	combined := map[uuid.UUID]int64{}
	for k, n := range m.totals {
		if k.ride == ride {
			combined[k.player] += n
		}
	}
	rows := make([]Row, 0, len(combined))
	for player, total := range combined {
		rows = append(rows, Row{Player: player, Name: m.names[player], Total: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Name < rows[j].Name
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// Close ...
func (m *Memory) Close() error { return nil }
