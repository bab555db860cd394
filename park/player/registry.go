package player

import (
	"errors"
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// ErrAlreadyConnected is returned when adding a player whose UUID is already
// registered.
var ErrAlreadyConnected = errors.New("player: already connected")

// Registry tracks the players currently connected to this node. It is owned by
// the node's transaction loop and must only be used from it.
type Registry struct {
	players map[uuid.UUID]*Player
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{players: map[uuid.UUID]*Player{}}
}

// Add registers a connected player.
func (r *Registry) Add(p *Player) error {
	if _, ok := r.players[p.UUID()]; ok {
		return ErrAlreadyConnected
	}
	r.players[p.UUID()] = p
	return nil
}

// Remove unregisters the player with the UUID passed, returning it if it was
// connected.
func (r *Registry) Remove(id uuid.UUID) (*Player, bool) {
	p, ok := r.players[id]
	delete(r.players, id)
	return p, ok
}

// ByID resolves a connected player by UUID.
func (r *Registry) ByID(id uuid.UUID) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// ByName resolves a connected player by name, case-insensitively.
func (r *Registry) ByName(name string) (*Player, bool) {
	for _, p := range r.players {
		if strings.EqualFold(p.Name(), name) {
			return p, true
		}
	}
	return nil, false
}

// Count returns the number of connected players.
func (r *Registry) Count() int { return len(r.players) }

// All returns an iterator over the connected players, sorted by name.
func (r *Registry) All() iter.Seq[*Player] {
	players := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}
	slices.SortFunc(players, func(a, b *Player) int { return strings.Compare(a.Name(), b.Name()) })
	return slices.Values(players)
}

// Park returns an iterator over the connected players currently in the park
// passed, sorted by name.
func (r *Registry) Park(park string) iter.Seq[*Player] {
	players := make([]*Player, 0, len(r.players))
	for _, p := range r.players {
		if p.Park() == park {
			players = append(players, p)
		}
	}
	slices.SortFunc(players, func(a, b *Player) int { return strings.Compare(a.Name(), b.Name()) })
	return slices.Values(players)
}
