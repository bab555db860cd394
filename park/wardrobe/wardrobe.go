// Package wardrobe implements outfit definitions and the per-player sets of
// owned outfits that shop purchases check against.
package wardrobe

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/sparkparks/parkmanager/park/internal/jsonstore"
	"github.com/sparkparks/parkmanager/park/storage"
)

var (
	// ErrUnknownOutfit is returned when an outfit id does not resolve.
	ErrUnknownOutfit = errors.New("wardrobe: unknown outfit")
	// ErrNotOwned is returned when equipping an outfit the player does not
	// own.
	ErrNotOwned = errors.New("wardrobe: outfit not owned")
)

// Outfit is a wearable costume definition. Piece names follow the same item
// naming as stacks; empty pieces leave the slot untouched.
type Outfit struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Head  string `json:"head,omitempty"`
	Chest string `json:"chest,omitempty"`
	Legs  string `json:"legs,omitempty"`
	Boots string `json:"boots,omitempty"`
}

// wardrobeFile is the persisted form of the outfit registry. The id counter is
// stored so that ids are never reused after a removal.
type wardrobeFile struct {
	Next    int      `json:"next"`
	Outfits []Outfit `json:"outfits"`
}

// Manager holds the outfit definitions of the resort and the owned sets of the
// players connected to this node. The owned sets are loaded from player
// records on join, held in memory while online, and written back through the
// storage flusher. Manager is owned by the node's transaction loop.
type Manager struct {
	path string
	log  *slog.Logger

	next    int
	outfits map[int]Outfit
	owned   map[uuid.UUID]map[int]struct{}
}

// NewManager returns a Manager persisting outfit definitions to the file at
// path.
func NewManager(path string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		path:    path,
		log:     log,
		outfits: map[int]Outfit{},
		owned:   map[uuid.UUID]map[int]struct{}{},
	}
}

// Load reads the outfit definition file.
func (m *Manager) Load() error {
	var f wardrobeFile
	if _, err := jsonstore.Read(m.path, &f); err != nil {
		return fmt.Errorf("load outfits: %w", err)
	}
	m.next = f.Next
	for _, o := range f.Outfits {
		m.outfits[o.ID] = o
	}
	return nil
}

// Create registers a new outfit definition and persists the registry. Ids are
// assigned by an incrementing counter and never reused.
func (m *Manager) Create(name, head, chest, legs, boots string) (Outfit, error) {
	o := Outfit{ID: m.next, Name: name, Head: head, Chest: chest, Legs: legs, Boots: boots}
	m.next++
	m.outfits[o.ID] = o
	return o, m.save()
}

// Remove deletes the outfit definition with the id passed. It reports whether
// an outfit was removed. Shop entries referencing the outfit are pruned when
// their shop is next listed.
func (m *Manager) Remove(id int) (bool, error) {
	if _, ok := m.outfits[id]; !ok {
		return false, nil
	}
	delete(m.outfits, id)
	return true, m.save()
}

// ByID resolves an outfit definition by id.
func (m *Manager) ByID(id int) (Outfit, bool) {
	o, ok := m.outfits[id]
	return o, ok
}

// Exists reports whether an outfit definition with the id passed exists.
func (m *Manager) Exists(id int) bool {
	_, ok := m.outfits[id]
	return ok
}

// All returns every outfit definition sorted by id.
func (m *Manager) All() []Outfit {
	outfits := make([]Outfit, 0, len(m.outfits))
	for _, o := range m.outfits {
		outfits = append(outfits, o)
	}
	slices.SortFunc(outfits, func(a, b Outfit) int { return a.ID - b.ID })
	return outfits
}

// LoadOwned populates the owned set of a player from the outfit ids of its
// storage record, called when the player joins.
func (m *Manager) LoadOwned(player uuid.UUID, ids []int) {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	m.owned[player] = set
}

// DropOwned discards the owned set of a player, called when the player quits.
func (m *Manager) DropOwned(player uuid.UUID) {
	delete(m.owned, player)
}

// Owns reports whether the player owns the outfit with the id passed.
func (m *Manager) Owns(player uuid.UUID, id int) bool {
	_, ok := m.owned[player][id]
	return ok
}

// Grant records ownership of an outfit. Granting an outfit twice is a no-op;
// it reports whether ownership was newly recorded. The caller persists the
// player's record afterwards.
func (m *Manager) Grant(player uuid.UUID, id int) bool {
	set, ok := m.owned[player]
	if !ok {
		set = map[int]struct{}{}
		m.owned[player] = set
	}
	if _, ok := set[id]; ok {
		return false
	}
	set[id] = struct{}{}
	return true
}

// Owned returns the outfit ids the player owns, sorted.
func (m *Manager) Owned(player uuid.UUID) []int {
	ids := make([]int, 0, len(m.owned[player]))
	for id := range m.owned[player] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Equip marks the outfit as worn on the player's record. The player must own
// the outfit and its definition must still exist.
func (m *Manager) Equip(rec *storage.Record, player uuid.UUID, id int) error {
	if !m.Exists(id) {
		return ErrUnknownOutfit
	}
	if !m.Owns(player, id) {
		return ErrNotOwned
	}
	rec.Equipped = id
	return nil
}

func (m *Manager) save() error {
	f := wardrobeFile{Next: m.next, Outfits: m.All()}
	if err := jsonstore.Write(m.path, f); err != nil {
		m.log.Error("save outfits", "err", err)
		return fmt.Errorf("save outfits: %w", err)
	}
	return nil
}
