// Package food tracks the food locations of each park. Locations are simple
// named points of interest: each one carries a warp players may travel to and
// an icon shown in listings.
package food

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sparkparks/parkmanager/park/internal/jsonstore"
	"github.com/sparkparks/parkmanager/park/item"
)

var (
	// ErrFoodExists is returned by Manager.Create when a location with the
	// same identifier already exists in the park.
	ErrFoodExists = errors.New("food location already exists")
	// ErrUnknownFood is returned when no location with the identifier passed
	// exists in the park.
	ErrUnknownFood = errors.New("food location not found")
)

// Location is a food location inside a park.
type Location struct {
	// ID identifies the location within its park. It is compared case
	// insensitively.
	ID string `json:"id"`
	// Name is the display name shown to players, such as "Casey's Corner".
	Name string `json:"name"`
	// Warp names the warp players are sent to when travelling to the
	// location.
	Warp string `json:"warp"`
	// Icon is the stack representing the location in listings.
	Icon item.Stack `json:"item"`
}

// Manager holds the food locations of every park of the node, loaded from and
// saved to one JSON file per park. Its state is owned by the node's
// transaction loop.
type Manager struct {
	dir string
	log *slog.Logger

	locs map[string]map[string]Location
}

// NewManager returns a Manager persisting to dir.
func NewManager(dir string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{dir: dir, log: log, locs: map[string]map[string]Location{}}
}

// Load reads the food locations of the parks passed. Parks without a file
// start empty.
func (m *Manager) Load(parks []string) error {
	for _, park := range parks {
		var locs []Location
		if _, err := jsonstore.Read(m.path(park), &locs); err != nil {
			return fmt.Errorf("load food locations of %v: %w", park, err)
		}
		byID := make(map[string]Location, len(locs))
		for _, l := range locs {
			byID[strings.ToLower(l.ID)] = l
		}
		m.locs[park] = byID
	}
	return nil
}

// Create adds a location to a park and persists the park's locations. It
// returns ErrFoodExists if the identifier is already taken.
func (m *Manager) Create(park string, l Location) error {
	byID, ok := m.locs[park]
	if !ok {
		byID = map[string]Location{}
		m.locs[park] = byID
	}
	key := strings.ToLower(l.ID)
	if _, ok := byID[key]; ok {
		return ErrFoodExists
	}
	byID[key] = l
	return m.save(park)
}

// Remove deletes a location from a park and persists the change. It returns
// ErrUnknownFood if no location with the identifier exists.
func (m *Manager) Remove(park, id string) error {
	byID := m.locs[park]
	key := strings.ToLower(id)
	if _, ok := byID[key]; !ok {
		return ErrUnknownFood
	}
	delete(byID, key)
	return m.save(park)
}

// ByID finds a location in a park by its identifier, case insensitively.
func (m *Manager) ByID(park, id string) (Location, bool) {
	l, ok := m.locs[park][strings.ToLower(id)]
	return l, ok
}

// Park returns the locations of a park sorted by identifier.
func (m *Manager) Park(park string) []Location {
	byID := m.locs[park]
	locs := make([]Location, 0, len(byID))
	for _, l := range byID {
		locs = append(locs, l)
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i].ID < locs[j].ID })
	return locs
}

func (m *Manager) save(park string) error {
	if err := jsonstore.Write(m.path(park), m.Park(park)); err != nil {
		m.log.Error("save food locations", "park", park, "err", err)
		return fmt.Errorf("save food locations of %v: %w", park, err)
	}
	return nil
}

func (m *Manager) path(park string) string {
	return filepath.Join(m.dir, "food", park+".json")
}
