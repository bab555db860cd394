package shop

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sparkparks/parkmanager/park/internal/jsonstore"
	"github.com/sparkparks/parkmanager/park/item"
)

var (
	// ErrShopExists is returned when creating a shop with an id that is taken
	// in its park.
	ErrShopExists = errors.New("shop: shop already exists")
	// ErrUnknownShop is returned when a shop id does not resolve.
	ErrUnknownShop = errors.New("shop: unknown shop")
)

// OutfitSource reports whether an outfit definition still exists. Outfit
// entries whose definition is gone are pruned from shops when listed.
type OutfitSource interface {
	Exists(id int) bool
}

// shopDef is the persisted form of a shop.
type shopDef struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Warp    string     `json:"warp"`
	Icon    item.Stack `json:"item"`
	Next    int        `json:"next-id"`
	Items   []Item     `json:"items"`
	Outfits []Outfit   `json:"outfits"`
}

// Manager loads, persists and resolves the shops of the parks hosted by this
// node. It is owned by the node's transaction loop.
type Manager struct {
	dir     string
	log     *slog.Logger
	outfits OutfitSource

	shops map[string]map[string]*Shop
}

// NewManager returns a Manager persisting to dir and pruning outfit entries
// against outfits.
func NewManager(dir string, outfits OutfitSource, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{dir: dir, log: log, outfits: outfits, shops: map[string]map[string]*Shop{}}
}

// Load reads the shop files of the parks passed.
func (m *Manager) Load(parks []string) error {
	for _, park := range parks {
		if err := m.Reload(park); err != nil {
			return err
		}
	}
	return nil
}

// Reload re-reads the shop file of a park, discarding unsaved in-memory state
// of that park's shops.
func (m *Manager) Reload(park string) error {
	var defs []shopDef
	if _, err := jsonstore.Read(m.file(park), &defs); err != nil {
		return fmt.Errorf("load shops: %w", err)
	}
	shops := make(map[string]*Shop, len(defs))
	for _, d := range defs {
		shops[d.ID] = &Shop{
			id: d.ID, park: park, name: d.Name, warp: d.Warp, icon: d.Icon,
			next: d.Next, items: d.Items, outfits: d.Outfits,
		}
	}
	m.shops[park] = shops
	return nil
}

// Create registers a new empty shop and persists its park.
func (m *Manager) Create(park, id, name, warp string, icon item.Stack) (*Shop, error) {
	shops := m.park(park)
	if _, ok := shops[id]; ok {
		return nil, ErrShopExists
	}
	s := &Shop{id: id, park: park, name: name, warp: warp, icon: icon}
	shops[id] = s
	return s, m.Save(park)
}

// Remove deletes the shop with the id passed from a park.
func (m *Manager) Remove(park, id string) error {
	shops := m.park(park)
	if _, ok := shops[id]; !ok {
		return ErrUnknownShop
	}
	delete(shops, id)
	return m.Save(park)
}

// ByID resolves a shop by park and id.
func (m *Manager) ByID(park, id string) (*Shop, bool) {
	s, ok := m.park(park)[id]
	return s, ok
}

// Park returns the shops of a park sorted by id.
func (m *Manager) Park(park string) []*Shop {
	shops := make([]*Shop, 0, len(m.park(park)))
	for _, s := range m.park(park) {
		shops = append(shops, s)
	}
	slices.SortFunc(shops, func(a, b *Shop) int { return strings.Compare(a.id, b.id) })
	return shops
}

// Outfits returns the outfit entries of a shop in id order, pruning entries
// whose outfit definition no longer exists. Pruning persists the shop; a
// failed write is logged and the pruned list stands.
func (m *Manager) Outfits(s *Shop) []Outfit {
	kept := s.outfits[:0:0]
	pruned := false
	for _, o := range s.outfits {
		if m.outfits != nil && !m.outfits.Exists(o.OutfitID) {
			pruned = true
			continue
		}
		kept = append(kept, o)
	}
	if pruned {
		s.outfits = kept
		if err := m.Save(s.park); err != nil {
			m.log.Error("save pruned shop", "park", s.park, "shop", s.id, "err", err)
		}
	}
	outfits := make([]Outfit, len(kept))
	copy(outfits, kept)
	return outfits
}

// Save persists the shops of a park. Called after mutating a shop's entries.
func (m *Manager) Save(park string) error {
	defs := make([]shopDef, 0, 8)
	for _, s := range m.Park(park) {
		defs = append(defs, shopDef{
			ID: s.id, Name: s.name, Warp: s.warp, Icon: s.icon,
			Next: s.next, Items: s.items, Outfits: s.outfits,
		})
	}
	if err := jsonstore.Write(m.file(park), defs); err != nil {
		m.log.Error("save shops", "park", park, "err", err)
		return fmt.Errorf("save shops: %w", err)
	}
	return nil
}

func (m *Manager) park(park string) map[string]*Shop {
	shops, ok := m.shops[park]
	if !ok {
		shops = map[string]*Shop{}
		m.shops[park] = shops
	}
	return shops
}

func (m *Manager) file(park string) string {
	return filepath.Join(m.dir, "shop", park+".json")
}
