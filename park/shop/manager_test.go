package shop

import (
	"errors"
	"testing"

	"github.com/sparkparks/parkmanager/park/economy"
	"github.com/sparkparks/parkmanager/park/item"
)

// fakeOutfits is an OutfitSource backed by a plain set of ids.
type fakeOutfits map[int]struct{}

func (f fakeOutfits) Exists(id int) bool {
	_, ok := f[id]
	return ok
}

var _ OutfitSource = fakeOutfits{}

func TestManagerCreateRemove(t *testing.T) {
	t.Parallel()
	m := NewManager(t.TempDir(), nil, nil)

	s, err := m.Create("park", "emporium", "The Emporium", "plaza", item.New("chest", 1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.Create("park", "emporium", "Other", "plaza", item.Stack{}); !errors.Is(err, ErrShopExists) {
		t.Fatalf("Create duplicate: got %v, want %v", err, ErrShopExists)
	}
	if got, ok := m.ByID("park", "emporium"); !ok || got != s {
		t.Fatalf("ByID did not resolve the created shop")
	}
	if _, ok := m.ByID("waterpark", "emporium"); ok {
		t.Fatalf("shop resolved in the wrong park")
	}
	if err := m.Remove("park", "emporium"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := m.Remove("park", "emporium"); !errors.Is(err, ErrUnknownShop) {
		t.Fatalf("Remove twice: got %v, want %v", err, ErrUnknownShop)
	}
}

// TestManagerPersistence verifies that shops, their entries and the entry id
// counter survive a reload, so ids keep increasing after a restart.
func TestManagerPersistence(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	m := NewManager(dir, nil, nil)
	s, err := m.Create("park", "emporium", "The Emporium", "plaza", item.New("chest", 1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.AddItem(item.New("churro", 1), 50, economy.Balance)
	s.AddItem(item.New("balloon", 1), 20, economy.Balance)
	s.RemoveItem(0)
	if err := m.Save("park"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := NewManager(dir, nil, nil)
	if err := reloaded.Load([]string{"park"}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	rs, ok := reloaded.ByID("park", "emporium")
	if !ok {
		t.Fatalf("shop missing after reload")
	}
	items := rs.Items()
	if len(items) != 1 || items[0].ID != 1 {
		t.Fatalf("items after reload: got %v, want one entry with id 1", items)
	}
	if added := rs.AddItem(item.New("hat", 1), 75, economy.Balance); added.ID != 2 {
		t.Fatalf("id after reload: got %v, want 2", added.ID)
	}
}

// TestManagerOutfitPruning verifies that outfit entries whose definition has
// been removed disappear from listings and from the persisted shop.
func TestManagerOutfitPruning(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	m := NewManager(dir, fakeOutfits{1: {}}, nil)

	s, err := m.Create("park", "boutique", "The Boutique", "plaza", item.Stack{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	kept := s.AddOutfit(1, 100, economy.Tokens)
	s.AddOutfit(2, 150, economy.Tokens)
	if err := m.Save("park"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	outfits := m.Outfits(s)
	if len(outfits) != 1 || outfits[0].ID != kept.ID {
		t.Fatalf("Outfits after pruning: got %v, want only entry %v", outfits, kept.ID)
	}

	// The prune persists, so a reload must not resurrect the dangling entry.
	reloaded := NewManager(dir, fakeOutfits{1: {}}, nil)
	if err := reloaded.Load([]string{"park"}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	rs, _ := reloaded.ByID("park", "boutique")
	if outfits := reloaded.Outfits(rs); len(outfits) != 1 {
		t.Fatalf("outfits after reload: got %v, want 1 entry", outfits)
	}
}
