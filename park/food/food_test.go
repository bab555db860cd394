package food

import (
	"errors"
	"testing"

	"github.com/sparkparks/parkmanager/park/item"
)

func TestManagerCreateRemove(t *testing.T) {
	t.Parallel()
	m := NewManager(t.TempDir(), nil)

	l := Location{ID: "caseys", Name: "Casey's Corner", Warp: "caseys", Icon: item.New("hotdog", 1)}
	if err := m.Create("park", l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Create("park", Location{ID: "CASEYS", Name: "Other"}); !errors.Is(err, ErrFoodExists) {
		t.Fatalf("Create duplicate id: got %v, want %v", err, ErrFoodExists)
	}

	got, ok := m.ByID("park", "Caseys")
	if !ok {
		t.Fatalf("ByID did not resolve case-insensitively")
	}
	if got.Name != "Casey's Corner" {
		t.Fatalf("location name: got %q, want %q", got.Name, "Casey's Corner")
	}

	if err := m.Remove("park", "nope"); !errors.Is(err, ErrUnknownFood) {
		t.Fatalf("Remove unknown: got %v, want %v", err, ErrUnknownFood)
	}
	if err := m.Remove("park", "CASEYS"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := m.ByID("park", "caseys"); ok {
		t.Fatalf("location still resolvable after Remove")
	}
}

func TestManagerPersistence(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	m := NewManager(dir, nil)
	for _, l := range []Location{
		{ID: "pretzels", Name: "Twisted Pretzels", Warp: "pretzels"},
		{ID: "caseys", Name: "Casey's Corner", Warp: "caseys"},
	} {
		if err := m.Create("park", l); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	reloaded := NewManager(dir, nil)
	if err := reloaded.Load([]string{"park"}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	locs := reloaded.Park("park")
	if len(locs) != 2 {
		t.Fatalf("locations after reload: got %v, want 2", len(locs))
	}
	// Park sorts by identifier.
	if locs[0].ID != "caseys" || locs[1].ID != "pretzels" {
		t.Fatalf("location order: got %v, %v", locs[0].ID, locs[1].ID)
	}
}

func TestManagerLoadMissingFile(t *testing.T) {
	t.Parallel()
	m := NewManager(t.TempDir(), nil)
	if err := m.Load([]string{"park", "waterpark"}); err != nil {
		t.Fatalf("Load without files: %v", err)
	}
	if locs := m.Park("park"); len(locs) != 0 {
		t.Fatalf("locations in a fresh park: got %v, want none", locs)
	}
}
