package warp

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRegistrySetRemove(t *testing.T) {
	t.Parallel()
	r := NewRegistry(t.TempDir(), nil)

	w := Warp{Name: "Plaza", Park: "park", Pos: mgl64.Vec3{120.5, 64, -30}, Yaw: 90}
	if err := r.Set(w); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := r.ByName("plaza")
	if !ok {
		t.Fatalf("ByName did not resolve case-insensitively")
	}
	if got.Pos != w.Pos || got.Yaw != 90 {
		t.Fatalf("warp: got %+v, want %+v", got, w)
	}

	// Set with the same name replaces.
	w.Pos = mgl64.Vec3{0, 70, 0}
	if err := r.Set(w); err != nil {
		t.Fatalf("Set replace: %v", err)
	}
	if got, _ := r.ByName("PLAZA"); got.Pos != w.Pos {
		t.Fatalf("warp not replaced: %+v", got)
	}

	removed, err := r.Remove("plaza")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Fatalf("Remove did not report removal")
	}
	if removed, _ := r.Remove("plaza"); removed {
		t.Fatalf("Remove reported removal twice")
	}
}

func TestRegistryPersistence(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	r := NewRegistry(dir, nil)
	for _, w := range []Warp{
		{Name: "plaza", Park: "park", Pos: mgl64.Vec3{1, 64, 1}},
		{Name: "coaster", Park: "park", Pos: mgl64.Vec3{40, 70, -12}, Server: "castle1", Yaw: 180, Pitch: -5},
	} {
		if err := r.Set(w); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	reloaded := NewRegistry(dir, nil)
	if err := reloaded.Load([]string{"park"}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	warps := reloaded.Park("park")
	if len(warps) != 2 {
		t.Fatalf("warps after reload: got %v, want 2", len(warps))
	}
	// Park sorts by name and re-attaches the park name dropped from the file.
	if warps[0].Name != "coaster" || warps[0].Park != "park" {
		t.Fatalf("first warp after reload: %+v", warps[0])
	}
	if warps[0].Server != "castle1" || warps[0].Yaw != 180 || warps[0].Pitch != -5 {
		t.Fatalf("warp fields lost across reload: %+v", warps[0])
	}
}
