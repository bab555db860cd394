package park

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestStaffAddRemove(t *testing.T) {
	s := NewStaff()

	added, err := s.Add("Alex")
	if err != nil || !added {
		t.Fatalf("add: got %v, %v", added, err)
	}
	added, err = s.Add("aLEX")
	if err != nil || added {
		t.Fatalf("adding an existing name reported %v, %v", added, err)
	}
	if !s.Is("ALEX") {
		t.Fatalf("Is is not case-insensitive")
	}
	if s.Is("Billie") {
		t.Fatalf("Is reported a name that is not on the roster")
	}
	if _, err := s.Add("   "); err != ErrStaffInvalidName {
		t.Fatalf("add blank name: got %v, want %v", err, ErrStaffInvalidName)
	}

	removed, err := s.Remove("alex")
	if err != nil || !removed {
		t.Fatalf("remove: got %v, %v", removed, err)
	}
	removed, err = s.Remove("Alex")
	if err != nil || removed {
		t.Fatalf("removing a removed name reported %v, %v", removed, err)
	}
	if _, err := s.Remove(""); err != ErrStaffInvalidName {
		t.Fatalf("remove blank name: got %v, want %v", err, ErrStaffInvalidName)
	}
}

func TestStaffNames(t *testing.T) {
	s := NewStaff()
	for _, name := range []string{"billie", "Alex", "cass"} {
		if _, err := s.Add(name); err != nil {
			t.Fatalf("add %v: %v", name, err)
		}
	}
	if got, want := s.Names(), []string{"Alex", "billie", "cass"}; !slices.Equal(got, want) {
		t.Fatalf("names: got %v, want %v", got, want)
	}
}

func TestStaffPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staff.toml")
	s, err := LoadStaff(path)
	if err != nil {
		t.Fatalf("load staff roster: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("roster file was not created: %v", err)
	}

	for _, name := range []string{"Alex", "Billie"} {
		if _, err := s.Add(name); err != nil {
			t.Fatalf("add %v: %v", name, err)
		}
	}
	if _, err := s.Remove("Billie"); err != nil {
		t.Fatalf("remove Billie: %v", err)
	}

	reloaded, err := LoadStaff(path)
	if err != nil {
		t.Fatalf("reload staff roster: %v", err)
	}
	if !reloaded.Is("alex") {
		t.Fatalf("reloaded roster lost Alex")
	}
	if got, want := reloaded.Names(), []string{"Alex"}; !slices.Equal(got, want) {
		t.Fatalf("reloaded names: got %v, want %v", got, want)
	}
}

func TestLoadStaffEmptyPath(t *testing.T) {
	if _, err := LoadStaff("  "); err == nil {
		t.Fatalf("loading a roster without a path succeeded")
	}
}
