package show

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestParseStart(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]string{
		"09:30": "09:30",
		"9:30":  "09:30",
		"23:59": "23:59",
		"00:00": "00:00",
	} {
		got, err := ParseStart(in)
		if err != nil {
			t.Fatalf("ParseStart(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseStart(%q): got %q, want %q", in, got, want)
		}
	}
	for _, in := range []string{"24:00", "12:60", "noon", "12", ""} {
		if _, err := ParseStart(in); !errors.Is(err, ErrBadStart) {
			t.Fatalf("ParseStart(%q): got %v, want %v", in, err, ErrBadStart)
		}
	}
}

// TestManagerStagedEdits verifies that edits stay in memory until Update: a
// reload discards them, an updated schedule survives one.
func TestManagerStagedEdits(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	m := NewManager(dir, nil)
	if err := m.Set("park", Show{ID: "parade", Name: "Main Street Parade", Start: "15:00"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !m.Dirty("park") {
		t.Fatalf("schedule not dirty after Set")
	}

	// The edit was never written, so a reload comes up empty.
	dropped := NewManager(dir, nil)
	if err := dropped.Load([]string{"park"}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if shows := dropped.Park("park"); len(shows) != 0 {
		t.Fatalf("unsaved edits survived a reload: %v", shows)
	}

	if err := m.Update("park"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if m.Dirty("park") {
		t.Fatalf("schedule still dirty after Update")
	}

	saved := NewManager(dir, nil)
	if err := saved.Load([]string{"park"}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s, ok := saved.ByID("park", "PARADE")
	if !ok {
		t.Fatalf("show missing after Update and reload")
	}
	if s.Start != "15:00" {
		t.Fatalf("show start: got %q, want %q", s.Start, "15:00")
	}
}

func TestManagerRemove(t *testing.T) {
	t.Parallel()
	m := NewManager(t.TempDir(), nil)
	if err := m.Set("park", Show{ID: "parade", Name: "Main Street Parade", Start: "15:00"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Remove("park", "fireworks"); !errors.Is(err, ErrUnknownShow) {
		t.Fatalf("Remove unknown: got %v, want %v", err, ErrUnknownShow)
	}
	if err := m.Remove("park", "Parade"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := m.ByID("park", "parade"); ok {
		t.Fatalf("show still resolvable after Remove")
	}
}

func TestManagerParkOrder(t *testing.T) {
	t.Parallel()
	m := NewManager(t.TempDir(), nil)
	for _, s := range []Show{
		{ID: "fireworks", Name: "Night Sky Fireworks", Start: "21:00"},
		{ID: "parade", Name: "Main Street Parade", Start: "15:00"},
		{ID: "encore", Name: "Encore Parade", Start: "15:00"},
	} {
		if err := m.Set("park", s); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	shows := m.Park("park")
	if len(shows) != 3 {
		t.Fatalf("schedule length: got %v, want 3", len(shows))
	}
	// Start time first, identifier second.
	if shows[0].ID != "encore" || shows[1].ID != "parade" || shows[2].ID != "fireworks" {
		t.Fatalf("schedule order: got %v, %v, %v", shows[0].ID, shows[1].ID, shows[2].ID)
	}
}

func TestManagerStarting(t *testing.T) {
	t.Parallel()
	m := NewManager(t.TempDir(), nil)
	if err := m.Set("park", Show{ID: "parade", Name: "Main Street Parade", Start: "15:00"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Set("park", Show{ID: "fireworks", Name: "Night Sky Fireworks", Start: "21:00"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	at := time.Date(2025, time.July, 4, 15, 0, 30, 0, time.UTC)
	starting := m.Starting("park", at)
	if len(starting) != 1 || starting[0].ID != "parade" {
		t.Fatalf("shows starting at 15:00: got %v, want the parade", starting)
	}
	if starting := m.Starting("park", at.Add(time.Minute)); len(starting) != 0 {
		t.Fatalf("shows starting at 15:01: got %v, want none", starting)
	}
}

func TestManagerRunning(t *testing.T) {
	t.Parallel()
	m := NewManager(t.TempDir(), nil)
	if err := m.Set("park", Show{ID: "parade", Name: "Main Street Parade", Start: "15:00", Duration: 30}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	// Fireworks have no duration: announced at 21:00, never reported running.
	if err := m.Set("park", Show{ID: "fireworks", Name: "Night Sky Fireworks", Start: "21:00"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Set("park", Show{ID: "latenight", Name: "Late Night Dance", Start: "23:50", Duration: 40}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	day := time.Date(2025, time.July, 4, 0, 0, 0, 0, time.UTC)
	at := func(h, min int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(min)*time.Minute) }

	for _, tt := range []struct {
		at   time.Time
		want []string
	}{
		{at(14, 59), nil},
		{at(15, 0), []string{"parade"}},
		{at(15, 29), []string{"parade"}},
		{at(15, 30), nil},
		{at(21, 0), nil},
		{at(23, 55), []string{"latenight"}},
		// A show spanning midnight is still running on the far side.
		{at(0, 20), []string{"latenight"}},
		{at(0, 30), nil},
	} {
		var got []string
		for _, s := range m.Running("park", tt.at) {
			got = append(got, s.ID)
		}
		if !slices.Equal(got, tt.want) {
			t.Fatalf("running at %v: got %v, want %v", tt.at.Format("15:04"), got, tt.want)
		}
	}
}
