// Package show keeps the daily show schedule of each park. Schedule edits
// apply in memory right away and are written to disk only when the schedule
// is explicitly updated, so a set of edits can be reviewed before it is made
// permanent.
package show

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sparkparks/parkmanager/park/internal/jsonstore"
)

var (
	// ErrUnknownShow is returned when no show with the identifier passed is
	// scheduled in the park.
	ErrUnknownShow = errors.New("show not found")
	// ErrBadStart is returned when a show start time does not parse as a
	// 24-hour "15:04" clock time.
	ErrBadStart = errors.New("start time must be of the form 15:04")
)

// Show is one scheduled show of a park, starting at the same time every day.
type Show struct {
	// ID identifies the show within its park, compared case insensitively.
	ID string `json:"id"`
	// Name is the display name announced to players.
	Name string `json:"name"`
	// Warp names the warp of the show's venue. It is included in the start
	// announcement when set.
	Warp string `json:"warp,omitempty"`
	// Start is the daily start time in 24-hour "15:04" form.
	Start string `json:"start"`
	// Duration is the show length in minutes. Shows with no duration are
	// announced but never reported as running.
	Duration int `json:"duration,omitempty"`
}

// ParseStart validates a show start time, returning its normalised "15:04"
// form.
func ParseStart(s string) (string, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return "", ErrBadStart
	}
	return t.Format("15:04"), nil
}

// Manager holds the show schedules of every park of the node. Its state is
// owned by the node's transaction loop.
type Manager struct {
	dir string
	log *slog.Logger

	shows map[string]map[string]Show
	dirty map[string]bool
}

// NewManager returns a Manager persisting to dir.
func NewManager(dir string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{dir: dir, log: log, shows: map[string]map[string]Show{}, dirty: map[string]bool{}}
}

// Load reads the schedules of the parks passed. Parks without a schedule file
// start empty.
func (m *Manager) Load(parks []string) error {
	for _, park := range parks {
		var shows []Show
		if _, err := jsonstore.Read(m.path(park), &shows); err != nil {
			return fmt.Errorf("load show schedule of %v: %w", park, err)
		}
		byID := make(map[string]Show, len(shows))
		for _, s := range shows {
			byID[strings.ToLower(s.ID)] = s
		}
		m.shows[park] = byID
	}
	return nil
}

// Set adds a show to a park's schedule or replaces the show with the same
// identifier. The change is in memory only until Update is called.
func (m *Manager) Set(park string, s Show) error {
	start, err := ParseStart(s.Start)
	if err != nil {
		return err
	}
	s.Start = start
	byID, ok := m.shows[park]
	if !ok {
		byID = map[string]Show{}
		m.shows[park] = byID
	}
	byID[strings.ToLower(s.ID)] = s
	m.dirty[park] = true
	return nil
}

// Remove deletes a show from a park's schedule in memory. It returns
// ErrUnknownShow if no show with the identifier exists.
func (m *Manager) Remove(park, id string) error {
	byID := m.shows[park]
	key := strings.ToLower(id)
	if _, ok := byID[key]; !ok {
		return ErrUnknownShow
	}
	delete(byID, key)
	m.dirty[park] = true
	return nil
}

// Update writes the current schedule of a park to disk, making any pending
// edits permanent.
func (m *Manager) Update(park string) error {
	if err := jsonstore.Write(m.path(park), m.Park(park)); err != nil {
		m.log.Error("save show schedule", "park", park, "err", err)
		return fmt.Errorf("save show schedule of %v: %w", park, err)
	}
	m.dirty[park] = false
	return nil
}

// Dirty reports whether a park's schedule has edits not yet written to disk.
func (m *Manager) Dirty(park string) bool {
	return m.dirty[park]
}

// ByID finds a show in a park's schedule by its identifier.
func (m *Manager) ByID(park, id string) (Show, bool) {
	s, ok := m.shows[park][strings.ToLower(id)]
	return s, ok
}

// Park returns a park's schedule sorted by start time, then by identifier.
func (m *Manager) Park(park string) []Show {
	byID := m.shows[park]
	shows := make([]Show, 0, len(byID))
	for _, s := range byID {
		shows = append(shows, s)
	}
	sort.Slice(shows, func(i, j int) bool {
		if shows[i].Start != shows[j].Start {
			return shows[i].Start < shows[j].Start
		}
		return shows[i].ID < shows[j].ID
	})
	return shows
}

// Starting returns the shows of a park that start at the clock minute of t.
// The node's loop calls this once per minute to announce shows as they begin.
func (m *Manager) Starting(park string, t time.Time) []Show {
	minute := t.Format("15:04")
	var starting []Show
	for _, s := range m.Park(park) {
		if s.Start == minute {
			starting = append(starting, s)
		}
	}
	return starting
}

// Running returns the shows of a park in progress at t: those that started at
// most their duration ago. Start times are daily, so a show spanning midnight
// is still reported on the far side.
func (m *Manager) Running(park string, t time.Time) []Show {
	nowMin := t.Hour()*60 + t.Minute()
	var running []Show
	for _, s := range m.Park(park) {
		st, err := time.Parse("15:04", s.Start)
		if err != nil {
			continue
		}
		elapsed := nowMin - (st.Hour()*60 + st.Minute())
		if elapsed < 0 {
			elapsed += 24 * 60
		}
		if elapsed < s.Duration {
			running = append(running, s)
		}
	}
	return running
}

func (m *Manager) path(park string) string {
	return filepath.Join(m.dir, "show", park+".json")
}
