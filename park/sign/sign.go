// Package sign registers the interactive signs placed around each park. A
// sign is a world position tagged with a kind and an optional payload naming
// what the sign points at, such as the queue a queue sign belongs to.
package sign

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sparkparks/parkmanager/park/internal/jsonstore"
)

// Kind is the behaviour of an interactive sign.
type Kind int

const (
	// Disposal signs open a throw-away inventory.
	Disposal Kind = iota
	// Leaderboard signs show the top ride counts of their ride.
	Leaderboard
	// WarpSign signs teleport the player to the warp named by the payload.
	WarpSign
	// QueueSign signs join the player to the queue named by the payload.
	QueueSign
	// ShopSign signs open the shop named by the payload.
	ShopSign
)

var kindNames = map[Kind]string{
	Disposal:    "disposal",
	Leaderboard: "leaderboard",
	WarpSign:    "warp",
	QueueSign:   "queue",
	ShopSign:    "shop",
}

// ErrUnknownKind is returned by ParseKind for a name that is not a sign kind.
var ErrUnknownKind = errors.New("unknown sign kind")

// ErrUnknownSign is returned when no sign with the identifier passed exists
// in the park.
var ErrUnknownSign = errors.New("sign not found")

// String ...
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText ...
func (k Kind) MarshalText() ([]byte, error) {
	n, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(n), nil
}

// UnmarshalText ...
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses a sign kind from its name, case insensitively.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(s, n) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds returns the names of all sign kinds sorted alphabetically.
func Kinds() []string {
	names := make([]string, 0, len(kindNames))
	for _, n := range kindNames {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Entry is one registered sign.
type Entry struct {
	// ID identifies the sign within its park. Identifiers count up from zero
	// and are never reused.
	ID int `json:"id"`
	// Kind is the behaviour of the sign.
	Kind Kind `json:"kind"`
	// Pos is the block position of the sign in the park's world.
	Pos [3]int `json:"pos"`
	// Payload names what the sign points at. Its meaning depends on the
	// kind: a warp name for warp signs, a queue identifier for queue signs, a
	// shop identifier for shop signs and a ride name for leaderboards.
	Payload string `json:"payload,omitempty"`
}

type arena struct {
	next    int
	entries map[int]Entry
}

type arenaFile struct {
	Next    int     `json:"next-id"`
	Entries []Entry `json:"signs"`
}

// Manager holds the registered signs of every park of the node, one arena per
// park. Its state is owned by the node's transaction loop.
type Manager struct {
	dir string
	log *slog.Logger

	arenas map[string]*arena
}

// NewManager returns a Manager persisting to dir.
func NewManager(dir string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{dir: dir, log: log, arenas: map[string]*arena{}}
}

// Load reads the sign arenas of the parks passed. Parks without a file start
// empty.
func (m *Manager) Load(parks []string) error {
	for _, park := range parks {
		var f arenaFile
		if _, err := jsonstore.Read(m.path(park), &f); err != nil {
			return fmt.Errorf("load signs of %v: %w", park, err)
		}
		a := &arena{next: f.Next, entries: make(map[int]Entry, len(f.Entries))}
		for _, e := range f.Entries {
			a.entries[e.ID] = e
		}
		m.arenas[park] = a
	}
	return nil
}

// Add registers a sign at a position in a park and persists the arena. A sign
// already registered at the same position is replaced, so re-tagging a block
// never leaves two entries behind. The new sign's identifier is returned.
func (m *Manager) Add(park string, kind Kind, pos [3]int, payload string) (int, error) {
	a, ok := m.arenas[park]
	if !ok {
		a = &arena{entries: map[int]Entry{}}
		m.arenas[park] = a
	}
	for id, e := range a.entries {
		if e.Pos == pos {
			delete(a.entries, id)
		}
	}
	id := a.next
	a.next++
	a.entries[id] = Entry{ID: id, Kind: kind, Pos: pos, Payload: payload}
	if err := m.save(park); err != nil {
		return 0, err
	}
	return id, nil
}

// Remove deletes a sign from a park and persists the arena. It returns
// ErrUnknownSign if no sign with the identifier exists.
func (m *Manager) Remove(park string, id int) error {
	a := m.arenas[park]
	if a == nil {
		return ErrUnknownSign
	}
	if _, ok := a.entries[id]; !ok {
		return ErrUnknownSign
	}
	delete(a.entries, id)
	return m.save(park)
}

// At finds the sign registered at a block position in a park.
func (m *Manager) At(park string, pos [3]int) (Entry, bool) {
	a := m.arenas[park]
	if a == nil {
		return Entry{}, false
	}
	for _, e := range a.entries {
		if e.Pos == pos {
			return e, true
		}
	}
	return Entry{}, false
}

// ByID finds a sign in a park by its identifier.
func (m *Manager) ByID(park string, id int) (Entry, bool) {
	a := m.arenas[park]
	if a == nil {
		return Entry{}, false
	}
	e, ok := a.entries[id]
	return e, ok
}

// Park returns the signs of a park sorted by identifier.
func (m *Manager) Park(park string) []Entry {
	a := m.arenas[park]
	if a == nil {
		return nil
	}
	entries := make([]Entry, 0, len(a.entries))
	for _, e := range a.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

func (m *Manager) save(park string) error {
	a := m.arenas[park]
	f := arenaFile{Next: a.next, Entries: m.Park(park)}
	if err := jsonstore.Write(m.path(park), f); err != nil {
		m.log.Error("save signs", "park", park, "err", err)
		return fmt.Errorf("save signs of %v: %w", park, err)
	}
	return nil
}

func (m *Manager) path(park string) string {
	return filepath.Join(m.dir, "sign", park+".json")
}
