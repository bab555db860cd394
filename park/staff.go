package park

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pelletier/go-toml"
)

// ErrStaffInvalidName is returned when an empty or blank player name is
// passed to a roster operation.
var ErrStaffInvalidName = errors.New("invalid player name")

// Staff is the roster of players allowed to run staff commands on the node.
// Entries are persisted in a TOML file; a Staff created without a file keeps
// the roster in memory only.
type Staff struct {
	mu      sync.RWMutex
	players map[string]string
	path    string
}

type staffFile struct {
	Players []string `toml:"players"`
}

// NewStaff returns an empty roster that is not persisted anywhere. Additions
// and removals are lost when the node stops.
func NewStaff() *Staff {
	return &Staff{players: make(map[string]string)}
}

// LoadStaff loads the roster stored in the file at the path passed. If the
// file does not exist yet, it is created with an empty roster.
func LoadStaff(path string) (*Staff, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("staff roster path must not be empty")
	}
	s := &Staff{players: make(map[string]string), path: path}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Is reports whether the name passed is on the roster, case-insensitively.
func (s *Staff) Is(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.players[normaliseName(name)]
	return ok
}

// Add inserts a name into the roster and writes the file. The bool returned
// reports whether the name was newly added.
func (s *Staff) Add(name string) (bool, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false, ErrStaffInvalidName
	}
	key := normaliseName(trimmed)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.players[key]; ok {
		return false, nil
	}
	s.players[key] = trimmed
	if err := s.writeLocked(); err != nil {
		delete(s.players, key)
		return false, err
	}
	return true, nil
}

// Remove deletes a name from the roster and writes the file. The bool
// returned reports whether the name was on the roster before the call.
func (s *Staff) Remove(name string) (bool, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false, ErrStaffInvalidName
	}
	key := normaliseName(trimmed)

	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.players[key]
	if !ok {
		return false, nil
	}
	delete(s.players, key)
	if err := s.writeLocked(); err != nil {
		s.players[key] = original
		return false, err
	}
	return true, nil
}

// Names returns the roster sorted case-insensitively.
func (s *Staff) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.namesLocked()
}

func (s *Staff) reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := staffFile{}
	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.players = make(map[string]string)
			return s.writeLocked()
		}
		return fmt.Errorf("read staff roster: %w", err)
	}
	if len(contents) != 0 {
		if err := toml.Unmarshal(contents, &data); err != nil {
			return fmt.Errorf("decode staff roster: %w", err)
		}
	}
	s.players = make(map[string]string, len(data.Players))
	for _, name := range data.Players {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		s.players[normaliseName(trimmed)] = trimmed
	}
	return nil
}

func (s *Staff) writeLocked() error {
	if s.path == "" {
		return nil
	}
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return fmt.Errorf("create staff roster directory: %w", err)
		}
	}
	encoded, err := toml.Marshal(staffFile{Players: s.namesLocked()})
	if err != nil {
		return fmt.Errorf("encode staff roster: %w", err)
	}
	if err := os.WriteFile(s.path, encoded, 0644); err != nil {
		return fmt.Errorf("write staff roster: %w", err)
	}
	return nil
}

func (s *Staff) namesLocked() []string {
	names := make([]string, 0, len(s.players))
	for _, name := range s.players {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		lowerA, lowerB := strings.ToLower(a), strings.ToLower(b)
		if lowerA == lowerB {
			return strings.Compare(a, b)
		}
		return strings.Compare(lowerA, lowerB)
	})
	return names
}

func normaliseName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
