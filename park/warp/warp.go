// Package warp implements the named teleport destinations of a park.
package warp

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sparkparks/parkmanager/park/internal/jsonstore"
)

// ErrUnknownWarp is returned when a warp name does not resolve.
var ErrUnknownWarp = errors.New("warp: unknown warp")

// Warp is a named position inside a park that players and queue admissions
// teleport to. Server names the cluster node whose world holds the position;
// when it differs from the local node, reaching the warp requires a transfer.
type Warp struct {
	Name   string     `json:"name"`
	Park   string     `json:"-"`
	Server string     `json:"server,omitempty"`
	Pos    mgl64.Vec3 `json:"pos"`
	Yaw    float64    `json:"yaw,omitempty"`
	Pitch  float64    `json:"pitch,omitempty"`
}

// Registry holds the warps of the parks hosted by a node, keyed by their
// lower-cased name. It is owned by the node's transaction loop.
type Registry struct {
	dir string
	log *slog.Logger

	warps map[string]Warp
}

// NewRegistry returns a Registry persisting to dir.
func NewRegistry(dir string, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{dir: dir, log: log, warps: map[string]Warp{}}
}

// Load reads the warp files of the parks passed.
func (r *Registry) Load(parks []string) error {
	for _, park := range parks {
		var defs []Warp
		if _, err := jsonstore.Read(r.file(park), &defs); err != nil {
			return fmt.Errorf("load warps: %w", err)
		}
		for _, w := range defs {
			w.Park = park
			r.warps[strings.ToLower(w.Name)] = w
		}
	}
	return nil
}

// Set adds or replaces a warp and persists the park it belongs to.
func (r *Registry) Set(w Warp) error {
	r.warps[strings.ToLower(w.Name)] = w
	return r.save(w.Park)
}

// Remove deletes the warp with the name passed. It reports whether a warp was
// removed.
func (r *Registry) Remove(name string) (bool, error) {
	w, ok := r.warps[strings.ToLower(name)]
	if !ok {
		return false, nil
	}
	delete(r.warps, strings.ToLower(name))
	return true, r.save(w.Park)
}

// ByName resolves a warp by name, case-insensitively.
func (r *Registry) ByName(name string) (Warp, bool) {
	w, ok := r.warps[strings.ToLower(name)]
	return w, ok
}

// Park returns the warps of a park sorted by name.
func (r *Registry) Park(park string) []Warp {
	warps := make([]Warp, 0, 8)
	for _, w := range r.warps {
		if w.Park == park {
			warps = append(warps, w)
		}
	}
	slices.SortFunc(warps, func(a, b Warp) int { return strings.Compare(a.Name, b.Name) })
	return warps
}

func (r *Registry) save(park string) error {
	if err := jsonstore.Write(r.file(park), r.Park(park)); err != nil {
		r.log.Error("save warps", "park", park, "err", err)
		return fmt.Errorf("save warps: %w", err)
	}
	return nil
}

func (r *Registry) file(park string) string {
	return filepath.Join(r.dir, "warp", park+".json")
}
