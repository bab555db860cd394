package vqueue

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sparkparks/parkmanager/park/internal/jsonstore"
)

var (
	// ErrQueueExists is returned when creating a queue with an id that is
	// already registered.
	ErrQueueExists = errors.New("vqueue: queue already exists")
	// ErrUnknownQueue is returned when a queue id does not resolve.
	ErrUnknownQueue = errors.New("vqueue: unknown queue")
)

// Registry holds every virtual queue known to this node, hosted and mirrored
// alike. Queue definitions persist per park; live state (open flag, members,
// cooldown) is runtime only and a restarted host recreates its queues closed
// and empty. The Registry is owned by the node's transaction loop.
type Registry struct {
	node string
	dir  string
	log  *slog.Logger

	queues map[string]*Queue
}

// queueDef is the persisted form of a queue definition.
type queueDef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Host string `json:"host"`
	Warp string `json:"warp"`
}

// NewRegistry returns a Registry for the node named. Queue files are stored
// under dir.
func NewRegistry(node, dir string, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{node: node, dir: dir, log: log, queues: map[string]*Queue{}}
}

// Node returns the local server name mutations are checked against.
func (r *Registry) Node() string { return r.node }

// Load reads the queue definition files of the parks passed.
func (r *Registry) Load(parks []string) error {
	for _, park := range parks {
		var defs []queueDef
		if _, err := jsonstore.Read(r.file(park), &defs); err != nil {
			return fmt.Errorf("load queues: %w", err)
		}
		for _, d := range defs {
			r.queues[d.ID] = &Queue{id: d.ID, name: d.Name, park: park, host: d.Host, warp: d.Warp}
		}
	}
	return nil
}

// Create registers a new closed queue hosted by the server passed and persists
// its definition.
func (r *Registry) Create(id, name, park, host, warp string) (*Queue, error) {
	if _, ok := r.queues[id]; ok {
		return nil, ErrQueueExists
	}
	q := &Queue{id: id, name: name, park: park, host: host, warp: warp}
	r.queues[id] = q
	if err := r.save(park); err != nil {
		return q, err
	}
	return q, nil
}

// Remove deletes the queue with the id passed. Queues are only removed on
// their hosting node and only while closed.
func (r *Registry) Remove(id string) error {
	q, ok := r.queues[id]
	if !ok {
		return ErrUnknownQueue
	}
	if q.host != r.node {
		return ErrNotHost
	}
	if q.open {
		return ErrStillOpen
	}
	delete(r.queues, id)
	return r.save(q.park)
}

// ByID resolves a queue by id.
func (r *Registry) ByID(id string) (*Queue, bool) {
	q, ok := r.queues[id]
	return q, ok
}

// Open opens the queue with the id passed on this node.
func (r *Registry) Open(id string) (*Queue, error) {
	q, ok := r.queues[id]
	if !ok {
		return nil, ErrUnknownQueue
	}
	return q, q.SetOpen(r.node)
}

// Close closes the queue with the id passed on this node.
func (r *Registry) Close(id string) (*Queue, error) {
	q, ok := r.queues[id]
	if !ok {
		return nil, ErrUnknownQueue
	}
	return q, q.SetClosed(r.node)
}

// Advance admits the next member of the queue with the id passed.
func (r *Registry) Advance(id string, now time.Time) (*Queue, uuid.UUID, int, error) {
	q, ok := r.queues[id]
	if !ok {
		return nil, uuid.UUID{}, 0, ErrUnknownQueue
	}
	member, left, err := q.Advance(r.node, now)
	return q, member, left, err
}

// Join adds a member to the queue with the id passed, returning the queue and
// the member's position.
func (r *Registry) Join(id string, member uuid.UUID) (*Queue, int, error) {
	q, ok := r.queues[id]
	if !ok {
		return nil, 0, ErrUnknownQueue
	}
	pos, err := q.Join(r.node, member)
	return q, pos, err
}

// Leave removes a member from the queue with the id passed.
func (r *Registry) Leave(id string, member uuid.UUID) (*Queue, error) {
	q, ok := r.queues[id]
	if !ok {
		return nil, ErrUnknownQueue
	}
	return q, q.Leave(r.node, member)
}

// ApplySync applies a queue state update received from another node. Updates
// for queues hosted locally or not known here are discarded; it reports
// whether a mirror was updated.
func (r *Registry) ApplySync(id string, open bool) bool {
	q, ok := r.queues[id]
	if !ok || q.host == r.node {
		return false
	}
	q.applySync(open)
	return true
}

// Park returns the queues of a park sorted by id.
func (r *Registry) Park(park string) []*Queue {
	queues := make([]*Queue, 0, 8)
	for _, q := range r.queues {
		if q.park == park {
			queues = append(queues, q)
		}
	}
	slices.SortFunc(queues, func(a, b *Queue) int { return strings.Compare(a.id, b.id) })
	return queues
}

// All returns every queue known to the node sorted by id.
func (r *Registry) All() []*Queue {
	queues := make([]*Queue, 0, len(r.queues))
	for _, q := range r.queues {
		queues = append(queues, q)
	}
	slices.SortFunc(queues, func(a, b *Queue) int { return strings.Compare(a.id, b.id) })
	return queues
}

func (r *Registry) save(park string) error {
	defs := make([]queueDef, 0, 8)
	for _, q := range r.Park(park) {
		defs = append(defs, queueDef{ID: q.id, Name: q.name, Host: q.host, Warp: q.warp})
	}
	if err := jsonstore.Write(r.file(park), defs); err != nil {
		r.log.Error("save queue definitions", "park", park, "err", err)
		return fmt.Errorf("save queues: %w", err)
	}
	return nil
}

func (r *Registry) file(park string) string {
	return filepath.Join(r.dir, "queue", park+".json")
}
