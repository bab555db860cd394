// Package vqueue implements virtual ride queues: FIFO member queues whose
// open state is mutated on one hosting server and mirrored to every other
// node of the cluster through sync packets.
package vqueue

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// AdvanceCooldown is the minimum delay between two admissions of a queue. The
// cooldown is enforced even when an admission's side effect fails, so a queue
// can under-admit but never over-admit.
const AdvanceCooldown = 10 * time.Second

var (
	// ErrNotHost is returned when a queue mutation is attempted on a node that
	// does not host the queue. Non-hosting nodes hold read-only mirrors.
	ErrNotHost = errors.New("vqueue: queue is hosted by another server")
	// ErrAlreadyOpen is returned by Open on a queue that is already open.
	ErrAlreadyOpen = errors.New("vqueue: queue already open")
	// ErrAlreadyClosed is returned by Close on a queue that is already closed.
	ErrAlreadyClosed = errors.New("vqueue: queue already closed")
	// ErrStillOpen is returned when removing a queue that has not been closed
	// first.
	ErrStillOpen = errors.New("vqueue: queue still open")
	// ErrCooldown is returned by Advance within AdvanceCooldown of the
	// previous admission.
	ErrCooldown = errors.New("vqueue: advance cooldown active")
	// ErrEmpty is returned by Advance when no members are waiting.
	ErrEmpty = errors.New("vqueue: queue empty")
	// ErrClosed is returned when joining a queue that is not open.
	ErrClosed = errors.New("vqueue: queue closed")
	// ErrQueued is returned when joining a queue twice.
	ErrQueued = errors.New("vqueue: already in queue")
	// ErrNotQueued is returned when leaving a queue without being in it.
	ErrNotQueued = errors.New("vqueue: not in queue")
)

// Queue is a virtual ride queue. A queue starts closed with no members. All
// mutating methods take the local server name and refuse to run when it is not
// the hosting server.
type Queue struct {
	id   string
	name string
	park string
	host string
	warp string

	open        bool
	members     []uuid.UUID
	lastAdvance time.Time
}

// ID returns the cluster-wide unique id of the queue.
func (q *Queue) ID() string { return q.id }

// Name returns the display name of the queue.
func (q *Queue) Name() string { return q.name }

// Park returns the park the queue belongs to.
func (q *Queue) Park() string { return q.park }

// Host returns the name of the server hosting the queue.
func (q *Queue) Host() string { return q.host }

// Warp returns the name of the warp admitted members are delivered to.
func (q *Queue) Warp() string { return q.warp }

// Open reports whether the queue is open.
func (q *Queue) Open() bool { return q.open }

// Len returns the number of waiting members.
func (q *Queue) Len() int { return len(q.members) }

// Members returns a copy of the waiting members in queue order.
func (q *Queue) Members() []uuid.UUID { return slices.Clone(q.members) }

// Position returns the 1-based position of a member in the queue.
func (q *Queue) Position(member uuid.UUID) (int, bool) {
	if i := slices.Index(q.members, member); i >= 0 {
		return i + 1, true
	}
	return 0, false
}

// SetOpen opens the queue. It fails with ErrAlreadyOpen when the queue is
// open and ErrNotHost when local is not the hosting server.
func (q *Queue) SetOpen(local string) error {
	if q.host != local {
		return ErrNotHost
	}
	if q.open {
		return ErrAlreadyOpen
	}
	q.open = true
	return nil
}

// SetClosed closes the queue, symmetrically to SetOpen.
func (q *Queue) SetClosed(local string) error {
	if q.host != local {
		return ErrNotHost
	}
	if !q.open {
		return ErrAlreadyClosed
	}
	q.open = false
	return nil
}

// Advance pops the head of the member queue for admission, returning the
// admitted member and the number of members left waiting. The cooldown
// timestamp is updated before the caller performs the admission side effect,
// so a failing admission still counts against the cooldown.
func (q *Queue) Advance(local string, now time.Time) (uuid.UUID, int, error) {
	if q.host != local {
		return uuid.UUID{}, 0, ErrNotHost
	}
	if now.Sub(q.lastAdvance) < AdvanceCooldown {
		return uuid.UUID{}, 0, ErrCooldown
	}
	if len(q.members) == 0 {
		return uuid.UUID{}, 0, ErrEmpty
	}
	q.lastAdvance = now
	next := q.members[0]
	q.members = q.members[:copy(q.members, q.members[1:])]
	return next, len(q.members), nil
}

// Join appends a member to the queue and returns its 1-based position. Only
// open queues may be joined, and only once per member.
func (q *Queue) Join(local string, member uuid.UUID) (int, error) {
	if q.host != local {
		return 0, ErrNotHost
	}
	if !q.open {
		return 0, ErrClosed
	}
	if slices.Contains(q.members, member) {
		return 0, ErrQueued
	}
	q.members = append(q.members, member)
	return len(q.members), nil
}

// Leave removes a member from the queue regardless of position.
func (q *Queue) Leave(local string, member uuid.UUID) error {
	if q.host != local {
		return ErrNotHost
	}
	i := slices.Index(q.members, member)
	if i < 0 {
		return ErrNotQueued
	}
	q.members = slices.Delete(q.members, i, i+1)
	return nil
}

// applySync overwrites the open state of a mirrored queue with state received
// from the hosting server. Members are never mirrored.
func (q *Queue) applySync(open bool) {
	q.open = open
}
