package vqueue

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestQueueOpenClose(t *testing.T) {
	t.Parallel()
	q := &Queue{id: "q1", name: "Thunder Coaster", park: "park", host: "castle1", warp: "coaster"}

	if err := q.SetOpen("hub"); !errors.Is(err, ErrNotHost) {
		t.Fatalf("SetOpen on mirror: got %v, want %v", err, ErrNotHost)
	}
	if err := q.SetClosed("castle1"); !errors.Is(err, ErrAlreadyClosed) {
		t.Fatalf("SetClosed on closed queue: got %v, want %v", err, ErrAlreadyClosed)
	}
	if err := q.SetOpen("castle1"); err != nil {
		t.Fatalf("SetOpen: %v", err)
	}
	if !q.Open() {
		t.Fatalf("queue not open after SetOpen")
	}
	if err := q.SetOpen("castle1"); !errors.Is(err, ErrAlreadyOpen) {
		t.Fatalf("SetOpen on open queue: got %v, want %v", err, ErrAlreadyOpen)
	}
	if err := q.SetClosed("castle1"); err != nil {
		t.Fatalf("SetClosed: %v", err)
	}
	if q.Open() {
		t.Fatalf("queue still open after SetClosed")
	}
}

func TestQueueJoinLeave(t *testing.T) {
	t.Parallel()
	q := &Queue{id: "q1", host: "castle1"}
	a, b := uuid.New(), uuid.New()

	if _, err := q.Join("castle1", a); !errors.Is(err, ErrClosed) {
		t.Fatalf("Join on closed queue: got %v, want %v", err, ErrClosed)
	}
	if err := q.SetOpen("castle1"); err != nil {
		t.Fatalf("SetOpen: %v", err)
	}
	if pos, err := q.Join("castle1", a); err != nil || pos != 1 {
		t.Fatalf("Join: got (%v, %v), want (1, nil)", pos, err)
	}
	if _, err := q.Join("castle1", a); !errors.Is(err, ErrQueued) {
		t.Fatalf("Join twice: got %v, want %v", err, ErrQueued)
	}
	if pos, err := q.Join("castle1", b); err != nil || pos != 2 {
		t.Fatalf("Join second member: got (%v, %v), want (2, nil)", pos, err)
	}
	if pos, ok := q.Position(b); !ok || pos != 2 {
		t.Fatalf("Position: got (%v, %v), want (2, true)", pos, ok)
	}
	if err := q.Leave("castle1", a); err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if pos, ok := q.Position(b); !ok || pos != 1 {
		t.Fatalf("Position after head left: got (%v, %v), want (1, true)", pos, ok)
	}
	if err := q.Leave("castle1", a); !errors.Is(err, ErrNotQueued) {
		t.Fatalf("Leave twice: got %v, want %v", err, ErrNotQueued)
	}
}

// TestQueueAdvance verifies that members are admitted in join order and that
// a queue admits at most once per cooldown window, no matter how often
// Advance is called.
func TestQueueAdvance(t *testing.T) {
	t.Parallel()
	q := &Queue{id: "q1", host: "castle1"}
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	now := time.Now()
	if _, _, err := q.Advance("castle1", now); !errors.Is(err, ErrEmpty) {
		t.Fatalf("Advance on empty queue: got %v, want %v", err, ErrEmpty)
	}

	if err := q.SetOpen("castle1"); err != nil {
		t.Fatalf("SetOpen: %v", err)
	}
	for _, member := range []uuid.UUID{a, b, c} {
		if _, err := q.Join("castle1", member); err != nil {
			t.Fatalf("Join: %v", err)
		}
	}

	member, left, err := q.Advance("castle1", now)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if member != a || left != 2 {
		t.Fatalf("Advance: got (%v, %v), want (%v, 2)", member, left, a)
	}

	// A second admission within the window must be refused and leave the
	// queue untouched, even though the first admission already happened.
	if _, _, err := q.Advance("castle1", now.Add(AdvanceCooldown-time.Second)); !errors.Is(err, ErrCooldown) {
		t.Fatalf("Advance within cooldown: got %v, want %v", err, ErrCooldown)
	}
	if got, want := q.Members(), []uuid.UUID{b, c}; len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("members after refused advance: got %v, want %v", got, want)
	}

	member, left, err = q.Advance("castle1", now.Add(AdvanceCooldown))
	if err != nil {
		t.Fatalf("Advance after cooldown: %v", err)
	}
	if member != b || left != 1 {
		t.Fatalf("Advance after cooldown: got (%v, %v), want (%v, 1)", member, left, b)
	}
}

// TestQueueMirrorImmutable verifies that every mutation is refused on a node
// that does not host the queue.
func TestQueueMirrorImmutable(t *testing.T) {
	t.Parallel()
	q := &Queue{id: "q1", host: "castle1"}
	if err := q.SetOpen("castle1"); err != nil {
		t.Fatalf("SetOpen: %v", err)
	}
	member := uuid.New()
	if _, err := q.Join("castle1", member); err != nil {
		t.Fatalf("Join: %v", err)
	}

	if _, err := q.Join("hub", uuid.New()); !errors.Is(err, ErrNotHost) {
		t.Fatalf("Join on mirror: got %v, want %v", err, ErrNotHost)
	}
	if err := q.Leave("hub", member); !errors.Is(err, ErrNotHost) {
		t.Fatalf("Leave on mirror: got %v, want %v", err, ErrNotHost)
	}
	if _, _, err := q.Advance("hub", time.Now()); !errors.Is(err, ErrNotHost) {
		t.Fatalf("Advance on mirror: got %v, want %v", err, ErrNotHost)
	}
	if err := q.SetClosed("hub"); !errors.Is(err, ErrNotHost) {
		t.Fatalf("SetClosed on mirror: got %v, want %v", err, ErrNotHost)
	}
	if q.Len() != 1 || !q.Open() {
		t.Fatalf("mirror mutations changed queue state: len %v, open %v", q.Len(), q.Open())
	}
}
