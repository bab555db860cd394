package vqueue

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRegistryCreateRemove(t *testing.T) {
	t.Parallel()
	r := NewRegistry("castle1", t.TempDir(), nil)

	q, err := r.Create("q1", "Thunder Coaster", "park", "castle1", "coaster")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := r.Create("q1", "Other", "park", "castle1", "other"); !errors.Is(err, ErrQueueExists) {
		t.Fatalf("Create duplicate: got %v, want %v", err, ErrQueueExists)
	}
	if _, err := r.Create("q2", "Mirror Ride", "park", "hub", "mirror"); err != nil {
		t.Fatalf("Create mirror: %v", err)
	}

	if err := q.SetOpen("castle1"); err != nil {
		t.Fatalf("SetOpen: %v", err)
	}
	if err := r.Remove("q1"); !errors.Is(err, ErrStillOpen) {
		t.Fatalf("Remove open queue: got %v, want %v", err, ErrStillOpen)
	}
	if err := r.Remove("q2"); !errors.Is(err, ErrNotHost) {
		t.Fatalf("Remove mirror: got %v, want %v", err, ErrNotHost)
	}
	if err := r.Remove("nope"); !errors.Is(err, ErrUnknownQueue) {
		t.Fatalf("Remove unknown: got %v, want %v", err, ErrUnknownQueue)
	}

	if err := q.SetClosed("castle1"); err != nil {
		t.Fatalf("SetClosed: %v", err)
	}
	if err := r.Remove("q1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := r.ByID("q1"); ok {
		t.Fatalf("queue still resolvable after Remove")
	}
}

// TestRegistryLoad verifies that definitions survive a restart while live
// state does not: a reloaded registry holds every queue closed and empty.
func TestRegistryLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	r := NewRegistry("castle1", dir, nil)
	if _, err := r.Create("q1", "Thunder Coaster", "park", "castle1", "coaster"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := r.Create("q2", "Splash Ride", "park", "hub", "splash"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := r.Open("q1"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, _, err := r.Join("q1", uuid.New()); err != nil {
		t.Fatalf("Join: %v", err)
	}

	reloaded := NewRegistry("castle1", dir, nil)
	if err := reloaded.Load([]string{"park"}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(reloaded.All()); got != 2 {
		t.Fatalf("queues after reload: got %v, want 2", got)
	}
	q, ok := reloaded.ByID("q1")
	if !ok {
		t.Fatalf("q1 missing after reload")
	}
	if q.Open() || q.Len() != 0 {
		t.Fatalf("live state persisted: open %v, len %v", q.Open(), q.Len())
	}
	if q.Name() != "Thunder Coaster" || q.Host() != "castle1" || q.Warp() != "coaster" {
		t.Fatalf("definition lost: %v hosted by %v warping to %v", q.Name(), q.Host(), q.Warp())
	}
}

// TestRegistryApplySync verifies that sync packets only ever touch mirrors:
// updates for unknown queues and for queues hosted on this node are dropped.
func TestRegistryApplySync(t *testing.T) {
	t.Parallel()
	r := NewRegistry("castle1", t.TempDir(), nil)
	if _, err := r.Create("hosted", "Thunder Coaster", "park", "castle1", "coaster"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := r.Create("mirror", "Splash Ride", "park", "hub", "splash"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if r.ApplySync("nope", true) {
		t.Fatalf("ApplySync applied an update for an unknown queue")
	}
	if r.ApplySync("hosted", true) {
		t.Fatalf("ApplySync applied an update to a locally hosted queue")
	}
	if q, _ := r.ByID("hosted"); q.Open() {
		t.Fatalf("locally hosted queue opened by sync packet")
	}

	if !r.ApplySync("mirror", true) {
		t.Fatalf("ApplySync did not update the mirror")
	}
	if q, _ := r.ByID("mirror"); !q.Open() {
		t.Fatalf("mirror not open after sync")
	}
	if !r.ApplySync("mirror", false) {
		t.Fatalf("ApplySync did not close the mirror")
	}
	if q, _ := r.ByID("mirror"); q.Open() {
		t.Fatalf("mirror still open after closing sync")
	}
}

func TestRegistryAdvanceUnknown(t *testing.T) {
	t.Parallel()
	r := NewRegistry("castle1", t.TempDir(), nil)
	if _, _, _, err := r.Advance("nope", time.Now()); !errors.Is(err, ErrUnknownQueue) {
		t.Fatalf("Advance unknown: got %v, want %v", err, ErrUnknownQueue)
	}
}
