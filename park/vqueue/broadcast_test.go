package vqueue

import (
	"context"
	"errors"
	"testing"

	"github.com/sparkparks/parkmanager/park/msg"
)

// recordBus captures published packets and optionally fails every publish.
type recordBus struct {
	packets []msg.Packet
	err     error
}

func (b *recordBus) Publish(_ context.Context, pk msg.Packet) error {
	if b.err != nil {
		return b.err
	}
	b.packets = append(b.packets, pk)
	return nil
}

func (b *recordBus) Handle(msg.Handler) {}

func (b *recordBus) Close() error { return nil }

var _ msg.Bus = (*recordBus)(nil)

func TestBroadcasterQueueUpdated(t *testing.T) {
	t.Parallel()
	bus := &recordBus{}
	b := NewBroadcaster(bus, nil)
	q := &Queue{id: "q1", host: "castle1"}

	if err := q.SetOpen("castle1"); err != nil {
		t.Fatalf("SetOpen: %v", err)
	}
	if err := b.QueueUpdated(q); err != nil {
		t.Fatalf("QueueUpdated: %v", err)
	}
	if err := q.SetClosed("castle1"); err != nil {
		t.Fatalf("SetClosed: %v", err)
	}
	if err := b.QueueUpdated(q); err != nil {
		t.Fatalf("QueueUpdated: %v", err)
	}

	if len(bus.packets) != 2 {
		t.Fatalf("packets published: got %v, want 2", len(bus.packets))
	}
	open, ok := bus.packets[0].(*msg.UpdateQueuePacket)
	if !ok {
		t.Fatalf("first packet: got %T, want *msg.UpdateQueuePacket", bus.packets[0])
	}
	if open.QueueID != "q1" || !open.Open {
		t.Fatalf("first packet: got (%v, %v), want (q1, true)", open.QueueID, open.Open)
	}
	closed := bus.packets[1].(*msg.UpdateQueuePacket)
	if closed.QueueID != "q1" || closed.Open {
		t.Fatalf("second packet: got (%v, %v), want (q1, false)", closed.QueueID, closed.Open)
	}
}

// TestBroadcasterPublishError verifies that a failed broadcast surfaces as a
// warning without rolling back the queue: the hosting node stays the source
// of truth.
func TestBroadcasterPublishError(t *testing.T) {
	t.Parallel()
	bus := &recordBus{err: errors.New("connection refused")}
	b := NewBroadcaster(bus, nil)
	q := &Queue{id: "q1", host: "castle1"}

	if err := q.SetOpen("castle1"); err != nil {
		t.Fatalf("SetOpen: %v", err)
	}
	if err := b.QueueUpdated(q); err == nil {
		t.Fatalf("QueueUpdated did not report the publish failure")
	}
	if !q.Open() {
		t.Fatalf("queue closed again after failed broadcast")
	}
}
