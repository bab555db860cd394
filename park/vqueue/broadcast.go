package vqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sparkparks/parkmanager/park/msg"
)

// Broadcaster publishes queue state changes to the cluster topic so that
// mirror nodes stay in sync. Broadcasts are fire and forget: a failed publish
// is logged and reported as a warning, and the hosting node's state stands
// regardless, as it is the source of truth.
type Broadcaster struct {
	bus msg.Bus
	log *slog.Logger
}

// NewBroadcaster returns a Broadcaster publishing on bus.
func NewBroadcaster(bus msg.Bus, log *slog.Logger) *Broadcaster {
	if log == nil {
		log = slog.Default()
	}
	return &Broadcaster{bus: bus, log: log}
}

// QueueUpdated publishes the open state of q to every park node. The error
// returned is a warning for the invoking user, not a reason to roll back.
func (b *Broadcaster) QueueUpdated(q *Queue) error {
	pk := &msg.UpdateQueuePacket{QueueID: q.ID(), Open: q.Open()}
	if err := b.bus.Publish(context.Background(), pk); err != nil {
		b.log.Error("broadcast queue update", "queue", q.ID(), "open", q.Open(), "err", err)
		return fmt.Errorf("broadcast queue update: %w", err)
	}
	return nil
}
