package msg

import "context"

// Handler receives packets delivered from the bus. Handlers run on the bus's
// receive goroutine and must hand work off to the node's transaction loop
// before touching loop-owned state.
type Handler func(pk Packet)

// Bus carries packets between the park nodes of a cluster.
type Bus interface {
	// Publish sends the packet to every node subscribed to the cluster topic,
	// including the publishing node itself. An error means the packet may not
	// have reached the cluster; the caller's local state stands regardless.
	Publish(ctx context.Context, pk Packet) error
	// Handle registers a handler for received packets. Handlers must be
	// registered before packets flow.
	Handle(fn Handler)
	// Close stops receiving and releases the transport.
	Close() error
}
