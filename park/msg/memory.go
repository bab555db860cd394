package msg

import (
	"context"
	"sync"
)

// MemoryBus is an in-process Bus for nodes running without Redis. Packets round
// trip through the wire encoding and are delivered in publish order on a single
// delivery goroutine, mirroring the Redis transport's behaviour.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers []Handler

	queue      chan Packet
	delivering sync.WaitGroup
	closeOnce  sync.Once
}

// NewMemory returns a MemoryBus ready for use.
func NewMemory() *MemoryBus {
	b := &MemoryBus{queue: make(chan Packet, 64)}
	b.delivering.Add(1)
	go b.deliver()
	return b
}

// Publish ...
func (b *MemoryBus) Publish(_ context.Context, pk Packet) error {
	data, err := Marshal(pk)
	if err != nil {
		return err
	}
	decoded, err := Unmarshal(data)
	if err != nil {
		return err
	}
	b.queue <- decoded
	return nil
}

// Handle ...
func (b *MemoryBus) Handle(fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

// Close ...
func (b *MemoryBus) Close() error {
	b.closeOnce.Do(func() { close(b.queue) })
	b.delivering.Wait()
	return nil
}

func (b *MemoryBus) deliver() {
	defer b.delivering.Done()
	for pk := range b.queue {
		b.mu.RLock()
		handlers := b.handlers
		b.mu.RUnlock()
		for _, fn := range handlers {
			fn(pk)
		}
	}
}
