package msg

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBus is a Bus carried over Redis Pub/Sub. All nodes publish and
// subscribe on the single cluster topic.
type RedisBus struct {
	rdb *redis.Client
	sub *redis.PubSub
	log *slog.Logger

	mu       sync.RWMutex
	handlers []Handler

	receiving sync.WaitGroup
}

// NewRedis connects to the Redis server at addr and subscribes to the cluster
// topic. The connection is verified with a ping before the bus is returned.
func NewRedis(ctx context.Context, addr, password string, db int, log *slog.Logger) (*RedisBus, error) {
	if log == nil {
		log = slog.Default()
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("msg: ping redis: %w", err)
	}
	sub := rdb.Subscribe(ctx, Topic)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		_ = rdb.Close()
		return nil, fmt.Errorf("msg: subscribe %v: %w", Topic, err)
	}
	b := &RedisBus{rdb: rdb, sub: sub, log: log}
	b.receiving.Add(1)
	go b.receive()
	return b, nil
}

// Publish ...
func (b *RedisBus) Publish(ctx context.Context, pk Packet) error {
	data, err := Marshal(pk)
	if err != nil {
		return err
	}
	if err := b.rdb.Publish(ctx, Topic, data).Err(); err != nil {
		return fmt.Errorf("msg: publish %v: %w", pk.PacketType(), err)
	}
	return nil
}

// Handle ...
func (b *RedisBus) Handle(fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

// Close ...
func (b *RedisBus) Close() error {
	err := b.sub.Close()
	b.receiving.Wait()
	if cerr := b.rdb.Close(); err == nil {
		err = cerr
	}
	return err
}

func (b *RedisBus) receive() {
	defer b.receiving.Done()
	for m := range b.sub.Channel() {
		pk, err := Unmarshal([]byte(m.Payload))
		if err != nil {
			b.log.Error("decode cluster packet", "err", err)
			continue
		}
		b.mu.RLock()
		handlers := b.handlers
		b.mu.RUnlock()
		for _, fn := range handlers {
			fn(pk)
		}
	}
}
