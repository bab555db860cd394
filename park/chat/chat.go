// Package chat implements the chat of a park node: a global channel that
// subscribers may broadcast to, and the translated messages sent by commands.
package chat

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Global is the chat channel joined by every player on the node. Announcements
// and broadcast commands write to it.
var Global = New()

// Subscriber is an entity that may receive chat messages, typically a player
// or the console.
type Subscriber interface {
	// UUID returns the unique identity of the subscriber.
	UUID() uuid.UUID
	// Message sends a formatted message to the subscriber.
	Message(a ...any)
}

// Chat is a chat channel. Subscribers to it will receive every message written
// to the channel.
type Chat struct {
	mu   sync.Mutex
	subs map[uuid.UUID]Subscriber
}

// New returns a new chat channel without any subscribers.
func New() *Chat {
	return &Chat{subs: map[uuid.UUID]Subscriber{}}
}

// Subscribe adds a Subscriber to the chat, so that it receives messages written
// to it afterwards.
func (c *Chat) Subscribe(s Subscriber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[s.UUID()] = s
}

// Unsubscribe removes the subscriber with the UUID passed.
func (c *Chat) Unsubscribe(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subs, id)
}

// WriteString writes a message to the chat, delivering it to every current
// subscriber. It implements io.StringWriter.
func (c *Chat) WriteString(s string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sub := range c.subs {
		sub.Message(s)
	}
	return len(s), nil
}

// Writef formats a message and writes it to the chat.
func (c *Chat) Writef(format string, a ...any) {
	_, _ = c.WriteString(fmt.Sprintf(format, a...))
}

// StdoutSubscriber mirrors chat messages to a logger, so that the console sees
// what players see.
type StdoutSubscriber struct {
	id  uuid.UUID
	log *slog.Logger
}

// NewStdout returns a StdoutSubscriber writing through log.
func NewStdout(log *slog.Logger) *StdoutSubscriber {
	if log == nil {
		log = slog.Default()
	}
	return &StdoutSubscriber{id: uuid.New(), log: log}
}

// UUID ...
func (s *StdoutSubscriber) UUID() uuid.UUID { return s.id }

// Message ...
func (s *StdoutSubscriber) Message(a ...any) {
	s.log.Info(fmt.Sprint(a...))
}
