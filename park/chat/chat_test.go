package chat

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
)

type recordSubscriber struct {
	id       uuid.UUID
	messages []string
}

func (r *recordSubscriber) UUID() uuid.UUID { return r.id }

func (r *recordSubscriber) Message(a ...any) { r.messages = append(r.messages, fmt.Sprint(a...)) }

var _ Subscriber = (*recordSubscriber)(nil)

func TestChatSubscribe(t *testing.T) {
	c := New()
	alex := &recordSubscriber{id: uuid.New()}
	billie := &recordSubscriber{id: uuid.New()}
	c.Subscribe(alex)
	c.Subscribe(billie)

	n, err := c.WriteString("The parade starts in five minutes!")
	if err != nil {
		t.Fatalf("write to chat: %v", err)
	}
	if want := len("The parade starts in five minutes!"); n != want {
		t.Fatalf("bytes written: got %v, want %v", n, want)
	}
	for _, sub := range []*recordSubscriber{alex, billie} {
		if len(sub.messages) != 1 || sub.messages[0] != "The parade starts in five minutes!" {
			t.Fatalf("subscriber messages: got %v", sub.messages)
		}
	}

	c.Unsubscribe(billie.id)
	c.Writef("Warping %v to the castle.", "Alex")
	if len(billie.messages) != 1 {
		t.Fatalf("unsubscribed subscriber still received messages: %v", billie.messages)
	}
	if got, want := alex.messages[1], "Warping Alex to the castle."; got != want {
		t.Fatalf("formatted message: got %q, want %q", got, want)
	}
}

func TestMoney(t *testing.T) {
	for n, want := range map[int64]string{
		0:       "0",
		50:      "50",
		1500:    "1,500",
		1234567: "1,234,567",
	} {
		if got := Money(n); got != want {
			t.Errorf("Money(%v): got %q, want %q", n, got, want)
		}
	}
}

func TestTranslationResolve(t *testing.T) {
	tr := Register("test.queue.joined", "You joined the line for %v at position %v.")
	if got, want := tr.Resolve("Splash Falls", 3), "You joined the line for Splash Falls at position 3."; got != want {
		t.Fatalf("resolved translation: got %q, want %q", got, want)
	}
}
