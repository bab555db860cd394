package ridecount

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

var _ Counter = (*Memory)(nil)

func TestServerBase(t *testing.T) {
	t.Parallel()
	for server, want := range map[string]string{
		"castle1":   "castle",
		"Castle2":   "castle",
		"castle":    "castle",
		"hub":       "hub",
		"Frontier3": "frontier",
		"area51a":   "area51a",
	} {
		if got := ServerBase(server); got != want {
			t.Fatalf("ServerBase(%q): got %q, want %q", server, got, want)
		}
	}
}

func TestSameServer(t *testing.T) {
	t.Parallel()
	cases := []struct {
		a, b string
		want bool
	}{
		{"castle1", "castle2", true},
		{"castle1", "Castle1", true},
		{"castle", "castle2", true},
		{"castle1", "hub", false},
		{"hub", "hub2", true},
	}
	for _, c := range cases {
		if got := SameServer(c.a, c.b); got != c.want {
			t.Fatalf("SameServer(%q, %q): got %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

// testCounter runs the Counter contract against any backend: counts combine
// across numbered instances of a server and leaderboards order by combined
// total.
func testCounter(t *testing.T, c Counter) {
	t.Helper()
	ctx := context.Background()
	alex, billie := uuid.New(), uuid.New()

	// Alex rides the coaster on two instances of the castle server; the
	// instances count as one place.
	for _, server := range []string{"castle1", "castle2", "Castle1"} {
		if err := c.Add(ctx, alex, "Alex", "coaster", server); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if err := c.Add(ctx, billie, "Billie", "coaster", "castle1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := c.Add(ctx, billie, "Billie", "drop_tower", "castle1"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	total, err := c.Count(ctx, alex, "coaster")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if total != 3 {
		t.Fatalf("combined count: got %v, want 3", total)
	}
	if total, _ := c.Count(ctx, billie, "coaster"); total != 1 {
		t.Fatalf("count: got %v, want 1", total)
	}
	if total, _ := c.Count(ctx, alex, "drop_tower"); total != 0 {
		t.Fatalf("count of unridden ride: got %v, want 0", total)
	}

	top, err := c.Top(ctx, "coaster", 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("leaderboard rows: got %v, want 2", len(top))
	}
	if top[0].Player != alex || top[0].Total != 3 {
		t.Fatalf("leaderboard head: got (%v, %v), want (%v, 3)", top[0].Name, top[0].Total, "Alex")
	}
	if top[1].Player != billie || top[1].Total != 1 {
		t.Fatalf("leaderboard second: got (%v, %v), want (%v, 1)", top[1].Name, top[1].Total, "Billie")
	}

	if top, _ := c.Top(ctx, "coaster", 1); len(top) != 1 {
		t.Fatalf("limited leaderboard rows: got %v, want 1", len(top))
	}
}

func TestMemoryCounter(t *testing.T) {
	t.Parallel()
	testCounter(t, NewMemory())
}
