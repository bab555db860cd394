package query

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeProvider struct {
	data Data
}

func (p fakeProvider) Status() Data { return p.data }

var _ Provider = fakeProvider{}

func TestStatusEndpoint(t *testing.T) {
	p := fakeProvider{data: Data{
		Node:          "castle1",
		Version:       "1.2.0",
		Parks:         []string{"castle"},
		Players:       7,
		UptimeSeconds: 42,
		Queues:        []QueueStatus{{ID: "coaster", Name: "The Coaster", Park: "castle", Open: true, Waiting: 3}},
	}}
	srv := httptest.NewServer(Routes(p))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code: got %v, want %v", resp.StatusCode, http.StatusOK)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type: got %q", got)
	}

	var d Data
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if d.Node != "castle1" || d.Players != 7 || len(d.Queues) != 1 || d.Queues[0].ID != "coaster" {
		t.Fatalf("status data: %+v", d)
	}
}

func TestQueuesEndpoint(t *testing.T) {
	p := fakeProvider{data: Data{
		Queues: []QueueStatus{{ID: "coaster", Name: "The Coaster", Park: "castle", Open: true, Waiting: 3}},
	}}
	srv := httptest.NewServer(Routes(p))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status/queues")
	if err != nil {
		t.Fatalf("get queues: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	// Dashboards key on queueId; the wire name must not drift.
	if !strings.Contains(string(body), `"queueId":"coaster"`) {
		t.Fatalf("queues body: %s", body)
	}
}

func TestQueuesEndpointEmpty(t *testing.T) {
	srv := httptest.NewServer(Routes(fakeProvider{data: Data{Node: "castle1"}}))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status/queues")
	if err != nil {
		t.Fatalf("get queues: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	// Nodes without queues answer an empty array, not null.
	if got := strings.TrimSpace(string(body)); got != "[]" {
		t.Fatalf("queues body: got %q, want %q", got, "[]")
	}
}

func TestStatusCORS(t *testing.T) {
	srv := httptest.NewServer(Routes(fakeProvider{}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/status", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Origin", "https://dashboard.example")
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow origin: got %q, want %q", got, "*")
	}
}
