// Package query exposes a read-only HTTP status surface for a park node.
// Hub servers and external dashboards poll it to show player counts and
// queue states without connecting to the node itself.
package query

// QueueStatus is the externally visible state of one virtual queue.
type QueueStatus struct {
	ID      string `json:"queueId"`
	Name    string `json:"name"`
	Park    string `json:"park"`
	Open    bool   `json:"open"`
	Waiting int    `json:"waiting"`
}

// Data is a point-in-time snapshot of a node. The node refreshes it
// periodically, so values may lag the live state by up to one tick.
type Data struct {
	Node          string        `json:"node"`
	Version       string        `json:"version"`
	Parks         []string      `json:"parks"`
	Players       int           `json:"players"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	Queues        []QueueStatus `json:"queues"`
}

// Provider supplies status snapshots. Implementations must be safe to call
// from any goroutine: the HTTP server reads them outside the node's loop.
type Provider interface {
	Status() Data
}
