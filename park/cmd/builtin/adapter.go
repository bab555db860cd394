package builtin

import (
	"iter"

	"github.com/google/uuid"
	"github.com/sparkparks/parkmanager/park/economy"
	"github.com/sparkparks/parkmanager/park/food"
	"github.com/sparkparks/parkmanager/park/player"
	"github.com/sparkparks/parkmanager/park/ridecount"
	"github.com/sparkparks/parkmanager/park/shop"
	"github.com/sparkparks/parkmanager/park/show"
	"github.com/sparkparks/parkmanager/park/sign"
	"github.com/sparkparks/parkmanager/park/vqueue"
	"github.com/sparkparks/parkmanager/park/wardrobe"
	"github.com/sparkparks/parkmanager/park/warp"
)

// parkAdapter is the surface of the park node the built-in commands run
// against. Commands run on the node's transaction loop, so the managers
// returned may be used without further synchronisation.
type parkAdapter interface {
	// Node returns the server name of the node within the cluster.
	Node() string
	// Parks returns the parks hosted by the node.
	Parks() []string
	// Players iterates over the players connected to the node.
	Players() iter.Seq[*player.Player]
	// PlayerByName finds a connected player by name, case insensitively.
	PlayerByName(name string) (*player.Player, bool)
	// PlayerCount returns the number of connected players.
	PlayerCount() int
	// Close stops the node. It must not be called from the transaction loop.
	Close() error

	Queues() *vqueue.Registry
	Shops() *shop.Manager
	Purchases() *shop.Coordinator
	Food() *food.Manager
	Shows() *show.Manager
	Warps() *warp.Registry
	Outfits() *wardrobe.Manager
	Signs() *sign.Manager
	Ledger() economy.Ledger
	Rides() ridecount.Counter

	// StaffAdd flags a player name as staff and persists the roster.
	StaffAdd(name string) error
	// StaffRemove removes a player name from the staff roster.
	StaffRemove(name string) error
	// StaffList returns the persisted staff roster.
	StaffList() []string

	// Travel sends a player to a warp, transferring it to the hosting server
	// first when the warp lives on another node.
	Travel(pl *player.Player, w warp.Warp) error

	// BroadcastQueue publishes the state of a queue to the other nodes. The
	// local state stands regardless of the outcome.
	BroadcastQueue(q *vqueue.Queue) error
	// Announce publishes a message to every park of the cluster. The local
	// park receives it through the same path.
	Announce(park, message string) error
	// Admit performs the admission side effect of a queue advance: the member
	// is teleported to the queue's warp and notified.
	Admit(q *vqueue.Queue, member uuid.UUID) error
	// SaveRecord schedules the player's storage record for persistence.
	SaveRecord(pl *player.Player)
}
