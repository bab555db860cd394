package park

import (
	"iter"

	"github.com/google/uuid"
	"github.com/sparkparks/parkmanager/park/food"
	"github.com/sparkparks/parkmanager/park/menu"
	"github.com/sparkparks/parkmanager/park/player"
	"github.com/sparkparks/parkmanager/park/shop"
	"github.com/sparkparks/parkmanager/park/show"
	"github.com/sparkparks/parkmanager/park/sign"
	"github.com/sparkparks/parkmanager/park/vqueue"
	"github.com/sparkparks/parkmanager/park/wardrobe"
	"github.com/sparkparks/parkmanager/park/warp"
)

// ExecFunc is a function that performs a synchronised transaction on a Park.
type ExecFunc func(tx *Tx)

// transaction is a type that may be added to the transaction queue of a Park.
// Its Run method is called when the transaction is taken out of the queue.
type transaction interface {
	Run(p *Park)
}

type normalTransaction struct {
	c chan struct{}
	f ExecFunc
}

// Run runs the transaction function and closes the done channel once it
// returns. The Tx is invalidated afterwards, so that a retained Tx cannot
// touch the Park's state outside the loop.
func (ntx normalTransaction) Run(p *Park) {
	tx := &Tx{p: p}
	ntx.f(tx)
	tx.closed = true
	close(ntx.c)
}

// Tx is a synchronised transaction performed on a Park. All in-memory state
// of the node (queues, shops, players, signs, open menus) may only be
// mutated through a Tx. A Tx is only valid for the duration of the ExecFunc
// it is passed to: using it afterwards panics.
type Tx struct {
	p      *Park
	closed bool
}

func (tx *Tx) guard() {
	if tx.closed {
		panic("park.Tx: use of transaction after transaction finishes is not permitted")
	}
}

// Park returns the Park the transaction runs on.
func (tx *Tx) Park() *Park {
	tx.guard()
	return tx.p
}

// Queues returns the virtual queue registry of the node.
func (tx *Tx) Queues() *vqueue.Registry {
	tx.guard()
	return tx.p.queues
}

// Shops returns the shop manager of the node.
func (tx *Tx) Shops() *shop.Manager {
	tx.guard()
	return tx.p.shops
}

// Purchases returns the purchase coordinator of the node.
func (tx *Tx) Purchases() *shop.Coordinator {
	tx.guard()
	return tx.p.purchases
}

// Food returns the food location manager of the node.
func (tx *Tx) Food() *food.Manager {
	tx.guard()
	return tx.p.food
}

// Shows returns the show schedule manager of the node.
func (tx *Tx) Shows() *show.Manager {
	tx.guard()
	return tx.p.shows
}

// Warps returns the warp registry of the node.
func (tx *Tx) Warps() *warp.Registry {
	tx.guard()
	return tx.p.warps
}

// Outfits returns the wardrobe manager of the node.
func (tx *Tx) Outfits() *wardrobe.Manager {
	tx.guard()
	return tx.p.outfits
}

// Signs returns the sign manager of the node.
func (tx *Tx) Signs() *sign.Manager {
	tx.guard()
	return tx.p.signs
}

// Menus returns the menu tracker of the node.
func (tx *Tx) Menus() *menu.Tracker {
	tx.guard()
	return tx.p.menus
}

// Players returns an iterator over the players connected to the node.
func (tx *Tx) Players() iter.Seq[*player.Player] {
	tx.guard()
	return tx.p.players.All()
}

// PlayerByID resolves a connected player by UUID.
func (tx *Tx) PlayerByID(id uuid.UUID) (*player.Player, bool) {
	tx.guard()
	return tx.p.players.ByID(id)
}

// PlayerByName resolves a connected player by name, case-insensitively.
func (tx *Tx) PlayerByName(name string) (*player.Player, bool) {
	tx.guard()
	return tx.p.players.ByName(name)
}
