package shop

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sparkparks/parkmanager/park/economy"
	"github.com/sparkparks/parkmanager/park/menu"
	"github.com/sparkparks/parkmanager/park/player"
	"github.com/sparkparks/parkmanager/park/wardrobe"
)

// Coordinator drives the purchase flow of shop entries. For every purchase it
// guarantees, in order: outfits are never bought twice, affordability is read
// synchronously before any confirmation menu opens, the player confirms or
// declines explicitly, the deduction runs off the transaction loop, and the
// good is delivered back on the loop only after the ledger accepted the
// charge. A player has at most one pending purchase at a time.
//
// The Coordinator's state is owned by the node's transaction loop; the
// deduction itself is handed to the Charger.
type Coordinator struct {
	log      *slog.Logger
	ledger   economy.Ledger
	charger  *economy.Charger
	wardrobe *wardrobe.Manager
	shops    *Manager
	menus    *menu.Tracker
	// persist writes the player's record after an outfit grant. Wired to the
	// storage flusher by the node.
	persist func(pl *player.Player)

	pending map[uuid.UUID]*pending
}

type pending struct {
	player    *player.Player
	shop      string
	entry     Entry
	confirmed bool
}

// NewCoordinator returns a Coordinator charging against ledger through
// charger. The persist function may be nil when purchases need no record
// write.
func NewCoordinator(ledger economy.Ledger, charger *economy.Charger, w *wardrobe.Manager, shops *Manager, menus *menu.Tracker, persist func(pl *player.Player), log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		log:      log,
		ledger:   ledger,
		charger:  charger,
		wardrobe: w,
		shops:    shops,
		menus:    menus,
		persist:  persist,
		pending:  map[uuid.UUID]*pending{},
	}
}

// OpenShop shows the entry menu of a shop to the player. Selecting an entry
// starts the purchase flow for it.
func (c *Coordinator) OpenShop(pl *player.Player, s *Shop) {
	items, outfits := s.Items(), c.shops.Outfits(s)
	opts := make([]menu.Option, 0, len(items)+len(outfits))
	for _, it := range items {
		entry := it
		opts = append(opts, menu.Option{Label: entry.Label(), Run: func() { c.Begin(pl, s, entry) }})
	}
	for _, o := range outfits {
		entry := o
		opts = append(opts, menu.Option{Label: c.entryLabel(entry) + " - " + entry.Label(), Run: func() { c.Begin(pl, s, entry) }})
	}
	if len(opts) == 0 {
		pl.Messagef("%v has nothing for sale right now.", s.Name())
		return
	}
	c.menus.Open(pl, menu.New(s.Name(), opts...))
}

// Begin starts the purchase flow for an entry: the ownership and affordability
// checks run first, and only when both pass is the confirmation menu opened.
func (c *Coordinator) Begin(pl *player.Player, s *Shop, e Entry) {
	id := pl.UUID()
	if _, ok := c.pending[id]; ok {
		pl.Message("Finish your pending purchase first.")
		return
	}
	if o, ok := e.(Outfit); ok && c.wardrobe.Owns(id, o.OutfitID) {
		pl.Message("You already own that outfit.")
		return
	}
	cost, kind := e.Price()
	bal, err := c.ledger.Balance(context.Background(), id, kind)
	if err != nil {
		c.log.Error("read balance", "player", pl.Name(), "kind", kind.String(), "err", err)
		pl.Message("Something went wrong, please check with staff.")
		return
	}
	if bal < cost {
		pl.Messagef("You cannot afford %v! It costs %v and you have %v.", c.entryLabel(e), kind.Format(cost), kind.Format(bal))
		return
	}
	c.pending[id] = &pending{player: pl, shop: s.ID(), entry: e}
	c.menus.Open(pl, menu.Confirm(
		s.Name(),
		"Buy "+c.entryLabel(e)+" for "+kind.Format(cost)+"?",
		func() { c.confirm(id) },
		func() { c.decline(id) },
	))
}

// Drop discards the pending purchase of a player, used when the player quits.
// A deduction already submitted still completes; its delivery is skipped.
func (c *Coordinator) Drop(id uuid.UUID) {
	delete(c.pending, id)
}

// confirm submits the deduction of the pending purchase. Repeated confirms of
// the same purchase are ignored, so rapid clicks charge at most once.
func (c *Coordinator) confirm(id uuid.UUID) {
	p, ok := c.pending[id]
	if !ok || p.confirmed {
		return
	}
	p.confirmed = true
	cost, kind := p.entry.Price()
	c.charger.Submit(economy.Charge{Player: id, Kind: kind, Amount: cost}, func(err error) {
		c.complete(id, err)
	})
}

func (c *Coordinator) decline(id uuid.UUID) {
	p, ok := c.pending[id]
	if !ok || p.confirmed {
		return
	}
	delete(c.pending, id)
	p.player.Message("Purchase declined.")
}

// complete runs on the transaction loop once the deduction finished. The good
// is delivered only after a successful charge; a failed charge delivers
// nothing. A failed delivery after a successful charge is logged and not
// compensated.
func (c *Coordinator) complete(id uuid.UUID, err error) {
	p, ok := c.pending[id]
	if !ok {
		c.log.Debug("purchase completed for detached player", "player", id)
		return
	}
	delete(c.pending, id)
	pl := p.player
	cost, kind := p.entry.Price()
	if errors.Is(err, economy.ErrInsufficient) {
		pl.Messagef("You can no longer afford %v.", c.entryLabel(p.entry))
		return
	}
	if err != nil {
		c.log.Error("charge purchase", "player", pl.Name(), "shop", p.shop, "entry", p.entry.EntryID(), "err", err)
		pl.Message("Something went wrong, please check with staff.")
		return
	}
	switch e := p.entry.(type) {
	case Item:
		if derr := pl.Deliver(e.Good); derr != nil {
			c.log.Error("deliver purchase", "player", pl.Name(), "shop", p.shop, "entry", e.ID, "err", derr)
			pl.Message("Something went wrong, please check with staff.")
			return
		}
	case Outfit:
		c.wardrobe.Grant(id, e.OutfitID)
		if c.persist != nil {
			c.persist(pl)
		}
	}
	pl.Messagef("You purchased %v for %v!", c.entryLabel(p.entry), kind.Format(cost))
}

// entryLabel names an entry for chat output: the good for items, the outfit
// name for outfit entries.
func (c *Coordinator) entryLabel(e Entry) string {
	switch e := e.(type) {
	case Item:
		return e.Good.String()
	case Outfit:
		if o, ok := c.wardrobe.ByID(e.OutfitID); ok {
			return o.Name
		}
		return "an outfit"
	}
	return "an item"
}
