package builtin

import (
	"errors"

	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/item"
	"github.com/sparkparks/parkmanager/park/player"
	"github.com/sparkparks/parkmanager/park/shop"
)

type shopCreateCommand struct {
	srv    parkAdapter
	Create cmd.SubCommand `cmd:"create"`
	ID     string         `cmd:"id"`
	Warp   string         `cmd:"warp"`
	Name   cmd.Varargs    `cmd:"name"`
}

type shopListCommand struct {
	srv  parkAdapter
	List cmd.SubCommand `cmd:"list"`
}

type shopRemoveCommand struct {
	srv    parkAdapter
	Remove cmd.SubCommand `cmd:"remove"`
	ID     string         `cmd:"id"`
}

type shopReloadCommand struct {
	srv    parkAdapter
	Reload cmd.SubCommand `cmd:"reload"`
}

type shopOpenCommand struct {
	srv  parkAdapter
	Open cmd.SubCommand `cmd:"open"`
	ID   string         `cmd:"id"`
}

type shopItemAddCommand struct {
	srv      parkAdapter
	Item     cmd.SubCommand `cmd:"item"`
	Add      cmd.SubCommand `cmd:"add"`
	Shop     string         `cmd:"shop"`
	Cost     int64          `cmd:"cost"`
	Currency currencyValue  `cmd:"currency"`
}

type shopItemListCommand struct {
	srv  parkAdapter
	Item cmd.SubCommand `cmd:"item"`
	List cmd.SubCommand `cmd:"list"`
	Shop string         `cmd:"shop"`
}

type shopItemRemoveCommand struct {
	srv    parkAdapter
	Item   cmd.SubCommand `cmd:"item"`
	Remove cmd.SubCommand `cmd:"remove"`
	Shop   string         `cmd:"shop"`
	Entry  int            `cmd:"entry"`
}

type shopOutfitAddCommand struct {
	srv      parkAdapter
	Outfit   cmd.SubCommand `cmd:"outfit"`
	Add      cmd.SubCommand `cmd:"add"`
	Shop     string         `cmd:"shop"`
	OutfitID int            `cmd:"outfit-id"`
	Cost     int64          `cmd:"cost"`
	Currency currencyValue  `cmd:"currency"`
}

type shopOutfitListCommand struct {
	srv    parkAdapter
	Outfit cmd.SubCommand `cmd:"outfit"`
	List   cmd.SubCommand `cmd:"list"`
	Shop   string         `cmd:"shop"`
}

type shopOutfitRemoveCommand struct {
	srv    parkAdapter
	Outfit cmd.SubCommand `cmd:"outfit"`
	Remove cmd.SubCommand `cmd:"remove"`
	Shop   string         `cmd:"shop"`
	Entry  int            `cmd:"entry"`
}

func newShopCommand(srv parkAdapter) cmd.Command {
	return cmd.New(
		"shop",
		"Manages the shops of this park and what they sell.",
		nil,
		shopCreateCommand{srv: srv},
		shopListCommand{srv: srv},
		shopRemoveCommand{srv: srv},
		shopReloadCommand{srv: srv},
		shopOpenCommand{srv: srv},
		shopItemAddCommand{srv: srv},
		shopItemListCommand{srv: srv},
		shopItemRemoveCommand{srv: srv},
		shopOutfitAddCommand{srv: srv},
		shopOutfitListCommand{srv: srv},
		shopOutfitRemoveCommand{srv: srv},
	)
}

// resolveShop finds a shop of the source's park, reporting to the output when
// it does not exist.
func resolveShop(src cmd.Source, srv parkAdapter, id string, o *cmd.Output) (*shop.Shop, bool) {
	park := currentPark(src, srv)
	s, ok := srv.Shops().ByID(park, id)
	if !ok {
		o.Errorf("No shop %q exists in %v.", id, park)
	}
	return s, ok
}

// Run creates a shop. The held item of the creating player becomes the shop's
// listing icon.
func (s shopCreateCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, s.srv)
	icon := item.Stack{}
	if pl, ok := src.(*player.Player); ok {
		icon = pl.Held()
	}
	sh, err := s.srv.Shops().Create(park, s.ID, string(s.Name), s.Warp, icon)
	if errors.Is(err, shop.ErrShopExists) {
		o.Errorf("A shop with id %q already exists in %v.", s.ID, park)
		return
	}
	if _, ok := s.srv.Warps().ByName(s.Warp); !ok {
		o.Printf("Warning: warp %q does not exist yet.", s.Warp)
	}
	if err != nil {
		o.Print("The shop was created, but saving it failed. Check the console.")
		return
	}
	o.Printf("Created shop %v (%v) in %v.", sh.Name(), sh.ID(), park)
}

func (shopCreateCommand) Allow(src cmd.Source) bool { return staff(src) }

func (s shopListCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, s.srv)
	shops := s.srv.Shops().Park(park)
	if len(shops) == 0 {
		o.Printf("No shops exist in %v.", park)
		return
	}
	o.Printf("Shops of %v (%d):", park, len(shops))
	for _, sh := range shops {
		o.Printf("%v (%v) - %d items, %d outfits, warp %v",
			sh.Name(), sh.ID(), len(sh.Items()), len(s.srv.Shops().Outfits(sh)), sh.Warp())
	}
}

func (shopListCommand) Allow(src cmd.Source) bool { return staff(src) }

func (s shopRemoveCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, s.srv)
	err := s.srv.Shops().Remove(park, s.ID)
	switch {
	case errors.Is(err, shop.ErrUnknownShop):
		o.Errorf("No shop %q exists in %v.", s.ID, park)
		return
	case err != nil:
		o.Print("The shop was removed, but saving the change failed. Check the console.")
		return
	}
	o.Printf("Removed shop %q.", s.ID)
}

func (shopRemoveCommand) Allow(src cmd.Source) bool { return staff(src) }

// Run re-reads the shop file of the current park, discarding unsaved edits.
// Useful after editing the file by hand.
func (s shopReloadCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, s.srv)
	if err := s.srv.Shops().Reload(park); err != nil {
		infra(o)
		return
	}
	o.Printf("Reloaded the shops of %v from disk.", park)
}

func (shopReloadCommand) Allow(src cmd.Source) bool { return staff(src) }

// Run opens the shop's purchase menu, like clicking its sign.
func (s shopOpenCommand) Run(src cmd.Source, o *cmd.Output) {
	pl, ok := src.(*player.Player)
	if !ok {
		o.Error("Only players can browse a shop.")
		return
	}
	sh, ok := resolveShop(src, s.srv, s.ID, o)
	if !ok {
		return
	}
	s.srv.Purchases().OpenShop(pl, sh)
}

// Run adds the held item of the player as a purchasable entry of a shop.
func (s shopItemAddCommand) Run(src cmd.Source, o *cmd.Output) {
	pl, ok := src.(*player.Player)
	if !ok {
		o.Error("Only players can add items: the held item becomes the good.")
		return
	}
	good := pl.Held()
	if good.Empty() {
		o.Error("Hold the item you want the shop to sell.")
		return
	}
	if s.Cost <= 0 {
		o.Error("The cost must be positive.")
		return
	}
	sh, ok := resolveShop(src, s.srv, s.Shop, o)
	if !ok {
		return
	}
	e := sh.AddItem(good, s.Cost, s.Currency.kind())
	if err := s.srv.Shops().Save(sh.Park()); err != nil {
		o.Print("The entry was added, but saving the shop failed. Check the console.")
	}
	o.Printf("Added %v to %v as entry %d for %v.", good, sh.Name(), e.ID, s.Currency.kind().Format(s.Cost))
}

func (shopItemAddCommand) Allow(src cmd.Source) bool { return staff(src) }

func (s shopItemListCommand) Run(src cmd.Source, o *cmd.Output) {
	sh, ok := resolveShop(src, s.srv, s.Shop, o)
	if !ok {
		return
	}
	items := sh.Items()
	if len(items) == 0 {
		o.Printf("%v sells no items.", sh.Name())
		return
	}
	o.Printf("Items of %v (%d):", sh.Name(), len(items))
	for _, it := range items {
		o.Printf("%d: %v", it.ID, it.Label())
	}
}

func (shopItemListCommand) Allow(src cmd.Source) bool { return staff(src) }

func (s shopItemRemoveCommand) Run(src cmd.Source, o *cmd.Output) {
	sh, ok := resolveShop(src, s.srv, s.Shop, o)
	if !ok {
		return
	}
	if !sh.RemoveItem(s.Entry) {
		o.Errorf("%v has no item entry %d.", sh.Name(), s.Entry)
		return
	}
	if err := s.srv.Shops().Save(sh.Park()); err != nil {
		o.Print("The entry was removed, but saving the shop failed. Check the console.")
		return
	}
	o.Printf("Removed entry %d from %v.", s.Entry, sh.Name())
}

func (shopItemRemoveCommand) Allow(src cmd.Source) bool { return staff(src) }

func (s shopOutfitAddCommand) Run(src cmd.Source, o *cmd.Output) {
	if s.Cost <= 0 {
		o.Error("The cost must be positive.")
		return
	}
	if !s.srv.Outfits().Exists(s.OutfitID) {
		o.Errorf("No outfit %d exists. See /outfit list.", s.OutfitID)
		return
	}
	sh, ok := resolveShop(src, s.srv, s.Shop, o)
	if !ok {
		return
	}
	e := sh.AddOutfit(s.OutfitID, s.Cost, s.Currency.kind())
	if err := s.srv.Shops().Save(sh.Park()); err != nil {
		o.Print("The entry was added, but saving the shop failed. Check the console.")
	}
	outfit, _ := s.srv.Outfits().ByID(s.OutfitID)
	o.Printf("Added outfit %v to %v as entry %d for %v.", outfit.Name, sh.Name(), e.ID, s.Currency.kind().Format(s.Cost))
}

func (shopOutfitAddCommand) Allow(src cmd.Source) bool { return staff(src) }

func (s shopOutfitListCommand) Run(src cmd.Source, o *cmd.Output) {
	sh, ok := resolveShop(src, s.srv, s.Shop, o)
	if !ok {
		return
	}
	outfits := s.srv.Shops().Outfits(sh)
	if len(outfits) == 0 {
		o.Printf("%v sells no outfits.", sh.Name())
		return
	}
	o.Printf("Outfits of %v (%d):", sh.Name(), len(outfits))
	for _, e := range outfits {
		name := "(removed)"
		if outfit, ok := s.srv.Outfits().ByID(e.OutfitID); ok {
			name = outfit.Name
		}
		o.Printf("%d: %v - %v", e.ID, name, e.Label())
	}
}

func (shopOutfitListCommand) Allow(src cmd.Source) bool { return staff(src) }

func (s shopOutfitRemoveCommand) Run(src cmd.Source, o *cmd.Output) {
	sh, ok := resolveShop(src, s.srv, s.Shop, o)
	if !ok {
		return
	}
	if !sh.RemoveOutfit(s.Entry) {
		o.Errorf("%v has no outfit entry %d.", sh.Name(), s.Entry)
		return
	}
	if err := s.srv.Shops().Save(sh.Park()); err != nil {
		o.Print("The entry was removed, but saving the shop failed. Check the console.")
		return
	}
	o.Printf("Removed entry %d from %v.", s.Entry, sh.Name())
}

func (shopOutfitRemoveCommand) Allow(src cmd.Source) bool { return staff(src) }
