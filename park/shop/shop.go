// Package shop implements the purchasable storefronts of a park: their item
// and outfit entries, JSON persistence, and the purchase flow that charges
// players and delivers the goods.
package shop

import (
	"github.com/sparkparks/parkmanager/park/economy"
	"github.com/sparkparks/parkmanager/park/item"
)

// Entry is a purchasable unit of a shop, either an item or an outfit.
type Entry interface {
	// EntryID returns the id of the entry, unique within its shop.
	EntryID() int
	// Price returns the cost of the entry and the currency it is charged in.
	Price() (int64, economy.Kind)
	// Label returns the display line of the entry in shop menus.
	Label() string
}

// Item is a shop entry delivering a concrete item stack on purchase.
type Item struct {
	ID       int          `json:"id"`
	Cost     int64        `json:"cost"`
	Currency economy.Kind `json:"currency"`
	Good     item.Stack   `json:"item"`
}

// EntryID ...
func (i Item) EntryID() int { return i.ID }

// Price ...
func (i Item) Price() (int64, economy.Kind) { return i.Cost, i.Currency }

// Label ...
func (i Item) Label() string {
	return i.Good.String() + " - " + i.Currency.Format(i.Cost)
}

// Outfit is a shop entry granting ownership of a wardrobe outfit on purchase.
type Outfit struct {
	ID       int          `json:"id"`
	Cost     int64        `json:"cost"`
	Currency economy.Kind `json:"currency"`
	OutfitID int          `json:"outfit-id"`
}

// EntryID ...
func (o Outfit) EntryID() int { return o.ID }

// Price ...
func (o Outfit) Price() (int64, economy.Kind) { return o.Cost, o.Currency }

// Label ...
func (o Outfit) Label() string { return o.Currency.Format(o.Cost) }

// Shop is a storefront inside a park holding an ordered list of item entries
// and an ordered list of outfit entries.
type Shop struct {
	id   string
	park string
	name string
	warp string
	icon item.Stack

	next    int
	items   []Item
	outfits []Outfit
}

// ID returns the id of the shop, unique within its park.
func (s *Shop) ID() string { return s.id }

// Park returns the park the shop belongs to.
func (s *Shop) Park() string { return s.park }

// Name returns the display name of the shop.
func (s *Shop) Name() string { return s.name }

// Warp returns the name of the warp leading to the shop.
func (s *Shop) Warp() string { return s.warp }

// Icon returns the stack representing the shop in listings.
func (s *Shop) Icon() item.Stack { return s.icon }

// Items returns the item entries of the shop in id order.
func (s *Shop) Items() []Item {
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// AddItem appends an item entry selling the good passed and returns it. Entry
// ids come from the shop's counter: strictly increasing, never reused, shared
// between item and outfit entries.
func (s *Shop) AddItem(good item.Stack, cost int64, currency economy.Kind) Item {
	it := Item{ID: s.nextID(), Cost: cost, Currency: currency, Good: good}
	s.items = append(s.items, it)
	return it
}

// RemoveItem deletes the item entry with the id passed, reporting whether an
// entry was removed. The id is retired with it.
func (s *Shop) RemoveItem(id int) bool {
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// AddOutfit appends an outfit entry selling the wardrobe outfit passed.
func (s *Shop) AddOutfit(outfitID int, cost int64, currency economy.Kind) Outfit {
	o := Outfit{ID: s.nextID(), Cost: cost, Currency: currency, OutfitID: outfitID}
	s.outfits = append(s.outfits, o)
	return o
}

// RemoveOutfit deletes the outfit entry with the id passed.
func (s *Shop) RemoveOutfit(id int) bool {
	for i, o := range s.outfits {
		if o.ID == id {
			s.outfits = append(s.outfits[:i], s.outfits[i+1:]...)
			return true
		}
	}
	return false
}

// Entry resolves an entry of the shop by id, item or outfit.
func (s *Shop) Entry(id int) (Entry, bool) {
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	for _, o := range s.outfits {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

func (s *Shop) nextID() int {
	id := s.next
	s.next++
	return id
}
