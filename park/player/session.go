package player

import (
	"github.com/sparkparks/parkmanager/park/item"
	"github.com/sparkparks/parkmanager/park/menu"
	"github.com/sparkparks/parkmanager/park/warp"
)

// Session is the host-side transport of a connected player: chat delivery,
// menu display, inventory access and movement. Implementations live in the
// host integration that accepts connections into the node.
type Session interface {
	// Message sends a chat message to the player.
	Message(msg string)
	// ShowMenu displays a menu to the player.
	ShowMenu(m menu.Menu)
	// CloseMenu dismisses the menu currently shown, if any.
	CloseMenu()
	// Deliver adds a stack to the player's game inventory.
	Deliver(st item.Stack) error
	// Held returns the stack the player currently holds.
	Held() item.Stack
	// SetHeld replaces the stack the player currently holds.
	SetHeld(st item.Stack) error
	// Teleport moves the player to the warp passed.
	Teleport(w warp.Warp) error
	// Transfer sends the player to another server of the cluster.
	Transfer(server string) error
}

// NopSession is a Session that discards everything sent to it. It stands in
// for disconnected players and test subjects.
type NopSession struct{}

// Message ...
func (NopSession) Message(string) {}

// ShowMenu ...
func (NopSession) ShowMenu(menu.Menu) {}

// CloseMenu ...
func (NopSession) CloseMenu() {}

// Deliver ...
func (NopSession) Deliver(item.Stack) error { return nil }

// Held ...
func (NopSession) Held() item.Stack { return item.Stack{} }

// SetHeld ...
func (NopSession) SetHeld(item.Stack) error { return nil }

// Teleport ...
func (NopSession) Teleport(warp.Warp) error { return nil }

// Transfer ...
func (NopSession) Transfer(string) error { return nil }
