// Package player implements the players connected to a park node and the
// session abstraction that carries their game-facing side.
package player

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/item"
	"github.com/sparkparks/parkmanager/park/menu"
	"github.com/sparkparks/parkmanager/park/storage"
	"github.com/sparkparks/parkmanager/park/warp"
)

// Player is a participant connected to this node. Its fields are owned by the
// node's transaction loop; only Session implementations may be touched from
// other goroutines.
type Player struct {
	id    uuid.UUID
	name  string
	park  string
	staff bool
	s     Session
	rec   *storage.Record
}

// New returns a Player with the identity and session passed. A nil session is
// replaced by a NopSession and a nil record by a fresh one.
func New(id uuid.UUID, name, park string, staff bool, s Session, rec *storage.Record) *Player {
	if s == nil {
		s = NopSession{}
	}
	if rec == nil {
		r := storage.NewRecord()
		rec = &r
	}
	return &Player{id: id, name: name, park: park, staff: staff, s: s, rec: rec}
}

// UUID returns the unique identity of the player.
func (p *Player) UUID() uuid.UUID { return p.id }

// Name returns the display name of the player.
func (p *Player) Name() string { return p.name }

// Park returns the park the player is currently in.
func (p *Player) Park() string { return p.park }

// SetPark moves the player to another park context.
func (p *Player) SetPark(park string) { p.park = park }

// Staff reports whether the player is on the staff roster.
func (p *Player) Staff() bool { return p.staff }

// SetStaff updates the staff flag, used when the roster changes while the
// player is online.
func (p *Player) SetStaff(staff bool) { p.staff = staff }

// Record returns the storage record of the player.
func (p *Player) Record() *storage.Record { return p.rec }

// Message sends a chat message composed of the arguments passed.
func (p *Player) Message(a ...any) {
	p.s.Message(strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
}

// Messagef sends a formatted chat message.
func (p *Player) Messagef(format string, a ...any) {
	p.s.Message(fmt.Sprintf(format, a...))
}

// SendCommandOutput sends the output of a command run by the player back as
// chat messages.
func (p *Player) SendCommandOutput(o *cmd.Output) {
	for _, msg := range o.Messages() {
		p.s.Message(msg.String())
	}
	for _, err := range o.Errors() {
		p.s.Message(err.Error())
	}
}

// ShowMenu displays a menu to the player.
func (p *Player) ShowMenu(m menu.Menu) { p.s.ShowMenu(m) }

// CloseMenu dismisses the player's open menu, if any.
func (p *Player) CloseMenu() { p.s.CloseMenu() }

// Deliver adds a stack to the player's inventory.
func (p *Player) Deliver(st item.Stack) error { return p.s.Deliver(st) }

// Held returns the stack the player holds.
func (p *Player) Held() item.Stack { return p.s.Held() }

// SetHeld replaces the stack the player holds.
func (p *Player) SetHeld(st item.Stack) error { return p.s.SetHeld(st) }

// Teleport moves the player to the warp passed. Warps on another server hand
// the player off to that server instead.
func (p *Player) Teleport(w warp.Warp) error {
	p.park = w.Park
	return p.s.Teleport(w)
}

// Transfer sends the player to another server of the cluster.
func (p *Player) Transfer(server string) error { return p.s.Transfer(server) }
