package builtin

import (
	"errors"
	"strings"

	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/player"
	"github.com/sparkparks/parkmanager/park/wardrobe"
)

type outfitCreateCommand struct {
	srv    parkAdapter
	Create cmd.SubCommand `cmd:"create"`
	Head   string         `cmd:"head"`
	Chest  string         `cmd:"chest"`
	Legs   string         `cmd:"legs"`
	Boots  string         `cmd:"boots"`
	Name   cmd.Varargs    `cmd:"name"`
}

type outfitRemoveCommand struct {
	srv    parkAdapter
	Remove cmd.SubCommand `cmd:"remove"`
	ID     int            `cmd:"id"`
}

type outfitListCommand struct {
	srv  parkAdapter
	List cmd.SubCommand `cmd:"list"`
}

type outfitEquipCommand struct {
	srv   parkAdapter
	Equip cmd.SubCommand `cmd:"equip"`
	ID    int            `cmd:"id"`
}

type outfitGrantCommand struct {
	srv    parkAdapter
	Grant  cmd.SubCommand `cmd:"grant"`
	Player string         `cmd:"player"`
	ID     int            `cmd:"id"`
}

func newOutfitCommand(srv parkAdapter) cmd.Command {
	return cmd.New(
		"outfit",
		"Manages outfits and your wardrobe.",
		[]string{"wardrobe"},
		outfitCreateCommand{srv: srv},
		outfitRemoveCommand{srv: srv},
		outfitListCommand{srv: srv},
		outfitEquipCommand{srv: srv},
		outfitGrantCommand{srv: srv},
	)
}

// piece normalises an outfit piece argument: "-" and "none" leave the slot
// untouched.
func piece(s string) string {
	if s == "-" || strings.EqualFold(s, "none") {
		return ""
	}
	return s
}

func (c outfitCreateCommand) Run(_ cmd.Source, o *cmd.Output) {
	outfit, err := c.srv.Outfits().Create(string(c.Name), piece(c.Head), piece(c.Chest), piece(c.Legs), piece(c.Boots))
	if err != nil {
		o.Print("The outfit was created, but saving it failed. Check the console.")
		return
	}
	o.Printf("Created outfit %v with id %d.", outfit.Name, outfit.ID)
}

func (outfitCreateCommand) Allow(src cmd.Source) bool { return staff(src) }

func (c outfitRemoveCommand) Run(_ cmd.Source, o *cmd.Output) {
	removed, err := c.srv.Outfits().Remove(c.ID)
	if !removed {
		o.Errorf("No outfit %d exists.", c.ID)
		return
	}
	if err != nil {
		o.Print("The outfit was removed, but saving the change failed. Check the console.")
		return
	}
	o.Printf("Removed outfit %d. Shop entries selling it will be pruned.", c.ID)
}

func (outfitRemoveCommand) Allow(src cmd.Source) bool { return staff(src) }

// Run lists every outfit. Players see which ones they own.
func (c outfitListCommand) Run(src cmd.Source, o *cmd.Output) {
	outfits := c.srv.Outfits().All()
	if len(outfits) == 0 {
		o.Print("No outfits exist yet.")
		return
	}
	pl, isPlayer := src.(*player.Player)
	o.Printf("Outfits (%d):", len(outfits))
	for _, outfit := range outfits {
		line := outfit.Name
		if isPlayer && c.srv.Outfits().Owns(pl.UUID(), outfit.ID) {
			line += " (owned)"
			if pl.Record().Equipped == outfit.ID {
				line = outfit.Name + " (wearing)"
			}
		}
		o.Printf("%d: %v", outfit.ID, line)
	}
}

func (c outfitEquipCommand) Run(src cmd.Source, o *cmd.Output) {
	pl, ok := src.(*player.Player)
	if !ok {
		o.Error("Only players can equip an outfit.")
		return
	}
	err := c.srv.Outfits().Equip(pl.Record(), pl.UUID(), c.ID)
	switch {
	case errors.Is(err, wardrobe.ErrUnknownOutfit):
		o.Errorf("No outfit %d exists.", c.ID)
		return
	case errors.Is(err, wardrobe.ErrNotOwned):
		o.Error("You do not own that outfit. Visit a shop that sells it!")
		return
	}
	c.srv.SaveRecord(pl)
	outfit, _ := c.srv.Outfits().ByID(c.ID)
	o.Printf("You are now wearing %v.", outfit.Name)
}

// Run grants an outfit to an online player without a purchase, for prizes and
// event rewards.
func (c outfitGrantCommand) Run(_ cmd.Source, o *cmd.Output) {
	if !c.srv.Outfits().Exists(c.ID) {
		o.Errorf("No outfit %d exists.", c.ID)
		return
	}
	pl, ok := c.srv.PlayerByName(c.Player)
	if !ok {
		o.Errorf("%v is not online.", c.Player)
		return
	}
	outfit, _ := c.srv.Outfits().ByID(c.ID)
	if !c.srv.Outfits().Grant(pl.UUID(), c.ID) {
		o.Errorf("%v already owns %v.", pl.Name(), outfit.Name)
		return
	}
	c.srv.SaveRecord(pl)
	pl.Messagef("You received the outfit %v!", outfit.Name)
	o.Printf("Granted %v to %v.", outfit.Name, pl.Name())
}

func (outfitGrantCommand) Allow(src cmd.Source) bool { return staff(src) }
