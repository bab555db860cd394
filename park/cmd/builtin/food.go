package builtin

import (
	"errors"

	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/food"
	"github.com/sparkparks/parkmanager/park/item"
	"github.com/sparkparks/parkmanager/park/player"
)

type foodCreateCommand struct {
	srv    parkAdapter
	Create cmd.SubCommand `cmd:"create"`
	ID     string         `cmd:"id"`
	Warp   string         `cmd:"warp"`
	Name   cmd.Varargs    `cmd:"name"`
}

type foodRemoveCommand struct {
	srv    parkAdapter
	Remove cmd.SubCommand `cmd:"remove"`
	ID     string         `cmd:"id"`
}

type foodListCommand struct {
	srv  parkAdapter
	List cmd.SubCommand `cmd:"list"`
}

func newFoodCommand(srv parkAdapter) cmd.Command {
	return cmd.New(
		"food",
		"Manages the food locations of this park.",
		nil,
		foodCreateCommand{srv: srv},
		foodRemoveCommand{srv: srv},
		foodListCommand{srv: srv},
	)
}

// Run registers a food location. The held item of the creating player becomes
// the location's listing icon.
func (f foodCreateCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, f.srv)
	icon := item.Stack{}
	if pl, ok := src.(*player.Player); ok {
		icon = pl.Held()
	}
	l := food.Location{ID: f.ID, Name: string(f.Name), Warp: f.Warp, Icon: icon}
	err := f.srv.Food().Create(park, l)
	switch {
	case errors.Is(err, food.ErrFoodExists):
		o.Errorf("A food location with id %q already exists in %v.", f.ID, park)
		return
	case err != nil:
		o.Print("The location was created, but saving it failed. Check the console.")
		return
	}
	if _, ok := f.srv.Warps().ByName(f.Warp); !ok {
		o.Printf("Warning: warp %q does not exist yet.", f.Warp)
	}
	o.Printf("Created food location %v (%v) in %v.", l.Name, l.ID, park)
}

func (foodCreateCommand) Allow(src cmd.Source) bool { return staff(src) }

func (f foodRemoveCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, f.srv)
	err := f.srv.Food().Remove(park, f.ID)
	switch {
	case errors.Is(err, food.ErrUnknownFood):
		o.Errorf("No food location %q exists in %v.", f.ID, park)
		return
	case err != nil:
		o.Print("The location was removed, but saving the change failed. Check the console.")
		return
	}
	o.Printf("Removed food location %q.", f.ID)
}

func (foodRemoveCommand) Allow(src cmd.Source) bool { return staff(src) }

func (f foodListCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, f.srv)
	locs := f.srv.Food().Park(park)
	if len(locs) == 0 {
		o.Printf("No food locations exist in %v.", park)
		return
	}
	o.Printf("Food locations of %v (%d):", park, len(locs))
	for _, l := range locs {
		o.Printf("%v (%v) - warp %v", l.Name, l.ID, l.Warp)
	}
}
