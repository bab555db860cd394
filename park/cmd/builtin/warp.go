package builtin

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/player"
	"github.com/sparkparks/parkmanager/park/warp"
)

type warpSetCommand struct {
	srv   parkAdapter
	Set   cmd.SubCommand        `cmd:"set"`
	Name  string                `cmd:"name"`
	X     float64               `cmd:"x"`
	Y     float64               `cmd:"y"`
	Z     float64               `cmd:"z"`
	Yaw   cmd.Optional[float64] `cmd:"yaw"`
	Pitch cmd.Optional[float64] `cmd:"pitch"`
}

type warpRemoveCommand struct {
	srv    parkAdapter
	Remove cmd.SubCommand `cmd:"remove"`
	Name   string         `cmd:"name"`
}

type warpListCommand struct {
	srv  parkAdapter
	List cmd.SubCommand `cmd:"list"`
}

type warpToCommand struct {
	srv  parkAdapter
	To   cmd.SubCommand `cmd:"to"`
	Name string         `cmd:"name"`
}

func newWarpCommand(srv parkAdapter) cmd.Command {
	return cmd.New(
		"warp",
		"Manages the warps of this park and teleports to them.",
		nil,
		warpSetCommand{srv: srv},
		warpRemoveCommand{srv: srv},
		warpListCommand{srv: srv},
		warpToCommand{srv: srv},
	)
}

// Run sets a warp at the coordinates passed, hosted by this node. Setting an
// existing name moves the warp.
func (w warpSetCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, w.srv)
	wp := warp.Warp{
		Name:   w.Name,
		Park:   park,
		Server: w.srv.Node(),
		Pos:    mgl64.Vec3{w.X, w.Y, w.Z},
		Yaw:    w.Yaw.LoadOr(0),
		Pitch:  w.Pitch.LoadOr(0),
	}
	if err := w.srv.Warps().Set(wp); err != nil {
		o.Print("The warp was set, but saving it failed. Check the console.")
		return
	}
	o.Printf("Set warp %v in %v at (%.1f, %.1f, %.1f).", wp.Name, park, w.X, w.Y, w.Z)
}

func (warpSetCommand) Allow(src cmd.Source) bool { return staff(src) }

func (w warpRemoveCommand) Run(_ cmd.Source, o *cmd.Output) {
	removed, err := w.srv.Warps().Remove(w.Name)
	if !removed {
		o.Errorf("No warp %q exists.", w.Name)
		return
	}
	if err != nil {
		o.Print("The warp was removed, but saving the change failed. Check the console.")
		return
	}
	o.Printf("Removed warp %q.", w.Name)
}

func (warpRemoveCommand) Allow(src cmd.Source) bool { return staff(src) }

func (w warpListCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, w.srv)
	warps := w.srv.Warps().Park(park)
	if len(warps) == 0 {
		o.Printf("No warps exist in %v.", park)
		return
	}
	o.Printf("Warps of %v (%d):", park, len(warps))
	for _, wp := range warps {
		o.Printf("%v - (%.1f, %.1f, %.1f) on %v", wp.Name, wp.Pos.X(), wp.Pos.Y(), wp.Pos.Z(), wp.Server)
	}
}

func (warpListCommand) Allow(src cmd.Source) bool { return staff(src) }

func (w warpToCommand) Run(src cmd.Source, o *cmd.Output) {
	pl, ok := src.(*player.Player)
	if !ok {
		o.Error("Only players can warp.")
		return
	}
	wp, ok := w.srv.Warps().ByName(w.Name)
	if !ok {
		o.Errorf("No warp %q exists.", w.Name)
		return
	}
	if err := w.srv.Travel(pl, wp); err != nil {
		o.Errorf("Could not warp you there: %v", err)
		return
	}
	o.Printf("Warped to %v.", wp.Name)
}

func (warpToCommand) Allow(src cmd.Source) bool { return staff(src) }
