package builtin

import (
	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/player"
)

type stopCommand struct {
	srv parkAdapter
}

func newStopCommand(srv parkAdapter) cmd.Command {
	return cmd.New("stop", "Stops the server.", nil, stopCommand{srv: srv})
}

func (s stopCommand) Run(src cmd.Source, o *cmd.Output) {
	o.Print("Stopping server...")
	// Close blocks until the transaction loop drains, and commands run on
	// that loop, so the shutdown must happen elsewhere.
	go func() {
		_ = s.srv.Close()
	}()
}

func (stopCommand) Allow(src cmd.Source) bool {
	_, isPlayer := src.(*player.Player)
	return !isPlayer
}
