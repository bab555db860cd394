package builtin

import (
	"context"

	"github.com/sparkparks/parkmanager/park/chat"
	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/player"
)

type ridecountMeCommand struct {
	srv  parkAdapter
	Me   cmd.SubCommand `cmd:"me"`
	Ride string         `cmd:"ride"`
}

type ridecountTopCommand struct {
	srv   parkAdapter
	Top   cmd.SubCommand    `cmd:"top"`
	Ride  string            `cmd:"ride"`
	Limit cmd.Optional[int] `cmd:"limit"`
}

func newRidecountCommand(srv parkAdapter) cmd.Command {
	return cmd.New(
		"ridecount",
		"Shows how often rides have been ridden.",
		[]string{"rc"},
		ridecountMeCommand{srv: srv},
		ridecountTopCommand{srv: srv},
	)
}

func (r ridecountMeCommand) Run(src cmd.Source, o *cmd.Output) {
	pl, ok := src.(*player.Player)
	if !ok {
		o.Error("Only players have a ride count.")
		return
	}
	n, err := r.srv.Rides().Count(context.Background(), pl.UUID(), r.Ride)
	if err != nil {
		infra(o)
		return
	}
	switch n {
	case 0:
		o.Printf("You have not ridden %v yet.", r.Ride)
	case 1:
		o.Printf("You have ridden %v once.", r.Ride)
	default:
		o.Printf("You have ridden %v %v times.", r.Ride, chat.Money(n))
	}
}

func (r ridecountTopCommand) Run(_ cmd.Source, o *cmd.Output) {
	limit := r.Limit.LoadOr(10)
	if limit < 1 || limit > 25 {
		o.Error("The limit must be between 1 and 25.")
		return
	}
	rows, err := r.srv.Rides().Top(context.Background(), r.Ride, limit)
	if err != nil {
		infra(o)
		return
	}
	if len(rows) == 0 {
		o.Printf("Nobody has ridden %v yet.", r.Ride)
		return
	}
	o.Printf("Top riders of %v:", r.Ride)
	for i, row := range rows {
		o.Printf("%d. %v - %v", i+1, row.Name, chat.Money(row.Total))
	}
}
