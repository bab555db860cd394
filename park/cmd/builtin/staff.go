package builtin

import (
	"strings"

	"github.com/sparkparks/parkmanager/park/cmd"
)

type staffAddCommand struct {
	srv    parkAdapter
	Add    cmd.SubCommand `cmd:"add"`
	Player string         `cmd:"player"`
}

type staffRemoveCommand struct {
	srv    parkAdapter
	Remove cmd.SubCommand `cmd:"remove"`
	Player string         `cmd:"player"`
}

type staffListCommand struct {
	srv  parkAdapter
	List cmd.SubCommand `cmd:"list"`
}

func newStaffCommand(srv parkAdapter) cmd.Command {
	return cmd.New(
		"staff",
		"Manages the staff roster of this server.",
		nil,
		staffAddCommand{srv: srv},
		staffRemoveCommand{srv: srv},
		staffListCommand{srv: srv},
	)
}

func (s staffAddCommand) Run(_ cmd.Source, o *cmd.Output) {
	if err := s.srv.StaffAdd(s.Player); err != nil {
		infra(o)
		return
	}
	if p, ok := s.srv.PlayerByName(s.Player); ok {
		p.SetStaff(true)
		p.Message("You are now staff.")
	}
	o.Printf("Added %v to the staff roster.", s.Player)
}

func (staffAddCommand) Allow(src cmd.Source) bool { return staff(src) }

func (s staffRemoveCommand) Run(_ cmd.Source, o *cmd.Output) {
	if err := s.srv.StaffRemove(s.Player); err != nil {
		infra(o)
		return
	}
	if p, ok := s.srv.PlayerByName(s.Player); ok {
		p.SetStaff(false)
		p.Message("You are no longer staff.")
	}
	o.Printf("Removed %v from the staff roster.", s.Player)
}

func (staffRemoveCommand) Allow(src cmd.Source) bool { return staff(src) }

func (s staffListCommand) Run(_ cmd.Source, o *cmd.Output) {
	names := s.srv.StaffList()
	if len(names) == 0 {
		o.Print("The staff roster is empty.")
		return
	}
	o.Printf("Staff (%d): %v", len(names), strings.Join(names, ", "))
}

func (staffListCommand) Allow(src cmd.Source) bool { return staff(src) }
