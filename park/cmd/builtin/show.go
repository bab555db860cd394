package builtin

import (
	"errors"
	"fmt"
	"time"

	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/show"
)

type showEditCommand struct {
	srv      parkAdapter
	Edit     cmd.SubCommand `cmd:"edit"`
	ID       string         `cmd:"id"`
	Warp     string         `cmd:"warp"`
	Start    string         `cmd:"start"`
	Duration int            `cmd:"duration"`
	Name     cmd.Varargs    `cmd:"name"`
}

type showRemoveCommand struct {
	srv    parkAdapter
	Remove cmd.SubCommand `cmd:"remove"`
	ID     string         `cmd:"id"`
}

type showUpdateCommand struct {
	srv    parkAdapter
	Update cmd.SubCommand `cmd:"update"`
}

type showListCommand struct {
	srv  parkAdapter
	List cmd.SubCommand `cmd:"list"`
}

func newShowCommand(srv parkAdapter) cmd.Command {
	return cmd.New(
		"show",
		"Edits the daily show schedule of this park.",
		nil,
		showEditCommand{srv: srv},
		showRemoveCommand{srv: srv},
		showUpdateCommand{srv: srv},
		showListCommand{srv: srv},
	)
}

// Run stages a show, adding it to the schedule or replacing the one with the
// same id. Staged edits are in memory only until /show update writes them.
func (s showEditCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, s.srv)
	if s.Duration < 1 || s.Duration > 24*60 {
		o.Error("The duration must be between 1 and 1440 minutes.")
		return
	}
	sh := show.Show{ID: s.ID, Name: string(s.Name), Warp: s.Warp, Start: s.Start, Duration: s.Duration}
	if err := s.srv.Shows().Set(park, sh); errors.Is(err, show.ErrBadStart) {
		o.Errorf("%q is not a valid start time. Use the 24-hour form, such as 19:30.", s.Start)
		return
	}
	if _, ok := s.srv.Warps().ByName(s.Warp); !ok {
		o.Printf("Warning: warp %q does not exist yet.", s.Warp)
	}
	o.Printf("Staged show %v (%v) at %v. Run /show update to save the schedule.", string(s.Name), s.ID, s.Start)
}

func (showEditCommand) Allow(src cmd.Source) bool { return staff(src) }

func (s showRemoveCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, s.srv)
	if err := s.srv.Shows().Remove(park, s.ID); errors.Is(err, show.ErrUnknownShow) {
		o.Errorf("No show %q exists in %v.", s.ID, park)
		return
	}
	o.Printf("Staged the removal of show %q. Run /show update to save the schedule.", s.ID)
}

func (showRemoveCommand) Allow(src cmd.Source) bool { return staff(src) }

// Run writes the staged schedule of the current park to disk.
func (s showUpdateCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, s.srv)
	if !s.srv.Shows().Dirty(park) {
		o.Printf("The schedule of %v has no staged changes.", park)
		return
	}
	if err := s.srv.Shows().Update(park); err != nil {
		infra(o)
		return
	}
	o.Printf("Saved the show schedule of %v.", park)
}

func (showUpdateCommand) Allow(src cmd.Source) bool { return staff(src) }

func (s showListCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, s.srv)
	shows := s.srv.Shows().Park(park)
	if len(shows) == 0 {
		o.Printf("No shows are scheduled in %v.", park)
		return
	}
	on := map[string]bool{}
	for _, sh := range s.srv.Shows().Running(park, time.Now()) {
		on[sh.ID] = true
	}
	o.Printf("Shows of %v (%d):", park, len(shows))
	for _, sh := range shows {
		line := fmt.Sprintf("%v - %v (%v), %d min, warp %v", sh.Start, sh.Name, sh.ID, sh.Duration, sh.Warp)
		if on[sh.ID] {
			line += " (on now)"
		}
		o.Print(line)
	}
	if s.srv.Shows().Dirty(park) {
		o.Print("The schedule has staged changes not yet saved. Run /show update.")
	}
}
