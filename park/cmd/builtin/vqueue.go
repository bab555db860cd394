package builtin

import (
	"errors"
	"fmt"
	"time"

	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/player"
	"github.com/sparkparks/parkmanager/park/vqueue"
)

type queueCreateCommand struct {
	srv    parkAdapter
	Create cmd.SubCommand `cmd:"create"`
	ID     string         `cmd:"id"`
	Warp   string         `cmd:"warp"`
	Name   cmd.Varargs    `cmd:"name"`
}

type queueOpenCommand struct {
	srv  parkAdapter
	Open cmd.SubCommand `cmd:"open"`
	ID   string         `cmd:"id"`
}

type queueCloseCommand struct {
	srv   parkAdapter
	Close cmd.SubCommand `cmd:"close"`
	ID    string         `cmd:"id"`
}

type queueAdvanceCommand struct {
	srv     parkAdapter
	Advance cmd.SubCommand `cmd:"advance"`
	ID      string         `cmd:"id"`
}

type queueListCommand struct {
	srv  parkAdapter
	List cmd.SubCommand `cmd:"list"`
}

type queueRemoveCommand struct {
	srv    parkAdapter
	Remove cmd.SubCommand `cmd:"remove"`
	ID     string         `cmd:"id"`
}

type queueAnnounceCommand struct {
	srv      parkAdapter
	Announce cmd.SubCommand `cmd:"announce"`
	ID       string         `cmd:"id"`
}

type queuePlaceCommand struct {
	srv    parkAdapter
	Place  cmd.SubCommand `cmd:"place"`
	ID     string         `cmd:"id"`
	Player string         `cmd:"player"`
}

type queueLeaveCommand struct {
	srv   parkAdapter
	Leave cmd.SubCommand `cmd:"leave"`
	ID    string         `cmd:"id"`
}

func newQueueCommand(srv parkAdapter) cmd.Command {
	return cmd.New(
		"vqueue",
		"Manages the virtual ride queues of this park.",
		[]string{"vq"},
		queueCreateCommand{srv: srv},
		queueOpenCommand{srv: srv},
		queueCloseCommand{srv: srv},
		queueAdvanceCommand{srv: srv},
		queueListCommand{srv: srv},
		queueRemoveCommand{srv: srv},
		queueAnnounceCommand{srv: srv},
		queuePlaceCommand{srv: srv},
		queueLeaveCommand{srv: srv},
	)
}

// Run creates a queue hosted by this node. Queues are created on the node
// that runs their ride; mirrors on the other nodes appear once their
// definition files are synced.
func (v queueCreateCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, v.srv)
	q, err := v.srv.Queues().Create(v.ID, string(v.Name), park, v.srv.Node(), v.Warp)
	if errors.Is(err, vqueue.ErrQueueExists) {
		o.Errorf("A queue with id %q already exists.", v.ID)
		return
	}
	if _, ok := v.srv.Warps().ByName(v.Warp); !ok {
		o.Printf("Warning: warp %q does not exist yet. Set it before opening the queue.", v.Warp)
	}
	if err != nil {
		o.Print("The queue was created, but saving its definition failed. Check the console.")
		return
	}
	o.Printf("Created queue %v (%v) in %v, closed.", q.Name(), q.ID(), park)
}

func (queueCreateCommand) Allow(src cmd.Source) bool { return staff(src) }

func (v queueOpenCommand) Run(_ cmd.Source, o *cmd.Output) {
	q, err := v.srv.Queues().Open(v.ID)
	switch {
	case errors.Is(err, vqueue.ErrUnknownQueue):
		o.Errorf("No queue %q exists.", v.ID)
		return
	case errors.Is(err, vqueue.ErrNotHost):
		o.Errorf("%v is hosted by %v and must be opened there.", q.Name(), q.Host())
		return
	case errors.Is(err, vqueue.ErrAlreadyOpen):
		o.Errorf("%v is already open.", q.Name())
		return
	}
	if berr := v.srv.BroadcastQueue(q); berr != nil {
		o.Print("The queue opened, but the other servers could not be notified.")
	}
	_ = v.srv.Announce(q.Park(), fmt.Sprintf("The line for %v is now open!", q.Name()))
	o.Printf("Opened the queue for %v.", q.Name())
}

func (queueOpenCommand) Allow(src cmd.Source) bool { return staff(src) }

func (v queueCloseCommand) Run(_ cmd.Source, o *cmd.Output) {
	q, err := v.srv.Queues().Close(v.ID)
	switch {
	case errors.Is(err, vqueue.ErrUnknownQueue):
		o.Errorf("No queue %q exists.", v.ID)
		return
	case errors.Is(err, vqueue.ErrNotHost):
		o.Errorf("%v is hosted by %v and must be closed there.", q.Name(), q.Host())
		return
	case errors.Is(err, vqueue.ErrAlreadyClosed):
		o.Errorf("%v is already closed.", q.Name())
		return
	}
	if berr := v.srv.BroadcastQueue(q); berr != nil {
		o.Print("The queue closed, but the other servers could not be notified.")
	}
	if q.Len() > 0 {
		o.Printf("Closed the queue for %v. The %d riders in line will still be admitted.", q.Name(), q.Len())
		return
	}
	o.Printf("Closed the queue for %v.", q.Name())
}

func (queueCloseCommand) Allow(src cmd.Source) bool { return staff(src) }

// Run admits the next rider in line. A closed queue still drains: closing
// only stops new joins.
func (v queueAdvanceCommand) Run(_ cmd.Source, o *cmd.Output) {
	q, member, left, err := v.srv.Queues().Advance(v.ID, time.Now())
	switch {
	case errors.Is(err, vqueue.ErrUnknownQueue):
		o.Errorf("No queue %q exists.", v.ID)
		return
	case errors.Is(err, vqueue.ErrNotHost):
		o.Errorf("%v is hosted by %v and must be advanced there.", q.Name(), q.Host())
		return
	case errors.Is(err, vqueue.ErrCooldown):
		o.Errorf("%v just admitted a rider. Try again in a few seconds.", q.Name())
		return
	case errors.Is(err, vqueue.ErrEmpty):
		o.Printf("Nobody is in line for %v right now.", q.Name())
		return
	}
	if aerr := v.srv.Admit(q, member); aerr != nil {
		o.Errorf("The next rider could not be admitted: %v", aerr)
		return
	}
	o.Printf("Admitted the next rider to %v. %d still in line.", q.Name(), left)
}

func (queueAdvanceCommand) Allow(src cmd.Source) bool { return staff(src) }

func (v queueListCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, v.srv)
	queues := v.srv.Queues().Park(park)
	if len(queues) == 0 {
		o.Printf("No queues exist in %v.", park)
		return
	}
	o.Printf("Queues of %v (%d):", park, len(queues))
	for _, q := range queues {
		state := "closed"
		if q.Open() {
			state = "open"
		}
		o.Printf("%v (%v) - %v, %d in line, hosted by %v", q.Name(), q.ID(), state, q.Len(), q.Host())
	}
}

func (queueListCommand) Allow(src cmd.Source) bool { return staff(src) }

func (v queueRemoveCommand) Run(_ cmd.Source, o *cmd.Output) {
	err := v.srv.Queues().Remove(v.ID)
	switch {
	case errors.Is(err, vqueue.ErrUnknownQueue):
		o.Errorf("No queue %q exists.", v.ID)
		return
	case errors.Is(err, vqueue.ErrNotHost):
		o.Error("That queue is hosted by another server and must be removed there.")
		return
	case errors.Is(err, vqueue.ErrStillOpen):
		o.Error("Close the queue before removing it.")
		return
	case err != nil:
		o.Print("The queue was removed, but saving the change failed. Check the console.")
		return
	}
	o.Printf("Removed queue %q.", v.ID)
}

func (queueRemoveCommand) Allow(src cmd.Source) bool { return staff(src) }

func (v queueAnnounceCommand) Run(_ cmd.Source, o *cmd.Output) {
	q, ok := v.srv.Queues().ByID(v.ID)
	if !ok {
		o.Errorf("No queue %q exists.", v.ID)
		return
	}
	text := fmt.Sprintf("The line for %v is closed right now.", q.Name())
	switch {
	case q.Open() && q.Len() == 0:
		text = fmt.Sprintf("There is no wait for %v right now. Jump in!", q.Name())
	case q.Open():
		text = fmt.Sprintf("%d riders are in line for %v. Jump in!", q.Len(), q.Name())
	}
	if err := v.srv.Announce(q.Park(), text); err != nil {
		infra(o)
		return
	}
	o.Print("Announcement sent.")
}

func (queueAnnounceCommand) Allow(src cmd.Source) bool { return staff(src) }

// Run puts a named online player in line, for cast members running a ride
// with guests who cannot reach the sign.
func (v queuePlaceCommand) Run(_ cmd.Source, o *cmd.Output) {
	pl, ok := v.srv.PlayerByName(v.Player)
	if !ok {
		o.Errorf("%v is not online.", v.Player)
		return
	}
	q, pos, err := v.srv.Queues().Join(v.ID, pl.UUID())
	switch {
	case errors.Is(err, vqueue.ErrUnknownQueue):
		o.Errorf("No queue %q exists.", v.ID)
		return
	case errors.Is(err, vqueue.ErrNotHost):
		o.Errorf("%v is hosted by %v; place riders there.", q.Name(), q.Host())
		return
	case errors.Is(err, vqueue.ErrClosed):
		o.Errorf("%v is closed right now.", q.Name())
		return
	case errors.Is(err, vqueue.ErrQueued):
		o.Errorf("%v is already in line for %v.", pl.Name(), q.Name())
		return
	}
	pl.Messagef("A cast member placed you in line for %v! You are number %d.", q.Name(), pos)
	o.Printf("Placed %v in line for %v at number %d.", pl.Name(), q.Name(), pos)
}

func (queuePlaceCommand) Allow(src cmd.Source) bool { return staff(src) }

func (v queueLeaveCommand) Run(src cmd.Source, o *cmd.Output) {
	pl, ok := src.(*player.Player)
	if !ok {
		o.Error("Only players can leave a queue.")
		return
	}
	q, err := v.srv.Queues().Leave(v.ID, pl.UUID())
	switch {
	case errors.Is(err, vqueue.ErrUnknownQueue):
		o.Errorf("No queue %q exists.", v.ID)
		return
	case errors.Is(err, vqueue.ErrNotHost):
		o.Errorf("%v is hosted by %v. You can leave the line there.", q.Name(), q.Host())
		return
	case errors.Is(err, vqueue.ErrNotQueued):
		o.Errorf("You are not in line for %v.", q.Name())
		return
	}
	o.Printf("You left the line for %v.", q.Name())
}
