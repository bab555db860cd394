package builtin

import (
	"errors"

	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/sign"
)

type signAddCommand struct {
	srv     parkAdapter
	Add     cmd.SubCommand            `cmd:"add"`
	Kind    signKindValue             `cmd:"kind"`
	X       int                       `cmd:"x"`
	Y       int                       `cmd:"y"`
	Z       int                       `cmd:"z"`
	Payload cmd.Optional[cmd.Varargs] `cmd:"payload"`
}

type signRemoveCommand struct {
	srv    parkAdapter
	Remove cmd.SubCommand `cmd:"remove"`
	ID     int            `cmd:"id"`
}

type signListCommand struct {
	srv  parkAdapter
	List cmd.SubCommand `cmd:"list"`
}

func newSignCommand(srv parkAdapter) cmd.Command {
	return cmd.New(
		"sign",
		"Manages the interactive signs of this park.",
		nil,
		signAddCommand{srv: srv},
		signRemoveCommand{srv: srv},
		signListCommand{srv: srv},
	)
}

// signKindValue exposes the sign kinds as an enum so command usage shows the
// accepted values.
type signKindValue string

func (signKindValue) Type() string { return "SignKind" }

func (signKindValue) Options(cmd.Source) []string { return sign.Kinds() }

func (v signKindValue) kind() sign.Kind {
	k, _ := sign.ParseKind(string(v))
	return k
}

// Run registers a sign at a block position. The payload names what the sign
// acts on: a warp, queue id, shop id or leaderboard ride. Adding a sign at an
// occupied position replaces the sign there.
func (s signAddCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, s.srv)
	kind := s.Kind.kind()
	payload := string(s.Payload.LoadOr(""))
	if kind != sign.Disposal && payload == "" {
		o.Errorf("A %v sign needs a payload.", kind)
		return
	}
	s.warnPayload(park, kind, payload, o)
	pos := [3]int{s.X, s.Y, s.Z}
	id, err := s.srv.Signs().Add(park, kind, pos, payload)
	if err != nil {
		o.Print("The sign was added, but saving it failed. Check the console.")
		return
	}
	o.Printf("Added %v sign %d at (%d, %d, %d).", kind, id, s.X, s.Y, s.Z)
}

// warnPayload checks that the payload of a new sign resolves, warning instead
// of failing so signs may be placed before what they point at.
func (s signAddCommand) warnPayload(park string, kind sign.Kind, payload string, o *cmd.Output) {
	switch kind {
	case sign.WarpSign:
		if _, ok := s.srv.Warps().ByName(payload); !ok {
			o.Printf("Warning: warp %q does not exist yet.", payload)
		}
	case sign.QueueSign:
		if _, ok := s.srv.Queues().ByID(payload); !ok {
			o.Printf("Warning: queue %q does not exist yet.", payload)
		}
	case sign.ShopSign:
		if _, ok := s.srv.Shops().ByID(park, payload); !ok {
			o.Printf("Warning: shop %q does not exist yet.", payload)
		}
	}
}

func (signAddCommand) Allow(src cmd.Source) bool { return staff(src) }

func (s signRemoveCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, s.srv)
	err := s.srv.Signs().Remove(park, s.ID)
	switch {
	case errors.Is(err, sign.ErrUnknownSign):
		o.Errorf("No sign %d exists in %v.", s.ID, park)
		return
	case err != nil:
		o.Print("The sign was removed, but saving the change failed. Check the console.")
		return
	}
	o.Printf("Removed sign %d.", s.ID)
}

func (signRemoveCommand) Allow(src cmd.Source) bool { return staff(src) }

func (s signListCommand) Run(src cmd.Source, o *cmd.Output) {
	park := currentPark(src, s.srv)
	signs := s.srv.Signs().Park(park)
	if len(signs) == 0 {
		o.Printf("No signs exist in %v.", park)
		return
	}
	o.Printf("Signs of %v (%d):", park, len(signs))
	for _, e := range signs {
		line := ""
		if e.Payload != "" {
			line = " - " + e.Payload
		}
		o.Printf("%d: %v at (%d, %d, %d)%v", e.ID, e.Kind, e.Pos[0], e.Pos[1], e.Pos[2], line)
	}
}

func (signListCommand) Allow(src cmd.Source) bool { return staff(src) }
