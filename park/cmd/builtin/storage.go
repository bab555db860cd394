package builtin

import (
	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/player"
	"github.com/sparkparks/parkmanager/park/storage"
)

type storageViewCommand struct {
	srv    parkAdapter
	View   cmd.SubCommand       `cmd:"view"`
	Player cmd.Optional[string] `cmd:"player"`
}

type storageUpgradeCommand struct {
	srv     parkAdapter
	Upgrade cmd.SubCommand `cmd:"upgrade"`
	Player  string         `cmd:"player"`
	Bucket  bucketValue    `cmd:"bucket"`
}

func newStorageCommand(srv parkAdapter) cmd.Command {
	return cmd.New(
		"storage",
		"Shows and upgrades player storage.",
		nil,
		storageViewCommand{srv: srv},
		storageUpgradeCommand{srv: srv},
	)
}

// bucketValue exposes the storage bucket names as an enum so command usage
// shows the accepted values.
type bucketValue string

func (bucketValue) Type() string { return "Bucket" }

func (bucketValue) Options(cmd.Source) []string { return storage.BucketNames() }

// Run summarises the storage of a player: the invoking player when no name is
// passed.
func (s storageViewCommand) Run(src cmd.Source, o *cmd.Output) {
	name, named := s.Player.Load()
	pl, isPlayer := src.(*player.Player)
	if named {
		if !staff(src) {
			o.Error("Only staff can view the storage of another player.")
			return
		}
		if pl, isPlayer = target(s.srv, name, o); !isPlayer {
			return
		}
	} else if !isPlayer {
		o.Error("Pass the player whose storage to view.")
		return
	}
	rec := pl.Record()
	o.Printf("Storage of %v:", pl.Name())
	for _, bucket := range storage.BucketNames() {
		b, _ := rec.Bucket(bucket)
		o.Printf("%v: %v, %d/%d slots used", bucket, b.Size, len(b.Items), b.Size.Slots())
	}
	if outfit, ok := s.srv.Outfits().ByID(rec.Equipped); ok {
		o.Printf("Wearing %v.", outfit.Name)
	}
}

// Run grows a storage bucket of an online player to the large size. Upgrades
// are granted by staff, typically as a redeemed reward.
func (s storageUpgradeCommand) Run(_ cmd.Source, o *cmd.Output) {
	pl, ok := target(s.srv, s.Player, o)
	if !ok {
		return
	}
	b, _ := pl.Record().Bucket(string(s.Bucket))
	if b.Size == storage.Large {
		o.Errorf("The %v of %v is already large.", string(s.Bucket), pl.Name())
		return
	}
	b.Size = storage.Large
	s.srv.SaveRecord(pl)
	pl.Messagef("Your %v was upgraded to %d rows!", string(s.Bucket), storage.Large.Rows())
	o.Printf("Upgraded the %v of %v to %d rows.", string(s.Bucket), pl.Name(), storage.Large.Rows())
}

func (storageUpgradeCommand) Allow(src cmd.Source) bool { return staff(src) }
