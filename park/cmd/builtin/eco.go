package builtin

import (
	"context"
	"errors"

	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/economy"
	"github.com/sparkparks/parkmanager/park/player"
)

type ecoBalanceCommand struct {
	srv     parkAdapter
	Balance cmd.SubCommand       `cmd:"balance"`
	Player  cmd.Optional[string] `cmd:"player"`
}

type ecoGiveCommand struct {
	srv      parkAdapter
	Give     cmd.SubCommand `cmd:"give"`
	Player   string         `cmd:"player"`
	Currency currencyValue  `cmd:"currency"`
	Amount   int64          `cmd:"amount"`
}

type ecoTakeCommand struct {
	srv      parkAdapter
	Take     cmd.SubCommand `cmd:"take"`
	Player   string         `cmd:"player"`
	Currency currencyValue  `cmd:"currency"`
	Amount   int64          `cmd:"amount"`
}

type ecoSetCommand struct {
	srv      parkAdapter
	Set      cmd.SubCommand `cmd:"set"`
	Player   string         `cmd:"player"`
	Currency currencyValue  `cmd:"currency"`
	Amount   int64          `cmd:"amount"`
}

func newEcoCommand(srv parkAdapter) cmd.Command {
	return cmd.New(
		"eco",
		"Reads and adjusts player currency.",
		[]string{"economy"},
		ecoBalanceCommand{srv: srv},
		ecoGiveCommand{srv: srv},
		ecoTakeCommand{srv: srv},
		ecoSetCommand{srv: srv},
	)
}

// target resolves the player a currency command acts on. Ledger accounts are
// keyed by UUID, so the player must be online for its name to resolve.
func target(srv parkAdapter, name string, o *cmd.Output) (*player.Player, bool) {
	pl, ok := srv.PlayerByName(name)
	if !ok {
		o.Errorf("%v is not online.", name)
	}
	return pl, ok
}

// Run shows the balances of a player: the invoking player when no name is
// passed.
func (e ecoBalanceCommand) Run(src cmd.Source, o *cmd.Output) {
	name, named := e.Player.Load()
	pl, isPlayer := src.(*player.Player)
	if named {
		if !staff(src) {
			o.Error("Only staff can read the balance of another player.")
			return
		}
		if pl, isPlayer = target(e.srv, name, o); !isPlayer {
			return
		}
	} else if !isPlayer {
		o.Error("Pass the player whose balance to read.")
		return
	}
	bal, err := e.srv.Ledger().Balance(context.Background(), pl.UUID(), economy.Balance)
	if err != nil {
		infra(o)
		return
	}
	tok, err := e.srv.Ledger().Balance(context.Background(), pl.UUID(), economy.Tokens)
	if err != nil {
		infra(o)
		return
	}
	o.Printf("%v has %v and %v.", pl.Name(), economy.Balance.Format(bal), economy.Tokens.Format(tok))
}

func (e ecoGiveCommand) Run(_ cmd.Source, o *cmd.Output) {
	pl, ok := target(e.srv, e.Player, o)
	if !ok {
		return
	}
	kind := e.Currency.kind()
	if err := e.srv.Ledger().Deposit(context.Background(), pl.UUID(), kind, e.Amount); err != nil {
		if errors.Is(err, economy.ErrNegativeAmount) {
			o.Error("The amount must not be negative.")
			return
		}
		infra(o)
		return
	}
	pl.Messagef("You received %v!", kind.Format(e.Amount))
	o.Printf("Gave %v to %v.", kind.Format(e.Amount), pl.Name())
}

func (ecoGiveCommand) Allow(src cmd.Source) bool { return staff(src) }

func (e ecoTakeCommand) Run(_ cmd.Source, o *cmd.Output) {
	pl, ok := target(e.srv, e.Player, o)
	if !ok {
		return
	}
	kind := e.Currency.kind()
	err := e.srv.Ledger().Withdraw(context.Background(), pl.UUID(), kind, e.Amount)
	switch {
	case errors.Is(err, economy.ErrNegativeAmount):
		o.Error("The amount must not be negative.")
		return
	case errors.Is(err, economy.ErrInsufficient):
		o.Errorf("%v does not have %v.", pl.Name(), kind.Format(e.Amount))
		return
	case err != nil:
		infra(o)
		return
	}
	o.Printf("Took %v from %v.", kind.Format(e.Amount), pl.Name())
}

func (ecoTakeCommand) Allow(src cmd.Source) bool { return staff(src) }

func (e ecoSetCommand) Run(_ cmd.Source, o *cmd.Output) {
	pl, ok := target(e.srv, e.Player, o)
	if !ok {
		return
	}
	kind := e.Currency.kind()
	if err := e.srv.Ledger().Set(context.Background(), pl.UUID(), kind, e.Amount); err != nil {
		if errors.Is(err, economy.ErrNegativeAmount) {
			o.Error("The amount must not be negative.")
			return
		}
		infra(o)
		return
	}
	o.Printf("Set the %v of %v to %v.", kind, pl.Name(), kind.Format(e.Amount))
}

func (ecoSetCommand) Allow(src cmd.Source) bool { return staff(src) }
