package builtin

import (
	"github.com/sparkparks/parkmanager/park/cmd"
	"github.com/sparkparks/parkmanager/park/economy"
	"github.com/sparkparks/parkmanager/park/player"
)

type namedSource interface {
	Name() string
}

// sourceName returns a user facing name for the source invoking a command.
func sourceName(src cmd.Source) string {
	if n, ok := src.(namedSource); ok {
		return n.Name()
	}
	return "Server"
}

// staff reports whether the source may run staff commands: players only when
// flagged as staff, every other source always.
func staff(src cmd.Source) bool {
	if p, ok := src.(*player.Player); ok {
		return p.Staff()
	}
	return true
}

// currentPark resolves the park a command acts on: the park of the source, or
// the node's first park for the console.
func currentPark(src cmd.Source, a parkAdapter) string {
	if park := src.Park(); park != "" {
		return park
	}
	if parks := a.Parks(); len(parks) > 0 {
		return parks[0]
	}
	return ""
}

// infra tells the source that an operation failed for reasons outside its
// control. The details are already in the log.
func infra(o *cmd.Output) {
	o.Error("Something went wrong, please check the console.")
}

// currencyValue exposes the currency kinds as an enum so command usage shows
// the accepted values.
type currencyValue string

func (currencyValue) Type() string { return "Currency" }

func (currencyValue) Options(cmd.Source) []string {
	return []string{"balance", "tokens"}
}

// kind parses a currencyValue into an economy.Kind. The enum parser only
// accepts the listed options, so parsing cannot fail.
func (c currencyValue) kind() economy.Kind {
	k, _ := economy.ParseKind(string(c))
	return k
}
