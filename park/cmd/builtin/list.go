package builtin

import (
	"slices"
	"strings"

	"github.com/sparkparks/parkmanager/park/cmd"
)

type listCommand struct {
	srv parkAdapter
}

func newListCommand(srv parkAdapter) cmd.Command {
	return cmd.New("list", "Lists players currently online.", []string{"players"}, listCommand{srv: srv})
}

func (l listCommand) Run(_ cmd.Source, o *cmd.Output) {
	names := make([]string, 0)
	for p := range l.srv.Players() {
		names = append(names, p.Name())
	}
	slices.Sort(names)

	o.Printf("There are %d players online.", len(names))
	if len(names) != 0 {
		o.Print(strings.Join(names, ", "))
	}
}
