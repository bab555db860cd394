package builtin

import (
	"github.com/sparkparks/parkmanager/park/chat"
	"github.com/sparkparks/parkmanager/park/cmd"
)

type sayCommand struct {
	Message cmd.Varargs `cmd:"message"`
}

func newSayCommand() cmd.Command {
	return cmd.New("say", "Broadcasts a message to everyone on this server.", nil, sayCommand{})
}

func (s sayCommand) Run(src cmd.Source, o *cmd.Output) {
	chat.Global.Writef("[%v] %v", sourceName(src), string(s.Message))
}

func (sayCommand) Allow(src cmd.Source) bool {
	return staff(src)
}
