package console

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/sparkparks/parkmanager/park"
	"github.com/sparkparks/parkmanager/park/cmd"
)

type echoCommand struct {
	sink    *[]string
	Message cmd.Varargs
}

func (c echoCommand) Run(_ cmd.Source, o *cmd.Output) {
	*c.sink = append(*c.sink, string(c.Message))
	o.Print("echoed")
}

func TestConsoleRun(t *testing.T) {
	conf := park.Config{
		Log:     slog.New(slog.DiscardHandler),
		Name:    "castle1",
		Parks:   []string{"castle"},
		DataDir: t.TempDir(),
	}
	p := conf.New()
	t.Cleanup(func() { _ = p.Close() })

	var lines []string
	cmd.Register(cmd.New("consoleecho", "Echoes console input.", nil, echoCommand{sink: &lines}))

	// Blank lines are skipped and a missing slash is added. Run returns once
	// the reader is exhausted.
	input := "consoleecho plain line\n\n/consoleecho slashed line\n"
	New(p, slog.New(slog.DiscardHandler)).WithReader(strings.NewReader(input)).Run(context.Background())

	if want := []string{"plain line", "slashed line"}; !slices.Equal(lines, want) {
		t.Fatalf("echoed lines: got %v, want %v", lines, want)
	}
}
