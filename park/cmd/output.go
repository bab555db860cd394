package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sparkparks/parkmanager/park/chat"
)

// Output holds the output of a command execution. It holds messages and
// errors, both of which are sent to the source of the command once it
// finishes running.
type Output struct {
	errors   []error
	messages []fmt.Stringer
}

// Errorf formats an error message and adds it to the command output.
func (o *Output) Errorf(format string, a ...any) {
	o.errors = append(o.errors, fmt.Errorf(format, a...))
}

// Error adds an error to the command output. If a single error value is
// passed, it is added as is, so callers may inspect it afterwards.
func (o *Output) Error(a ...any) {
	if len(a) == 1 {
		if err, ok := a[0].(error); ok {
			o.errors = append(o.errors, err)
			return
		}
	}
	o.errors = append(o.errors, errors.New(format(a)))
}

// Errort resolves a translation with the arguments passed and adds it as an
// error to the command output.
func (o *Output) Errort(t chat.Translation, a ...any) {
	o.errors = append(o.errors, errors.New(t.Resolve(a...)))
}

// Printf formats a message and adds it to the command output.
func (o *Output) Printf(format string, a ...any) {
	o.messages = append(o.messages, text(fmt.Sprintf(format, a...)))
}

// Print adds a message to the command output.
func (o *Output) Print(a ...any) {
	o.messages = append(o.messages, text(format(a)))
}

// Printt resolves a translation with the arguments passed and adds it as a
// message to the command output.
func (o *Output) Printt(t chat.Translation, a ...any) {
	o.messages = append(o.messages, text(t.Resolve(a...)))
}

// Errors returns the errors added to the command output.
func (o *Output) Errors() []error {
	return o.errors
}

// ErrorCount returns the amount of errors added to the command output.
func (o *Output) ErrorCount() int {
	return len(o.errors)
}

// Messages returns the messages added to the command output.
func (o *Output) Messages() []fmt.Stringer {
	return o.messages
}

// MessageCount returns the amount of messages added to the command output.
func (o *Output) MessageCount() int {
	return len(o.messages)
}

type text string

// String ...
func (t text) String() string {
	return string(t)
}

func format(a []any) string {
	return strings.TrimSuffix(fmt.Sprintln(a...), "\n")
}

var (
	// MessageUnknown is sent when a command line names a command that does
	// not exist or that the source may not see.
	MessageUnknown = chat.Register("commands.generic.unknown", `Unknown command: "%v". Please check that the command exists and that you have permission to use it.`)
	// MessageUsage is sent when a command line does not match any of the
	// usages of the command.
	MessageUsage = chat.Register("commands.generic.usage", `Usage: %v`)
	// MessageNoPermission is sent when the source is not allowed to run any
	// variant of the command.
	MessageNoPermission = chat.Register("commands.generic.nopermission", `You do not have permission to use this command.`)
	// MessageNumberInvalid is sent when an argument does not parse as the
	// number the command expects.
	MessageNumberInvalid = chat.Register("commands.generic.num.invalid", `'%v' is not a valid number`)
	// MessageParameterInvalid is sent when an argument does not match any of
	// the values the parameter accepts.
	MessageParameterInvalid = chat.Register("commands.generic.parameter.invalid", `'%v' is not a valid parameter`)
)
