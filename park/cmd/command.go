// Package cmd implements the command system of a park node. Commands are
// registered globally and may be run by players and by the console. Each
// command consists of one or more Runnable variants whose exported struct
// fields describe the parameters of the variant.
package cmd

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Runnable is one variant of a command. Its exported struct fields are the
// parameters of the variant, parsed from the command line in the order they
// are declared in. Unexported fields are ignored by the parser and may hold
// the dependencies of the command.
type Runnable interface {
	// Run runs the variant with its parameter fields filled in. Output
	// written to o is sent to the source once the command finishes.
	Run(src Source, o *Output)
}

// Allower limits who may run a command variant. Variants that do not
// implement Allower may be run by any source.
type Allower interface {
	// Allow reports whether the source passed is allowed to run the variant.
	Allow(src Source) bool
}

// Command is a runnable command with a name, optional aliases and one or more
// variants. Commands are created with New and are safe to copy.
type Command struct {
	v           []reflect.Value
	name        string
	description string
	usage       string
	aliases     []string
}

// New returns a Command with the name and description passed that may be run
// with any of the Runnable variants. New panics if a variant is not a struct
// type or declares parameter fields the parser cannot handle.
func New(name, description string, aliases []string, r ...Runnable) Command {
	if name == "" {
		panic("cmd: command name must not be empty")
	}
	usages := make([]string, len(r))
	values := make([]reflect.Value, len(r))
	for i, runnable := range r {
		t := reflect.TypeOf(runnable)
		if t.Kind() != reflect.Struct {
			panic(fmt.Sprintf("cmd: runnable must be a struct, got %v", t.Kind()))
		}
		verifySignature(t)
		values[i] = reflect.ValueOf(runnable)
		usages[i] = usageOf(name, t)
	}
	return Command{name: name, description: description, aliases: aliases, v: values, usage: strings.Join(usages, "\n")}
}

// Name returns the name of the command.
func (cmd Command) Name() string {
	return cmd.name
}

// Description returns the description of the command.
func (cmd Command) Description() string {
	return cmd.description
}

// Usage returns the usage of the command, one line per variant.
func (cmd Command) Usage() string {
	return cmd.usage
}

// Aliases returns the aliases the command was registered with, not including
// its name.
func (cmd Command) Aliases() []string {
	return cmd.aliases
}

// Runnables returns the variants of the command that the source passed is
// allowed to run, indexed by their position.
func (cmd Command) Runnables(src Source) map[int]Runnable {
	m := make(map[int]Runnable, len(cmd.v))
	for i, v := range cmd.v {
		r := v.Interface().(Runnable)
		if a, ok := r.(Allower); !ok || a.Allow(src) {
			m[i] = r
		}
	}
	return m
}

// Execute parses the argument string passed against the variants of the
// command and runs the first variant that matches. If no variant matches, the
// error of the closest match is sent to the source.
func (cmd Command) Execute(args string, source Source) {
	if source == nil {
		panic("cmd: command execution must have a source")
	}
	output := &Output{}
	defer source.SendCommandOutput(output)

	var leastErroneous error
	leastArgsLeft := math.MaxInt
	for _, v := range cmd.v {
		cp := reflect.New(v.Type()).Elem()
		cp.Set(v)
		line := newLine(args)
		err := cmd.executeRunnable(cp, line, source, output)
		if err == nil {
			return
		}
		if line.Len() < leastArgsLeft {
			leastErroneous, leastArgsLeft = err, line.Len()
		}
	}
	if leastErroneous == nil {
		leastErroneous = errors.New(MessageUsage.Resolve(cmd.usage))
	}
	output.Error(leastErroneous)
}

// executeRunnable parses line into the parameter fields of v and, if the
// whole line matched, runs the variant. Errors returned describe why the
// variant did not match and are only shown if no other variant matched
// either.
func (cmd Command) executeRunnable(v reflect.Value, line *line, source Source, output *Output) error {
	if a, ok := v.Interface().(Allower); ok && !a.Allow(source) {
		return errors.New(MessageNoPermission.Resolve())
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if err := cmd.parseField(line, v.Field(i), field, source); err != nil {
			return err
		}
	}
	if line.Len() != 0 {
		return errors.New(MessageUsage.Resolve(cmd.usage))
	}
	v.Interface().(Runnable).Run(source, output)
	return nil
}

// parseField parses one parameter field. Optional parameters left out of the
// line keep their zero value.
func (cmd Command) parseField(line *line, v reflect.Value, field reflect.StructField, source Source) error {
	if opt, ok := v.Interface().(optionalT); ok {
		if line.Len() == 0 {
			return nil
		}
		inner := reflect.New(opt.underlying()).Elem()
		if err := cmd.parseValue(line, inner, paramName(field), source); err != nil {
			return err
		}
		v.Set(reflect.ValueOf(opt.with(inner.Interface())))
		return nil
	}
	return cmd.parseValue(line, v, paramName(field), source)
}

func (cmd Command) parseValue(line *line, v reflect.Value, name string, source Source) error {
	i := v.Interface()
	switch i.(type) {
	case SubCommand:
		arg, ok := line.Next()
		if !ok || !strings.EqualFold(arg, name) {
			return errors.New(MessageUsage.Resolve(cmd.usage))
		}
		return nil
	case Varargs:
		rest := line.Rest()
		if len(rest) == 0 {
			return errors.New(MessageUsage.Resolve(cmd.usage))
		}
		v.SetString(strings.Join(rest, " "))
		return nil
	}
	if e, ok := i.(Enum); ok {
		arg, ok := line.Next()
		if !ok {
			return errors.New(MessageUsage.Resolve(cmd.usage))
		}
		for _, option := range e.Options(source) {
			if strings.EqualFold(option, arg) {
				v.SetString(option)
				return nil
			}
		}
		return errors.New(MessageParameterInvalid.Resolve(arg))
	}

	arg, ok := line.Next()
	if !ok {
		return errors.New(MessageUsage.Resolve(cmd.usage))
	}
	switch v.Kind() {
	case reflect.String:
		v.SetString(arg)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return errors.New(MessageNumberInvalid.Resolve(arg))
		}
		v.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return errors.New(MessageNumberInvalid.Resolve(arg))
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(arg)
		if err != nil {
			return errors.New(MessageParameterInvalid.Resolve(arg))
		}
		v.SetBool(b)
	default:
		panic(fmt.Sprintf("cmd: unsupported parameter type %v", v.Type()))
	}
	return nil
}

// verifySignature panics if the parameter fields of a Runnable type cannot be
// parsed: parameters must have supported types, optional parameters must come
// last and nothing may follow a varargs parameter.
func verifySignature(t reflect.Type) {
	seenOptional, seenVarargs := false, false
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if seenVarargs {
			panic(fmt.Sprintf("cmd: %v: no parameters may follow a varargs parameter", t))
		}
		ft := field.Type
		if opt, ok := reflect.New(ft).Elem().Interface().(optionalT); ok {
			seenOptional = true
			ft = opt.underlying()
		} else if seenOptional {
			panic(fmt.Sprintf("cmd: %v: required parameter %v follows an optional parameter", t, field.Name))
		}
		if !validParam(ft) {
			panic(fmt.Sprintf("cmd: %v: unsupported parameter type %v for field %v", t, ft, field.Name))
		}
		if ft == reflect.TypeOf(Varargs("")) {
			seenVarargs = true
		}
	}
}

func validParam(t reflect.Type) bool {
	if t == reflect.TypeOf(SubCommand{}) || t == reflect.TypeOf(Varargs("")) {
		return true
	}
	if t.Implements(reflect.TypeOf((*Enum)(nil)).Elem()) {
		return t.Kind() == reflect.String
	}
	switch t.Kind() {
	case reflect.String, reflect.Int, reflect.Int64, reflect.Float64, reflect.Bool:
		return true
	}
	return false
}

// usageOf builds the usage line of one variant: subcommands appear as their
// literal name, required parameters as <name: type> and optional parameters
// as [name: type].
func usageOf(name string, t reflect.Type) string {
	parts := []string{"/" + name}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		parts = append(parts, usageOfParam(field))
	}
	return strings.Join(parts, " ")
}

func usageOfParam(field reflect.StructField) string {
	ft, optional := field.Type, false
	if opt, ok := reflect.New(ft).Elem().Interface().(optionalT); ok {
		optional, ft = true, opt.underlying()
	}
	name := paramName(field)
	if ft == reflect.TypeOf(SubCommand{}) {
		return name
	}
	if optional {
		return "[" + name + ": " + paramKind(ft) + "]"
	}
	return "<" + name + ": " + paramKind(ft) + ">"
}

func paramKind(t reflect.Type) string {
	if t == reflect.TypeOf(Varargs("")) {
		return "text"
	}
	if e, ok := reflect.New(t).Elem().Interface().(Enum); ok {
		return e.Type()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int64:
		return "int"
	case reflect.Float64:
		return "float"
	case reflect.Bool:
		return "bool"
	default:
		return "string"
	}
}

// paramName returns the name of a parameter field: the value of its cmd tag
// if present, the lowercased field name otherwise.
func paramName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("cmd"); ok {
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			return name
		}
	}
	return strings.ToLower(field.Name)
}

// line holds the arguments of a command line while they are consumed.
type line struct {
	args []string
}

func newLine(args string) *line {
	split := strings.Split(args, " ")
	filtered := split[:0]
	for _, arg := range split {
		if arg != "" {
			filtered = append(filtered, arg)
		}
	}
	return &line{args: filtered}
}

// Next consumes and returns the next argument.
func (l *line) Next() (string, bool) {
	if len(l.args) == 0 {
		return "", false
	}
	arg := l.args[0]
	l.args = l.args[1:]
	return arg, true
}

// Rest consumes and returns all remaining arguments.
func (l *line) Rest() []string {
	rest := l.args
	l.args = nil
	return rest
}

// Len returns the amount of arguments left.
func (l *line) Len() int {
	return len(l.args)
}
