package cmd

import "reflect"

// Varargs is a parameter type that captures all arguments that follow as one
// string, useful for messages and other free text.
type Varargs string

// SubCommand is a parameter that must be written literally as the name of its
// field. Passing multiple Runnable values to New with different SubCommand
// fields at the front creates a command with distinct subcommands.
type SubCommand struct{}

// Enum is a parameter type limited to a fixed set of options. Types
// implementing Enum must have string as their underlying type.
type Enum interface {
	// Type returns the name of the enum type shown in usage strings.
	Type() string
	// Options returns the values the parameter accepts. The options may
	// depend on the source the command is run by.
	Options(source Source) []string
}

// Optional is a parameter that may be left out of the command line. Fields
// with an Optional type must come after all required fields.
type Optional[T any] struct {
	val T
	set bool
}

// Load returns the value passed for the parameter and whether one was passed
// at all.
func (o Optional[T]) Load() (T, bool) {
	return o.val, o.set
}

// LoadOr returns the value passed for the parameter, or the value passed to
// LoadOr if the parameter was left out.
func (o Optional[T]) LoadOr(or T) T {
	if o.set {
		return o.val
	}
	return or
}

// with returns an Optional holding val, marked as set.
func (o Optional[T]) with(val any) any {
	return Optional[T]{val: val.(T), set: true}
}

// underlying returns the type of the value the Optional holds.
func (o Optional[T]) underlying() reflect.Type {
	return reflect.TypeOf(o.val)
}

// optionalT is implemented by Optional regardless of its type parameter.
type optionalT interface {
	with(val any) any
	underlying() reflect.Type
}
