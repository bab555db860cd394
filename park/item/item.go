// Package item defines the item stacks handed out by shops, food locations and
// player storage. Items are identified by name only: the host integration maps
// names to whatever its inventory representation is.
package item

import "fmt"

// Stack is a quantity of a single named item, optionally carrying a custom
// display name.
type Stack struct {
	Name    string `json:"name"`
	Display string `json:"display,omitempty"`
	Count   int    `json:"count"`
}

// New returns a Stack of count items with the name passed.
func New(name string, count int) Stack {
	return Stack{Name: name, Count: count}
}

// WithDisplay returns a copy of the stack with the display name set.
func (s Stack) WithDisplay(display string) Stack {
	s.Display = display
	return s
}

// Empty reports whether the stack holds no items.
func (s Stack) Empty() bool {
	return s.Name == "" || s.Count <= 0
}

// Label returns the display name of the stack, falling back to the item name.
func (s Stack) Label() string {
	if s.Display != "" {
		return s.Display
	}
	return s.Name
}

// String formats the stack for chat output, such as "3x Golden Churro".
func (s Stack) String() string {
	return fmt.Sprintf("%dx %v", s.Count, s.Label())
}
