// Package menu implements the chat menus shown to players: option lists for
// browsing shops and two-button confirmation prompts for purchases.
package menu

import "github.com/google/uuid"

// Option is a single selectable entry of a Menu. Run is invoked when the
// viewer selects the option. Options run on the node's transaction loop.
type Option struct {
	Label string
	Run   func()
}

// Menu is a list of options presented to a player, with an optional body shown
// above them.
type Menu struct {
	Title   string
	Body    string
	Options []Option
}

// New returns a menu with the title and options passed.
func New(title string, opts ...Option) Menu {
	return Menu{Title: title, Options: opts}
}

// Confirm returns a two-option confirmation menu. The accept function runs when
// the viewer confirms, decline when the viewer declines.
func Confirm(title, body string, accept, decline func()) Menu {
	return Menu{
		Title: title,
		Body:  body,
		Options: []Option{
			{Label: "Confirm", Run: accept},
			{Label: "Decline", Run: decline},
		},
	}
}

// Viewer is the receiving end of a menu, implemented by players.
type Viewer interface {
	UUID() uuid.UUID
	ShowMenu(m Menu)
	CloseMenu()
}

// Tracker keeps the menu each viewer currently has open, so that at most one
// menu is active per viewer and stale selections are discarded. It is owned by
// the node's transaction loop.
type Tracker struct {
	active map[uuid.UUID]activeMenu
}

type activeMenu struct {
	m Menu
	v Viewer
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{active: map[uuid.UUID]activeMenu{}}
}

// Open shows the menu to the viewer, replacing any menu it had open before.
func (t *Tracker) Open(v Viewer, m Menu) {
	t.active[v.UUID()] = activeMenu{m: m, v: v}
	v.ShowMenu(m)
}

// Active returns the menu currently open for the viewer with the UUID passed.
func (t *Tracker) Active(id uuid.UUID) (Menu, bool) {
	a, ok := t.active[id]
	return a.m, ok
}

// Submit runs the option at index of the menu the viewer has open. The menu is
// consumed before the option runs, so an option may open a follow-up menu.
// Submit returns false for stale selections: no menu open or index out of
// range.
func (t *Tracker) Submit(id uuid.UUID, index int) bool {
	a, ok := t.active[id]
	if !ok || index < 0 || index >= len(a.m.Options) {
		return false
	}
	delete(t.active, id)
	if run := a.m.Options[index].Run; run != nil {
		run()
	}
	return true
}

// Close dismisses the menu the viewer has open, if any.
func (t *Tracker) Close(id uuid.UUID) {
	a, ok := t.active[id]
	if !ok {
		return
	}
	delete(t.active, id)
	a.v.CloseMenu()
}

// Drop discards the menu the viewer has open without dismissing it on the
// viewer's side, for viewers that already disconnected.
func (t *Tracker) Drop(id uuid.UUID) {
	delete(t.active, id)
}
