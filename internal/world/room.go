package world

import (
	"fmt"
	"slices"
	"strings"
)

// Room is a place the player can be. Rooms are joined by exits, each in one of
// the declared Directions.
type Room struct {
	// Label uniquely identifies the Room.
	Label string

	// Description is shown when the player looks around.
	Description string

	// Scope is the command scope that becomes current when the player enters
	// the Room. Empty means no scope.
	Scope string

	// Exits maps a direction to the label of the Room it leads to.
	Exits map[string]string

	// Items is what lies in the Room when the game starts.
	Items Bag
}

// Exit gives the label of the Room in direction dir, or "" if there is no exit
// that way.
func (r *Room) Exit(dir string) string {
	return r.Exits[dir]
}

// ExitList gives every direction that has an exit, sorted.
func (r *Room) ExitList() []string {
	var dirs []string
	for dir, dest := range r.Exits {
		if dest != "" {
			dirs = append(dirs, dir)
		}
	}
	slices.Sort(dirs)
	return dirs
}

func (r *Room) String() string {
	return fmt.Sprintf("Room<%s exits: %s>", r.Label, strings.Join(r.ExitList(), ", "))
}

// World is every Room along with the Directions that link them.
type World struct {
	Rooms      map[string]*Room
	Directions *Directions

	// Start is the label of the Room the player begins in.
	Start string

	// Intro is shown once when a game begins.
	Intro string
}

// New creates an empty World with the default Directions.
func New() *World {
	return &World{
		Rooms:      map[string]*Room{},
		Directions: NewDirections(),
	}
}

// AddRoom puts r in the World. Its label must not already be in use.
func (w *World) AddRoom(r *Room) error {
	if r.Label == "" {
		return fmt.Errorf("room label cannot be empty")
	}
	if _, ok := w.Rooms[r.Label]; ok {
		return fmt.Errorf("duplicate room label %q", r.Label)
	}
	if r.Exits == nil {
		r.Exits = map[string]string{}
	}
	w.Rooms[r.Label] = r
	return nil
}

// Link makes an exit from the Room labeled from in direction dir to the Room
// labeled to, and an exit back in the reverse direction. If dir was never
// declared the returned error wraps ErrInvalidDirection.
func (w *World) Link(from, dir, to string) error {
	rev, ok := w.Directions.Reverse(dir)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
	}
	src, ok := w.Rooms[from]
	if !ok {
		return fmt.Errorf("no room labeled %q", from)
	}
	dest, ok := w.Rooms[to]
	if !ok {
		return fmt.Errorf("no room labeled %q", to)
	}

	src.Exits[dir] = to
	dest.Exits[rev] = from
	return nil
}

// Validate checks that the start room exists and every exit uses a declared
// direction and leads to a Room in the World.
func (w *World) Validate() error {
	if _, ok := w.Rooms[w.Start]; !ok {
		return fmt.Errorf("start room %q does not exist", w.Start)
	}

	labels := make([]string, 0, len(w.Rooms))
	for label := range w.Rooms {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	for _, label := range labels {
		r := w.Rooms[label]
		for _, dir := range r.ExitList() {
			if !w.Directions.Has(dir) {
				return fmt.Errorf("room %q: %w: %q", label, ErrInvalidDirection, dir)
			}
			if _, ok := w.Rooms[r.Exits[dir]]; !ok {
				return fmt.Errorf("room %q: exit %s leads to nonexistent room %q", label, dir, r.Exits[dir])
			}
		}
	}
	return nil
}

// NewState gives the State of a game that has just begun in w.
func (w *World) NewState() *State {
	st := &State{
		Room:      w.Start,
		RoomItems: map[string]Bag{},
		Vars:      map[string]string{},
	}
	for label, r := range w.Rooms {
		if len(r.Items) > 0 {
			st.RoomItems[label] = r.Items.Copy()
		}
	}
	if start, ok := w.Rooms[w.Start]; ok {
		st.Scope = start.Scope
	}
	return st
}
