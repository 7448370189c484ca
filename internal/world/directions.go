// Package world holds the rooms, items, and player state that commands act
// on.
package world

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalidDirection is returned when a direction is used that was never
// declared.
var ErrInvalidDirection = errors.New("direction has not been declared")

// Directions is the set of directions that rooms may be linked by. Every
// direction has a reverse, and the reverse of the reverse is the direction
// itself.
type Directions struct {
	reverse map[string]string
	names   []string
}

// NewDirections creates Directions holding the defaults north/south and
// east/west.
func NewDirections() *Directions {
	d := &Directions{reverse: map[string]string{}}
	_ = d.Add("north", "south")
	_ = d.Add("east", "west")
	return d
}

// Add declares forward and reverse as a pair of opposite directions. Both must
// be lowercase letters only and neither may already be declared.
func (d *Directions) Add(forward, reverse string) error {
	if d.reverse == nil {
		d.reverse = map[string]string{}
	}
	if forward == reverse {
		return fmt.Errorf("direction %q cannot be its own reverse", forward)
	}
	for _, dir := range []string{forward, reverse} {
		if dir == "" {
			return fmt.Errorf("direction cannot be empty")
		}
		for _, ch := range dir {
			if !unicode.IsLower(ch) {
				return fmt.Errorf("invalid direction %q: directions must be all lowercase letters", dir)
			}
		}
		if _, ok := d.reverse[dir]; ok {
			return fmt.Errorf("%q is already a direction", dir)
		}
	}

	d.reverse[forward] = reverse
	d.reverse[reverse] = forward
	d.names = append(d.names, forward, reverse)
	return nil
}

// Reverse gives the opposite of dir.
func (d *Directions) Reverse(dir string) (string, bool) {
	rev, ok := d.reverse[dir]
	return rev, ok
}

// Has returns whether dir has been declared.
func (d *Directions) Has(dir string) bool {
	_, ok := d.reverse[dir]
	return ok
}

// Names gives all declared directions in the order they were declared.
func (d *Directions) Names() []string {
	return append([]string(nil), d.names...)
}
