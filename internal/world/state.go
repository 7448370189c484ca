package world

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dekarrin/rezi"
)

// State is everything about a game in progress that can change as the player
// gives commands.
type State struct {
	// Room is the label of the Room the player is in.
	Room string

	// Inventory is what the player is carrying.
	Inventory Bag

	// RoomItems maps a Room label to the Items currently lying in it.
	RoomItems map[string]Bag

	// Scope is the current command scope.
	Scope string

	// Vars holds values set by scripted commands.
	Vars map[string]string
}

// Copy returns a deep copy of the State.
func (st *State) Copy() *State {
	cp := &State{
		Room:      st.Room,
		Inventory: st.Inventory.Copy(),
		RoomItems: make(map[string]Bag, len(st.RoomItems)),
		Scope:     st.Scope,
		Vars:      maps.Clone(st.Vars),
	}
	for k, v := range st.RoomItems {
		cp.RoomItems[k] = v.Copy()
	}
	if cp.Vars == nil {
		cp.Vars = map[string]string{}
	}
	return cp
}

// MarshalBinary encodes the State to bytes with REZI. Map entries are written
// in sorted key order so equal States give equal bytes.
func (st State) MarshalBinary() ([]byte, error) {
	enc := &encoder{}

	enc.str(st.Room)
	enc.str(st.Scope)
	enc.bag(st.Inventory)

	enc.num(len(st.RoomItems))
	for _, label := range slices.Sorted(maps.Keys(st.RoomItems)) {
		enc.str(label)
		enc.bag(st.RoomItems[label])
	}

	enc.num(len(st.Vars))
	for _, k := range slices.Sorted(maps.Keys(st.Vars)) {
		enc.str(k)
		enc.str(st.Vars[k])
	}

	return enc.buf, nil
}

// UnmarshalBinary decodes a State previously encoded with MarshalBinary.
func (st *State) UnmarshalBinary(data []byte) error {
	dec := &decoder{data: data}
	var decoded State

	decoded.Room = dec.str()
	decoded.Scope = dec.str()
	decoded.Inventory = dec.bag()

	n := dec.count()
	decoded.RoomItems = make(map[string]Bag, max(n, 0))
	for i := 0; i < n && dec.err == nil; i++ {
		label := dec.str()
		decoded.RoomItems[label] = dec.bag()
	}

	n = dec.count()
	decoded.Vars = make(map[string]string, max(n, 0))
	for i := 0; i < n && dec.err == nil; i++ {
		k := dec.str()
		decoded.Vars[k] = dec.str()
	}

	if dec.err != nil {
		return fmt.Errorf("decode state: %w", dec.err)
	}

	*st = decoded
	return nil
}

type encoder struct {
	buf []byte
}

func (e *encoder) str(s string) {
	e.buf = append(e.buf, rezi.EncString(s)...)
}

func (e *encoder) num(n int) {
	e.buf = append(e.buf, rezi.EncInt(n)...)
}

func (e *encoder) bag(b Bag) {
	e.num(len(b))
	for _, it := range b {
		e.str(it.Name)
		e.num(len(it.Aliases))
		for _, a := range it.Aliases {
			e.str(a)
		}
	}
}

type decoder struct {
	data []byte
	err  error
}

func (d *decoder) str() string {
	if d.err != nil {
		return ""
	}
	s, n, err := rezi.DecString(d.data)
	if err != nil {
		d.err = err
		return ""
	}
	d.data = d.data[n:]
	return s
}

// count reads a length. Every counted element takes at least one byte, so a
// count larger than the bytes left is corrupt.
func (d *decoder) count() int {
	if d.err != nil {
		return 0
	}
	v, n, err := rezi.DecInt(d.data)
	if err != nil {
		d.err = err
		return 0
	}
	d.data = d.data[n:]

	switch {
	case v < 0:
		d.err = fmt.Errorf("negative count %d", v)
		return 0
	case v > len(d.data):
		d.err = fmt.Errorf("count %d exceeds the %d bytes remaining", v, len(d.data))
		return 0
	}
	return v
}

func (d *decoder) bag() Bag {
	n := d.count()
	if d.err != nil || n == 0 {
		return nil
	}
	b := make(Bag, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		it := Item{Name: d.str()}
		aliases := d.count()
		for j := 0; j < aliases && d.err == nil; j++ {
			it.Aliases = append(it.Aliases, d.str())
		}
		b = append(b, it)
	}
	return b
}
