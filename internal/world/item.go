package world

import (
	"math/rand/v2"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item is something that can be picked up. It may be referred to by its name
// or by any of its aliases, without regard to case.
type Item struct {
	Name    string
	Aliases []string
}

// NewItem creates an Item. The aliases are lowercased and the name is always
// included as one of them.
func NewItem(name string, aliases ...string) Item {
	it := Item{Name: name, Aliases: []string{strings.ToLower(name)}}
	for _, a := range aliases {
		a = strings.ToLower(a)
		if !it.Matches(a) {
			it.Aliases = append(it.Aliases, a)
		}
	}
	return it
}

// Matches returns whether name refers to the Item.
func (it Item) Matches(name string) bool {
	name = strings.ToLower(name)
	if strings.ToLower(it.Name) == name {
		return true
	}
	for _, a := range it.Aliases {
		if a == name {
			return true
		}
	}
	return false
}

// Title gives the name of the Item with each word capitalized, for use at the
// start of a sentence or in a list.
func (it Item) Title() string {
	return cases.Title(language.English).String(it.Name)
}

func (it Item) String() string {
	return it.Name
}

// Bag is a collection of Items such as an inventory or the things lying in a
// room. No two Items in a Bag have the same name.
type Bag []Item

// Add puts it in the Bag. If an Item with the same name is already in the Bag,
// nothing is added and false is returned.
func (b *Bag) Add(it Item) bool {
	for _, existing := range *b {
		if existing.Name == it.Name {
			return false
		}
	}
	*b = append(*b, it)
	return true
}

// Find gives the Item referred to by name without removing it.
func (b Bag) Find(name string) (Item, bool) {
	idx := b.index(name)
	if idx < 0 {
		return Item{}, false
	}
	return b[idx], true
}

// Contains returns whether an Item referred to by name is in the Bag.
func (b Bag) Contains(name string) bool {
	return b.index(name) >= 0
}

// Take removes and returns the Item referred to by name.
func (b *Bag) Take(name string) (Item, bool) {
	idx := b.index(name)
	if idx < 0 {
		return Item{}, false
	}
	it := (*b)[idx]
	*b = append((*b)[:idx:idx], (*b)[idx+1:]...)
	return it, true
}

// Remove removes the Item with exactly the given name, returning whether there
// was one.
func (b *Bag) Remove(it Item) bool {
	for i := range *b {
		if (*b)[i].Name == it.Name {
			*b = append((*b)[:i:i], (*b)[i+1:]...)
			return true
		}
	}
	return false
}

// Random picks an Item from the Bag without removing it. If r is nil, the
// global source is used.
func (b Bag) Random(r *rand.Rand) (Item, bool) {
	if len(b) == 0 {
		return Item{}, false
	}
	var idx int
	if r != nil {
		idx = r.IntN(len(b))
	} else {
		idx = rand.IntN(len(b))
	}
	return b[idx], true
}

// TakeRandom removes a random Item from the Bag and returns it.
func (b *Bag) TakeRandom(r *rand.Rand) (Item, bool) {
	it, ok := b.Random(r)
	if ok {
		b.Remove(it)
	}
	return it, ok
}

// Names gives the names of all Items in the Bag in the order they were added.
func (b Bag) Names() []string {
	names := make([]string, len(b))
	for i := range b {
		names[i] = b[i].Name
	}
	return names
}

// Copy returns a deep copy of the Bag.
func (b Bag) Copy() Bag {
	if b == nil {
		return nil
	}
	cp := make(Bag, len(b))
	for i := range b {
		cp[i] = Item{Name: b[i].Name, Aliases: append([]string(nil), b[i].Aliases...)}
	}
	return cp
}

func (b Bag) index(name string) int {
	for i := range b {
		if b[i].Matches(name) {
			return i
		}
	}
	return -1
}
