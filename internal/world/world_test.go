package world

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/dekarrin/rezi"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func Test_Directions_Add(t *testing.T) {
	testCases := []struct {
		name      string
		forward   string
		reverse   string
		expectErr bool
	}{
		{name: "new pair", forward: "up", reverse: "down"},
		{name: "already declared", forward: "north", reverse: "up", expectErr: true},
		{name: "reverse already declared", forward: "up", reverse: "west", expectErr: true},
		{name: "uppercase", forward: "Up", reverse: "down", expectErr: true},
		{name: "not letters", forward: "up2", reverse: "down", expectErr: true},
		{name: "own reverse", forward: "around", reverse: "around", expectErr: true},
		{name: "empty", forward: "", reverse: "down", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			d := NewDirections()

			err := d.Add(tc.forward, tc.reverse)

			if tc.expectErr {
				assert.Error(err)
				assert.Equal([]string{"north", "south", "east", "west"}, d.Names())
				return
			}
			assert.NoError(err)
			rev, ok := d.Reverse(tc.reverse)
			assert.True(ok)
			assert.Equal(tc.forward, rev)
		})
	}
}

func Test_Bag(t *testing.T) {
	assert := assert.New(t)
	var b Bag
	mallet := NewItem("rusty mallet", "Mallet")

	assert.True(b.Add(mallet))
	assert.False(b.Add(NewItem("rusty mallet")))
	assert.True(b.Add(NewItem("lamp")))

	assert.True(b.Contains("MALLET"))
	assert.True(b.Contains("rusty mallet"))
	assert.False(b.Contains("rusty"))

	found, ok := b.Find("mallet")
	assert.True(ok)
	assert.Equal("rusty mallet", found.Name)
	assert.Equal("Rusty Mallet", found.Title())
	assert.Equal([]string{"rusty mallet", "lamp"}, b.Names())

	taken, ok := b.Take("mallet")
	assert.True(ok)
	assert.Equal(mallet, taken)
	assert.Equal([]string{"lamp"}, b.Names())

	_, ok = b.Take("mallet")
	assert.False(ok)

	assert.True(b.Remove(NewItem("lamp")))
	assert.Empty(b)
}

func Test_Bag_random(t *testing.T) {
	assert := assert.New(t)
	r := rand.New(rand.NewPCG(1, 2))
	b := Bag{NewItem("red gem"), NewItem("blue gem"), NewItem("green gem")}

	_, ok := Bag(nil).Random(r)
	assert.False(ok)

	it, ok := b.Random(r)
	assert.True(ok)
	assert.True(b.Contains(it.Name))
	assert.Len(b, 3)

	var taken []string
	for {
		it, ok := b.TakeRandom(r)
		if !ok {
			break
		}
		taken = append(taken, it.Name)
	}
	assert.ElementsMatch([]string{"red gem", "blue gem", "green gem"}, taken)
	assert.Empty(b)
}

func Test_World_Link(t *testing.T) {
	assert := assert.New(t)
	w := New()
	assert.NoError(w.AddRoom(&Room{Label: "start"}))
	assert.NoError(w.AddRoom(&Room{Label: "valley"}))
	assert.Error(w.AddRoom(&Room{Label: "valley"}))

	assert.NoError(w.Link("start", "north", "valley"))
	assert.Equal("valley", w.Rooms["start"].Exit("north"))
	assert.Equal("start", w.Rooms["valley"].Exit("south"))
	assert.Equal("", w.Rooms["start"].Exit("east"))
	assert.Equal([]string{"north"}, w.Rooms["start"].ExitList())

	err := w.Link("start", "up", "valley")
	assert.True(errors.Is(err, ErrInvalidDirection))

	assert.Error(w.Link("start", "east", "nowhere"))
}

func Test_World_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		setup     func(w *World)
		expectErr bool
	}{
		{
			name: "valid",
			setup: func(w *World) {
				w.Start = "a"
				w.Rooms["a"].Exits["north"] = "b"
			},
		},
		{
			name:      "missing start",
			setup:     func(w *World) { w.Start = "nope" },
			expectErr: true,
		},
		{
			name: "undeclared direction",
			setup: func(w *World) {
				w.Start = "a"
				w.Rooms["a"].Exits["up"] = "b"
			},
			expectErr: true,
		},
		{
			name: "exit to nowhere",
			setup: func(w *World) {
				w.Start = "a"
				w.Rooms["a"].Exits["north"] = "c"
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			w := New()
			assert.NoError(w.AddRoom(&Room{Label: "a"}))
			assert.NoError(w.AddRoom(&Room{Label: "b"}))
			tc.setup(w)

			err := w.Validate()

			if tc.expectErr {
				assert.Error(err)
				return
			}
			assert.NoError(err)
		})
	}
}

func Test_World_NewState(t *testing.T) {
	assert := assert.New(t)
	w := New()
	assert.NoError(w.AddRoom(&Room{Label: "cellar", Scope: "dark", Items: Bag{NewItem("lamp")}}))
	w.Start = "cellar"

	st := w.NewState()
	st.RoomItems["cellar"][0].Aliases[0] = "changed"

	assert.Equal("cellar", st.Room)
	assert.Equal("dark", st.Scope)
	assert.Equal("lamp", w.Rooms["cellar"].Items[0].Aliases[0], "world items must not be shared with state")
}

func Test_State_binaryRoundTrip(t *testing.T) {
	assert := assert.New(t)
	st := State{
		Room:      "valley",
		Scope:     "outside.valley",
		Inventory: Bag{NewItem("rusty mallet", "mallet")},
		RoomItems: map[string]Bag{
			"start":  {NewItem("note"), NewItem("blue key", "key")},
			"valley": nil,
		},
		Vars: map[string]string{"door": "open", "visits": "2"},
	}

	data, err := st.MarshalBinary()
	if !assert.NoError(err) {
		return
	}

	var actual State
	err = actual.UnmarshalBinary(data)
	if !assert.NoError(err) {
		return
	}

	assert.Empty(cmp.Diff(st, actual))
}

func Test_State_UnmarshalBinary_truncated(t *testing.T) {
	assert := assert.New(t)
	st := State{Room: "valley", Vars: map[string]string{"a": "b"}}
	data, err := st.MarshalBinary()
	assert.NoError(err)

	var actual State
	err = actual.UnmarshalBinary(data[:len(data)-2])

	assert.Error(err)
}

func Test_State_UnmarshalBinary_oversizedCount(t *testing.T) {
	assert := assert.New(t)

	var data []byte
	data = append(data, rezi.EncString("valley")...)
	data = append(data, rezi.EncString("")...)
	data = append(data, rezi.EncInt(1<<40)...)

	var actual State
	err := actual.UnmarshalBinary(data)

	assert.ErrorContains(err, "exceeds")
}

func Test_State_Copy(t *testing.T) {
	assert := assert.New(t)
	st := &State{
		Room:      "a",
		Inventory: Bag{NewItem("lamp")},
		RoomItems: map[string]Bag{"a": {NewItem("coin")}},
		Vars:      map[string]string{"x": "1"},
	}

	cp := st.Copy()
	cp.Inventory.Take("lamp")
	items := cp.RoomItems["a"]
	items.Take("coin")
	cp.RoomItems["a"] = items
	cp.Vars["x"] = "2"

	assert.True(st.Inventory.Contains("lamp"))
	assert.True(st.RoomItems["a"].Contains("coin"))
	assert.Equal("1", st.Vars["x"])
}
