package verbly

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dekarrin/verbly/internal/vbw"
	"github.com/dekarrin/verbly/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWorldData(t *testing.T) vbw.WorldData {
	w := world.New()
	require.NoError(t, w.AddRoom(&world.Room{Label: "hall", Description: "A long hall."}))
	w.Start = "hall"
	w.Intro = "Welcome, adventurer."
	return vbw.WorldData{
		World: w,
		Commands: []vbw.CommandDef{
			{Template: "wave", Say: "You wave.", Origin: "test"},
		},
	}
}

func Test_Engine_RunUntilQuit(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:  "quit command",
			input: "wave\nquit\nwave\n",
			expect: "Welcome to Verbly\n(direct input mode)\n=================\n\n" +
				"Welcome, adventurer.\nA long hall.\n" +
				"\nYou wave.\n" +
				"\nGoodbye\n",
		},
		{
			name:  "end of input",
			input: "wave\n\n  \ndance",
			expect: "Welcome to Verbly\n(direct input mode)\n=================\n\n" +
				"Welcome, adventurer.\nA long hall.\n" +
				"\nYou wave.\n" +
				"\nI don't understand 'dance'.\n" +
				"\nGoodbye\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			var out bytes.Buffer
			eng, err := NewWithWorld(strings.NewReader(tc.input), &out, testWorldData(t), true, nil)
			require.NoError(t, err)

			err = eng.RunUntilQuit()

			assert.NoError(err)
			assert.Equal(tc.expect, out.String())
			assert.NoError(eng.Close())
		})
	}
}

func Test_New_missingWorldFile(t *testing.T) {
	_, err := New(strings.NewReader(""), &bytes.Buffer{}, t.TempDir()+"/nope.vbw", true, nil)
	assert.Error(t, err)
}
