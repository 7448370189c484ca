// Package vbw loads worlds from VBW (Verbly Worlds) files, a TOML-based format
// that declares rooms, items, directions, and the commands a player can give.
//
// Every VBW file starts with a header giving its format and type:
//
//	format = "VERBLY"
//	type = "DATA"
//
// A "MANIFEST" file instead lists other files to include, relative to itself:
//
//	format = "VERBLY"
//	type = "MANIFEST"
//	files = ["rooms.vbw", "commands.vbw"]
package vbw

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/verbly/internal/world"
)

// FormatName is the value of the format key every VBW file must have.
const FormatName = "VERBLY"

// MaxManifestRecursionDepth is the deepest manifests may include other
// manifests.
const MaxManifestRecursionDepth = 32

var (
	// ErrManifestEmpty is returned when the top manifest lists no files that
	// could be loaded.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is returned when manifests are nested more than
	// MaxManifestRecursionDepth deep.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is returned when a manifest includes, directly or
	// through other manifests, itself.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")
)

// Manifest holds the data of a manifest file.
type Manifest struct {
	Files []string
}

// WorldData is everything loaded from one or more VBW data files.
type WorldData struct {
	World    *world.World
	Commands []CommandDef
}

// CommandDef is a command declared in a world file. A command runs either a
// Lua script or a fixed series of declarative actions. Any of the string
// actions may refer to a placeholder or bound argument as {name}.
type CommandDef struct {
	Template string
	Context  string
	Bind     map[string]string

	// Lua is the source of a scripted handler.
	Lua string

	// Take removes an item from the inventory. If the player does not have
	// it, the command is refused and no other action happens.
	Take string

	// Give puts a new item in the inventory.
	Give string

	// Say is shown to the player.
	Say string

	// Move puts the player in the room with this label.
	Move string

	ClearContext bool
	SetContext   string

	// Origin says where the command was declared, for error messages.
	Origin string
}

// Params gives the argument names a handler for the command receives.
func (cd CommandDef) Params(placeholders []string) []string {
	params := append([]string(nil), placeholders...)
	for k := range cd.Bind {
		params = append(params, k)
	}
	return params
}

// Scripted returns whether the command runs Lua.
func (cd CommandDef) Scripted() bool {
	return cd.Lua != ""
}

func (cd CommandDef) hasDeclarative() bool {
	return cd.Take != "" || cd.Give != "" || cd.Say != "" || cd.Move != "" || cd.ClearContext || cd.SetContext != ""
}

// FileInfo is the header every VBW file has.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// LoadResourceBundle loads a world from the VBW file at path. If it is a
// manifest, every file it lists is loaded as well, recursively, and all of
// them are combined before the world is checked.
func LoadResourceBundle(path string) (WorldData, error) {
	unmarshaled, err := recursiveUnmarshalResource(path, nil)
	if err != nil {
		return WorldData{}, err
	}

	return parseWorldData(unmarshaled)
}

// LoadManifestFile loads a manifest without following it.
func LoadManifestFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}

	unmarshaled, err := unmarshalManifest(data)
	if err != nil {
		return Manifest{}, err
	}
	return Manifest{Files: unmarshaled.Files}, nil
}

// Parse loads a world from the bytes of a single DATA file.
func Parse(data []byte) (WorldData, error) {
	unmarshaled, err := unmarshalWorldData(data)
	if err != nil {
		return WorldData{}, err
	}
	unmarshaled.origin = "<input>"
	for i := range unmarshaled.Commands {
		unmarshaled.Commands[i].origin = fmt.Sprintf("<input>: command[%d]", i)
	}
	return parseWorldData(unmarshaled)
}

// ScanFileInfo reads the header of a VBW file. Only the part of data before
// the first table header is parsed.
func ScanFileInfo(data []byte) (FileInfo, error) {
	topLevelEnd := -1
	onNewLine := true
	for b := range data {
		if onNewLine && data[b] == '[' {
			topLevelEnd = b
			break
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	info.Format = strings.ToUpper(info.Format)
	info.Type = strings.ToUpper(info.Type)
	return info, err
}
