package vbw

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelWorldData is every key in a complete VBW DATA file.
type topLevelWorldData struct {
	Format     string       `toml:"format"`
	Type       string       `toml:"type"`
	World      worldHeader  `toml:"world"`
	Directions []direction  `toml:"direction"`
	Rooms      []room       `toml:"room"`
	Commands   []commandDef `toml:"command"`

	origin string
}

type worldHeader struct {
	Start string `toml:"start"`
	Intro string `toml:"intro"`
}

type direction struct {
	Forward string `toml:"forward"`
	Reverse string `toml:"reverse"`
}

type room struct {
	Label       string            `toml:"label"`
	Description string            `toml:"description"`
	Context     string            `toml:"context"`
	Exits       map[string]string `toml:"exits"`
	Items       []item            `toml:"item"`
}

type item struct {
	Name    string   `toml:"name"`
	Aliases []string `toml:"aliases"`
}

type commandDef struct {
	Template     string            `toml:"template"`
	Context      string            `toml:"context"`
	Bind         map[string]string `toml:"bind"`
	Lua          string            `toml:"lua"`
	Say          string            `toml:"say"`
	SetContext   string            `toml:"set_context"`
	ClearContext bool              `toml:"clear_context"`
	Move         string            `toml:"move"`
	Give         string            `toml:"give"`
	Take         string            `toml:"take"`

	origin string
}

func (cd commandDef) toCommandDef() CommandDef {
	return CommandDef{
		Template:     cd.Template,
		Context:      cd.Context,
		Bind:         cd.Bind,
		Lua:          cd.Lua,
		Take:         cd.Take,
		Give:         cd.Give,
		Say:          cd.Say,
		Move:         cd.Move,
		ClearContext: cd.ClearContext,
		SetContext:   cd.SetContext,
		Origin:       cd.origin,
	}
}
