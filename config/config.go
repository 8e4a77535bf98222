// Package config holds the compiled-in configuration tables: tags,
// window rules, layouts, key and mouse bindings, and the appearance
// constants. There is no runtime configuration file; edit and
// recompile, the bindings below are the contract.
package config

// Arg is the argument handed to a bound command.
type Arg struct {
	Int   int
	Float float64
	UInt  uint
	Str   []string
}

// Rule assigns tags, floating state or a monitor to new windows whose
// WM_CLASS or title contains the given substrings. Empty fields match
// anything; Monitor -1 keeps the window where it appeared.
type Rule struct {
	Class    string
	Instance string
	Title    string
	Tags     uint
	Floating bool
	Monitor  int
}

// Key binds a key sequence (in X11 "Mod1-j" notation) to a named
// command.
type Key struct {
	Seq string
	Cmd string
	Arg Arg
}

// Click identifies the region a mouse binding applies to.
type Click int

const (
	ClickTagBar Click = iota
	ClickLtSymbol
	ClickStatusText
	ClickWinTitle
	ClickClientWin
	ClickRootWin
)

// Button binds a mouse button, optionally with modifiers, within a
// bar region or on client windows.
type Button struct {
	Click Click
	Seq   string
	Cmd   string
	Arg   Arg
}

type Config struct {
	Tags    []string
	Rules   []Rule
	Layouts []string // names from the layout registry; first is the default
	Keys    []Key
	Buttons []Button

	Font        string
	NormBorder  uint32
	NormBG      uint32
	NormFG      uint32
	SelBorder   uint32
	SelBG       uint32
	SelFG       uint32
	BorderWidth int
	Snap        int
	MFact       float64
	ResizeHints bool
	ShowBar     bool
	TopBar      bool

	// Socket is the unix socket path of the 9P control filesystem.
	// Empty disables it.
	Socket string

	Terminal []string
	Menu     []string
}

// TagMask covers every configured tag.
func (c *Config) TagMask() uint {
	return 1<<uint(len(c.Tags)) - 1
}

const modkey = "Mod1"

func tagKeys(key string, tag uint) []Key {
	return []Key{
		{modkey + "-" + key, "view", Arg{UInt: 1 << tag}},
		{modkey + "-Control-" + key, "toggleview", Arg{UInt: 1 << tag}},
		{modkey + "-Shift-" + key, "tag", Arg{UInt: 1 << tag}},
		{modkey + "-Control-Shift-" + key, "toggletag", Arg{UInt: 1 << tag}},
	}
}

func Default() *Config {
	cfg := &Config{
		Tags: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		Rules: []Rule{
			{Class: "Gimp", Floating: true, Monitor: -1},
			{Class: "display", Floating: true, Monitor: -1},
			{Class: "Firefox", Tags: 1 << 8, Monitor: -1},
		},
		Layouts: []string{"tile", "floating", "monocle"},

		Font:        "fixed",
		NormBorder:  0xcccccc,
		NormBG:      0xcccccc,
		NormFG:      0x000000,
		SelBorder:   0x0066ff,
		SelBG:       0x0066ff,
		SelFG:       0xffffff,
		BorderWidth: 1,
		Snap:        32,
		MFact:       0.55,
		ResizeHints: true,
		ShowBar:     true,
		TopBar:      true,

		Terminal: []string{"uxterm"},
		Menu:     []string{"dmenu_run"},
	}

	cfg.Keys = []Key{
		{modkey + "-p", "spawn", Arg{Str: cfg.Menu}},
		{modkey + "-Shift-Return", "spawn", Arg{Str: cfg.Terminal}},
		{modkey + "-b", "togglebar", Arg{}},
		{modkey + "-j", "focusstack", Arg{Int: +1}},
		{modkey + "-k", "focusstack", Arg{Int: -1}},
		{modkey + "-h", "setmfact", Arg{Float: -0.05}},
		{modkey + "-l", "setmfact", Arg{Float: +0.05}},
		{modkey + "-Return", "zoom", Arg{}},
		{modkey + "-Tab", "view", Arg{}},
		{modkey + "-Shift-c", "killclient", Arg{}},
		{modkey + "-t", "setlayout", Arg{Str: []string{"tile"}}},
		{modkey + "-f", "setlayout", Arg{Str: []string{"floating"}}},
		{modkey + "-m", "setlayout", Arg{Str: []string{"monocle"}}},
		{modkey + "-space", "setlayout", Arg{}},
		{modkey + "-Shift-space", "togglefloating", Arg{}},
		{modkey + "-0", "view", Arg{UInt: ^uint(0)}},
		{modkey + "-Shift-0", "tag", Arg{UInt: ^uint(0)}},
		{modkey + "-comma", "focusmon", Arg{Int: -1}},
		{modkey + "-period", "focusmon", Arg{Int: +1}},
		{modkey + "-Shift-comma", "tagmon", Arg{Int: -1}},
		{modkey + "-Shift-period", "tagmon", Arg{Int: +1}},
		{modkey + "-Left", "viewprev", Arg{}},
		{modkey + "-Right", "viewnext", Arg{}},
		{modkey + "-Shift-q", "quit", Arg{}},
	}
	for i := range cfg.Tags {
		cfg.Keys = append(cfg.Keys, tagKeys(cfg.Tags[i], uint(i))...)
	}

	cfg.Buttons = []Button{
		{ClickLtSymbol, "1", "setlayout", Arg{}},
		{ClickLtSymbol, "3", "setlayout", Arg{Str: []string{"monocle"}}},
		{ClickWinTitle, "2", "zoom", Arg{}},
		{ClickStatusText, "2", "spawn", Arg{Str: cfg.Terminal}},
		{ClickClientWin, modkey + "-1", "movemouse", Arg{}},
		{ClickClientWin, modkey + "-2", "togglefloating", Arg{}},
		{ClickClientWin, modkey + "-3", "resizemouse", Arg{}},
		{ClickTagBar, "1", "view", Arg{}},
		{ClickTagBar, "3", "toggleview", Arg{}},
		{ClickTagBar, modkey + "-1", "tag", Arg{}},
		{ClickTagBar, modkey + "-3", "toggletag", Arg{}},
	}

	return cfg
}
