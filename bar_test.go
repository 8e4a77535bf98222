package main

import (
	"testing"

	"github.com/remyoudompheng/dwm/config"
)

func TestClassifyBarClick(t *testing.T) {
	tagWidths := []int{20, 20, 20}
	ltW, statusW, ww := 30, 50, 300

	cases := []struct {
		x     int
		click config.Click
		tag   int
	}{
		{0, config.ClickTagBar, 0},
		{19, config.ClickTagBar, 0},
		{20, config.ClickTagBar, 1},
		{59, config.ClickTagBar, 2},
		{60, config.ClickLtSymbol, -1},
		{89, config.ClickLtSymbol, -1},
		{150, config.ClickWinTitle, -1},
		{251, config.ClickStatusText, -1},
		{299, config.ClickStatusText, -1},
	}
	for _, tc := range cases {
		click, tag := classifyBarClick(tc.x, ww, tagWidths, ltW, statusW)
		if click != tc.click || tag != tc.tag {
			t.Fatalf("x=%d: got (%v, %d), want (%v, %d)",
				tc.x, click, tag, tc.click, tc.tag)
		}
	}
}

func TestClassifyBarClickNoTags(t *testing.T) {
	click, _ := classifyBarClick(5, 100, nil, 30, 20)
	if click != config.ClickLtSymbol {
		t.Fatalf("click without tags classified as %v", click)
	}
}

// Every binding in the default configuration must resolve to a known
// command, and every configured layout to a registered one.
func TestDefaultBindingsResolve(t *testing.T) {
	cfg := config.Default()
	for _, k := range cfg.Keys {
		if _, ok := commands[k.Cmd]; !ok {
			t.Fatalf("key %s bound to unknown command %q", k.Seq, k.Cmd)
		}
	}
	for _, b := range cfg.Buttons {
		if b.Cmd == "movemouse" || b.Cmd == "resizemouse" {
			continue
		}
		if _, ok := commands[b.Cmd]; !ok {
			t.Fatalf("button %s bound to unknown command %q", b.Seq, b.Cmd)
		}
	}
	for _, name := range cfg.Layouts {
		if _, ok := layouts[name]; !ok {
			t.Fatalf("configured layout %q not registered", name)
		}
	}
}
