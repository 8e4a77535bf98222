package main

import (
	"testing"

	"github.com/remyoudompheng/dwm/config"
)

// testWM builds a manager with one monitor and no X connection.
// Clients without a window exercise the pure geometry paths only.
func testWM(w, h int) (*WM, *Monitor) {
	wm := &WM{
		Config:  config.Default(),
		barH:    17,
		screenW: w,
		screenH: h,
	}
	m := wm.newMonitor()
	m.screen = Geom{0, 0, w, h}
	m.updateBarPos(wm.barH)
	wm.mons = []*Monitor{m}
	wm.sel = m
	return wm, m
}

func addClient(m *Monitor) *Client {
	c := &Client{mon: m, bw: 1, tags: 1}
	m.attach(c)
	m.attachStack(c)
	return c
}

func TestTileEmpty(t *testing.T) {
	_, m := testWM(1000, 800)
	tileLayout{}.Arrange(m) // must not panic
}

func TestTileSingleClient(t *testing.T) {
	_, m := testWM(1000, 800)
	c := addClient(m)
	tileLayout{}.Arrange(m)
	want := Geom{0, 17, 998, 781}
	if c.geom != want {
		t.Fatalf("single client geometry %v, want %v", c.geom, want)
	}
}

func TestTileMasterStack(t *testing.T) {
	_, m := testWM(1000, 800)
	c3 := addClient(m)
	c2 := addClient(m)
	c1 := addClient(m) // newest, becomes the master
	tileLayout{}.Arrange(m)

	// mfact 0.55 of 1000 gives a 550 wide master area.
	if want := (Geom{0, 17, 548, 781}); c1.geom != want {
		t.Fatalf("master geometry %v, want %v", c1.geom, want)
	}
	if want := (Geom{550, 17, 448, 389}); c2.geom != want {
		t.Fatalf("first stack geometry %v, want %v", c2.geom, want)
	}
	if want := (Geom{550, 408, 448, 390}); c3.geom != want {
		t.Fatalf("second stack geometry %v, want %v", c3.geom, want)
	}

	// The stack column must end exactly at the bottom of the window
	// area, borders included.
	if got := c3.geom.Y + c3.geom.Height + 2*c3.bw; got != m.area.Y+m.area.Height {
		t.Fatalf("stack ends at %d, area ends at %d", got, m.area.Y+m.area.Height)
	}
}

func TestTileExactSplit(t *testing.T) {
	// Borderless clients, no bar: the classic halves split with no
	// rounding remainder.
	_, m := testWM(1000, 800)
	m.showBar = false
	m.updateBarPos(17)
	m.mfact = 0.5
	var cs [3]*Client
	for i := range cs {
		cs[len(cs)-1-i] = addClient(m)
		cs[len(cs)-1-i].bw = 0
	}
	tileLayout{}.Arrange(m)
	want := [3]Geom{
		{0, 0, 500, 800},
		{500, 0, 500, 400},
		{500, 400, 500, 400},
	}
	for i, c := range cs {
		if c.geom != want[i] {
			t.Fatalf("client %d geometry %v, want %v", i, c.geom, want[i])
		}
	}
}

func TestTileOverflowOverlaps(t *testing.T) {
	// A window area too small for the stack: rows would be thinner
	// than the bar, so clients overlap at full height instead.
	wm, m := testWM(1000, 100)
	var clients []*Client
	for i := 0; i < 8; i++ {
		clients = append(clients, addClient(m))
	}
	tileLayout{}.Arrange(m)
	if m.area.Height/(len(clients)-1) >= wm.barH {
		t.Fatalf("test monitor not small enough to trigger overlap")
	}
	for _, c := range clients[:len(clients)-1] {
		if c.geom.Y != m.area.Y {
			t.Fatalf("overlapping stack client at y=%d, want %d", c.geom.Y, m.area.Y)
		}
	}
}

func TestTileRespectsFloating(t *testing.T) {
	_, m := testWM(1000, 800)
	fl := addClient(m)
	fl.isFloating = true
	fl.geom = Geom{100, 100, 300, 200}
	c := addClient(m)
	tileLayout{}.Arrange(m)
	if fl.geom != (Geom{100, 100, 300, 200}) {
		t.Fatalf("floating client moved by the layout: %v", fl.geom)
	}
	if c.geom.Width != 998 {
		t.Fatalf("single tiled client should span the area, got width %d", c.geom.Width)
	}
}

func TestMonocle(t *testing.T) {
	_, m := testWM(1000, 800)
	c1 := addClient(m)
	c2 := addClient(m)
	monocleLayout{}.Arrange(m)
	want := Geom{0, 17, 998, 781}
	if c1.geom != want || c2.geom != want {
		t.Fatalf("monocle geometries %v %v, want %v", c1.geom, c2.geom, want)
	}
	if sym := (monocleLayout{}).Symbol(m); sym != "[2]" {
		t.Fatalf("monocle symbol %q, want [2]", sym)
	}
}

func TestMonocleSymbolEmpty(t *testing.T) {
	_, m := testWM(1000, 800)
	if sym := (monocleLayout{}).Symbol(m); sym != "[M]" {
		t.Fatalf("monocle symbol %q, want [M]", sym)
	}
}

func TestLayoutRegistry(t *testing.T) {
	for _, name := range config.Default().Layouts {
		if layouts[name] == nil {
			t.Fatalf("configured layout %q not registered", name)
		}
	}
	if layouts["floating"].Tiling() {
		t.Fatalf("floating layout claims to tile")
	}
	if !layouts["tile"].Tiling() || !layouts["monocle"].Tiling() {
		t.Fatalf("tiling layouts claim not to tile")
	}
}
