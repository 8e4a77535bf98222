package main

import (
	"fmt"
	"math"
)

// Layout arranges the tiled clients of a monitor inside its window
// area. Floating clients and clients on hidden tags are never touched
// by a layout.
type Layout interface {
	// Symbol is the indicator drawn in the bar for this layout.
	Symbol(m *Monitor) string
	Arrange(m *Monitor)
	// Tiling reports whether the layout imposes geometry on clients.
	// A non-tiling layout leaves every client floating.
	Tiling() bool
}

// layouts maps the names used in the configuration to the layout
// implementations.
var layouts = map[string]Layout{
	"tile":     tileLayout{},
	"floating": floatLayout{},
	"monocle":  monocleLayout{},
}

// tileLayout is the classic master/stack split: one client fills the
// left portion of the monitor, the rest share the right column.
type tileLayout struct{}

func (tileLayout) Symbol(*Monitor) string { return "[]=" }
func (tileLayout) Tiling() bool           { return true }

func (tileLayout) Arrange(m *Monitor) {
	tiled := m.tiled()
	n := len(tiled)
	if n == 0 {
		return
	}

	c := tiled[0]
	mw := int(math.Round(m.mfact * float64(m.area.Width)))
	w := mw
	if n == 1 {
		w = m.area.Width
	}
	c.resize(Geom{m.area.X, m.area.Y, w - 2*c.bw, m.area.Height - 2*c.bw}, false)
	if n == 1 {
		return
	}

	// The stack column starts where the master actually ends, which
	// may differ from mfact's split once the master's size hints have
	// been applied.
	x := m.area.X + mw
	w = m.area.Width - mw
	if m.area.X+mw > c.geom.X+c.geom.Width {
		x = c.geom.X + c.geom.Width + 2*c.bw
		w = m.area.X + m.area.Width - x
	}
	y := m.area.Y
	h := m.area.Height / (n - 1)
	if h < m.wm.barH {
		// Too many clients for the column; let them overlap.
		h = m.area.Height
	}
	for i, c := range tiled[1:] {
		ch := h - 2*c.bw
		if i == n-2 {
			// The last client absorbs the rounding remainder.
			ch = m.area.Y + m.area.Height - y - 2*c.bw
		}
		c.resize(Geom{x, y, w - 2*c.bw, ch}, false)
		if h != m.area.Height {
			y = c.geom.Y + c.geom.Height + 2*c.bw
		}
	}
}

// monocleLayout maximizes every visible client over the whole window
// area. Its bar symbol shows how many windows are stacked.
type monocleLayout struct{}

func (monocleLayout) Symbol(m *Monitor) string {
	n := 0
	for _, c := range m.clients {
		if m.isVisible(c) {
			n++
		}
	}
	if n > 0 {
		return fmt.Sprintf("[%d]", n)
	}
	return "[M]"
}

func (monocleLayout) Tiling() bool { return true }

func (monocleLayout) Arrange(m *Monitor) {
	for _, c := range m.tiled() {
		c.resize(Geom{m.area.X, m.area.Y, m.area.Width - 2*c.bw, m.area.Height - 2*c.bw}, false)
	}
}

// floatLayout imposes nothing; clients keep whatever geometry they
// had or request.
type floatLayout struct{}

func (floatLayout) Symbol(*Monitor) string { return "><>" }
func (floatLayout) Tiling() bool           { return false }
func (floatLayout) Arrange(*Monitor)       {}
