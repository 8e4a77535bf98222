package main

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xinerama"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/remyoudompheng/dwm/draw"
)

// Monitor is one physical screen. It owns two client orderings: the
// tiling order (clients, newest first, feeding the layouts) and the
// focus history (stack, most recently focused first). A client is
// always in both or in neither.
type Monitor struct {
	wm  *WM
	num int

	screen Geom // full monitor rectangle
	area   Geom // screen minus the bar
	barY   int

	mfact    float64
	tagset   [2]uint
	selTags  int
	selLt    int
	lts      [2]Layout
	ltSymbol string
	showBar  bool
	topBar   bool

	clients []*Client
	stack   []*Client
	sel     *Client

	barWin *xwindow.Window
	gcs    draw.GCs
}

func (wm *WM) newMonitor() *Monitor {
	cfg := wm.Config
	m := &Monitor{
		wm:      wm,
		mfact:   cfg.MFact,
		tagset:  [2]uint{1, 1},
		showBar: cfg.ShowBar,
		topBar:  cfg.TopBar,
		gcs:     draw.GCs{},
	}
	m.lts[0] = layouts[cfg.Layouts[0]]
	m.lts[1] = layouts[cfg.Layouts[1%len(cfg.Layouts)]]
	m.ltSymbol = m.lts[0].Symbol(m)
	return m
}

func (m *Monitor) layout() Layout {
	return m.lts[m.selLt]
}

// isVisible reports whether c is shown under the monitor's currently
// viewed tag set.
func (m *Monitor) isVisible(c *Client) bool {
	return c.tags&m.tagset[m.selTags] != 0
}

// tiled returns the visible, non-floating clients in tiling order.
func (m *Monitor) tiled() []*Client {
	var out []*Client
	for _, c := range m.clients {
		if !c.isFloating && m.isVisible(c) {
			out = append(out, c)
		}
	}
	return out
}

// attach inserts c at the head of the tiling order, making it the new
// master under the tile layout.
func (m *Monitor) attach(c *Client) {
	m.clients = append(m.clients, nil)
	copy(m.clients[1:], m.clients)
	m.clients[0] = c
}

func (m *Monitor) detach(c *Client) {
	for i, x := range m.clients {
		if x == c {
			m.clients = append(m.clients[:i], m.clients[i+1:]...)
			return
		}
	}
}

// attachStack pushes c on top of the focus history.
func (m *Monitor) attachStack(c *Client) {
	m.stack = append(m.stack, nil)
	copy(m.stack[1:], m.stack)
	m.stack[0] = c
}

// detachStack removes c from the focus history. If c was the selected
// client, the selection falls back to the most recently focused
// client that is still visible.
func (m *Monitor) detachStack(c *Client) {
	for i, x := range m.stack {
		if x == c {
			m.stack = append(m.stack[:i], m.stack[i+1:]...)
			break
		}
	}
	if c == m.sel {
		m.sel = m.firstOnStack()
	}
}

// firstOnStack returns the most recently focused visible client, or
// nil if no client is visible.
func (m *Monitor) firstOnStack() *Client {
	for _, c := range m.stack {
		if m.isVisible(c) {
			return c
		}
	}
	return nil
}

// view switches to the given tag set, remembering the previous one so
// that view(0) can flip back. Reports whether the view changed.
func (m *Monitor) view(tags uint) bool {
	if tags == m.tagset[m.selTags] {
		return false
	}
	m.selTags ^= 1
	if tags != 0 {
		m.tagset[m.selTags] = tags
	}
	return true
}

// toggleView adds or removes tags from the current view. An operation
// that would leave no tag visible is rejected.
func (m *Monitor) toggleView(tags uint) bool {
	newset := m.tagset[m.selTags] ^ tags
	if newset == 0 {
		return false
	}
	m.tagset[m.selTags] = newset
	return true
}

// viewNext cyclically shifts the viewed tag set towards the higher
// tags; bits falling off the end wrap around to tag 1.
func (m *Monitor) viewNext(ntags int) {
	cur := m.tagset[m.selTags]
	cur = (cur<<1 | cur>>uint(ntags-1)) & (1<<uint(ntags) - 1)
	m.selTags ^= 1
	m.tagset[m.selTags] = cur
}

// viewPrev is the inverse of viewNext.
func (m *Monitor) viewPrev(ntags int) {
	cur := m.tagset[m.selTags]
	cur = (cur>>1 | (cur&1)<<uint(ntags-1)) & (1<<uint(ntags) - 1)
	m.selTags ^= 1
	m.tagset[m.selTags] = cur
}

// setMfact adjusts the master area factor. Deltas below 1.0 are
// relative, larger values set the factor to f-1. Out of range results
// are rejected.
func (m *Monitor) setMfact(f float64) bool {
	if f < 1.0 {
		f += m.mfact
	} else {
		f -= 1.0
	}
	if f < 0.1 || f > 0.9 {
		return false
	}
	m.mfact = f
	return true
}

// updateBarPos derives the window area and the bar position from the
// monitor rectangle and the bar visibility.
func (m *Monitor) updateBarPos(barH int) {
	m.area = m.screen
	if !m.showBar {
		m.barY = -barH
		return
	}
	m.area.Height -= barH
	if m.topBar {
		m.barY = m.area.Y
		m.area.Y += barH
	} else {
		m.barY = m.area.Y + m.area.Height
	}
}

// applyHeads reconciles the monitor set against the physical head
// geometries. Monitors are created and removed as needed; clients of
// removed monitors migrate to the first monitor. Reports whether any
// geometry changed.
func (wm *WM) applyHeads(heads []Geom) bool {
	// Mirrored heads show up as duplicate geometries; treat them as
	// one monitor.
	var unique []Geom
	for _, h := range heads {
		dup := false
		for _, u := range unique {
			if u == h {
				dup = true
				break
			}
		}
		if !dup {
			unique = append(unique, h)
		}
	}

	dirty := false
	n := len(wm.mons)
	nn := len(unique)
	for i := n; i < nn; i++ {
		wm.mons = append(wm.mons, wm.newMonitor())
	}
	for i := nn; i < n; i++ {
		m := wm.mons[len(wm.mons)-1]
		for len(m.clients) > 0 {
			dirty = true
			c := m.clients[0]
			m.clients = m.clients[1:]
			m.detachStack(c)
			c.mon = wm.mons[0]
			c.mon.attach(c)
			c.mon.attachStack(c)
		}
		if m == wm.sel {
			wm.sel = wm.mons[0]
		}
		if m.barWin != nil {
			m.barWin.Detach()
			m.barWin.Destroy()
		}
		wm.mons = wm.mons[:len(wm.mons)-1]
	}
	for i, m := range wm.mons {
		if i >= n || m.screen != unique[i] {
			dirty = true
			m.num = i
			m.screen = unique[i]
			m.updateBarPos(wm.barH)
		}
	}
	return dirty
}

// updateGeom queries the physical screen layout and reconciles the
// monitor set. Reports whether anything moved.
func (wm *WM) updateGeom() bool {
	var heads []Geom
	phys, err := xinerama.PhysicalHeads(wm.X)
	if err != nil || len(phys) == 0 {
		heads = []Geom{{0, 0, wm.screenW, wm.screenH}}
	} else {
		for _, h := range phys {
			heads = append(heads, Geom{h.X(), h.Y(), h.Width(), h.Height()})
		}
	}
	dirty := wm.applyHeads(heads)
	if dirty {
		wm.sel = wm.mons[0]
		wm.sel = wm.winToMon(wm.Root.Id)
	}
	return dirty
}

// dirToMon returns the monitor next (dir > 0) or previous (dir < 0)
// to the selected one, wrapping around.
func (wm *WM) dirToMon(dir int) *Monitor {
	idx := 0
	for i, m := range wm.mons {
		if m == wm.sel {
			idx = i
			break
		}
	}
	if dir > 0 {
		return wm.mons[(idx+1)%len(wm.mons)]
	}
	return wm.mons[(idx+len(wm.mons)-1)%len(wm.mons)]
}

// ptrToMon maps a root coordinate to the monitor whose window area
// contains it, defaulting to the selected monitor.
func (wm *WM) ptrToMon(x, y int) *Monitor {
	for _, m := range wm.mons {
		if m.area.Contains(x, y) {
			return m
		}
	}
	return wm.sel
}

// winToMon maps an X window to a monitor: the root window maps via
// the pointer position, bar windows to their monitor, client windows
// to the monitor managing them.
func (wm *WM) winToMon(win xproto.Window) *Monitor {
	if win == wm.Root.Id {
		if x, y, ok := wm.rootPointer(); ok {
			return wm.ptrToMon(x, y)
		}
		return wm.sel
	}
	for _, m := range wm.mons {
		if m.barWin != nil && win == m.barWin.Id {
			return m
		}
	}
	if c := wm.winToClient(win); c != nil {
		return c.mon
	}
	return wm.sel
}
