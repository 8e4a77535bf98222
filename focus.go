package main

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// focus gives the input focus to c. Passing nil, or a client that is
// not visible, falls back to the most recently focused visible client
// on the selected monitor; with nothing to focus, the root window
// takes the input focus so keystrokes do not end up in a dead window.
func (wm *WM) focus(c *Client) {
	if c == nil || !c.mon.isVisible(c) {
		c = wm.sel.firstOnStack()
	}
	if wm.sel.sel != nil {
		wm.unfocus(wm.sel.sel)
	}
	if c != nil {
		if c.mon != wm.sel {
			wm.sel = c.mon
		}
		if c.isUrgent {
			c.clearUrgent()
		}
		// Move c to the top of the focus history.
		c.mon.detachStack(c)
		c.mon.attachStack(c)
		c.setBorderColor(wm.Config.SelBorder)
		xproto.SetInputFocus(wm.X.Conn(), xproto.InputFocusPointerRoot,
			c.win.Id, xproto.TimeCurrentTime)
		should(ewmh.ActiveWindowSet(wm.X, c.win.Id))
	} else {
		xproto.SetInputFocus(wm.X.Conn(), xproto.InputFocusPointerRoot,
			wm.Root.Id, xproto.TimeCurrentTime)
		should(ewmh.ActiveWindowSet(wm.X, 0))
	}
	wm.sel.sel = c
	wm.drawBars()
	wm.publish()
}

func (wm *WM) unfocus(c *Client) {
	if c == nil {
		return
	}
	c.setBorderColor(wm.Config.NormBorder)
	xproto.SetInputFocus(wm.X.Conn(), xproto.InputFocusPointerRoot,
		wm.Root.Id, xproto.TimeCurrentTime)
}

// restack enforces the stacking order on a monitor: the bar on top,
// the selected client raised when floating, and all tiled clients
// below the bar in focus order.
func (wm *WM) restack(m *Monitor) {
	wm.drawBar(m)
	if m.sel == nil {
		return
	}
	if m.sel.isFloating || !m.layout().Tiling() {
		m.sel.raise()
	}
	if m.layout().Tiling() {
		sibling := m.barWin.Id
		for _, c := range m.stack {
			if !c.isFloating && m.isVisible(c) {
				c.win.StackSibling(sibling, xproto.StackModeBelow)
				sibling = c.win.Id
			}
		}
	}
}

// showHide moves clients on selected tags into view and parks the
// rest offscreen. Visible clients are placed top of the focus order
// first, hidden ones bottom first, so the exposed intermediate states
// stay minimal.
func (wm *WM) showHide(m *Monitor) {
	for _, c := range m.stack {
		if !m.isVisible(c) {
			continue
		}
		c.win.Move(c.geom.X, c.geom.Y)
		if c.isFloating || !m.layout().Tiling() {
			c.resize(c.geom, false)
		}
	}
	for i := len(m.stack) - 1; i >= 0; i-- {
		c := m.stack[i]
		if !m.isVisible(c) {
			c.win.Move(c.geom.X+2*wm.screenW, c.geom.Y)
		}
	}
}

// arrange recomputes client visibility and layout for one monitor, or
// for all of them when m is nil.
func (wm *WM) arrange(m *Monitor) {
	if m != nil {
		wm.showHide(m)
	} else {
		for _, m := range wm.mons {
			wm.showHide(m)
		}
	}
	wm.focus(nil)
	if m != nil {
		wm.arrangeMon(m)
	} else {
		for _, m := range wm.mons {
			wm.arrangeMon(m)
		}
	}
	wm.publish()
}

func (wm *WM) arrangeMon(m *Monitor) {
	m.ltSymbol = m.layout().Symbol(m)
	m.layout().Arrange(m)
	wm.restack(m)
}
