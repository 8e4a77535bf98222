package main

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/remyoudompheng/dwm/config"
)

// connectRoot wires all root window event handlers. Substructure
// redirection itself is requested in Init; this only attaches the
// callbacks.
func (wm *WM) connectRoot() {
	root := wm.Root.Id

	xevent.MapRequestFun(func(xu *xgbutil.XUtil, ev xevent.MapRequestEvent) {
		attrs, err := xproto.GetWindowAttributes(xu.Conn(), ev.Window).Reply()
		if err != nil || attrs.OverrideRedirect {
			return
		}
		wm.manage(ev.Window)
	}).Connect(wm.X, root)

	xevent.ConfigureRequestFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureRequestEvent) {
		wm.configureRequest(ev)
	}).Connect(wm.X, root)

	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		if ev.Window != root {
			return
		}
		resized := wm.screenW != int(ev.Width) || wm.screenH != int(ev.Height)
		wm.screenW = int(ev.Width)
		wm.screenH = int(ev.Height)
		if wm.updateGeom() || resized {
			wm.updateBars()
			wm.focus(nil)
			wm.arrange(nil)
		}
	}).Connect(wm.X, root)

	xevent.EnterNotifyFun(func(xu *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
		wm.enterNotify(ev)
	}).Connect(wm.X, root)

	xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		if m := wm.ptrToMon(int(ev.RootX), int(ev.RootY)); m != wm.sel {
			wm.unfocus(wm.sel.sel)
			wm.sel = m
			wm.focus(nil)
		}
		wm.dispatchButtons(config.ClickRootWin, -1, ev)
	}).Connect(wm.X, root)

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		if ev.Atom == xproto.AtomWmName {
			wm.updateStatus()
		}
	}).Connect(wm.X, root)
}

// connectClient wires the per-window event handlers of a freshly
// managed client.
func (wm *WM) connectClient(c *Client) {
	win := c.win.Id

	xevent.EnterNotifyFun(func(xu *xgbutil.XUtil, ev xevent.EnterNotifyEvent) {
		wm.enterNotify(ev)
	}).Connect(wm.X, win)

	xevent.FocusInFun(func(xu *xgbutil.XUtil, ev xevent.FocusInEvent) {
		// Reassert the focus against clients grabbing it for
		// themselves.
		if s := wm.sel.sel; s != nil && ev.Event != s.win.Id {
			xproto.SetInputFocus(wm.X.Conn(), xproto.InputFocusPointerRoot,
				s.win.Id, xproto.TimeCurrentTime)
		}
	}).Connect(wm.X, win)

	xevent.UnmapNotifyFun(func(xu *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		if c := wm.winToClient(ev.Window); c != nil {
			wm.unmanage(c, false)
		}
	}).Connect(wm.X, win)

	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		if c := wm.winToClient(ev.Window); c != nil {
			wm.unmanage(c, true)
		}
	}).Connect(wm.X, win)

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		wm.clientProperty(ev)
	}).Connect(wm.X, win)
}

func (wm *WM) enterNotify(ev xevent.EnterNotifyEvent) {
	if (ev.Mode != xproto.NotifyModeNormal || ev.Detail == xproto.NotifyDetailInferior) &&
		ev.Event != wm.Root.Id {
		return
	}
	c := wm.winToClient(ev.Event)
	var m *Monitor
	if c != nil {
		m = c.mon
	} else {
		m = wm.winToMon(ev.Event)
	}
	if m != wm.sel {
		wm.unfocus(wm.sel.sel)
		wm.sel = m
	} else if c == nil || c == wm.sel.sel {
		return
	}
	wm.focus(c)
}

func (wm *WM) clientProperty(ev xevent.PropertyNotifyEvent) {
	c := wm.winToClient(ev.Window)
	if c == nil {
		return
	}
	switch ev.Atom {
	case xproto.AtomWmTransientFor:
		if c.isFloating {
			break
		}
		trans, err := icccm.WmTransientForGet(wm.X, c.win.Id)
		if err == nil && wm.winToClient(trans) != nil {
			c.isFloating = true
			wm.arrange(c.mon)
		}
	case xproto.AtomWmNormalHints:
		c.updateSizeHints()
	case xproto.AtomWmHints:
		c.updateWMHints()
		wm.drawBars()
	case xproto.AtomWmName, wm.netWMName:
		c.updateTitle()
		if c == c.mon.sel {
			wm.drawBar(c.mon)
		}
	}
}

// configureRequest honors geometry requests from floating clients and
// from windows not managed at all; tiled clients only get their
// current geometry restated.
func (wm *WM) configureRequest(ev xevent.ConfigureRequestEvent) {
	c := wm.winToClient(ev.Window)
	if c == nil {
		// Not ours; mirror the request verbatim.
		var vals []uint32
		for _, f := range []struct {
			mask uint16
			val  uint32
		}{
			{xproto.ConfigWindowX, uint32(ev.X)},
			{xproto.ConfigWindowY, uint32(ev.Y)},
			{xproto.ConfigWindowWidth, uint32(ev.Width)},
			{xproto.ConfigWindowHeight, uint32(ev.Height)},
			{xproto.ConfigWindowBorderWidth, uint32(ev.BorderWidth)},
			{xproto.ConfigWindowSibling, uint32(ev.Sibling)},
			{xproto.ConfigWindowStackMode, uint32(ev.StackMode)},
		} {
			if ev.ValueMask&f.mask != 0 {
				vals = append(vals, f.val)
			}
		}
		xproto.ConfigureWindow(wm.X.Conn(), ev.Window, ev.ValueMask, vals)
		return
	}

	switch {
	case ev.ValueMask&xproto.ConfigWindowBorderWidth != 0:
		c.bw = int(ev.BorderWidth)
	case c.isFloating || !c.mon.layout().Tiling():
		m := c.mon
		if ev.ValueMask&xproto.ConfigWindowX != 0 {
			c.geom.X = m.screen.X + int(ev.X)
		}
		if ev.ValueMask&xproto.ConfigWindowY != 0 {
			c.geom.Y = m.screen.Y + int(ev.Y)
		}
		if ev.ValueMask&xproto.ConfigWindowWidth != 0 {
			c.geom.Width = int(ev.Width)
		}
		if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
			c.geom.Height = int(ev.Height)
		}
		if c.geom.X+c.totalW() > m.screen.X+m.screen.Width && c.isFloating {
			c.geom.X = m.screen.X + (m.screen.Width/2 - c.geom.Width/2)
		}
		if c.geom.Y+c.totalH() > m.screen.Y+m.screen.Height && c.isFloating {
			c.geom.Y = m.screen.Y + (m.screen.Height/2 - c.geom.Height/2)
		}
		moveOnly := ev.ValueMask&(xproto.ConfigWindowX|xproto.ConfigWindowY) != 0 &&
			ev.ValueMask&(xproto.ConfigWindowWidth|xproto.ConfigWindowHeight) == 0
		if moveOnly {
			c.sendConfigure()
		}
		if m.isVisible(c) {
			c.push()
		}
	default:
		c.sendConfigure()
	}
}
