package main

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
	log "github.com/sirupsen/logrus"

	"github.com/remyoudompheng/dwm/config"
)

const broken = "broken"

type drag struct {
	startX, startY int
	pressX, pressY int
}

// Client is a managed window. Its geometry is the last one pushed to
// the server, border excluded.
type Client struct {
	win  *xwindow.Window
	mon  *Monitor
	name string

	geom  Geom
	bw    int
	oldBW int
	tags  uint
	hints SizeHints

	isFloating bool
	isUrgent   bool
	isFixed    bool

	curDrag drag
}

// width and height of the window including its border.
func (c *Client) totalW() int { return c.geom.Width + 2*c.bw }
func (c *Client) totalH() int { return c.geom.Height + 2*c.bw }

func (c *Client) wm() *WM {
	return c.mon.wm
}

// resize applies the size hints to the requested geometry and, if the
// result differs from the current one, pushes it to the server.
// interact allows the client to leave its monitor as long as it stays
// on the screen.
func (c *Client) resize(g Geom, interact bool) {
	wm := c.wm()
	bound := c.mon.screen
	if interact {
		bound = Geom{0, 0, wm.screenW, wm.screenH}
	}
	honor := wm.Config.ResizeHints || c.isFloating || !c.mon.layout().Tiling()
	g = applySizeHints(g, c.bw, c.hints, bound, wm.barH, honor)
	if g == c.geom {
		return
	}
	c.geom = g
	c.push()
}

// push sends the stored geometry and border width to the server,
// followed by the synthetic ConfigureNotify ICCCM asks for.
func (c *Client) push() {
	if c.win == nil {
		return
	}
	xproto.ConfigureWindow(c.win.X.Conn(), c.win.Id,
		xproto.ConfigWindowX|xproto.ConfigWindowY|
			xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|
			xproto.ConfigWindowBorderWidth,
		[]uint32{
			uint32(c.geom.X), uint32(c.geom.Y),
			uint32(c.geom.Width), uint32(c.geom.Height),
			uint32(c.bw),
		})
	c.sendConfigure()
}

// sendConfigure tells the client where its window ended up without
// waiting for the server to do so. Required when a configure request
// is answered with an unchanged geometry.
func (c *Client) sendConfigure() {
	ev := xproto.ConfigureNotifyEvent{
		Event:            c.win.Id,
		Window:           c.win.Id,
		AboveSibling:     xevent.NoWindow,
		X:                int16(c.geom.X),
		Y:                int16(c.geom.Y),
		Width:            uint16(c.geom.Width),
		Height:           uint16(c.geom.Height),
		BorderWidth:      uint16(c.bw),
		OverrideRedirect: false,
	}
	xproto.SendEvent(c.win.X.Conn(), false, c.win.Id,
		xproto.EventMaskStructureNotify, string(ev.Bytes()))
}

func (c *Client) setBorderColor(color uint32) {
	c.win.Change(xproto.CwBorderPixel, color)
}

func (c *Client) setState(state int) {
	should(icccm.WmStateSet(c.win.X, c.win.Id, &icccm.WmState{State: uint(state)}))
}

func (c *Client) raise() {
	c.win.Stack(xproto.StackModeAbove)
}

func (c *Client) updateTitle() {
	name, err := ewmh.WmNameGet(c.win.X, c.win.Id)
	if name == "" || err != nil {
		name, _ = icccm.WmNameGet(c.win.X, c.win.Id)
	}
	if name == "" {
		name = broken
	}
	c.name = name
}

func (c *Client) updateSizeHints() {
	var h SizeHints
	size, err := icccm.WmNormalHintsGet(c.win.X, c.win.Id)
	if err != nil {
		size = &icccm.NormalHints{}
	}
	switch {
	case size.Flags&icccm.SizeHintPBaseSize > 0:
		h.BaseW, h.BaseH = int(size.BaseWidth), int(size.BaseHeight)
	case size.Flags&icccm.SizeHintPMinSize > 0:
		h.BaseW, h.BaseH = int(size.MinWidth), int(size.MinHeight)
	}
	if size.Flags&icccm.SizeHintPResizeInc > 0 {
		h.IncW, h.IncH = int(size.WidthInc), int(size.HeightInc)
	}
	if size.Flags&icccm.SizeHintPMaxSize > 0 {
		h.MaxW, h.MaxH = int(size.MaxWidth), int(size.MaxHeight)
	}
	switch {
	case size.Flags&icccm.SizeHintPMinSize > 0:
		h.MinW, h.MinH = int(size.MinWidth), int(size.MinHeight)
	case size.Flags&icccm.SizeHintPBaseSize > 0:
		h.MinW, h.MinH = int(size.BaseWidth), int(size.BaseHeight)
	}
	if size.Flags&icccm.SizeHintPAspect > 0 && size.MinAspectDen > 0 && size.MaxAspectDen > 0 {
		h.MinAspect = float64(size.MinAspectNum) / float64(size.MinAspectDen)
		h.MaxAspect = float64(size.MaxAspectNum) / float64(size.MaxAspectDen)
	}
	c.hints = h
	c.isFixed = h.Fixed()
}

func (c *Client) updateWMHints() {
	hints, err := icccm.WmHintsGet(c.win.X, c.win.Id)
	if err != nil {
		return
	}
	if c == c.wm().sel.sel && hints.Flags&icccm.HintUrgency > 0 {
		// The focused window does not get to nag.
		hints.Flags &^= icccm.HintUrgency
		should(icccm.WmHintsSet(c.win.X, c.win.Id, hints))
	} else {
		c.isUrgent = hints.Flags&icccm.HintUrgency > 0
	}
}

func (c *Client) clearUrgent() {
	c.isUrgent = false
	hints, err := icccm.WmHintsGet(c.win.X, c.win.Id)
	if err != nil {
		return
	}
	hints.Flags &^= icccm.HintUrgency
	should(icccm.WmHintsSet(c.win.X, c.win.Id, hints))
}

func (c *Client) kill() {
	c.wm().killWindow(c.win.Id)
}

// killWindow closes a window via WM_DELETE_WINDOW if its client
// speaks the protocol and destroys its connection otherwise.
func (wm *WM) killWindow(win xproto.Window) {
	xu := wm.X
	protocols, _ := icccm.WmProtocolsGet(xu, win)
	for _, p := range protocols {
		if p != "WM_DELETE_WINDOW" {
			continue
		}
		protoAtom, err := xprop.Atm(xu, "WM_PROTOCOLS")
		if err != nil {
			should(err)
			return
		}
		deleteAtom, err := xprop.Atm(xu, "WM_DELETE_WINDOW")
		if err != nil {
			should(err)
			return
		}
		cm, err := xevent.NewClientMessage(32, win, protoAtom,
			int(deleteAtom), int(xproto.TimeCurrentTime))
		if err != nil {
			should(err)
			return
		}
		xproto.SendEvent(xu.Conn(), false, win,
			xproto.EventMaskNoEvent, string(cm.Bytes()))
		return
	}
	xproto.GrabServer(xu.Conn())
	xproto.SetCloseDownMode(xu.Conn(), xproto.CloseDownDestroyAll)
	xproto.KillClient(xu.Conn(), uint32(win))
	xproto.UngrabServer(xu.Conn())
}

// applyRules derives the initial tags, floating state and monitor
// from the configured rules, matching substrings of WM_CLASS and the
// window title.
func (wm *WM) applyRules(c *Client) {
	c.isFloating = false
	c.tags = 0
	class := broken
	instance := broken
	if ch, err := icccm.WmClassGet(wm.X, c.win.Id); err == nil {
		if ch.Class != "" {
			class = ch.Class
		}
		if ch.Instance != "" {
			instance = ch.Instance
		}
	}
	for _, r := range wm.Config.Rules {
		if (r.Title == "" || strings.Contains(c.name, r.Title)) &&
			(r.Class == "" || strings.Contains(class, r.Class)) &&
			(r.Instance == "" || strings.Contains(instance, r.Instance)) {
			c.isFloating = r.Floating
			c.tags |= r.Tags
			for _, m := range wm.mons {
				if m.num == r.Monitor {
					c.mon = m
				}
			}
		}
	}
	c.tags &= wm.Config.TagMask()
	if c.tags == 0 {
		c.tags = c.mon.tagset[c.mon.selTags]
	}
}

func (wm *WM) winToClient(win xproto.Window) *Client {
	for _, m := range wm.mons {
		for _, c := range m.clients {
			if c.win.Id == win {
				return c
			}
		}
	}
	return nil
}

// manage starts managing a map-requested or pre-existing window.
func (wm *WM) manage(win xproto.Window) {
	if wm.winToClient(win) != nil {
		return
	}
	c := &Client{win: xwindow.New(wm.X, win)}
	c.updateTitle()
	log.Debugf("managing window %d (%s)", win, c.name)

	trans, transErr := icccm.WmTransientForGet(wm.X, win)
	if t := wm.winToClient(trans); t != nil {
		c.mon = t.mon
		c.tags = t.tags
	} else {
		c.mon = wm.sel
		wm.applyRules(c)
	}

	geo, err := xproto.GetGeometry(wm.X.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		log.Warnf("no geometry for window %d, not managing: %v", win, err)
		return
	}
	c.geom = Geom{
		X:      int(geo.X) + c.mon.area.X,
		Y:      int(geo.Y) + c.mon.area.Y,
		Width:  int(geo.Width),
		Height: int(geo.Height),
	}
	c.oldBW = int(geo.BorderWidth)

	if c.geom.Width == c.mon.screen.Width && c.geom.Height == c.mon.screen.Height {
		// Fullscreen sized windows cover the monitor, borderless.
		c.geom.X = c.mon.screen.X
		c.geom.Y = c.mon.screen.Y
		c.bw = 0
	} else {
		scr := c.mon.screen
		if c.geom.X+c.totalW() > scr.X+scr.Width {
			c.geom.X = scr.X + scr.Width - c.totalW()
		}
		if c.geom.Y+c.totalH() > scr.Y+scr.Height {
			c.geom.Y = scr.Y + scr.Height - c.totalH()
		}
		c.geom.X = max(c.geom.X, scr.X)
		// Keep the titlebar area below a top bar.
		minY := scr.Y
		if c.mon.barY == scr.Y && c.geom.X+c.geom.Width/2 >= c.mon.area.X &&
			c.geom.X+c.geom.Width/2 < c.mon.area.X+c.mon.area.Width {
			minY = scr.Y + wm.barH
		}
		c.geom.Y = max(c.geom.Y, minY)
		c.bw = wm.Config.BorderWidth
	}

	xproto.ConfigureWindow(wm.X.Conn(), win, xproto.ConfigWindowBorderWidth,
		[]uint32{uint32(c.bw)})
	c.setBorderColor(wm.Config.NormBorder)
	c.sendConfigure()
	c.updateSizeHints()
	should(c.win.Listen(xproto.EventMaskEnterWindow, xproto.EventMaskFocusChange,
		xproto.EventMaskPropertyChange, xproto.EventMaskStructureNotify))
	wm.connectClient(c)
	wm.bindClientButtons(c)
	if !c.isFloating {
		c.isFloating = transErr == nil && trans != 0 || c.isFixed
	}
	if c.isFloating {
		c.raise()
	}
	c.mon.attach(c)
	c.mon.attachStack(c)

	// Park the window offscreen before mapping; arrange moves it into
	// place and avoids flicker on hidden tags.
	xproto.ConfigureWindow(wm.X.Conn(), win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|
			xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{
			uint32(c.geom.X + 2*wm.screenW), uint32(c.geom.Y),
			uint32(c.geom.Width), uint32(c.geom.Height),
		})
	c.win.Map()
	c.setState(icccm.StateNormal)
	wm.arrange(c.mon)
}

// unmanage forgets a client. destroyed tells whether the window is
// already gone from the server.
func (wm *WM) unmanage(c *Client, destroyed bool) {
	m := c.mon
	log.Debugf("unmanaging window %d (%s)", c.win.Id, c.name)
	m.detach(c)
	m.detachStack(c)
	if !destroyed {
		xu := c.win.X
		xproto.GrabServer(xu.Conn())
		xproto.ConfigureWindow(xu.Conn(), c.win.Id,
			xproto.ConfigWindowBorderWidth, []uint32{uint32(c.oldBW)})
		c.setState(icccm.StateWithdrawn)
		xproto.UngrabServer(xu.Conn())
	}
	c.win.Detach()
	wm.focus(nil)
	wm.arrange(m)
}

// sendMon moves a client to another monitor, retagging it to the
// target's current view.
func (wm *WM) sendMon(c *Client, m *Monitor) {
	if c.mon == m {
		return
	}
	wm.unfocus(c)
	c.mon.detach(c)
	c.mon.detachStack(c)
	c.mon = m
	c.tags = m.tagset[m.selTags]
	m.attach(c)
	m.attachStack(c)
	wm.focus(nil)
	wm.arrange(nil)
}

// bindClientButtons wires the configured client-window mouse bindings
// on a freshly managed window.
func (wm *WM) bindClientButtons(c *Client) {
	for _, b := range wm.Config.Buttons {
		if b.Click != config.ClickClientWin {
			continue
		}
		switch b.Cmd {
		case "movemouse":
			mousebind.Drag(wm.X, c.win.Id, c.win.Id, b.Seq, true,
				c.moveBegin, c.moveStep, c.moveEnd)
		case "resizemouse":
			mousebind.Drag(wm.X, c.win.Id, c.win.Id, b.Seq, true,
				c.resizeBegin, c.resizeStep, c.resizeEnd)
		default:
			b := b
			fn := func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
				if cmd, ok := commands[b.Cmd]; ok {
					cmd(wm, &b.Arg)
				}
			}
			should(mousebind.ButtonPressFun(fn).Connect(wm.X, c.win.Id, b.Seq, false, true))
		}
	}
}

func (c *Client) moveBegin(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
	wm := c.wm()
	wm.restack(wm.sel)
	c.curDrag = drag{c.geom.X, c.geom.Y, rootX, rootY}
	return true, wm.Cursors["fleur"]
}

func (c *Client) moveStep(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	wm := c.wm()
	m := wm.sel
	snap := wm.Config.Snap
	nx := c.curDrag.startX + rootX - c.curDrag.pressX
	ny := c.curDrag.startY + rootY - c.curDrag.pressY
	if snap > 0 && m.area.Contains(nx, ny) {
		nx += snapcalc(nx, nx+c.totalW(), m.area.X, m.area.X+m.area.Width, snap)
		ny += snapcalc(ny, ny+c.totalH(), m.area.Y, m.area.Y+m.area.Height, snap)
		if !c.isFloating && m.layout().Tiling() &&
			(abs(nx-c.geom.X) > snap || abs(ny-c.geom.Y) > snap) {
			wm.toggleFloating(c)
		}
	}
	if !m.layout().Tiling() || c.isFloating {
		c.resize(Geom{nx, ny, c.geom.Width, c.geom.Height}, true)
	}
}

func (c *Client) moveEnd(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	c.wm().dragFinish(c)
}

func (c *Client) resizeBegin(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) (bool, xproto.Cursor) {
	wm := c.wm()
	wm.restack(wm.sel)
	c.curDrag = drag{c.geom.X, c.geom.Y, rootX, rootY}
	xproto.WarpPointer(wm.X.Conn(), xproto.WindowNone, c.win.Id, 0, 0, 0, 0,
		int16(c.geom.Width+c.bw-1), int16(c.geom.Height+c.bw-1))
	return true, wm.Cursors["sizing"]
}

func (c *Client) resizeStep(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	wm := c.wm()
	m := wm.sel
	snap := wm.Config.Snap
	nw := max(rootX-c.geom.X-2*c.bw+1, 1)
	nh := max(rootY-c.geom.Y-2*c.bw+1, 1)
	if c.mon.area.X+nw >= m.area.X && c.mon.area.X+nw <= m.area.X+m.area.Width &&
		c.mon.area.Y+nh >= m.area.Y && c.mon.area.Y+nh <= m.area.Y+m.area.Height {
		if !c.isFloating && m.layout().Tiling() &&
			(abs(nw-c.geom.Width) > snap || abs(nh-c.geom.Height) > snap) {
			wm.toggleFloating(c)
		}
	}
	if !m.layout().Tiling() || c.isFloating {
		c.resize(Geom{c.geom.X, c.geom.Y, nw, nh}, true)
	}
}

func (c *Client) resizeEnd(xu *xgbutil.XUtil, rootX, rootY, eventX, eventY int) {
	wm := c.wm()
	xproto.WarpPointer(wm.X.Conn(), xproto.WindowNone, c.win.Id, 0, 0, 0, 0,
		int16(c.geom.Width+c.bw-1), int16(c.geom.Height+c.bw-1))
	wm.dragFinish(c)
}

// dragFinish migrates the client if the drag left it centered on
// another monitor.
func (wm *WM) dragFinish(c *Client) {
	m := wm.ptrToMon(c.geom.X+c.geom.Width/2, c.geom.Y+c.geom.Height/2)
	if m != wm.sel {
		wm.sendMon(c, m)
		wm.sel = m
		wm.focus(nil)
	}
}
