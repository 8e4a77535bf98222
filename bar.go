package main

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/remyoudompheng/dwm/config"
	"github.com/remyoudompheng/dwm/draw"
)

// barDrawable adapts a monitor's bar window to the draw package.
type barDrawable struct {
	m  *Monitor
	xu *xgbutil.XUtil
}

func (b barDrawable) GCs() draw.GCs      { return b.m.gcs }
func (b barDrawable) Win() xproto.Window { return b.m.barWin.Id }
func (b barDrawable) X() *xgbutil.XUtil  { return b.xu }

// textW returns the bar segment width of a string: its rendered width
// plus the font height as horizontal padding.
func (wm *WM) textW(s string) int {
	w, err := draw.TextWidth(wm.X, wm.font, s)
	if err != nil {
		should(err)
		return wm.fontH
	}
	return w + wm.fontH
}

// updateBars creates a bar window per monitor, or resizes the
// existing ones after a geometry change.
func (wm *WM) updateBars() {
	for _, m := range wm.mons {
		if m.barWin != nil {
			m.barWin.MoveResize(m.area.X, m.barY, m.area.Width, wm.barH)
			continue
		}
		win, err := xwindow.Generate(wm.X)
		if err != nil {
			must(err)
		}
		err = win.CreateChecked(wm.Root.Id, m.area.X, m.barY, m.area.Width, wm.barH,
			xproto.CwBackPixmap|xproto.CwOverrideRedirect|xproto.CwEventMask,
			xproto.BackPixmapParentRelative, 1,
			xproto.EventMaskButtonPress|xproto.EventMaskExposure)
		must(err)
		win.Change(xproto.CwCursor, uint32(wm.Cursors["normal"]))
		m.barWin = win

		m := m
		xevent.ExposeFun(func(xu *xgbutil.XUtil, ev xevent.ExposeEvent) {
			if ev.Count == 0 {
				wm.drawBar(m)
			}
		}).Connect(wm.X, win.Id)
		xevent.ButtonPressFun(func(xu *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
			wm.barButtonPress(m, ev)
		}).Connect(wm.X, win.Id)

		win.Map()
		win.Stack(xproto.StackModeAbove)
	}
}

// classifyBarClick maps an x coordinate inside the bar to the region
// it hits. The returned tag index is meaningful only for the tag bar.
func classifyBarClick(ex, ww int, tagWidths []int, ltW, statusW int) (config.Click, int) {
	x := 0
	for i, w := range tagWidths {
		x += w
		if ex < x {
			return config.ClickTagBar, i
		}
	}
	if ex < x+ltW {
		return config.ClickLtSymbol, -1
	}
	if ex > ww-statusW {
		return config.ClickStatusText, -1
	}
	return config.ClickWinTitle, -1
}

func (wm *WM) barButtonPress(m *Monitor, ev xevent.ButtonPressEvent) {
	if m != wm.sel {
		wm.unfocus(wm.sel.sel)
		wm.sel = m
		wm.focus(nil)
	}

	tagWidths := make([]int, len(wm.Config.Tags))
	for i, t := range wm.Config.Tags {
		tagWidths[i] = wm.textW(t)
	}
	click, tag := classifyBarClick(int(ev.EventX), m.area.Width,
		tagWidths, wm.textW(m.ltSymbol), wm.textW(wm.status))
	wm.dispatchButtons(click, tag, ev)
}

// dispatchButtons runs the configured commands bound to a button
// press in the given click region. For tag cells, a binding without
// an explicit argument acts on the clicked tag.
func (wm *WM) dispatchButtons(click config.Click, tag int, ev xevent.ButtonPressEvent) {
	for _, b := range wm.Config.Buttons {
		if b.Click != click {
			continue
		}
		mods, button, err := mousebind.ParseString(wm.X, b.Seq)
		if err != nil {
			should(err)
			continue
		}
		if button != ev.Detail || mods != cleanMods(ev.State) {
			continue
		}
		arg := b.Arg
		if click == config.ClickTagBar && arg.UInt == 0 {
			arg.UInt = 1 << uint(tag)
		}
		if fn, ok := commands[b.Cmd]; ok {
			fn(wm, &arg)
		}
	}
}

// cleanMods strips the lock modifiers from an event state so bindings
// fire regardless of caps and num lock.
func cleanMods(state uint16) uint16 {
	return state &^ (xproto.ModMaskLock | xproto.ModMask2)
}

// drawText fills a bar segment and renders text into it, truncated
// with dots when it overflows.
func (wm *WM) drawText(d barDrawable, x, w int, text string, fg, bg uint32) {
	draw.Fill(d, x, 0, w, wm.barH, bg)
	if text == "" {
		return
	}
	pad := wm.fontH / 2
	runes := []rune(text)
	n := len(runes)
	for n > 0 {
		tw, err := draw.TextWidth(wm.X, wm.font, string(runes[:n]))
		if err != nil || tw <= w-wm.fontH {
			break
		}
		n--
	}
	if n == 0 {
		return
	}
	s := string(runes[:n])
	if n < len(runes) {
		dots := "..."
		if n < 3 {
			dots = dots[:n]
		}
		s = string(runes[:n-len(dots)]) + dots
	}
	y := (wm.barH - wm.fontH) / 2
	if _, err := draw.Text(d, s, wm.font, fg, bg, x+pad, y); err != nil {
		should(err)
	}
}

// drawSquare paints the little indicator square in a tag or title
// segment: filled for "selected client is here", outlined for
// "occupied" or "floating".
func (wm *WM) drawSquare(d barDrawable, x int, filled, empty bool, fg uint32) {
	s := (wm.fontH + 2) / 4
	if filled {
		draw.Fill(d, x+1, 1, s+1, s+1, fg)
	} else if empty {
		draw.Rect(d, x+1, 1, s, s, fg)
	}
}

// drawBar renders one monitor's bar: tag indicators, the layout
// symbol, the status text on the selected monitor, and the focused
// window's title.
func (wm *WM) drawBar(m *Monitor) {
	if m.barWin == nil {
		return
	}
	d := barDrawable{m, wm.X}
	cfg := wm.Config

	var occ, urg uint
	for _, c := range m.clients {
		occ |= c.tags
		if c.isUrgent {
			urg |= c.tags
		}
	}

	x := 0
	for i, tag := range cfg.Tags {
		w := wm.textW(tag)
		bit := uint(1) << uint(i)
		fg, bg := cfg.NormFG, cfg.NormBG
		if m.tagset[m.selTags]&bit != 0 {
			fg, bg = cfg.SelFG, cfg.SelBG
		}
		if urg&bit != 0 {
			fg, bg = bg, fg
		}
		wm.drawText(d, x, w, tag, fg, bg)
		filled := m == wm.sel && wm.sel.sel != nil && wm.sel.sel.tags&bit != 0
		wm.drawSquare(d, x, filled, occ&bit != 0, fg)
		x += w
	}
	ltW := wm.textW(m.ltSymbol)
	wm.drawText(d, x, ltW, m.ltSymbol, cfg.NormFG, cfg.NormBG)
	x += ltW

	right := m.area.Width
	if m == wm.sel {
		// Status is only drawn on the selected monitor.
		sw := wm.textW(wm.status)
		sx := m.area.Width - sw
		if sx < x {
			sx = x
			sw = m.area.Width - x
		}
		wm.drawText(d, sx, sw, wm.status, cfg.NormFG, cfg.NormBG)
		right = sx
	}

	if w := right - x; w > wm.barH {
		if m.sel != nil {
			fg, bg := cfg.NormFG, cfg.NormBG
			if m == wm.sel {
				fg, bg = cfg.SelFG, cfg.SelBG
			}
			wm.drawText(d, x, w, m.sel.name, fg, bg)
			wm.drawSquare(d, x, m.sel.isFixed, m.sel.isFloating, fg)
		} else {
			wm.drawText(d, x, w, "", cfg.NormFG, cfg.NormBG)
		}
	}
}

func (wm *WM) drawBars() {
	for _, m := range wm.mons {
		wm.drawBar(m)
	}
}

// updateStatus refreshes the status text from the root window's
// WM_NAME property.
func (wm *WM) updateStatus() {
	s, err := xprop.PropValStr(xprop.GetProperty(wm.X, wm.Root.Id, "WM_NAME"))
	if err != nil || s == "" {
		s = "dwm-" + version
	}
	wm.status = s
	wm.drawBar(wm.sel)
	wm.publish()
}

// setStatus writes the status text to the root window's WM_NAME
// property; the change flows back through PropertyNotify, so every
// writer sees the same path.
func (wm *WM) setStatus(s string) {
	xprop.ChangeProp(wm.X, wm.Root.Id, 8, "WM_NAME", "STRING", []byte(s))
}
