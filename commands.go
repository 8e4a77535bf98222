package main

import (
	"os/exec"
	"syscall"

	"github.com/BurntSushi/xgbutil/xevent"
	log "github.com/sirupsen/logrus"

	"github.com/remyoudompheng/dwm/config"
)

// commands maps the names usable in key and mouse bindings to their
// implementations. All of them act on the selected monitor.
var commands = map[string]func(wm *WM, arg *config.Arg){
	"view":           cmdView,
	"toggleview":     cmdToggleView,
	"viewnext":       cmdViewNext,
	"viewprev":       cmdViewPrev,
	"tag":            cmdTag,
	"toggletag":      cmdToggleTag,
	"setlayout":      cmdSetLayout,
	"setmfact":       cmdSetMfact,
	"togglebar":      cmdToggleBar,
	"togglefloating": cmdToggleFloating,
	"focusstack":     cmdFocusStack,
	"focusmon":       cmdFocusMon,
	"tagmon":         cmdTagMon,
	"zoom":           cmdZoom,
	"killclient":     cmdKillClient,
	"spawn":          cmdSpawn,
	"quit":           cmdQuit,
}

func cmdView(wm *WM, arg *config.Arg) {
	if wm.sel.view(arg.UInt & wm.Config.TagMask()) {
		wm.arrange(wm.sel)
	}
}

func cmdToggleView(wm *WM, arg *config.Arg) {
	if wm.sel.toggleView(arg.UInt & wm.Config.TagMask()) {
		wm.arrange(wm.sel)
	}
}

func cmdViewNext(wm *WM, arg *config.Arg) {
	wm.sel.viewNext(len(wm.Config.Tags))
	wm.arrange(wm.sel)
}

func cmdViewPrev(wm *WM, arg *config.Arg) {
	wm.sel.viewPrev(len(wm.Config.Tags))
	wm.arrange(wm.sel)
}

func cmdTag(wm *WM, arg *config.Arg) {
	tags := arg.UInt & wm.Config.TagMask()
	if wm.sel.sel == nil || tags == 0 {
		return
	}
	wm.sel.sel.tags = tags
	wm.arrange(wm.sel)
}

func cmdToggleTag(wm *WM, arg *config.Arg) {
	c := wm.sel.sel
	if c == nil {
		return
	}
	newtags := c.tags ^ (arg.UInt & wm.Config.TagMask())
	if newtags == 0 {
		// A window must stay on at least one tag.
		return
	}
	c.tags = newtags
	wm.arrange(wm.sel)
}

func cmdSetLayout(wm *WM, arg *config.Arg) {
	m := wm.sel
	var want Layout
	if len(arg.Str) > 0 {
		want = layouts[arg.Str[0]]
	}
	if want == nil || want != m.layout() {
		m.selLt ^= 1
	}
	if want != nil {
		m.lts[m.selLt] = want
	}
	m.ltSymbol = m.layout().Symbol(m)
	if m.sel != nil {
		wm.arrange(m)
	} else {
		wm.drawBar(m)
	}
}

func cmdSetMfact(wm *WM, arg *config.Arg) {
	if !wm.sel.layout().Tiling() {
		return
	}
	if wm.sel.setMfact(arg.Float) {
		wm.arrange(wm.sel)
	}
}

func cmdToggleBar(wm *WM, arg *config.Arg) {
	m := wm.sel
	m.showBar = !m.showBar
	m.updateBarPos(wm.barH)
	m.barWin.MoveResize(m.area.X, m.barY, m.area.Width, wm.barH)
	wm.arrange(m)
}

func cmdToggleFloating(wm *WM, arg *config.Arg) {
	wm.toggleFloating(wm.sel.sel)
}

func (wm *WM) toggleFloating(c *Client) {
	if c == nil {
		return
	}
	c.isFloating = !c.isFloating || c.isFixed
	if c.isFloating {
		c.resize(c.geom, false)
	}
	wm.arrange(c.mon)
}

func cmdFocusStack(wm *WM, arg *config.Arg) {
	m := wm.sel
	if m.sel == nil {
		return
	}
	idx := 0
	for i, c := range m.clients {
		if c == m.sel {
			idx = i
			break
		}
	}
	n := len(m.clients)
	var c *Client
	for i := 1; i <= n; i++ {
		j := (idx + i) % n
		if arg.Int < 0 {
			j = ((idx-i)%n + n) % n
		}
		cand := m.clients[j]
		if m.isVisible(cand) {
			c = cand
			break
		}
	}
	if c != nil {
		wm.focus(c)
		wm.restack(m)
	}
}

func cmdFocusMon(wm *WM, arg *config.Arg) {
	if len(wm.mons) < 2 {
		return
	}
	m := wm.dirToMon(arg.Int)
	wm.unfocus(wm.sel.sel)
	wm.sel = m
	wm.focus(nil)
}

func cmdTagMon(wm *WM, arg *config.Arg) {
	if wm.sel.sel == nil || len(wm.mons) < 2 {
		return
	}
	wm.sendMon(wm.sel.sel, wm.dirToMon(arg.Int))
}

// cmdZoom swaps the selected client with the master. Meaningless for
// floating clients and under the monocle layout.
func cmdZoom(wm *WM, arg *config.Arg) {
	m := wm.sel
	c := m.sel
	if !m.layout().Tiling() {
		return
	}
	if _, mono := m.layout().(monocleLayout); mono {
		return
	}
	if c == nil || c.isFloating {
		return
	}
	tiled := m.tiled()
	if len(tiled) > 0 && c == tiled[0] {
		if len(tiled) < 2 {
			return
		}
		c = tiled[1]
	}
	m.detach(c)
	m.attach(c)
	wm.focus(c)
	wm.arrange(c.mon)
}

func cmdKillClient(wm *WM, arg *config.Arg) {
	if wm.sel.sel != nil {
		wm.sel.sel.kill()
	}
}

func cmdSpawn(wm *WM, arg *config.Arg) {
	execute(arg.Str)
}

func cmdQuit(wm *WM, arg *config.Arg) {
	xevent.Quit(wm.X)
}

// execute starts a command in its own session so it survives the
// window manager.
func execute(argv []string) {
	if len(argv) == 0 {
		return
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		log.Warnf("could not execute %q: %v", argv[0], err)
		return
	}
	cmd.Process.Release()
}
