package main

import (
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xcursor"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
	log "github.com/sirupsen/logrus"

	"github.com/remyoudompheng/dwm/config"
	"github.com/remyoudompheng/dwm/draw"
)

// WM holds the global window manager state: the X connection, the
// monitors and their clients, and the resources shared between them.
type WM struct {
	X      *xgbutil.XUtil
	Root   *xwindow.Window
	Config *config.Config

	Cursors map[string]xproto.Cursor
	font    xproto.Font
	fontH   int
	barH    int

	screenW int
	screenH int
	mons    []*Monitor
	sel     *Monitor
	status  string

	netWMName xproto.Atom
	checkWin  *xwindow.Window

	fsMu sync.RWMutex
	snap *snapshot
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func should(err error) {
	if err != nil {
		log.Error(err)
	}
}

func NewWM(xu *xgbutil.XUtil, cfg *config.Config) *WM {
	return &WM{
		X:       xu,
		Config:  cfg,
		Cursors: map[string]xproto.Cursor{},
		status:  "dwm-" + version,
	}
}

// Init claims the root window and sets up every global resource. It
// fails if another window manager is already running on the display.
func (wm *WM) Init() error {
	keybind.Initialize(wm.X)
	mousebind.Initialize(wm.X)

	scr := wm.X.Screen()
	wm.screenW = int(scr.WidthInPixels)
	wm.screenH = int(scr.HeightInPixels)
	wm.Root = xwindow.New(wm.X, wm.X.RootWin())

	for name, shape := range map[string]uint16{
		"normal": xcursor.LeftPtr,
		"fleur":  xcursor.Fleur,
		"sizing": xcursor.Sizing,
	} {
		cur, err := xcursor.CreateCursor(wm.X, shape)
		if err != nil {
			return err
		}
		wm.Cursors[name] = cur
	}

	err := wm.Root.Listen(
		xproto.EventMaskSubstructureRedirect,
		xproto.EventMaskSubstructureNotify,
		xproto.EventMaskStructureNotify,
		xproto.EventMaskButtonPress,
		xproto.EventMaskEnterWindow,
		xproto.EventMaskLeaveWindow,
		xproto.EventMaskPropertyChange)
	if err != nil {
		log.Fatalf("could not select events on the root window, "+
			"is another window manager running? (%v)", err)
	}
	wm.Root.Change(xproto.CwCursor, uint32(wm.Cursors["normal"]))

	if err := wm.openFont(wm.Config.Font); err != nil {
		log.Warnf("could not open font %q, falling back to fixed: %v",
			wm.Config.Font, err)
		if err := wm.openFont("fixed"); err != nil {
			return err
		}
	}
	wm.barH = wm.fontH + 2

	wm.netWMName, err = xprop.Atm(wm.X, "_NET_WM_NAME")
	if err != nil {
		return err
	}

	xevent.ErrorHandlerSet(wm.X, wm.xError)

	wm.updateGeom()
	wm.updateBars()
	wm.updateStatus()
	wm.announce()
	wm.bindKeys()
	wm.connectRoot()
	wm.focus(nil)
	return nil
}

func (wm *WM) openFont(name string) error {
	font, err := xproto.NewFontId(wm.X.Conn())
	if err != nil {
		return err
	}
	err = xproto.OpenFontChecked(wm.X.Conn(), font, uint16(len(name)), name).Check()
	if err != nil {
		return err
	}
	ascent, descent, err := draw.FontMetrics(wm.X, font)
	if err != nil {
		return err
	}
	wm.font = font
	wm.fontH = ascent + descent
	return nil
}

// announce publishes the EWMH properties that advertise a compliant
// window manager.
func (wm *WM) announce() {
	win, err := xwindow.Create(wm.X, wm.Root.Id)
	if err != nil {
		should(err)
		return
	}
	wm.checkWin = win
	should(ewmh.SupportingWmCheckSet(wm.X, wm.Root.Id, win.Id))
	should(ewmh.SupportingWmCheckSet(wm.X, win.Id, win.Id))
	should(ewmh.WmNameSet(wm.X, win.Id, "dwm"))
	should(ewmh.SupportedSet(wm.X, []string{
		"_NET_SUPPORTED",
		"_NET_SUPPORTING_WM_CHECK",
		"_NET_WM_NAME",
		"_NET_ACTIVE_WINDOW",
		"_NET_NUMBER_OF_DESKTOPS",
		"_NET_CURRENT_DESKTOP",
		"_NET_DESKTOP_VIEWPORT",
	}))
	should(ewmh.NumberOfDesktopsSet(wm.X, uint(len(wm.Config.Tags))))
	should(ewmh.CurrentDesktopSet(wm.X, 0))
	should(ewmh.DesktopViewportSet(wm.X, nil))
}

func (wm *WM) bindKeys() {
	for _, k := range wm.Config.Keys {
		k := k
		fn, ok := commands[k.Cmd]
		if !ok {
			log.Errorf("key %s bound to unknown command %q", k.Seq, k.Cmd)
			continue
		}
		err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
			fn(wm, &k.Arg)
		}).Connect(wm.X, wm.Root.Id, k.Seq, true)
		if err != nil {
			log.Errorf("could not bind key %s: %v", k.Seq, err)
		}
	}
}

// scan adopts the windows that were already mapped when the manager
// started. Transients go second so their parents exist when they are
// placed.
func (wm *WM) scan() {
	tree, err := xproto.QueryTree(wm.X.Conn(), wm.Root.Id).Reply()
	if err != nil {
		should(err)
		return
	}
	adoptable := func(win xproto.Window) bool {
		attrs, err := xproto.GetWindowAttributes(wm.X.Conn(), win).Reply()
		if err != nil || attrs.OverrideRedirect {
			return false
		}
		if attrs.MapState == xproto.MapStateViewable {
			return true
		}
		state, err := icccm.WmStateGet(wm.X, win)
		return err == nil && state.State == icccm.StateIconic
	}
	for _, win := range tree.Children {
		if trans, err := icccm.WmTransientForGet(wm.X, win); err == nil && trans != 0 {
			continue
		}
		if adoptable(win) {
			wm.manage(win)
		}
	}
	for _, win := range tree.Children {
		trans, err := icccm.WmTransientForGet(wm.X, win)
		if err != nil || trans == 0 {
			continue
		}
		if adoptable(win) {
			wm.manage(win)
		}
	}
}

func (wm *WM) rootPointer() (x, y int, ok bool) {
	ptr, err := xproto.QueryPointer(wm.X.Conn(), wm.Root.Id).Reply()
	if err != nil {
		return 0, 0, false
	}
	return int(ptr.RootX), int(ptr.RootY), true
}

// xError filters the asynchronous errors that are part of normal
// operation: requests against windows that vanished mid-flight, and
// focus or drawing calls racing an unmap. Everything else is logged
// and ignored; only the startup Access check is fatal.
func (wm *WM) xError(err xgb.Error) {
	switch e := err.(type) {
	case xproto.WindowError:
		return
	case xproto.DrawableError:
		return
	case xproto.MatchError:
		switch e.MajorOpcode {
		case 12, 42: // ConfigureWindow, SetInputFocus
			return
		}
	case xproto.AccessError:
		switch e.MajorOpcode {
		case 28, 33: // GrabButton, GrabKey
			return
		}
	}
	log.Errorf("x error: %v", err)
}

// Run enters the event loop and blocks until quit.
func (wm *WM) Run() {
	xevent.Main(wm.X)
}
