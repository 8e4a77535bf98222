// Package draw issues core-protocol drawing requests against a
// window, caching one graphics context per (window, attributes)
// combination.
package draw

import (
	"unicode/utf16"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

type gcSpec struct {
	mask uint32
	fg   uint32
	bg   uint32
	font xproto.Font
	win  xproto.Window
}

type GCs map[gcSpec]xproto.Gcontext

type Drawable interface {
	GCs() GCs
	Win() xproto.Window
	X() *xgbutil.XUtil
}

func gc(d Drawable, spec gcSpec, values []uint32) xproto.Gcontext {
	gcs := d.GCs()
	gc, ok := gcs[spec]
	if !ok {
		gc, _ = xproto.NewGcontextId(d.X().Conn())
		xproto.CreateGC(d.X().Conn(), gc, xproto.Drawable(d.Win()), spec.mask, values)
		gcs[spec] = gc
	}
	return gc
}

// Fill paints a solid rectangle.
func Fill(d Drawable, x, y, w, h int, fg uint32) {
	spec := gcSpec{
		mask: uint32(xproto.GcForeground),
		fg:   fg,
		win:  d.Win(),
	}
	xproto.PolyFillRectangle(d.X().Conn(), xproto.Drawable(d.Win()),
		gc(d, spec, []uint32{fg}),
		[]xproto.Rectangle{{X: int16(x), Y: int16(y), Width: uint16(w), Height: uint16(h)}})
}

// Rect paints a one pixel rectangle outline.
func Rect(d Drawable, x, y, w, h int, fg uint32) {
	spec := gcSpec{
		mask: uint32(xproto.GcForeground),
		fg:   fg,
		win:  d.Win(),
	}
	xproto.PolyRectangle(d.X().Conn(), xproto.Drawable(d.Win()),
		gc(d, spec, []uint32{fg}),
		[]xproto.Rectangle{{X: int16(x), Y: int16(y), Width: uint16(w), Height: uint16(h)}})
}

// Text renders text with its left edge at x and its baseline the
// font ascent below y. It returns the horizontal extent of what was
// drawn.
func Text(d Drawable, text string, font xproto.Font, fg, bg uint32, x, y int) (w int, err error) {
	spec := gcSpec{
		mask: uint32(xproto.GcForeground | xproto.GcBackground | xproto.GcFont),
		fg:   fg,
		bg:   bg,
		font: font,
		win:  d.Win(),
	}
	g := gc(d, spec, []uint32{fg, bg, uint32(font)})

	chars, n := toChar2b([]rune(text))
	ex, err := xproto.QueryTextExtents(d.X().Conn(), xproto.Fontable(font), chars, 0).Reply()
	if err != nil {
		return 0, err
	}

	y += int(ex.FontAscent)
	err = xproto.ImageText16Checked(d.X().Conn(), byte(n), xproto.Drawable(d.Win()), g,
		int16(x), int16(y), chars).Check()
	if err != nil {
		return 0, err
	}
	return int(ex.OverallRight), nil
}

// TextWidth measures the horizontal extent of text in the given font
// without drawing it.
func TextWidth(xu *xgbutil.XUtil, font xproto.Font, text string) (int, error) {
	chars, _ := toChar2b([]rune(text))
	ex, err := xproto.QueryTextExtents(xu.Conn(), xproto.Fontable(font), chars, 0).Reply()
	if err != nil {
		return 0, err
	}
	return int(ex.OverallRight), nil
}

// FontMetrics returns the ascent and descent of a font.
func FontMetrics(xu *xgbutil.XUtil, font xproto.Font) (ascent, descent int, err error) {
	ex, err := xproto.QueryTextExtents(xu.Conn(), xproto.Fontable(font), nil, 0).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(ex.FontAscent), int(ex.FontDescent), nil
}

func toChar2b(runes []rune) ([]xproto.Char2b, int) {
	ucs2 := utf16.Encode(runes)
	var chars []xproto.Char2b
	for _, r := range ucs2 {
		chars = append(chars, xproto.Char2b{Byte1: byte(r >> 8), Byte2: byte(r)})
	}
	return chars, len(runes)
}
