package main

import "math"

// SizeHints is the resolved form of a client's WM_NORMAL_HINTS
// property. Zero values mean "no constraint", matching the X11
// convention of absent hint fields.
type SizeHints struct {
	BaseW, BaseH         int
	IncW, IncH           int
	MinW, MinH           int
	MaxW, MaxH           int
	MinAspect, MaxAspect float64
}

// Fixed reports whether the hints pin the window to a single size.
func (h SizeHints) Fixed() bool {
	return h.MaxW != 0 && h.MinW != 0 && h.MaxH != 0 && h.MinH != 0 &&
		h.MaxW == h.MinW && h.MaxH == h.MinH
}

// applySizeHints resolves a requested geometry against the client's
// size hints and the containing region. bound is the whole screen for
// interactive resizes and the client's monitor otherwise; minDim is
// the smallest width and height ever handed to a client (the bar
// height). The hint constraints are only enforced when honor is set.
//
// The function is a pure transformation and, for hints whose maximum
// size lies on the increment grid, idempotent: feeding its result back
// in returns the same geometry. An off-grid maximum settles one
// increment below it on the second application and is stable from
// there, matching the historical resolution order.
func applySizeHints(g Geom, bw int, hints SizeHints, bound Geom, minDim int, honor bool) Geom {
	g.Width = max(1, g.Width)
	g.Height = max(1, g.Height)

	if g.X > bound.X+bound.Width {
		g.X = bound.X + bound.Width - (g.Width + 2*bw)
	}
	if g.Y > bound.Y+bound.Height {
		g.Y = bound.Y + bound.Height - (g.Height + 2*bw)
	}
	if g.X+g.Width+2*bw < bound.X {
		g.X = bound.X
	}
	if g.Y+g.Height+2*bw < bound.Y {
		g.Y = bound.Y
	}
	if g.Height < minDim {
		g.Height = minDim
	}
	if g.Width < minDim {
		g.Width = minDim
	}

	if !honor {
		return g
	}

	// ICCCM 4.1.2.3: if the base size doubles as the minimum size,
	// aspect ratios apply to the full size, but increments still
	// apply to the size with the base subtracted.
	baseIsMin := hints.BaseW == hints.MinW && hints.BaseH == hints.MinH
	if !baseIsMin {
		g.Width -= hints.BaseW
		g.Height -= hints.BaseH
	}
	if hints.MinAspect > 0 && hints.MaxAspect > 0 {
		if hints.MaxAspect < float64(g.Width)/float64(g.Height) {
			g.Width = int(math.Round(float64(g.Height) * hints.MaxAspect))
		} else if hints.MinAspect < float64(g.Height)/float64(g.Width) {
			g.Height = int(math.Round(float64(g.Width) * hints.MinAspect))
		}
	}
	if baseIsMin {
		g.Width -= hints.BaseW
		g.Height -= hints.BaseH
	}
	if hints.IncW > 0 {
		g.Width -= g.Width % hints.IncW
	}
	if hints.IncH > 0 {
		g.Height -= g.Height % hints.IncH
	}
	g.Width = max(g.Width+hints.BaseW, hints.MinW)
	g.Height = max(g.Height+hints.BaseH, hints.MinH)
	if hints.MaxW > 0 {
		g.Width = min(g.Width, hints.MaxW)
	}
	if hints.MaxH > 0 {
		g.Height = min(g.Height, hints.MaxH)
	}
	return g
}
