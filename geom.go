package main

// Geom describes a window or screen rectangle in root coordinates.
type Geom struct {
	X, Y          int
	Width, Height int
}

func (g Geom) Contains(x, y int) bool {
	return x >= g.X && x < g.X+g.Width &&
		y >= g.Y && y < g.Y+g.Height
}

func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

func abs(x int) int {
	if x >= 0 {
		return x
	}

	return -x
}

func snapcalc(n0, n1, e0, e1, snapdist int) int {
	var s0, s1 int

	if abs(e0-n0) <= snapdist {
		s0 = e0 - n0
	}

	if abs(e1-n1) <= snapdist {
		s1 = e1 - n1
	}

	if s0 != 0 && s1 != 0 {
		if abs(s0) < abs(s1) {
			return s0
		} else {
			return s1
		}
	} else if s0 != 0 {
		return s0
	} else if s1 != 0 {
		return s1
	}

	return 0
}
