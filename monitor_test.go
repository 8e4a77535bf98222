package main

import (
	"math"
	"testing"
)

func TestAttachDetach(t *testing.T) {
	_, m := testWM(1000, 800)
	a := addClient(m)
	b := addClient(m)
	if len(m.clients) != 2 || m.clients[0] != b || m.clients[1] != a {
		t.Fatalf("attach must insert at the head of the tiling order")
	}
	m.detach(a)
	m.detach(a) // removing twice is a no-op
	if len(m.clients) != 1 || m.clients[0] != b {
		t.Fatalf("detach left %d clients", len(m.clients))
	}
}

func TestDetachStackSelection(t *testing.T) {
	_, m := testWM(1000, 800)
	a := addClient(m)
	b := addClient(m)
	m.sel = b
	m.detachStack(b)
	if m.sel != a {
		t.Fatalf("selection should fall back to the next visible client")
	}
	m.detachStack(a)
	if m.sel != nil {
		t.Fatalf("selection should clear with no clients left")
	}
}

func TestDetachStackSkipsHidden(t *testing.T) {
	_, m := testWM(1000, 800)
	hidden := addClient(m)
	hidden.tags = 2 // not in the viewed tag set
	sel := addClient(m)
	m.sel = sel
	m.detachStack(sel)
	if m.sel != nil {
		t.Fatalf("selection fell back to a hidden client")
	}
}

func TestViewFlipBack(t *testing.T) {
	_, m := testWM(1000, 800)
	if !m.view(1 << 3) {
		t.Fatalf("switching to a new tag set must report a change")
	}
	if m.tagset[m.selTags] != 1<<3 {
		t.Fatalf("viewed tags %#x, want %#x", m.tagset[m.selTags], 1<<3)
	}
	if m.view(1 << 3) {
		t.Fatalf("switching to the current tag set must be a no-op")
	}
	// view(0) returns to the previously viewed tags.
	if !m.view(0) {
		t.Fatalf("flip-back must report a change")
	}
	if m.tagset[m.selTags] != 1 {
		t.Fatalf("flip-back landed on %#x, want 1", m.tagset[m.selTags])
	}
}

func TestToggleViewRejectsEmpty(t *testing.T) {
	_, m := testWM(1000, 800)
	if m.toggleView(1) {
		t.Fatalf("toggling away the last visible tag must be rejected")
	}
	if m.tagset[m.selTags] != 1 {
		t.Fatalf("rejected toggle still changed the tag set")
	}
	if !m.toggleView(2) {
		t.Fatalf("adding a tag must succeed")
	}
	if m.tagset[m.selTags] != 3 {
		t.Fatalf("viewed tags %#x, want 3", m.tagset[m.selTags])
	}
}

func TestViewNextPrevRotation(t *testing.T) {
	_, m := testWM(1000, 800)
	ntags := 9
	m.tagset[m.selTags] = 1 << 8
	m.viewNext(ntags)
	if m.tagset[m.selTags] != 1 {
		t.Fatalf("viewNext did not wrap: %#x", m.tagset[m.selTags])
	}
	m.viewPrev(ntags)
	if m.tagset[m.selTags] != 1<<8 {
		t.Fatalf("viewPrev did not undo viewNext: %#x", m.tagset[m.selTags])
	}

	// Multi-tag views rotate as a whole.
	m.tagset[m.selTags] = 1 | 1<<4
	m.viewNext(ntags)
	if m.tagset[m.selTags] != 2|1<<5 {
		t.Fatalf("multi-tag rotation gave %#x", m.tagset[m.selTags])
	}
}

func TestSetMfact(t *testing.T) {
	_, m := testWM(1000, 800)
	if !m.setMfact(0.05) {
		t.Fatalf("relative adjustment rejected")
	}
	if math.Abs(m.mfact-0.6) > 1e-9 {
		t.Fatalf("mfact %f, want 0.6", m.mfact)
	}
	if !m.setMfact(1.25) {
		t.Fatalf("absolute adjustment rejected")
	}
	if m.mfact != 0.25 {
		t.Fatalf("mfact %f, want 0.25", m.mfact)
	}
	if m.setMfact(-0.2) {
		t.Fatalf("adjustment below 0.1 must be rejected")
	}
	if m.mfact != 0.25 {
		t.Fatalf("rejected adjustment changed mfact to %f", m.mfact)
	}
}

func TestUpdateBarPos(t *testing.T) {
	wm, m := testWM(1000, 800)
	if m.barY != 0 || m.area.Y != wm.barH || m.area.Height != 800-wm.barH {
		t.Fatalf("top bar layout wrong: barY=%d area=%v", m.barY, m.area)
	}
	m.topBar = false
	m.updateBarPos(wm.barH)
	if m.barY != 800-wm.barH || m.area.Y != 0 {
		t.Fatalf("bottom bar layout wrong: barY=%d area=%v", m.barY, m.area)
	}
	m.showBar = false
	m.updateBarPos(wm.barH)
	if m.area != m.screen || m.barY != -wm.barH {
		t.Fatalf("hidden bar layout wrong: barY=%d area=%v", m.barY, m.area)
	}
}

func TestApplyHeadsGrowShrink(t *testing.T) {
	wm, m := testWM(1000, 800)
	dirty := wm.applyHeads([]Geom{{0, 0, 1000, 800}, {1000, 0, 1280, 1024}})
	if !dirty || len(wm.mons) != 2 {
		t.Fatalf("growing to two heads: dirty=%v mons=%d", dirty, len(wm.mons))
	}
	if wm.mons[1].num != 1 || wm.mons[1].screen != (Geom{1000, 0, 1280, 1024}) {
		t.Fatalf("second monitor misconfigured: %v", wm.mons[1].screen)
	}

	// A client on the disappearing monitor migrates to the first.
	c := addClient(wm.mons[1])
	dirty = wm.applyHeads([]Geom{{0, 0, 1000, 800}})
	if !dirty || len(wm.mons) != 1 {
		t.Fatalf("shrinking to one head: dirty=%v mons=%d", dirty, len(wm.mons))
	}
	if c.mon != m || len(m.clients) != 1 || m.clients[0] != c {
		t.Fatalf("client did not migrate to the remaining monitor")
	}
}

func TestApplyHeadsMirrored(t *testing.T) {
	wm, _ := testWM(1000, 800)
	// Mirrored outputs report identical geometries and collapse into
	// one monitor.
	wm.applyHeads([]Geom{{0, 0, 1000, 800}, {0, 0, 1000, 800}})
	if len(wm.mons) != 1 {
		t.Fatalf("mirrored heads produced %d monitors", len(wm.mons))
	}
}

func TestApplyHeadsUnchanged(t *testing.T) {
	wm, _ := testWM(1000, 800)
	if wm.applyHeads([]Geom{{0, 0, 1000, 800}}) {
		t.Fatalf("identical head layout reported dirty")
	}
}

func TestDirToMon(t *testing.T) {
	wm, m := testWM(1000, 800)
	wm.applyHeads([]Geom{{0, 0, 1000, 800}, {1000, 0, 1000, 800}})
	wm.sel = m
	if wm.dirToMon(+1) != wm.mons[1] {
		t.Fatalf("next monitor wrong")
	}
	if wm.dirToMon(-1) != wm.mons[1] {
		t.Fatalf("previous monitor should wrap around")
	}
	wm.sel = wm.mons[1]
	if wm.dirToMon(+1) != wm.mons[0] {
		t.Fatalf("next monitor should wrap around")
	}
}

func TestPtrToMon(t *testing.T) {
	wm, m := testWM(1000, 800)
	wm.applyHeads([]Geom{{0, 0, 1000, 800}, {1000, 0, 1000, 800}})
	if wm.ptrToMon(1500, 400) != wm.mons[1] {
		t.Fatalf("pointer on the second monitor mapped wrong")
	}
	if wm.ptrToMon(500, 400) != m {
		t.Fatalf("pointer on the first monitor mapped wrong")
	}
	if wm.ptrToMon(-50, -50) != wm.sel {
		t.Fatalf("pointer outside every monitor should map to selection")
	}
}

func TestTiledOrder(t *testing.T) {
	_, m := testWM(1000, 800)
	a := addClient(m)
	b := addClient(m)
	b.isFloating = true
	c := addClient(m)
	tiled := m.tiled()
	if len(tiled) != 2 || tiled[0] != c || tiled[1] != a {
		t.Fatalf("tiled order wrong: %v", tiled)
	}
}
