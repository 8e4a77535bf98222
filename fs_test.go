package main

import (
	"context"
	"testing"

	"github.com/BurntSushi/xgbutil/xwindow"
	p9p "github.com/docker/go-p9p"
)

func testWMWithClients(t *testing.T) *WM {
	t.Helper()
	wm, m := testWM(1000, 800)
	wm.status = "test status"
	a := addClient(m)
	a.win = &xwindow.Window{Id: 101}
	a.name = "xterm"
	b := addClient(m)
	b.win = &xwindow.Window{Id: 102}
	b.name = "emacs"
	m.sel = b
	wm.publish()
	return wm
}

func TestPublishSnapshot(t *testing.T) {
	wm := testWMWithClients(t)
	snap := wm.snapshot()
	if snap.status != "test status" {
		t.Fatalf("snapshot status %q", snap.status)
	}
	if len(snap.mons) != 1 {
		t.Fatalf("snapshot has %d monitors", len(snap.mons))
	}
	m := snap.mons[0]
	if !m.selected || m.tags != 1 || len(m.clients) != 2 {
		t.Fatalf("monitor snapshot wrong: %+v", m)
	}
	// Tiling order: the newest client first.
	if m.clients[0].id != 102 || !m.clients[0].selected {
		t.Fatalf("client snapshot wrong: %+v", m.clients[0])
	}
	if m.clients[1].id != 101 || m.clients[1].selected {
		t.Fatalf("client snapshot wrong: %+v", m.clients[1])
	}
}

func TestSnapshotBeforePublish(t *testing.T) {
	wm, _ := testWM(1000, 800)
	if snap := wm.snapshot(); len(snap.mons) != 0 {
		t.Fatalf("unpublished snapshot should be empty")
	}
}

func TestFSTree(t *testing.T) {
	wm := testWMWithClients(t)
	root := fsRoot{wm}

	byName := func(d Directory) map[string]File {
		out := map[string]File{}
		for _, f := range d.Files() {
			out[f.Name()] = f
		}
		return out
	}

	top := byName(root)
	status, ok := top["status"].(Reader)
	if !ok {
		t.Fatalf("status file missing or not readable")
	}
	if got := string(status.Read()); got != "test status\n" {
		t.Fatalf("status reads %q", got)
	}
	if _, ok := top["status"].(Writer); !ok {
		t.Fatalf("status file must be writable")
	}

	mons, ok := top["mons"].(Directory)
	if !ok {
		t.Fatalf("mons directory missing")
	}
	m0, ok := byName(mons)["0"].(Directory)
	if !ok {
		t.Fatalf("monitor directory missing")
	}
	geom, ok := byName(m0)["geom"].(Reader)
	if !ok {
		t.Fatalf("monitor geom file missing")
	}
	if got := string(geom.Read()); got != "0 0 1000 800\n" {
		t.Fatalf("monitor geom reads %q", got)
	}

	clients, ok := top["clients"].(Directory)
	if !ok {
		t.Fatalf("clients directory missing")
	}
	files := byName(clients)
	for _, name := range []string{"101", "102", "sel"} {
		if files[name] == nil {
			t.Fatalf("client entry %q missing", name)
		}
	}
	if _, ok := files["102"].(Remover); !ok {
		t.Fatalf("client directories must support remove")
	}
	name, ok := byName(files["sel"].(Directory))["name"].(Reader)
	if !ok {
		t.Fatalf("client name file missing")
	}
	if got := string(name.Read()); got != "emacs\n" {
		t.Fatalf("selected client name reads %q", got)
	}
}

func TestFSSession(t *testing.T) {
	wm := testWMWithClients(t)
	ctx := context.Background()
	s := newSession(wm)

	if _, err := s.Attach(ctx, 1, p9p.NOFID, "nobody", ""); err != nil {
		t.Fatalf("attach: %v", err)
	}
	qids, err := s.Walk(ctx, 1, 2, "mons", "0", "tags")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(qids) != 3 || qids[2].Type&p9p.QTDIR != 0 {
		t.Fatalf("walk qids wrong: %v", qids)
	}
	if _, _, err := s.Open(ctx, 2, p9p.OREAD); err != nil {
		t.Fatalf("open: %v", err)
	}
	buf := make([]byte, 64)
	n, err := s.Read(ctx, 2, buf, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "0x1\n" {
		t.Fatalf("tags file reads %q", got)
	}

	if _, err := s.Walk(ctx, 1, 3, "nonexistent"); err != p9p.ErrNotfound {
		t.Fatalf("walk to missing file: %v", err)
	}

	// Directory listings decode as stat entries.
	if _, err := s.Walk(ctx, 1, 4, "clients"); err != nil {
		t.Fatalf("walk: %v", err)
	}
	if _, _, err := s.Open(ctx, 4, p9p.OREAD); err != nil {
		t.Fatalf("open dir: %v", err)
	}
	n, err = s.Read(ctx, 4, make([]byte, 4096), 0)
	if err != nil || n == 0 {
		t.Fatalf("reading a directory gave n=%d err=%v", n, err)
	}

	if err := s.Clunk(ctx, 2); err != nil {
		t.Fatalf("clunk: %v", err)
	}
	if _, err := s.Read(ctx, 2, buf, 0); err == nil {
		t.Fatalf("read after clunk should fail")
	}
}
