package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	p9p "github.com/docker/go-p9p"
	log "github.com/sirupsen/logrus"
)

// The control filesystem exposes the manager state over 9P on a unix
// socket. Reads are served from a snapshot published by the event
// loop, so sessions never touch live state; writes go through X
// requests, which are safe from any goroutine.

const (
	qidRoot = iota + 1
	qidStatus
	qidMons
	qidClients
)

func monQid(num, attr int) uint64 {
	return 1<<16 | uint64(num)<<4 | uint64(attr)
}

func clientQid(win xproto.Window, attr int) uint64 {
	return 1<<32 | uint64(win)<<4 | uint64(attr)
}

type snapshot struct {
	status string
	mons   []monSnap
}

type monSnap struct {
	num      int
	geom     Geom
	tags     uint
	layout   string
	mfact    float64
	selected bool
	clients  []clientSnap
}

type clientSnap struct {
	id       xproto.Window
	name     string
	geom     Geom
	tags     uint
	floating bool
	urgent   bool
	selected bool
}

// publish refreshes the snapshot the control filesystem serves from.
// Called from the event loop whenever visible state changed.
func (wm *WM) publish() {
	snap := &snapshot{status: wm.status}
	for _, m := range wm.mons {
		ms := monSnap{
			num:      m.num,
			geom:     m.screen,
			tags:     m.tagset[m.selTags],
			layout:   m.ltSymbol,
			mfact:    m.mfact,
			selected: m == wm.sel,
		}
		for _, c := range m.clients {
			ms.clients = append(ms.clients, clientSnap{
				id:       c.win.Id,
				name:     c.name,
				geom:     c.geom,
				tags:     c.tags,
				floating: c.isFloating,
				urgent:   c.isUrgent,
				selected: c == m.sel,
			})
		}
		snap.mons = append(snap.mons, ms)
	}
	wm.fsMu.Lock()
	wm.snap = snap
	wm.fsMu.Unlock()
}

func (wm *WM) snapshot() *snapshot {
	wm.fsMu.RLock()
	defer wm.fsMu.RUnlock()
	if wm.snap == nil {
		return &snapshot{}
	}
	return wm.snap
}

type Directory interface {
	File
	Parent() Directory
	Files() []File
}

type File interface {
	Name() string
	Qid() uint64
}

type Remover interface {
	Remove()
}

type Reader interface {
	Read() []byte
}

type Writer interface {
	Write([]byte) error
}

// fsAttr is a leaf file backed by closures.
type fsAttr struct {
	name    string
	qid     uint64
	readFn  func() []byte
	writeFn func([]byte) error
}

func (a fsAttr) Name() string { return a.name }
func (a fsAttr) Qid() uint64  { return a.qid }

func (a fsAttr) Read() []byte {
	if a.readFn == nil {
		return nil
	}
	return append(a.readFn(), '\n')
}

func (a fsAttr) Write(b []byte) error {
	if a.writeFn == nil {
		return p9p.ErrNowrite
	}
	return a.writeFn(bytes.TrimSuffix(b, []byte{'\n'}))
}

type fsDir struct {
	parent Directory
	name   string
	qid    uint64
	files  []File
}

func (d fsDir) Parent() Directory { return d.parent }
func (d fsDir) Name() string      { return d.name }
func (d fsDir) Qid() uint64       { return d.qid }
func (d fsDir) Files() []File     { return d.files }

type fsRoot struct {
	wm *WM
}

func (r fsRoot) Parent() Directory { return r }
func (r fsRoot) Name() string      { return "/" }
func (r fsRoot) Qid() uint64       { return qidRoot }

func (r fsRoot) Files() []File {
	wm := r.wm
	snap := wm.snapshot()

	mons := fsDir{parent: r, name: "mons", qid: qidMons}
	clients := fsDir{parent: r, name: "clients", qid: qidClients}
	for i := range snap.mons {
		m := &snap.mons[i]
		mons.files = append(mons.files, monDir(mons, m))
		for j := range m.clients {
			c := &m.clients[j]
			dir := clientDir(clients, wm, c, "")
			clients.files = append(clients.files, dir)
			if m.selected && c.selected {
				clients.files = append(clients.files, clientDir(clients, wm, c, "sel"))
			}
		}
	}

	return []File{
		fsAttr{
			name:   "status",
			qid:    qidStatus,
			readFn: func() []byte { return []byte(snap.status) },
			writeFn: func(b []byte) error {
				wm.setStatus(string(b))
				return nil
			},
		},
		mons,
		clients,
	}
}

func monDir(parent Directory, m *monSnap) fsDir {
	return fsDir{
		parent: parent,
		name:   fmt.Sprintf("%d", m.num),
		qid:    monQid(m.num, 0),
		files: []File{
			fsAttr{"geom", monQid(m.num, 1), func() []byte {
				return []byte(fmt.Sprintf("%d %d %d %d",
					m.geom.X, m.geom.Y, m.geom.Width, m.geom.Height))
			}, nil},
			fsAttr{"tags", monQid(m.num, 2), func() []byte {
				return []byte(fmt.Sprintf("%#x", m.tags))
			}, nil},
			fsAttr{"layout", monQid(m.num, 3), func() []byte {
				return []byte(m.layout)
			}, nil},
			fsAttr{"mfact", monQid(m.num, 4), func() []byte {
				return []byte(fmt.Sprintf("%.2f", m.mfact))
			}, nil},
			fsAttr{"selected", monQid(m.num, 5), func() []byte {
				return []byte(fmt.Sprintf("%v", m.selected))
			}, nil},
		},
	}
}

// fsClient is a client directory; removing it closes the window.
type fsClient struct {
	fsDir
	wm *WM
	id xproto.Window
}

func (c fsClient) Remove() {
	c.wm.killWindow(c.id)
}

func clientDir(parent Directory, wm *WM, c *clientSnap, name string) fsClient {
	if name == "" {
		name = fmt.Sprintf("%d", c.id)
	}
	return fsClient{
		wm: wm,
		id: c.id,
		fsDir: fsDir{
			parent: parent,
			name:   name,
			qid:    clientQid(c.id, 0),
			files: []File{
				fsAttr{"name", clientQid(c.id, 1), func() []byte {
					return []byte(c.name)
				}, nil},
				fsAttr{"geom", clientQid(c.id, 2), func() []byte {
					return []byte(fmt.Sprintf("%d %d %d %d",
						c.geom.X, c.geom.Y, c.geom.Width, c.geom.Height))
				}, nil},
				fsAttr{"tags", clientQid(c.id, 3), func() []byte {
					return []byte(fmt.Sprintf("%#x", c.tags))
				}, nil},
				fsAttr{"floating", clientQid(c.id, 4), func() []byte {
					return []byte(fmt.Sprintf("%v", c.floating))
				}, nil},
				fsAttr{"urgent", clientQid(c.id, 5), func() []byte {
					return []byte(fmt.Sprintf("%v", c.urgent))
				}, nil},
			},
		},
	}
}

type session struct {
	wm      *WM
	fids    map[p9p.Fid]File
	readers map[p9p.Fid]io.ReaderAt
}

func newSession(wm *WM) session {
	return session{wm, map[p9p.Fid]File{}, map[p9p.Fid]io.ReaderAt{}}
}

func (session) Auth(ctx context.Context, afid p9p.Fid, uname string, aname string) (p9p.Qid, error) {
	return p9p.Qid{}, errors.New("no auth")
}

func (s session) Attach(ctx context.Context, fid p9p.Fid, afid p9p.Fid, uname string, aname string) (p9p.Qid, error) {
	s.fids[fid] = fsRoot{s.wm}
	return p9p.Qid{Type: p9p.QTDIR, Path: qidRoot}, nil
}

func (s session) Clunk(ctx context.Context, fid p9p.Fid) error {
	delete(s.fids, fid)
	delete(s.readers, fid)
	return nil
}

func (s session) Remove(ctx context.Context, fid p9p.Fid) error {
	file, ok := s.fids[fid].(Remover)
	if !ok {
		return p9p.ErrNoremove
	}
	file.Remove()
	return nil
}

func (s session) Walk(ctx context.Context, fid p9p.Fid, newfid p9p.Fid, names ...string) ([]p9p.Qid, error) {
	node := s.fids[fid]

	var qids []p9p.Qid
outer:
	for _, name := range names {
		dir, ok := node.(Directory)
		if !ok {
			return nil, p9p.ErrWalknodir
		}
		if name == ".." {
			node = dir.Parent()
			qids = append(qids, qid(node))
			continue outer
		}
		for _, file := range dir.Files() {
			if file.Name() == name {
				node = file
				qids = append(qids, qid(file))
				continue outer
			}
		}
		return nil, p9p.ErrNotfound
	}
	s.fids[newfid] = node
	return qids, nil
}

func qid(file File) p9p.Qid {
	typ := p9p.QType(p9p.QTFILE)
	if _, isDir := file.(Directory); isDir {
		typ = p9p.QTDIR
	}
	return p9p.Qid{Type: typ, Path: file.Qid()}
}

func (s session) Read(ctx context.Context, fid p9p.Fid, p []byte, offset int64) (n int, err error) {
	r, ok := s.readers[fid]
	if !ok {
		return 0, p9p.ErrNotfound
	}
	n, err = r.ReadAt(p, offset)
	if err == io.EOF {
		err = nil
	}
	return n, err
}

func (s session) Write(ctx context.Context, fid p9p.Fid, p []byte, offset int64) (n int, err error) {
	if offset != 0 {
		return 0, p9p.ErrBadoffset
	}
	w, ok := s.fids[fid].(Writer)
	if !ok {
		return 0, p9p.ErrNowrite
	}
	if err := w.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s session) Open(ctx context.Context, fid p9p.Fid, mode p9p.Flag) (p9p.Qid, uint32, error) {
	file, ok := s.fids[fid]
	if !ok {
		return p9p.Qid{}, 0, p9p.ErrNotfound
	}
	var data []byte
	switch file := file.(type) {
	case Directory:
		buf := &bytes.Buffer{}
		codec := p9p.NewCodec()
		for _, f := range file.Files() {
			dir := p9p.Dir{
				Qid:        qid(f),
				Mode:       fileMode(f),
				AccessTime: time.Now(),
				ModTime:    time.Now(),
				Name:       f.Name(),
				UID:        "dwm",
				GID:        "dwm",
				MUID:       "dwm",
			}
			if err := p9p.EncodeDir(codec, buf, &dir); err != nil {
				return p9p.Qid{}, 0, err
			}
		}
		data = buf.Bytes()
	case Reader:
		data = file.Read()
	default:
		return p9p.Qid{}, 0, errors.New("reading prohibited")
	}
	s.readers[fid] = bytes.NewReader(data)
	return qid(file), 0, nil
}

func (session) Create(ctx context.Context, parent p9p.Fid, name string, perm uint32, mode p9p.Flag) (p9p.Qid, uint32, error) {
	return p9p.Qid{}, 0, errors.New("creating prohibited")
}

func fileMode(f File) uint32 {
	mode := p9p.DMREAD
	if _, isDir := f.(Directory); isDir {
		mode |= p9p.DMDIR | p9p.DMEXEC
	}
	if _, isWriter := f.(Writer); isWriter {
		mode |= p9p.DMWRITE
	}
	return uint32(mode)
}

func (s session) Stat(ctx context.Context, fid p9p.Fid) (p9p.Dir, error) {
	file, ok := s.fids[fid]
	if !ok {
		return p9p.Dir{}, p9p.ErrNotfound
	}
	return p9p.Dir{
		Qid:        qid(file),
		Mode:       fileMode(file),
		AccessTime: time.Now(),
		ModTime:    time.Now(),
		Name:       file.Name(),
		UID:        "dwm",
		GID:        "dwm",
		MUID:       "dwm",
	}, nil
}

func (session) WStat(ctx context.Context, fid p9p.Fid, dir p9p.Dir) error {
	return nil
}

func (session) Version() (msize int, version string) {
	return p9p.DefaultMSize, p9p.DefaultVersion
}

// serveFS listens on a unix socket and serves the control filesystem
// to each connecting client.
func (wm *WM) serveFS(socket string) error {
	os.Remove(socket)
	l, err := net.Listen("unix", socket)
	if err != nil {
		return err
	}
	defer l.Close()
	log.Infof("control filesystem on %s", socket)
	for {
		conn, err := l.Accept()
		if err != nil {
			return err
		}
		go func() {
			defer conn.Close()
			err := p9p.ServeConn(context.Background(), conn, p9p.Dispatch(newSession(wm)))
			if err != nil && err != io.EOF {
				log.Debugf("9p session ended: %v", err)
			}
		}()
	}
}
