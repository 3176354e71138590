package terminal

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/zhubert/rooms/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Reset()
	logger.Init(os.DevNull)
	os.Exit(m.Run())
}

// fakeProcess stands in for a shell on a PTY. Output written with emit is
// what the reader goroutine sees; input is recorded.
type fakeProcess struct {
	outR *io.PipeReader
	outW *io.PipeWriter

	mu      sync.Mutex
	input   bytes.Buffer
	resizes [][2]int
	failOn  string

	closeOnce sync.Once
	exited    chan struct{}
}

func newFakeProcess() *fakeProcess {
	r, w := io.Pipe()
	return &fakeProcess{outR: r, outW: w, exited: make(chan struct{})}
}

func (p *fakeProcess) Read(b []byte) (int, error) { return p.outR.Read(b) }

func (p *fakeProcess) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failOn != "" && strings.Contains(string(b), p.failOn) {
		return 0, errors.New("write /dev/ptmx: input/output error")
	}
	return p.input.Write(b)
}

func (p *fakeProcess) Resize(cols, rows int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resizes = append(p.resizes, [2]int{cols, rows})
	return nil
}

func (p *fakeProcess) Wait() error {
	<-p.exited
	return nil
}

func (p *fakeProcess) Close() error {
	p.exit()
	return nil
}

// exit simulates the shell terminating.
func (p *fakeProcess) exit() {
	p.closeOnce.Do(func() {
		p.outW.Close()
		close(p.exited)
	})
}

func (p *fakeProcess) emit(t *testing.T, s string) {
	t.Helper()
	if _, err := p.outW.Write([]byte(s)); err != nil {
		t.Fatalf("emit: %v", err)
	}
}

func (p *fakeProcess) Input() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input.String()
}

func (p *fakeProcess) Resizes() [][2]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][2]int(nil), p.resizes...)
}

// fakeSpawner hands out fake processes and counts spawns per path.
type fakeSpawner struct {
	mu     sync.Mutex
	procs  map[string][]*fakeProcess
	failOn string
	err    error
}

func newFakeSpawner() *fakeSpawner {
	return &fakeSpawner{procs: make(map[string][]*fakeProcess)}
}

func (f *fakeSpawner) Spawn(dir string, cols, rows int) (Process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	p := newFakeProcess()
	p.failOn = f.failOn
	f.procs[dir] = append(f.procs[dir], p)
	return p, nil
}

func (f *fakeSpawner) count(dir string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.procs[dir])
}

func (f *fakeSpawner) last(dir string) *fakeProcess {
	f.mu.Lock()
	defer f.mu.Unlock()
	ps := f.procs[dir]
	if len(ps) == 0 {
		return nil
	}
	return ps[len(ps)-1]
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
