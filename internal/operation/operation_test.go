package operation

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"
)

type collector struct {
	mu    sync.Mutex
	lines []string
	done  chan Info
}

func newCollector() *collector {
	return &collector{done: make(chan Info, 1)}
}

func (c *collector) callbacks() Callbacks {
	return Callbacks{
		Output: func(id, line string) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.lines = append(c.lines, line)
		},
		Done: func(info Info) { c.done <- info },
	}
}

func (c *collector) wait(t *testing.T) Info {
	t.Helper()
	select {
	case info := <-c.done:
		return info
	case <-time.After(10 * time.Second):
		t.Fatal("operation did not finish")
		return Info{}
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

func TestRunnerOutputAndExit(t *testing.T) {
	requireShell(t)
	c := newCollector()
	r := NewRunner(DefaultConfig(), c.callbacks())

	started, err := r.Start(context.Background(), "echo hello; echo oops >&2; exit 3")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if started.ID == "" || started.Command != "echo hello; echo oops >&2; exit 3" {
		t.Errorf("Start() info = %+v", started)
	}

	info := c.wait(t)
	if info.ExitCode != 3 || info.Aborted || info.Err != nil {
		t.Errorf("finished info = %+v", info)
	}
	if info.ID != started.ID {
		t.Error("Done reported a different ID")
	}
	if info.Duration() <= 0 {
		t.Error("Duration() not positive")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) != 2 || c.lines[0] != "hello" || c.lines[1] != "oops" {
		t.Errorf("output = %q", c.lines)
	}
}

func TestRunnerBusyAndAbort(t *testing.T) {
	requireShell(t)
	c := newCollector()
	r := NewRunner(Config{KillGrace: 500 * time.Millisecond}, c.callbacks())

	if r.Busy() {
		t.Fatal("new runner busy")
	}
	if _, err := r.Start(context.Background(), "sleep 30"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !r.Busy() {
		t.Error("Busy() false while running")
	}
	if _, ok := r.Current(); !ok {
		t.Error("Current() reported nothing running")
	}
	if _, err := r.Start(context.Background(), "echo second"); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start() error = %v, want ErrBusy", err)
	}

	if !r.Abort() {
		t.Fatal("Abort() reported nothing running")
	}
	info := c.wait(t)
	if !info.Aborted {
		t.Errorf("info = %+v, want aborted", info)
	}
	if info.Duration() > 5*time.Second {
		t.Errorf("abort took %v", info.Duration())
	}

	if err := r.Wait(context.Background()); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
	if r.Busy() {
		t.Error("Busy() true after completion")
	}
	if r.Abort() {
		t.Error("Abort() on idle runner reported true")
	}
}

func TestRunnerEmptyCommand(t *testing.T) {
	r := NewRunner(DefaultConfig(), Callbacks{})
	if _, err := r.Start(context.Background(), "   "); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("Start() error = %v, want ErrEmptyCommand", err)
	}
}

func TestRunnerBadShell(t *testing.T) {
	r := NewRunner(Config{Shell: "/nonexistent/shell"}, Callbacks{})
	if _, err := r.Start(context.Background(), "true"); err == nil {
		t.Error("expected start error")
	}
	if r.Busy() {
		t.Error("runner busy after failed start")
	}
}
