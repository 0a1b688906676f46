// Package operation runs the shell commands submitted at the prompt.
//
// A Runner executes at most one command at a time. While it runs, the
// session is busy; Abort interrupts it. Output lines and completion are
// reported through callbacks invoked on the runner's goroutines, so
// callers that own single-threaded state must hand them to their loop.
package operation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrBusy is returned by Start while another operation runs.
	ErrBusy = errors.New("an operation is already running")

	// ErrEmptyCommand is returned by Start for a blank command.
	ErrEmptyCommand = errors.New("empty command")
)

// Info describes an operation.
type Info struct {
	ID       string
	Command  string
	Started  time.Time
	Finished time.Time

	// ExitCode is the process exit status, or -1 when it did not exit
	// normally.
	ExitCode int

	// Aborted is set when the operation was stopped by Abort.
	Aborted bool

	// Err is set when the command could not be run or was killed.
	Err error
}

// Duration returns how long the operation ran.
func (i Info) Duration() time.Duration {
	if i.Finished.IsZero() {
		return 0
	}
	return i.Finished.Sub(i.Started)
}

// Callbacks receive operation progress. Nil callbacks are skipped.
type Callbacks struct {
	// Output is called with each line the command writes to stdout or
	// stderr, without the trailing newline.
	Output func(id, line string)

	// Done is called once when the operation ends.
	Done func(info Info)
}

// Config configures a Runner.
type Config struct {
	// Shell runs each command as `Shell -c command`.
	// Default: /bin/sh
	Shell string

	// Dir is the working directory. Empty uses the current directory.
	Dir string

	// KillGrace is how long an aborted command may take to exit after
	// the interrupt before it is killed.
	// Default: 2s
	KillGrace time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Shell:     "/bin/sh",
		KillGrace: 2 * time.Second,
	}
}

type running struct {
	info    Info
	cancel  context.CancelFunc
	aborted bool
	done    chan struct{}
}

// Runner runs one command at a time. It is safe for concurrent use.
type Runner struct {
	mu        sync.Mutex
	config    Config
	callbacks Callbacks
	current   *running
}

// NewRunner creates a runner.
func NewRunner(config Config, callbacks Callbacks) *Runner {
	def := DefaultConfig()
	if config.Shell == "" {
		config.Shell = def.Shell
	}
	if config.KillGrace <= 0 {
		config.KillGrace = def.KillGrace
	}
	return &Runner{config: config, callbacks: callbacks}
}

// Start runs command in the background and returns its Info.
func (r *Runner) Start(ctx context.Context, command string) (Info, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return Info{}, ErrEmptyCommand
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		return Info{}, ErrBusy
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(runCtx, r.config.Shell, "-c", command)
	cmd.Dir = r.config.Dir
	cmd.WaitDelay = r.config.KillGrace
	configureProcess(cmd)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	op := &running{
		info: Info{
			ID:       uuid.New().String(),
			Command:  command,
			Started:  time.Now(),
			ExitCode: -1,
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	if err := cmd.Start(); err != nil {
		cancel()
		_ = pw.Close()
		_ = pr.Close()
		return Info{}, fmt.Errorf("start %q: %w", command, err)
	}
	r.current = op

	lines := make(chan struct{})
	go func() {
		defer close(lines)
		r.readOutput(op.info.ID, pr)
	}()
	go func() {
		err := cmd.Wait()
		_ = pw.Close()
		<-lines
		r.finish(op, cmd, err)
	}()

	return op.info, nil
}

func (r *Runner) readOutput(id string, pr *io.PipeReader) {
	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if r.callbacks.Output != nil {
			r.callbacks.Output(id, scanner.Text())
		}
	}
	// Drain after a scan error so the writer never blocks
	_, _ = io.Copy(io.Discard, pr)
}

func (r *Runner) finish(op *running, cmd *exec.Cmd, err error) {
	r.mu.Lock()
	info := op.info
	info.Finished = time.Now()
	info.Aborted = op.aborted
	if cmd.ProcessState != nil {
		info.ExitCode = cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	switch {
	case err == nil, errors.As(err, &exitErr):
	case op.aborted && errors.Is(err, context.Canceled):
	default:
		info.Err = err
	}
	op.info = info
	r.current = nil
	r.mu.Unlock()

	op.cancel()
	if r.callbacks.Done != nil {
		r.callbacks.Done(info)
	}
	close(op.done)
}

// Abort interrupts the running operation. It reports whether one was
// running.
func (r *Runner) Abort() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return false
	}
	r.current.aborted = true
	r.current.cancel()
	return true
}

// Busy reports whether an operation is running.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}

// Current returns the running operation.
func (r *Runner) Current() (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return Info{}, false
	}
	return r.current.info, true
}

// Wait blocks until the running operation, if any, has finished and its
// Done callback returned, or until ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	r.mu.Lock()
	op := r.current
	r.mu.Unlock()
	if op == nil {
		return nil
	}
	select {
	case <-op.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
