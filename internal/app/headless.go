package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dshills/keyguard/internal/operation"
)

var headlessMu sync.Mutex

// runHeadless runs each input line as an operation, one after another.
// The session has no UI, so extension hooks see HasUI == false.
func (app *Application) runHeadless(ctx context.Context) error {
	app.headless = true
	in := app.opts.Stdin
	if in == nil {
		in = os.Stdin
	}

	app.startSession(ctx, nil)
	defer app.endSession()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil || app.quit.Load() {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := app.runOne(ctx, line); err != nil {
			return err
		}
		app.drainCalls()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read commands: %w", err)
	}
	return nil
}

// runOne runs one command to completion and publishes its lifecycle.
func (app *Application) runOne(ctx context.Context, line string) error {
	info, err := app.runner.Start(ctx, line)
	if err != nil {
		app.logger.Error("%v", NewComponentError("runner", "start", err))
		app.writeHeadless("keyguard: " + err.Error())
		return nil
	}
	app.extensions.StartOperation(ctx, info)

	var done operation.Info
	select {
	case done = <-app.finished:
	case <-ctx.Done():
		app.runner.Abort()
		select {
		case done = <-app.finished:
		case <-time.After(shutdownTimeout):
			return fmt.Errorf("operation %s did not stop", info.ID)
		}
	}

	app.logger.Info("operation %s finished: exit=%d aborted=%v", done.ID, done.ExitCode, done.Aborted)
	app.extensions.EndOperation(ctx, done)
	return nil
}

func (app *Application) writeHeadless(line string) {
	out := app.opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	headlessMu.Lock()
	defer headlessMu.Unlock()
	_, _ = io.WriteString(out, line+"\n")
}
