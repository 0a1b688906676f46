package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/keyguard/internal/operation"
	"github.com/dshills/keyguard/internal/ui"
)

// submit runs a prompt line as an operation.
func (app *Application) submit(text string) {
	info, err := app.runner.Start(app.ctx, text)
	if err != nil {
		switch {
		case errors.Is(err, operation.ErrBusy):
			app.surface.Notify("an operation is already running", ui.LevelWarn)
		case errors.Is(err, operation.ErrEmptyCommand):
		default:
			app.logger.Error("%v", NewComponentError("runner", "start", err))
			app.surface.Notify(err.Error(), ui.LevelError)
		}
		return
	}

	app.logger.Info("operation %s started: %s", info.ID, info.Command)
	app.surface.AppendOutput(app.options.String("ui.prompt", "> ") + info.Command)
	app.surface.SetBusy(true)
	app.startTicking()
	for _, err := range app.extensions.StartOperation(app.ctx, info) {
		app.logger.Warn("operation start: %v", err)
	}
}

// abort stops the running operation.
func (app *Application) abort() {
	if info, ok := app.runner.Current(); ok && app.runner.Abort() {
		app.logger.Info("operation %s aborted", info.ID)
	}
}

// exit ends the session.
func (app *Application) exit() {
	app.logger.Debug("exit requested")
	app.quit.Store(true)
}

// onOutput runs on the runner's reader goroutine.
func (app *Application) onOutput(_ string, line string) {
	if app.headless {
		app.writeHeadless(line)
		return
	}
	app.post(func() { app.surface.AppendOutput(line) })
}

// onDone runs on the runner's wait goroutine.
func (app *Application) onDone(info operation.Info) {
	if app.headless {
		app.finished <- info
		return
	}
	app.post(func() { app.operationDone(info) })
}

// operationDone reports a finished operation and publishes operation.end.
func (app *Application) operationDone(info operation.Info) {
	app.surface.SetBusy(false)
	app.logger.Info("operation %s finished: exit=%d aborted=%v after %s",
		info.ID, info.ExitCode, info.Aborted, info.Duration())

	switch {
	case info.Aborted:
		app.surface.Notify("aborted: "+info.Command, ui.LevelWarn)
	case info.Err != nil:
		app.surface.Notify(info.Err.Error(), ui.LevelError)
	case info.ExitCode != 0:
		app.surface.Notify(fmt.Sprintf("exit status %d: %s", info.ExitCode, firstWord(info.Command)), ui.LevelWarn)
	}

	for _, err := range app.extensions.EndOperation(app.ctx, info) {
		app.logger.Warn("operation end: %v", err)
	}
}

func firstWord(s string) string {
	if i := strings.IndexAny(s, " \t"); i > 0 {
		return s[:i]
	}
	return s
}
