package app

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyguard/internal/input/key"
)

const (
	// spinnerInterval is the working indicator frame time.
	spinnerInterval = 100 * time.Millisecond

	// shutdownTimeout bounds waiting for an aborted operation at exit.
	shutdownTimeout = 3 * time.Second
)

// Run runs the session until the user exits or ctx is done. With no
// screen set it runs headless, reading commands from stdin.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.screen == nil {
		return app.runHeadless(ctx)
	}

	if err := app.screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer app.screen.Fini()
	app.screen.EnablePaste()

	stop := context.AfterFunc(ctx, app.Shutdown)
	defer stop()

	app.startSession(ctx, app.surface)
	defer app.endSession()

	return app.eventLoop()
}

// eventLoop renders, waits for one terminal event, handles it, then runs
// any callbacks handed over from other goroutines.
func (app *Application) eventLoop() error {
	for !app.quit.Load() {
		app.render()
		ev := app.screen.PollEvent()
		if ev == nil {
			return nil
		}
		app.HandleEvent(ev)
		app.drainCalls()
	}
	return nil
}

// HandleEvent processes one terminal event on the loop goroutine.
func (app *Application) HandleEvent(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventResize:
		if app.screen != nil {
			app.screen.Sync()
		}
	case *tcell.EventPaste:
		app.handlePaste(e)
	case *tcell.EventKey:
		app.handleKey(e)
	case *tcell.EventInterrupt:
		// wake-up; posted callbacks are drained by the loop
	}
}

func (app *Application) handleKey(ev *tcell.EventKey) {
	k, ok := key.FromTcell(ev)
	if !ok {
		return
	}
	if app.pasting {
		switch {
		case k.IsChar():
			app.paste = append(app.paste, k.Rune)
		case k.Key == key.KeyEnter:
			app.paste = append(app.paste, '\n')
		case k.Key == key.KeyTab:
			app.paste = append(app.paste, '\t')
		}
		return
	}
	if data := key.Encode(k); data != "" {
		app.handler.HandleInput(data)
	}
}

// handlePaste collects the keys between paste start and end into a
// single chunk.
func (app *Application) handlePaste(ev *tcell.EventPaste) {
	if ev.Start() {
		app.pasting = true
		app.paste = app.paste[:0]
		return
	}
	app.pasting = false
	if len(app.paste) > 0 {
		app.handler.HandleInput(string(app.paste))
	}
	app.paste = app.paste[:0]
}

func (app *Application) render() {
	app.surface.Render(app.screen)
	app.screen.Show()
}

// post hands fn to the loop goroutine. After Close it is dropped.
func (app *Application) post(fn func()) {
	select {
	case app.calls <- fn:
	case <-app.done:
		return
	}
	app.wake()
}

// wake interrupts a blocked PollEvent. A full event queue wakes the loop
// anyway, so the error is ignored.
func (app *Application) wake() {
	if app.screen != nil {
		_ = app.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// drainCalls runs the callbacks posted so far.
func (app *Application) drainCalls() {
	for {
		select {
		case fn := <-app.calls:
			fn()
		default:
			return
		}
	}
}

// startTicking animates the working indicator while an operation runs.
func (app *Application) startTicking() {
	if app.ticking {
		return
	}
	app.ticking = true
	var tick func()
	tick = func() {
		if app.surface.IsIdle() {
			app.ticking = false
			return
		}
		app.surface.Tick()
		app.clock.AfterFunc(spinnerInterval, tick)
	}
	app.clock.AfterFunc(spinnerInterval, tick)
}
