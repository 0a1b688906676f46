// Package app wires the terminal session together: configuration, logging,
// the extension manager, the UI surface, the prompt editor and the command
// runner, driven by a single event loop.
package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyguard/internal/clock"
	"github.com/dshills/keyguard/internal/config"
	"github.com/dshills/keyguard/internal/confirm"
	"github.com/dshills/keyguard/internal/event"
	"github.com/dshills/keyguard/internal/extension"
	"github.com/dshills/keyguard/internal/extension/lua"
	"github.com/dshills/keyguard/internal/input"
	"github.com/dshills/keyguard/internal/logging"
	"github.com/dshills/keyguard/internal/operation"
	"github.com/dshills/keyguard/internal/theme"
	"github.com/dshills/keyguard/internal/ui"
)

// Application is the central coordinator for a session.
//
// Everything that touches the surface, the editor or the extensions runs on
// the loop goroutine. Work from other goroutines (command output, timers)
// is handed over with post.
type Application struct {
	opts    Options
	options *config.Options
	logger  *logging.Logger
	logOut  io.Closer

	dispatcher *event.Dispatcher
	extensions *extension.Manager
	scripts    []*lua.Extension
	runner     *operation.Runner
	clock      clock.Clock
	watcher    *config.Watcher

	screen  tcell.Screen
	surface *ui.Surface
	editor  *input.LineEditor
	handler input.Handler

	ctx     context.Context
	session *extension.Context
	pasting bool
	paste   []rune
	ticking bool

	// loop hand-over
	calls chan func()

	// headless operation results
	finished chan operation.Info

	running  atomic.Bool
	quit     atomic.Bool
	done     chan struct{}
	doneOnce sync.Once
	headless bool
}

// Options configures the application. Non-empty fields override the
// configuration file.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// LogFile is where logs are written. "-" is stderr.
	LogFile string

	// ExtensionsDir holds *.lua extensions.
	ExtensionsDir string

	// WatchConfig reloads the configuration file when it changes.
	WatchConfig bool

	// Clock schedules timers. Nil uses the event loop clock.
	Clock clock.Clock

	// FileSystem reads the configuration file. Nil uses the OS.
	FileSystem config.FileSystem

	// Stdin and Stdout are used by headless sessions.
	// Nil uses os.Stdin and os.Stdout.
	Stdin  io.Reader
	Stdout io.Writer
}

// New creates an application and initializes every component.
func New(opts Options) (*Application, error) {
	app := &Application{
		opts:     opts,
		calls:    make(chan func(), 256),
		finished: make(chan operation.Info, 1),
		done:     make(chan struct{}),
		ctx:      context.Background(),
	}
	if err := app.bootstrap(); err != nil {
		app.closeLog()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Configuration
	options, err := config.Load(app.opts.ConfigPath, app.opts.FileSystem)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	overrides := map[string]string{
		"logging.level":  app.opts.LogLevel,
		"logging.file":   app.opts.LogFile,
		"extensions.dir": app.opts.ExtensionsDir,
	}
	for path, v := range overrides {
		if v == "" {
			continue
		}
		if err := options.Set(path, v); err != nil {
			return &InitError{Component: "config", Err: err}
		}
	}
	app.options = options

	// 2. Logging
	out, err := logging.Open(options.String("logging.file", ""))
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	app.logOut = out
	app.logger = logging.New(logging.Config{
		Level:  logging.ParseLevel(options.String("logging.level", "info")),
		Output: out,
		Prefix: "keyguard",
	})
	logging.SetDefault(app.logger)

	// 3. Clock
	app.clock = app.opts.Clock
	if app.clock == nil {
		app.clock = clock.NewLoop(app.post)
	}

	// 4. Extensions
	app.dispatcher = event.NewDispatcher()
	app.extensions = extension.NewManager(app.dispatcher, app.logger)
	if err := app.extensions.Register(confirm.NewExtension(app.clock)); err != nil {
		return &InitError{Component: "extensions", Err: err}
	}
	app.loadScripts(options.String("extensions.dir", ""))

	// 5. Runner
	app.runner = operation.NewRunner(operation.Config{
		Shell: options.String("shell.path", ""),
	}, operation.Callbacks{
		Output: app.onOutput,
		Done:   app.onDone,
	})

	// 6. UI surface and editor
	app.surface = ui.NewSurface(ui.Config{
		WorkingMessage: options.String("ui.workingMessage", ""),
		Spinner:        options.String("ui.spinner", ""),
		Prompt:         options.String("ui.prompt", ""),
	}, app.loadTheme())

	// The editor's exit and abort keys follow the confirm settings
	guarded := confirm.OptionsFrom(options)
	editorConfig := input.DefaultConfig()
	editorConfig.HistorySize = options.Int("history.size", editorConfig.HistorySize)
	editorConfig.InterruptWindow = guarded.InterruptWindow
	editorConfig.InterruptKey, editorConfig.CancelKey = guarded.Keys()
	app.editor = input.NewLineEditor(editorConfig, app.clock, input.Actions{
		Submit: app.submit,
		Abort:  app.abort,
		Exit:   app.exit,
	})
	app.surface.SetInput(app.editor)
	app.handler = app.editor

	// 7. Config watcher
	if app.opts.WatchConfig && app.opts.ConfigPath != "" {
		w, err := config.NewWatcher(app.opts.ConfigPath, func() {
			app.post(app.reloadConfig)
		})
		if err != nil {
			app.logger.Warn("config watcher disabled: %v", err)
		} else {
			app.watcher = w
		}
	}

	return nil
}

func (app *Application) loadScripts(dir string) {
	scripts, err := lua.LoadDir(dir, app.logger)
	if err != nil {
		app.logger.Warn("extensions: %v", err)
	}
	for _, s := range scripts {
		if err := app.extensions.Register(s); err != nil {
			app.logger.Warn("%v", err)
			s.Close()
			continue
		}
		app.scripts = append(app.scripts, s)
	}
}

// loadTheme builds the theme from the theme section. Invalid colors are
// logged and the defaults used.
func (app *Application) loadTheme() *theme.Theme {
	th, err := theme.FromSection(app.options.Section("theme"))
	if err != nil {
		app.logger.Warn("theme: %v", err)
		return theme.Default()
	}
	return th
}

// reloadConfig rereads the configuration file and applies the settings
// that can change while running.
func (app *Application) reloadConfig() {
	if err := app.options.LoadFrom(config.LayerFile, config.NewFileLoader(app.opts.ConfigPath, app.opts.FileSystem)); err != nil {
		app.logger.Warn("reload config: %v", err)
		app.surface.Notify("config: "+err.Error(), ui.LevelError)
		return
	}
	app.logger.SetLevel(logging.ParseLevel(app.options.String("logging.level", "info")))
	app.surface.SetTheme(app.loadTheme())
	app.logger.Info("configuration reloaded")
}

// SetScreen sets the terminal screen. Must be called before Run; without
// a screen the session runs headless.
func (app *Application) SetScreen(screen tcell.Screen) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.screen = screen
	return nil
}

// Shutdown asks a running session to stop. It is safe to call from any
// goroutine and more than once.
func (app *Application) Shutdown() {
	app.quit.Store(true)
	app.wake()
}

// Close releases resources. Call after Run returns.
func (app *Application) Close() {
	app.doneOnce.Do(func() { close(app.done) })
	if app.watcher != nil {
		_ = app.watcher.Close()
	}
	app.extensions.Close()
	for _, s := range app.scripts {
		s.Close()
	}
	app.closeLog()
}

func (app *Application) closeLog() {
	if app.logOut != nil {
		_ = app.logOut.Close()
		app.logOut = nil
	}
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Options returns the configuration store.
func (app *Application) Options() *config.Options {
	return app.options
}

// Surface returns the UI surface.
func (app *Application) Surface() *ui.Surface {
	return app.surface
}

// Editor returns the base prompt editor.
func (app *Application) Editor() *input.LineEditor {
	return app.editor
}

// Extensions returns the extension manager.
func (app *Application) Extensions() *extension.Manager {
	return app.extensions
}

// Runner returns the command runner.
func (app *Application) Runner() *operation.Runner {
	return app.runner
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.logger
}

// startSession publishes session.start and resolves the input handler
// extensions installed.
func (app *Application) startSession(ctx context.Context, surface ui.UI) {
	app.ctx = ctx
	app.session = extension.NewContext(surface, app.options, app.logger)
	for _, err := range app.extensions.Start(ctx, app.session) {
		app.logger.Warn("session start: %v", err)
	}
	if surface != nil {
		// Extensions may have added theme defaults
		app.surface.SetTheme(app.loadTheme())
	}
	app.handler = app.extensions.EditorComponent(app.editor)
}

func (app *Application) endSession() {
	if app.runner.Busy() {
		app.runner.Abort()
		wctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := app.runner.Wait(wctx); err != nil && !errors.Is(err, context.Canceled) {
			app.logger.Warn("operation did not stop: %v", err)
		}
		cancel()
		app.drainCalls()
	}
	app.extensions.End(context.Background())
	app.handler = app.editor
	app.session = nil
}
