package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/digest"
	"nescore/internal/graphics"
)

// errQuit ends the presentation loop when the user closes the window
var errQuit = errors.New("quit requested")

// Options are per-run settings that do not belong in the config file.
type Options struct {
	ROMPath string

	// Frames stops the run after this many frames; 0 runs until quit
	Frames uint64

	// Screenshot writes the last frame to this PNG path when the run ends
	Screenshot string

	// Trace receives one line per executed instruction
	Trace io.Writer

	// Digest fingerprints every frame
	Digest bool

	Logger *log.Logger
}

// Application represents the main NES emulator application
type Application struct {
	config *Config
	opts   Options
	logger *log.Logger

	bus       *bus.Bus
	cartridge *cartridge.Cartridge

	graphicsBackend graphics.Backend
	window          graphics.Window
	videoProcessor  *graphics.VideoProcessor

	emulator *Emulator
	digest   *digest.Video
	title    string
}

// ApplicationError represents application-specific errors
type ApplicationError struct {
	Component string
	Operation string
	Err       error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Component, e.Operation, e.Err)
}

func (e *ApplicationError) Unwrap() error { return e.Err }

// NewApplication loads the ROM, builds the system and opens the
// configured backend.
func NewApplication(config *Config, opts Options) (*Application, error) {
	if config == nil {
		config = NewConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, &ApplicationError{Component: "config", Operation: "validate", Err: err}
	}

	app := &Application{
		config: config,
		opts:   opts,
		logger: opts.Logger,
	}
	if app.logger == nil {
		app.logger = log.New(io.Discard, "", 0)
	}

	cart, err := cartridge.LoadFromFile(opts.ROMPath)
	if err != nil {
		return nil, &ApplicationError{Component: "cartridge", Operation: "load ROM", Err: err}
	}
	app.cartridge = cart

	palette, err := config.Palette()
	if err != nil {
		return nil, &ApplicationError{Component: "ppu", Operation: "load palette", Err: err}
	}

	busOpts := []bus.Option{bus.WithLogger(app.logger), bus.WithPalette(palette)}
	if opts.Trace != nil {
		busOpts = append(busOpts, bus.WithTrace(opts.Trace))
	}
	app.bus, err = bus.New(cart, busOpts...)
	if err != nil {
		return nil, &ApplicationError{Component: "bus", Operation: "power on", Err: err}
	}

	app.title = "nescore - " + filepath.Base(opts.ROMPath)
	if err := app.initializeGraphicsBackend(); err != nil {
		return nil, &ApplicationError{Component: "graphics", Operation: "initialize", Err: err}
	}

	app.videoProcessor = graphics.NewVideoProcessor(
		config.Video.Brightness,
		config.Video.Contrast,
		config.Video.Saturation,
	)

	// headless runs are batch jobs: no pacing and no dropped frames
	headless := app.graphicsBackend.IsHeadless()
	frameRate := config.Emulation.FrameRate
	if headless {
		frameRate = 0
	}
	app.emulator = NewEmulator(app.bus, frameRate, headless, app.logger)

	if opts.Digest {
		app.digest = digest.NewVideo()
		app.emulator.OnFrame(func(ev FrameEvent) error {
			return app.digest.AddFrame(ev.Frame)
		})
	}

	if config.Debug.StatsView {
		launchStatsView(app.logger)
	}
	return app, nil
}

func (app *Application) initializeGraphicsBackend() error {
	backendType := graphics.BackendType(app.config.Video.Backend)
	backend, err := graphics.CreateBackend(backendType)
	if err != nil {
		return err
	}

	width, height := app.config.Window.Width, app.config.Window.Height
	graphicsConfig := graphics.Config{
		WindowTitle:  app.title,
		WindowWidth:  width,
		WindowHeight: height,
		Fullscreen:   app.config.Window.Fullscreen,
		VSync:        app.config.Video.VSync,
		Filter:       app.config.Video.Filter,
		Scale:        app.config.Window.Scale,
		OutputDir:    app.config.Paths.Screenshots,
		Headless:     backendType == graphics.BackendHeadless,
		Debug:        app.config.Debug.EnableLogging,
	}

	if err := backend.Initialize(graphicsConfig); err != nil {
		if backendType != graphics.BackendEbitengine {
			return err
		}
		app.logger.Printf("[APP] Ebitengine backend failed (%v), falling back to headless", err)
		backend = graphics.NewHeadlessBackend()
		graphicsConfig.Headless = true
		if err := backend.Initialize(graphicsConfig); err != nil {
			return err
		}
	}
	app.graphicsBackend = backend

	window, err := backend.CreateWindow(app.title, width, height)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	app.window = window
	return nil
}

// Run emulates and presents frames until the user quits, ctx is cancelled,
// the frame limit is reached or the CPU halts. Cancellation and quitting
// are not errors.
func (app *Application) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	app.logger.Printf("[APP] running %s on %s backend, mapper %d",
		app.opts.ROMPath, app.graphicsBackend.GetName(), app.cartridge.MapperID())

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return app.emulator.Run(gctx, app.opts.Frames)
	})

	var presentErr error
	if ew, ok := graphics.AsEbitengineWindow(app.window); ok {
		// Ebitengine must own the main goroutine
		ew.SetUpdateFunc(func() error { return app.presentLatest(gctx) })
		presentErr = ew.Run()
		cancel()
	} else {
		g.Go(app.presentAll)
	}

	err := errors.Join(presentErr, g.Wait())
	if err == nil || errors.Is(err, errQuit) || (errors.Is(err, context.Canceled) && runCtx.Err() != nil) {
		err = nil
	}

	if app.opts.Screenshot != "" {
		if serr := graphics.SavePNG(app.bus.Frame(), app.opts.Screenshot, app.config.Window.Scale); serr != nil {
			err = errors.Join(err, serr)
		} else {
			app.logger.Printf("[APP] screenshot written to %s", app.opts.Screenshot)
		}
	}

	app.logger.Printf("[APP] stopped after %d frames, %d CPU cycles", app.bus.FrameCount(), app.bus.CPUCycles())
	return err
}

// presentAll renders every frame the emulator hands out until the frame
// channel closes.
func (app *Application) presentAll() error {
	for ev := range app.emulator.Frames() {
		if err := app.handleEvents(app.window.PollEvents()); err != nil {
			return err
		}
		if err := app.render(ev); err != nil {
			return err
		}
		if app.window.ShouldClose() {
			return errQuit
		}
	}
	return nil
}

// presentLatest is called once per Ebitengine tick. It shows the newest
// frame, if any, and ends the loop once the simulation is done.
func (app *Application) presentLatest(ctx context.Context) error {
	if err := app.handleEvents(app.window.PollEvents()); err != nil {
		return err
	}

	select {
	case ev, ok := <-app.emulator.Frames():
		if !ok {
			return errQuit
		}
		return app.render(ev)
	case <-ctx.Done():
		return errQuit
	default:
		return nil
	}
}

func (app *Application) render(ev FrameEvent) error {
	if err := app.window.RenderFrame(app.videoProcessor.ProcessFrame(ev.Frame)); err != nil {
		return fmt.Errorf("render frame %d: %w", ev.Number, err)
	}
	if app.config.Debug.ShowFPS && ev.Number%60 == 0 {
		app.window.SetTitle(fmt.Sprintf("%s (%.1f FPS)", app.title, app.emulator.FPS()))
	}
	return nil
}

func (app *Application) handleEvents(events []graphics.InputEvent) error {
	for _, ev := range events {
		switch ev.Type {
		case graphics.InputEventTypeQuit:
			return errQuit
		case graphics.InputEventTypeReset:
			app.emulator.Reset()
		case graphics.InputEventTypePause:
			app.emulator.TogglePause()
			app.logger.Printf("[APP] paused=%v", app.emulator.IsPaused())
		case graphics.InputEventTypeButton:
			app.bus.SetControllerButton(ev.Player, ev.Button, ev.Pressed)
		}
	}
	return nil
}

// Bus returns the emulated system. It must not be used while Run is active.
func (app *Application) Bus() *bus.Bus { return app.bus }

func (app *Application) Emulator() *Emulator { return app.emulator }

func (app *Application) Config() *Config { return app.config }

// Digest returns the chained frame hash, or "" when digests are off.
func (app *Application) Digest() string {
	if app.digest == nil {
		return ""
	}
	return app.digest.Hash()
}

// Cleanup releases all resources and shuts down the application
func (app *Application) Cleanup() error {
	var errs []error
	if app.window != nil {
		errs = append(errs, app.window.Cleanup())
	}
	if app.graphicsBackend != nil {
		errs = append(errs, app.graphicsBackend.Cleanup())
	}
	return errors.Join(errs...)
}
