package app

import (
	"context"
	"errors"
	"log"
	"math"
	"sync/atomic"
	"time"

	"nescore/internal/bus"
	"nescore/internal/ppu"
)

// FrameEvent carries one published frame to the presentation side.
type FrameEvent struct {
	Number uint64
	Frame  *ppu.Frame
}

// Emulator owns the simulation goroutine: it steps the bus one frame at a
// time, paces to the target frame rate and hands frames out on a channel.
// Only Run touches the bus; the other methods are safe from any goroutine.
type Emulator struct {
	bus    *bus.Bus
	logger *log.Logger

	targetFrameTime time.Duration
	frames          chan FrameEvent
	lossless        bool
	onFrame         func(FrameEvent) error

	paused         atomic.Bool
	resetRequested atomic.Bool
	fps            atomic.Uint64 // math.Float64bits
}

// NewEmulator creates an emulator paced to frameRate frames per second.
// A zero rate runs as fast as possible. When lossless is set every frame
// is delivered and the simulation waits for the consumer; otherwise frames
// the consumer has not picked up are dropped.
func NewEmulator(b *bus.Bus, frameRate float64, lossless bool, logger *log.Logger) *Emulator {
	e := &Emulator{
		bus:      b,
		logger:   logger,
		frames:   make(chan FrameEvent, 1),
		lossless: lossless,
	}
	if frameRate > 0 {
		e.targetFrameTime = time.Duration(float64(time.Second) / frameRate)
	}
	return e
}

// Frames returns the channel of completed frames. It is closed when Run
// returns.
func (e *Emulator) Frames() <-chan FrameEvent {
	return e.frames
}

// OnFrame registers a hook run on the simulation goroutine after each frame.
// An error from the hook stops the simulation.
func (e *Emulator) OnFrame(hook func(FrameEvent) error) {
	e.onFrame = hook
}

func (e *Emulator) Pause()  { e.paused.Store(true) }
func (e *Emulator) Resume() { e.paused.Store(false) }

func (e *Emulator) TogglePause() {
	for {
		old := e.paused.Load()
		if e.paused.CompareAndSwap(old, !old) {
			return
		}
	}
}

func (e *Emulator) IsPaused() bool { return e.paused.Load() }

// Reset asks the simulation to press the console's reset button before
// the next frame.
func (e *Emulator) Reset() { e.resetRequested.Store(true) }

// FPS returns the measured frame rate over the last second.
func (e *Emulator) FPS() float64 {
	return math.Float64frombits(e.fps.Load())
}

// Run emulates until ctx is cancelled, maxFrames frames have completed
// (0 means no limit) or the CPU halts. A halted CPU ends the run without
// error.
func (e *Emulator) Run(ctx context.Context, maxFrames uint64) error {
	defer close(e.frames)

	stop := context.AfterFunc(ctx, e.bus.Stop)
	defer stop()

	var ticker *time.Ticker
	if e.targetFrameTime > 0 {
		ticker = time.NewTicker(e.targetFrameTime)
		defer ticker.Stop()
	}

	windowStart := time.Now()
	windowFrames := 0

	for maxFrames == 0 || e.bus.FrameCount() < maxFrames {
		if ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}

		if e.resetRequested.Swap(false) {
			e.logger.Printf("[APP] reset")
			e.bus.Reset()
		}
		if e.paused.Load() {
			if ticker == nil {
				time.Sleep(time.Millisecond)
			}
			continue
		}

		if err := e.bus.StepFrame(); err != nil {
			switch {
			case errors.Is(err, bus.ErrHalted):
				e.logger.Printf("[APP] CPU halted after %d frames: %s", e.bus.FrameCount(), e.bus.CPUState())
				return nil
			case errors.Is(err, bus.ErrStopped):
				return ctx.Err()
			}
			return err
		}

		event := FrameEvent{Number: e.bus.FrameCount(), Frame: e.bus.Frame()}
		if e.onFrame != nil {
			if err := e.onFrame(event); err != nil {
				return err
			}
		}
		if err := e.publish(ctx, event); err != nil {
			return err
		}

		windowFrames++
		if elapsed := time.Since(windowStart); elapsed >= time.Second {
			e.fps.Store(math.Float64bits(float64(windowFrames) / elapsed.Seconds()))
			windowStart, windowFrames = time.Now(), 0
		}
	}
	return nil
}

func (e *Emulator) publish(ctx context.Context, event FrameEvent) error {
	if e.lossless {
		select {
		case e.frames <- event:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	select {
	case e.frames <- event:
	default:
		// replace the stale frame the consumer has not picked up
		select {
		case <-e.frames:
		default:
		}
		select {
		case e.frames <- event:
		default:
		}
	}
	return nil
}
