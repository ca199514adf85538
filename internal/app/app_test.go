package app

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nescore/internal/cartridge"
	"nescore/internal/graphics"
)

// writeROM stores a small NROM image that fills the backdrop through
// palette RAM and then spins.
func writeROM(t *testing.T) string {
	t.Helper()
	rom := cartridge.NewROMBuilder().WithCode(0x8000,
		0xA9, 0x3F, // LDA #$3F
		0x8D, 0x06, 0x20, // STA $2006
		0xA9, 0x00, // LDA #$00
		0x8D, 0x06, 0x20, // STA $2006
		0xA9, 0x21, // LDA #$21
		0x8D, 0x07, 0x20, // STA $2007
		0x4C, 0x0F, 0x80, // JMP $800F
	).Build()

	path := filepath.Join(t.TempDir(), "test.nes")
	if err := os.WriteFile(path, rom, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func headlessConfig(t *testing.T) *Config {
	c := NewConfig()
	c.Video.Backend = string(graphics.BackendHeadless)
	c.Paths.Screenshots = t.TempDir()
	c.Window.Scale = 1
	return c
}

func TestApplicationHeadlessRun(t *testing.T) {
	shot := filepath.Join(t.TempDir(), "last.png")
	var trace bytes.Buffer

	app, err := NewApplication(headlessConfig(t), Options{
		ROMPath:    writeROM(t),
		Frames:     3,
		Screenshot: shot,
		Trace:      &trace,
		Digest:     true,
	})
	if err != nil {
		t.Fatalf("NewApplication failed: %v", err)
	}
	defer app.Cleanup()

	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := app.Bus().FrameCount(); got != 3 {
		t.Errorf("Expected 3 frames, got %d", got)
	}
	if len(app.Digest()) != 40 {
		t.Errorf("Expected a SHA-1 digest, got %q", app.Digest())
	}
	if _, err := os.Stat(shot); err != nil {
		t.Errorf("Expected screenshot: %v", err)
	}
	if !strings.HasPrefix(trace.String(), "8000  A9 3F") {
		t.Errorf("Expected trace to start at $8000, got %q", strings.SplitN(trace.String(), "\n", 2)[0])
	}

	// backdrop written through $3F00 shows up in the published frame
	want := app.Bus().PPU.Frame().At(0, 0)
	if want != 0xFF64B0FF {
		t.Errorf("Expected backdrop 0xFF64B0FF, got 0x%08X", want)
	}

	window := app.window.(*graphics.HeadlessWindow)
	if window.FrameCount() != 3 {
		t.Errorf("Expected presenter to see all 3 frames, got %d", window.FrameCount())
	}
}

func TestApplicationDigestIsDeterministic(t *testing.T) {
	rom := writeROM(t)
	hashes := make([]string, 2)
	for i := range hashes {
		app, err := NewApplication(headlessConfig(t), Options{ROMPath: rom, Frames: 4, Digest: true})
		if err != nil {
			t.Fatalf("NewApplication failed: %v", err)
		}
		if err := app.Run(context.Background()); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		hashes[i] = app.Digest()
		app.Cleanup()
	}
	if hashes[0] != hashes[1] {
		t.Errorf("Expected identical digests, got %s and %s", hashes[0], hashes[1])
	}
}

func TestApplicationMissingROM(t *testing.T) {
	_, err := NewApplication(headlessConfig(t), Options{ROMPath: filepath.Join(t.TempDir(), "none.nes")})

	var appErr *ApplicationError
	if !errors.As(err, &appErr) || appErr.Component != "cartridge" {
		t.Fatalf("Expected cartridge ApplicationError, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected ErrNotExist in chain, got %v", err)
	}
}

func TestApplicationBadROM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.nes")
	os.WriteFile(path, []byte("not a rom at all"), 0644)

	_, err := NewApplication(headlessConfig(t), Options{ROMPath: path})
	if !errors.Is(err, cartridge.ErrInvalidHeader) {
		t.Errorf("Expected ErrInvalidHeader, got %v", err)
	}
}

func TestApplicationCancelledRunIsClean(t *testing.T) {
	app, err := NewApplication(headlessConfig(t), Options{ROMPath: writeROM(t)})
	if err != nil {
		t.Fatalf("NewApplication failed: %v", err)
	}
	defer app.Cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.Run(ctx); err != nil {
		t.Errorf("Expected cancelled run to return nil, got %v", err)
	}
}

func TestHandleEvents(t *testing.T) {
	app, err := NewApplication(headlessConfig(t), Options{ROMPath: writeROM(t)})
	if err != nil {
		t.Fatalf("NewApplication failed: %v", err)
	}
	defer app.Cleanup()

	err = app.handleEvents([]graphics.InputEvent{
		{Type: graphics.InputEventTypeButton, Player: 1, Button: 1, Pressed: true},
		{Type: graphics.InputEventTypePause},
	})
	if err != nil {
		t.Fatalf("handleEvents failed: %v", err)
	}
	if !app.Bus().Input.Controller1.IsPressed(1) {
		t.Error("Expected button A pressed on controller 1")
	}
	if !app.Emulator().IsPaused() {
		t.Error("Expected emulator paused")
	}

	if err := app.handleEvents([]graphics.InputEvent{{Type: graphics.InputEventTypeQuit}}); !errors.Is(err, errQuit) {
		t.Errorf("Expected errQuit, got %v", err)
	}
}
