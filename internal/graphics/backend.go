// Package graphics provides an abstraction layer for different rendering backends
package graphics

import (
	"fmt"

	"nescore/internal/input"
	"nescore/internal/ppu"
)

// Backend represents a graphics rendering backend
type Backend interface {
	// Initialize initializes the graphics backend
	Initialize(config Config) error

	// CreateWindow creates a window for rendering
	CreateWindow(title string, width, height int) (Window, error)

	// Cleanup releases all resources
	Cleanup() error

	// IsHeadless returns true if the backend never shows a window
	IsHeadless() bool

	// GetName returns the backend name for identification
	GetName() string
}

// Window represents a rendering target. RenderFrame receives published
// frame snapshots only and must not keep writing into them.
type Window interface {
	SetTitle(title string)
	GetSize() (width, height int)
	ShouldClose() bool

	// PollEvents returns the input events gathered since the last call
	PollEvents() []InputEvent

	// RenderFrame presents a completed NES frame
	RenderFrame(frame *ppu.Frame) error

	Cleanup() error
}

// Config contains configuration for graphics backends
type Config struct {
	WindowTitle  string
	WindowWidth  int
	WindowHeight int
	Fullscreen   bool
	VSync        bool

	// Filter is "nearest" or "linear"
	Filter string

	// Scale multiplies the NES resolution for saved images
	Scale int

	// OutputDir and ScreenshotFrames control headless PNG dumps
	OutputDir        string
	ScreenshotFrames []int

	Headless bool
	Debug    bool
}

// InputEvent represents an input event from the window
type InputEvent struct {
	Type    InputEventType
	Player  int
	Button  input.Button
	Pressed bool
}

// InputEventType represents the type of input event
type InputEventType int

const (
	InputEventTypeButton InputEventType = iota
	InputEventTypeQuit
	InputEventTypeReset
	InputEventTypePause
)

func (t InputEventType) String() string {
	switch t {
	case InputEventTypeButton:
		return "button"
	case InputEventTypeQuit:
		return "quit"
	case InputEventTypeReset:
		return "reset"
	case InputEventTypePause:
		return "pause"
	}
	return fmt.Sprintf("InputEventType(%d)", int(t))
}

// BackendType represents different graphics backend types
type BackendType string

const (
	BackendEbitengine BackendType = "ebitengine"
	BackendHeadless   BackendType = "headless"
	BackendTerminal   BackendType = "terminal"
)

// CreateBackend creates a graphics backend of the specified type
func CreateBackend(backendType BackendType) (Backend, error) {
	switch backendType {
	case BackendEbitengine, "":
		return NewEbitengineBackend(), nil
	case BackendHeadless:
		return NewHeadlessBackend(), nil
	case BackendTerminal:
		return NewTerminalBackend(), nil
	}
	return nil, fmt.Errorf("unknown graphics backend %q", backendType)
}

// AsEbitengineWindow tries to cast a Window to EbitengineWindow
func AsEbitengineWindow(window Window) (*EbitengineWindow, bool) {
	w, ok := window.(*EbitengineWindow)
	return w, ok
}
