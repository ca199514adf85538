package graphics

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"nescore/internal/ppu"
)

// HeadlessBackend implements the Backend interface without any display.
// Frames are counted and selected ones are written out as PNG files.
type HeadlessBackend struct {
	initialized bool
	config      Config
}

// HeadlessWindow implements the Window interface for headless operation
type HeadlessWindow struct {
	title      string
	width      int
	height     int
	running    bool
	frameCount int
	scale      int
	outputDir  string
	capture    map[int]bool
	saved      []string
}

// NewHeadlessBackend creates a new headless graphics backend
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

// Initialize initializes the headless backend
func (b *HeadlessBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("headless backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

// CreateWindow creates a headless "window"
func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}

	w := &HeadlessWindow{
		title:     title,
		width:     width,
		height:    height,
		running:   true,
		scale:     max(b.config.Scale, 1),
		outputDir: b.config.OutputDir,
		capture:   make(map[int]bool),
	}
	if w.outputDir == "" {
		w.outputDir = "."
	}
	for _, n := range b.config.ScreenshotFrames {
		w.capture[n] = true
	}
	return w, nil
}

func (b *HeadlessBackend) Cleanup() error {
	b.initialized = false
	return nil
}

func (b *HeadlessBackend) IsHeadless() bool { return true }
func (b *HeadlessBackend) GetName() string  { return "Headless" }

func (w *HeadlessWindow) SetTitle(title string)        { w.title = title }
func (w *HeadlessWindow) GetSize() (width, height int) { return w.width, w.height }
func (w *HeadlessWindow) ShouldClose() bool            { return !w.running }
func (w *HeadlessWindow) PollEvents() []InputEvent     { return nil }

// RenderFrame counts the frame and saves it when it was asked for
func (w *HeadlessWindow) RenderFrame(frame *ppu.Frame) error {
	w.frameCount++
	if !w.capture[w.frameCount] || frame == nil {
		return nil
	}

	path := filepath.Join(w.outputDir, fmt.Sprintf("frame_%05d.png", w.frameCount))
	if err := SavePNG(frame, path, w.scale); err != nil {
		return err
	}
	w.saved = append(w.saved, path)
	return nil
}

func (w *HeadlessWindow) Cleanup() error {
	w.running = false
	return nil
}

// FrameCount returns the number of frames rendered so far
func (w *HeadlessWindow) FrameCount() int { return w.frameCount }

// Saved returns the paths of the PNG files written so far
func (w *HeadlessWindow) Saved() []string { return w.saved }

// ScaleFrame returns the frame as an image enlarged by an integer factor
// with nearest-neighbour sampling.
func ScaleFrame(frame *ppu.Frame, scale int) *image.RGBA {
	src := frame.RGBA()
	if scale <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, ppu.Width*scale, ppu.Height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// SavePNG writes a frame to path as a PNG image.
func SavePNG(frame *ppu.Frame, path string, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	if err := png.Encode(f, ScaleFrame(frame, scale)); err != nil {
		f.Close()
		return fmt.Errorf("screenshot %s: %w", path, err)
	}
	return f.Close()
}
