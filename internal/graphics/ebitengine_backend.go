//go:build !headless
// +build !headless

package graphics

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"nescore/internal/input"
	"nescore/internal/ppu"
)

// EbitengineBackend implements the Backend interface using Ebitengine
type EbitengineBackend struct {
	initialized bool
	config      Config
}

// EbitengineWindow implements the Window interface for Ebitengine. All of
// its methods run on the Ebitengine goroutine.
type EbitengineWindow struct {
	title   string
	width   int
	height  int
	game    *EbitengineGame
	running bool
	events  []InputEvent

	updateFunc func() error
}

// EbitengineGame implements ebiten.Game for the NES emulator
type EbitengineGame struct {
	window     *EbitengineWindow
	frameImage *ebiten.Image
	pixels     []byte
	hasFrame   bool

	windowWidth  int
	windowHeight int
	drawCount    int
	debug        bool
}

type keyBinding struct {
	player int
	button input.Button
}

// keyBindings maps keyboard keys onto the two pads.
var keyBindings = map[ebiten.Key]keyBinding{
	ebiten.KeyArrowUp:    {1, input.ButtonUp},
	ebiten.KeyArrowDown:  {1, input.ButtonDown},
	ebiten.KeyArrowLeft:  {1, input.ButtonLeft},
	ebiten.KeyArrowRight: {1, input.ButtonRight},
	ebiten.KeyW:          {1, input.ButtonUp},
	ebiten.KeyS:          {1, input.ButtonDown},
	ebiten.KeyA:          {1, input.ButtonLeft},
	ebiten.KeyD:          {1, input.ButtonRight},
	ebiten.KeyJ:          {1, input.ButtonA},
	ebiten.KeyK:          {1, input.ButtonB},
	ebiten.KeyEnter:      {1, input.ButtonStart},
	ebiten.KeySpace:      {1, input.ButtonSelect},
	ebiten.Key1:          {2, input.ButtonUp},
	ebiten.Key2:          {2, input.ButtonDown},
	ebiten.Key3:          {2, input.ButtonLeft},
	ebiten.Key4:          {2, input.ButtonRight},
	ebiten.Key5:          {2, input.ButtonA},
	ebiten.Key6:          {2, input.ButtonB},
	ebiten.Key7:          {2, input.ButtonStart},
	ebiten.Key8:          {2, input.ButtonSelect},
}

// NewEbitengineBackend creates a new Ebitengine graphics backend
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

// Initialize initializes the Ebitengine backend
func (b *EbitengineBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("Ebitengine backend already initialized")
	}
	b.config = config
	b.initialized = true
	return nil
}

// CreateWindow creates an Ebitengine window
func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}
	if b.config.Headless {
		return nil, fmt.Errorf("cannot create window in headless mode")
	}

	game := &EbitengineGame{
		frameImage:   ebiten.NewImage(ppu.Width, ppu.Height),
		pixels:       make([]byte, ppu.Width*ppu.Height*4),
		windowWidth:  width,
		windowHeight: height,
		debug:        b.config.Debug,
	}
	window := &EbitengineWindow{
		title:   title,
		width:   width,
		height:  height,
		game:    game,
		running: true,
	}
	game.window = window

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(b.config.VSync)
	ebiten.SetFullscreen(b.config.Fullscreen)
	ebiten.SetScreenFilterEnabled(b.config.Filter == "linear")

	return window, nil
}

// Cleanup releases all Ebitengine resources
func (b *EbitengineBackend) Cleanup() error {
	b.initialized = false
	return nil
}

func (b *EbitengineBackend) IsHeadless() bool { return b.config.Headless }
func (b *EbitengineBackend) GetName() string  { return "Ebitengine" }

func (w *EbitengineWindow) SetTitle(title string) {
	w.title = title
	ebiten.SetWindowTitle(title)
}

func (w *EbitengineWindow) GetSize() (width, height int) {
	return w.width, w.height
}

func (w *EbitengineWindow) ShouldClose() bool {
	return !w.running
}

// PollEvents returns and clears the queued events
func (w *EbitengineWindow) PollEvents() []InputEvent {
	events := w.events
	w.events = nil
	return events
}

// RenderFrame converts a NES frame into the texture drawn on the next Draw
func (w *EbitengineWindow) RenderFrame(frame *ppu.Frame) error {
	if w.game == nil {
		return fmt.Errorf("game not initialized")
	}
	if frame == nil {
		return nil
	}

	pix := w.game.pixels
	for i, argb := range frame {
		pix[i*4+0] = uint8(argb >> 16)
		pix[i*4+1] = uint8(argb >> 8)
		pix[i*4+2] = uint8(argb)
		pix[i*4+3] = 0xFF
	}
	w.game.frameImage.WritePixels(pix)
	w.game.hasFrame = true
	return nil
}

func (w *EbitengineWindow) Cleanup() error {
	w.running = false
	return nil
}

// SetUpdateFunc sets the function called once per Ebitengine tick. It
// typically drains PollEvents and hands the latest frame to RenderFrame.
func (w *EbitengineWindow) SetUpdateFunc(updateFunc func() error) {
	w.updateFunc = updateFunc
}

// Run blocks in the Ebitengine game loop until the window closes or the
// update function fails. Closing the window is not an error.
func (w *EbitengineWindow) Run() error {
	if w.game == nil {
		return fmt.Errorf("game not initialized")
	}
	err := ebiten.RunGame(w.game)
	w.running = false
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Update implements ebiten.Game.Update
func (g *EbitengineGame) Update() error {
	if !g.window.running {
		return ebiten.Termination
	}

	g.processInput()

	if g.window.updateFunc != nil {
		if err := g.window.updateFunc(); err != nil {
			return err
		}
	}
	return nil
}

// Draw implements ebiten.Game.Draw
func (g *EbitengineGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{A: 0xFF})
	if !g.hasFrame {
		return
	}

	scaleX := float64(g.windowWidth) / ppu.Width
	scaleY := float64(g.windowHeight) / ppu.Height
	scale := min(scaleX, scaleY)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(
		(float64(g.windowWidth)-ppu.Width*scale)/2,
		(float64(g.windowHeight)-ppu.Height*scale)/2,
	)
	screen.DrawImage(g.frameImage, op)

	g.drawCount++
	if g.debug && g.drawCount%1800 == 0 {
		log.Printf("[GFX] drawn %d frames at %.2fx, %.1f TPS", g.drawCount, scale, ebiten.ActualTPS())
	}
}

// Layout implements ebiten.Game.Layout
func (g *EbitengineGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.windowWidth = outsideWidth
	g.windowHeight = outsideHeight
	return outsideWidth, outsideHeight
}

func (g *EbitengineGame) processInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || ebiten.IsWindowBeingClosed() {
		g.window.events = append(g.window.events, InputEvent{Type: InputEventTypeQuit, Pressed: true})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.window.events = append(g.window.events, InputEvent{Type: InputEventTypeReset, Pressed: true})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.window.events = append(g.window.events, InputEvent{Type: InputEventTypePause, Pressed: true})
	}

	for key, binding := range keyBindings {
		switch {
		case inpututil.IsKeyJustPressed(key):
			g.window.events = append(g.window.events, InputEvent{
				Type: InputEventTypeButton, Player: binding.player, Button: binding.button, Pressed: true,
			})
		case inpututil.IsKeyJustReleased(key):
			g.window.events = append(g.window.events, InputEvent{
				Type: InputEventTypeButton, Player: binding.player, Button: binding.button, Pressed: false,
			})
		}
	}
}
