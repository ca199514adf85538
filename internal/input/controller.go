// Package input implements controller handling for the NES.
package input

import "sync/atomic"

// Button represents NES controller buttons
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller is a standard pad read serially through $4016/$4017. Button
// state may be set from any goroutine; the shift register belongs to the
// emulation goroutine.
type Controller struct {
	buttons atomic.Uint32

	shiftRegister uint8
	bitPosition   uint8
	strobe        bool
}

// New creates a new Controller instance
func New() *Controller {
	return &Controller{}
}

// SetButton presses or releases one button.
func (c *Controller) SetButton(button Button, pressed bool) {
	for {
		old := c.buttons.Load()
		next := old &^ uint32(button)
		if pressed {
			next |= uint32(button)
		}
		if c.buttons.CompareAndSwap(old, next) {
			return
		}
	}
}

// SetButtons replaces the whole button state.
func (c *Controller) SetButtons(buttons Button) {
	c.buttons.Store(uint32(buttons))
}

// IsPressed returns true if the button is currently pressed
func (c *Controller) IsPressed(button Button) bool {
	return Button(c.buttons.Load())&button != 0
}

// Write handles writes to the controller register ($4016). While strobe
// is high the shift register keeps reloading.
func (c *Controller) Write(value uint8) {
	c.strobe = value&1 != 0
	if c.strobe {
		c.latch()
	}
}

func (c *Controller) latch() {
	c.shiftRegister = uint8(c.buttons.Load())
	c.bitPosition = 0
}

// Read returns the next button bit in A, B, Select, Start, Up, Down, Left,
// Right order, then 1s once all eight have been shifted out.
func (c *Controller) Read() uint8 {
	if c.strobe {
		c.latch()
		return c.shiftRegister & 1
	}
	if c.bitPosition >= 8 {
		return 1
	}
	bit := c.shiftRegister & 1
	c.shiftRegister >>= 1
	c.bitPosition++
	return bit
}

// Reset resets the controller state
func (c *Controller) Reset() {
	c.buttons.Store(0)
	c.shiftRegister = 0
	c.bitPosition = 0
	c.strobe = false
}

// InputState represents the state of all input devices
type InputState struct {
	Controller1 *Controller
	Controller2 *Controller
}

// NewInputState creates a new input state with two controllers
func NewInputState() *InputState {
	return &InputState{
		Controller1: New(),
		Controller2: New(),
	}
}

// Reset resets all input devices
func (is *InputState) Reset() {
	is.Controller1.Reset()
	is.Controller2.Reset()
}

// Read reads from controller ports
func (is *InputState) Read(address uint16) uint8 {
	switch address {
	case 0x4016:
		return is.Controller1.Read()
	case 0x4017:
		return is.Controller2.Read()
	}
	return 0
}

// Write writes to controller ports. Both pads share the strobe line.
func (is *InputState) Write(address uint16, value uint8) {
	if address == 0x4016 {
		is.Controller1.Write(value)
		is.Controller2.Write(value)
	}
}
