package input

import (
	"sync"
	"testing"
)

func readAll(is *InputState, address uint16, n int) []uint8 {
	bits := make([]uint8, n)
	for i := range bits {
		bits[i] = is.Read(address)
	}
	return bits
}

func TestControllerReadOrder(t *testing.T) {
	is := NewInputState()
	is.Controller1.SetButton(ButtonA, true)
	is.Controller1.SetButton(ButtonStart, true)
	is.Controller1.SetButton(ButtonRight, true)

	is.Write(0x4016, 1)
	is.Write(0x4016, 0)

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 1, 1, 1}
	got := readAll(is, 0x4016, len(want))
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Read %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestControllerStrobeHeld(t *testing.T) {
	is := NewInputState()
	is.Controller1.SetButton(ButtonA, true)
	is.Write(0x4016, 1)

	for i := 0; i < 4; i++ {
		if got := is.Read(0x4016); got != 1 {
			t.Errorf("Expected A while strobe is high, got %d", got)
		}
	}

	is.Controller1.SetButton(ButtonA, false)
	if got := is.Read(0x4016); got != 0 {
		t.Errorf("Expected strobe to track live state, got %d", got)
	}
}

func TestControllerLatchIgnoresLaterPresses(t *testing.T) {
	is := NewInputState()
	is.Write(0x4016, 1)
	is.Write(0x4016, 0)
	is.Controller1.SetButton(ButtonA, true)

	if got := is.Read(0x4016); got != 0 {
		t.Errorf("Expected latched state, got %d", got)
	}
}

func TestSecondController(t *testing.T) {
	is := NewInputState()
	is.Controller2.SetButtons(ButtonB)
	is.Write(0x4016, 1)
	is.Write(0x4016, 0)

	got := readAll(is, 0x4017, 2)
	if got[0] != 0 || got[1] != 1 {
		t.Errorf("Expected B on controller 2, got %v", got)
	}
	if is.Read(0x4016) != 0 {
		t.Errorf("Expected controller 1 idle")
	}
}

func TestSetButtonConcurrent(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for _, b := range []Button{ButtonA, ButtonB, ButtonUp, ButtonDown} {
		wg.Add(1)
		go func(b Button) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				c.SetButton(b, true)
			}
		}(b)
	}
	wg.Wait()

	for _, b := range []Button{ButtonA, ButtonB, ButtonUp, ButtonDown} {
		if !c.IsPressed(b) {
			t.Errorf("Expected button %d pressed", b)
		}
	}
}
