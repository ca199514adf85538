// Package apu holds the audio and frame-counter registers. No sound is
// produced; the registers exist so programs that program them run unchanged.
package apu

// APU represents the NES Audio Processing Unit register file
type APU struct {
	registers    [0x14]uint8 // $4000-$4013
	channels     uint8       // $4015 enable bits
	frameCounter uint8       // $4017
}

// New creates a new APU instance
func New() *APU {
	return &APU{}
}

// Reset clears every register.
func (apu *APU) Reset() {
	*apu = APU{}
}

// WriteRegister stores a write to $4000-$4013, $4015 or $4017.
func (apu *APU) WriteRegister(address uint16, value uint8) {
	switch {
	case address >= 0x4000 && address <= 0x4013:
		apu.registers[address-0x4000] = value
	case address == 0x4015:
		apu.channels = value & 0x1F
	case address == 0x4017:
		apu.frameCounter = value
	}
}

// ReadStatus returns $4015. With no channels running, nothing is ever
// playing and no IRQ is pending.
func (apu *APU) ReadStatus() uint8 {
	return 0
}

// Register returns the last value written to a channel register.
func (apu *APU) Register(address uint16) uint8 {
	if address >= 0x4000 && address <= 0x4013 {
		return apu.registers[address-0x4000]
	}
	return 0
}

func (apu *APU) Channels() uint8     { return apu.channels }
func (apu *APU) FrameCounter() uint8 { return apu.frameCounter }
