// Package memory implements the NES CPU and PPU address spaces.
package memory

import "nescore/internal/cartridge"

// Memory is the address space shared by the CPU and the picture unit. The
// main path (Read/Write) is the CPU's view of $0000-$FFFF; the video path
// (ReadVideo/WriteVideo) is the PPU's view of $0000-$3FFF.
type Memory struct {
	// Internal RAM (2KB, mirrored to 8KB)
	ram [0x800]uint8

	ppuRegisters PPUInterface
	apuRegisters APUInterface
	inputSystem  InputInterface
	cartridge    CartridgeInterface

	video *VideoMemory

	dmaCallback func(uint8)
}

// PPUInterface defines the interface for PPU register access
type PPUInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// APUInterface defines the interface for APU register access
type APUInterface interface {
	WriteRegister(address uint16, value uint8)
	ReadStatus() uint8
}

// InputInterface defines the interface for input system access
type InputInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CartridgeInterface defines the interface for cartridge access
type CartridgeInterface interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
	Mirror() cartridge.MirrorMode
}

// New creates a new Memory instance. RAM powers up cleared.
func New(ppu PPUInterface, apu APUInterface, cart CartridgeInterface) *Memory {
	return &Memory{
		ppuRegisters: ppu,
		apuRegisters: apu,
		cartridge:    cart,
		video:        NewVideoMemory(cart, cart.Mirror()),
	}
}

// SetInputSystem sets the input system for controller access
func (m *Memory) SetInputSystem(input InputInterface) {
	m.inputSystem = input
}

// SetDMACallback sets the function invoked with the page number when the
// CPU writes $4014.
func (m *Memory) SetDMACallback(callback func(uint8)) {
	m.dmaCallback = callback
}

// Read reads a byte from the CPU address space. Unmapped addresses read 0.
func (m *Memory) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return m.ram[address&0x07FF]

	case address < 0x4000:
		if m.ppuRegisters == nil {
			return 0
		}
		return m.ppuRegisters.ReadRegister(0x2000 | address&0x0007)

	case address < 0x4020:
		switch address {
		case 0x4015:
			if m.apuRegisters != nil {
				return m.apuRegisters.ReadStatus()
			}
		case 0x4016, 0x4017:
			if m.inputSystem != nil {
				return m.inputSystem.Read(address)
			}
		}
		return 0

	default:
		return m.cartridge.ReadPRG(address)
	}
}

// Write writes a byte to the CPU address space.
func (m *Memory) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ram[address&0x07FF] = value

	case address < 0x4000:
		if m.ppuRegisters != nil {
			m.ppuRegisters.WriteRegister(0x2000|address&0x0007, value)
		}

	case address < 0x4020:
		switch {
		case address == 0x4014:
			if m.dmaCallback != nil {
				m.dmaCallback(value)
			}
		case address == 0x4016:
			if m.inputSystem != nil {
				m.inputSystem.Write(address, value)
			}
		case address <= 0x4017:
			// $4017 is the frame counter on writes and the second pad on reads.
			if m.apuRegisters != nil {
				m.apuRegisters.WriteRegister(address, value)
			}
		}

	default:
		m.cartridge.WritePRG(address, value)
	}
}

// ReadWord reads a little-endian word. The high byte comes from address+1,
// wrapping at $FFFF.
func (m *Memory) ReadWord(address uint16) uint16 {
	return uint16(m.Read(address)) | uint16(m.Read(address+1))<<8
}

// WriteWord writes a little-endian word.
func (m *Memory) WriteWord(address uint16, value uint16) {
	m.Write(address, uint8(value))
	m.Write(address+1, uint8(value>>8))
}

// ReadVideo reads from the PPU address space.
func (m *Memory) ReadVideo(address uint16) uint8 {
	return m.video.Read(address)
}

// WriteVideo writes to the PPU address space.
func (m *Memory) WriteVideo(address uint16, value uint8) {
	m.video.Write(address, value)
}

// Video exposes the PPU side for inspection.
func (m *Memory) Video() *VideoMemory {
	return m.video
}
