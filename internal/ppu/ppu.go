// Package ppu implements the Picture Processing Unit for the NES.
package ppu

import "sync/atomic"

const (
	Width  = 256
	Height = 240

	DotsPerScanline   = 341
	ScanlinesPerFrame = 262
	CyclesPerFrame    = DotsPerScanline * ScanlinesPerFrame

	preRenderScanline = -1
	postRenderLine    = 240
	vblankScanline    = 241
	lastScanline      = 260
)

// Status register bits
const (
	statusOverflow   = 0x20
	statusSprite0Hit = 0x40
	statusVBlank     = 0x80
)

// Memory is the PPU's view of the address space: pattern tables,
// nametables and palette RAM.
type Memory interface {
	ReadVideo(address uint16) uint8
	WriteVideo(address uint16, value uint8)
}

// PPU represents the NES Picture Processing Unit (2C02)
type PPU struct {
	// CPU-visible registers
	ppuCtrl   uint8 // $2000
	ppuMask   uint8 // $2001
	ppuStatus uint8 // $2002
	oamAddr   uint8 // $2003

	// Internal scroll state
	v uint16 // Current VRAM address (15 bits)
	t uint16 // Temporary VRAM address (15 bits)
	x uint8  // Fine X scroll (3 bits)
	w bool   // Write latch shared by $2005 and $2006

	readBuffer uint8 // $2007 read buffer

	memory Memory

	scanline   int // -1 to 260
	cycle      int // 0 to 340
	frameCount atomic.Uint64
	cycleCount uint64

	oam [256]uint8

	// Background pipeline
	nametableByte uint8
	attributeByte uint8
	lowTileByte   uint8
	highTileByte  uint8
	tileData      uint64

	// Sprites selected for the scanline being drawn
	spriteCount      int
	spritePatterns   [8]uint32
	spritePositions  [8]uint8
	spritePriorities [8]uint8
	spriteIndexes    [8]uint8

	palette *Palette

	// back is drawn into; front holds the last completed frame. The two
	// rotate through buffers so the front is never the one being drawn.
	buffers [3]*Frame
	next    int
	back    *Frame
	front   atomic.Pointer[Frame]

	nmiCallback           func()
	frameCompleteCallback func()
}

// New creates a new PPU instance
func New() *PPU {
	p := &PPU{palette: DefaultPalette()}
	p.Reset()
	return p
}

// SetMemory connects the video path of the address space.
func (p *PPU) SetMemory(mem Memory) {
	p.memory = mem
}

// SetPalette replaces the master palette used to turn color indices into ARGB.
func (p *PPU) SetPalette(palette *Palette) {
	if palette == nil {
		palette = DefaultPalette()
	}
	p.palette = palette
}

// SetNMICallback sets the function called when vblank starts with NMI enabled.
func (p *PPU) SetNMICallback(callback func()) {
	p.nmiCallback = callback
}

// SetFrameCompleteCallback sets the function called after each frame is published.
func (p *PPU) SetFrameCompleteCallback(callback func()) {
	p.frameCompleteCallback = callback
}

// Reset resets the PPU to initial state
func (p *PPU) Reset() {
	p.ppuCtrl = 0
	p.ppuMask = 0
	p.ppuStatus = 0
	p.oamAddr = 0
	p.v, p.t, p.x, p.w = 0, 0, 0, false
	p.readBuffer = 0

	p.scanline = preRenderScanline
	p.cycle = 0
	p.frameCount.Store(0)
	p.cycleCount = 0
	p.spriteCount = 0
	p.tileData = 0

	for i := range p.buffers {
		p.buffers[i] = new(Frame)
	}
	p.front.Store(p.buffers[0])
	p.next = 1
	p.back = p.buffers[p.next]
}

// Step advances the PPU by one cycle: the current dot is processed, then
// the position moves on.
func (p *PPU) Step() {
	p.tick()

	p.cycleCount++
	p.cycle++
	if p.cycle < DotsPerScanline {
		return
	}
	p.cycle = 0
	p.scanline++

	switch p.scanline {
	case vblankScanline:
		p.publish()
	case lastScanline + 1:
		p.scanline = preRenderScanline
		p.ppuStatus &^= statusVBlank | statusSprite0Hit | statusOverflow
	}
}

// Advance runs n PPU cycles.
func (p *PPU) Advance(n uint64) {
	for ; n > 0; n-- {
		p.Step()
	}
}

func (p *PPU) tick() {
	if p.scanline == vblankScanline && p.cycle == 1 {
		p.ppuStatus |= statusVBlank
		if p.ppuCtrl&0x80 != 0 {
			p.triggerNMI()
		}
	}

	if p.scanline < postRenderLine {
		p.renderCycle()
	}
}

func (p *PPU) triggerNMI() {
	if p.nmiCallback != nil {
		p.nmiCallback()
	}
}

// publish moves the finished back buffer to the front and draws the next
// frame into the oldest buffer of the ring.
func (p *PPU) publish() {
	p.front.Store(p.back)
	p.next = (p.next + 1) % len(p.buffers)
	p.back = p.buffers[p.next]
	p.frameCount.Add(1)
	if p.frameCompleteCallback != nil {
		p.frameCompleteCallback()
	}
}

// Frame returns the last completed frame. It is safe to call from any
// goroutine. The returned frame is not written again until two more frames
// have been published.
func (p *PPU) Frame() *Frame {
	return p.front.Load()
}

func (p *PPU) FrameCount() uint64 { return p.frameCount.Load() }
func (p *PPU) Scanline() int      { return p.scanline }
func (p *PPU) Cycle() int         { return p.cycle }
func (p *PPU) CycleCount() uint64 { return p.cycleCount }

// VBlank reports the status register's vblank bit without clearing it.
func (p *PPU) VBlank() bool { return p.ppuStatus&statusVBlank != 0 }

// OAM returns a copy of sprite memory.
func (p *PPU) OAM() [256]uint8 { return p.oam }

func (p *PPU) renderingEnabled() bool {
	return p.ppuMask&0x18 != 0
}
