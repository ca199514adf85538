package cartridge

import (
	"bytes"
)

// ROMBuilder assembles iNES images in memory. Tests across the module use
// it to run small hand-written programs without ROM files on disk.
type ROMBuilder struct {
	prgBanks uint8
	chrBanks uint8
	mapperID uint8
	mirror   MirrorMode
	battery  bool
	trainer  []uint8
	prg      []uint8
	chr      []uint8
}

// NewROMBuilder returns a builder for a one-bank NROM image with 8KB of
// CHR ROM and all vectors pointing at $8000.
func NewROMBuilder() *ROMBuilder {
	b := &ROMBuilder{prgBanks: 1, chrBanks: 1}
	b.resize()
	b.WithResetVector(0x8000).WithNMIVector(0x8000).WithIRQVector(0x8000)
	return b
}

// WithPRGBanks sets the PRG ROM size in 16KB units. It clears PRG
// content, so call it before placing code.
func (b *ROMBuilder) WithPRGBanks(n uint8) *ROMBuilder {
	b.prgBanks = n
	b.prg = nil
	b.resize()
	return b.WithResetVector(0x8000).WithNMIVector(0x8000).WithIRQVector(0x8000)
}

// WithCHRBanks sets the CHR ROM size in 8KB units; 0 selects CHR RAM.
func (b *ROMBuilder) WithCHRBanks(n uint8) *ROMBuilder {
	b.chrBanks = n
	b.chr = make([]uint8, int(n)*chrBankSize)
	return b
}

func (b *ROMBuilder) WithMapper(id uint8) *ROMBuilder {
	b.mapperID = id
	return b
}

func (b *ROMBuilder) WithMirroring(m MirrorMode) *ROMBuilder {
	b.mirror = m
	return b
}

func (b *ROMBuilder) WithBattery() *ROMBuilder {
	b.battery = true
	return b
}

// WithTrainer adds a 512 byte trainer block, padded or cut to size.
func (b *ROMBuilder) WithTrainer(data []uint8) *ROMBuilder {
	b.trainer = make([]uint8, trainerSize)
	copy(b.trainer, data)
	return b
}

// WithCode places bytes at a CPU address as seen at power-on: $8000-$BFFF
// is the first bank and $C000-$FFFF the last.
func (b *ROMBuilder) WithCode(address uint16, code ...uint8) *ROMBuilder {
	copy(b.prg[b.prgOffset(address):], code)
	return b
}

// WithPRGByte sets a byte at a raw PRG offset.
func (b *ROMBuilder) WithPRGByte(offset int, value uint8) *ROMBuilder {
	b.prg[offset] = value
	return b
}

// WithCHR copies data into CHR ROM starting at offset.
func (b *ROMBuilder) WithCHR(offset int, data ...uint8) *ROMBuilder {
	copy(b.chr[offset:], data)
	return b
}

func (b *ROMBuilder) WithNMIVector(address uint16) *ROMBuilder   { return b.vector(0xFFFA, address) }
func (b *ROMBuilder) WithResetVector(address uint16) *ROMBuilder { return b.vector(0xFFFC, address) }
func (b *ROMBuilder) WithIRQVector(address uint16) *ROMBuilder   { return b.vector(0xFFFE, address) }

func (b *ROMBuilder) vector(at, address uint16) *ROMBuilder {
	return b.WithCode(at, uint8(address), uint8(address>>8))
}

func (b *ROMBuilder) prgOffset(address uint16) int {
	if address >= 0xC000 {
		return len(b.prg) - prgBankSize + int(address&0x3FFF)
	}
	return int(address & 0x3FFF)
}

func (b *ROMBuilder) resize() {
	b.prg = make([]uint8, int(b.prgBanks)*prgBankSize)
	if b.chr == nil {
		b.chr = make([]uint8, int(b.chrBanks)*chrBankSize)
	}
}

// Build returns the encoded iNES image.
func (b *ROMBuilder) Build() []byte {
	var buf bytes.Buffer
	flags6 := b.mapperID << 4
	switch b.mirror {
	case MirrorVertical:
		flags6 |= 0x01
	case MirrorFourScreen:
		flags6 |= 0x08
	}
	if b.battery {
		flags6 |= 0x02
	}
	if b.trainer != nil {
		flags6 |= 0x04
	}
	buf.Write(inesMagic[:])
	buf.Write([]uint8{b.prgBanks, b.chrBanks, flags6, b.mapperID & 0xF0})
	buf.Write(make([]uint8, 8))
	buf.Write(b.trainer)
	buf.Write(b.prg)
	buf.Write(b.chr)
	return buf.Bytes()
}

// BuildCartridge builds the image and loads it.
func (b *ROMBuilder) BuildCartridge() (*Cartridge, error) {
	return LoadFromBytes(b.Build())
}
