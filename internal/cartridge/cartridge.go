// Package cartridge implements ROM loading and bank-switched address
// translation for NES cartridges.
package cartridge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// MirrorMode represents nametable mirroring mode
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorFourScreen
)

func (m MirrorMode) String() string {
	switch m {
	case MirrorHorizontal:
		return "horizontal"
	case MirrorVertical:
		return "vertical"
	case MirrorFourScreen:
		return "four-screen"
	}
	return fmt.Sprintf("MirrorMode(%d)", uint8(m))
}

// Mapper translates CPU and PPU addresses into offsets within the
// cartridge's PRG and CHR storage. Translation is pure given the mapper's
// current bank registers; only WriteRegister changes that state.
type Mapper interface {
	// MapPRG translates an address in $8000-$FFFF. ok is false when
	// nothing is mapped there.
	MapPRG(address uint16) (offset int, ok bool)
	// MapCHR translates a pattern table address in $0000-$1FFF.
	MapCHR(address uint16) (offset int, ok bool)
	// WriteRegister receives CPU writes to $8000-$FFFF.
	WriteRegister(address uint16, value uint8)
}

// Cartridge represents a NES cartridge
type Cartridge struct {
	prgROM []uint8
	chr    []uint8
	prgRAM [0x2000]uint8

	mapperID uint8
	mapper   Mapper
	mirror   MirrorMode

	hasBattery bool
	hasCHRRAM  bool
}

// LoadFromFile loads a cartridge from an iNES file
func LoadFromFile(filename string) (*Cartridge, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cart, err := LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filename, err)
	}
	return cart, nil
}

// LoadFromBytes loads a cartridge from an in-memory iNES image
func LoadFromBytes(data []byte) (*Cartridge, error) {
	return LoadFromReader(bytes.NewReader(data))
}

// LoadFromReader loads a cartridge from an io.Reader
func LoadFromReader(r io.Reader) (*Cartridge, error) {
	header, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	cart := &Cartridge{
		mapperID:   header.MapperID(),
		mirror:     header.Mirror(),
		hasBattery: header.HasBattery(),
	}

	if header.HasTrainer() {
		if _, err := io.CopyN(io.Discard, r, trainerSize); err != nil {
			return nil, truncated("trainer", err)
		}
	}

	cart.prgROM = make([]uint8, int(header.PRGBanks)*prgBankSize)
	if _, err := io.ReadFull(r, cart.prgROM); err != nil {
		return nil, truncated("PRG ROM", err)
	}

	if header.CHRBanks == 0 {
		cart.chr = make([]uint8, chrBankSize)
		cart.hasCHRRAM = true
	} else {
		cart.chr = make([]uint8, int(header.CHRBanks)*chrBankSize)
		if _, err := io.ReadFull(r, cart.chr); err != nil {
			return nil, truncated("CHR ROM", err)
		}
	}

	cart.mapper, err = createMapper(cart.mapperID, len(cart.prgROM)/prgBankSize, len(cart.chr)/chrBankSize)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func truncated(section string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s", ErrTruncated, section)
	}
	return err
}

// createMapper creates the appropriate mapper for the given ID
func createMapper(id uint8, prgBanks, chrBanks int) (Mapper, error) {
	switch id {
	case 0:
		return newNROM(prgBanks), nil
	case 2:
		return newUxROM(prgBanks), nil
	case 3:
		return newCNROM(prgBanks, chrBanks), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedMapper, id)
}

// ReadPRG reads the CPU side of the cartridge ($4020-$FFFF).
// PRG RAM answers at $6000-$7FFF; everything below that is unmapped.
func (c *Cartridge) ReadPRG(address uint16) uint8 {
	switch {
	case address >= 0x8000:
		if offset, ok := c.mapper.MapPRG(address); ok && offset < len(c.prgROM) {
			return c.prgROM[offset]
		}
	case address >= 0x6000:
		return c.prgRAM[address-0x6000]
	}
	return 0
}

// ReadPRGWord reads a little-endian word through the PRG mapping.
func (c *Cartridge) ReadPRGWord(address uint16) uint16 {
	return uint16(c.ReadPRG(address)) | uint16(c.ReadPRG(address+1))<<8
}

// WritePRG stores to PRG RAM or forwards to the mapper's bank registers.
func (c *Cartridge) WritePRG(address uint16, value uint8) {
	switch {
	case address >= 0x8000:
		c.mapper.WriteRegister(address, value)
	case address >= 0x6000:
		c.prgRAM[address-0x6000] = value
	}
}

// ReadCHR reads pattern table memory ($0000-$1FFF on the PPU bus).
func (c *Cartridge) ReadCHR(address uint16) uint8 {
	if offset, ok := c.mapper.MapCHR(address); ok && offset < len(c.chr) {
		return c.chr[offset]
	}
	return 0
}

// WriteCHR writes pattern table memory. Writes to CHR ROM are dropped.
func (c *Cartridge) WriteCHR(address uint16, value uint8) {
	if !c.hasCHRRAM {
		return
	}
	if offset, ok := c.mapper.MapCHR(address); ok && offset < len(c.chr) {
		c.chr[offset] = value
	}
}

func (c *Cartridge) Mirror() MirrorMode { return c.mirror }
func (c *Cartridge) MapperID() uint8    { return c.mapperID }
func (c *Cartridge) HasBattery() bool   { return c.hasBattery }
func (c *Cartridge) HasCHRRAM() bool    { return c.hasCHRRAM }
func (c *Cartridge) PRGBanks() int      { return len(c.prgROM) / prgBankSize }

// CHRBanks returns the number of 8KB CHR banks, 0 for CHR RAM boards.
func (c *Cartridge) CHRBanks() int {
	if c.hasCHRRAM {
		return 0
	}
	return len(c.chr) / chrBankSize
}
