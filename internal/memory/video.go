package memory

import "nescore/internal/cartridge"

// CHRInterface is the slice of the cartridge the picture unit can see.
type CHRInterface interface {
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
}

// VideoMemory is the PPU's 14-bit address space: pattern tables from the
// cartridge, nametable RAM folded by the board's mirroring, and palette RAM.
type VideoMemory struct {
	vram       [0x1000]uint8 // 2KB on the console, 4KB when the board supplies four screens
	paletteRAM [32]uint8
	cartridge  CHRInterface
	mirroring  cartridge.MirrorMode
}

// NewVideoMemory creates the video address space for a cartridge's CHR
// memory and nametable mirroring.
func NewVideoMemory(cart CHRInterface, mirroring cartridge.MirrorMode) *VideoMemory {
	return &VideoMemory{
		cartridge: cart,
		mirroring: mirroring,
	}
}

// Read returns the byte at a 14-bit PPU address.
func (vm *VideoMemory) Read(address uint16) uint8 {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		return vm.cartridge.ReadCHR(address)
	case address < 0x3F00:
		return vm.vram[vm.nametableIndex(address)]
	default:
		return vm.paletteRAM[paletteIndex(address)]
	}
}

// Write stores a byte at a 14-bit PPU address. Writes to CHR ROM are
// dropped by the cartridge.
func (vm *VideoMemory) Write(address uint16, value uint8) {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		vm.cartridge.WriteCHR(address, value)
	case address < 0x3F00:
		vm.vram[vm.nametableIndex(address)] = value
	default:
		vm.paletteRAM[paletteIndex(address)] = value
	}
}

// nametableIndex folds $2000-$3EFF onto nametable RAM. $3000-$3EFF mirrors
// $2000-$2EFF before the board's mirroring is applied.
func (vm *VideoMemory) nametableIndex(address uint16) uint16 {
	address = (address - 0x2000) & 0x0FFF
	table := address / 0x0400
	offset := address & 0x03FF

	switch vm.mirroring {
	case cartridge.MirrorHorizontal:
		// $2000=$2400, $2800=$2C00
		return (table/2)*0x0400 + offset
	case cartridge.MirrorVertical:
		// $2000=$2800, $2400=$2C00
		return (table%2)*0x0400 + offset
	default:
		return address
	}
}

// paletteIndex maps $3F00-$3FFF onto the 32 palette bytes. The backdrop
// entries of the sprite palettes ($3F10/$14/$18/$1C) alias the background ones.
func paletteIndex(address uint16) uint16 {
	index := address & 0x1F
	if index&0x13 == 0x10 {
		index &^= 0x10
	}
	return index
}

// Palette returns a copy of palette RAM.
func (vm *VideoMemory) Palette() [32]uint8 {
	return vm.paletteRAM
}

// Mirroring returns the nametable arrangement in use.
func (vm *VideoMemory) Mirroring() cartridge.MirrorMode {
	return vm.mirroring
}
