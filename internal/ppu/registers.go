package ppu

// ReadRegister handles CPU reads of $2000-$2007. Write-only registers read 0.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch 0x2000 | address&0x0007 {
	case 0x2002:
		return p.readStatus()
	case 0x2004:
		return p.oam[p.oamAddr]
	case 0x2007:
		return p.readData()
	}
	return 0
}

// WriteRegister handles CPU writes of $2000-$2007.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch 0x2000 | address&0x0007 {
	case 0x2000:
		p.writeCtrl(value)
	case 0x2001:
		p.ppuMask = value
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x2005:
		p.writeScroll(value)
	case 0x2006:
		p.writeAddr(value)
	case 0x2007:
		p.writeData(value)
	}
}

// writeCtrl stores PPUCTRL. Enabling NMI while vblank is already set raises
// an NMI immediately.
func (p *PPU) writeCtrl(value uint8) {
	wasEnabled := p.ppuCtrl&0x80 != 0
	p.ppuCtrl = value
	// t: ...GH.. ........ <- d: ......GH
	p.t = p.t&0xF3FF | uint16(value&0x03)<<10
	if !wasEnabled && value&0x80 != 0 && p.ppuStatus&statusVBlank != 0 {
		p.triggerNMI()
	}
}

func (p *PPU) readStatus() uint8 {
	status := p.ppuStatus & 0xE0
	p.ppuStatus &^= statusVBlank
	p.w = false
	return status
}

func (p *PPU) writeScroll(value uint8) {
	if !p.w {
		// t: ....... ...ABCDE <- d: ABCDE...
		// x:              FGH <- d: .....FGH
		p.t = p.t&0xFFE0 | uint16(value)>>3
		p.x = value & 0x07
	} else {
		// t: FGH..AB CDE..... <- d: ABCDEFGH
		p.t = p.t&0x8FFF | uint16(value&0x07)<<12
		p.t = p.t&0xFC1F | uint16(value&0xF8)<<2
	}
	p.w = !p.w
}

func (p *PPU) writeAddr(value uint8) {
	if !p.w {
		// t: .CDEFGH ........ <- d: ..CDEFGH, bit 14 cleared
		p.t = p.t&0x80FF | uint16(value&0x3F)<<8
	} else {
		p.t = p.t&0xFF00 | uint16(value)
		p.v = p.t
	}
	p.w = !p.w
}

func (p *PPU) vramIncrement() uint16 {
	if p.ppuCtrl&0x04 != 0 {
		return 32
	}
	return 1
}

// readData returns the buffered byte for VRAM reads; palette reads come
// back directly while the buffer picks up the nametable byte underneath.
func (p *PPU) readData() uint8 {
	address := p.v & 0x3FFF
	value := p.memory.ReadVideo(address)

	if address < 0x3F00 {
		value, p.readBuffer = p.readBuffer, value
	} else {
		p.readBuffer = p.memory.ReadVideo(address - 0x1000)
	}

	p.v += p.vramIncrement()
	return value
}

func (p *PPU) writeData(value uint8) {
	p.memory.WriteVideo(p.v&0x3FFF, value)
	p.v += p.vramIncrement()
}

// WriteOAM stores one byte of sprite memory at the current OAM address, as
// a write to $2004 would.
func (p *PPU) WriteOAM(value uint8) {
	p.WriteRegister(0x2004, value)
}
