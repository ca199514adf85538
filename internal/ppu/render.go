package ppu

// renderCycle does the per-dot work of the pre-render and visible
// scanlines: pixel output, background fetches, scroll updates and sprite
// evaluation.
func (p *PPU) renderCycle() {
	visibleLine := p.scanline >= 0
	visibleDot := p.cycle >= 1 && p.cycle <= 256
	prefetchDot := p.cycle >= 321 && p.cycle <= 336
	fetchDot := visibleDot || prefetchDot

	if visibleLine && visibleDot {
		p.renderPixel()
	}

	if !p.renderingEnabled() {
		return
	}

	if fetchDot {
		p.tileData <<= 4
		switch p.cycle % 8 {
		case 1:
			p.fetchNametableByte()
		case 3:
			p.fetchAttributeByte()
		case 5:
			p.lowTileByte = p.fetchPatternByte(0)
		case 7:
			p.highTileByte = p.fetchPatternByte(8)
		case 0:
			p.storeTileData()
			p.incrementX()
		}
	}

	switch {
	case p.cycle == 256:
		p.incrementY()
	case p.cycle == 257:
		p.copyX()
		if visibleLine {
			p.evaluateSprites()
		} else {
			p.spriteCount = 0
		}
	case !visibleLine && p.cycle >= 280 && p.cycle <= 304:
		p.copyY()
	}
}

func (p *PPU) fetchNametableByte() {
	p.nametableByte = p.memory.ReadVideo(0x2000 | p.v&0x0FFF)
}

func (p *PPU) fetchAttributeByte() {
	v := p.v
	address := 0x23C0 | v&0x0C00 | (v>>4)&0x38 | (v>>2)&0x07
	shift := (v>>4)&0x04 | v&0x02
	p.attributeByte = (p.memory.ReadVideo(address) >> shift) & 0x03 << 2
}

func (p *PPU) fetchPatternByte(plane uint16) uint8 {
	fineY := (p.v >> 12) & 0x07
	table := uint16(0)
	if p.ppuCtrl&0x10 != 0 {
		table = 0x1000
	}
	return p.memory.ReadVideo(table + uint16(p.nametableByte)*16 + fineY + plane)
}

// storeTileData packs the fetched tile into 8 four-bit pixels
// (attribute bits 3-2, pattern bits 1-0) in the low half of tileData.
func (p *PPU) storeTileData() {
	var data uint32
	lo, hi := p.lowTileByte, p.highTileByte
	for i := 0; i < 8; i++ {
		pixel := p.attributeByte | (lo&0x80)>>7 | (hi&0x80)>>6
		lo <<= 1
		hi <<= 1
		data = data<<4 | uint32(pixel)
	}
	p.tileData |= uint64(data)
}

// Loopy scroll updates

func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = p.v&^0x03E0 | y<<5
}

func (p *PPU) copyX() {
	p.v = p.v&0xFBE0 | p.t&0x041F
}

func (p *PPU) copyY() {
	p.v = p.v&0x841F | p.t&0x7BE0
}

func (p *PPU) backgroundPixel() uint8 {
	if p.ppuMask&0x08 == 0 {
		return 0
	}
	data := uint32(p.tileData>>32) >> ((7 - p.x) * 4)
	return uint8(data & 0x0F)
}

// spritePixel returns the slot and color of the first opaque sprite pixel
// at x. Slots are filled in OAM order, so the lowest OAM index wins.
func (p *PPU) spritePixel(x int) (int, uint8) {
	if p.ppuMask&0x10 == 0 {
		return 0, 0
	}
	for i := 0; i < p.spriteCount; i++ {
		offset := x - int(p.spritePositions[i])
		if offset < 0 || offset > 7 {
			continue
		}
		color := uint8(p.spritePatterns[i]>>((7-offset)*4)) & 0x0F
		if color%4 == 0 {
			continue
		}
		return i, color
	}
	return 0, 0
}

func (p *PPU) renderPixel() {
	x := p.cycle - 1
	y := p.scanline

	if !p.renderingEnabled() {
		p.back[y*Width+x] = p.palette.ARGB(p.readPalette(0))
		return
	}

	background := p.backgroundPixel()
	slot, sprite := p.spritePixel(x)
	if x < 8 && p.ppuMask&0x02 == 0 {
		background = 0
	}
	if x < 8 && p.ppuMask&0x04 == 0 {
		sprite = 0
	}

	b := background%4 != 0
	s := sprite%4 != 0
	var color uint8
	switch {
	case !b && !s:
		color = 0
	case !b && s:
		color = sprite | 0x10
	case b && !s:
		color = background
	default:
		if p.spriteIndexes[slot] == 0 && x < 255 {
			p.ppuStatus |= statusSprite0Hit
		}
		if p.spritePriorities[slot] == 0 {
			color = sprite | 0x10
		} else {
			color = background
		}
	}

	p.back[y*Width+x] = p.palette.ARGB(p.readPalette(uint16(color)))
}

func (p *PPU) readPalette(index uint16) uint8 {
	color := p.memory.ReadVideo(0x3F00+index) & 0x3F
	if p.ppuMask&0x01 != 0 {
		color &= 0x30
	}
	return color
}

// evaluateSprites selects up to eight sprites that cover the next scanline
// and fetches their patterns. More than eight sets the overflow flag.
func (p *PPU) evaluateSprites() {
	height := 8
	if p.ppuCtrl&0x20 != 0 {
		height = 16
	}

	count := 0
	for i := 0; i < 64; i++ {
		y := p.oam[i*4]
		attributes := p.oam[i*4+2]
		x := p.oam[i*4+3]

		row := p.scanline - int(y)
		if row < 0 || row >= height {
			continue
		}
		if count < 8 {
			p.spritePatterns[count] = p.fetchSpritePattern(i, row)
			p.spritePositions[count] = x
			p.spritePriorities[count] = (attributes >> 5) & 1
			p.spriteIndexes[count] = uint8(i)
		}
		count++
	}

	if count > 8 {
		count = 8
		p.ppuStatus |= statusOverflow
	}
	p.spriteCount = count
}

func (p *PPU) fetchSpritePattern(i, row int) uint32 {
	tile := uint16(p.oam[i*4+1])
	attributes := p.oam[i*4+2]

	var address uint16
	if p.ppuCtrl&0x20 == 0 {
		if attributes&0x80 != 0 {
			row = 7 - row
		}
		table := uint16(0)
		if p.ppuCtrl&0x08 != 0 {
			table = 0x1000
		}
		address = table + tile*16 + uint16(row)
	} else {
		if attributes&0x80 != 0 {
			row = 15 - row
		}
		table := (tile & 1) * 0x1000
		tile &= 0xFE
		if row > 7 {
			tile++
			row -= 8
		}
		address = table + tile*16 + uint16(row)
	}

	palette := (attributes & 0x03) << 2
	lo := p.memory.ReadVideo(address)
	hi := p.memory.ReadVideo(address + 8)

	var data uint32
	for i := 0; i < 8; i++ {
		var p1, p2 uint8
		if attributes&0x40 != 0 {
			p1 = lo & 0x01
			p2 = (hi & 0x01) << 1
			lo >>= 1
			hi >>= 1
		} else {
			p1 = (lo & 0x80) >> 7
			p2 = (hi & 0x80) >> 6
			lo <<= 1
			hi <<= 1
		}
		data = data<<4 | uint32(palette|p1|p2)
	}
	return data
}
