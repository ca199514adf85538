package ppu

import (
	"fmt"
	"io"
	"os"
)

// Palette maps the 64 NES color indices to ARGB.
type Palette [64]uint32

var defaultPalette = Palette{
	0xFF666666, 0xFF002A88, 0xFF1412A7, 0xFF3B00A4, 0xFF5C007E, 0xFF6E0040, 0xFF6C0600, 0xFF561D00,
	0xFF333500, 0xFF0B4800, 0xFF005200, 0xFF004F08, 0xFF00404D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFADADAD, 0xFF155FD9, 0xFF4240FF, 0xFF7527FE, 0xFFA01ACC, 0xFFB71E7B, 0xFFB53120, 0xFF994E00,
	0xFF6B6D00, 0xFF388700, 0xFF0C9300, 0xFF008F32, 0xFF007C8D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFF64B0FF, 0xFF9290FF, 0xFFC676FF, 0xFFF36AFF, 0xFFFE6ECC, 0xFFFE8170, 0xFFEA9E22,
	0xFFBCBE00, 0xFF88D800, 0xFF5CE430, 0xFF45E082, 0xFF48CDDE, 0xFF4F4F4F, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFFC0DFFF, 0xFFD3D2FF, 0xFFE8C8FF, 0xFFFBC2FF, 0xFFFEC4EA, 0xFFFECCC5, 0xFFF7D8A5,
	0xFFE4E594, 0xFFCFF29B, 0xFFBEFBB3, 0xFFB8F8D8, 0xFFB8F8F8, 0xFF000000, 0xFF000000, 0xFF000000,
}

// DefaultPalette returns a copy of the built-in 2C02 palette.
func DefaultPalette() *Palette {
	p := defaultPalette
	return &p
}

// ARGB returns the color for a 6-bit index.
func (p *Palette) ARGB(index uint8) uint32 {
	return p[index&0x3F]
}

// ReadPalette parses a .pal file: 64 RGB triplets. Files carrying the 512
// emphasis variants are accepted and only the first 64 entries are used.
func ReadPalette(r io.Reader) (*Palette, error) {
	var raw [64 * 3]uint8
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return nil, fmt.Errorf("read palette: %w", err)
	}
	var p Palette
	for i := range p {
		p[i] = 0xFF000000 | uint32(raw[i*3])<<16 | uint32(raw[i*3+1])<<8 | uint32(raw[i*3+2])
	}
	return &p, nil
}

// LoadPalette reads a .pal file from disk.
func LoadPalette(filename string) (*Palette, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPalette(f)
}
