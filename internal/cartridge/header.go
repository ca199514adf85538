package cartridge

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	headerSize  = 16
	trainerSize = 512
	prgBankSize = 0x4000
	chrBankSize = 0x2000
)

var inesMagic = [4]uint8{'N', 'E', 'S', 0x1A}

// Header is the 16 byte iNES header.
type Header struct {
	Magic    [4]uint8
	PRGBanks uint8 // 16KB units
	CHRBanks uint8 // 8KB units, 0 means the board carries CHR RAM
	Flags6   uint8
	Flags7   uint8
	PRGRAM   uint8
	Flags9   uint8
	Flags10  uint8
	Padding  [5]uint8
}

func readHeader(r io.Reader) (Header, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return h, fmt.Errorf("%w: header shorter than %d bytes", ErrInvalidHeader, headerSize)
		}
		return h, err
	}
	if h.Magic != inesMagic {
		return h, fmt.Errorf("%w: bad magic % X", ErrInvalidHeader, h.Magic[:])
	}
	if h.PRGBanks == 0 {
		return h, ErrNoPRG
	}
	return h, nil
}

// MapperID combines the low nibble from flags 6 with the high nibble from flags 7.
func (h Header) MapperID() uint8 {
	return (h.Flags6 >> 4) | (h.Flags7 & 0xF0)
}

// Mirror reports the nametable arrangement the board is wired for.
func (h Header) Mirror() MirrorMode {
	switch {
	case h.Flags6&0x08 != 0:
		return MirrorFourScreen
	case h.Flags6&0x01 != 0:
		return MirrorVertical
	default:
		return MirrorHorizontal
	}
}

func (h Header) HasBattery() bool { return h.Flags6&0x02 != 0 }
func (h Header) HasTrainer() bool { return h.Flags6&0x04 != 0 }
