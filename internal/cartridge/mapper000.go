package cartridge

// nrom is mapper 0. One 16KB bank is mirrored into both halves of
// $8000-$FFFF; two banks fill the window directly.
type nrom struct {
	prgMask uint16
}

func newNROM(prgBanks int) *nrom {
	m := &nrom{prgMask: 0x7FFF}
	if prgBanks == 1 {
		m.prgMask = 0x3FFF
	}
	return m
}

func (m *nrom) MapPRG(address uint16) (int, bool) {
	if address < 0x8000 {
		return 0, false
	}
	return int(address & m.prgMask), true
}

func (m *nrom) MapCHR(address uint16) (int, bool) {
	if address >= 0x2000 {
		return 0, false
	}
	return int(address), true
}

// NROM has no registers.
func (m *nrom) WriteRegister(address uint16, value uint8) {}
