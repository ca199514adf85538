package cartridge

// uxrom is mapper 2: a switchable 16KB bank at $8000 and the last bank
// fixed at $C000.
type uxrom struct {
	banks int
	bank  int
}

func newUxROM(prgBanks int) *uxrom {
	return &uxrom{banks: prgBanks}
}

func (m *uxrom) MapPRG(address uint16) (int, bool) {
	switch {
	case address >= 0xC000:
		return (m.banks-1)*prgBankSize + int(address&0x3FFF), true
	case address >= 0x8000:
		return m.bank*prgBankSize + int(address&0x3FFF), true
	}
	return 0, false
}

func (m *uxrom) MapCHR(address uint16) (int, bool) {
	if address >= 0x2000 {
		return 0, false
	}
	return int(address), true
}

func (m *uxrom) WriteRegister(address uint16, value uint8) {
	if m.banks > 0 {
		m.bank = int(value) % m.banks
	}
}
