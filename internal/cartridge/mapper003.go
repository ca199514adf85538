package cartridge

// cnrom is mapper 3: NROM-style PRG with a switchable 8KB CHR bank.
type cnrom struct {
	nrom
	chrBanks int
	chrBank  int
}

func newCNROM(prgBanks, chrBanks int) *cnrom {
	return &cnrom{nrom: *newNROM(prgBanks), chrBanks: chrBanks}
}

func (m *cnrom) MapCHR(address uint16) (int, bool) {
	if address >= 0x2000 {
		return 0, false
	}
	return m.chrBank*chrBankSize + int(address), true
}

func (m *cnrom) WriteRegister(address uint16, value uint8) {
	if m.chrBanks > 0 {
		m.chrBank = int(value&0x03) % m.chrBanks
	}
}
