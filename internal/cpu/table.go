package cpu

// Kind classifies an opcode.
type Kind uint8

const (
	Official Kind = iota
	Unofficial
	// Undefined opcodes behave unpredictably on hardware; they run as a
	// one-cycle no-op here.
	Undefined
	// Jam opcodes lock the processor until reset.
	Jam
)

// Instruction represents a 6502 instruction
type Instruction struct {
	Name   string
	Opcode uint8
	Bytes  uint8
	Cycles uint8
	Mode   AddressingMode
	Kind   Kind
	// PageCycle marks reads that take one more cycle when indexing
	// crosses a page. Stores and read-modify-write forms always pay it.
	PageCycle bool

	exec func(cpu *CPU, address uint16, mode AddressingMode) uint8
}

var instructions [256]Instruction

// Lookup returns the table entry for an opcode.
func Lookup(opcode uint8) Instruction {
	return instructions[opcode]
}

func operandBytes(mode AddressingMode) uint8 {
	switch mode {
	case Implied, Accumulator:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 3
	}
	return 2
}

// writesOperand lists mnemonics that never pay the page-cross penalty.
var writesOperand = map[string]bool{
	"STA": true, "STX": true, "STY": true, "SAX": true,
	"ASL": true, "LSR": true, "ROL": true, "ROR": true, "INC": true, "DEC": true,
	"SLO": true, "RLA": true, "SRE": true, "RRA": true, "DCP": true, "ISB": true,
}

func define(kind Kind, opcode uint8, name string, mode AddressingMode, cycles uint8, exec func(*CPU, uint16, AddressingMode) uint8) {
	instructions[opcode] = Instruction{
		Name:      name,
		Opcode:    opcode,
		Bytes:     operandBytes(mode),
		Cycles:    cycles,
		Mode:      mode,
		Kind:      kind,
		PageCycle: (mode == AbsoluteX || mode == AbsoluteY || mode == IndirectIndexed) && !writesOperand[name],
		exec:      exec,
	}
}

func init() {
	for i := range instructions {
		instructions[i] = Instruction{Name: "???", Opcode: uint8(i), Bytes: 1, Cycles: 1, Kind: Undefined}
	}

	op := func(opcode uint8, name string, mode AddressingMode, cycles uint8, exec func(*CPU, uint16, AddressingMode) uint8) {
		define(Official, opcode, name, mode, cycles, exec)
	}
	un := func(opcode uint8, name string, mode AddressingMode, cycles uint8, exec func(*CPU, uint16, AddressingMode) uint8) {
		define(Unofficial, opcode, name, mode, cycles, exec)
	}

	// Load/Store
	op(0xA9, "LDA", Immediate, 2, (*CPU).lda)
	op(0xA5, "LDA", ZeroPage, 3, (*CPU).lda)
	op(0xB5, "LDA", ZeroPageX, 4, (*CPU).lda)
	op(0xAD, "LDA", Absolute, 4, (*CPU).lda)
	op(0xBD, "LDA", AbsoluteX, 4, (*CPU).lda)
	op(0xB9, "LDA", AbsoluteY, 4, (*CPU).lda)
	op(0xA1, "LDA", IndexedIndirect, 6, (*CPU).lda)
	op(0xB1, "LDA", IndirectIndexed, 5, (*CPU).lda)

	op(0xA2, "LDX", Immediate, 2, (*CPU).ldx)
	op(0xA6, "LDX", ZeroPage, 3, (*CPU).ldx)
	op(0xB6, "LDX", ZeroPageY, 4, (*CPU).ldx)
	op(0xAE, "LDX", Absolute, 4, (*CPU).ldx)
	op(0xBE, "LDX", AbsoluteY, 4, (*CPU).ldx)

	op(0xA0, "LDY", Immediate, 2, (*CPU).ldy)
	op(0xA4, "LDY", ZeroPage, 3, (*CPU).ldy)
	op(0xB4, "LDY", ZeroPageX, 4, (*CPU).ldy)
	op(0xAC, "LDY", Absolute, 4, (*CPU).ldy)
	op(0xBC, "LDY", AbsoluteX, 4, (*CPU).ldy)

	op(0x85, "STA", ZeroPage, 3, (*CPU).sta)
	op(0x95, "STA", ZeroPageX, 4, (*CPU).sta)
	op(0x8D, "STA", Absolute, 4, (*CPU).sta)
	op(0x9D, "STA", AbsoluteX, 5, (*CPU).sta)
	op(0x99, "STA", AbsoluteY, 5, (*CPU).sta)
	op(0x81, "STA", IndexedIndirect, 6, (*CPU).sta)
	op(0x91, "STA", IndirectIndexed, 6, (*CPU).sta)

	op(0x86, "STX", ZeroPage, 3, (*CPU).stx)
	op(0x96, "STX", ZeroPageY, 4, (*CPU).stx)
	op(0x8E, "STX", Absolute, 4, (*CPU).stx)

	op(0x84, "STY", ZeroPage, 3, (*CPU).sty)
	op(0x94, "STY", ZeroPageX, 4, (*CPU).sty)
	op(0x8C, "STY", Absolute, 4, (*CPU).sty)

	// Arithmetic
	op(0x69, "ADC", Immediate, 2, (*CPU).adc)
	op(0x65, "ADC", ZeroPage, 3, (*CPU).adc)
	op(0x75, "ADC", ZeroPageX, 4, (*CPU).adc)
	op(0x6D, "ADC", Absolute, 4, (*CPU).adc)
	op(0x7D, "ADC", AbsoluteX, 4, (*CPU).adc)
	op(0x79, "ADC", AbsoluteY, 4, (*CPU).adc)
	op(0x61, "ADC", IndexedIndirect, 6, (*CPU).adc)
	op(0x71, "ADC", IndirectIndexed, 5, (*CPU).adc)

	op(0xE9, "SBC", Immediate, 2, (*CPU).sbc)
	op(0xE5, "SBC", ZeroPage, 3, (*CPU).sbc)
	op(0xF5, "SBC", ZeroPageX, 4, (*CPU).sbc)
	op(0xED, "SBC", Absolute, 4, (*CPU).sbc)
	op(0xFD, "SBC", AbsoluteX, 4, (*CPU).sbc)
	op(0xF9, "SBC", AbsoluteY, 4, (*CPU).sbc)
	op(0xE1, "SBC", IndexedIndirect, 6, (*CPU).sbc)
	op(0xF1, "SBC", IndirectIndexed, 5, (*CPU).sbc)

	op(0xC9, "CMP", Immediate, 2, (*CPU).cmp)
	op(0xC5, "CMP", ZeroPage, 3, (*CPU).cmp)
	op(0xD5, "CMP", ZeroPageX, 4, (*CPU).cmp)
	op(0xCD, "CMP", Absolute, 4, (*CPU).cmp)
	op(0xDD, "CMP", AbsoluteX, 4, (*CPU).cmp)
	op(0xD9, "CMP", AbsoluteY, 4, (*CPU).cmp)
	op(0xC1, "CMP", IndexedIndirect, 6, (*CPU).cmp)
	op(0xD1, "CMP", IndirectIndexed, 5, (*CPU).cmp)

	op(0xE0, "CPX", Immediate, 2, (*CPU).cpx)
	op(0xE4, "CPX", ZeroPage, 3, (*CPU).cpx)
	op(0xEC, "CPX", Absolute, 4, (*CPU).cpx)

	op(0xC0, "CPY", Immediate, 2, (*CPU).cpy)
	op(0xC4, "CPY", ZeroPage, 3, (*CPU).cpy)
	op(0xCC, "CPY", Absolute, 4, (*CPU).cpy)

	// Logical
	op(0x29, "AND", Immediate, 2, (*CPU).and)
	op(0x25, "AND", ZeroPage, 3, (*CPU).and)
	op(0x35, "AND", ZeroPageX, 4, (*CPU).and)
	op(0x2D, "AND", Absolute, 4, (*CPU).and)
	op(0x3D, "AND", AbsoluteX, 4, (*CPU).and)
	op(0x39, "AND", AbsoluteY, 4, (*CPU).and)
	op(0x21, "AND", IndexedIndirect, 6, (*CPU).and)
	op(0x31, "AND", IndirectIndexed, 5, (*CPU).and)

	op(0x09, "ORA", Immediate, 2, (*CPU).ora)
	op(0x05, "ORA", ZeroPage, 3, (*CPU).ora)
	op(0x15, "ORA", ZeroPageX, 4, (*CPU).ora)
	op(0x0D, "ORA", Absolute, 4, (*CPU).ora)
	op(0x1D, "ORA", AbsoluteX, 4, (*CPU).ora)
	op(0x19, "ORA", AbsoluteY, 4, (*CPU).ora)
	op(0x01, "ORA", IndexedIndirect, 6, (*CPU).ora)
	op(0x11, "ORA", IndirectIndexed, 5, (*CPU).ora)

	op(0x49, "EOR", Immediate, 2, (*CPU).eor)
	op(0x45, "EOR", ZeroPage, 3, (*CPU).eor)
	op(0x55, "EOR", ZeroPageX, 4, (*CPU).eor)
	op(0x4D, "EOR", Absolute, 4, (*CPU).eor)
	op(0x5D, "EOR", AbsoluteX, 4, (*CPU).eor)
	op(0x59, "EOR", AbsoluteY, 4, (*CPU).eor)
	op(0x41, "EOR", IndexedIndirect, 6, (*CPU).eor)
	op(0x51, "EOR", IndirectIndexed, 5, (*CPU).eor)

	op(0x24, "BIT", ZeroPage, 3, (*CPU).bit)
	op(0x2C, "BIT", Absolute, 4, (*CPU).bit)

	// Shift and rotate
	op(0x0A, "ASL", Accumulator, 2, (*CPU).asl)
	op(0x06, "ASL", ZeroPage, 5, (*CPU).asl)
	op(0x16, "ASL", ZeroPageX, 6, (*CPU).asl)
	op(0x0E, "ASL", Absolute, 6, (*CPU).asl)
	op(0x1E, "ASL", AbsoluteX, 7, (*CPU).asl)

	op(0x4A, "LSR", Accumulator, 2, (*CPU).lsr)
	op(0x46, "LSR", ZeroPage, 5, (*CPU).lsr)
	op(0x56, "LSR", ZeroPageX, 6, (*CPU).lsr)
	op(0x4E, "LSR", Absolute, 6, (*CPU).lsr)
	op(0x5E, "LSR", AbsoluteX, 7, (*CPU).lsr)

	op(0x2A, "ROL", Accumulator, 2, (*CPU).rol)
	op(0x26, "ROL", ZeroPage, 5, (*CPU).rol)
	op(0x36, "ROL", ZeroPageX, 6, (*CPU).rol)
	op(0x2E, "ROL", Absolute, 6, (*CPU).rol)
	op(0x3E, "ROL", AbsoluteX, 7, (*CPU).rol)

	op(0x6A, "ROR", Accumulator, 2, (*CPU).ror)
	op(0x66, "ROR", ZeroPage, 5, (*CPU).ror)
	op(0x76, "ROR", ZeroPageX, 6, (*CPU).ror)
	op(0x6E, "ROR", Absolute, 6, (*CPU).ror)
	op(0x7E, "ROR", AbsoluteX, 7, (*CPU).ror)

	// Increment/Decrement
	op(0xE6, "INC", ZeroPage, 5, (*CPU).inc)
	op(0xF6, "INC", ZeroPageX, 6, (*CPU).inc)
	op(0xEE, "INC", Absolute, 6, (*CPU).inc)
	op(0xFE, "INC", AbsoluteX, 7, (*CPU).inc)

	op(0xC6, "DEC", ZeroPage, 5, (*CPU).dec)
	op(0xD6, "DEC", ZeroPageX, 6, (*CPU).dec)
	op(0xCE, "DEC", Absolute, 6, (*CPU).dec)
	op(0xDE, "DEC", AbsoluteX, 7, (*CPU).dec)

	op(0xE8, "INX", Implied, 2, (*CPU).inx)
	op(0xCA, "DEX", Implied, 2, (*CPU).dex)
	op(0xC8, "INY", Implied, 2, (*CPU).iny)
	op(0x88, "DEY", Implied, 2, (*CPU).dey)

	// Transfer
	op(0xAA, "TAX", Implied, 2, (*CPU).tax)
	op(0x8A, "TXA", Implied, 2, (*CPU).txa)
	op(0xA8, "TAY", Implied, 2, (*CPU).tay)
	op(0x98, "TYA", Implied, 2, (*CPU).tya)
	op(0xBA, "TSX", Implied, 2, (*CPU).tsx)
	op(0x9A, "TXS", Implied, 2, (*CPU).txs)

	// Stack
	op(0x48, "PHA", Implied, 3, (*CPU).pha)
	op(0x68, "PLA", Implied, 4, (*CPU).pla)
	op(0x08, "PHP", Implied, 3, (*CPU).php)
	op(0x28, "PLP", Implied, 4, (*CPU).plp)

	// Flags
	op(0x18, "CLC", Implied, 2, (*CPU).clc)
	op(0x38, "SEC", Implied, 2, (*CPU).sec)
	op(0x58, "CLI", Implied, 2, (*CPU).cli)
	op(0x78, "SEI", Implied, 2, (*CPU).sei)
	op(0xB8, "CLV", Implied, 2, (*CPU).clv)
	op(0xD8, "CLD", Implied, 2, (*CPU).cld)
	op(0xF8, "SED", Implied, 2, (*CPU).sed)

	// Jumps and calls
	op(0x4C, "JMP", Absolute, 3, (*CPU).jmp)
	op(0x6C, "JMP", Indirect, 5, (*CPU).jmp)
	op(0x20, "JSR", Absolute, 6, (*CPU).jsr)
	op(0x60, "RTS", Implied, 6, (*CPU).rts)
	op(0x40, "RTI", Implied, 6, (*CPU).rti)
	op(0x00, "BRK", Implied, 7, (*CPU).brk)

	// Branches
	op(0x90, "BCC", Relative, 2, (*CPU).bcc)
	op(0xB0, "BCS", Relative, 2, (*CPU).bcs)
	op(0xD0, "BNE", Relative, 2, (*CPU).bne)
	op(0xF0, "BEQ", Relative, 2, (*CPU).beq)
	op(0x10, "BPL", Relative, 2, (*CPU).bpl)
	op(0x30, "BMI", Relative, 2, (*CPU).bmi)
	op(0x50, "BVC", Relative, 2, (*CPU).bvc)
	op(0x70, "BVS", Relative, 2, (*CPU).bvs)

	op(0xEA, "NOP", Implied, 2, (*CPU).nop)

	// Unofficial
	for _, opcode := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		un(opcode, "NOP", Implied, 2, (*CPU).nop)
	}
	for _, opcode := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		un(opcode, "NOP", Immediate, 2, (*CPU).nop)
	}
	for _, opcode := range []uint8{0x04, 0x44, 0x64} {
		un(opcode, "NOP", ZeroPage, 3, (*CPU).nop)
	}
	for _, opcode := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		un(opcode, "NOP", ZeroPageX, 4, (*CPU).nop)
	}
	un(0x0C, "NOP", Absolute, 4, (*CPU).nop)
	for _, opcode := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		un(opcode, "NOP", AbsoluteX, 4, (*CPU).nop)
	}

	un(0xA7, "LAX", ZeroPage, 3, (*CPU).lax)
	un(0xB7, "LAX", ZeroPageY, 4, (*CPU).lax)
	un(0xAF, "LAX", Absolute, 4, (*CPU).lax)
	un(0xBF, "LAX", AbsoluteY, 4, (*CPU).lax)
	un(0xA3, "LAX", IndexedIndirect, 6, (*CPU).lax)
	un(0xB3, "LAX", IndirectIndexed, 5, (*CPU).lax)

	un(0x87, "SAX", ZeroPage, 3, (*CPU).sax)
	un(0x97, "SAX", ZeroPageY, 4, (*CPU).sax)
	un(0x8F, "SAX", Absolute, 4, (*CPU).sax)
	un(0x83, "SAX", IndexedIndirect, 6, (*CPU).sax)

	un(0xEB, "SBC", Immediate, 2, (*CPU).sbc)

	// Read-modify-write combinations share one opcode layout.
	rmw := []struct {
		name string
		base uint8
		exec func(*CPU, uint16, AddressingMode) uint8
	}{
		{"SLO", 0x00, (*CPU).slo},
		{"RLA", 0x20, (*CPU).rla},
		{"SRE", 0x40, (*CPU).sre},
		{"RRA", 0x60, (*CPU).rra},
		{"DCP", 0xC0, (*CPU).dcp},
		{"ISB", 0xE0, (*CPU).isb},
	}
	for _, r := range rmw {
		un(r.base+0x07, r.name, ZeroPage, 5, r.exec)
		un(r.base+0x17, r.name, ZeroPageX, 6, r.exec)
		un(r.base+0x0F, r.name, Absolute, 6, r.exec)
		un(r.base+0x1F, r.name, AbsoluteX, 7, r.exec)
		un(r.base+0x1B, r.name, AbsoluteY, 7, r.exec)
		un(r.base+0x03, r.name, IndexedIndirect, 8, r.exec)
		un(r.base+0x13, r.name, IndirectIndexed, 8, r.exec)
	}

	un(0x0B, "ANC", Immediate, 2, (*CPU).anc)
	un(0x2B, "ANC", Immediate, 2, (*CPU).anc)
	un(0x4B, "ALR", Immediate, 2, (*CPU).alr)
	un(0x6B, "ARR", Immediate, 2, (*CPU).arr)
	un(0xCB, "AXS", Immediate, 2, (*CPU).axs)

	for _, opcode := range []uint8{0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2} {
		instructions[opcode] = Instruction{Name: "KIL", Opcode: opcode, Bytes: 1, Kind: Jam}
	}

	// The remaining opcodes depend on analog bus behavior.
	for opcode, name := range map[uint8]string{
		0x8B: "XAA", 0xAB: "LXA", 0x93: "AHX", 0x9F: "AHX",
		0x9B: "TAS", 0x9C: "SHY", 0x9E: "SHX", 0xBB: "LAS",
	} {
		instructions[opcode].Name = name
	}
}
