package cpu

// Stable unofficial opcodes that commercial games and test ROMs rely on.

func (cpu *CPU) lax(address uint16, mode AddressingMode) uint8 {
	cpu.A = cpu.read(address)
	cpu.X = cpu.A
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) sax(address uint16, mode AddressingMode) uint8 {
	cpu.write(address, cpu.A&cpu.X)
	return 0
}

// DCP: DEC then CMP
func (cpu *CPU) dcp(address uint16, mode AddressingMode) uint8 {
	value := cpu.read(address) - 1
	cpu.write(address, value)
	cpu.compare(cpu.A, value)
	return 0
}

// ISB: INC then SBC
func (cpu *CPU) isb(address uint16, mode AddressingMode) uint8 {
	value := cpu.read(address) + 1
	cpu.write(address, value)
	cpu.addWithCarry(value ^ 0xFF)
	return 0
}

// SLO: ASL then ORA
func (cpu *CPU) slo(address uint16, mode AddressingMode) uint8 {
	value := cpu.shiftLeft(cpu.read(address))
	cpu.write(address, value)
	cpu.A |= value
	cpu.setZN(cpu.A)
	return 0
}

// RLA: ROL then AND
func (cpu *CPU) rla(address uint16, mode AddressingMode) uint8 {
	value := cpu.rotateLeft(cpu.read(address))
	cpu.write(address, value)
	cpu.A &= value
	cpu.setZN(cpu.A)
	return 0
}

// SRE: LSR then EOR
func (cpu *CPU) sre(address uint16, mode AddressingMode) uint8 {
	value := cpu.shiftRight(cpu.read(address))
	cpu.write(address, value)
	cpu.A ^= value
	cpu.setZN(cpu.A)
	return 0
}

// RRA: ROR then ADC
func (cpu *CPU) rra(address uint16, mode AddressingMode) uint8 {
	value := cpu.rotateRight(cpu.read(address))
	cpu.write(address, value)
	cpu.addWithCarry(value)
	return 0
}

// ANC: AND #imm, carry copied from bit 7
func (cpu *CPU) anc(address uint16, mode AddressingMode) uint8 {
	cpu.A &= cpu.read(address)
	cpu.setZN(cpu.A)
	cpu.setFlag(FlagCarry, cpu.A&0x80 != 0)
	return 0
}

// ALR: AND #imm then LSR A
func (cpu *CPU) alr(address uint16, mode AddressingMode) uint8 {
	cpu.A = cpu.shiftRight(cpu.A & cpu.read(address))
	cpu.setZN(cpu.A)
	return 0
}

// ARR: AND #imm then ROR A, with C from bit 6 and V from bit 6 xor bit 5
func (cpu *CPU) arr(address uint16, mode AddressingMode) uint8 {
	value := cpu.A & cpu.read(address)
	cpu.A = value>>1 | (cpu.P&FlagCarry)<<7
	cpu.setZN(cpu.A)
	cpu.setFlag(FlagCarry, cpu.A&0x40 != 0)
	cpu.setFlag(FlagOverflow, (cpu.A>>6^cpu.A>>5)&1 != 0)
	return 0
}

// AXS: X = (A AND X) - #imm, flags as CMP
func (cpu *CPU) axs(address uint16, mode AddressingMode) uint8 {
	value := cpu.read(address)
	ax := cpu.A & cpu.X
	cpu.setFlag(FlagCarry, ax >= value)
	cpu.X = ax - value
	cpu.setZN(cpu.X)
	return 0
}
