package cpu

// Instruction handlers. Each receives the resolved effective address and
// the addressing mode, and returns extra cycles beyond the table's base
// count (only branches take any).

// Load/Store Instructions

func (cpu *CPU) lda(address uint16, mode AddressingMode) uint8 {
	cpu.A = cpu.read(address)
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) ldx(address uint16, mode AddressingMode) uint8 {
	cpu.X = cpu.read(address)
	cpu.setZN(cpu.X)
	return 0
}

func (cpu *CPU) ldy(address uint16, mode AddressingMode) uint8 {
	cpu.Y = cpu.read(address)
	cpu.setZN(cpu.Y)
	return 0
}

func (cpu *CPU) sta(address uint16, mode AddressingMode) uint8 {
	cpu.write(address, cpu.A)
	return 0
}

func (cpu *CPU) stx(address uint16, mode AddressingMode) uint8 {
	cpu.write(address, cpu.X)
	return 0
}

func (cpu *CPU) sty(address uint16, mode AddressingMode) uint8 {
	cpu.write(address, cpu.Y)
	return 0
}

// Arithmetic Instructions

func (cpu *CPU) addWithCarry(value uint8) {
	sum := uint16(cpu.A) + uint16(value) + uint16(cpu.P&FlagCarry)
	result := uint8(sum)
	cpu.setFlag(FlagCarry, sum > 0xFF)
	cpu.setFlag(FlagOverflow, (cpu.A^result)&(value^result)&0x80 != 0)
	cpu.A = result
	cpu.setZN(result)
}

func (cpu *CPU) adc(address uint16, mode AddressingMode) uint8 {
	cpu.addWithCarry(cpu.read(address))
	return 0
}

// SBC is ADC of the one's complement; the NES has no decimal mode.
func (cpu *CPU) sbc(address uint16, mode AddressingMode) uint8 {
	cpu.addWithCarry(cpu.read(address) ^ 0xFF)
	return 0
}

func (cpu *CPU) compare(register, value uint8) {
	cpu.setFlag(FlagCarry, register >= value)
	cpu.setZN(register - value)
}

func (cpu *CPU) cmp(address uint16, mode AddressingMode) uint8 {
	cpu.compare(cpu.A, cpu.read(address))
	return 0
}

func (cpu *CPU) cpx(address uint16, mode AddressingMode) uint8 {
	cpu.compare(cpu.X, cpu.read(address))
	return 0
}

func (cpu *CPU) cpy(address uint16, mode AddressingMode) uint8 {
	cpu.compare(cpu.Y, cpu.read(address))
	return 0
}

// Logical Instructions

func (cpu *CPU) and(address uint16, mode AddressingMode) uint8 {
	cpu.A &= cpu.read(address)
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) ora(address uint16, mode AddressingMode) uint8 {
	cpu.A |= cpu.read(address)
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) eor(address uint16, mode AddressingMode) uint8 {
	cpu.A ^= cpu.read(address)
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) bit(address uint16, mode AddressingMode) uint8 {
	value := cpu.read(address)
	cpu.setFlag(FlagZero, cpu.A&value == 0)
	cpu.setFlag(FlagOverflow, value&0x40 != 0)
	cpu.setFlag(FlagNegative, value&0x80 != 0)
	return 0
}

// Shift and rotate. In accumulator mode the operand is A.

func (cpu *CPU) modify(address uint16, mode AddressingMode, op func(uint8) uint8) uint8 {
	if mode == Accumulator {
		cpu.A = op(cpu.A)
		cpu.setZN(cpu.A)
		return cpu.A
	}
	value := op(cpu.read(address))
	cpu.write(address, value)
	cpu.setZN(value)
	return value
}

func (cpu *CPU) shiftLeft(value uint8) uint8 {
	cpu.setFlag(FlagCarry, value&0x80 != 0)
	return value << 1
}

func (cpu *CPU) shiftRight(value uint8) uint8 {
	cpu.setFlag(FlagCarry, value&0x01 != 0)
	return value >> 1
}

func (cpu *CPU) rotateLeft(value uint8) uint8 {
	carry := cpu.P & FlagCarry
	cpu.setFlag(FlagCarry, value&0x80 != 0)
	return value<<1 | carry
}

func (cpu *CPU) rotateRight(value uint8) uint8 {
	carry := cpu.P & FlagCarry
	cpu.setFlag(FlagCarry, value&0x01 != 0)
	return value>>1 | carry<<7
}

func (cpu *CPU) asl(address uint16, mode AddressingMode) uint8 {
	cpu.modify(address, mode, cpu.shiftLeft)
	return 0
}

func (cpu *CPU) lsr(address uint16, mode AddressingMode) uint8 {
	cpu.modify(address, mode, cpu.shiftRight)
	return 0
}

func (cpu *CPU) rol(address uint16, mode AddressingMode) uint8 {
	cpu.modify(address, mode, cpu.rotateLeft)
	return 0
}

func (cpu *CPU) ror(address uint16, mode AddressingMode) uint8 {
	cpu.modify(address, mode, cpu.rotateRight)
	return 0
}

// Increment/Decrement Instructions

func increment(value uint8) uint8 { return value + 1 }
func decrement(value uint8) uint8 { return value - 1 }

func (cpu *CPU) inc(address uint16, mode AddressingMode) uint8 {
	cpu.modify(address, mode, increment)
	return 0
}

func (cpu *CPU) dec(address uint16, mode AddressingMode) uint8 {
	cpu.modify(address, mode, decrement)
	return 0
}

func (cpu *CPU) inx(address uint16, mode AddressingMode) uint8 {
	cpu.X++
	cpu.setZN(cpu.X)
	return 0
}

func (cpu *CPU) dex(address uint16, mode AddressingMode) uint8 {
	cpu.X--
	cpu.setZN(cpu.X)
	return 0
}

func (cpu *CPU) iny(address uint16, mode AddressingMode) uint8 {
	cpu.Y++
	cpu.setZN(cpu.Y)
	return 0
}

func (cpu *CPU) dey(address uint16, mode AddressingMode) uint8 {
	cpu.Y--
	cpu.setZN(cpu.Y)
	return 0
}

// Transfer Instructions

func (cpu *CPU) tax(address uint16, mode AddressingMode) uint8 {
	cpu.X = cpu.A
	cpu.setZN(cpu.X)
	return 0
}

func (cpu *CPU) txa(address uint16, mode AddressingMode) uint8 {
	cpu.A = cpu.X
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) tay(address uint16, mode AddressingMode) uint8 {
	cpu.Y = cpu.A
	cpu.setZN(cpu.Y)
	return 0
}

func (cpu *CPU) tya(address uint16, mode AddressingMode) uint8 {
	cpu.A = cpu.Y
	cpu.setZN(cpu.A)
	return 0
}

func (cpu *CPU) tsx(address uint16, mode AddressingMode) uint8 {
	cpu.X = cpu.SP
	cpu.setZN(cpu.X)
	return 0
}

// TXS does not touch the flags.
func (cpu *CPU) txs(address uint16, mode AddressingMode) uint8 {
	cpu.SP = cpu.X
	return 0
}

// Stack Instructions

func (cpu *CPU) pha(address uint16, mode AddressingMode) uint8 {
	cpu.push(cpu.A)
	return 0
}

func (cpu *CPU) pla(address uint16, mode AddressingMode) uint8 {
	cpu.A = cpu.pop()
	cpu.setZN(cpu.A)
	return 0
}

// PHP always pushes B and the unused bit set.
func (cpu *CPU) php(address uint16, mode AddressingMode) uint8 {
	cpu.push(cpu.P | FlagBreak | FlagUnused)
	return 0
}

func (cpu *CPU) plp(address uint16, mode AddressingMode) uint8 {
	cpu.P = cpu.pop()&^FlagBreak | FlagUnused
	return 0
}

// Flag Instructions

func (cpu *CPU) clc(address uint16, mode AddressingMode) uint8 {
	cpu.P &^= FlagCarry
	return 0
}

func (cpu *CPU) sec(address uint16, mode AddressingMode) uint8 {
	cpu.P |= FlagCarry
	return 0
}

func (cpu *CPU) cli(address uint16, mode AddressingMode) uint8 {
	cpu.P &^= FlagInterrupt
	return 0
}

func (cpu *CPU) sei(address uint16, mode AddressingMode) uint8 {
	cpu.P |= FlagInterrupt
	return 0
}

func (cpu *CPU) clv(address uint16, mode AddressingMode) uint8 {
	cpu.P &^= FlagOverflow
	return 0
}

func (cpu *CPU) cld(address uint16, mode AddressingMode) uint8 {
	cpu.P &^= FlagDecimal
	return 0
}

func (cpu *CPU) sed(address uint16, mode AddressingMode) uint8 {
	cpu.P |= FlagDecimal
	return 0
}

// Jump and Call Instructions

func (cpu *CPU) jmp(address uint16, mode AddressingMode) uint8 {
	cpu.PC = address
	return 0
}

// JSR pushes the address of its own last byte.
func (cpu *CPU) jsr(address uint16, mode AddressingMode) uint8 {
	cpu.pushWord(cpu.PC - 1)
	cpu.PC = address
	return 0
}

func (cpu *CPU) rts(address uint16, mode AddressingMode) uint8 {
	cpu.PC = cpu.popWord() + 1
	return 0
}

func (cpu *CPU) rti(address uint16, mode AddressingMode) uint8 {
	cpu.P = cpu.pop()&^FlagBreak | FlagUnused
	cpu.PC = cpu.popWord()
	return 0
}

// BRK skips a padding byte, so the pushed return address is PC+2.
func (cpu *CPU) brk(address uint16, mode AddressingMode) uint8 {
	cpu.pushWord(cpu.PC + 1)
	cpu.push(cpu.P | FlagBreak | FlagUnused)
	cpu.P |= FlagInterrupt
	cpu.PC = cpu.readWord(irqVector)
	return 0
}

// Branch Instructions. A taken branch costs one cycle, two if the target is
// on another page than the next instruction.

func (cpu *CPU) branch(condition bool, target uint16) uint8 {
	if !condition {
		return 0
	}
	extra := uint8(1)
	if pagesDiffer(cpu.PC, target) {
		extra++
	}
	cpu.PC = target
	return extra
}

func (cpu *CPU) bcc(address uint16, mode AddressingMode) uint8 {
	return cpu.branch(cpu.P&FlagCarry == 0, address)
}

func (cpu *CPU) bcs(address uint16, mode AddressingMode) uint8 {
	return cpu.branch(cpu.P&FlagCarry != 0, address)
}

func (cpu *CPU) bne(address uint16, mode AddressingMode) uint8 {
	return cpu.branch(cpu.P&FlagZero == 0, address)
}

func (cpu *CPU) beq(address uint16, mode AddressingMode) uint8 {
	return cpu.branch(cpu.P&FlagZero != 0, address)
}

func (cpu *CPU) bpl(address uint16, mode AddressingMode) uint8 {
	return cpu.branch(cpu.P&FlagNegative == 0, address)
}

func (cpu *CPU) bmi(address uint16, mode AddressingMode) uint8 {
	return cpu.branch(cpu.P&FlagNegative != 0, address)
}

func (cpu *CPU) bvc(address uint16, mode AddressingMode) uint8 {
	return cpu.branch(cpu.P&FlagOverflow == 0, address)
}

func (cpu *CPU) bvs(address uint16, mode AddressingMode) uint8 {
	return cpu.branch(cpu.P&FlagOverflow != 0, address)
}

// NOP, including the unofficial forms that read an operand and discard it.
func (cpu *CPU) nop(address uint16, mode AddressingMode) uint8 {
	return 0
}
