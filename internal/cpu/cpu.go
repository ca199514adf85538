// Package cpu implements the 6502 CPU emulation for the NES.
package cpu

import (
	"io"
	"log"
)

// Addressing modes
type AddressingMode uint8

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

// Status register bits
const (
	FlagCarry     uint8 = 1 << 0
	FlagZero      uint8 = 1 << 1
	FlagInterrupt uint8 = 1 << 2
	FlagDecimal   uint8 = 1 << 3
	FlagBreak     uint8 = 1 << 4
	FlagUnused    uint8 = 1 << 5
	FlagOverflow  uint8 = 1 << 6
	FlagNegative  uint8 = 1 << 7
)

const (
	stackBase = 0x0100

	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE

	interruptCycles = 7
	powerOnStatus   = 0x34
	powerOnSP       = 0xFD
)

// MemoryInterface defines the interface for CPU memory access
type MemoryInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU represents the 6502 processor used in the NES
type CPU struct {
	A  uint8  // Accumulator
	X  uint8  // X register
	Y  uint8  // Y register
	SP uint8  // Stack pointer
	PC uint16 // Program counter
	P  uint8  // Processor status

	memory MemoryInterface
	cycles uint64

	nmiPending bool
	irqLine    bool
	halted     bool

	logger         *log.Logger
	undefinedCount [256]uint64
}

// New creates a new CPU instance in its power-on state. PC is loaded by Reset.
func New(memory MemoryInterface) *CPU {
	return &CPU{
		memory: memory,
		SP:     powerOnSP,
		P:      powerOnStatus,
		logger: log.New(io.Discard, "", 0),
	}
}

// SetLogger routes diagnostics (undefined opcodes, jams) to l.
func (cpu *CPU) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	cpu.logger = l
}

// PowerOn puts the registers in their power-up state and silences the
// audio frame counter.
func (cpu *CPU) PowerOn() {
	cpu.A, cpu.X, cpu.Y = 0, 0, 0
	cpu.SP = powerOnSP
	cpu.P = powerOnStatus
	cpu.cycles = 0
	cpu.nmiPending = false
	cpu.irqLine = false
	cpu.halted = false
	cpu.memory.Write(0x4017, 0x00)
}

// Reset loads PC from the reset vector. Other registers keep their values.
func (cpu *CPU) Reset() {
	cpu.PC = cpu.readWord(resetVector)
	cpu.nmiPending = false
	cpu.halted = false
	cpu.cycles += interruptCycles
}

// Step executes one instruction, or services one pending interrupt, and
// returns the cycles it took. A halted CPU returns 0.
func (cpu *CPU) Step() uint64 {
	if cpu.halted {
		return 0
	}

	switch {
	case cpu.nmiPending:
		cpu.nmiPending = false
		cpu.interrupt(nmiVector)
		return cpu.tick(interruptCycles)
	case cpu.irqLine && cpu.P&FlagInterrupt == 0:
		cpu.interrupt(irqVector)
		return cpu.tick(interruptCycles)
	}

	opcode := cpu.read(cpu.PC)
	inst := &instructions[opcode]

	switch inst.Kind {
	case Jam:
		cpu.halted = true
		cpu.logger.Printf("[CPU] jammed by opcode $%02X at $%04X", opcode, cpu.PC)
		return 0
	case Undefined:
		cpu.reportUndefined(opcode)
		cpu.PC++
		return cpu.tick(1)
	}

	address, pageCrossed := cpu.operandAddress(inst.Mode)
	cpu.PC += uint16(inst.Bytes)

	cycles := uint64(inst.Cycles) + uint64(inst.exec(cpu, address, inst.Mode))
	if pageCrossed && inst.PageCycle {
		cycles++
	}
	return cpu.tick(cycles)
}

func (cpu *CPU) tick(cycles uint64) uint64 {
	cpu.cycles += cycles
	return cycles
}

func (cpu *CPU) reportUndefined(opcode uint8) {
	n := cpu.undefinedCount[opcode]
	cpu.undefinedCount[opcode]++
	// Log the first hit and every 1024th after it.
	if n%1024 == 0 {
		cpu.logger.Printf("[CPU] undefined opcode $%02X (%s) at $%04X, seen %d times",
			opcode, instructions[opcode].Name, cpu.PC, n+1)
	}
}

// TriggerNMI latches a non-maskable interrupt, serviced before the next
// instruction.
func (cpu *CPU) TriggerNMI() {
	cpu.nmiPending = true
}

// SetIRQ drives the level-sensitive IRQ line.
func (cpu *CPU) SetIRQ(asserted bool) {
	cpu.irqLine = asserted
}

func (cpu *CPU) interrupt(vector uint16) {
	cpu.pushWord(cpu.PC)
	cpu.push(cpu.P&^FlagBreak | FlagUnused)
	cpu.P |= FlagInterrupt
	cpu.PC = cpu.readWord(vector)
}

// Halted reports whether a jam opcode stopped the processor.
func (cpu *CPU) Halted() bool { return cpu.halted }

// Cycles returns the total cycles executed since power-on.
func (cpu *CPU) Cycles() uint64 { return cpu.cycles }

// Flag reports whether every bit in mask is set in P.
func (cpu *CPU) Flag(mask uint8) bool { return cpu.P&mask == mask }

func (cpu *CPU) setFlag(mask uint8, on bool) {
	if on {
		cpu.P |= mask
	} else {
		cpu.P &^= mask
	}
}

func (cpu *CPU) setZN(value uint8) {
	cpu.setFlag(FlagZero, value == 0)
	cpu.setFlag(FlagNegative, value&0x80 != 0)
}

func (cpu *CPU) read(address uint16) uint8 {
	return cpu.memory.Read(address)
}

func (cpu *CPU) write(address uint16, value uint8) {
	cpu.memory.Write(address, value)
}

func (cpu *CPU) readWord(address uint16) uint16 {
	return uint16(cpu.read(address)) | uint16(cpu.read(address+1))<<8
}

// readWordZeroPage reads a pointer from the zero page; the high byte of a
// pointer at $FF comes from $00.
func (cpu *CPU) readWordZeroPage(address uint8) uint16 {
	return uint16(cpu.read(uint16(address))) | uint16(cpu.read(uint16(address+1)))<<8
}

// readWordPageWrapped reads a pointer without carrying into the high byte of
// the address, as JMP ($xxFF) does on the 6502.
func (cpu *CPU) readWordPageWrapped(address uint16) uint16 {
	hi := address&0xFF00 | uint16(uint8(address)+1)
	return uint16(cpu.read(address)) | uint16(cpu.read(hi))<<8
}

func pagesDiffer(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// operandAddress resolves the effective address of the instruction at PC.
// The second result reports an indexed access that crossed a page.
func (cpu *CPU) operandAddress(mode AddressingMode) (uint16, bool) {
	operand := cpu.PC + 1

	switch mode {
	case Immediate:
		return operand, false
	case ZeroPage:
		return uint16(cpu.read(operand)), false
	case ZeroPageX:
		return uint16(cpu.read(operand) + cpu.X), false
	case ZeroPageY:
		return uint16(cpu.read(operand) + cpu.Y), false
	case Relative:
		offset := int8(cpu.read(operand))
		return operand + 1 + uint16(offset), false
	case Absolute:
		return cpu.readWord(operand), false
	case AbsoluteX:
		base := cpu.readWord(operand)
		address := base + uint16(cpu.X)
		return address, pagesDiffer(base, address)
	case AbsoluteY:
		base := cpu.readWord(operand)
		address := base + uint16(cpu.Y)
		return address, pagesDiffer(base, address)
	case Indirect:
		return cpu.readWordPageWrapped(cpu.readWord(operand)), false
	case IndexedIndirect:
		return cpu.readWordZeroPage(cpu.read(operand) + cpu.X), false
	case IndirectIndexed:
		base := cpu.readWordZeroPage(cpu.read(operand))
		address := base + uint16(cpu.Y)
		return address, pagesDiffer(base, address)
	}
	return 0, false
}

// Stack operations. The stack lives in page one and SP wraps within it.

func (cpu *CPU) push(value uint8) {
	cpu.write(stackBase|uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pop() uint8 {
	cpu.SP++
	return cpu.read(stackBase | uint16(cpu.SP))
}

func (cpu *CPU) pushWord(value uint16) {
	cpu.push(uint8(value >> 8))
	cpu.push(uint8(value))
}

func (cpu *CPU) popWord() uint16 {
	lo := uint16(cpu.pop())
	hi := uint16(cpu.pop())
	return hi<<8 | lo
}
