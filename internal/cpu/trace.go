package cpu

import (
	"fmt"
	"strings"
)

// Disassemble formats the instruction at address, returning the text and
// the raw bytes. It reads only the instruction's own bytes.
func (cpu *CPU) Disassemble(address uint16) (string, []uint8) {
	inst := &instructions[cpu.read(address)]
	raw := make([]uint8, inst.Bytes)
	for i := range raw {
		raw[i] = cpu.read(address + uint16(i))
	}

	var operand string
	switch inst.Mode {
	case Accumulator:
		operand = "A"
	case Immediate:
		operand = fmt.Sprintf("#$%02X", raw[1])
	case ZeroPage:
		operand = fmt.Sprintf("$%02X", raw[1])
	case ZeroPageX:
		operand = fmt.Sprintf("$%02X,X", raw[1])
	case ZeroPageY:
		operand = fmt.Sprintf("$%02X,Y", raw[1])
	case Relative:
		operand = fmt.Sprintf("$%04X", address+2+uint16(int8(raw[1])))
	case Absolute:
		operand = fmt.Sprintf("$%02X%02X", raw[2], raw[1])
	case AbsoluteX:
		operand = fmt.Sprintf("$%02X%02X,X", raw[2], raw[1])
	case AbsoluteY:
		operand = fmt.Sprintf("$%02X%02X,Y", raw[2], raw[1])
	case Indirect:
		operand = fmt.Sprintf("($%02X%02X)", raw[2], raw[1])
	case IndexedIndirect:
		operand = fmt.Sprintf("($%02X,X)", raw[1])
	case IndirectIndexed:
		operand = fmt.Sprintf("($%02X),Y", raw[1])
	}

	marker := " "
	if inst.Kind != Official {
		marker = "*"
	}
	return strings.TrimRight(marker+inst.Name+" "+operand, " "), raw
}

// Trace returns a nestest-style log line for the instruction about to run.
func (cpu *CPU) Trace() string {
	text, raw := cpu.Disassemble(cpu.PC)

	hex := make([]string, len(raw))
	for i, b := range raw {
		hex[i] = fmt.Sprintf("%02X", b)
	}

	return fmt.Sprintf("%04X  %-8s %-32s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		cpu.PC, strings.Join(hex, " "), text, cpu.A, cpu.X, cpu.Y, cpu.P, cpu.SP, cpu.cycles)
}
