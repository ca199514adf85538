package cpu

import "testing"

// InstructionTest runs one instruction at $8000 and checks the outcome.
type InstructionTest struct {
	Name       string
	Setup      func(*CPUTestHelper)
	Program    []uint8
	ExpectedA  uint8
	ExpectedX  uint8
	ExpectedY  uint8
	ExpectedPC uint16
	// Flags under FlagMask must equal ExpectedFlags.
	ExpectedFlags  uint8
	FlagMask       uint8
	ExpectedCycles uint64
	MemoryChecks   []MemoryCheck
}

type MemoryCheck struct {
	Address uint16
	Value   uint8
}

const nzcv = FlagNegative | FlagZero | FlagCarry | FlagOverflow

func runInstructionTests(t *testing.T, tests []InstructionTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			helper := NewCPUTestHelper()
			helper.LoadProgram(0x8000, tt.Program...)
			if tt.Setup != nil {
				tt.Setup(helper)
			}

			cycles := helper.CPU.Step()

			helper.AssertRegisters(t, tt.Name, tt.ExpectedA, tt.ExpectedX, tt.ExpectedY, helper.CPU.SP, tt.ExpectedPC)
			if got := helper.CPU.P & tt.FlagMask; got != tt.ExpectedFlags {
				t.Errorf("%s: Expected flags 0x%02X under mask 0x%02X, got 0x%02X", tt.Name, tt.ExpectedFlags, tt.FlagMask, got)
			}
			if tt.ExpectedCycles != 0 && cycles != tt.ExpectedCycles {
				t.Errorf("%s: Expected %d cycles, got %d", tt.Name, tt.ExpectedCycles, cycles)
			}
			for _, check := range tt.MemoryChecks {
				helper.AssertMemory(t, tt.Name, check.Address, check.Value)
			}
		})
	}
}

func TestLoadStoreInstructions(t *testing.T) {
	runInstructionTests(t, []InstructionTest{
		{
			Name:           "LDA_Immediate_Zero",
			Program:        []uint8{0xA9, 0x00},
			Setup:          func(h *CPUTestHelper) { h.CPU.A = 0xFF },
			ExpectedA:      0x00,
			ExpectedPC:     0x8002,
			ExpectedFlags:  FlagZero,
			FlagMask:       FlagZero | FlagNegative,
			ExpectedCycles: 2,
		},
		{
			Name:           "LDA_Immediate_Negative",
			Program:        []uint8{0xA9, 0x80},
			ExpectedA:      0x80,
			ExpectedPC:     0x8002,
			ExpectedFlags:  FlagNegative,
			FlagMask:       FlagZero | FlagNegative,
			ExpectedCycles: 2,
		},
		{
			Name:    "LDA_AbsoluteX_PageCross",
			Program: []uint8{0xBD, 0xFF, 0x20},
			Setup: func(h *CPUTestHelper) {
				h.CPU.X = 0x01
				h.Memory.SetBytes(0x2100, 0x42)
			},
			ExpectedA:      0x42,
			ExpectedX:      0x01,
			ExpectedPC:     0x8003,
			ExpectedCycles: 5,
		},
		{
			Name:    "LDA_IndirectIndexed_PageCross",
			Program: []uint8{0xB1, 0x10},
			Setup: func(h *CPUTestHelper) {
				h.CPU.Y = 0x02
				h.Memory.SetBytes(0x0010, 0xFF, 0x20)
				h.Memory.SetBytes(0x2101, 0x37)
			},
			ExpectedA:      0x37,
			ExpectedY:      0x02,
			ExpectedPC:     0x8002,
			ExpectedCycles: 6,
		},
		{
			Name:    "LDX_ZeroPageY",
			Program: []uint8{0xB6, 0x10},
			Setup: func(h *CPUTestHelper) {
				h.CPU.Y = 0x05
				h.Memory.SetBytes(0x0015, 0x99)
			},
			ExpectedX:      0x99,
			ExpectedY:      0x05,
			ExpectedPC:     0x8002,
			ExpectedCycles: 4,
		},
		{
			Name:    "STA_AbsoluteX_NoPagePenalty",
			Program: []uint8{0x9D, 0xFF, 0x02},
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0x66
				h.CPU.X = 0x01
			},
			ExpectedA:      0x66,
			ExpectedX:      0x01,
			ExpectedPC:     0x8003,
			ExpectedCycles: 5,
			MemoryChecks:   []MemoryCheck{{0x0300, 0x66}},
		},
		{
			Name:    "STA_IndirectIndexed",
			Program: []uint8{0x91, 0x20},
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0x11
				h.CPU.Y = 0x10
				h.Memory.SetBytes(0x0020, 0xF8, 0x03)
			},
			ExpectedA:      0x11,
			ExpectedY:      0x10,
			ExpectedPC:     0x8002,
			ExpectedCycles: 6,
			MemoryChecks:   []MemoryCheck{{0x0408, 0x11}},
		},
	})
}

func TestArithmeticInstructions(t *testing.T) {
	runInstructionTests(t, []InstructionTest{
		{
			Name:          "ADC_Overflow",
			Program:       []uint8{0x69, 0x50},
			Setup:         func(h *CPUTestHelper) { h.CPU.A = 0x50 },
			ExpectedA:     0xA0,
			ExpectedPC:    0x8002,
			ExpectedFlags: FlagNegative | FlagOverflow,
			FlagMask:      nzcv,
		},
		{
			Name:    "ADC_CarryIn_CarryOut",
			Program: []uint8{0x69, 0xFF},
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0x01
				h.CPU.P |= FlagCarry
			},
			ExpectedA:     0x01,
			ExpectedPC:    0x8002,
			ExpectedFlags: FlagCarry,
			FlagMask:      nzcv,
		},
		{
			Name:    "ADC_IgnoresDecimal",
			Program: []uint8{0x69, 0x05},
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0x09
				h.CPU.P |= FlagDecimal
			},
			ExpectedA:  0x0E,
			ExpectedPC: 0x8002,
		},
		{
			Name:    "SBC_Borrow",
			Program: []uint8{0xE9, 0x01},
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0x00
				h.CPU.P |= FlagCarry
			},
			ExpectedA:     0xFF,
			ExpectedPC:    0x8002,
			ExpectedFlags: FlagNegative,
			FlagMask:      nzcv,
		},
		{
			Name:    "SBC_Overflow",
			Program: []uint8{0xE9, 0x01},
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0x80
				h.CPU.P |= FlagCarry
			},
			ExpectedA:     0x7F,
			ExpectedPC:    0x8002,
			ExpectedFlags: FlagOverflow | FlagCarry,
			FlagMask:      nzcv,
		},
		{
			Name:          "CMP_Equal",
			Program:       []uint8{0xC9, 0x42},
			Setup:         func(h *CPUTestHelper) { h.CPU.A = 0x42 },
			ExpectedA:     0x42,
			ExpectedPC:    0x8002,
			ExpectedFlags: FlagZero | FlagCarry,
			FlagMask:      FlagZero | FlagCarry | FlagNegative,
		},
		{
			Name:          "CPX_Less",
			Program:       []uint8{0xE0, 0x10},
			Setup:         func(h *CPUTestHelper) { h.CPU.X = 0x05 },
			ExpectedX:     0x05,
			ExpectedPC:    0x8002,
			ExpectedFlags: FlagNegative,
			FlagMask:      FlagZero | FlagCarry | FlagNegative,
		},
	})
}

// ORA sets Z and N from the result and leaves C and V alone.
func TestORAFlags(t *testing.T) {
	for _, a := range []uint8{0x00, 0x01, 0x40, 0x80, 0xFF} {
		for _, m := range []uint8{0x00, 0x02, 0x7F, 0x80} {
			for _, cv := range []uint8{0, FlagCarry | FlagOverflow} {
				helper := NewCPUTestHelper()
				helper.LoadProgram(0x8000, 0x09, m)
				helper.CPU.A = a
				helper.CPU.P = helper.CPU.P&^nzcv | cv

				helper.CPU.Step()

				result := a | m
				if helper.CPU.A != result {
					t.Errorf("ORA 0x%02X|0x%02X: Expected A=0x%02X, got 0x%02X", a, m, result, helper.CPU.A)
				}
				if helper.CPU.Flag(FlagZero) != (result == 0) {
					t.Errorf("ORA 0x%02X|0x%02X: wrong Z", a, m)
				}
				if helper.CPU.Flag(FlagNegative) != (result&0x80 != 0) {
					t.Errorf("ORA 0x%02X|0x%02X: wrong N", a, m)
				}
				if helper.CPU.P&(FlagCarry|FlagOverflow) != cv {
					t.Errorf("ORA 0x%02X|0x%02X: C/V changed", a, m)
				}
			}
		}
	}
}

func TestLogicalInstructions(t *testing.T) {
	runInstructionTests(t, []InstructionTest{
		{
			Name:          "AND_Zero",
			Program:       []uint8{0x29, 0x0F},
			Setup:         func(h *CPUTestHelper) { h.CPU.A = 0xF0 },
			ExpectedPC:    0x8002,
			ExpectedFlags: FlagZero,
			FlagMask:      FlagZero | FlagNegative,
		},
		{
			Name:          "EOR_Negative",
			Program:       []uint8{0x49, 0xFF},
			Setup:         func(h *CPUTestHelper) { h.CPU.A = 0x0F },
			ExpectedA:     0xF0,
			ExpectedPC:    0x8002,
			ExpectedFlags: FlagNegative,
			FlagMask:      FlagZero | FlagNegative,
		},
		{
			Name:    "BIT_CopiesBits",
			Program: []uint8{0x24, 0x10},
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0x01
				h.Memory.SetBytes(0x0010, 0xC0)
			},
			ExpectedA:      0x01,
			ExpectedPC:     0x8002,
			ExpectedFlags:  FlagNegative | FlagOverflow | FlagZero,
			FlagMask:       nzcv,
			ExpectedCycles: 3,
		},
	})
}

func TestShiftRotateInstructions(t *testing.T) {
	runInstructionTests(t, []InstructionTest{
		{
			Name:           "ASL_Accumulator",
			Program:        []uint8{0x0A},
			Setup:          func(h *CPUTestHelper) { h.CPU.A = 0x81 },
			ExpectedA:      0x02,
			ExpectedPC:     0x8001,
			ExpectedFlags:  FlagCarry,
			FlagMask:       FlagCarry | FlagZero | FlagNegative,
			ExpectedCycles: 2,
		},
		{
			Name:           "LSR_ZeroPage",
			Program:        []uint8{0x46, 0x10},
			Setup:          func(h *CPUTestHelper) { h.Memory.SetBytes(0x0010, 0x01) },
			ExpectedPC:     0x8002,
			ExpectedFlags:  FlagCarry | FlagZero,
			FlagMask:       FlagCarry | FlagZero | FlagNegative,
			ExpectedCycles: 5,
			MemoryChecks:   []MemoryCheck{{0x0010, 0x00}},
		},
		{
			Name:    "ROL_CarryIn",
			Program: []uint8{0x2A},
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0x40
				h.CPU.P |= FlagCarry
			},
			ExpectedA:     0x81,
			ExpectedPC:    0x8001,
			ExpectedFlags: FlagNegative,
			FlagMask:      FlagCarry | FlagZero | FlagNegative,
		},
		{
			Name:    "ROR_AbsoluteX",
			Program: []uint8{0x7E, 0x00, 0x03},
			Setup: func(h *CPUTestHelper) {
				h.CPU.X = 0x01
				h.CPU.P |= FlagCarry
				h.Memory.SetBytes(0x0301, 0x02)
			},
			ExpectedX:      0x01,
			ExpectedPC:     0x8003,
			ExpectedFlags:  FlagNegative,
			FlagMask:       FlagCarry | FlagZero | FlagNegative,
			ExpectedCycles: 7,
			MemoryChecks:   []MemoryCheck{{0x0301, 0x81}},
		},
		{
			Name:           "INC_WrapsToZero",
			Program:        []uint8{0xE6, 0x10},
			Setup:          func(h *CPUTestHelper) { h.Memory.SetBytes(0x0010, 0xFF) },
			ExpectedPC:     0x8002,
			ExpectedFlags:  FlagZero,
			FlagMask:       FlagZero | FlagNegative,
			ExpectedCycles: 5,
			MemoryChecks:   []MemoryCheck{{0x0010, 0x00}},
		},
		{
			Name:          "DEX_Negative",
			Program:       []uint8{0xCA},
			ExpectedX:     0xFF,
			ExpectedPC:    0x8001,
			ExpectedFlags: FlagNegative,
			FlagMask:      FlagZero | FlagNegative,
		},
	})
}

func TestBranchTiming(t *testing.T) {
	tests := []struct {
		name   string
		pc     uint16
		offset uint8
		taken  bool
		wantPC uint16
		cycles uint64
	}{
		{"not taken", 0x8000, 0x10, false, 0x8002, 2},
		{"taken same page", 0x8000, 0x10, true, 0x8012, 3},
		{"taken backwards same page", 0x8010, 0xF0, true, 0x8002, 3},
		{"taken across page", 0x80F0, 0x20, true, 0x8112, 4},
		{"taken backwards across page", 0x8000, 0x80, true, 0x7F82, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			helper := NewCPUTestHelper()
			helper.LoadProgram(tt.pc, 0xF0, tt.offset) // BEQ
			if tt.taken {
				helper.CPU.P |= FlagZero
			} else {
				helper.CPU.P &^= FlagZero
			}

			cycles := helper.CPU.Step()
			if helper.CPU.PC != tt.wantPC {
				t.Errorf("Expected PC=0x%04X, got 0x%04X", tt.wantPC, helper.CPU.PC)
			}
			if cycles != tt.cycles {
				t.Errorf("Expected %d cycles, got %d", tt.cycles, cycles)
			}
		})
	}
}

func TestSubroutines(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.LoadProgram(0x8000, 0x20, 0x00, 0x90, 0xEA) // JSR $9000; NOP
	helper.Memory.SetBytes(0x9000, 0x60)                // RTS

	if cycles := helper.CPU.Step(); cycles != 6 {
		t.Errorf("Expected JSR to take 6 cycles, got %d", cycles)
	}
	helper.AssertRegisters(t, "JSR", 0, 0, 0, 0xFB, 0x9000)
	helper.AssertMemory(t, "JSR return high", 0x01FD, 0x80)
	helper.AssertMemory(t, "JSR return low", 0x01FC, 0x02)

	helper.CPU.Step()
	helper.AssertRegisters(t, "RTS", 0, 0, 0, 0xFD, 0x8003)
}

func TestStackInstructions(t *testing.T) {
	helper := NewCPUTestHelper()
	helper.LoadProgram(0x8000,
		0x08,       // PHP
		0xA9, 0x00, // LDA #0
		0x28, // PLP
	)
	helper.CPU.P = FlagUnused | FlagCarry

	helper.CPU.Step()
	helper.AssertMemory(t, "PHP pushes B and unused", 0x01FD, FlagUnused|FlagBreak|FlagCarry)

	helper.CPU.Step()
	helper.CPU.Step()
	if helper.CPU.P != FlagUnused|FlagCarry {
		t.Errorf("Expected PLP to restore 0x%02X, got 0x%02X", FlagUnused|FlagCarry, helper.CPU.P)
	}
}

func TestUnofficialInstructions(t *testing.T) {
	runInstructionTests(t, []InstructionTest{
		{
			Name:           "LAX_ZeroPage",
			Program:        []uint8{0xA7, 0x10},
			Setup:          func(h *CPUTestHelper) { h.Memory.SetBytes(0x0010, 0x8F) },
			ExpectedA:      0x8F,
			ExpectedX:      0x8F,
			ExpectedPC:     0x8002,
			ExpectedFlags:  FlagNegative,
			FlagMask:       FlagNegative | FlagZero,
			ExpectedCycles: 3,
		},
		{
			Name:    "SAX_Absolute",
			Program: []uint8{0x8F, 0x00, 0x03},
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0xF0
				h.CPU.X = 0x3C
			},
			ExpectedA:    0xF0,
			ExpectedX:    0x3C,
			ExpectedPC:   0x8003,
			MemoryChecks: []MemoryCheck{{0x0300, 0x30}},
		},
		{
			Name:    "DCP_ZeroPage",
			Program: []uint8{0xC7, 0x10},
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0x41
				h.Memory.SetBytes(0x0010, 0x42)
			},
			ExpectedA:      0x41,
			ExpectedPC:     0x8002,
			ExpectedFlags:  FlagZero | FlagCarry,
			FlagMask:       FlagZero | FlagCarry,
			ExpectedCycles: 5,
			MemoryChecks:   []MemoryCheck{{0x0010, 0x41}},
		},
		{
			Name:    "ISB_ZeroPage",
			Program: []uint8{0xE7, 0x10},
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0x10
				h.CPU.P |= FlagCarry
				h.Memory.SetBytes(0x0010, 0x04)
			},
			ExpectedA:    0x0B,
			ExpectedPC:   0x8002,
			MemoryChecks: []MemoryCheck{{0x0010, 0x05}},
		},
		{
			Name:    "SLO_AbsoluteY_NoPagePenalty",
			Program: []uint8{0x1B, 0xFF, 0x02},
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0x01
				h.CPU.Y = 0x01
				h.Memory.SetBytes(0x0300, 0x40)
			},
			ExpectedA:      0x81,
			ExpectedY:      0x01,
			ExpectedPC:     0x8003,
			ExpectedCycles: 7,
			MemoryChecks:   []MemoryCheck{{0x0300, 0x80}},
		},
		{
			Name:    "AXS_Immediate",
			Program: []uint8{0xCB, 0x02},
			Setup: func(h *CPUTestHelper) {
				h.CPU.A = 0x0F
				h.CPU.X = 0x07
			},
			ExpectedA:     0x0F,
			ExpectedX:     0x05,
			ExpectedPC:    0x8002,
			ExpectedFlags: FlagCarry,
			FlagMask:      FlagCarry | FlagZero | FlagNegative,
		},
		{
			Name:           "NOP_AbsoluteX_PageCross",
			Program:        []uint8{0x1C, 0xFF, 0x02},
			Setup:          func(h *CPUTestHelper) { h.CPU.X = 0x01 },
			ExpectedX:      0x01,
			ExpectedPC:     0x8003,
			ExpectedCycles: 5,
		},
	})
}
