// Package bus implements the system bus that ties the NES components
// together and runs them in lock-step.
package bus

import (
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"nescore/internal/apu"
	"nescore/internal/cartridge"
	"nescore/internal/cpu"
	"nescore/internal/input"
	"nescore/internal/memory"
	"nescore/internal/ppu"
)

const (
	ppuCyclesPerCPUCycle = 3
	oamDMACycles         = 513
)

// Bus connects all NES components together
type Bus struct {
	CPU       *cpu.CPU
	PPU       *ppu.PPU
	APU       *apu.APU
	Memory    *memory.Memory
	Input     *input.InputState
	Cartridge *cartridge.Cartridge

	logger *log.Logger
	trace  io.Writer

	cpuCycles uint64
	ppuCycles uint64

	dmaSuspendCycles uint64
	nmiPending       bool

	stopRequested atomic.Bool
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger routes diagnostics from the bus and CPU to l.
func WithLogger(l *log.Logger) Option {
	return func(b *Bus) { b.logger = l }
}

// WithTrace writes one nestest-style line per executed instruction to w.
func WithTrace(w io.Writer) Option {
	return func(b *Bus) { b.trace = w }
}

// WithPalette sets the master palette used for rendering.
func WithPalette(p *ppu.Palette) Option {
	return func(b *Bus) { b.PPU.SetPalette(p) }
}

// New wires a system around cart, powers it on and resets the CPU.
func New(cart *cartridge.Cartridge, opts ...Option) (*Bus, error) {
	if cart == nil {
		return nil, ErrNoCartridge
	}

	b := &Bus{
		PPU:       ppu.New(),
		APU:       apu.New(),
		Input:     input.NewInputState(),
		Cartridge: cart,
		logger:    log.New(io.Discard, "", 0),
	}

	b.Memory = memory.New(b.PPU, b.APU, cart)
	b.Memory.SetInputSystem(b.Input)
	b.Memory.SetDMACallback(b.TriggerOAMDMA)
	b.PPU.SetMemory(b.Memory)
	b.PPU.SetNMICallback(b.triggerNMI)
	b.CPU = cpu.New(b.Memory)

	for _, opt := range opts {
		opt(b)
	}
	b.CPU.SetLogger(b.logger)

	b.PowerOn()
	b.logger.Printf("[BUS] cartridge mapper=%d prg=%dx16KB chr=%dx8KB mirror=%s, reset vector $%04X",
		cart.MapperID(), cart.PRGBanks(), cart.CHRBanks(), cart.Mirror(), b.CPU.PC)
	return b, nil
}

// PowerOn returns every component to its power-up state and runs the CPU
// reset sequence.
func (b *Bus) PowerOn() {
	b.PPU.Reset()
	b.APU.Reset()
	b.Input.Reset()
	b.CPU.PowerOn()

	b.cpuCycles = 0
	b.ppuCycles = 0
	b.dmaSuspendCycles = 0
	b.nmiPending = false
	b.stopRequested.Store(false)

	b.Reset()
}

// Reset presses the reset button: the CPU reloads PC from $FFFC and the
// PPU's clock keeps pace with the reset sequence.
func (b *Bus) Reset() {
	before := b.CPU.Cycles()
	b.CPU.Reset()
	b.advance(b.CPU.Cycles() - before)
}

// triggerNMI is called by the PPU when an NMI should be triggered
func (b *Bus) triggerNMI() {
	b.nmiPending = true
}

// Step executes one CPU instruction (or one DMA stall) and runs the PPU for
// three times as many cycles. It returns the CPU cycles consumed.
func (b *Bus) Step() uint64 {
	var cycles uint64

	if b.dmaSuspendCycles > 0 {
		cycles = b.dmaSuspendCycles
		b.dmaSuspendCycles = 0
	} else {
		if b.nmiPending {
			b.CPU.TriggerNMI()
			b.nmiPending = false
		}
		if b.trace != nil && !b.CPU.Halted() {
			fmt.Fprintln(b.trace, b.traceLine())
		}
		cycles = b.CPU.Step()
	}

	b.advance(cycles)
	return cycles
}

func (b *Bus) advance(cycles uint64) {
	b.PPU.Advance(cycles * ppuCyclesPerCPUCycle)
	b.cpuCycles += cycles
	b.ppuCycles += cycles * ppuCyclesPerCPUCycle
}

func (b *Bus) traceLine() string {
	return fmt.Sprintf("%s PPU:%3d,%3d", b.CPU.Trace(), b.PPU.Scanline(), b.PPU.Cycle())
}

// TriggerOAMDMA copies a 256 byte page into sprite memory and stalls the
// CPU for 513 cycles, 514 when started on an odd cycle.
func (b *Bus) TriggerOAMDMA(sourcePage uint8) {
	stall := uint64(oamDMACycles)
	if b.cpuCycles%2 == 1 {
		stall++
	}
	b.dmaSuspendCycles += stall

	source := uint16(sourcePage) << 8
	for i := uint16(0); i < 256; i++ {
		b.PPU.WriteOAM(b.Memory.Read(source + i))
	}
}

// Stop asks the run loop to return ErrStopped before the next instruction.
// It is safe to call from any goroutine.
func (b *Bus) Stop() {
	b.stopRequested.Store(true)
}

func (b *Bus) check() error {
	if b.stopRequested.Load() {
		return ErrStopped
	}
	if b.CPU.Halted() {
		return ErrHalted
	}
	return nil
}

// RunInstructions executes n instructions.
func (b *Bus) RunInstructions(n int) error {
	for i := 0; i < n; i++ {
		if err := b.check(); err != nil {
			return err
		}
		b.Step()
	}
	return nil
}

// RunCycles runs until at least n more CPU cycles have elapsed.
func (b *Bus) RunCycles(n uint64) error {
	target := b.cpuCycles + n
	for b.cpuCycles < target {
		if err := b.check(); err != nil {
			return err
		}
		b.Step()
	}
	return nil
}

// StepFrame runs until the PPU publishes the next frame.
func (b *Bus) StepFrame() error {
	target := b.PPU.FrameCount() + 1
	for b.PPU.FrameCount() < target {
		if err := b.check(); err != nil {
			return err
		}
		b.Step()
	}
	return nil
}

// Run runs the given number of frames.
func (b *Bus) Run(frames int) error {
	for i := 0; i < frames; i++ {
		if err := b.StepFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Frame returns the last completed frame. Safe for concurrent use.
func (b *Bus) Frame() *ppu.Frame {
	return b.PPU.Frame()
}

// FrameCount returns the number of completed frames. Safe for concurrent use.
func (b *Bus) FrameCount() uint64 {
	return b.PPU.FrameCount()
}

func (b *Bus) CPUCycles() uint64 { return b.cpuCycles }
func (b *Bus) PPUCycles() uint64 { return b.ppuCycles }
func (b *Bus) Halted() bool      { return b.CPU.Halted() }

// SetControllerButton presses or releases a button on controller 1 or 2.
// Safe to call from the presentation goroutine.
func (b *Bus) SetControllerButton(controller int, button input.Button, pressed bool) {
	switch controller {
	case 1:
		b.Input.Controller1.SetButton(button, pressed)
	case 2:
		b.Input.Controller2.SetButton(button, pressed)
	}
}

// CPUState represents a CPU state snapshot
type CPUState struct {
	PC      uint16
	A, X, Y uint8
	SP      uint8
	P       uint8
	Cycles  uint64
	Halted  bool
}

// CPUState returns the current CPU registers.
func (b *Bus) CPUState() CPUState {
	return CPUState{
		PC:     b.CPU.PC,
		A:      b.CPU.A,
		X:      b.CPU.X,
		Y:      b.CPU.Y,
		SP:     b.CPU.SP,
		P:      b.CPU.P,
		Cycles: b.cpuCycles,
		Halted: b.CPU.Halted(),
	}
}

func (s CPUState) String() string {
	return fmt.Sprintf("PC:%04X A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d halted=%v",
		s.PC, s.A, s.X, s.Y, s.P, s.SP, s.Cycles, s.Halted)
}
