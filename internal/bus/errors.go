package bus

import "errors"

var (
	// ErrHalted is returned once the CPU has executed a jam opcode.
	ErrHalted = errors.New("cpu halted")
	// ErrStopped is returned after Stop was called.
	ErrStopped = errors.New("emulation stopped")
	// ErrNoCartridge is returned by New without a cartridge.
	ErrNoCartridge = errors.New("no cartridge loaded")
)
