package cartridge

import "errors"

// Load errors. Loaders wrap these with context, so match with errors.Is.
var (
	ErrInvalidHeader     = errors.New("invalid iNES header")
	ErrTruncated         = errors.New("truncated ROM image")
	ErrNoPRG             = errors.New("ROM declares no PRG banks")
	ErrUnsupportedMapper = errors.New("unsupported mapper")
)
