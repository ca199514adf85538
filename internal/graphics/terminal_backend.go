package graphics

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"nescore/internal/ppu"
)

const (
	defaultTermCols = 80
	defaultTermRows = 30
)

// TerminalBackend renders frames to a truecolor terminal using half-block
// characters, two pixel rows per text row.
type TerminalBackend struct {
	initialized bool
	config      Config
	out         io.Writer
	fd          int
}

// TerminalWindow implements the Window interface for terminal rendering
type TerminalWindow struct {
	title   string
	cols    int
	rows    int
	running bool
	out     io.Writer
	fd      int
	sized   bool
}

// NewTerminalBackend creates a terminal backend drawing to stdout
func NewTerminalBackend() Backend {
	return &TerminalBackend{out: os.Stdout, fd: int(os.Stdout.Fd())}
}

// NewTerminalBackendWriter creates a terminal backend drawing to w with a
// fixed size in characters.
func NewTerminalBackendWriter(w io.Writer, cols, rows int) *TerminalBackend {
	return &TerminalBackend{
		out:    w,
		fd:     -1,
		config: Config{WindowWidth: cols, WindowHeight: rows},
	}
}

// Initialize initializes the terminal backend
func (b *TerminalBackend) Initialize(config Config) error {
	if b.initialized {
		return fmt.Errorf("terminal backend already initialized")
	}
	if b.fd < 0 {
		config.WindowWidth, config.WindowHeight = b.config.WindowWidth, b.config.WindowHeight
	}
	b.config = config
	b.initialized = true
	return nil
}

// CreateWindow creates a terminal "window". The size is taken from the
// terminal when stdout is one.
func (b *TerminalBackend) CreateWindow(title string, width, height int) (Window, error) {
	if !b.initialized {
		return nil, fmt.Errorf("backend not initialized")
	}

	w := &TerminalWindow{
		title:   title,
		cols:    defaultTermCols,
		rows:    defaultTermRows,
		running: true,
		out:     b.out,
		fd:      b.fd,
	}
	if b.fd >= 0 && term.IsTerminal(b.fd) {
		w.sized = true
		w.refreshSize()
	} else if b.config.WindowWidth > 0 && b.config.WindowHeight > 0 {
		w.cols, w.rows = b.config.WindowWidth, b.config.WindowHeight
	}
	return w, nil
}

func (b *TerminalBackend) Cleanup() error {
	b.initialized = false
	return nil
}

func (b *TerminalBackend) IsHeadless() bool { return false }
func (b *TerminalBackend) GetName() string  { return "Terminal" }

func (w *TerminalWindow) refreshSize() {
	cols, rows, err := term.GetSize(w.fd)
	if err != nil || cols <= 0 || rows <= 1 {
		return
	}
	// keep one row for the cursor
	w.cols, w.rows = min(cols, ppu.Width), min(rows-1, ppu.Height/2)
}

func (w *TerminalWindow) SetTitle(title string) {
	w.title = title
	fmt.Fprintf(w.out, "\033]0;%s\007", title)
}

func (w *TerminalWindow) GetSize() (width, height int) { return w.cols, w.rows }
func (w *TerminalWindow) ShouldClose() bool            { return !w.running }
func (w *TerminalWindow) PollEvents() []InputEvent     { return nil }

// RenderFrame draws the frame from the top-left corner of the terminal
func (w *TerminalWindow) RenderFrame(frame *ppu.Frame) error {
	if frame == nil {
		return nil
	}
	if w.sized {
		w.refreshSize()
	}

	buf := bufio.NewWriter(w.out)
	buf.WriteString("\033[H")
	renderHalfBlocks(buf, frame, w.cols, w.rows)
	buf.WriteString("\033[0m")
	return buf.Flush()
}

func (w *TerminalWindow) Cleanup() error {
	w.running = false
	fmt.Fprint(w.out, "\033[0m\n")
	return nil
}

// renderHalfBlocks samples the frame onto a cols x rows grid. Each cell's
// foreground is the upper pixel and its background the lower one.
func renderHalfBlocks(w *bufio.Writer, frame *ppu.Frame, cols, rows int) {
	for row := 0; row < rows; row++ {
		top := (row * 2) * ppu.Height / (rows * 2)
		bottom := (row*2 + 1) * ppu.Height / (rows * 2)
		for col := 0; col < cols; col++ {
			x := col * ppu.Width / cols
			fg, bg := frame.At(x, top), frame.At(x, bottom)
			fmt.Fprintf(w, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm▀",
				uint8(fg>>16), uint8(fg>>8), uint8(fg),
				uint8(bg>>16), uint8(bg>>8), uint8(bg))
		}
		w.WriteString("\033[0m\n")
	}
}
