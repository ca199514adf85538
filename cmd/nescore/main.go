// Command nescore runs an NES ROM in a window, in the terminal or headless.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nescore/internal/app"
	"nescore/internal/graphics"
	"nescore/internal/version"
)

func main() {
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	var (
		romFile     = flag.String("rom", "", "Path to NES ROM file")
		configFile  = flag.String("config", "", "Path to configuration file")
		nogui       = flag.Bool("nogui", false, "Run without a window (headless backend)")
		backend     = flag.String("backend", "", "Graphics backend: ebitengine, terminal or headless")
		frames      = flag.Uint64("frames", 0, "Stop after this many frames (0 runs until quit)")
		screenshot  = flag.String("screenshot", "", "Write the last frame to this PNG file")
		traceFile   = flag.String("trace", "", "Write an instruction trace to this file")
		digest      = flag.Bool("digest", false, "Print a SHA-1 digest of all frames on exit")
		statsview   = flag.Bool("statsview", false, "Serve runtime statistics on "+app.StatsViewAddress)
		showVersion = flag.Bool("version", false, "Show version information")
		debug       = flag.Bool("debug", false, "Log emulator diagnostics to stderr")
	)
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		version.PrintBuildInfo(os.Stdout)
		return
	}

	if *romFile == "" && flag.NArg() > 0 {
		*romFile = flag.Arg(0)
	}
	if *romFile == "" {
		flag.Usage()
		exitCode = 2
		return
	}

	config := app.NewConfig()
	if *configFile != "" {
		loaded, err := app.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		config = loaded
	}
	if *backend != "" {
		config.Video.Backend = *backend
	}
	if *nogui {
		config.Video.Backend = string(graphics.BackendHeadless)
	}
	if *statsview {
		config.Debug.StatsView = true
	}
	if *traceFile == "" {
		*traceFile = config.Debug.TraceFile
	}

	logger := log.New(io.Discard, "", 0)
	if *debug || config.Debug.EnableLogging {
		logger = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
	}

	opts := app.Options{
		ROMPath:    *romFile,
		Frames:     *frames,
		Screenshot: *screenshot,
		Digest:     *digest,
		Logger:     logger,
	}
	if *traceFile != "" {
		f, err := os.Create(*traceFile)
		if err != nil {
			log.Fatalf("Failed to create trace file: %v", err)
		}
		trace := bufio.NewWriter(f)
		opts.Trace = trace
		defer func() {
			if err := errors.Join(trace.Flush(), f.Close()); err != nil {
				log.Printf("trace: %v", err)
			}
		}()
	}

	if err := run(config, opts); err != nil {
		log.Print(err)
		exitCode = 1
	}
}

func run(config *app.Config, opts app.Options) error {
	application, err := app.NewApplication(config, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Cleanup(); err != nil {
			log.Printf("cleanup: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		return err
	}

	if opts.Digest {
		fmt.Println(application.Digest())
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(flag.CommandLine.Output(), `nescore - NES emulator

Usage:
  nescore [flags] -rom <file.nes>
  nescore [flags] <file.nes>

Flags:
`)
	flag.PrintDefaults()
	fmt.Fprintf(flag.CommandLine.Output(), `
Controls (Ebitengine backend):
  Arrows/WASD  D-pad         1-4  player 2 D-pad
  J / K        A / B         5-6  player 2 A / B
  Enter/Space  Start/Select  7-8  player 2 Start/Select
  P            pause         F5   reset
  Esc          quit
`)
}
