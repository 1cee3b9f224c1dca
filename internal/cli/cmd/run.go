package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dunfield/rv32e/internal/cli"
	"github.com/dunfield/rv32e/internal/console"
	"github.com/dunfield/rv32e/internal/core"
	"github.com/dunfield/rv32e/internal/device"
	"github.com/dunfield/rv32e/internal/loader"
	"github.com/dunfield/rv32e/internal/log"
)

// Run is the command that loads a raw binary image and executes it.
func Run() cli.Command {
	return &run{timeout: 10 * time.Second}
}

type run struct {
	timeout time.Duration
	debug   bool
}

func (run) Description() string {
	return "run a program image"
}

func (run) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `run [-debug] [-timeout dur] image.bin

Load a raw binary image at the reset vector and run it until it halts.`)

	return err
}

func (r *run) FlagSet() *cli.FlagSet {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.BoolVar(&r.debug, "debug", false, "enable debug logging")
	fs.DurationVar(&r.timeout, "timeout", 10*time.Second, "stop the hart after `duration`")

	return fs
}

// Run loads args[0] as a flat binary image and executes it until the hart
// halts, the context is cancelled, or the timeout elapses.
func (r *run) Run(ctx context.Context, args []string, _ io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("run: missing image argument")
		return 1
	}

	if r.debug {
		log.LogLevel.Set(log.Debug)
	}

	image, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("run: reading image", "err", err)
		return 1
	}

	mem := core.NewMemory()
	bus := core.NewBus(mem)
	hart := core.NewHart(bus)
	hart.WithLogger(logger)

	ld := loader.New(bus)

	if _, err := ld.Load(core.DRAMBase, image); err != nil {
		logger.Error("run: loading image", "err", err)
		return 1
	}

	uart := device.New(os.Stdout)
	bus.Attach(0x1000_0000, 0x1000_00ff, uart)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if con, cerr := console.New(os.Stdin); cerr == nil {
		defer con.Restore()
		con.Attach(ctx, uart, hart.RaiseExternalInterrupt)
	} else if !errors.Is(cerr, console.ErrNoTTY) {
		logger.Warn("run: console unavailable", "err", cerr)
	}

	logger.Info("Starting hart", "image", args[0], "bytes", len(image))

	err = hart.Run(ctx)

	switch {
	case err == nil:
		logger.Info("Hart halted")
		return 0
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("Run timeout")
		return 2
	case errors.Is(err, context.Canceled):
		logger.Info("Run cancelled")
		return 0
	default:
		logger.Error("Hart stopped", "err", err)
		return 2
	}
}
