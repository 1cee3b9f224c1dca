// Package console adapts Unix terminal I/O to the machine's UART.
package console

// console.go is grounded in the teacher's tty.Console: raw-mode terminal
// handling via golang.org/x/term plus golang.org/x/sys/unix termios tuning,
// with background goroutines moving bytes between the terminal and a
// device. Where the teacher wires a keyboard and a display driver
// separately, this adapts the same plumbing to a single UART, which is both
// the source of received bytes and the sink for transmitted ones.

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/dunfield/rv32e/internal/device"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNoTTY is returned when standard input is not a terminal, in which case
// raw-mode console I/O is not available.
var ErrNoTTY = errors.New("console: not a TTY")

// Console adapts a UART to Unix terminal I/O.
type Console struct {
	in    *os.File
	fd    int
	state *term.State
}

// New puts sin into raw mode and returns a Console reading from it. Callers
// must call Restore to return the terminal to its original state.
func New(sin *os.File) (*Console, error) {
	fd := int(sin.Fd())

	if !term.IsTerminal(fd) {
		return nil, ErrNoTTY
	}

	saved, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTTY, err)
	}

	c := &Console{fd: fd, in: sin, state: saved}

	if err := c.setTerminalParams(1, 0); err != nil {
		return nil, err
	}

	return c, nil
}

// Restore returns the terminal to its state before New was called.
func (c *Console) Restore() {
	_ = c.in.SetReadDeadline(time.Now())
	_ = term.Restore(c.fd, c.state)
}

// Attach starts the UART's receive loop reading from this console's
// terminal, calling raiseIRQ for each received byte. The loop stops when ctx
// is cancelled; restoring the terminal is left to Restore.
func (c *Console) Attach(ctx context.Context, u *device.UART, raiseIRQ func()) {
	// Block on reads: the UART's own read loop handles cancellation.
	_ = syscall.SetNonblock(c.fd, false)

	u.Start(ctx, c.in, raiseIRQ)
}

// Writer returns the file this console writes to, for wiring as the UART's
// transmit sink.
func (c *Console) Writer() *os.File {
	return os.Stdout
}

func (c *Console) setTerminalParams(vmin, vtime byte) error {
	_ = syscall.SetNonblock(c.fd, true)

	termIO, err := unix.IoctlGetTermios(c.fd, getTermiosIoctl)
	if err != nil {
		return err
	}

	termIO.Cc[unix.VMIN] = vmin
	termIO.Cc[unix.VTIME] = vtime

	if err := unix.IoctlSetTermios(c.fd, setTermiosIoctl, termIO); err != nil {
		return err
	}

	_ = c.in.SetReadDeadline(time.Time{})

	return nil
}
