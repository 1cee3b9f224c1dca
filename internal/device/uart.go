// Package device implements the emulator's optional memory-mapped
// peripherals.
package device

// uart.go implements a minimal, 16550-like UART: a mutex-guarded register
// file with a background reader goroutine copying bytes from an io.Reader
// into the receive register, and writes to the transmit register copied
// synchronously to an io.Writer. Grounded in the reference UART (which runs a
// dedicated stdin-reading thread guarded by a single mutex/condvar) and in the
// keyboard/display device-driver split the rest of this stack's ambient
// devices use.

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dunfield/rv32e/internal/core"
	"github.com/dunfield/rv32e/internal/log"
)

// Register offsets from the UART's base address.
const (
	RegRHR = 0x0 // Receive holding register (read-only).
	RegTHR = 0x0 // Transmit holding register (write-only, same offset as RHR).
	RegLSR = 0x5 // Line status register.
	RegLCR = 0x3 // Line control register.

	// Size is the span of the UART's address window.
	Size = 0x100
)

// Line status register bits.
const (
	LSRRxReady = 1 << 0 // Data has been received and is ready to read.
	LSRTxEmpty = 1 << 5 // The transmit holding register is empty.
)

// UART is a minimal memory-mapped serial device. It is the emulator's only
// peripheral besides DRAM; the hart's trap machinery never references it
// directly; it is wired onto the bus and raises interrupts through the
// hart's external-interrupt line.
type UART struct {
	mut sync.Mutex

	lsr byte
	rhr byte
	lcr byte

	out io.Writer

	// raiseIRQ is called whenever a new byte becomes available to read. It is
	// nil until the UART is started with a hart's interrupt line.
	raiseIRQ func()
}

// New creates a UART with its transmit register empty and nothing received.
func New(out io.Writer) *UART {
	return &UART{
		lsr: LSRTxEmpty,
		out: out,
	}
}

// Start launches the background goroutine that copies bytes from in into the
// receive register, calling raiseIRQ each time a byte arrives. It runs until
// ctx is cancelled or in returns an error.
func (u *UART) Start(ctx context.Context, in io.Reader, raiseIRQ func()) {
	u.mut.Lock()
	u.raiseIRQ = raiseIRQ
	u.mut.Unlock()

	go u.readLoop(ctx, in)
}

func (u *UART) readLoop(ctx context.Context, in io.Reader) {
	buf := make([]byte, 1)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := in.Read(buf)
		if err != nil || n == 0 {
			return
		}

		u.mut.Lock()

		// A single-byte UART has no flow control: an unread byte is simply
		// overwritten rather than blocking this goroutine.
		u.rhr = buf[0]
		u.lsr |= LSRRxReady

		irq := u.raiseIRQ
		u.mut.Unlock()

		if irq != nil {
			irq()
		}
	}
}

// Load reads size bits from a UART-relative offset. Only byte-sized accesses
// are architecturally meaningful; wider reads zero-extend the register byte.
func (u *UART) Load(addr core.Word, size uint8) (core.Word, error) {
	u.mut.Lock()
	defer u.mut.Unlock()

	switch uint32(addr) {
	case RegRHR:
		val := u.rhr
		u.lsr &^= LSRRxReady

		return core.Word(val), nil
	case RegLSR:
		return core.Word(u.lsr), nil
	case RegLCR:
		return core.Word(u.lcr), nil
	default:
		return 0, fmt.Errorf("uart: no register at offset %#x", addr)
	}
}

// Store writes size bits to a UART-relative offset. A write to THR is copied
// synchronously to the configured writer.
func (u *UART) Store(addr core.Word, size uint8, val core.Word) error {
	u.mut.Lock()
	defer u.mut.Unlock()

	switch uint32(addr) {
	case RegTHR:
		if u.out != nil {
			fmt.Fprintf(u.out, "%c", byte(val))
		}

		return nil
	case RegLCR:
		u.lcr = byte(val)
		return nil
	default:
		return fmt.Errorf("uart: no register at offset %#x", addr)
	}
}

func (u *UART) WithLogger(*log.Logger) {} // The UART does not log; the logger is ignored.
