package core

// hart.go defines the hart's architectural state and its fetch-decode-execute
// instruction cycle. Decode and execute are a single dispatch on the opcode,
// funct3, and funct7 fields — a plain switch, not a table of per-instruction
// heap-allocated operations.

import (
	"context"
	"errors"
	"fmt"

	"github.com/dunfield/rv32e/internal/log"
)

// ErrHalted is returned by Step when the hart has already stopped.
var ErrHalted = errors.New("halted")

// Hart is a single RISC-V hardware thread: registers, PC, privilege mode, CSR
// file, and the bus it fetches and accesses memory through.
type Hart struct {
	PC   Word
	Regs RegisterFile
	Mode Mode

	CSR  *CSRFile
	Bus  *Bus
	trap *Trap

	halted bool

	log *log.Logger
}

// NewHart creates a hart wired to the given bus, with the reset state defined
// by the privileged architecture: PC at DRAM_BASE, SP at DRAM_END, machine
// mode, all registers and CSRs zero.
func NewHart(bus *Bus) *Hart {
	h := &Hart{
		PC:   DRAMBase,
		Mode: Machine,
		CSR:  NewCSRFile(),
		Bus:  bus,
		log:  log.DefaultLogger(),
	}
	h.trap = NewTrap(h.CSR)
	h.Regs.Set(X2, Register(DRAMEnd))

	return h
}

// WithLogger overrides the hart's logger.
func (h *Hart) WithLogger(l *log.Logger) {
	h.log = l
}

func (h *Hart) LogValue() log.Value {
	return log.GroupValue(
		log.String("PC", Word(h.PC).String()),
		log.String("MODE", h.Mode.String()),
	)
}

// Run drives the instruction cycle until a fatal exception is delivered, the
// context is cancelled, or the hart otherwise stops.
func (h *Hart) Run(ctx context.Context) error {
	h.log.Info("start", "pc", h.PC)

	for {
		select {
		case <-ctx.Done():
			h.log.Warn("cancelled")
			return ctx.Err()
		default:
		}

		if h.halted {
			break
		}

		if err := h.Step(); err != nil {
			h.log.Error("halted", "err", err)
			return err
		}
	}

	h.log.Info("halted (clean)", "pc", h.PC)

	return nil
}

// Step fetches, decodes, and executes one instruction, then polls for a
// pending interrupt.
func (h *Hart) Step() error {
	if h.halted {
		return fmt.Errorf("step: %w", ErrHalted)
	}

	faultPC := h.PC

	word, fault := h.Bus.Load(h.PC, 32)
	if fault != nil {
		h.deliverException(fault, faultPC)
		return h.fatalOrNil(fault)
	}

	inst := Instruction(word)

	h.log.Debug("fetched", "pc", h.PC, "inst", inst)

	nextPC, fault := h.execute(inst)
	if fault != nil {
		h.deliverException(fault, faultPC)
		return h.fatalOrNil(fault)
	}

	h.Regs.Set(X0, 0)
	h.PC = nextPC

	h.pollInterrupt()

	return nil
}

// fatalOrNil decides whether an exception stops the run loop. Fatal causes
// (per the exception table) halt with an error; an ECALL, in this freestanding
// emulator with no OS to service it, is the program's signal that it is done
// and halts cleanly instead of looping back into user code.
func (h *Hart) fatalOrNil(exc *Exception) error {
	switch exc.Cause {
	case CauseEnvCallFromUMode, CauseEnvCallFromSMode, CauseEnvCallFromMMode:
		h.halted = true
		return nil
	}

	if exc.Fatal() {
		h.halted = true
		return exc
	}

	return nil
}

func (h *Hart) deliverException(exc *Exception, faultPC Word) {
	mode, pc := h.trap.DeliverException(h.Mode, exc, faultPC)
	h.Mode = mode
	h.PC = pc
}

func (h *Hart) pollInterrupt() {
	mstatus := h.CSR.Raw(CSRMstatus)

	irq, ok := h.trap.PendingInterrupt(h.Mode, mstatus)
	if !ok {
		return
	}

	mode, pc := h.trap.DeliverInterrupt(h.Mode, irq, h.PC)
	h.Mode = mode
	h.PC = pc
}

// RaiseExternalInterrupt sets the machine external interrupt pending bit, for
// use by peripherals such as the UART.
func (h *Hart) RaiseExternalInterrupt() {
	h.CSR.SetRaw(CSRMip, h.CSR.Raw(CSRMip)|MIPMEIP)
}
