package core

// trap.go implements synchronous exception delivery and asynchronous
// interrupt dispatch, including medeleg/mideleg-based delegation, the
// machine/supervisor status-register bookkeeping, and vectored trap targets.

import "github.com/dunfield/rv32e/internal/log"

// trapRegs names the four CSR addresses that differ between a machine-level
// and supervisor-level trap, plus the status-register bit positions that move
// during entry.
type trapRegs struct {
	tvec, epc, cause, tval Word
	ieBit, pieBit          Word
	ppShift                uint
	ppMask                 Word
}

var machineTrap = trapRegs{
	tvec: CSRMtvec, epc: CSRMepc, cause: CSRMcause, tval: CSRMtval,
	ieBit: StatusMIE, pieBit: StatusMPIE,
	ppShift: StatusMPPShift, ppMask: StatusMPP,
}

var supervisorTrap = trapRegs{
	tvec: CSRStvec, epc: CSRSepc, cause: CSRScause, tval: CSRStval,
	ieBit: StatusSIE, pieBit: StatusSPIE,
	ppShift: StatusSPP.shift(), ppMask: StatusSPP,
}

// shift returns the bit offset of the lowest set bit in a single-bit mask.
func (w Word) shift() uint {
	var s uint
	for w&1 == 0 && w != 0 {
		w >>= 1
		s++
	}

	return s
}

// Trap delivers traps (synchronous exceptions and asynchronous interrupts) to
// a hart's CSR file, mutating mode, the status register, and PC.
type Trap struct {
	csr *CSRFile
	log *log.Logger
}

// NewTrap creates a trap controller bound to a CSR file.
func NewTrap(csr *CSRFile) *Trap {
	return &Trap{csr: csr, log: log.DefaultLogger()}
}

// DeliverException routes a synchronous exception to machine or supervisor
// mode, per medeleg, and returns the new mode and PC.
func (t *Trap) DeliverException(mode Mode, exc *Exception, faultPC Word) (Mode, Word) {
	target := Machine
	if mode <= Supervisor && t.csr.IsMedelegated(exc.Cause) {
		target = Supervisor
	}

	regs := machineTrap
	if target == Supervisor {
		regs = supervisorTrap
	}

	t.csr.SetRaw(regs.cause, Word(exc.Cause))
	t.csr.SetRaw(regs.epc, faultPC)
	t.csr.SetRaw(regs.tval, exc.Value)

	t.updateStatus(regs, mode)

	pc := t.csr.Raw(regs.tvec) &^ 0x3

	t.log.Debug("exception delivered",
		"cause", exc.Cause, "mode", target, "pc", pc)

	return target, pc
}

// PendingInterrupt returns the highest-priority enabled, pending interrupt, if
// any, given the current mode and the global interrupt-enable bits in mstatus
// and sstatus.
func (t *Trap) PendingInterrupt(mode Mode, mstatus Word) (Interrupt, bool) {
	mie := t.csr.Raw(CSRMie)
	mip := t.csr.Raw(CSRMip)
	pending := mie & mip

	for _, irq := range interruptPriority {
		bit := Word(1) << irq.MIPBit
		if pending&bit == 0 {
			continue
		}

		target := Machine
		if mode <= Supervisor && t.csr.IsMidelegated(Cause(irq.MIPBit)) {
			target = Supervisor
		}

		if !t.globalEnable(mode, target, mstatus) {
			continue
		}

		return irq, true
	}

	return Interrupt{}, false
}

// globalEnable applies the privileged spec's interrupt-masking rule: a trap
// targeting a level higher than the current mode is always taken; a trap
// targeting the current mode is taken only if that mode's global enable bit is
// set; a trap targeting a lower mode is never taken directly (it will have
// been delegated, or will trap at the higher level instead).
func (t *Trap) globalEnable(mode, target Mode, mstatus Word) bool {
	if target > mode {
		return true
	}

	if target < mode {
		return false
	}

	switch mode {
	case Machine:
		return mstatus&StatusMIE != 0
	case Supervisor:
		return mstatus&StatusSIE != 0
	default: // User mode always takes an enabled, pending trap.
		return true
	}
}

// DeliverInterrupt routes an interrupt to machine or supervisor mode per
// mideleg, clears the pending bit, and returns the new mode and PC, honoring
// vectored mode when the target tvec's low two bits equal 1.
func (t *Trap) DeliverInterrupt(mode Mode, irq Interrupt, pc Word) (Mode, Word) {
	target := Machine
	if mode <= Supervisor && t.csr.IsMidelegated(Cause(irq.MIPBit)) {
		target = Supervisor
	}

	regs := machineTrap
	if target == Supervisor {
		regs = supervisorTrap
	}

	t.csr.SetRaw(CSRMip, t.csr.Raw(CSRMip)&^(Word(1)<<irq.MIPBit))

	cause := Word(irq.Code) | 0x8000_0000
	t.csr.SetRaw(regs.cause, cause)
	t.csr.SetRaw(regs.epc, pc)
	t.csr.SetRaw(regs.tval, 0)

	t.updateStatus(regs, mode)

	tvec := t.csr.Raw(regs.tvec)

	var targetPC Word
	if tvec&0x3 == 1 {
		targetPC = (tvec &^ 0x3) + 4*Word(irq.Code)
	} else {
		targetPC = tvec &^ 0x3
	}

	t.log.Debug("interrupt delivered",
		"code", irq.Code, "mode", target, "pc", targetPC)

	return target, targetPC
}

// updateStatus performs the atomic status-register mutation common to both
// exception and interrupt delivery: the previous interrupt-enable bit is
// copied down, the live enable bit is cleared, and the previous privilege
// mode is recorded.
func (t *Trap) updateStatus(regs trapRegs, priorMode Mode) {
	status := t.csr.Raw(CSRMstatus)

	ie := status&regs.ieBit != 0

	status &^= regs.pieBit
	if ie {
		status |= regs.pieBit
	}

	status &^= regs.ieBit

	status &^= regs.ppMask
	status |= Word(priorMode) << regs.ppShift & regs.ppMask

	t.csr.SetRaw(CSRMstatus, status)
}

// Return executes MRET or SRET: it restores the enable bit from the previous
// value, sets the previous-enable bit, drops the previous privilege to user,
// and returns the target mode and PC (masked to a 4-byte boundary).
func (t *Trap) Return(from Mode) (Mode, Word, error) {
	regs := machineTrap
	if from == Supervisor {
		regs = supervisorTrap
	}

	status := t.csr.Raw(CSRMstatus)

	pie := status&regs.pieBit != 0

	status &^= regs.ieBit
	if pie {
		status |= regs.ieBit
	}

	status |= regs.pieBit

	prior := Mode((status & regs.ppMask) >> regs.ppShift)

	status &^= regs.ppMask
	status |= Word(User) << regs.ppShift & regs.ppMask

	t.csr.SetRaw(CSRMstatus, status)

	pc := t.csr.Raw(regs.epc) &^ 0x3

	return prior, pc, nil
}
