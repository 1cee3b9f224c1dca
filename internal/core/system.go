package core

// system.go implements the SYSTEM opcode: environment calls, breakpoints,
// privileged returns, and the CSR read-modify-write instructions.

// funct12 values distinguishing the no-operand SYSTEM instructions (funct3 ==
// 0).
const (
	funct12ECALL  = 0x000
	funct12EBREAK = 0x001
	funct12SRET   = 0x102
	funct12MRET   = 0x302
	funct12WFI    = 0x105
)

func (h *Hart) execSystem(inst Instruction, pc Word) (Word, *Exception) {
	switch inst.Funct3() {
	case 0x0:
		return h.execSystemNoOperand(inst, pc)
	case 0x1: // CSRRW
		return h.execCSR(inst, pc, Word(h.Regs.Get(inst.RS1())), true)
	case 0x2: // CSRRS
		rs1 := inst.RS1()
		return h.execCSR(inst, pc, Word(h.Regs.Get(rs1)), rs1 != X0)
	case 0x3: // CSRRC
		rs1 := inst.RS1()
		return h.execCSRClear(inst, pc, Word(h.Regs.Get(rs1)), rs1 != X0)
	case 0x5: // CSRRWI
		return h.execCSR(inst, pc, Word(inst.RS1()), true)
	case 0x6: // CSRRSI
		imm := Word(inst.RS1())
		return h.execCSR(inst, pc, imm, imm != 0)
	case 0x7: // CSRRCI
		imm := Word(inst.RS1())
		return h.execCSRClear(inst, pc, imm, imm != 0)
	default:
		return pc, &Exception{Cause: CauseIllegalInstruction, Value: Word(inst)}
	}
}

func (h *Hart) execSystemNoOperand(inst Instruction, pc Word) (Word, *Exception) {
	switch Word(inst) >> 20 {
	case funct12ECALL:
		var cause Cause

		switch h.Mode {
		case User:
			cause = CauseEnvCallFromUMode
		case Supervisor:
			cause = CauseEnvCallFromSMode
		default:
			cause = CauseEnvCallFromMMode
		}

		return pc, &Exception{Cause: cause, Value: pc}
	case funct12EBREAK:
		return pc, &Exception{Cause: CauseBreakpoint, Value: pc}
	case funct12MRET:
		if h.Mode != Machine {
			return pc, &Exception{Cause: CauseIllegalInstruction, Value: Word(inst)}
		}

		mode, target, _ := h.trap.Return(Machine)
		h.Mode = mode

		return target, nil
	case funct12SRET:
		if h.Mode < Supervisor {
			return pc, &Exception{Cause: CauseIllegalInstruction, Value: Word(inst)}
		}

		mode, target, _ := h.trap.Return(Supervisor)
		h.Mode = mode

		return target, nil
	case funct12WFI:
		return pc + 4, nil // No-op: single hart, nothing to wait for but interrupts already polled.
	default: // SFENCE.VMA and similar: no-op, there is no MMU.
		return pc + 4, nil
	}
}

// execCSR implements CSRRW/CSRRWI/CSRRS/CSRRSI: read the old value into rd
// (unless rd is x0), then if write is true, OR-combine (or overwrite, for
// CSRRW/CSRRWI) the source into the CSR.
func (h *Hart) execCSR(inst Instruction, pc Word, src Word, write bool) (Word, *Exception) {
	addr := inst.CSRAddr()

	old, err := h.CSR.Load(addr)
	if err != nil {
		return pc, &Exception{Cause: CauseIllegalInstruction, Value: Word(inst)}
	}

	h.Regs.Set(inst.RD(), Register(old))

	if write {
		var newVal Word
		if inst.Funct3() == 0x1 || inst.Funct3() == 0x5 { // CSRRW / CSRRWI
			newVal = src
		} else { // CSRRS / CSRRSI
			newVal = old | src
		}

		if err := h.CSR.Store(addr, newVal); err != nil {
			return pc, &Exception{Cause: CauseIllegalInstruction, Value: Word(inst)}
		}
	}

	return pc + 4, nil
}

// execCSRClear implements CSRRC/CSRRCI: read the old value into rd, then if
// clear is true (the source is non-zero), clear those bits in the CSR. A
// zero-valued source (x0, or an immediate of 0) never writes, preserving
// read-only CSR semantics.
func (h *Hart) execCSRClear(inst Instruction, pc Word, src Word, clear bool) (Word, *Exception) {
	addr := inst.CSRAddr()

	old, err := h.CSR.Load(addr)
	if err != nil {
		return pc, &Exception{Cause: CauseIllegalInstruction, Value: Word(inst)}
	}

	h.Regs.Set(inst.RD(), Register(old))

	if clear {
		if err := h.CSR.Store(addr, old&^src); err != nil {
			return pc, &Exception{Cause: CauseIllegalInstruction, Value: Word(inst)}
		}
	}

	return pc + 4, nil
}
