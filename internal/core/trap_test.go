package core

import "testing"

func TestInterruptPriorityOrder(t *testing.T) {
	csr := NewCSRFile()
	trap := NewTrap(csr)

	// Enable and pend both machine software and machine external; external
	// must win.
	csr.SetRaw(CSRMie, MIPMSIP|MIPMEIP)
	csr.SetRaw(CSRMip, MIPMSIP|MIPMEIP)

	mstatus := StatusMIE
	irq, ok := trap.PendingInterrupt(Machine, mstatus)
	if !ok {
		t.Fatal("expected a pending interrupt")
	}

	if irq.Code != CauseMachineExternalIRQ {
		t.Errorf("got %s, want machine external (highest priority)", irq.Code)
	}
}

func TestInterruptMaskedByGlobalEnable(t *testing.T) {
	csr := NewCSRFile()
	trap := NewTrap(csr)

	csr.SetRaw(CSRMie, MIPMEIP)
	csr.SetRaw(CSRMip, MIPMEIP)

	_, ok := trap.PendingInterrupt(Machine, 0) // MIE clear
	if ok {
		t.Error("interrupt should be masked when mstatus.MIE is clear")
	}
}

func TestVectoredInterruptTarget(t *testing.T) {
	csr := NewCSRFile()
	trap := NewTrap(csr)

	csr.SetRaw(CSRMtvec, (DRAMBase+0x400)|0x1) // vectored mode
	csr.SetRaw(CSRMideleg, 0)

	_, pc := trap.DeliverInterrupt(Machine, MachineTimerIRQ, DRAMBase)

	want := (DRAMBase + 0x400) + 4*Word(CauseMachineTimerIRQ)
	if pc != want {
		t.Errorf("pc = %s, want %s", pc, want)
	}
}

func TestDirectInterruptTarget(t *testing.T) {
	csr := NewCSRFile()
	trap := NewTrap(csr)

	csr.SetRaw(CSRMtvec, DRAMBase+0x400) // direct mode, low bits clear
	csr.SetRaw(CSRMideleg, 0)

	_, pc := trap.DeliverInterrupt(Machine, MachineTimerIRQ, DRAMBase)

	if pc != DRAMBase+0x400 {
		t.Errorf("pc = %s, want %s", pc, DRAMBase+0x400)
	}
}

func TestExceptionStatusBookkeeping(t *testing.T) {
	csr := NewCSRFile()
	trap := NewTrap(csr)

	csr.SetRaw(CSRMstatus, StatusMIE)
	csr.SetRaw(CSRMtvec, DRAMBase+0x800)

	mode, pc := trap.DeliverException(Machine, &Exception{Cause: CauseIllegalInstruction, Value: 0xdead}, DRAMBase+0x10)

	if mode != Machine {
		t.Errorf("mode = %s, want M", mode)
	}

	if pc != DRAMBase+0x800 {
		t.Errorf("pc = %s, want mtvec", pc)
	}

	status := csr.Raw(CSRMstatus)

	if status&StatusMIE != 0 {
		t.Error("MIE should be cleared on trap entry")
	}

	if status&StatusMPIE == 0 {
		t.Error("MPIE should carry the prior MIE value")
	}

	if (status&StatusMPP)>>StatusMPPShift != Word(Machine) {
		t.Error("MPP should record the prior privilege mode")
	}

	if csr.Raw(CSRMepc) != DRAMBase+0x10 {
		t.Errorf("mepc = %s, want faulting pc", csr.Raw(CSRMepc))
	}

	if csr.Raw(CSRMtval) != 0xdead {
		t.Errorf("mtval = %#x, want 0xdead", csr.Raw(CSRMtval))
	}
}
