package core

// except.go defines the taxonomy of synchronous exceptions and asynchronous
// interrupts that the trap controller can deliver.

import "fmt"

// Cause identifies the reason a trap was raised. Its numeric value matches the
// RISC-V privileged architecture's cause encoding (without the interrupt bit).
type Cause uint32

// Synchronous exception causes.
const (
	CauseInstructionAddrMisaligned Cause = 0
	CauseInstructionAccessFault    Cause = 1
	CauseIllegalInstruction        Cause = 2
	CauseBreakpoint                Cause = 3
	CauseLoadAddrMisaligned        Cause = 4
	CauseLoadAccessFault           Cause = 5
	CauseStoreAMOAddrMisaligned    Cause = 6
	CauseStoreAMOAccessFault       Cause = 7
	CauseEnvCallFromUMode          Cause = 8
	CauseEnvCallFromSMode          Cause = 9
	CauseEnvCallFromMMode          Cause = 11
	CauseInstructionPageFault      Cause = 12
	CauseLoadPageFault             Cause = 13
	CauseStoreAMOPageFault         Cause = 15
)

// Asynchronous interrupt causes (the low bits; the architectural cause value
// additionally sets the top bit to mark them as interrupts).
const (
	CauseSupervisorSoftwareIRQ Cause = 1
	CauseMachineSoftwareIRQ    Cause = 3
	CauseSupervisorTimerIRQ    Cause = 5
	CauseMachineTimerIRQ       Cause = 7
	CauseSupervisorExternalIRQ Cause = 9
	CauseMachineExternalIRQ    Cause = 11
)

var exceptionNames = map[Cause]string{
	CauseInstructionAddrMisaligned: "instruction address misaligned",
	CauseInstructionAccessFault:    "instruction access fault",
	CauseIllegalInstruction:        "illegal instruction",
	CauseBreakpoint:                "breakpoint",
	CauseLoadAddrMisaligned:        "load address misaligned",
	CauseLoadAccessFault:           "load access fault",
	CauseStoreAMOAddrMisaligned:    "store/amo address misaligned",
	CauseStoreAMOAccessFault:       "store/amo access fault",
	CauseEnvCallFromUMode:          "environment call from U-mode",
	CauseEnvCallFromSMode:          "environment call from S-mode",
	CauseEnvCallFromMMode:          "environment call from M-mode",
	CauseInstructionPageFault:      "instruction page fault",
	CauseLoadPageFault:             "load page fault",
	CauseStoreAMOPageFault:         "store/amo page fault",
}

// fatalCauses halt the run loop after the trap is delivered: they indicate a
// programming error or host misconfiguration rather than a normal,
// OS-serviceable condition.
var fatalCauses = map[Cause]bool{
	CauseInstructionAccessFault: true,
	CauseIllegalInstruction:     true,
	CauseLoadAccessFault:        true,
	CauseStoreAMOAccessFault:    true,
	CauseStoreAMOAddrMisaligned: true,
}

// Exception is a synchronous trap raised during instruction fetch or
// execution. Value carries the faulting address, PC, or instruction word,
// depending on the cause.
type Exception struct {
	Cause Cause
	Value Word
}

func (e *Exception) Error() string {
	return fmt.Sprintf("exception: %s (val:%s)", e.Cause, e.Value)
}

// Fatal reports whether the run loop should stop after this exception is
// delivered to its trap handler.
func (e *Exception) Fatal() bool {
	return fatalCauses[e.Cause]
}

func (c Cause) String() string {
	if name, ok := exceptionNames[c]; ok {
		return name
	}

	return fmt.Sprintf("cause(%d)", uint32(c))
}

// Interrupt is an asynchronous trap: one of the six standard machine- or
// supervisor-level interrupt sources. Code is the low cause bits (without the
// interrupt bit set); MIPBit is the corresponding bit position in mip/sip.
type Interrupt struct {
	Code   Cause
	MIPBit uint
}

// Standard interrupt sources in RISC-V priority order, highest first.
var (
	MachineExternalIRQ    = Interrupt{Code: CauseMachineExternalIRQ, MIPBit: 11}
	MachineSoftwareIRQ    = Interrupt{Code: CauseMachineSoftwareIRQ, MIPBit: 3}
	MachineTimerIRQ       = Interrupt{Code: CauseMachineTimerIRQ, MIPBit: 7}
	SupervisorExternalIRQ = Interrupt{Code: CauseSupervisorExternalIRQ, MIPBit: 9}
	SupervisorSoftwareIRQ = Interrupt{Code: CauseSupervisorSoftwareIRQ, MIPBit: 1}
	SupervisorTimerIRQ    = Interrupt{Code: CauseSupervisorTimerIRQ, MIPBit: 5}
)

// interruptPriority lists the six standard interrupt sources in the fixed
// priority order mandated by the privileged spec: machine external, machine
// software, machine timer, supervisor external, supervisor software,
// supervisor timer.
var interruptPriority = []Interrupt{
	MachineExternalIRQ,
	MachineSoftwareIRQ,
	MachineTimerIRQ,
	SupervisorExternalIRQ,
	SupervisorSoftwareIRQ,
	SupervisorTimerIRQ,
}
