// Package core implements a single-hart RISC-V RV32IMA interpreter with the Zicsr
// extension: general-purpose registers, the control and status register file,
// the memory bus, and the trap controller that delivers synchronous exceptions
// and dispatches asynchronous interrupts across machine and supervisor privilege.
package core
