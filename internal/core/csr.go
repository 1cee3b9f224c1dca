package core

// csr.go implements the 4096-entry control and status register file,
// including the sstatus/sie/sip supervisor-level views onto the machine-level
// registers.

import (
	"fmt"

	"github.com/dunfield/rv32e/internal/log"
)

// CSR addresses actually used by this emulator.
const (
	CSRMstatus    = Word(0x300)
	CSRMisa       = Word(0x301)
	CSRMedeleg    = Word(0x302)
	CSRMideleg    = Word(0x303)
	CSRMie        = Word(0x304)
	CSRMtvec      = Word(0x305)
	CSRMcounteren = Word(0x306)
	CSRMscratch   = Word(0x340)
	CSRMepc       = Word(0x341)
	CSRMcause     = Word(0x342)
	CSRMtval      = Word(0x343)
	CSRMip        = Word(0x344)
	CSRMvendorid  = Word(0xf11)
	CSRMhartid    = Word(0xf14)

	CSRSstatus  = Word(0x100)
	CSRSie      = Word(0x104)
	CSRStvec    = Word(0x105)
	CSRSscratch = Word(0x140)
	CSRSepc     = Word(0x141)
	CSRScause   = Word(0x142)
	CSRStval    = Word(0x143)
	CSRSip      = Word(0x144)
	CSRSatp     = Word(0x180)
)

// Bit positions and masks within mstatus/sstatus.
const (
	StatusSIE  = Word(1 << 1)
	StatusMIE  = Word(1 << 3)
	StatusSPIE = Word(1 << 5)
	StatusUBE  = Word(1 << 6)
	StatusMPIE = Word(1 << 7)
	StatusSPP  = Word(1 << 8)
	StatusFS   = Word(0x3 << 13)
	StatusXS   = Word(0x3 << 15)
	StatusMPRV = Word(1 << 17)
	StatusSUM  = Word(1 << 18)
	StatusMXR  = Word(1 << 19)
	StatusTVM  = Word(1 << 20)
	StatusTW   = Word(1 << 21)
	StatusTSR  = Word(1 << 22)
	StatusMPPShift = 11
	StatusMPP      = Word(0x3 << StatusMPPShift)

	// MaskSstatus selects the fields of mstatus visible and writable through
	// the sstatus alias.
	MaskSstatus = StatusSIE | StatusSPIE | StatusUBE | StatusSPP | StatusFS | StatusXS | StatusSUM | StatusMXR
)

// Bit positions within mip/sip.
const (
	MIPSSIP = Word(1 << 1)
	MIPMSIP = Word(1 << 3)
	MIPSTIP = Word(1 << 5)
	MIPMTIP = Word(1 << 7)
	MIPSEIP = Word(1 << 9)
	MIPMEIP = Word(1 << 11)
)

// CSRFile holds the 4096-entry control and status register address space.
type CSRFile struct {
	reg [4096]Word

	log *log.Logger
}

// NewCSRFile creates a zeroed CSR file.
func NewCSRFile() *CSRFile {
	return &CSRFile{log: log.DefaultLogger()}
}

// Load reads a CSR, applying the sstatus/sie/sip read projections.
func (c *CSRFile) Load(addr Word) (Word, error) {
	if addr >= 4096 {
		return 0, fmt.Errorf("csr: address out of range: %s", addr)
	}

	switch addr {
	case CSRSstatus:
		return c.reg[CSRMstatus] & MaskSstatus, nil
	case CSRSie:
		return c.reg[CSRMie] & c.reg[CSRMideleg], nil
	case CSRSip:
		return c.reg[CSRMip] & c.reg[CSRMideleg], nil
	default:
		return c.reg[addr], nil
	}
}

// Store writes a CSR, applying the sstatus/sie/sip write projections so that
// bits outside the delegated mask in the backing machine-level register are
// left untouched.
func (c *CSRFile) Store(addr Word, val Word) error {
	if addr >= 4096 {
		return fmt.Errorf("csr: address out of range: %s", addr)
	}

	switch addr {
	case CSRSstatus:
		c.reg[CSRMstatus] = (c.reg[CSRMstatus] &^ MaskSstatus) | (val & MaskSstatus)
	case CSRSie:
		mideleg := c.reg[CSRMideleg]
		c.reg[CSRMie] = (c.reg[CSRMie] &^ mideleg) | (val & mideleg)
	case CSRSip:
		mideleg := c.reg[CSRMideleg]
		c.reg[CSRMip] = (c.reg[CSRMip] &^ mideleg) | (val & mideleg)
	default:
		c.reg[addr] = val
	}

	return nil
}

// Raw returns the backing storage for addr directly, bypassing the
// sstatus/sie/sip projections. Used internally by the trap controller, which
// always operates on the machine-level registers or their supervisor-level
// counterparts explicitly.
func (c *CSRFile) Raw(addr Word) Word {
	return c.reg[addr]
}

// SetRaw writes the backing storage for addr directly, bypassing projections.
func (c *CSRFile) SetRaw(addr Word, val Word) {
	c.reg[addr] = val
}

// IsMedelegated reports whether the synchronous exception cause is delegated
// to supervisor mode.
func (c *CSRFile) IsMedelegated(cause Cause) bool {
	return c.reg[CSRMedeleg]&(1<<uint32(cause)) != 0
}

// IsMidelegated reports whether the interrupt cause is delegated to
// supervisor mode.
func (c *CSRFile) IsMidelegated(cause Cause) bool {
	return c.reg[CSRMideleg]&(1<<uint32(cause)) != 0
}
