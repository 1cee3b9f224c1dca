package core

import "testing"

func TestCSRDirectRoundTrip(t *testing.T) {
	c := NewCSRFile()

	if err := c.Store(CSRMscratch, 0xabcd); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := c.Load(CSRMscratch)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got != 0xabcd {
		t.Errorf("got %#x, want 0xabcd", got)
	}
}

func TestSstatusProjection(t *testing.T) {
	c := NewCSRFile()

	if err := c.Store(CSRSstatus, 0xffff_ffff); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := c.Load(CSRSstatus)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got != MaskSstatus {
		t.Errorf("sstatus = %#x, want %#x", got, MaskSstatus)
	}

	// Bits outside the mask must not leak into mstatus.
	if c.Raw(CSRMstatus)&^MaskSstatus != 0 {
		t.Errorf("mstatus leaked bits outside MaskSstatus: %#x", c.Raw(CSRMstatus))
	}
}

func TestSieSipProjection(t *testing.T) {
	c := NewCSRFile()
	c.SetRaw(CSRMideleg, MIPSEIP|MIPSTIP)

	if err := c.Store(CSRSie, 0xffff_ffff); err != nil {
		t.Fatalf("store sie: %v", err)
	}

	sie, _ := c.Load(CSRSie)
	if sie != MIPSEIP|MIPSTIP {
		t.Errorf("sie = %#x, want %#x", sie, MIPSEIP|MIPSTIP)
	}

	if c.Raw(CSRMie)&^(MIPSEIP|MIPSTIP) != 0 {
		t.Errorf("mie gained undelegated bits: %#x", c.Raw(CSRMie))
	}

	c.SetRaw(CSRMip, MIPSEIP|MIPMEIP)

	sip, _ := c.Load(CSRSip)
	if sip != MIPSEIP {
		t.Errorf("sip = %#x, want %#x (only delegated bits)", sip, MIPSEIP)
	}
}

func TestDelegationPredicates(t *testing.T) {
	c := NewCSRFile()
	c.SetRaw(CSRMedeleg, 1<<uint(CauseBreakpoint))
	c.SetRaw(CSRMideleg, MIPSTIP)

	if !c.IsMedelegated(CauseBreakpoint) {
		t.Error("expected breakpoint to be medelegated")
	}

	if c.IsMedelegated(CauseIllegalInstruction) {
		t.Error("illegal instruction should not be delegated")
	}

	if !c.IsMidelegated(Cause(5)) { // supervisor timer bit position
		t.Error("expected supervisor timer interrupt to be midelegated")
	}
}
