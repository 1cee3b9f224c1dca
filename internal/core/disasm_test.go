package core

import "testing"

func TestDisassembleKnownEncodings(t *testing.T) {
	cases := []struct {
		word Instruction
		want string
	}{
		{0x00500093, "addi    x1, x0, 5"},
		{0x0020c463, "blt     x1, x2, 8"},
		{0x00000073, "ecall"},
		{0x30200073, "mret"},
	}

	for _, c := range cases {
		got := Disassemble(c.word)
		if got != c.want {
			t.Errorf("Disassemble(%#x) = %q, want %q", uint32(c.word), got, c.want)
		}
	}
}

func TestDisassembleUnknownOpcodeFallsBackToWord(t *testing.T) {
	got := Disassemble(Instruction(0xffffffff))
	if got != ".word   0xffffffff" {
		t.Errorf("got %q", got)
	}
}
