package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dunfield/rv32e/internal/cli"
	"github.com/dunfield/rv32e/internal/core"
	"github.com/dunfield/rv32e/internal/log"
)

// Disasm is the command that prints a mnemonic listing of an image without
// executing it.
func Disasm() cli.Command {
	return new(disasm)
}

type disasm struct{}

func (disasm) Description() string {
	return "disassemble a program image"
}

func (disasm) Usage(out io.Writer) error {
	_, err := fmt.Fprintln(out, `disasm image.bin

Print a mnemonic listing of a raw binary image without running it.`)

	return err
}

func (disasm) FlagSet() *cli.FlagSet {
	return flag.NewFlagSet("disasm", flag.ExitOnError)
}

func (disasm) Run(_ context.Context, args []string, out io.Writer, logger *log.Logger) int {
	if len(args) == 0 {
		logger.Error("disasm: missing image argument")
		return 1
	}

	image, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("disasm: reading image", "err", err)
		return 1
	}

	for addr := 0; addr+4 <= len(image); addr += 4 {
		word := uint32(image[addr]) | uint32(image[addr+1])<<8 |
			uint32(image[addr+2])<<16 | uint32(image[addr+3])<<24

		inst := core.Instruction(word)
		pc := core.DRAMBase + core.Word(addr)

		fmt.Fprintf(out, "%s:  %08x  %s\n", pc, word, core.Disassemble(inst))
	}

	return 0
}
