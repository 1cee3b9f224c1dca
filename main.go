// Command riscv32 is the command-line interface to a single-hart
// RV32IMA+Zicsr emulator.
package main

import (
	"context"
	"os"

	"github.com/dunfield/rv32e/internal/cli"
	"github.com/dunfield/rv32e/internal/cli/cmd"
)

var commands = []cli.Command{
	cmd.Run(),
	cmd.Disasm(),
}

// Entry point.
func main() {
	result :=
		cli.New(context.Background()).
			WithLogger(os.Stderr).
			WithCommands(commands).
			WithHelp(cmd.Help(commands)).
			Execute(os.Args[1:])

	os.Exit(result)
}
