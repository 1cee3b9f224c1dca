package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/dunfield/rv32e/internal/core"
	"github.com/dunfield/rv32e/internal/log"
)

// timeout is how long to wait for the hart to stop running.
var timeout = 1 * time.Second

func TestMain(t *testing.T) {
	log.LogLevel.Set(log.Error)

	start := time.Now()

	mem := core.NewMemory()
	bus := core.NewBus(mem)
	hart := core.NewHart(bus)

	// addi x1,x0,5; addi x0,x0,7; ecall
	program := []byte{
		0x93, 0x00, 0x50, 0x00,
		0x13, 0x00, 0x70, 0x00,
		0x73, 0x00, 0x00, 0x00,
	}

	if _, err := mem.LoadImage(program); err != nil {
		t.Fatalf("load: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := hart.Run(ctx); err != nil {
		t.Fatalf("run: %v, elapsed: %s", err, time.Since(start))
	}

	if got := hart.Regs.Get(core.X1); got != 5 {
		t.Errorf("x1 = %s, want 5", got)
	}

	if got := hart.Regs.Get(core.X0); got != 0 {
		t.Errorf("x0 = %s, want 0", got)
	}

	t.Logf("test: ok, elapsed: %s", time.Since(start))
}
