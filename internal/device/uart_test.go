package device

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dunfield/rv32e/internal/core"
)

func TestUARTTransmit(t *testing.T) {
	var out bytes.Buffer

	u := New(&out)

	if err := u.Store(RegTHR, 8, core.Word('A')); err != nil {
		t.Fatalf("store: %v", err)
	}

	if out.String() != "A" {
		t.Errorf("out = %q, want %q", out.String(), "A")
	}
}

func TestUARTReceive(t *testing.T) {
	var out bytes.Buffer

	u := New(&out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	irqCh := make(chan struct{}, 1)

	u.Start(ctx, strings.NewReader("x"), func() {
		select {
		case irqCh <- struct{}{}:
		default:
		}
	})

	select {
	case <-irqCh:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for receive interrupt")
	}

	lsr, err := u.Load(RegLSR, 8)
	if err != nil {
		t.Fatalf("load lsr: %v", err)
	}

	if lsr&LSRRxReady == 0 {
		t.Fatal("expected rx-ready bit set")
	}

	rhr, err := u.Load(RegRHR, 8)
	if err != nil {
		t.Fatalf("load rhr: %v", err)
	}

	if rhr != 'x' {
		t.Errorf("rhr = %q, want %q", rune(rhr), 'x')
	}

	lsr, _ = u.Load(RegLSR, 8)
	if lsr&LSRRxReady != 0 {
		t.Error("rx-ready bit should clear after reading rhr")
	}
}

func TestUARTBusIntegration(t *testing.T) {
	mem := core.NewMemory()
	bus := core.NewBus(mem)

	u := New(nil)
	bus.Attach(0x1000_0000, 0x1000_00ff, u)

	if fault := bus.Store(0x1000_0000, 32, core.Word('Z')); fault != nil {
		t.Fatalf("store through bus: %v", fault)
	}

	lsr, fault := bus.Load(0x1000_0005, 32)
	if fault != nil {
		t.Fatalf("load through bus: %v", fault)
	}

	if lsr&LSRTxEmpty == 0 {
		t.Error("expected tx-empty bit set")
	}
}
