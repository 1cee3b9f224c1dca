// The test is skipped when stdin is not a terminal (ErrNoTTY), which is the
// case under "go test": it redirects the test binary's standard streams.
// Build and run the test binary directly to exercise this test against a
// real terminal.
package console_test

import (
	"errors"
	"os"
	"testing"

	"github.com/dunfield/rv32e/internal/console"
)

func TestNewRequiresATerminal(t *testing.T) {
	c, err := console.New(os.Stdin)
	if err != nil {
		if errors.Is(err, console.ErrNoTTY) {
			t.Skipf("stdin is not a terminal: %s", err)
		}

		t.Fatalf("unexpected error: %s", err)
	}

	defer c.Restore()
}
