package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dunfield/rv32e/internal/log"
)

func writeImage(t *testing.T, words ...uint32) string {
	t.Helper()

	buf := make([]byte, 0, 4*len(words))

	for _, w := range words {
		buf = append(buf, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}

	path := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}

	return path
}

func TestRunExitsCleanOnECALL(t *testing.T) {
	path := writeImage(t, 0x00500093, 0x00700013, 0x00000073) // scenario A

	r := Run()
	code := r.Run(context.Background(), []string{path}, os.Stdout, log.DefaultLogger())

	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRunExitsNonZeroOnFatalException(t *testing.T) {
	path := writeImage(t, 0xffffffff) // undefined encoding: illegal instruction

	r := Run()
	code := r.Run(context.Background(), []string{path}, os.Stdout, log.DefaultLogger())

	if code == 0 {
		t.Error("expected a non-zero exit code for a fatal exception")
	}
}

func TestRunRequiresAnImage(t *testing.T) {
	r := Run()
	code := r.Run(context.Background(), nil, os.Stdout, log.DefaultLogger())

	if code == 0 {
		t.Error("expected a non-zero exit code with no image argument")
	}
}
