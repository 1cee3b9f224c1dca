// Package loader copies raw program images onto the bus.
package loader

// loader.go adapts the teacher's object-code loader (which parses a
// two-byte origin header followed by big-endian words) to the flat,
// headerless binary image this machine boots from: the whole file is just
// bytes to be copied starting at the reset vector.

import (
	"errors"
	"fmt"

	"github.com/dunfield/rv32e/internal/core"
	"github.com/dunfield/rv32e/internal/log"
)

// ErrLoad wraps any failure encountered while copying an image onto the bus.
var ErrLoad = errors.New("loader error")

// Loader copies program images into a bus's memory.
type Loader struct {
	bus *core.Bus
	log *log.Logger
}

// New creates a loader that stores images onto bus.
func New(bus *core.Bus) *Loader {
	return &Loader{
		bus: bus,
		log: log.DefaultLogger(),
	}
}

// Load copies image into memory starting at origin, one byte at a time, and
// returns the number of bytes stored before any fault. An empty image is an
// error: there is nothing to run.
func (l *Loader) Load(origin core.Word, image []byte) (int, error) {
	if len(image) == 0 {
		return 0, fmt.Errorf("%w: image is empty", ErrLoad)
	}

	l.log.Debug("Loading image", "origin", origin, "bytes", len(image))

	for i, b := range image {
		addr := origin + core.Word(i)

		if err := l.bus.Store(addr, 8, core.Word(b)); err != nil {
			return i, fmt.Errorf("%w: %w", ErrLoad, err)
		}
	}

	return len(image), nil
}
