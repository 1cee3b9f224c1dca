package core

// mem.go holds the hart's DRAM model.

import (
	"fmt"

	"github.com/dunfield/rv32e/internal/log"
)

// Memory regions. DRAM spans a fixed 512 MiB window starting at DRAMBase; the
// range is inclusive on both ends.
const (
	DRAMBase = Word(0x8000_0000)
	DRAMSize = Word(512 * 1024 * 1024)
	DRAMEnd  = DRAMBase + DRAMSize - 1
)

// Memory is the emulated DRAM: a flat byte-addressable buffer, accessed
// little-endian at sizes of 8, 16, or 32 bits.
type Memory struct {
	cell []byte

	log *log.Logger
}

// NewMemory allocates and zeroes DRAM.
func NewMemory() *Memory {
	return &Memory{
		cell: make([]byte, DRAMSize),
		log:  log.DefaultLogger(),
	}
}

// LoadImage copies bytes into the start of DRAM. Any remaining DRAM keeps its
// existing (zero) contents.
func (m *Memory) LoadImage(image []byte) (int, error) {
	if len(image) > len(m.cell) {
		return 0, fmt.Errorf("mem: image too large: %d bytes", len(image))
	}

	n := copy(m.cell, image)
	m.log.Debug("loaded image", "bytes", n)

	return n, nil
}

// Load reads size bits (8, 16, or 32) from addr and zero-extends the result to
// a 32-bit word. addr is a DRAM-relative offset, already translated by the bus.
func (m *Memory) Load(addr Word, size uint8) (Word, error) {
	n, err := byteCount(size)
	if err != nil {
		return 0, err
	}

	if uint64(addr)+uint64(n) > uint64(len(m.cell)) {
		return 0, fmt.Errorf("mem: load out of range: %s", addr)
	}

	var val uint32
	for i := uint8(0); i < n; i++ {
		val |= uint32(m.cell[uint32(addr)+uint32(i)]) << (8 * i)
	}

	return Word(val), nil
}

// Store writes the low size bits (8, 16, or 32) of val to addr.
func (m *Memory) Store(addr Word, size uint8, val Word) error {
	n, err := byteCount(size)
	if err != nil {
		return err
	}

	if uint64(addr)+uint64(n) > uint64(len(m.cell)) {
		return fmt.Errorf("mem: store out of range: %s", addr)
	}

	for i := uint8(0); i < n; i++ {
		m.cell[uint32(addr)+uint32(i)] = byte(uint32(val) >> (8 * i))
	}

	return nil
}

func byteCount(size uint8) (uint8, error) {
	switch size {
	case 8:
		return 1, nil
	case 16:
		return 2, nil
	case 32:
		return 4, nil
	default:
		return 0, fmt.Errorf("mem: unsupported access size: %d", size)
	}
}
