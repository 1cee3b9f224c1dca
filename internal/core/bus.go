package core

// bus.go decodes physical addresses and routes them to the device that owns
// them: DRAM, or a memory-mapped peripheral such as the UART.

import (
	"github.com/dunfield/rv32e/internal/log"
)

// Device is anything the bus can route a load or store to.
type Device interface {
	Load(addr Word, size uint8) (Word, error)
	Store(addr Word, size uint8, val Word) error
}

// Bus is the hart's sole path to memory and memory-mapped I/O. The
// interpreter never touches Memory or a peripheral directly.
type Bus struct {
	mem *Memory

	// mmio maps a base address to the device mapped there and the inclusive
	// end address of its window. Currently only the UART is supported, but the table is
	// the extension point for future peripherals (PLIC, CLINT).
	mmio map[Word]mmioEntry

	log *log.Logger
}

type mmioEntry struct {
	base   Word
	end    Word
	device Device
}

// NewBus creates a bus wrapping DRAM. Additional devices are attached with
// Attach.
func NewBus(mem *Memory) *Bus {
	return &Bus{
		mem:  mem,
		mmio: make(map[Word]mmioEntry),
		log:  log.DefaultLogger(),
	}
}

// Attach maps a device's address window [base, end] (inclusive) onto the bus.
func (b *Bus) Attach(base, end Word, dev Device) {
	b.mmio[base] = mmioEntry{base: base, end: end, device: dev}
}

// Load reads size bits from addr, raising LoadAccessFault if no device claims
// the address.
func (b *Bus) Load(addr Word, size uint8) (Word, *Exception) {
	if addr >= DRAMBase && addr <= DRAMEnd {
		val, err := b.mem.Load(addr-DRAMBase, size)
		if err != nil {
			b.log.Error("load fault", "addr", addr, "err", err)
			return 0, &Exception{Cause: CauseLoadAccessFault, Value: addr}
		}

		return val, nil
	}

	for _, entry := range b.mmio {
		if addr >= entry.base && addr <= entry.end {
			val, err := entry.device.Load(addr-entry.base, size)
			if err != nil {
				return 0, &Exception{Cause: CauseLoadAccessFault, Value: addr}
			}

			return val, nil
		}
	}

	return 0, &Exception{Cause: CauseLoadAccessFault, Value: addr}
}

// Store writes size bits of val to addr, raising StoreAMOAccessFault if no
// device claims the address.
func (b *Bus) Store(addr Word, size uint8, val Word) *Exception {
	if addr >= DRAMBase && addr <= DRAMEnd {
		if err := b.mem.Store(addr-DRAMBase, size, val); err != nil {
			b.log.Error("store fault", "addr", addr, "err", err)
			return &Exception{Cause: CauseStoreAMOAccessFault, Value: addr}
		}

		return nil
	}

	for _, entry := range b.mmio {
		if addr >= entry.base && addr <= entry.end {
			if err := entry.device.Store(addr-entry.base, size, val); err != nil {
				return &Exception{Cause: CauseStoreAMOAccessFault, Value: addr}
			}

			return nil
		}
	}

	return &Exception{Cause: CauseStoreAMOAccessFault, Value: addr}
}
