package cpu

import (
	"encoding/binary"
)

const (
	KiB         = 1024
	MEMORY_SIZE = 640 * KiB // Conventional memory.
)

// Memory is flat, byte addressable RAM.
type Memory struct {
	data []byte
}

// NewMemory creates a zeroed memory of the given capacity in bytes.
func NewMemory(size int) (mem *Memory) {
	mem = &Memory{
		data: make([]byte, size),
	}

	return
}

// Size returns the memory capacity in bytes.
func (mem *Memory) Size() int {
	return len(mem.data)
}

// Reset zeros the memory.
func (mem *Memory) Reset() {
	clear(mem.data)
}

// check verifies that [addr, addr+size) lies within the memory.
func (mem *Memory) check(addr uint32, size int) (err error) {
	if uint64(addr)+uint64(size) > uint64(len(mem.data)) {
		err = ErrBounds{Addr: addr, Size: size, Capacity: len(mem.data)}
	}
	return
}

// Read8 reads a byte.
func (mem *Memory) Read8(addr uint32) (value byte, err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}

	value = mem.data[addr]
	return
}

// Write8 writes a byte.
func (mem *Memory) Write8(addr uint32, value byte) (err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}

	mem.data[addr] = value
	return
}

// Read16 reads a little-endian word.
func (mem *Memory) Read16(addr uint32) (value uint16, err error) {
	err = mem.check(addr, 2)
	if err != nil {
		return
	}

	value = binary.LittleEndian.Uint16(mem.data[addr:])
	return
}

// Write16 writes a little-endian word.
func (mem *Memory) Write16(addr uint32, value uint16) (err error) {
	err = mem.check(addr, 2)
	if err != nil {
		return
	}

	binary.LittleEndian.PutUint16(mem.data[addr:], value)
	return
}

// Load copies data into memory at addr. Nothing is written unless all
// of the data fits.
func (mem *Memory) Load(addr uint32, data []byte) (err error) {
	err = mem.check(addr, len(data))
	if err != nil {
		return
	}

	copy(mem.data[addr:], data)
	return
}

// Dump returns a copy of n bytes of memory starting at addr.
func (mem *Memory) Dump(addr uint32, n int) (data []byte, err error) {
	err = mem.check(addr, n)
	if err != nil {
		return
	}

	data = make([]byte, n)
	copy(data, mem.data[addr:])
	return
}
