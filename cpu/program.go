package cpu

import (
	"iter"
)

const (
	DEFAULT_ORIGIN = 0x7C00 // Default assembly origin; the boot sector load address.
)

// Line is a line of assembled code with its source location and generated bytes.
type Line struct {
	LineNo    int      // Source line number.
	Ip        uint16   // Address of the first byte.
	Words     []string // Source words, after expansion.
	Bytes     []byte   // Generated bytes.
	LinkLabel string   // Label linked into the bytes, if any.
}

// Program is an assembled program listing.
type Program struct {
	Origin uint16
	Lines  []Line
}

// Debug locates a byte of the program.
type Debug struct {
	*Line
	Index int // Offset of the byte within the line.
}

// Debug returns the line containing the address ip. The embedded Line
// is nil if no line contains it.
func (prog *Program) Debug(ip uint16) (dbg Debug) {
	for n, line := range prog.Lines {
		if ip >= line.Ip && int(ip) < int(line.Ip)+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(ip - line.Ip),
			}
			break
		}
	}

	return
}

// Binary returns the program bytes, starting at the origin.
func (prog *Program) Binary() (bin []byte) {
	for _, line := range prog.Lines {
		bin = append(bin, line.Bytes...)
	}

	return
}

// Image returns the program bytes padded with zeros to size bytes.
func (prog *Program) Image(size int) (image []byte, err error) {
	bin := prog.Binary()
	if len(bin) > size {
		err = ErrValueRange
		return
	}

	image = make([]byte, size)
	copy(image, bin)

	return
}

// Bytes iterates over the address and value of every program byte.
func (prog *Program) Bytes() iter.Seq2[uint16, byte] {
	return func(yield func(ip uint16, value byte) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Ip+uint16(n), value) {
					return
				}
			}
		}
	}
}
