package cpu

import (
	"strings"
)

// Flag is a single bit of the flags register.
type Flag uint16

const (
	FLAG_CF = Flag(1 << 0)  // Carry
	FLAG_PF = Flag(1 << 2)  // Parity
	FLAG_AF = Flag(1 << 4)  // Auxiliary carry
	FLAG_ZF = Flag(1 << 6)  // Zero
	FLAG_SF = Flag(1 << 7)  // Sign
	FLAG_TF = Flag(1 << 8)  // Trap
	FLAG_IF = Flag(1 << 9)  // Interrupt enable
	FLAG_DF = Flag(1 << 10) // Direction
	FLAG_OF = Flag(1 << 11) // Overflow

	FLAG_MASK = FLAG_CF | FLAG_PF | FLAG_AF | FLAG_ZF | FLAG_SF | FLAG_TF | FLAG_IF | FLAG_DF | FLAG_OF
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{FLAG_CF, "cf"},
	{FLAG_PF, "pf"},
	{FLAG_AF, "af"},
	{FLAG_ZF, "zf"},
	{FLAG_SF, "sf"},
	{FLAG_TF, "tf"},
	{FLAG_IF, "if"},
	{FLAG_DF, "df"},
	{FLAG_OF, "of"},
}

func (flag Flag) String() string {
	for _, fn := range flagNames {
		if fn.flag == flag {
			return fn.name
		}
	}
	return f("flag(0x%04X)", uint16(flag))
}

// Flags is the 16-bit flags register.
type Flags uint16

// Test returns true if the flag is set.
func (fl Flags) Test(flag Flag) bool {
	return uint16(fl)&uint16(flag) != 0
}

// Set sets a flag.
func (fl *Flags) Set(flag Flag) {
	*fl |= Flags(flag)
}

// Clear clears a flag.
func (fl *Flags) Clear(flag Flag) {
	*fl &^= Flags(flag)
}

// Assign sets or clears a flag.
func (fl *Flags) Assign(flag Flag, on bool) {
	if on {
		fl.Set(flag)
	} else {
		fl.Clear(flag)
	}
}

// String returns the names of all set flags, or "-" if none are set.
func (fl Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if fl.Test(fn.flag) {
			names = append(names, fn.name)
		}
	}

	if len(names) == 0 {
		return "-"
	}

	return strings.Join(names, " ")
}
