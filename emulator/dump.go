package emulator

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/bootx86/cpu"
)

// DumpRegisters writes the register state on two lines.
func (emu *Emulator) DumpRegisters(w io.Writer) (err error) {
	snap := emu.Cpu.Snapshot()
	reg := snap.Register
	seg := snap.Segment

	_, err = fmt.Fprintf(w,
		"CS:IP=%X:%X SS:SP=%X:%X DS=%X ES=%X\n"+
			"AX=%X BX=%X CX=%X DX=%X SI=%X DI=%X FL=%X\n",
		seg[cpu.SEG_CS], snap.Ip, seg[cpu.SEG_SS], reg[cpu.REG_SP], seg[cpu.SEG_DS], seg[cpu.SEG_ES],
		reg[cpu.REG_AX], reg[cpu.REG_BX], reg[cpu.REG_CX], reg[cpu.REG_DX], reg[cpu.REG_SI], reg[cpu.REG_DI],
		uint16(snap.Flags),
	)

	return
}

// DumpSector writes the booted sector as a line of hex bytes.
func (emu *Emulator) DumpSector(w io.Writer) (err error) {
	if emu.Sector == nil {
		err = ErrNotBooted
		return
	}

	var sb strings.Builder
	for _, value := range emu.Sector {
		fmt.Fprintf(&sb, "%X ", value)
	}
	sb.WriteString("\n")

	_, err = io.WriteString(w, sb.String())
	return
}

// DumpFault writes the invalid opcode that halted the CPU, if any.
func (emu *Emulator) DumpFault(w io.Writer) (err error) {
	var fault cpu.ErrOpcode
	if !errors.As(emu.Cpu.Fault(), &fault) {
		return
	}

	_, err = fmt.Fprintf(w, "Invalid opcode %X at %X\n", fault.Opcode, fault.Ip)
	return
}
