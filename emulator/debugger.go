package emulator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ezrec/bootx86/cpu"
)

// Debugger single-steps an emulator under control of single byte commands:
//
//	s, space, enter  step one instruction
//	c                continue until halted
//	r                dump registers
//	q                quit
type Debugger struct {
	Emu     *Emulator
	In      io.Reader // Command input.
	Out     io.Writer // Trace output.
	Newline string    // Line ending; "\r\n" for raw terminals. Empty is "\n".
}

func (dbg *Debugger) printf(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if len(dbg.Newline) != 0 && dbg.Newline != "\n" {
		text = strings.ReplaceAll(text, "\n", dbg.Newline)
	}
	io.WriteString(dbg.Out, text)
}

// where prints the next instruction to execute.
func (dbg *Debugger) where() {
	emu := dbg.Emu
	ip := emu.Ip()

	text, _, err := cpu.Disassemble(emu.Cpu.Memory, ip)
	if err != nil {
		text = err.Error()
	}

	lineno := emu.LineNo()
	if lineno != 0 {
		dbg.printf("%04X: %-20s ; line %d\n", ip, text, lineno)
	} else {
		dbg.printf("%04X: %v\n", ip, text)
	}
}

func (dbg *Debugger) registers() {
	var sb strings.Builder
	dbg.Emu.DumpRegisters(&sb)
	dbg.printf("%v", sb.String())
}

func (dbg *Debugger) halted() {
	var sb strings.Builder
	dbg.Emu.DumpFault(&sb)
	dbg.Emu.DumpRegisters(&sb)
	dbg.printf("%v", sb.String())
}

// Run processes commands until the emulator halts, the input ends, or
// a quit command is read.
func (dbg *Debugger) Run() (err error) {
	emu := dbg.Emu
	in := bufio.NewReader(dbg.In)

	prev := byte('\n')
	for !emu.IsHalted() {
		dbg.where()

		var cmd byte
		for {
			cmd, err = in.ReadByte()
			if errors.Is(err, io.EOF) {
				err = nil
				return
			}
			if err != nil {
				return
			}

			// A newline only steps on an otherwise empty line.
			step_newline := cmd == '\n' && prev == '\n'
			prev = cmd

			switch {
			case cmd == 's', cmd == ' ', cmd == '\r', step_newline:
				_, err = emu.Tick()
			case cmd == 'c':
				err = emu.Run()
			case cmd == 'r':
				dbg.registers()
				continue
			case cmd == 'q':
				return
			default:
				continue
			}
			break
		}

		if err != nil {
			dbg.printf("%v\n", err)
			err = nil
		}
	}

	dbg.halted()
	return
}
