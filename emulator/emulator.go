// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bytes"
	"io"
	"io/fs"
	"iter"

	"github.com/ezrec/bootx86/boot"
	"github.com/ezrec/bootx86/cpu"
	"github.com/ezrec/bootx86/internal"
)

// Emulator state. CPU + boot loader + the listing of the booted program.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Loader   boot.Loader  // Boot sector loader.
	MaxTicks int          // If non-zero, Run fails after this many ticks.

	Sector []byte // Most recently booted sector.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(cpu.MEMORY_SIZE),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		emu.Loader.Defines(),
	)
}

// Assemble parses a source listing, with all of the defines predefined,
// and attaches it as the program listing.
func (emu *Emulator) Assemble(source io.Reader) (prog *cpu.Program, err error) {
	asm := &cpu.Assembler{
		Verbose: emu.Verbose,
		Log:     emu.Cpu.Log,
	}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err = asm.Parse(source)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Boot loads the first sector of an image, and resets the CPU to run it.
func (emu *Emulator) Boot(image io.Reader) (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Loader.Verbose = emu.Verbose
	if emu.Loader.Log == nil {
		emu.Loader.Log = emu.Cpu.Log
	}

	sector, err := emu.Loader.Boot(emu.Cpu, image)
	if err != nil {
		return
	}

	emu.Sector = sector
	return
}

// BootFile boots the named image from a file system.
func (emu *Emulator) BootFile(fsys fs.FS, name string) (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Loader.Verbose = emu.Verbose
	if emu.Loader.Log == nil {
		emu.Loader.Log = emu.Cpu.Log
	}

	sector, err := emu.Loader.BootFile(emu.Cpu, fsys, name)
	if err != nil {
		return
	}

	emu.Sector = sector
	return
}

// BootProgram boots the attached program listing.
func (emu *Emulator) BootProgram() (err error) {
	image, err := emu.Program.Image(boot.SECTOR_SIZE)
	if err != nil {
		return
	}

	return emu.Boot(bytes.NewReader(image))
}

// Reset re-boots the most recently booted sector.
func (emu *Emulator) Reset() (err error) {
	if emu.Sector == nil {
		err = ErrNotBooted
		return
	}

	return emu.Loader.Load(emu.Cpu, emu.Sector)
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() uint16 {
	return emu.Cpu.Registers.Ip
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Registers.Ip)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Sector == nil {
		err = ErrNotBooted
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	ip := emu.Cpu.Registers.Ip
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Ip: ip, Err: err}
		}
	}()

	running, err := emu.Cpu.Step()
	done = !running

	return
}

// Run ticks the emulator until the CPU halts.
func (emu *Emulator) Run() (err error) {
	for {
		if emu.MaxTicks > 0 && emu.Cpu.Ticks >= emu.MaxTicks {
			err = ErrTickLimit
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
