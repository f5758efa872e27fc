package cpu

import (
	"fmt"
	"iter"
	"maps"

	"github.com/sirupsen/logrus"
)

//go:generate go tool stringer -linecomment -type=State

// State is the execution state of the processor.
type State int

const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("0x%x", MEMORY_SIZE),
	"FLAG_CF":     fmt.Sprintf("0x%x", uint16(FLAG_CF)),
	"FLAG_PF":     fmt.Sprintf("0x%x", uint16(FLAG_PF)),
	"FLAG_AF":     fmt.Sprintf("0x%x", uint16(FLAG_AF)),
	"FLAG_ZF":     fmt.Sprintf("0x%x", uint16(FLAG_ZF)),
	"FLAG_SF":     fmt.Sprintf("0x%x", uint16(FLAG_SF)),
	"FLAG_TF":     fmt.Sprintf("0x%x", uint16(FLAG_TF)),
	"FLAG_IF":     fmt.Sprintf("0x%x", uint16(FLAG_IF)),
	"FLAG_DF":     fmt.Sprintf("0x%x", uint16(FLAG_DF)),
	"FLAG_OF":     fmt.Sprintf("0x%x", uint16(FLAG_OF)),
}

// Cpu is the machine state: registers, flags, memory and run state.
type Cpu struct {
	Verbose    bool               // Set to enable verbose logging.
	FullWordA1 bool               // Set to load a full word into ax for opcode 0xA1.
	Log        logrus.FieldLogger // Logger for verbose tracing; nil uses the standard logger.

	Registers Registers // Register file.
	Flags     Flags     // Flags register.
	Memory    *Memory   // Memory simulation.
	State     State     // Current execution state.

	Ticks int // Completed cycles since reset.

	fault *ErrOpcode
}

// NewCpu creates a new, running CPU with a specifically sized memory.
func NewCpu(size int) (cpu *Cpu) {
	cpu = &Cpu{
		Memory: NewMemory(size),
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

func (cpu *Cpu) logger() logrus.FieldLogger {
	if cpu.Log == nil {
		return logrus.StandardLogger()
	}
	return cpu.Log
}

// Reset the CPU state.
// - Clears the registers, flags and memory.
// - Zeros the tick counter, and forgets any fault.
// - Sets the execution state to running.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		cpu.logger().Debug("cpu: reset")
	}

	cpu.Registers.Reset()
	cpu.Flags = 0
	cpu.Memory.Reset()
	cpu.State = STATE_RUNNING
	cpu.Ticks = 0
	cpu.fault = nil
}

// IsHalted returns true once the processor has halted.
func (cpu *Cpu) IsHalted() bool {
	return cpu.State == STATE_HALTED
}

// Fault returns the invalid opcode that halted the processor, if any.
func (cpu *Cpu) Fault() (err error) {
	if cpu.fault != nil {
		err = *cpu.fault
	}
	return
}

// Step executes a single instruction cycle, and returns true while the
// processor is still running.
//
// An unrecognized opcode halts the processor and is recorded as the
// fault, not returned. Any other failure is returned as an *ErrExecute,
// with the processor state left as it was at the point of failure.
func (cpu *Cpu) Step() (running bool, err error) {
	if cpu.State != STATE_RUNNING {
		return
	}

	ip := cpu.Registers.Ip

	opcode, err := cpu.fetch8()
	if err != nil {
		err = &ErrExecute{Ip: ip, Err: err}
		running = true
		return
	}

	op := opcodeTable[opcode]
	if op.Handler == nil {
		cpu.fault = &ErrOpcode{Opcode: opcode, Ip: ip}
		cpu.State = STATE_HALTED
		cpu.Ticks++
		if cpu.Verbose {
			cpu.logger().WithFields(logrus.Fields{
				"ip":     fmt.Sprintf("%04X", ip),
				"opcode": fmt.Sprintf("%02X", opcode),
			}).Error(cpu.fault.Error())
		}
		return
	}

	if cpu.Verbose {
		cpu.logger().WithFields(logrus.Fields{
			"ip":       fmt.Sprintf("%04X", ip),
			"opcode":   fmt.Sprintf("%02X", opcode),
			"mnemonic": op.Mnemonic,
		}).Debug("cpu: step")
	}

	err = op.Handler(cpu, opcode)
	if err != nil {
		err = &ErrExecute{Ip: ip, Opcode: opcode, Err: err}
	} else {
		cpu.Ticks++
	}

	running = cpu.State == STATE_RUNNING
	return
}

// Run steps the processor until it halts, or a step fails.
func (cpu *Cpu) Run() (err error) {
	for running := true; running; {
		running, err = cpu.Step()
		if err != nil {
			return
		}
	}

	return
}

// Snapshot is a copy of the processor state for reporting.
type Snapshot struct {
	Ip       uint16
	Register [8]uint16 // ax, cx, dx, bx, sp, bp, si, di
	Segment  [4]uint16 // es, cs, ss, ds
	Flags    Flags
	State    State
	Ticks    int
	Fault    *ErrOpcode
}

// Snapshot returns a copy of the processor state.
func (cpu *Cpu) Snapshot() (snap Snapshot) {
	snap = Snapshot{
		Ip:       cpu.Registers.Ip,
		Register: cpu.Registers.word,
		Segment:  cpu.Registers.seg,
		Flags:    cpu.Flags,
		State:    cpu.State,
		Ticks:    cpu.Ticks,
	}
	if cpu.fault != nil {
		fault := *cpu.fault
		snap.Fault = &fault
	}

	return
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"ip",
		"ax", "cx", "dx", "bx", "sp", "bp", "si", "di",
		"es", "cs", "ss", "ds",
		"flags",
		"state",
	}
	for n, reg := range regs {
		var strval string
		switch {
		case reg == "ip":
			strval = fmt.Sprintf("%04X", cpu.Registers.Ip)
		case n >= 1 && n <= 8:
			val := cpu.Registers.word[n-1]
			strval = fmt.Sprintf("%04X (%02X %02X)", val, val>>8, val&0xff)
			if n > 4 {
				strval = fmt.Sprintf("%04X", val)
			}
		case n >= 9 && n <= 12:
			strval = fmt.Sprintf("%04X", cpu.Registers.seg[n-9])
		case reg == "flags":
			strval = fmt.Sprintf("%04X %v", uint16(cpu.Flags), cpu.Flags)
		case reg == "state":
			strval = cpu.State.String()
			if cpu.fault != nil {
				strval += " " + cpu.fault.Error()
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}
