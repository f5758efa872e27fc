// Package cpu implements the processor model and assembler for a minimal
// real-mode x86 machine.
//
// The processor has four 16-bit general-purpose registers (AX, CX, DX, BX),
// each with independent 8-bit halves, four pointer/index registers (SP, BP,
// SI, DI), an instruction pointer (IP), four segment placeholders, a flags
// word, and 640KiB of flat memory addressed by 16-bit offsets. Opcodes are
// dispatched through a 256 entry table. Unrecognized opcodes halt the
// processor and are recorded as a fault for post-mortem inspection, rather
// than returned as errors.
//
// The assembler accepts the same small instruction subset, with labels,
// equates, data directives, and compile-time $(...) expressions, and produces
// boot sector images.
package cpu
