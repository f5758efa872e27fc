package cpu

import (
	"errors"

	"github.com/ezrec/bootx86/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrMemoryBounds   = errors.New(f("memory out of bounds"))
	ErrOperandInvalid = errors.New(f("operand invalid"))
	ErrOpcodeInvalid  = errors.New(f("opcode invalid"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrOriginSyntax       = errors.New(f(".org syntax"))
	ErrOriginLate         = errors.New(f(".org after code or label"))
	ErrPadSyntax          = errors.New(f(".pad syntax"))
	ErrPadBackwards       = errors.New(f(".pad before current address"))
	ErrDataMissing        = errors.New(f("data missing"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
	ErrJumpRange          = errors.New(f("jump out of range"))
)

// ErrBounds is a memory access beyond the memory capacity.
type ErrBounds struct {
	Addr     uint32 // Address of the first byte accessed.
	Size     int    // Number of bytes accessed.
	Capacity int    // Memory capacity.
}

func (err ErrBounds) Error() string {
	return f("access 0x%05X+%v beyond 0x%05X", err.Addr, err.Size, err.Capacity)
}

func (err ErrBounds) Is(target error) bool {
	return target == ErrMemoryBounds
}

// ErrRegister is a register code outside of the canonical indices.
type ErrRegister struct {
	Code  int // Register code requested.
	Width int // Access width, in bits.
}

func (err ErrRegister) Error() string {
	return f("register code %v invalid for %v-bit access", err.Code, err.Width)
}

func (err ErrRegister) Is(target error) bool {
	return target == ErrOperandInvalid
}

// ErrOpcode records an unrecognized opcode, and where it was fetched from.
type ErrOpcode struct {
	Opcode byte
	Ip     uint16
}

func (err ErrOpcode) Error() string {
	return f("invalid opcode %02X at %04X", err.Opcode, err.Ip)
}

func (err ErrOpcode) Is(target error) (ok bool) {
	if target == ErrOpcodeInvalid {
		return true
	}
	_, ok = target.(ErrOpcode)
	return
}

// ErrExecute is a failure during execution of a recognized opcode.
type ErrExecute struct {
	Ip     uint16 // Address the opcode was fetched from.
	Opcode byte
	Err    error
}

func (err *ErrExecute) Error() string {
	return f("%04X: opcode %02X %v", err.Ip, err.Opcode, err.Err)
}

func (err *ErrExecute) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
