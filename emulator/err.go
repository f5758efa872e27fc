package emulator

import (
	"errors"

	"github.com/ezrec/bootx86/translate"
)

var f = translate.From

var (
	ErrNotBooted = errors.New(f("no boot image loaded"))
	ErrTickLimit = errors.New(f("tick limit exceeded"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int    // Source line, or 0 if unknown.
	Ip     uint16 // Address of the failing instruction.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("%04X: %v", err.Ip, err.Err)
	}
	return f("line %d (%04X) %v", err.LineNo, err.Ip, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
