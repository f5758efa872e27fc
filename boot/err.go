package boot

import (
	"errors"

	"github.com/ezrec/bootx86/translate"
)

var f = translate.From

var (
	ErrDiskRead  = errors.New(f("could not read the boot disk"))
	ErrDiskShort = errors.New(f("not a bootable disk"))
	ErrSignature = errors.New(f("boot signature missing"))
)

// ErrBoot is a failure to boot an image.
type ErrBoot struct {
	Image string // Image name, if known.
	Err   error
}

func (err *ErrBoot) Error() string {
	if len(err.Image) == 0 {
		return f("boot failed: %v", err.Err)
	}
	return f("%v: boot failed: %v", err.Image, err.Err)
}

func (err *ErrBoot) Unwrap() error {
	return err.Err
}
