// Package boot loads a boot sector image into a processor, and sets up
// the register state a BIOS leaves behind when it jumps to the sector.
package boot

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"maps"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/bootx86/cpu"
)

const (
	LOAD_ADDR        = 0x7C00 // Sector load address, and initial ip.
	STACK_ADDR       = 0x7B00 // Initial sp.
	SECTOR_SIZE      = 512    // Bytes loaded from the image.
	SIGNATURE        = 0xAA55 // Boot signature word.
	SIGNATURE_OFFSET = 510    // Offset of the signature in the sector.
)

var _boot_defines = map[string]string{
	"LOAD_ADDR":        fmt.Sprintf("0x%x", LOAD_ADDR),
	"STACK_ADDR":       fmt.Sprintf("0x%x", STACK_ADDR),
	"SECTOR_SIZE":      fmt.Sprintf("%v", SECTOR_SIZE),
	"SIGNATURE":        fmt.Sprintf("0x%x", SIGNATURE),
	"SIGNATURE_OFFSET": fmt.Sprintf("%v", SIGNATURE_OFFSET),
}

// Loader reads boot images, and prepares a processor to run them.
type Loader struct {
	Verbose          bool               // If set, logs the loader actions.
	RequireSignature bool               // If set, rejects sectors without the 0xAA55 signature.
	Log              logrus.FieldLogger // Logger for verbose tracing; nil uses the standard logger.
}

// Defines returns the boot layout constants, for use as assembler equates.
func (ld *Loader) Defines() iter.Seq2[string, string] {
	return maps.All(_boot_defines)
}

func (ld *Loader) logger() logrus.FieldLogger {
	if ld.Log == nil {
		return logrus.StandardLogger()
	}
	return ld.Log
}

// ReadSector reads the first sector of an image. Images shorter than
// a sector are not bootable; anything after the first sector is ignored.
func (ld *Loader) ReadSector(image io.Reader) (sector []byte, err error) {
	sector = make([]byte, SECTOR_SIZE)
	_, err = io.ReadFull(image, sector)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		sector = nil
		err = ErrDiskShort
	case err != nil:
		sector = nil
		err = errors.Join(ErrDiskRead, err)
	}

	return
}

// Validate checks that a sector is bootable.
func (ld *Loader) Validate(sector []byte) (err error) {
	if len(sector) < SECTOR_SIZE {
		err = ErrDiskShort
		return
	}

	if ld.RequireSignature {
		sig := binary.LittleEndian.Uint16(sector[SIGNATURE_OFFSET:])
		if sig != SIGNATURE {
			err = ErrSignature
			return
		}
	}

	return
}

// Load resets the processor, copies the sector to LOAD_ADDR, and sets
// up the initial register state:
// - All registers zero, except ip = LOAD_ADDR and sp = STACK_ADDR.
// - Interrupts enabled, all other flags clear.
func (ld *Loader) Load(cp *cpu.Cpu, sector []byte) (err error) {
	err = ld.Validate(sector)
	if err != nil {
		return
	}

	cp.Reset()

	err = cp.Memory.Load(LOAD_ADDR, sector[:SECTOR_SIZE])
	if err != nil {
		return
	}

	cp.Registers.Ip = LOAD_ADDR
	cp.Registers.SetSp(STACK_ADDR)
	cp.Flags.Set(cpu.FLAG_IF)

	if ld.Verbose {
		ld.logger().WithFields(logrus.Fields{
			"addr": fmt.Sprintf("%04X", LOAD_ADDR),
			"sp":   fmt.Sprintf("%04X", STACK_ADDR),
		}).Debug("boot: sector loaded")
	}

	return
}

// Boot reads the first sector of an image, and loads it.
func (ld *Loader) Boot(cp *cpu.Cpu, image io.Reader) (sector []byte, err error) {
	defer func() {
		if err != nil {
			sector = nil
			err = &ErrBoot{Err: err}
		}
	}()

	sector, err = ld.ReadSector(image)
	if err != nil {
		return
	}

	err = ld.Load(cp, sector)
	return
}

// BootFile boots the named image from a file system.
func (ld *Loader) BootFile(cp *cpu.Cpu, fsys fs.FS, name string) (sector []byte, err error) {
	inf, err := fsys.Open(name)
	if err != nil {
		err = &ErrBoot{Image: name, Err: errors.Join(ErrDiskRead, err)}
		return
	}
	defer inf.Close()

	sector, err = ld.Boot(cp, inf)
	var boot_err *ErrBoot
	if errors.As(err, &boot_err) {
		boot_err.Image = name
	}

	return
}
