package boot

import (
	"bytes"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/bootx86/cpu"
)

// sector returns a boot sector starting with code.
func sector(signed bool, code ...byte) (data []byte) {
	data = make([]byte, SECTOR_SIZE)
	copy(data, code)
	if signed {
		data[SIGNATURE_OFFSET] = 0x55
		data[SIGNATURE_OFFSET+1] = 0xAA
	}
	return
}

func TestLayout(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(cpu.DEFAULT_ORIGIN, LOAD_ADDR)
	assert.LessOrEqual(LOAD_ADDR+SECTOR_SIZE, cpu.MEMORY_SIZE)

	ld := &Loader{}
	defines := map[string]string{}
	for key, value := range ld.Defines() {
		defines[key] = value
	}
	assert.Equal("0x7c00", defines["LOAD_ADDR"])
	assert.Equal("0x7b00", defines["STACK_ADDR"])
	assert.Equal("512", defines["SECTOR_SIZE"])
}

func TestBoot(t *testing.T) {
	assert := assert.New(t)

	cp := cpu.NewCpu(cpu.MEMORY_SIZE)
	cp.Registers.Set16(cpu.REG_AX, 0xdead)
	cp.Flags.Set(cpu.FLAG_CF)
	cp.Memory.Write8(0x100, 0xff)

	image := append(sector(false, 0xB0, 0x05, 0xF4), 0x99, 0x99)

	ld := &Loader{}
	data, err := ld.Boot(cp, bytes.NewReader(image))
	assert.NoError(err)
	assert.Equal(image[:SECTOR_SIZE], data)

	snap := cp.Snapshot()
	assert.Equal(uint16(LOAD_ADDR), snap.Ip)
	assert.Equal([8]uint16{0, 0, 0, 0, STACK_ADDR, 0, 0, 0}, snap.Register)
	assert.Equal([4]uint16{}, snap.Segment)
	assert.Equal(cpu.Flags(cpu.FLAG_IF), snap.Flags)
	assert.Equal(cpu.STATE_RUNNING, snap.State)

	loaded, err := cp.Memory.Dump(LOAD_ADDR, SECTOR_SIZE)
	assert.NoError(err)
	assert.Equal(image[:SECTOR_SIZE], loaded)

	value, _ := cp.Memory.Read8(0x100)
	assert.Equal(byte(0), value)
	value, _ = cp.Memory.Read8(LOAD_ADDR + SECTOR_SIZE)
	assert.Equal(byte(0), value)

	assert.NoError(cp.Run())
	al, _ := cp.Registers.Get8(cpu.REG_AL)
	assert.Equal(byte(5), al)
}

func TestBootShort(t *testing.T) {
	assert := assert.New(t)

	cp := cpu.NewCpu(cpu.MEMORY_SIZE)
	ld := &Loader{}

	for _, size := range []int{0, 1, SECTOR_SIZE - 1} {
		data, err := ld.Boot(cp, bytes.NewReader(make([]byte, size)))
		assert.Nil(data)
		assert.ErrorIs(err, ErrDiskShort)

		var boot_err *ErrBoot
		assert.True(errors.As(err, &boot_err))
	}

	assert.ErrorIs(ld.Validate(make([]byte, 10)), ErrDiskShort)
}

func TestBootSignature(t *testing.T) {
	assert := assert.New(t)

	cp := cpu.NewCpu(cpu.MEMORY_SIZE)

	ld := &Loader{}
	assert.NoError(ld.Validate(sector(false)))
	assert.NoError(ld.Validate(sector(true)))

	ld.RequireSignature = true
	assert.ErrorIs(ld.Validate(sector(false)), ErrSignature)
	assert.NoError(ld.Validate(sector(true)))

	_, err := ld.Boot(cp, bytes.NewReader(sector(false, 0xF4)))
	assert.ErrorIs(err, ErrSignature)

	_, err = ld.Boot(cp, bytes.NewReader(sector(true, 0xF4)))
	assert.NoError(err)
}

func TestBootMemory(t *testing.T) {
	assert := assert.New(t)

	cp := cpu.NewCpu(LOAD_ADDR + SECTOR_SIZE - 1)
	ld := &Loader{}

	err := ld.Load(cp, sector(false))
	assert.ErrorIs(err, cpu.ErrMemoryBounds)
}

func TestBootFile(t *testing.T) {
	assert := assert.New(t)

	fsys := fstest.MapFS{
		"test.bin":  &fstest.MapFile{Data: sector(true, 0xF4)},
		"short.bin": &fstest.MapFile{Data: []byte{0xF4}},
	}

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	cp := cpu.NewCpu(cpu.MEMORY_SIZE)
	ld := &Loader{Verbose: true, Log: logger}

	data, err := ld.BootFile(cp, fsys, "test.bin")
	assert.NoError(err)
	assert.Equal(SECTOR_SIZE, len(data))
	if assert.NotNil(hook.LastEntry()) {
		assert.Equal(logrus.DebugLevel, hook.LastEntry().Level)
		assert.Equal("boot: sector loaded", hook.LastEntry().Message)
		assert.Equal("7C00", hook.LastEntry().Data["addr"])
	}

	_, err = ld.BootFile(cp, fsys, "short.bin")
	assert.ErrorIs(err, ErrDiskShort)
	assert.Equal("short.bin: boot failed: not a bootable disk", err.Error())

	_, err = ld.BootFile(cp, fsys, "missing.bin")
	assert.ErrorIs(err, ErrDiskRead)
	var boot_err *ErrBoot
	if assert.True(errors.As(err, &boot_err)) {
		assert.Equal("missing.bin", boot_err.Image)
	}
}
