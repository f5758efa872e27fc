package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/bootx86/boot"
	"github.com/ezrec/bootx86/cpu"
)

func newTestEmulator(t *testing.T, program ...string) (emu *Emulator) {
	emu = NewEmulator()
	emu.Cpu.Log, _ = test.NewNullLogger()

	_, err := emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	err = emu.BootProgram()
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.Equal(cpu.MEMORY_SIZE, emu.Cpu.Memory.Size())

	_, err := emu.Tick()
	assert.ErrorIs(err, ErrNotBooted)
	assert.ErrorIs(emu.Reset(), ErrNotBooted)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("0x7c00", defines["LOAD_ADDR"])
	assert.Equal("0x200", defines["FLAG_IF"])
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"  cli",
		"  mov ax, 0x1234",
		"  push ax",
		"  xor ax, ax",
		"  pop bx",
		"  mov al, [data]",
		"  jmp done",
		"data: db 0x42",
		"done: hlt",
		"  .pad 510",
		"  dw SIGNATURE",
	}

	emu := newTestEmulator(t, program...)
	emu.Loader.RequireSignature = true
	assert.NoError(emu.Reset())

	for _, line := range emu.Program.Lines {
		if line.LineNo == 8 {
			break
		}
		assert.Equal(line.LineNo, emu.LineNo(), program[line.LineNo-1])
		assert.Equal(line.Ip, emu.Ip())
		done, err := emu.Tick()
		assert.NoError(err)
		assert.False(done)
	}

	assert.Equal(9, emu.LineNo())
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.True(emu.IsHalted())
	assert.Equal(8, emu.Ticks())

	snap := emu.Snapshot()
	assert.Equal(uint16(0x0042), snap.Register[cpu.REG_AX])
	assert.Equal(uint16(0x1234), snap.Register[cpu.REG_BX])
	assert.Equal(uint16(boot.STACK_ADDR), snap.Register[cpu.REG_SP])
	assert.Equal(cpu.Flags(0), snap.Flags)

	// Reset re-boots the same sector.
	assert.NoError(emu.Reset())
	assert.False(emu.IsHalted())
	assert.Equal(uint16(boot.LOAD_ADDR), emu.Ip())
	assert.NoError(emu.Run())
	assert.True(emu.IsHalted())
	assert.Equal(8, emu.Ticks())
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t, "here: jmp here")
	emu.MaxTicks = 50

	err := emu.Run()
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(50, emu.Ticks())
	assert.Equal(uint16(boot.LOAD_ADDR), emu.Ip())
	assert.False(emu.IsHalted())
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"cli",
		"db 0x31, 0x00",
		"hlt",
	)

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)

	err = emu.Run()
	assert.ErrorIs(err, cpu.ErrOperandInvalid)

	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(2, runtime.LineNo)
		assert.Equal(uint16(0x7C01), runtime.Ip)
	}
	assert.False(emu.IsHalted())
}

func TestEmulatorInvalidOpcode(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"mov cl, 3",
		"db 0x0f",
	)

	assert.NoError(emu.Run())
	assert.True(emu.IsHalted())
	assert.ErrorIs(emu.Fault(), cpu.ErrOpcodeInvalid)

	var out bytes.Buffer
	assert.NoError(emu.DumpFault(&out))
	assert.Equal("Invalid opcode F at 7C02\n", out.String())
}

func TestEmulatorBoot(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Cpu.Log, _ = test.NewNullLogger()

	err := emu.Boot(bytes.NewReader([]byte{0xF4}))
	assert.ErrorIs(err, boot.ErrDiskShort)
	assert.Nil(emu.Sector)

	image := make([]byte, 1024)
	image[0] = 0xF4
	assert.NoError(emu.Boot(bytes.NewReader(image)))
	assert.Equal(boot.SECTOR_SIZE, len(emu.Sector))
	assert.Equal(0, emu.LineNo())

	assert.NoError(emu.Run())
	assert.True(emu.IsHalted())
	assert.NoError(emu.Fault())
}

func TestEmulatorDump(t *testing.T) {
	assert := assert.New(t)

	emu := newTestEmulator(t,
		"mov ax, 0xA",
		"mov bx, 0xB",
		"mov cx, 0xC",
		"mov dx, 0xD",
		"mov si, 0x51",
		"mov di, 0xD1",
		"hlt",
	)

	assert.NoError(emu.Run())

	var out bytes.Buffer
	assert.NoError(emu.DumpRegisters(&out))
	assert.Equal("CS:IP=0:7C13 SS:SP=0:7B00 DS=0 ES=0\n"+
		"AX=A BX=B CX=C DX=D SI=51 DI=D1 FL=200\n", out.String())

	out.Reset()
	assert.NoError(emu.DumpFault(&out))
	assert.Equal("", out.String())

	out.Reset()
	assert.NoError(emu.DumpSector(&out))
	text := out.String()
	assert.True(strings.HasPrefix(text, "B8 A 0 BB B 0 "), text)
	assert.True(strings.HasSuffix(text, " 0 0 \n"), text)
	assert.Equal(boot.SECTOR_SIZE, len(strings.Fields(text)))
}

func TestEmulatorVerbose(t *testing.T) {
	assert := assert.New(t)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	emu := NewEmulator()
	emu.Cpu.Log = logger
	emu.Verbose = true

	_, err := emu.Assemble(strings.NewReader("sti\nhlt"))
	assert.NoError(err)
	assert.NoError(emu.BootProgram())
	assert.NoError(emu.Run())

	messages := []string{}
	for _, entry := range hook.AllEntries() {
		messages = append(messages, entry.Message)
	}
	assert.Contains(messages, "boot: sector loaded")
	assert.Contains(messages, "cpu: step")
	assert.Contains(messages, "cpu: reset")
}

func TestEmulatorBootFile(t *testing.T) {
	assert := assert.New(t)

	image := make([]byte, boot.SECTOR_SIZE)
	copy(image, []byte{0xB3, 0x07, 0xF4})

	fsys := fstest.MapFS{
		"test.bin": &fstest.MapFile{Data: image},
	}

	emu := NewEmulator()
	assert.NoError(emu.BootFile(fsys, "test.bin"))
	assert.NoError(emu.Run())

	bl, _ := emu.Registers.Get8(cpu.REG_BL)
	assert.Equal(byte(7), bl)

	err := emu.BootFile(fsys, "other.bin")
	assert.ErrorIs(err, boot.ErrDiskRead)
	assert.Equal(image, emu.Sector)
}
