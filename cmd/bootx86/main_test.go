package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/bootx86/cpu"
	"github.com/ezrec/bootx86/emulator"
)

func TestAssembleFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	good := filepath.Join(dir, "good.s")
	bad := filepath.Join(dir, "bad.s")
	assert.NoError(os.WriteFile(good, []byte("cli\nhlt\n"), 0o644))
	assert.NoError(os.WriteFile(bad, []byte("bogus\n"), 0o644))

	emu := emulator.NewEmulator()
	emu.Cpu.Log, _ = test.NewNullLogger()

	prog, err := assembleFile(emu, good)
	if assert.NoError(err) {
		assert.Equal([]byte{0xFA, 0xF4}, prog.Binary())
	}

	_, err = assembleFile(emu, bad)
	assert.ErrorIs(err, cpu.ErrInstructionInvalid)

	_, err = assembleFile(emu, filepath.Join(dir, "missing.s"))
	assert.ErrorIs(err, os.ErrNotExist)
}
