package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Origin: 0x7C00,
		Lines: []Line{
			{LineNo: 1, Ip: 0x7C00, Words: []string{"mov", "ax", "0x10"}, Bytes: []byte{0xB8, 0x10, 0x00}},
			{LineNo: 3, Ip: 0x7C03, Words: []string{"push", "ax"}, Bytes: []byte{0x50}},
			{LineNo: 4, Ip: 0x7C04, Words: []string{"hlt"}, Bytes: []byte{0xF4}},
		},
	}

	dbg := prog.Debug(0x7C00)
	if assert.NotNil(dbg.Line) {
		assert.Equal(1, dbg.LineNo)
		assert.Equal(0, dbg.Index)
	}

	dbg = prog.Debug(0x7C02)
	if assert.NotNil(dbg.Line) {
		assert.Equal(1, dbg.LineNo)
		assert.Equal(2, dbg.Index)
	}

	dbg = prog.Debug(0x7C04)
	if assert.NotNil(dbg.Line) {
		assert.Equal(4, dbg.LineNo)
		assert.Equal([]string{"hlt"}, dbg.Words)
	}
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Lines: []Line{
			{LineNo: 1, Ip: 0x10, Bytes: []byte{0xF4}},
		},
	}

	assert.Nil(prog.Debug(0x0f).Line)
	assert.Nil(prog.Debug(0x11).Line)
	assert.Nil((&Program{}).Debug(0).Line)
}

func TestProgram_Image(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, "cli", "hlt")

	image, err := prog.Image(8)
	assert.NoError(err)
	assert.Equal([]byte{0xFA, 0xF4, 0, 0, 0, 0, 0, 0}, image)

	_, err = prog.Image(1)
	assert.ErrorIs(err, ErrValueRange)
}

func TestProgram_Bytes(t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, "mov cl, 7", "hlt")

	got := map[uint16]byte{}
	for ip, value := range prog.Bytes() {
		got[ip] = value
	}

	assert.Equal(map[uint16]byte{0x7C00: 0xB1, 0x7C01: 0x07, 0x7C02: 0xF4}, got)

	count := 0
	for range prog.Bytes() {
		count++
		break
	}
	assert.Equal(1, count)
}
