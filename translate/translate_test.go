package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	SetLanguage("en-US")
	defer SetLanguage()

	assert.NotEmpty(Language().String())
	assert.Equal("invalid opcode 0F at 7C00", From("invalid opcode %02X at %04X", byte(0x0f), uint16(0x7c00)))
	assert.Equal("plain", From("plain"))
}

func TestSetLanguageFallback(t *testing.T) {
	assert := assert.New(t)

	SetLanguage("xx-invalid")
	defer SetLanguage()

	assert.Equal("7B00", From("%04X", uint16(0x7b00)))
}
