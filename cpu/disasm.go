package cpu

import (
	"fmt"
)

// Disassemble renders the instruction at addr in assembler syntax, and
// returns its length in bytes. Unrecognized opcodes, and xor operands
// that do not decode to a register pair, are rendered as 'db'.
func Disassemble(mem *Memory, addr uint16) (text string, size int, err error) {
	opcode, err := mem.Read8(uint32(addr))
	if err != nil {
		return
	}

	op, ok := Lookup(opcode)
	if !ok {
		text = fmt.Sprintf("db 0x%02x", opcode)
		size = 1
		return
	}

	size = op.Size
	operands, err := mem.Dump(uint32(addr)+1, op.Size-1)
	if err != nil {
		return
	}

	var word uint16
	if len(operands) >= 2 {
		word = uint16(operands[0]) | uint16(operands[1])<<8
	}

	switch {
	case opcode == OP_XOR_RW_RW:
		dst, src := XorDecode(operands[0])
		if !src.Valid() {
			text = fmt.Sprintf("db 0x%02x, 0x%02x", opcode, operands[0])
			break
		}
		text = fmt.Sprintf("xor %v, %v", dst, src)
	case opcode >= OP_PUSH_RW && opcode < OP_PUSH_RW+8:
		text = fmt.Sprintf("push %v", Reg16(opcode-OP_PUSH_RW))
	case opcode >= OP_POP_RW && opcode < OP_POP_RW+8:
		text = fmt.Sprintf("pop %v", Reg16(opcode-OP_POP_RW))
	case opcode == OP_MOV_AL_MB:
		text = fmt.Sprintf("mov al, [0x%04x]", word)
	case opcode == OP_MOV_AX_MW:
		text = fmt.Sprintf("mov ax, [0x%04x]", word)
	case opcode >= OP_MOV_RB_IB && opcode < OP_MOV_RW_IW:
		text = fmt.Sprintf("mov %v, 0x%02x", Reg8(opcode-OP_MOV_RB_IB), operands[0])
	case opcode >= OP_MOV_RW_IW && opcode < OP_MOV_RW_IW+8:
		text = fmt.Sprintf("mov %v, 0x%04x", Reg16(opcode-OP_MOV_RW_IW), word)
	case opcode == OP_JMP_REL8:
		target := addr + 2 + uint16(int16(int8(operands[0])))
		text = fmt.Sprintf("jmp 0x%04x", target)
	default:
		text = op.Mnemonic
	}

	return
}
