package cpu

// Handler executes one opcode. The instruction pointer has already been
// advanced past the opcode byte; the handler consumes its own operands.
type Handler func(cpu *Cpu, opcode byte) error

// Opcode describes an entry of the dispatch table.
type Opcode struct {
	Mnemonic string  // Assembly mnemonic.
	Size     int     // Instruction length in bytes, including the opcode.
	Handler  Handler // Nil for unrecognized opcodes.
}

// Opcode bytes and ranges.
const (
	OP_XOR_RW_RW = 0x31 // xor r16, r16
	OP_PUSH_RW   = 0x50 // push r16, +reg
	OP_POP_RW    = 0x58 // pop r16, +reg
	OP_MOV_AL_MB = 0xA0 // mov al, [imm16]
	OP_MOV_AX_MW = 0xA1 // mov ax, [imm16]
	OP_MOV_RB_IB = 0xB0 // mov r8, imm8, +reg
	OP_MOV_RW_IW = 0xB8 // mov r16, imm16, +reg
	OP_JMP_REL8  = 0xEB // jmp rel8
	OP_HLT       = 0xF4 // hlt
	OP_CLC       = 0xF8 // clc
	OP_CLI       = 0xFA // cli
	OP_STI       = 0xFB // sti
	OP_CLD       = 0xFC // cld
	OP_STD       = 0xFD // std

	XOR_MODRM_BASE = 0xC0 // Register-to-register ModRM for xor.
)

// opcodeTable maps every opcode byte to its handler.
var opcodeTable [256]Opcode

// flagTable maps the flag opcodes to the flag they affect.
var flagTable = map[byte]struct {
	flag Flag
	on   bool
}{
	OP_CLC: {FLAG_CF, false},
	OP_CLI: {FLAG_IF, false},
	OP_STI: {FLAG_IF, true},
	OP_CLD: {FLAG_DF, false},
	OP_STD: {FLAG_DF, true},
}

func init() {
	opcodeTable[OP_XOR_RW_RW] = Opcode{"xor", 2, (*Cpu).opXor}
	for reg := range 8 {
		opcodeTable[OP_PUSH_RW+reg] = Opcode{"push", 1, (*Cpu).opPush}
		opcodeTable[OP_POP_RW+reg] = Opcode{"pop", 1, (*Cpu).opPop}
		opcodeTable[OP_MOV_RB_IB+reg] = Opcode{"mov", 2, (*Cpu).opMovImm}
		opcodeTable[OP_MOV_RW_IW+reg] = Opcode{"mov", 3, (*Cpu).opMovImm}
	}
	opcodeTable[OP_MOV_AL_MB] = Opcode{"mov", 3, (*Cpu).opMovAlMem}
	opcodeTable[OP_MOV_AX_MW] = Opcode{"mov", 3, (*Cpu).opMovAxMem}
	opcodeTable[OP_JMP_REL8] = Opcode{"jmp", 2, (*Cpu).opJmpShort}
	opcodeTable[OP_HLT] = Opcode{"hlt", 1, (*Cpu).opHlt}
	opcodeTable[OP_CLC] = Opcode{"clc", 1, (*Cpu).opFlag}
	opcodeTable[OP_CLI] = Opcode{"cli", 1, (*Cpu).opFlag}
	opcodeTable[OP_STI] = Opcode{"sti", 1, (*Cpu).opFlag}
	opcodeTable[OP_CLD] = Opcode{"cld", 1, (*Cpu).opFlag}
	opcodeTable[OP_STD] = Opcode{"std", 1, (*Cpu).opFlag}
}

// Lookup returns the dispatch table entry for an opcode byte.
func Lookup(opcode byte) (op Opcode, ok bool) {
	op = opcodeTable[opcode]
	ok = op.Handler != nil
	return
}

// XorModRM encodes the operand byte of 'xor dst, src'.
func XorModRM(dst, src Reg16) (modrm byte, err error) {
	if dst < REG_AX || dst > REG_BX {
		err = ErrRegister{Code: int(dst), Width: 16}
		return
	}
	if !src.Valid() {
		err = ErrRegister{Code: int(src), Width: 16}
		return
	}

	modrm = XOR_MODRM_BASE | byte(src<<3) | byte(dst)
	return
}

// XorDecode decodes the operand byte of 'xor dst, src'. The source
// index is not validated.
func XorDecode(modrm byte) (dst, src Reg16) {
	reg := modrm - XOR_MODRM_BASE
	dst = Reg16(reg % 4)
	src = Reg16(reg / 8)
	return
}
