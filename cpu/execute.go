package cpu

// fetch8 reads the byte at IP, and advances IP.
func (cpu *Cpu) fetch8() (value byte, err error) {
	value, err = cpu.Memory.Read8(uint32(cpu.Registers.Ip))
	if err != nil {
		return
	}

	cpu.Registers.Ip++
	return
}

// fetch16 reads the word at IP, and advances IP.
func (cpu *Cpu) fetch16() (value uint16, err error) {
	value, err = cpu.Memory.Read16(uint32(cpu.Registers.Ip))
	if err != nil {
		return
	}

	cpu.Registers.Ip += 2
	return
}

// opXor handles 'xor r16, r16'. Only the register-to-register form is
// supported; the destination is limited to ax, cx, dx and bx.
func (cpu *Cpu) opXor(opcode byte) (err error) {
	modrm, err := cpu.fetch8()
	if err != nil {
		return
	}

	dst, src := XorDecode(modrm)

	a, err := cpu.Registers.Get16(dst)
	if err != nil {
		return
	}
	b, err := cpu.Registers.Get16(src)
	if err != nil {
		return
	}

	return cpu.Registers.Set16(dst, a^b)
}

// opPush handles 'push r16'. SP is decremented before the register is
// read, so 'push sp' stores the decremented value.
func (cpu *Cpu) opPush(opcode byte) (err error) {
	reg := Reg16(opcode - OP_PUSH_RW)

	sp := cpu.Registers.Sp() - 2
	cpu.Registers.SetSp(sp)

	value, err := cpu.Registers.Get16(reg)
	if err != nil {
		return
	}

	return cpu.Memory.Write16(uint32(sp), value)
}

// opPop handles 'pop r16'. SP is incremented after the register is
// written, so 'pop sp' yields the popped value plus two.
func (cpu *Cpu) opPop(opcode byte) (err error) {
	reg := Reg16(opcode - OP_POP_RW)

	value, err := cpu.Memory.Read16(uint32(cpu.Registers.Sp()))
	if err != nil {
		return
	}

	err = cpu.Registers.Set16(reg, value)
	if err != nil {
		return
	}

	cpu.Registers.SetSp(cpu.Registers.Sp() + 2)
	return
}

// opMovAlMem handles 'mov al, [imm16]'.
func (cpu *Cpu) opMovAlMem(opcode byte) (err error) {
	addr, err := cpu.fetch16()
	if err != nil {
		return
	}

	value, err := cpu.Memory.Read8(uint32(addr))
	if err != nil {
		return
	}

	return cpu.Registers.Set8(REG_AL, value)
}

// opMovAxMem handles 'mov ax, [imm16]'. Unless FullWordA1 is set, only
// the low byte of the addressed word reaches al, and ah is untouched.
func (cpu *Cpu) opMovAxMem(opcode byte) (err error) {
	addr, err := cpu.fetch16()
	if err != nil {
		return
	}

	value, err := cpu.Memory.Read16(uint32(addr))
	if err != nil {
		return
	}

	if cpu.FullWordA1 {
		return cpu.Registers.Set16(REG_AX, value)
	}

	return cpu.Registers.Set8(REG_AL, byte(value))
}

// opMovImm handles 'mov r8, imm8' (0xB0-0xB7) and 'mov r16, imm16' (0xB8-0xBF).
func (cpu *Cpu) opMovImm(opcode byte) (err error) {
	base := opcode - OP_MOV_RB_IB

	if base&(1<<3) != 0 {
		var value uint16
		value, err = cpu.fetch16()
		if err != nil {
			return
		}
		return cpu.Registers.Set16(Reg16(base&^(1<<3)), value)
	}

	value, err := cpu.fetch8()
	if err != nil {
		return
	}

	return cpu.Registers.Set8(Reg8(base), value)
}

// opJmpShort handles 'jmp rel8'. The displacement is relative to the
// byte after the displacement.
func (cpu *Cpu) opJmpShort(opcode byte) (err error) {
	disp, err := cpu.fetch8()
	if err != nil {
		return
	}

	cpu.Registers.Ip += uint16(int16(int8(disp)))
	return
}

// opHlt handles 'hlt'.
func (cpu *Cpu) opHlt(opcode byte) (err error) {
	cpu.State = STATE_HALTED
	return
}

// opFlag handles the single flag set and clear opcodes.
func (cpu *Cpu) opFlag(opcode byte) (err error) {
	action, ok := flagTable[opcode]
	if !ok {
		err = ErrOperandInvalid
		return
	}

	cpu.Flags.Assign(action.flag, action.on)
	return
}
