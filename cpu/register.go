package cpu

//go:generate go tool stringer -linecomment -type=Reg8,Reg16,Seg

// Reg8 is a canonical 8-bit register code.
type Reg8 int

const (
	REG_AL = Reg8(0) // al
	REG_CL = Reg8(1) // cl
	REG_DL = Reg8(2) // dl
	REG_BL = Reg8(3) // bl
	REG_AH = Reg8(4) // ah
	REG_CH = Reg8(5) // ch
	REG_DH = Reg8(6) // dh
	REG_BH = Reg8(7) // bh
)

// Reg16 is a canonical 16-bit register code.
type Reg16 int

const (
	REG_AX = Reg16(0) // ax
	REG_CX = Reg16(1) // cx
	REG_DX = Reg16(2) // dx
	REG_BX = Reg16(3) // bx
	REG_SP = Reg16(4) // sp
	REG_BP = Reg16(5) // bp
	REG_SI = Reg16(6) // si
	REG_DI = Reg16(7) // di
)

// Seg is a segment register code.
type Seg int

const (
	SEG_ES = Seg(0) // es
	SEG_CS = Seg(1) // cs
	SEG_SS = Seg(2) // ss
	SEG_DS = Seg(3) // ds
)

func (reg Reg8) Valid() bool {
	return reg >= REG_AL && reg <= REG_BH
}

func (reg Reg16) Valid() bool {
	return reg >= REG_AX && reg <= REG_DI
}

func (seg Seg) Valid() bool {
	return seg >= SEG_ES && seg <= SEG_DS
}

// Registers is the register file.
//
// Each general register is a single 16-bit cell; the 8-bit views of
// AX, CX, DX and BX are computed from it, so writing one half never
// disturbs the other.
type Registers struct {
	Ip uint16 // Instruction pointer.

	word [8]uint16 // ax, cx, dx, bx, sp, bp, si, di
	seg  [4]uint16 // es, cs, ss, ds
}

// Reset zeros all registers.
func (r *Registers) Reset() {
	r.Ip = 0
	clear(r.word[:])
	clear(r.seg[:])
}

// Get8 returns an 8-bit register.
func (r *Registers) Get8(code Reg8) (value byte, err error) {
	if !code.Valid() {
		err = ErrRegister{Code: int(code), Width: 8}
		return
	}

	cell := r.word[code&3]
	if code&4 != 0 {
		value = byte(cell >> 8)
	} else {
		value = byte(cell)
	}

	return
}

// Set8 sets an 8-bit register, leaving the other half untouched.
func (r *Registers) Set8(code Reg8, value byte) (err error) {
	if !code.Valid() {
		err = ErrRegister{Code: int(code), Width: 8}
		return
	}

	cell := &r.word[code&3]
	if code&4 != 0 {
		*cell = (*cell & 0x00ff) | (uint16(value) << 8)
	} else {
		*cell = (*cell & 0xff00) | uint16(value)
	}

	return
}

// Get16 returns a 16-bit register.
func (r *Registers) Get16(code Reg16) (value uint16, err error) {
	if !code.Valid() {
		err = ErrRegister{Code: int(code), Width: 16}
		return
	}

	value = r.word[code]
	return
}

// Set16 sets a 16-bit register.
func (r *Registers) Set16(code Reg16, value uint16) (err error) {
	if !code.Valid() {
		err = ErrRegister{Code: int(code), Width: 16}
		return
	}

	r.word[code] = value
	return
}

// Seg returns a segment register.
func (r *Registers) Seg(code Seg) (value uint16, err error) {
	if !code.Valid() {
		err = ErrRegister{Code: int(code), Width: 16}
		return
	}

	value = r.seg[code]
	return
}

// SetSeg sets a segment register.
func (r *Registers) SetSeg(code Seg, value uint16) (err error) {
	if !code.Valid() {
		err = ErrRegister{Code: int(code), Width: 16}
		return
	}

	r.seg[code] = value
	return
}

// Sp returns the stack pointer.
func (r *Registers) Sp() uint16 {
	return r.word[REG_SP]
}

// SetSp sets the stack pointer.
func (r *Registers) SetSp(value uint16) {
	r.word[REG_SP] = value
}
