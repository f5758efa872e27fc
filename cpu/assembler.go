// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

var (
	charRe    = regexp.MustCompile(`'\\?[^']'`)
	exprRe    = regexp.MustCompile(`\$\([^\$]*\)`)
	bracketRe = regexp.MustCompile(`\[[^\]]*\]`)
	labelRe   = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
)

type linkKind int

const (
	linkAbs16 = linkKind(0) // Little-endian absolute address.
	linkRel8  = linkKind(1) // Signed displacement from the following byte.
)

// link is a reference to a label, resolved after all lines are parsed.
type link struct {
	line   int      // Index of the line in Lines.
	offset int      // Offset of the reference within the line bytes.
	label  string   // Label referenced.
	kind   linkKind // Reference encoding.
}

// Assembler is a single pass assembler for the real-mode instruction subset.
type Assembler struct {
	Verbose bool               // If set, verbosely logs the assembler actions.
	Log     logrus.FieldLogger // Logger for verbose tracing; nil uses the standard logger.
	Lines   []Line             // List of generated lines.
	Origin  uint16             // Address of the first generated byte.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	links []link
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

func (asm *Assembler) logger() logrus.FieldLogger {
	if asm.Log == nil {
		return logrus.StandardLogger()
	}
	return asm.Log
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	invert := false
	if strings.HasPrefix(word, "~") {
		invert = true
		word = word[1:]
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if invert {
		value = ^value
	}

	return
}

// isNumber returns true if the word parses as a number.
func (asm *Assembler) isNumber(word string) bool {
	_, err := asm.valueOf(word)
	return err == nil
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value, err := asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(value)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	pred["HERE"] = starlark.MakeInt(asm.currentIp())

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = charRe.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "0":
				str = "\000"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Strip comments
	line, _, _ = strings.Cut(line, ";")

	// Do $() evaluations
	line = exprRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	// Memory operands are a single word.
	line = bracketRe.ReplaceAllStringFunc(line, func(str string) string {
		return strings.Join(strings.Fields(str), "")
	})

	words = strings.FieldsFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
			continue
		}
		inner, ok := bracketed(word)
		if ok {
			equate, ok = asm.Equate[inner]
			if ok {
				words[n] = "[" + equate + "]"
			}
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !labelRe.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentIp()
		words = words[1:]
	}

	return
}

// bracketed returns the contents of a '[...]' word.
func bracketed(word string) (inner string, ok bool) {
	if len(word) >= 2 && word[0] == '[' && word[len(word)-1] == ']' {
		inner = word[1 : len(word)-1]
		ok = true
	}
	return
}

// currentIp gets the address of the next generated byte.
func (asm *Assembler) currentIp() int {
	if len(asm.Lines) == 0 {
		return int(asm.Origin)
	}

	last := asm.Lines[len(asm.Lines)-1]

	return int(last.Ip) + len(last.Bytes)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Lines = asm.Lines[:0]
	asm.links = asm.links[:0]
	asm.Origin = DEFAULT_ORIGIN
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			asm.logger().Debugf("asm: %v: %v", lineno, text)
		}

		line = strings.TrimSpace(text)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for _, ln := range asm.links {
		target := &asm.Lines[ln.line]
		lineno = target.LineNo
		line = strings.Join(target.Words, " ")

		addr, ok := asm.Label[ln.label]
		if !ok {
			err = ErrLabelMissing(ln.label)
			return
		}

		switch ln.kind {
		case linkAbs16:
			target.Bytes[ln.offset] = byte(addr)
			target.Bytes[ln.offset+1] = byte(addr >> 8)
		case linkRel8:
			var disp byte
			disp, err = displacement(int(target.Ip)+ln.offset+1, addr)
			if err != nil {
				return
			}
			target.Bytes[ln.offset] = disp
		}
	}

	prog = &Program{
		Origin: asm.Origin,
		Lines:  slices.Clone(asm.Lines),
	}

	return
}

// displacement returns the rel8 encoding of a jump from 'from' to 'to'.
func displacement(from int, to int) (disp byte, err error) {
	delta := to - from
	if delta < -128 || delta > 127 {
		err = ErrJumpRange
		return
	}

	disp = byte(int8(delta))
	return
}

// number parses a word as a value in [min, max].
func (asm *Assembler) number(word string, min, max int64) (value int64, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		return
	}

	if value < min || value > max {
		err = errors.Join(ErrValueRange, ErrParseNumber(word))
		return
	}

	return
}

// wordOrLabel parses a 16-bit value, or a reference to a label.
func (asm *Assembler) wordOrLabel(word string) (value uint16, label string, err error) {
	if isRegister(word) {
		err = ErrInstructionInvalid
		return
	}

	if !asm.isNumber(word) && labelRe.MatchString(word) {
		label = word
		return
	}

	v64, err := asm.number(word, -0x8000, 0xffff)
	if err != nil {
		return
	}

	value = uint16(v64)
	return
}

// reg8Map maps 8-bit register names.
var reg8Map = map[string]Reg8{
	"al": REG_AL, "cl": REG_CL, "dl": REG_DL, "bl": REG_BL,
	"ah": REG_AH, "ch": REG_CH, "dh": REG_DH, "bh": REG_BH,
}

// reg16Map maps 16-bit register names.
var reg16Map = map[string]Reg16{
	"ax": REG_AX, "cx": REG_CX, "dx": REG_DX, "bx": REG_BX,
	"sp": REG_SP, "bp": REG_BP, "si": REG_SI, "di": REG_DI,
}

// isRegister returns true if the word names a register.
func isRegister(word string) bool {
	word = strings.ToLower(word)
	_, is_8 := reg8Map[word]
	_, is_16 := reg16Map[word]
	return is_8 || is_16
}

// impliedMap maps the operand-less instructions.
var impliedMap = map[string]byte{
	"hlt": OP_HLT,
	"clc": OP_CLC,
	"cli": OP_CLI,
	"sti": OP_STI,
	"cld": OP_CLD,
	"std": OP_STD,
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []byte
	var links []link

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || len(data) == 0 {
			return
		}
		ip := asm.currentIp()
		if ip+len(data) > 0x10000 {
			err = ErrValueRange
			return
		}
		line := Line{LineNo: lineno, Ip: uint16(ip), Words: initial_words, Bytes: data}
		for _, ln := range links {
			ln.line = len(asm.Lines)
			line.LinkLabel = ln.label
			asm.links = append(asm.links, ln)
		}
		asm.Lines = append(asm.Lines, line)
	}()

	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	if op, ok := impliedMap[mnemonic]; ok {
		if len(args) > 0 {
			err = ErrOpcodeExtraArgs
			return
		}
		data = []byte{op}
		return
	}

	switch mnemonic {
	case ".org":
		if len(args) != 1 {
			err = ErrOriginSyntax
			return
		}
		// Labels already bound hold addresses from the old origin.
		if len(asm.Lines) != 0 || len(asm.Label) != 0 {
			err = ErrOriginLate
			return
		}
		var org int64
		org, err = asm.number(args[0], 0, 0xffff)
		if err != nil {
			return
		}
		asm.Origin = uint16(org)
	case ".pad":
		if len(args) < 1 || len(args) > 2 {
			err = ErrPadSyntax
			return
		}
		var offset, fill int64
		offset, err = asm.number(args[0], 0, 0x10000)
		if err != nil {
			return
		}
		if len(args) == 2 {
			fill, err = asm.number(args[1], -0x80, 0xff)
			if err != nil {
				return
			}
		}
		count := int(offset) - (asm.currentIp() - int(asm.Origin))
		if count < 0 {
			err = ErrPadBackwards
			return
		}
		data = bytes.Repeat([]byte{byte(fill)}, count)
	case "db":
		if len(args) == 0 {
			err = ErrDataMissing
			return
		}
		for _, arg := range args {
			var value int64
			value, err = asm.number(arg, -0x80, 0xff)
			if err != nil {
				return
			}
			data = append(data, byte(value))
		}
	case "dw":
		if len(args) == 0 {
			err = ErrDataMissing
			return
		}
		for _, arg := range args {
			var value uint16
			var label string
			value, label, err = asm.wordOrLabel(arg)
			if err != nil {
				return
			}
			if len(label) != 0 {
				links = append(links, link{offset: len(data), label: label, kind: linkAbs16})
			}
			data = append(data, byte(value), byte(value>>8))
		}
	case "push", "pop":
		if len(args) < 1 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		reg, ok := reg16Map[strings.ToLower(args[0])]
		if !ok {
			err = ErrRegisterInvalid
			return
		}
		base := byte(OP_PUSH_RW)
		if mnemonic == "pop" {
			base = OP_POP_RW
		}
		data = []byte{base + byte(reg)}
	case "xor":
		if len(args) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		dst, ok_dst := reg16Map[strings.ToLower(args[0])]
		src, ok_src := reg16Map[strings.ToLower(args[1])]
		if !ok_dst || !ok_src {
			err = ErrRegisterInvalid
			return
		}
		var modrm byte
		modrm, err = XorModRM(dst, src)
		if err != nil {
			err = errors.Join(ErrRegisterInvalid, err)
			return
		}
		data = []byte{OP_XOR_RW_RW, modrm}
	case "mov":
		data, links, err = asm.parseMov(args)
	case "jmp":
		if len(args) < 1 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		var target uint16
		var label string
		target, label, err = asm.wordOrLabel(args[0])
		if err != nil {
			return
		}
		data = []byte{OP_JMP_REL8, 0}
		if len(label) != 0 {
			links = append(links, link{offset: 1, label: label, kind: linkRel8})
			return
		}
		data[1], err = displacement(asm.currentIp()+2, int(target))
	default:
		err = ErrInstructionInvalid
		return
	}

	return
}

// parseMov encodes the 'mov' forms.
func (asm *Assembler) parseMov(args []string) (data []byte, links []link, err error) {
	if len(args) < 2 {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}

	dst := strings.ToLower(args[0])
	src := args[1]

	inner, is_mem := bracketed(src)

	if reg, ok := reg8Map[dst]; ok {
		if is_mem {
			if reg != REG_AL {
				err = ErrInstructionInvalid
				return
			}
			data, links, err = asm.encodeAddress(OP_MOV_AL_MB, inner)
			return
		}
		var value int64
		value, err = asm.number(src, -0x80, 0xff)
		if err != nil {
			return
		}
		data = []byte{OP_MOV_RB_IB + byte(reg), byte(value)}
		return
	}

	if reg, ok := reg16Map[dst]; ok {
		if is_mem {
			if reg != REG_AX {
				err = ErrInstructionInvalid
				return
			}
			data, links, err = asm.encodeAddress(OP_MOV_AX_MW, inner)
			return
		}
		data, links, err = asm.encodeAddress(OP_MOV_RW_IW+byte(reg), src)
		return
	}

	err = ErrRegisterInvalid
	return
}

// encodeAddress encodes an opcode followed by a 16-bit value or label address.
func (asm *Assembler) encodeAddress(opcode byte, word string) (data []byte, links []link, err error) {
	value, label, err := asm.wordOrLabel(word)
	if err != nil {
		return
	}

	data = []byte{opcode, byte(value), byte(value >> 8)}
	if len(label) != 0 {
		links = append(links, link{offset: 1, label: label, kind: linkAbs16})
	}

	return
}
