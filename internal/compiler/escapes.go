package compiler

import (
	"github.com/coregx/editre/internal/bytecode"
	"github.com/coregx/editre/internal/classes"
)

// shortcutCodes lists every escape shortcut_escape recognizes; the class-only
// subset (digits/letters/space/word, both cases) excludes \B \y \Y since
// those test the word-delimiter table rather than denote a fixed character
// set (\B is zero-width; \y and \Y consume one byte).
const shortcutCodes = "ByYdDlLsSwW"
const shortcutClassCodes = "dDlLsSwW"

func isShortcutEscape(c byte, classOnly bool) bool {
	set := shortcutCodes
	if classOnly {
		set = shortcutClassCodes
	}
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}

// emitShortcutNode emits the single opcode a shortcut escape denotes outside
// a character class. ok is false if c is not a recognized shortcut.
func (p *parser) emitShortcutNode(c byte) (pos int, ok bool, flags atomFlags) {
	if !isShortcutEscape(c, false) {
		return 0, false, atomFlags{}
	}
	var op bytecode.Op
	switch c {
	case 'd':
		op = bytecode.OpDigit
	case 'D':
		op = bytecode.OpNotDigit
	case 'l':
		op = bytecode.OpLetter
	case 'L':
		op = bytecode.OpNotLetter
	case 's':
		if p.matchNewline {
			op = bytecode.OpSpaceNL
		} else {
			op = bytecode.OpSpace
		}
	case 'S':
		if p.matchNewline {
			op = bytecode.OpNotSpaceNL
		} else {
			op = bytecode.OpNotSpace
		}
	case 'w':
		op = bytecode.OpWordChar
	case 'W':
		op = bytecode.OpNotWordChar
	case 'y':
		op = bytecode.OpIsDelim
	case 'Y':
		op = bytecode.OpNotDelim
	case 'B':
		op = bytecode.OpNotBoundary
	}
	pos = p.buf.EmitNode(op)
	if c != 'B' {
		flags = atomFlags{hasWidth: true, simple: true}
	}
	return pos, true, flags
}

// emitShortcutClassBytes appends the byte set a shortcut escape denotes to a
// character class operand currently being built. Only callable for the
// class-legal subset; ok is false otherwise.
func (p *parser) emitShortcutClassBytes(c byte) bool {
	if !isShortcutEscape(c, true) {
		return false
	}
	var set string
	switch c {
	case 'd', 'D':
		set = classes.ASCIIDigits
	case 'l', 'L':
		set = classes.LetterChars
	case 's', 'S':
		if p.matchNewline {
			p.emitClassByte('\n')
		}
		set = classes.SpaceChars(false)
	case 'w', 'W':
		set = classes.WordChars
	}
	for i := 0; i < len(set); i++ {
		p.emitClassByte(set[i])
	}
	return true
}

// emitClassByte appends one byte to the character class operand currently
// being emitted, doubling ASCII letters into their lower/upper pair when the
// pattern is compiling a case-insensitive region -- this lets the matcher
// treat ANY_OF/ANY_BUT exactly like the case-sensitive path at match time.
func (p *parser) emitClassByte(c byte) {
	if p.caseInsensitive && isASCIILetter(c) {
		p.buf.EmitByte(toLowerASCII(c))
		p.buf.EmitByte(toUpperASCII(c))
		return
	}
	p.buf.EmitByte(c)
}

// emitLiteralByte appends one byte to an EXACTLY/SIMILAR literal run,
// lower-casing ASCII letters when the pattern is compiling a case-insensitive
// region. Unlike emitClassByte this never doubles a byte: SIMILAR's matcher
// lower-cases the input before comparing, so the operand only needs the one
// canonical form.
func (p *parser) emitLiteralByte(c byte) {
	if p.caseInsensitive && isASCIILetter(c) {
		p.buf.EmitByte(toLowerASCII(c))
		return
	}
	p.buf.EmitByte(c)
}

func isASCIILetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func toLowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
func toUpperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// numericEscape decodes \0ooo (1-3 octal digits) or \xHH (1-2 hex digits)
// starting at src[pos] == '0'|'x'|'X'. It returns the decoded byte value
// (leaving pos just past the last digit consumed), and ok=false if c isn't a numeric escape
// lead character at all (distinct from the lead character being present but
// the escape being malformed, which panics via fail).
func (p *parser) numericEscape(c byte) (value byte, ok bool) {
	var digitStr string
	var radix int
	var width int
	switch c {
	case '0':
		digitStr = "01234567"
		radix = 8
		width = 3
	case 'x', 'X':
		digitStr = "0123456789abcdefABCDEF"
		radix = 16
		width = 2
	default:
		return 0, false
	}

	scan := p.pos + 1 // pos currently indexes c itself
	var v int
	consumed := 0
	for consumed < width && scan < len(p.src) {
		d := digitValue(p.src[scan], digitStr)
		if d < 0 {
			break
		}
		nv := v*radix + d
		if nv > 255 {
			break
		}
		v = nv
		scan++
		consumed++
	}

	if v == 0 {
		if c == '0' {
			p.fail(InvalidOctalEscape, "\\00 is an invalid octal escape")
		} else {
			p.fail(InvalidHexEscape, "\\%c0 is an invalid hexadecimal escape", c)
		}
	}

	p.pos = scan
	return byte(v), true
}

func digitValue(c byte, digitStr string) int {
	for i := 0; i < len(digitStr); i++ {
		if digitStr[i] == c {
			if i >= 16 {
				return i - 6 // fold the uppercase hex tail back onto 10..15
			}
			if i >= 10 {
				return i // a-f -> 10..15
			}
			return i // 0-9, and octal digits 0-7 share this branch
		}
	}
	return -1
}

var literalEscapeFrom = []byte{'a', 'b', 'e', 'f', 'n', 'r', 't', 'v', '(', ')', '-', '[', ']', '<', '>', '{', '}', '.', '\\', '|', '^', '$', '*', '+', '?', '&'}
var literalEscapeTo = []byte{'\a', '\b', 0x1B, '\f', '\n', '\r', '\t', '\v', '(', ')', '-', '[', ']', '<', '>', '{', '}', '.', '\\', '|', '^', '$', '*', '+', '?', '&'}

func literalEscape(c byte) (byte, bool) {
	for i, from := range literalEscapeFrom {
		if from == c {
			return literalEscapeTo[i], true
		}
	}
	return 0, false
}

// isBackRefDigit reports whether c begins a \1..\9 back-reference.
func isBackRefDigit(c byte) bool { return c >= '1' && c <= '9' }

// emitBackRef emits a BACK_REF/BACK_REF_CI node referencing the group whose
// index is the single digit at p.pos, advancing past it. It requires the
// referenced group to have already been closed.
func (p *parser) emitBackRef() (pos int, flags atomFlags) {
	c := p.peek()
	n := int(c - '0')
	if !p.closedParens[n] {
		p.fail(IllegalBackReference, "\\%d is an illegal back reference", n)
	}
	op := bytecode.OpBackRef
	if p.caseInsensitive {
		op = bytecode.OpBackRefCI
	}
	pos = p.buf.EmitNode(op)
	p.buf.EmitByte(byte(n))
	p.pos++
	if p.parenHasWidth[n] {
		flags.hasWidth = true
	}
	return pos, flags
}
