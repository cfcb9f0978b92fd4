// Package compiler implements the recursive-descent pattern parser: it
// turns a pattern byte string into a bytecode.Program by walking
// chunk/alternative/piece/atom productions and emitting nodes into a
// bytecode.Buffer as it goes.
//
// Grounded on original_source/regex/RegExp.cpp's chunk/alternative/piece/atom
// and the emitter helpers it drives.
package compiler

import "github.com/coregx/editre/internal/bytecode"

// Flags recognized by Compile, matching the historical engine's REDFLT_*
// constants.
const (
	FlagStandard        uint32 = 0
	FlagCaseInsensitive uint32 = 1
)

// atomFlags are the SIMPLE/HAS_WIDTH/WORST hints threaded through parsing to
// decide how a quantifier should be lowered; represented as two booleans
// rather than the original's three-state flag word since WORST is simply
// "neither bit set".
type atomFlags struct {
	hasWidth bool
	simple   bool
}

// lenRange tracks the match-length range for a parsed construct; lower and
// upper are both -1 when the construct's length has no known upper bound
// (used to validate look-behind bodies, which must have a bounded size).
type lenRange struct {
	lower int
	upper int
}

const unknownLen = -1

// groupKind distinguishes the different things chunk() can be parsing: a
// plain disjunction, a capturing group, a non-capturing group, a look-around
// body, or one of the inline mode-switch pseudo-groups.
type groupKind int

const (
	groupTop groupKind = iota
	groupCapture
	groupNonCapture
	groupPosAhead
	groupNegAhead
	groupPosBehind
	groupNegBehind
	groupInsensitive
	groupSensitive
	groupNewline
	groupNoNewline
)

// maxParen mirrors bytecode.MaxParen; duplicated here as a plain int to keep
// parser.go arithmetic terse.
const maxParen = bytecode.MaxParen

// defaultMetaChars are the pattern metacharacters that terminate a run of
// ordinary literal bytes being lumped into one EXACTLY/SIMILAR node.
const defaultMetaChars = "{.*+?[(|)^<>$"

// parser holds all mutable state threaded through chunk/alternative/piece/atom.
// Reg_Parse's role is played by pos, an index into src.
type parser struct {
	src []byte
	pos int

	buf *bytecode.Buffer

	totalParen int
	numBraces  int

	closedParens  [maxParen + 1]bool
	parenHasWidth [maxParen + 1]bool

	caseInsensitive bool
	matchNewline    bool
}

func (p *parser) atEnd() bool { return p.pos >= len(p.src) }

// peek returns the byte at pos, or 0 past the end (matching the reference
// parser's NUL-terminated-string convention).
func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) byte {
	i := p.pos + off
	if i < 0 || i >= len(p.src) {
		return 0
	}
	return p.src[i]
}

func (p *parser) advance() byte {
	c := p.peek()
	p.pos++
	return c
}

func isQuantifierByte(c byte) bool {
	return c == '*' || c == '+' || c == '?' || c == '{'
}
