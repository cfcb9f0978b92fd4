package bytecode

import "fmt"

// MaxCompiledSize is the largest size a compiled program may reach before
// the forward/backward NEXT encoding (16 bits) can no longer span it. Kept
// comfortably under the true 65535 ceiling as a safety margin, per spec.
const MaxCompiledSize = 32767

// Program is the immutable, compiled form of a pattern: the node stream
// plus the metadata the compiler derives from it. It corresponds to the
// preamble + node-stream byte buffer spec.md section 3 describes; this
// rewrite keeps the same fields but as a typed struct rather than a raw
// buffer with a magic first byte, since the buffer never crosses an
// untyped-bytes API boundary in this implementation.
type Program struct {
	Code []byte // node stream, starting with the top-level chunk's first BRANCH

	NumParen  int // capturing groups used, 0..bytecode.MaxParen
	NumBraces int // {m,n} counter slots needed, 0..255

	MatchStart byte // required first byte of any match, or 0 if unknown
	Anchored   bool // pattern begins with BOL

	// Source is retained for diagnostics only (error messages, String()).
	Source string
}

// Validate re-derives the structural invariants spec.md section 3 lists,
// so a Program obtained by any means (not just Compile) can be checked
// before use.
func (p *Program) Validate() error {
	if len(p.Code) == 0 {
		return fmt.Errorf("editre: empty program")
	}
	if p.NumParen < 0 || p.NumParen > MaxParen {
		return fmt.Errorf("editre: invalid paren count %d", p.NumParen)
	}
	if p.NumBraces < 0 || p.NumBraces > 255 {
		return fmt.Errorf("editre: invalid brace count %d", p.NumBraces)
	}
	buf := &Buffer{b: p.Code}
	seenOpen := make(map[int]bool)
	seenClose := make(map[int]bool)
	for pos := 0; pos < len(p.Code); {
		op := buf.Op(pos)
		if n, isOpen, isClose, ok := ParenOf(op); ok {
			if isOpen {
				seenOpen[n] = true
			}
			if isClose {
				seenClose[n] = true
			}
		}
		adv := nodeAdvance(buf, pos)
		if adv <= 0 {
			return fmt.Errorf("editre: corrupt node at offset %d", pos)
		}
		pos += adv
	}
	for n := range seenOpen {
		if !seenClose[n] {
			return fmt.Errorf("editre: capture group %d opened but never closed", n)
		}
	}
	return nil
}

// nodeAdvance returns the number of bytes the node at pos occupies,
// including its operand, or -1 if the opcode is unrecognized.
func nodeAdvance(buf *Buffer, pos int) int {
	op := buf.Op(pos)
	switch op {
	case OpEnd, OpBOL, OpEOL, OpBOWord, OpEOWord, OpNotBoundary,
		OpAny, OpEvery, OpDigit, OpNotDigit, OpLetter, OpNotLetter,
		OpSpace, OpSpaceNL, OpNotSpace, OpNotSpaceNL, OpWordChar, OpNotWordChar,
		OpIsDelim, OpNotDelim, OpNothing, OpBranch, OpBack,
		OpStar, OpLazyStar, OpQuestion, OpLazyQuestion, OpPlus, OpLazyPlus,
		OpPosAheadOpen, OpNegAheadOpen, OpLookAheadClose, OpLookBehindClose:
		return NodeSize
	case OpExactly, OpSimilar, OpAnyOf, OpAnyBut:
		n := NodeSize
		for pos+n < len(buf.b) && buf.b[pos+n] != 0 {
			n++
		}
		return n + 1 // include the null terminator
	case OpBrace, OpLazyBrace:
		return NodeSize + BraceOperandSize
	case OpInitCount, OpIncCount:
		return NodeSize + CountIndexSize
	case OpTestCount:
		return NodeSize + TestCountOperandSize
	case OpBackRef, OpBackRefCI:
		return NodeSize + BackRefOperandSize
	case OpPosBehindOpen, OpNegBehindOpen:
		return NodeSize + BehindBoundsOperandSize
	default:
		if _, isOpen, isClose, ok := ParenOf(op); ok && (isOpen || isClose) {
			return NodeSize
		}
		return -1
	}
}

// Operand returns the byte slice following the node header at pos, up to
// but not including the next node or, for the NUL-terminated string
// operands (EXACTLY/SIMILAR/ANY_OF/ANY_BUT), the terminator itself.
func (p *Program) Operand(pos int) []byte {
	buf := &Buffer{b: p.Code}
	return OperandOf(buf, pos)
}

// OperandOf is Program.Operand for callers that only have a raw Buffer (the
// VM executes directly against a Buffer wrapping a Program's code, without
// needing the rest of the Program struct).
func OperandOf(buf *Buffer, pos int) []byte {
	adv := nodeAdvance(buf, pos)
	end := pos + adv
	switch buf.Op(pos) {
	case OpExactly, OpSimilar, OpAnyOf, OpAnyBut:
		end-- // drop the NUL terminator nodeAdvance counted
	}
	return buf.b[pos+NodeSize : end]
}
