package vm

import (
	"github.com/coregx/editre/internal/bytecode"
	"github.com/coregx/editre/internal/classes"
)

// match recursively tries to match the program starting at node, advancing
// s.pos on success and leaving it at whatever position is convenient on
// failure -- all backtracking is the caller's responsibility, exactly as
// spec'd for the reference matcher.
//
// Grounded on RegExp.cpp's match().
func (s *state) match(node int) bool {
	if node < 0 {
		return true
	}

	s.depth++
	if s.depth > recursionLimit {
		s.depth--
		if s.log != nil {
			s.log.Warn("editre: recursion limit exceeded in match")
		}
		return false
	}
	defer func() { s.depth-- }()

	scan := node
	for scan >= 0 {
		op := s.buf.Op(scan)
		next := s.buf.NextPtr(scan)

		switch op {
		case bytecode.OpEnd:
			if s.pos > s.fwExtent {
				s.fwExtent = s.pos
			}
			return true

		case bytecode.OpBOL:
			// A zero PrevChar/SuccChar at the subject's edge means there is no
			// text beyond it, which counts as a line boundary.
			if s.prevByte(s.pos) != '\n' && !(s.pos <= 0 && s.prevChar == 0) {
				return false
			}
			scan = next
			continue

		case bytecode.OpEOL:
			if s.nextByte(s.pos) != '\n' && !(s.pos >= len(s.subject) && s.succChar == 0) {
				return false
			}
			scan = next
			continue

		case bytecode.OpBOWord:
			if !(s.delims[s.prevByte(s.pos)] && !s.delims[s.nextByte(s.pos)]) {
				return false
			}
			scan = next
			continue

		case bytecode.OpEOWord:
			if !(!s.delims[s.prevByte(s.pos)] && s.delims[s.nextByte(s.pos)]) {
				return false
			}
			scan = next
			continue

		case bytecode.OpNotBoundary:
			if s.delims[s.prevByte(s.pos)] != s.delims[s.nextByte(s.pos)] {
				return false
			}
			scan = next
			continue

		case bytecode.OpExactly:
			operand := bytecode.OperandOf(s.buf, scan)
			if !s.matchLiteral(operand, false) {
				return false
			}
			scan = next
			continue

		case bytecode.OpSimilar:
			operand := bytecode.OperandOf(s.buf, scan)
			if !s.matchLiteral(operand, true) {
				return false
			}
			scan = next
			continue

		case bytecode.OpAny:
			c, ok := s.byteAt(s.pos)
			if !ok || c == '\n' {
				return false
			}
			s.pos++
			scan = next
			continue

		case bytecode.OpEvery:
			_, ok := s.byteAt(s.pos)
			if !ok {
				return false
			}
			s.pos++
			scan = next
			continue

		case bytecode.OpAnyOf, bytecode.OpAnyBut:
			c, ok := s.byteAt(s.pos)
			if !ok {
				return false
			}
			member := bytesContain(bytecode.OperandOf(s.buf, scan), c)
			if op == bytecode.OpAnyOf && !member {
				return false
			}
			if op == bytecode.OpAnyBut && member {
				return false
			}
			s.pos++
			scan = next
			continue

		case bytecode.OpDigit, bytecode.OpNotDigit, bytecode.OpLetter, bytecode.OpNotLetter,
			bytecode.OpSpace, bytecode.OpSpaceNL, bytecode.OpNotSpace, bytecode.OpNotSpaceNL,
			bytecode.OpWordChar, bytecode.OpNotWordChar:
			c, ok := s.byteAt(s.pos)
			if !ok || !classPredicate(op, c) {
				return false
			}
			s.pos++
			scan = next
			continue

		case bytecode.OpIsDelim, bytecode.OpNotDelim:
			c, ok := s.byteAt(s.pos)
			if !ok {
				return false
			}
			member := s.delims[c]
			if op == bytecode.OpIsDelim && !member {
				return false
			}
			if op == bytecode.OpNotDelim && member {
				return false
			}
			s.pos++
			scan = next
			continue

		case bytecode.OpNothing, bytecode.OpBack:
			scan = next
			continue

		case bytecode.OpBranch:
			if s.buf.Op(next) != bytecode.OpBranch {
				scan = scan + bytecode.NodeSize // operand, avoid recursion
				continue
			}
			// Only the BRANCH chain that starts at startNode is the
			// pattern's own top-level alternation; every nested group's
			// alternation, capturing or not, starts at a later node.
			branchIndex := 0
			topLevel := scan == startNode
			for {
				savePos := s.pos
				if s.match(scan + bytecode.NodeSize) {
					if topLevel {
						s.topBranch = branchIndex
					}
					return true
				}
				s.pos = savePos
				scan = s.buf.NextPtr(scan)
				if scan < 0 || s.buf.Op(scan) != bytecode.OpBranch {
					return false
				}
				branchIndex++
			}

		case bytecode.OpStar, bytecode.OpLazyStar, bytecode.OpPlus, bytecode.OpLazyPlus,
			bytecode.OpQuestion, bytecode.OpLazyQuestion, bytecode.OpBrace, bytecode.OpLazyBrace:
			return s.matchQuantified(scan, next)

		case bytecode.OpInitCount:
			idx := bytecode.OperandOf(s.buf, scan)[0]
			s.counters[idx] = 0
			scan = next
			continue

		case bytecode.OpIncCount:
			idx := bytecode.OperandOf(s.buf, scan)[0]
			s.counters[idx]++
			scan = next
			continue

		case bytecode.OpTestCount:
			operand := bytecode.OperandOf(s.buf, scan)
			idx := operand[0]
			v := int(operand[1])<<8 | int(operand[2])
			if s.counters[idx] < v {
				scan = scan + bytecode.NodeSize + bytecode.TestCountOperandSize
				continue
			}
			scan = next
			continue

		case bytecode.OpBackRef, bytecode.OpBackRefCI:
			n := int(bytecode.OperandOf(s.buf, scan)[0])
			if !s.matchBackRef(n, op == bytecode.OpBackRefCI) {
				return false
			}
			scan = next
			continue

		case bytecode.OpPosAheadOpen, bytecode.OpNegAheadOpen:
			if !s.matchLookAhead(scan, op == bytecode.OpPosAheadOpen) {
				return false
			}
			scan = s.skipLookAround(scan, bytecode.OpLookAheadClose)
			continue

		case bytecode.OpPosBehindOpen, bytecode.OpNegBehindOpen:
			if !s.matchLookBehind(scan, op == bytecode.OpPosBehindOpen) {
				return false
			}
			scan = s.skipLookAround(scan, bytecode.OpLookBehindClose)
			continue

		case bytecode.OpLookAheadClose, bytecode.OpLookBehindClose:
			return true

		default:
			if n, isOpen, isClose, ok := bytecode.ParenOf(op); ok {
				if isOpen {
					if n <= 9 {
						s.backRefStart[n] = s.pos
					}
					save := s.pos
					if !s.match(next) {
						return false
					}
					if !s.filled[n] {
						s.startPtr[n] = save
						s.filled[n] = true
					}
					return true
				}
				if isClose {
					if n <= 9 {
						s.backRefEnd[n] = s.pos
					}
					end := s.pos
					if !s.match(next) {
						return false
					}
					if !s.endFilled[n] {
						s.endPtr[n] = end
						s.endFilled[n] = true
					}
					return true
				}
			}
			if s.log != nil {
				s.log.Error("editre: corrupted program")
			}
			s.corrupted = true
			return false
		}
	}
	return true
}

func bytesContain(set []byte, c byte) bool {
	for _, b := range set {
		if b == c {
			return true
		}
	}
	return false
}

func classPredicate(op bytecode.Op, c byte) bool {
	switch op {
	case bytecode.OpDigit:
		return classes.Digit(c)
	case bytecode.OpNotDigit:
		return !classes.Digit(c)
	case bytecode.OpLetter:
		return classes.Letter(c)
	case bytecode.OpNotLetter:
		return !classes.Letter(c)
	case bytecode.OpWordChar:
		return classes.Word(c)
	case bytecode.OpNotWordChar:
		return !classes.Word(c)
	case bytecode.OpSpace:
		return inSet(classes.SpaceChars(false), c)
	case bytecode.OpSpaceNL:
		return inSet(classes.SpaceChars(true), c)
	case bytecode.OpNotSpace:
		return !inSet(classes.SpaceChars(true), c)
	case bytecode.OpNotSpaceNL:
		return !inSet(classes.SpaceChars(false), c)
	}
	return false
}

func inSet(set string, c byte) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}

// matchLiteral compares operand (NUL-terminated, already stripped by
// Operand) against the subject at s.pos, advancing s.pos by its length on
// success. ci lower-cases both sides for SIMILAR.
func (s *state) matchLiteral(operand []byte, ci bool) bool {
	for i, want := range operand {
		c, ok := s.byteAt(s.pos + i)
		if !ok {
			return false
		}
		if ci {
			c = lowerASCII(c)
			want = lowerASCII(want)
		}
		if c != want {
			return false
		}
	}
	s.pos += len(operand)
	return true
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func (s *state) matchBackRef(n int, ci bool) bool {
	if n > 9 || s.backRefStart[n] < 0 || s.backRefEnd[n] < 0 {
		return false
	}
	start, end := s.backRefStart[n], s.backRefEnd[n]
	if start > end {
		return false
	}
	span := s.subject[start:end]
	for i, want := range span {
		c, ok := s.byteAt(s.pos + i)
		if !ok {
			return false
		}
		if ci {
			c = lowerASCII(c)
			want = lowerASCII(want)
		}
		if c != want {
			return false
		}
	}
	s.pos += len(span)
	return true
}
