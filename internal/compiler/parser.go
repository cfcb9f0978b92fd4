package compiler

import (
	"github.com/coregx/editre/internal/bytecode"
	"github.com/coregx/editre/internal/conv"
)

// chunk parses a disjunction: alternative ("|" alternative)*, optionally
// wrapped in the node pair a group kind implies (capturing parens, a
// look-around, or nothing for the top level and transparent mode switches).
//
// Grounded on RegExp.cpp's chunk().
func (p *parser) chunk(kind groupKind) (retVal int, flags atomFlags, rng lenRange) {
	flags = atomFlags{hasWidth: true}

	oldInsensitive := p.caseInsensitive
	oldNewline := p.matchNewline

	thisParen := 0
	lookOnly := false
	var lookBehindBoundsAt int = -1

	switch kind {
	case groupCapture:
		if p.totalParen > maxParen {
			p.fail(TooManyParens, "number of ()'s > %d", maxParen)
		}
		thisParen = p.totalParen
		p.totalParen++
		retVal = p.buf.EmitNode(bytecode.OpenOp(thisParen))
	case groupPosAhead:
		flags = atomFlags{}
		lookOnly = true
		retVal = p.buf.EmitNode(bytecode.OpPosAheadOpen)
	case groupNegAhead:
		flags = atomFlags{}
		lookOnly = true
		retVal = p.buf.EmitNode(bytecode.OpNegAheadOpen)
	case groupPosBehind:
		flags = atomFlags{}
		lookOnly = true
		retVal = p.buf.EmitSpecial(bytecode.OpPosBehindOpen, 0, 0)
		lookBehindBoundsAt = retVal
	case groupNegBehind:
		flags = atomFlags{}
		lookOnly = true
		retVal = p.buf.EmitSpecial(bytecode.OpNegBehindOpen, 0, 0)
		lookBehindBoundsAt = retVal
	case groupInsensitive:
		p.caseInsensitive = true
	case groupSensitive:
		p.caseInsensitive = false
	case groupNewline:
		p.matchNewline = true
	case groupNoNewline:
		p.matchNewline = false
	}

	first := true
	firstBranch := -1
	for {
		branch, flagsLocal, rangeLocal := p.alternative()

		if firstBranch < 0 {
			firstBranch = branch
		}

		skipTail := false
		if first {
			first = false
			rng = rangeLocal
			if !emittedOwnNode(kind) {
				retVal = branch
				skipTail = true // retVal == branch here; tying it to itself would self-loop
			}
		} else if rng.lower >= 0 {
			if rangeLocal.lower >= 0 {
				if rangeLocal.lower < rng.lower {
					rng.lower = rangeLocal.lower
				}
				if rangeLocal.upper > rng.upper {
					rng.upper = rangeLocal.upper
				}
			} else {
				rng = lenRange{unknownLen, unknownLen}
			}
		}

		if !skipTail {
			// Walks the chain from retVal, which fast-forwards past every
			// already-tied branch (their NEXT is non-zero) to the true tail,
			// so this always ends up linking the previous branch to this one.
			p.buf.Tail(retVal, branch)
		}

		if !flagsLocal.hasWidth {
			flags.hasWidth = false
		}

		if p.peek() != '|' {
			break
		}
		p.pos++
	}

	var ender int
	switch kind {
	case groupCapture:
		ender = p.buf.EmitNode(bytecode.CloseOp(thisParen))
	case groupTop:
		ender = p.buf.EmitNode(bytecode.OpEnd)
	case groupPosAhead, groupNegAhead:
		ender = p.buf.EmitNode(bytecode.OpLookAheadClose)
	case groupPosBehind, groupNegBehind:
		ender = p.buf.EmitNode(bytecode.OpLookBehindClose)
	default:
		ender = p.buf.EmitNode(bytecode.OpNothing)
	}
	// Ties the alternation-selector chain (each BRANCH's own NEXT, pointing
	// at the next alternative) so the last branch's NEXT is non-BRANCH,
	// terminating the try-next-alternative loop in the matcher.
	p.buf.Tail(retVal, ender)

	// Separately, every branch body's own tail (the last piece inside that
	// alternative, reached via its BRANCH node + NodeSize) must be tied to
	// ender too -- that's the continuation a successful alternative falls
	// into, distinct from the BRANCH-to-BRANCH alternative-selector chain.
	for branch := firstBranch; branch >= 0 && p.buf.Op(branch) == bytecode.OpBranch; {
		p.buf.BranchTail(branch, 0, ender)
		branch = p.buf.NextPtr(branch)
	}

	if kind != groupTop {
		if p.peek() != ')' {
			p.fail(MissingRightParen, "missing right parenthesis ')'")
		}
		p.pos++
	} else if !p.atEnd() {
		if p.peek() == ')' {
			p.fail(MissingLeftParen, "missing left parenthesis '('")
		}
		p.fail(JunkOnEnd, "junk on end")
	}

	if lookBehindBoundsAt >= 0 {
		if rng.lower < 0 {
			p.fail(LookbehindUnbounded, "look-behind does not have a bounded size")
		}
		if rng.upper > 65535 {
			p.fail(LookbehindTooLarge, "max. look-behind size is too large (>65535)")
		}
		p.buf.SetBehindBounds(lookBehindBoundsAt, conv.IntToUint16(rng.lower), conv.IntToUint16(rng.upper))
	}

	if lookOnly {
		rng = lenRange{0, 0}
	}

	zeroWidth := false
	if kind == groupCapture {
		p.closedParens[thisParen] = true

		if p.peek() == '?' || p.peek() == '*' {
			zeroWidth = true
		} else if p.peek() == '{' {
			if p.peekAt(1) == ',' || p.peekAt(1) == '}' {
				zeroWidth = true
			} else if p.peekAt(1) == '0' {
				i := 2
				for p.peekAt(i) == '0' {
					i++
				}
				if p.peekAt(i) == ',' {
					zeroWidth = true
				}
			}
		}
	}

	if flags.hasWidth && kind == groupCapture && !zeroWidth {
		p.parenHasWidth[thisParen] = true
	}

	p.caseInsensitive = oldInsensitive
	p.matchNewline = oldNewline

	return retVal, flags, rng
}

// emittedOwnNode reports whether chunk already emitted its own leading node
// (OPEN+n, a look-around open) before picking up its first branch -- in that
// case the branch chain hangs off that leading node rather than being the
// chunk's own return value.
func emittedOwnNode(kind groupKind) bool {
	switch kind {
	case groupCapture, groupPosAhead, groupNegAhead, groupPosBehind, groupNegBehind:
		return true
	}
	return false
}

// alternative parses piece* up to the next '|', ')' or end of pattern,
// chaining each piece's tail into the next.
func (p *parser) alternative() (retVal int, flags atomFlags, rng lenRange) {
	retVal = p.buf.EmitNode(bytecode.OpBranch)
	chain := -1

	for p.peek() != '|' && p.peek() != ')' && !p.atEnd() {
		latest, flagsLocal, rangeLocal := p.piece()

		flags.hasWidth = flags.hasWidth || flagsLocal.hasWidth
		if rangeLocal.lower < 0 {
			rng = lenRange{unknownLen, unknownLen}
		} else if rng.lower >= 0 {
			rng.lower += rangeLocal.lower
			rng.upper += rangeLocal.upper
		}

		if chain >= 0 {
			p.buf.Tail(chain, latest)
		}
		chain = latest
	}

	if chain < 0 {
		p.buf.EmitNode(bytecode.OpNothing)
	}

	return retVal, flags, rng
}

// braceNumber parses a run of decimal digits, erroring if their accumulated
// value would exceed the 16-bit ceiling a BRACE/TEST_COUNT operand can hold.
func (p *parser) braceNumber() (value int, present bool) {
	for p.peek() >= '0' && p.peek() <= '9' {
		present = true
		d := int(p.peek() - '0')
		if value > 6553 || (value == 6553 && d > 5) {
			p.fail(RangeTooLarge, "{m,n} operand > 65535")
		}
		value = value*10 + d
		p.pos++
	}
	return value, present
}

func braceMaxOperand(maxV int) uint16 {
	if maxV < 0 {
		return 0 // REG_INFINITY
	}
	return conv.IntToUint16(maxV)
}

// piece parses atom (quantifier)? and lowers the quantifier into bytecode,
// either a single prefixed node for a SIMPLE atom or one of the explicit
// BRANCH/BACK/INIT_COUNT/INC_COUNT/TEST_COUNT topologies documented for
// complex atoms.
//
// Grounded on RegExp.cpp's piece(); each topology below keeps the original's
// numbered-arrow diagram as a comment so the tail/offset_tail wiring can be
// cross-checked against it node by node.
func (p *parser) piece() (retVal int, flags atomFlags, rng lenRange) {
	retVal, atomFlagsLocal, atomRange := p.atom()

	opByte := p.peek()
	if !isQuantifierByte(opByte) {
		return retVal, atomFlagsLocal, atomRange
	}

	minV, maxV := 0, 0
	bracePresent := opByte == '{'
	lazy := false

	if bracePresent {
		p.pos++
		var minPresent, maxPresent, commaPresent bool
		minV, minPresent = p.braceNumber()
		if p.peek() == ',' {
			commaPresent = true
			p.pos++
			maxV, maxPresent = p.braceNumber()
		}

		if minPresent && minV == 0 && !commaPresent {
			p.fail(InvalidRangeZero, "{0} is an invalid range")
		} else if minPresent && minV == 0 && maxPresent && maxV == 0 {
			p.fail(InvalidRangeZero, "{0,0} is an invalid range")
		} else if maxPresent && maxV == 0 {
			if minPresent {
				p.fail(InvalidRangeZero, "{%d,0} is an invalid range", minV)
			}
			p.fail(InvalidRangeZero, "{,0} is an invalid range")
		}

		if !commaPresent {
			maxV = minV // {x} means {x,x}
		} else if !maxPresent {
			maxV = -1 // REG_INFINITY: unlimited
		}

		if p.peek() != '}' {
			p.fail(MissingBraceClose, "{m,n} specification missing right '}'")
		} else if maxV != -1 && minV > maxV {
			p.fail(InvalidRange, "{%d,%d} is an invalid range", minV, maxV)
		}
	}

	p.pos++ // consume '}', or the */+/? byte itself

	if p.peek() == '?' {
		lazy = true
		p.pos++
	}

	if bracePresent {
		switch {
		case minV == 0 && maxV == -1:
			opByte = '*'
		case minV == 1 && maxV == -1:
			opByte = '+'
		case minV == 0 && maxV == 1:
			opByte = '?'
		case minV == 1 && maxV == 1:
			return retVal, atomFlagsLocal, atomRange // "x{1,1}" is just "x"
		default:
			if p.numBraces >= 255 {
				p.fail(TooManyBraces, "number of {m,n} constructs > 255")
			}
		}
	}

	if opByte == '*' || opByte == '+' {
		maxV = -1 // REG_INFINITY: unlimited
	}
	if opByte == '+' {
		minV = 1
	}
	if opByte == '?' {
		maxV = 1
	}

	if !atomFlagsLocal.hasWidth {
		if bracePresent {
			p.fail(EmptyOperand, "{%d,%d} operand could be empty", minV, maxV)
		}
		p.fail(EmptyOperand, "%c operand could be empty", opByte)
	}

	flags = atomFlags{hasWidth: minV > 0}
	if atomRange.lower >= 0 {
		if maxV != -1 {
			rng = lenRange{atomRange.lower * minV, atomRange.upper * maxV}
		} else {
			rng = lenRange{unknownLen, unknownLen}
		}
	} else {
		rng = lenRange{unknownLen, unknownLen}
	}

	switch {
	case opByte == '*' && atomFlagsLocal.simple:
		op := bytecode.OpStar
		if lazy {
			op = bytecode.OpLazyStar
		}
		p.buf.Insert(op, retVal, 0, 0, 0)

	case opByte == '+' && atomFlagsLocal.simple:
		op := bytecode.OpPlus
		if lazy {
			op = bytecode.OpLazyPlus
		}
		p.buf.Insert(op, retVal, 0, 0, 0)

	case opByte == '?' && atomFlagsLocal.simple:
		op := bytecode.OpQuestion
		if lazy {
			op = bytecode.OpLazyQuestion
		}
		p.buf.Insert(op, retVal, 0, 0, 0)

	case opByte == '{' && atomFlagsLocal.simple:
		op := bytecode.OpBrace
		if lazy {
			op = bytecode.OpLazyBrace
		}
		p.buf.Insert(op, retVal, conv.IntToUint16(minV), braceMaxOperand(maxV), 0)

	case (opByte == '*' || opByte == '+') && lazy:
		// (x)*?  /  (x)+? (same shape, plus an extra leading jump for +?)
		p.buf.Tail(retVal, p.buf.EmitNode(bytecode.OpBack)) // 1
		p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, 0)    // 2,4
		p.buf.Insert(bytecode.OpNothing, retVal, 0, 0, 0)   // 3
		next := p.buf.EmitNode(bytecode.OpNothing)          // 2,3
		p.buf.OffsetTail(retVal, bytecode.NodeSize, next)    // 2
		p.buf.Tail(retVal, next)                             // 3
		p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, 0)     // 4,5
		p.buf.Tail(retVal, retVal+2*bytecode.NodeSize)       // 4
		p.buf.OffsetTail(retVal, 3*bytecode.NodeSize, retVal) // 5
		if opByte == '+' {
			p.buf.Insert(bytecode.OpNothing, retVal, 0, 0, 0)      // 6
			p.buf.Tail(retVal, retVal+4*bytecode.NodeSize)          // 6
		}

	case opByte == '*':
		// (x)*
		p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, 0)                          // 1,3
		p.buf.OffsetTail(retVal, bytecode.NodeSize, p.buf.EmitNode(bytecode.OpBack)) // 2
		p.buf.OffsetTail(retVal, bytecode.NodeSize, retVal)                        // 1
		p.buf.Tail(retVal, p.buf.EmitNode(bytecode.OpBranch))                      // 3
		p.buf.Tail(retVal, p.buf.EmitNode(bytecode.OpNothing))                     // 4

	case opByte == '+':
		// (x)+
		next := p.buf.EmitNode(bytecode.OpBranch) // 1
		p.buf.Tail(retVal, next)                  // 1
		p.buf.Tail(p.buf.EmitNode(bytecode.OpBack), retVal)    // 2
		p.buf.Tail(next, p.buf.EmitNode(bytecode.OpBranch))    // 3
		p.buf.Tail(retVal, p.buf.EmitNode(bytecode.OpNothing)) // 4

	case opByte == '?' && lazy:
		// (x)??
		p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, 0)  // 2,4
		p.buf.Insert(bytecode.OpNothing, retVal, 0, 0, 0) // 3
		next := p.buf.EmitNode(bytecode.OpNothing)        // 1,2,3
		p.buf.OffsetTail(retVal, 2*bytecode.NodeSize, next) // 1
		p.buf.OffsetTail(retVal, bytecode.NodeSize, next)   // 2
		p.buf.Tail(retVal, next)                            // 3
		p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, 0)    // 4
		p.buf.Tail(retVal, retVal+2*bytecode.NodeSize)      // 4

	case opByte == '?':
		// (x)?
		p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, 0) // 1
		p.buf.Tail(retVal, p.buf.EmitNode(bytecode.OpBranch)) // 1
		next := p.buf.EmitNode(bytecode.OpNothing)            // 2,3
		p.buf.Tail(retVal, next)                              // 2
		p.buf.OffsetTail(retVal, bytecode.NodeSize, next)      // 3

	case opByte == '{' && minV == maxV:
		// (x){m}, (x){m}?, (x){m,m}, (x){m,m}?
		p.buf.Tail(retVal, p.buf.EmitSpecial(bytecode.OpIncCount, 0, uint8(p.numBraces)))           // 1
		p.buf.Tail(retVal, p.buf.EmitSpecial(bytecode.OpTestCount, conv.IntToUint16(minV), uint8(p.numBraces))) // 2
		p.buf.Tail(p.buf.EmitNode(bytecode.OpBack), retVal)                                           // 3
		p.buf.Tail(retVal, p.buf.EmitNode(bytecode.OpNothing))                                        // 4
		next := p.buf.Insert(bytecode.OpInitCount, retVal, 0, 0, uint8(p.numBraces))                  // 5
		p.buf.Tail(retVal, next)                                                                      // 5
		p.numBraces++

	case opByte == '{' && lazy:
		switch {
		case minV == 0 && maxV != -1:
			// (x){0,n}? or {,n}?
			p.buf.Tail(retVal, p.buf.EmitSpecial(bytecode.OpIncCount, 0, uint8(p.numBraces))) // 1
			next := p.buf.EmitSpecial(bytecode.OpTestCount, conv.IntToUint16(minV), uint8(p.numBraces)) // 2,7
			p.buf.Tail(retVal, next)                                                          // 2
			p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, uint8(p.numBraces))                  // 4,6
			p.buf.Insert(bytecode.OpNothing, retVal, 0, 0, uint8(p.numBraces))                 // 5
			p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, uint8(p.numBraces))                  // 3,4,8
			p.buf.Tail(p.buf.EmitNode(bytecode.OpBack), retVal)                                // 3
			p.buf.Tail(retVal, retVal+2*bytecode.NodeSize)                                     // 4
			next2 := p.buf.EmitNode(bytecode.OpNothing)                                        // 5,6,7
			p.buf.OffsetTail(retVal, bytecode.NodeSize, next2)                                 // 5
			p.buf.OffsetTail(retVal, 2*bytecode.NodeSize, next2)                               // 6
			p.buf.OffsetTail(retVal, 3*bytecode.NodeSize, next2)                               // 7
			next3 := p.buf.Insert(bytecode.OpInitCount, retVal, 0, 0, uint8(p.numBraces))      // 8
			p.buf.Tail(retVal, next3)                                                          // 8

		case minV > 0 && maxV == -1:
			// (x){m,}?
			p.buf.Tail(retVal, p.buf.EmitSpecial(bytecode.OpIncCount, 0, uint8(p.numBraces))) // 1
			next := p.buf.EmitSpecial(bytecode.OpTestCount, conv.IntToUint16(minV), uint8(p.numBraces)) // 2,4
			p.buf.Tail(retVal, next)                                                          // 2
			p.buf.Tail(p.buf.EmitNode(bytecode.OpBack), retVal)                                // 3
			p.buf.Tail(retVal, p.buf.EmitNode(bytecode.OpBack))                                 // 4
			p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, 0)                                    // 5,7
			p.buf.Insert(bytecode.OpNothing, retVal, 0, 0, 0)                                   // 6
			next2 := p.buf.EmitNode(bytecode.OpNothing)                                         // 5,6
			p.buf.OffsetTail(retVal, bytecode.NodeSize, next2)                                  // 5
			p.buf.Tail(retVal, next2)                                                           // 6
			p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, 0)                                    // 7,8
			p.buf.Tail(retVal, retVal+2*bytecode.NodeSize)                                      // 7
			p.buf.OffsetTail(retVal, 3*bytecode.NodeSize, retVal)                               // 8
			p.buf.Insert(bytecode.OpInitCount, retVal, 0, 0, uint8(p.numBraces))                // 9
			p.buf.Tail(retVal, retVal+bytecode.CountIndexSize+4*bytecode.NodeSize)              // 9

		default:
			// (x){m,n}?
			p.buf.Tail(retVal, p.buf.EmitSpecial(bytecode.OpIncCount, 0, uint8(p.numBraces))) // 1
			next := p.buf.EmitSpecial(bytecode.OpTestCount, conv.IntToUint16(maxV), uint8(p.numBraces)) // 2,7
			p.buf.Tail(retVal, next)                                                          // 2
			next2 := p.buf.EmitSpecial(bytecode.OpTestCount, conv.IntToUint16(minV), uint8(p.numBraces)) // 4
			p.buf.Tail(p.buf.EmitNode(bytecode.OpBack), retVal)                                 // 3
			p.buf.Tail(next2, p.buf.EmitNode(bytecode.OpBack))                                  // 4
			p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, 0)                                    // 6,8
			p.buf.Insert(bytecode.OpNothing, retVal, 0, 0, 0)                                   // 5
			p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, 0)                                    // 8,9
			next3 := p.buf.EmitNode(bytecode.OpNothing)                                         // 5,6,7
			p.buf.OffsetTail(retVal, bytecode.NodeSize, next3)                                  // 5
			p.buf.OffsetTail(retVal, 2*bytecode.NodeSize, next3)                                // 6
			p.buf.OffsetTail(retVal, 3*bytecode.NodeSize, next3)                                // 7
			p.buf.Tail(retVal, retVal+2*bytecode.NodeSize)                                      // 8
			p.buf.OffsetTail(next3, -bytecode.NodeSize, retVal)                                 // 9
			p.buf.Insert(bytecode.OpInitCount, retVal, 0, 0, uint8(p.numBraces))                // 10
			p.buf.Tail(retVal, retVal+bytecode.CountIndexSize+4*bytecode.NodeSize)              // 10
		}
		p.numBraces++

	case opByte == '{':
		switch {
		case minV == 0 && maxV != -1:
			// (x){0,n} or {,n}
			p.buf.Tail(retVal, p.buf.EmitSpecial(bytecode.OpIncCount, 0, uint8(p.numBraces))) // 1
			next := p.buf.EmitSpecial(bytecode.OpTestCount, conv.IntToUint16(maxV), uint8(p.numBraces)) // 2,6
			p.buf.Tail(retVal, next)                                                          // 2
			p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, 0)                                   // 3,4,7
			p.buf.Tail(p.buf.EmitNode(bytecode.OpBack), retVal)                                 // 3
			next2 := p.buf.EmitNode(bytecode.OpBranch)                                          // 4,5
			p.buf.Tail(retVal, next2)                                                           // 4
			p.buf.Tail(next2, p.buf.EmitNode(bytecode.OpNothing))                                // 5,6
			p.buf.OffsetTail(retVal, bytecode.NodeSize, next2)                                   // 6
			next3 := p.buf.Insert(bytecode.OpInitCount, retVal, 0, 0, uint8(p.numBraces))       // 7
			p.buf.Tail(retVal, next3)                                                           // 7

		case minV > 0 && maxV == -1:
			// (x){m,}
			p.buf.Tail(retVal, p.buf.EmitSpecial(bytecode.OpIncCount, 0, uint8(p.numBraces))) // 1
			next := p.buf.EmitSpecial(bytecode.OpTestCount, conv.IntToUint16(minV), uint8(p.numBraces)) // 2
			p.buf.Tail(retVal, next)                                                          // 2
			p.buf.Tail(p.buf.EmitNode(bytecode.OpBack), retVal)                                // 3
			p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, 0)                                    // 4,6
			next2 := p.buf.EmitNode(bytecode.OpBack)                                            // 4
			p.buf.Tail(next2, retVal)                                                           // 4
			p.buf.OffsetTail(retVal, bytecode.NodeSize, next2)                                  // 5
			p.buf.Tail(retVal, p.buf.EmitNode(bytecode.OpBranch))                                 // 6
			p.buf.Tail(retVal, p.buf.EmitNode(bytecode.OpNothing))                                // 7
			p.buf.Insert(bytecode.OpInitCount, retVal, 0, 0, uint8(p.numBraces))                 // 8
			p.buf.Tail(retVal, retVal+bytecode.CountIndexSize+2*bytecode.NodeSize)               // 8

		default:
			// (x){m,n}
			p.buf.Tail(retVal, p.buf.EmitSpecial(bytecode.OpIncCount, 0, uint8(p.numBraces))) // 1
			next := p.buf.EmitSpecial(bytecode.OpTestCount, conv.IntToUint16(maxV), uint8(p.numBraces)) // 2,4
			p.buf.Tail(retVal, next)                                                          // 2
			next2 := p.buf.EmitSpecial(bytecode.OpTestCount, conv.IntToUint16(minV), uint8(p.numBraces)) // 4
			p.buf.Tail(p.buf.EmitNode(bytecode.OpBack), retVal)                                 // 3
			p.buf.Tail(next2, p.buf.EmitNode(bytecode.OpBack))                                  // 4
			p.buf.Insert(bytecode.OpBranch, retVal, 0, 0, 0)                                    // 5,6
			next3 := p.buf.EmitNode(bytecode.OpBranch)                                          // 5,8
			p.buf.Tail(retVal, next3)                                                           // 5
			p.buf.OffsetTail(next3, -bytecode.NodeSize, retVal)                                 // 6
			next4 := p.buf.EmitNode(bytecode.OpNothing)                                         // 7,8
			p.buf.OffsetTail(retVal, bytecode.NodeSize, next4)                                  // 7
			p.buf.OffsetTail(next4, -bytecode.NodeSize, next4)                                  // 8
			p.buf.Insert(bytecode.OpInitCount, retVal, 0, 0, uint8(p.numBraces))                // 9
			p.buf.Tail(retVal, retVal+bytecode.CountIndexSize+2*bytecode.NodeSize)              // 9
		}
		p.numBraces++

	default:
		p.fail(QuantifierFollowsNothing, "internal error: unrecognized quantifier lowering")
	}

	if isQuantifierByte(p.peek()) {
		p.fail(NestedQuantifiers, "nested quantifiers")
	}

	return retVal, flags, rng
}
