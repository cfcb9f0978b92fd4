package vm

import "github.com/coregx/editre/internal/bytecode"

// matchLookAhead implements POS_AHEAD_OPEN/NEG_AHEAD_OPEN: the body is tried
// starting at the current cursor with the logical end pushed out to the
// true end of the subject (a look-ahead may peek past whatever end the
// enclosing match was bounded to), then the cursor is restored regardless
// of outcome since look-around never consumes input.
//
// Grounded on RegExp.cpp's match() POS_AHEAD_OPEN/NEG_AHEAD_OPEN handling.
func (s *state) matchLookAhead(scan int, positive bool) bool {
	savePos := s.pos
	saveEnd := s.end

	s.end = len(s.subject)
	bodyOK := s.match(scan + bytecode.NodeSize)
	reached := s.pos

	s.pos = savePos
	s.end = saveEnd

	success := bodyOK == positive
	if success && reached > s.fwExtent {
		s.fwExtent = reached
	}
	return success
}

// matchLookBehind implements POS_BEHIND_OPEN/NEG_BEHIND_OPEN: the body's
// [lo,hi] match-length range (baked in at compile time by SetBehindBounds)
// bounds how far back a candidate start can be; each candidate is tried
// with the logical end tightened to the look-around's own start so the body
// cannot overshoot into it.
func (s *state) matchLookBehind(scan int, positive bool) bool {
	operand := bytecode.OperandOf(s.buf, scan)
	lo := int(operand[0])<<8 | int(operand[1])
	hi := int(operand[2])<<8 | int(operand[3])

	save := s.pos
	saveEnd := s.end

	found := false
	reachedStart := save
	for offset := lo; offset <= hi; offset++ {
		start := save - offset
		if start < s.lookBehindTo || start < 0 {
			continue
		}
		s.pos = start
		s.end = save
		ok := s.match(scan + bytecode.NodeSize + bytecode.BehindBoundsOperandSize)
		if ok && s.pos == save {
			found = true
			reachedStart = start
			break
		}
	}

	s.pos = save
	s.end = saveEnd

	success := found == positive
	if success && positive {
		if s.bwExtent < 0 || reachedStart < s.bwExtent {
			s.bwExtent = reachedStart
		}
	}
	return success
}

// skipLookAround walks the NEXT chain starting at a look-around OPEN node
// (which already threads through its branch alternatives, same as any
// disjunction) until it reaches the matching CLOSE node, then returns that
// CLOSE node's own NEXT -- the node the enclosing pattern actually
// continues at once the look-around's pass/fail verdict has been decided.
func (s *state) skipLookAround(openPos int, closeOp bytecode.Op) int {
	scan := openPos
	for scan >= 0 {
		if s.buf.Op(scan) == closeOp {
			return s.buf.NextPtr(scan)
		}
		scan = s.buf.NextPtr(scan)
	}
	return -1
}
