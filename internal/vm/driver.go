package vm

import (
	"github.com/coregx/editre/internal/bytecode"
	"github.com/sirupsen/logrus"
)

// startNode is the offset of the top-level chunk's first node; Program.Code
// always begins there; there is no leading preamble to skip the way the
// reference format's MAGIC/paren-count/brace-count header bytes do (those
// live in Program's typed fields instead).
const startNode = 0

// Exec runs the scanning driver: it repositions the matcher at successive
// candidate start positions -- anchored, match-start-filtered, or
// exhaustive, forward or reverse -- until attempt succeeds or the
// candidates are exhausted.
//
// Grounded on RegExp.cpp's ExecRE() and attempt().
func Exec(prog *bytecode.Program, subject []byte, opts Options, log logrus.FieldLogger) (*Result, bool) {
	s := newState(prog, subject, opts, log)
	bound := s.end
	if bound > len(subject) {
		bound = len(subject)
	}

	try := func(pos int) (*Result, bool) {
		if s.attempt(pos) {
			return s.result(pos), true
		}
		return nil, false
	}

	if !opts.Reverse {
		return execForward(s, subject, prog, bound, try)
	}
	return execReverse(s, subject, prog, bound, try)
}

func execForward(s *state, subject []byte, prog *bytecode.Program, bound int, try func(int) (*Result, bool)) (*Result, bool) {
	switch {
	case prog.Anchored:
		if r, ok := try(0); ok {
			return r, true
		}
		pos := 0
		for ; pos < bound && !s.corrupted; pos++ {
			if subject[pos] == '\n' {
				if r, ok := try(pos + 1); ok {
					return r, true
				}
			}
		}
		return nil, false

	case prog.MatchStart != 0:
		for pos := 0; pos < bound && !s.corrupted; pos++ {
			if subject[pos] == prog.MatchStart {
				if r, ok := try(pos); ok {
					return r, true
				}
			}
		}
		return nil, false

	default:
		pos := 0
		for ; pos < bound && !s.corrupted; pos++ {
			if r, ok := try(pos); ok {
				return r, true
			}
		}
		// A lone "$" (or any all-zero-width pattern) can still match right
		// at the logical end even when the loop above never reached it --
		// bound may sit short of len(subject), or len(subject) itself may
		// never be visited if bound == len(subject) and the loop already
		// stopped one short of it.
		if !s.corrupted && pos <= len(subject) && pos >= bound {
			if r, ok := try(pos); ok {
				return r, true
			}
		}
		return nil, false
	}
}

func execReverse(s *state, subject []byte, prog *bytecode.Program, bound int, try func(int) (*Result, bool)) (*Result, bool) {
	switch {
	case prog.Anchored:
		for pos := bound - 1; pos >= 0 && !s.corrupted; pos-- {
			if subject[pos] == '\n' {
				if r, ok := try(pos + 1); ok {
					return r, true
				}
			}
		}
		if !s.corrupted {
			if r, ok := try(0); ok {
				return r, true
			}
		}
		return nil, false

	case prog.MatchStart != 0:
		for pos := bound; pos >= 0 && !s.corrupted; pos-- {
			if pos < len(subject) && subject[pos] == prog.MatchStart {
				if r, ok := try(pos); ok {
					return r, true
				}
			}
		}
		return nil, false

	default:
		for pos := bound; pos >= 0 && !s.corrupted; pos-- {
			if r, ok := try(pos); ok {
				return r, true
			}
		}
		return nil, false
	}
}

// attempt seeds the matcher at a single candidate start position, resetting
// the per-attempt capture and extent bookkeeping the way RegExp.cpp's
// attempt() resets its start/end pointer arrays before each try.
func (s *state) attempt(start int) bool {
	s.pos = start
	s.depth = 0
	s.fwExtent = -1
	s.bwExtent = start
	s.topBranch = 0

	for i := 0; i <= maxParen; i++ {
		s.startPtr[i] = 0
		s.endPtr[i] = 0
		s.filled[i] = false
		s.endFilled[i] = false
	}
	for i := 1; i <= 9; i++ {
		s.backRefStart[i] = -1
		s.backRefEnd[i] = -1
	}

	return s.match(startNode)
}

// result packages a successful attempt's captures into a Result. Group 0
// (the whole match) is filled in directly from the attempt's start position
// and the matcher's final cursor, matching the reference engine's treatment
// of startp_[0]/endp_[0] as special-cased rather than written by an OPEN/
// CLOSE node (those opcodes only exist for groups 1..MaxParen).
func (s *state) result(start int) *Result {
	r := &Result{
		FWExtent:  s.fwExtent,
		BWExtent:  s.bwExtent,
		TopBranch: s.topBranch,
	}
	r.Start[0] = start
	r.End[0] = s.pos
	r.Filled[0] = true
	for i := 1; i <= maxParen; i++ {
		r.Start[i] = s.startPtr[i]
		r.End[i] = s.endPtr[i]
		r.Filled[i] = s.filled[i]
	}
	return r
}
