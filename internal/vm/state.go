// Package vm implements the backtracking executor: the recursive matcher,
// its greedy/lazy quantifier loop, and the forward/reverse scanning driver
// that seeds it at each candidate start position.
//
// Grounded on original_source/regex/RegExp.cpp's match(), greedy(), and
// ExecRE().
package vm

import (
	"github.com/coregx/editre/internal/bytecode"
	"github.com/coregx/editre/internal/classes"
	"github.com/sirupsen/logrus"
)

// recursionLimit bounds match's recursion depth; the only cancellation
// mechanism the matcher has, mirroring the reference engine's fixed-depth
// guard against pathological patterns like (a|a|a|a)* against long input.
const recursionLimit = 10000

const maxParen = bytecode.MaxParen

// Options mirrors the fields ExecRE threads through a single execution.
type Options struct {
	End          *int // logical end; nil means len(subject)
	Reverse      bool
	PrevChar     byte
	SuccChar     byte
	Delimiters   *classes.DelimiterTable
	LookBehindTo *int // floor for look-behind; nil means 0
	MatchTo      *int // alias of End kept for parity with the spec's naming
}

// Result is what a successful exec produces: capture spans plus the two
// extent pointers and the winning top-level branch index.
type Result struct {
	Start, End [maxParen + 1]int
	Filled     [maxParen + 1]bool
	FWExtent   int
	BWExtent   int
	TopBranch  int
}

// state is the mutable execution context threaded through match, one per
// call to Exec. It must never be shared across concurrent executions of the
// same program, matching spec.md's re-entrancy carve-out (counters and
// delimiters are per-execution here, not process-wide).
type state struct {
	buf     *bytecode.Buffer
	subject []byte

	pos          int
	end          int
	lookBehindTo int

	prevChar byte
	succChar byte
	delims   *classes.DelimiterTable

	startPtr  [maxParen + 1]int
	endPtr    [maxParen + 1]int
	filled    [maxParen + 1]bool
	endFilled [maxParen + 1]bool

	backRefStart [10]int
	backRefEnd   [10]int

	counters []int

	depth int

	fwExtent int
	bwExtent int

	topBranch int

	reverse   bool
	corrupted bool

	log logrus.FieldLogger
}

func newState(prog *bytecode.Program, subject []byte, opts Options, log logrus.FieldLogger) *state {
	s := &state{
		buf:      bytecode.WrapBuffer(prog.Code),
		subject:  subject,
		prevChar: opts.PrevChar,
		succChar: opts.SuccChar,
		delims:   opts.Delimiters,
		reverse:  opts.Reverse,
		log:      log,
	}
	if s.delims == nil {
		s.delims = classes.Default()
	}
	if prog.NumBraces > 0 {
		s.counters = make([]int, prog.NumBraces)
	}
	s.end = len(subject)
	if opts.End != nil {
		s.end = *opts.End
	} else if opts.MatchTo != nil {
		s.end = *opts.MatchTo
	}
	if s.end > len(subject) {
		s.end = len(subject)
	}
	if opts.LookBehindTo != nil {
		s.lookBehindTo = *opts.LookBehindTo
	}
	for i := 1; i <= 9; i++ {
		s.backRefStart[i] = -1
		s.backRefEnd[i] = -1
	}
	return s
}

// byteAt returns the subject byte at i, bounded by the logical end of
// string (s.end) rather than the physical length of subject -- a caller may
// hand match() a slice that extends past where the pattern is allowed to
// read, e.g. during an incremental search over a larger buffer.
func (s *state) byteAt(i int) (byte, bool) {
	if i < 0 || i >= s.end {
		return 0, false
	}
	return s.subject[i], true
}

func (s *state) prevByte(pos int) byte {
	if pos <= 0 {
		return s.prevChar
	}
	return s.subject[pos-1]
}

func (s *state) nextByte(pos int) byte {
	if pos >= len(s.subject) {
		return s.succChar
	}
	return s.subject[pos]
}
