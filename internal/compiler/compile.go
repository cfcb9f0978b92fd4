package compiler

import (
	"fmt"

	"github.com/coregx/editre/internal/bytecode"
	"github.com/sirupsen/logrus"
)

// Compile parses pattern and assembles it into a bytecode.Program, or
// returns a *CompileError describing the first problem the parser hit.
//
// Grounded on RegExp.cpp's CompileRE, including the exception-to-error-return
// boundary: the parser panics on any failure (see errors.go) and this is
// where that unwind is caught and turned into a normal Go error.
func Compile(pattern []byte, flags uint32, log logrus.FieldLogger) (prog *bytecode.Program, err error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if len(pattern) == 0 {
		return nil, &CompileError{Code: NullPattern, Pos: 0, Msg: "empty pattern"}
	}

	p := &parser{
		src:             pattern,
		buf:             bytecode.NewBuffer(),
		caseInsensitive: flags&FlagCaseInsensitive != 0,
		totalParen:      1, // paren 0 is reserved for the whole match
	}

	defer func() {
		if r := recover(); r != nil {
			ce, ok := r.(*CompileError)
			if !ok {
				panic(r)
			}
			err = ce
			prog = nil
		}
	}()

	retVal, _, _ := p.chunk(groupTop)

	if p.buf.Len() > bytecode.MaxCompiledSize {
		return nil, &CompileError{Code: RegexTooLarge, Pos: p.pos, Msg: fmt.Sprintf("compiled pattern is too big (max %d bytes)", bytecode.MaxCompiledSize)}
	}

	prog = &bytecode.Program{
		Code:      p.buf.Bytes(),
		NumParen:  p.totalParen - 1, // totalParen is the next free group index
		NumBraces: p.numBraces,
		Source:    string(pattern),
	}

	analyzeStart(prog, retVal)

	if verr := prog.Validate(); verr != nil {
		return nil, verr
	}

	log.WithFields(logrus.Fields{
		"pattern":    string(pattern),
		"bytes":      len(prog.Code),
		"groups":     prog.NumParen,
		"braces":     prog.NumBraces,
		"anchored":   prog.Anchored,
		"matchStart": prog.MatchStart,
	}).Debug("editre: compiled pattern")

	return prog, nil
}

// analyzeStart walks the top of the compiled program looking for a leading
// anchor or a mandatory literal prefix, populating Program.Anchored and
// Program.MatchStart so the scanning driver can skip positions a match can
// never start at.
//
// Grounded on RegExp.cpp's CompileRE's post-compile "regstart"/"reganch"
// analysis.
func analyzeStart(prog *bytecode.Program, first int) {
	buf := bytecode.WrapBuffer(prog.Code)

	scan := first
	for scan >= 0 {
		op := buf.Op(scan)
		switch op {
		case bytecode.OpBOL:
			prog.Anchored = true
			return
		// SIMILAR is not used as a hint: its operand is lower-cased while the
		// driver compares MatchStart against raw subject bytes.
		case bytecode.OpExactly:
			operand := prog.Operand(scan)
			if len(operand) > 0 {
				prog.MatchStart = operand[0]
			}
			return
		case bytecode.OpPlus:
			inner := scan + bytecode.NodeSize
			if buf.Op(inner) == bytecode.OpExactly {
				operand := prog.Operand(inner)
				if len(operand) > 0 {
					prog.MatchStart = operand[0]
				}
			}
			return
		case bytecode.OpBranch:
			// Only a single unbranching alternative lets us commit to a
			// start byte; more than one branch, bail without a hint.
			body := scan + bytecode.NodeSize
			if nxt := buf.NextPtr(scan); nxt < 0 || buf.Op(nxt) != bytecode.OpBranch {
				scan = body
				continue
			}
			return
		case bytecode.OpNothing:
			scan = buf.NextPtr(scan)
			continue
		default:
			return
		}
	}
}
