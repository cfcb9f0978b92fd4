// Package editre is a byte-oriented regular expression engine: a
// recursive-descent compiler targeting a compact bytecode, and a
// backtracking virtual machine that executes it.
//
// Basic usage:
//
//	re, err := editre.Compile(`\d+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.Match([]byte("order 42")) {
//	    fmt.Println("matched!")
//	}
//
// Advanced usage:
//
//	cfg := editre.DefaultConfig()
//	cfg.Flags = editre.REDFLTCaseInsensitive
//	re, err := editre.CompileWithConfig(`[a-z]+@[a-z]+\.[a-z]+`, cfg)
package editre

import (
	"io"

	"github.com/coregx/editre/internal/bytecode"
	"github.com/coregx/editre/internal/classes"
	"github.com/coregx/editre/internal/compiler"
	"github.com/coregx/editre/internal/subst"
	"github.com/coregx/editre/internal/vm"
	"github.com/sirupsen/logrus"
)

// Flags selects compile-time pattern behavior.
type Flags uint32

const (
	// REDFLTStandard is the default: case-sensitive, '.' does not match '\n'.
	REDFLTStandard Flags = Flags(compiler.FlagStandard)
	// REDFLTCaseInsensitive folds ASCII letter case during matching.
	REDFLTCaseInsensitive Flags = Flags(compiler.FlagCaseInsensitive)
)

// Config controls how a pattern is compiled and how the resulting Regexp
// reports diagnostics.
type Config struct {
	Flags      Flags
	Delimiters []byte         // overrides the process default word-delimiter table
	Logger     *logrus.Logger // diagnostic sink; nil means discard
}

// DefaultConfig returns the zero-value configuration: standard flags, the
// process-wide default delimiter table, and a discarding logger.
func DefaultConfig() Config {
	return Config{Flags: REDFLTStandard}
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Regexp is a compiled pattern, safe for concurrent use by multiple
// goroutines: every Exec call builds its own execution state, and the only
// state Regexp itself holds after compilation is immutable.
type Regexp struct {
	prog   *bytecode.Program
	delims *classes.DelimiterTable
	log    *logrus.Logger
}

// Compile compiles pattern with the default configuration.
func Compile(pattern string) (*Regexp, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics if pattern fails to compile. Useful
// for patterns known to be valid at init time.
func MustCompile(pattern string) *Regexp {
	re, err := Compile(pattern)
	if err != nil {
		panic("editre: Compile(" + pattern + "): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles pattern under cfg.
func CompileWithConfig(pattern string, cfg Config) (*Regexp, error) {
	log := cfg.Logger
	if log == nil {
		log = discardLogger()
	}

	prog, err := compiler.Compile([]byte(pattern), uint32(cfg.Flags), log)
	if err != nil {
		return nil, err
	}

	var delims *classes.DelimiterTable
	if cfg.Delimiters != nil {
		delims = classes.Make(cfg.Delimiters)
	}

	return &Regexp{prog: prog, delims: delims, log: log}, nil
}

// SetDefaultWordDelimiters installs a new process-wide default
// word-delimiter table, used by every Regexp that doesn't set
// Config.Delimiters. This is the only mutable state editre shares across
// independent compilations.
func SetDefaultWordDelimiters(delims []byte) {
	classes.SetDefault(delims)
}

// ExecOptions mirrors the parameters the reference engine's ExecRE threads
// through a single execution: the logical bounds of the subject, scan
// direction, the synthetic boundary characters used when subject is a
// window into a larger buffer, and a one-off delimiter table override.
type ExecOptions struct {
	End          *int
	LookBehindTo *int
	MatchTo      *int
	Reverse      bool
	PrevChar     byte
	SuccChar     byte
	Delimiters   []byte
}

// Captures holds the spans a successful Exec produced: group 0 is the whole
// match, groups 1..49 are user capture groups (unfilled if their
// alternative never ran).
type Captures struct {
	result  *vm.Result
	subject []byte
}

// Start returns the byte offset group i started at, or -1 if group i was
// never filled.
func (c *Captures) Start(i int) int {
	if c == nil || i < 0 || i >= len(c.result.Filled) || !c.result.Filled[i] {
		return -1
	}
	return c.result.Start[i]
}

// End returns the byte offset one past where group i ended, or -1 if group
// i was never filled.
func (c *Captures) End(i int) int {
	if c == nil || i < 0 || i >= len(c.result.Filled) || !c.result.Filled[i] {
		return -1
	}
	return c.result.End[i]
}

// Filled reports whether group i participated in the match.
func (c *Captures) Filled(i int) bool {
	if c == nil || i < 0 || i >= len(c.result.Filled) {
		return false
	}
	return c.result.Filled[i]
}

// TopBranch returns the zero-based index of the top-level '|' alternative
// that matched, for callers (e.g. syntax highlighters) that dispatch on
// which branch of the pattern fired.
func (c *Captures) TopBranch() int {
	if c == nil {
		return 0
	}
	return c.result.TopBranch
}

// FWExtent and BWExtent report how far look-ahead/look-behind assertions
// consulted beyond the match proper, mirroring the reference engine's
// extentpFW_/extentpBW_.
func (c *Captures) FWExtent() int { return c.result.FWExtent }
func (c *Captures) BWExtent() int { return c.result.BWExtent }

// Exec runs the scanning driver against subject and returns the captures of
// the first match found, or nil if the pattern didn't match anywhere.
func (re *Regexp) Exec(subject []byte, opts ExecOptions) (*Captures, error) {
	vmOpts := vm.Options{
		End:          opts.End,
		Reverse:      opts.Reverse,
		PrevChar:     opts.PrevChar,
		SuccChar:     opts.SuccChar,
		LookBehindTo: opts.LookBehindTo,
		MatchTo:      opts.MatchTo,
	}
	if opts.Delimiters != nil {
		vmOpts.Delimiters = classes.Make(opts.Delimiters)
	} else {
		vmOpts.Delimiters = re.delims
	}

	result, ok := vm.Exec(re.prog, subject, vmOpts, re.log)
	if !ok {
		return nil, nil
	}
	return &Captures{result: result, subject: subject}, nil
}

// Match reports whether pattern matches anywhere in subject.
func (re *Regexp) Match(subject []byte) bool {
	caps, _ := re.Exec(subject, ExecOptions{})
	return caps != nil
}

// FindIndex returns a two-element [start, end) slice for the first match in
// subject, or nil if there is no match.
func (re *Regexp) FindIndex(subject []byte) []int {
	caps, _ := re.Exec(subject, ExecOptions{})
	if caps == nil {
		return nil
	}
	return []int{caps.Start(0), caps.End(0)}
}

// FindAllIndex returns the non-overlapping matches of pattern in subject, in
// order, each as a [start, end) pair. n bounds the number of matches
// returned; n < 0 means unlimited.
func (re *Regexp) FindAllIndex(subject []byte, n int) [][]int {
	var out [][]int
	pos := 0
	for n < 0 || len(out) < n {
		if pos > len(subject) {
			break
		}
		caps, _ := re.Exec(subject[pos:], ExecOptions{})
		if caps == nil {
			break
		}
		start, end := caps.Start(0)+pos, caps.End(0)+pos
		out = append(out, []int{start, end})
		if end == start {
			pos = end + 1 // always make forward progress on a zero-width match
		} else {
			pos = end
		}
	}
	return out
}

// Substitute expands template against cap's captured spans, writing into
// dst (dst's capacity bounds the output length). '&' is the whole match,
// '\1'..'\9' are group references, '\u'/'\U'/'\l'/'\L' convert the case of
// whatever follows. ok is false if the output had to be truncated.
func (re *Regexp) Substitute(template string, dst []byte, cap *Captures) (out []byte, ok bool) {
	if cap == nil {
		return subst.Substitute([]byte(template), nil, [subst.MaxGroup + 1]int{}, [subst.MaxGroup + 1]int{}, [subst.MaxGroup + 1]bool{}, dst)
	}
	return subst.Substitute([]byte(template), cap.subject, cap.result.Start, cap.result.End, cap.result.Filled, dst)
}
