package vm_test

import (
	"testing"

	"github.com/coregx/editre/internal/bytecode"
	"github.com/coregx/editre/internal/compiler"
	"github.com/coregx/editre/internal/vm"
	"github.com/stretchr/testify/require"
)

func compileOK(t *testing.T, pattern string) *bytecode.Program {
	t.Helper()
	prog, err := compiler.Compile([]byte(pattern), compiler.FlagStandard, nil)
	require.NoError(t, err, "pattern %q should compile", pattern)
	return prog
}

func exec(t *testing.T, pattern, subject string) (*vm.Result, bool) {
	t.Helper()
	prog := compileOK(t, pattern)
	return vm.Exec(prog, []byte(subject), vm.Options{}, nil)
}

func TestExecLiteralMatch(t *testing.T) {
	r, ok := exec(t, `bar`, "foobarbaz")
	require.True(t, ok)
	require.Equal(t, 3, r.Start[0])
	require.Equal(t, 6, r.End[0])
}

func TestExecNoMatch(t *testing.T) {
	_, ok := exec(t, `xyz`, "foobar")
	require.False(t, ok)
}

func TestExecGreedyStarConsumesMaximal(t *testing.T) {
	r, ok := exec(t, `a*`, "aaab")
	require.True(t, ok)
	require.Equal(t, 0, r.Start[0])
	require.Equal(t, 3, r.End[0])
}

func TestExecLazyStarConsumesMinimal(t *testing.T) {
	r, ok := exec(t, `a*?`, "aaab")
	require.True(t, ok)
	require.Equal(t, 0, r.Start[0])
	require.Equal(t, 0, r.End[0])
}

func TestExecGreedyVsLazyBrace(t *testing.T) {
	r, ok := exec(t, `a{1,3}`, "aaaa")
	require.True(t, ok)
	require.Equal(t, 3, r.End[0]-r.Start[0])

	r, ok = exec(t, `a{1,3}?`, "aaaa")
	require.True(t, ok)
	require.Equal(t, 1, r.End[0]-r.Start[0])
}

func TestExecCaptureGroupsStartAtOne(t *testing.T) {
	r, ok := exec(t, `(foo)(bar)`, "foobar")
	require.True(t, ok)
	require.True(t, r.Filled[0])
	require.Equal(t, 0, r.Start[0])
	require.Equal(t, 6, r.End[0])

	require.True(t, r.Filled[1])
	require.Equal(t, 0, r.Start[1])
	require.Equal(t, 3, r.End[1])

	require.True(t, r.Filled[2])
	require.Equal(t, 3, r.Start[2])
	require.Equal(t, 6, r.End[2])
}

func TestExecRepeatedCaptureGroupKeepsLastIterationSpan(t *testing.T) {
	// a(b|c)+d against abccbd: the '+' runs three iterations over "b","c","b"
	// before 'd' matches. OPEN/CLOSE for group 1 re-execute each iteration and
	// commit on stack unwind (innermost/last-iteration frame first), so the
	// guarded write must let that last iteration ("b" at [4,5)) win for both
	// the start and the end -- not just the start.
	r, ok := exec(t, `a(b|c)+d`, "abccbd")
	require.True(t, ok)
	require.True(t, r.Filled[1])
	require.Equal(t, 4, r.Start[1])
	require.Equal(t, 5, r.End[1])

	// TopBranch tracks which alternative won at the pattern's own top level;
	// the '|' here is nested inside the quantified group, so it never touches
	// TopBranch. With no top-level
	// alternation in this pattern, TopBranch just stays at its zero default.
	require.Equal(t, 0, r.TopBranch)
}

func TestExecAlternationRecordsTopBranch(t *testing.T) {
	r, ok := exec(t, `cat|dog|bird`, "dog")
	require.True(t, ok)
	require.Equal(t, 1, r.TopBranch)

	r, ok = exec(t, `cat|dog|bird`, "bird")
	require.True(t, ok)
	require.Equal(t, 2, r.TopBranch)
}

func TestExecBackReference(t *testing.T) {
	r, ok := exec(t, `(ab)\1`, "abab")
	require.True(t, ok)
	require.Equal(t, 0, r.Start[0])
	require.Equal(t, 4, r.End[0])

	_, ok = exec(t, `(ab)\1`, "abcd")
	require.False(t, ok)
}

func TestExecPositiveLookahead(t *testing.T) {
	r, ok := exec(t, `foo(?=bar)`, "foobar")
	require.True(t, ok)
	require.Equal(t, 0, r.Start[0])
	require.Equal(t, 3, r.End[0]) // lookahead is zero-width, not part of the match

	_, ok = exec(t, `foo(?=bar)`, "foobaz")
	require.False(t, ok)
}

func TestExecNegativeLookahead(t *testing.T) {
	_, ok := exec(t, `foo(?!bar)`, "foobar")
	require.False(t, ok)

	r, ok := exec(t, `foo(?!bar)`, "foobaz")
	require.True(t, ok)
	require.Equal(t, 3, r.End[0])
}

func TestExecPositiveLookbehind(t *testing.T) {
	r, ok := exec(t, `(?<=foo)bar`, "foobar")
	require.True(t, ok)
	require.Equal(t, 3, r.Start[0])
	require.Equal(t, 6, r.End[0])

	_, ok = exec(t, `(?<=foo)bar`, "xxxbar")
	require.False(t, ok)
}

func TestExecNegativeLookbehind(t *testing.T) {
	_, ok := exec(t, `(?<!foo)bar`, "foobar")
	require.False(t, ok)

	r, ok := exec(t, `(?<!foo)bar`, "xxxbar")
	require.True(t, ok)
	require.Equal(t, 3, r.Start[0])
}

func TestExecAnchors(t *testing.T) {
	r, ok := exec(t, `^abc$`, "abc")
	require.True(t, ok)
	require.Equal(t, 0, r.Start[0])
	require.Equal(t, 3, r.End[0])

	_, ok = exec(t, `^abc$`, "xabc")
	require.False(t, ok)
}

func TestExecCaseInsensitive(t *testing.T) {
	prog, err := compiler.Compile([]byte(`HELLO`), compiler.FlagCaseInsensitive, nil)
	require.NoError(t, err)

	r, ok := vm.Exec(prog, []byte("say hello there"), vm.Options{}, nil)
	require.True(t, ok)
	require.Equal(t, 4, r.Start[0])
	require.Equal(t, 9, r.End[0])
}

func TestExecReverseSearch(t *testing.T) {
	prog := compileOK(t, `a+`)
	r, ok := vm.Exec(prog, []byte("aaa bbb aaa"), vm.Options{Reverse: true}, nil)
	require.True(t, ok)
	// A reverse search walks candidate start positions from the end of the
	// subject backward and still matches forward from whichever start it
	// tries first to succeed -- here that is the very last 'a', not the
	// start of the final run.
	require.Equal(t, 10, r.Start[0])
	require.Equal(t, 11, r.End[0])
}

func TestExecWordBoundary(t *testing.T) {
	r, ok := exec(t, `<cat>`, "a cat sat")
	require.True(t, ok)
	require.Equal(t, 2, r.Start[0])
	require.Equal(t, 5, r.End[0])

	_, ok = exec(t, `<cat>`, "concatenate")
	require.False(t, ok)
}
