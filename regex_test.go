package editre_test

import (
	"testing"

	"github.com/coregx/editre"
	"github.com/stretchr/testify/require"
)

func TestCompileAndMatch(t *testing.T) {
	re, err := editre.Compile(`\d+`)
	require.NoError(t, err)
	require.True(t, re.Match([]byte("order 42")))
	require.False(t, re.Match([]byte("no digits here")))
}

func TestCompileReturnsCompileError(t *testing.T) {
	_, err := editre.Compile(`(a`)
	require.Error(t, err)
	ce, ok := err.(*editre.CompileError)
	require.True(t, ok)
	require.Equal(t, editre.ErrMissingRightParen, ce.Code)
}

func TestMustCompilePanicsOnBadPattern(t *testing.T) {
	require.Panics(t, func() {
		editre.MustCompile(`(a`)
	})
}

func TestMustCompileOKPattern(t *testing.T) {
	require.NotPanics(t, func() {
		editre.MustCompile(`\w+`)
	})
}

func TestFindIndex(t *testing.T) {
	re := editre.MustCompile(`bar`)
	loc := re.FindIndex([]byte("foobarbaz"))
	require.Equal(t, []int{3, 6}, loc)

	require.Nil(t, re.FindIndex([]byte("nope")))
}

func TestFindAllIndex(t *testing.T) {
	re := editre.MustCompile(`\d+`)
	locs := re.FindAllIndex([]byte("a1 b22 c333"), -1)
	require.Equal(t, [][]int{{1, 2}, {4, 6}, {8, 11}}, locs)
}

func TestFindAllIndexRespectsLimit(t *testing.T) {
	re := editre.MustCompile(`\d+`)
	locs := re.FindAllIndex([]byte("a1 b22 c333"), 2)
	require.Equal(t, [][]int{{1, 2}, {4, 6}}, locs)
}

func TestFindAllIndexMakesProgressOnZeroWidthMatch(t *testing.T) {
	re := editre.MustCompile(`x*`)
	locs := re.FindAllIndex([]byte("ab"), -1)
	require.NotEmpty(t, locs)
	// every match must advance pos, or this would loop forever
	for _, loc := range locs {
		require.LessOrEqual(t, loc[0], loc[1])
	}
}

func TestExecCaptures(t *testing.T) {
	re := editre.MustCompile(`(\w+)@(\w+)\.com`)
	caps, err := re.Exec([]byte("contact jane@example.com today"), editre.ExecOptions{})
	require.NoError(t, err)
	require.NotNil(t, caps)

	require.Equal(t, 8, caps.Start(0))
	require.True(t, caps.Filled(1))
	require.True(t, caps.Filled(2))
	require.False(t, caps.Filled(3))
	require.Equal(t, -1, caps.Start(3))
}

func TestExecNoMatchReturnsNilCaptures(t *testing.T) {
	re := editre.MustCompile(`zzz`)
	caps, err := re.Exec([]byte("abc"), editre.ExecOptions{})
	require.NoError(t, err)
	require.Nil(t, caps)
}

func TestCaseInsensitiveConfig(t *testing.T) {
	cfg := editre.DefaultConfig()
	cfg.Flags = editre.REDFLTCaseInsensitive
	re, err := editre.CompileWithConfig(`HELLO`, cfg)
	require.NoError(t, err)
	require.True(t, re.Match([]byte("say hello there")))
}

func TestSubstitute(t *testing.T) {
	re := editre.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	caps, err := re.Exec([]byte("2026-07-30"), editre.ExecOptions{})
	require.NoError(t, err)
	require.NotNil(t, caps)

	out, ok := re.Substitute(`\2/\3/\1`, make([]byte, 0, 32), caps)
	require.True(t, ok)
	require.Equal(t, "07/30/2026", string(out))
}

func TestSetDefaultWordDelimiters(t *testing.T) {
	// Installing a custom delimiter set is process-wide and should not
	// panic or otherwise disturb unrelated compiles.
	editre.SetDefaultWordDelimiters([]byte("#$"))
	re := editre.MustCompile(`<word>`)
	require.True(t, re.Match([]byte("a word here")))
}
