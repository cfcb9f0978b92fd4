package compiler

import (
	"testing"

	"github.com/coregx/editre/internal/bytecode"
	"github.com/stretchr/testify/require"
)

func compileOK(t *testing.T, pattern string, flags uint32) *bytecode.Program {
	t.Helper()
	prog, err := Compile([]byte(pattern), flags, nil)
	require.NoError(t, err, "pattern %q should compile", pattern)
	require.NotNil(t, prog)
	require.NoError(t, prog.Validate())
	return prog
}

func TestCompileAcceptsBasicPatterns(t *testing.T) {
	cases := []string{
		`abc`,
		`a|b|c`,
		`a*b+c?`,
		`a{2,4}`,
		`(foo)(bar)`,
		`(?:foo)`,
		`(?=foo)bar`,
		`(?!foo)bar`,
		`(?<=foo)bar`,
		`(?<!foo)bar`,
		`[a-z0-9_]+`,
		`[^a-z]`,
		`\d+\s*\w*`,
		`^anchored$`,
		`<word>`,
	}
	for _, p := range cases {
		p := p
		t.Run(p, func(t *testing.T) {
			compileOK(t, p, FlagStandard)
		})
	}
}

func TestCompileBackReferenceRequiresClosedGroup(t *testing.T) {
	_, err := Compile([]byte(`\1`), FlagStandard, nil)
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	require.Equal(t, IllegalBackReference, ce.Code)

	compileOK(t, `(a)\1`, FlagStandard)
}

func TestCompileRejectsUnbalancedParens(t *testing.T) {
	_, err := Compile([]byte(`(a`), FlagStandard, nil)
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	require.Equal(t, MissingRightParen, ce.Code)

	_, err = Compile([]byte(`a)`), FlagStandard, nil)
	require.Error(t, err)
	ce, ok = err.(*CompileError)
	require.True(t, ok)
	require.Equal(t, MissingLeftParen, ce.Code)
}

func TestCompileRejectsQuantifierFollowsNothing(t *testing.T) {
	for _, p := range []string{`*`, `+`, `?`, `(?:)*`} {
		_, err := Compile([]byte(p), FlagStandard, nil)
		require.Errorf(t, err, "pattern %q should be rejected", p)
	}
}

func TestCompileRejectsNestedQuantifiers(t *testing.T) {
	_, err := Compile([]byte(`a**`), FlagStandard, nil)
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	require.Equal(t, NestedQuantifiers, ce.Code)
}

func TestCompileRejectsZeroZeroBrace(t *testing.T) {
	for _, p := range []string{`a{0,0}`, `(?:a){0,0}`} {
		_, err := Compile([]byte(p), FlagStandard, nil)
		require.Errorf(t, err, "pattern %q should be rejected", p)
	}
}

func TestCompileRejectsUnboundedLookbehind(t *testing.T) {
	_, err := Compile([]byte(`(?<=a*)b`), FlagStandard, nil)
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	require.Equal(t, LookbehindUnbounded, ce.Code)
}

func TestCompileTooManyParens(t *testing.T) {
	pattern := ""
	for i := 0; i < maxParen+1; i++ {
		pattern += "(a)"
	}
	_, err := Compile([]byte(pattern), FlagStandard, nil)
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	require.Equal(t, TooManyParens, ce.Code)
}

func TestCompileAllowsMaxParens(t *testing.T) {
	pattern := ""
	for i := 0; i < maxParen; i++ {
		pattern += "(a)"
	}
	compileOK(t, pattern, FlagStandard)
}

func TestCompileEmptyPattern(t *testing.T) {
	_, err := Compile(nil, FlagStandard, nil)
	require.Error(t, err)
	ce, ok := err.(*CompileError)
	require.True(t, ok)
	require.Equal(t, NullPattern, ce.Code)
}
