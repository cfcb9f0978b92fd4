package subst

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func spans(pairs ...[2]int) (start, end [MaxGroup + 1]int, filled [MaxGroup + 1]bool) {
	for i, p := range pairs {
		start[i] = p[0]
		end[i] = p[1]
		filled[i] = true
	}
	return
}

func TestSubstituteWholeMatchAndGroups(t *testing.T) {
	subject := []byte("2026-07-30")
	start, end, filled := spans([2]int{0, 10}, [2]int{0, 4}, [2]int{5, 7}, [2]int{8, 10})

	out, ok := Substitute([]byte(`\2/\3/\1 (&)`), subject, start, end, filled, make([]byte, 0, 64))
	require.True(t, ok)
	require.Equal(t, "07/30/2026 (2026-07-30)", string(out))
}

func TestSubstituteUnfilledGroupIsSkipped(t *testing.T) {
	subject := []byte("abc")
	start, end, filled := spans([2]int{0, 3})

	out, ok := Substitute([]byte(`x\1y`), subject, start, end, filled, make([]byte, 0, 64))
	require.True(t, ok)
	require.Equal(t, "xy", string(out))
}

func TestSubstituteCaseConversionPrefixes(t *testing.T) {
	subject := []byte("hello world")
	start, end, filled := spans([2]int{0, 11}, [2]int{0, 5})

	out, ok := Substitute([]byte(`\u\1`), subject, start, end, filled, make([]byte, 0, 64))
	require.True(t, ok)
	require.Equal(t, "Hello", string(out))

	out, ok = Substitute([]byte(`\U\1`), subject, start, end, filled, make([]byte, 0, 64))
	require.True(t, ok)
	require.Equal(t, "HELLO", string(out))

	out, ok = Substitute([]byte(`\l&`), subject, start, end, filled, make([]byte, 0, 64))
	require.True(t, ok)
	require.Equal(t, "hello world", string(out))
}

func TestSubstituteCaseConversionOnLiteralChar(t *testing.T) {
	start, end, filled := spans()
	out, ok := Substitute([]byte(`\uhello`), nil, start, end, filled, make([]byte, 0, 16))
	require.True(t, ok)
	require.Equal(t, "Hello", string(out))
}

func TestSubstituteLiteralEscapes(t *testing.T) {
	start, end, filled := spans()
	out, ok := Substitute([]byte(`a\tb\nc`), nil, start, end, filled, make([]byte, 0, 16))
	require.True(t, ok)
	require.Equal(t, "a\tb\nc", string(out))
}

func TestSubstituteNumericEscapes(t *testing.T) {
	start, end, filled := spans()

	out, ok := Substitute([]byte(`\x41\x42`), nil, start, end, filled, make([]byte, 0, 16))
	require.True(t, ok)
	require.Equal(t, "AB", string(out))

	out, ok = Substitute([]byte(`\0101`), nil, start, end, filled, make([]byte, 0, 16))
	require.True(t, ok)
	require.Equal(t, "A", string(out))
}

func TestSubstituteTruncatesToDestCapacity(t *testing.T) {
	subject := []byte("abcdef")
	start, end, filled := spans([2]int{0, 6})

	out, ok := Substitute([]byte(`&&&`), subject, start, end, filled, make([]byte, 0, 4))
	require.False(t, ok)
	require.LessOrEqual(t, len(out), 4)
}

func TestSubstituteTrailingBackslashIsLiteral(t *testing.T) {
	start, end, filled := spans()
	out, ok := Substitute([]byte(`abc\`), nil, start, end, filled, make([]byte, 0, 16))
	require.True(t, ok)
	require.Equal(t, `abc\`, string(out))
}
