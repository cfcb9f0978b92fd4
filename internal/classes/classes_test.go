package classes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPredicates(t *testing.T) {
	require.True(t, Digit('5'))
	require.False(t, Digit('a'))

	require.True(t, Letter('Z'))
	require.False(t, Letter('9'))

	require.True(t, Word('_'))
	require.True(t, Word('9'))
	require.False(t, Word('-'))

	require.True(t, Space('\t'))
	require.False(t, Space('x'))
}

func TestSpaceCharsIncludesNewlineOnlyWhenRequested(t *testing.T) {
	require.NotContains(t, SpaceChars(false), "\n")
	require.Contains(t, SpaceChars(true), "\n")
}

func TestMakeAlwaysIncludesHardcodedDelimiters(t *testing.T) {
	table := Make([]byte("xyz"))
	for _, c := range []byte{'\x00', '\t', '\n', ' ', 'x', 'y', 'z'} {
		require.True(t, table[c], "expected %q to be a delimiter", c)
	}
	require.False(t, table['a'])
}

func TestSetDefaultInstallsNewTable(t *testing.T) {
	orig := Default()
	t.Cleanup(func() {
		defaultMu.Lock()
		defaultTable = orig
		defaultMu.Unlock()
	})

	SetDefault([]byte("#"))
	require.True(t, Default()['#'])
}
