package classpath

import (
	"io"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestOpen_FirstRootWins(t *testing.T) {
	t.Parallel()

	first := fstest.MapFS{"etc/motd": &fstest.MapFile{Data: []byte("from first")}}
	second := fstest.MapFS{"etc/motd": &fstest.MapFile{Data: []byte("from second")}}
	loader := NewLoader(first, second)

	r := loader.Open("etc/motd")
	require.NotNil(t, r)

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "from first", string(data))
}

func TestOpen_AbsentReturnsNilWithoutError(t *testing.T) {
	t.Parallel()

	loader := NewLoader(fstest.MapFS{})

	// Absence is a normal outcome, not an error: the caller registers the
	// nil as an explicitly-absent resource.
	require.Nil(t, loader.Open("does/not/exist"))
}

func TestOpenCount_TracksEveryRequest(t *testing.T) {
	t.Parallel()

	loader := NewLoader(fstest.MapFS{
		"a.txt": &fstest.MapFile{Data: []byte("a")},
	})

	require.Equal(t, 0, loader.OpenCount("a.txt"))
	loader.Open("a.txt")
	loader.Open("a.txt")
	loader.Open("missing.txt")

	require.Equal(t, 2, loader.OpenCount("a.txt"))
	require.Equal(t, 1, loader.OpenCount("missing.txt"), "misses count as requests too")
}
