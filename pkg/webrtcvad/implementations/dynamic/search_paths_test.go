package dynamic

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchPaths(t *testing.T) {
	require.Equal(t, []string{"/a.so"}, SearchPaths("/a.so"))

	t.Setenv(EnvLibraryPath, "/b.so"+string(os.PathListSeparator)+"/c.so")
	require.Equal(t, []string{"/b.so", "/c.so"}, SearchPaths())

	t.Setenv(EnvLibraryPath, "")
	require.Equal(t, DefaultLibraryNames(), SearchPaths())
}
