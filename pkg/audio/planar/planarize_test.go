package planar

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

func clean(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestPlanarize(t *testing.T) {
	b := must(hex.DecodeString(clean("0001 1011 0203 1213 0405 1415")))
	r := make([]byte, len(b))
	err := Planarize(2, 2, r, b)
	require.NoError(t, err)
	require.Equal(t, must(hex.DecodeString(clean("0001 0203 0405 1011 1213 1415"))), r, spew.Sdump(b))

	require.Equal(t, must(hex.DecodeString(clean("1011 1213 1415"))), Plane(2, 1, r))
}

func TestPlanarizeInvalid(t *testing.T) {
	require.Error(t, Planarize(2, 2, make([]byte, 6), make([]byte, 6)))
	require.Error(t, Planarize(2, 2, make([]byte, 4), make([]byte, 8)))
	require.Error(t, Planarize(2, 2, make([]byte, 2), make([]byte, 2)))
	require.Error(t, Planarize(0, 2, make([]byte, 4), make([]byte, 4)))
}
