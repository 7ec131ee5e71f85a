package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeCommandOutput(t *testing.T) {
	t.Run("utf8 is trimmed", func(t *testing.T) {
		out, err := DecodeCommandOutput([]byte("  Dark\n"))

		require.NoError(t, err)
		require.Equal(t, "Dark", out)
	})

	t.Run("macroman falls back", func(t *testing.T) {
		// 0x8E is "é" in MacRoman and invalid as a lone UTF-8 byte.
		out, err := DecodeCommandOutput([]byte{'c', 'a', 'f', 0x8E, '\n'})

		require.NoError(t, err)
		require.Equal(t, "café", out)
	})
}
