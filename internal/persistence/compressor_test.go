package persistence

import (
	"bytes"
	"testing"

	"pbcheck/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdCompression_Roundtrip(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	original := []byte(`{"version":1,"keys":{"selection":"{\"white\":[1,2,3,4,5],\"powerball\":6}"}}`)
	compressed, err := c.Compress(original)
	require.NoError(t, err)
	assert.NotEqual(t, original, compressed)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestZstdCompression_LargeData(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	original := bytes.Repeat([]byte(`{"draw_date":"2026-01-17","winning_numbers":"05 08 27 49 57 14"},`), 2000)
	compressed, err := c.Compress(original)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(original)/10)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestZstdCompression_InvalidInput(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Decompress([]byte("definitely not zstd"))
	assert.Error(t, err)
}

func TestNewCompressor_Plain(t *testing.T) {
	c, err := NewCompressor(&structures.Config{Persistence: structures.Persistence{Compress: false}})
	require.NoError(t, err)

	out, err := c.Compress([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)
}
