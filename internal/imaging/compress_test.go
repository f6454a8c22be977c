package imaging

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressProducesValidJPEG(t *testing.T) {
	src := noiseImage(320, 240, 3)

	data, err := Compress(src, 85)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, src.Bounds().Dx(), decoded.Bounds().Dx())
	assert.Equal(t, src.Bounds().Dy(), decoded.Bounds().Dy())
}

func TestCompressLowerQualityIsSmaller(t *testing.T) {
	src := noiseImage(320, 240, 4)

	low, err := Compress(src, 40)
	require.NoError(t, err)
	high, err := Compress(src, 95)
	require.NoError(t, err)

	assert.Less(t, len(low), len(high))
}

func TestCompressDeterministic(t *testing.T) {
	src := noiseImage(320, 240, 5)

	a, err := Compress(src, 85)
	require.NoError(t, err)
	b, err := Compress(src, 85)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestDecodeRoundTrip(t *testing.T) {
	src := checkerImage(64, 64)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestDecodeGarbage(t *testing.T) {
	_, err := Decode([]byte("not an image"))
	assert.Error(t, err)
}

func TestDownscaleCapsLongestSide(t *testing.T) {
	src := flatImage(3200, 1600)

	out := Downscale(src, 1600)
	assert.Equal(t, 1600, out.Bounds().Dx())
	assert.Equal(t, 800, out.Bounds().Dy())
}

func TestDownscalePortrait(t *testing.T) {
	src := flatImage(1000, 4000)

	out := Downscale(src, 2000)
	assert.Equal(t, 2000, out.Bounds().Dy())
	assert.Equal(t, 500, out.Bounds().Dx())
}

func TestDownscaleNoOpWithinCap(t *testing.T) {
	src := flatImage(800, 600)

	out := Downscale(src, 1600)
	assert.Equal(t, src.Bounds(), out.Bounds())
}
