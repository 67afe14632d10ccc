package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompress(t *testing.T) {
	want := []byte("sprites:\n  - {x: 1, y: 2}\n")

	t.Run("plain", func(t *testing.T) {
		got, err := Decompress("config.yaml", want)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
	t.Run("gzip", func(t *testing.T) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		_, err := zw.Write(want)
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		got, err := Decompress("config.yaml.GZ", buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
	t.Run("zip", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("config.yaml")
		require.NoError(t, err)
		_, err = w.Write(want)
		require.NoError(t, err)
		require.NoError(t, zw.Close())

		got, err := Decompress("config.zip", buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
	t.Run("empty zip", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, zip.NewWriter(&buf).Close())

		_, err := Decompress("config.zip", buf.Bytes())
		assert.Error(t, err)
	})
	t.Run("corrupt gzip", func(t *testing.T) {
		_, err := Decompress("config.gz", want)
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	data, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = LoadFile(path + ".missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{G: 255, A: 255})
	img.SetRGBA(2, 0, color.RGBA{B: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetRGBA(1, 1, color.RGBA{A: 255})
	img.SetRGBA(2, 1, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func TestEncodeDecodeImage(t *testing.T) {
	for _, format := range []string{"png", "bmp", "BMP"} {
		t.Run(format, func(t *testing.T) {
			want := testImage()

			var buf bytes.Buffer
			require.NoError(t, EncodeImage(&buf, want, format))

			got, err := DecodeImage(buf.Bytes())
			require.NoError(t, err)
			require.Equal(t, want.Bounds(), got.Bounds())
			for y := 0; y < 2; y++ {
				for x := 0; x < 3; x++ {
					assert.Equal(t, want.RGBAAt(x, y), got.RGBAAt(x, y), "pixel (%d, %d)", x, y)
				}
			}
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, EncodeImage(&bytes.Buffer{}, testImage(), "gif"))
	})
	t.Run("garbage", func(t *testing.T) {
		_, err := DecodeImage([]byte("not an image"))
		assert.Error(t, err)
	})
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backdrop.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, EncodeImage(f, testImage(), "bmp"))
	require.NoError(t, f.Close())

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 10, G: 20, B: 30, A: 255}, img.RGBAAt(0, 1))
}

func TestWriteScreenshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "screenshots")

	path, err := WriteScreenshot(dir, testImage(), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))
	assert.Equal(t, ".png", filepath.Ext(path))

	img, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, testImage().Bounds(), img.Bounds())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.5, Clamp(0.5, 0.1, 16))
	assert.Equal(t, 16.0, Clamp(0.5, 20, 16))
	assert.Equal(t, 3, Clamp(0, 3, 5))
	assert.Equal(t, uint8(255), Clamp[uint8](0, 255, 255))
}
