package utils

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jsummers/gobmp"
	_ "golang.org/x/image/bmp"
)

// DecodeImage decodes a BMP or PNG image and converts it to RGBA.
func DecodeImage(data []byte) (*image.RGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	return rgba, nil
}

// LoadImage loads (and decompresses if necessary) an image file.
func LoadImage(filename string) (*image.RGBA, error) {
	data, err := LoadFile(filename)
	if err != nil {
		return nil, err
	}

	img, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return img, nil
}

// EncodeImage writes img to w in the given format, either "png"
// or "bmp".
func EncodeImage(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, img)
	case "bmp":
		return gobmp.Encode(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// WriteScreenshot writes img into dir, named after the current
// time, and returns the path of the file written.
func WriteScreenshot(dir string, img image.Image, format string) (string, error) {
	if format == "" {
		format = "png"
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("screenshot-%s.%s", time.Now().Format("20060102-150405.000"), format))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := EncodeImage(f, img, format); err != nil {
		return "", err
	}

	return path, nil
}
