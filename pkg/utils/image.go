//go:build !test

package utils

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/sqweek/dialog"
	"golang.design/x/clipboard"
)

func CopyImage(img image.Image) error {
	err := clipboard.Init()
	if err != nil {
		return err
	}

	// encode image to byte slice
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		return err
	}

	clipboard.Write(clipboard.FmtImage, b.Bytes())

	return nil
}

// SaveImage asks the user where to save img. Cancelling the dialog
// is not an error.
func SaveImage(img image.Image) error {
	// ask user where to save the image
	filename, err := dialog.File().Filter("PNG Image", "png").Filter("Bitmap Image", "bmp").Title("Save Image").Save()
	if errors.Is(err, dialog.ErrCancelled) {
		return nil
	} else if err != nil {
		return err
	}

	format := "png"
	if strings.HasSuffix(strings.ToLower(filename), ".bmp") {
		format = "bmp"
	} else if !strings.HasSuffix(strings.ToLower(filename), ".png") {
		filename += ".png"
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return EncodeImage(file, img, format)
}
