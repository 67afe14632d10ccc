package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
)

// LoadFile loads the given file and performs decompression if necessary.
// Archives (.zip, .7z) yield the contents of their first file.
func LoadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	return Decompress(filename, data)
}

// Decompress decodes data according to the extension of filename.
// Data with an unrecognised extension is returned as is.
func Decompress(filename string, data []byte) ([]byte, error) {
	r := bytes.NewReader(data)

	// try to assert the compression type from the file extension
	var decoder io.Reader
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".gz":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		decoder = gz
	case ".zip":
		zipReader, err := zip.NewReader(r, int64(len(data)))
		if err != nil {
			return nil, err
		}
		if len(zipReader.File) == 0 {
			return nil, fmt.Errorf("%s: empty archive", filename)
		}

		// read the first file in the zip file
		rc, err := zipReader.File[0].Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		decoder = rc
	case ".7z":
		szReader, err := sevenzip.NewReader(r, int64(len(data)))
		if err != nil {
			return nil, err
		}
		if len(szReader.File) == 0 {
			return nil, fmt.Errorf("%s: empty archive", filename)
		}

		// read the first file in the archive
		rc, err := szReader.File[0].Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		decoder = rc
	default:
		// return the data as is
		return data, nil
	}

	// read the decompressed data into a byte slice
	return io.ReadAll(decoder)
}
