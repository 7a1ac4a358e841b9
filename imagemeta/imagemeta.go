// Package imagemeta probes image files for their pixel dimensions and
// format without decoding pixel data.
//
// Dataset conversion needs the width and height of every scanned page, and
// the scans are large; reading only the header keeps that cheap. Format
// detection goes by magic bytes, never by file extension - a downloaded
// "*.jpg" can turn out to be an HTML error page.
package imagemeta

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	// Registered decoders for image.DecodeConfig. Historical scan corpora
	// are JPEG, PNG or TIFF; TIFF support comes from golang.org/x/image.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// Format represents a recognized image format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// JPEG indicates a JPEG image.
	JPEG
	// PNG indicates a PNG image.
	PNG
	// TIFF indicates a TIFF image (either byte order).
	TIFF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case JPEG:
		return "JPEG"
	case PNG:
		return "PNG"
	case TIFF:
		return "TIFF"
	default:
		return "Unknown"
	}
}

var (
	jpegMagic   = []byte{0xff, 0xd8, 0xff}
	pngMagic    = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	tiffMagicLE = []byte{'I', 'I', 0x2a, 0x00}
	tiffMagicBE = []byte{'M', 'M', 0x00, 0x2a}
)

// Detect sniffs the image format from leading bytes.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return JPEG
	case bytes.HasPrefix(data, pngMagic):
		return PNG
	case bytes.HasPrefix(data, tiffMagicLE), bytes.HasPrefix(data, tiffMagicBE):
		return TIFF
	default:
		return Unknown
	}
}

// IsImage reports whether the data starts like a supported image format.
func IsImage(data []byte) bool {
	return Detect(data) != Unknown
}

// Size returns the pixel dimensions of an image file, reading only as much
// of the file as the header requires.
func Size(path string) (width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	width, height, err = SizeReader(f)
	if err != nil {
		return 0, 0, fmt.Errorf("probing %s: %w", path, err)
	}
	return width, height, nil
}

// SizeReader returns the pixel dimensions of the image data on r.
func SizeReader(r io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
