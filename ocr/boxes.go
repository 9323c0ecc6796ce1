// Package ocr turns photographed timetables into positioned text fragments
// using the Tesseract OCR engine via gosseract.
//
// Recognition is only compiled in with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr tesseract-ocr-rus tesseract-ocr-deu
//
// Without the tag, New returns ErrOCRNotEnabled.
package ocr

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ivanvanderbyl/timetable"
)

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
// Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultLanguages covers the dictionaries shipped with the parser.
var DefaultLanguages = []string{"rus", "eng", "deu"}

// PageSegMode controls how Tesseract analyzes the page layout.
type PageSegMode int

// Page segmentation modes, matching Tesseract's numbering.
const (
	PSM_AUTO         PageSegMode = 3  // Fully automatic
	PSM_SINGLE_BLOCK PageSegMode = 6  // Single uniform block of text
	PSM_SPARSE_TEXT  PageSegMode = 11 // Find as much text as possible
)

// wordBox is a recognized word in pixel coordinates, origin top-left.
type wordBox struct {
	Box  image.Rectangle
	Word string
}

// imageSize returns the pixel dimensions of PNG, JPEG, GIF, BMP, TIFF or
// WebP image data.
func imageSize(imageData []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(imageData))
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to read image dimensions")
	}
	return cfg.Width, cfg.Height, nil
}

// wordFragments converts word boxes into fragments normalized to the unit
// square with a bottom-left origin.
func wordFragments(boxes []wordBox, width, height int) []timetable.Fragment {
	if width <= 0 || height <= 0 {
		return nil
	}

	w, h := float64(width), float64(height)
	fragments := make([]timetable.Fragment, 0, len(boxes))
	for _, b := range boxes {
		if b.Word == "" {
			continue
		}
		fragments = append(fragments, timetable.Fragment{
			Text: b.Word,
			Box: timetable.Rect{
				MinX: clampUnit(float64(b.Box.Min.X) / w),
				MinY: clampUnit(1 - float64(b.Box.Max.Y)/h),
				MaxX: clampUnit(float64(b.Box.Max.X) / w),
				MaxY: clampUnit(1 - float64(b.Box.Min.Y)/h),
			},
		})
	}
	return fragments
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
