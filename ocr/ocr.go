//go:build ocr

package ocr

import (
	"github.com/otiai10/gosseract/v2"
	"github.com/pkg/errors"

	"github.com/ivanvanderbyl/timetable"
)

// Client wraps Tesseract for fragment recognition.
type Client struct {
	client    *gosseract.Client
	gapFactor float64
}

// New creates a new OCR client configured for sparse table text.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to set page segmentation mode")
	}
	return &Client{
		client:    client,
		gapFactor: timetable.DefaultRunGapFactor,
	}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c != nil && c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetLanguage sets the language(s) for OCR recognition, e.g. "rus", "deu".
func (c *Client) SetLanguage(langs ...string) error {
	return c.client.SetLanguage(langs...)
}

// SetPageSegMode sets the page segmentation mode.
func (c *Client) SetPageSegMode(mode PageSegMode) error {
	return c.client.SetPageSegMode(gosseract.PageSegMode(mode))
}

// RecognizeFragments performs OCR on image data (PNG, JPEG, GIF, BMP,
// TIFF or WebP) and returns the recognized text runs with boxes
// normalized to the unit square, origin bottom-left.
func (c *Client) RecognizeFragments(imageData []byte) ([]timetable.Fragment, error) {
	width, height, err := imageSize(imageData)
	if err != nil {
		return nil, err
	}

	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, errors.Wrap(err, "failed to set image")
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, errors.Wrap(err, "OCR failed")
	}

	words := make([]wordBox, len(boxes))
	for i, b := range boxes {
		words[i] = wordBox{Box: b.Box, Word: b.Word}
	}

	return timetable.MergeRuns(wordFragments(words, width, height), c.gapFactor), nil
}
