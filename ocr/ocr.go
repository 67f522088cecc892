//go:build ocr

// Package ocr wraps the Tesseract engine for the validator's
// text-presence cross-check: recognizing whether a rendered page image
// contains text the analysis output missed.
//
// This implementation requires Tesseract to be installed and the "ocr"
// build tag. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps a Tesseract session. Close it to release resources.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client with the default (English) language.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases the underlying Tesseract resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeImage runs OCR over encoded image data (PNG, JPEG, TIFF) and
// returns the recognized text, trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// SetLanguage selects the recognition language(s), "+"-separated for
// multiple (e.g. "eng+deu").
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}
