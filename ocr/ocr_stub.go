//go:build !ocr

// Package ocr wraps the Tesseract engine for the validator's
// text-presence cross-check. Without the "ocr" build tag this stub is
// compiled instead, so the module builds on systems without Tesseract
// installed. Build with:
//
//	go build -tags ocr
//
// to enable real recognition.
package ocr

import "errors"

// ErrOCRNotEnabled is returned by every stub method. Rebuild with the
// "ocr" tag to enable recognition.
var ErrOCRNotEnabled = errors.New("ocr support not enabled: rebuild with -tags ocr and install tesseract")

// Client is a no-op placeholder compiled when OCR support is disabled.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op.
func (c *Client) Close() error { return nil }

// RecognizeImage returns ErrOCRNotEnabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// SetLanguage returns ErrOCRNotEnabled.
func (c *Client) SetLanguage(lang string) error { return ErrOCRNotEnabled }
