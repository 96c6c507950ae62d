// Package ocr rasterizes document pages and recognizes printed text on them.
package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// IdentifierChars is the character set component designators are printed in.
// Lowercase is excluded to reduce confusion (0/O, 1/I, etc.)
const IdentifierChars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// Engine recognizes text in page images using Tesseract.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates a Tesseract engine for lang ("eng" when empty).
func NewEngine(lang string) (*Engine, error) {
	if lang == "" {
		lang = DefaultLanguage
	}

	client := gosseract.NewClient()
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// designators are not dictionary words
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")
	_ = client.SetVariable("language_model_penalty_non_dict_word", "0")
	_ = client.SetVariable("language_model_penalty_non_freq_dict_word", "0")

	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := client.SetWhitelist(IdentifierChars); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set whitelist: %w", err)
	}

	return &Engine{client: client}, nil
}

// Recognize returns the whitespace-separated text found in img.
func (e *Engine) Recognize(img image.Image) (string, error) {
	if img == nil || img.Bounds().Empty() {
		return "", fmt.Errorf("empty image")
	}

	buf, err := EncodePNG(img)
	if err != nil {
		return "", err
	}

	if err := e.client.SetImageFromBytes(buf); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return CleanText(text), nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// EncodePNG serializes img for hand-off to the recognizer.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// CleanText collapses recognizer output onto single spaces.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
