// Package imagedata decodes camera captures posted by the kiosk as base64
// strings or data URLs.
package imagedata

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"
)

// maxPixels bounds the declared dimensions of an accepted capture.
const maxPixels = 40_000_000

var (
	ErrEmpty      = errors.New("no image provided")
	ErrNotBase64  = errors.New("image is not valid base64")
	ErrNotAnImage = errors.New("payload is not a supported image")
	ErrTooLarge   = errors.New("image dimensions too large")
)

// Image is a decoded capture ready to be forwarded to the recognizer.
type Image struct {
	Bytes  []byte
	Format string // "jpeg", "png" or "webp"
	Width  int
	Height int
}

// Decode strips an optional "data:image/...;base64," prefix, decodes the
// base64 body and checks that the bytes carry a JPEG, PNG or WebP header.
// Only the header is parsed; pixel data is left to the recognizer.
func Decode(payload string) (*Image, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrEmpty
	}

	if strings.HasPrefix(payload, "data:") {
		_, body, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, ErrNotBase64
		}
		payload = body
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotBase64, err)
		}
	}
	return Sniff(raw)
}

// Sniff checks raw image bytes the same way Decode does.
func Sniff(raw []byte) (*Image, error) {
	if len(raw) == 0 {
		return nil, ErrEmpty
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, ErrTooLarge
	}

	return &Image{Bytes: raw, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// ContentType returns the MIME type matching the decoded format.
func (i *Image) ContentType() string {
	return "image/" + i.Format
}

// Filename returns a placeholder upload name with the right extension.
func (i *Image) Filename(stem string) string {
	ext := i.Format
	if ext == "jpeg" {
		ext = "jpg"
	}
	return stem + "." + ext
}
