package preview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Result is a rendered quicklook ready to return to a client.
type Result struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Fit downsizes img so that neither side exceeds maxSize. Smaller images
// are returned unchanged in size. A non-positive maxSize disables resizing.
func Fit(img image.Image, maxSize int) image.Image {
	if maxSize <= 0 {
		return img
	}
	return imaging.Fit(img, maxSize, maxSize, imaging.Box)
}

// Encode fits img into maxSize and encodes it as base64 PNG.
func Encode(img image.Image, maxSize int) (*Result, error) {
	fitted := Fit(img, maxSize)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fitted, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}

	return &Result{
		Width:       fitted.Bounds().Dx(),
		Height:      fitted.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Save fits img into maxSize and writes it as a PNG at path, creating
// parent directories.
func Save(img image.Image, path string, maxSize int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create preview directory: %w", err)
	}
	if err := imaging.Save(Fit(img, maxSize), path); err != nil {
		return fmt.Errorf("failed to save preview %s: %w", path, err)
	}
	return nil
}

// PathFor returns the quicklook path next to a raster output: the same name
// with a .png extension.
func PathFor(rasterPath string) string {
	return rasterPath[:len(rasterPath)-len(filepath.Ext(rasterPath))] + ".png"
}
