// Package preview decodes the images a user can pick and scales them down
// for display in the form.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Decoders for every extension the picker offers
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Extensions lists the image types offered by the picker, without dots
var Extensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "webp"}

// Patterns returns Extensions as glob patterns such as "*.png"
func Patterns() []string {
	patterns := make([]string, len(Extensions))
	for i, ext := range Extensions {
		patterns[i] = "*." + ext
	}
	return patterns
}

// IsImagePath reports whether path has one of the supported extensions
func IsImagePath(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, known := range Extensions {
		if ext == known {
			return true
		}
	}
	return false
}

// Decode reads and decodes the image at path. The format name is the one
// registered by the decoder ("png", "jpeg", ...).
func Decode(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, format, nil
}

// DecodeBytes decodes an image already read into memory
func DecodeBytes(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// Thumbnail scales img down to fit within maxWidth x maxHeight keeping its
// aspect ratio. Images that already fit are returned as they are.
func Thumbnail(img image.Image, maxWidth, maxHeight uint) image.Image {
	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3)
}

// Load decodes path and returns its thumbnail
func Load(path string, maxWidth, maxHeight uint) (image.Image, error) {
	img, _, err := Decode(path)
	if err != nil {
		return nil, err
	}
	return Thumbnail(img, maxWidth, maxHeight), nil
}
