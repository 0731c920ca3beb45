package ui

import (
	"testing"

	fynestorage "fyne.io/fyne/v2/storage"
	"github.com/stretchr/testify/assert"
)

func TestImageFileFilterIgnoresCase(t *testing.T) {
	filter := imageFileFilter{}

	for _, path := range []string{"/photos/IMG_001.JPG", "/photos/cat.png", "/photos/Scan.Bmp", "/photos/sticker.WEBP"} {
		assert.True(t, filter.Matches(fynestorage.NewFileURI(path)), path)
	}
	for _, path := range []string{"/photos/notes.txt", "/photos/README", "/photos/clip.MOV"} {
		assert.False(t, filter.Matches(fynestorage.NewFileURI(path)), path)
	}
}
