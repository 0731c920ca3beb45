package ui

import (
	"errors"
	"grannysporch/preview"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	fynestorage "fyne.io/fyne/v2/storage"
	"github.com/ncruces/zenity"
)

const pickerTitle = "Select an image to share"

// ImagePicker asks the user for an image file. done runs on the UI thread
// with an empty path when the user cancels.
type ImagePicker interface {
	PickImage(startDir string, done func(path string, err error))
}

// newImagePicker prefers the native dialog and falls back to Fyne's own
func newImagePicker(window fyne.Window) ImagePicker {
	if zenity.IsAvailable() {
		return &nativePicker{}
	}
	return &fynePicker{window: window}
}

// nativePicker uses the operating system dialog through zenity
type nativePicker struct{}

func (p *nativePicker) PickImage(startDir string, done func(path string, err error)) {
	// zenity blocks until the dialog closes, so keep it off the UI thread
	go func() {
		options := []zenity.Option{
			zenity.Title(pickerTitle),
			zenity.FileFilters{
				{Name: "Image Files", Patterns: preview.Patterns(), CaseFold: true},
			},
		}
		if startDir != "" {
			// a trailing separator makes zenity treat it as a directory
			options = append(options, zenity.Filename(startDir+string(filepath.Separator)))
		}

		path, err := zenity.SelectFile(options...)
		if errors.Is(err, zenity.ErrCanceled) {
			path, err = "", nil
		}
		fyne.Do(func() {
			done(path, err)
		})
	}()
}

// fynePicker is the in-window fallback dialog
type fynePicker struct {
	window fyne.Window
}

func (p *fynePicker) PickImage(startDir string, done func(path string, err error)) {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			done("", err)
			return
		}
		if reader == nil {
			done("", nil)
			return
		}
		defer reader.Close()
		done(reader.URI().Path(), nil)
	}, p.window)

	fileDialog.SetFilter(imageFileFilter{})

	if startDir != "" {
		if listable, err := fynestorage.ListerForURI(fynestorage.NewFileURI(startDir)); err == nil {
			fileDialog.SetLocation(listable)
		}
	}
	fileDialog.Show()
}

// imageFileFilter shows the supported images whatever the case of their
// extension, so IMG_001.JPG is listed next to photo.png
type imageFileFilter struct{}

func (imageFileFilter) Matches(uri fyne.URI) bool {
	return preview.IsImagePath(uri.Name())
}

// picturesDir returns the user's pictures folder, or the home directory when
// there is none
func picturesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	pictures := filepath.Join(home, "Pictures")
	if info, err := os.Stat(pictures); err == nil && info.IsDir() {
		return pictures
	}
	return home
}
