package ui

import (
	"context"
	"errors"
	"grannysporch/discord"
	"grannysporch/models"
	"grannysporch/preview"
	"grannysporch/storage"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
)

// Texts shown in the status line
const (
	StatusReady          = "Ready."
	StatusSending        = "Sending..."
	StatusSent           = "Sent! Granny will see it soon."
	StatusMissingWebhook = "Please enter a Discord webhook URL."
	StatusEmptyContent   = "Add a story, an image, or both before sending."
	StatusFailedPrefix   = "Failed to send: "
)

const (
	windowTitle      = "Granny's Porch"
	headerText       = "Send photos and stories to Granny's Porch"
	noImageText      = "No image selected"
	logoSize         = 64
	previewMaxWidth  = 160
	previewMaxHeight = 120
)

// Options carries the collaborators of the main window
type Options struct {
	Storage *storage.Manager
	Sender  discord.Sender
	// Picker defaults to the native dialog with a Fyne fallback
	Picker ImagePicker
	// BrandingImage is an optional logo path; a missing file is not an error
	BrandingImage string
	Log           zerolog.Logger
}

// MainWindow is the send form
type MainWindow struct {
	app        fyne.App
	window     fyne.Window
	storage    *storage.Manager
	settings   *models.Settings
	dispatcher *discord.Dispatcher
	picker     ImagePicker
	log        zerolog.Logger

	webhookEntry      *widget.Entry
	storyEntry        *widget.Entry
	chooseImageButton *widget.Button
	sendButton        *widget.Button
	imageLabel        *widget.Label
	imagePreview      *canvas.Image
	statusLabel       *StatusLabel

	imagePath string

	// afterSend runs on the UI thread once a send's outcome is shown
	afterSend func(discord.Result)
}

// NewMainWindow creates the main window on app and loads the saved settings
func NewMainWindow(app fyne.App, opts Options) *MainWindow {
	window := app.NewWindow(windowTitle)
	window.Resize(fyne.NewSize(640, 520))
	window.CenterOnScreen()

	log := opts.Log.With().Str("component", "ui").Logger()
	mw := &MainWindow{
		app:        app,
		window:     window,
		storage:    opts.Storage,
		settings:   opts.Storage.LoadSettings(),
		dispatcher: discord.NewDispatcher(opts.Sender, opts.Log),
		picker:     opts.Picker,
		log:        log,
	}
	if mw.picker == nil {
		mw.picker = newImagePicker(window)
	}

	mw.setupUI(opts.BrandingImage)
	window.SetOnClosed(mw.shutdown)

	return mw
}

// ShowAndRun shows the window and runs the application
func (mw *MainWindow) ShowAndRun() {
	mw.window.ShowAndRun()
}

// setupUI builds the form
func (mw *MainWindow) setupUI(brandingImage string) {
	header := widget.NewLabelWithStyle(headerText, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	branding := container.NewHBox(header)
	if logo := mw.loadBranding(brandingImage); logo != nil {
		branding = container.NewHBox(logo, header)
	}

	mw.webhookEntry = widget.NewEntry()
	mw.webhookEntry.SetPlaceHolder("https://discord.com/api/webhooks/...")
	mw.webhookEntry.SetText(mw.settings.WebhookURL)
	mw.webhookEntry.OnChanged = mw.settings.SetWebhookURL
	mw.webhookEntry.OnSubmitted = func(string) { mw.send() }

	mw.storyEntry = widget.NewMultiLineEntry()
	mw.storyEntry.SetPlaceHolder("Share the highlight of your day...")
	mw.storyEntry.Wrapping = fyne.TextWrapWord
	mw.storyEntry.SetMinRowsVisible(8)

	mw.chooseImageButton = widget.NewButton("Choose Image", mw.chooseImage)
	mw.imageLabel = widget.NewLabel(noImageText)
	mw.imagePreview = canvas.NewImageFromImage(nil)
	mw.imagePreview.FillMode = canvas.ImageFillContain
	mw.imagePreview.SetMinSize(fyne.NewSize(previewMaxWidth, previewMaxHeight))
	mw.imagePreview.Hide()
	imageRow := container.NewVBox(
		container.NewHBox(mw.chooseImageButton, mw.imageLabel),
		container.NewHBox(mw.imagePreview),
	)

	mw.sendButton = widget.NewButton("Send to Discord", mw.send)
	mw.sendButton.Importance = widget.HighImportance

	mw.statusLabel = NewStatusLabel(StatusReady)

	form := container.New(layout.NewFormLayout(),
		widget.NewLabel("Discord Webhook URL"), mw.webhookEntry,
		widget.NewLabel("Story"), mw.storyEntry,
		widget.NewLabel("Image"), imageRow,
		layout.NewSpacer(), container.NewHBox(mw.sendButton),
		layout.NewSpacer(), mw.statusLabel,
	)

	content := container.NewVBox(branding, widget.NewSeparator(), form)
	mw.window.SetContent(container.NewPadded(content))
}

// loadBranding returns the logo, or nil when there is none to show. The same
// file becomes the window icon.
func (mw *MainWindow) loadBranding(path string) fyne.CanvasObject {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		mw.log.Debug().Err(err).Str("path", path).Msg("no branding image")
		return nil
	}
	img, _, err := preview.DecodeBytes(data)
	if err != nil {
		mw.log.Debug().Err(err).Str("path", path).Msg("branding image is not a picture")
		return nil
	}

	mw.window.SetIcon(fyne.NewStaticResource(filepath.Base(path), data))

	logo := canvas.NewImageFromImage(preview.Thumbnail(img, logoSize*2, logoSize*2))
	logo.FillMode = canvas.ImageFillContain
	logo.SetMinSize(fyne.NewSize(logoSize, logoSize))
	return logo
}

// browseDir is where the picker opens
func (mw *MainWindow) browseDir() string {
	if mw.settings.LastImageDirectory != "" {
		return mw.settings.LastImageDirectory
	}
	return picturesDir()
}

func (mw *MainWindow) chooseImage() {
	mw.picker.PickImage(mw.browseDir(), func(path string, err error) {
		if err != nil {
			mw.log.Warn().Err(err).Msg("image picker failed")
			mw.statusLabel.SetStatus("Could not open the image picker: "+err.Error(), true)
			return
		}
		if path == "" {
			return
		}
		mw.setImage(path)
	})
}

// setImage attaches path to the next send and remembers its directory
func (mw *MainWindow) setImage(path string) {
	mw.imagePath = path
	mw.imageLabel.SetText(filepath.Base(path))
	mw.settings.RememberImage(path)

	thumb, err := preview.Load(path, previewMaxWidth, previewMaxHeight)
	if err != nil {
		// still sendable, Discord just gets the raw bytes
		mw.log.Debug().Err(err).Str("path", path).Msg("no preview for image")
		mw.imagePreview.Hide()
		return
	}
	mw.imagePreview.Image = thumb
	mw.imagePreview.Refresh()
	mw.imagePreview.Show()
}

func (mw *MainWindow) send() {
	req := models.NewSendRequest(mw.webhookEntry.Text, mw.storyEntry.Text, mw.imagePath)
	if err := discord.Validate(req); err != nil {
		mw.showResult(err)
		return
	}

	mw.toggleSending(true)
	mw.statusLabel.SetStatus(StatusSending, false)
	if !mw.dispatcher.Dispatch(context.Background(), req, mw.sendFinished) {
		// the send in flight disabled the form and re-enables it when it finishes
		mw.log.Debug().Str("request_id", req.ID).Msg("send ignored, another one is in flight")
		return
	}
	mw.log.Info().Str("request_id", req.ID).Msg("sending")
}

func (mw *MainWindow) sendFinished(result discord.Result) {
	fyne.Do(func() {
		event := mw.log.Info()
		if !result.OK() {
			event = mw.log.Warn().Err(result.Err)
		}
		event.Str("request_id", result.RequestID).Msg("send finished")

		// a newer send may have started between the two; leave the form to it
		if !mw.dispatcher.Busy() {
			mw.showResult(result.Err)
			mw.toggleSending(false)
		}
		if mw.afterSend != nil {
			mw.afterSend(result)
		}
	})
}

func (mw *MainWindow) toggleSending(isSending bool) {
	for _, w := range []fyne.Disableable{mw.sendButton, mw.chooseImageButton, mw.webhookEntry, mw.storyEntry} {
		if isSending {
			w.Disable()
		} else {
			w.Enable()
		}
	}
}

func (mw *MainWindow) showResult(err error) {
	text, isError := StatusText(err)
	mw.statusLabel.SetStatus(text, isError)
}

// StatusText maps a send outcome to the status line and whether it is an error
func StatusText(err error) (string, bool) {
	var sendErr *discord.SendError
	switch {
	case err == nil:
		return StatusSent, false
	case errors.Is(err, discord.ErrMissingWebhook):
		return StatusMissingWebhook, true
	case errors.Is(err, discord.ErrEmptyContent):
		return StatusEmptyContent, true
	case errors.As(err, &sendErr):
		return StatusFailedPrefix + sendErr.Message, true
	default:
		return StatusFailedPrefix + err.Error(), true
	}
}

// shutdown persists the settings once, when the window closes
func (mw *MainWindow) shutdown() {
	mw.storage.SaveSettings(mw.settings)
}
