package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var (
	neutralStatusColor = color.NRGBA{R: 105, G: 105, B: 105, A: 255} // dim gray
	errorStatusColor   = color.NRGBA{R: 178, G: 34, B: 34, A: 255}   // firebrick
)

// StatusLabel is a single-line status message drawn in a neutral or an
// error color
type StatusLabel struct {
	widget.BaseWidget
	text    string
	isError bool
	textObj *canvas.Text
}

// NewStatusLabel creates a neutral status label
func NewStatusLabel(text string) *StatusLabel {
	sl := &StatusLabel{text: text}
	sl.ExtendBaseWidget(sl)
	return sl
}

// CreateRenderer implements fyne.Widget
func (sl *StatusLabel) CreateRenderer() fyne.WidgetRenderer {
	sl.textObj = canvas.NewText(sl.text, sl.color())
	sl.textObj.Alignment = fyne.TextAlignLeading

	return &statusLabelRenderer{
		label:     sl,
		container: container.NewStack(sl.textObj),
		textObj:   sl.textObj,
	}
}

// SetStatus replaces the message and its coloring
func (sl *StatusLabel) SetStatus(text string, isError bool) {
	sl.text = text
	sl.isError = isError
	sl.Refresh()
}

// Text returns the current message
func (sl *StatusLabel) Text() string {
	return sl.text
}

// IsError reports whether the current message is shown as an error
func (sl *StatusLabel) IsError() bool {
	return sl.isError
}

func (sl *StatusLabel) color() color.Color {
	if sl.isError {
		return errorStatusColor
	}
	return neutralStatusColor
}

type statusLabelRenderer struct {
	label     *StatusLabel
	container *fyne.Container
	textObj   *canvas.Text
}

func (r *statusLabelRenderer) MinSize() fyne.Size {
	return r.container.MinSize()
}

func (r *statusLabelRenderer) Layout(size fyne.Size) {
	r.container.Resize(size)
}

func (r *statusLabelRenderer) Refresh() {
	r.textObj.Text = r.label.text
	r.textObj.Color = r.label.color()
	r.textObj.Refresh()
}

func (r *statusLabelRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.container}
}

func (r *statusLabelRenderer) Destroy() {}
