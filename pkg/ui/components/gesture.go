package components

import "fyne.io/fyne/v2/widget"

// NewGestureButton is a button that reports the press to onGesture before running tapped.
// The dashboard uses it to detect the first user interaction.
func NewGestureButton(label string, onGesture func(), tapped func()) *widget.Button {
	return widget.NewButton(label, func() {
		if onGesture != nil {
			onGesture()
		}
		if tapped != nil {
			tapped()
		}
	})
}
