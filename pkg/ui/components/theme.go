package components

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// LargeTextScale matches 22px text over the 16px default
const LargeTextScale = 22.0 / 16.0

var (
	contrastBackground = color.NRGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
	contrastSurface    = color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	contrastAccent     = color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
)

// AccessibleTheme layers the large text and high contrast options over a base theme
type AccessibleTheme struct {
	base         fyne.Theme
	LargeText    bool
	HighContrast bool
}

func NewAccessibleTheme(largeText, highContrast bool) *AccessibleTheme {
	return &AccessibleTheme{
		base:         theme.DefaultTheme(),
		LargeText:    largeText,
		HighContrast: highContrast,
	}
}

func (t *AccessibleTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if !t.HighContrast {
		return t.base.Color(name, variant)
	}

	switch name {
	case theme.ColorNameBackground:
		return contrastBackground
	case theme.ColorNameInputBackground, theme.ColorNameMenuBackground, theme.ColorNameOverlayBackground:
		return contrastSurface
	case theme.ColorNameForeground:
		return color.White
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return contrastAccent
	}
	return t.base.Color(name, theme.VariantDark)
}

func (t *AccessibleTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *AccessibleTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *AccessibleTheme) Size(name fyne.ThemeSizeName) float32 {
	size := t.base.Size(name)
	if !t.LargeText {
		return size
	}

	switch name {
	case theme.SizeNameText, theme.SizeNameHeadingText, theme.SizeNameSubHeadingText,
		theme.SizeNameCaptionText, theme.SizeNameInlineIcon:
		return size * LargeTextScale
	}
	return size
}
