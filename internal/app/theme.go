package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// OverlayTheme provides a custom theme for the demo application.
type OverlayTheme struct{}

var _ fyne.Theme = (*OverlayTheme)(nil)

func (t *OverlayTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x00, G: 0x96, B: 0x88, A: 0xFF} // Teal for annotations
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0x98, B: 0x00, A: 0x80} // Amber for selected shapes
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *OverlayTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *OverlayTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *OverlayTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameScrollBar:
		return 16 // Wider scrollbar for touch use
	default:
		return theme.DefaultTheme().Size(name)
	}
}
