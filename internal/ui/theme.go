package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// SongTheme is a compact theme with a red accent for the search-and-download window
type SongTheme struct {
	base fyne.Theme
}

// NewSongTheme creates the application theme
func NewSongTheme() fyne.Theme {
	return &SongTheme{base: theme.DefaultTheme()}
}

var (
	accentRed    = color.NRGBA{R: 204, G: 24, B: 30, A: 255}
	successGreen = color.NRGBA{R: 46, G: 160, B: 67, A: 255}
	darkSurface  = color.NRGBA{R: 24, G: 24, B: 24, A: 255}
	lightSurface = color.NRGBA{R: 249, G: 249, B: 249, A: 255}
	selectedTint = color.NRGBA{R: 204, G: 24, B: 30, A: 48}
)

// Color returns theme colors
func (t *SongTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return accentRed
	case theme.ColorNameSelection:
		return selectedTint
	case theme.ColorNameSuccess:
		return successGreen
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return darkSurface
		}
		return lightSurface
	}
	return t.base.Color(name, variant)
}

// Font returns theme fonts
func (t *SongTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon returns theme icons
func (t *SongTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size trims paddings so five results fit without scrolling
func (t *SongTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNameCaptionText:
		return 11
	case theme.SizeNameInputRadius:
		return 4
	}
	return t.base.Size(name)
}
