package ui

import (
	"fyne.io/fyne/v2"
)

// AppIcon is the logo file looked up next to the binary
const AppIcon = "song-downloader.png"

// LoadLogoResource loads the logo from file path
func LoadLogoResource() (fyne.Resource, error) {
	return fyne.LoadResourceFromPath(AppIcon)
}
