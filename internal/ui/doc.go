package ui

// Package ui contains the Fyne desktop interface. It renders view.State from
// the search-and-download controller, turns controller notices into dialogs
// and keeps user settings in sync with the download backend.
