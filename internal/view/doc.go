package view

// Package view holds the search-and-download controller. It owns the screen
// state as a tagged record, turns user intent into bridge calls and reports
// user-facing notices; rendering is left to the ui package.
