package model

// Package model defines the data shared between the view, the bridge and the
// backends: search results (MenuItem) with their canonical wire schema, and
// download tasks with their status enum.
