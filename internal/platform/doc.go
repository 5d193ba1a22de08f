package platform

// Package platform contains OS integration: download directories, safe file
// naming and open/reveal of finished songs in the system file manager.
